package models

import "time"

// TimestampLayout is the createdAt format: UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a createdAt string. Unparseable values sort as the zero time.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Post is a generated image shared to the feed. Author is a snapshot of the
// user taken at creation time and is not refreshed afterwards.
type Post struct {
	ID        string    `json:"id"`
	Author    User      `json:"author"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"imageUrl"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt string    `json:"createdAt"`
	Likes     int       `json:"likes"`
	LikedBy   []string  `json:"likedBy"`
	Comments  []Comment `json:"comments"`
	Shares    int       `json:"shares"`
	Tags      []string  `json:"tags"`
}

// CreatePostData is the input to post creation.
type CreatePostData struct {
	Prompt       string
	Caption      string
	AuthorID     string
	Tags         []string
	SystemPrompt string
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
