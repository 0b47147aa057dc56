package models

// Comment is a remark on a post. It is stored in the flat comment collection
// and duplicated into the parent post's Comments.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"createdAt"`
	Likes     int       `json:"likes"`
	Replies   []Comment `json:"replies"`
}

// CreateCommentData is the input to comment creation.
type CreateCommentData struct {
	PostID   string
	AuthorID string
	Content  string
}
