package models

// Store is the whole persisted feed document.
type Store struct {
	Users    []User    `json:"users"`
	Posts    []Post    `json:"posts"`
	Comments []Comment `json:"comments"`
}

// Normalize replaces nil slices with empty ones so the document always
// serializes arrays, never null.
func (s *Store) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	for i := range s.Posts {
		p := &s.Posts[i]
		if p.LikedBy == nil {
			p.LikedBy = []string{}
		}
		if p.Comments == nil {
			p.Comments = []Comment{}
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		for j := range p.Comments {
			if p.Comments[j].Replies == nil {
				p.Comments[j].Replies = []Comment{}
			}
		}
	}
	for i := range s.Comments {
		if s.Comments[i].Replies == nil {
			s.Comments[i].Replies = []Comment{}
		}
	}
}

// FindUser returns a pointer into Users or nil.
func (s *Store) FindUser(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// FindPost returns a pointer into Posts or nil.
func (s *Store) FindPost(id string) *Post {
	for i := range s.Posts {
		if s.Posts[i].ID == id {
			return &s.Posts[i]
		}
	}
	return nil
}
