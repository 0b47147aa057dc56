// Package models defines the feed document entities and application errors.
package models

// User is a feed member. Users are only created by seeding.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio"`
	JoinDate    string `json:"joinDate"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}
