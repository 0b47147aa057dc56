// Package seed provides the fixed initial feed document and helpers to
// generate demo content for development.
package seed

import "promptfeed/internal/models"

// Users returns the fixed set of users every new feed document starts with.
func Users() []models.User {
	return []models.User{
		{
			ID:          "1",
			Username:    "artcreator",
			DisplayName: "Art Creator",
			Avatar:      "https://placehold.co/100x100?text=AC",
			Bio:         "AI art enthusiast creating stunning visuals",
			JoinDate:    "2024-01-15",
			Followers:   1250,
			Following:   350,
		},
		{
			ID:          "2",
			Username:    "digitalartist",
			DisplayName: "Digital Artist",
			Avatar:      "https://placehold.co/100x100?text=DA",
			Bio:         "Exploring the boundaries of AI-generated art",
			JoinDate:    "2024-02-10",
			Followers:   890,
			Following:   420,
		},
		{
			ID:          "3",
			Username:    "promptmaster",
			DisplayName: "Prompt Master",
			Avatar:      "https://placehold.co/100x100?text=PM",
			Bio:         "Crafting the perfect prompts for AI magic",
			JoinDate:    "2024-03-05",
			Followers:   2100,
			Following:   180,
		},
	}
}

// Document returns a fresh seed document: the fixed users, no posts, no comments.
func Document() *models.Store {
	return &models.Store{
		Users:    Users(),
		Posts:    []models.Post{},
		Comments: []models.Comment{},
	}
}
