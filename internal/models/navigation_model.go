package models

import "time"

type NavigationItem struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	URL        string `json:"url"`
	IsExternal bool   `json:"isExternal"`
}

type Navigation struct {
	Items     []NavigationItem `json:"items"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func DefaultNavigation() *Navigation {
	return &Navigation{
		Items: []NavigationItem{
			{ID: "1", Label: "Home", URL: "/"},
			{ID: "2", Label: "Recipes", URL: "/blogs"},
			{ID: "3", Label: "About", URL: "/about"},
			{ID: "4", Label: "Contact", URL: "/contact"},
		},
		UpdatedAt: time.Now().UTC(),
	}
}
