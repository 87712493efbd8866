package models

import "time"

// MenuItem is catalog entry
type MenuItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	Available bool      `json:"available"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MenuItemUpdate contains fields to change, nil fields are kept
type MenuItemUpdate struct {
	Name      *string
	Price     *float64
	Category  *string
	Available *bool
	Image     *string
}
