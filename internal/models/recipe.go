package models

import "time"

// Recipe is a stored recipe. A persisted recipe always has a non-empty name
// and a difficulty between 1 and 3.
type Recipe struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Difficulty int       `json:"difficulty"`
	Vegetarian bool      `json:"vegetarian"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewRecipe holds validated fields for a recipe that is about to be created.
type NewRecipe struct {
	Name       string
	Difficulty int
	Vegetarian bool
}

// RecipePatch holds validated fields for a partial update. Nil fields are
// left untouched.
type RecipePatch struct {
	Name       string
	Difficulty *int
	Vegetarian *bool
}
