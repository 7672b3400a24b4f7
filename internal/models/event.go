package models

import "time"

// Event types recorded for recipe changes.
const (
	EventRecipeCreated = "recipe.created"
	EventRecipeUpdated = "recipe.updated"
	EventRecipeDeleted = "recipe.deleted"
)

// Event records a change made to a recipe and who made it.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g., "recipe.created"
	RecipeID  string    `json:"recipeId"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for changes made outside the API
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
