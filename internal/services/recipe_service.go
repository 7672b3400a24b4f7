package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/recipes-be/internal/models"
	"github.com/jonboulle/clockwork"
)

// RecipeServiceProvider defines the interface for recipe services.
type RecipeServiceProvider interface {
	GetAllRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (models.Recipe, Lookup, error)
	CreateRecipe(ctx context.Context, recipe models.NewRecipe) (models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch) (models.Recipe, Lookup, error)
	DeleteRecipe(ctx context.Context, id string) (bool, error)
}

// RecipeService stores recipes in the recipes table.
type RecipeService struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(db *sql.DB, clock clockwork.Clock) *RecipeService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RecipeService{db: db, clock: clock}
}

const recipeColumns = "id, name, difficulty, vegetarian, created_at, updated_at"

// scanRecipe is a helper to scan a recipe from a row or rows object.
func scanRecipe(scanner interface{ Scan(...any) error }) (models.Recipe, error) {
	var r models.Recipe
	err := scanner.Scan(&r.ID, &r.Name, &r.Difficulty, &r.Vegetarian, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// canonicalID normalizes a recipe id, reporting false for ids that are not UUIDs.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// GetAllRecipes retrieves all recipes, oldest first.
func (s *RecipeService) GetAllRecipes(ctx context.Context) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+recipeColumns+" FROM recipes ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return recipes, nil
}

// GetRecipeByID retrieves a single recipe. Malformed ids are reported through
// the Lookup result, not as an error.
func (s *RecipeService) GetRecipeByID(ctx context.Context, id string) (models.Recipe, Lookup, error) {
	key, ok := canonicalID(id)
	if !ok {
		return models.Recipe{}, MalformedID, nil
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = ?", key)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Recipe{}, NotFound, nil
		}
		return models.Recipe{}, NotFound, fmt.Errorf("db error: %w", err)
	}
	return recipe, Found, nil
}

// CreateRecipe inserts a new recipe with a fresh id.
func (s *RecipeService) CreateRecipe(ctx context.Context, in models.NewRecipe) (models.Recipe, error) {
	now := s.clock.Now().UTC()
	recipe := models.Recipe{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Difficulty: in.Difficulty,
		Vegetarian: in.Vegetarian,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO recipes ("+recipeColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		recipe.ID, recipe.Name, recipe.Difficulty, recipe.Vegetarian, recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("db error: %w", err)
	}
	return recipe, nil
}

// UpdateRecipe applies a partial update and returns the stored result.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch) (models.Recipe, Lookup, error) {
	key, ok := canonicalID(id)
	if !ok {
		return models.Recipe{}, MalformedID, nil
	}

	var difficulty sql.NullInt64
	if patch.Difficulty != nil {
		difficulty = sql.NullInt64{Int64: int64(*patch.Difficulty), Valid: true}
	}
	var vegetarian sql.NullBool
	if patch.Vegetarian != nil {
		vegetarian = sql.NullBool{Bool: *patch.Vegetarian, Valid: true}
	}

	const query = `
		UPDATE recipes SET name = ?,
		                   difficulty = COALESCE(?, difficulty),
		                   vegetarian = COALESCE(?, vegetarian),
		                   updated_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, patch.Name, difficulty, vegetarian, s.clock.Now().UTC(), key)
	if err != nil {
		return models.Recipe{}, NotFound, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Recipe{}, NotFound, fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return models.Recipe{}, NotFound, nil
	}

	return s.GetRecipeByID(ctx, key)
}

// DeleteRecipe removes a recipe and reports whether a row was deleted.
// Deleting an id that does not exist succeeds; a malformed id returns
// ErrMalformedID.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	key, ok := canonicalID(id)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", key)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected > 0, nil
}
