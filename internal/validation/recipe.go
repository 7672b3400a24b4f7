// Package validation checks recipe payloads before they reach storage.
// Every function here is pure: it looks at decoded JSON values and returns
// either the typed value or the *apperr.Error to report.
package validation

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/isdelr/recipes-be/internal/apperr"
	"github.com/isdelr/recipes-be/internal/models"
)

// Field is a JSON member that remembers whether the client sent it.
// An explicit null counts as sent.
type Field struct {
	Set   bool
	Value any
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are kept as
// json.Number so that values outside float64 range still decode.
func (f *Field) UnmarshalJSON(b []byte) error {
	f.Set = true
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(&f.Value)
}

// CreateRecipeInput is the body of a create request.
type CreateRecipeInput struct {
	Name       Field `json:"name"`
	Difficulty Field `json:"difficulty"`
	Vegetarian Field `json:"vegetarian"`
}

// UpdateRecipeInput is the body of a partial update. Members is the number of
// top-level members in the body, known or not.
type UpdateRecipeInput struct {
	Name       Field `json:"name"`
	Difficulty Field `json:"difficulty"`
	Vegetarian Field `json:"vegetarian"`
	Members    int   `json:"-"`
}

// Vegetarian accepts only JSON booleans.
func Vegetarian(v any) (bool, *apperr.Error) {
	b, ok := v.(bool)
	if !ok {
		return false, apperr.ErrInvalidVegetarian
	}
	return b, nil
}

// Name accepts only non-empty strings.
func Name(v any) (string, *apperr.Error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", apperr.ErrInvalidName
	}
	return s, nil
}

// Difficulty accepts only integral numbers between 1 and 3 inclusive.
func Difficulty(v any) (int, *apperr.Error) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, apperr.ErrInvalidDifficulty
		}
		f = parsed
	case float64:
		f = n
	default:
		return 0, apperr.ErrInvalidDifficulty
	}
	if f != math.Trunc(f) || f < 1 || f > 3 {
		return 0, apperr.ErrInvalidDifficulty
	}
	return int(f), nil
}

// ValidateCreate checks vegetarian, name and difficulty in that order and
// reports the first failure.
func ValidateCreate(in CreateRecipeInput) (models.NewRecipe, *apperr.Error) {
	vegetarian, err := Vegetarian(in.Vegetarian.Value)
	if err != nil {
		return models.NewRecipe{}, err
	}
	name, err := Name(in.Name.Value)
	if err != nil {
		return models.NewRecipe{}, err
	}
	difficulty, err := Difficulty(in.Difficulty.Value)
	if err != nil {
		return models.NewRecipe{}, err
	}
	return models.NewRecipe{Name: name, Difficulty: difficulty, Vegetarian: vegetarian}, nil
}

// ValidateUpdate rejects an empty body, then checks name, then difficulty and
// vegetarian when they were sent.
func ValidateUpdate(in UpdateRecipeInput) (models.RecipePatch, *apperr.Error) {
	if in.Members == 0 {
		return models.RecipePatch{}, apperr.ErrInvalidInput
	}

	name, err := Name(in.Name.Value)
	if err != nil {
		return models.RecipePatch{}, err
	}
	patch := models.RecipePatch{Name: name}

	if in.Difficulty.Set {
		difficulty, err := Difficulty(in.Difficulty.Value)
		if err != nil {
			return models.RecipePatch{}, err
		}
		patch.Difficulty = &difficulty
	}

	if in.Vegetarian.Set {
		vegetarian, err := Vegetarian(in.Vegetarian.Value)
		if err != nil {
			return models.RecipePatch{}, err
		}
		patch.Vegetarian = &vegetarian
	}

	return patch, nil
}
