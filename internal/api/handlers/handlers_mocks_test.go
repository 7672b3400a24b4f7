package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/recipes-be/internal/api/respond"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockRecipeService struct {
	getAllFn  func(ctx context.Context) ([]models.Recipe, error)
	getByIDFn func(ctx context.Context, id string) (models.Recipe, services.Lookup, error)
	createFn  func(ctx context.Context, recipe models.NewRecipe) (models.Recipe, error)
	updateFn  func(ctx context.Context, id string, patch models.RecipePatch) (models.Recipe, services.Lookup, error)
	deleteFn  func(ctx context.Context, id string) (bool, error)
}

func (m *mockRecipeService) GetAllRecipes(ctx context.Context) ([]models.Recipe, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx)
	}
	return []models.Recipe{}, nil
}

func (m *mockRecipeService) GetRecipeByID(ctx context.Context, id string) (models.Recipe, services.Lookup, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return models.Recipe{}, services.NotFound, nil
}

func (m *mockRecipeService) CreateRecipe(ctx context.Context, recipe models.NewRecipe) (models.Recipe, error) {
	if m.createFn != nil {
		return m.createFn(ctx, recipe)
	}
	return models.Recipe{}, errors.New("not implemented")
}

func (m *mockRecipeService) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch) (models.Recipe, services.Lookup, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return models.Recipe{}, services.NotFound, errors.New("not implemented")
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

type recordedEvent struct {
	Type     string
	RecipeID string
	UserID   *string
}

type mockEventService struct {
	created   []recordedEvent
	createErr error
	recentFn  func(ctx context.Context, limit int) ([]models.Event, error)
}

func (m *mockEventService) CreateEvent(_ context.Context, eventType, recipeID, _ string, userID *string) error {
	m.created = append(m.created, recordedEvent{Type: eventType, RecipeID: recipeID, UserID: userID})
	return m.createErr
}

func (m *mockEventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return []models.Event{}, nil
}

func (m *mockEventService) PruneEvents(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type mockUserService struct {
	getFn func(ctx context.Context, username string) (models.User, error)
}

func (m *mockUserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, username)
	}
	return models.User{}, services.ErrUserNotFound
}

func (m *mockUserService) CreateUser(context.Context, string, string) (models.User, error) {
	return models.User{}, errors.New("not implemented")
}

type mockSigner struct {
	token string
	err   error
}

func (m *mockSigner) Sign(models.Identity) (string, error) {
	return m.token, m.err
}

// --- Helpers ---

var testUser = models.Identity{ID: "0b0f4c53-55a5-4c8b-9d0c-7e1f2f3d4a5b", Username: "admin"}

// newRequest builds a request with an optional JSON body, chi URL params and
// authenticated claims.
func newRequest(t *testing.T, method, target, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = auth.WithClaims(ctx, &auth.Claims{UserID: testUser.ID, Username: testUser.Username})
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env.Data
}
