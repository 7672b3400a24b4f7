package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/recipes-be/internal/apperr"
	"github.com/isdelr/recipes-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandler_GetRecent_Limit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", defaultEventLimit},
		{"?limit=5", 5},
		{"?limit=0", defaultEventLimit},
		{"?limit=-3", defaultEventLimit},
		{"?limit=abc", defaultEventLimit},
		{"?limit=1000", maxEventLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got int
			svc := &mockEventService{
				recentFn: func(_ context.Context, limit int) ([]models.Event, error) {
					got = limit
					return []models.Event{}, nil
				},
			}
			rec := httptest.NewRecorder()
			NewEventHandler(svc).GetRecent(rec, newRequest(t, http.MethodGet, "/events"+tt.query, "", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventHandler_GetRecent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockEventService{
		recentFn: func(context.Context, int) ([]models.Event, error) {
			return []models.Event{{
				ID:        "8c1d2e3f-0a9b-4c5d-8e7f-6a5b4c3d2e1f",
				Type:      models.EventRecipeCreated,
				RecipeID:  recipeID,
				UserID:    &testUser.ID,
				Message:   "Recipe created: Soup",
				CreatedAt: now,
			}}, nil
		},
	}
	rec := httptest.NewRecorder()
	NewEventHandler(svc).GetRecent(rec, newRequest(t, http.MethodGet, "/events", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeData[[]models.Event](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventRecipeCreated, events[0].Type)
	assert.True(t, now.Equal(events[0].CreatedAt))
}

func TestEventHandler_GetRecent_StorageError(t *testing.T) {
	svc := &mockEventService{
		recentFn: func(context.Context, int) ([]models.Event, error) { return nil, errors.New("db down") },
	}
	rec := httptest.NewRecorder()
	NewEventHandler(svc).GetRecent(rec, newRequest(t, http.MethodGet, "/events", "", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperr.CodeUnknown, decodeEnvelope(t, rec).Code)
}
