package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/isdelr/recipes-be/internal/api/respond"
	"github.com/isdelr/recipes-be/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles liveness/readiness probes.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		respond.Error(w, apperr.ErrServiceUnavailable.WithCause(err))
		return
	}
	respond.Message(w, http.StatusOK, "ok")
}
