package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/recipes-be/internal/api/respond"
	"github.com/isdelr/recipes-be/internal/apperr"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/metrics"
	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TokenSigner issues session tokens for authenticated users.
type TokenSigner interface {
	Sign(user models.Identity) (string, error)
}

// UserHandler handles login and identity requests.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  TokenSigner
	metrics *metrics.LoginMetrics
}

// NewUserHandler creates a new UserHandler. m may be nil.
func NewUserHandler(service services.UserServiceProvider, tokens TokenSigner, m *metrics.LoginMetrics) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, metrics: m}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the envelope returned on a successful login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	respond.Envelope
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		h.metrics.Observe(metrics.LoginInvalidInput)
		respond.Error(w, apperr.ErrLoginInput.WithCause(err))
		return
	}
	if payload.Username == "" || payload.Password == "" {
		h.metrics.Observe(metrics.LoginInvalidInput)
		respond.Error(w, apperr.ErrLoginInput)
		return
	}

	user, err := h.service.GetUserByUsername(r.Context(), payload.Username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt: unknown user")
			h.metrics.Observe(metrics.LoginInvalidCredentials)
			respond.Error(w, apperr.ErrInvalidCredentials)
			return
		}
		h.fail(w, err, payload.Username, "Failed to look up user")
		return
	}

	ok, err := auth.ComparePassword(user.PasswordHash, payload.Password)
	if err != nil {
		h.fail(w, err, payload.Username, "Failed to verify password")
		return
	}
	if !ok {
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt: wrong password")
		h.metrics.Observe(metrics.LoginInvalidCredentials)
		respond.Error(w, apperr.ErrInvalidCredentials)
		return
	}

	identity := models.Identity{ID: user.ID, Username: user.Username}
	token, err := h.tokens.Sign(identity)
	if err != nil {
		h.fail(w, err, payload.Username, "Failed to generate JWT")
		return
	}

	h.metrics.Observe(metrics.LoginSuccess)
	respond.JSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		Envelope:    respond.Envelope{Success: true, Data: identity},
	})
}

func (h *UserHandler) fail(w http.ResponseWriter, err error, username, msg string) {
	log.Error().Err(err).Str("username", username).Msg(msg)
	h.metrics.Observe(metrics.LoginError)
	respond.Error(w, apperr.ErrLoginFailed.WithCause(err))
}

// GetMe returns the identity carried by the caller's token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		respond.Error(w, apperr.ErrNotAuthenticated)
		return
	}
	respond.Data(w, http.StatusOK, claims.Identity())
}
