package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/recipes-be/internal/apperr"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/metrics"
	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedAdmin(t *testing.T) models.User {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	return models.User{ID: testUser.ID, Username: testUser.Username, PasswordHash: hash}
}

func TestUserHandler_Login(t *testing.T) {
	admin := storedAdmin(t)
	svc := &mockUserService{
		getFn: func(_ context.Context, username string) (models.User, error) {
			if username == admin.Username {
				return admin, nil
			}
			return models.User{}, services.ErrUserNotFound
		},
	}
	m := metrics.NewLoginMetrics(prometheus.NewRegistry())
	h := NewUserHandler(svc, &mockSigner{token: "signed.jwt.token"}, m)

	rec := httptest.NewRecorder()
	h.Login(rec, newRequest(t, http.MethodPost, "/login", `{"username":"admin","password":"correct-horse"}`, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AccessToken string          `json:"accessToken"`
		Success     bool            `json:"success"`
		Data        models.Identity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "signed.jwt.token", resp.AccessToken)
	assert.Equal(t, testUser, resp.Data)
	assert.NotContains(t, rec.Body.String(), "correct-horse")
	assert.NotContains(t, rec.Body.String(), admin.PasswordHash)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues(metrics.LoginSuccess)))
}

func TestUserHandler_Login_Failures(t *testing.T) {
	admin := storedAdmin(t)

	tests := []struct {
		name       string
		body       string
		lookupErr  error
		signErr    error
		wantStatus int
		wantCode   string
		outcome    string
	}{
		{"malformed json", `{"username":`, nil, nil, http.StatusBadRequest, apperr.CodeLoginError, metrics.LoginInvalidInput},
		{"missing password", `{"username":"admin"}`, nil, nil, http.StatusBadRequest, apperr.CodeLoginError, metrics.LoginInvalidInput},
		{"empty username", `{"username":"","password":"x"}`, nil, nil, http.StatusBadRequest, apperr.CodeLoginError, metrics.LoginInvalidInput},
		{"unknown user", `{"username":"ghost","password":"correct-horse"}`, services.ErrUserNotFound, nil, http.StatusBadRequest, apperr.CodeInvalidCredentials, metrics.LoginInvalidCredentials},
		{"wrong password", `{"username":"admin","password":"wrong"}`, nil, nil, http.StatusBadRequest, apperr.CodeInvalidCredentials, metrics.LoginInvalidCredentials},
		{"storage down", `{"username":"admin","password":"correct-horse"}`, errors.New("db down"), nil, http.StatusInternalServerError, apperr.CodeLoginError, metrics.LoginError},
		{"signing fails", `{"username":"admin","password":"correct-horse"}`, nil, errors.New("no key"), http.StatusInternalServerError, apperr.CodeLoginError, metrics.LoginError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUserService{
				getFn: func(context.Context, string) (models.User, error) {
					if tt.lookupErr != nil {
						return models.User{}, tt.lookupErr
					}
					return admin, nil
				},
			}
			m := metrics.NewLoginMetrics(prometheus.NewRegistry())
			h := NewUserHandler(svc, &mockSigner{token: "t", err: tt.signErr}, m)

			rec := httptest.NewRecorder()
			h.Login(rec, newRequest(t, http.MethodPost, "/login", tt.body, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.NotContains(t, rec.Body.String(), "accessToken")
			assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues(tt.outcome)))
		})
	}
}

func TestUserHandler_Login_SameResponseForUnknownUserAndWrongPassword(t *testing.T) {
	admin := storedAdmin(t)
	svc := &mockUserService{
		getFn: func(_ context.Context, username string) (models.User, error) {
			if username == admin.Username {
				return admin, nil
			}
			return models.User{}, services.ErrUserNotFound
		},
	}
	h := NewUserHandler(svc, &mockSigner{token: "t"}, nil)

	unknown := httptest.NewRecorder()
	h.Login(unknown, newRequest(t, http.MethodPost, "/login", `{"username":"ghost","password":"wrong"}`, nil))
	wrong := httptest.NewRecorder()
	h.Login(wrong, newRequest(t, http.MethodPost, "/login", `{"username":"admin","password":"wrong"}`, nil))

	assert.Equal(t, unknown.Code, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
}

func TestUserHandler_GetMe(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockSigner{}, nil)

	rec := httptest.NewRecorder()
	h.GetMe(rec, newRequest(t, http.MethodGet, "/me", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUser, decodeData[models.Identity](t, rec))
}

func TestUserHandler_GetMe_NoClaims(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, &mockSigner{}, nil)

	rec := httptest.NewRecorder()
	h.GetMe(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperr.CodeNotAuthenticated, decodeEnvelope(t, rec).Code)
}
