package handlers

import (
	"io"
	"net/http"

	"github.com/isdelr/recipes-be/internal/auth"
)

// maxBodyBytes caps the size of request bodies.
const maxBodyBytes = 1 << 20

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// userIDFromRequest returns the authenticated user's id, if any.
func userIDFromRequest(r *http.Request) *string {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil
	}
	id := claims.UserID
	return &id
}
