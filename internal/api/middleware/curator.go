package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/arc-api/internal/api/shared"
)

// CuratorKeyHeader carries the curator's key on queue requests.
const CuratorKeyHeader = "X-Curator-Key"

// CuratorAuth admits requests presenting the curator key.
type CuratorAuth struct {
	hash []byte
}

// NewCuratorAuth creates a CuratorAuth checking keys against a bcrypt hash.
func NewCuratorAuth(hash string) (*CuratorAuth, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid curator key hash: %w", err)
	}
	return &CuratorAuth{hash: []byte(hash)}, nil
}

// Require rejects requests without a matching curator key with 401.
func (m *CuratorAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(CuratorKeyHeader)
		if key == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Curator key required")
			return
		}

		err := bcrypt.CompareHashAndPassword(m.hash, []byte(key))
		switch {
		case err == nil:
			next.ServeHTTP(w, r)
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid curator key", err,
				shared.WithElevatedLogLevel())
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
		}
	})
}
