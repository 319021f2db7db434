package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewCuratorAuth_InvalidHash(t *testing.T) {
	_, err := NewCuratorAuth("not-a-hash")
	assert.Error(t, err)
}

func TestCuratorAuth_Require(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := NewCuratorAuth(string(hash))
	require.NoError(t, err)

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{name: "matching key", key: "s3cret", wantStatus: http.StatusOK},
		{name: "missing key", key: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", key: "guess", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/queue/next", nil)
			if tc.key != "" {
				req.Header.Set(CuratorKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantStatus == http.StatusOK, called)
			assert.NotContains(t, w.Body.String(), string(hash))
		})
	}
}
