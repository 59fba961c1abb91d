package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		token   string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc123", token: "abc123"},
		{name: "scheme only", header: "Bearer", wantErr: ErrMissingToken},
		{name: "too many parts", header: "Bearer abc extra", wantErr: ErrMalformedAuthHeader},
		{name: "wrong scheme", header: "Token abc", wantErr: ErrUnsupportedScheme},
		{name: "lowercase scheme", header: "bearer abc", wantErr: ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ParseBearer(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	validToken, err := tm.Encode(7)
	require.NoError(t, err)

	expiredToken := signTestToken(t, "test-secret", 7, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	foreignToken := signTestToken(t, "other-secret", 7, time.Now(), time.Now().Add(time.Hour))

	var gotIdentity *Identity
	handler := RequireAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		gotIdentity = identity
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{name: "missing header", header: "", wantMessage: "Authorization header is missing."},
		{name: "scheme only", header: "Bearer", wantMessage: "Token not found."},
		{name: "too many parts", header: "Bearer a b", wantMessage: "Authorization header must be 'Bearer <token>'."},
		{name: "wrong scheme", header: "Token abc", wantMessage: `Authorization header must start with "Bearer".`},
		{name: "expired token", header: "Bearer " + expiredToken, wantMessage: "Token has expired. Please log in again."},
		{name: "wrong key", header: "Bearer " + foreignToken, wantMessage: "Invalid token. Please log in again."},
		{name: "garbage token", header: "Bearer garbage", wantMessage: "Invalid token. Please log in again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/student", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Equal(t, false, body["status"])
			assert.Equal(t, float64(http.StatusUnauthorized), body["status_code"])
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/student", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, gotIdentity)
		assert.Equal(t, int64(7), gotIdentity.StudentID)
		assert.Equal(t, validToken, gotIdentity.Token)
	})
}
