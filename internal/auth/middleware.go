package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the result of a successful bearer-token check: the student the
// token was issued for plus the raw token as presented.
type Identity struct {
	StudentID int64
	Token     string
}

// IdentityFromContext retrieves the identity placed in the context by
// RequireAuth.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	return identity, ok
}

// ParseBearer extracts the credential from an Authorization header value.
// The header must consist of exactly the scheme "Bearer" and one token.
func ParseBearer(header string) (string, error) {
	parts := strings.Fields(header)
	switch {
	case len(parts) < 2:
		return "", ErrMissingToken
	case len(parts) > 2:
		return "", ErrMalformedAuthHeader
	case parts[0] != "Bearer":
		return "", ErrUnsupportedScheme
	}
	return parts[1], nil
}

// RequireAuth creates a middleware that gates a handler behind bearer-token
// authentication. On success the resolved identity is injected into the
// request context; every failure answers with a 401 JSON envelope.
func RequireAuth(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, ErrMissingAuthHeader)
				return
			}

			token, err := ParseBearer(header)
			if err != nil {
				unauthorized(w, err)
				return
			}

			studentID, err := tm.Decode(token)
			if err != nil {
				unauthorized(w, err)
				return
			}

			identity := &Identity{StudentID: studentID, Token: token}
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// errorMessage maps a gate failure to its client-facing message.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		return "Authorization header is missing."
	case errors.Is(err, ErrMissingToken):
		return "Token not found."
	case errors.Is(err, ErrMalformedAuthHeader):
		return "Authorization header must be 'Bearer <token>'."
	case errors.Is(err, ErrUnsupportedScheme):
		return `Authorization header must start with "Bearer".`
	case errors.Is(err, ErrTokenExpired):
		return "Token has expired. Please log in again."
	case errors.Is(err, ErrTokenInvalid):
		return "Invalid token. Please log in again."
	default:
		return "Some error occurred during the process. Please log in again."
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     errorMessage(err),
		"status":      false,
		"status_code": http.StatusUnauthorized,
	})
}
