package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no token TTL is configured.
const DefaultTokenTTL = time.Hour

// TokenClaims represents the claims in a session token.
type TokenClaims struct {
	StudentID int64 `json:"sub"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens. The signing key is set once
// at startup and never mutated, so a single TokenManager is safe for
// concurrent use.
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret and
// token lifetime. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenManager(secretKey string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Encode creates a signed session token for a student.
func (tm *TokenManager) Encode(studentID int64) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		StudentID: studentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// Decode verifies a session token and returns the student id it was issued
// for. Expiry, signature and structural failures are reported as
// ErrTokenExpired, ErrTokenInvalid and ErrTokenError respectively.
func (tm *TokenManager) Decode(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return tm.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, ErrTokenInvalid):
			return 0, ErrTokenInvalid
		default:
			return 0, ErrTokenError
		}
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return 0, ErrTokenInvalid
	}

	return claims.StudentID, nil
}
