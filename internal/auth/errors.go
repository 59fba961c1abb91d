package auth

import "errors"

// Token codec errors
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenError   = errors.New("token could not be decoded")
)

// Authorization header errors, all answered with 401
var (
	ErrMissingAuthHeader   = errors.New("authorization header is missing")
	ErrMissingToken        = errors.New("token not found")
	ErrMalformedAuthHeader = errors.New("authorization header must be 'Bearer <token>'")
	ErrUnsupportedScheme   = errors.New("authorization header must start with Bearer")
)
