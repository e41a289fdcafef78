package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotRefreshToken    = errors.New("invalid token for refresh")
	ErrIssueTokens        = errors.New("unable to create tokens")
)
