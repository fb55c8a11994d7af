package admin

import "errors"

var (
	// ErrInvalidCredentials covers every login failure cause. Login
	// never reveals whether the email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrSessionExpired = errors.New("session expired")

	// Password reset errors are intentionally specific, unlike login
	ErrNoAccount        = errors.New("no account for this email")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrResetRateLimited = errors.New("too many reset requests")
	ErrResetTokenUsed   = errors.New("reset token invalid or used")
)
