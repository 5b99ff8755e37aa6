package auth

import "errors"

// Sentinel errors for the authentication and authorization domain. Handlers
// and middleware map these onto HTTP statuses: 401 for anything credential or
// token related, 403 for permission denials.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive is returned when a known user with a disabled account
	// attempts to authenticate.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrWeakPassword is returned when a new password fails the length policy.
	ErrWeakPassword = errors.New("password does not meet the minimum length requirement")

	// ErrInvalidToken covers malformed tokens, bad signatures, and tokens
	// presented for the wrong purpose.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is kept distinct from ErrInvalidToken for logging;
	// clients see the same 401 either way.
	ErrTokenExpired = errors.New("token expired")

	// ErrUnauthenticated means no identity could be resolved for the request.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the resolved identity lacks permission.
	ErrForbidden = errors.New("insufficient permissions")
)
