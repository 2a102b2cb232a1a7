package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDispatch          = errors.New("code delivery failed")
	ErrNotFoundOrExpired = errors.New("verification not found or expired")
	ErrMismatch          = errors.New("verification code mismatch")
)
