package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// ErrInvalidPhone means the raw phone number failed structural validation.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrRateLimited means a code was requested again before the 60s cooldown elapsed.
	ErrRateLimited = errors.New("code already sent, wait before requesting a new one")
	// ErrDeliveryFailed means the SMS transport errored. The stored code stays valid.
	ErrDeliveryFailed = errors.New("failed to send verification code")
	// ErrNotFound means no active code exists for the phone key: never requested,
	// already consumed, or expired.
	ErrNotFound = errors.New("code expired or not found")
	// ErrAttemptsExceeded means verification attempts were exhausted and the record
	// was deleted; the user must request a new code.
	ErrAttemptsExceeded = errors.New("too many attempts, request a new code")
	// ErrInvalidCode means the submitted code was wrong but attempts remain.
	ErrInvalidCode = errors.New("invalid OTP")
)
