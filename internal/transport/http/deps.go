package http

import (
	"github.com/phone-otp-api/internal/application/verification"
	jwtinfra "github.com/phone-otp-api/internal/infrastructure/jwt"
	"github.com/phone-otp-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	OTPStore    verification.Store
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider

	// ExposeOTP echoes the generated code in the send response. Resolved in
	// main: requires the explicit config flag, a non-production env, and the
	// log-only sender.
	ExposeOTP bool
}
