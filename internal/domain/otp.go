package domain

import "time"

// Default OTP policy values. Overridable through config, but these are the
// product numbers: a code lives 5 minutes, a new one can be requested after
// 60 seconds, and three verification attempts consume it.
const (
	DefaultOTPTTL      = 5 * time.Minute
	DefaultOTPCooldown = 60 * time.Second
	DefaultMaxAttempts = 3
	DefaultCodeLength  = 6
)

// OTPCode is the single active verification code for a phone key.
// PK: phone_key — at most one record per phone exists at any instant.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OTPCode struct {
	PhoneKey  string `json:"phone_key" dynamodbav:"phone_key"`
	OTPID     string `json:"otp_id" dynamodbav:"otp_id"` // ULID, for log correlation; never the code itself
	Code      string `json:"-" dynamodbav:"code"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"` // Unix seconds
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// Expired reports whether the record is past its TTL at the given instant.
// DynamoDB TTL deletion lags, so every reader must treat an expired record
// as absent.
func (c *OTPCode) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}

// OTPPolicy bundles the tunables of the code lifecycle.
type OTPPolicy struct {
	TTL         time.Duration
	Cooldown    time.Duration
	MaxAttempts int
	CodeLength  int
}

// DefaultOTPPolicy returns the production policy.
func DefaultOTPPolicy() OTPPolicy {
	return OTPPolicy{
		TTL:         DefaultOTPTTL,
		Cooldown:    DefaultOTPCooldown,
		MaxAttempts: DefaultMaxAttempts,
		CodeLength:  DefaultCodeLength,
	}
}
