package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phone-otp-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendCodeEnvelope wraps the send-code response. OTP is only populated when
// the debug echo is enabled (development, no real transport).
type SendCodeEnvelope struct {
	Success     bool   `json:"success,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	OTP         string `json:"otp,omitempty"`
	Error       string `json:"error,omitempty"`
}

// VerifyCodeEnvelope wraps the verify-code response.
type VerifyCodeEnvelope struct {
	Success     bool   `json:"success,omitempty"`
	Token       string `json:"token,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Error       string `json:"error,omitempty"`
}

// SessionEnvelope wraps the current-session response.
type SessionEnvelope struct {
	PhoneNumber string `json:"phoneNumber"`
	IssuedAt    int64  `json:"issuedAt"`
	ExpiresAt   int64  `json:"expiresAt"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinels onto HTTP status codes. Anything unknown is
// an internal error and its detail stays server-side.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAttemptsExceeded):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrDeliveryFailed):
		writeError(w, http.StatusInternalServerError, domain.ErrDeliveryFailed.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
