package handler

import (
	"net/http"

	"github.com/phone-otp-api/internal/transport/http/middleware"
)

// SessionHandler exposes the verified-phone view of the bearer token.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler { return &SessionHandler{} }

func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	env := SessionEnvelope{PhoneNumber: claims.PhoneNumber}
	if claims.IssuedAt != nil {
		env.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		env.ExpiresAt = claims.ExpiresAt.Unix()
	}
	writeJSON(w, http.StatusOK, env)
}
