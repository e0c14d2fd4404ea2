package handler

import (
	"encoding/json"
	"net/http"

	"github.com/phone-otp-api/internal/application/verification"
	"github.com/phone-otp-api/internal/pkg/validate"
)

// OTPHandler handles the send/verify code endpoints.
type OTPHandler struct {
	svc verification.Service
}

func NewOTPHandler(svc verification.Service) *OTPHandler { return &OTPHandler{svc: svc} }

type sendCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type verifyCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.RequestCode(r.Context(), req.PhoneNumber)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SendCodeEnvelope{
		Success:     true,
		PhoneNumber: res.PhoneNumber,
		OTP:         res.DebugCode,
	})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.ConfirmCode(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyCodeEnvelope{
		Success:     true,
		Token:       res.Token,
		PhoneNumber: res.PhoneNumber,
	})
}
