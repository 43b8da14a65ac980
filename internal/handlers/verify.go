// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"zuva/internal/models"
	"zuva/internal/otp"
)

// CodeService issues and checks email verification codes.
// *otp.Service satisfies it.
type CodeService interface {
	Issue(ctx context.Context, email, name string) error
	Verify(ctx context.Context, email, code string) error
}

// Verification serves the JSON API the mobile app uses to verify a new
// account's email address.
type Verification struct {
	codes CodeService
}

// NewVerification creates the verification API handlers.
func NewVerification(codes CodeService) *Verification {
	return &Verification{codes: codes}
}

type sendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// SendCode handles POST /api/auth/send-otp.
func (v *Verification) SendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, message{Message: "Email is required"})
		return
	}
	req.Email = models.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if errs := validateForm(req); errs != nil {
		msg := errs["email"]
		if req.Email == "" {
			msg = "Email is required"
		}
		writeJSON(w, http.StatusBadRequest, message{Message: msg})
		return
	}

	if err := v.codes.Issue(r.Context(), req.Email, req.Name); err != nil {
		slog.Error("send verification code failed", "email", req.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, message{Message: "Failed to send OTP", Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, message{Success: true, Message: "OTP sent successfully"})
}

// VerifyCode handles POST /api/auth/verify-otp.
func (v *Verification) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, message{Message: "Email and code are required"})
		return
	}
	req.Email = models.NormalizeEmail(req.Email)
	req.Code = strings.TrimSpace(req.Code)

	if errs := validateForm(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, message{Message: "Email and code are required"})
		return
	}

	err := v.codes.Verify(r.Context(), req.Email, req.Code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, message{Success: true, Message: "Email verified successfully"})
	case errors.Is(err, otp.ErrCodeNotFound):
		writeJSON(w, http.StatusNotFound, message{Message: "Verification code not found or expired"})
	case errors.Is(err, otp.ErrCodeInvalid):
		writeJSON(w, http.StatusBadRequest, message{Message: "Invalid code"})
	case errors.Is(err, otp.ErrCodeExpired):
		writeJSON(w, http.StatusBadRequest, message{Message: "Verification code expired"})
	case errors.Is(err, otp.ErrTooManyAttempts):
		writeJSON(w, http.StatusTooManyRequests, message{Message: "Too many failed attempts. Request a new code."})
	default:
		slog.Error("verify code failed", "email", req.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, message{Message: "Verification failed", Error: err.Error()})
	}
}
