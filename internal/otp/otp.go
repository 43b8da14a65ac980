// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package otp implements email verification with one-time codes. Each
// email has at most one outstanding code; issuing a new one replaces it.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"zuva/internal/metrics"
	"zuva/internal/models"
)

var (
	ErrCodeNotFound = errors.New("otp: verification code not found")
	ErrCodeInvalid  = errors.New("otp: invalid code")
	ErrCodeExpired  = errors.New("otp: verification code expired")
	// ErrTooManyAttempts means the code was discarded after MaxAttempts
	// wrong guesses; the user has to request a new one.
	ErrTooManyAttempts = errors.New("otp: too many failed attempts")
)

// CodeTTL is how long an issued code is accepted.
const CodeTTL = 10 * time.Minute

// MaxAttempts is how many wrong codes an email may submit before its
// outstanding code is deleted.
const MaxAttempts = 5

// Mailer delivers a code to its recipient.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
}

// AccountVerifier marks an identity-provider account's email as verified.
type AccountVerifier interface {
	MarkEmailVerified(ctx context.Context, email string) error
}

// Service issues and checks verification codes.
type Service struct {
	store    *Store
	mailer   Mailer
	accounts AccountVerifier
	now      func() time.Time
	generate func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGenerator overrides code generation.
func WithGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.generate = gen }
}

// NewService creates a Service.
func NewService(store *Store, mailer Mailer, accounts AccountVerifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		mailer:   mailer,
		accounts: accounts,
		now:      time.Now,
		generate: GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateCode returns a uniformly random six-digit code in 100000-999999.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}

// Issue creates a code for email, replacing any outstanding one, and
// emails it. name personalizes the message and may be empty.
func (s *Service) Issue(ctx context.Context, email, name string) error {
	code, err := s.generate()
	if err != nil {
		metrics.RecordOTP("issue", "error")
		return err
	}

	now := s.now()
	vc := models.VerificationCode{
		Code:      code,
		ExpiresAt: now.Add(CodeTTL).UnixMilli(),
		CreatedAt: now.UnixMilli(),
	}
	if err := s.store.Put(ctx, email, vc, CodeTTL+Retention); err != nil {
		metrics.RecordOTP("issue", "error")
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, email, name, code); err != nil {
		metrics.RecordOTP("issue", "error")
		return fmt.Errorf("send verification code: %w", err)
	}

	metrics.RecordOTP("issue", "ok")
	slog.Info("verification code issued", "email", email)
	return nil
}

// Verify checks code for email. A mismatch keeps the record until the
// MaxAttempts-th miss, which deletes it. An expired match deletes it, and
// a valid match marks the account verified and deletes it.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	vc, err := s.store.Get(ctx, email)
	if err != nil {
		metrics.RecordOTP("verify", "error")
		return err
	}
	if vc == nil {
		metrics.RecordOTP("verify", "not_found")
		return ErrCodeNotFound
	}

	if vc.Code != code {
		misses, err := s.store.RecordFailure(ctx, email, CodeTTL+Retention)
		if err != nil {
			metrics.RecordOTP("verify", "error")
			return err
		}
		if misses >= MaxAttempts {
			if err := s.store.Delete(ctx, email); err != nil {
				metrics.RecordOTP("verify", "error")
				return err
			}
			metrics.RecordOTP("verify", "locked")
			slog.Warn("verification code discarded after failed attempts", "email", email, "attempts", misses)
			return ErrTooManyAttempts
		}
		metrics.RecordOTP("verify", "invalid")
		return ErrCodeInvalid
	}

	if vc.Expired(s.now()) {
		if err := s.store.Delete(ctx, email); err != nil {
			slog.Warn("delete expired verification code", "email", email, "error", err)
		}
		metrics.RecordOTP("verify", "expired")
		return ErrCodeExpired
	}

	if err := s.accounts.MarkEmailVerified(ctx, email); err != nil {
		metrics.RecordOTP("verify", "error")
		return fmt.Errorf("mark email verified: %w", err)
	}

	if err := s.store.Delete(ctx, email); err != nil {
		return err
	}

	metrics.RecordOTP("verify", "ok")
	slog.Info("email verified", "email", email)
	return nil
}
