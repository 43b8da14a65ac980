// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity adapts the hosted identity provider: it verifies the
// ID tokens issued at sign-in and performs account administration calls.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken wraps every reason a token fails verification.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrNoEmail is returned for a valid token without an email claim.
	ErrNoEmail = errors.New("identity: token has no email claim")
	// ErrNotConfigured is returned when provider credentials are missing.
	ErrNotConfigured = errors.New("identity: provider not configured")
	// ErrUserNotFound is returned when no account matches an email.
	ErrUserNotFound = errors.New("identity: user not found")
)

// Principal is the signed-in user as asserted by a verified token.
type Principal struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// DisplayName returns the name, falling back to the email.
func (p *Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// Verifier checks an ID token and returns the principal it asserts.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}
