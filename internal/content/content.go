// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the News and Tasks services used by the admin
// dashboard. Services stamp timestamps, enforce record invariants, and
// delegate persistence to a repository.
package content

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by operations that require an existing record.
	ErrNotFound = errors.New("content: record not found")
	// ErrInvalid wraps field-level invariant violations.
	ErrInvalid = errors.New("content: invalid record")
)

// Clock returns the current time.
type Clock func() time.Time

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
