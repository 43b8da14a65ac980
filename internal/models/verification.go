// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// VerificationCode is the one outstanding email OTP for an address.
// Timestamps are epoch milliseconds.
type VerificationCode struct {
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expiresAt"`
	CreatedAt int64  `json:"createdAt"`
}

// Expired reports whether the code is past its expiry at now.
func (v VerificationCode) Expired(now time.Time) bool {
	return now.UnixMilli() > v.ExpiresAt
}
