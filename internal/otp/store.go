// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zuva/internal/models"
)

const (
	keyPrefix      = "verification:"
	attemptsPrefix = "verification:attempts:"
)

// Retention is how long a record outlives its expiry in Valkey, so a late
// attempt is reported as expired instead of not found.
const Retention = 24 * time.Hour

// Store keeps at most one verification code per email in Valkey.
type Store struct {
	client redis.Cmdable
}

// NewStore creates a Store on the given Valkey client.
func NewStore(client redis.Cmdable) *Store {
	return &Store{client: client}
}

func key(email string) string {
	return keyPrefix + models.NormalizeEmail(email)
}

func attemptsKey(email string) string {
	return attemptsPrefix + models.NormalizeEmail(email)
}

// Put stores vc for email, replacing any previous code and resetting its
// failed-attempt count.
func (s *Store) Put(ctx context.Context, email string, vc models.VerificationCode, ttl time.Duration) error {
	data, err := json.Marshal(vc)
	if err != nil {
		return fmt.Errorf("marshal verification code: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(email), data, ttl)
		pipe.Del(ctx, attemptsKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// RecordFailure counts a wrong guess against email's current code and
// returns the total so far. The counter expires after ttl.
func (s *Store) RecordFailure(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, attemptsKey(email))
		pipe.Expire(ctx, attemptsKey(email), ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record failed attempt: %w", err)
	}
	return incr.Val(), nil
}

// Get returns the code on file for email, or nil if there is none.
func (s *Store) Get(ctx context.Context, email string) (*models.VerificationCode, error) {
	data, err := s.client.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load verification code: %w", err)
	}

	var vc models.VerificationCode
	if err := json.Unmarshal(data, &vc); err != nil {
		return nil, fmt.Errorf("decode verification code: %w", err)
	}
	return &vc, nil
}

// Delete removes the code for email along with its failed-attempt count.
func (s *Store) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, key(email), attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}
