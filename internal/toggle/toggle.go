// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package toggle tracks in-place boolean flips on list rows. Each item
// moves from synced to pending while its update runs, then back to synced
// with either the new value or the previous one restored.
package toggle

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when a toggle for the same item is still running.
var ErrInFlight = errors.New("toggle: update already in flight")

// State is the lifecycle position of one item.
type State int

const (
	Synced State = iota
	Pending
)

// Result is what the list row must display after a toggle.
type Result struct {
	// Value is the flag as it should be rendered.
	Value bool
	// Reverted is true when the update failed and Value is the previous value.
	Reverted bool
	// Err is the update failure, when Reverted.
	Err error
}

// ApplyFunc persists the new value.
type ApplyFunc func(ctx context.Context, value bool) error

// Tracker serializes toggles per item. The zero value is ready to use.
type Tracker struct {
	mu      sync.Mutex
	pending map[string]bool // item -> previous value
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Run flips current for item id by calling apply(!current). Overlapping
// calls for the same id fail fast with ErrInFlight and do not call apply.
func (t *Tracker) Run(ctx context.Context, id string, current bool, apply ApplyFunc) (Result, error) {
	if !t.begin(id, current) {
		return Result{Value: current}, ErrInFlight
	}
	defer t.end(id)

	next := !current
	if err := apply(ctx, next); err != nil {
		return Result{Value: current, Reverted: true, Err: err}, nil
	}
	return Result{Value: next}, nil
}

// State reports the lifecycle position of id.
func (t *Tracker) State(id string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pending[id]; ok {
		return Pending
	}
	return Synced
}

func (t *Tracker) begin(id string, previous bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		t.pending = make(map[string]bool)
	}
	if _, busy := t.pending[id]; busy {
		return false
	}
	t.pending[id] = previous
	return true
}

func (t *Tracker) end(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
}
