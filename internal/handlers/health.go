// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is a dependency the health check pings. *sql.DB and
// *redis.Client (through a small adapter) satisfy it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext calls f.
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Health reports whether the server and its backing services respond.
type Health struct {
	deps map[string]Pinger
}

// NewHealth creates a health check over the named dependencies.
func NewHealth(deps map[string]Pinger) *Health {
	return &Health{deps: deps}
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ServeHTTP answers 200 {"status":"ok"} when every dependency responds and
// 503 {"status":"degraded"} naming the failures otherwise.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthStatus{Status: "ok"}
	for name, dep := range h.deps {
		if err := dep.PingContext(ctx); err != nil {
			slog.Warn("health check failed", "dependency", name, "error", err)
			if res.Checks == nil {
				res.Checks = make(map[string]string)
			}
			res.Checks[name] = "unavailable"
			res.Status = "degraded"
		}
	}

	status := http.StatusOK
	if res.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}
