// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics provides Prometheus collectors for the admin portal.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zuva"

// Outcome labels shared by the external-call counters.
const (
	OutcomeOK            = "ok"
	OutcomeFailed        = "failed"
	OutcomeNotConfigured = "not_configured"
)

var (
	// HTTPRequestsTotal counts handled requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// NotificationsTotal counts push notification attempts.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of push notifications attempted",
		},
		[]string{"outcome"},
	)

	// UploadsTotal counts media uploads by backend.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_uploads_total",
			Help:      "Total number of media uploads",
		},
		[]string{"backend", "outcome"},
	)

	// OTPTotal counts verification code operations.
	OTPTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_operations_total",
			Help:      "Total number of email verification code operations",
		},
		[]string{"operation", "result"},
	)

	// AuthorizationsTotal counts admin authorization decisions.
	AuthorizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorizations_total",
			Help:      "Total number of admin authorization checks",
		},
		[]string{"result"},
	)
)

// RecordRequest records one handled HTTP request.
func RecordRequest(method, route, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordNotification records a push notification outcome.
func RecordNotification(outcome string) {
	NotificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordUpload records a media upload outcome.
func RecordUpload(backend, outcome string) {
	UploadsTotal.WithLabelValues(backend, outcome).Inc()
}

// RecordOTP records the result of an issue or verify operation.
func RecordOTP(operation, result string) {
	OTPTotal.WithLabelValues(operation, result).Inc()
}

// RecordAuthorization records the result of an admin authorization check.
func RecordAuthorization(result string) {
	AuthorizationsTotal.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
