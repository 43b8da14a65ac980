// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify delivers outbound messages through third-party services:
// push notifications for newly published articles and verification emails.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when the credentials for a channel are missing.
var ErrNotConfigured = errors.New("notify: credentials not configured")

// NewsHeading is the fixed push title for article announcements.
const NewsHeading = "📰 New Article Published!"

// DefaultOneSignalURL is the push API endpoint.
const DefaultOneSignalURL = "https://onesignal.com/api/v1/notifications"

// News identifies a newly published article.
type News struct {
	ID       string
	Title    string
	Excerpt  string // optional
	ImageURL string // optional
}

// APIError is a non-2xx response from the push API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("onesignal API error (status %d): %s", e.Status, e.Body)
}

// OneSignal sends push notifications to the opt-in news segment.
type OneSignal struct {
	appID  string
	apiKey string
	url    string
	client *http.Client
}

// NewOneSignal creates a push client. An empty url selects the public endpoint.
func NewOneSignal(appID, apiKey, url string) *OneSignal {
	if url == "" {
		url = DefaultOneSignalURL
	}
	return &OneSignal{
		appID:  appID,
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether both the app ID and API key are set.
func (o *OneSignal) Configured() bool {
	return o.appID != "" && o.apiKey != ""
}

type pushFilter struct {
	Field    string `json:"field"`
	Key      string `json:"key"`
	Relation string `json:"relation"`
	Value    string `json:"value"`
}

type pushData struct {
	Type   string `json:"type"`
	NewsID string `json:"newsId"`
}

type pushRequest struct {
	AppID            string            `json:"app_id"`
	Filters          []pushFilter      `json:"filters"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Subtitle         map[string]string `json:"subtitle,omitempty"`
	BigPicture       string            `json:"big_picture,omitempty"`
	Data             pushData          `json:"data"`
	AndroidChannelID string            `json:"android_channel_id"`
	IOSCategory      string            `json:"ios_category"`
}

type pushResponse struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
}

// SendNews announces a published article to users tagged news_enabled=true.
func (o *OneSignal) SendNews(ctx context.Context, n News) error {
	if !o.Configured() {
		return ErrNotConfigured
	}

	payload := pushRequest{
		AppID: o.appID,
		Filters: []pushFilter{
			{Field: "tag", Key: "news_enabled", Relation: "=", Value: "true"},
		},
		Headings:         map[string]string{"en": NewsHeading},
		Contents:         map[string]string{"en": n.Title},
		BigPicture:       n.ImageURL,
		Data:             pushData{Type: "news", NewsID: n.ID},
		AndroidChannelID: "news_updates",
		IOSCategory:      "NEWS",
	}
	if n.Excerpt != "" {
		payload.Subtitle = map[string]string{"en": n.Excerpt}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("push API request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read push response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var result pushResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Warn("unparseable push response", "error", err)
	}
	slog.Info("push notification sent", "news_id", n.ID, "notification_id", result.ID, "recipients", result.Recipients)
	return nil
}
