// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer creates an httptest server that records the request body
// and responds with the given status code and body.
func newTestServer(t *testing.T, status int, respBody string, captured *map[string]any, authHeader *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader != nil {
			*authHeader = r.Header.Get("Authorization")
		}
		if captured != nil {
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOneSignalSendNewsPayload(t *testing.T) {
	var got map[string]any
	var auth string
	srv := newTestServer(t, http.StatusOK, `{"id":"n-1","recipients":12}`, &got, &auth)

	o := NewOneSignal("app-1", "secret", srv.URL)
	err := o.SendNews(context.Background(), News{
		ID:       "abc",
		Title:    "Halving is here",
		Excerpt:  "Rates change tonight",
		ImageURL: "https://cdn.example.com/h.png",
	})
	if err != nil {
		t.Fatalf("SendNews: %v", err)
	}

	if auth != "Basic secret" {
		t.Errorf("Authorization = %q, want %q", auth, "Basic secret")
	}
	if got["app_id"] != "app-1" {
		t.Errorf("app_id = %v", got["app_id"])
	}

	filters, _ := got["filters"].([]any)
	if len(filters) != 1 {
		t.Fatalf("filters = %v, want one filter", got["filters"])
	}
	f := filters[0].(map[string]any)
	if f["field"] != "tag" || f["key"] != "news_enabled" || f["relation"] != "=" || f["value"] != "true" {
		t.Errorf("filter = %v", f)
	}

	if h := got["headings"].(map[string]any)["en"]; h != NewsHeading {
		t.Errorf("heading = %v", h)
	}
	if c := got["contents"].(map[string]any)["en"]; c != "Halving is here" {
		t.Errorf("contents = %v", c)
	}
	if s := got["subtitle"].(map[string]any)["en"]; s != "Rates change tonight" {
		t.Errorf("subtitle = %v", s)
	}
	if got["big_picture"] != "https://cdn.example.com/h.png" {
		t.Errorf("big_picture = %v", got["big_picture"])
	}
	data := got["data"].(map[string]any)
	if data["type"] != "news" || data["newsId"] != "abc" {
		t.Errorf("data = %v", data)
	}
}

// TestOneSignalOmitsOptionalFields verifies subtitle and big_picture are
// absent when the article has no excerpt or image.
func TestOneSignalOmitsOptionalFields(t *testing.T) {
	var got map[string]any
	srv := newTestServer(t, http.StatusOK, `{}`, &got, nil)

	o := NewOneSignal("app-1", "secret", srv.URL)
	if err := o.SendNews(context.Background(), News{ID: "abc", Title: "T"}); err != nil {
		t.Fatalf("SendNews: %v", err)
	}
	if _, ok := got["subtitle"]; ok {
		t.Error("subtitle present without excerpt")
	}
	if _, ok := got["big_picture"]; ok {
		t.Error("big_picture present without image")
	}
}

func TestOneSignalNotConfigured(t *testing.T) {
	tests := []struct {
		name, appID, key string
	}{
		{"no app id", "", "k"},
		{"no key", "a", ""},
		{"neither", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOneSignal(tt.appID, tt.key, "http://127.0.0.1:1")
			if err := o.SendNews(context.Background(), News{ID: "x", Title: "t"}); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("err = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestOneSignalAPIError(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, `{"errors":["Invalid app_id"]}`, nil, nil)

	o := NewOneSignal("bad", "secret", srv.URL)
	err := o.SendNews(context.Background(), News{ID: "x", Title: "t"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Body != `{"errors":["Invalid app_id"]}` {
		t.Errorf("Body = %q", apiErr.Body)
	}
}
