// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultAdminURL is the account management API base.
const DefaultAdminURL = "https://identitytoolkit.googleapis.com/v1"

// adminScopes are the OAuth2 scopes account updates need.
var adminScopes = []string{
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/cloud-platform",
}

// NewAdminTokenSource returns a token source that mints and refreshes
// access tokens for the account API. credentialsFile is a service-account
// JSON key; when empty, application default credentials are used.
func NewAdminTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if credentialsFile == "" {
		ts, err := google.DefaultTokenSource(ctx, adminScopes...)
		if err != nil {
			return nil, fmt.Errorf("default credentials: %w", err)
		}
		return ts, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, adminScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// Account is the subset of an identity-provider account the portal reads.
type Account struct {
	UID           string `json:"localId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	DisplayName   string `json:"displayName"`
}

// AdminClient performs privileged account operations.
type AdminClient struct {
	projectID string
	baseURL   string
	tokens    oauth2.TokenSource
	client    *http.Client
}

// NewAdminClient creates an AdminClient. Every request asks tokens for a
// current access token, so a refreshing source keeps the client usable
// past a single token's lifetime. A nil source leaves it unconfigured.
func NewAdminClient(projectID, baseURL string, tokens oauth2.TokenSource) *AdminClient {
	if baseURL == "" {
		baseURL = DefaultAdminURL
	}
	return &AdminClient{
		projectID: projectID,
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokens:    tokens,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *AdminClient) configured() bool {
	return c.projectID != "" && c.tokens != nil
}

// GetUserByEmail looks up an account. Returns ErrUserNotFound when absent.
func (c *AdminClient) GetUserByEmail(ctx context.Context, email string) (*Account, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	var resp struct {
		Users []Account `json:"users"`
	}
	if err := c.call(ctx, "accounts:lookup", map[string]any{"email": []string{email}}, &resp); err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if len(resp.Users) == 0 {
		return nil, ErrUserNotFound
	}
	return &resp.Users[0], nil
}

// SetEmailVerified updates the emailVerified flag of an account.
func (c *AdminClient) SetEmailVerified(ctx context.Context, uid string, verified bool) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	body := map[string]any{"localId": uid, "emailVerified": verified}
	if err := c.call(ctx, "accounts:update", body, nil); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// MarkEmailVerified resolves email to an account and marks it verified.
func (c *AdminClient) MarkEmailVerified(ctx context.Context, email string) error {
	acct, err := c.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return c.SetEmailVerified(ctx, acct.UID, true)
}

func (c *AdminClient) call(ctx context.Context, method string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/projects/%s/%s", c.baseURL, c.projectID, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("obtain access token: %w", err)
	}
	tok.SetAuthHeader(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
