// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// DefaultCertsURL publishes the x509 certificates that sign ID tokens.
const DefaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const (
	issuerPrefix   = "https://securetoken.google.com/"
	defaultCertTTL = time.Hour
)

type idClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// TokenVerifier verifies RS256 ID tokens for one project.
type TokenVerifier struct {
	projectID string
	certsURL  string
	client    *http.Client
	now       func() time.Time

	// fetches collapses concurrent certificate downloads into one.
	fetches singleflight.Group

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
}

// NewTokenVerifier creates a verifier for projectID. An empty certsURL
// selects the provider's public certificate endpoint.
func NewTokenVerifier(projectID, certsURL string) *TokenVerifier {
	if certsURL == "" {
		certsURL = DefaultCertsURL
	}
	return &TokenVerifier{
		projectID: projectID,
		certsURL:  certsURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		now:       time.Now,
	}
}

// Verify checks signature, issuer, audience, expiry and subject, and
// returns the asserted principal.
func (v *TokenVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	if v.projectID == "" {
		return nil, ErrNotConfigured
	}
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	var claims idClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("missing kid header")
			}
			return v.key(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	if claims.Email == "" {
		return nil, ErrNoEmail
	}

	return &Principal{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// key returns the public key for kid. The certificate set is downloaded
// only when it is missing or past its max-age; a kid absent from a fresh
// set is rejected without another download.
func (v *TokenVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if k, fresh := v.cached(kid); fresh {
		if k == nil {
			return nil, fmt.Errorf("unknown signing key %q", kid)
		}
		return k, nil
	}

	// The download is shared by every waiting request, so it must not
	// die with whichever request started it.
	fetchCtx := context.WithoutCancel(ctx)
	_, err, _ := v.fetches.Do("certs", func() (any, error) {
		return nil, v.refresh(fetchCtx)
	})
	if err != nil {
		return nil, err
	}

	k, _ := v.cached(kid)
	if k == nil {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}
	return k, nil
}

// cached looks kid up in the current set and reports whether the set is
// still within its max-age.
func (v *TokenVerifier) cached(kid string) (*rsa.PublicKey, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.keys[kid], v.keys != nil && v.now().Before(v.expires)
}

// refresh downloads the certificate set and swaps it in.
func (v *TokenVerifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return fmt.Errorf("create certs request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch signing certs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read signing certs: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch signing certs: status %d: %s", resp.StatusCode, body)
	}

	var certs map[string]string
	if err := json.Unmarshal(body, &certs); err != nil {
		return fmt.Errorf("decode signing certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pem := range certs {
		k, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return fmt.Errorf("parse signing cert %q: %w", kid, err)
		}
		keys[kid] = k
	}
	ttl := maxAge(resp.Header.Get("Cache-Control"))

	v.mu.Lock()
	v.keys = keys
	v.expires = v.now().Add(ttl)
	v.mu.Unlock()
	return nil
}

// maxAge extracts max-age from a Cache-Control header.
func maxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultCertTTL
}
