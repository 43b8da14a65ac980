// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultCloudinaryURL is the Cloudinary REST API root.
const DefaultCloudinaryURL = "https://api.cloudinary.com/v1_1"

// Cloudinary performs unsigned uploads against an upload preset.
type Cloudinary struct {
	cloudName string
	preset    string
	baseURL   string
	client    *http.Client
}

// NewCloudinary creates a Cloudinary uploader. An empty baseURL selects
// DefaultCloudinaryURL.
func NewCloudinary(cloudName, preset, baseURL string) *Cloudinary {
	if baseURL == "" {
		baseURL = DefaultCloudinaryURL
	}
	return &Cloudinary{
		cloudName: cloudName,
		preset:    preset,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Upload posts the file as multipart form data with the upload preset and
// returns the secure_url of the stored image.
func (c *Cloudinary) Upload(ctx context.Context, f File) (string, error) {
	if c.cloudName == "" {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, f.reader()); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.preset); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading cloudinary response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UploadError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decoding cloudinary response: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response missing secure_url")
	}
	return out.SecureURL, nil
}
