// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media uploads article images to a hosted media service and
// returns their public URLs. Two backends exist, Cloudinary unsigned
// uploads and S3-compatible object storage; with neither configured every
// upload fails with ErrNotConfigured.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"zuva/internal/metrics"
)

const (
	// MaxSize is the largest accepted image (10 MB).
	MaxSize = 10 << 20

	// PlaceholderURL is stored when an article is saved without any image.
	PlaceholderURL = "https://placehold.co/800x600?text=No+Image"
)

var (
	// ErrNotConfigured means no upload backend has credentials.
	ErrNotConfigured = errors.New("media: upload backend not configured")

	// ErrTooLarge means the file exceeds MaxSize.
	ErrTooLarge = errors.New("media: file exceeds 10 MB")

	// ErrUnsupportedType means the content is not JPEG, PNG, GIF or WebP.
	ErrUnsupportedType = errors.New("media: unsupported image type")
)

// allowedTypes are the sniffed MIME types accepted for upload.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// File is a validated image ready for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores an image and returns its public https URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// UploadError is returned when the media service answers with a non-2xx
// status.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("media: upload failed with status %d: %s", e.Status, e.Body)
}

// Read consumes at most MaxSize bytes from r and validates the content by
// sniffing it. The declared filename is kept only for its base name.
func Read(name string, r io.Reader) (File, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return File{}, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxSize {
		return File{}, ErrTooLarge
	}

	ct := http.DetectContentType(data)
	if _, ok := allowedTypes[ct]; !ok {
		return File{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}

	return File{Name: path.Base(name), ContentType: ct, Data: data}, nil
}

// ReadMultipart opens and validates a multipart form file.
func ReadMultipart(fh *multipart.FileHeader) (File, error) {
	if fh.Size > MaxSize {
		return File{}, ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()
	return Read(fh.Filename, f)
}

// Ext returns the canonical file extension for the file's content type.
func (f File) Ext() string {
	return allowedTypes[f.ContentType]
}

func (f File) reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// ResolveImage picks the image URL an article is saved with: a fresh
// upload wins, then the existing URL, then the placeholder.
func ResolveImage(uploaded, existing string) string {
	if s := strings.TrimSpace(uploaded); s != "" {
		return s
	}
	if s := strings.TrimSpace(existing); s != "" {
		return s
	}
	return PlaceholderURL
}

// Unconfigured is the Uploader used when no backend has credentials.
type Unconfigured struct{}

// Upload always fails with ErrNotConfigured.
func (Unconfigured) Upload(context.Context, File) (string, error) {
	return "", ErrNotConfigured
}

// instrumented records metrics and logs for another Uploader.
type instrumented struct {
	next    Uploader
	backend string
}

// Instrument wraps u so every upload is counted per backend and failures
// are logged.
func Instrument(u Uploader, backend string) Uploader {
	if backend == "" {
		backend = "none"
	}
	return &instrumented{next: u, backend: backend}
}

func (i *instrumented) Upload(ctx context.Context, f File) (string, error) {
	url, err := i.next.Upload(ctx, f)
	switch {
	case errors.Is(err, ErrNotConfigured):
		metrics.RecordUpload(i.backend, metrics.OutcomeNotConfigured)
		slog.Warn("image upload skipped: backend not configured", "file", f.Name)
	case err != nil:
		metrics.RecordUpload(i.backend, metrics.OutcomeFailed)
		slog.Error("image upload failed", "backend", i.backend, "file", f.Name, "error", err)
	default:
		metrics.RecordUpload(i.backend, metrics.OutcomeOK)
		slog.Info("image uploaded", "backend", i.backend, "url", url, "bytes", len(f.Data))
	}
	return url, err
}
