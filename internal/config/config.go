// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
// Third-party credentials are optional: a missing value disables only the
// feature that needs it.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// TrustedProxies may name the client through X-Forwarded-For. Empty
	// means every request is identified by its connection address.
	TrustedProxies []netip.Prefix

	// PostgreSQL connection (document store for admins, news, tasks)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible: verification codes + page cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Identity provider
	IdentityProjectID  string
	IdentityAPIKey     string // public web API key, used by the login page
	IdentityAuthDomain string
	IdentityCertsURL   string
	IdentityAdminURL   string
	// IdentityCredentialsFile is a service-account JSON key for account
	// admin calls. Empty falls back to application default credentials.
	IdentityCredentialsFile string

	// Push notifications
	OneSignalAppID  string
	OneSignalAPIKey string
	OneSignalAPIURL string

	// Media: Cloudinary unsigned uploads
	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	// Media: S3-compatible object storage (alternative backend)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Outbound email
	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	// SeedAdminEmail is whitelisted on startup in development.
	SeedAdminEmail string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first when present. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}

	smtpPort, err := strconv.Atoi(envOrDefault("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}

	proxies, err := parsePrefixes(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		TrustedProxies: proxies,

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "zuva"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "zuva"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		IdentityProjectID:  os.Getenv("IDENTITY_PROJECT_ID"),
		IdentityAPIKey:     os.Getenv("IDENTITY_API_KEY"),
		IdentityAuthDomain: os.Getenv("IDENTITY_AUTH_DOMAIN"),
		IdentityCertsURL: envOrDefault("IDENTITY_CERTS_URL",
			"https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"),
		IdentityAdminURL:        envOrDefault("IDENTITY_ADMIN_URL", "https://identitytoolkit.googleapis.com/v1"),
		IdentityCredentialsFile: os.Getenv("IDENTITY_CREDENTIALS_FILE"),

		OneSignalAppID:  os.Getenv("ONESIGNAL_APP_ID"),
		OneSignalAPIKey: os.Getenv("ONESIGNAL_API_KEY"),
		OneSignalAPIURL: envOrDefault("ONESIGNAL_API_URL", "https://onesignal.com/api/v1/notifications"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: envOrDefault("CLOUDINARY_UPLOAD_PRESET", "unsigned_preset"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "zuva-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		SMTPHost:     envOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     smtpPort,
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		SeedAdminEmail: os.Getenv("SEED_ADMIN_EMAIL"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.IdentityProjectID == "" {
			return nil, fmt.Errorf("IDENTITY_PROJECT_ID must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// MediaBackend reports which upload backend the credentials enable:
// "cloudinary", "s3", or "" when neither is configured.
func (c *Config) MediaBackend() string {
	switch {
	case c.CloudinaryCloudName != "":
		return "cloudinary"
	case c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "":
		return "s3"
	default:
		return ""
	}
}

// parsePrefixes reads a comma-separated list of CIDR ranges. A bare
// address stands for itself.
func parsePrefixes(list string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			addr, err := netip.ParseAddr(item)
			if err != nil {
				return nil, err
			}
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Masked())
	}
	return out, nil
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
