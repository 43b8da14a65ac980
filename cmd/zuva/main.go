// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Zuva site and admin server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zuva/internal/cache"
	"zuva/internal/config"
	"zuva/internal/content"
	"zuva/internal/database"
	"zuva/internal/handlers"
	"zuva/internal/identity"
	"zuva/internal/media"
	"zuva/internal/middleware"
	"zuva/internal/notify"
	"zuva/internal/otp"
	"zuva/internal/render"
	"zuva/internal/router"
	"zuva/internal/session"
	"zuva/internal/store"
	"zuva/internal/toggle"
	"zuva/web"
)

func main() {
	// Load configuration from environment variables (and .env if present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"media", cfg.MediaBackend(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, cfg.SeedAdminEmail); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (verification codes + page cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Pages rendered by an older binary must not outlive a deploy.
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	pageCache.InvalidateAll(context.Background())

	secureCookies := !cfg.IsDev()
	sessions := session.NewManager(secureCookies)

	renderer, err := render.New(cfg.IsDev(), sessions, render.ClientConfig{
		APIKey:     cfg.IdentityAPIKey,
		AuthDomain: cfg.IdentityAuthDomain,
		ProjectID:  cfg.IdentityProjectID,
	})
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Identity provider: token verification for sessions, account
	// updates for email verification.
	verifier := identity.NewTokenVerifier(cfg.IdentityProjectID, cfg.IdentityCertsURL)
	adminTokens, err := identity.NewAdminTokenSource(context.Background(), cfg.IdentityCredentialsFile)
	if err != nil {
		// Without credentials, verify-otp reports "Verification failed".
		slog.Warn("identity admin credentials unavailable; email verification disabled", "error", err)
	}
	accounts := identity.NewAdminClient(cfg.IdentityProjectID, cfg.IdentityAdminURL, adminTokens)

	pusher := notify.NewOneSignal(cfg.OneSignalAppID, cfg.OneSignalAPIKey, cfg.OneSignalAPIURL)
	if !pusher.Configured() {
		slog.Warn("onesignal not configured; publish announcements disabled")
	}
	mailer := notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Email:    cfg.SMTPEmail,
		Password: cfg.SMTPPassword,
	})

	uploader, err := newUploader(cfg)
	if err != nil {
		slog.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	// Data stores and services.
	admins := store.NewAdminStore(db)
	articles := content.NewArticles(store.NewArticleStore(db), time.Now)
	tasks := content.NewTasks(store.NewTaskStore(db), time.Now)
	publisher := content.NewPublisher(articles, pusher)
	codes := otp.NewService(otp.NewStore(valkeyClient), mailer, accounts)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		slog.Error("failed to open static assets", "error", err)
		os.Exit(1)
	}

	otpLimiter := middleware.NewRateLimiter(5, time.Minute, middleware.WithTrustedProxies(cfg.TrustedProxies...))
	defer otpLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:     sessions,
		Verifier:     verifier,
		Admins:       admins,
		Admin:        handlers.NewAdmin(renderer, sessions, articles, publisher, tasks, uploader, toggle.NewTracker()),
		Auth:         handlers.NewAuth(renderer, sessions, verifier),
		Public:       handlers.NewPublic(renderer, pageCache),
		Verification: handlers.NewVerification(codes),
		Health: handlers.NewHealth(map[string]handlers.Pinger{
			"postgres": db,
			"valkey": handlers.PingFunc(func(ctx context.Context) error {
				return valkeyClient.Ping(ctx).Err()
			}),
		}),
		OTPLimiter:    otpLimiter,
		Static:        static,
		SecureCookies: secureCookies,
	})

	// WriteTimeout covers an image upload followed by a push notification.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newUploader picks the media backend the configuration enables. Without
// one, uploads fail with media.ErrNotConfigured and URLs still work.
func newUploader(cfg *config.Config) (media.Uploader, error) {
	switch backend := cfg.MediaBackend(); backend {
	case "cloudinary":
		c := media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, "")
		return media.Instrument(c, backend), nil
	case "s3":
		s, err := media.NewS3(media.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return media.Instrument(s, backend), nil
	default:
		slog.Warn("media storage not configured; image uploads disabled")
		return media.Instrument(media.Unconfigured{}, "none"), nil
	}
}
