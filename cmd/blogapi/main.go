// Package main is the entry point for the blog API server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/content"
	"blogapi/internal/database"
	"blogapi/internal/events"
	"blogapi/internal/handlers"
	"blogapi/internal/identity"
	"blogapi/internal/interaction"
	"blogapi/internal/router"
	"blogapi/internal/storage"
	"blogapi/internal/store"
)

func main() {
	// Structured logger for everything below.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey, which backs the bearer token store.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Connect to S3-compatible object storage (optional, app works without it).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", cfg.S3Bucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	// Event publishing to Kafka (optional, no-op without brokers).
	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPub.Close()
		publisher = kafkaPub
		slog.Info("kafka publisher initialized",
			"brokers", cfg.KafkaBrokers,
			"topic", cfg.KafkaTopic,
		)
	}

	// Data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	commentStore := store.NewCommentStore(db)
	likeStore := store.NewLikeStore(db)

	// Services.
	tokenStore := identity.NewValkeyTokenStore(valkeyClient)
	identitySvc := identity.NewService(userStore, tokenStore)
	contentSvc := content.NewService(categoryStore, postStore, commentStore, publisher)
	interactionSvc := interaction.NewService(postStore, likeStore, publisher)

	// Handler groups.
	authHandlers := handlers.NewAuth(identitySvc)
	categoryHandlers := handlers.NewCategories(contentSvc)
	postHandlers := handlers.NewPosts(contentSvc, interactionSvc, storageClient)
	commentHandlers := handlers.NewComments(contentSvc)

	// Chi router with all middleware and routes.
	r := router.New(identitySvc, authHandlers, categoryHandlers, postHandlers, commentHandlers)

	// HTTP server with sensible timeouts. ReadTimeout covers image
	// uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
