package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/teamroster/internal/api"
	"github.com/daap14/teamroster/internal/api/validation"
	"github.com/daap14/teamroster/internal/auth"
	"github.com/daap14/teamroster/internal/blob"
	"github.com/daap14/teamroster/internal/config"
	"github.com/daap14/teamroster/internal/database"
	"github.com/daap14/teamroster/internal/i18n"
)

func main() {
	generateKey := flag.Bool("generate-admin-key", false, "print a new admin API key and its ADMIN_API_KEY_HASH value, then exit")
	flag.Parse()

	if *generateKey {
		rawKey, hash, err := auth.GenerateKey(bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to generate admin key:", err)
			os.Exit(1)
		}
		fmt.Printf("ADMIN_API_KEY=%s\nADMIN_API_KEY_HASH=%s\n", rawKey, hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	blobs, err := blob.NewLocalStore(cfg.StorageRoot, blob.TeamsDir)
	if err != nil {
		slog.Error("failed to prepare image storage", "root", cfg.StorageRoot, "error", err)
		os.Exit(1)
	}

	catalog, err := i18n.Load(cfg.DefaultLocale)
	if err != nil {
		slog.Error("failed to load message catalogs", "locale", cfg.DefaultLocale, "error", err)
		os.Exit(1)
	}

	if cfg.AdminAPIKeyHash == "" {
		slog.Warn("ADMIN_API_KEY_HASH is not set; admin team routes are disabled")
	}

	router := api.NewRouter(api.RouterDeps{
		DBPinger:     db,
		Version:      cfg.Version,
		Teams:        db.Teams(),
		Blobs:        blobs,
		Validator:    validation.NewTeamValidator(cfg.MaxUploadKB),
		Catalog:      catalog,
		AdminKeyHash: []byte(cfg.AdminAPIKeyHash),
		ImageBaseURL: cfg.PublicBaseURL,
		MaxImageKB:   cfg.MaxUploadKB,
		StorageRoot:  cfg.StorageRoot,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting team roster server", "port", cfg.Port, "version", cfg.Version, "driver", db.Driver())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		db.Close()
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		db.Close()
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
