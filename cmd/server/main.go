package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billcal/internal/analytics"
	"github.com/mmynk/billcal/internal/auth"
	"github.com/mmynk/billcal/internal/config"
	"github.com/mmynk/billcal/internal/credentials"
	"github.com/mmynk/billcal/internal/server"
	"github.com/mmynk/billcal/internal/storage"
	"github.com/mmynk/billcal/internal/storage/postgres"
	"github.com/mmynk/billcal/internal/storage/sqlite"
	"github.com/mmynk/billcal/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	encryptor, err := credentials.NewEncryptor(cfg.Credentials.Secret)
	if err != nil {
		return fmt.Errorf("failed to initialize credential encryption: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	matomo := analytics.NewClient(analytics.Config{
		URL:             cfg.Matomo.URL,
		Token:           cfg.Matomo.Token,
		SiteID:          cfg.Matomo.SiteID,
		Timeout:         cfg.Matomo.Timeout,
		RatePerSecond:   cfg.Matomo.RatePerSecond,
		Burst:           cfg.Matomo.Burst,
		BreakerFailures: cfg.Matomo.BreakerFailures,
		BreakerTimeout:  cfg.Matomo.BreakerTimeout,
	}, nil)
	if !cfg.Matomo.Enabled() {
		slog.Warn("Matomo URL not set, analytics endpoints disabled")
	}

	handler := server.NewRouter(server.Deps{
		Config:    cfg.Server,
		Store:     store,
		JWT:       jwtManager,
		Auth:      authenticator,
		Cipher:    encryptor,
		Analytics: matomo,
		Overview:  analytics.Query{Period: cfg.Matomo.Period, Date: cfg.Matomo.Date},
		Logger:    slog.Default(),
	})

	// h2c serves HTTP/2 without TLS, which Connect's gRPC protocols need.
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "database", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "postgres":
		store, err := postgres.New(ctx, cfg.URL, postgres.Options{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", "postgres")
		return store, nil
	default:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", "sqlite", "database", cfg.Path)
		return store, nil
	}
}
