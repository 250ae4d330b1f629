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
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/shopboard/internal/auth"
	"github.com/mmynk/shopboard/internal/config"
	"github.com/mmynk/shopboard/internal/httpapi"
	"github.com/mmynk/shopboard/internal/metrics"
	"github.com/mmynk/shopboard/internal/middleware"
	"github.com/mmynk/shopboard/internal/payment"
	"github.com/mmynk/shopboard/internal/service"
	"github.com/mmynk/shopboard/internal/storage"
	"github.com/mmynk/shopboard/internal/storage/mongostore"
	"github.com/mmynk/shopboard/internal/storage/sqlite"
	"github.com/mmynk/shopboard/pkg/logging"
)

const shutdownGrace = 10 * time.Second

func main() {
	// Load reads .env into the environment, which Setup then consults.
	cfg, err := config.Load()
	logger := logging.Setup()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	slog.Info("Configuration loaded", "config", cfg)
	if cfg.GeneratedSecret {
		slog.Warn("JWT_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	var provider payment.Provider = payment.StubProvider{}
	if cfg.StripeSecretKey != "" {
		provider = payment.NewStripeProvider(cfg.StripeSecretKey, nil)
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set; checkout uses the local stub provider")
	}
	slog.Info("Payment provider initialized", "provider", provider.Name(), "currency", cfg.Currency)

	m := metrics.New()
	api := httpapi.New(httpapi.Options{
		Products:   service.NewProductService(store),
		Projects:   service.NewProjectService(store),
		Auth:       service.NewAuthService(authenticator, jwtManager, store, logger),
		Checkout:   service.NewCheckoutService(provider, store, cfg.Currency, cfg.ClientOrigin),
		JWTManager: jwtManager,
		Store:      store,
		Metrics:    m.Handler(),
	})

	// Nothing between Logging and the mux may replace the request.
	handler := middleware.OptionalAuth(jwtManager)(
		middleware.Logging(m)(
			middleware.CORS(cfg.ClientOrigin)(api.Routes()),
		),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
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

	slog.Info("Shutting down", "grace", shutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		store, err := mongostore.New(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.Store, "database", cfg.MongoDatabase)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.Store, "database", cfg.DBPath)
		return store, nil
	}
}
