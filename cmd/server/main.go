package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/config"
	"github.com/mmynk/settleup/internal/httpapi"
	"github.com/mmynk/settleup/internal/jobs"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/service"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/internal/storage/mongostore"
	"github.com/mmynk/settleup/internal/storage/sqlstore"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
	"github.com/mmynk/settleup/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(getEnv("SETTLEUP_CONFIG", ""))
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if cfg.JWT.Secret == config.DevJWTSecret {
		slog.Warn("Using the development JWT secret, set SETTLEUP_JWT_SECRET in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authenticator := auth.NewCodeAuthenticator(store, auth.LogSender{}, auth.CodeOptions{
		Length:      cfg.Auth.CodeLength,
		TTL:         cfg.Auth.CodeTTL,
		MaxAttempts: cfg.Auth.MaxAttempts,
	})

	metrics := middleware.NewMetrics()
	logInterceptor := middleware.LoggingInterceptor()
	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), logInterceptor, metrics.Interceptor())
	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager), logInterceptor, metrics.Interceptor())

	router := httpapi.NewRouter(store, metrics.Handler(),
		httpapi.Mount(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, slog.Default()), public)),
		httpapi.Mount(apiconnect.NewGroupServiceHandler(service.NewGroupService(store), public)),
		httpapi.Mount(apiconnect.NewMemberServiceHandler(service.NewMemberService(store), public)),
		httpapi.Mount(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store), private)),
		httpapi.Mount(apiconnect.NewPaymentServiceHandler(service.NewPaymentService(store), private)),
	)

	scheduler, err := jobs.NewScheduler(store, cfg.Auth.PurgeSchedule)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		scheduler.Stop(stopCtx)
	}()

	handler := middleware.RequestLogging(middleware.CORS(cfg.Server.CORSOrigin)(router))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore connects the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		store, err := sqlstore.Open(sqlstore.DialectPostgres, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Database.Driver)
		return store, nil

	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return mongostore.New(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlstore.New(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Database.Driver, "database", cfg.Database.Path)
		return store, nil
	}
}
