package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rof/invgen/internal/api"
	"github.com/rof/invgen/internal/core/ports"
	"github.com/rof/invgen/internal/core/service"
	"github.com/rof/invgen/internal/infrastructure/config"
	"github.com/rof/invgen/internal/infrastructure/db/mongo"
	"github.com/rof/invgen/internal/infrastructure/db/redis"
	"github.com/rof/invgen/internal/infrastructure/http/handlers"
	"github.com/rof/invgen/internal/infrastructure/render"
	"github.com/rof/invgen/internal/infrastructure/storage"
	"github.com/rof/invgen/internal/pkg/token"
	"github.com/rof/invgen/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

// imageStore is an ImageStore that can also report its health.
type imageStore interface {
	ports.ImageStore
	handlers.Pinger
}

func runServe(cmd *cobra.Command, _ []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), File: cfg.LogFile})

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	readiness := map[string]handlers.Pinger{"mongodb": handlers.MongoPinger(db)}

	var idempotency ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func(c *goredis.Client) { _ = c.Close() }(rdb)

		idempotency = redis.NewIdempotencyStore(rdb)
		readiness["redis"] = handlers.RedisPinger(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, payment idempotency keys are disabled")
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}
	readiness["images"] = images

	// --- Core services ---
	users := mongo.NewUserRepository(db)
	entries := mongo.NewEntryRepository(db)
	records := mongo.NewRecordRepository(db)
	payments := mongo.NewPaymentRepository(db)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	reports, err := service.NewReportService(service.ReportServiceDeps{
		Entries:  entries,
		Users:    users,
		Records:  records,
		Payments: payments,
		Renderer: render.NewChrome(render.Config{ExecPath: cfg.Render.ChromePath, Timeout: cfg.Render.Timeout}),
	}, loc, component(log, "reports"))
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Options{
		Logger:         log,
		Tokens:         issuer,
		Auth:           service.NewAuthService(users, issuer, component(log, "auth")),
		Entries:        service.NewEntryService(entries, users, images, loc, component(log, "entries")),
		Records:        service.NewRecordService(records, payments, mongo.NewTransactor(client), loc, component(log, "records")),
		Payments:       service.NewPaymentService(payments, records, idempotency, loc, component(log, "payments")),
		Reports:        reports,
		Images:         images,
		Readiness:      readiness,
		AllowedOrigins: cfg.AllowedOrigins,
		BodyLimit:      cfg.BodyLimit,
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (imageStore, error) {
	if cfg.Upload.Backend == config.UploadMinIO {
		return storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.Upload.MinIOEndpoint,
			AccessKey: cfg.Upload.MinIOAccessKey,
			SecretKey: cfg.Upload.MinIOSecretKey,
			Bucket:    cfg.Upload.MinIOBucket,
			UseSSL:    cfg.Upload.MinIOUseSSL,
		})
	}
	return storage.NewLocal(cfg.Upload.Dir)
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
