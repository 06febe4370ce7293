package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/klinik/clinic-scheduler/internal/audit"
	"github.com/klinik/clinic-scheduler/internal/config"
	dbpkg "github.com/klinik/clinic-scheduler/internal/db"
	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/infra/lock"
	"github.com/klinik/clinic-scheduler/internal/logging"
	"github.com/klinik/clinic-scheduler/internal/routes"
	"github.com/klinik/clinic-scheduler/internal/timezone"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg)
	slog.SetDefault(logger)

	if !timezone.IsValid(cfg.Timezone) {
		slog.Warn("unknown clinic timezone, using default",
			"timezone", cfg.Timezone,
			"default", timezone.DefaultTimezone,
		)
	}
	loc := timezone.Location(cfg.Timezone)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	var locker domain.SlotLocker = lock.NoopLocker{}
	if cfg.RedisAddr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client)
		slog.Info("booking lock enabled", "redis", cfg.RedisAddr)
	}

	dispatcher := audit.NewDispatcher(audit.New(db))
	defer dispatcher.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Audit:    dispatcher,
		Locker:   locker,
		Clock:    timezone.SystemClock,
		Location: loc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", cfg.Addr(), "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
