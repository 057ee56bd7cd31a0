package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/newsdesk/internal/auth"
	"github.com/crucial707/newsdesk/internal/config"
	"github.com/crucial707/newsdesk/internal/db"
	"github.com/crucial707/newsdesk/internal/handlers"
	"github.com/crucial707/newsdesk/internal/middleware"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/crucial707/newsdesk/internal/seed"
	"github.com/crucial707/newsdesk/internal/session"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()
	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func run(ctx context.Context, cfg config.Config) error {
	d, sweeper, closeAll, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	if err := sweeper.Start(cfg.SessionSweepSchedule); err != nil {
		return fmt.Errorf("session sweeper: %w", err)
	}
	defer sweeper.Stop()
	if err := sweeper.AddFunc("@every 10m", func() { d.AuthLimiter.Cleanup() }); err != nil {
		return fmt.Errorf("limiter cleanup: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(d),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "storage", cfg.Storage, "sessions", cfg.SessionStore, "tls", cfg.TLSCertFile != "")
		if cfg.TLSCertFile != "" {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// build wires storage, sessions and auth from cfg. The returned func releases connections.
func build(ctx context.Context, cfg config.Config) (deps, *session.Sweeper, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (deps, *session.Sweeper, func(), error) {
		closeAll()
		return deps{}, nil, nil, err
	}

	checks := make(map[string]handlers.Pinger)

	var conn *sql.DB
	if cfg.Storage == repo.KindPostgres {
		if err := db.Migrate(cfg.DB().URL()); err != nil {
			return fail(err)
		}
		c, err := db.Connect(cfg.DB())
		if err != nil {
			return fail(fmt.Errorf("connect database: %w", err))
		}
		conn = c
		closers = append(closers, func() { conn.Close() })
		slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)
	}

	store, err := repo.New(cfg.Storage, conn)
	if err != nil {
		return fail(err)
	}
	checks["storage"] = store

	var sessions session.Store
	switch cfg.SessionStore {
	case "postgres":
		sessions = session.NewPostgresStore(conn)
	case "redis":
		client, err := session.ConnectRedis(ctx, cfg.Redis())
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { client.Close() })
		sessions = session.NewRedisStore(client)
		checks["sessions"] = pingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	default:
		sessions = session.NewMemoryStore()
	}

	manager := session.NewManager(sessions, []byte(cfg.SessionSecret), cfg.SessionTTL(), cfg.IsProd() || cfg.TLSCertFile != "")
	authSvc := auth.NewService(store, manager)

	_, err = seed.Run(ctx, store, seed.Options{
		Admin:   auth.AdminAccount{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		Samples: cfg.SeedSampleArticles,
	}, slog.Default())
	if err != nil {
		return fail(err)
	}

	limiter := middleware.AuthRateLimiter()
	limiter.TrustProxy = cfg.TrustProxyHeaders

	d := deps{
		Store:       store,
		Sessions:    manager,
		Auth:        authSvc,
		AuthLimiter: limiter,
		CORSOrigins: cfg.CORSAllowedOrigins,
		HSTS:        cfg.TLSCertFile != "",
		Checks:      checks,
	}
	return d, session.NewSweeper(sessions, slog.Default()), closeAll, nil
}
