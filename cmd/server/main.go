package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"auditlog/internal/audit"
	audithandler "auditlog/internal/audit/handler"
	auditpg "auditlog/internal/audit/store/postgres"
	"auditlog/internal/platform/config"
	"auditlog/internal/platform/httpserver"
	"auditlog/internal/platform/logger"
	"auditlog/internal/platform/metrics"
	httptransport "auditlog/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Debug)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := auditpg.New(db, cfg.Environment)
	log.Info("using storage namespace", "schema", store.Schema(), "env", cfg.Environment)

	// Schema initialization is fatal: the process must not accept audit
	// traffic it cannot persist.
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.Initialize(initCtx); err != nil {
		log.Error("initialize database", "error", err)
		os.Exit(1)
	}
	log.Info("database initialized")

	svc := audit.NewService(store)
	m := metrics.New()
	handler := audithandler.New(svc, log, m, cfg.OperatorAPIKey)
	router := httptransport.NewRouter(handler, log, httptransport.Options{
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting audit log server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
