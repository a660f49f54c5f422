package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/SBreitkreuz/pruefdoc/internal/config"
	"github.com/SBreitkreuz/pruefdoc/internal/device"
	"github.com/SBreitkreuz/pruefdoc/internal/draft"
	"github.com/SBreitkreuz/pruefdoc/internal/export"
	"github.com/SBreitkreuz/pruefdoc/internal/logging"
	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
	"github.com/SBreitkreuz/pruefdoc/internal/web"
	"github.com/SBreitkreuz/pruefdoc/internal/workbook"
	"github.com/SBreitkreuz/pruefdoc/internal/workflow"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"template", cfg.Export.TemplatePath,
		"persist_debounce", cfg.Workflow.PersistDebounce,
	)

	ctx := context.Background()

	// Open the draft store. Without a database URL, or when the database
	// is unreachable, the application degrades to in-memory drafts so an
	// inspector can keep working.
	store := openStore(ctx, cfg)
	defer store.Close()

	manager := workflow.NewManager(store, cfg.Workflow.PersistDebounce)

	template := workbook.NewTemplateCache(cfg.Export.TemplatePath)
	exporter, err := export.New(template, protocol.DefaultTemplateMapping())
	if err != nil {
		slog.Error("failed to create exporter", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(manager, exporter, device.DefaultCatalog(), cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Flush dirty drafts before the store closes
		manager.Shutdown(shutdownCtx)

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects to Postgres when a URL is configured, falling back to
// the in-memory store on any failure.
func openStore(ctx context.Context, cfg *config.Config) draft.Store {
	if cfg.Database.URL == "" {
		slog.Info("no database configured, drafts are in-memory only")
		return draft.NewMemoryStore(cfg.Workflow.ExportHistoryCap)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL, falling back to in-memory drafts", "error", err)
		return draft.NewMemoryStore(cfg.Workflow.ExportHistoryCap)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database, falling back to in-memory drafts", "error", err)
		return draft.NewMemoryStore(cfg.Workflow.ExportHistoryCap)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		slog.Error("failed to ping database, falling back to in-memory drafts", "error", err)
		return draft.NewMemoryStore(cfg.Workflow.ExportHistoryCap)
	}

	store, err := draft.NewPostgresStore(ctx, pool, cfg.Workflow.ExportHistoryCap)
	if err != nil {
		pool.Close()
		slog.Error("failed to prepare draft tables, falling back to in-memory drafts", "error", err)
		return draft.NewMemoryStore(cfg.Workflow.ExportHistoryCap)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return store
}
