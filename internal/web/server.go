// Package web provides the HTTP server and handlers for the protocol
// workflow API. The API is JSON only; the browser frontend is served
// separately.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/SBreitkreuz/pruefdoc/internal/config"
	"github.com/SBreitkreuz/pruefdoc/internal/device"
	"github.com/SBreitkreuz/pruefdoc/internal/export"
	"github.com/SBreitkreuz/pruefdoc/internal/web/middleware"
	"github.com/SBreitkreuz/pruefdoc/internal/workflow"
)

// Server is the HTTP server for the protocol workflow application.
type Server struct {
	manager  *workflow.Manager
	exporter *export.Exporter
	devices  *device.Catalog
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(manager *workflow.Manager, exporter *export.Exporter, devices *device.Catalog, cfg *config.Config) *Server {
	s := &Server{
		manager:  manager,
		exporter: exporter,
		devices:  devices,
		cfg:      cfg,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Session lifecycle
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/sessions/{sessionID}", s.handleDeleteSession)

		// Workbook import
		r.Post("/sessions/{sessionID}/import", s.handleImport)

		// Field mutations and positions
		r.Put("/sessions/{sessionID}/fields", s.handleSetField)
		r.Post("/sessions/{sessionID}/positions", s.handleAddPosition)
		r.Delete("/sessions/{sessionID}/positions/{positionID}", s.handleRemovePosition)

		// Step navigation
		r.Post("/sessions/{sessionID}/advance", s.handleAdvance)
		r.Post("/sessions/{sessionID}/retreat", s.handleRetreat)

		// Aggregation and export
		r.Get("/sessions/{sessionID}/aggregates", s.handleAggregates)
		r.Post("/sessions/{sessionID}/export", s.handleExport)
		r.Get("/sessions/{sessionID}/exports", s.handleExportHistory)

		// Explicit draft save
		r.Post("/sessions/{sessionID}/save", s.handleSave)

		// Device catalog
		r.Get("/devices", s.handleListDevices)
		r.Post("/devices", s.handleAddDevice)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
