// Package server wires the router, middleware and handlers into an HTTP
// server.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"

	appcatalog "github.com/tastebook/v1/internal/application/catalog"
	"github.com/tastebook/v1/internal/infrastructure/auth"
	"github.com/tastebook/v1/internal/infrastructure/config"
	"github.com/tastebook/v1/internal/infrastructure/http/handlers"
	"github.com/tastebook/v1/internal/infrastructure/http/middleware"
	"github.com/tastebook/v1/internal/infrastructure/session"
)

//go:embed templates/*
var templatesFS embed.FS

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	router     *chi.Mux
	server     *http.Server
	templates  *template.Template
	catalogSvc *appcatalog.CatalogService
	flow       *auth.Flow
	sessions   *handlers.SessionManager
	metrics    *middleware.Metrics
}

// New creates a new HTTP server instance
func New(
	cfg *config.Config,
	logger *zap.Logger,
	catalogSvc *appcatalog.CatalogService,
	flow *auth.Flow,
	store session.Store,
) (*Server, error) {
	s := &Server{
		config:     cfg,
		logger:     logger,
		catalogSvc: catalogSvc,
		flow:       flow,
		sessions:   handlers.NewSessionManager(store, cfg.Session.CookieName, cfg.Session.Secure),
		metrics:    middleware.NewMetrics(),
	}

	if err := s.initTemplates(); err != nil {
		return nil, err
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the session manager, mainly for tests
func (s *Server) Sessions() *handlers.SessionManager {
	return s.sessions
}

// initTemplates parses the embedded page templates
func (s *Server) initTemplates() error {
	tmpl := template.New("")

	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "templates/")
		name = strings.TrimSuffix(name, ".html")

		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.templates = tmpl
	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(s.metrics.Handler())

	if s.config.RateLimit.Enable {
		r.Use(middleware.RateLimit(s.config.RateLimit.RequestsPerMin, s.config.RateLimit.BurstSize))
	}

	r.Use(chimiddleware.Timeout(30 * time.Second))

	if s.config.Server.EnableCompression {
		r.Use(chimiddleware.Compress(5))
	}

	frontend := handlers.NewFrontendHandlers(s.templates, s.catalogSvc, s.sessions, s.logger)
	api := handlers.NewAPIHandlers(s.catalogSvc, s.logger)
	authHandlers := handlers.NewAuthHandlers(s.flow, s.sessions, s.logger)

	r.Get("/", frontend.HandleHome)
	r.Post("/", frontend.HandleHomeSubmit)
	r.Get("/home", frontend.HandleHome)
	r.Post("/home", frontend.HandleHomeSubmit)

	r.Post("/login-provider-callback", authHandlers.HandleLoginCallback)
	r.Get("/logout", authHandlers.HandleLogout)

	r.Route("/food-groups", func(r chi.Router) {
		r.Get("/json", api.ListFoodGroups)

		r.Route("/{groupID}/difficulty/{level}", func(r chi.Router) {
			r.Get("/", frontend.HandleFoodGroup)
			r.Get("/json", api.ListFoodItems)

			r.Get("/add-new-item", frontend.HandleNewItemForm)
			r.Post("/add-new-item", frontend.HandleCreateItem)

			r.Route("/item-id/{itemID}", func(r chi.Router) {
				r.Get("/", frontend.HandleFoodItem)
				r.Get("/json", api.GetFoodItem)
			})

			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/edit", frontend.HandleEditItemForm)
				r.Post("/edit", frontend.HandleUpdateItem)
				r.Get("/delete", frontend.HandleDeleteItemForm)
				r.Post("/delete", frontend.HandleDeleteItem)
			})
		})
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	return r
}

// handleHealth reports process liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": s.config.App.Version,
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := http2.ConfigureServer(s.server, nil); err != nil {
		s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
