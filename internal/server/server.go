// Package server exposes the panel over HTTP: the sandboxed shell, its two
// bundled assets, and the WebSocket the front end talks through.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/systerlang/systerview/internal/panel"
)

// Config holds server configuration.
type Config struct {
	Port     int
	RootURI  string // workspace root as a file URI
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server hosts the panel surface.
type Server struct {
	cfg        Config
	manager    *panel.Manager
	log        zerolog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server bound to the given session manager.
func New(cfg Config, manager *panel.Manager, log zerolog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		manager: manager,
		log:     log,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleIndex)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(panel.Assets()))))
	r.Get("/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// handleIndex renders the panel shell. The session comes alive here; the
// front end attaches through /ws once its script runs.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.manager.CreateOrShow(s.cfg.RootURI)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := panel.RenderShell(w, "ws://"+r.Host); err != nil {
		s.log.Error().Err(err).Msg("rendering shell")
	}
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("systerview panel listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
