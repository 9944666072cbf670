// Copyright (C) 2025-2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/protocol"
	"github.com/solidforge/solidforge/internal/store"
)

// Server is the REST + WebSocket observer API.
type Server struct {
	httpServer  *http.Server
	broadcaster *EventBroadcaster
}

// New wires up the API server. It does not start listening; call Run for
// that. eventChan and runs may be nil for a reduced surface.
func New(cfg *config.ServerConfig, eventChan <-chan protocol.Event, runs *store.Store) *Server {
	registry := NewClientRegistry()
	broadcaster := NewEventBroadcaster(eventChan, registry)
	handlers := NewHandlers(runs)

	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(CORS(cfg.AllowedOrigins))

	r.Get("/healthz", handlers.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", handlers.GetRuns)
		r.Get("/runs/{id}", handlers.GetRun)
	})

	r.Get("/ws", HandleWebSocket(registry, cfg.AllowedOrigins))

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		broadcaster: broadcaster,
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the event broadcaster goroutine and the HTTP server. Blocks
// until the server is shut down or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.broadcaster.eventChan != nil {
		go s.broadcaster.Run(ctx)
	}

	getLog().Info().Str("addr", s.httpServer.Addr).Msg("API server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
