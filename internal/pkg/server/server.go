package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vodeneev/footballhub/internal/pkg/metrics"
	"github.com/Vodeneev/footballhub/internal/pkg/state"
	"github.com/Vodeneev/footballhub/internal/pkg/views"
)

// Server exposes the views as JSON. Every request gets its own state store,
// so concurrent requests never share a "current" resource.
type Server struct {
	api     state.API
	service string
	now     func() time.Time
}

func New(api state.API, service string) *Server {
	return &Server{api: api, service: service, now: time.Now}
}

func (s *Server) loader() *views.Loader {
	return views.NewLoader(state.NewStore(s.api)).WithClock(s.now)
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", handlePing)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	s.route(mux, "GET /api/home", s.handleHome)
	s.route(mux, "GET /api/countries", s.handleCountries)
	s.route(mux, "GET /api/countries/{id}", s.handleCountry)
	s.route(mux, "GET /api/teams", s.handleTeams)
	s.route(mux, "GET /api/teams/{id}", s.handleTeam)
	s.route(mux, "GET /api/players", s.handlePlayers)
	s.route(mux, "GET /api/players/{id}", s.handlePlayer)
	s.route(mux, "GET /api/championships", s.handleChampionships)
	s.route(mux, "GET /api/stadiums", s.handleStadiums)
	s.route(mux, "GET /api/admin/{section}", s.handleAdmin)

	return mux
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readHeaderTimeout time.Duration) error {
	if readHeaderTimeout <= 0 {
		return fmt.Errorf("read_header_timeout must be specified in config")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "service", s.service, "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	slog.Info("HTTP server stopped", "service", s.service)
	return nil
}

func AddrFor(port int) (string, error) {
	if port <= 0 {
		return "", fmt.Errorf("port must be greater than 0")
	}
	return fmt.Sprintf(":%d", port), nil
}
