package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/footballhub/internal/pkg/catalog"
	"github.com/Vodeneev/footballhub/internal/pkg/views"
)

func handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": s.service,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	info := requestFrom(r.Context())
	duration := time.Since(info.start)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Query-Duration", duration.String())
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "request_id", info.id, "error", err)
	}
}

func writeData(w http.ResponseWriter, r *http.Request, data any) {
	info := requestFrom(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{
			"duration":   time.Since(info.start).String(),
			"request_id": info.id,
		},
	})
}

// writeError maps loader errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var (
		notFound *views.NotFoundError
		loadErr  *views.LoadError
	)
	switch {
	case errors.Is(err, views.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &loadErr):
		status = http.StatusBadGateway
	}
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q is not a positive integer", views.ErrInvalidInput, raw)
	}
	return id, nil
}

// queryInt reads an optional non-negative integer parameter.
func queryInt(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %q is not a non-negative integer", views.ErrInvalidInput, name, raw)
	}
	return n, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader().Home(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader().Countries(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.loader().CountryDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	country, err := queryInt(r, "country")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	view, err := s.loader().Teams(r.Context(), catalog.TeamFilter{Query: q.Get("q"), CountryID: country}, q.Get("where"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.loader().TeamDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	country, err := queryInt(r, "country")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	f := catalog.PlayerFilter{Query: q.Get("q"), CountryID: country, Position: q.Get("position")}
	view, err := s.loader().Players(r.Context(), f, q.Get("where"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.loader().PlayerDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handleChampionships(w http.ResponseWriter, r *http.Request) {
	country, err := queryInt(r, "country")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	f := catalog.ChampionshipFilter{Query: q.Get("q"), CountryID: country}
	view, err := s.loader().Championships(r.Context(), f, q.Get("where"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handleStadiums(w http.ResponseWriter, r *http.Request) {
	country, err := queryInt(r, "country")
	if err != nil {
		writeError(w, r, err)
		return
	}
	minCapacity, err := queryInt(r, "min_capacity")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	f := catalog.StadiumFilter{Query: q.Get("q"), CountryID: country, MinCapacity: int(minCapacity)}
	view, err := s.loader().Stadiums(r.Context(), f, q.Get("where"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader().Admin(r.Context(), r.PathValue("section"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, view)
}
