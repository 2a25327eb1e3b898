// Package testbackend serves a small in-memory football catalog over HTTP
// with the same routes as the real backend. Tests use it in place of the
// production API.
package testbackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Vodeneev/footballhub/internal/pkg/models"
)

type Catalog struct {
	Countries      []models.Country
	Teams          []models.Team
	Players        []models.Player
	Stadiums       []models.Stadium
	Championships  []models.Championship
	Participations []models.TeamParticipation
}

// Backend is a fake backend. Failures can be injected per path.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	catalog  Catalog
	failures map[string]int
	hits     map[string]int
	total    atomic.Int64
}

// New starts a backend serving catalog and closes it with the test.
func New(t testing.TB, catalog Catalog) *Backend {
	t.Helper()
	b := &Backend{
		catalog:  catalog,
		failures: make(map[string]int),
		hits:     make(map[string]int),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Fail makes requests to path answer with status until Recover is called.
func (b *Backend) Fail(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = status
}

func (b *Backend) Recover(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, path)
}

// Hits returns how many times path was requested.
func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *Backend) Total() int64 {
	return b.total.Load()
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.total.Add(1)
	b.mu.Lock()
	b.hits[r.URL.Path]++
	status, failing := b.failures[r.URL.Path]
	b.mu.Unlock()

	if failing {
		http.Error(w, "injected failure", status)
		return
	}

	payload, ok := b.route(r.URL.Path)
	if !ok {
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (b *Backend) route(path string) (any, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	c := &b.catalog

	switch {
	case len(parts) == 1 && parts[0] == "country":
		return c.Countries, true
	case len(parts) == 1 && parts[0] == "teams":
		return c.Teams, true
	case len(parts) == 1 && parts[0] == "players":
		return c.Players, true
	case len(parts) == 1 && parts[0] == "championship":
		return c.Championships, true
	case len(parts) == 1 && parts[0] == "stadiums":
		return c.Stadiums, true
	}

	if len(parts) < 2 {
		return nil, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, false
	}
	sub := ""
	if len(parts) == 3 {
		sub = parts[2]
	}

	switch parts[0] + "/" + sub {
	case "country/":
		return find(c.Countries, func(x models.Country) bool { return x.ID == id })
	case "country/teams":
		return filter(c.Teams, func(x models.Team) bool { return x.Country == id }), true
	case "country/players":
		return filter(c.Players, func(x models.Player) bool { return x.Country == id }), true
	case "country/stadiums":
		return filter(c.Stadiums, func(x models.Stadium) bool { return x.Country == id }), true
	case "teams/":
		return find(c.Teams, func(x models.Team) bool { return x.ID == id })
	case "teams/players":
		return filter(c.Players, func(x models.Player) bool { return x.TeamID() == id }), true
	case "teams/participations":
		return filter(c.Participations, func(x models.TeamParticipation) bool { return x.Team == id }), true
	case "players/":
		return find(c.Players, func(x models.Player) bool { return x.ID == id })
	}
	return nil, false
}

func find[T any](items []T, match func(T) bool) (any, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	return nil, false
}

func filter[T any](items []T, match func(T) bool) []T {
	out := []T{}
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

func ptr(id int64) *int64 { return &id }

// Sample returns a small catalog with cross references in every direction.
func Sample() Catalog {
	return Catalog{
		Countries: []models.Country{
			{ID: 1, Name: "Spain"},
			{ID: 2, Name: "England"},
			{ID: 3, Name: "Brazil"},
		},
		Teams: []models.Team{
			{ID: 10, Name: "Barcelona", Nickname: "Blaugrana", City: "Barcelona", FoundingDate: "1899-11-29", Country: 1},
			{ID: 11, Name: "Real Madrid", Nickname: "Los Blancos", City: "Madrid", FoundingDate: "1902-03-06", Country: 1},
			{ID: 12, Name: "Manchester United", Nickname: "Red Devils", City: "Manchester", FoundingDate: "1878-01-01", Country: 2},
			{ID: 13, Name: "Flamengo", City: "Rio de Janeiro", FoundingDate: "1895-11-17", Country: 3},
		},
		Players: []models.Player{
			{ID: 100, Name: "Pedri", BirthDate: "2002-11-25", Country: 1, Position: "Midfielder", Team: ptr(10)},
			{ID: 101, Name: "Vinicius Junior", BirthDate: "2000-07-12", Country: 3, Position: "Forward", Team: ptr(11)},
			{ID: 102, Name: "Bruno Fernandes", BirthDate: "1994-09-08", Country: 2, Position: "Midfielder", Team: ptr(12)},
			{ID: 103, Name: "Gabigol", BirthDate: "1996-08-30", Country: 3, Position: "Forward", Team: ptr(13)},
			{ID: 104, Name: "Sergio Ramos", BirthDate: "1986-03-30", Country: 1, Position: "Defender"},
		},
		Stadiums: []models.Stadium{
			{ID: 200, Name: "Camp Nou", Capacity: 99354, City: "Barcelona", Country: 1},
			{ID: 201, Name: "Santiago Bernabeu", Capacity: 81044, City: "Madrid", Country: 1},
			{ID: 202, Name: "Old Trafford", Capacity: 74879, City: "Manchester", Country: 2},
			{ID: 203, Name: "Maracana", Capacity: 78838, City: "Rio de Janeiro", Country: 3},
		},
		Championships: []models.Championship{
			{ID: 300, Name: "La Liga", Season: "2023-24", Country: 1},
			{ID: 301, Name: "Premier League", Season: "2023-24", Country: 2},
			{ID: 302, Name: "Brasileirao", Season: "2024", Country: 3},
			{ID: 303, Name: "Copa del Rey", Season: "2023-24", Country: 1},
			{ID: 304, Name: "Club Friendly Cup", Season: "2024", Country: 99},
		},
		Participations: []models.TeamParticipation{
			{Team: 10, Championship: 300, Season: "2023-24"},
			{Team: 10, Championship: 303, Season: "2023-24"},
			{Team: 11, Championship: 300, Season: "2023-24"},
			{Team: 12, Championship: 301, Season: "2023-24"},
			{Team: 13, Championship: 302, Season: "2024"},
		},
	}
}

// Path builds a detail path the same way the client does.
func Path(resource string, id int64, sub string) string {
	if sub == "" {
		return fmt.Sprintf("/%s/%d/", resource, id)
	}
	return fmt.Sprintf("/%s/%d/%s", resource, id, sub)
}
