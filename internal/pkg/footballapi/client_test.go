package footballapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/footballhub/internal/pkg/testbackend"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *testbackend.Backend) {
	t.Helper()
	backend := testbackend.New(t, testbackend.Sample())
	return NewClient(backend.URL+"/", time.Second, opts...), backend
}

func TestClient_Lists(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	countries, err := client.Countries(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, 3)

	teams, err := client.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Barcelona", teams[0].Name)
	assert.Equal(t, "Blaugrana", teams[0].Nickname)

	players, err := client.Players(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 5)
	assert.False(t, players[4].HasTeam())

	champs, err := client.Championships(ctx)
	require.NoError(t, err)
	assert.Len(t, champs, 5)

	stadiums, err := client.Stadiums(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99354, stadiums[0].Capacity)
}

func TestClient_DetailAndRelations(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	country, err := client.Country(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Spain", country.Name)
	assert.Equal(t, 1, backend.Hits("/country/1/"))

	teams, err := client.CountryTeams(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	players, err := client.CountryPlayers(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, players, 2)

	stadiums, err := client.CountryStadiums(ctx, 2)
	require.NoError(t, err)
	require.Len(t, stadiums, 1)
	assert.Equal(t, "Old Trafford", stadiums[0].Name)

	team, err := client.Team(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Barcelona", team.City)

	squad, err := client.TeamPlayers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, squad, 1)
	assert.Equal(t, "Pedri", squad[0].Name)

	history, err := client.TeamParticipations(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	player, err := client.Player(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(11), player.TeamID())
}

func TestClient_EmptyRelationIsEmptySlice(t *testing.T) {
	client, _ := newTestClient(t)

	stadiums, err := client.CountryStadiums(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, stadiums)
	assert.Empty(t, stadiums)
}

func TestClient_NullListDecodesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	teams, err := NewClient(srv.URL, time.Second).Teams(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

func TestClient_Errors(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	_, err := client.Team(ctx, 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	backend.Fail("/teams/", http.StatusInternalServerError)
	_, err = client.Teams(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "/teams/", apiErr.Path)
	assert.Contains(t, apiErr.Error(), "injected failure")
	assert.False(t, IsNotFound(err))
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "not a number"`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Country(context.Background(), 1)
	assert.ErrorContains(t, err, "decode /country/1/")
}

func TestClient_ContextCanceled(t *testing.T) {
	client, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Countries(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errors.New("cache down")
	}
	body, ok := m.entries[key]
	return body, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = body
	return nil
}

func TestClient_ResponseCache(t *testing.T) {
	cache := &memoryCache{entries: make(map[string][]byte)}
	client, backend := newTestClient(t, WithCache(cache))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		teams, err := client.Teams(ctx)
		require.NoError(t, err)
		assert.Len(t, teams, 4)
	}
	assert.Equal(t, 1, backend.Hits("/teams/"))
	assert.Contains(t, cache.entries, "/teams/")

	_, err := client.Team(ctx, 999)
	require.Error(t, err)
	assert.NotContains(t, cache.entries, "/teams/999/")
}

func TestClient_CacheFailureFallsThrough(t *testing.T) {
	cache := &memoryCache{entries: make(map[string][]byte), failGet: true}
	client, backend := newTestClient(t, WithCache(cache))

	_, err := client.Countries(context.Background())
	require.NoError(t, err)
	_, err = client.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Hits("/country/"))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, defaultBaseURL, c.BaseURL())
	assert.Equal(t, defaultTimeout, c.client.Timeout)

	c = NewClient("http://api.example/", time.Second, WithUserAgent("probe/2"))
	assert.Equal(t, "http://api.example", c.BaseURL())
	assert.Equal(t, "probe/2", c.userAgent)
}

func TestClient_CachesOnlyDecoded200(t *testing.T) {
	var teamsCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stadiums/":
			w.WriteHeader(http.StatusNonAuthoritativeInfo)
			_, _ = w.Write([]byte(`[]`))
		case "/teams/":
			if teamsCalls.Add(1) == 1 {
				_, _ = w.Write([]byte(`<html>maintenance</html>`))
				return
			}
			_, _ = w.Write([]byte(`[{"id": 10, "name": "Barcelona"}]`))
		}
	}))
	defer srv.Close()

	cache := &memoryCache{entries: make(map[string][]byte)}
	client := NewClient(srv.URL, time.Second, WithCache(cache))
	ctx := context.Background()

	_, err := client.Stadiums(ctx)
	require.NoError(t, err)
	assert.NotContains(t, cache.entries, "/stadiums/")

	_, err = client.Teams(ctx)
	assert.ErrorContains(t, err, "decode /teams/")
	assert.NotContains(t, cache.entries, "/teams/")

	teams, err := client.Teams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, int32(2), teamsCalls.Load())
	assert.Contains(t, cache.entries, "/teams/")
}

func TestClient_InvalidCachedBodyIsRefetched(t *testing.T) {
	cache := &memoryCache{entries: map[string][]byte{"/country/": []byte("<html>")}}
	client, backend := newTestClient(t, WithCache(cache))

	countries, err := client.Countries(context.Background())
	require.NoError(t, err)
	assert.Len(t, countries, 3)
	assert.Equal(t, 1, backend.Hits("/country/"))
	assert.NotEqual(t, "<html>", string(cache.entries["/country/"]))
}
