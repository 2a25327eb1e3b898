package views

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/footballhub/internal/pkg/catalog"
	"github.com/Vodeneev/footballhub/internal/pkg/footballapi"
	"github.com/Vodeneev/footballhub/internal/pkg/state"
	"github.com/Vodeneev/footballhub/internal/pkg/testbackend"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newLoader(t *testing.T) (*Loader, *testbackend.Backend) {
	t.Helper()
	backend := testbackend.New(t, testbackend.Sample())
	client := footballapi.NewClient(backend.URL, time.Second)
	t.Cleanup(client.CloseIdleConnections)
	return NewLoader(state.NewStore(client)).WithClock(func() time.Time { return fixedNow }), backend
}

func TestHome(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.Home(context.Background())
	require.NoError(t, err)

	assert.Len(t, view.FeaturedChampionships, 4)
	assert.Equal(t, "La Liga", view.FeaturedChampionships[0].Name)
	assert.Equal(t, "Spain", view.FeaturedChampionships[0].Country)
	assert.Len(t, view.PopularTeams, 4)
	assert.Equal(t, Totals{Countries: 3, Teams: 4, Players: 5, Championships: 5}, view.Totals)
}

func TestHome_FirstErrorInPageOrder(t *testing.T) {
	l, backend := newLoader(t)
	backend.Fail("/players/", http.StatusInternalServerError)
	backend.Fail("/country/", http.StatusBadGateway)

	_, err := l.Home(context.Background())
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Message, "/players/")
	assert.True(t, IsRetryable(err))

	backend.Recover("/players/")
	backend.Recover("/country/")
	view, err := l.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, view.Totals.Players)
}

func TestCountries(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.Countries(context.Background(), "an")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "England", view.Countries[0].Name)
	assert.Equal(t, 3, view.Total)
}

func TestCountryDetail(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.CountryDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Spain", view.Country.Name)
	assert.Len(t, view.Teams, 2)
	assert.Len(t, view.Stadiums, 2)
	require.Len(t, view.Players, 2)
	assert.Equal(t, "Barcelona", view.Players[0].Team)
	assert.Equal(t, catalog.FreeAgent, view.Players[1].Team)
	assert.Empty(t, view.Warnings)

	_, err = l.CountryDetail(context.Background(), 404)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "country", nf.Entity)
	assert.False(t, IsRetryable(err))
}

func TestCountryDetail_TabFailureIsWarning(t *testing.T) {
	l, backend := newLoader(t)
	backend.Fail(testbackend.Path("country", 1, "stadiums"), http.StatusInternalServerError)

	view, err := l.CountryDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, view.Stadiums)
	require.Len(t, view.Warnings, 1)
	assert.Contains(t, view.Warnings[0], "stadiums")
}

func TestTeams(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.Teams(context.Background(), catalog.TeamFilter{CountryID: 1}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 4, view.Total)
	assert.Equal(t, "Spain", view.Teams[0].Country)
	assert.Equal(t, 1899, view.Teams[0].FoundingYear)
	assert.Len(t, view.Countries, 3)

	view, err = l.Teams(context.Background(), catalog.TeamFilter{}, `city == "Manchester"`)
	require.NoError(t, err)
	require.Equal(t, 1, view.Count)
	assert.Equal(t, "Manchester United", view.Teams[0].Name)

	_, err = l.Teams(context.Background(), catalog.TeamFilter{}, "city ==")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTeams_CountryLookupFailureDegrades(t *testing.T) {
	l, backend := newLoader(t)
	backend.Fail("/country/", http.StatusInternalServerError)

	view, err := l.Teams(context.Background(), catalog.TeamFilter{}, "")
	require.NoError(t, err)
	assert.Equal(t, catalog.UnknownCountry, view.Teams[0].Country)
	assert.Len(t, view.Warnings, 1)
}

func TestTeamDetail(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.TeamDetail(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Barcelona", view.Team.Name)
	assert.Equal(t, "Spain", view.Team.Country)
	require.Len(t, view.Squad, 1)
	assert.Equal(t, "Pedri", view.Squad[0].Name)
	assert.Equal(t, 23, view.Squad[0].Age)
	require.Len(t, view.History, 2)
	assert.Equal(t, "La Liga", view.History[0].Championship)
	assert.Equal(t, "Copa del Rey", view.History[1].Championship)

	_, err = l.TeamDetail(context.Background(), 77)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestTeamDetail_BackendDown(t *testing.T) {
	l, backend := newLoader(t)
	backend.Fail(testbackend.Path("teams", 10, ""), http.StatusServiceUnavailable)

	_, err := l.TeamDetail(context.Background(), 10)
	assert.True(t, IsRetryable(err))
}

func TestPlayers(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.Players(context.Background(), catalog.PlayerFilter{Position: "Forward"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Defender", "Forward", "Midfielder"}, view.Positions)
	require.Equal(t, 2, view.Count)
	assert.Equal(t, "Vinicius Junior", view.Players[0].Name)
	assert.Equal(t, "Real Madrid", view.Players[0].Team)
	assert.Equal(t, "Brazil", view.Players[0].Country)
	assert.Equal(t, 25, view.Players[0].Age)
}

func TestPlayerDetail(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.PlayerDetail(context.Background(), 104)
	require.NoError(t, err)
	assert.Equal(t, "Sergio Ramos", view.Player.Name)
	assert.Equal(t, catalog.FreeAgent, view.Player.Team)
	assert.Equal(t, 39, view.Player.Age)

	_, err = l.PlayerDetail(context.Background(), 1)
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestChampionships(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.Championships(context.Background(), catalog.ChampionshipFilter{Query: "2023"}, "")
	require.NoError(t, err)
	assert.Equal(t, 3, view.Count)
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "Spain", view.Groups[0].Country)
	assert.Len(t, view.Groups[0].Championships, 2)
	assert.Equal(t, "England", view.Groups[1].Country)
}

func TestStadiums(t *testing.T) {
	l, _ := newLoader(t)

	view, err := l.Stadiums(context.Background(), catalog.StadiumFilter{MinCapacity: 75000}, "country == 1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, "Spain", view.Stadiums[1].Country)
}

func TestAdmin(t *testing.T) {
	l, _ := newLoader(t)
	ctx := context.Background()

	countries, err := l.Admin(ctx, SectionCountries)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spain", "2", "2"}, countries.Rows[0])

	teams, err := l.Admin(ctx, SectionTeams)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barcelona", "Barcelona", "Spain", "1"}, teams.Rows[0])

	players, err := l.Admin(ctx, SectionPlayers)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sergio Ramos", "Defender", catalog.FreeAgent, "Spain"}, players.Rows[4])

	champs, err := l.Admin(ctx, SectionChampionships)
	require.NoError(t, err)
	assert.Equal(t, []string{"La Liga", "2023-24", "Spain", "2"}, champs.Rows[0])
	assert.Equal(t, []string{"Club Friendly Cup", "2024", catalog.UnknownCountry, "0"}, champs.Rows[4])
	assert.Empty(t, champs.Warnings)

	stadiums, err := l.Admin(ctx, SectionStadiums)
	require.NoError(t, err)
	assert.Equal(t, 4, stadiums.Count)
	assert.Equal(t, []string{"Name", "Capacity", "City", "Country"}, stadiums.Columns)

	_, err = l.Admin(ctx, "matches")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdmin_EmptySectionsHaveEmptyRows(t *testing.T) {
	backend := testbackend.New(t, testbackend.Catalog{})
	client := footballapi.NewClient(backend.URL, time.Second)
	t.Cleanup(client.CloseIdleConnections)
	l := NewLoader(state.NewStore(client))

	for _, section := range Sections {
		view, err := l.Admin(context.Background(), section)
		require.NoError(t, err, section)
		assert.NotNil(t, view.Rows, section)
		assert.Zero(t, view.Count, section)

		data, err := json.Marshal(view)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"rows":[]`, section)
	}
}

func TestAdmin_PartialParticipations(t *testing.T) {
	l, backend := newLoader(t)
	backend.Fail(testbackend.Path("teams", 11, "participations"), http.StatusInternalServerError)

	view, err := l.Admin(context.Background(), SectionChampionships)
	require.NoError(t, err)
	assert.Equal(t, "1", view.Rows[0][3])
	require.Len(t, view.Warnings, 1)
	assert.Contains(t, view.Warnings[0], "1 of 4 teams")
}

func TestRetry(t *testing.T) {
	calls := 0
	out, err := Retry(context.Background(), 3, time.Millisecond, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, &LoadError{Page: "teams", Message: "status 503"}
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = Retry(context.Background(), 5, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, &NotFoundError{Entity: "team", ID: 1}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "not found is not retried")
}
