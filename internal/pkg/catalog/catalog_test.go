package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/footballhub/internal/pkg/models"
	"github.com/Vodeneev/footballhub/internal/pkg/testbackend"
)

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func teamName(t models.Team) string       { return t.Name }
func playerName(p models.Player) string   { return p.Name }
func stadiumName(s models.Stadium) string { return s.Name }

func TestFilterCountries(t *testing.T) {
	c := testbackend.Sample()

	assert.Len(t, FilterCountries(c.Countries, ""), 3)
	assert.Equal(t, []models.Country{{ID: 3, Name: "Brazil"}}, FilterCountries(c.Countries, "bRa"))
	assert.Empty(t, FilterCountries(c.Countries, "italy"))
	assert.Empty(t, FilterCountries(c.Countries, " bra"), "query is not trimmed")
}

func TestFilterTeams(t *testing.T) {
	teams := testbackend.Sample().Teams

	tests := []struct {
		name   string
		filter TeamFilter
		want   []string
	}{
		{"all", TeamFilter{}, []string{"Barcelona", "Real Madrid", "Manchester United", "Flamengo"}},
		{"by name", TeamFilter{Query: "real"}, []string{"Real Madrid"}},
		{"by city", TeamFilter{Query: "rio de"}, []string{"Flamengo"}},
		{"by nickname", TeamFilter{Query: "DEVILS"}, []string{"Manchester United"}},
		{"by country", TeamFilter{CountryID: 1}, []string{"Barcelona", "Real Madrid"}},
		{"query and country", TeamFilter{Query: "man", CountryID: 1}, []string{}},
		{"blank query is a literal space", TeamFilter{Query: " "}, []string{"Real Madrid", "Manchester United", "Flamengo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterTeams(teams, tt.filter), teamName))
		})
	}
}

func TestFilterPlayers(t *testing.T) {
	players := testbackend.Sample().Players

	tests := []struct {
		name   string
		filter PlayerFilter
		want   []string
	}{
		{"by name", PlayerFilter{Query: "ram"}, []string{"Sergio Ramos"}},
		{"by country", PlayerFilter{CountryID: 3}, []string{"Vinicius Junior", "Gabigol"}},
		{"by position", PlayerFilter{Position: "Midfielder"}, []string{"Pedri", "Bruno Fernandes"}},
		{"position is exact", PlayerFilter{Position: "midfielder"}, []string{}},
		{"combined", PlayerFilter{Query: "g", CountryID: 3, Position: "Forward"}, []string{"Gabigol"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterPlayers(players, tt.filter), playerName))
		})
	}
}

func TestFilterChampionships(t *testing.T) {
	champs := testbackend.Sample().Championships

	bySeason := FilterChampionships(champs, ChampionshipFilter{Query: "2024"})
	assert.Len(t, bySeason, 2)

	spain := FilterChampionships(champs, ChampionshipFilter{Query: "liga", CountryID: 1})
	require.Len(t, spain, 1)
	assert.Equal(t, "La Liga", spain[0].Name)
}

func TestFilterStadiums(t *testing.T) {
	stadiums := testbackend.Sample().Stadiums

	assert.Equal(t, []string{"Camp Nou", "Santiago Bernabeu"},
		names(FilterStadiums(stadiums, StadiumFilter{MinCapacity: 80000}), stadiumName))
	assert.Equal(t, []string{"Old Trafford"},
		names(FilterStadiums(stadiums, StadiumFilter{Query: "manchester"}), stadiumName))
	assert.Equal(t, []string{"Maracana"},
		names(FilterStadiums(stadiums, StadiumFilter{CountryID: 3}), stadiumName))
}

func TestPositions(t *testing.T) {
	assert.Equal(t, []string{"Defender", "Forward", "Midfielder"}, Positions(testbackend.Sample().Players))
	assert.Equal(t, []string{}, Positions(nil))
}

func TestIndex(t *testing.T) {
	c := testbackend.Sample()
	idx := NewIndex(c.Countries, c.Teams, c.Championships)

	assert.Equal(t, "Spain", idx.CountryName(1))
	assert.Equal(t, UnknownCountry, idx.CountryName(99))

	team := int64(12)
	missing := int64(77)
	assert.Equal(t, "Manchester United", idx.TeamName(&team))
	assert.Equal(t, UnknownTeam, idx.TeamName(&missing))
	assert.Equal(t, FreeAgent, idx.TeamName(nil))

	assert.Equal(t, "Premier League", idx.ChampionshipName(301))
	assert.Equal(t, UnknownChampionship, idx.ChampionshipName(1))

	_, ok := idx.Team(13)
	assert.True(t, ok)
	_, ok = idx.Country(42)
	assert.False(t, ok)
}

func TestGroupChampionshipsByCountry(t *testing.T) {
	c := testbackend.Sample()

	groups := GroupChampionshipsByCountry(c.Championships, c.Countries)
	require.Len(t, groups, 4)

	assert.Equal(t, "Spain", groups[0].Country)
	assert.Len(t, groups[0].Championships, 2)
	assert.Equal(t, "Copa del Rey", groups[0].Championships[1].Name)
	assert.Equal(t, "England", groups[1].Country)
	assert.Equal(t, "Brazil", groups[2].Country)
	assert.Equal(t, UnknownCountry, groups[3].Country)

	assert.Empty(t, GroupChampionshipsByCountry(nil, c.Countries))
}

func TestWhere(t *testing.T) {
	c := testbackend.Sample()

	big, err := Where(c.Stadiums, "capacity > 80000")
	require.NoError(t, err)
	assert.Equal(t, []string{"Camp Nou", "Santiago Bernabeu"}, names(big, stadiumName))

	brazilForwards, err := Where(c.Players, `position == "Forward" && country == 3`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vinicius Junior", "Gabigol"}, names(brazilForwards, playerName))

	free, err := Where(c.Players, "team == nil")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sergio Ramos"}, names(free, playerName))

	all, err := Where(c.Teams, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestWhere_Errors(t *testing.T) {
	teams := testbackend.Sample().Teams

	_, err := Where(teams, "name ==")
	assert.ErrorContains(t, err, "compile where")

	_, err = Where(teams, "name")
	assert.ErrorContains(t, err, "want bool")

	_, err = CompileWhere("")
	assert.Error(t, err)
}
