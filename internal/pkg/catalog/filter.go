// Package catalog filters, groups and cross-references entity lists held in
// memory. Nothing here talks to the backend.
package catalog

import (
	"sort"
	"strings"

	"github.com/Vodeneev/footballhub/internal/pkg/models"
)

// matches is a case-insensitive substring test; an empty query matches.
// The query is not trimmed, so " " only matches fields containing a space.
func matches(query string, fields ...string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func sameCountry(selected, country int64) bool {
	return selected == 0 || selected == country
}

func FilterCountries(countries []models.Country, query string) []models.Country {
	out := make([]models.Country, 0, len(countries))
	for _, c := range countries {
		if matches(query, c.Name) {
			out = append(out, c)
		}
	}
	return out
}

// TeamFilter matches name, city or nickname. CountryID 0 means any.
type TeamFilter struct {
	Query     string
	CountryID int64
}

func FilterTeams(teams []models.Team, f TeamFilter) []models.Team {
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if matches(f.Query, t.Name, t.City, t.Nickname) && sameCountry(f.CountryID, t.Country) {
			out = append(out, t)
		}
	}
	return out
}

// PlayerFilter matches on name. Position is compared exactly.
type PlayerFilter struct {
	Query     string
	CountryID int64
	Position  string
}

func FilterPlayers(players []models.Player, f PlayerFilter) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if !matches(f.Query, p.Name) || !sameCountry(f.CountryID, p.Country) {
			continue
		}
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ChampionshipFilter matches name or season.
type ChampionshipFilter struct {
	Query     string
	CountryID int64
}

func FilterChampionships(champs []models.Championship, f ChampionshipFilter) []models.Championship {
	out := make([]models.Championship, 0, len(champs))
	for _, c := range champs {
		if matches(f.Query, c.Name, c.Season) && sameCountry(f.CountryID, c.Country) {
			out = append(out, c)
		}
	}
	return out
}

type StadiumFilter struct {
	Query       string
	CountryID   int64
	MinCapacity int
}

func FilterStadiums(stadiums []models.Stadium, f StadiumFilter) []models.Stadium {
	out := make([]models.Stadium, 0, len(stadiums))
	for _, s := range stadiums {
		if matches(f.Query, s.Name, s.City) && sameCountry(f.CountryID, s.Country) && s.Capacity >= f.MinCapacity {
			out = append(out, s)
		}
	}
	return out
}

// Positions returns the distinct player positions in ascending order.
func Positions(players []models.Player) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range players {
		if _, ok := seen[p.Position]; ok {
			continue
		}
		seen[p.Position] = struct{}{}
		out = append(out, p.Position)
	}
	sort.Strings(out)
	return out
}
