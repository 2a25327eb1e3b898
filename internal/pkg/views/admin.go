package views

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Vodeneev/footballhub/internal/pkg/models"
)

// Admin sections.
const (
	SectionCountries     = "countries"
	SectionTeams         = "teams"
	SectionPlayers       = "players"
	SectionChampionships = "championships"
	SectionStadiums      = "stadiums"
)

// Sections lists the admin sections in menu order.
var Sections = []string{SectionCountries, SectionTeams, SectionPlayers, SectionChampionships, SectionStadiums}

// participationFetchLimit bounds concurrent per-team participation requests.
const participationFetchLimit = 4

type AdminView struct {
	Section  string     `json:"section"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Count    int        `json:"count"`
	Warnings []string   `json:"warnings,omitempty"`
}

func (l *Loader) Admin(ctx context.Context, section string) (*AdminView, error) {
	s := l.store
	switch section {
	case SectionCountries:
		fetchAll(ctx, s.FetchCountries, s.FetchTeams, s.FetchPlayers)
		return l.adminCountries()
	case SectionTeams:
		fetchAll(ctx, s.FetchTeams, s.FetchCountries, s.FetchPlayers)
		return l.adminTeams()
	case SectionPlayers:
		fetchAll(ctx, s.FetchPlayers, s.FetchTeams, s.FetchCountries)
		return l.adminPlayers()
	case SectionChampionships:
		fetchAll(ctx, s.FetchChampionships, s.FetchCountries, s.FetchTeams)
		return l.adminChampionships(ctx)
	case SectionStadiums:
		fetchAll(ctx, s.FetchStadiums, s.FetchCountries)
		return l.adminStadiums()
	}
	return nil, invalid("unknown admin section %q, want one of %v", section, Sections)
}

func (l *Loader) adminCountries() (*AdminView, error) {
	s := l.store
	countries := s.Countries.Countries.Snapshot()
	teams := s.Teams.Teams.Snapshot()
	players := s.Players.Players.Snapshot()
	if err := firstError("admin", countries.Error, teams.Error, players.Error); err != nil {
		return nil, err
	}

	teamCount := make(map[int64]int)
	for _, t := range teams.Data {
		teamCount[t.Country]++
	}
	playerCount := make(map[int64]int)
	for _, p := range players.Data {
		playerCount[p.Country]++
	}

	view := &AdminView{Section: SectionCountries, Columns: []string{"Name", "Teams", "Players"}, Rows: [][]string{}}
	for _, c := range countries.Data {
		view.Rows = append(view.Rows, []string{c.Name, strconv.Itoa(teamCount[c.ID]), strconv.Itoa(playerCount[c.ID])})
	}
	view.Count = len(view.Rows)
	return view, nil
}

func (l *Loader) adminTeams() (*AdminView, error) {
	s := l.store
	teams := s.Teams.Teams.Snapshot()
	players := s.Players.Players.Snapshot()
	if err := firstError("admin", teams.Error, players.Error); err != nil {
		return nil, err
	}

	squadSize := make(map[int64]int)
	for _, p := range players.Data {
		if p.HasTeam() {
			squadSize[p.TeamID()]++
		}
	}

	idx := l.index()
	view := &AdminView{
		Section:  SectionTeams,
		Rows:     [][]string{},
		Columns:  []string{"Name", "City", "Country", "Players"},
		Warnings: auxWarning("admin", s.Countries.Countries.Snapshot().Error),
	}
	for _, t := range teams.Data {
		view.Rows = append(view.Rows, []string{t.Name, t.City, idx.CountryName(t.Country), strconv.Itoa(squadSize[t.ID])})
	}
	view.Count = len(view.Rows)
	return view, nil
}

func (l *Loader) adminPlayers() (*AdminView, error) {
	s := l.store
	players := s.Players.Players.Snapshot()
	if err := firstError("admin", players.Error); err != nil {
		return nil, err
	}

	var warnings []string
	warnings = append(warnings, auxWarning("admin", s.Teams.Teams.Snapshot().Error)...)
	warnings = append(warnings, auxWarning("admin", s.Countries.Countries.Snapshot().Error)...)

	idx := l.index()
	view := &AdminView{
		Section:  SectionPlayers,
		Rows:     [][]string{},
		Columns:  []string{"Name", "Position", "Team", "Country"},
		Warnings: warnings,
	}
	for _, p := range players.Data {
		view.Rows = append(view.Rows, []string{p.Name, p.Position, idx.TeamName(p.Team), idx.CountryName(p.Country)})
	}
	view.Count = len(view.Rows)
	return view, nil
}

func (l *Loader) adminChampionships(ctx context.Context) (*AdminView, error) {
	s := l.store
	champs := s.Championships.Championships.Snapshot()
	teams := s.Teams.Teams.Snapshot()
	if err := firstError("admin", champs.Error, teams.Error); err != nil {
		return nil, err
	}

	entrants, failed := l.championshipEntrants(ctx, teams.Data)

	var warnings []string
	warnings = append(warnings, auxWarning("admin", s.Countries.Countries.Snapshot().Error)...)
	if failed > 0 {
		warnings = append(warnings, auxWarning("admin", fmt.Sprintf("participations unavailable for %d of %d teams", failed, len(teams.Data)))...)
	}

	idx := l.index()
	view := &AdminView{
		Section:  SectionChampionships,
		Rows:     [][]string{},
		Columns:  []string{"Name", "Season", "Country", "Teams"},
		Warnings: warnings,
	}
	for _, c := range champs.Data {
		view.Rows = append(view.Rows, []string{c.Name, c.Season, idx.CountryName(c.Country), strconv.Itoa(len(entrants[c.ID]))})
	}
	view.Count = len(view.Rows)
	return view, nil
}

// championshipEntrants collects distinct participating teams per
// championship from every team's history. It returns how many teams failed.
func (l *Loader) championshipEntrants(ctx context.Context, teams []models.Team) (map[int64]map[int64]struct{}, int) {
	api := l.store.API()

	var (
		mu       sync.Mutex
		failed   int
		entrants = make(map[int64]map[int64]struct{})
	)

	var g errgroup.Group
	g.SetLimit(participationFetchLimit)
	for _, t := range teams {
		g.Go(func() error {
			parts, err := api.TeamParticipations(ctx, t.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				slog.Warn("Team participations unavailable", "team_id", t.ID, "error", err)
				return nil
			}
			for _, p := range parts {
				if entrants[p.Championship] == nil {
					entrants[p.Championship] = make(map[int64]struct{})
				}
				entrants[p.Championship][p.Team] = struct{}{}
			}
			return nil
		})
	}
	_ = g.Wait()
	return entrants, failed
}

func (l *Loader) adminStadiums() (*AdminView, error) {
	s := l.store
	stadiums := s.Stadiums.Stadiums.Snapshot()
	if err := firstError("admin", stadiums.Error); err != nil {
		return nil, err
	}

	idx := l.index()
	view := &AdminView{
		Section:  SectionStadiums,
		Rows:     [][]string{},
		Columns:  []string{"Name", "Capacity", "City", "Country"},
		Warnings: auxWarning("admin", s.Countries.Countries.Snapshot().Error),
	}
	for _, st := range stadiums.Data {
		view.Rows = append(view.Rows, []string{st.Name, strconv.Itoa(st.Capacity), st.City, idx.CountryName(st.Country)})
	}
	view.Count = len(view.Rows)
	return view, nil
}
