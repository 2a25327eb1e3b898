package views

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Vodeneev/footballhub/internal/pkg/catalog"
	"github.com/Vodeneev/footballhub/internal/pkg/footballapi"
	"github.com/Vodeneev/footballhub/internal/pkg/models"
	"github.com/Vodeneev/footballhub/internal/pkg/state"
)

const (
	featuredChampionships = 4
	popularTeams          = 6
)

// Loader composes pages from a state store. Every call fetches what the page
// needs, so calling it again after a failure is a retry.
type Loader struct {
	store *state.Store
	now   func() time.Time
}

func NewLoader(store *state.Store) *Loader {
	return &Loader{store: store, now: time.Now}
}

// WithClock overrides the clock used for player ages.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

func (l *Loader) Store() *state.Store {
	return l.store
}

type fetchFunc func(ctx context.Context) error

// fetchAll starts every fetch at once and waits for all of them to settle.
// Failures are recorded in the store, so the group error is not used.
func fetchAll(ctx context.Context, fetches ...fetchFunc) {
	var g errgroup.Group
	for _, f := range fetches {
		g.Go(func() error { return f(ctx) })
	}
	_ = g.Wait()
}

// firstError returns a LoadError for the first non-empty message.
func firstError(page string, messages ...string) error {
	for _, m := range messages {
		if m != "" {
			return &LoadError{Page: page, Message: m}
		}
	}
	return nil
}

// detailError maps the error of a detail fetch onto NotFoundError or LoadError.
func detailError(page, entity string, id int64, err error, message string) error {
	if footballapi.IsNotFound(err) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return &LoadError{Page: page, Message: message}
}

// auxWarning logs a failed lookup resource and returns its message.
func auxWarning(page, message string) []string {
	if message == "" {
		return nil
	}
	slog.Warn("Lookup data unavailable", "page", page, "error", message)
	return []string{message}
}

func (l *Loader) index() *catalog.Index {
	return catalog.NewIndex(
		l.store.Countries.Countries.Snapshot().Data,
		l.store.Teams.Teams.Snapshot().Data,
		l.store.Championships.Championships.Snapshot().Data,
	)
}

type Totals struct {
	Countries     int `json:"countries"`
	Teams         int `json:"teams"`
	Players       int `json:"players"`
	Championships int `json:"championships"`
}

type HomeView struct {
	FeaturedChampionships []ChampionshipRow `json:"featured_championships"`
	PopularTeams          []TeamRow         `json:"popular_teams"`
	Totals                Totals            `json:"totals"`
}

func (l *Loader) Home(ctx context.Context) (*HomeView, error) {
	s := l.store
	fetchAll(ctx, s.FetchChampionships, s.FetchTeams, s.FetchPlayers, s.FetchCountries)

	champs := s.Championships.Championships.Snapshot()
	teams := s.Teams.Teams.Snapshot()
	players := s.Players.Players.Snapshot()
	countries := s.Countries.Countries.Snapshot()
	if err := firstError("home", champs.Error, teams.Error, players.Error, countries.Error); err != nil {
		return nil, err
	}

	idx := l.index()
	return &HomeView{
		FeaturedChampionships: championshipRows(head(champs.Data, featuredChampionships), idx),
		PopularTeams:          teamRows(head(teams.Data, popularTeams), idx),
		Totals: Totals{
			Countries:     len(countries.Data),
			Teams:         len(teams.Data),
			Players:       len(players.Data),
			Championships: len(champs.Data),
		},
	}, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

type CountriesView struct {
	Query     string           `json:"query,omitempty"`
	Countries []models.Country `json:"countries"`
	Count     int              `json:"count"`
	Total     int              `json:"total"`
}

func (l *Loader) Countries(ctx context.Context, query string) (*CountriesView, error) {
	_ = l.store.FetchCountries(ctx)

	snap := l.store.Countries.Countries.Snapshot()
	if err := firstError("countries", snap.Error); err != nil {
		return nil, err
	}

	filtered := catalog.FilterCountries(snap.Data, query)
	return &CountriesView{
		Query:     query,
		Countries: filtered,
		Count:     len(filtered),
		Total:     len(snap.Data),
	}, nil
}

type CountryDetailView struct {
	Country  models.Country `json:"country"`
	Teams    []TeamRow      `json:"teams"`
	Players  []PlayerRow    `json:"players"`
	Stadiums []StadiumRow   `json:"stadiums"`
	Warnings []string       `json:"warnings,omitempty"`
}

func (l *Loader) CountryDetail(ctx context.Context, id int64) (*CountryDetailView, error) {
	s := l.store
	var countryErr error
	fetchAll(ctx,
		func(ctx context.Context) error { countryErr = s.FetchCountry(ctx, id); return countryErr },
		func(ctx context.Context) error { return s.FetchCountryTeams(ctx, id) },
		func(ctx context.Context) error { return s.FetchCountryPlayers(ctx, id) },
		func(ctx context.Context) error { return s.FetchCountryStadiums(ctx, id) },
		s.FetchTeams,
	)

	current := s.Countries.CurrentCountry.Snapshot()
	if current.Error != "" || current.Data == nil {
		return nil, detailError("country", "country", id, countryErr, current.Error)
	}

	teams := s.Countries.CountryTeams.Snapshot()
	players := s.Countries.CountryPlayers.Snapshot()
	stadiums := s.Countries.CountryStadiums.Snapshot()

	var warnings []string
	for _, msg := range []string{teams.Error, players.Error, stadiums.Error, s.Teams.Teams.Snapshot().Error} {
		warnings = append(warnings, auxWarning("country", msg)...)
	}

	idx := catalog.NewIndex([]models.Country{*current.Data}, s.Teams.Teams.Snapshot().Data, nil)
	return &CountryDetailView{
		Country:  *current.Data,
		Teams:    teamRows(teams.Data, idx),
		Players:  playerRows(players.Data, idx, l.now()),
		Stadiums: stadiumRows(stadiums.Data, idx),
		Warnings: warnings,
	}, nil
}

type TeamsView struct {
	Filter    catalog.TeamFilter `json:"filter"`
	Teams     []TeamRow          `json:"teams"`
	Countries []models.Country   `json:"countries"`
	Count     int                `json:"count"`
	Total     int                `json:"total"`
	Warnings  []string           `json:"warnings,omitempty"`
}

func (l *Loader) Teams(ctx context.Context, f catalog.TeamFilter, where string) (*TeamsView, error) {
	s := l.store
	fetchAll(ctx, s.FetchTeams, s.FetchCountries)

	teams := s.Teams.Teams.Snapshot()
	if err := firstError("teams", teams.Error); err != nil {
		return nil, err
	}

	filtered, err := catalog.Where(catalog.FilterTeams(teams.Data, f), where)
	if err != nil {
		return nil, invalid("%v", err)
	}

	countries := s.Countries.Countries.Snapshot()
	return &TeamsView{
		Filter:    f,
		Teams:     teamRows(filtered, l.index()),
		Countries: countries.Data,
		Count:     len(filtered),
		Total:     len(teams.Data),
		Warnings:  auxWarning("teams", countries.Error),
	}, nil
}

type TeamDetailView struct {
	Team     TeamRow            `json:"team"`
	Squad    []PlayerRow        `json:"squad"`
	History  []ParticipationRow `json:"history"`
	Warnings []string           `json:"warnings,omitempty"`
}

func (l *Loader) TeamDetail(ctx context.Context, id int64) (*TeamDetailView, error) {
	s := l.store
	var teamErr error
	fetchAll(ctx,
		func(ctx context.Context) error { teamErr = s.FetchTeam(ctx, id); return teamErr },
		func(ctx context.Context) error { return s.FetchTeamPlayers(ctx, id) },
		func(ctx context.Context) error { return s.FetchTeamParticipations(ctx, id) },
		s.FetchChampionships,
		s.FetchCountries,
	)

	current := s.Teams.CurrentTeam.Snapshot()
	if current.Error != "" || current.Data == nil {
		return nil, detailError("team", "team", id, teamErr, current.Error)
	}

	squad := s.Teams.TeamPlayers.Snapshot()
	history := s.Teams.TeamParticipations.Snapshot()

	var warnings []string
	for _, msg := range []string{
		squad.Error,
		history.Error,
		s.Championships.Championships.Snapshot().Error,
		s.Countries.Countries.Snapshot().Error,
	} {
		warnings = append(warnings, auxWarning("team", msg)...)
	}

	idx := catalog.NewIndex(
		s.Countries.Countries.Snapshot().Data,
		[]models.Team{*current.Data},
		s.Championships.Championships.Snapshot().Data,
	)
	return &TeamDetailView{
		Team:     teamRows([]models.Team{*current.Data}, idx)[0],
		Squad:    playerRows(squad.Data, idx, l.now()),
		History:  participationRows(history.Data, idx),
		Warnings: warnings,
	}, nil
}

type PlayersView struct {
	Filter    catalog.PlayerFilter `json:"filter"`
	Players   []PlayerRow          `json:"players"`
	Positions []string             `json:"positions"`
	Countries []models.Country     `json:"countries"`
	Count     int                  `json:"count"`
	Total     int                  `json:"total"`
	Warnings  []string             `json:"warnings,omitempty"`
}

func (l *Loader) Players(ctx context.Context, f catalog.PlayerFilter, where string) (*PlayersView, error) {
	s := l.store
	fetchAll(ctx, s.FetchPlayers, s.FetchCountries, s.FetchTeams)

	players := s.Players.Players.Snapshot()
	if err := firstError("players", players.Error); err != nil {
		return nil, err
	}

	filtered, err := catalog.Where(catalog.FilterPlayers(players.Data, f), where)
	if err != nil {
		return nil, invalid("%v", err)
	}

	countries := s.Countries.Countries.Snapshot()
	var warnings []string
	warnings = append(warnings, auxWarning("players", countries.Error)...)
	warnings = append(warnings, auxWarning("players", s.Teams.Teams.Snapshot().Error)...)

	return &PlayersView{
		Filter:    f,
		Players:   playerRows(filtered, l.index(), l.now()),
		Positions: catalog.Positions(players.Data),
		Countries: countries.Data,
		Count:     len(filtered),
		Total:     len(players.Data),
		Warnings:  warnings,
	}, nil
}

type PlayerDetailView struct {
	Player   PlayerRow `json:"player"`
	Warnings []string  `json:"warnings,omitempty"`
}

func (l *Loader) PlayerDetail(ctx context.Context, id int64) (*PlayerDetailView, error) {
	s := l.store
	var playerErr error
	fetchAll(ctx,
		func(ctx context.Context) error { playerErr = s.FetchPlayer(ctx, id); return playerErr },
		s.FetchCountries,
		s.FetchTeams,
	)

	current := s.Players.CurrentPlayer.Snapshot()
	if current.Error != "" || current.Data == nil {
		return nil, detailError("player", "player", id, playerErr, current.Error)
	}

	var warnings []string
	warnings = append(warnings, auxWarning("player", s.Countries.Countries.Snapshot().Error)...)
	warnings = append(warnings, auxWarning("player", s.Teams.Teams.Snapshot().Error)...)

	return &PlayerDetailView{
		Player:   playerRows([]models.Player{*current.Data}, l.index(), l.now())[0],
		Warnings: warnings,
	}, nil
}

type ChampionshipsView struct {
	Filter   catalog.ChampionshipFilter  `json:"filter"`
	Groups   []catalog.ChampionshipGroup `json:"groups"`
	Count    int                         `json:"count"`
	Total    int                         `json:"total"`
	Warnings []string                    `json:"warnings,omitempty"`
}

func (l *Loader) Championships(ctx context.Context, f catalog.ChampionshipFilter, where string) (*ChampionshipsView, error) {
	s := l.store
	fetchAll(ctx, s.FetchChampionships, s.FetchCountries)

	champs := s.Championships.Championships.Snapshot()
	if err := firstError("championships", champs.Error); err != nil {
		return nil, err
	}

	filtered, err := catalog.Where(catalog.FilterChampionships(champs.Data, f), where)
	if err != nil {
		return nil, invalid("%v", err)
	}

	countries := s.Countries.Countries.Snapshot()
	return &ChampionshipsView{
		Filter:   f,
		Groups:   catalog.GroupChampionshipsByCountry(filtered, countries.Data),
		Count:    len(filtered),
		Total:    len(champs.Data),
		Warnings: auxWarning("championships", countries.Error),
	}, nil
}

type StadiumsView struct {
	Filter   catalog.StadiumFilter `json:"filter"`
	Stadiums []StadiumRow          `json:"stadiums"`
	Count    int                   `json:"count"`
	Total    int                   `json:"total"`
	Warnings []string              `json:"warnings,omitempty"`
}

func (l *Loader) Stadiums(ctx context.Context, f catalog.StadiumFilter, where string) (*StadiumsView, error) {
	s := l.store
	fetchAll(ctx, s.FetchStadiums, s.FetchCountries)

	stadiums := s.Stadiums.Stadiums.Snapshot()
	if err := firstError("stadiums", stadiums.Error); err != nil {
		return nil, err
	}

	filtered, err := catalog.Where(catalog.FilterStadiums(stadiums.Data, f), where)
	if err != nil {
		return nil, invalid("%v", err)
	}

	countries := s.Countries.Countries.Snapshot()
	return &StadiumsView{
		Filter:   f,
		Stadiums: stadiumRows(filtered, l.index()),
		Count:    len(filtered),
		Total:    len(stadiums.Data),
		Warnings: auxWarning("stadiums", countries.Error),
	}, nil
}

// Retry runs load up to attempts times while it fails with a LoadError.
func Retry[T any](ctx context.Context, attempts int, backoff time.Duration, load func(context.Context) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}
	var (
		out T
		err error
	)
	for i := 0; i < attempts; i++ {
		out, err = load(ctx)
		if err == nil || !IsRetryable(err) {
			return out, err
		}
		if i == attempts-1 {
			break
		}
		slog.Info("Retrying page load", "attempt", i+2, "of", attempts, "error", err)
		select {
		case <-ctx.Done():
			return out, errors.Join(err, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return out, err
}
