package state

import (
	"context"
	"log/slog"

	"github.com/Vodeneev/footballhub/internal/pkg/models"
)

// API is the subset of the backend client the store drives.
type API interface {
	Countries(ctx context.Context) ([]models.Country, error)
	Country(ctx context.Context, id int64) (*models.Country, error)
	CountryTeams(ctx context.Context, id int64) ([]models.Team, error)
	CountryPlayers(ctx context.Context, id int64) ([]models.Player, error)
	CountryStadiums(ctx context.Context, id int64) ([]models.Stadium, error)
	Teams(ctx context.Context) ([]models.Team, error)
	Team(ctx context.Context, id int64) (*models.Team, error)
	TeamPlayers(ctx context.Context, id int64) ([]models.Player, error)
	TeamParticipations(ctx context.Context, id int64) ([]models.TeamParticipation, error)
	Players(ctx context.Context) ([]models.Player, error)
	Player(ctx context.Context, id int64) (*models.Player, error)
	Championships(ctx context.Context) ([]models.Championship, error)
	Stadiums(ctx context.Context) ([]models.Stadium, error)
}

type CountriesSlice struct {
	Countries       *Resource[[]models.Country]
	CurrentCountry  *Resource[*models.Country]
	CountryTeams    *Resource[[]models.Team]
	CountryPlayers  *Resource[[]models.Player]
	CountryStadiums *Resource[[]models.Stadium]
}

type TeamsSlice struct {
	Teams              *Resource[[]models.Team]
	CurrentTeam        *Resource[*models.Team]
	TeamPlayers        *Resource[[]models.Player]
	TeamParticipations *Resource[[]models.TeamParticipation]
}

type PlayersSlice struct {
	Players       *Resource[[]models.Player]
	CurrentPlayer *Resource[*models.Player]
}

type ChampionshipsSlice struct {
	Championships *Resource[[]models.Championship]
}

type StadiumsSlice struct {
	Stadiums *Resource[[]models.Stadium]
}

// Store owns every slice and the fetch operations that move them.
type Store struct {
	api API

	Countries     CountriesSlice
	Teams         TeamsSlice
	Players       PlayersSlice
	Championships ChampionshipsSlice
	Stadiums      StadiumsSlice
}

func NewStore(api API) *Store {
	return &Store{
		api: api,
		Countries: CountriesSlice{
			Countries:       NewResource("countries", "Failed to fetch countries", []models.Country{}),
			CurrentCountry:  NewResource[*models.Country]("currentCountry", "Failed to fetch country", nil),
			CountryTeams:    NewResource("countryTeams", "Failed to fetch country teams", []models.Team{}),
			CountryPlayers:  NewResource("countryPlayers", "Failed to fetch country players", []models.Player{}),
			CountryStadiums: NewResource("countryStadiums", "Failed to fetch country stadiums", []models.Stadium{}),
		},
		Teams: TeamsSlice{
			Teams:              NewResource("teams", "Failed to fetch teams", []models.Team{}),
			CurrentTeam:        NewResource[*models.Team]("currentTeam", "Failed to fetch team", nil),
			TeamPlayers:        NewResource("teamPlayers", "Failed to fetch team players", []models.Player{}),
			TeamParticipations: NewResource("teamParticipations", "Failed to fetch team participations", []models.TeamParticipation{}),
		},
		Players: PlayersSlice{
			Players:       NewResource("players", "Failed to fetch players", []models.Player{}),
			CurrentPlayer: NewResource[*models.Player]("currentPlayer", "Failed to fetch player", nil),
		},
		Championships: ChampionshipsSlice{
			Championships: NewResource("championships", "Failed to fetch championships", []models.Championship{}),
		},
		Stadiums: StadiumsSlice{
			Stadiums: NewResource("stadiums", "Failed to fetch stadiums", []models.Stadium{}),
		},
	}
}

// API returns the backend the store fetches from.
func (s *Store) API() API {
	return s.api
}

// run drives res through pending and then fulfilled or rejected.
func run[T any](ctx context.Context, res *Resource[T], fetch func(context.Context) (T, error)) error {
	ticket := res.Pending()
	data, err := fetch(ctx)
	if err != nil {
		res.Reject(ticket, err)
		slog.Warn("Fetch failed", "resource", res.Name(), "error", err)
		return err
	}
	res.Fulfill(ticket, data)
	return nil
}

func (s *Store) FetchCountries(ctx context.Context) error {
	return run(ctx, s.Countries.Countries, s.api.Countries)
}

func (s *Store) FetchCountry(ctx context.Context, id int64) error {
	return run(ctx, s.Countries.CurrentCountry, func(ctx context.Context) (*models.Country, error) {
		return s.api.Country(ctx, id)
	})
}

func (s *Store) FetchCountryTeams(ctx context.Context, id int64) error {
	return run(ctx, s.Countries.CountryTeams, func(ctx context.Context) ([]models.Team, error) {
		return s.api.CountryTeams(ctx, id)
	})
}

func (s *Store) FetchCountryPlayers(ctx context.Context, id int64) error {
	return run(ctx, s.Countries.CountryPlayers, func(ctx context.Context) ([]models.Player, error) {
		return s.api.CountryPlayers(ctx, id)
	})
}

func (s *Store) FetchCountryStadiums(ctx context.Context, id int64) error {
	return run(ctx, s.Countries.CountryStadiums, func(ctx context.Context) ([]models.Stadium, error) {
		return s.api.CountryStadiums(ctx, id)
	})
}

func (s *Store) FetchTeams(ctx context.Context) error {
	return run(ctx, s.Teams.Teams, s.api.Teams)
}

func (s *Store) FetchTeam(ctx context.Context, id int64) error {
	return run(ctx, s.Teams.CurrentTeam, func(ctx context.Context) (*models.Team, error) {
		return s.api.Team(ctx, id)
	})
}

func (s *Store) FetchTeamPlayers(ctx context.Context, id int64) error {
	return run(ctx, s.Teams.TeamPlayers, func(ctx context.Context) ([]models.Player, error) {
		return s.api.TeamPlayers(ctx, id)
	})
}

func (s *Store) FetchTeamParticipations(ctx context.Context, id int64) error {
	return run(ctx, s.Teams.TeamParticipations, func(ctx context.Context) ([]models.TeamParticipation, error) {
		return s.api.TeamParticipations(ctx, id)
	})
}

func (s *Store) FetchPlayers(ctx context.Context) error {
	return run(ctx, s.Players.Players, s.api.Players)
}

func (s *Store) FetchPlayer(ctx context.Context, id int64) error {
	return run(ctx, s.Players.CurrentPlayer, func(ctx context.Context) (*models.Player, error) {
		return s.api.Player(ctx, id)
	})
}

func (s *Store) FetchChampionships(ctx context.Context) error {
	return run(ctx, s.Championships.Championships, s.api.Championships)
}

func (s *Store) FetchStadiums(ctx context.Context) error {
	return run(ctx, s.Stadiums.Stadiums, s.api.Stadiums)
}
