package footballapi

import (
	"context"
	"fmt"

	"github.com/Vodeneev/footballhub/internal/pkg/models"
)

// Countries: GET /country/
func (c *Client) Countries(ctx context.Context) ([]models.Country, error) {
	return list[models.Country](ctx, c, "countries", "/country/")
}

// Country: GET /country/{id}/
func (c *Client) Country(ctx context.Context, id int64) (*models.Country, error) {
	return one[models.Country](ctx, c, "country", fmt.Sprintf("/country/%d/", id))
}

// CountryTeams: GET /country/{id}/teams
func (c *Client) CountryTeams(ctx context.Context, id int64) ([]models.Team, error) {
	return list[models.Team](ctx, c, "country_teams", fmt.Sprintf("/country/%d/teams", id))
}

// CountryPlayers: GET /country/{id}/players
func (c *Client) CountryPlayers(ctx context.Context, id int64) ([]models.Player, error) {
	return list[models.Player](ctx, c, "country_players", fmt.Sprintf("/country/%d/players", id))
}

// CountryStadiums: GET /country/{id}/stadiums
func (c *Client) CountryStadiums(ctx context.Context, id int64) ([]models.Stadium, error) {
	return list[models.Stadium](ctx, c, "country_stadiums", fmt.Sprintf("/country/%d/stadiums", id))
}

// Teams: GET /teams/
func (c *Client) Teams(ctx context.Context) ([]models.Team, error) {
	return list[models.Team](ctx, c, "teams", "/teams/")
}

// Team: GET /teams/{id}/
func (c *Client) Team(ctx context.Context, id int64) (*models.Team, error) {
	return one[models.Team](ctx, c, "team", fmt.Sprintf("/teams/%d/", id))
}

// TeamPlayers: GET /teams/{id}/players
func (c *Client) TeamPlayers(ctx context.Context, id int64) ([]models.Player, error) {
	return list[models.Player](ctx, c, "team_players", fmt.Sprintf("/teams/%d/players", id))
}

// TeamParticipations: GET /teams/{id}/participations
func (c *Client) TeamParticipations(ctx context.Context, id int64) ([]models.TeamParticipation, error) {
	return list[models.TeamParticipation](ctx, c, "team_participations", fmt.Sprintf("/teams/%d/participations", id))
}

// Players: GET /players/
func (c *Client) Players(ctx context.Context) ([]models.Player, error) {
	return list[models.Player](ctx, c, "players", "/players/")
}

// Player: GET /players/{id}/
func (c *Client) Player(ctx context.Context, id int64) (*models.Player, error) {
	return one[models.Player](ctx, c, "player", fmt.Sprintf("/players/%d/", id))
}

// Championships: GET /championship/
func (c *Client) Championships(ctx context.Context) ([]models.Championship, error) {
	return list[models.Championship](ctx, c, "championships", "/championship/")
}

// Stadiums: GET /stadiums/
func (c *Client) Stadiums(ctx context.Context) ([]models.Stadium, error) {
	return list[models.Stadium](ctx, c, "stadiums", "/stadiums/")
}

// list decodes a JSON array; null becomes an empty slice.
func list[T any](ctx context.Context, c *Client, endpoint, path string) ([]T, error) {
	var out []T
	if err := c.getJSON(ctx, endpoint, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func one[T any](ctx context.Context, c *Client, endpoint, path string) (*T, error) {
	var out T
	if err := c.getJSON(ctx, endpoint, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
