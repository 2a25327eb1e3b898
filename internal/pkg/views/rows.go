package views

import (
	"time"

	"github.com/Vodeneev/footballhub/internal/pkg/catalog"
	"github.com/Vodeneev/footballhub/internal/pkg/models"
)

type TeamRow struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname,omitempty"`
	City         string `json:"city"`
	FoundingYear int    `json:"founding_year,omitempty"`
	CountryID    int64  `json:"country_id"`
	Country      string `json:"country"`
}

type PlayerRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	BirthDate string `json:"birth_date"`
	Age       int    `json:"age,omitempty"`
	TeamID    int64  `json:"team_id,omitempty"`
	Team      string `json:"team"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
}

type StadiumRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	City      string `json:"city"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
}

type ChampionshipRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Season    string `json:"season"`
	CountryID int64  `json:"country_id"`
	Country   string `json:"country"`
}

type ParticipationRow struct {
	ChampionshipID int64  `json:"championship_id"`
	Championship   string `json:"championship"`
	Season         string `json:"season"`
}

func teamRows(teams []models.Team, idx *catalog.Index) []TeamRow {
	out := make([]TeamRow, 0, len(teams))
	for _, t := range teams {
		year, _ := t.FoundingYear()
		out = append(out, TeamRow{
			ID:           t.ID,
			Name:         t.Name,
			Nickname:     t.Nickname,
			City:         t.City,
			FoundingYear: year,
			CountryID:    t.Country,
			Country:      idx.CountryName(t.Country),
		})
	}
	return out
}

func playerRows(players []models.Player, idx *catalog.Index, now time.Time) []PlayerRow {
	out := make([]PlayerRow, 0, len(players))
	for _, p := range players {
		age, _ := p.Age(now)
		out = append(out, PlayerRow{
			ID:        p.ID,
			Name:      p.Name,
			Position:  p.Position,
			BirthDate: p.BirthDate,
			Age:       age,
			TeamID:    p.TeamID(),
			Team:      idx.TeamName(p.Team),
			CountryID: p.Country,
			Country:   idx.CountryName(p.Country),
		})
	}
	return out
}

func stadiumRows(stadiums []models.Stadium, idx *catalog.Index) []StadiumRow {
	out := make([]StadiumRow, 0, len(stadiums))
	for _, s := range stadiums {
		out = append(out, StadiumRow{
			ID:        s.ID,
			Name:      s.Name,
			Capacity:  s.Capacity,
			City:      s.City,
			CountryID: s.Country,
			Country:   idx.CountryName(s.Country),
		})
	}
	return out
}

func championshipRows(champs []models.Championship, idx *catalog.Index) []ChampionshipRow {
	out := make([]ChampionshipRow, 0, len(champs))
	for _, c := range champs {
		out = append(out, ChampionshipRow{
			ID:        c.ID,
			Name:      c.Name,
			Season:    c.Season,
			CountryID: c.Country,
			Country:   idx.CountryName(c.Country),
		})
	}
	return out
}

func participationRows(parts []models.TeamParticipation, idx *catalog.Index) []ParticipationRow {
	out := make([]ParticipationRow, 0, len(parts))
	for _, p := range parts {
		out = append(out, ParticipationRow{
			ChampionshipID: p.Championship,
			Championship:   idx.ChampionshipName(p.Championship),
			Season:         p.Season,
		})
	}
	return out
}
