// Package render prints views for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/Vodeneev/footballhub/internal/pkg/views"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Renderer writes views to out in one format.
type Renderer struct {
	out    io.Writer
	format string
}

func New(out io.Writer, format string) (*Renderer, error) {
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q (want table or json)", format)
	}
	return &Renderer{out: out, format: format}, nil
}

// Render prints any view. JSON output is the view itself; table output
// depends on the view type.
func (r *Renderer) Render(view any) error {
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	switch v := view.(type) {
	case *views.HomeView:
		return r.home(v)
	case *views.CountriesView:
		return r.countries(v)
	case *views.CountryDetailView:
		return r.countryDetail(v)
	case *views.TeamsView:
		return r.teams(v)
	case *views.TeamDetailView:
		return r.teamDetail(v)
	case *views.PlayersView:
		return r.players(v)
	case *views.PlayerDetailView:
		return r.playerDetail(v)
	case *views.ChampionshipsView:
		return r.championships(v)
	case *views.StadiumsView:
		return r.stadiums(v)
	case *views.AdminView:
		return r.admin(v)
	}
	return fmt.Errorf("no table layout for %T", view)
}

func (r *Renderer) table(header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.out, "No results.")
		return err
	}
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err = fmt.Fprintln(r.out, s)
	return err
}

func (r *Renderer) title(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) warnings(ws []string) {
	for _, w := range ws {
		fmt.Fprintf(r.out, "warning: %s\n", w)
	}
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

func year(y int) string {
	if y == 0 {
		return "-"
	}
	return strconv.Itoa(y)
}

func age(a int) string {
	if a == 0 {
		return "-"
	}
	return strconv.Itoa(a)
}

func teamTable(rows []views.TeamRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, t := range rows {
		out = append(out, []string{id(t.ID), t.Name, t.Nickname, t.City, t.Country, year(t.FoundingYear)})
	}
	return out
}

var teamHeader = []string{"ID", "Name", "Nickname", "City", "Country", "Founded"}

func playerTable(rows []views.PlayerRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, []string{id(p.ID), p.Name, p.Position, age(p.Age), p.Team, p.Country})
	}
	return out
}

var playerHeader = []string{"ID", "Name", "Position", "Age", "Team", "Country"}

func stadiumTable(rows []views.StadiumRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, s := range rows {
		out = append(out, []string{id(s.ID), s.Name, strconv.Itoa(s.Capacity), s.City, s.Country})
	}
	return out
}

var stadiumHeader = []string{"ID", "Name", "Capacity", "City", "Country"}

func (r *Renderer) home(v *views.HomeView) error {
	r.title("Countries: %d  Teams: %d  Players: %d  Championships: %d",
		v.Totals.Countries, v.Totals.Teams, v.Totals.Players, v.Totals.Championships)

	r.title("\nFeatured championships")
	rows := make([][]string, 0, len(v.FeaturedChampionships))
	for _, c := range v.FeaturedChampionships {
		rows = append(rows, []string{id(c.ID), c.Name, c.Season, c.Country})
	}
	if err := r.table([]string{"ID", "Name", "Season", "Country"}, rows); err != nil {
		return err
	}

	r.title("\nPopular teams")
	return r.table(teamHeader, teamTable(v.PopularTeams))
}

func (r *Renderer) countries(v *views.CountriesView) error {
	rows := make([][]string, 0, len(v.Countries))
	for _, c := range v.Countries {
		rows = append(rows, []string{id(c.ID), c.Name})
	}
	r.title("%d of %d countries", v.Count, v.Total)
	return r.table([]string{"ID", "Name"}, rows)
}

func (r *Renderer) countryDetail(v *views.CountryDetailView) error {
	r.title("%s (#%d)", v.Country.Name, v.Country.ID)
	r.warnings(v.Warnings)

	r.title("\nTeams (%d)", len(v.Teams))
	if err := r.table(teamHeader, teamTable(v.Teams)); err != nil {
		return err
	}
	r.title("\nPlayers (%d)", len(v.Players))
	if err := r.table(playerHeader, playerTable(v.Players)); err != nil {
		return err
	}
	r.title("\nStadiums (%d)", len(v.Stadiums))
	return r.table(stadiumHeader, stadiumTable(v.Stadiums))
}

func (r *Renderer) teams(v *views.TeamsView) error {
	r.warnings(v.Warnings)
	r.title("%d of %d teams", v.Count, v.Total)
	return r.table(teamHeader, teamTable(v.Teams))
}

func (r *Renderer) teamDetail(v *views.TeamDetailView) error {
	t := v.Team
	name := t.Name
	if t.Nickname != "" {
		name = fmt.Sprintf("%s %q", t.Name, t.Nickname)
	}
	r.title("%s, %s, %s. Founded %s", name, t.City, t.Country, year(t.FoundingYear))
	r.warnings(v.Warnings)

	r.title("\nSquad (%d)", len(v.Squad))
	if err := r.table(playerHeader, playerTable(v.Squad)); err != nil {
		return err
	}

	r.title("\nHistory (%d)", len(v.History))
	rows := make([][]string, 0, len(v.History))
	for _, h := range v.History {
		rows = append(rows, []string{h.Championship, h.Season})
	}
	return r.table([]string{"Championship", "Season"}, rows)
}

func (r *Renderer) players(v *views.PlayersView) error {
	r.warnings(v.Warnings)
	r.title("%d of %d players. Positions: %s", v.Count, v.Total, strings.Join(v.Positions, ", "))
	return r.table(playerHeader, playerTable(v.Players))
}

func (r *Renderer) playerDetail(v *views.PlayerDetailView) error {
	p := v.Player
	r.warnings(v.Warnings)
	return r.table([]string{"Field", "Value"}, [][]string{
		{"Name", p.Name},
		{"Position", p.Position},
		{"Age", age(p.Age)},
		{"Born", p.BirthDate},
		{"Team", p.Team},
		{"Country", p.Country},
	})
}

func (r *Renderer) championships(v *views.ChampionshipsView) error {
	r.warnings(v.Warnings)
	r.title("%d of %d championships", v.Count, v.Total)
	if len(v.Groups) == 0 {
		return r.table(nil, nil)
	}
	for _, g := range v.Groups {
		r.title("\n%s", g.Country)
		rows := make([][]string, 0, len(g.Championships))
		for _, c := range g.Championships {
			rows = append(rows, []string{id(c.ID), c.Name, c.Season})
		}
		if err := r.table([]string{"ID", "Name", "Season"}, rows); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) stadiums(v *views.StadiumsView) error {
	r.warnings(v.Warnings)
	r.title("%d of %d stadiums", v.Count, v.Total)
	return r.table(stadiumHeader, stadiumTable(v.Stadiums))
}

func (r *Renderer) admin(v *views.AdminView) error {
	r.warnings(v.Warnings)
	r.title("%s: %d items", v.Section, v.Count)
	return r.table(v.Columns, v.Rows)
}
