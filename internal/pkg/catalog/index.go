package catalog

import "github.com/Vodeneev/footballhub/internal/pkg/models"

const (
	UnknownCountry      = "Unknown"
	UnknownTeam         = "Unknown"
	FreeAgent           = "Free agent"
	UnknownChampionship = "Unknown"
)

// Index resolves entity ids to records. Lookups never fail; unknown ids fall
// back to placeholder labels.
type Index struct {
	countries     map[int64]models.Country
	teams         map[int64]models.Team
	championships map[int64]models.Championship
}

func NewIndex(countries []models.Country, teams []models.Team, champs []models.Championship) *Index {
	idx := &Index{
		countries:     make(map[int64]models.Country, len(countries)),
		teams:         make(map[int64]models.Team, len(teams)),
		championships: make(map[int64]models.Championship, len(champs)),
	}
	for _, c := range countries {
		idx.countries[c.ID] = c
	}
	for _, t := range teams {
		idx.teams[t.ID] = t
	}
	for _, c := range champs {
		idx.championships[c.ID] = c
	}
	return idx
}

func (i *Index) Country(id int64) (models.Country, bool) {
	c, ok := i.countries[id]
	return c, ok
}

func (i *Index) Team(id int64) (models.Team, bool) {
	t, ok := i.teams[id]
	return t, ok
}

func (i *Index) Championship(id int64) (models.Championship, bool) {
	c, ok := i.championships[id]
	return c, ok
}

func (i *Index) CountryName(id int64) string {
	if c, ok := i.countries[id]; ok {
		return c.Name
	}
	return UnknownCountry
}

// TeamName resolves the player's club; players without one are free agents.
func (i *Index) TeamName(team *int64) string {
	if team == nil {
		return FreeAgent
	}
	if t, ok := i.teams[*team]; ok {
		return t.Name
	}
	return UnknownTeam
}

func (i *Index) ChampionshipName(id int64) string {
	if c, ok := i.championships[id]; ok {
		return c.Name
	}
	return UnknownChampionship
}

// ChampionshipGroup is one country's block on the championships page.
type ChampionshipGroup struct {
	Country       string                `json:"country"`
	Championships []models.Championship `json:"championships"`
}

// GroupChampionshipsByCountry groups by country name in first-appearance
// order. Championships whose country is unknown share one group.
func GroupChampionshipsByCountry(champs []models.Championship, countries []models.Country) []ChampionshipGroup {
	idx := NewIndex(countries, nil, nil)
	pos := make(map[string]int)
	var groups []ChampionshipGroup
	for _, c := range champs {
		name := idx.CountryName(c.Country)
		i, ok := pos[name]
		if !ok {
			i = len(groups)
			pos[name] = i
			groups = append(groups, ChampionshipGroup{Country: name})
		}
		groups[i].Championships = append(groups[i].Championships, c)
	}
	return groups
}
