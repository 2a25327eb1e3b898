package models

// Country is a football nation as served by the backend.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Team represents a club
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname,omitempty"`
	City         string `json:"city"`
	FoundingDate string `json:"founding_date"` // YYYY-MM-DD
	Country      int64  `json:"country"`
}

// Player represents a footballer. Team is nil for free agents.
type Player struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
	Country   int64  `json:"country"`
	Position  string `json:"position"`
	Team      *int64 `json:"team,omitempty"`
}

type Stadium struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	City     string `json:"city"`
	Country  int64  `json:"country"`
}

type Championship struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Season  string `json:"season"`
	Country int64  `json:"country"`
}

// TeamParticipation links a team to a championship season.
type TeamParticipation struct {
	Team         int64  `json:"team"`
	Championship int64  `json:"championship"`
	Season       string `json:"season"`
}

// HasTeam reports whether the player is attached to a club.
func (p Player) HasTeam() bool {
	return p.Team != nil
}

// TeamID returns the club id or 0 for free agents.
func (p Player) TeamID() int64 {
	if p.Team == nil {
		return 0
	}
	return *p.Team
}
