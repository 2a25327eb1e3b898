package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTeamFoundingYear(t *testing.T) {
	tests := []struct {
		date   string
		year   int
		wantOK bool
	}{
		{"1899-11-29", 1899, true},
		{"1902-03-06T00:00:00Z", 1902, true},
		{"", 0, false},
		{"founded long ago", 0, false},
	}

	for _, tt := range tests {
		year, ok := Team{FoundingDate: tt.date}.FoundingYear()
		if ok != tt.wantOK || year != tt.year {
			t.Errorf("FoundingYear(%q) = %d, %v, want %d, %v", tt.date, year, ok, tt.year, tt.wantOK)
		}
	}
}

func TestPlayerAge(t *testing.T) {
	now := time.Date(2026, 6, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		birth  string
		age    int
		wantOK bool
	}{
		{"birthday today", "1987-06-24", 39, true},
		{"day before birthday", "1987-06-25", 38, true},
		{"future birth date", "2030-01-01", 0, false},
		{"garbage", "24/06/1987", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, ok := Player{BirthDate: tt.birth}.Age(now)
			if ok != tt.wantOK || age != tt.age {
				t.Errorf("Age(%q) = %d, %v, want %d, %v", tt.birth, age, ok, tt.age, tt.wantOK)
			}
		})
	}
}

func TestPlayerTeamOptional(t *testing.T) {
	var free Player
	if err := json.Unmarshal([]byte(`{"id":1,"name":"Free","position":"Forward","country":3}`), &free); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if free.HasTeam() || free.TeamID() != 0 {
		t.Errorf("player without team field should be a free agent, got team %v", free.Team)
	}

	var signed Player
	if err := json.Unmarshal([]byte(`{"id":2,"name":"Signed","team":7}`), &signed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !signed.HasTeam() || signed.TeamID() != 7 {
		t.Errorf("TeamID() = %d, want 7", signed.TeamID())
	}
}
