package models

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// yearLength matches the 365.25-day year used for ages.
const yearLength = time.Duration(365.25 * 24 * float64(time.Hour))

// ParseDate accepts "2006-01-02" and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FoundingYear returns the year the club was founded.
func (t Team) FoundingYear() (int, bool) {
	d, ok := ParseDate(t.FoundingDate)
	if !ok {
		return 0, false
	}
	return d.Year(), true
}

// Age returns full years between birth date and now.
func (p Player) Age(now time.Time) (int, bool) {
	born, ok := ParseDate(p.BirthDate)
	if !ok || born.After(now) {
		return 0, false
	}
	return int(now.Sub(born) / yearLength), true
}
