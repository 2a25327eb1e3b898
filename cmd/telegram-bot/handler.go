package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Vodeneev/footballhub/internal/pkg/catalog"
	"github.com/Vodeneev/footballhub/internal/pkg/state"
	"github.com/Vodeneev/footballhub/internal/pkg/views"
)

const (
	// maxRows caps list replies.
	maxRows = 20
	// maxMessageLen stays under Telegram's 4096 character limit.
	maxMessageLen = 4000
)

const helpText = `FootballHub bot

/countries [query] - list countries
/teams [query] - list teams by name, city or nickname
/team <id> - team card with squad and championships
/players [query] - list players by name
/player <id> - player card
/championships [query] - championships grouped by country
/help - show this message

Lists show at most 20 rows.`

type handler struct {
	api     state.API
	allowed []int64
}

func newHandler(api state.API, allowed []int64) *handler {
	return &handler{api: api, allowed: allowed}
}

func (h *handler) authorized(userID int64) bool {
	return len(h.allowed) == 0 || slices.Contains(h.allowed, userID)
}

// Reply answers one message. The result is split into chunks that each fit
// into a single Telegram message.
func (h *handler) Reply(ctx context.Context, userID int64, text string) []string {
	if !h.authorized(userID) {
		return []string{"Access denied. You are not authorized to use this bot."}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	command, arg, _ := strings.Cut(text, " ")
	command = strings.ToLower(command)
	// "/teams@FootballHubBot" in group chats.
	command, _, _ = strings.Cut(command, "@")
	arg = strings.TrimSpace(arg)

	l := views.NewLoader(state.NewStore(h.api))

	var (
		reply string
		err   error
	)
	switch command {
	case "/start", "/help":
		reply = helpText
	case "/countries":
		reply, err = h.countries(ctx, l, arg)
	case "/teams":
		reply, err = h.teams(ctx, l, arg)
	case "/team":
		reply, err = withID(arg, func(id int64) (string, error) { return h.team(ctx, l, id) })
	case "/players":
		reply, err = h.players(ctx, l, arg)
	case "/player":
		reply, err = withID(arg, func(id int64) (string, error) { return h.player(ctx, l, id) })
	case "/championships":
		reply, err = h.championships(ctx, l, arg)
	default:
		reply = "Unknown command. Use /help to see available commands."
	}

	if err != nil {
		reply = errorText(err)
		slog.Warn("Bot command failed", "command", command, "user_id", userID, "error", err)
	}
	return split(reply, maxMessageLen)
}

func withID(arg string, f func(int64) (string, error)) (string, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("%w: expected a positive numeric id, got %q", views.ErrInvalidInput, arg)
	}
	return f(id)
}

func errorText(err error) string {
	var (
		notFound *views.NotFoundError
		loadErr  *views.LoadError
	)
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Not found: %s", notFound.Error())
	case errors.As(err, &loadErr):
		return fmt.Sprintf("Error: %s. Send the command again to retry.", loadErr.Message)
	case errors.Is(err, views.ErrInvalidInput):
		return "Error: " + err.Error()
	}
	return "Error: something went wrong, try again later."
}

// listing writes a header, at most maxRows lines and a "more" footer.
func listing(header string, lines []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	if len(lines) == 0 {
		b.WriteString("\nNo results.")
		return b.String()
	}
	for i, line := range lines {
		if i == maxRows {
			fmt.Fprintf(&b, "\n...and %d more. Narrow the query to see them.", len(lines)-maxRows)
			break
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func warningsText(ws []string) string {
	if len(ws) == 0 {
		return ""
	}
	return "\n\nWarning: " + strings.Join(ws, "; ")
}

func (h *handler) countries(ctx context.Context, l *views.Loader, q string) (string, error) {
	v, err := l.Countries(ctx, q)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(v.Countries))
	for _, c := range v.Countries {
		lines = append(lines, fmt.Sprintf("%d. %s", c.ID, c.Name))
	}
	return listing(fmt.Sprintf("Countries: %d of %d", v.Count, v.Total), lines), nil
}

func (h *handler) teams(ctx context.Context, l *views.Loader, q string) (string, error) {
	v, err := l.Teams(ctx, catalog.TeamFilter{Query: q}, "")
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(v.Teams))
	for _, t := range v.Teams {
		lines = append(lines, fmt.Sprintf("%d. %s (%s, %s)", t.ID, t.Name, t.City, t.Country))
	}
	return listing(fmt.Sprintf("Teams: %d of %d", v.Count, v.Total), lines) + warningsText(v.Warnings), nil
}

func (h *handler) team(ctx context.Context, l *views.Loader, id int64) (string, error) {
	v, err := l.TeamDetail(ctx, id)
	if err != nil {
		return "", err
	}
	t := v.Team

	var b strings.Builder
	b.WriteString(t.Name)
	if t.Nickname != "" {
		fmt.Fprintf(&b, " \"%s\"", t.Nickname)
	}
	fmt.Fprintf(&b, "\n%s, %s", t.City, t.Country)
	if t.FoundingYear > 0 {
		fmt.Fprintf(&b, "\nFounded %d", t.FoundingYear)
	}

	squad := make([]string, 0, len(v.Squad))
	for _, p := range v.Squad {
		squad = append(squad, fmt.Sprintf("%s, %s", p.Name, p.Position))
	}
	b.WriteString("\n\n")
	b.WriteString(listing(fmt.Sprintf("Squad (%d)", len(v.Squad)), squad))

	history := make([]string, 0, len(v.History))
	for _, p := range v.History {
		history = append(history, fmt.Sprintf("%s %s", p.Championship, p.Season))
	}
	b.WriteString("\n\n")
	b.WriteString(listing(fmt.Sprintf("Championships (%d)", len(v.History)), history))
	b.WriteString(warningsText(v.Warnings))
	return b.String(), nil
}

func (h *handler) players(ctx context.Context, l *views.Loader, q string) (string, error) {
	v, err := l.Players(ctx, catalog.PlayerFilter{Query: q}, "")
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(v.Players))
	for _, p := range v.Players {
		lines = append(lines, fmt.Sprintf("%d. %s, %s (%s)", p.ID, p.Name, p.Position, p.Team))
	}
	return listing(fmt.Sprintf("Players: %d of %d", v.Count, v.Total), lines) + warningsText(v.Warnings), nil
}

func (h *handler) player(ctx context.Context, l *views.Loader, id int64) (string, error) {
	v, err := l.PlayerDetail(ctx, id)
	if err != nil {
		return "", err
	}
	p := v.Player

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s", p.Name, p.Position)
	if p.Age > 0 {
		fmt.Fprintf(&b, "\nAge %d (born %s)", p.Age, p.BirthDate)
	}
	fmt.Fprintf(&b, "\nTeam: %s\nCountry: %s", p.Team, p.Country)
	b.WriteString(warningsText(v.Warnings))
	return b.String(), nil
}

func (h *handler) championships(ctx context.Context, l *views.Loader, q string) (string, error) {
	v, err := l.Championships(ctx, catalog.ChampionshipFilter{Query: q}, "")
	if err != nil {
		return "", err
	}
	var lines []string
	for _, g := range v.Groups {
		for _, c := range g.Championships {
			lines = append(lines, fmt.Sprintf("%s: %s %s", g.Country, c.Name, c.Season))
		}
	}
	return listing(fmt.Sprintf("Championships: %d of %d", v.Count, v.Total), lines) + warningsText(v.Warnings), nil
}

// split breaks text on line boundaries into chunks of at most limit bytes.
// A single longer line is cut at the last rune boundary before limit.
func split(text string, limit int) []string {
	if text == "" {
		return nil
	}
	var (
		chunks []string
		b      strings.Builder
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if b.Len() > 0 {
				chunks = append(chunks, strings.TrimRight(b.String(), "\n"))
				b.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if b.Len()+len(line) > limit {
			chunks = append(chunks, strings.TrimRight(b.String(), "\n"))
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, strings.TrimRight(b.String(), "\n"))
	}
	return chunks
}
