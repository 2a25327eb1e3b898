package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Vodeneev/footballhub/internal/pkg/models"
	"github.com/Vodeneev/footballhub/internal/pkg/state"
)

// participationFetchLimit bounds concurrent per-team participation requests.
const participationFetchLimit = 4

// Catalog is a full copy of the backend reference data.
type Catalog struct {
	Countries      []models.Country
	Teams          []models.Team
	Players        []models.Player
	Stadiums       []models.Stadium
	Championships  []models.Championship
	Participations []models.TeamParticipation
}

func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"countries":           len(c.Countries),
		"teams":               len(c.Teams),
		"players":             len(c.Players),
		"stadiums":            len(c.Stadiums),
		"championships":       len(c.Championships),
		"team_participations": len(c.Participations),
	}
}

// Collect loads every list through the store. Any failed list aborts the
// collection.
func Collect(ctx context.Context, store *state.Store) (*Catalog, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return store.FetchCountries(gctx) })
	g.Go(func() error { return store.FetchTeams(gctx) })
	g.Go(func() error { return store.FetchPlayers(gctx) })
	g.Go(func() error { return store.FetchStadiums(gctx) })
	g.Go(func() error { return store.FetchChampionships(gctx) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect catalog: %w", err)
	}

	c := &Catalog{
		Countries:     store.Countries.Countries.Snapshot().Data,
		Teams:         store.Teams.Teams.Snapshot().Data,
		Players:       store.Players.Players.Snapshot().Data,
		Stadiums:      store.Stadiums.Stadiums.Snapshot().Data,
		Championships: store.Championships.Championships.Snapshot().Data,
	}

	parts, err := collectParticipations(ctx, store.API(), c.Teams)
	if err != nil {
		return nil, err
	}
	c.Participations = parts

	slog.Info("Catalog collected", "counts", c.Counts())
	return c, nil
}

func collectParticipations(ctx context.Context, api state.API, teams []models.Team) ([]models.TeamParticipation, error) {
	var (
		mu  sync.Mutex
		out []models.TeamParticipation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(participationFetchLimit)
	for _, t := range teams {
		g.Go(func() error {
			parts, err := api.TeamParticipations(gctx, t.ID)
			if err != nil {
				return fmt.Errorf("participations for team %d: %w", t.ID, err)
			}
			mu.Lock()
			out = append(out, parts...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
