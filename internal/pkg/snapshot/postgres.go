package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/footballhub/internal/pkg/config"
)

// PostgresStorage mirrors the catalog into PostgreSQL tables.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(cfg *config.PostgresConfig) (*PostgresStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL snapshot storage initialized successfully")
	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS countries (
	id BIGINT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	synced_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS teams (
	id BIGINT PRIMARY KEY,
	name VARCHAR(300) NOT NULL,
	nickname VARCHAR(300) NOT NULL DEFAULT '',
	city VARCHAR(200) NOT NULL DEFAULT '',
	founding_date VARCHAR(40) NOT NULL DEFAULT '',
	country_id BIGINT NOT NULL,
	synced_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
	id BIGINT PRIMARY KEY,
	name VARCHAR(300) NOT NULL,
	birth_date VARCHAR(40) NOT NULL DEFAULT '',
	country_id BIGINT NOT NULL,
	position VARCHAR(100) NOT NULL DEFAULT '',
	team_id BIGINT,
	synced_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS stadiums (
	id BIGINT PRIMARY KEY,
	name VARCHAR(300) NOT NULL,
	capacity INTEGER NOT NULL DEFAULT 0,
	city VARCHAR(200) NOT NULL DEFAULT '',
	country_id BIGINT NOT NULL,
	synced_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS championships (
	id BIGINT PRIMARY KEY,
	name VARCHAR(300) NOT NULL,
	season VARCHAR(50) NOT NULL DEFAULT '',
	country_id BIGINT NOT NULL,
	synced_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS team_participations (
	team_id BIGINT NOT NULL,
	championship_id BIGINT NOT NULL,
	season VARCHAR(50) NOT NULL,
	synced_at TIMESTAMP NOT NULL,
	PRIMARY KEY (team_id, championship_id, season)
);

CREATE INDEX IF NOT EXISTS idx_teams_country ON teams(country_id);
CREATE INDEX IF NOT EXISTS idx_players_team ON players(team_id);
CREATE INDEX IF NOT EXISTS idx_players_country ON players(country_id);
`

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const (
	upsertCountry = `
	INSERT INTO countries (id, name, synced_at) VALUES ($1, $2, $3)
	ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, synced_at = EXCLUDED.synced_at`

	upsertTeam = `
	INSERT INTO teams (id, name, nickname, city, founding_date, country_id, synced_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		nickname = EXCLUDED.nickname,
		city = EXCLUDED.city,
		founding_date = EXCLUDED.founding_date,
		country_id = EXCLUDED.country_id,
		synced_at = EXCLUDED.synced_at`

	upsertPlayer = `
	INSERT INTO players (id, name, birth_date, country_id, position, team_id, synced_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		birth_date = EXCLUDED.birth_date,
		country_id = EXCLUDED.country_id,
		position = EXCLUDED.position,
		team_id = EXCLUDED.team_id,
		synced_at = EXCLUDED.synced_at`

	upsertStadium = `
	INSERT INTO stadiums (id, name, capacity, city, country_id, synced_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		capacity = EXCLUDED.capacity,
		city = EXCLUDED.city,
		country_id = EXCLUDED.country_id,
		synced_at = EXCLUDED.synced_at`

	upsertChampionship = `
	INSERT INTO championships (id, name, season, country_id, synced_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		season = EXCLUDED.season,
		country_id = EXCLUDED.country_id,
		synced_at = EXCLUDED.synced_at`

	upsertParticipation = `
	INSERT INTO team_participations (team_id, championship_id, season, synced_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (team_id, championship_id, season) DO UPDATE SET synced_at = EXCLUDED.synced_at`
)

// StoreCatalog upserts the whole catalog in one transaction.
func (s *PostgresStorage) StoreCatalog(ctx context.Context, c *Catalog, syncedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range catalogStatements(c, syncedAt) {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("upsert %s: %w", stmt.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	slog.Info("Catalog snapshot stored", "counts", c.Counts(), "synced_at", syncedAt)
	return nil
}

type statement struct {
	table string
	query string
	args  []any
}

// catalogStatements orders the upserts so referenced rows come first.
func catalogStatements(c *Catalog, syncedAt time.Time) []statement {
	var out []statement
	for _, x := range c.Countries {
		out = append(out, statement{"countries", upsertCountry, []any{x.ID, x.Name, syncedAt}})
	}
	for _, x := range c.Teams {
		out = append(out, statement{"teams", upsertTeam, []any{x.ID, x.Name, x.Nickname, x.City, x.FoundingDate, x.Country, syncedAt}})
	}
	for _, x := range c.Players {
		var team sql.NullInt64
		if x.HasTeam() {
			team = sql.NullInt64{Int64: x.TeamID(), Valid: true}
		}
		out = append(out, statement{"players", upsertPlayer, []any{x.ID, x.Name, x.BirthDate, x.Country, x.Position, team, syncedAt}})
	}
	for _, x := range c.Stadiums {
		out = append(out, statement{"stadiums", upsertStadium, []any{x.ID, x.Name, x.Capacity, x.City, x.Country, syncedAt}})
	}
	for _, x := range c.Championships {
		out = append(out, statement{"championships", upsertChampionship, []any{x.ID, x.Name, x.Season, x.Country, syncedAt}})
	}
	for _, x := range c.Participations {
		out = append(out, statement{"team_participations", upsertParticipation, []any{x.Team, x.Championship, x.Season, syncedAt}})
	}
	return out
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
