package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vodeneev/footballhub/internal/pkg/catalog"
	"github.com/Vodeneev/footballhub/internal/pkg/config"
	"github.com/Vodeneev/footballhub/internal/pkg/server"
	"github.com/Vodeneev/footballhub/internal/pkg/snapshot"
	"github.com/Vodeneev/footballhub/internal/pkg/state"
	"github.com/Vodeneev/footballhub/internal/pkg/views"
)

// newRootCmd builds the command tree. The caller owns the returned app and
// must close it once the command finished, whether it failed or not.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "footballhub",
		Short: "Browse football countries, teams, players, championships and stadiums",
		Long: strings.TrimSpace(`
FootballHub reads the football reference backend and prints its catalog.
Lists can be narrowed with case-insensitive filters or a --where expression,
and the same views are served as JSON by "footballhub serve".`),
		Example: strings.TrimSpace(`
  footballhub teams --q madrid
  footballhub players --position Forward --where 'country == 3'
  footballhub admin championships --output json
  footballhub serve --port 8080`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.configPath, "config", defaultConfig(), "Path to config file (can be set via CONFIG_PATH env var)")
	pf.StringVar(&a.opts.apiURL, "api-url", config.DefaultBaseURL, "Backend base URL (overrides config and FOOTBALLHUB_API_URL)")
	pf.StringVarP(&a.opts.output, "output", "o", "table", "Output format: table or json")
	pf.IntVar(&a.opts.retries, "retries", 0, "Re-run a failed page load up to N times")
	pf.DurationVar(&a.opts.backoff, "retry-backoff", time.Second, "Pause between retries")

	root.AddCommand(
		newHomeCmd(a),
		newCountriesCmd(a),
		newCountryCmd(a),
		newTeamsCmd(a),
		newTeamCmd(a),
		newPlayersCmd(a),
		newPlayerCmd(a),
		newChampionshipsCmd(a),
		newStadiumsCmd(a),
		newAdminCmd(a),
		newServeCmd(a),
		newExportCmd(a),
		newCacheCmd(a),
	)
	return root, a
}

func newHomeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show catalog totals and a few teams and players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.HomeView, error) {
				return l.Home(ctx)
			})
		},
	}
}

func newCountriesCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.CountriesView, error) {
				return l.Countries(ctx, query)
			})
		},
	}
	cmd.Flags().StringVar(&query, "q", "", "Case-insensitive name filter")
	return cmd
}

func newCountryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "country <id>",
		Short: "Show a country with its teams, players and stadiums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.CountryDetailView, error) {
				return l.CountryDetail(ctx, id)
			})
		},
	}
}

func newTeamsCmd(a *app) *cobra.Command {
	var (
		f     catalog.TeamFilter
		where string
	)
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.TeamsView, error) {
				return l.Teams(ctx, f, where)
			})
		},
	}
	cmd.Flags().StringVar(&f.Query, "q", "", "Filter by name, city or nickname")
	cmd.Flags().Int64Var(&f.CountryID, "country", 0, "Only teams of this country id")
	cmd.Flags().StringVar(&where, "where", "", "Expression over team fields, e.g. 'city == \"Madrid\"'")
	return cmd
}

func newTeamCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "team <id>",
		Short: "Show a team with its squad and championships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.TeamDetailView, error) {
				return l.TeamDetail(ctx, id)
			})
		},
	}
}

func newPlayersCmd(a *app) *cobra.Command {
	var (
		f     catalog.PlayerFilter
		where string
	)
	cmd := &cobra.Command{
		Use:   "players",
		Short: "List players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.PlayersView, error) {
				return l.Players(ctx, f, where)
			})
		},
	}
	cmd.Flags().StringVar(&f.Query, "q", "", "Filter by name")
	cmd.Flags().Int64Var(&f.CountryID, "country", 0, "Only players of this country id")
	cmd.Flags().StringVar(&f.Position, "position", "", "Exact position, e.g. Forward")
	cmd.Flags().StringVar(&where, "where", "", "Expression over player fields")
	return cmd
}

func newPlayerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "player <id>",
		Short: "Show a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.PlayerDetailView, error) {
				return l.PlayerDetail(ctx, id)
			})
		},
	}
}

func newChampionshipsCmd(a *app) *cobra.Command {
	var (
		f     catalog.ChampionshipFilter
		where string
	)
	cmd := &cobra.Command{
		Use:   "championships",
		Short: "List championships grouped by country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.ChampionshipsView, error) {
				return l.Championships(ctx, f, where)
			})
		},
	}
	cmd.Flags().StringVar(&f.Query, "q", "", "Filter by name or season")
	cmd.Flags().Int64Var(&f.CountryID, "country", 0, "Only championships of this country id")
	cmd.Flags().StringVar(&where, "where", "", "Expression over championship fields")
	return cmd
}

func newStadiumsCmd(a *app) *cobra.Command {
	var (
		f     catalog.StadiumFilter
		where string
	)
	cmd := &cobra.Command{
		Use:   "stadiums",
		Short: "List stadiums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.StadiumsView, error) {
				return l.Stadiums(ctx, f, where)
			})
		},
	}
	cmd.Flags().StringVar(&f.Query, "q", "", "Filter by name or city")
	cmd.Flags().Int64Var(&f.CountryID, "country", 0, "Only stadiums of this country id")
	cmd.Flags().IntVar(&f.MinCapacity, "min-capacity", 0, "Minimum capacity")
	cmd.Flags().StringVar(&where, "where", "", "Expression over stadium fields")
	return cmd
}

func newAdminCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "admin <section>",
		Short:     "Show the admin table for one section",
		Long:      "Sections: " + strings.Join(views.Sections, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: views.Sections,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, a, func(ctx context.Context, l *views.Loader) (*views.AdminView, error) {
				return l.Admin(ctx, args[0])
			})
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the views as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			addr, err := server.AddrFor(a.cfg.Server.Port)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(a.client, serviceName).Run(ctx, addr, a.cfg.Server.ReadHeaderTimeout)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides server.port)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the whole catalog into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("dsn") {
				a.cfg.Postgres.DSN = dsn
			}
			storage, err := snapshot.NewPostgresStorage(&a.cfg.Postgres)
			if err != nil {
				return err
			}
			defer storage.Close()

			c, err := snapshot.Collect(cmd.Context(), state.NewStore(a.client))
			if err != nil {
				return err
			}
			if err := storage.StoreCatalog(cmd.Context(), c, time.Now().UTC()); err != nil {
				return err
			}

			counts := c.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d countries, %d teams, %d players, %d stadiums, %d championships, %d participations\n",
				counts["countries"], counts["teams"], counts["players"], counts["stadiums"], counts["championships"], counts["team_participations"])
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN (overrides postgres.dsn and POSTGRES_DSN)")
	return cmd
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete every cached backend response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cache == nil {
				return fmt.Errorf("response cache is not enabled (set cache.enabled in config)")
			}
			n, err := a.cache.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached responses\n", n)
			return nil
		},
	})
	return cmd
}
