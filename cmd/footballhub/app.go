package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vodeneev/footballhub/internal/pkg/cache"
	"github.com/Vodeneev/footballhub/internal/pkg/config"
	"github.com/Vodeneev/footballhub/internal/pkg/footballapi"
	"github.com/Vodeneev/footballhub/internal/pkg/logging"
	"github.com/Vodeneev/footballhub/internal/pkg/render"
	"github.com/Vodeneev/footballhub/internal/pkg/state"
	"github.com/Vodeneev/footballhub/internal/pkg/views"
)

const (
	defaultConfigPath = "configs/footballhub.yaml"
	serviceName       = "footballhub"
)

// options holds the persistent flags.
type options struct {
	configPath string
	apiURL     string
	output     string
	retries    int
	backoff    time.Duration
}

// app is the wiring shared by every command. It is built in
// PersistentPreRunE and torn down by runRoot.
type app struct {
	opts options

	cfg    *config.Config
	client *footballapi.Client
	cache  *cache.RedisCache
	out    *render.Renderer
}

func defaultConfig() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("api-url") {
		cfg.API.BaseURL = strings.TrimSuffix(a.opts.apiURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if _, err := logging.SetupLoggerTo(&cfg.Logging, serviceName, cmd.ErrOrStderr()); err != nil {
		log.Printf("Warning: failed to setup logging: %v, continuing with default logger", err)
	}

	clientOpts := []footballapi.Option{footballapi.WithUserAgent(cfg.API.UserAgent)}
	if cfg.Cache.Enabled {
		rc, err := cache.NewRedisCache(&cfg.Cache)
		if err != nil {
			slog.Warn("Response cache unavailable, continuing without it", "error", err)
		} else {
			a.cache = rc
			clientOpts = append(clientOpts, footballapi.WithCache(rc))
		}
	}
	a.client = footballapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, clientOpts...)

	a.out, err = render.New(cmd.OutOrStdout(), a.opts.output)
	if err != nil {
		return err
	}

	slog.Debug("Backend configured", "base_url", a.client.BaseURL(), "cache", a.cache != nil)
	return nil
}

// close releases the backend connections and the cache. It is safe to call
// when init failed half way.
func (a *app) close() {
	if a.client != nil {
		a.client.CloseIdleConnections()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			slog.Warn("Failed to close response cache", "error", err)
		}
	}
}

func (a *app) loader() *views.Loader {
	return views.NewLoader(state.NewStore(a.client))
}

// show loads a view, retrying failed page loads, and renders it.
func show[T any](cmd *cobra.Command, a *app, load func(context.Context, *views.Loader) (T, error)) error {
	l := a.loader()
	v, err := views.Retry(cmd.Context(), a.opts.retries+1, a.opts.backoff, func(ctx context.Context) (T, error) {
		return load(ctx, l)
	})
	if err != nil {
		return err
	}
	return a.out.Render(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", views.ErrInvalidInput, s)
	}
	return id, nil
}
