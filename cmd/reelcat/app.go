package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/config"
	"github.com/vmunix/reelcat/internal/identify"
	"github.com/vmunix/reelcat/internal/library"
	"github.com/vmunix/reelcat/internal/metadata"
	"github.com/vmunix/reelcat/internal/migrations"
	"github.com/vmunix/reelcat/internal/probe"
	"github.com/vmunix/reelcat/internal/provider"
	"github.com/vmunix/reelcat/internal/scanner"
)

// app is the wired set of components behind scan and watch.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *sql.DB
	store   *library.Store
	cache   *metadata.Cache
	scanner *scanner.Scanner
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

// loadConfig loads the --config file or the discovered one.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer at a time; the store serializes work per show and season.
	db.SetMaxOpenConns(1)
	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func rootConfig(l config.LibraryConfig) identify.RootConfig {
	return identify.RootConfig{
		Name:          l.Name,
		Path:          l.Path,
		EpisodeRegex:  l.EpisodeRegex,
		AbsoluteRegex: l.AbsoluteRegex,
		SubtitleRegex: l.SubtitleRegex,
		Providers:     l.Providers,
	}
}

func newIdentifier(cfg *config.Config) (*identify.Identifier, error) {
	roots := make([]*identify.LibraryRoot, 0, len(cfg.Libraries))
	for _, l := range cfg.Libraries {
		root, err := identify.NewLibraryRoot(rootConfig(l))
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	var opts []identify.Option
	if len(cfg.Subtitles.Codecs) > 0 {
		opts = append(opts, identify.WithSubtitleCodecs(cfg.Subtitles.Codecs))
	}
	return identify.New(roots, opts...), nil
}

// newApp loads the configuration and wires the catalog, the metadata
// gateways and the scanner.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.Log.Level)
	for _, w := range cfg.Warnings() {
		log.Warn("config warning", "warning", w)
	}

	ident, err := newIdentifier(cfg)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: library.NewStore(db),
	}
	if cfg.Metadata.Cache.Enabled {
		a.cache = metadata.NewCache(db)
	}

	shows, seasons, err := buildGateways(cfg, clientFactories, a.cache, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	deps := scanner.Deps{
		Identifier: ident,
		Repository: a.store,
		Shows:      shows,
		Seasons:    seasons,
		Logger:     log,
	}
	if cfg.Probe.Enabled {
		extractor := probe.New(cfg.Probe.Binary)
		if extractor.Available() {
			deps.Transcoder = extractor
		} else {
			log.Warn("ffprobe not found, embedded tracks will not be listed", "binary", cfg.Probe.Binary)
		}
	}

	a.scanner, err = scanner.New(scanner.Config{
		Workers:             cfg.Scanner.Workers,
		VideoExtensions:     cfg.Scanner.VideoExtensions,
		SubtitleExtensions:  cfg.Scanner.SubtitleExtensions,
		EmbeddingContainers: cfg.Scanner.EmbeddingContainers,
		SettleDelay:         cfg.Scanner.SettleDelay,
	}, deps)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// prune drops expired metadata cache entries.
func (a *app) prune(ctx context.Context) {
	if a.cache == nil {
		return
	}
	n, err := a.cache.Prune(ctx)
	if err != nil {
		a.log.Warn("metadata cache prune failed", "error", err)
		return
	}
	if n > 0 {
		a.log.Debug("metadata cache pruned", "entries", n)
	}
}

// roots resolves command arguments (library names or paths) to root paths.
// No arguments selects every configured library.
func (a *app) roots(args []string) []string {
	if len(args) == 0 {
		paths := make([]string, len(a.cfg.Libraries))
		for i, l := range a.cfg.Libraries {
			paths[i] = l.Path
		}
		return paths
	}
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		if l, err := a.cfg.Library(arg); err == nil {
			paths = append(paths, l.Path)
			continue
		}
		paths = append(paths, arg)
	}
	return paths
}

// ClientFactory builds the metadata clients of one configured provider.
// Either source may be nil when the provider does not serve that kind.
type ClientFactory func(p catalog.Provider) (provider.Source[catalog.Show], provider.Source[catalog.Season], error)

// clientFactories holds the provider clients compiled into the binary,
// keyed by provider slug.
var clientFactories = map[string]ClientFactory{}

// buildGateways creates the show and season gateways from the configured
// providers, wrapping each source with the metadata cache when enabled.
// Disabled providers are left out; enabled ones without a compiled-in client
// are skipped with a warning.
func buildGateways(cfg *config.Config, factories map[string]ClientFactory, cache *metadata.Cache, log *slog.Logger) (*provider.Gateway[catalog.Show], *provider.Gateway[catalog.Season], error) {
	var shows []provider.Source[catalog.Show]
	var seasons []provider.Source[catalog.Season]

	cacheCfg := cfg.Metadata.Cache
	for _, pc := range cfg.Providers {
		if !pc.IsEnabled() {
			log.Debug("provider disabled", "provider", pc.Slug)
			continue
		}
		p := catalog.Provider{Slug: pc.Slug, Name: pc.Name, Priority: pc.Priority}
		factory, ok := factories[p.Slug]
		if !ok {
			log.Warn("no client for provider, skipped", "provider", p.Slug)
			continue
		}
		show, season, err := factory(p)
		if err != nil {
			return nil, nil, fmt.Errorf("provider %s: %w", p.Slug, err)
		}
		if show != nil {
			if cache != nil {
				show = metadata.NewCachedSource(show, cache, metadata.ShowPolicy(cacheCfg.ShowTTL, cacheCfg.SearchTTL), log)
			}
			shows = append(shows, show)
		}
		if season != nil {
			if cache != nil {
				season = metadata.NewCachedSource(season, cache, metadata.SeasonPolicy(cacheCfg.SeasonTTL, cacheCfg.SearchTTL), log)
			}
			seasons = append(seasons, season)
		}
	}

	opts := []provider.Option{provider.WithLogger(log)}
	if cfg.Metadata.Timeout > 0 {
		opts = append(opts, provider.WithTimeout(cfg.Metadata.Timeout))
	}
	return provider.NewGateway(provider.ShowKind, shows, opts...),
		provider.NewGateway(provider.SeasonKind, seasons, opts...),
		nil
}
