// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied by Load.
const (
	DefaultLogLevel     = "info"
	DefaultDatabasePath = "./data/reelcat.db"
	DefaultWorkers      = 4
	DefaultSettleDelay  = 2 * time.Second
	DefaultShowTTL      = 7 * 24 * time.Hour
	DefaultSeasonTTL    = 7 * 24 * time.Hour
	DefaultSearchTTL    = time.Hour
)

// Config is the root configuration structure.
type Config struct {
	Log       LogConfig        `toml:"log"`
	Database  DatabaseConfig   `toml:"database"`
	Scanner   ScannerConfig    `toml:"scanner"`
	Probe     ProbeConfig      `toml:"probe"`
	Libraries []LibraryConfig  `toml:"libraries"`
	Providers []ProviderConfig `toml:"providers"`
	Subtitles SubtitlesConfig  `toml:"subtitles"`
	Metadata  MetadataConfig   `toml:"metadata"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ScannerConfig tunes the worker pool and the watch loop.
// Empty extension lists keep the scanner defaults.
type ScannerConfig struct {
	Workers             int           `toml:"workers"`
	VideoExtensions     []string      `toml:"video_extensions"`
	SubtitleExtensions  []string      `toml:"subtitle_extensions"`
	EmbeddingContainers []string      `toml:"embedding_containers"`
	SettleDelay         time.Duration `toml:"settle_delay"`
}

// ProbeConfig locates the ffprobe binary used to list embedded tracks.
type ProbeConfig struct {
	Enabled bool   `toml:"enabled"`
	Binary  string `toml:"binary"`
}

// LibraryConfig is one library root. Empty regex lists use the built-in
// patterns; an empty provider list enables every provider.
type LibraryConfig struct {
	Name          string   `toml:"name"`
	Path          string   `toml:"path"`
	EpisodeRegex  []string `toml:"episode_regex"`
	AbsoluteRegex []string `toml:"absolute_regex"`
	SubtitleRegex []string `toml:"subtitle_regex"`
	Providers     []string `toml:"providers"`
}

// ProviderConfig declares a metadata provider and its fold priority.
// Enabled defaults to true; a disabled provider is never queried, even by
// libraries that list it.
type ProviderConfig struct {
	Slug     string `toml:"slug"`
	Name     string `toml:"name"`
	Priority int    `toml:"priority"`
	Enabled  *bool  `toml:"enabled"`
}

// IsEnabled reports whether the provider takes part in lookups.
func (p ProviderConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

type SubtitlesConfig struct {
	// Codecs maps sidecar extensions (".srt") to codec names.
	Codecs map[string]string `toml:"codecs"`
}

type MetadataConfig struct {
	Cache CacheConfig `toml:"cache"`
	// Timeout bounds every provider call.
	Timeout time.Duration `toml:"timeout"`
}

type CacheConfig struct {
	Enabled   bool          `toml:"enabled"`
	ShowTTL   time.Duration `toml:"show_ttl"`
	SeasonTTL time.Duration `toml:"season_ttl"`
	SearchTTL time.Duration `toml:"search_ttl"`
}

// Load reads, parses and validates the configuration file.
// Unresolved environment variables and validation failures are reported
// together as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}
	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation. Unresolved variables are left as is.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, nil, fmt.Errorf("parsing config: unknown keys: %s", strings.Join(keys, ", "))
	}

	cfg.applyDefaults(md)
	return &cfg, missing, nil
}

func (c *Config) applyDefaults(md toml.MetaData) {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Scanner.Workers == 0 {
		c.Scanner.Workers = DefaultWorkers
	}
	if !md.IsDefined("scanner", "settle_delay") {
		c.Scanner.SettleDelay = DefaultSettleDelay
	}
	if !md.IsDefined("probe", "enabled") {
		c.Probe.Enabled = true
	}
	if !md.IsDefined("metadata", "cache", "enabled") {
		c.Metadata.Cache.Enabled = true
	}
	if c.Metadata.Cache.ShowTTL == 0 {
		c.Metadata.Cache.ShowTTL = DefaultShowTTL
	}
	if c.Metadata.Cache.SeasonTTL == 0 {
		c.Metadata.Cache.SeasonTTL = DefaultSeasonTTL
	}
	if c.Metadata.Cache.SearchTTL == 0 {
		c.Metadata.Cache.SearchTTL = DefaultSearchTTL
	}
	for i := range c.Libraries {
		if c.Libraries[i].Name == "" {
			c.Libraries[i].Name = baseName(c.Libraries[i].Path)
		}
	}
}

// Library returns the library with the given name.
func (c *Config) Library(name string) (LibraryConfig, error) {
	for _, l := range c.Libraries {
		if l.Name == name {
			return l, nil
		}
	}
	return LibraryConfig{}, fmt.Errorf("%w: %q", ErrUnknownLibrary, name)
}

// ErrUnknownLibrary is returned by Library for names not in the config.
var ErrUnknownLibrary = errors.New("unknown library")

func baseName(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(filepath.Clean(p))
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references and returns the names
// (or required-variable messages) that could not be resolved.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, op, arg := groups[1], groups[2], groups[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match // Leave unchanged if not found
		}
		return value
	})
	return out, missing
}
