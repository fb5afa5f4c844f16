package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvConfig names a config file that takes precedence over the search.
	EnvConfig = "REELCAT_CONFIG"

	appDir   = "reelcat"
	fileName = "config.toml"
)

// ErrNotFound is returned by Discover when no candidate file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath is where `config init` writes: $XDG_CONFIG_HOME/reelcat, or
// ~/.config/reelcat when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fileName
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir, fileName)
}

// SearchPaths lists the files Discover tries, in order, when EnvConfig is
// not set.
func SearchPaths() []string {
	return []string{
		fileName,
		DefaultPath(),
		filepath.Join("/etc", appDir, fileName),
	}
}

// Discover returns the config file to load. EnvConfig wins and must point
// to an existing file; otherwise the first regular file of SearchPaths is
// used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	candidates := SearchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNotFound, strings.Join(candidates, ", "))
}
