package config

import (
	"errors"
	"strings"
)

// ErrInvalid matches every *ConfigError.
var ErrInvalid = errors.New("invalid configuration")

// ConfigError lists what went wrong loading a config file: variables the
// substitution could not resolve, then validation failures.
type ConfigError struct {
	Path    string
	Missing []string
	Errors  []string
}

// HasErrors reports whether anything was collected.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var lines []string
	if e.Path != "" {
		lines = append(lines, "config "+e.Path+":")
	}
	if len(e.Missing) > 0 {
		lines = append(lines, "missing environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		lines = append(lines, "validation failed:")
		for _, msg := range e.Errors {
			lines = append(lines, "  - "+msg)
		}
	}
	return strings.Join(lines, "\n")
}
