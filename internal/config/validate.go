package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Scanner.Workers < 0 {
		errs = append(errs, fmt.Sprintf("scanner.workers: must not be negative, got %d", c.Scanner.Workers))
	}
	if c.Scanner.SettleDelay < 0 {
		errs = append(errs, fmt.Sprintf("scanner.settle_delay: must not be negative, got %s", c.Scanner.SettleDelay))
	}
	for _, ext := range c.Scanner.VideoExtensions {
		if strings.TrimSpace(ext) == "" {
			errs = append(errs, "scanner.video_extensions: empty extension")
		}
	}

	providers := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		switch {
		case p.Slug == "":
			errs = append(errs, fmt.Sprintf("providers[%d].slug: required", i))
		case providers[p.Slug]:
			errs = append(errs, fmt.Sprintf("providers[%d].slug: duplicate provider %q", i, p.Slug))
		}
		providers[p.Slug] = true
	}

	if len(c.Libraries) == 0 {
		errs = append(errs, "libraries: at least one library must be configured")
	}
	names := make(map[string]bool, len(c.Libraries))
	for i, l := range c.Libraries {
		field := fmt.Sprintf("libraries[%d]", i)
		if l.Path == "" {
			errs = append(errs, field+".path: required")
		}
		if l.Name != "" && names[l.Name] {
			errs = append(errs, fmt.Sprintf("%s.name: duplicate library %q", field, l.Name))
		}
		names[l.Name] = true

		errs = append(errs, checkPatterns(field+".episode_regex", l.EpisodeRegex)...)
		errs = append(errs, checkPatterns(field+".absolute_regex", l.AbsoluteRegex)...)
		errs = append(errs, checkPatterns(field+".subtitle_regex", l.SubtitleRegex)...)

		for _, slug := range l.Providers {
			if !providers[slug] {
				errs = append(errs, fmt.Sprintf("%s.providers: provider %q not defined", field, slug))
			}
		}
	}

	for ext := range c.Subtitles.Codecs {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("subtitles.codecs: extension %q must start with a dot", ext))
		}
	}

	cache := c.Metadata.Cache
	if cache.ShowTTL < 0 || cache.SeasonTTL < 0 || cache.SearchTTL < 0 {
		errs = append(errs, "metadata.cache: TTLs must not be negative")
	}
	if c.Metadata.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("metadata.timeout: must not be negative, got %s", c.Metadata.Timeout))
	}

	return errs
}

// Warnings reports non-fatal problems, such as library paths that do not
// exist yet.
func (c *Config) Warnings() []string {
	disabled := make(map[string]bool)
	for _, p := range c.Providers {
		if !p.IsEnabled() {
			disabled[p.Slug] = true
		}
	}

	var warns []string
	for i, l := range c.Libraries {
		for _, slug := range l.Providers {
			if disabled[slug] {
				warns = append(warns, fmt.Sprintf("libraries[%d].providers: provider %q is disabled", i, slug))
			}
		}
		if l.Path == "" {
			continue
		}
		if _, err := os.Stat(l.Path); os.IsNotExist(err) {
			warns = append(warns, fmt.Sprintf("libraries[%d].path: directory %q does not exist", i, l.Path))
		}
	}
	return warns
}

func checkPatterns(field string, patterns []string) []string {
	var errs []string
	for i, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Sprintf("%s[%d]: %v", field, i, err))
		}
	}
	return errs
}
