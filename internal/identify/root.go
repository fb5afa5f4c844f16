package identify

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Default patterns. Go regular expressions have no backreferences, so the
// show directory is matched structurally: the file's parent directory is the
// show, anything above it is the collection.
const (
	DefaultEpisodeRegex  = `(?i)^(?:(?P<Collection>.+)/)?(?P<Show>[^/]+?)(?: \((?P<StartYear>\d{4})\))?/(?:[^/]*? S(?P<Season>\d+)E(?P<Episode>\d+))?[^/]*\.[^./]+$`
	DefaultAbsoluteRegex = `(?i)^(?:(?P<Collection>.+)/)?(?P<Show>[^/]+?)(?: \((?P<StartYear>\d{4})\))?/[^/]*? (?P<Absolute>\d+)\.[^./]+$`
	DefaultSubtitleRegex = `^(?P<Episode>.+)\.(?P<Language>\w{1,3})\.(?P<Default>default\.)?(?P<Forced>forced\.)?[^./]+$`
)

// RootConfig is the raw configuration of a library root.
// Empty regex lists fall back to the defaults.
type RootConfig struct {
	Name          string
	Path          string
	EpisodeRegex  []string
	AbsoluteRegex []string
	SubtitleRegex []string
	Providers     []string
}

// LibraryRoot is a compiled, immutable library root.
type LibraryRoot struct {
	Name      string
	Path      string // cleaned, slash separated, no trailing slash
	Episode   []*regexp.Regexp
	Absolute  []*regexp.Regexp
	Subtitle  []*regexp.Regexp
	Providers []string
}

// NewLibraryRoot compiles a root configuration.
// A malformed pattern is a configuration error.
func NewLibraryRoot(cfg RootConfig) (*LibraryRoot, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("library %q: path is required", cfg.Name)
	}
	root := &LibraryRoot{
		Name:      cfg.Name,
		Path:      cleanPath(cfg.Path),
		Providers: append([]string(nil), cfg.Providers...),
	}
	if root.Name == "" {
		root.Name = filepath.Base(root.Path)
	}

	var err error
	if root.Episode, err = compileAll(cfg.EpisodeRegex, DefaultEpisodeRegex); err != nil {
		return nil, fmt.Errorf("library %q: episode regex: %w", root.Name, err)
	}
	if root.Absolute, err = compileAll(cfg.AbsoluteRegex, DefaultAbsoluteRegex); err != nil {
		return nil, fmt.Errorf("library %q: absolute regex: %w", root.Name, err)
	}
	if root.Subtitle, err = compileAll(cfg.SubtitleRegex, DefaultSubtitleRegex); err != nil {
		return nil, fmt.Errorf("library %q: subtitle regex: %w", root.Name, err)
	}
	return root, nil
}

func compileAll(patterns []string, fallback string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		patterns = []string{fallback}
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// Contains reports whether path lies inside the root.
func (r *LibraryRoot) Contains(path string) bool {
	_, ok := r.relative(cleanPath(path))
	return ok
}

// relative strips the root prefix on a path segment boundary.
func (r *LibraryRoot) relative(path string) (string, bool) {
	if r.Path == "/" {
		return strings.TrimPrefix(path, "/"), strings.HasPrefix(path, "/")
	}
	if path == r.Path {
		return "", true
	}
	if !strings.HasPrefix(path, r.Path+"/") {
		return "", false
	}
	return path[len(r.Path)+1:], true
}

// join rebuilds an absolute path from a path relative to the root.
func (r *LibraryRoot) join(rel string) string {
	if rel == "" {
		return r.Path
	}
	if r.Path == "/" {
		return "/" + rel
	}
	return r.Path + "/" + rel
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
