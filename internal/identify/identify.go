// Package identify turns media file paths into library entities using the
// ordered patterns configured on each library root.
package identify

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/pkg/slug"
)

// DefaultSubtitleCodecs maps sidecar extensions to codec names.
var DefaultSubtitleCodecs = map[string]string{
	".srt":  "subrip",
	".ass":  "ass",
	".ssa":  "ssa",
	".vtt":  "webvtt",
	".sub":  "microdvd",
	".sup":  "hdmv_pgs_subtitle",
	".ttml": "ttml",
}

// Result is the outcome of identifying a video file.
// Collection and Season are nil when the path does not provide them.
type Result struct {
	Root       *LibraryRoot
	Collection *catalog.Collection
	Show       *catalog.Show
	Season     *catalog.Season
	Episode    *catalog.Episode
}

// TrackResult is the outcome of identifying a sidecar subtitle.
// EpisodeBase is the absolute path of the video it belongs to, without
// extension.
type TrackResult struct {
	Root        *LibraryRoot
	EpisodeBase string
	Track       *catalog.Track
}

// Identifier resolves paths against a fixed set of library roots.
type Identifier struct {
	roots  []*LibraryRoot
	codecs map[string]string
}

// Option configures an Identifier.
type Option func(*Identifier)

// WithSubtitleCodecs replaces the extension to codec table.
// Extensions are matched case-insensitively and include the leading dot.
func WithSubtitleCodecs(codecs map[string]string) Option {
	return func(i *Identifier) {
		i.codecs = make(map[string]string, len(codecs))
		for ext, codec := range codecs {
			i.codecs[strings.ToLower(ext)] = codec
		}
	}
}

// New creates an identifier over roots.
func New(roots []*LibraryRoot, opts ...Option) *Identifier {
	i := &Identifier{
		roots:  roots,
		codecs: DefaultSubtitleCodecs,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Roots returns the configured roots.
func (i *Identifier) Roots() []*LibraryRoot {
	return i.roots
}

// Root returns the root containing path, preferring the longest root path
// when roots are nested, along with the path relative to it.
func (i *Identifier) Root(p string) (*LibraryRoot, string, error) {
	clean := cleanPath(p)
	var best *LibraryRoot
	var bestRel string
	for _, r := range i.roots {
		rel, ok := r.relative(clean)
		if !ok {
			continue
		}
		if best == nil || len(r.Path) > len(best.Path) {
			best, bestRel = r, rel
		}
	}
	if best == nil {
		return nil, "", failed(p, "not inside any library root")
	}
	return best, bestRel, nil
}

// match is a successful pattern match with its named groups.
type match struct {
	re    *regexp.Regexp
	text  string
	index []int
}

func (m *match) group(name string) (string, bool) {
	i := m.re.SubexpIndex(name)
	if i < 0 || m.index[2*i] < 0 {
		return "", false
	}
	return m.text[m.index[2*i]:m.index[2*i+1]], true
}

func (m *match) number(name string) (int, bool) {
	v, ok := m.group(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// groupEnd returns the end offset of a group, or -1.
func (m *match) groupEnd(name string) int {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		return -1
	}
	return m.index[2*i+1]
}

func firstMatch(patterns []*regexp.Regexp, text string) *match {
	for _, re := range patterns {
		if idx := re.FindStringSubmatchIndex(text); idx != nil {
			return &match{re: re, text: text, index: idx}
		}
	}
	return nil
}

// Identify resolves a video path into its collection, show, season and
// episode.
//
// The first episode pattern that matches is authoritative. If its Season or
// Episode group does not hold a number, the absolute patterns are tried on
// the same relative path; if those fail too, the file is a movie.
func (i *Identifier) Identify(p string) (*Result, error) {
	root, rel, err := i.Root(p)
	if err != nil {
		return nil, err
	}

	m := firstMatch(root.Episode, rel)
	if m == nil {
		return nil, failed(p, "no episode pattern matches %q", rel)
	}

	episode := &catalog.Episode{Path: cleanPath(p)}
	season, okSeason := m.number("Season")
	number, okEpisode := m.number("Episode")
	if okSeason && okEpisode {
		episode.SeasonNumber = &season
		episode.EpisodeNumber = &number
	} else if abs := firstMatch(root.Absolute, rel); abs != nil {
		if n, ok := abs.number("Absolute"); ok {
			episode.AbsoluteNumber = &n
			m = abs
		}
	}

	show, ok := m.group("Show")
	if !ok || strings.TrimSpace(show) == "" {
		return nil, failed(p, "pattern matched %q without a show", rel)
	}

	res := &Result{
		Root: root,
		Show: &catalog.Show{
			Slug:  slug.Make(show),
			Title: show,
			Path:  root.join(showDir(rel, m.groupEnd("Show"))),
		},
		Episode: episode,
	}
	if year, ok := m.number("StartYear"); ok {
		res.Show.StartYear = &year
	}
	if name, ok := m.group("Collection"); ok && name != "" {
		res.Collection = &catalog.Collection{Slug: slug.Make(name), Name: name}
		res.Show.Collection = res.Collection
	}
	if episode.SeasonNumber != nil {
		res.Season = &catalog.Season{SeasonNumber: *episode.SeasonNumber}
	}
	if episode.IsMovie() {
		res.Show.IsMovie = true
		episode.Title = res.Show.Title
	}
	return res, nil
}

// showDir returns the relative directory holding the show: the path up to
// the first separator after the Show group. When the show is named by the
// file itself, the file's directory is used.
func showDir(rel string, showEnd int) string {
	if showEnd >= 0 {
		if j := strings.IndexByte(rel[showEnd:], '/'); j >= 0 {
			return rel[:showEnd+j]
		}
	}
	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	return dir
}

// IdentifyTrack resolves a sidecar subtitle path into a track.
// The codec is nil when the extension is unknown.
func (i *Identifier) IdentifyTrack(p string) (*TrackResult, error) {
	root, rel, err := i.Root(p)
	if err != nil {
		return nil, err
	}

	m := firstMatch(root.Subtitle, rel)
	if m == nil {
		return nil, failed(p, "no subtitle pattern matches %q", rel)
	}
	base, ok := m.group("Episode")
	if !ok || base == "" {
		return nil, failed(p, "subtitle pattern matched %q without an episode", rel)
	}

	track := &catalog.Track{
		Kind:       catalog.TrackSubtitle,
		IsExternal: true,
		Path:       cleanPath(p),
	}
	if lang, ok := m.group("Language"); ok && lang != "" {
		track.Language = &lang
	}
	if v, ok := m.group("Default"); ok && v != "" {
		track.IsDefault = true
	}
	if v, ok := m.group("Forced"); ok && v != "" {
		track.IsForced = true
	}
	if codec, ok := i.codecs[strings.ToLower(path.Ext(rel))]; ok {
		track.Codec = &codec
	}

	return &TrackResult{
		Root:        root,
		EpisodeBase: root.join(base),
		Track:       track,
	}, nil
}

// EpisodeBase returns a video path without its extension, the key sidecar
// subtitles are matched on.
func EpisodeBase(videoPath string) string {
	clean := cleanPath(videoPath)
	return strings.TrimSuffix(clean, path.Ext(clean))
}
