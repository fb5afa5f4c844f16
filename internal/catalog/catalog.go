// Package catalog defines the canonical library entities (collections,
// shows, seasons, episodes, tracks) and how partial copies of them combine.
package catalog

// Provider describes an external metadata source.
// Lower Priority values are folded first.
type Provider struct {
	Slug     string
	Name     string
	Priority int
}

// MetadataID references a resource on an external metadata source.
type MetadataID struct {
	ProviderSlug string
	DataID       string
	Link         string
}

// Collection groups shows, e.g. "Anime". Only present when a path names one.
type Collection struct {
	Slug string
	Name string
}

func (c *Collection) GetSlug() string {
	if c == nil {
		return ""
	}
	return c.Slug
}

// Show is a series or, when IsMovie is set, a single movie.
// A show is unique per library path.
type Show struct {
	ID          int64
	Slug        string
	Title       string
	Aliases     []string
	Path        string
	Overview    string
	Genres      []string
	Status      ShowStatus
	StartYear   *int
	EndYear     *int
	IsMovie     bool
	Collection  *Collection
	ExternalIDs map[string]MetadataID
}

func (s *Show) GetSlug() string {
	if s == nil {
		return ""
	}
	return s.Slug
}

// ShowStatus is the airing status reported by providers.
type ShowStatus string

const (
	StatusUnknown  ShowStatus = ""
	StatusAiring   ShowStatus = "airing"
	StatusFinished ShowStatus = "finished"
	StatusPlanned  ShowStatus = "planned"
)

// Season is unique per (ShowID, SeasonNumber).
type Season struct {
	ID           int64
	ShowID       int64
	SeasonNumber int
	Title        string
	Overview     string
	ExternalIDs  map[string]MetadataID
}

// Episode is one video file of a show.
//
// Numbering is either season+episode, absolute, or none at all (movies).
// See Validate.
type Episode struct {
	ID             int64
	ShowID         int64
	SeasonNumber   *int
	EpisodeNumber  *int
	AbsoluteNumber *int
	Path           string
	Title          string
	Overview       string
}

// Validate rejects partial season/episode pairs.
func (e *Episode) Validate() error {
	if (e.SeasonNumber == nil) != (e.EpisodeNumber == nil) {
		return ErrInvalidNumbering
	}
	return nil
}

// IsMovie reports whether the episode carries no numbering at all.
func (e *Episode) IsMovie() bool {
	return e.SeasonNumber == nil && e.EpisodeNumber == nil && e.AbsoluteNumber == nil
}

// TrackKind is the stream type of a track.
type TrackKind string

const (
	TrackVideo    TrackKind = "video"
	TrackAudio    TrackKind = "audio"
	TrackSubtitle TrackKind = "subtitle"
)

// Track is a video, audio or subtitle stream, either embedded in the
// episode's container or stored next to it (IsExternal).
type Track struct {
	ID         int64
	EpisodeID  int64
	Kind       TrackKind
	Language   *string
	Codec      *string
	IsDefault  bool
	IsForced   bool
	IsExternal bool
	Path       string
}
