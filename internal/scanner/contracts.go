package scanner

import (
	"context"

	"github.com/vmunix/reelcat/internal/catalog"
)

//go:generate mockgen -destination=mocks/mock_contracts.go -package=mocks . Repository,Transcoder

// Repository persists the catalog.
//
// The create-if-absent methods are atomic: when the resource already exists
// it is returned with created=false and build is not called. Otherwise
// build produces the record to insert; an error from build aborts the
// creation and is returned as is.
type Repository interface {
	IsPathRegistered(ctx context.Context, path string) (bool, error)
	CreateShowIfAbsent(ctx context.Context, path string, build func(context.Context) (*catalog.Show, error)) (*catalog.Show, bool, error)
	CreateSeasonIfAbsent(ctx context.Context, show *catalog.Show, number int, build func(context.Context) (*catalog.Season, error)) (*catalog.Season, bool, error)
	CreateEpisode(ctx context.Context, e *catalog.Episode) (*catalog.Episode, error)
	// EpisodeByBase returns the episode whose path minus its extension is
	// base, or nil when there is none.
	EpisodeByBase(ctx context.Context, base string) (*catalog.Episode, error)
	CreateTrack(ctx context.Context, t *catalog.Track) (*catalog.Track, error)
	// CreateTrackIfAbsent inserts an external track unless a track is
	// already linked to the same file.
	CreateTrackIfAbsent(ctx context.Context, t *catalog.Track) (*catalog.Track, bool, error)
}

// Transcoder lists the streams embedded in a video container.
type Transcoder interface {
	ExtractTracks(ctx context.Context, episodePath string) ([]*catalog.Track, error)
}
