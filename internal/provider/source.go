// Package provider fans metadata requests out to several external sources
// and folds their answers into one record.
package provider

import (
	"context"

	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/merge"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks . Source

// Source is one external metadata source able to describe resources of
// type T.
type Source[T any] interface {
	// Provider describes the source. Priority orders the fold.
	Provider() catalog.Provider
	// Get returns what the source knows about anchor. The returned record
	// is a partial candidate, it is never stored as is.
	Get(ctx context.Context, anchor *T) (*T, error)
	// Search returns candidates matching a free text query.
	Search(ctx context.Context, query string) ([]*T, error)
}

// Kind tells the gateway how to handle records of type T.
type Kind[T any] struct {
	Schema *merge.Schema[T]
	// Key identifies search results describing the same resource.
	Key func(*T) string
	// Title is used to rank search results against the query.
	Title func(*T) string
}

// ShowKind handles shows: keyed by slug, ranked by title.
var ShowKind = Kind[catalog.Show]{
	Schema: catalog.ShowSchema,
	Key:    func(s *catalog.Show) string { return s.Slug },
	Title:  func(s *catalog.Show) string { return s.Title },
}

// SeasonKind handles seasons: keyed and ranked by season number.
var SeasonKind = Kind[catalog.Season]{
	Schema: catalog.SeasonSchema,
	Key:    func(s *catalog.Season) string { return seasonKey(s) },
	Title:  func(s *catalog.Season) string { return s.Title },
}

// EpisodeKind handles episodes: keyed by path.
var EpisodeKind = Kind[catalog.Episode]{
	Schema: catalog.EpisodeSchema,
	Key:    func(e *catalog.Episode) string { return e.Path },
	Title:  func(e *catalog.Episode) string { return e.Title },
}
