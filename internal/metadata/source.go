package metadata

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/vmunix/reelcat/internal/catalog"
	"github.com/vmunix/reelcat/internal/provider"
)

// Default TTLs per resource kind.
const (
	DefaultShowTTL    = 7 * 24 * time.Hour
	DefaultSeasonTTL  = 7 * 24 * time.Hour
	DefaultEpisodeTTL = 24 * time.Hour
	DefaultSearchTTL  = time.Hour
)

// CachePolicy describes how answers about one resource kind are cached.
type CachePolicy[T any] struct {
	// Kind namespaces keys, e.g. "show".
	Kind string
	// Key identifies the anchor of a Get call. An empty key is not cached.
	Key       func(*T) string
	GetTTL    time.Duration
	SearchTTL time.Duration
}

// ShowPolicy caches shows by slug and start year. Shows without a year are
// told apart by their path instead.
func ShowPolicy(ttl, searchTTL time.Duration) CachePolicy[catalog.Show] {
	return CachePolicy[catalog.Show]{
		Kind:      "show",
		Key:       showKey,
		GetTTL:    ttl,
		SearchTTL: searchTTL,
	}
}

func showKey(s *catalog.Show) string {
	switch {
	case s.Slug == "":
		return ""
	case s.StartYear != nil:
		return s.Slug + ":" + strconv.Itoa(*s.StartYear)
	default:
		return s.Slug + ":" + s.Path
	}
}

// SeasonPolicy caches seasons by show and number.
func SeasonPolicy(ttl, searchTTL time.Duration) CachePolicy[catalog.Season] {
	return CachePolicy[catalog.Season]{
		Kind: "season",
		Key: func(s *catalog.Season) string {
			return strconv.FormatInt(s.ShowID, 10) + ":" + strconv.Itoa(s.SeasonNumber)
		},
		GetTTL:    ttl,
		SearchTTL: searchTTL,
	}
}

// CachedSource decorates a metadata source with the cache. Failed calls are
// never cached and cache errors never fail a call.
type CachedSource[T any] struct {
	src    provider.Source[T]
	cache  *Cache
	policy CachePolicy[T]
	log    *slog.Logger
}

// NewCachedSource wraps src.
func NewCachedSource[T any](src provider.Source[T], cache *Cache, policy CachePolicy[T], log *slog.Logger) *CachedSource[T] {
	if log == nil {
		log = slog.Default()
	}
	return &CachedSource[T]{
		src:    src,
		cache:  cache,
		policy: policy,
		log:    log.With("component", "metadata_cache", "provider", src.Provider().Slug),
	}
}

// Provider describes the wrapped source.
func (c *CachedSource[T]) Provider() catalog.Provider {
	return c.src.Provider()
}

// Get returns the cached answer about anchor, asking the source on a miss.
func (c *CachedSource[T]) Get(ctx context.Context, anchor *T) (*T, error) {
	id := ""
	if anchor != nil && c.policy.Key != nil {
		id = c.policy.Key(anchor)
	}
	if id == "" {
		return c.src.Get(ctx, anchor)
	}
	key := c.key("get", id)

	var cached T
	ok, err := c.cache.getJSON(ctx, key, &cached)
	if err != nil {
		c.log.Warn("failed to decode cached answer", "key", key, "error", err)
	}
	if ok {
		c.log.Debug("cache hit", "key", key)
		return &cached, nil
	}

	c.log.Debug("cache miss", "key", key)
	value, err := c.src.Get(ctx, anchor)
	if err != nil {
		return nil, err
	}
	if value != nil {
		if err := c.cache.setJSON(ctx, key, value, c.policy.GetTTL); err != nil {
			c.log.Warn("failed to cache answer", "key", key, "error", err)
		}
	}
	return value, nil
}

// Search returns the cached results for query, asking the source on a miss.
func (c *CachedSource[T]) Search(ctx context.Context, query string) ([]*T, error) {
	key := c.key("search", query)

	var cached []*T
	ok, err := c.cache.getJSON(ctx, key, &cached)
	if err != nil {
		c.log.Warn("failed to decode cached results", "key", key, "error", err)
	}
	if ok {
		c.log.Debug("cache hit", "key", key, "results", len(cached))
		return cached, nil
	}

	c.log.Debug("cache miss", "key", key)
	results, err := c.src.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := c.cache.setJSON(ctx, key, results, c.policy.SearchTTL); err != nil {
		c.log.Warn("failed to cache results", "key", key, "error", err)
	}
	return results, nil
}

func (c *CachedSource[T]) key(op, id string) string {
	return c.src.Provider().Slug + ":" + c.policy.Kind + ":" + op + ":" + id
}
