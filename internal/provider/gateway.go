package provider

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/reelcat/internal/catalog"
)

// DefaultTimeout bounds each provider call.
const DefaultTimeout = 10 * time.Second

// Result is the folded answer of a Get call.
type Result[T any] struct {
	Value    *T
	Failures []*ProviderError
}

// SearchResult is the folded answer of a Search call.
type SearchResult[T any] struct {
	Items    []*T
	Failures []*ProviderError
}

// Gateway queries a set of sources concurrently and folds their answers.
type Gateway[T any] struct {
	kind    Kind[T]
	sources []Source[T]
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Gateway.
type Option func(*options)

type options struct {
	timeout time.Duration
	log     *slog.Logger
}

// WithTimeout sets the per-call timeout. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used to record provider failures.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// NewGateway creates a gateway over sources, ordered by ascending priority.
// Sources sharing a priority keep their relative order.
func NewGateway[T any](kind Kind[T], sources []Source[T], opts ...Option) *Gateway[T] {
	o := options{timeout: DefaultTimeout, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	sorted := slices.Clone(sources)
	slices.SortStableFunc(sorted, func(a, b Source[T]) int {
		return cmp.Compare(a.Provider().Priority, b.Provider().Priority)
	})
	return &Gateway[T]{
		kind:    kind,
		sources: sorted,
		timeout: o.timeout,
		log:     o.log,
	}
}

// Providers returns the descriptors of the gateway's sources in fold order.
func (g *Gateway[T]) Providers() []catalog.Provider {
	out := make([]catalog.Provider, len(g.sources))
	for i, s := range g.sources {
		out[i] = s.Provider()
	}
	return out
}

// Select returns a gateway restricted to the given provider slugs.
// The fold order stays the priority order, not the order of slugs.
func (g *Gateway[T]) Select(slugs []string) *Gateway[T] {
	enabled := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		enabled[s] = true
	}
	var selected []Source[T]
	for _, s := range g.sources {
		if enabled[s.Provider().Slug] {
			selected = append(selected, s)
		}
	}
	return &Gateway[T]{
		kind:    g.kind,
		sources: selected,
		timeout: g.timeout,
		log:     g.log,
	}
}

// Get asks every source about anchor and folds the answers: the first
// successful answer completes anchor (fills its gaps only), each later one is
// merged on top (overrides set values, unions lists and maps).
//
// Failed or timed out sources are skipped and reported in Result.Failures.
// When every source fails the result is anchor unchanged. The returned error
// is only set when folding fails, i.e. a merge hook refused a value.
func (g *Gateway[T]) Get(ctx context.Context, anchor *T) (*Result[T], error) {
	answers := fanOut(ctx, g, "get", func(ctx context.Context, s Source[T]) (*T, error) {
		// An abandoned source may still be reading while the answers
		// are folded into anchor.
		if anchor == nil {
			return s.Get(ctx, nil)
		}
		view := *anchor
		return s.Get(ctx, &view)
	})

	res := &Result[T]{Value: anchor}
	first := true
	for i, a := range answers {
		if a.err != nil {
			res.Failures = append(res.Failures, g.record("get", g.sources[i], a.err))
			continue
		}
		var err error
		if first {
			res.Value, err = g.kind.Schema.Complete(res.Value, a.value)
			first = false
		} else {
			res.Value, err = g.kind.Schema.Merge(res.Value, a.value)
		}
		if err != nil {
			return nil, fmt.Errorf("fold %s answer: %w", g.sources[i].Provider().Slug, err)
		}
	}
	return res, nil
}

// Search runs query on every source and folds the answers. Items describing
// the same resource (same Key) are combined in priority order: the first
// occurrence seeds the item, later ones are merged on top. The final list
// is ranked by title similarity to query, ties keeping fold order.
// When every source fails the list is empty.
func (g *Gateway[T]) Search(ctx context.Context, query string) (*SearchResult[T], error) {
	answers := fanOut(ctx, g, "search", func(ctx context.Context, s Source[T]) ([]*T, error) {
		return s.Search(ctx, query)
	})

	res := &SearchResult[T]{}
	index := make(map[string]int)
	for i, a := range answers {
		if a.err != nil {
			res.Failures = append(res.Failures, g.record("search", g.sources[i], a.err))
			continue
		}
		for _, item := range a.value {
			if item == nil {
				continue
			}
			key := g.kind.Key(item)
			if at, ok := index[key]; ok {
				merged, err := g.kind.Schema.Merge(res.Items[at], item)
				if err != nil {
					return nil, fmt.Errorf("fold %s result %q: %w", g.sources[i].Provider().Slug, key, err)
				}
				res.Items[at] = merged
				continue
			}
			// Copy so later merges never write into a source's answer.
			fresh := *item
			index[key] = len(res.Items)
			res.Items = append(res.Items, &fresh)
		}
	}

	rankByTitle(res.Items, query, g.kind.Title)
	return res, nil
}

type answer[V any] struct {
	value V
	err   error
}

// fanOut calls every source concurrently, each under its own timeout, and
// returns the answers indexed like g.sources. A source that ignores its
// context is abandoned once the timeout fires; its late answer is dropped.
func fanOut[T any, V any](ctx context.Context, g *Gateway[T], op string, call func(context.Context, Source[T]) (V, error)) []answer[V] {
	answers := make([]answer[V], len(g.sources))
	var eg errgroup.Group
	for i, src := range g.sources {
		eg.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()

			start := time.Now()
			done := make(chan answer[V], 1)
			go func() {
				v, err := call(callCtx, src)
				done <- answer[V]{value: v, err: err}
			}()

			var a answer[V]
			select {
			case a = <-done:
				if a.err == nil && callCtx.Err() != nil {
					a.err = callCtx.Err()
				}
			case <-callCtx.Done():
				a.err = callCtx.Err()
			}
			if a.err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				a.err = fmt.Errorf("%w after %s: %w", ErrProviderTimeout, g.timeout, a.err)
			}
			answers[i] = a
			g.log.Debug("provider answered",
				"provider", src.Provider().Slug,
				"op", op,
				"ok", a.err == nil,
				"duration_ms", time.Since(start).Milliseconds())
			return nil
		})
	}
	_ = eg.Wait()
	return answers
}

func (g *Gateway[T]) record(op string, src Source[T], err error) *ProviderError {
	pe := &ProviderError{Provider: src.Provider().Slug, Op: op, Err: err}
	if pe.Timeout() {
		g.log.Warn("provider timeout", "provider", pe.Provider, "op", op, "error", err)
	} else {
		g.log.Warn("provider error", "provider", pe.Provider, "op", op, "error", err)
	}
	return pe
}

func seasonKey(s *catalog.Season) string {
	return strconv.Itoa(s.SeasonNumber)
}
