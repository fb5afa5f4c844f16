package catalog

import "github.com/vmunix/reelcat/internal/merge"

// ShowSchema is the merge field table of Show.
// ID, Slug and Path identify the local resource and are never merged.
var ShowSchema = merge.NewSchema(
	merge.Scalar("title", func(s *Show) *string { return &s.Title }),
	merge.Slice("aliases", func(s *Show) *[]string { return &s.Aliases }, merge.Equal[string]),
	merge.Scalar("overview", func(s *Show) *string { return &s.Overview }),
	merge.Slice("genres", func(s *Show) *[]string { return &s.Genres }, merge.Equal[string]),
	merge.Scalar("status", func(s *Show) *ShowStatus { return &s.Status }),
	merge.Pointer("start_year", func(s *Show) **int { return &s.StartYear }),
	merge.Pointer("end_year", func(s *Show) **int { return &s.EndYear }),
	merge.Scalar("is_movie", func(s *Show) *bool { return &s.IsMovie }),
	merge.Nested("collection", func(s *Show) **Collection { return &s.Collection }, nil),
	merge.Map("external_ids", func(s *Show) *map[string]MetadataID { return &s.ExternalIDs }),
)

// SeasonSchema is the merge field table of Season.
// ShowID and SeasonNumber identify the season and are never merged.
var SeasonSchema = merge.NewSchema(
	merge.Scalar("title", func(s *Season) *string { return &s.Title }),
	merge.Scalar("overview", func(s *Season) *string { return &s.Overview }),
	merge.Map("external_ids", func(s *Season) *map[string]MetadataID { return &s.ExternalIDs }),
)

// EpisodeSchema is the merge field table of Episode.
// Numbers are only merged as a whole through the pointer fields; callers
// should Validate the result.
var EpisodeSchema = merge.NewSchema(
	merge.Pointer("season_number", func(e *Episode) **int { return &e.SeasonNumber }),
	merge.Pointer("episode_number", func(e *Episode) **int { return &e.EpisodeNumber }),
	merge.Pointer("absolute_number", func(e *Episode) **int { return &e.AbsoluteNumber }),
	merge.Scalar("title", func(e *Episode) *string { return &e.Title }),
	merge.Scalar("overview", func(e *Episode) *string { return &e.Overview }),
)

// OnMerge refuses to merge two collections with different slugs; a show
// belongs to at most one collection.
func (c *Collection) OnMerge(other *Collection) error {
	if c.Slug != "" && other.Slug != "" && c.Slug != other.Slug {
		return &ConflictError{Kind: "collection", Left: c.Slug, Right: other.Slug}
	}
	if c.Name == "" {
		c.Name = other.Name
	}
	if c.Slug == "" {
		c.Slug = other.Slug
	}
	return nil
}
