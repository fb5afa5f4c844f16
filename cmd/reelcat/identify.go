package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelcat/internal/config"
	"github.com/vmunix/reelcat/internal/identify"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <path>...",
	Short: "Show how paths are identified (no catalog access)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

// identification is the JSON-friendly outcome for one path.
type identification struct {
	Path       string `json:"path"`
	Root       string `json:"root,omitempty"`
	Collection string `json:"collection,omitempty"`
	Show       string `json:"show,omitempty"`
	ShowSlug   string `json:"show_slug,omitempty"`
	ShowPath   string `json:"show_path,omitempty"`
	StartYear  *int   `json:"start_year,omitempty"`
	Season     *int   `json:"season,omitempty"`
	Episode    *int   `json:"episode,omitempty"`
	Absolute   *int   `json:"absolute,omitempty"`
	Movie      bool   `json:"movie,omitempty"`
	Subtitle   bool   `json:"subtitle,omitempty"`
	Language   string `json:"language,omitempty"`
	Video      string `json:"video,omitempty"`
	Error      string `json:"error,omitempty"`
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ident, err := newIdentifier(cfg)
	if err != nil {
		return err
	}

	subtitles := subtitleExtensions(cfg)
	results := make([]identification, 0, len(args))
	for _, arg := range args {
		p, err := filepath.Abs(arg)
		if err != nil {
			p = arg
		}
		isSubtitle := subtitles[strings.ToLower(filepath.Ext(p))]
		results = append(results, identifyPath(ident, p, isSubtitle))
	}
	return printIdentifications(cmd.OutOrStdout(), results)
}

// subtitleExtensions returns the extensions treated as sidecar subtitles,
// falling back from the scanner list to the codec table.
func subtitleExtensions(cfg *config.Config) map[string]bool {
	exts := make(map[string]bool)
	for _, ext := range cfg.Scanner.SubtitleExtensions {
		exts[strings.ToLower(ext)] = true
	}
	if len(exts) > 0 {
		return exts
	}
	codecs := cfg.Subtitles.Codecs
	if len(codecs) == 0 {
		codecs = identify.DefaultSubtitleCodecs
	}
	for ext := range codecs {
		exts[strings.ToLower(ext)] = true
	}
	return exts
}

func identifyPath(ident *identify.Identifier, p string, isSubtitle bool) identification {
	out := identification{Path: p}
	if isSubtitle {
		out.Subtitle = true
		tr, err := ident.IdentifyTrack(p)
		if err != nil {
			out.Error = err.Error()
			return out
		}
		out.Root = tr.Root.Name
		out.Video = tr.EpisodeBase
		if tr.Track.Language != nil {
			out.Language = *tr.Track.Language
		}
		return out
	}

	res, err := ident.Identify(p)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Root = res.Root.Name
	if res.Collection != nil {
		out.Collection = res.Collection.Name
	}
	out.Show = res.Show.Title
	out.ShowSlug = res.Show.Slug
	out.ShowPath = res.Show.Path
	out.StartYear = res.Show.StartYear
	out.Season = res.Episode.SeasonNumber
	out.Episode = res.Episode.EpisodeNumber
	out.Absolute = res.Episode.AbsoluteNumber
	out.Movie = res.Show.IsMovie
	return out
}

func printIdentifications(w io.Writer, results []identification) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		fmt.Fprintln(w, r.Path)
		switch {
		case r.Error != "" && r.Subtitle:
			fmt.Fprintf(w, "  subtitle error: %s\n", r.Error)
		case r.Error != "":
			fmt.Fprintf(w, "  error:    %s\n", r.Error)
		case r.Subtitle:
			fmt.Fprintf(w, "  subtitle: %s (language: %s)\n", r.Video, orNone(r.Language))
		default:
			fmt.Fprintf(w, "  show:     %s [%s] %s\n", r.Show, r.ShowSlug, r.ShowPath)
			if r.Collection != "" {
				fmt.Fprintf(w, "  collection: %s\n", r.Collection)
			}
			switch {
			case r.Movie:
				fmt.Fprintln(w, "  movie")
			case r.Absolute != nil:
				fmt.Fprintf(w, "  absolute: %d\n", *r.Absolute)
			case r.Season != nil && r.Episode != nil:
				fmt.Fprintf(w, "  episode:  S%02dE%02d\n", *r.Season, *r.Episode)
			}
		}
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
