// Package probe lists the streams embedded in video containers with a single
// ffprobe JSON call per file.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vmunix/reelcat/internal/catalog"
)

// DefaultBinary is the ffprobe executable looked up on PATH.
const DefaultBinary = "ffprobe"

// ErrNotInstalled is returned when the ffprobe binary cannot be found.
var ErrNotInstalled = errors.New("ffprobe not installed")

// Extractor runs ffprobe to discover embedded tracks.
type Extractor struct {
	binary string
}

// New creates an extractor. An empty binary uses DefaultBinary.
func New(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Extractor{binary: binary}
}

// Available reports whether the ffprobe binary can be executed.
func (e *Extractor) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// ExtractTracks returns the video, audio and subtitle streams of the
// container at path. Cover art and data streams are skipped.
func (e *Extractor) ExtractTracks(ctx context.Context, path string) ([]*catalog.Track, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, e.binary)
	}
	cmd := exec.CommandContext(ctx, e.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"--", path,
	)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseJSON(out, filepath.ToSlash(filepath.Clean(path)))
}

// ParseJSON converts raw ffprobe JSON output into tracks located at path.
func ParseJSON(data []byte, path string) ([]*catalog.Track, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	tracks := make([]*catalog.Track, 0, len(raw.Streams))
	for i := range raw.Streams {
		s := &raw.Streams[i]
		kind, ok := streamKinds[s.CodecType]
		if !ok || s.Disposition["attached_pic"] == 1 {
			continue
		}
		tracks = append(tracks, &catalog.Track{
			Kind:      kind,
			Language:  language(s.Tags),
			Codec:     optional(s.CodecName),
			IsDefault: s.Disposition["default"] == 1,
			IsForced:  s.Disposition["forced"] == 1,
			Path:      path,
		})
	}
	return tracks, nil
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

var streamKinds = map[string]catalog.TrackKind{
	"video":    catalog.TrackVideo,
	"audio":    catalog.TrackAudio,
	"subtitle": catalog.TrackSubtitle,
}

// language returns the stream language, nil when unset or undetermined.
func language(tags map[string]string) *string {
	lang := strings.TrimSpace(tags["language"])
	if lang == "" || strings.EqualFold(lang, "und") {
		return nil
	}
	return &lang
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
