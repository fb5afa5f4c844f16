package scanner

import (
	"path/filepath"
	"strings"
)

// DefaultVideoExtensions are the file extensions processed as videos.
var DefaultVideoExtensions = []string{
	".mkv", ".mp4", ".m4v", ".avi", ".mov", ".wmv", ".webm",
	".ts", ".m2ts", ".mpg", ".mpeg", ".ogv", ".flv",
}

// DefaultEmbeddingContainers are the video containers that may carry
// subtitle streams.
var DefaultEmbeddingContainers = []string{".mkv", ".mp4", ".m4v", ".webm", ".ts", ".m2ts"}

// extensionSet matches file extensions case-insensitively.
type extensionSet map[string]bool

func newExtensionSet(exts []string) extensionSet {
	set := make(extensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

func (s extensionSet) has(path string) bool {
	return s[strings.ToLower(filepath.Ext(path))]
}

// ignored reports whether a file or directory should never be processed:
// hidden entries, partial downloads and samples.
func ignored(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".part") || strings.HasSuffix(lower, ".tmp") {
		return true
	}
	return strings.Contains(lower, "sample")
}
