package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/reelcat/internal/config"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		jsonOutput = false
		configInitForce = false
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSlugCommand(t *testing.T) {
	out, err := execute(t, "slug", "Toradora!", "The Melancholy of Haruhi Suzumiya")
	require.NoError(t, err)
	assert.Equal(t, "toradora\nthe-melancholy-of-haruhi-suzumiya\n", out)
}

func TestIdentifyCommand(t *testing.T) {
	lib := t.TempDir()
	useConfig(t, lib)

	episode := filepath.Join(lib, "Toradora", "Toradora S01E02.mkv")
	subtitle := filepath.Join(lib, "Toradora", "Toradora S01E02.eng.srt")
	outside := filepath.Join(t.TempDir(), "elsewhere.mkv")

	out, err := execute(t, "identify", "--json=false", episode, subtitle, outside)
	require.NoError(t, err)
	assert.Contains(t, out, "show:     Toradora [toradora]")
	assert.Contains(t, out, "episode:  S01E02")
	assert.Contains(t, out, "language: eng")
	assert.Contains(t, out, "error:")
}

func TestIdentifyPath_Absolute(t *testing.T) {
	lib := t.TempDir()
	useConfig(t, lib)
	cfg, err := loadConfig()
	require.NoError(t, err)
	ident, err := newIdentifier(cfg)
	require.NoError(t, err)

	got := identifyPath(ident, filepath.Join(lib, "One Piece", "One Piece 1071.mkv"), false)
	assert.Empty(t, got.Error)
	assert.Equal(t, "one-piece", got.ShowSlug)
	require.NotNil(t, got.Absolute)
	assert.Equal(t, 1071, *got.Absolute)
	assert.Nil(t, got.Season)
}

func TestConfigTestCommand(t *testing.T) {
	useConfig(t, t.TempDir())

	out, err := execute(t, "config", "test", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid!")
	assert.Contains(t, out, "providers: all")
}

func TestConfigTestCommand_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "verbose"

[[libraries]]
path = "/srv/tv"
episode_regex = ["(?P<Show>"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := execute(t, "config", "test", path)
	require.Error(t, err)
	assert.Contains(t, out, "Validation errors:")
	assert.Contains(t, out, "log.level")
	assert.Contains(t, out, "libraries[0].episode_regex[0]")
}

func TestSubtitleExtensions(t *testing.T) {
	cfg := &config.Config{}
	assert.True(t, subtitleExtensions(cfg)[".srt"])

	cfg.Subtitles.Codecs = map[string]string{".SUP": "hdmv_pgs_subtitle"}
	assert.Equal(t, map[string]bool{".sup": true}, subtitleExtensions(cfg))

	cfg.Scanner.SubtitleExtensions = []string{".ass"}
	assert.Equal(t, map[string]bool{".ass": true}, subtitleExtensions(cfg))
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelcat", "config.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err, "existing file is kept")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}
