package manim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimings(t *testing.T) {
	output := `Manim Community v0.18.0
[12/13/23] INFO Rendered MainScene
MANIM_SCENE_TIMINGS:[{"index":0,"start":0,"duration":5},{"index":1,"start":5,"duration":7.5}]
INFO File ready
`
	timings, ok := parseTimings(output)
	require.True(t, ok)
	require.Len(t, timings, 2)
	assert.Equal(t, 0, timings[0].Index)
	assert.InDelta(t, 5, timings[0].Duration, 1e-9)
	assert.InDelta(t, 5, timings[1].Start, 1e-9)
	assert.InDelta(t, 7.5, timings[1].Duration, 1e-9)
}

func TestParseTimingsUsesLastMarker(t *testing.T) {
	output := `MANIM_SCENE_TIMINGS:[{"index":0,"start":0,"duration":1}]
some rerun noise
MANIM_SCENE_TIMINGS:[{"index":0,"start":0,"duration":9}]`

	timings, ok := parseTimings(output)
	require.True(t, ok)
	require.Len(t, timings, 1)
	assert.InDelta(t, 9, timings[0].Duration, 1e-9)
}

func TestParseTimingsReindexes(t *testing.T) {
	output := `MANIM_SCENE_TIMINGS:[{"index":7,"start":0,"duration":2},{"index":7,"start":2,"duration":3}]`

	timings, ok := parseTimings(output)
	require.True(t, ok)
	assert.Equal(t, 0, timings[0].Index)
	assert.Equal(t, 1, timings[1].Index)
}

func TestParseTimingsRejectsBadInput(t *testing.T) {
	cases := []string{
		"no marker in this output",
		"MANIM_SCENE_TIMINGS:not json",
		"MANIM_SCENE_TIMINGS:[]",
		`MANIM_SCENE_TIMINGS:[{"index":0,"start":0,"duration":-1}]`,
	}
	for _, output := range cases {
		timings, ok := parseTimings(output)
		assert.False(t, ok, "output %q", output)
		assert.Nil(t, timings)
	}
}

func TestFindVideo(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "videos", "scene", "720p30")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "partial.log"), nil, 0o644))

	target := filepath.Join(nested, "abc123.mp4")
	require.NoError(t, os.WriteFile(target, []byte("fake"), 0o644))

	found, err := findVideo(root)
	require.NoError(t, err)
	assert.Equal(t, target, found)
}

func TestFindVideoMissing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "videos"), 0o755))

	_, err := findVideo(root)
	require.Error(t, err)
}
