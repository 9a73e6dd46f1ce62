package sheet

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"skin-animator/internal/camera"
	"skin-animator/internal/skeleton"
	"skin-animator/internal/timeline"
)

func tile(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 80, A: 255})
		}
	}
	return img
}

func TestWriteEncodesWebP(t *testing.T) {
	dir := t.TempDir()
	imgs := []Image{
		{Name: KeyframeName(0), Image: tile(8, 6)},
		{Name: FrameName(3), Image: tile(4, 4)},
		{Name: "broken"},
	}
	results := Write(Config{OutputDir: dir, Workers: 2, Logger: zerolog.Nop()}, imgs)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, filepath.Join(dir, "keyframes", "000.webp"), results[0].Path)
	assert.True(t, results[1].Success)
	assert.Equal(t, filepath.Join(dir, "frames", "00003.webp"), results[1].Path)

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "broken", failed[0].Name)

	f, err := os.Open(results[0].Path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := webp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
}

func TestWriteEmpty(t *testing.T) {
	assert.Empty(t, Write(Config{OutputDir: t.TempDir()}, nil))
}

func TestManifest(t *testing.T) {
	s, err := skeleton.New([]skeleton.BindBone{
		{Parent: -1, Position: mgl64.Vec3{0, 0, 0}, Endpoint: mgl64.Vec3{0, 1, 0}},
	})
	require.NoError(t, err)

	store := timeline.NewStore(0)
	_, err = store.Capture(timeline.NewKeyframe(s, camera.Snapshot{}, tile(2, 2)), 1)
	require.NoError(t, err)
	_, err = store.Capture(timeline.NewKeyframe(s, camera.Snapshot{}, nil), 1)
	require.NoError(t, err)

	m := NewManifest("chain", 4, store)
	m.AddFrames(3)
	require.Len(t, m.Keyframes, 2)
	assert.Equal(t, "keyframes/000.webp", m.Keyframes[0].Image)
	assert.Empty(t, m.Keyframes[1].Image)
	assert.True(t, m.Keyframes[1].Locked)
	assert.InDelta(t, 0.5, m.Frames[2].Time, 1e-12)

	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	require.NoError(t, WriteManifest(path, m))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back Manifest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	assert.False(t, r.Add(tile(1, 1)))
	assert.ErrorIs(t, r.Stop(), ErrNotRecording)

	require.NoError(t, r.Start())
	assert.True(t, r.Recording())
	assert.True(t, r.Add(tile(1, 1)))
	assert.True(t, r.Add(tile(1, 1)))
	require.NoError(t, r.Stop())
	assert.False(t, r.Add(tile(1, 1)))
	assert.Len(t, r.Frames(), 2)

	require.NoError(t, r.Start())
	assert.Empty(t, r.Frames())
}
