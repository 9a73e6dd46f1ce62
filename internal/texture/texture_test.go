package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.png")
	writePNG(t, path)

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(1, 0))
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "skin.bmp"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tga"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestToNRGBARebasesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 8))
	dst := toNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 3), dst.Bounds())
}

func TestCacheLoadsOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	c := NewCache()
	c.load = func(string) (*image.NRGBA, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := c.Resolve("a.png")
			assert.NoError(t, err)
			assert.NotNil(t, img)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
	// Concurrent misses may each load, but only the first result is kept.
	assert.GreaterOrEqual(t, calls, 1)

	first, _ := c.Resolve("a.png")
	again, _ := c.Resolve("a.png")
	assert.Same(t, first, again)
}

func TestCacheRemembersFailures(t *testing.T) {
	c := NewCache()
	_, err := c.Resolve(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Equal(t, 1, c.Len())
}
