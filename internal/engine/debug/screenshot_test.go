package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
}

func TestFilename(t *testing.T) {
	s := NewScreenshots("shots", "carousel")
	s.now = fixedClock

	a, b := s.Filename(), s.Filename()
	assert.NotEqual(t, a, b)
	assert.Equal(t, "shots", filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), "carousel_2024-05-01_12-30-00_"))
	assert.True(t, strings.HasSuffix(a, ".png"))
}

func TestFlipRows(t *testing.T) {
	// Two rows, bottom row red, top row green, as GL returns them.
	pixels := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
	}
	img := FlipRows(pixels, 1, 2)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 1))
}

func TestSavePixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewScreenshots(dir, "shot")

	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = 200
	}
	path, err := s.SavePixels(pixels, 2, 2)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}

func TestSavePixelsSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "shot")
	_, err := s.SavePixels(make([]byte, 3), 1, 1)
	assert.Error(t, err)
	_, err = s.SavePixels(nil, 0, 0)
	assert.Error(t, err)
}
