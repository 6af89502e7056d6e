package display

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutschler/fbv/render"
)

func TestSnapshotRejects(t *testing.T) {
	_, err := NewSnapshot(render.Geometry{Width: 0, Height: 10, BitDepth: 32})
	assert.ErrorIs(t, err, render.ErrInvalidParameter)
	_, err = NewSnapshot(render.Geometry{Width: 10, Height: 10, BitDepth: 24})
	assert.ErrorIs(t, err, render.ErrUnsupportedFormat)
}

func TestSnapshotMapOnce(t *testing.T) {
	s, err := NewSnapshot(render.Geometry{Width: 4, Height: 3, BitDepth: 16})
	require.NoError(t, err)

	surf, err := s.Map()
	require.NoError(t, err)
	assert.Equal(t, 8, surf.RowStride())
	_, err = s.Map()
	assert.ErrorIs(t, err, render.ErrDevice)
	require.NoError(t, s.Unmap())
	_, err = s.Map()
	assert.NoError(t, err)
}

func TestSnapshotImage(t *testing.T) {
	for _, depth := range []int{16, 32} {
		s, err := NewSnapshot(render.Geometry{Width: 3, Height: 2, BitDepth: depth})
		require.NoError(t, err)
		surf, err := s.Map()
		require.NoError(t, err)
		px, err := surf.Pixel(2, 1)
		require.NoError(t, err)
		render.PackPixel(px, 0xf8, 0x80, 0x08)

		img := s.Image()
		assert.Equal(t, color.NRGBA{R: 0xf8, G: 0x80, B: 0x08, A: 0xff}, img.NRGBAAt(2, 1), "%d bits", depth)
		assert.Equal(t, color.NRGBA{A: 0xff}, img.NRGBAAt(0, 0), "%d bits", depth)
	}
}

func TestSnapshotBackground(t *testing.T) {
	s, err := NewSnapshot(render.Geometry{Width: 8, Height: 4, BitDepth: 32})
	require.NoError(t, err)
	s.SetBackground(imaging.New(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 0xff}))

	img := s.Image()
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 0xff}, img.NRGBAAt(7, 3))
}

func TestSnapshotSave(t *testing.T) {
	s, err := NewSnapshot(render.Geometry{Width: 6, Height: 5, BitDepth: 32})
	require.NoError(t, err)
	s.SetBackground(imaging.New(1, 1, color.NRGBA{R: 0xff, A: 0xff}))

	dir := t.TempDir()
	for _, name := range []string{"shot.png", "shot.jpg", "shot.webp"} {
		fn := filepath.Join(dir, name)
		require.NoError(t, s.Save(fn), name)
		img, err := imaging.Open(fn)
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 6, 5), img.Bounds(), name)
	}

	assert.Error(t, s.Save(filepath.Join(dir, "shot.unknown")))
}
