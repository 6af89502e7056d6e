package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutschler/fbv/render"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

func TestSessionScanlines(t *testing.T) {
	s, err := Open(bytes.NewReader(encodePNG(t, gradient(5, 3))), Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "png", s.Format())
	assert.Equal(t, render.Source{Width: 5, Height: 3, Channels: 3}, s.Source())
	for y := 0; y < 3; y++ {
		line, err := s.ReadScanline()
		require.NoError(t, err)
		require.Len(t, line, 15)
		assert.Equal(t, []byte{4, byte(y), byte(4 + y)}, line[12:15])
	}
	_, err = s.ReadScanline()
	assert.Equal(t, io.EOF, err)
}

func TestSessionFlattensAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0x80})

	s, err := Open(bytes.NewReader(encodePNG(t, img)), Options{})
	require.NoError(t, err)
	line, err := s.ReadScanline()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 100, 50, 25}, line)
}

func TestSessionFilter(t *testing.T) {
	opts := Options{Filter: func(img image.Image) image.Image { return imaging.FlipH(img) }}
	s, err := Open(bytes.NewReader(encodePNG(t, gradient(5, 1))), opts)
	require.NoError(t, err)
	line, err := s.ReadScanline()
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 0, 4}, line[0:3])
}

func TestOpenJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradient(16, 8), &jpeg.Options{Quality: 90}))

	s, err := Open(bytes.NewReader(buf.Bytes()), Options{AutoOrient: true})
	require.NoError(t, err)
	assert.Equal(t, "jpeg", s.Format())
	assert.Equal(t, 16, s.Source().Width)
	assert.Equal(t, 8, s.Source().Height)

	_, err = Open(bytes.NewReader(buf.Bytes()[:buf.Len()/2]), Options{})
	assert.ErrorIs(t, err, render.ErrDecode)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(bytes.NewReader(nil), Options{})
	assert.ErrorIs(t, err, render.ErrDecode)

	_, err = Open(bytes.NewReader([]byte("definitely not an image")), Options{})
	assert.ErrorIs(t, err, render.ErrDecode)

	_, err = Open(bytes.NewReader(encodePNG(t, gradient(100, 100))), Options{MaxPixels: 9999})
	assert.ErrorIs(t, err, render.ErrAllocation)
}

func TestSessionClosedIsTerminal(t *testing.T) {
	s, err := Open(bytes.NewReader(encodePNG(t, gradient(2, 2))), Options{})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.ReadScanline()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, err, render.ErrDecode)
	_, err = s.ReadScanline()
	assert.ErrorIs(t, err, ErrClosed)
}
