package render

import (
	"fmt"
	"math/bits"
)

// maxBitmapBytes caps a single pixel buffer.
const maxBitmapBytes = 1 << 32

// bufferSize returns w*h*bpp, failing on overflow or oversized buffers.
func bufferSize(w, h, bpp int) (int, error) {
	if w < 0 || h < 0 || bpp <= 0 {
		return 0, fmt.Errorf("buffer %dx%dx%d: %w", w, h, bpp, ErrAllocation)
	}
	hi, n := bits.Mul64(uint64(w), uint64(h))
	if hi != 0 {
		return 0, fmt.Errorf("buffer %dx%d overflows: %w", w, h, ErrAllocation)
	}
	hi, n = bits.Mul64(n, uint64(bpp))
	if hi != 0 || n > maxBitmapBytes {
		return 0, fmt.Errorf("buffer %dx%dx%d too large: %w", w, h, bpp, ErrAllocation)
	}
	return int(n), nil
}

// span returns the n pixels starting at (x, y) of a buffer laid out with the
// given stride.
func span(pix []byte, stride, bpp, width, height, x, y, n int) ([]byte, error) {
	if x < 0 || y < 0 || n < 0 || x+n > width || y >= height {
		return nil, fmt.Errorf("span %d pixels at (%d,%d) outside %dx%d: %w", n, x, y, width, height, ErrInvalidParameter)
	}
	i := y*stride + x*bpp
	j := i + n*bpp
	if j > len(pix) {
		return nil, fmt.Errorf("span ends at byte %d of %d: %w", j, len(pix), ErrInvalidParameter)
	}
	return pix[i:j:j], nil
}

// Bitmap is a tightly packed pixel buffer in surface pixel format.
type Bitmap struct {
	Width         int
	Height        int
	BytesPerPixel int
	Pix           []byte
}

// NewBitmap allocates a zeroed w x h bitmap of bpp bytes per pixel.
func NewBitmap(w, h, bpp int) (*Bitmap, error) {
	n, err := bufferSize(w, h, bpp)
	if err != nil {
		return nil, err
	}
	return &Bitmap{Width: w, Height: h, BytesPerPixel: bpp, Pix: make([]byte, n)}, nil
}

// Stride returns the byte length of one bitmap row.
func (b *Bitmap) Stride() int { return b.Width * b.BytesPerPixel }

// Span returns the bytes of n pixels starting at (x, y).
func (b *Bitmap) Span(x, y, n int) ([]byte, error) {
	return span(b.Pix, b.Stride(), b.BytesPerPixel, b.Width, b.Height, x, y, n)
}

// Row returns row y.
func (b *Bitmap) Row(y int) ([]byte, error) { return b.Span(0, y, b.Width) }

// Surface is a writable pixel region of a display.
type Surface struct {
	Geometry
	Pix []byte
}

// NewSurface wraps pix as a surface of geometry g.
func NewSurface(g Geometry, pix []byte) (*Surface, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	need := g.RowStride()*(g.Height-1) + g.Width*g.BytesPerPixel()
	if len(pix) < need {
		return nil, fmt.Errorf("surface region of %d bytes, need %d: %w", len(pix), need, ErrDevice)
	}
	return &Surface{Geometry: g, Pix: pix}, nil
}

// Span returns the bytes of n pixels starting at (x, y).
func (s *Surface) Span(x, y, n int) ([]byte, error) {
	return span(s.Pix, s.RowStride(), s.BytesPerPixel(), s.Width, s.Height, x, y, n)
}

// Pixel returns the bytes of the pixel at (x, y).
func (s *Surface) Pixel(x, y int) ([]byte, error) { return s.Span(x, y, 1) }

// Clear zeroes the whole region.
func (s *Surface) Clear() { clear(s.Pix) }
