package render

import (
	"fmt"
	"math"
)

// PackPixel encodes an RGB triple into dst in the surface pixel format of
// len(dst) bytes: B,G,R,0xFF for 4 bytes and 5-6-5 for 2 bytes.
func PackPixel(dst []byte, r, g, b byte) {
	switch len(dst) {
	case 4:
		dst[0] = b
		dst[1] = g
		dst[2] = r
		dst[3] = 0xff
	case 2:
		dst[0] = (g<<3)&0xe0 | (b>>3)&0x1f
		dst[1] = r&0xf8 | (g>>5)&0x07
	}
}

// UnpackPixel decodes a surface pixel of len(src) bytes. The low bits lost by
// 5-6-5 packing come back as zeroes.
func UnpackPixel(src []byte) (r, g, b, a byte) {
	switch len(src) {
	case 4:
		return src[2], src[1], src[0], src[3]
	case 2:
		return src[1] & 0xf8, (src[1]&0x07)<<5 | (src[0]&0xe0)>>3, (src[0] & 0x1f) << 3, 0xff
	}
	return 0, 0, 0, 0
}

// Converter turns source scanlines into rows of the intermediate bitmap by
// point sampling: one source pixel per output pixel, no averaging.
type Converter struct {
	plan    Plan
	src     Source
	bpp     int
	columns []int // source pixel index of every output column
	last    int   // last emitted output row
}

// NewConverter prepares the column sampling table for plan.
func NewConverter(src Source, plan Plan, bytesPerPixel int) (*Converter, error) {
	if bytesPerPixel != 4 && bytesPerPixel != 2 {
		return nil, fmt.Errorf("%d bytes per pixel: %w", bytesPerPixel, ErrUnsupportedFormat)
	}
	if src.Channels < 3 {
		return nil, fmt.Errorf("%d channel source: %w", src.Channels, ErrInvalidParameter)
	}
	cols := make([]int, plan.PreRotWidth)
	for i := range cols {
		c := int(math.Floor(float64(i)*plan.Scale)) + plan.SampleColumnOffset
		if c < 0 || c >= src.Width {
			return nil, fmt.Errorf("column %d samples source column %d of %d: %w", i, c, src.Width, ErrInvalidParameter)
		}
		cols[i] = c
	}
	return &Converter{plan: plan, src: src, bpp: bytesPerPixel, columns: cols, last: -1}, nil
}

// Want reports the output row that source row r produces, or false when r is
// outside the sampled window or maps onto a row already emitted.
func (c *Converter) Want(r int) (int, bool) {
	k := r - c.plan.SampleRowStart
	if k < 0 || float64(k) >= c.plan.sourceRows() {
		return 0, false
	}
	out := int(math.Floor(float64(k) / c.plan.Scale))
	if out == c.last || out >= c.plan.PreRotHeight {
		return 0, false
	}
	c.last = out
	return out, true
}

// Done reports whether every output row has been emitted.
func (c *Converter) Done() bool { return c.last >= c.plan.PreRotHeight-1 }

// ConvertScanline writes the sampled pixels of one source row into dst, which
// holds PreRotWidth pixels.
func (c *Converter) ConvertScanline(dst, row []byte) error {
	if len(row) < c.src.Width*c.src.Channels {
		return fmt.Errorf("scanline of %d bytes, want %d: %w", len(row), c.src.Width*c.src.Channels, ErrDecode)
	}
	if len(dst) < len(c.columns)*c.bpp {
		return fmt.Errorf("row buffer of %d bytes, want %d: %w", len(dst), len(c.columns)*c.bpp, ErrInvalidParameter)
	}
	ch := c.src.Channels
	switch c.bpp {
	case 4:
		for i, col := range c.columns {
			s := row[col*ch : col*ch+3]
			d := dst[i*4 : i*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], 0xff
		}
	case 2:
		for i, col := range c.columns {
			s := row[col*ch : col*ch+3]
			PackPixel(dst[i*2:i*2+2], s[0], s[1], s[2])
		}
	}
	return nil
}
