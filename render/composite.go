package render

import (
	"encoding/binary"
	"fmt"
)

// blend mixes src over dst with weight a, channel by channel:
// (src*a + dst*(255-a)) / 255, truncated. Red and blue are computed together
// in the 0x00ff00ff lanes, green in the 0x0000ff00 lane. The alpha byte comes
// from src.
func blend(dst, src, a uint32) uint32 {
	na := 0xff - a

	rb := (src&0x00ff00ff)*a + (dst&0x00ff00ff)*na
	// x/255 == (x + 1 + x>>8) >> 8 for every x <= 255*255, in both lanes.
	rb = ((rb + 0x00010001 + (rb>>8)&0x00ff00ff) >> 8) & 0x00ff00ff

	g := ((src&0x0000ff00)*a + (dst&0x0000ff00)*na) >> 8
	g = ((g + 1 + g>>8) >> 8) << 8 & 0x0000ff00

	return src&0xff000000 | rb | g
}

// Composite writes final onto s at the plan's target offset.
func Composite(final *Bitmap, s *Surface, p Plan, mix MixMode) error {
	bpp := s.BytesPerPixel()
	if final.BytesPerPixel != bpp {
		return fmt.Errorf("bitmap of %d bytes per pixel on a %d byte surface: %w", final.BytesPerPixel, bpp, ErrUnsupportedFormat)
	}
	ox, oy := p.TargetOffsetX, p.TargetOffsetY
	if ox < 0 || oy < 0 || ox+final.Width > s.Width || oy+final.Height > s.Height {
		return fmt.Errorf("bitmap %dx%d at (%d,%d) exceeds surface %dx%d: %w",
			final.Width, final.Height, ox, oy, s.Width, s.Height, ErrInvalidParameter)
	}

	switch mix.kind {
	case mixClear:
		s.Clear()
		return blit(final, s, ox, oy)
	case mixOpaque:
		return blit(final, s, ox, oy)
	case mixAlpha:
		if mix.alpha < 2 || mix.alpha > 255 {
			return fmt.Errorf("alpha %d outside [2,255]: %w", mix.alpha, ErrInvalidParameter)
		}
		if bpp != 4 {
			return fmt.Errorf("alpha blending on a %d bit surface: %w", s.BitDepth, ErrUnsupportedFormat)
		}
		return alphaBlit(final, s, ox, oy, uint32(mix.alpha))
	}
	return fmt.Errorf("mix mode %v: %w", mix, ErrInvalidParameter)
}

func blit(b *Bitmap, s *Surface, ox, oy int) error {
	for y := 0; y < b.Height; y++ {
		src, err := b.Row(y)
		if err != nil {
			return err
		}
		dst, err := s.Span(ox, oy+y, b.Width)
		if err != nil {
			return err
		}
		copy(dst, src)
	}
	return nil
}

func alphaBlit(b *Bitmap, s *Surface, ox, oy int, a uint32) error {
	for y := 0; y < b.Height; y++ {
		src, err := b.Row(y)
		if err != nil {
			return err
		}
		dst, err := s.Span(ox, oy+y, b.Width)
		if err != nil {
			return err
		}
		for i := 0; i+4 <= len(dst); i += 4 {
			v := blend(binary.LittleEndian.Uint32(dst[i:]), binary.LittleEndian.Uint32(src[i:]), a)
			binary.LittleEndian.PutUint32(dst[i:], v)
		}
	}
	return nil
}
