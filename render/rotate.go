package render

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Rotate returns b turned clockwise by r. RotateNone returns b itself, every
// other rotation allocates a new bitmap.
func Rotate(r Rotation, b *Bitmap) (*Bitmap, error) {
	switch r {
	case RotateNone:
		return b, nil
	case Rotate90:
		log.Info("rotating 90 degrees")
		return rotate90(b)
	case Rotate180:
		log.Info("rotating 180 degrees")
		tmp, err := rotate90(b)
		if err != nil {
			return nil, err
		}
		return rotate90(tmp)
	case Rotate270:
		log.Info("rotating 270 degrees")
		return rotate270(b)
	}
	return nil, fmt.Errorf("rotation %d: %w", int(r), ErrInvalidParameter)
}

// rotate90 walks the source column by column, bottom to top, and writes the
// output sequentially.
func rotate90(b *Bitmap) (*Bitmap, error) {
	w, h, c := b.Width, b.Height, b.BytesPerPixel
	d, err := NewBitmap(h, w, c)
	if err != nil {
		return nil, err
	}
	dst := d.Pix
	src := b.Pix
	pos := 0
	for x := 0; x < w; x++ {
		for y := h - 1; y >= 0; y-- {
			i := (x + y*w) * c
			copy(dst[pos:pos+c], src[i:i+c])
			pos += c
		}
	}
	return d, nil
}

// rotate270 fills output row y from source column w-1-y, top to bottom.
func rotate270(b *Bitmap) (*Bitmap, error) {
	w, h, c := b.Width, b.Height, b.BytesPerPixel
	d, err := NewBitmap(h, w, c)
	if err != nil {
		return nil, err
	}
	dst := d.Pix
	src := b.Pix
	s2 := h * c
	for y := 0; y < w; y++ {
		for x := 0; x < s2; x += c {
			j := (w-1-y)*c + (x/c)*w*c
			copy(dst[y*s2+x:y*s2+x+c], src[j:j+c])
		}
	}
	return d, nil
}
