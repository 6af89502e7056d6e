// Package display provides the surfaces fbv draws on: the Linux framebuffer
// device and an in-memory snapshot that is saved as an image file.
package display

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/mutschler/fbv/render"
)

// maxSnapshotSide bounds either side of a snapshot surface.
const maxSnapshotSide = 1 << 14

// Snapshot is a memory backed surface with the pixel layout of a framebuffer.
type Snapshot struct {
	g      render.Geometry
	pix    []byte
	mapped bool
}

// NewSnapshot allocates a cleared surface of geometry g.
func NewSnapshot(g render.Geometry) (*Snapshot, error) {
	if g.Width <= 0 || g.Height <= 0 || g.Width > maxSnapshotSide || g.Height > maxSnapshotSide {
		return nil, fmt.Errorf("snapshot %dx%d: %w", g.Width, g.Height, render.ErrInvalidParameter)
	}
	if g.BytesPerPixel() == 0 {
		return nil, fmt.Errorf("snapshot depth %d bits: %w", g.BitDepth, render.ErrUnsupportedFormat)
	}
	g.Stride = g.Width * g.BytesPerPixel()
	n := g.Stride * g.Height
	log.Debugf("snapshot surface %dx%dx%d uses %s", g.Width, g.Height, g.BitDepth, humanize.Bytes(uint64(n)))
	return &Snapshot{g: g, pix: make([]byte, n)}, nil
}

// SetBackground fills the surface with img, scaled and cropped to cover it.
func (s *Snapshot) SetBackground(img image.Image) {
	bg := imaging.Fill(img, s.g.Width, s.g.Height, imaging.Center, imaging.Lanczos)
	bpp := s.g.BytesPerPixel()
	for y := 0; y < s.g.Height; y++ {
		for x := 0; x < s.g.Width; x++ {
			c := bg.NRGBAAt(x, y)
			i := y*s.g.Stride + x*bpp
			render.PackPixel(s.pix[i:i+bpp], c.R, c.G, c.B)
		}
	}
}

// Geometry returns the geometry the snapshot was created with.
func (s *Snapshot) Geometry() (render.Geometry, error) { return s.g, nil }

// Map exposes the pixel memory.
func (s *Snapshot) Map() (*render.Surface, error) {
	if s.mapped {
		return nil, fmt.Errorf("snapshot is already mapped: %w", render.ErrDevice)
	}
	surf, err := render.NewSurface(s.g, s.pix)
	if err != nil {
		return nil, err
	}
	s.mapped = true
	return surf, nil
}

// Unmap ends the mapping made by Map.
func (s *Snapshot) Unmap() error {
	s.mapped = false
	return nil
}

// Close is a no-op, a snapshot holds no device.
func (s *Snapshot) Close() error { return nil }

// Image returns the surface content. The alpha byte of 32 bit pixels is
// ignored, the screen shows every pixel opaque.
func (s *Snapshot) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.g.Width, s.g.Height))
	bpp := s.g.BytesPerPixel()
	for y := 0; y < s.g.Height; y++ {
		for x := 0; x < s.g.Width; x++ {
			i := y*s.g.Stride + x*bpp
			r, g, b, _ := render.UnpackPixel(s.pix[i : i+bpp])
			j := img.PixOffset(x, y)
			img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = r, g, b, 0xff
		}
	}
	return img
}

// Save writes the surface content to filename. The format follows the
// extension; .webp is written lossless.
func (s *Snapshot) Save(filename string) error {
	img := s.Image()
	if strings.EqualFold(filepath.Ext(filename), ".webp") {
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		if err := nativewebp.Encode(f, img, nil); err != nil {
			f.Close()
			return fmt.Errorf("webp encode %s: %w", filename, err)
		}
		return f.Close()
	}
	return imaging.Save(img, filename)
}
