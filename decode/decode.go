// Package decode turns an encoded image stream into RGB scanlines.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/mutschler/fbv/render"
)

// DefaultMaxPixels bounds the decoded image size.
const DefaultMaxPixels = 64 << 20

// ErrClosed is returned by ReadScanline after Close.
var ErrClosed = errors.New("decode session closed")

// Options tune how a stream is decoded.
type Options struct {
	// AutoOrient applies the EXIF orientation tag, if present.
	AutoOrient bool
	// Filter, when set, is applied to the decoded image before any scanline
	// is served.
	Filter func(image.Image) image.Image
	// MaxPixels rejects larger images. Zero means DefaultMaxPixels.
	MaxPixels int
}

// Session serves the scanlines of one decoded image. A session that returned
// an error other than io.EOF keeps returning that error.
type Session struct {
	format string
	img    *image.NRGBA
	src    render.Source
	line   []byte
	row    int
	err    error
}

// Open reads and decodes the whole stream r.
func Open(r io.Reader, opts Options) (*Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w: %w", render.ErrDecode, err)
	}

	isWebP := len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"

	var cfg image.Config
	var format string
	if isWebP {
		cfg, err = webp.DecodeConfig(bytes.NewReader(data))
		format = "webp"
	} else {
		cfg, format, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w: %w", render.ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%s image %dx%d: %w", format, cfg.Width, cfg.Height, render.ErrInvalidParameter)
	}
	limit := opts.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if cfg.Width > limit/cfg.Height {
		return nil, fmt.Errorf("%s image %dx%d exceeds %d pixels: %w", format, cfg.Width, cfg.Height, limit, render.ErrAllocation)
	}
	log.Debugf("decoding %s image %dx%d", format, cfg.Width, cfg.Height)

	var img image.Image
	if isWebP {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(opts.AutoOrient))
	}
	if err != nil {
		return nil, fmt.Errorf("%s image: %w: %w", format, render.ErrDecode, err)
	}
	if opts.Filter != nil {
		img = opts.Filter(img)
	}

	n := imaging.Clone(img)
	b := n.Bounds()
	return &Session{
		format: format,
		img:    n,
		src:    render.Source{Width: b.Dx(), Height: b.Dy(), Channels: 3},
		line:   make([]byte, b.Dx()*3),
	}, nil
}

// Format returns the name of the detected codec.
func (s *Session) Format() string { return s.format }

// Source describes the decoded image.
func (s *Session) Source() render.Source { return s.src }

// ReadScanline returns the next row as packed R,G,B bytes, flattening any
// transparency onto black. The slice is reused by the next call.
func (s *Session) ReadScanline() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.row >= s.src.Height {
		return nil, io.EOF
	}
	pix := s.img.Pix[s.row*s.img.Stride : s.row*s.img.Stride+s.src.Width*4]
	for x := 0; x < s.src.Width; x++ {
		p := pix[x*4 : x*4+4]
		a := uint32(p[3])
		if a == 0xff {
			s.line[x*3], s.line[x*3+1], s.line[x*3+2] = p[0], p[1], p[2]
			continue
		}
		s.line[x*3] = uint8(uint32(p[0]) * a / 0xff)
		s.line[x*3+1] = uint8(uint32(p[1]) * a / 0xff)
		s.line[x*3+2] = uint8(uint32(p[2]) * a / 0xff)
	}
	s.row++
	return s.line, nil
}

// Close releases the decoded image. The session cannot be used afterwards.
func (s *Session) Close() error {
	if s.err == nil {
		s.err = fmt.Errorf("%w: %w", ErrClosed, render.ErrDecode)
	}
	s.img = nil
	return nil
}
