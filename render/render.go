// Package render places a decoded image on a raw display surface: it plans
// scale, crop, centering and pan, converts scanlines into the surface pixel
// format, rotates the assembled bitmap and composites it onto the surface.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// Decoder yields the source image one RGB scanline at a time. ReadScanline
// returns io.EOF after the last row; any other error ends the session.
type Decoder interface {
	Source() Source
	ReadScanline() ([]byte, error)
}

// Display is a surface that can be queried and mapped for writing.
type Display interface {
	Geometry() (Geometry, error)
	Map() (*Surface, error)
	Unmap() error
}

// Options are the per render choices of the caller.
type Options struct {
	Rotation Rotation
	Scale    ScaleMode
	PanX     int
	PanY     int
	Mix      MixMode
}

// Render draws the image of dec onto disp and returns the plan it used.
func Render(dec Decoder, disp Display, opts Options) (_ Plan, err error) {
	g, err := disp.Geometry()
	if err != nil {
		return Plan{}, err
	}
	if err := g.validate(); err != nil {
		return Plan{}, err
	}
	bpp := g.BytesPerPixel()
	if opts.Mix.IsBlend() && bpp != 4 {
		return Plan{}, fmt.Errorf("alpha blending on a %d bit surface: %w", g.BitDepth, ErrUnsupportedFormat)
	}

	src := dec.Source()
	plan, err := NewPlan(src, g, opts.Rotation, opts.Scale, opts.PanX, opts.PanY)
	if err != nil {
		return Plan{}, err
	}
	log.WithFields(log.Fields{
		"image":    fmt.Sprintf("%dx%dx%d", src.Width, src.Height, src.Channels),
		"surface":  fmt.Sprintf("%dx%dx%d(%d)", g.Width, g.Height, g.BitDepth, bpp),
		"rotation": opts.Rotation,
		"mix":      opts.Mix,
	}).Info("planning render")
	log.Infof("centering offset            : %dx%d", plan.TargetOffsetX, plan.TargetOffsetY)
	log.Infof("panoration                  : %dx%d", plan.EffectivePanX, plan.EffectivePanY)
	log.Infof("bitmap width and height     : %dx%d", plan.PreRotWidth, plan.PreRotHeight)
	log.Infof("will create %d from %d pixels from offset %d of each line starting at line %d",
		plan.PreRotWidth, src.Width, plan.SampleColumnOffset, plan.SampleRowStart)
	log.Infof("scale: %f", plan.Scale)

	bm, err := NewBitmap(plan.PreRotWidth, plan.PreRotHeight, bpp)
	if err != nil {
		return Plan{}, err
	}
	log.Debugf("allocated %s bitmap", humanize.Bytes(uint64(len(bm.Pix))))

	if err := fill(bm, dec, src, plan); err != nil {
		return Plan{}, err
	}

	final, err := Rotate(plan.Rotation, bm)
	if err != nil {
		return Plan{}, err
	}

	s, err := disp.Map()
	if err != nil {
		return Plan{}, err
	}
	defer func() {
		if uerr := disp.Unmap(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	if err := Composite(final, s, plan, opts.Mix); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// fill pulls scanlines from dec until every bitmap row is converted or the
// image ends.
func fill(bm *Bitmap, dec Decoder, src Source, plan Plan) error {
	conv, err := NewConverter(src, plan, bm.BytesPerPixel)
	if err != nil {
		return err
	}
	r := 0
	for ; !conv.Done(); r++ {
		line, err := dec.ReadScanline()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !errors.Is(err, ErrDecode) {
				err = fmt.Errorf("scanline %d: %w: %w", r, ErrDecode, err)
			}
			return err
		}
		out, ok := conv.Want(r)
		if !ok {
			continue
		}
		row, err := bm.Row(out)
		if err != nil {
			return err
		}
		if err := conv.ConvertScanline(row, line); err != nil {
			return err
		}
	}
	if !conv.Done() {
		log.Warnf("image ended after %d scanlines, %d bitmap rows left blank", r, plan.PreRotHeight-1-conv.last)
	}
	return nil
}
