package render

import (
	"fmt"
	"math"
)

// Plan is the placement of a source image on a surface. It is computed once
// per render and never changed.
type Plan struct {
	Rotation Rotation
	// Scale is the downscale factor, never below 1.
	Scale float64

	// PreRotWidth and PreRotHeight size the bitmap assembled in source
	// orientation.
	PreRotWidth  int
	PreRotHeight int
	// FinalWidth and FinalHeight size the bitmap written to the surface.
	FinalWidth  int
	FinalHeight int

	// SampleColumnOffset is added to every scaled column index.
	SampleColumnOffset int
	// SampleRowStart is the first source row sampled.
	SampleRowStart int

	TargetOffsetX int
	TargetOffsetY int

	EffectivePanX int
	EffectivePanY int
}

// axisPlan is the outcome of fitting one bitmap axis onto one surface axis.
type axisPlan struct {
	length int // bitmap length after cropping
	offset int // placement on the surface axis
	sample int // first sampled source index
	pan    int // clamped pan
}

// fitAxis centers a bitmap axis shorter than the surface axis and crops a
// longer one evenly from both ends. pan moves the placement of a centered
// axis and the sampled window of a cropped one, capped to the margin.
func fitAxis(bitmap, target, pan int) axisPlan {
	if bitmap < target {
		margin := (target - bitmap) / 2
		pan = capPan(pan, margin)
		return axisPlan{length: bitmap, offset: margin + pan, pan: pan}
	}
	margin := (bitmap - target) / 2
	pan = capPan(pan, margin)
	return axisPlan{length: target, sample: margin + pan, pan: pan}
}

// capPan limits |pan| to limit, keeping its sign.
func capPan(pan, limit int) int {
	switch {
	case pan > limit:
		return limit
	case pan < -limit:
		return -limit
	}
	return pan
}

// NewPlan computes where and how src is drawn on a surface of geometry dst.
func NewPlan(src Source, dst Geometry, rot Rotation, mode ScaleMode, panX, panY int) (Plan, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return Plan{}, fmt.Errorf("image %dx%d: %w", src.Width, src.Height, ErrInvalidParameter)
	}
	if dst.Width <= 0 || dst.Height <= 0 {
		return Plan{}, fmt.Errorf("surface %dx%d: %w", dst.Width, dst.Height, ErrInvalidParameter)
	}
	if !rot.valid() {
		return Plan{}, fmt.Errorf("rotation %d: %w", int(rot), ErrInvalidParameter)
	}

	// The bitmap is assembled in source orientation and rotated afterwards,
	// so for 90/270 the source columns run along the surface rows.
	colTarget, rowTarget := dst.Width, dst.Height
	colPan, rowPan := panX, panY
	if rot.swapsAxes() {
		colTarget, rowTarget = dst.Height, dst.Width
		colPan, rowPan = panY, panX
	}

	var scale float64
	switch mode {
	case ScaleFit:
		scale = math.Max(
			float64(src.Width)/float64(colTarget),
			float64(src.Height)/float64(rowTarget))
		scale = math.Max(scale, 1.0)
	case ScaleNative:
		scale = 1.0
	default:
		return Plan{}, fmt.Errorf("scale mode %d: %w", int(mode), ErrInvalidParameter)
	}

	cols := fitAxis(scaledLength(src.Width, scale), colTarget, colPan)
	rows := fitAxis(scaledLength(src.Height, scale), rowTarget, rowPan)

	p := Plan{
		Rotation:           rot,
		Scale:              scale,
		PreRotWidth:        cols.length,
		PreRotHeight:       rows.length,
		FinalWidth:         cols.length,
		FinalHeight:        rows.length,
		SampleColumnOffset: cols.sample,
		SampleRowStart:     rows.sample,
		TargetOffsetX:      cols.offset,
		TargetOffsetY:      rows.offset,
		EffectivePanX:      cols.pan,
		EffectivePanY:      rows.pan,
	}
	if rot.swapsAxes() {
		p.FinalWidth, p.FinalHeight = rows.length, cols.length
		p.TargetOffsetX, p.TargetOffsetY = rows.offset, cols.offset
		p.EffectivePanX, p.EffectivePanY = rows.pan, cols.pan
	}
	return p, nil
}

// scaleEpsilon absorbs the rounding of n/(n/target), which lands just below
// target for many size pairs.
const scaleEpsilon = 1e-9

// scaledLength returns n/scale rounded down, at least 1.
func scaledLength(n int, scale float64) int {
	return max(int(math.Floor(float64(n)/scale+scaleEpsilon)), 1)
}

// sourceRows returns the number of source rows covered by the plan, starting
// at SampleRowStart.
func (p Plan) sourceRows() float64 { return float64(p.PreRotHeight) * p.Scale }
