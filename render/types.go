package render

import "fmt"

// Rotation is the clockwise orientation applied to the image.
type Rotation int

const (
	RotateNone Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// ParseRotation maps the command line value 0-3 to a Rotation.
func ParseRotation(v int) (Rotation, error) {
	r := Rotation(v)
	if !r.valid() {
		return RotateNone, fmt.Errorf("rotation %d: %w", v, ErrInvalidParameter)
	}
	return r, nil
}

func (r Rotation) valid() bool { return r >= RotateNone && r <= Rotate270 }

// swapsAxes reports whether the bitmap is transposed by the rotation.
func (r Rotation) swapsAxes() bool { return r == Rotate90 || r == Rotate270 }

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int { return int(r) * 90 }

func (r Rotation) String() string {
	if !r.valid() {
		return fmt.Sprintf("Rotation(%d)", int(r))
	}
	return fmt.Sprintf("%d°", r.Degrees())
}

// ScaleMode selects between scale-to-fit and 1:1 rendering.
type ScaleMode int

const (
	// ScaleFit downscales the image until it fits the surface.
	ScaleFit ScaleMode = iota
	// ScaleNative always renders 1:1.
	ScaleNative
)

// ParseScaleMode maps the command line value 0-1 to a ScaleMode.
func ParseScaleMode(v int) (ScaleMode, error) {
	switch ScaleMode(v) {
	case ScaleFit, ScaleNative:
		return ScaleMode(v), nil
	}
	return ScaleFit, fmt.Errorf("scale mode %d: %w", v, ErrInvalidParameter)
}

func (s ScaleMode) String() string {
	switch s {
	case ScaleFit:
		return "fit"
	case ScaleNative:
		return "native"
	}
	return fmt.Sprintf("ScaleMode(%d)", int(s))
}

type mixKind int

const (
	mixClear mixKind = iota
	mixOpaque
	mixAlpha
)

// MixMode is the strategy used to write the bitmap onto the surface.
type MixMode struct {
	kind  mixKind
	alpha int
}

var (
	// MixClear zeroes the surface before the bitmap is copied.
	MixClear = MixMode{kind: mixClear}
	// MixOpaque copies the bitmap over the existing surface content.
	MixOpaque = MixMode{kind: mixOpaque}
)

// NewAlphaBlend returns a blending MixMode. alpha must be in [2,255];
// 0 and 1 are spelled MixClear and MixOpaque.
func NewAlphaBlend(alpha int) (MixMode, error) {
	if alpha < 2 || alpha > 255 {
		return MixMode{}, fmt.Errorf("alpha %d outside [2,255]: %w", alpha, ErrInvalidParameter)
	}
	return MixMode{kind: mixAlpha, alpha: alpha}, nil
}

// ParseMixMode maps the command line value 0-255 to a MixMode.
func ParseMixMode(v int) (MixMode, error) {
	switch {
	case v == 0:
		return MixClear, nil
	case v == 1:
		return MixOpaque, nil
	case v >= 2 && v <= 255:
		return NewAlphaBlend(v)
	}
	return MixMode{}, fmt.Errorf("mix mode %d: %w", v, ErrInvalidParameter)
}

// IsBlend reports whether m alpha blends.
func (m MixMode) IsBlend() bool { return m.kind == mixAlpha }

// Alpha returns the blend weight of the bitmap, 255 for non blending modes.
func (m MixMode) Alpha() int {
	if m.kind == mixAlpha {
		return m.alpha
	}
	return 255
}

func (m MixMode) String() string {
	switch m.kind {
	case mixClear:
		return "clear"
	case mixOpaque:
		return "opaque"
	}
	return fmt.Sprintf("alpha(%d)", m.alpha)
}

// Source describes the decoded input image.
type Source struct {
	Width    int
	Height   int
	Channels int // bytes per source pixel, always 3
}

// Geometry describes a display surface.
type Geometry struct {
	Width    int
	Height   int
	BitDepth int
	// Stride is the length of one surface row in bytes. Zero means
	// Width*BytesPerPixel.
	Stride int
}

// BytesPerPixel returns the storage size of one pixel, 0 for unsupported
// depths.
func (g Geometry) BytesPerPixel() int {
	switch g.BitDepth {
	case 32:
		return 4
	case 16:
		return 2
	}
	return 0
}

// RowStride returns the byte distance between two surface rows.
func (g Geometry) RowStride() int {
	if g.Stride > 0 {
		return g.Stride
	}
	return g.Width * g.BytesPerPixel()
}

func (g Geometry) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("surface %dx%d: %w", g.Width, g.Height, ErrInvalidParameter)
	}
	if g.BytesPerPixel() == 0 {
		return fmt.Errorf("surface depth %d bits: %w", g.BitDepth, ErrUnsupportedFormat)
	}
	if g.Stride != 0 && g.Stride < g.Width*g.BytesPerPixel() {
		return fmt.Errorf("surface stride %d shorter than row: %w", g.Stride, ErrInvalidParameter)
	}
	return nil
}
