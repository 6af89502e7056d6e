package render

import "errors"

var (
	// ErrInvalidParameter reports a bad rotation, scale or mix value, or a
	// zero sized image or surface.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDecode reports a truncated or malformed source stream.
	ErrDecode = errors.New("decode error")
	// ErrUnsupportedFormat reports a surface depth other than 16 or 32 bits,
	// or a mix mode the depth cannot honor.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrDevice occurs when a surface cannot be queried or mapped.
	ErrDevice = errors.New("device error")
	// ErrAllocation reports a buffer size overflow.
	ErrAllocation = errors.New("allocation error")
)
