package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackPixel(t *testing.T) {
	p := make([]byte, 4)
	PackPixel(p, 0x12, 0x34, 0x56)
	assert.Equal(t, []byte{0x56, 0x34, 0x12, 0xff}, p)

	p = make([]byte, 2)
	PackPixel(p, 0x12, 0x34, 0x56)
	assert.Equal(t, []byte{0xaa, 0x11}, p)

	PackPixel(p, 0xff, 0xff, 0xff)
	assert.Equal(t, []byte{0xff, 0xff}, p)
}

func TestUnpackPixel(t *testing.T) {
	for _, c := range [][3]byte{{0, 0, 0}, {255, 255, 255}, {0x12, 0x34, 0x56}, {0xf0, 0x0f, 0x80}} {
		p := make([]byte, 4)
		PackPixel(p, c[0], c[1], c[2])
		r, g, b, a := UnpackPixel(p)
		assert.Equal(t, [4]byte{c[0], c[1], c[2], 0xff}, [4]byte{r, g, b, a})

		p = make([]byte, 2)
		PackPixel(p, c[0], c[1], c[2])
		r, g, b, a = UnpackPixel(p)
		assert.Equal(t, [4]byte{c[0] & 0xf8, c[1] & 0xfc, c[2] & 0xf8, 0xff}, [4]byte{r, g, b, a})
	}
}

// scanline returns an RGB row whose pixel i is (i, i+100, i+200).
func scanline(w int) []byte {
	row := make([]byte, w*3)
	for i := 0; i < w; i++ {
		row[i*3] = byte(i)
		row[i*3+1] = byte(i + 100)
		row[i*3+2] = byte(i + 200)
	}
	return row
}

func TestConvertScanlineSampling(t *testing.T) {
	plan := Plan{Scale: 2.5, PreRotWidth: 4, PreRotHeight: 1}
	c, err := NewConverter(rgb(10, 1), plan, 4)
	require.NoError(t, err)

	dst := make([]byte, 16)
	require.NoError(t, c.ConvertScanline(dst, scanline(10)))
	for i, col := range []int{0, 2, 5, 7} {
		assert.Equal(t, []byte{byte(col + 200), byte(col + 100), byte(col), 0xff}, dst[i*4:i*4+4], "column %d", i)
	}
}

func TestConvertScanlineOffset565(t *testing.T) {
	plan := Plan{Scale: 1, PreRotWidth: 3, PreRotHeight: 1, SampleColumnOffset: 4}
	c, err := NewConverter(rgb(10, 1), plan, 2)
	require.NoError(t, err)

	dst := make([]byte, 6)
	require.NoError(t, c.ConvertScanline(dst, scanline(10)))
	for i := 0; i < 3; i++ {
		want := make([]byte, 2)
		col := i + 4
		PackPixel(want, byte(col), byte(col+100), byte(col+200))
		assert.Equal(t, want, dst[i*2:i*2+2])
	}
}

func TestConverterWantDedup(t *testing.T) {
	plan := Plan{Scale: 2.5, PreRotWidth: 1, PreRotHeight: 4}
	c, err := NewConverter(rgb(10, 10), plan, 4)
	require.NoError(t, err)

	var picked, outs []int
	for r := 0; r < 12; r++ {
		if out, ok := c.Want(r); ok {
			picked = append(picked, r)
			outs = append(outs, out)
		}
	}
	assert.Equal(t, []int{0, 3, 5, 8}, picked)
	assert.Equal(t, []int{0, 1, 2, 3}, outs)
	assert.True(t, c.Done())
}

func TestConverterWantWindow(t *testing.T) {
	plan := Plan{Scale: 1, PreRotWidth: 1, PreRotHeight: 3, SampleRowStart: 2}
	c, err := NewConverter(rgb(1, 8), plan, 2)
	require.NoError(t, err)

	var picked []int
	for r := 0; r < 8; r++ {
		if _, ok := c.Want(r); ok {
			picked = append(picked, r)
		}
	}
	assert.Equal(t, []int{2, 3, 4}, picked)
}

func TestConverterErrors(t *testing.T) {
	plan := Plan{Scale: 1, PreRotWidth: 4, PreRotHeight: 1}
	_, err := NewConverter(rgb(10, 1), plan, 3)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	plan.SampleColumnOffset = 8
	_, err = NewConverter(rgb(10, 1), plan, 4)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	plan.SampleColumnOffset = 0
	c, err := NewConverter(rgb(10, 1), plan, 4)
	require.NoError(t, err)
	err = c.ConvertScanline(make([]byte, 16), make([]byte, 12))
	assert.ErrorIs(t, err, ErrDecode)
	err = c.ConvertScanline(make([]byte, 8), scanline(10))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
