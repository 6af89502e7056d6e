package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutschler/fbv/render"
)

func TestGetFilter(t *testing.T) {
	src := imaging.New(3, 2, color.NRGBA{200, 100, 50, 255})

	f, err := getFilter("none")
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = getFilter("Greyscale")
	require.NoError(t, err)
	c := imaging.Clone(f(src)).NRGBAAt(1, 1)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)

	f, err = getFilter("invert")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{55, 155, 205, 255}, imaging.Clone(f(src)).NRGBAAt(0, 0))

	for _, name := range []string{"sepia", "cross"} {
		f, err = getFilter(name)
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 3, 2), f(src).Bounds(), name)
	}

	_, err = getFilter("blur")
	assert.ErrorIs(t, err, render.ErrInvalidParameter)
}

func TestCrossProcessing(t *testing.T) {
	src := imaging.New(1, 1, color.NRGBA{0, 255, 128, 77})
	c := CrossProcessing(src, 0.5, 10).NRGBAAt(0, 0)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(255), c.G)
	assert.Equal(t, uint8(77), c.A)
}
