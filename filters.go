package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"

	"github.com/mutschler/fbv/render"
)

func clamp(v float64) uint8 {
	return uint8(math.Min(math.Max(v, 0.0), 255.0) + 0.5)
}

func sigmoid(a, b, x float64) float64 {
	return 1 / (1 + math.Exp(b*(a-x)))
}

// sigmoid function to simulate image cross processing, best results with midpoint: 0.5 and factor 10
func CrossProcessing(img image.Image, midpoint, factor float64) *image.NRGBA {
	red := make([]uint8, 256)
	blue := make([]uint8, 256)
	a := math.Min(math.Max(midpoint, 0.0), 1.0)
	b := math.Abs(factor)
	sig0 := sigmoid(a, b, 0)
	sig1 := sigmoid(a, b, 1)
	e := 1.0e-6

	for i := 0; i < 256; i++ {
		x := float64(i) / 255.0
		sigX := sigmoid(a, b, x)
		f := (sigX - sig0) / (sig1 - sig0)
		red[i] = clamp(f * 255.0)
	}
	// green follows the same curve as red
	green := red

	for i := 0; i < 256; i++ {
		x := float64(i) / 255.0
		arg := math.Min(math.Max((sig1-sig0)*x+sig0, e), 1.0-e)
		f := a - math.Log(1.0/arg-1.0)/b
		blue[i] = clamp(f * 255.0)
	}

	fn := func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{red[c.R], green[c.G], blue[c.B], c.A}
	}

	return imaging.AdjustFunc(img, fn)
}

// runs a gift filter chain over img
func applyGift(img image.Image, filters ...gift.Filter) image.Image {
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// returns the image filter for name, nil for "none"
func getFilter(name string) (func(image.Image) image.Image, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "greyscale", "grayscale":
		return func(img image.Image) image.Image { return applyGift(img, gift.Grayscale()) }, nil
	case "invert":
		return func(img image.Image) image.Image { return applyGift(img, gift.Invert()) }, nil
	case "sepia":
		return func(img image.Image) image.Image { return applyGift(img, gift.Sepia(100)) }, nil
	case "cross":
		return func(img image.Image) image.Image { return CrossProcessing(img, 0.5, 10) }, nil
	}
	return nil, fmt.Errorf("unknown filter %q: %w", name, render.ErrInvalidParameter)
}
