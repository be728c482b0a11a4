// Package dither implements the Floyd-Steinberg error-diffusion kernel that
// restricts an arbitrary RGB image to a fixed DMC palette.
package dither

import (
	"github.com/jo-hoe/diamonds-imager/internal/colorspace"
	"github.com/jo-hoe/diamonds-imager/internal/dmc"
	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

// Fixed, slightly attenuated error-diffusion weights (sum 8.2/18 < 1): they
// keep the diffused error bounded and prevent saturation drift.
const (
	weightTopRight    = 1.5 / 18.0
	weightBottomLeft  = 2.5 / 18.0
	weightBottomRight = 4.2 / 18.0
)

// FloydSteinberg converts src to floating-point sRGB, diffuses quantization
// error across fixed-weight 2x2 neighborhoods, then snaps every pixel to its
// nearest palette color. The returned image's every pixel is an exact
// palette color.
func FloydSteinberg(src *rgbimage.Image, palette *dmc.Palette) *rgbimage.Image {
	matrix := toFloatMatrix(src)

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			tl := matrix[y][x]
			quantized := palette.NearestFloat(tl).Color.ToFloat()
			quantError := tl.Sub(quantized)
			matrix[y][x] = quantized

			if x+1 < src.Width {
				matrix[y][x+1] = matrix[y][x+1].AddScaled(quantError, weightTopRight)
			}
			if y+1 < src.Height {
				matrix[y+1][x] = matrix[y+1][x].AddScaled(quantError, weightBottomLeft)
				if x+1 < src.Width {
					matrix[y+1][x+1] = matrix[y+1][x+1].AddScaled(quantError, weightBottomRight)
				}
			}
		}
	}

	out := rgbimage.New(src.Width, src.Height)
	colorSet := palette.DowngradeToColorSet()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			snapped := palette.NearestFloat(matrix[y][x]).Color
			if _, ok := colorSet[snapped]; !ok {
				panic("dither: snapped pixel is not an exact palette color")
			}
			out.Set(x, y, snapped)
		}
	}
	return out
}

func toFloatMatrix(src *rgbimage.Image) [][]colorspace.FloatColor {
	matrix := make([][]colorspace.FloatColor, src.Height)
	for y := 0; y < src.Height; y++ {
		row := make([]colorspace.FloatColor, src.Width)
		for x := 0; x < src.Width; x++ {
			row[x] = src.At(x, y).ToFloat()
		}
		matrix[y] = row
	}
	return matrix
}
