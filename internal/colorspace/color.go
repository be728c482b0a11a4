// Package colorspace holds the two color representations shared across the
// palette, image-store and dithering packages: 8-bit Color and the
// [0,1]-scaled FloatColor used inside the dithering kernel.
package colorspace

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrHexMalformed is returned by ParseHex for any input that isn't exactly
// "#RRGGBB" with valid hex digits.
var ErrHexMalformed = errors.New("colorspace: malformed hex color")

// Color is a 24-bit sRGB triple.
type Color struct {
	R, G, B uint8
}

// FloatColor is the [0,1]-scaled per-channel sRGB representation used by the
// dithering kernel.
type FloatColor struct {
	R, G, B float64
}

// ToFloat converts an 8-bit channel color into the [0,1] scale.
func (c Color) ToFloat() FloatColor {
	return FloatColor{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// clamp8 rounds and clamps a float channel back into [0,255].
func clamp8(v float64) uint8 {
	scaled := v*255.0 + 0.5
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

// ToColor converts a [0,1]-scaled float color back to 8-bit, clamping any
// out-of-range intermediate value accumulated during error diffusion.
func (c FloatColor) ToColor() Color {
	return Color{R: clamp8(c.R), G: clamp8(c.G), B: clamp8(c.B)}
}

// Sub returns the per-channel difference c - o.
func (c FloatColor) Sub(o FloatColor) FloatColor {
	return FloatColor{R: c.R - o.R, G: c.G - o.G, B: c.B - o.B}
}

// AddScaled returns c + o*weight, per channel.
func (c FloatColor) AddScaled(o FloatColor, weight float64) FloatColor {
	return FloatColor{
		R: c.R + o.R*weight,
		G: c.G + o.G*weight,
		B: c.B + o.B*weight,
	}
}

// SquaredDistance returns the squared Euclidean distance between two colors
// in independent sRGB channel space. Not perceptually uniform.
func (c Color) SquaredDistance(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// SquaredDistance is the float-space analogue of Color.SquaredDistance.
func (c FloatColor) SquaredDistance(o FloatColor) float64 {
	dr := c.R - o.R
	dg := c.G - o.G
	db := c.B - o.B
	return dr*dr + dg*dg + db*db
}

// ParseHex parses a case-insensitive "#RRGGBB" string.
func ParseHex(hex string) (Color, error) {
	if len(hex) != 7 {
		return Color{}, fmt.Errorf("%w: %q must be 7 characters", ErrHexMalformed, hex)
	}
	if hex[0] != '#' {
		return Color{}, fmt.Errorf("%w: %q does not start with '#'", ErrHexMalformed, hex)
	}
	for _, r := range hex[1:] {
		if !isHexDigit(byte(r)) {
			return Color{}, fmt.Errorf("%w: %q contains non-hex digit %q", ErrHexMalformed, hex, r)
		}
	}
	r, err := strconv.ParseUint(hex[1:3], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrHexMalformed, hex, err)
	}
	g, err := strconv.ParseUint(hex[3:5], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrHexMalformed, hex, err)
	}
	b, err := strconv.ParseUint(hex[5:7], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrHexMalformed, hex, err)
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

func isHexDigit(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'f':
		return true
	case b >= 'A' && b <= 'F':
		return true
	default:
		return false
	}
}

// Hex renders the color as an uppercase "#RRGGBB" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
