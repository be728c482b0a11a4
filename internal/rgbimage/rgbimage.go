// Package rgbimage is the shared-ownership RGB pixel buffer passed between
// the image store, the dmc palette and the dithering kernel. It never holds
// alpha: anything translucent is composited over white on the way in.
package rgbimage

import (
	"image"
	"image/color"

	"github.com/jo-hoe/diamonds-imager/internal/colorspace"
)

// Image is a row-major RGB pixel buffer. Once published to a caller it is
// never mutated in place; callers that want an edited copy allocate a new
// Image rather than writing through a shared pointer.
type Image struct {
	Width  int
	Height int
	pix    []colorspace.Color // len == Width*Height
}

// New allocates a black Width x Height image.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		pix:    make([]colorspace.Color, width*height),
	}
}

func (img *Image) index(x, y int) int {
	return y*img.Width + x
}

// At returns the pixel at (x, y). x and y must be in bounds.
func (img *Image) At(x, y int) colorspace.Color {
	return img.pix[img.index(x, y)]
}

// Set writes the pixel at (x, y). x and y must be in bounds.
func (img *Image) Set(x, y int, c colorspace.Color) {
	img.pix[img.index(x, y)] = c
}

// FromImage converts a decoded stdlib image into an Image, compositing any
// alpha channel over a white background.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, colorspace.Color{
				R: compositeOverWhite(r, a),
				G: compositeOverWhite(g, a),
				B: compositeOverWhite(b, a),
			})
		}
	}
	return out
}

// compositeOverWhite composites a 16-bit premultiplied-alpha channel sample
// (as returned by color.Color.RGBA) over a white background and returns the
// resulting 8-bit channel value.
func compositeOverWhite(channel, alpha uint32) uint8 {
	if alpha == 0 {
		return 255
	}
	// RGBA() values are alpha-premultiplied and scaled to [0, 0xffff].
	// Un-premultiply, then blend with white using the straight alpha.
	straight := channel * 0xffff / alpha
	blended := (straight*alpha + 0xffff*(0xffff-alpha)) / 0xffff
	return uint8(blended >> 8)
}

// ToStdImage renders the buffer as a stdlib image.RGBA for encoding.
func (img *Image) ToStdImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return out
}
