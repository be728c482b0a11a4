package httpapi

import (
	"bytes"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// rasterizeSVG renders an SVG document onto an RGBA canvas whose long side
// is always fallbackLongSide pixels, keeping the viewBox's aspect ratio; the
// viewBox size itself is not used as the output size. A document without a
// usable viewBox size is rendered onto a fallbackLongSide square.
func rasterizeSVG(data []byte, fallbackLongSide int) (image.Image, error) {
	icon, err := oksvg.ReadIcon(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("httpapi: failed to parse svg: %w", err)
	}

	width := int(icon.ViewBox.W)
	height := int(icon.ViewBox.H)
	if width <= 0 || height <= 0 {
		width, height = fallbackLongSide, fallbackLongSide
	} else if width >= height {
		height = height * fallbackLongSide / width
		width = fallbackLongSide
	} else {
		width = width * fallbackLongSide / height
		height = fallbackLongSide
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, canvas, canvas.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return canvas, nil
}
