// Package processing implements the bounded-queue work-dispatch subsystem:
// workers that run CPU-bound dmc/dither operations on their own goroutine,
// and a dispatcher that assigns work to them round-robin and collects
// results into a pollable table.
package processing

import (
	"github.com/jo-hoe/diamonds-imager/internal/dither"
	"github.com/jo-hoe/diamonds-imager/internal/dmc"
	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

// WorkId is a monotonically increasing identifier, unique for the lifetime
// of a single Dispatcher.
type WorkId uint64

// WorkKind discriminates the Work union.
type WorkKind int

const (
	// KindPaletteExtract asks a worker to compute a BOM against Palette,
	// capped to MaxColors most frequent entries when non-nil.
	KindPaletteExtract WorkKind = iota
	// KindImageDither asks a worker to produce a dithered rendering plus
	// its BOM.
	KindImageDither
)

// Work is the tagged union of work bodies a Worker can execute. Palette and
// Image are used by every Kind; MaxColors is read only for
// KindPaletteExtract.
type Work struct {
	Kind      WorkKind
	Palette   *dmc.Palette
	Image     *rgbimage.Image
	MaxColors *int // PaletteExtract only
}

// WorkResult mirrors Work: Bom is set for every Kind; OutputImage is set
// only for KindImageDither.
type WorkResult struct {
	Kind        WorkKind
	Bom         dmc.BOM
	OutputImage *rgbimage.Image // ImageDither only
}

// run executes the work body on the calling goroutine. dmc/dither
// operations are total given a non-empty palette and a decoded image; any
// panic here is a programming bug and is left to propagate.
func run(w Work) WorkResult {
	switch w.Kind {
	case KindPaletteExtract:
		bom := w.Palette.TopKByFrequency(w.Image, w.MaxColors)
		return WorkResult{Kind: KindPaletteExtract, Bom: bom}
	case KindImageDither:
		out := dither.FloydSteinberg(w.Image, w.Palette)
		bom, _ := w.Palette.BomOf(out)
		return WorkResult{Kind: KindImageDither, OutputImage: out, Bom: bom}
	default:
		panic("processing: unknown work kind")
	}
}
