// Package facade is the thin, protocol-neutral surface the HTTP layer drives:
// it wires the image store, the DMC palette and the work dispatcher
// together and exposes upload/meta/delete/extract/dither operations.
package facade

import (
	"context"
	"time"

	"github.com/jo-hoe/diamonds-imager/internal/dmc"
	"github.com/jo-hoe/diamonds-imager/internal/imagestore"
	"github.com/jo-hoe/diamonds-imager/internal/processing"
	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

// Facade couples an image store, a reference palette and a work dispatcher.
type Facade struct {
	store      *imagestore.Store
	palette    *dmc.Palette
	dispatcher *processing.Dispatcher

	minWidth, minHeight int
	maxWidth, maxHeight int
}

// New builds a Facade. A zero maximum disables that dimension's check.
func New(store *imagestore.Store, palette *dmc.Palette, dispatcher *processing.Dispatcher, minWidth, minHeight, maxWidth, maxHeight int) *Facade {
	return &Facade{
		store:      store,
		palette:    palette,
		dispatcher: dispatcher,
		minWidth:   minWidth,
		minHeight:  minHeight,
		maxWidth:   maxWidth,
		maxHeight:  maxHeight,
	}
}

// Upload validates img's dimensions and inserts it into the image store
// under filename.
func (f *Facade) Upload(filename string, img *rgbimage.Image) (imagestore.ImageId, error) {
	if filename == "" {
		return "", ErrFilenameMissing
	}
	if img.Width == 0 || img.Height == 0 {
		return "", ErrImageEmpty
	}
	if f.maxWidth > 0 && img.Width > f.maxWidth {
		return "", ErrImageTooWide
	}
	if f.maxHeight > 0 && img.Height > f.maxHeight {
		return "", ErrImageTooHigh
	}
	if f.minWidth > 0 && img.Width < f.minWidth {
		return "", ErrImageTooWide
	}
	if f.minHeight > 0 && img.Height < f.minHeight {
		return "", ErrImageTooHigh
	}

	return f.store.Insert(filename, img)
}

// GetMeta returns id's metadata.
func (f *Facade) GetMeta(id imagestore.ImageId) (imagestore.Meta, error) {
	return f.store.GetMeta(id)
}

// Delete removes id from the image store.
func (f *Facade) Delete(id imagestore.ImageId) error {
	return f.store.Remove(id)
}

// FullPalette returns the reference palette's entries.
func (f *Facade) FullPalette() []dmc.Entry {
	return f.palette.Entries()
}

// StartExtract enqueues a palette-extraction work item for id, optionally
// capped to maxColors most-frequent entries.
func (f *Facade) StartExtract(ctx context.Context, id imagestore.ImageId, maxColors *int) (processing.WorkId, error) {
	img, _, err := f.store.Get(id)
	if err != nil {
		return 0, err
	}
	return f.dispatcher.Enqueue(ctx, processing.Work{
		Kind:      processing.KindPaletteExtract,
		Palette:   f.palette,
		Image:     img,
		MaxColors: maxColors,
	})
}

// PollExtract polls a palette-extraction result.
func (f *Facade) PollExtract(id processing.WorkId, timeout *time.Duration) (dmc.BOM, error) {
	result, err := f.dispatcher.GetResult(id, timeout)
	if err != nil {
		return nil, err
	}
	return result.Bom, nil
}

// DitherResult is the output of a completed dithering work item.
type DitherResult struct {
	Image *rgbimage.Image
	Bom   dmc.BOM
}

// StartDither enqueues a dithering work item for id.
func (f *Facade) StartDither(ctx context.Context, id imagestore.ImageId) (processing.WorkId, error) {
	img, _, err := f.store.Get(id)
	if err != nil {
		return 0, err
	}
	return f.dispatcher.Enqueue(ctx, processing.Work{
		Kind:    processing.KindImageDither,
		Palette: f.palette,
		Image:   img,
	})
}

// PollDither polls a dithering result.
func (f *Facade) PollDither(id processing.WorkId, timeout *time.Duration) (DitherResult, error) {
	result, err := f.dispatcher.GetResult(id, timeout)
	if err != nil {
		return DitherResult{}, err
	}
	return DitherResult{Image: result.OutputImage, Bom: result.Bom}, nil
}
