package facade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jo-hoe/diamonds-imager/internal/colorspace"
	"github.com/jo-hoe/diamonds-imager/internal/dmc"
	"github.com/jo-hoe/diamonds-imager/internal/imagestore"
	"github.com/jo-hoe/diamonds-imager/internal/processing"
	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

const samplePalettePath = "../../testdata/palette_dmc_sample.json"

func newTestFacade(t *testing.T, minW, minH, maxW, maxH int) (*Facade, *processing.Dispatcher) {
	t.Helper()
	palette, err := dmc.Load(samplePalettePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := imagestore.New()
	dispatcher := processing.NewDispatcher(1)
	t.Cleanup(dispatcher.Shutdown)
	return New(store, palette, dispatcher, minW, minH, maxW, maxH), dispatcher
}

func gradientImage(width, height int) *rgbimage.Image {
	img := rgbimage.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / max(width-1, 1))
			img.Set(x, y, colorspace.Color{R: v, G: v, B: v})
		}
	}
	return img
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestUploadHappyPath(t *testing.T) {
	f, _ := newTestFacade(t, 0, 0, 0, 0)
	img := gradientImage(300, 300)

	id, err := f.Upload("pinkflower.jpg", img)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	meta, err := f.GetMeta(id)
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if meta.Width != 300 || meta.Height != 300 {
		t.Errorf("meta dims = %dx%d, want 300x300", meta.Width, meta.Height)
	}
}

func TestUploadRejectsEmptyFilename(t *testing.T) {
	f, _ := newTestFacade(t, 0, 0, 0, 0)
	if _, err := f.Upload("", gradientImage(2, 2)); !errors.Is(err, ErrFilenameMissing) {
		t.Fatalf("expected ErrFilenameMissing, got %v", err)
	}
}

func TestUploadTooWideRejected(t *testing.T) {
	f, _ := newTestFacade(t, 0, 0, 100, 100)
	if _, err := f.Upload("wide.png", gradientImage(101, 50)); !errors.Is(err, ErrImageTooWide) {
		t.Fatalf("expected ErrImageTooWide, got %v", err)
	}
}

func TestUploadAtExactMaximumAccepted(t *testing.T) {
	f, _ := newTestFacade(t, 0, 0, 100, 100)
	if _, err := f.Upload("edge.png", gradientImage(100, 100)); err != nil {
		t.Fatalf("expected acceptance at exact maximum, got %v", err)
	}
}

func TestDeleteThenGetMetaIsNotFound(t *testing.T) {
	f, _ := newTestFacade(t, 0, 0, 0, 0)
	id, _ := f.Upload("flower.jpg", gradientImage(4, 4))

	if err := f.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.GetMeta(id); !errors.Is(err, imagestore.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
	if err := f.Delete(id); !errors.Is(err, imagestore.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound on second delete, got %v", err)
	}
}

func TestExtractPendingThenReady(t *testing.T) {
	f, _ := newTestFacade(t, 0, 0, 0, 0)
	id, _ := f.Upload("gradient.png", gradientImage(100, 20))

	maxColors := 5
	workID, err := f.StartExtract(context.Background(), id, &maxColors)
	if err != nil {
		t.Fatalf("StartExtract: %v", err)
	}

	tiny := 10 * time.Millisecond
	if _, err := f.PollExtract(workID, &tiny); !errors.Is(err, processing.ErrNotAvailable) {
		t.Logf("immediate poll returned %v (not necessarily an error on a fast machine)", err)
	}

	ample := 2 * time.Second
	bom, err := f.PollExtract(workID, &ample)
	if err != nil {
		t.Fatalf("PollExtract: %v", err)
	}
	if len(bom) == 0 || len(bom) > 5 {
		t.Errorf("bom has %d entries, want 1..=5", len(bom))
	}
	sum := 0
	for _, c := range bom {
		sum += c
	}
	if sum != 2000 {
		t.Errorf("bom sum = %d, want 2000", sum)
	}
}

func TestDitherStartThenPoll(t *testing.T) {
	f, _ := newTestFacade(t, 0, 0, 0, 0)
	id, _ := f.Upload("gradient.png", gradientImage(20, 20))

	workID, err := f.StartDither(context.Background(), id)
	if err != nil {
		t.Fatalf("StartDither: %v", err)
	}

	ample := 2 * time.Second
	result, err := f.PollDither(workID, &ample)
	if err != nil {
		t.Fatalf("PollDither: %v", err)
	}
	if result.Image.Width != 20 || result.Image.Height != 20 {
		t.Errorf("dithered image dims = %dx%d, want 20x20", result.Image.Width, result.Image.Height)
	}
}
