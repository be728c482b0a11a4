package dmc

import (
	"errors"
	"os"
	"testing"

	"github.com/jo-hoe/diamonds-imager/internal/colorspace"
	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

const samplePalettePath = "../../testdata/palette_dmc_sample.json"

func mustLoadSample(t *testing.T) *Palette {
	t.Helper()
	p, err := Load(samplePalettePath)
	if err != nil {
		t.Fatalf("Load(%s): %v", samplePalettePath, err)
	}
	return p
}

func TestLoadSamplePalette(t *testing.T) {
	p := mustLoadSample(t)
	if len(p.entries) == 0 {
		t.Fatal("expected non-empty palette")
	}
}

func TestLoadRejectsMalformedHex(t *testing.T) {
	tmp := writeTempPalette(t, `[{"name":"Black","code":"310","color":"000000"}]`)
	if _, err := Load(tmp); !errors.Is(err, ErrHexMalformed) {
		t.Fatalf("expected ErrHexMalformed, got %v", err)
	}
}

func TestLoadRejectsMissingField(t *testing.T) {
	tmp := writeTempPalette(t, `[{"code":"310","color":"#000000"}]`)
	if _, err := Load(tmp); !errors.Is(err, ErrFieldMissing) {
		t.Fatalf("expected ErrFieldMissing, got %v", err)
	}
}

func TestLoadRejectsDuplicateName(t *testing.T) {
	tmp := writeTempPalette(t, `[
		{"name":"Black","code":"310","color":"#000000"},
		{"name":"Black","code":"311","color":"#111111"}
	]`)
	if _, err := Load(tmp); !errors.Is(err, ErrNotUnique) {
		t.Fatalf("expected ErrNotUnique, got %v", err)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	tmp := writeTempPalette(t, `not json`)
	if _, err := Load(tmp); !errors.Is(err, ErrJSONMalformed) {
		t.Fatalf("expected ErrJSONMalformed, got %v", err)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.json"); !errors.Is(err, ErrIoFailed) {
		t.Fatalf("expected ErrIoFailed, got %v", err)
	}
}

func TestNearestExactMatch(t *testing.T) {
	p := mustLoadSample(t)
	for _, e := range p.entries {
		got := p.Nearest(e.Color)
		if got.Color != e.Color {
			t.Errorf("Nearest(%v) = %v, want exact match", e.Color, got.Color)
		}
	}
}

func TestBomOfSumsToPixelCount(t *testing.T) {
	p := mustLoadSample(t)
	img := gradientImage(10, 7)
	bom, _ := p.BomOf(img)
	sum := 0
	for _, count := range bom {
		sum += count
	}
	if want := 10 * 7; sum != want {
		t.Errorf("bom sum = %d, want %d", sum, want)
	}
}

func TestBomOfUnmappedCountOnExactPaletteImage(t *testing.T) {
	p := mustLoadSample(t)
	img := rgbimage.New(len(p.entries), 1)
	for i, e := range p.entries {
		img.Set(i, 0, e.Color)
	}
	_, unmapped := p.BomOf(img)
	if unmapped != 0 {
		t.Errorf("unmapped = %d, want 0 for an already-exact-palette image", unmapped)
	}
}

func TestTopKByFrequencyZeroIsEmpty(t *testing.T) {
	p := mustLoadSample(t)
	img := gradientImage(10, 7)
	zero := 0
	bom := p.TopKByFrequency(img, &zero)
	if len(bom) != 0 {
		t.Errorf("TopKByFrequency(img, 0) has %d entries, want 0", len(bom))
	}
}

func TestTopKByFrequencyAtLeastPaletteSizeIsFull(t *testing.T) {
	p := mustLoadSample(t)
	img := gradientImage(10, 7)
	full, _ := p.BomOf(img)
	k := len(p.entries) + 5
	bom := p.TopKByFrequency(img, &k)
	if len(bom) != len(full) {
		t.Errorf("TopKByFrequency(img, %d) has %d entries, want %d", k, len(bom), len(full))
	}
}

func TestTopKByFrequencyDeterministicAcrossCalls(t *testing.T) {
	p := mustLoadSample(t)
	img := gradientImage(10, 7)
	k := 2
	first := p.TopKByFrequency(img, &k)
	second := p.TopKByFrequency(img, &k)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic result size: %d vs %d", len(first), len(second))
	}
	for e := range first {
		if _, ok := second[e]; !ok {
			t.Errorf("entry %v present in one run but not the other", e)
		}
	}
}

func TestDowngradeToColorSetMatchesPaletteSize(t *testing.T) {
	p := mustLoadSample(t)
	set := p.DowngradeToColorSet()
	if len(set) != len(p.entries) {
		t.Errorf("color set has %d entries, want %d", len(set), len(p.entries))
	}
	for _, e := range p.entries {
		if _, ok := set[e.Color]; !ok {
			t.Errorf("color set missing %v", e.Color)
		}
	}
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

func writeTempPalette(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/palette.json"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writeTempPalette: %v", err)
	}
	return path
}
