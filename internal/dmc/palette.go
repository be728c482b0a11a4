// Package dmc implements the reference DMC thread-color palette: loading it
// from its JSON document, nearest-color lookup, and bill-of-materials
// aggregation against a decoded image.
package dmc

import (
	"fmt"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/jo-hoe/diamonds-imager/internal/colorspace"
	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// paletteEntryDoc is one element of the on-disk shape, a bare JSON array of
// entries.
type paletteEntryDoc struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
}

// Palette is a non-empty, immutable set of DMC entries, unique across name,
// code and color. Safe for concurrent reads by many goroutines.
type Palette struct {
	entries []Entry
}

// Load reads and validates a palette document from path.
func Load(path string) (*Palette, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIoFailed, path, err)
	}

	var docs []paletteEntryDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrJSONMalformed, path, err)
	}

	entries := make([]Entry, 0, len(docs))
	names := make(map[string]struct{}, len(docs))
	codes := make(map[string]struct{}, len(docs))
	colors := make(map[colorspace.Color]struct{}, len(docs))

	for i, d := range docs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: entry %d missing \"name\"", ErrFieldMissing, i)
		}
		if d.Code == "" {
			return nil, fmt.Errorf("%w: entry %d missing \"code\"", ErrFieldMissing, i)
		}
		if d.Color == "" {
			return nil, fmt.Errorf("%w: entry %d missing \"color\"", ErrFieldMissing, i)
		}
		c, err := colorspace.ParseHex(d.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrHexMalformed, i, err)
		}
		if _, dup := names[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrNotUnique, d.Name)
		}
		if _, dup := codes[d.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", ErrNotUnique, d.Code)
		}
		if _, dup := colors[c]; dup {
			return nil, fmt.Errorf("%w: duplicate color %q", ErrNotUnique, c.Hex())
		}
		names[d.Name] = struct{}{}
		codes[d.Code] = struct{}{}
		colors[c] = struct{}{}
		entries = append(entries, Entry{Name: d.Name, Code: d.Code, Color: c})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s: palette is empty", ErrFieldMissing, path)
	}

	return &Palette{entries: entries}, nil
}

// Entries returns a read-only snapshot of the palette's entries, in load
// order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Nearest returns the entry minimizing squared Euclidean distance in sRGB
// channel space. Ties are broken by first-encountered load order.
func (p *Palette) Nearest(c colorspace.Color) *Entry {
	best := &p.entries[0]
	bestDist := best.Color.SquaredDistance(c)
	for i := 1; i < len(p.entries); i++ {
		e := &p.entries[i]
		d := e.Color.SquaredDistance(c)
		if d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// NearestFloat is the float-space analogue of Nearest, used by the
// dithering kernel.
func (p *Palette) NearestFloat(c colorspace.FloatColor) *Entry {
	best := &p.entries[0]
	bestDist := best.Color.ToFloat().SquaredDistance(c)
	for i := 1; i < len(p.entries); i++ {
		e := &p.entries[i]
		d := e.Color.ToFloat().SquaredDistance(c)
		if d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// BOM maps a DMC entry to the number of pixels assigned to it.
type BOM map[Entry]int

// DowngradeToColorSet returns the palette's colors as a plain set, for O(1)
// exact-membership checks without a palette-wide nearest-neighbor search.
func (p *Palette) DowngradeToColorSet() map[colorspace.Color]struct{} {
	out := make(map[colorspace.Color]struct{}, len(p.entries))
	for _, e := range p.entries {
		out[e.Color] = struct{}{}
	}
	return out
}

// BomOf quantizes every pixel of img to its nearest palette entry and
// returns the resulting BOM along with the count of pixels whose original
// color was not already an exact palette color.
func (p *Palette) BomOf(img *rgbimage.Image) (BOM, int) {
	bom := make(BOM)
	unmapped := 0
	exact := p.DowngradeToColorSet()
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			if _, ok := exact[c]; !ok {
				unmapped++
			}
			entry := p.Nearest(c)
			bom[*entry]++
		}
	}
	return bom, unmapped
}

// bomEntry pairs an Entry with its BOM count, for sorting.
type bomEntry struct {
	Entry Entry
	Count int
}

// TopKByFrequency computes BomOf(img), then, if k is non-nil, sorts
// descending by count and truncates to the top k. Ties are broken by
// (Code, Name) lexicographic order, since Go's map iteration order is not
// stable across runs.
func (p *Palette) TopKByFrequency(img *rgbimage.Image, k *int) BOM {
	bom, _ := p.BomOf(img)
	if k == nil {
		return bom
	}

	sorted := make([]bomEntry, 0, len(bom))
	for e, count := range bom {
		sorted = append(sorted, bomEntry{Entry: e, Count: count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		if sorted[i].Entry.Code != sorted[j].Entry.Code {
			return sorted[i].Entry.Code < sorted[j].Entry.Code
		}
		return sorted[i].Entry.Name < sorted[j].Entry.Name
	})

	limit := *k
	if limit > len(sorted) {
		limit = len(sorted)
	}
	out := make(BOM, limit)
	for _, be := range sorted[:limit] {
		out[be.Entry] = be.Count
	}
	return out
}
