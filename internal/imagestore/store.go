// Package imagestore is the single-process in-memory mapping from opaque
// image identifier to a shared, immutable pixel buffer plus its metadata.
package imagestore

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jo-hoe/diamonds-imager/internal/rgbimage"
)

// ImageId is an opaque, store-generated identifier of the form
// "<stem>_<uuid-v4>.<ext>".
type ImageId string

// Meta is an image record's metadata, without its pixel buffer.
type Meta struct {
	ID            ImageId
	Filename      string
	Width         int
	Height        int
	UploadTime    time.Time
	LastTouchTime time.Time
}

// record is the store's internal entry. Buffer is shared (multiple
// concurrent readers) and never mutated after insert.
type record struct {
	meta   Meta
	buffer *rgbimage.Image
}

// Store is a single mutex-guarded map keyed by ImageId. It is exclusively
// mutated by its own methods; readers obtain a pointer to the same
// never-mutated buffer, which outlives a later Remove of its entry.
type Store struct {
	mu      sync.Mutex
	records map[ImageId]record
	now     func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		records: make(map[ImageId]record),
		now:     time.Now,
	}
}

// Insert splits filename into stem/extension, generates a fresh ImageId,
// and stores img under it. img is never mutated afterward.
func (s *Store) Insert(filename string, img *rgbimage.Image) (ImageId, error) {
	stem, ext, err := splitFilename(filename)
	if err != nil {
		return "", err
	}

	id := ImageId(stem + "_" + uuid.NewString() + ext)
	now := s.now()

	s.mu.Lock()
	s.records[id] = record{
		meta: Meta{
			ID:            id,
			Filename:      filename,
			Width:         img.Width,
			Height:        img.Height,
			UploadTime:    now,
			LastTouchTime: now,
		},
		buffer: img,
	}
	s.mu.Unlock()

	return id, nil
}

// Get returns the shared pixel buffer and metadata for id.
func (s *Store) Get(id ImageId) (*rgbimage.Image, Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, Meta{}, ErrImageNotFound
	}
	rec.meta.LastTouchTime = s.now()
	s.records[id] = rec
	return rec.buffer, rec.meta, nil
}

// GetMeta returns only id's metadata.
func (s *Store) GetMeta(id ImageId) (Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return Meta{}, ErrImageNotFound
	}
	return rec.meta, nil
}

// Remove deletes id from the store. It does not invalidate a buffer
// pointer an earlier Get call already returned.
func (s *Store) Remove(id ImageId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrImageNotFound
	}
	delete(s.records, id)
	return nil
}

// splitFilename splits filename into a non-empty stem and a non-empty
// extension (including its leading dot).
func splitFilename(filename string) (stem, ext string, err error) {
	ext = filepath.Ext(filename)
	if ext == "" {
		return "", "", ErrFilenameExtensionMissing
	}
	stem = strings.TrimSuffix(filename, ext)
	if stem == "" {
		return "", "", ErrFilenameStemMissing
	}
	return stem, ext, nil
}
