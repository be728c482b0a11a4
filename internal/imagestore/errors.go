package imagestore

import "errors"

var (
	// ErrFilenameStemMissing is returned by Insert when filename has no
	// stem component before its extension (e.g. ".png").
	ErrFilenameStemMissing = errors.New("imagestore: filename is missing a stem")
	// ErrFilenameExtensionMissing is returned by Insert when filename has
	// no extension.
	ErrFilenameExtensionMissing = errors.New("imagestore: filename is missing an extension")
	// ErrImageNotFound is returned by Get/GetMeta/Remove for an unknown or
	// already-removed ImageId.
	ErrImageNotFound = errors.New("imagestore: image not found")
)
