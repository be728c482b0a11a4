package facade

import "errors"

var (
	// ErrFilenameMissing is returned by Upload when no filename was given.
	ErrFilenameMissing = errors.New("facade: filename is missing")
	// ErrImageEmpty is returned by Upload when the decoded image has zero
	// width or height.
	ErrImageEmpty = errors.New("facade: image is empty")
	// ErrImageTooWide is returned by Upload when the decoded image's width
	// exceeds the configured maximum.
	ErrImageTooWide = errors.New("facade: image is too wide")
	// ErrImageTooHigh is returned by Upload when the decoded image's
	// height exceeds the configured maximum.
	ErrImageTooHigh = errors.New("facade: image is too high")
)
