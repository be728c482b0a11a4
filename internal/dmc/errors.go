package dmc

import "errors"

// Sentinel errors describing why a palette file failed to load. Callers
// should match with errors.Is; the returned error also carries the
// offending field/value via fmt.Errorf wrapping for logs.
var (
	ErrIoFailed      = errors.New("dmc: failed to read palette file")
	ErrJSONMalformed = errors.New("dmc: palette file is not valid JSON")
	ErrFieldMissing  = errors.New("dmc: palette entry is missing a required field")
	ErrHexMalformed  = errors.New("dmc: palette entry has a malformed hex color")
	ErrNotUnique     = errors.New("dmc: palette entries are not unique")
)
