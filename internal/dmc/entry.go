package dmc

import "github.com/jo-hoe/diamonds-imager/internal/colorspace"

// Entry is a single DMC thread color: its name, its catalog code, and the
// sRGB color it's printed as. Equality combines all three fields.
type Entry struct {
	Name  string
	Code  string
	Color colorspace.Color
}
