package httpapi

// Blank-imported so image.Decode recognizes these formats on upload,
// beyond the JPEG/PNG pair the end-to-end scenarios exercise.
import (
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)
