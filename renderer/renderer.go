package renderer

import (
	"image"

	"github.com/ByLCY/slidecap/style"
)

// Compositor burns a caption into a copy of an image.
// The returned image has the source's dimensions; the source is never modified.
type Compositor interface {
	Composite(src image.Image, text string, cfg style.Config) (*image.NRGBA, error)
}
