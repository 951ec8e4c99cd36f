package layout

// The canvas backend measures in millimetres and sizes fonts in points. Rendering at a
// resolution of 1 dot per millimetre makes one canvas unit one pixel, so pixel sizes
// only need the pt<->mm conversion.

// Conversion constants between pt and px (at 1 px per mm).
const (
	PtToPx = 25.4 / 72.0
	PxToPt = 72.0 / 25.4
)

// FontPointSize returns the point size that yields an em box of px pixels.
func FontPointSize(px int) float64 { return float64(px) * PxToPt }
