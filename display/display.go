// Package display abstracts the status screen so the same rendering code
// drives either a physical TFT panel or an in-memory text simulation.
package display

import "image/color"

var (
	Black = color.RGBA{A: 0xff}
	White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Red   = color.RGBA{R: 0xff, A: 0xff}
	Green = color.RGBA{G: 0xff, A: 0xff}
)

// Displayer is the capability set shared by both variants.
// Clear resets to a blank screen. DrawText places text at pixel
// coordinates. Text returns the rendered frame as printable text where the
// variant supports it (simulation only).
type Displayer interface {
	Clear() error
	DrawText(text string, x, y int, c color.RGBA) error
	Text() (string, bool)
}
