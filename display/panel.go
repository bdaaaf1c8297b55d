package display

import (
	"image/color"

	"github.com/juju/errors"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// Devicer is the pixel device behind the hardware variant: a buffered
// frame addressed by SetPixel, transferred by Display.
type Devicer interface {
	drivers.Displayer
	Fill(c color.RGBA)
}

// Panel draws text onto a pixel device with a monospace font.
// It has no text-serializable state: Text reports absence.
type Panel struct {
	dev  Devicer
	font tinyfont.Fonter
}

func NewPanel(dev Devicer) *Panel {
	return &Panel{
		dev:  dev,
		font: &freemono.Regular12pt7b,
	}
}

func (self *Panel) Clear() error {
	self.dev.Fill(Black)
	return errors.Annotate(self.dev.Display(), "panel clear")
}

func (self *Panel) DrawText(text string, x, y int, c color.RGBA) error {
	tinyfont.WriteLine(self.dev, self.font, int16(x), int16(y), text, c)
	return errors.Annotate(self.dev.Display(), "panel draw")
}

func (self *Panel) Text() (string, bool) { return "", false }
