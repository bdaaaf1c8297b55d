package display

import "image/color"

// Simulation glyph cell, approximating the panel's 10x20 monospace font.
const (
	simGlyphWidth  = 10
	simGlyphHeight = 20
)

const (
	DefaultSimWidth  = 50
	DefaultSimHeight = 15
)

// Sim renders into a bordered character grid instead of hardware.
// Pixel coordinates are mapped to character cells by integer division, so
// rendering code does not know which variant it is talking to.
//
// Sim is not internally synchronized; the owning state store serializes
// access to it.
type Sim struct {
	width  int // columns, including border
	height int // rows, including border
	grid   [][]rune
}

func NewSim(width, height int) *Sim {
	if width < 3 {
		width = DefaultSimWidth
	}
	if height < 3 {
		height = DefaultSimHeight
	}
	self := &Sim{width: width, height: height}
	self.reset()
	return self
}

func (self *Sim) Clear() error {
	self.reset()
	return nil
}

func (self *Sim) DrawText(text string, x, y int, _ color.RGBA) error {
	col := x/simGlyphWidth + 1 // +1 skips the left border
	row := y / simGlyphHeight
	if row < 1 || row > self.height-2 {
		// outside the interior, silently dropped
		return nil
	}
	for _, r := range text {
		if col >= self.width-1 {
			// truncate at the right border column
			break
		}
		if col >= 1 {
			self.grid[row][col] = r
		}
		col++
	}
	return nil
}

func (self *Sim) Text() (string, bool) {
	buf := make([]rune, 0, (self.width+1)*self.height)
	for _, line := range self.grid {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return string(buf), true
}

func (self *Sim) reset() {
	self.grid = make([][]rune, self.height)
	for y := 0; y < self.height; y++ {
		line := make([]rune, self.width)
		for x := 0; x < self.width; x++ {
			line[x] = ' '
		}
		switch y {
		case 0:
			fillBorderRow(line, '╔', '═', '╗')
		case self.height - 1:
			fillBorderRow(line, '╚', '═', '╝')
		default:
			line[0] = '║'
			line[self.width-1] = '║'
		}
		self.grid[y] = line
	}
}

func fillBorderRow(line []rune, left, mid, right rune) {
	for x := range line {
		line[x] = mid
	}
	line[0] = left
	line[len(line)-1] = right
}
