package display

import (
	"fmt"
	"image/color"
	"strings"
)

// Mock records the draw call sequence for tests. FailAfter>=0 makes the
// n-th operation (0-based, counting Clear and DrawText together) return
// FailErr, imitating hardware I/O trouble.
type Mock struct {
	Ops       []string
	FailAfter int
	FailErr   error
	calls     int
}

func NewMock() *Mock {
	return &Mock{FailAfter: -1}
}

func (self *Mock) Clear() error {
	if err := self.step(); err != nil {
		return err
	}
	self.Ops = append(self.Ops, "clear")
	return nil
}

func (self *Mock) DrawText(text string, x, y int, c color.RGBA) error {
	if err := self.step(); err != nil {
		return err
	}
	self.Ops = append(self.Ops, fmt.Sprintf("text(%d,%d):%s", x, y, text))
	return nil
}

func (self *Mock) Text() (string, bool) {
	return strings.Join(self.Ops, "\n"), true
}

func (self *Mock) step() error {
	defer func() { self.calls++ }()
	if self.FailAfter >= 0 && self.calls >= self.FailAfter {
		return self.FailErr
	}
	return nil
}
