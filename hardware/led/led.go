// Package led drives a single GPIO output line through the Linux
// character device interface.
package led

import (
	"sync"

	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
)

type Led struct {
	mu     sync.Mutex
	chip   gpio.Chiper
	lines  gpio.Lineser
	set    gpio.LineSetFunc
	lastOn bool
}

// Open acquires the line for output. The kernel rejects lines already
// claimed by another consumer, which is exactly the fatal-at-startup
// behavior wanted for a required resource.
func Open(chipName string, line uint32) (*Led, error) {
	self := &Led{}
	var err error
	self.chip, err = gpio.Open(chipName, "pimon-led")
	if err != nil {
		return nil, errors.Annotatef(err, "led chip=%s", chipName)
	}
	self.lines, err = self.chip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, "pimon-led", line)
	if err != nil {
		_ = self.chip.Close()
		return nil, errors.Annotatef(err, "led chip=%s line=%d", chipName, line)
	}
	self.set = self.lines.SetFunc(line)
	return self, nil
}

func (self *Led) Set(on bool) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	var b byte
	if on {
		b = 1
	}
	self.set(b)
	if err := self.lines.Flush(); err != nil {
		return errors.Annotatef(err, "led set=%t", on)
	}
	self.lastOn = on
	return nil
}

// Get returns the last successfully written level.
func (self *Led) Get() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.lastOn
}

func (self *Led) Close() {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.lines != nil {
		_ = self.lines.Close()
	}
	if self.chip != nil {
		_ = self.chip.Close()
	}
}
