// Package st7789 is a minimal driver for the Sitronix ST7789 TFT panel
// over SPI, enough to push full RGB565 frames. Pixels are buffered in
// memory; Display() transfers the frame.
package st7789

import (
	"encoding/binary"
	"image/color"
	"time"

	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVON   = 0x21
	cmdDISPON  = 0x29
	cmdCASET   = 0x2a
	cmdRASET   = 0x2b
	cmdRAMWR   = 0x2c
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3a
)

// SPI transfers are chunked to stay under the spidev bufsiz default.
const maxTransfer = 4096

var DefaultSpeed physic.Frequency = 8 * physic.MegaHertz

type Config struct {
	SpiBus   string `hcl:"spi"`
	SpiSpeed string `hcl:"spi_speed"`
	PinChip  string `hcl:"pin_chip"`
	PinDC    uint32 `hcl:"pin_dc"`
	PinReset uint32 `hcl:"pin_reset"`
	Width    int    `hcl:"width"`
	Height   int    `hcl:"height"`
}

type Panel struct {
	spiPort  spi.PortCloser
	spiConn  spi.Conn
	gpioChip gpio.Chiper
	pins     gpio.Lineser
	pinDC    gpio.LineSetFunc
	pinReset gpio.LineSetFunc

	width  int16
	height int16
	fb     []uint16
}

func Open(c *Config) (*Panel, error) {
	if c.Width == 0 {
		c.Width = 240
	}
	if c.Height == 0 {
		c.Height = 240
	}
	self := &Panel{
		width:  int16(c.Width),
		height: int16(c.Height),
		fb:     make([]uint16, c.Width*c.Height),
	}

	if _, err := host.Init(); err != nil {
		return nil, errors.Annotate(err, "periph/init")
	}
	var err error
	self.spiPort, err = spireg.Open(c.SpiBus)
	if err != nil {
		return nil, errors.Annotatef(err, "st7789 SPI open bus=%s", c.SpiBus)
	}
	speed := DefaultSpeed
	if c.SpiSpeed != "" {
		if err = speed.Set(c.SpiSpeed); err != nil {
			self.close()
			return nil, errors.Annotate(err, "st7789 SPI speed parse")
		}
	}
	self.spiConn, err = self.spiPort.Connect(speed, spi.Mode0, 8)
	if err != nil {
		self.close()
		return nil, errors.Annotatef(err, "st7789 SPI connect bus=%s", c.SpiBus)
	}

	self.gpioChip, err = gpio.Open(c.PinChip, "pimon-st7789")
	if err != nil {
		self.close()
		return nil, errors.Annotatef(err, "st7789 pin chip=%s", c.PinChip)
	}
	self.pins, err = self.gpioChip.OpenLines(gpio.GPIOHANDLE_REQUEST_OUTPUT, "pimon-st7789", c.PinDC, c.PinReset)
	if err != nil {
		self.close()
		return nil, errors.Annotatef(err, "st7789 pins dc=%d reset=%d", c.PinDC, c.PinReset)
	}
	self.pinDC = self.pins.SetFunc(c.PinDC)
	self.pinReset = self.pins.SetFunc(c.PinReset)

	if err = self.init(); err != nil {
		self.close()
		return nil, errors.Annotate(err, "st7789 panel init")
	}
	return self, nil
}

func (self *Panel) Size() (x, y int16) { return self.width, self.height }

func (self *Panel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= self.width || y >= self.height {
		return
	}
	self.fb[int(y)*int(self.width)+int(x)] = encode565(c)
}

func (self *Panel) Fill(c color.RGBA) {
	w := encode565(c)
	for i := range self.fb {
		self.fb[i] = w
	}
}

// Display pushes the whole frame. Partial updates are not worth the
// bookkeeping at this frame size and refresh rate.
func (self *Panel) Display() error {
	if err := self.window(0, 0, self.width-1, self.height-1); err != nil {
		return err
	}
	buf := make([]byte, len(self.fb)*2)
	for i, w := range self.fb {
		binary.BigEndian.PutUint16(buf[i*2:], w)
	}
	return self.data(buf)
}

func (self *Panel) Close() {
	self.close()
}

func (self *Panel) init() error {
	// hardware reset pulse, then wake + pixel format
	if err := self.reset(); err != nil {
		return err
	}
	steps := []struct {
		cmd   byte
		args  []byte
		sleep time.Duration
	}{
		{cmdSWRESET, nil, 150 * time.Millisecond},
		{cmdSLPOUT, nil, 10 * time.Millisecond},
		{cmdCOLMOD, []byte{0x55}, 10 * time.Millisecond}, // 16bit RGB565
		{cmdMADCTL, []byte{0x00}, 0},
		{cmdINVON, nil, 0},
		{cmdNORON, nil, 10 * time.Millisecond},
		{cmdDISPON, nil, 10 * time.Millisecond},
	}
	for _, s := range steps {
		if err := self.command(s.cmd, s.args...); err != nil {
			return err
		}
		if s.sleep > 0 {
			time.Sleep(s.sleep)
		}
	}
	return nil
}

func (self *Panel) reset() error {
	self.pinReset(1)
	if err := self.pins.Flush(); err != nil {
		return err
	}
	time.Sleep(50 * time.Millisecond)
	self.pinReset(0)
	if err := self.pins.Flush(); err != nil {
		return err
	}
	time.Sleep(50 * time.Millisecond)
	self.pinReset(1)
	if err := self.pins.Flush(); err != nil {
		return err
	}
	time.Sleep(150 * time.Millisecond)
	return nil
}

func (self *Panel) window(x0, y0, x1, y1 int16) error {
	if err := self.command(cmdCASET,
		byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := self.command(cmdRASET,
		byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return self.command(cmdRAMWR)
}

func (self *Panel) command(cmd byte, args ...byte) error {
	self.pinDC(0)
	if err := self.pins.Flush(); err != nil {
		return err
	}
	if err := self.tx([]byte{cmd}); err != nil {
		return errors.Annotatef(err, "st7789 cmd=%02x", cmd)
	}
	if len(args) > 0 {
		return self.data(args)
	}
	return nil
}

func (self *Panel) data(b []byte) error {
	self.pinDC(1)
	if err := self.pins.Flush(); err != nil {
		return err
	}
	for len(b) > 0 {
		n := len(b)
		if n > maxTransfer {
			n = maxTransfer
		}
		if err := self.tx(b[:n]); err != nil {
			return errors.Annotate(err, "st7789 data")
		}
		b = b[n:]
	}
	return nil
}

func (self *Panel) tx(w []byte) error {
	return self.spiConn.Tx(w, nil)
}

func (self *Panel) close() {
	if self.pins != nil {
		_ = self.pins.Close()
	}
	if self.gpioChip != nil {
		_ = self.gpioChip.Close()
	}
	if self.spiPort != nil {
		_ = self.spiPort.Close()
	}
}

func encode565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}
