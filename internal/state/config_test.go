package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pimon/log2"
)

func TestReadConfigFull(t *testing.T) {
	t.Parallel()

	const conf = `
mode = "hw"
listen = ":8080"
hardware {
  led {
    chip = "/dev/gpiochip0"
    line = 18
  }
  display {
    spi = "/dev/spidev0.0"
    spi_speed = "8MHz"
    pin_chip = "/dev/gpiochip0"
    pin_dc = 24
    pin_reset = 25
    width = 240
    height = 240
  }
}
sensor {
  source = "host"
  host_key = "cpu_thermal"
}
interval {
  sensor_ms = 500
  led_ms = 100
  display_ms = 200
}
`
	fs := NewMockFullReader(map[string]string{"pimon.hcl": conf})
	log := log2.NewTest(t, log2.LDebug)
	c, err := ReadConfig(log, fs, "pimon.hcl")
	require.NoError(t, err)

	assert.Equal(t, ModeHardware, c.Mode)
	assert.Equal(t, ":8080", c.Listen)
	assert.Equal(t, "/dev/gpiochip0", c.Hardware.Led.Chip)
	assert.Equal(t, uint32(18), c.Hardware.Led.Line)
	assert.Equal(t, "/dev/spidev0.0", c.Hardware.Display.SpiBus)
	assert.Equal(t, uint32(24), c.Hardware.Display.PinDC)
	assert.Equal(t, "host", c.Sensor.Source)
	assert.Equal(t, "cpu_thermal", c.Sensor.HostKey)
	assert.Equal(t, 500*time.Millisecond, c.SensorPeriod())
	assert.Equal(t, 100*time.Millisecond, c.LedPeriod())
	assert.Equal(t, 200*time.Millisecond, c.DisplayPeriod())
}

func TestReadConfigDefaults(t *testing.T) {
	t.Parallel()

	fs := NewMockFullReader(map[string]string{"empty.hcl": ""})
	log := log2.NewTest(t, log2.LDebug)
	c, err := ReadConfig(log, fs, "empty.hcl")
	require.NoError(t, err)

	assert.Equal(t, ModeSimulation, c.Mode)
	assert.Equal(t, DefaultListen, c.Listen)
	assert.Equal(t, "synthetic", c.Sensor.Source)
	assert.Equal(t, DefaultSensorPeriod, c.SensorPeriod())
	assert.Equal(t, DefaultLedPeriod, c.LedPeriod())
	assert.Equal(t, DefaultDisplayPeriod, c.DisplayPeriod())
}

func TestReadConfigErrors(t *testing.T) {
	t.Parallel()

	fs := NewMockFullReader(map[string]string{
		"bad-mode.hcl": `mode = "quantum"`,
		"broken.hcl":   `mode = `,
	})
	log := log2.NewTest(t, log2.LDebug)

	_, err := ReadConfig(log, fs, "missing.hcl")
	assert.Error(t, err)

	_, err = ReadConfig(log, fs, "bad-mode.hcl")
	assert.Error(t, err)

	_, err = ReadConfig(log, fs, "broken.hcl")
	assert.Error(t, err)
}
