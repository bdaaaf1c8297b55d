package state

import (
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"

	"pimon/hardware/st7789"
	"pimon/helpers"
	"pimon/log2"
)

const (
	ModeHardware   = "hw"
	ModeSimulation = "sim"
)

const (
	DefaultListen         = ":3030"
	DefaultSensorPeriod   = 5 * time.Second
	DefaultLedPeriod      = 1 * time.Second
	DefaultDisplayPeriod  = 2 * time.Second
)

type Config struct {
	// Mode selects hardware or simulation at runtime; one binary serves
	// both, no build tags.
	Mode   string `hcl:"mode"`
	Listen string `hcl:"listen"`

	Hardware struct {
		Led struct {
			Chip string `hcl:"chip"`
			Line uint32 `hcl:"line"`
		} `hcl:"led"`
		Display st7789.Config `hcl:"display"`
	} `hcl:"hardware"`

	Sim struct {
		Width  int `hcl:"width"`
		Height int `hcl:"height"`
	} `hcl:"sim"`

	Sensor struct {
		Source  string `hcl:"source"` // synthetic|host
		HostKey string `hcl:"host_key"`
	} `hcl:"sensor"`

	Interval struct {
		SensorMs  int `hcl:"sensor_ms"`
		LedMs     int `hcl:"led_ms"`
		DisplayMs int `hcl:"display_ms"`
	} `hcl:"interval"`
}

func (c *Config) SensorPeriod() time.Duration {
	return helpers.IntMillisecondDefault(c.Interval.SensorMs, DefaultSensorPeriod)
}
func (c *Config) LedPeriod() time.Duration {
	return helpers.IntMillisecondDefault(c.Interval.LedMs, DefaultLedPeriod)
}
func (c *Config) DisplayPeriod() time.Duration {
	return helpers.IntMillisecondDefault(c.Interval.DisplayMs, DefaultDisplayPeriod)
}

func (c *Config) normalize() error {
	if c.Mode == "" {
		c.Mode = ModeSimulation
	}
	if c.Mode != ModeHardware && c.Mode != ModeSimulation {
		return errors.NotValidf("config: mode=%s (want %s or %s)", c.Mode, ModeHardware, ModeSimulation)
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Sensor.Source == "" {
		c.Sensor.Source = "synthetic"
	}
	return nil
}

func ReadConfig(log *log2.Log, fs FullReader, name string) (*Config, error) {
	norm := fs.Normalize(name)
	log.Debugf("config reading source='%s' path=%s", name, norm)

	bs, err := fs.ReadAll(norm)
	if err != nil {
		return nil, errors.Annotatef(err, "config source=%s", name)
	}
	if bs == nil {
		return nil, errors.NotFoundf("config source=%s path=%s", name, norm)
	}

	c := &Config{}
	if err = hcl.Unmarshal(bs, c); err != nil {
		return nil, errors.Annotatef(err, "config unmarshal source=%s", name)
	}
	if err = c.normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func MustReadConfig(log *log2.Log, fs FullReader, name string) *Config {
	c, err := ReadConfig(log, fs, name)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}

func NewOsFullReader(basePath string) *OsFullReader {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		panic(errors.Annotatef(err, "filepath.Abs() path=%s", basePath))
	}
	return &OsFullReader{base: abs}
}
