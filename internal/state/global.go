// Package state owns the shared aggregate every task and HTTP handler
// mutates: latest sensor reading, LED level, the display instance and the
// process start clock. Each field is guarded independently so a slow
// display flush never stalls a sensor write or an LED read; no operation
// holds more than one field lock at a time.
package state

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	atomic_clock "github.com/temoto/atomic_clock"

	"pimon/display"
	"pimon/hardware/led"
	"pimon/hardware/st7789"
	"pimon/internal/sensor"
	"pimon/log2"
)

const ContextKey = "run/state-global"

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Log          *log2.Log

	start *atomic_clock.Clock

	sensorMu   sync.Mutex
	sensorLast sensor.Reading
	sensorOk   bool

	ledMu  sync.Mutex
	ledOn  bool
	ledPin *led.Led // nil in simulation mode

	displayMu sync.Mutex
	display   display.Displayer // nil when init degraded
	panel     *st7789.Panel     // kept for Close

	source sensor.Sourcer
}

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}
	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
		start: atomic_clock.Now(),
	}
	ctx := context.WithValue(context.Background(), ContextKey, g)
	return ctx, g
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// Init wires sensors and hardware per config. LED line acquisition
// failure in hardware mode is fatal; display probing failure only
// degrades to "no display". If Init fails, consider Global broken.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	g.start.SetNowIfZero()

	if g.BuildVersion != "" {
		g.Log.Infof("build version=%s", g.BuildVersion)
	}

	switch cfg.Sensor.Source {
	case "", "synthetic":
		g.source = sensor.NewSynthetic()
	case "host":
		g.source = sensor.NewHost(cfg.Sensor.HostKey)
	default:
		return errors.NotValidf("config: sensor.source=%s", cfg.Sensor.Source)
	}

	switch cfg.Mode {
	case ModeSimulation:
		g.Log.Infof("running in simulation mode")
		g.display = display.NewSim(cfg.Sim.Width, cfg.Sim.Height)
		return nil

	case ModeHardware:
		return g.initHardware()

	default:
		return errors.NotValidf("config: mode=%s", cfg.Mode)
	}
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	if err := g.Init(ctx, cfg); err != nil {
		g.Fatal(err)
	}
}

func (g *Global) initHardware() error {
	cfg := g.Config

	pin, err := led.Open(cfg.Hardware.Led.Chip, cfg.Hardware.Led.Line)
	if err != nil {
		// required resource, abort startup
		return errors.Annotatef(err, "led chip=%s line=%d", cfg.Hardware.Led.Chip, cfg.Hardware.Led.Line)
	}
	g.ledPin = pin

	panel, err := st7789.Open(&cfg.Hardware.Display)
	if err != nil {
		g.Log.Errorf("display init failed, continuing without display: %v", err)
		return nil
	}
	g.panel = panel
	g.display = display.NewPanel(panel)
	g.Log.Infof("st7789 display initialized")
	return nil
}

// SetDisplay replaces the display instance. Intended for tests.
func (g *Global) SetDisplay(d display.Displayer) {
	g.displayMu.Lock()
	defer g.displayMu.Unlock()
	g.display = d
}

func (g *Global) SensorReading() (sensor.Reading, bool) {
	g.sensorMu.Lock()
	defer g.sensorMu.Unlock()
	return g.sensorLast, g.sensorOk
}

func (g *Global) SetSensorReading(r sensor.Reading) {
	g.sensorMu.Lock()
	defer g.sensorMu.Unlock()
	g.sensorLast = r
	g.sensorOk = true
}

func (g *Global) Sensor() sensor.Sourcer { return g.source }

func (g *Global) Led() bool {
	g.ledMu.Lock()
	defer g.ledMu.Unlock()
	return g.ledOn
}

// SetLed is the single mutation path for both the autonomous blink task
// and the API override: last writer wins, no reconciliation.
func (g *Global) SetLed(on bool) error {
	g.ledMu.Lock()
	defer g.ledMu.Unlock()
	if g.ledPin != nil {
		if err := g.ledPin.Set(on); err != nil {
			return errors.Trace(err)
		}
	}
	g.ledOn = on
	return nil
}

// WithDisplay runs f under the display lock; no-op without a display.
func (g *Global) WithDisplay(f func(display.Displayer) error) error {
	g.displayMu.Lock()
	defer g.displayMu.Unlock()
	if g.display == nil {
		return nil
	}
	return f(g.display)
}

// DisplayText snapshots the rendered frame where the variant supports it.
func (g *Global) DisplayText() (string, bool) {
	text, ok := "", false
	_ = g.WithDisplay(func(d display.Displayer) error {
		text, ok = d.Text()
		return nil
	})
	return text, ok
}

func (g *Global) HasDisplay() bool {
	g.displayMu.Lock()
	defer g.displayMu.Unlock()
	return g.display != nil
}

func (g *Global) Uptime() time.Duration {
	return atomic_clock.Since(g.start)
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			err = errors.Annotatef(err, msg, args[1:]...)
		}
		g.Log.Error(errors.ErrorStack(err))
	}
}

func (g *Global) Fatal(err error, args ...interface{}) {
	if err != nil {
		g.Error(err, args...)
		g.StopWait(5 * time.Second)
		g.Log.Fatal(err)
		os.Exit(1)
	}
}

func (g *Global) Stop() { g.Alive.Stop() }

func (g *Global) StopWait(timeout time.Duration) bool {
	g.Alive.Stop()
	select {
	case <-g.Alive.WaitChan():
		return true
	case <-time.After(timeout):
		return false
	}
}

func (g *Global) Close() {
	if g.panel != nil {
		g.panel.Close()
	}
	if g.ledPin != nil {
		g.ledPin.Close()
	}
}
