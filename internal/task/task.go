// Package task runs the three periodic jobs: sensor sampling, LED blink
// and display refresh. Each job owns its own ticker and talks to the rest
// of the system only through the shared state store; a failed cycle is
// logged and absorbed, never terminates the loop.
package task

import (
	"time"

	"pimon/display"
	"pimon/internal/sensor"
	"pimon/internal/state"
	"pimon/internal/ui"
)

// Start launches all periodic jobs on the Global's lifecycle. They stop
// when the Alive stops; there is no other cancellation.
func Start(g *state.Global) {
	go run(g, g.Config.SensorPeriod(), func() { SampleSensor(g) })
	go run(g, g.Config.LedPeriod(), ledToggler(g))
	go run(g, g.Config.DisplayPeriod(), func() { RefreshDisplay(g) })
}

func run(g *state.Global, period time.Duration, tick func()) {
	if !g.Alive.Add(1) {
		return
	}
	defer g.Alive.Done()

	tmr := time.NewTicker(period)
	defer tmr.Stop()
	stopch := g.Alive.StopChan()
	for {
		select {
		case <-tmr.C:
			tick()
		case <-stopch:
			return
		}
	}
}

// SampleSensor performs one sampling cycle: read, store, log. A read
// error skips the cycle; the previous reading stays current.
func SampleSensor(g *state.Global) {
	temperature, humidity, err := g.Sensor().Read()
	if err != nil {
		g.Log.Errorf("sensor read: %v", err)
		return
	}
	r := sensor.NewReading(temperature, humidity)
	g.SetSensorReading(r)
	g.Log.Infof("Sensor reading: %.1f°C, %.1f%% humidity", r.Temperature, r.Humidity)
	if r.Hot() {
		g.Log.Warningf("High temperature detected: %.1f°C", r.Temperature)
	}
}

// ledToggler returns the blink tick. The blink phase is task-local state:
// the store only ever sees the latest written level, and an API override
// is simply overwritten on the next tick (last write wins).
func ledToggler(g *state.Global) func() {
	on := false
	return func() {
		if err := g.SetLed(on); err != nil {
			g.Log.Errorf("led toggle: %v", err)
			// skip cycle, do not advance phase
			return
		}
		on = !on
	}
}

// RefreshDisplay renders one frame from a snapshot of the other fields.
// The snapshot is taken before the display lock so no two field locks are
// ever held together.
func RefreshDisplay(g *state.Global) {
	snap := ui.Snapshot{
		LedOn:  g.Led(),
		Uptime: g.Uptime(),
	}
	snap.Reading, snap.HasReading = g.SensorReading()

	err := g.WithDisplay(func(d display.Displayer) error {
		return ui.Render(d, snap)
	})
	if err != nil {
		g.Log.Errorf("Failed to update display: %v", err)
		return
	}
	if text, ok := g.DisplayText(); ok {
		g.Log.Debugf("display content:\n%s", text)
	}
}
