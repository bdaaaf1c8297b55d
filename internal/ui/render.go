// Package ui turns one state snapshot into draw calls against the display
// abstraction. Rendering is a pure sequence: the first failed draw aborts
// the frame and is reported to the caller, possibly leaving a partial
// frame on screen until the next refresh.
package ui

import (
	"fmt"
	"time"

	"github.com/juju/errors"

	"pimon/display"
	"pimon/internal/sensor"
)

type Snapshot struct {
	Reading    sensor.Reading
	HasReading bool
	LedOn      bool
	Uptime     time.Duration
}

// Render draws the status screen. Text, coordinates and the one-decimal
// number format are fixed: the simulation dump is part of the API surface
// and tests compare against it.
func Render(d display.Displayer, snap Snapshot) error {
	if err := d.Clear(); err != nil {
		return errors.Annotate(err, "render clear")
	}

	if err := d.DrawText("Hello World!", 10, 30, display.White); err != nil {
		return errors.Annotate(err, "render title")
	}
	if err := d.DrawText("Pi Zero Monitor", 10, 60, display.White); err != nil {
		return errors.Annotate(err, "render title")
	}

	if snap.HasReading {
		t := fmt.Sprintf("Temp: %.1fC", snap.Reading.Temperature)
		if err := d.DrawText(t, 10, 90, display.White); err != nil {
			return errors.Annotate(err, "render temperature")
		}
		h := fmt.Sprintf("Humidity: %.1f%%", snap.Reading.Humidity)
		if err := d.DrawText(h, 10, 120, display.White); err != nil {
			return errors.Annotate(err, "render humidity")
		}
		if snap.Reading.Hot() {
			if err := d.DrawText("HIGH TEMP!", 10, 150, display.Red); err != nil {
				return errors.Annotate(err, "render warning")
			}
		}
	} else {
		if err := d.DrawText("No sensor data", 10, 90, display.White); err != nil {
			return errors.Annotate(err, "render no-data")
		}
	}

	uptime := fmt.Sprintf("Uptime: %ds", int64(snap.Uptime.Seconds()))
	if err := d.DrawText(uptime, 10, 180, display.White); err != nil {
		return errors.Annotate(err, "render uptime")
	}

	ledColor := display.Red
	if snap.LedOn {
		ledColor = display.Green
	}
	if err := d.DrawText("LED", 10, 210, ledColor); err != nil {
		return errors.Annotate(err, "render led")
	}
	return nil
}
