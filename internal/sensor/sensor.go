// Package sensor produces environment readings. The agent treats the
// actual measurement as a collaborator behind Sourcer, so synthetic demo
// values and real host sensors plug in the same way.
package sensor

import "time"

// HighTempC is the warning threshold for temperature readings.
const HighTempC float32 = 30.0

// Reading is immutable once constructed, replaced wholesale on every
// sampling cycle.
type Reading struct {
	Temperature float32 `json:"temperature"`
	Humidity    float32 `json:"humidity"`
	Timestamp   uint64  `json:"timestamp"`
}

func NewReading(temperature, humidity float32) Reading {
	return Reading{
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   uint64(time.Now().Unix()),
	}
}

func (r Reading) Hot() bool { return r.Temperature > HighTempC }

// Sourcer yields one (temperature °C, humidity %RH) pair on demand.
type Sourcer interface {
	Read() (temperature, humidity float32, err error)
}
