package sensor

import (
	"strings"

	"github.com/juju/errors"
	"github.com/shirou/gopsutil/v3/host"
)

// Host reads the SoC temperature through the kernel hwmon interface.
// Single-board computers rarely carry a humidity sensor, so humidity
// falls back to the synthetic generator.
type Host struct {
	// SensorKey selects a specific hwmon sensor; empty picks the first
	// cpu/soc-looking one, or failing that the first sensor reported.
	SensorKey string

	synth *Synthetic
}

func NewHost(sensorKey string) *Host {
	return &Host{SensorKey: sensorKey, synth: NewSynthetic()}
}

func (self *Host) Read() (float32, float32, error) {
	temps, err := host.SensorsTemperatures()
	if err != nil {
		return 0, 0, errors.Annotate(err, "host sensors")
	}
	if len(temps) == 0 {
		return 0, 0, errors.NotFoundf("host temperature sensors")
	}

	stat, found := temps[0], false
	for _, t := range temps {
		switch {
		case self.SensorKey != "":
			found = t.SensorKey == self.SensorKey
		default:
			k := strings.ToLower(t.SensorKey)
			found = strings.Contains(k, "cpu") || strings.Contains(k, "soc")
		}
		if found {
			stat = t
			break
		}
	}
	if self.SensorKey != "" && !found {
		return 0, 0, errors.NotFoundf("host temperature sensor key=%s", self.SensorKey)
	}

	_, humidity, _ := self.synth.Read()
	return float32(stat.Temperature), humidity, nil
}
