package state

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pimon/display"
	"pimon/internal/sensor"
)

func TestSensorLatestWins(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")
	_, ok := g.SensorReading()
	assert.False(t, ok, "no reading before first sample")

	g.SetSensorReading(sensor.Reading{Temperature: 20, Humidity: 50, Timestamp: 1})
	g.SetSensorReading(sensor.Reading{Temperature: 25, Humidity: 55, Timestamp: 2})
	r, ok := g.SensorReading()
	require.True(t, ok)
	assert.Equal(t, float32(25), r.Temperature)
	assert.Equal(t, uint64(2), r.Timestamp)
}

func TestLedLastWriteWins(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")
	require.NoError(t, g.SetLed(true))
	assert.True(t, g.Led())
	require.NoError(t, g.SetLed(false))
	assert.False(t, g.Led())
}

func TestWithDisplayAbsent(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")
	g.SetDisplay(nil)
	called := false
	err := g.WithDisplay(func(display.Displayer) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)

	_, ok := g.DisplayText()
	assert.False(t, ok)
}

func TestSimulationDisplayWired(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")
	require.True(t, g.HasDisplay())
	text, ok := g.DisplayText()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "╔"))
}

func TestUptimeMonotonic(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")
	u1 := g.Uptime()
	time.Sleep(10 * time.Millisecond)
	u2 := g.Uptime()
	assert.Greater(t, u2, u1)
}

// Concurrent field access across unrelated fields must not contend;
// run with -race to make this count.
func TestFieldIndependence(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")
	wg := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				g.SetSensorReading(sensor.NewReading(float32(20+i), 50))
				g.SensorReading()
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = g.SetLed(i%2 == 0)
				g.Led()
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = g.WithDisplay(func(d display.Displayer) error {
					return d.DrawText("x", 10, 30, display.White)
				})
			}
		}(i)
	}
	wg.Wait()
}
