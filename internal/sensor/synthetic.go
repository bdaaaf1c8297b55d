package sensor

import (
	"encoding/binary"
	"hash/fnv"
	"time"
)

// Synthetic generates demo readings from a time-derived hash: temperature
// uniform over 20.0-35.0°C, humidity over 40.0-80.0%. Not random in any
// serious sense, just plausible-looking numbers for a device without
// sensor hardware.
type Synthetic struct {
	now func() time.Time
}

func NewSynthetic() *Synthetic {
	return &Synthetic{now: time.Now}
}

func (self *Synthetic) Read() (float32, float32, error) {
	nano := self.now().UnixNano()
	temperature := 20.0 + timeHash01(nano)*15.0
	humidity := 40.0 + timeHash01(nano+12345)*40.0
	return temperature, humidity, nil
}

// timeHash01 folds a timestamp into [0, 1).
func timeHash01(nano int64) float32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(nano))
	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return float32(h.Sum64()%1000) / 1000.0
}
