package engine

import "time"

// Clock supplies the wall-clock instants timers are measured against
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the real-time Clock
var SystemClock Clock = systemClock{}
