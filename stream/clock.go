package stream

import "time"

// Clock provides time for the Engine. Tests inject a fake one to control
// animation timing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
