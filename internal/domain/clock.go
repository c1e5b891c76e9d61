package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps LoadedAt on datasets. Tests replace it with a fake.
var clock = clockwork.NewRealClock()

// SetClock installs c as the dataset time source; nil restores the wall clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// Now reads the dataset time source.
func Now() time.Time {
	return clock.Now()
}
