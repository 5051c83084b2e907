package domain

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// wib is Western Indonesian Time. BMKG pages and the dashboard both use it.
var wib = time.FixedZone("WIB", 7*60*60)

// SetClock swaps the time source for forecast stamping. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// FormatObservedAt renders t in WIB using the Indonesian locale layout
// "d/M/yyyy, HH.mm.ss", e.g. "17/10/2026, 14.05.09".
func FormatObservedAt(t time.Time) string {
	t = t.In(wib)
	return fmt.Sprintf("%d/%d/%d, %02d.%02d.%02d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}
