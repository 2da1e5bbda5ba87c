package domain

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// AST is the Puerto Rico local zone: Atlantic Standard Time, UTC-4 with no
// daylight saving.
var AST = time.FixedZone("AST", -4*60*60)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for card timestamps. Pass nil to reset to real time.
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

// CardDate returns the banner date in Puerto Rico local time, e.g. "FEB 27".
func CardDate() string {
	return strings.ToUpper(clock.Now().In(AST).Format("Jan 02"))
}

// CardTime returns the banner time in Puerto Rico local time, e.g. "6:30 AM".
func CardTime() string {
	return clock.Now().In(AST).Format("3:04 PM")
}
