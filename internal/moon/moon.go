// Package moon computes synodic moon phases for the card's night-sky panel.
//
// The computation is plain cycle arithmetic: elapsed days since a reference
// new moon, folded into the mean synodic month. Accuracy is within a day of
// the true phase, which is plenty for a phase name and a disc illustration.
package moon

import (
	"math"
	"time"
)

// SynodicMonth is the mean length of the lunar cycle in days.
const SynodicMonth = 29.53058867

// referenceNewMoon is the epoch the cycle is counted from: the new moon of
// 2000-01-06 18:14 UTC.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// Phase describes the moon at one instant.
type Phase struct {
	// CyclePosition is the fraction of the synodic month elapsed since new
	// moon, in [0, 1). 0 is new, 0.5 is full.
	CyclePosition float64

	// Illumination is the lit fraction of the disc in percent, 0-100.
	Illumination int

	// Name is the display name of the phase bucket, e.g. "Waxing Gibbous".
	Name string
}

var phaseNames = []string{
	"New Moon",
	"Waxing Crescent",
	"First Quarter",
	"Waxing Gibbous",
	"Full Moon",
	"Waning Gibbous",
	"Last Quarter",
	"Waning Crescent",
}

// phaseBoundaries are the upper bounds of each named bucket. Buckets are
// centred on the canonical positions (new at 0, full at 1/2), so the
// boundaries fall on odd sixteenths; positions past the last boundary wrap
// back to new.
var phaseBoundaries = []float64{
	1.0 / 16, 3.0 / 16, 5.0 / 16, 7.0 / 16,
	9.0 / 16, 11.0 / 16, 13.0 / 16, 15.0 / 16,
}

// At returns the phase for an instant. Works for any time, including dates
// before the reference epoch.
func At(t time.Time) Phase {
	elapsed := t.Sub(referenceNewMoon).Hours() / 24
	days := math.Mod(elapsed, SynodicMonth)
	if days < 0 {
		days += SynodicMonth
	}
	cycle := days / SynodicMonth

	return Phase{
		CyclePosition: cycle,
		Illumination:  illumination(cycle),
		Name:          phaseName(cycle),
	}
}

// illumination maps a cycle position to the lit percentage of the disc:
// 0 at new moon, 100 at full, following the cosine curve between.
func illumination(cycle float64) int {
	return int(math.Round((1 - math.Cos(2*math.Pi*cycle)) / 2 * 100))
}

// phaseName buckets the cycle position into one of the eight named phases.
func phaseName(cycle float64) string {
	for i, bound := range phaseBoundaries {
		if cycle < bound {
			return phaseNames[i]
		}
	}
	return phaseNames[0]
}
