package moon

import (
	"fmt"
	"math"
	"strings"
)

// Disc geometry in viewBox units.
const (
	discCX = 50.0
	discCY = 50.0
	discR  = 45.0
)

// Disc colours match the card's night-sky panel.
const (
	discDark = "#1c2b4d"
	discLit  = "#e8f1ff"
)

// DiscSVG renders the phase as a flat two-tone disc, size pixels square.
//
// The lit region is bounded by the outer semicircle on the lit side and by
// the terminator, drawn as a half-ellipse whose horizontal radius is
// R*|cos(2*pi*cycle)|. That makes the terminator a straight line at the
// quarters and a full semicircle at new and full moon, and the lit area
// tracks the illumination percentage exactly.
func DiscSVG(p Phase, size int) string {
	theta := 2 * math.Pi * p.CyclePosition
	rx := discR * math.Abs(math.Cos(theta))

	litRight := p.CyclePosition < 0.5 // waxing moons light up from the right
	crescent := math.Cos(theta) > 0

	// Outer arc runs top to bottom along the lit edge.
	outerSweep := 0
	if litRight {
		outerSweep = 1
	}

	// The terminator bulges toward the lit edge for crescents and toward
	// the dark edge for gibbous phases.
	termSweep := 1
	if crescent == litRight {
		termSweep = 0
	}

	top := fmt.Sprintf("%.1f %.1f", discCX, discCY-discR)
	bottom := fmt.Sprintf("%.1f %.1f", discCX, discCY+discR)
	litPath := fmt.Sprintf("M%s A%.1f %.1f 0 0 %d %s A%.2f %.1f 0 0 %d %s Z",
		top, discR, discR, outerSweep, bottom, rx, discR, termSweep, top)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 100 100">`, size, size)
	fmt.Fprintf(&b, `<circle cx="%.0f" cy="%.0f" r="%.0f" fill="%s"/>`, discCX, discCY, discR, discDark)
	if p.Illumination > 0 {
		fmt.Fprintf(&b, `<path d="%s" fill="%s"/>`, litPath, discLit)
	}
	b.WriteString(`</svg>`)
	return b.String()
}
