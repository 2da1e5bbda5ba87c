package moon

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// daysAfterReference offsets the reference new moon by a fractional number
// of days.
func daysAfterReference(days float64) time.Time {
	return referenceNewMoon.Add(time.Duration(days * 24 * float64(time.Hour)))
}

func TestAt(t *testing.T) {
	t.Run("reference instant is new moon", func(t *testing.T) {
		p := At(referenceNewMoon)

		assert.InDelta(t, 0, p.CyclePosition, 1e-6)
		assert.Equal(t, 0, p.Illumination)
		assert.Equal(t, "New Moon", p.Name)
	})

	t.Run("half cycle is full moon", func(t *testing.T) {
		p := At(daysAfterReference(SynodicMonth / 2))

		assert.InDelta(t, 0.5, p.CyclePosition, 1e-6)
		assert.Equal(t, 100, p.Illumination)
		assert.Equal(t, "Full Moon", p.Name)
	})

	t.Run("quarter cycle is half lit", func(t *testing.T) {
		p := At(daysAfterReference(SynodicMonth / 4))

		assert.Equal(t, 50, p.Illumination)
		assert.Equal(t, "First Quarter", p.Name)
	})

	t.Run("three quarter cycle", func(t *testing.T) {
		p := At(daysAfterReference(SynodicMonth * 3 / 4))

		assert.Equal(t, 50, p.Illumination)
		assert.Equal(t, "Last Quarter", p.Name)
	})

	t.Run("periodic across one month", func(t *testing.T) {
		t1 := time.Date(2026, 2, 27, 10, 30, 0, 0, time.UTC)
		t2 := t1.Add(time.Duration(SynodicMonth * 24 * float64(time.Hour)))

		p1, p2 := At(t1), At(t2)
		assert.InDelta(t, p1.CyclePosition, p2.CyclePosition, 1e-6)
		assert.Equal(t, p1.Name, p2.Name)
	})

	t.Run("dates before the epoch stay in range", func(t *testing.T) {
		p := At(time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC))

		assert.GreaterOrEqual(t, p.CyclePosition, 0.0)
		assert.Less(t, p.CyclePosition, 1.0)
		assert.NotEmpty(t, p.Name)
	})

	t.Run("illumination rises through the waxing half", func(t *testing.T) {
		prev := -1
		for i := 0; i <= 8; i++ {
			p := At(daysAfterReference(SynodicMonth / 2 * float64(i) / 8))
			assert.GreaterOrEqual(t, p.Illumination, prev)
			prev = p.Illumination
		}
		assert.Equal(t, 100, prev)
	})
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		name     string
		cycle    float64
		expected string
	}{
		{"start of cycle", 0.0, "New Moon"},
		{"just under first boundary", 0.06, "New Moon"},
		{"waxing crescent", 0.125, "Waxing Crescent"},
		{"first quarter", 0.25, "First Quarter"},
		{"waxing gibbous", 0.375, "Waxing Gibbous"},
		{"full", 0.5, "Full Moon"},
		{"waning gibbous", 0.625, "Waning Gibbous"},
		{"last quarter", 0.75, "Last Quarter"},
		{"waning crescent", 0.875, "Waning Crescent"},
		{"wraps back to new", 0.95, "New Moon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, phaseName(tt.cycle))
		})
	}
}

func TestDiscSVG(t *testing.T) {
	t.Run("new moon renders dark disc only", func(t *testing.T) {
		svg := DiscSVG(At(referenceNewMoon), 96)

		assert.Contains(t, svg, "<circle")
		assert.NotContains(t, svg, "<path")
		assert.Contains(t, svg, `width="96"`)
	})

	t.Run("full moon renders lit overlay", func(t *testing.T) {
		svg := DiscSVG(At(daysAfterReference(SynodicMonth/2)), 96)

		assert.Contains(t, svg, "<path")
		assert.Contains(t, svg, discLit)
	})

	t.Run("waxing lights the right edge", func(t *testing.T) {
		svg := DiscSVG(Phase{CyclePosition: 0.25, Illumination: 50}, 96)

		assert.Contains(t, svg, "A45.0 45.0 0 0 1 50.0 95.0")
	})

	t.Run("waning lights the left edge", func(t *testing.T) {
		svg := DiscSVG(Phase{CyclePosition: 0.75, Illumination: 50}, 96)

		assert.Contains(t, svg, "A45.0 45.0 0 0 0 50.0 95.0")
	})
}
