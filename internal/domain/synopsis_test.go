package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testCombinedProduct = `FZCA52 TJSJ 270940
CWFSJU

COASTAL WATERS FORECAST FOR PUERTO RICO AND THE US VIRGIN ISLANDS
NATIONAL WEATHER SERVICE SAN JUAN PR
540 AM AST THU FEB 27 2026

.SYNOPSIS...A SURFACE HIGH PRESSURE NORTH OF THE AREA WILL MAINTAIN
MODERATE TO FRESH EASTERLY WINDS THROUGH THE WEEKEND. A NORTHERLY
SWELL WILL CONTINUE TO BRING HAZARDOUS SURF AND A HIGH RISK OF RIP
CURRENTS TO THE NORTHERN BEACHES.

.ATLANTIC WATERS...
EAST WINDS 15 TO 20 KNOTS. SEAS 6 TO 8 FEET.

$$
`

func TestExtractSynopsis(t *testing.T) {
	t.Run("dot header block", func(t *testing.T) {
		got := ExtractSynopsis(testCombinedProduct)

		assert.True(t, strings.HasPrefix(got, "A SURFACE HIGH PRESSURE"))
		assert.Contains(t, got, "RIP CURRENTS TO THE NORTHERN BEACHES.")
		assert.NotContains(t, got, "\n")
		assert.NotContains(t, got, "ATLANTIC WATERS")
	})

	t.Run("stops at segment separator", func(t *testing.T) {
		got := ExtractSynopsis(".SYNOPSIS...QUIET WEATHER PATTERN.\n$$\nTRAILING TEXT")

		assert.Equal(t, "QUIET WEATHER PATTERN.", got)
	})

	t.Run("keyword line fallback", func(t *testing.T) {
		text := "MARINE SYNOPSIS FOR THE LOCAL WATERS\nHIGH PRESSURE DOMINATES THE REGION\nWINDS STAY GENTLE\nAMZ711-272100-\nZONE TEXT"
		got := ExtractSynopsis(text)

		assert.Equal(t, "HIGH PRESSURE DOMINATES THE REGION WINDS STAY GENTLE", got)
	})

	t.Run("collapses wrapped lines", func(t *testing.T) {
		got := ExtractSynopsis(".SYNOPSIS...FIRST LINE\nSECOND LINE\nTHIRD LINE")

		assert.Equal(t, "FIRST LINE SECOND LINE THIRD LINE", got)
	})

	t.Run("truncates long synopsis", func(t *testing.T) {
		long := ".SYNOPSIS..." + strings.Repeat("WORDY FORECAST TEXT ", 40)
		got := ExtractSynopsis(long)

		assert.Len(t, []rune(got), 420)
	})

	t.Run("no synopsis section", func(t *testing.T) {
		assert.Empty(t, ExtractSynopsis("AMZ712 ZONE TEXT WITHOUT A HEADER"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ExtractSynopsis(""))
	})
}
