package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testBulletinNorth = `AMZ712-272100-
COASTAL WATERS OF NORTHERN PUERTO RICO OUT 10 NM-
405 AM AST THU FEB 27 2026

...SMALL CRAFT ADVISORY IN EFFECT THROUGH THURSDAY EVENING...

.TODAY...EAST WINDS 15 TO 20 KNOTS WITH GUSTS UP TO 25 KNOTS. SEAS
4 TO 6 FEET. WAVE DETAIL: EAST 5 FEET AT 6 SECONDS AND NORTHWEST 2
FEET AT 11 SECONDS. SCATTERED SHOWERS WITH ISOLATED THUNDERSTORMS.
.TONIGHT...EAST WINDS 15 KNOTS. SEAS 4 TO 6 FEET. ISOLATED SHOWERS.
.SATURDAY...EAST WINDS 10 TO 15 KNOTS. SEAS 3 TO 5 FEET.

$$
`

const testBulletinMixed = `AMZ726-272100-
Coastal waters of eastern Puerto Rico including Vieques out 10 NM-
405 AM AST Thu Feb 27 2026

.TODAY...winds Northeast 15 to 20 knots. Seas 6 to 8 feet.
Wave Detail: East 5 feet at 6 seconds and northwest 2 feet at 11
seconds. Partly cloudy with isolated showers.
.TONIGHT...Northeast winds 15 knots. Seas 5 to 7 feet.

$$
`

func TestExtractZoneForecast(t *testing.T) {
	t.Run("uppercase bulletin", func(t *testing.T) {
		f := ExtractZoneForecast(testBulletinNorth)

		assert.Equal(t, "EAST 15 TO 20 kt", f.Wind)
		assert.Equal(t, "Gusts to 25 kt", f.Gusts)
		assert.Equal(t, "4 TO 6 ft", f.Seas)
		assert.Equal(t, "E 5ft@6s + NW 2ft@11s", f.WaveDetail)
		assert.Equal(t, "SCATTERED SHOWERS WITH ISOLATED THUNDERSTORMS.", f.Precip)
		assert.True(t, strings.HasPrefix(f.Advisory, "Small Craft Advisory"))
	})

	t.Run("mixed case bulletin", func(t *testing.T) {
		f := ExtractZoneForecast(testBulletinMixed)

		assert.Equal(t, "Northeast 15 to 20 kt", f.Wind)
		assert.Empty(t, f.Gusts)
		assert.Equal(t, "6 to 8 ft", f.Seas)
		assert.Equal(t, "E 5ft@6s + NW 2ft@11s", f.WaveDetail)
		assert.Equal(t, "Partly cloudy with isolated showers.", f.Precip)
		assert.Empty(t, f.Advisory)
	})

	t.Run("empty bulletin yields placeholders", func(t *testing.T) {
		f := ExtractZoneForecast("")

		assert.Equal(t, DefaultZoneForecast(), f)
	})

	t.Run("unrecognisable text yields placeholders", func(t *testing.T) {
		f := ExtractZoneForecast("no forecast data here")

		assert.Equal(t, DefaultWind, f.Wind)
		assert.Equal(t, DefaultSeas, f.Seas)
		assert.Empty(t, f.Gusts)
		assert.Empty(t, f.WaveDetail)
		assert.Empty(t, f.Advisory)
		assert.Empty(t, f.Precip)
	})

	t.Run("gale headline", func(t *testing.T) {
		f := ExtractZoneForecast("...GALE WARNING IN EFFECT...\n\n.TODAY...WEST WINDS 30 KNOTS.")

		assert.Equal(t, "Gale Warning In Effect...", f.Advisory)
		assert.Equal(t, "WEST 30 kt", f.Wind)
	})
}

func TestExtractWind(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected string
	}{
		{"direction before winds", "Northeast winds 15 to 20 knots", "Northeast 15 to 20 kt"},
		{"direction after winds", "winds Northeast 15 to 20 knots", "Northeast 15 to 20 kt"},
		{"uppercase", "EAST WINDS 15 TO 20 KNOTS", "EAST 15 TO 20 kt"},
		{"direction range", "East to Southeast winds 10 knots", "East to Southeast 10 kt"},
		{"abbreviated direction", "NE winds 20 knots", "NE 20 kt"},
		{"no direction", "winds 15 knots", "15 kt"},
		{"singular forms", "wind 10 knots", "10 kt"},
		{"single speed", "South winds 25 knots", "South 25 kt"},
		{"no wind group", "calm conditions expected", ""},
		{"no speed", "light and variable winds", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractWind(tt.block))
		})
	}
}

func TestExtractGusts(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected string
	}{
		{"up to form", "with gusts up to 25 knots", "Gusts to 25 kt"},
		{"bare form", "gusts 30 knots", "Gusts to 30 kt"},
		{"uppercase", "GUSTS UP TO 22 KNOTS", "Gusts to 22 kt"},
		{"no gusts", "steady winds all day", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractGusts(tt.block))
		})
	}
}

func TestExtractSeas(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected string
	}{
		{"range", "Seas 4 to 6 feet", "4 to 6 ft"},
		{"single value", "seas 3 feet", "3 ft"},
		{"uppercase", "SEAS 6 TO 8 FEET", "6 TO 8 ft"},
		{"singular noun", "sea 2 feet", "2 ft"},
		{"no seas phrase", "smooth water near shore", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSeas(tt.block))
		})
	}
}

func TestExtractWaveDetail(t *testing.T) {
	t.Run("two components", func(t *testing.T) {
		got := extractWaveDetail("Wave Detail: East 5 feet at 6 seconds and northwest 2 feet at 11 seconds.")
		assert.Equal(t, "E 5ft@6s + NW 2ft@11s", got)
	})

	t.Run("uppercase label and component", func(t *testing.T) {
		got := extractWaveDetail("WAVE DETAIL: NORTH 12 FEET AT 14 SECONDS.")
		assert.Equal(t, "N 12ft@14s", got)
	})

	t.Run("unknown direction word abbreviated", func(t *testing.T) {
		got := extractWaveDetail("Wave Detail: Variable 3 feet at 9 seconds.")
		assert.Equal(t, "VA 3ft@9s", got)
	})

	t.Run("unparseable component kept verbatim", func(t *testing.T) {
		got := extractWaveDetail("Wave Detail: mixed swell from distant storm and east 2 feet at 8 seconds.")
		assert.Equal(t, "mixed swell from distant storm + E 2ft@8s", got)
	})

	t.Run("no label", func(t *testing.T) {
		assert.Empty(t, extractWaveDetail("Seas 4 to 6 feet."))
	})
}

func TestExtractPrecip(t *testing.T) {
	t.Run("thunderstorm outranks rain", func(t *testing.T) {
		got := extractPrecip("Rain and thunderstorms possible this afternoon.")
		assert.Equal(t, "Rain and thunderstorms possible this afternoon.", got)
	})

	t.Run("sky cover keyword", func(t *testing.T) {
		got := extractPrecip("Mostly sunny.")
		assert.Equal(t, "Mostly sunny.", got)
	})

	t.Run("truncated to card width", func(t *testing.T) {
		long := "Scattered showers across the coastal waters with " + strings.Repeat("locally ", 12) + "heavy downpours."
		got := extractPrecip(long)

		assert.Len(t, []rune(got), 90)
		assert.True(t, strings.HasPrefix(got, "Scattered showers"))
	})

	t.Run("keyword without sentence", func(t *testing.T) {
		assert.Empty(t, extractPrecip("Seas building. Outlook: cloudy"))
	})

	t.Run("no keyword", func(t *testing.T) {
		assert.Empty(t, extractPrecip("Winds diminishing overnight."))
	})
}

func TestTodayBlock(t *testing.T) {
	t.Run("dot header to tonight", func(t *testing.T) {
		got := todayBlock(".TODAY...FIRST PART.\n.TONIGHT...SECOND PART.")
		assert.Equal(t, "FIRST PART.", got)
	})

	t.Run("dot header to weekday", func(t *testing.T) {
		got := todayBlock(".TODAY...BODY TEXT.\n.SATURDAY...MORE TEXT.")
		assert.Equal(t, "BODY TEXT.", got)
	})

	t.Run("dot header to end of text", func(t *testing.T) {
		got := todayBlock(".TODAY...ONLY SECTION")
		assert.Equal(t, "ONLY SECTION", got)
	})

	t.Run("plain header fallback", func(t *testing.T) {
		got := todayBlock("TODAY\nplain body text\nTONIGHT\nnight text")
		assert.Equal(t, "plain body text", got)
	})

	t.Run("no header scans leading text", func(t *testing.T) {
		got := todayBlock(strings.Repeat("ab ", 400))

		assert.LessOrEqual(t, len(got), 1000)
		assert.True(t, strings.HasPrefix(got, "ab ab"))
	})
}
