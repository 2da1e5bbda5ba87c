package domain

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// compassAlt matches a compass direction: the eight full words or a one- or
// two-letter abbreviation. Full words come first so "Northeast" is never
// consumed as "North".
const compassAlt = `(?:Northeast|Northwest|Southeast|Southwest|North|South|East|West|[NSEW]{1,2})`

// dirPhrase matches a direction or direction range, e.g. "East to Southeast".
const dirPhrase = compassAlt + `(?:\s+to\s+` + compassAlt + `)?`

var (
	// advisoryRe matches a hazard headline anywhere in a bulletin,
	// e.g. "SMALL CRAFT ADVISORY IN EFFECT THROUGH THURSDAY EVENING".
	advisoryRe = regexp.MustCompile(`(?i)(SMALL CRAFT ADVISORY[^\n]*|GALE WARNING[^\n]*|STORM WARNING[^\n]*|HURRICANE FORCE[^\n]*)`)

	// todayRe captures the .TODAY section body up to the next period header,
	// e.g. ".TODAY...EAST WINDS ... .TONIGHT" -> "EAST WINDS ... ".
	todayRe = regexp.MustCompile(`(?is)\.TODAY\.\.\.(.*?)(?:\.TONIGHT|\.(?:MONDAY|TUESDAY|WEDNESDAY|THURSDAY|FRIDAY|SATURDAY|SUNDAY)(?:\s+NIGHT)?|$)`)

	// todayFallbackRe handles bulletins where TODAY sits on its own line
	// without the dot-header form.
	todayFallbackRe = regexp.MustCompile(`(?is)TODAY\s*\n(.*?)(?:TONIGHT|$)`)

	// windRe matches a wind group: an optional direction phrase on either side
	// of the word "winds", then a speed or range in knots,
	// e.g. "Northeast winds 15 to 20 knots" or "winds Northeast 15 knots".
	windRe = regexp.MustCompile(`(?i)\b((?:` + dirPhrase + `\s+)?winds?(?:\s+` + dirPhrase + `)?\s+\d+(?:\s+to\s+\d+)?\s+knots?)\b`)

	// windWordRe strips the word "winds" out of a matched wind group.
	windWordRe = regexp.MustCompile(`(?i)\s*winds?\s*`)

	// knotsRe rewrites a trailing knots unit to the card's "kt" form.
	knotsRe = regexp.MustCompile(`(?i)\s+knots?`)

	// gustRe matches a gust phrase, e.g. "gusts up to 25 knots" -> "25".
	gustRe = regexp.MustCompile(`(?i)gusts?\s+(?:up\s+to\s+)?(\d+)\s+knots?`)

	// seasRe matches a significant wave height phrase,
	// e.g. "seas 4 to 6 feet" -> "4 to 6".
	seasRe = regexp.MustCompile(`(?i)seas?\s+(\d+\s+to\s+\d+|\d+)\s+feet?`)

	// waveDetailRe captures the itemised swell breakdown after a
	// "Wave Detail:" label, up to the first sentence or clause break.
	waveDetailRe = regexp.MustCompile(`(?i)wave\s+detail:?\s*([^.;\n]+)`)

	// waveSplitRe separates swell components joined by "and".
	waveSplitRe = regexp.MustCompile(`(?i)\s+and\s+`)

	// waveComponentRe parses one swell component,
	// e.g. "East 5 feet at 6 seconds" -> ("East", "5", "6").
	waveComponentRe = regexp.MustCompile(`(?i)^(\w+)\s+(\d+)\s+feet?\s+at\s+(\d+)\s+seconds?`)

	// spaceRe collapses runs of whitespace, including newlines from the
	// bulletin's fixed-width wrapping.
	spaceRe = regexp.MustCompile(`\s+`)
)

// compassAbbrev maps full direction words to the compact form used in the
// wave detail display.
var compassAbbrev = map[string]string{
	"north": "N", "south": "S", "east": "E", "west": "W",
	"northeast": "NE", "northwest": "NW", "southeast": "SE", "southwest": "SW",
}

// precipKeywords is scanned in priority order; the first keyword present in
// the today block selects the weather sentence shown on the card.
var precipKeywords = []string{"thunderstorm", "showers", "rain", "sunny", "partly cloudy", "cloudy", "clear"}

// precipSentenceRe maps each keyword to a regex capturing the full sentence
// containing it.
var precipSentenceRe = buildPrecipSentenceRes()

func buildPrecipSentenceRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(precipKeywords))
	for _, kw := range precipKeywords {
		res[kw] = regexp.MustCompile(`(?i)([^.]*` + regexp.QuoteMeta(kw) + `[^.]*\.)`)
	}
	return res
}

const precipMaxLen = 90

// ExtractZoneForecast pulls the card fields out of one zone bulletin. It
// never fails: fields that cannot be recognised keep their placeholder or
// empty value, and an empty bulletin yields the full placeholder forecast.
func ExtractZoneForecast(text string) ZoneForecast {
	f := DefaultZoneForecast()
	if text == "" {
		return f
	}

	f.Advisory = extractAdvisory(text)

	block := todayBlock(text)
	if w := extractWind(block); w != "" {
		f.Wind = w
	}
	f.Gusts = extractGusts(block)
	if s := extractSeas(block); s != "" {
		f.Seas = s
	}
	f.WaveDetail = extractWaveDetail(block)
	f.Precip = extractPrecip(block)
	return f
}

// extractAdvisory returns the title-cased hazard headline, or "" when the
// bulletin carries none.
func extractAdvisory(text string) string {
	m := advisoryRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return titleCase(strings.TrimSpace(m[1]))
}

// todayBlock isolates the forecast text the field extractors scan: the
// .TODAY section when present, otherwise the leading portion of the
// bulletin. Whitespace is collapsed so phrases split across the bulletin's
// fixed-width lines still match.
func todayBlock(text string) string {
	if m := todayRe.FindStringSubmatch(text); m != nil {
		return collapseSpaces(m[1])
	}
	if m := todayFallbackRe.FindStringSubmatch(text); m != nil {
		return collapseSpaces(m[1])
	}
	return collapseSpaces(truncate(text, 1000))
}

// extractWind returns the display wind group, e.g. "Northeast 15 to 20 kt".
func extractWind(block string) string {
	m := windRe.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	w := strings.TrimSpace(windWordRe.ReplaceAllString(strings.TrimSpace(m[1]), " "))
	return knotsRe.ReplaceAllString(w, " kt")
}

// extractGusts returns the gust note, e.g. "Gusts to 25 kt", or "".
func extractGusts(block string) string {
	m := gustRe.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return "Gusts to " + m[1] + " kt"
}

// extractSeas returns the seas value, e.g. "4 to 6 ft", or "".
func extractSeas(block string) string {
	m := seasRe.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return m[1] + " ft"
}

// extractWaveDetail compacts the swell breakdown into the card's short form,
// e.g. "East 5 feet at 6 seconds and northwest 2 feet at 11 seconds" ->
// "E 5ft@6s + NW 2ft@11s". Components that do not parse are kept verbatim.
func extractWaveDetail(block string) string {
	m := waveDetailRe.FindStringSubmatch(block)
	if m == nil {
		return ""
	}

	parts := waveSplitRe.Split(strings.TrimSpace(m[1]), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		c := waveComponentRe.FindStringSubmatch(p)
		if c == nil {
			out = append(out, p)
			continue
		}
		dir, ok := compassAbbrev[strings.ToLower(c[1])]
		if !ok {
			dir = strings.ToUpper(c[1])
			if len(dir) > 2 {
				dir = dir[:2]
			}
		}
		out = append(out, fmt.Sprintf("%s %sft@%ss", dir, c[2], c[3]))
	}
	return strings.Join(out, " + ")
}

// extractPrecip returns the weather sentence for the highest-priority
// keyword present in the block, truncated for the card. Only the first
// matching keyword is tried.
func extractPrecip(block string) string {
	lower := strings.ToLower(block)
	for _, kw := range precipKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		if m := precipSentenceRe[kw].FindStringSubmatch(block); m != nil {
			return truncate(strings.TrimSpace(m[1]), precipMaxLen)
		}
		break
	}
	return ""
}

// collapseSpaces trims and squeezes all whitespace runs to single spaces.
func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// titleCase converts an uppercase headline to title case,
// e.g. "SMALL CRAFT ADVISORY" -> "Small Craft Advisory".
func titleCase(s string) string {
	return cases.Title(language.AmericanEnglish).String(s)
}
