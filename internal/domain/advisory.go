package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Canonical labels for the recognised headline families.
const (
	LabelSmallCraft    = "Small Craft Advisory"
	LabelGale          = "Gale Warning"
	LabelStorm         = "Storm Warning"
	LabelHurricane     = "Hurricane Force Wind Warning"
	LabelRipCurrents   = "Rip Currents"
	LabelBreakingWaves = "Breaking Waves"
)

// ClassifyAdvisories folds the per-zone headlines and the synopsis hazards
// into the deduplicated, sorted label list shown in the card banner.
// Headlines outside the known families pass through verbatim. An empty
// result becomes the single NoActiveAdvisories label.
func ClassifyAdvisories(zones map[Zone]ZoneForecast, synopsis string) []string {
	found := make(map[string]struct{})

	for _, zf := range zones {
		if zf.Advisory == "" {
			continue
		}
		lower := strings.ToLower(zf.Advisory)
		switch {
		case strings.Contains(lower, "small craft"):
			found[LabelSmallCraft] = struct{}{}
		case strings.Contains(lower, "gale"):
			found[LabelGale] = struct{}{}
		case strings.Contains(lower, "storm"):
			found[LabelStorm] = struct{}{}
		case strings.Contains(lower, "hurricane"):
			found[LabelHurricane] = struct{}{}
		default:
			found[zf.Advisory] = struct{}{}
		}
	}

	lowerSyn := strings.ToLower(synopsis)
	if strings.Contains(lowerSyn, "rip current") {
		found[LabelRipCurrents] = struct{}{}
	}
	if strings.Contains(lowerSyn, "breaking wave") || strings.Contains(lowerSyn, "hazardous surf") {
		found[LabelBreakingWaves] = struct{}{}
	}

	if len(found) == 0 {
		return []string{NoActiveAdvisories}
	}

	labels := make([]string, 0, len(found))
	for l := range found {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// HasWarningLabel reports whether any label names an active advisory or
// warning, which switches the card banner to its alert colours. The
// NoActiveAdvisories sentinel and the synopsis hazard labels do not trip it.
func HasWarningLabel(labels []string) bool {
	for _, l := range labels {
		lower := strings.ToLower(l)
		if strings.Contains(lower, "advisory") || strings.Contains(lower, "warning") {
			return true
		}
	}
	return false
}

// feetRe pulls the numeric heights out of a seas display value.
var feetRe = regexp.MustCompile(`\d+`)

// Fishing outlook lines shown in the conditions panel.
const (
	FishingRough    = "Rough — offshore not recommended"
	FishingModerate = "Moderate — check conditions"
)

// FishingOutlook grades offshore conditions from the Atlantic seas value.
// Any reported height of 8 feet or more reads as rough; unparseable values
// (including the placeholder) read as moderate.
func FishingOutlook(seas string) string {
	maxFt := 0
	for _, n := range feetRe.FindAllString(seas, -1) {
		if v, err := strconv.Atoi(n); err == nil && v > maxFt {
			maxFt = v
		}
	}
	if maxFt >= 8 {
		return FishingRough
	}
	return FishingModerate
}
