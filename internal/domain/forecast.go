package domain

import "time"

// Zone identifies one of the four marine forecast zones on the card.
type Zone string

const (
	// ZoneAtlantic covers the offshore Atlantic waters from 10 NM out to 19.5N.
	ZoneAtlantic Zone = "atlantic"
	// ZoneNorthPR covers the coastal waters of northern Puerto Rico out 10 NM.
	ZoneNorthPR Zone = "north_pr"
	// ZoneEastPR covers eastern Puerto Rico, Vieques, Culebra and St. John.
	ZoneEastPR Zone = "east_pr"
	// ZoneCaribbean covers the Caribbean waters of Puerto Rico and St. Croix.
	ZoneCaribbean Zone = "caribbean"
)

// ZoneOrder fixes the presentation order of zones on the card grid.
var ZoneOrder = []Zone{ZoneAtlantic, ZoneNorthPR, ZoneEastPR, ZoneCaribbean}

// Placeholder values shown when extraction finds no usable phrase.
const (
	DefaultWind = "Check NWS"
	DefaultSeas = "Check NWS"
)

// NoActiveAdvisories is the banner label when no hazard is in effect.
const NoActiveAdvisories = "No Active Advisories"

// ZoneForecast holds the card-ready fields extracted from one zone bulletin.
// All fields are display strings; absent optional fields are empty.
type ZoneForecast struct {
	Wind       string `json:"wind"`                  // e.g. "Northeast 15 to 20 kt"
	Gusts      string `json:"gusts,omitempty"`       // e.g. "Gusts to 25 kt"
	Seas       string `json:"seas"`                  // e.g. "4 to 6 ft"
	WaveDetail string `json:"wave_detail,omitempty"` // e.g. "E 5ft@6s + NW 2ft@11s"
	Advisory   string `json:"advisory,omitempty"`    // headline line, title-cased
	Precip     string `json:"precip,omitempty"`      // weather sentence, truncated
}

// DefaultZoneForecast returns the placeholder forecast used when a bulletin
// is missing or yields nothing.
func DefaultZoneForecast() ZoneForecast {
	return ZoneForecast{Wind: DefaultWind, Seas: DefaultSeas}
}

// RunRecord summarises one completed generation run. It is what gets
// archived and published after a card is written.
type RunRecord struct {
	GeneratedAt time.Time             `json:"generated_at"`
	CardDate    string                `json:"card_date"` // banner date, e.g. "FEB 27"
	Advisories  []string              `json:"advisories"`
	Synopsis    string                `json:"synopsis,omitempty"`
	Zones       map[Zone]ZoneForecast `json:"zones"`

	// Night-sky panel values.
	MoonPhase    string `json:"moon_phase"`
	Illumination int    `json:"illumination_pct"`

	// RainChance is nil when the gridpoint API was unreachable or reported
	// no value for the current period.
	RainChance *int `json:"rain_chance_pct,omitempty"`

	OutputPath string `json:"output_path"`
	ImageBytes int    `json:"image_bytes"`
}
