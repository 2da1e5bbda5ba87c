// Command genbulletin writes synthetic NWS-style marine bulletin fixtures
// laid out under the same paths the generator fetches, so NWS_BASE_URL can
// point at a local file server for offline runs. It uses the actual domain
// extraction code to print the card fields each fixture yields, keeping test
// assertions in sync with real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genbulletin -out testdata/nws
//	go run ./cmd/genbulletin -out testdata/nws -date 2026-08-25
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/marine-card/internal/domain"
)

// zoneDef describes one synthetic zone bulletin.
type zoneDef struct {
	zone     domain.Zone
	file     string
	ugc      string
	waters   string
	headline string
	today    string
	tonight  string
}

var zoneDefs = []zoneDef{
	{
		zone:     domain.ZoneAtlantic,
		file:     "data/forecasts/marine/coastal/am/amz711.txt",
		ugc:      "AMZ711",
		waters:   "ATLANTIC WATERS OF PUERTO RICO FROM 10 NM TO 19.5N",
		headline: "SMALL CRAFT ADVISORY IN EFFECT THROUGH TUESDAY EVENING",
		today: "EAST WINDS 15 TO 20 KNOTS WITH GUSTS UP TO 25 KNOTS. SEAS 5 TO 7 FEET. " +
			"WAVE DETAIL: EAST 6 FEET AT 8 SECONDS AND NORTHEAST 3 FEET AT 10 SECONDS. " +
			"SCATTERED SHOWERS AND ISOLATED THUNDERSTORMS.",
		tonight: "EAST WINDS 12 TO 18 KNOTS. SEAS 4 TO 6 FEET. ISOLATED SHOWERS.",
	},
	{
		zone:     domain.ZoneNorthPR,
		file:     "data/forecasts/marine/coastal/am/amz712.txt",
		ugc:      "AMZ712",
		waters:   "COASTAL WATERS OF NORTHERN PUERTO RICO OUT 10 NM",
		headline: "SMALL CRAFT ADVISORY IN EFFECT THROUGH TUESDAY EVENING",
		today: "EAST WINDS 14 TO 18 KNOTS WITH GUSTS UP TO 22 KNOTS. SEAS 4 TO 6 FEET. " +
			"WAVE DETAIL: EAST 5 FEET AT 7 SECONDS AND NORTHEAST 2 FEET AT 11 SECONDS. " +
			"SCATTERED SHOWERS.",
		tonight: "EAST WINDS 10 TO 15 KNOTS. SEAS 4 TO 6 FEET.",
	},
	{
		zone:   domain.ZoneEastPR,
		file:   "data/forecasts/marine/coastal/am/amz726.txt",
		ugc:    "AMZ726",
		waters: "COASTAL WATERS OF EASTERN PUERTO RICO VIEQUES CULEBRA AND ST. JOHN",
		today: "EAST WINDS 10 TO 15 KNOTS. SEAS 3 TO 5 FEET. " +
			"WAVE DETAIL: EAST 4 FEET AT 7 SECONDS. ISOLATED SHOWERS.",
		tonight: "EAST WINDS 8 TO 13 KNOTS. SEAS 3 TO 5 FEET.",
	},
	{
		zone:    domain.ZoneCaribbean,
		file:    "data/forecasts/marine/coastal/am/amz733.txt",
		ugc:     "AMZ733",
		waters:  "CARIBBEAN WATERS OF PUERTO RICO AND ST. CROIX",
		today:   "EAST WINDS 8 TO 12 KNOTS. SEAS 2 TO 4 FEET. MOSTLY SUNNY.",
		tonight: "EAST WINDS 7 TO 11 KNOTS. SEAS 2 TO 4 FEET.",
	},
}

const combinedFile = "data/raw/fz/fzca52.tjsj.cwf.sju.txt"

const gridpointFile = "gridpoints/SJU/98,68/forecast"

const synopsisBody = "A SURFACE HIGH PRESSURE RIDGE NORTH OF THE REGION WILL MAINTAIN " +
	"MODERATE TO FRESH EASTERLY WINDS THROUGH MIDWEEK. A TROPICAL WAVE APPROACHING " +
	"THE LESSER ANTILLES WILL BRING SHOWERS AND ISOLATED THUNDERSTORMS TONIGHT. " +
	"THERE IS A HIGH RISK OF RIP CURRENTS FOR NORTHERN AND WESTERN BEACHES."

const gridpointJSON = `{
  "properties": {
    "periods": [
      {
        "name": "Today",
        "shortForecast": "Scattered Showers And Thunderstorms",
        "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": 45}
      },
      {
        "name": "Tonight",
        "shortForecast": "Isolated Showers",
        "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": 30}
      }
    ]
  }
}
`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "directory to write the fixture tree into")
	dateStr := flag.String("date", "", "fixed bulletin date as YYYY-MM-DD (default: today)")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Freeze the clock when a date is given so headers are reproducible.
	if *dateStr != "" {
		day, err := time.ParseInLocation("2006-01-02", *dateStr, domain.AST)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(day.Add(6 * time.Hour)))
		defer domain.SetClock(nil)
	}

	now := domain.Now().In(domain.AST)

	zones := make(map[domain.Zone]domain.ZoneForecast, len(zoneDefs))
	for _, z := range zoneDefs {
		text := buildZoneBulletin(z, now)
		if err := writeFixture(*outDir, z.file, text); err != nil {
			return fmt.Errorf("writing %s: %w", z.file, err)
		}
		log.Printf("wrote %s (%d bytes)", z.file, len(text))

		// Run the fixture through the real extractor.
		zones[z.zone] = domain.ExtractZoneForecast(text)
	}

	combined := buildCombinedBulletin(now)
	if err := writeFixture(*outDir, combinedFile, combined); err != nil {
		return fmt.Errorf("writing %s: %w", combinedFile, err)
	}
	log.Printf("wrote %s (%d bytes)", combinedFile, len(combined))

	if err := writeFixture(*outDir, gridpointFile, gridpointJSON); err != nil {
		return fmt.Errorf("writing %s: %w", gridpointFile, err)
	}
	log.Printf("wrote %s (%d bytes)", gridpointFile, len(gridpointJSON))

	printExtraction(zones, domain.ExtractSynopsis(combined))
	return nil
}

// buildZoneBulletin assembles one zone's coastal waters forecast with the
// UGC line, product header, optional hazard headline, and the TODAY and
// TONIGHT periods, wrapped at the feed's fixed width.
func buildZoneBulletin(z zoneDef, now time.Time) string {
	var b strings.Builder

	b.WriteString("000\n")
	fmt.Fprintf(&b, "FZCA52 TJSJ %s\n", now.Format("021504"))
	b.WriteString("CWFSJU\n\n")

	fmt.Fprintf(&b, "%s-%s2200-\n", z.ugc, now.Format("02"))
	b.WriteString("COASTAL WATERS FORECAST\n")
	b.WriteString("NATIONAL WEATHER SERVICE SAN JUAN PR\n")
	fmt.Fprintf(&b, "%s\n\n", issuanceLine(now))

	fmt.Fprintf(&b, "%s-\n\n", z.waters)

	if z.headline != "" {
		fmt.Fprintf(&b, "...%s...\n\n", z.headline)
	}

	b.WriteString(wrap(".TODAY..."+z.today, 66) + "\n")
	b.WriteString(wrap(".TONIGHT..."+z.tonight, 66) + "\n\n")
	b.WriteString("$$\n")
	return b.String()
}

// buildCombinedBulletin assembles the multi-zone product carrying the
// .SYNOPSIS block.
func buildCombinedBulletin(now time.Time) string {
	var b strings.Builder

	b.WriteString("000\n")
	fmt.Fprintf(&b, "FZCA52 TJSJ %s\n", now.Format("021504"))
	b.WriteString("CWFSJU\n\n")

	b.WriteString("COASTAL WATERS FORECAST FOR PUERTO RICO AND THE US VIRGIN ISLANDS\n")
	b.WriteString("NATIONAL WEATHER SERVICE SAN JUAN PR\n")
	fmt.Fprintf(&b, "%s\n\n", issuanceLine(now))

	b.WriteString(wrap(".SYNOPSIS..."+synopsisBody, 66) + "\n\n")
	b.WriteString("$$\n")
	return b.String()
}

// issuanceLine formats the product issuance timestamp, e.g.
// "600 AM AST TUE AUG 25 2026".
func issuanceLine(now time.Time) string {
	return strings.ToUpper(now.Format("304 PM AST Mon Jan 2 2006"))
}

// wrap breaks s on word boundaries at the given width, matching the feed's
// fixed-width formatting.
func wrap(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}

func writeFixture(dir, rel, content string) error {
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

// printExtraction reports what the extractor and classifier produce from the
// fixtures, for updating test assertions.
func printExtraction(zones map[domain.Zone]domain.ZoneForecast, synopsis string) {
	fmt.Println("\n=== Extracted fields for updating test assertions ===")
	for _, zone := range domain.ZoneOrder {
		f := zones[zone]
		fmt.Printf("%s:\n", zone)
		fmt.Printf("  Wind: %s\n", f.Wind)
		if f.Gusts != "" {
			fmt.Printf("  Gusts: %s\n", f.Gusts)
		}
		fmt.Printf("  Seas: %s\n", f.Seas)
		if f.WaveDetail != "" {
			fmt.Printf("  WaveDetail: %s\n", f.WaveDetail)
		}
		if f.Advisory != "" {
			fmt.Printf("  Advisory: %s\n", f.Advisory)
		}
		if f.Precip != "" {
			fmt.Printf("  Precip: %s\n", f.Precip)
		}
	}

	fmt.Printf("\nSynopsis: %s\n", synopsis)
	fmt.Printf("Advisories: %v\n", domain.ClassifyAdvisories(zones, synopsis))
	fmt.Printf("Fishing: %s\n", domain.FishingOutlook(zones[domain.ZoneAtlantic].Seas))
}
