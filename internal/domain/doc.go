// Package domain models National Weather Service (NWS) coastal waters
// forecast data for the Puerto Rico and U.S. Virgin Islands marine zones.
//
// # Data Source
//
// Marine forecasts originate from the NWS San Juan office (TJSJ) coastal
// waters forecast (CWF) product, published as plain-text bulletins on
// https://tgftp.nws.noaa.gov/. Each marine zone has its own bulletin file
// under data/forecasts/marine/coastal/am/, and the combined multi-zone
// product (fzca52.tjsj.cwf.sju.txt) carries the shared synopsis section.
//
// # Bulletin Structure
//
// A zone bulletin is uppercase fixed-width text:
//
//	AMZ712-272100-
//	COASTAL WATERS OF NORTHERN PUERTO RICO OUT 10 NM-
//	405 AM AST THU FEB 27 2026
//	...
//	.TODAY...EAST WINDS 15 TO 20 KNOTS. SEAS 4 TO 6 FEET. WAVE DETAIL:
//	EAST 5 FEET AT 6 SECONDS AND NORTHWEST 2 FEET AT 11 SECONDS.
//	SCATTERED SHOWERS.
//	.TONIGHT...EAST WINDS 15 KNOTS. SEAS 4 TO 6 FEET.
//	...
//	$$
//
// Period sections start with a dot-prefixed header (.TODAY..., .TONIGHT...,
// .SATURDAY...). Extraction reads the .TODAY section only; when no period
// header is present the leading portion of the bulletin is scanned instead.
// Segments end with the $$ separator.
//
// # Phrasing Conventions
//
// Wind groups:
//
//	"<direction> winds <n> knots" or "winds <direction> <n> to <m> knots".
//	Directions are the eight compass words (North, Northeast, ...) or their
//	one- and two-letter abbreviations. Rendered on the card as
//	"Northeast 15 to 20 kt".
//
// Gusts:
//
//	"gusts up to <n> knots" → "Gusts to <n> kt".
//
// Seas:
//
//	"seas <n> feet" or "seas <n> to <m> feet" → "4 to 6 ft". Significant
//	wave height, not maximum.
//
// Wave detail:
//
//	An itemised swell breakdown, e.g. "Wave Detail: East 5 feet at 6 seconds
//	and northwest 2 feet at 11 seconds". Compacted per component to
//	"E 5ft@6s + NW 2ft@11s". Components that do not follow the
//	direction/height/period shape are kept verbatim.
//
// Weather:
//
//	Free prose. A fixed keyword priority (thunderstorm before showers before
//	rain, then sky-cover words) picks the sentence shown on the card.
//
// # Headlines
//
// Active hazards appear as an uppercase headline line near the top of a
// bulletin, e.g. "...SMALL CRAFT ADVISORY IN EFFECT THROUGH THURSDAY
// EVENING...". The recognised families, in increasing severity: Small Craft
// Advisory, Gale Warning, Storm Warning, Hurricane Force Wind Warning.
// Headlines outside these families are carried through verbatim. The shared
// synopsis can additionally flag rip current and breaking wave hazards.
//
// # Missing Data
//
// Bulletins are fetched best-effort. A zone whose bulletin is unavailable or
// unrecognisable falls back to placeholder values ("Check NWS" for wind and
// seas, empty for the rest) so a card is still produced. Extraction never
// fails; it degrades field by field.
package domain
