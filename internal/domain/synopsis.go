package domain

import "regexp"

var (
	// synopsisHeaderRe captures the body of a ".SYNOPSIS..." section up to
	// the next dot-header or segment separator.
	synopsisHeaderRe = regexp.MustCompile(`(?is)\.SYNOPSIS\.\.\.(.+?)(?:\n\.[A-Z]|\$\$|$)`)

	// synopsisKeywordRe is the looser fallback: any line mentioning SYNOPSIS,
	// capturing the following lines up to a zone code, segment separator or
	// forecast-office line.
	synopsisKeywordRe = regexp.MustCompile(`(?is)SYNOPSIS[^\n]*\n(.+?)(?:\n[A-Z]{3}[0-9]|\$\$|\nAMZ|$)`)
)

// synopsisMaxLen bounds the synopsis text so it fits the card panel.
const synopsisMaxLen = 420

// ExtractSynopsis pulls the shared synopsis paragraph out of the combined
// coastal waters product. Returns "" when no synopsis section is found.
func ExtractSynopsis(text string) string {
	for _, re := range []*regexp.Regexp{synopsisHeaderRe, synopsisKeywordRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return truncate(collapseSpaces(m[1]), synopsisMaxLen)
		}
	}
	return ""
}
