// Package card composes the forecast card HTML from extracted zone data.
package card

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"github.com/Masterminds/sprig/v3"
	"github.com/tdewolff/minify/v2"
	mcss "github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"

	"github.com/couchcryptid/marine-card/internal/config"
	"github.com/couchcryptid/marine-card/internal/domain"
	"github.com/couchcryptid/marine-card/internal/moon"
)

//go:embed card.gohtml
var cardTemplate string

// Advisory banner gradients: red when a warning or advisory is active,
// green otherwise.
const (
	alertActiveBG = "#8b0000, #cc1616, #8b0000"
	alertNormalBG = "#0a4a00, #0c7a00, #0a4a00"
)

// fallbackSynopsis fills the synopsis panel when extraction came up empty.
const fallbackSynopsis = "Synopsis unavailable — visit weather.gov/sju for current marine forecast."

// zoneClasses pick each grid column's accent colour.
var zoneClasses = map[domain.Zone]string{
	domain.ZoneAtlantic:  "z1",
	domain.ZoneNorthPR:   "z2",
	domain.ZoneEastPR:    "z3",
	domain.ZoneCaribbean: "z4",
}

// zoneNames are the grid column captions. They carry their own markup, so
// they live here rather than in config.
var zoneNames = map[domain.Zone]template.HTML{
	domain.ZoneAtlantic:  "Atlantic Offshore<br>(10NM &ndash; 19.5&deg;N)",
	domain.ZoneNorthPR:   "Northern PR Coast<br>(out 10 NM)",
	domain.ZoneEastPR:    "East PR / Vieques<br>Culebra &amp; St. John",
	domain.ZoneCaribbean: "Caribbean Waters<br>PR + St. Croix",
}

// Input carries one run's extracted data into the template.
type Input struct {
	DateStr    string
	TimeStr    string
	Zones      map[domain.Zone]domain.ZoneForecast
	Advisories []string
	Synopsis   string
	Moon       moon.Phase
	RainChance *int
}

// Composer renders card HTML. It loads the logo and parses the template
// once, then serves any number of Compose calls.
type Composer struct {
	brand     string
	subtitle  string
	footerURL string
	logo      template.URL
	tmpl      *template.Template
	minifier  *minify.M
	logger    *slog.Logger
}

// NewComposer parses the card template and loads the logo.
func NewComposer(cfg *config.Config, logger *slog.Logger) (*Composer, error) {
	tmpl, err := template.New("card").Funcs(sprig.HtmlFuncMap()).Parse(cardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse card template: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)
	m.AddFunc("text/css", mcss.Minify)

	return &Composer{
		brand:     cfg.CardBrand,
		subtitle:  cfg.CardSubtitle,
		footerURL: cfg.CardFooter,
		logo:      loadLogo(cfg, logger),
		tmpl:      tmpl,
		minifier:  m,
		logger:    logger,
	}, nil
}

// Compose renders the card HTML for one run and minifies it so the
// renderer sees a stable single-line document.
func (c *Composer) Compose(in Input) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, c.buildData(in)); err != nil {
		return "", fmt.Errorf("execute card template: %w", err)
	}

	out, err := c.minifier.String("text/html", buf.String())
	if err != nil {
		c.logger.Warn("minify failed, using unminified html", "error", err)
		return buf.String(), nil
	}
	return out, nil
}

func (c *Composer) buildData(in Input) templateData {
	zones := make([]zoneView, 0, len(domain.ZoneOrder))
	for _, z := range domain.ZoneOrder {
		zones = append(zones, zoneView{
			Class:        zoneClasses[z],
			Name:         zoneNames[z],
			ZoneForecast: zoneOrDefault(in.Zones, z),
		})
	}

	atl := zoneOrDefault(in.Zones, domain.ZoneAtlantic)
	car := zoneOrDefault(in.Zones, domain.ZoneCaribbean)

	alertBG := alertNormalBG
	if domain.HasWarningLabel(in.Advisories) {
		alertBG = alertActiveBG
	}

	synopsis := in.Synopsis
	if synopsis == "" {
		synopsis = fallbackSynopsis
	}

	rainText := "—"
	if in.RainChance != nil {
		rainText = fmt.Sprintf("%d%%", *in.RainChance)
	}

	return templateData{
		Brand:      c.brand,
		Subtitle:   c.subtitle,
		DateStr:    in.DateStr,
		TimeStr:    in.TimeStr,
		Logo:       c.logo,
		AlertBG:    template.CSS(alertBG),
		Advisories: in.Advisories,
		Zones:      zones,
		Atlantic:   atl,
		Caribbean:  car,
		Fishing:    domain.FishingOutlook(atl.Seas),
		Synopsis:   synopsis,
		RainText:   rainText,
		MoonName:   in.Moon.Name,
		MoonIllum:  in.Moon.Illumination,
		MoonSVG:    template.HTML(moon.DiscSVG(in.Moon, 64)),
		FooterURL:  c.footerURL,
	}
}

// zoneOrDefault returns the forecast for z, or the placeholder forecast
// when the zone is missing so the card never renders blank cells.
func zoneOrDefault(zones map[domain.Zone]domain.ZoneForecast, z domain.Zone) domain.ZoneForecast {
	if zf, ok := zones[z]; ok {
		return zf
	}
	return domain.DefaultZoneForecast()
}

// loadLogo reads the configured or discovered logo file as a data URI.
// A missing logo is not an error; the header falls back to a spacer.
func loadLogo(cfg *config.Config, logger *slog.Logger) template.URL {
	candidates := []string{cfg.LogoPath}
	if cfg.LogoPath == "" {
		parent := filepath.Dir(cfg.OutputDir)
		candidates = []string{
			"logo.jpg",
			"logo.png",
			filepath.Join(parent, "logo.jpg"),
			filepath.Join(parent, "logo.png"),
		}
	}

	for _, p := range candidates {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		mime := "image/jpeg"
		if strings.HasSuffix(p, ".png") {
			mime = "image/png"
		}
		logger.Info("logo loaded", "path", p)
		return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b))
	}

	logger.Warn("no logo found, header will use a spacer")
	return ""
}

// templateData is the card template's dot.
type templateData struct {
	Brand      string
	Subtitle   string
	DateStr    string
	TimeStr    string
	Logo       template.URL
	AlertBG    template.CSS
	Advisories []string
	Zones      []zoneView
	Atlantic   domain.ZoneForecast
	Caribbean  domain.ZoneForecast
	Fishing    string
	Synopsis   string
	RainText   string
	MoonName   string
	MoonIllum  int
	MoonSVG    template.HTML
	FooterURL  string
}

type zoneView struct {
	Class string
	Name  template.HTML
	domain.ZoneForecast
}
