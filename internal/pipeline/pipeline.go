package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/marine-card/internal/card"
	"github.com/couchcryptid/marine-card/internal/domain"
	"github.com/couchcryptid/marine-card/internal/moon"
	"github.com/couchcryptid/marine-card/internal/observability"
	"github.com/couchcryptid/marine-card/internal/render"
)

// BulletinFetcher retrieves forecast text from the weather service. All
// methods degrade to empty results on failure; the generator fills in
// placeholders.
type BulletinFetcher interface {
	FetchBulletin(ctx context.Context, zone domain.Zone) string
	FetchSynopsisText(ctx context.Context) string
	FetchRainChance(ctx context.Context) *int
}

// Composer renders extracted forecast data into the card document.
type Composer interface {
	Compose(in card.Input) (string, error)
}

// CardRenderer turns the document into the JPEG on disk.
type CardRenderer interface {
	RenderCard(ctx context.Context, html string, day time.Time) (*render.Result, error)
}

// RunArchiver persists run records.
type RunArchiver interface {
	RecordRun(ctx context.Context, rec domain.RunRecord) error
}

// RunPublisher announces run records downstream.
type RunPublisher interface {
	PublishRunRecord(ctx context.Context, rec domain.RunRecord) error
}

// Deps wires the generator's stages. Archiver and Publisher may be nil
// when those sinks are disabled.
type Deps struct {
	Fetcher   BulletinFetcher
	Composer  Composer
	Renderer  CardRenderer
	Archiver  RunArchiver
	Publisher RunPublisher
}

// Generator orchestrates one fetch-extract-compose-render cycle.
type Generator struct {
	fetcher    BulletinFetcher
	composer   Composer
	renderer   CardRenderer
	archiver   RunArchiver
	publisher  RunPublisher
	logger     *slog.Logger
	metrics    *observability.Metrics
	interval   time.Duration
	ready      atomic.Bool
	latestHTML atomic.Value
}

// New creates a Generator with the given stages and observability.
func New(deps Deps, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Generator {
	return &Generator{
		fetcher:   deps.Fetcher,
		composer:  deps.Composer,
		renderer:  deps.Renderer,
		archiver:  deps.Archiver,
		publisher: deps.Publisher,
		logger:    logger,
		metrics:   metrics,
		interval:  interval,
	}
}

// CheckReadiness returns nil once the generator has written at least one
// card, or an error describing why the service is not yet ready.
func (g *Generator) CheckReadiness(_ context.Context) error {
	if !g.ready.Load() {
		return errors.New("no card generated yet")
	}
	return nil
}

// LatestHTML returns the most recently composed card document, or the
// empty string before the first run.
func (g *Generator) LatestHTML() string {
	html, _ := g.latestHTML.Load().(string)
	return html
}

// Run generates one card end to end. Fetch failures degrade to placeholder
// fields and the run still succeeds; only composing or rendering failures
// abort it.
func (g *Generator) Run(ctx context.Context) (*domain.RunRecord, error) {
	start := time.Now()
	status := "success"
	defer func() {
		g.metrics.RunsTotal.WithLabelValues(status).Inc()
		g.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	dateStr := domain.CardDate()
	timeStr := domain.CardTime()
	g.logger.Info("generation run started", "card_date", dateStr)

	synopsis := domain.ExtractSynopsis(g.fetcher.FetchSynopsisText(ctx))

	zones := make(map[domain.Zone]domain.ZoneForecast, len(domain.ZoneOrder))
	for _, z := range domain.ZoneOrder {
		zf := domain.ExtractZoneForecast(g.fetcher.FetchBulletin(ctx, z))
		zones[z] = zf
		g.logger.Info("zone parsed", "zone", string(z), "wind", zf.Wind, "seas", zf.Seas)
	}

	advisories := domain.ClassifyAdvisories(zones, synopsis)
	g.metrics.AdvisoriesActive.Set(float64(activeAdvisories(advisories)))

	phase := moon.At(domain.Now())
	rain := g.fetcher.FetchRainChance(ctx)

	html, err := g.composer.Compose(card.Input{
		DateStr:    dateStr,
		TimeStr:    timeStr,
		Zones:      zones,
		Advisories: advisories,
		Synopsis:   synopsis,
		Moon:       phase,
		RainChance: rain,
	})
	if err != nil {
		status = "failure"
		return nil, fmt.Errorf("compose card: %w", err)
	}
	g.latestHTML.Store(html)

	res, err := g.renderer.RenderCard(ctx, html, domain.Now().In(domain.AST))
	if err != nil {
		status = "failure"
		return nil, err
	}

	rec := domain.RunRecord{
		GeneratedAt:  domain.Now().UTC(),
		CardDate:     dateStr,
		Advisories:   advisories,
		Synopsis:     synopsis,
		Zones:        zones,
		MoonPhase:    phase.Name,
		Illumination: phase.Illumination,
		RainChance:   rain,
		OutputPath:   res.Path,
		ImageBytes:   res.Bytes,
	}

	if g.archiver != nil {
		if err := g.archiver.RecordRun(ctx, rec); err != nil {
			g.logger.Warn("archive run failed", "error", err)
		}
	}
	if g.publisher != nil {
		if err := g.publisher.PublishRunRecord(ctx, rec); err != nil {
			g.logger.Warn("publish run failed", "error", err)
		}
	}

	g.ready.Store(true)
	g.logger.Info("card generated", "path", res.Path, "bytes", res.Bytes, "advisories", advisories)
	return &rec, nil
}

// RunLoop generates a card immediately, then again on every interval until
// the context is cancelled. A failed run is retried at the next interval.
// With no interval configured it generates once and then waits for
// cancellation so the HTTP endpoints stay up.
func (g *Generator) RunLoop(ctx context.Context) error {
	g.logger.Info("generator started", "interval", g.interval)
	g.metrics.GeneratorRunning.Set(1)
	defer g.metrics.GeneratorRunning.Set(0)

	for {
		if _, err := g.Run(ctx); err != nil && ctx.Err() == nil {
			g.logger.Error("generation run failed", "error", err)
		}

		if g.interval <= 0 {
			<-ctx.Done()
			g.logger.Info("generator stopping", "reason", ctx.Err())
			return nil
		}
		if !sleepWithContext(ctx, g.interval) {
			g.logger.Info("generator stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// activeAdvisories counts real advisories, excluding the all-clear line.
func activeAdvisories(labels []string) int {
	if len(labels) == 1 && labels[0] == domain.NoActiveAdvisories {
		return 0
	}
	return len(labels)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
