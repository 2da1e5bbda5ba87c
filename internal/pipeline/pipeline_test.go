package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/marine-card/internal/card"
	"github.com/couchcryptid/marine-card/internal/config"
	"github.com/couchcryptid/marine-card/internal/domain"
	"github.com/couchcryptid/marine-card/internal/observability"
	"github.com/couchcryptid/marine-card/internal/pipeline"
	"github.com/couchcryptid/marine-card/internal/render"
)

// --- fixtures ---

const testBulletinStrong = `AMZ712-252100-
COASTAL WATERS FORECAST
NATIONAL WEATHER SERVICE SAN JUAN PR
1003 AM AST MON AUG 25 2026

...SMALL CRAFT ADVISORY IN EFFECT THROUGH TUESDAY EVENING...

.TODAY...EAST WINDS 15 TO 20 KNOTS WITH GUSTS UP TO 25 KNOTS. SEAS 4 TO 6 FEET. WAVE DETAIL: EAST 5 FEET AT 6 SECONDS AND NORTHEAST 2 FEET AT 11 SECONDS. SCATTERED SHOWERS.
.TONIGHT...EAST WINDS 12 TO 17 KNOTS. SEAS 3 TO 5 FEET.
$$
`

const testBulletinMild = `AMZ733-252100-
COASTAL WATERS FORECAST
NATIONAL WEATHER SERVICE SAN JUAN PR

.TODAY...EAST WINDS 10 TO 15 KNOTS. SEAS 3 TO 5 FEET. MOSTLY SUNNY.
.TONIGHT...EAST WINDS 10 KNOTS. SEAS 3 FEET.
$$
`

const testCombinedText = `FZCA52 TJSJ 251003
CWFSJU

.SYNOPSIS...HIGH PRESSURE NORTH OF THE AREA MAINTAINS MODERATE EAST WINDS. THERE IS A HIGH RIP CURRENT RISK FOR NORTHERN BEACHES.

.ATLANTIC WATERS FROM 10NM TO 19.5N...
`

// --- mocks ---

type mockFetcher struct {
	bulletins map[domain.Zone]string
	synopsis  string
	rain      *int
}

func (m *mockFetcher) FetchBulletin(_ context.Context, zone domain.Zone) string {
	return m.bulletins[zone]
}

func (m *mockFetcher) FetchSynopsisText(_ context.Context) string { return m.synopsis }

func (m *mockFetcher) FetchRainChance(_ context.Context) *int { return m.rain }

type mockArchiver struct {
	mu   sync.Mutex
	recs []domain.RunRecord
	err  error
}

func (m *mockArchiver) RecordRun(_ context.Context, rec domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return m.err
}

func (m *mockArchiver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

type mockPublisher struct {
	mu   sync.Mutex
	recs []domain.RunRecord
	err  error
}

func (m *mockPublisher) PublishRunRecord(_ context.Context, rec domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return m.err
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

type stubEngine struct {
	out []byte
	err error
}

func (s *stubEngine) Render(context.Context, string) ([]byte, error) { return s.out, s.err }

type testRig struct {
	gen       *pipeline.Generator
	outputDir string
	archiver  *mockArchiver
	publisher *mockPublisher
}

func newTestGenerator(t *testing.T, fetcher pipeline.BulletinFetcher, engine render.Engine, interval time.Duration) *testRig {
	t.Helper()

	cfg := &config.Config{
		OutputDir:    t.TempDir(),
		CardBrand:    "PR Marine Weather",
		CardSubtitle: "Marine Forecast — PR & USVI",
		CardFooter:   "weather.gov/sju",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	composer, err := card.NewComposer(cfg, logger)
	require.NoError(t, err)

	archiver := &mockArchiver{}
	publisher := &mockPublisher{}
	gen := pipeline.New(pipeline.Deps{
		Fetcher:   fetcher,
		Composer:  composer,
		Renderer:  render.NewRenderer(engine, cfg, metrics, logger),
		Archiver:  archiver,
		Publisher: publisher,
	}, logger, metrics, interval)

	return &testRig{gen: gen, outputDir: cfg.OutputDir, archiver: archiver, publisher: publisher}
}

// --- tests ---

func TestGeneratorRun_EndToEnd(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	rain := 40
	fetcher := &mockFetcher{
		bulletins: map[domain.Zone]string{
			domain.ZoneAtlantic:  testBulletinStrong,
			domain.ZoneNorthPR:   testBulletinStrong,
			domain.ZoneEastPR:    "NO FORECAST DATA",
			domain.ZoneCaribbean: testBulletinMild,
		},
		synopsis: testCombinedText,
		rain:     &rain,
	}
	rig := newTestGenerator(t, fetcher, &stubEngine{out: bytes.Repeat([]byte{0xAB}, 6000)}, 0)

	require.Error(t, rig.gen.CheckReadiness(context.Background()))

	rec, err := rig.gen.Run(context.Background())
	require.NoError(t, err)

	// 14:30 UTC is 10:30 AM AST on the same day.
	assert.Equal(t, "AUG 25", rec.CardDate)
	assert.True(t, rec.GeneratedAt.Equal(time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, []string{"Rip Currents", "Small Craft Advisory"}, rec.Advisories)
	assert.Contains(t, rec.Synopsis, "HIGH RIP CURRENT RISK")
	require.NotNil(t, rec.RainChance)
	assert.Equal(t, 40, *rec.RainChance)
	assert.NotEmpty(t, rec.MoonPhase)
	assert.GreaterOrEqual(t, rec.Illumination, 0)
	assert.LessOrEqual(t, rec.Illumination, 100)
	assert.Equal(t, 6000, rec.ImageBytes)

	strongZone := domain.ZoneForecast{
		Wind:       "EAST 15 TO 20 kt",
		Gusts:      "Gusts to 25 kt",
		Seas:       "4 TO 6 ft",
		WaveDetail: "E 5ft@6s + NE 2ft@11s",
		Advisory:   "Small Craft Advisory In Effect Through Tuesday Evening...",
		Precip:     "SCATTERED SHOWERS.",
	}
	wantZones := map[domain.Zone]domain.ZoneForecast{
		domain.ZoneAtlantic:  strongZone,
		domain.ZoneNorthPR:   strongZone,
		domain.ZoneEastPR:    domain.DefaultZoneForecast(),
		domain.ZoneCaribbean: {Wind: "EAST 10 TO 15 kt", Seas: "3 TO 5 ft", Precip: "MOSTLY SUNNY."},
	}
	if diff := cmp.Diff(wantZones, rec.Zones); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(filepath.Join(rig.outputDir, "marine_forecast.jpg"))
	require.NoError(t, err)
	assert.Equal(t, int64(6000), info.Size())
	_, err = os.Stat(filepath.Join(rig.outputDir, "marine_forecast_2026-08-25.jpg"))
	assert.NoError(t, err)

	assert.Equal(t, 1, rig.archiver.count())
	assert.Equal(t, 1, rig.publisher.count())
	assert.Contains(t, rig.gen.LatestHTML(), "Rip Currents | Small Craft Advisory")
	assert.Contains(t, rig.gen.LatestHTML(), "10:30 AM AST")
	assert.NoError(t, rig.gen.CheckReadiness(context.Background()))
}

func TestGeneratorRun_DegradesWhenAllFetchesFail(t *testing.T) {
	rig := newTestGenerator(t, &mockFetcher{}, &stubEngine{out: bytes.Repeat([]byte{0xCD}, 6000)}, 0)

	rec, err := rig.gen.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{domain.NoActiveAdvisories}, rec.Advisories)
	assert.Empty(t, rec.Synopsis)
	assert.Nil(t, rec.RainChance)
	for _, z := range domain.ZoneOrder {
		assert.Equal(t, domain.DefaultZoneForecast(), rec.Zones[z])
	}

	_, err = os.Stat(filepath.Join(rig.outputDir, "marine_forecast.jpg"))
	assert.NoError(t, err)
}

func TestGeneratorRun_RenderFailureAbortsRun(t *testing.T) {
	rig := newTestGenerator(t, &mockFetcher{}, &stubEngine{out: make([]byte, 100)}, 0)

	_, err := rig.gen.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, 0, rig.archiver.count())
	assert.Equal(t, 0, rig.publisher.count())
	assert.Error(t, rig.gen.CheckReadiness(context.Background()))

	// The document was composed before the render failed, so it is still
	// available for inspection.
	assert.NotEmpty(t, rig.gen.LatestHTML())
}

func TestGeneratorRun_SinkFailuresDoNotAbortRun(t *testing.T) {
	rig := newTestGenerator(t, &mockFetcher{}, &stubEngine{out: bytes.Repeat([]byte{0xEF}, 6000)}, 0)
	rig.archiver.err = errors.New("db locked")
	rig.publisher.err = errors.New("broker down")

	rec, err := rig.gen.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.NoError(t, rig.gen.CheckReadiness(context.Background()))
}

func TestRunLoop_GeneratesOnInterval(t *testing.T) {
	rig := newTestGenerator(t, &mockFetcher{}, &stubEngine{out: bytes.Repeat([]byte{0x01}, 6000)}, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rig.gen.RunLoop(ctx) }()

	require.Eventually(t, func() bool { return rig.archiver.count() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunLoop did not stop after cancel")
	}
}
