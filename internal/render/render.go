// Package render turns composed card HTML into the final JPEG on disk.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/marine-card/internal/config"
	"github.com/couchcryptid/marine-card/internal/observability"
)

// FixedName is the card filename inside the output directory. It is
// overwritten on every run so downstream posts can link a stable path.
const FixedName = "marine_forecast.jpg"

// minValidBytes separates a rendered card from the near-empty files the
// external renderers leave behind when they fail partway.
const minValidBytes = 5000

// Engine renders an HTML document to raw JPEG bytes.
type Engine interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// NewEngine picks the configured render engine.
func NewEngine(cfg *config.Config, logger *slog.Logger) (Engine, error) {
	switch cfg.Renderer {
	case config.RendererWkhtmltoimage:
		return NewWkhtmlEngine(cfg, logger), nil
	case config.RendererChrome:
		return NewChromeEngine(logger), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
}

// Result describes one written card.
type Result struct {
	Path      string
	DatedPath string
	Bytes     int
}

// Renderer drives an engine and owns the output directory.
type Renderer struct {
	engine    Engine
	outputDir string
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewRenderer(engine Engine, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Renderer {
	return &Renderer{
		engine:    engine,
		outputDir: cfg.OutputDir,
		metrics:   metrics,
		logger:    logger,
	}
}

// RenderCard renders html, validates and finalizes the image, and writes
// the fixed output plus a dated copy for day. Writes go through a temp
// file and rename so a failed run never clobbers the previous card.
func (r *Renderer) RenderCard(ctx context.Context, html string, day time.Time) (*Result, error) {
	start := time.Now()
	defer func() {
		r.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}()

	raw, err := r.engine.Render(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render card: %w", err)
	}
	if len(raw) < minValidBytes {
		return nil, fmt.Errorf("render produced %d bytes, want at least %d", len(raw), minValidBytes)
	}

	final := Finalize(raw, r.logger)

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(r.outputDir, FixedName)
	if err := writeAtomic(path, final); err != nil {
		return nil, fmt.Errorf("write card: %w", err)
	}

	datedPath := filepath.Join(r.outputDir, datedName(day))
	if err := writeAtomic(datedPath, final); err != nil {
		return nil, fmt.Errorf("write dated card: %w", err)
	}

	r.metrics.CardBytes.Set(float64(len(final)))
	r.logger.Info("card written", "path", path, "bytes", len(final))

	return &Result{Path: path, DatedPath: datedPath, Bytes: len(final)}, nil
}

func datedName(day time.Time) string {
	return fmt.Sprintf("marine_forecast_%s.jpg", day.Format("2006-01-02"))
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".card-*.jpg")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
