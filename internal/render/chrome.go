package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ChromeEngine renders with a headless Chrome over the DevTools protocol.
// It launches a fresh browser per render; the generator runs at most once
// per interval, so there is nothing to pool.
type ChromeEngine struct {
	logger *slog.Logger
}

func NewChromeEngine(logger *slog.Logger) *ChromeEngine {
	return &ChromeEngine{logger: logger}
}

func (e *ChromeEngine) Render(ctx context.Context, html string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "marine-card-")
	if err != nil {
		return nil, fmt.Errorf("create render workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	htmlPath := filepath.Join(dir, "card.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("write render input: %w", err)
	}

	l := launcher.New().Headless(true)
	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(wsURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1080,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.Context(ctx).Navigate("file://" + htmlPath); err != nil {
		return nil, fmt.Errorf("navigate to card: %w", err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for card load: %w", err)
	}

	quality := 95
	raw, err := page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot card: %w", err)
	}

	e.logger.Debug("chrome render complete", "bytes", len(raw))
	return raw, nil
}
