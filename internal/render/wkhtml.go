package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/couchcryptid/marine-card/internal/config"
)

// WkhtmlEngine shells out to wkhtmltoimage.
type WkhtmlEngine struct {
	path   string
	logger *slog.Logger
}

func NewWkhtmlEngine(cfg *config.Config, logger *slog.Logger) *WkhtmlEngine {
	return &WkhtmlEngine{path: cfg.WkhtmltoimagePath, logger: logger}
}

// Render writes html to a temp file and converts it with wkhtmltoimage.
// wkhtmltoimage exits non-zero for benign font and network warnings even
// when the image renders fine, so the exit code is ignored and the output
// file decides.
func (e *WkhtmlEngine) Render(ctx context.Context, html string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "marine-card-")
	if err != nil {
		return nil, fmt.Errorf("create render workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	htmlPath := filepath.Join(dir, "card.html")
	jpgPath := filepath.Join(dir, "card_raw.jpg")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("write render input: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.path,
		"--width", "1080", "--height", "1080",
		"--quality", "95", "--log-level", "none",
		"--format", "jpg", htmlPath, jpgPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		e.logger.Debug("wkhtmltoimage exited with error", "error", err, "output", string(out))
	}

	raw, err := os.ReadFile(jpgPath)
	if err != nil {
		return nil, fmt.Errorf("wkhtmltoimage produced no image: %w", err)
	}
	return raw, nil
}
