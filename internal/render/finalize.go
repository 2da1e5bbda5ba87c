package render

import (
	"bytes"
	"image"
	"image/jpeg"
	"log/slog"

	"golang.org/x/image/draw"
)

// Raw renders come back taller than the card area, so the finalizer keeps
// the top cardCrop rows and scales them back to the square output.
const (
	cardSize    = 1080
	cardCrop    = 730
	jpegQuality = 95
)

// Finalize crops and resizes a raw render into the final card image. Input
// that does not decode is returned untouched so a working raw render is
// never lost to a post-processing failure.
func Finalize(raw []byte, logger *slog.Logger) []byte {
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		logger.Warn("finalize skipped, keeping raw render", "error", err)
		return raw
	}

	b := img.Bounds()
	w := b.Dx()
	if w > cardSize {
		w = cardSize
	}
	h := b.Dy()
	if h > cardCrop {
		h = cardCrop
	}
	src := image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h)

	dst := image.NewRGBA(image.Rect(0, 0, cardSize, cardSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		logger.Warn("finalize encode failed, keeping raw render", "error", err)
		return raw
	}
	return buf.Bytes()
}
