package extract

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Engine runs one OCR invocation against one image variant. Implementations
// must be safe to call from the tight per-variant loop: every call is
// independent and no state may leak between invocations.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, pass PassConfig) (string, error)
}

// TesseractEngine recognizes text with a local Tesseract install via
// gosseract. A fresh client is created and closed per call, so the engine is
// reentrant across concurrent extractions.
type TesseractEngine struct{}

func (TesseractEngine) Recognize(ctx context.Context, img image.Image, pass PassConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp("", "extract-*.png")
	if err != nil {
		return "", fmt.Errorf("stage variant: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(path)
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("stage variant: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if pass.Lang != "" {
		if err := client.SetLanguage(strings.Split(pass.Lang, "+")...); err != nil {
			return "", fmt.Errorf("set language %q: %w", pass.Lang, err)
		}
	}
	if pass.Whitelist != "" {
		if err := client.SetWhitelist(pass.Whitelist); err != nil {
			return "", fmt.Errorf("set whitelist: %w", err)
		}
	}
	if pass.PageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(pass.PageSegMode)); err != nil {
			return "", fmt.Errorf("set psm: %w", err)
		}
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return text, nil
}
