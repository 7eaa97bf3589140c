package extract

import (
	"context"
	"log"
	"strings"
	"time"
)

// Recognize runs the engine once per (variant, pass config) pair, variant
// order first, and joins the surviving outputs into one combined text blob.
//
// A failing pass is logged and skipped; it never aborts the batch. If no
// pass clears the minimum content threshold the result is ErrNoText and no
// combined text is constructed. Once the wall-clock budget runs out the
// remaining passes are skipped but outputs already collected are kept.
func Recognize(ctx context.Context, eng Engine, variants []Variant, cfg Config) (string, error) {
	cfg = cfg.normalized()
	deadline := time.Now().Add(cfg.Budget)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	var parts []string
	attempted := 0
loop:
	for _, v := range variants {
		for _, p := range cfg.Passes {
			if !time.Now().Before(deadline) || ctx.Err() != nil {
				log.Printf("extract: budget exhausted after %d passes, keeping %d outputs", attempted, len(parts))
				break loop
			}
			attempted++
			text, err := eng.Recognize(ctx, v.Image, p)
			if err != nil {
				log.Printf("extract: pass %s/%s failed: %v", v.Label, p.Label, err)
				continue
			}
			text = normalizeText(text)
			if len(strings.TrimSpace(text)) <= cfg.MinContent {
				log.Printf("extract: pass %s/%s below threshold (%d chars)", v.Label, p.Label, len(strings.TrimSpace(text)))
				continue
			}
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoText
	}
	combined := strings.Join(parts, "\n")
	log.Printf("extract: %d of %d passes survived, combined %d chars", len(parts), attempted, len(combined))
	return combined, nil
}
