// Package extract turns a photographed tennis-court booking confirmation
// into a (date, time range, court number) triple. It preprocesses the image
// into several variants, OCRs each variant under several configurations,
// folds the surviving outputs into one text blob and scans it with ordered
// pattern families per field.
//
// Everything is call-scoped: the pipeline holds no mutable state and is safe
// for concurrent extractions as long as the Engine is.
package extract

import (
	"context"
	"log"
)

// Pipeline is a configured extraction pipeline bound to an OCR engine.
type Pipeline struct {
	cfg Config
	eng Engine
}

// NewPipeline builds a pipeline. Zero-value Config fields fall back to
// DefaultConfig; a nil engine falls back to the local Tesseract engine.
func NewPipeline(cfg Config, eng Engine) *Pipeline {
	if eng == nil {
		eng = TesseractEngine{}
	}
	return &Pipeline{cfg: cfg.normalized(), eng: eng}
}

// Config returns the normalized pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// ExtractFromBytes runs the whole pipeline on raw image bytes. The hint is
// optional caption text used only as a field-level fallback.
//
// The second return value is the diagnostic combined OCR text ("what was
// read"), present whenever at least one pass survived. Errors are ErrDecode
// for an unusable image and ErrNoText when every pass came back empty or
// sub-threshold; field absence is reported through BookingInfo, not errors.
func (p *Pipeline) ExtractFromBytes(ctx context.Context, data []byte, hint string) (BookingInfo, string, error) {
	variants, err := Preprocess(data, p.cfg)
	if err != nil {
		return BookingInfo{}, "", err
	}
	combined, err := Recognize(ctx, p.eng, variants, p.cfg)
	if err != nil {
		return BookingInfo{}, "", err
	}
	info := ExtractFields(combined, hint, p.cfg)
	log.Printf("extract: date=%q time=%q court=%q text=%q", info.Date, info.Time, info.Court, snippet(combined, 140))
	return info, combined, nil
}
