package extract

import "time"

// PassConfig describes one OCR configuration applied to every image variant.
type PassConfig struct {
	Label string
	// Tesseract language spec, e.g. "eng" or "eng+heb".
	Lang string
	// Optional character whitelist. Empty means unconstrained.
	Whitelist string
	// Tesseract page segmentation mode. 0 keeps the engine default.
	PageSegMode int
}

// PinnedValues lets a deployment pin known recurring values for a fixed
// venue. An exact substring hit short-circuits pattern matching for that
// field. All empty by default.
type PinnedValues struct {
	Dates  []string
	Times  []string
	Courts []string
}

// Config enumerates every knob of the extraction pipeline. The source of
// truth for defaults is DefaultConfig; zero values are normalized there.
type Config struct {
	// Ordered image transforms. Each produces one OCR candidate variant.
	Transforms []Transform
	// OCR configurations run against every variant, in order.
	Passes []PassConfig
	// Minimum trimmed length for a pass output to survive into the
	// combined text.
	MinContent int
	// Plausible court number range for the standalone-number fallback.
	CourtMin, CourtMax int
	// Deployment-pinned literal values.
	Pinned PinnedValues
	// Wall-clock budget for the whole multi-pass loop. Passes already
	// collected when the budget runs out are kept.
	Budget time.Duration
	// Variants whose source height is below this floor are upscaled 2x
	// before transforming.
	UpscaleFloor int
}

// DefaultConfig returns the pipeline configuration used in production.
func DefaultConfig() Config {
	return Config{
		Transforms: DefaultTransforms(),
		Passes: []PassConfig{
			{Label: "full", Lang: "eng+heb"},
			{Label: "digits", Lang: "eng", Whitelist: "0123456789/:.- "},
		},
		MinContent:   10,
		CourtMin:     1,
		CourtMax:     25,
		Budget:       25 * time.Second,
		UpscaleFloor: 900,
	}
}

// normalized fills zero values with defaults so a partially populated
// Config still behaves.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if len(c.Transforms) == 0 {
		c.Transforms = d.Transforms
	}
	if len(c.Passes) == 0 {
		c.Passes = d.Passes
	}
	if c.MinContent <= 0 {
		c.MinContent = d.MinContent
	}
	if c.CourtMin <= 0 {
		c.CourtMin = d.CourtMin
	}
	if c.CourtMax <= 0 {
		c.CourtMax = d.CourtMax
	}
	if c.Budget <= 0 {
		c.Budget = d.Budget
	}
	if c.UpscaleFloor <= 0 {
		c.UpscaleFloor = d.UpscaleFloor
	}
	return c
}
