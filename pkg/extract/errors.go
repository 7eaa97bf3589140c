package extract

import "errors"

// ErrDecode is returned when the input bytes cannot be decoded as an image.
var ErrDecode = errors.New("image cannot be decoded")

// ErrNoText is returned when every OCR pass failed or produced output below
// the minimum content threshold. This is an expected outcome for illegible
// photos, not an I/O failure.
var ErrNoText = errors.New("no text recognized")
