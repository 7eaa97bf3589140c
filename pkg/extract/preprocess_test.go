package extract

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

// testImageBytes renders a small synthetic screenshot: light background with
// a dark block, enough structure for the transforms to act on.
func testImageBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(320, 240, color.NRGBA{235, 235, 235, 255})
	for y := 80; y < 120; y++ {
		for x := 40; x < 280; x++ {
			img.Set(x, y, color.NRGBA{30, 30, 30, 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestPreprocessVariantSet(t *testing.T) {
	variants, err := Preprocess(testImageBytes(t), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLabels := []string{"grayscale", "adaptive-threshold", "equalized", "otsu", "bilateral-otsu"}
	if len(variants) != len(wantLabels) {
		t.Fatalf("got %d variants want %d", len(variants), len(wantLabels))
	}
	for i, v := range variants {
		if v.Label != wantLabels[i] {
			t.Errorf("variant %d label %q want %q", i, v.Label, wantLabels[i])
		}
		if v.Image == nil {
			t.Errorf("variant %q has nil image", v.Label)
		}
	}
}

func TestPreprocessDecodeError(t *testing.T) {
	_, err := Preprocess([]byte("definitely not an image"), DefaultConfig())
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestPreprocessUpscalesSmallSources(t *testing.T) {
	variants, err := Preprocess(testImageBytes(t), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	// 240 px source is below the 900 px floor, so the baseline is doubled.
	if h := variants[0].Image.Bounds().Dy(); h != 480 {
		t.Fatalf("baseline height %d want 480", h)
	}
}

func TestPreprocessDeterministic(t *testing.T) {
	data := testImageBytes(t)
	a, err := Preprocess(data, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Preprocess(data, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		pa := imaging.Clone(a[i].Image).Pix
		pb := imaging.Clone(b[i].Image).Pix
		if !bytes.Equal(pa, pb) {
			t.Fatalf("variant %q differs between runs", a[i].Label)
		}
	}
}

func TestThresholdVariantsAreBinary(t *testing.T) {
	variants, err := Preprocess(testImageBytes(t), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range variants {
		if v.Label != "adaptive-threshold" && v.Label != "otsu" && v.Label != "bilateral-otsu" {
			continue
		}
		pix := imaging.Clone(v.Image).Pix
		for i := 0; i < len(pix); i += 4 {
			if pix[i] != 0 && pix[i] != 255 {
				t.Fatalf("variant %q has non-binary pixel value %d", v.Label, pix[i])
			}
		}
	}
}
