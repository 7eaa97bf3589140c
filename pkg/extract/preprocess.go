package extract

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Variant is one deterministic transform of the source image, produced per
// extraction call and discarded after its OCR passes complete.
type Variant struct {
	Label string
	Image image.Image
}

// Transform produces one variant from the shared grayscale baseline. Apply
// must be pure: same input, same output.
type Transform struct {
	Label string
	Apply func(base *image.NRGBA) image.Image
}

// DefaultTransforms returns the production transform set in order. Ordering
// only decides which duplicate candidate wins ties downstream; all entries
// are attempted.
func DefaultTransforms() []Transform {
	return []Transform{
		{Label: "grayscale", Apply: func(base *image.NRGBA) image.Image {
			return base
		}},
		{Label: "adaptive-threshold", Apply: func(base *image.NRGBA) image.Image {
			return adaptiveThreshold(base, 15, 7)
		}},
		{Label: "equalized", Apply: func(base *image.NRGBA) image.Image {
			return equalizeHistogram(base)
		}},
		{Label: "otsu", Apply: func(base *image.NRGBA) image.Image {
			return otsuThreshold(imaging.Blur(base, 1.2))
		}},
		{Label: "bilateral-otsu", Apply: func(base *image.NRGBA) image.Image {
			return otsuThreshold(bilateralFilter(base, 4, 2.0, 30.0))
		}},
	}
}

// Preprocess decodes raw image bytes and produces the ordered variant set.
// Undecodable input fails with ErrDecode and no variants.
func Preprocess(data []byte, cfg Config) ([]Variant, error) {
	cfg = cfg.normalized()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	base := imaging.Grayscale(img)
	if base.Bounds().Dy() < cfg.UpscaleFloor {
		// Small screenshots recognize poorly; double the glyph size first.
		base = imaging.Resize(base, 0, base.Bounds().Dy()*2, imaging.CatmullRom)
	}
	base = imaging.AdjustContrast(base, 15)
	base = imaging.Sharpen(base, 0.7)

	variants := make([]Variant, 0, len(cfg.Transforms))
	for _, t := range cfg.Transforms {
		variants = append(variants, Variant{Label: t.Label, Image: t.Apply(base)})
	}
	return variants, nil
}

// lumaPlane extracts one 8-bit intensity value per pixel. The baseline is
// already grayscale so the red channel is the luma.
func lumaPlane(img *image.NRGBA) ([]uint8, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			plane[y*w+x] = row[x*4]
		}
	}
	return plane, w, h
}

// planeToImage builds a grayscale NRGBA from an intensity plane.
func planeToImage(plane []uint8, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			v := plane[y*w+x]
			row[x*4] = v
			row[x*4+1] = v
			row[x*4+2] = v
			row[x*4+3] = 255
		}
	}
	return out
}

// adaptiveThreshold binarizes against a local mean computed over a square
// window via an integral image, which keeps the pass linear in pixel count.
func adaptiveThreshold(img *image.NRGBA, window, bias int) *image.NRGBA {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	plane, w, h := lumaPlane(img)
	half := window / 2

	// integral[y*w+x] = sum of plane over [0,x] x [0,y]
	integral := make([]int, w*h)
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			rowSum += int(plane[y*w+x])
			if y == 0 {
				integral[y*w+x] = rowSum
			} else {
				integral[y*w+x] = integral[(y-1)*w+x] + rowSum
			}
		}
	}
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(x-half, 0), max(y-half, 0)
			x1, y1 := min(x+half, w-1), min(y+half, h-1)
			sum := integral[y1*w+x1]
			if x0 > 0 {
				sum -= integral[y1*w+x0-1]
			}
			if y0 > 0 {
				sum -= integral[(y0-1)*w+x1]
			}
			if x0 > 0 && y0 > 0 {
				sum += integral[(y0-1)*w+x0-1]
			}
			mean := sum / ((x1 - x0 + 1) * (y1 - y0 + 1))
			th := mean - bias
			if th < 0 {
				th = 0
			}
			if int(plane[y*w+x]) < th {
				out[y*w+x] = 0
			} else {
				out[y*w+x] = 255
			}
		}
	}
	return planeToImage(out, w, h)
}

// equalizeHistogram spreads the intensity histogram over the full range,
// which lifts faint text on washed-out screenshots.
func equalizeHistogram(img *image.NRGBA) *image.NRGBA {
	plane, w, h := lumaPlane(img)
	var hist [256]int
	for _, v := range plane {
		hist[v]++
	}
	total := len(plane)
	if total == 0 {
		return planeToImage(plane, w, h)
	}
	var lut [256]uint8
	cum := 0
	for i := 0; i < 256; i++ {
		cum += hist[i]
		lut[i] = uint8(cum * 255 / total)
	}
	out := make([]uint8, total)
	for i, v := range plane {
		out[i] = lut[v]
	}
	return planeToImage(out, w, h)
}

// otsuThreshold picks the global threshold maximizing between-class variance
// and binarizes with it.
func otsuThreshold(img *image.NRGBA) *image.NRGBA {
	plane, w, h := lumaPlane(img)
	var hist [256]int
	for _, v := range plane {
		hist[v]++
	}
	total := len(plane)
	if total == 0 {
		return planeToImage(plane, w, h)
	}
	sumAll := 0
	for i, c := range hist {
		sumAll += i * c
	}
	best, bestVar := 127, -1.0
	wB, sumB := 0, 0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += t * hist[t]
		mB := float64(sumB) / float64(wB)
		mF := float64(sumAll-sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	out := make([]uint8, total)
	for i, v := range plane {
		if int(v) <= best {
			out[i] = 0
		} else {
			out[i] = 255
		}
	}
	return planeToImage(out, w, h)
}

// bilateralFilter smooths noise while keeping edges: each pixel is replaced
// by a weighted mean of its neighborhood where the weight falls off with
// both spatial distance and intensity difference.
func bilateralFilter(img *image.NRGBA, radius int, sigmaSpace, sigmaRange float64) *image.NRGBA {
	plane, w, h := lumaPlane(img)
	if radius < 1 {
		radius = 1
	}
	size := 2*radius + 1
	spatial := make([]float64, size*size)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*size+(dx+radius)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}
	var rangeW [256]float64
	for d := 0; d < 256; d++ {
		rangeW[d] = math.Exp(-float64(d*d) / (2 * sigmaRange * sigmaRange))
	}
	out := make([]uint8, len(plane))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := plane[y*w+x]
			var acc, norm float64
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					v := plane[yy*w+xx]
					diff := int(v) - int(center)
					if diff < 0 {
						diff = -diff
					}
					wgt := spatial[(dy+radius)*size+(dx+radius)] * rangeW[diff]
					acc += wgt * float64(v)
					norm += wgt
				}
			}
			out[y*w+x] = uint8(acc/norm + 0.5)
		}
	}
	return planeToImage(out, w, h)
}
