// Package visualtest compares rendered frames pixel by pixel and runs
// reftests: two documents that must render identically.
package visualtest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// ErrSizeMismatch is returned when the compared images differ in bounds.
var ErrSizeMismatch = errors.New("visualtest: image dimensions differ")

// Result of an image comparison.
type Result struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	// MaxDifference is the largest channel difference seen, 0-255.
	MaxDifference int
	// Diff is the actual image in grayscale with failing pixels in red.
	Diff *image.RGBA
}

// Options configure a comparison.
type Options struct {
	// Tolerance is the largest per-channel difference (0-255) that still
	// counts as equal.
	Tolerance int
	// FuzzyRadius lets a pixel match any expected pixel within the radius.
	FuzzyRadius int
	// MaxDifferentPercent accepts up to this share of differing pixels.
	MaxDifferentPercent float64
}

// DefaultOptions allow for small rasterization differences.
func DefaultOptions() Options {
	return Options{Tolerance: 2}
}

// Compare compares two images of the same bounds.
func Compare(actual, expected image.Image, opts Options) (*Result, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &Result{}, fmt.Errorf("%w: actual=%v, expected=%v", ErrSizeMismatch, bounds, expected.Bounds())
	}

	result := &Result{
		Match:       true,
		TotalPixels: bounds.Dx() * bounds.Dy(),
		Diff:        image.NewRGBA(bounds),
	}
	red := color.RGBA{R: 255, A: 255}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := rgba8(actual.At(x, y))
			diff := difference(a, rgba8(expected.At(x, y)))
			if diff > result.MaxDifference {
				result.MaxDifference = diff
			}

			if diff > opts.Tolerance && !fuzzyMatch(a, expected, x, y, opts) {
				result.Match = false
				result.DifferentPixels++
				result.Diff.Set(x, y, red)
				continue
			}
			gray := uint8(a[0])
			result.Diff.Set(x, y, color.RGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.TotalPixels > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		result.Match = pct <= opts.MaxDifferentPercent
	}
	return result, nil
}

// ComparePNG compares two PNG files.
func ComparePNG(actualPath, expectedPath string, opts Options) (*Result, error) {
	actual, err := loadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}
	expected, err := loadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

// fuzzyMatch reports whether any expected pixel within the radius of (x, y)
// is within tolerance of the actual pixel.
func fuzzyMatch(a [4]int, expected image.Image, x, y int, opts Options) bool {
	if opts.FuzzyRadius <= 0 {
		return false
	}
	b := expected.Bounds()
	for dy := -opts.FuzzyRadius; dy <= opts.FuzzyRadius; dy++ {
		for dx := -opts.FuzzyRadius; dx <= opts.FuzzyRadius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(b) {
				continue
			}
			if difference(a, rgba8(expected.At(p.X, p.Y))) <= opts.Tolerance {
				return true
			}
		}
	}
	return false
}

func rgba8(c color.Color) [4]int {
	r, g, b, a := c.RGBA()
	return [4]int{int(r >> 8), int(g >> 8), int(b >> 8), int(a >> 8)}
}

func difference(a, b [4]int) int {
	worst := 0
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	return worst
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// SavePNG writes img as a PNG file.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
