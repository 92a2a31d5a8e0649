// Package imagediff compares two screenshots for recreation review. It
// reports a per-pixel difference ratio against a documented threshold plus
// an 8x8 average-hash distance as a coarse perceptual signal.
package imagediff

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/bits"
	"os"

	"golang.org/x/image/draw"
)

// DefaultThreshold is the fraction of differing pixels below which two
// images are considered a match. 1% absorbs antialiasing noise without
// hiding layout changes.
const DefaultThreshold = 0.01

// channelTolerance is the per-channel difference (out of 255) under which
// two pixels still count as equal, absorbing subpixel rendering jitter.
const channelTolerance = 8

// hashSize is the side of the downscaled grid used for the average hash.
const hashSize = 8

// Result is the outcome of one comparison.
type Result struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	DiffPixels  int     `json:"diffPixels"`
	TotalPixels int     `json:"totalPixels"`
	DiffRatio   float64 `json:"diffRatio"`

	// HashDistance is the Hamming distance between the two average
	// hashes, 0..64. Identical structure scores 0.
	HashDistance int `json:"hashDistance"`

	Threshold float64 `json:"threshold"`
	Match     bool    `json:"match"`

	// Resized is set when b had different dimensions and was scaled to
	// a's bounds before the per-pixel pass.
	Resized bool `json:"resized,omitempty"`
}

// Compare diffs b against the reference a. When dimensions differ, b is
// scaled to a's bounds first and the result is flagged.
func Compare(a, b image.Image, threshold float64) Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	bounds := a.Bounds()
	res := Result{
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Threshold: threshold,
	}

	if b.Bounds() != bounds {
		scaled := image.NewRGBA(bounds)
		draw.ApproxBiLinear.Scale(scaled, bounds, b, b.Bounds(), draw.Src, nil)
		b = scaled
		res.Resized = true
	}

	ra := toRGBA(a)
	rb := toRGBA(b)

	total := bounds.Dx() * bounds.Dy()
	diff := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !pixelsClose(ra.RGBAAt(x, y), rb.RGBAAt(x, y)) {
				diff++
			}
		}
	}

	res.DiffPixels = diff
	res.TotalPixels = total
	if total > 0 {
		res.DiffRatio = float64(diff) / float64(total)
	}
	res.HashDistance = hammingDistance(averageHash(ra), averageHash(rb))
	res.Match = res.DiffRatio <= threshold
	return res
}

// CompareFiles loads two PNG files and compares them.
func CompareFiles(pathA, pathB string, threshold float64) (Result, error) {
	a, err := loadPNG(pathA)
	if err != nil {
		return Result{}, err
	}
	b, err := loadPNG(pathB)
	if err != nil {
		return Result{}, err
	}
	return Compare(a, b, threshold), nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagediff: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imagediff: decode %s: %w", path, err)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Copy(out, img.Bounds().Min, img, img.Bounds(), draw.Src, nil)
	return out
}

func pixelsClose(a, b color.RGBA) bool {
	return absDiff(a.R, b.R) <= channelTolerance &&
		absDiff(a.G, b.G) <= channelTolerance &&
		absDiff(a.B, b.B) <= channelTolerance &&
		absDiff(a.A, b.A) <= channelTolerance
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// averageHash downsamples to an 8x8 grayscale grid and sets one bit per
// cell brighter than the mean.
func averageHash(img *image.RGBA) uint64 {
	small := image.NewGray(image.Rect(0, 0, hashSize, hashSize))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	var sum int
	for i := 0; i < hashSize*hashSize; i++ {
		sum += int(small.Pix[i])
	}
	mean := uint8(sum / (hashSize * hashSize))

	var hash uint64
	for i := 0; i < hashSize*hashSize; i++ {
		if small.Pix[i] > mean {
			hash |= 1 << uint(i)
		}
	}
	return hash
}

func hammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
