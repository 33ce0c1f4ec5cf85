// Package chromakey removes a solid background colour from images.
package chromakey

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// featherFactor bounds the feathered edge: pixels closer than threshold*featherFactor
// get a partially transparent alpha.
const featherFactor = 1.5

// MaxThreshold is the largest meaningful distance in RGB space (sqrt(3) * 255)
var MaxThreshold = math.Sqrt(3) * 255

// ParseHexColor parses "#rrggbb" (the leading '#' is optional)
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q, expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Distance returns the Euclidean distance between two colours in 8-bit RGB space
func Distance(r, g, b uint8, key color.RGBA) float64 {
	dr := float64(r) - float64(key.R)
	dg := float64(g) - float64(key.G)
	db := float64(b) - float64(key.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Apply returns a copy of img where pixels close to key become transparent.
//
// Pixels within threshold of key get alpha 0. Pixels within 1.5x threshold get their alpha
// scaled linearly from 0 (at threshold) to the original alpha (at 1.5x threshold).
// All other pixels are left untouched. A non-positive threshold returns an unchanged copy.
func Apply(img image.Image, key color.RGBA, threshold float64) *image.NRGBA {
	out := toNRGBA(img)
	bounds := out.Bounds()

	if threshold <= 0 {
		return out
	}

	outer := threshold * featherFactor
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := out.PixOffset(x, y)
			px := out.Pix[i : i+4 : i+4]
			d := Distance(px[0], px[1], px[2], key)
			switch {
			case d <= threshold:
				px[3] = 0
			case d < outer:
				ratio := (d - threshold) / (outer - threshold)
				px[3] = uint8(math.Round(float64(px[3]) * ratio))
			}
		}
	}

	return out
}

// toNRGBA copies img into a new non-premultiplied image
func toNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	if src, ok := img.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			copy(out.Pix[out.PixOffset(bounds.Min.X, y):out.PixOffset(bounds.Max.X, y)],
				src.Pix[src.PixOffset(bounds.Min.X, y):src.PixOffset(bounds.Max.X, y)])
		}
		return out
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
