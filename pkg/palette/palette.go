// Package palette resolves colors for diagram elements.
//
// Colors are hex strings end to end: the SVG sink embeds them directly and
// the raster backend parses them with [ParseHex]. Category colors come from
// a fixed wheel assigned by index, with deterministic per-label fallback
// when the wheel is exhausted, so the same dataset always colors the same.
package palette

import (
	"fmt"
	"hash/fnv"
	"image/color"

	"github.com/chordial/chordial/pkg/errors"
)

// wheel is the default category color wheel. Indices cycle through it.
var wheel = []string{
	"#4e79a7", // blue
	"#f28e2b", // orange
	"#e15759", // red
	"#76b7b2", // teal
	"#59a14f", // green
	"#edc948", // yellow
	"#b07aa1", // purple
	"#ff9da7", // pink
	"#9c755f", // brown
	"#bab0ac", // grey
	"#86bcb6", // sea
	"#d37295", // rose
}

// Default colors for non-category elements.
const (
	DefaultBackground = "#16213e"
	DefaultLabel      = "#e0e0e0"
	DefaultMinimal    = "#8899aa"
)

// ColorFunc maps an arc index and its label to a hex color.
type ColorFunc func(index int, label string) string

// Default returns the standard color resolution: wheel by index, with a
// deterministic hash color once the wheel is exhausted.
func Default() ColorFunc {
	return func(index int, label string) string {
		if index >= 0 && index < len(wheel) {
			return wheel[index]
		}
		return colorForLabel(label)
	}
}

// Fixed returns a ColorFunc that always yields the given color.
func Fixed(hex string) ColorFunc {
	return func(int, string) string { return hex }
}

// colorForLabel derives a stable mid-brightness color from a label.
func colorForLabel(label string) string {
	h := fnv.New32a()
	h.Write([]byte(label))
	v := h.Sum32()
	r := 0x40 + byte(v)%0xA0
	g := 0x40 + byte(v>>8)%0xA0
	b := 0x40 + byte(v>>16)%0xA0
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ParseHex parses #RGB, #RRGGBB and #RRGGBBAA colors.
func ParseHex(s string) (color.RGBA, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return color.RGBA{}, err
	}
	if s == "" {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "empty color")
	}

	hex := s[1:]
	c := color.RGBA{A: 0xff}
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	}
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse %q", s)
	}
	return c, nil
}

// MustParseHex parses a hex color and panics on failure.
// For package-level constants only.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Darken scales a color toward black. factor 0 is unchanged, 1 is black.
func Darken(hex string, factor float64) string {
	c, err := ParseHex(hex)
	if err != nil {
		return hex
	}
	factor = clamp01(factor)
	scale := func(v uint8) uint8 { return uint8(float64(v) * (1 - factor)) }
	return fmt.Sprintf("#%02x%02x%02x", scale(c.R), scale(c.G), scale(c.B))
}

// Lighten scales a color toward white. factor 0 is unchanged, 1 is white.
func Lighten(hex string, factor float64) string {
	c, err := ParseHex(hex)
	if err != nil {
		return hex
	}
	factor = clamp01(factor)
	scale := func(v uint8) uint8 { return uint8(float64(v) + (255-float64(v))*factor) }
	return fmt.Sprintf("#%02x%02x%02x", scale(c.R), scale(c.G), scale(c.B))
}

// WithAlpha renders a hex color as an rgba() expression for SVG attributes.
func WithAlpha(hex string, alpha float64) string {
	c, err := ParseHex(hex)
	if err != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", c.R, c.G, c.B, clamp01(alpha))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
