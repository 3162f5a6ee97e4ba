// Package fonts provides label typography for diagram rendering.
//
// SVG output references the [Family] stack so labels render with the
// viewer's system fonts. Raster output draws with a [font.Face]; hosts
// that want matching glyphs load a TTF via [LoadFace] or [ParseTTF]
// and hand the face to the PNG sink.
package fonts

import (
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/chordial/chordial/pkg/errors"
)

// Family is the CSS font stack for diagram labels.
const Family = "'Helvetica Neue', Helvetica, Arial, sans-serif"

// LabelSize is the default label size in points.
const LabelSize = 12

// ParseTTF parses TTF data into a face at the given point size.
func ParseTTF(data []byte, points float64) (font.Face, error) {
	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse ttf")
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// LoadFace reads a TTF file and builds a face at the given point size.
func LoadFace(path string, points float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read font %s", path)
	}
	return ParseTTF(data, points)
}
