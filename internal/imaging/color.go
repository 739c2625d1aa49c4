package imaging

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// HSL is often more intuitive for describing a color than RGB:
//   - Hue represents the color type (red, green, blue, etc.)
//   - Saturation represents color intensity (gray to vivid)
//   - Lightness represents brightness (black to white)
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains the color of one pixel in multiple representations,
// together with its position in both coordinate systems.
type ColorResult struct {
	Row  int      `json:"row"`  // Grid row (0 = bottom row of the picture)
	Col  int      `json:"col"`  // Grid column
	X    int      `json:"x"`    // Picture X, equal to Col
	Y    int      `json:"y"`    // Picture Y (0 = top row)
	Hex  string   `json:"hex"`  // Hex format "#rrggbb"
	RGB  RGBColor `json:"rgb"`  // RGB components
	HSL  HSLColor `json:"hsl"`  // HSL representation
	Gray uint8    `json:"gray"` // Channel mean, as stored by the grayscale transformation
}

// SampleColor extracts the color of the pixel at grid position (row, col).
//
// Parameters:
//   - img: The decoded bitmap to sample from.
//   - row: Grid row, 0 to height-1. Row 0 is the bottom of the picture.
//   - col: Grid column, 0 to width-1.
//
// Returns:
//   - *ColorResult: The color in multiple formats.
//   - error: Wraps bitmap.ErrOutOfBounds if the position is outside the grid.
//
// # Color Conversion
//
// Hex and HSL are computed with go-colorful from the 8-bit components. HSL
// values are rounded to the nearest integer.
func SampleColor(img *bitmap.Image, row, col int) (*ColorResult, error) {
	p, err := img.Pixels.At(row, col)
	if err != nil {
		return nil, fmt.Errorf("failed to sample pixel: %w", err)
	}

	c := colorful.Color{
		R: float64(p.Red) / 255.0,
		G: float64(p.Green) / 255.0,
		B: float64(p.Blue) / 255.0,
	}
	h, s, l := c.Hsl()

	return &ColorResult{
		Row:  row,
		Col:  col,
		X:    col,
		Y:    img.Height() - 1 - row,
		Hex:  c.Hex(),
		RGB:  RGBColor{R: p.Red, G: p.Green, B: p.Blue},
		HSL:  HSLColor{H: int(math.Round(h)) % 360, S: int(math.Round(s * 100)), L: int(math.Round(l * 100))},
		Gray: uint8((int(p.Blue) + int(p.Green) + int(p.Red)) / 3),
	}, nil
}
