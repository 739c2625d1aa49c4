package transform

import "github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"

// ColorSums accumulates per-channel totals over a neighbourhood.
type ColorSums struct {
	Blue  int
	Green int
	Red   int
}

// Add adds p to the totals. Pass sums.Add to Neighborhood.
func (s *ColorSums) Add(p *bitmap.Pixel) {
	s.Blue += int(p.Blue)
	s.Green += int(p.Green)
	s.Red += int(p.Red)
}

// Average divides each total by n, truncating toward zero.
func (s ColorSums) Average(n int) AvgColor {
	return AvgColor{
		Blue:  s.Blue / n,
		Green: s.Green / n,
		Red:   s.Red / n,
	}
}

// AvgColor is an averaged colour ready to be painted onto pixels.
type AvgColor struct {
	Blue  int
	Green int
	Red   int
}

// Paint overwrites p with the averaged colour. Pass avg.Paint to Neighborhood.
func (a AvgColor) Paint(p *bitmap.Pixel) {
	p.Blue = uint8(a.Blue)
	p.Green = uint8(a.Green)
	p.Red = uint8(a.Red)
}
