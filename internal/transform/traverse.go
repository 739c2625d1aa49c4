package transform

import "github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"

// Margins accepted by Walk.
const (
	// MarginNone visits every position.
	MarginNone = 0

	// MarginNeighborhood skips the outermost ring so every visited position
	// has a complete 3x3 neighbourhood inside the grid.
	MarginNeighborhood = 1
)

// PositionFunc transforms one grid position. It may read and write any pixel
// of g, not only the one at (i, j).
type PositionFunc func(g *bitmap.Grid, i, j int)

// PixelFunc transforms or inspects a single pixel in place.
type PixelFunc func(p *bitmap.Pixel)

// Walk calls fn for every position (i, j) with margin <= i < height-margin
// and margin <= j < width-margin, row by row in ascending order, and returns
// the number of positions visited.
//
// When the margins leave no rows or columns (2*margin >= height or
// 2*margin >= width) fn is never called. A negative margin is treated as 0.
func Walk(g *bitmap.Grid, margin int, fn PositionFunc) int {
	if margin < 0 {
		margin = 0
	}
	visited := 0
	for i := margin; i < g.Height()-margin; i++ {
		for j := margin; j < g.Width()-margin; j++ {
			fn(g, i, j)
			visited++
		}
	}
	return visited
}

// Neighborhood calls fn for each pixel within one row and one column of
// (ci, cj), row by row in ascending order, and returns how many pixels it
// visited.
//
// Positions outside the grid are skipped rather than clamped or wrapped, so a
// corner center sees 4 pixels, an edge center 6 and an interior center 9.
func Neighborhood(g *bitmap.Grid, ci, cj int, fn PixelFunc) int {
	visited := 0
	for i := ci - 1; i <= ci+1; i++ {
		for j := cj - 1; j <= cj+1; j++ {
			p, err := g.Ref(i, j)
			if err != nil {
				continue
			}
			fn(p)
			visited++
		}
	}
	return visited
}
