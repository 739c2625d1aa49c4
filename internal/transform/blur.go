package transform

import "github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"

// blurDivisor is the size of a full 3x3 neighbourhood. Blur only visits
// centers whose neighbourhood lies entirely inside the grid, so the sum always
// covers exactly this many pixels.
const blurDivisor = 9

// Blur applies the box blur in place and returns the number of centers visited.
//
// For each interior position, in row-major order, the truncated average of
// its 3x3 neighbourhood is written to all nine pixels of that neighbourhood,
// not only to the center. Later centers therefore read pixels already
// repainted by earlier ones. The outermost ring is never a center but is
// painted as a neighbour of the ring just inside it. Grids narrower or shorter
// than 3 pixels are left unchanged.
func Blur(g *bitmap.Grid) int {
	return Walk(g, MarginNeighborhood, blurPosition)
}

func blurPosition(g *bitmap.Grid, i, j int) {
	var sums ColorSums
	Neighborhood(g, i, j, sums.Add)
	Neighborhood(g, i, j, sums.Average(blurDivisor).Paint)
}
