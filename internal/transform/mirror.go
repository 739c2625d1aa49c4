package transform

import "github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"

// Mirror flips the grid horizontally in place by swapping column j with
// column width-1-j in every row. It returns the number of positions visited,
// which is every position; only those in the left half perform a swap.
// Mirror is its own inverse.
func Mirror(g *bitmap.Grid) int {
	return Walk(g, MarginNone, mirrorPosition)
}

func mirrorPosition(g *bitmap.Grid, i, j int) {
	if j >= g.Width()/2 {
		return
	}
	left, err := g.Ref(i, j)
	if err != nil {
		return
	}
	right, err := g.Ref(i, g.Width()-1-j)
	if err != nil {
		return
	}
	*left, *right = *right, *left
}
