package transform

import "github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"

// Grayscale replaces every pixel with the truncated mean of its three
// channels and returns the number of pixels visited. Applying it twice gives
// the same grid as applying it once.
func Grayscale(g *bitmap.Grid) int {
	return Walk(g, MarginNone, grayscalePosition)
}

func grayscalePosition(g *bitmap.Grid, i, j int) {
	p, err := g.Ref(i, j)
	if err != nil {
		return
	}
	mean := uint8((int(p.Blue) + int(p.Green) + int(p.Red)) / 3)
	*p = bitmap.Pixel{Blue: mean, Green: mean, Red: mean}
}
