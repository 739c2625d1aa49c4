package transform

import "github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"

// EdgeMagnitude holds the horizontal and vertical gradients at one position.
type EdgeMagnitude struct {
	Gx int
	Gy int
}

// EdgeDetector computes the gradient at an interior grid position. It is
// called for positions with a full 3x3 neighbourhood and must not modify g.
type EdgeDetector interface {
	DetectEdges(g *bitmap.Grid, i, j int) EdgeMagnitude
}

// StubEdgeDetector is the default EdgeDetector. It performs no computation
// and always reports a zero magnitude.
type StubEdgeDetector struct{}

// DetectEdges returns the zero EdgeMagnitude.
func (StubEdgeDetector) DetectEdges(*bitmap.Grid, int, int) EdgeMagnitude {
	return EdgeMagnitude{}
}

// DetectEdges runs d over every interior position. Magnitudes are discarded
// and the grid is left unchanged. It returns the number of positions visited.
func DetectEdges(g *bitmap.Grid, d EdgeDetector) int {
	return Walk(g, MarginNeighborhood, func(g *bitmap.Grid, i, j int) {
		d.DetectEdges(g, i, j)
	})
}
