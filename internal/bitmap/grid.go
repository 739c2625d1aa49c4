package bitmap

import "fmt"

// BytesPerPixel is the size of one Pixel on disk and in memory.
const BytesPerPixel = 3

// MaxGridBytes caps the pixel memory a single Grid may claim. A failed runtime
// allocation cannot be recovered in Go, so oversized requests are refused
// before they reach make.
const MaxGridBytes = 1 << 30

// Pixel is one 24-bit colour in the on-disk blue, green, red order.
type Pixel struct {
	Blue  uint8
	Green uint8
	Red   uint8
}

// Grid is a row-major buffer of height rows by width pixels.
//
// Row 0 is the first row stored in the file. For bottom-up bitmaps (the only
// kind this package decodes) that is the bottom row of the picture.
type Grid struct {
	width  int
	height int
	pix    []Pixel
}

// Allocate returns a zeroed grid. It fails with ErrOutOfMemory when the
// dimensions are negative or the grid would exceed MaxGridBytes.
func Allocate(width, height int) (*Grid, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]Pixel, width*height),
	}, nil
}

func checkSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrOutOfMemory, width, height)
	}
	if width > MaxGridBytes || height > MaxGridBytes {
		return fmt.Errorf("%w: dimensions %dx%d exceed the %d byte limit", ErrOutOfMemory, width, height, MaxGridBytes)
	}
	size := uint64(width) * uint64(height) * BytesPerPixel
	if size > MaxGridBytes {
		return fmt.Errorf("%w: %dx%d needs %d bytes, limit is %d", ErrOutOfMemory, width, height, size, MaxGridBytes)
	}
	return nil
}

// Width returns the number of pixels per row.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (i, j) addresses a pixel of the grid.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.height && j >= 0 && j < g.width
}

// At returns the pixel in row i, column j.
func (g *Grid) At(i, j int) (Pixel, error) {
	if !g.InBounds(i, j) {
		return Pixel{}, g.outOfBounds(i, j)
	}
	return g.pix[i*g.width+j], nil
}

// Set stores p in row i, column j.
func (g *Grid) Set(i, j int, p Pixel) error {
	if !g.InBounds(i, j) {
		return g.outOfBounds(i, j)
	}
	g.pix[i*g.width+j] = p
	return nil
}

// Ref returns a pointer to the pixel in row i, column j so callers can
// update it in place. The pointer is valid for the lifetime of the grid.
func (g *Grid) Ref(i, j int) (*Pixel, error) {
	if !g.InBounds(i, j) {
		return nil, g.outOfBounds(i, j)
	}
	return &g.pix[i*g.width+j], nil
}

// Row returns row i as a slice sharing the grid's storage.
func (g *Grid) Row(i int) ([]Pixel, error) {
	if i < 0 || i >= g.height {
		return nil, fmt.Errorf("%w: row %d not in [0,%d)", ErrOutOfBounds, i, g.height)
	}
	return g.pix[i*g.width : (i+1)*g.width], nil
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	pix := make([]Pixel, len(g.pix))
	copy(pix, g.pix)
	return &Grid{width: g.width, height: g.height, pix: pix}
}

// Equal reports whether both grids have the same dimensions and pixels.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for k := range g.pix {
		if g.pix[k] != other.pix[k] {
			return false
		}
	}
	return true
}

func (g *Grid) outOfBounds(i, j int) error {
	return fmt.Errorf("%w: (%d,%d) outside %d rows x %d columns", ErrOutOfBounds, i, j, g.height, g.width)
}

// RowStride returns the padded length in bytes of one serialized row:
// width*3 rounded up to a multiple of 4.
func RowStride(width int) int {
	return (width*BytesPerPixel + 3) / 4 * 4
}

// DecodePixelRows reads height rows of RowStride(width) bytes from b, keeping
// the first width*3 bytes of each row and dropping the padding.
//
// It fails with ErrTruncatedData when b is shorter than height*RowStride(width).
// The length check happens before the grid is allocated.
func DecodePixelRows(b []byte, width, height int) (*Grid, error) {
	stride := RowStride(width)
	need := uint64(stride) * uint64(height)
	if uint64(len(b)) < need {
		return nil, fmt.Errorf("%w: %d rows of %d bytes need %d bytes, have %d", ErrTruncatedData, height, stride, need, len(b))
	}

	g, err := Allocate(width, height)
	if err != nil {
		return nil, err
	}

	for i := 0; i < height; i++ {
		row := b[i*stride : i*stride+width*BytesPerPixel]
		dst := g.pix[i*width : (i+1)*width]
		for j := range dst {
			dst[j] = Pixel{Blue: row[j*3], Green: row[j*3+1], Red: row[j*3+2]}
		}
	}
	return g, nil
}

// EncodePixelRows serializes the grid row by row, appending zero padding so
// each row is RowStride(width) bytes long.
func EncodePixelRows(g *Grid) []byte {
	stride := RowStride(g.width)
	out := make([]byte, stride*g.height)
	for i := 0; i < g.height; i++ {
		row := out[i*stride:]
		for j, p := range g.pix[i*g.width : (i+1)*g.width] {
			row[j*3] = p.Blue
			row[j*3+1] = p.Green
			row[j*3+2] = p.Red
		}
		// Padding bytes are already zero from make.
	}
	return out
}
