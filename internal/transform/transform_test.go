package transform

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"testing"

	bildtransform "github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

var (
	black = bitmap.Pixel{}
	white = bitmap.Pixel{Blue: 255, Green: 255, Red: 255}
)

// uniformGrid returns a grid filled with p.
func uniformGrid(t *testing.T, width, height int, p bitmap.Pixel) *bitmap.Grid {
	t.Helper()
	g := mustAllocate(t, width, height)
	Walk(g, MarginNone, func(g *bitmap.Grid, i, j int) { g.Set(i, j, p) })
	return g
}

// randomGrid returns a grid of pseudo-random pixels.
func randomGrid(t *testing.T, width, height int, seed uint64) *bitmap.Grid {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, 42))
	g := mustAllocate(t, width, height)
	Walk(g, MarginNone, func(g *bitmap.Grid, i, j int) {
		g.Set(i, j, bitmap.Pixel{Blue: uint8(r.IntN(256)), Green: uint8(r.IntN(256)), Red: uint8(r.IntN(256))})
	})
	return g
}

// blueChannel returns the blue value of every pixel, row by row.
func blueChannel(g *bitmap.Grid) [][]uint8 {
	out := make([][]uint8, g.Height())
	for i := range out {
		row, _ := g.Row(i)
		out[i] = make([]uint8, len(row))
		for j, p := range row {
			out[i][j] = p.Blue
		}
	}
	return out
}

func setBlue(t *testing.T, g *bitmap.Grid, values [][]uint8) {
	t.Helper()
	for i, row := range values {
		for j, v := range row {
			if err := g.Set(i, j, bitmap.Pixel{Blue: v}); err != nil {
				t.Fatalf("Set(%d,%d) failed: %v", i, j, err)
			}
		}
	}
}

func TestBlur_UniformIsFixedPoint(t *testing.T) {
	g := uniformGrid(t, 4, 4, white)

	if n := Blur(g); n != 4 {
		t.Errorf("centers visited: got %d, want 4", n)
	}
	if !g.Equal(uniformGrid(t, 4, 4, white)) {
		t.Error("all-white image changed after blur")
	}
}

func TestBlur_PaintsWholeNeighborhood(t *testing.T) {
	g := mustAllocate(t, 3, 3)
	setBlue(t, g, [][]uint8{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
	})

	Blur(g)

	// Sum 36 / 9 = 4, written to all nine pixels.
	for i, row := range blueChannel(g) {
		for j, v := range row {
			if v != 4 {
				t.Errorf("(%d,%d): got %d, want 4", i, j, v)
			}
		}
	}
}

func TestBlur_TruncatesAndDividesByNine(t *testing.T) {
	g := mustAllocate(t, 3, 3)
	setBlue(t, g, [][]uint8{
		{17, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	})

	Blur(g)

	// 17/9 truncates to 1.
	p, _ := g.At(2, 2)
	if p.Blue != 1 {
		t.Errorf("got %d, want 1", p.Blue)
	}
}

func TestBlur_OverlappingWritesInTraversalOrder(t *testing.T) {
	g := mustAllocate(t, 4, 3)
	setBlue(t, g, [][]uint8{
		{9, 0, 0, 9},
		{9, 0, 0, 9},
		{9, 0, 0, 9},
	})

	Blur(g)

	// Center (1,1) averages columns 0-2 to 27/9 = 3 and paints them.
	// Center (1,2) then averages the repainted columns 1-2 with column 3:
	// (3+3+9)*3/9 = 5, and paints columns 1-3.
	want := [][]uint8{
		{3, 5, 5, 5},
		{3, 5, 5, 5},
		{3, 5, 5, 5},
	}
	if got := blueChannel(g); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBlur_CentersNeverOnOuterRing(t *testing.T) {
	g := randomGrid(t, 7, 6, 3)
	Walk(g, MarginNeighborhood, func(g *bitmap.Grid, i, j int) {
		if i == 0 || j == 0 || i == g.Height()-1 || j == g.Width()-1 {
			t.Errorf("blur center on outer ring at (%d,%d)", i, j)
		}
	})
	if n := Blur(g); n != 5*4 {
		t.Errorf("centers visited: got %d, want %d", n, 5*4)
	}
}

func TestBlur_SmallGridsUnchanged(t *testing.T) {
	sizes := [][2]int{{1, 1}, {2, 2}, {2, 5}, {5, 2}, {1, 9}}

	for _, sz := range sizes {
		t.Run(fmt.Sprintf("%dx%d", sz[0], sz[1]), func(t *testing.T) {
			g := randomGrid(t, sz[0], sz[1], 11)
			before := g.Clone()
			if n := Blur(g); n != 0 {
				t.Errorf("centers visited: got %d, want 0", n)
			}
			if !g.Equal(before) {
				t.Error("grid changed")
			}
		})
	}
}

func TestGrayscale(t *testing.T) {
	g := mustAllocate(t, 2, 1)
	g.Set(0, 0, bitmap.Pixel{Blue: 10, Green: 20, Red: 31})
	g.Set(0, 1, white)

	if n := Grayscale(g); n != 2 {
		t.Errorf("visited: got %d, want 2", n)
	}

	// (10+20+31)/3 = 20 after truncation.
	p, _ := g.At(0, 0)
	if p != (bitmap.Pixel{Blue: 20, Green: 20, Red: 20}) {
		t.Errorf("(0,0): got %+v, want 20,20,20", p)
	}
	p, _ = g.At(0, 1)
	if p != white {
		t.Errorf("(0,1): got %+v, want white", p)
	}
}

func TestGrayscale_Idempotent(t *testing.T) {
	g := randomGrid(t, 13, 7, 5)
	Grayscale(g)
	once := g.Clone()
	Grayscale(g)
	if !g.Equal(once) {
		t.Error("second grayscale pass changed the grid")
	}
}

func TestMirror_TwoPixels(t *testing.T) {
	g := mustAllocate(t, 2, 1)
	g.Set(0, 0, black)
	g.Set(0, 1, white)

	Mirror(g)

	left, _ := g.At(0, 0)
	right, _ := g.At(0, 1)
	if left != white || right != black {
		t.Errorf("got [%+v %+v], want [white black]", left, right)
	}
}

func TestMirror_OddWidthKeepsMiddle(t *testing.T) {
	g := mustAllocate(t, 3, 1)
	setBlue(t, g, [][]uint8{{1, 2, 3}})

	Mirror(g)

	if got := blueChannel(g); fmt.Sprint(got) != fmt.Sprint([][]uint8{{3, 2, 1}}) {
		t.Errorf("got %v, want [[3 2 1]]", got)
	}
}

func TestMirror_Involution(t *testing.T) {
	for width := 1; width <= 8; width++ {
		t.Run(fmt.Sprintf("width %d", width), func(t *testing.T) {
			g := randomGrid(t, width, 3, uint64(width))
			original := g.Clone()
			Mirror(g)
			if width > 1 && g.Equal(original) {
				t.Error("single mirror left a random grid unchanged")
			}
			Mirror(g)
			if !g.Equal(original) {
				t.Error("mirror twice did not restore the original")
			}
		})
	}
}

// TestMirror_MatchesImageLibraries compares Mirror against the horizontal
// flips of two independent image libraries.
func TestMirror_MatchesImageLibraries(t *testing.T) {
	img, err := bitmap.New(9, 4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	img.Pixels = randomGrid(t, 9, 4, 99)

	byImaging := imaging.FlipH(img)
	byBild := bildtransform.FlipH(img)

	Mirror(img.Pixels)

	for y := 0; y < 4; y++ {
		for x := 0; x < 9; x++ {
			want := img.At(x, y)
			if got := color.RGBAModel.Convert(byImaging.At(x, y)); got != want {
				t.Errorf("imaging.FlipH (%d,%d): got %v, want %v", x, y, got, want)
			}
			if got := color.RGBAModel.Convert(byBild.At(x, y)); got != want {
				t.Errorf("bild FlipH (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

type countingDetector struct {
	calls []position
}

func (d *countingDetector) DetectEdges(_ *bitmap.Grid, i, j int) EdgeMagnitude {
	d.calls = append(d.calls, position{i, j})
	return EdgeMagnitude{Gx: 1, Gy: 1}
}

func TestDetectEdges_StubLeavesGridUnchanged(t *testing.T) {
	g := randomGrid(t, 5, 5, 7)
	before := g.Clone()

	res, err := Apply(g, ModeEdges)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.Visited != 9 {
		t.Errorf("visited: got %d, want 9", res.Visited)
	}
	if !g.Equal(before) {
		t.Error("edge stub modified the grid")
	}
}

func TestDetectEdges_CustomDetector(t *testing.T) {
	g := randomGrid(t, 4, 4, 8)
	d := &countingDetector{}
	e := Engine{Edges: d}

	if _, err := e.Apply(g, ModeEdges); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want := []position{{1, 1}, {1, 2}, {2, 1}, {2, 2}}
	if fmt.Sprint(d.calls) != fmt.Sprint(want) {
		t.Errorf("detector calls: got %v, want %v", d.calls, want)
	}
}

func TestApply_Modes(t *testing.T) {
	tests := []struct {
		mode        Mode
		wantVisited int
		transform   func(*bitmap.Grid) int
	}{
		{ModeBlur, 9, Blur},
		{ModeMirror, 25, Mirror},
		{ModeGrayscale, 25, Grayscale},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			g := randomGrid(t, 5, 5, 21)
			want := g.Clone()
			tt.transform(want)

			res, err := Apply(g, tt.mode)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if res.Mode != tt.mode || res.Visited != tt.wantVisited {
				t.Errorf("result: got %+v, want mode %v visited %d", res, tt.mode, tt.wantVisited)
			}
			if !g.Equal(want) {
				t.Error("Apply result differs from calling the transformation directly")
			}
		})
	}
}

func TestApply_UnknownMode(t *testing.T) {
	for _, m := range []Mode{99, -1, 4} {
		t.Run(m.String(), func(t *testing.T) {
			g := randomGrid(t, 4, 4, 1)
			before := g.Clone()

			res, err := Apply(g, m)
			if !errors.Is(err, ErrUnknownMode) {
				t.Errorf("got %v, want ErrUnknownMode", err)
			}
			if res.Mode != m || res.Visited != 0 {
				t.Errorf("result: got %+v, want mode %d visited 0", res, m)
			}
			if !g.Equal(before) {
				t.Error("unknown mode modified the grid")
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"blur", ModeBlur, false},
		{"0", ModeBlur, false},
		{"edges", ModeEdges, false},
		{"1", ModeEdges, false},
		{" Mirror ", ModeMirror, false},
		{"2", ModeMirror, false},
		{"GRAYSCALE", ModeGrayscale, false},
		{"3", ModeGrayscale, false},
		{"99", Mode(99), false},
		{"sharpen", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("got %v, want ErrUnknownMode", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode_StringValid(t *testing.T) {
	if ModeGrayscale.String() != "grayscale" {
		t.Errorf("got %q", ModeGrayscale.String())
	}
	if Mode(99).String() != "mode(99)" {
		t.Errorf("got %q", Mode(99).String())
	}
	if !ModeBlur.Valid() || Mode(4).Valid() {
		t.Error("Valid reports the wrong modes")
	}
}
