package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
)

// ErrUnknownMode is returned by Apply for a Mode outside the defined values.
// The grid is not modified.
var ErrUnknownMode = errors.New("transform: unknown mode")

// Mode selects one transformation. The numeric values are part of the
// external interface and must not change.
type Mode int

const (
	ModeBlur      Mode = 0
	ModeEdges     Mode = 1
	ModeMirror    Mode = 2
	ModeGrayscale Mode = 3
)

var modeNames = map[Mode]string{
	ModeBlur:      "blur",
	ModeEdges:     "edges",
	ModeMirror:    "mirror",
	ModeGrayscale: "grayscale",
}

// String returns the mode name, or "mode(N)" for unknown values.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode accepts a mode name ("blur", "edges", "mirror", "grayscale") or
// its number. A number outside the defined values parses successfully and is
// rejected later by Apply, so callers see ErrUnknownMode in one place.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if s == name {
			return m, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return Mode(n), nil
}

// Result describes one Apply call.
type Result struct {
	Mode    Mode `json:"mode"`
	Visited int  `json:"visited"` // Positions passed to the traversal callback
}

// Engine dispatches a Mode to its transformation.
type Engine struct {
	// Edges handles ModeEdges. Nil means StubEdgeDetector.
	Edges EdgeDetector
}

// Apply runs the transformation selected by m on g in place.
//
// Unknown modes return a Result with Visited 0 and an error wrapping
// ErrUnknownMode, and leave g untouched.
func (e *Engine) Apply(g *bitmap.Grid, m Mode) (Result, error) {
	res := Result{Mode: m}
	switch m {
	case ModeBlur:
		res.Visited = Blur(g)
	case ModeEdges:
		d := e.Edges
		if d == nil {
			d = StubEdgeDetector{}
		}
		res.Visited = DetectEdges(g, d)
	case ModeMirror:
		res.Visited = Mirror(g)
	case ModeGrayscale:
		res.Visited = Grayscale(g)
	default:
		return res, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return res, nil
}

// Apply runs m on g with the default Engine.
func Apply(g *bitmap.Grid, m Mode) (Result, error) {
	var e Engine
	return e.Apply(g, m)
}
