package view

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jbeda/geom"
)

// ErrInvalidDrag is returned for a malformed drag string.
var ErrInvalidDrag = errors.New("view: invalid drag")

// Drag is one pan gesture in screen pixels.
type Drag struct {
	Start, End geom.Coord
}

// ParseDrag reads "x0,y0,x1,y1".
func ParseDrag(s string) (Drag, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Drag{}, fmt.Errorf("%w: %q: want x0,y0,x1,y1", ErrInvalidDrag, s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Drag{}, fmt.Errorf("%w: %q: %v", ErrInvalidDrag, s, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Drag{}, fmt.Errorf("%w: %q: not a finite number", ErrInvalidDrag, s)
		}
		v[i] = f
	}
	return Drag{Start: geom.Coord{X: v[0], Y: v[1]}, End: geom.Coord{X: v[2], Y: v[3]}}, nil
}

func (d Drag) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", d.Start.X, d.Start.Y, d.End.X, d.End.Y)
}

// DragTracker turns a stream of pointer positions into pan gestures. One
// tracker follows one pointer: the mouse or a single touch.
type DragTracker struct {
	active bool
	last   geom.Coord
}

// Begin starts a gesture at p.
func (t *DragTracker) Begin(p geom.Coord) {
	t.active, t.last = true, p
}

// Move reports the drag from the previous position to p. It reports false
// when no gesture is active or the pointer has not moved.
func (t *DragTracker) Move(p geom.Coord) (Drag, bool) {
	if !t.active || p == t.last {
		return Drag{}, false
	}
	d := Drag{Start: t.last, End: p}
	t.last = p
	return d, true
}

// End finishes the gesture.
func (t *DragTracker) End() {
	t.active = false
}

// Active reports whether a gesture is in progress.
func (t *DragTracker) Active() bool { return t.active }
