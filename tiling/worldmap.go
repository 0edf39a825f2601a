// Package tiling renders unbounded tilings from a finite graph of anchors.
// Each anchor draws one tile in its own frame and lists how to reach its
// neighbors; Traverse walks that graph outward from the view until the
// tiles are too small to see.
package tiling

import (
	"errors"
	"fmt"
	"slices"

	"hypertile/hyper"
	"hypertile/render"
)

var (
	ErrUnknownAnchor = errors.New("tiling: unknown anchor")
	ErrVisitLimit    = errors.New("tiling: visit limit reached")
)

// FrameTransition takes a turtle from one anchor's home frame to a
// neighbor's: Rotate(Bearing), Forward(Offset), Rotate(Orientation). Offset
// is a hyperbolic distance.
type FrameTransition struct {
	Bearing     float64 `yaml:"bearing"`
	Offset      float64 `yaml:"offset"`
	Orientation float64 `yaml:"orientation"`
}

func (ft FrameTransition) steps() hyper.Steps {
	return hyper.Steps{Rot1: ft.Bearing, Distance: ft.Offset, Rot2: ft.Orientation}
}

// Validate fails with hyper.ErrInvalidNumber unless all three values are
// finite.
func (ft FrameTransition) Validate() error {
	return ft.steps().Validate()
}

// Apply moves t along the transition.
func (ft FrameTransition) Apply(t *hyper.Turtle) error {
	return ft.steps().Apply(t)
}

// Edge links an anchor to a neighbor.
type Edge struct {
	ID         string
	Transition FrameTransition
}

// Anchor is one tile of a tiling. Draw receives points in the anchor's home
// frame; it may be nil for anchors that only connect others.
type Anchor struct {
	ID        string
	Neighbors []Edge
	Draw      func(render.Drawer)
}

// WorldMap indexes anchors by ID. The walk only reads it.
type WorldMap map[string]*Anchor

// Add inserts anchors keyed by their IDs.
func (wm WorldMap) Add(anchors ...*Anchor) {
	for _, a := range anchors {
		wm[a.ID] = a
	}
}

// IDs returns the anchor IDs in sorted order.
func (wm WorldMap) IDs() []string {
	ids := make([]string, 0, len(wm))
	for id := range wm {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Validate checks that every anchor is stored under its own ID and that
// every edge names an anchor in the map with a finite transition.
func (wm WorldMap) Validate() error {
	for _, id := range wm.IDs() {
		a := wm[id]
		if a == nil {
			return fmt.Errorf("%w: %q has no definition", ErrUnknownAnchor, id)
		}
		if a.ID != id {
			return fmt.Errorf("tiling: anchor %q stored under %q", a.ID, id)
		}
		for _, e := range a.Neighbors {
			if _, ok := wm[e.ID]; !ok {
				return fmt.Errorf("%w: %q (neighbor of %q)", ErrUnknownAnchor, e.ID, id)
			}
			if err := e.Transition.Validate(); err != nil {
				return fmt.Errorf("tiling: edge %q -> %q: %w", id, e.ID, err)
			}
		}
	}
	return nil
}
