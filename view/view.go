// Package view holds the interactive state of a tiling display: which
// anchor the view is attached to and the transform placing it on the disk.
// Pan and Frame are pure; Session wraps them for event-driven hosts.
package view

import (
	"fmt"

	"github.com/jbeda/geom"

	"hypertile/hyper"
	"hypertile/render"
	"hypertile/screen"
	"hypertile/tiling"
)

// State is the view of a WorldMap: Anchor's home frame sits at View.
type State struct {
	View   hyper.Mobius
	Anchor string
}

// Home returns the state with anchor at the disk origin.
func Home(anchor string) State {
	return State{View: hyper.Identity(), Anchor: anchor}
}

// Pan returns st moved so that the disk point under screen position start
// ends up under end. Both points are clamped to the disk of radius clamp
// first. On error st should be kept as it was.
func Pan(st State, proj screen.Projection, clamp float64, start, end geom.Coord) (State, error) {
	ds, err := proj.ToDisk(start)
	if err != nil {
		return st, fmt.Errorf("pan: %w", err)
	}
	de, err := proj.ToDisk(end)
	if err != nil {
		return st, fmt.Errorf("pan: %w", err)
	}
	return PanDisk(st, ds.ClampRadius(clamp), de.ClampRadius(clamp))
}

// PanDisk is Pan with disk coordinates that are already inside the disk.
func PanDisk(st State, start, end hyper.Complex) (State, error) {
	toOrigin, err := hyper.PointToOrigin(start)
	if err != nil {
		return st, fmt.Errorf("pan: %w", err)
	}
	fromOrigin, err := hyper.OriginToPoint(end)
	if err != nil {
		return st, fmt.Errorf("pan: %w", err)
	}
	v, err := hyper.ComposeMany(fromOrigin, toOrigin, st.View)
	if err != nil {
		return st, fmt.Errorf("pan: %w", err)
	}
	st.View = v
	return st, nil
}

// Frame draws wm through dc starting from st and returns the state
// re-anchored on the drawn anchor closest to the origin. The caller clears
// the surface first when it wants a fresh frame. On error, or when nothing
// could be drawn, st is returned unchanged.
func Frame(st State, wm tiling.WorldMap, dc *render.DiskContext, opts tiling.Options) (State, tiling.Result, error) {
	res, err := tiling.Traverse(wm, st.Anchor, st.View, opts, func(v tiling.Visit) error {
		if v.Anchor.Draw == nil {
			return nil
		}
		dc.SetView(v.Turtle.Xform())
		v.Anchor.Draw(dc)
		return dc.Err()
	})
	if err != nil {
		return st, res, err
	}
	if res.Drawn == 0 {
		return st, res, nil
	}
	return State{View: res.Closest.Turtle.Xform(), Anchor: res.Closest.Anchor.ID}, res, nil
}
