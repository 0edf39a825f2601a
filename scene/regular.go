package scene

import (
	"fmt"
	"math"

	"hypertile/hyper"
	"hypertile/render"
	"hypertile/tiling"
)

// RegularTransitions returns the edges of the {sides, order} tiling's one
// anchor. Edge k crosses the polygon's k-th edge: head for its midpoint, go
// twice the apothem, then turn around and by half a slice so the neighbor's
// edge midpoint, not a vertex, lies on the shared edge. Edge sides-1 of the
// neighbor leads back.
func RegularTransitions(g hyper.PolygonGeometry) []tiling.FrameTransition {
	ts := make([]tiling.FrameTransition, g.Sides)
	for k := range ts {
		ts[k] = tiling.FrameTransition{
			Bearing:     float64(k)*g.SliceAngle + g.SliceAngle/2,
			Offset:      2 * g.EdgeRadius,
			Orientation: math.Pi + g.SliceAngle/2,
		}
	}
	return ts
}

// Regular builds the {sides, order} tiling: one anchor drawing its polygon,
// connected to itself across every edge.
func Regular(sides, order int, style render.PolyStyle) (Scene, error) {
	g, err := hyper.NewPolygonGeometry(sides, order)
	if err != nil {
		return Scene{}, err
	}
	if style == (render.PolyStyle{}) {
		style = render.PolyStyle{Stroke: render.MustStyle("black")}
	}
	verts := g.Vertices()
	id := fmt.Sprintf("{%d,%d}", sides, order)
	a := &tiling.Anchor{
		ID:   id,
		Draw: func(d render.Drawer) { d.DrawPoly(verts, style) },
	}
	for _, t := range RegularTransitions(g) {
		a.Neighbors = append(a.Neighbors, tiling.Edge{ID: id, Transition: t})
	}
	wm := tiling.WorldMap{}
	wm.Add(a)
	return Scene{Name: id, Start: id, Map: wm}, nil
}
