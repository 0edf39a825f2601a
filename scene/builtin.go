package scene

import (
	"fmt"
	"math"
	"slices"

	"hypertile/hyper"
	"hypertile/render"
	"hypertile/tiling"
)

var builtins = map[string]func() (Scene, error){
	"pentagons": func() (Scene, error) { return twoTone(5, 4, "#c33", "#fc6") },
	"heptagons": func() (Scene, error) { return twoTone(7, 3, "steelblue", "#bde") },
	"squares":   func() (Scene, error) { return twoTone(4, 5, "#363", "#9c9") },
	"spokes":    spokes,
}

// Names lists the built-in scenes.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Builtin returns a built-in scene by name.
func Builtin(name string) (Scene, error) {
	f, ok := builtins[name]
	if !ok {
		return Scene{}, fmt.Errorf("%w: no built-in scene %q", ErrInvalidScene, name)
	}
	sc, err := f()
	if err != nil {
		return Scene{}, err
	}
	sc.Name = name
	return sc, nil
}

// Resolve returns the built-in scene called name, or loads name as a file.
func Resolve(name string) (Scene, error) {
	if _, ok := builtins[name]; ok {
		return Builtin(name)
	}
	return Load(name)
}

// twoTone is a regular tiling whose tiles draw a dark polygon with a light
// wedge on their first slice, so that each tile's orientation is visible.
func twoTone(sides, order int, dark, light string) (Scene, error) {
	sc, err := Regular(sides, order, render.PolyStyle{})
	if err != nil {
		return Scene{}, err
	}
	g, err := hyper.NewPolygonGeometry(sides, order)
	if err != nil {
		return Scene{}, err
	}
	verts := g.Vertices()
	wedge := []hyper.Complex{hyper.Zero, verts[0], verts[1]}
	body := render.PolyStyle{Fill: render.MustStyle(dark), Stroke: render.MustStyle("black")}
	accent := render.PolyStyle{Fill: render.MustStyle(light)}
	a := sc.Map[sc.Start]
	a.Draw = func(d render.Drawer) {
		d.DrawPoly(verts, body)
		d.DrawPoly(wedge, accent)
	}
	return sc, nil
}

// spokes is a single anchor: lines from the center out to the boundary and
// a ring of polygons around the origin.
func spokes() (Scene, error) {
	const n = 12
	ring := make([]hyper.Complex, n)
	ends := make([]hyper.Complex, n)
	for i := range n {
		theta := 2 * math.Pi * float64(i) / n
		ring[i] = hyper.Polar(1.5, theta)
		ends[i] = hyper.Unit(theta)
	}
	red := render.MustStyle("#c33")
	fill := render.PolyStyle{Fill: render.MustStyle("#fc6"), Stroke: render.MustStyle("black")}
	a := &tiling.Anchor{
		ID: "spokes",
		Draw: func(d render.Drawer) {
			for _, e := range ends {
				d.DrawLine(hyper.Zero, e, red)
			}
			for i := range ring {
				d.DrawLine(ring[i], ring[(i+1)%n], render.Style{})
			}
			d.DrawPoly([]hyper.Complex{ring[0], ring[n/3], ring[2*n/3]}, fill)
		},
	}
	wm := tiling.WorldMap{}
	wm.Add(a)
	return Scene{Start: a.ID, Map: wm}, nil
}
