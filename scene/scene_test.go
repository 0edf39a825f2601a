package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypertile/hyper"
	"hypertile/render"
	"hypertile/tiling"
)

// countingDrawer tallies the calls a scene makes.
type countingDrawer struct {
	lines, polys, images int
	lastStroke           render.Style
	lastImage            image.Image
}

func (c *countingDrawer) DrawLine(a, b hyper.Complex, s render.Style) {
	c.lines++
	c.lastStroke = s
}
func (c *countingDrawer) DrawPoly([]hyper.Complex, render.PolyStyle) { c.polys++ }
func (c *countingDrawer) DrawImage(p hyper.Complex, img image.Image) {
	c.images++
	c.lastImage = img
}

func walk(t *testing.T, sc Scene) tiling.Result {
	t.Helper()
	opts := tiling.DefaultOptions()
	opts.MaxVisits = 100000
	res, err := tiling.Traverse(sc.Map, sc.Start, hyper.Identity(), opts, func(v tiling.Visit) error {
		if v.Anchor.Draw != nil {
			v.Anchor.Draw(&countingDrawer{})
		}
		return nil
	})
	require.NoError(t, err)
	return res
}

func TestLoadFile(t *testing.T) {
	sc, err := Load("testdata/triangles.yaml")
	require.NoError(t, err)
	assert.Equal(t, "triangles", sc.Name)
	assert.Equal(t, "a", sc.Start)
	assert.Equal(t, []string{"a", "b"}, sc.Map.IDs())
	assert.Equal(t, 1.2, sc.Map["a"].Neighbors[0].Transition.Offset)
	assert.InDelta(t, math.Pi, sc.Map["b"].Neighbors[0].Transition.Orientation, 1e-15)

	var d countingDrawer
	sc.Map["a"].Draw(&d)
	assert.Equal(t, 1, d.polys)
	assert.Equal(t, 1, d.lines)
	assert.Equal(t, 2.0, d.lastStroke.Width)

	res := walk(t, sc)
	assert.Equal(t, 2, res.Drawn)
}

func TestLoadRegularFile(t *testing.T) {
	sc, err := Load("testdata/octagons.yaml")
	require.NoError(t, err)
	assert.Equal(t, "octagons", sc.Name)
	require.Len(t, sc.Map, 1)
	assert.Len(t, sc.Map[sc.Start].Neighbors, 8)
	assert.Greater(t, walk(t, sc).Drawn, 8)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseMarkersShareImage(t *testing.T) {
	fsys := fstest.MapFS{"img/dot.png": {Data: pngBytes(t)}}
	src := []byte(`
anchors:
  - id: only
    draw:
      - {marker: [0, 0], image: img/dot.png}
      - {marker: [0.5, 0.5], image: ./img/dot.png}
`)
	sc, err := Parse(src, fsys)
	require.NoError(t, err)
	assert.Equal(t, "only", sc.Start)

	var d countingDrawer
	sc.Map["only"].Draw(&d)
	assert.Equal(t, 2, d.images)
	require.NotNil(t, d.lastImage)
	assert.Equal(t, image.Rect(0, 0, 2, 2), d.lastImage.Bounds())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no anchors", `start: a`, ErrInvalidScene},
		{"unknown neighbor", `
anchors:
  - id: a
    neighbors: [{id: b, offset: 1}]`, tiling.ErrUnknownAnchor},
		{"unknown start", `
start: z
anchors: [{id: a}]`, tiling.ErrUnknownAnchor},
		{"duplicate", `anchors: [{id: a}, {id: a}]`, ErrInvalidScene},
		{"outside disk", `
anchors:
  - id: a
    draw: [{line: [[0, 0], [1, 1]]}]`, hyper.ErrOutsideDisk},
		{"two shapes", `
anchors:
  - id: a
    draw: [{line: [[0, 0], [0.5, 0]], poly: [[0, 0], [0.1, 0]]}]`, ErrInvalidScene},
		{"bad color", `
anchors:
  - id: a
    draw: [{poly: [[0, 0], [0.1, 0], [0, 0.1]], fill: "#xyz"}]`, render.ErrInvalidStyle},
		{"marker without fs", `
anchors:
  - id: a
    draw: [{marker: [0, 0], image: dot.png}]`, ErrInvalidScene},
		{"bad tiling", `regular: {sides: 6, order: 3}`, hyper.ErrInvalidTiling},
		{"nan bearing", `
anchors:
  - id: a
    neighbors: [{id: a, bearing: .nan, offset: 0}]`, hyper.ErrInvalidNumber},
		{"infinite offset", `
anchors:
  - id: a
    neighbors: [{id: a, offset: .inf}]`, hyper.ErrInvalidNumber},
		{"nan orientation", `
anchors:
  - id: a
    neighbors: [{id: a, offset: 1, orientation: -.inf}]`, hyper.ErrInvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegularTransitionsInvertEachOther(t *testing.T) {
	for _, so := range [][2]int{{7, 3}, {5, 4}, {4, 5}, {3, 8}} {
		g, err := hyper.NewPolygonGeometry(so[0], so[1])
		require.NoError(t, err)
		ts := RegularTransitions(g)
		for k := range ts {
			tu := hyper.NewTurtle()
			require.NoError(t, ts[k].Apply(&tu))
			assert.InDelta(t, math.Tanh(g.EdgeRadius), tu.Position().Mag(), 1e-9)
			require.NoError(t, ts[len(ts)-1].Apply(&tu))
			assert.InDelta(t, 0, tu.Position().Mag(), 1e-9, "{%d,%d} edge %d", so[0], so[1], k)
		}
	}
}

func TestRegularNeighborsShareVertices(t *testing.T) {
	g, err := hyper.NewPolygonGeometry(7, 3)
	require.NoError(t, err)
	verts := g.Vertices()
	tu := hyper.NewTurtle()
	require.NoError(t, RegularTransitions(g)[0].Apply(&tu))

	// The neighbor across edge 0 has the two endpoints of that edge among
	// its own vertices.
	m := tu.Xform()
	for _, want := range verts[:2] {
		found := false
		for _, v := range verts {
			if m.Xform(v).AlmostEqual(want, 1e-9) {
				found = true
			}
		}
		assert.True(t, found, "vertex %v", want)
	}
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"heptagons", "pentagons", "spokes", "squares"}, Names())
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			sc, err := Builtin(name)
			require.NoError(t, err)
			assert.Equal(t, name, sc.Name)
			require.NoError(t, sc.Map.Validate())
			assert.GreaterOrEqual(t, walk(t, sc).Drawn, 1)
		})
	}
	_, err := Builtin("nope")
	assert.ErrorIs(t, err, ErrInvalidScene)
}

func TestResolve(t *testing.T) {
	sc, err := Resolve("squares")
	require.NoError(t, err)
	assert.Equal(t, "squares", sc.Name)

	sc, err = Resolve("testdata/triangles.yaml")
	require.NoError(t, err)
	assert.Equal(t, "triangles", sc.Name)
}
