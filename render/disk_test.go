package render

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypertile/hyper"
	"hypertile/screen"
)

// recorder is a Surface that remembers what it was asked to do.
type recorder struct {
	ops       []string
	arcs      []recordedArc
	lines     []geom.Coord
	markers   []geom.Coord
	strokeErr error
}

type recordedArc struct {
	center     geom.Coord
	r          float64
	start, end float64
	ccw        bool
}

func (r *recorder) BeginPath()          { r.ops = append(r.ops, "begin") }
func (r *recorder) MoveTo(p geom.Coord) { r.ops = append(r.ops, "move") }
func (r *recorder) LineTo(p geom.Coord) {
	r.ops = append(r.ops, "line")
	r.lines = append(r.lines, p)
}
func (r *recorder) Arc(c geom.Coord, radius, start, end float64, ccw bool) {
	r.ops = append(r.ops, "arc")
	r.arcs = append(r.arcs, recordedArc{c, radius, start, end, ccw})
}
func (r *recorder) ClosePath() { r.ops = append(r.ops, "close") }
func (r *recorder) Stroke(Style) error {
	r.ops = append(r.ops, "stroke")
	return r.strokeErr
}
func (r *recorder) Fill(Style) error {
	r.ops = append(r.ops, "fill")
	return nil
}
func (r *recorder) Marker(c geom.Coord, size float64, img image.Image) error {
	r.ops = append(r.ops, "marker")
	r.markers = append(r.markers, c)
	return nil
}
func (r *recorder) Clear(Style) error {
	r.ops = append(r.ops, "clear")
	return nil
}

func newTestContext(view hyper.Mobius) (*DiskContext, *recorder) {
	rec := &recorder{}
	return NewDiskContext(rec, view, screen.DiskToScreen(200, 200), DefaultOptions()), rec
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		a, b hyper.Complex
		want LineKind
	}{
		{"diameter", hyper.Complex{A: -0.5}, hyper.Complex{A: 0.7}, LineStraight},
		{"through origin", hyper.Zero, hyper.Complex{A: 0.3, B: 0.4}, LineStraight},
		{"collinear with origin", hyper.Complex{A: 0.1, B: 0.1}, hyper.Complex{A: 0.6, B: 0.6}, LineStraight},
		{"off center", hyper.Complex{A: 0.5}, hyper.Complex{B: 0.5}, LineArc},
		{"two ideal points", hyper.Unit(0.2), hyper.Unit(2.0), LineIdeal},
		{"one ideal point", hyper.Unit(0.2), hyper.Complex{A: 0.1, B: 0.5}, LineArc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ClassifyLine(tt.a, tt.b)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyLineCenterIsOrthogonal(t *testing.T) {
	pairs := [][2]hyper.Complex{
		{{A: 0.5}, {B: 0.5}},
		{{A: -0.3, B: 0.2}, {A: 0.6, B: 0.5}},
		{{A: 0.9, B: -0.1}, {A: -0.2, B: -0.8}},
	}
	for _, p := range pairs {
		kind, c := ClassifyLine(p[0], p[1])
		require.Equal(t, LineArc, kind)
		ra := p[0].Sub(c).Mag()
		rb := p[1].Sub(c).Mag()
		assert.InDelta(t, ra, rb, 1e-9, "both ends on the circle")
		assert.InDelta(t, c.MagSq(), 1+ra*ra, 1e-9, "orthogonal to the boundary")
	}
}

func TestLineToArc(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	dc.MoveTo(hyper.Complex{A: 0.5})
	dc.LineTo(hyper.Complex{B: 0.5})

	require.Len(t, rec.arcs, 1)
	arc := rec.arcs[0]
	assert.InDelta(t, 225, arc.center.X, 1e-9)
	assert.InDelta(t, -25, arc.center.Y, 1e-9)
	assert.InDelta(t, math.Sqrt(2.125)*100, arc.r, 1e-9)
	assert.False(t, arc.ccw)
	// Screen angles of (150, 100) and (100, 50) around the center.
	assert.InDelta(t, math.Atan2(125, -75), arc.start, 1e-9)
	assert.InDelta(t, math.Atan2(75, -125), arc.end, 1e-9)
}

func TestLineToReversedArcFlipsDirection(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	dc.MoveTo(hyper.Complex{B: 0.5})
	dc.LineTo(hyper.Complex{A: 0.5})
	require.Len(t, rec.arcs, 1)
	assert.True(t, rec.arcs[0].ccw)
}

func TestLineToStraight(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	dc.MoveTo(hyper.Complex{A: -0.5})
	dc.LineTo(hyper.Complex{A: 0.5})
	assert.Empty(t, rec.arcs)
	require.Len(t, rec.lines, 1)
	assert.InDelta(t, 150, rec.lines[0].X, 1e-9)
	assert.InDelta(t, 100, rec.lines[0].Y, 1e-9)
}

func TestLineToIdeal(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	dc.MoveTo(hyper.Unit(0))
	dc.LineTo(hyper.Unit(math.Pi / 2))
	require.Len(t, rec.arcs, 1)
	arc := rec.arcs[0]
	assert.InDelta(t, 100, arc.center.X, 1e-9)
	assert.InDelta(t, 100, arc.center.Y, 1e-9)
	assert.InDelta(t, 100, arc.r, 1e-9)
	// Disk counterclockwise is canvas counterclockwise once y is flipped.
	assert.True(t, arc.ccw)
	assert.InDelta(t, 0, arc.start, 1e-9)
	assert.InDelta(t, -math.Pi/2, arc.end, 1e-9)
}

func TestViewIsAppliedBeforeProjection(t *testing.T) {
	view, err := hyper.OriginToPoint(hyper.Complex{A: 0.5})
	require.NoError(t, err)
	dc, rec := newTestContext(view)
	dc.DrawImage(hyper.Zero, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.Len(t, rec.markers, 1)
	assert.InDelta(t, 150, rec.markers[0].X, 1e-9)
	assert.InDelta(t, 100, rec.markers[0].Y, 1e-9)

	rec.markers = nil
	dc.DrawImage(hyper.Zero, nil)
	assert.Empty(t, rec.markers)
}

func TestClear(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	dc.Clear()
	assert.Equal(t, []string{"clear", "begin", "arc", "close", "fill", "stroke", "begin"}, rec.ops)
	require.Len(t, rec.arcs, 1)
	assert.InDelta(t, 100, rec.arcs[0].r, 1e-9)
	assert.InDelta(t, 2*math.Pi, rec.arcs[0].end-rec.arcs[0].start, 1e-9)
}

func TestDrawPoly(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	dc.DrawPoly(nil, PolyStyle{Fill: MustStyle("red")})
	assert.Empty(t, rec.ops)

	tri := []hyper.Complex{{A: 0}, {A: 0.3}, {B: 0.3}}
	dc.DrawPoly(tri, PolyStyle{Fill: MustStyle("red"), Stroke: MustStyle("black")})
	assert.Equal(t, []string{"begin", "move", "line", "arc", "line", "close", "fill", "stroke"}, rec.ops)

	rec.ops = nil
	dc.DrawPoly(tri, PolyStyle{Stroke: MustStyle("black")})
	assert.NotContains(t, rec.ops, "fill")
	assert.Contains(t, rec.ops, "stroke")
}

func TestDrawLineDefaultsToBlack(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	dc.DrawLine(hyper.Zero, hyper.Complex{A: 0.5}, Style{})
	assert.Equal(t, []string{"begin", "move", "line", "stroke"}, rec.ops)
}

func TestStickyError(t *testing.T) {
	dc, rec := newTestContext(hyper.Identity())
	boom := errors.New("boom")
	rec.strokeErr = boom
	dc.DrawLine(hyper.Zero, hyper.Complex{A: 0.5}, Style{})
	dc.DrawLine(hyper.Zero, hyper.Complex{B: 0.5}, Style{})
	assert.ErrorIs(t, dc.Err(), boom)

	strokes := 0
	for _, op := range rec.ops {
		if op == "stroke" {
			strokes++
		}
	}
	assert.Equal(t, 1, strokes)
}

func TestArcSweep(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		ccw        bool
		want       float64
	}{
		{"clockwise short", 0, 1, false, 1},
		{"clockwise wraps", 1, 0, false, 2*math.Pi - 1},
		{"counterclockwise short", 1, 0, true, -1},
		{"counterclockwise wraps", 0, 1, true, -(2*math.Pi - 1)},
		{"full circle", 0, 2 * math.Pi, false, 2 * math.Pi},
		{"more than full", 0, 7, false, 2 * math.Pi},
		{"empty", 0.5, 0.5, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, arcSweep(tt.start, tt.end, tt.ccw), 1e-12)
		})
	}
}
