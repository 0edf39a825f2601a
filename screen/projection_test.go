package screen

import (
	"math"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypertile/hyper"
)

const tol = 1e-9

func assertCoord(t *testing.T, want, got geom.Coord) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
}

func TestDiskToScreen(t *testing.T) {
	p := DiskToScreen(500, 300)
	assertCoord(t, geom.Coord{X: 250, Y: 150}, p.Apply(hyper.Zero))
	assertCoord(t, geom.Coord{X: 400, Y: 150}, p.Apply(hyper.One))
	// +i is up on screen.
	assertCoord(t, geom.Coord{X: 250, Y: 0}, p.Apply(hyper.I))
	assert.Less(t, p.Det(), 0.0)
	assert.InDelta(t, 150, p.Scale(), tol)
}

func TestComposeAppliesRightFirst(t *testing.T) {
	shift := New(1, 0, 10, 0, 1, 20)
	double := New(2, 0, 0, 0, 2, 0)
	z := hyper.Complex{A: 1, B: 1}

	got := double.Compose(shift).Apply(z)
	assertCoord(t, geom.Coord{X: 22, Y: 42}, got)

	got = shift.Compose(double).Apply(z)
	assertCoord(t, geom.Coord{X: 12, Y: 22}, got)
}

func TestInvert(t *testing.T) {
	p := New(3, 1, -4, 0.5, 2, 7)
	inv, err := p.Invert()
	require.NoError(t, err)
	for _, z := range []hyper.Complex{{A: 0, B: 0}, {A: 1, B: -2}, {A: 0.3, B: 0.9}} {
		c := p.Apply(z)
		back := inv.Apply(hyper.Complex{A: c.X, B: c.Y})
		assert.InDelta(t, z.A, back.X, tol)
		assert.InDelta(t, z.B, back.Y, tol)
	}
}

func TestInvertSingular(t *testing.T) {
	tests := []struct {
		name string
		p    Projection
	}{
		{"zero", Projection{}},
		{"collapse to line", New(1, 2, 0, 2, 4, 0)},
		{"tiny", New(1e-6, 0, 0, 0, 1e-6, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.Invert()
			assert.ErrorIs(t, err, ErrSingularTransform)
		})
	}
}

func TestThreePoint(t *testing.T) {
	z1, z2, z3 := hyper.Zero, hyper.One, hyper.I
	w1 := geom.Coord{X: 100, Y: 100}
	w2 := geom.Coord{X: 200, Y: 100}
	w3 := geom.Coord{X: 100, Y: 0}

	p, err := ThreePoint(z1, z2, z3, w1, w2, w3)
	require.NoError(t, err)
	assertCoord(t, w1, p.Apply(z1))
	assertCoord(t, w2, p.Apply(z2))
	assertCoord(t, w3, p.Apply(z3))

	// Same map as DiskToScreen for a 200x200 canvas.
	d := DiskToScreen(200, 200)
	z := hyper.Complex{A: -0.4, B: 0.7}
	assertCoord(t, d.Apply(z), p.Apply(z))
}

func TestThreePointCollinear(t *testing.T) {
	_, err := ThreePoint(
		hyper.Zero, hyper.One, hyper.Complex{A: 2, B: 0},
		geom.Coord{}, geom.Coord{X: 1}, geom.Coord{Y: 1})
	assert.ErrorIs(t, err, ErrSingularTransform)
}

func TestToDisk(t *testing.T) {
	p := DiskToScreen(400, 400)
	z, err := p.ToDisk(geom.Coord{X: 300, Y: 100})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, z.A, tol)
	assert.InDelta(t, 0.5, z.B, tol)

	_, err = Projection{}.ToDisk(geom.Coord{})
	assert.ErrorIs(t, err, ErrSingularTransform)
}

func TestRotationScale(t *testing.T) {
	r := FromMatrix(New(1, 0, 0, 0, 1, 0).Matrix())
	assert.InDelta(t, 1, r.Scale(), tol)
	c, s := math.Cos(0.7)*3, math.Sin(0.7)*3
	assert.InDelta(t, 3, New(c, -s, 5, s, c, 5).Scale(), tol)
}
