package hyper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

// samplePoints covers the disk from the origin out to near the boundary.
var samplePoints = []Complex{
	{0, 0}, {0.5, 0}, {0, -0.5}, {0.3, 0.4}, {-0.6, 0.2}, {-0.1, -0.85}, {0.7, 0.7},
}

func sampleTransforms(t *testing.T) []Mobius {
	t.Helper()
	var xfs []Mobius
	xfs = append(xfs, Identity(), Rotate(1.1), Rotate(-2.5))
	for _, p := range []Complex{{0.2, 0.1}, {-0.7, 0.3}, {0, 0.9}} {
		m, err := OriginToPoint(p)
		require.NoError(t, err)
		xfs = append(xfs, m, m.Rotated(0.8))
	}
	m, err := FromZeroOne(Complex{0.1, -0.4}, Unit(2))
	require.NoError(t, err)
	return append(xfs, m)
}

func TestComposeWithInverseIsIdentity(t *testing.T) {
	for _, f := range sampleTransforms(t) {
		g, err := f.Compose(f.Invert())
		require.NoError(t, err)
		h, err := f.Invert().Compose(f)
		require.NoError(t, err)
		for _, z := range samplePoints {
			assert.True(t, g.Xform(z).AlmostEqual(z, tol), "%v∘inverse moved %v to %v", f, z, g.Xform(z))
			assert.True(t, h.Xform(z).AlmostEqual(z, tol), "inverse∘%v moved %v to %v", f, z, h.Xform(z))
		}
	}
}

func TestComposeMatchesSequentialApplication(t *testing.T) {
	xfs := sampleTransforms(t)
	for _, f := range xfs {
		for _, g := range xfs {
			fg, err := f.Compose(g)
			require.NoError(t, err)
			for _, z := range samplePoints {
				want := f.Xform(g.Xform(z))
				assert.True(t, fg.Xform(z).AlmostEqual(want, tol), "(%v∘%v)(%v) = %v, want %v", f, g, z, fg.Xform(z), want)
			}
		}
	}
}

func TestComposeMany(t *testing.T) {
	xfs := sampleTransforms(t)
	many, err := ComposeMany(xfs[2], xfs[4], xfs[6])
	require.NoError(t, err)
	pair, err := xfs[4].Compose(xfs[6])
	require.NoError(t, err)
	want, err := xfs[2].Compose(pair)
	require.NoError(t, err)
	assert.True(t, many.AlmostEqual(want, tol))
}

func TestRotationsAdd(t *testing.T) {
	angles := []float64{0, 0.3, -1.2, math.Pi / 2, 2.9, -3.1}
	for _, a := range angles {
		for _, b := range angles {
			got, err := Rotate(a).Compose(Rotate(b))
			require.NoError(t, err)
			assert.True(t, got.AlmostEqual(Rotate(a+b), tol), "rotate(%v)∘rotate(%v)", a, b)
		}
	}
}

func TestRotatedMatchesCompose(t *testing.T) {
	for _, f := range sampleTransforms(t) {
		want, err := f.Compose(Rotate(0.9))
		require.NoError(t, err)
		assert.True(t, f.Rotated(0.9).AlmostEqual(want, tol))
	}
}

func TestInverseXformMatchesInvert(t *testing.T) {
	for _, f := range sampleTransforms(t) {
		inv := f.Invert()
		for _, z := range samplePoints {
			assert.True(t, f.InverseXform(z).AlmostEqual(inv.Xform(z), tol))
		}
	}
}

func TestTransformsStayInDisk(t *testing.T) {
	xfs := sampleTransforms(t)
	for _, f := range xfs {
		assert.Less(t, f.B().Mag(), 1.0)
		assert.InDelta(t, 1, f.T().Mag(), 1e-12)
		for _, z := range samplePoints {
			assert.Less(t, f.Xform(z).Mag(), 1.0)
		}
		// Ideal points stay ideal.
		assert.InDelta(t, 1, f.Xform(Unit(0.4)).Mag(), tol)
	}
}

func TestConstructors(t *testing.T) {
	p := Complex{0.3, -0.2}

	o2p, err := OriginToPoint(p)
	require.NoError(t, err)
	assert.True(t, o2p.Xform(Zero).AlmostEqual(p, tol))

	p2o, err := PointToOrigin(p)
	require.NoError(t, err)
	assert.True(t, p2o.Xform(p).AlmostEqual(Zero, tol))
	assert.True(t, p2o.Xform(Zero).AlmostEqual(p.Neg(), tol))

	q := Unit(1.3)
	fzo, err := FromZeroOne(p, q)
	require.NoError(t, err)
	assert.True(t, fzo.Xform(Zero).AlmostEqual(p, tol))
	assert.True(t, fzo.Xform(One).AlmostEqual(q, tol))

	tzo, err := ToZeroOne(p, q)
	require.NoError(t, err)
	assert.True(t, tzo.Xform(p).AlmostEqual(Zero, tol))
	assert.True(t, tzo.Xform(q).AlmostEqual(One, tol))

	x2, y2 := Complex{-0.5, 0.1}, Unit(-2)
	tp, err := TwoPoint(p, q, x2, y2)
	require.NoError(t, err)
	assert.True(t, tp.Xform(p).AlmostEqual(x2, tol))
	assert.True(t, tp.Xform(q).AlmostEqual(y2, tol))
}

func TestConstructorsRejectOutsideDisk(t *testing.T) {
	_, err := OriginToPoint(Complex{1, 0})
	assert.ErrorIs(t, err, ErrOutsideDisk)
	_, err = PointToOrigin(Complex{0.8, 0.8})
	assert.ErrorIs(t, err, ErrOutsideDisk)
	_, err = FromZeroOne(Complex{2, 0}, One)
	assert.ErrorIs(t, err, ErrOutsideDisk)
	_, err = ToZeroOne(Complex{0, -1.5}, One)
	assert.ErrorIs(t, err, ErrOutsideDisk)
}

func TestMetric(t *testing.T) {
	assert.InDelta(t, 0, Metric(Complex{0.2, 0.3}, Complex{0.2, 0.3}), eps)
	assert.InDelta(t, 3, OriginMetric(Polar(3, 0.5)), tol)
	assert.True(t, Polar(0, 1.234).AlmostEqual(Zero, eps))

	// Isometries preserve the metric.
	a, b := Complex{0.1, 0.5}, Complex{-0.4, -0.2}
	for _, f := range sampleTransforms(t) {
		assert.InDelta(t, Metric(a, b), Metric(f.Xform(a), f.Xform(b)), tol)
	}
}
