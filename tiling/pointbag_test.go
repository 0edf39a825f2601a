package tiling

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypertile/hyper"
)

func TestPointBagAny(t *testing.T) {
	b := NewPointBag[string]()
	_, _, ok := b.Any(hyper.Zero, 1)
	assert.False(t, ok)

	b.Push(hyper.Complex{A: 0.5}, "a")
	b.Push(hyper.Complex{A: -0.5}, "b")
	assert.Equal(t, 2, b.Len())

	p, v, ok := b.Any(hyper.Complex{A: 0.52}, 0.2)
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, hyper.Complex{A: 0.5}, p)

	// Euclidean distance 0.05 near the boundary is a long way.
	b.Push(hyper.Complex{A: 0.99}, "edge")
	_, _, ok = b.Any(hyper.Complex{A: 0.94}, 0.2)
	assert.False(t, ok)
}

func TestPointBagSearchMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := NewPointBag[int]()
	var pts []hyper.Complex
	for i := 0; i < 2000; i++ {
		p := hyper.Polar(rng.Float64()*5, rng.Float64()*2*math.Pi)
		pts = append(pts, p)
		require.True(t, b.Push(p, i))
	}
	require.Equal(t, len(pts), b.Len())

	for k := 0; k < 500; k++ {
		center := hyper.Polar(rng.Float64()*4, rng.Float64()*2*math.Pi)
		radius := 0.2
		if k%2 == 1 {
			radius = 0.05 + rng.Float64()
		}
		var want []int
		for i, p := range pts {
			if hyper.Metric(center, p) < radius {
				want = append(want, i)
			}
		}
		var got []int
		for p, v := range b.Search(center, radius) {
			assert.Equal(t, pts[v], p)
			got = append(got, v)
		}
		// Hits come back in push order.
		assert.Equal(t, want, got, "center %v radius %v", center, radius)
	}
}

func TestPointBagKeepsCoincidentPoints(t *testing.T) {
	b := NewPointBag[string]()
	p := hyper.Complex{A: 0.25, B: -0.5}
	for _, v := range []string{"first", "second", "third"} {
		require.True(t, b.Push(p, v))
	}
	for k := 0; k < 8; k++ {
		require.True(t, b.Push(hyper.Polar(1, float64(k)*math.Pi/4), "ring"))
	}
	// The tree has split; the origin sits on every quadrant boundary.
	require.True(t, b.Push(hyper.Zero, "origin"))

	var got []string
	for _, v := range b.Search(p, 0.01) {
		got = append(got, v)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)

	got = got[:0]
	for _, v := range b.Search(hyper.Zero, 0.01) {
		got = append(got, v)
	}
	assert.Equal(t, []string{"origin"}, got)
	assert.Equal(t, 12, b.Len())
}

func TestPointBagRejectsPointsOffTheDisk(t *testing.T) {
	b := NewPointBag[int]()
	assert.False(t, b.Push(hyper.Complex{A: 3}, 1))
	assert.Zero(t, b.Len())
}

func TestBallBoundsContainsBall(t *testing.T) {
	for _, c := range []hyper.Complex{hyper.Zero, {A: 0.5}, {A: -0.3, B: 0.8}, {B: -0.95}} {
		m, err := hyper.OriginToPoint(c)
		require.NoError(t, err)
		for _, r := range []float64{0.05, 0.2, 1.5} {
			box := BallBounds(c, r)
			for i := 0; i < 64; i++ {
				p := m.Xform(hyper.Polar(r*0.999, float64(i)*math.Pi/32))
				assert.True(t, p.A >= box.Min.X && p.A <= box.Max.X && p.B >= box.Min.Y && p.B <= box.Max.Y,
					"%v outside %v for ball (%v, %v)", p, box, c, r)
			}
		}
	}
}
