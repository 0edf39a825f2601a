// Package screen maps disk coordinates to pixels. The mapping is a plain
// Euclidean affine transform; nothing here is hyperbolic.
package screen

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/jbeda/geom"

	"hypertile/hyper"
)

// ErrSingularTransform is returned when a projection with a (nearly) zero
// determinant is inverted.
var ErrSingularTransform = errors.New("screen: singular transform")

// singularDet matches the cutoff gg.Matrix.Invert uses before it silently
// falls back to the identity.
const singularDet = 1e-10

// Projection is the affine map f(x, y) = (a*x + b*y + c, d*x + e*y + f).
// The zero value maps everything to the origin; use Identity.
type Projection struct {
	m gg.Matrix
}

// New returns the projection with the given coefficients.
func New(a, b, c, d, e, f float64) Projection {
	return Projection{gg.Matrix{A: a, B: b, C: c, D: d, E: e, F: f}}
}

// FromMatrix wraps m.
func FromMatrix(m gg.Matrix) Projection {
	return Projection{m}
}

// Identity returns the identity projection.
func Identity() Projection {
	return Projection{gg.Identity()}
}

// DiskToScreen fits the unit disk, centered, into a width x height canvas
// with y growing downward.
func DiskToScreen(width, height float64) Projection {
	scale := math.Min(width, height) / 2
	return New(scale, 0, width/2, 0, -scale, height/2)
}

// ThreePoint returns the projection sending z1, z2 and z3 to w1, w2 and w3.
// The source points must not be collinear.
func ThreePoint(z1, z2, z3 hyper.Complex, w1, w2, w3 geom.Coord) (Projection, error) {
	src := New(z2.A-z1.A, z3.A-z1.A, z1.A, z2.B-z1.B, z3.B-z1.B, z1.B)
	inv, err := src.Invert()
	if err != nil {
		return Projection{}, fmt.Errorf("three point projection: %w", err)
	}
	dst := New(w2.X-w1.X, w3.X-w1.X, w1.X, w2.Y-w1.Y, w3.Y-w1.Y, w1.Y)
	return dst.Compose(inv), nil
}

// Matrix returns the underlying gg matrix.
func (p Projection) Matrix() gg.Matrix { return p.m }

// Apply projects a disk point to the screen.
func (p Projection) Apply(z hyper.Complex) geom.Coord {
	pt := p.m.TransformPoint(gg.Pt(z.A, z.B))
	return geom.Coord{X: pt.X, Y: pt.Y}
}

// Compose returns the projection that applies other first, then p.
func (p Projection) Compose(other Projection) Projection {
	return Projection{p.m.Multiply(other.m)}
}

// Det is the determinant of the linear part. A negative value means the
// projection flips orientation, as DiskToScreen does.
func (p Projection) Det() float64 {
	return p.m.A*p.m.E - p.m.B*p.m.D
}

// Scale is the factor by which the projection stretches lengths, assuming it
// is a similarity.
func (p Projection) Scale() float64 {
	return math.Sqrt(math.Abs(p.Det()))
}

// Invert returns the inverse projection.
func (p Projection) Invert() (Projection, error) {
	if det := p.Det(); math.Abs(det) < singularDet || math.IsNaN(det) {
		return Projection{}, fmt.Errorf("%w: det=%g", ErrSingularTransform, det)
	}
	return Projection{p.m.Invert()}, nil
}

// ToDisk maps a screen point back to disk coordinates.
func (p Projection) ToDisk(c geom.Coord) (hyper.Complex, error) {
	inv, err := p.Invert()
	if err != nil {
		return hyper.Complex{}, err
	}
	pt := inv.m.TransformPoint(gg.Pt(c.X, c.Y))
	return hyper.New(pt.X, pt.Y)
}

func (p Projection) String() string {
	m := p.m
	return fmt.Sprintf("[%g %g %g; %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
}
