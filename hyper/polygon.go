package hyper

import (
	"fmt"
	"math"
)

// angleSlack absorbs rounding in angle sums so that Euclidean cases such as
// {6, 3} are rejected rather than producing zero lengths.
const angleSlack = 1e-12

// PolygonGeometry holds the measurements of the regular polygon that tiles
// the plane with Order copies meeting at every vertex.
//
// A slice is the triangle formed by the center and two consecutive vertices:
// two sides of VertexRadius, one of EdgeLength, SliceAngle at the center and
// InternalAngle/2 at both vertices.
type PolygonGeometry struct {
	Sides, Order int

	InternalAngle float64 // angle at each polygon corner
	ExternalAngle float64
	SliceAngle    float64

	EdgeLength   float64
	VertexRadius float64 // center to vertex
	EdgeRadius   float64 // center to edge midpoint (apothem)
}

// NewPolygonGeometry solves the {sides, order} tiling.
func NewPolygonGeometry(sides, order int) (PolygonGeometry, error) {
	if sides < 3 {
		return PolygonGeometry{}, fmt.Errorf("%w: {%d, %d} needs at least 3 sides", ErrInvalidTiling, sides, order)
	}
	if order < 3 {
		return PolygonGeometry{}, fmt.Errorf("%w: {%d, %d} needs order at least 3", ErrInvalidTiling, sides, order)
	}
	g := PolygonGeometry{
		Sides:         sides,
		Order:         order,
		InternalAngle: 2 * math.Pi / float64(order),
		SliceAngle:    2 * math.Pi / float64(sides),
	}
	// The right triangle of center, vertex and edge midpoint has angles
	// π/2, slice/2 and internal/2, and must sum below π.
	if g.InternalAngle+g.SliceAngle >= math.Pi-angleSlack {
		return PolygonGeometry{}, fmt.Errorf("%w: {%d, %d} is not hyperbolic", ErrInvalidTiling, sides, order)
	}
	g.ExternalAngle = math.Pi - g.InternalAngle

	half := g.InternalAngle / 2
	var err error
	if g.EdgeLength, err = TriangleSideLength(g.SliceAngle, half, half); err != nil {
		return PolygonGeometry{}, err
	}
	if g.VertexRadius, err = TriangleSideLength(half, g.SliceAngle, half); err != nil {
		return PolygonGeometry{}, err
	}
	if g.EdgeRadius, err = TriangleSideLength(half, g.SliceAngle/2, math.Pi/2); err != nil {
		return PolygonGeometry{}, err
	}
	return g, nil
}

// TriangleSideLength returns the length of the side opposite alpha in the
// hyperbolic triangle with angles alpha, beta and gamma.
func TriangleSideLength(alpha, beta, gamma float64) (float64, error) {
	if alpha+beta+gamma >= math.Pi-angleSlack || alpha <= 0 || beta <= 0 || gamma <= 0 {
		return 0, fmt.Errorf("%w: angles (%v, %v, %v)", ErrInvalidTriangle, alpha, beta, gamma)
	}
	// Hyperbolic law of cosines for angles:
	// cos α = -cos β cos γ + sin β sin γ cosh a
	c := (math.Cos(alpha) + math.Cos(beta)*math.Cos(gamma)) / (math.Sin(beta) * math.Sin(gamma))
	return math.Acosh(c), nil
}

// AngleDefect returns (sides-2)π minus the polygon's angle sum, which is the
// polygon's area. It is positive for every valid tiling.
func (g PolygonGeometry) AngleDefect() float64 {
	return float64(g.Sides-2)*math.Pi - float64(g.Sides)*g.InternalAngle
}

// Vertices returns the corners of the polygon centered on the origin, the
// first on the +x axis, counterclockwise.
func (g PolygonGeometry) Vertices() []Complex {
	vs := make([]Complex, g.Sides)
	for i := range vs {
		vs[i] = Polar(g.VertexRadius, float64(i)*g.SliceAngle)
	}
	return vs
}

// EdgeMidpoints returns the midpoints of the polygon's edges; midpoint i lies
// between vertices i and i+1.
func (g PolygonGeometry) EdgeMidpoints() []Complex {
	ms := make([]Complex, g.Sides)
	for i := range ms {
		ms[i] = Polar(g.EdgeRadius, (float64(i)+0.5)*g.SliceAngle)
	}
	return ms
}
