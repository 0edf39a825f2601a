package hyper

import (
	"fmt"
	"math"
)

// Mobius is an isometry of the open unit disk, the Möbius transform
//
//	f(z) = t(z + b) / (conj(b)z + 1)
//
// with |b| < 1 and |t| = 1. Every constructor and Compose keep the transform
// inside this subgroup, so disk points are never sent outside the disk.
//
// The zero value is not a valid transform; start from Identity.
type Mobius struct {
	b, t Complex
}

// Identity returns the transform that leaves every point in place.
func Identity() Mobius {
	return Mobius{b: Zero, t: One}
}

// Rotate returns the transform rotating counterclockwise about the origin.
func Rotate(radians float64) Mobius {
	return Mobius{b: Zero, t: Unit(radians)}
}

// OriginToPoint returns the translation sending the origin to p while
// keeping the ideal points on the line through p fixed.
func OriginToPoint(p Complex) (Mobius, error) {
	if err := checkInside(p); err != nil {
		return Mobius{}, err
	}
	return Mobius{b: p, t: One}, nil
}

// PointToOrigin returns the translation sending p to the origin.
func PointToOrigin(p Complex) (Mobius, error) {
	return OriginToPoint(p.Neg())
}

// FromZeroOne returns the transform sending 0 to p and 1 to the ideal point q.
func FromZeroOne(p, q Complex) (Mobius, error) {
	if err := checkInside(p); err != nil {
		return Mobius{}, err
	}
	// t*b = p and t(1 + b)/(conj(b) + 1) = q solve to
	// t = (q - p)/(1 - conj(p)q), b = p*conj(t).
	num := q.Sub(p)
	t, err := num.Div(One.Sub(q.MulConj(p)))
	if err != nil {
		return Mobius{}, fmt.Errorf("from zero one %v %v: %w", p, q, err)
	}
	t, err = t.Normalize()
	if err != nil {
		return Mobius{}, fmt.Errorf("from zero one %v %v: %w", p, q, err)
	}
	return Mobius{b: p.MulConj(t), t: t}, nil
}

// ToZeroOne returns the transform sending x to 0 and the ideal point y to 1.
func ToZeroOne(x, y Complex) (Mobius, error) {
	if err := checkInside(x); err != nil {
		return Mobius{}, err
	}
	b := x.Neg()
	t, err := y.MulConj(b).Add(One).Div(y.Add(b))
	if err != nil {
		return Mobius{}, fmt.Errorf("to zero one %v %v: %w", x, y, err)
	}
	t, err = t.Normalize()
	if err != nil {
		return Mobius{}, fmt.Errorf("to zero one %v %v: %w", x, y, err)
	}
	return Mobius{b: b, t: t}, nil
}

// TwoPoint returns the transform sending x1 to x2 and ideal y1 to ideal y2.
func TwoPoint(x1, y1, x2, y2 Complex) (Mobius, error) {
	to, err := ToZeroOne(x1, y1)
	if err != nil {
		return Mobius{}, err
	}
	from, err := FromZeroOne(x2, y2)
	if err != nil {
		return Mobius{}, err
	}
	return from.Compose(to)
}

func checkInside(p Complex) error {
	if !finite(p.A) || !finite(p.B) {
		return fmt.Errorf("%w: %v", ErrInvalidNumber, p)
	}
	if p.MagSq() >= 1 {
		return fmt.Errorf("%w: %v", ErrOutsideDisk, p)
	}
	return nil
}

// B returns the image of the origin under the inverse transform, negated.
func (m Mobius) B() Complex { return m.b }

// T returns the unit rotation factor.
func (m Mobius) T() Complex { return m.t }

func (m Mobius) String() string {
	return fmt.Sprintf("mobius(b=%v, t=%v)", m.b, m.t)
}

// Xform applies the transform to z, for |z| <= 1.
func (m Mobius) Xform(z Complex) Complex {
	den := z.MulConj(m.b).Add(One)
	return m.b.Add(z).quo(den, den.MagSq()).Mul(m.t)
}

// Invert returns the transform g with g∘m = m∘g = identity.
func (m Mobius) Invert() Mobius {
	return Mobius{b: m.b.Mul(m.t).Neg(), t: m.t.Conj()}
}

// InverseXform is m.Invert().Xform(p) without building the inverse.
func (m Mobius) InverseXform(p Complex) Complex {
	q := p.MulConj(m.t)
	den := One.Sub(q.MulConj(m.b))
	return q.Sub(m.b).quo(den, den.MagSq())
}

// Compose returns the transform r with r.Xform(z) == m.Xform(other.Xform(z)).
// The result is rebuilt from where it sends 0 and 1, which keeps it in
// (b, t) form.
func (m Mobius) Compose(other Mobius) (Mobius, error) {
	p := m.Xform(other.Xform(Zero))
	q := m.Xform(other.Xform(One))
	return FromZeroOne(p, q)
}

// ComposeMany composes right to left: ComposeMany(f, g, h) is f∘g∘h.
func ComposeMany(xfs ...Mobius) (Mobius, error) {
	p, q := Zero, One
	for i := len(xfs) - 1; i >= 0; i-- {
		p = xfs[i].Xform(p)
		q = xfs[i].Xform(q)
	}
	return FromZeroOne(p, q)
}

// Rotated is m.Compose(Rotate(radians)) computed in closed form:
// m(e^(iθ)z) has b' = b·e^(-iθ) and t' = t·e^(iθ), so it cannot fail for a
// finite angle. A non-finite angle gives a transform that is not IsFinite;
// Steps.Apply rejects such angles up front.
func (m Mobius) Rotated(radians float64) Mobius {
	r := Unit(radians)
	t := r.Mul(m.t)
	return Mobius{b: m.b.MulConj(r), t: t.Scale(1 / t.Mag())}
}

// IsFinite reports whether both coefficients are finite.
func (m Mobius) IsFinite() bool {
	return m.b.IsFinite() && m.t.IsFinite()
}

// AlmostEqual reports whether both transforms move 0 and 1 to the same
// places within eps.
func (m Mobius) AlmostEqual(o Mobius, eps float64) bool {
	return m.Xform(Zero).AlmostEqual(o.Xform(Zero), eps) &&
		m.Xform(One).AlmostEqual(o.Xform(One), eps)
}

// Polar converts hyperbolic polar coordinates to a disk point. r is a
// distance in the hyperbolic metric.
func Polar(r, radians float64) Complex {
	return Unit(radians).Scale(math.Tanh(0.5 * r))
}

// Metric returns the hyperbolic distance between two disk points.
func Metric(z1, z2 Complex) float64 {
	num := z1.Sub(z2)
	den := One.Sub(z1.MulConj(z2))
	return 2 * math.Atanh(num.Mag()/den.Mag())
}

// OriginMetric returns the hyperbolic distance from the origin to z.
func OriginMetric(z Complex) float64 {
	return 2 * math.Atanh(z.Mag())
}
