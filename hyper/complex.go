// Package hyper implements the transform engine for the Poincaré disk model
// of the hyperbolic plane: complex arithmetic, the Möbius transforms that act
// as isometries of the open unit disk, a turtle built on those transforms, and
// the trigonometry of regular hyperbolic tilings.
//
// All curvature is fixed at K = -1. Values are immutable unless documented
// otherwise; nothing in this package logs or retries.
package hyper

import (
	"fmt"
	"math"
)

// SingularEpsilon is the squared magnitude below which a divisor is treated
// as zero. It is the only division cutoff in the package.
const SingularEpsilon = 1e-7

// Complex is the number A + Bi.
type Complex struct {
	A, B float64
}

var (
	Zero = Complex{0, 0}
	One  = Complex{1, 0}
	I    = Complex{0, 1}
)

// New returns A + Bi, failing with ErrInvalidNumber when either part is not
// a finite number.
func New(a, b float64) (Complex, error) {
	if !finite(a) || !finite(b) {
		return Complex{}, fmt.Errorf("%w: (%v, %v)", ErrInvalidNumber, a, b)
	}
	return Complex{a, b}, nil
}

// Unit returns e^(i*theta).
func Unit(theta float64) Complex {
	return Complex{math.Cos(theta), math.Sin(theta)}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// IsFinite reports whether both parts are finite numbers.
func (z Complex) IsFinite() bool {
	return finite(z.A) && finite(z.B)
}

func (z Complex) String() string {
	if z.B < 0 {
		return fmt.Sprintf("[%g - %gi]", z.A, -z.B)
	}
	return fmt.Sprintf("[%g + %gi]", z.A, z.B)
}

func (z Complex) Add(o Complex) Complex {
	return Complex{z.A + o.A, z.B + o.B}
}

func (z Complex) Sub(o Complex) Complex {
	return Complex{z.A - o.A, z.B - o.B}
}

func (z Complex) Mul(o Complex) Complex {
	return Complex{z.A*o.A - z.B*o.B, z.A*o.B + z.B*o.A}
}

// MulConj returns z * conj(o) without building the conjugate.
func (z Complex) MulConj(o Complex) Complex {
	return Complex{z.A*o.A + z.B*o.B, z.B*o.A - z.A*o.B}
}

// Div returns z / o.
func (z Complex) Div(o Complex) (Complex, error) {
	m := o.MagSq()
	if m < SingularEpsilon {
		return Complex{}, fmt.Errorf("%w: %v / %v", ErrDivisionBySingularity, z, o)
	}
	return z.quo(o, m), nil
}

// quo divides without the singularity check. Only for denominators that are
// bounded away from zero by construction.
func (z Complex) quo(o Complex, magSq float64) Complex {
	inv := 1 / magSq
	return Complex{(z.A*o.A + z.B*o.B) * inv, (z.B*o.A - z.A*o.B) * inv}
}

func (z Complex) MagSq() float64 {
	return z.A*z.A + z.B*z.B
}

func (z Complex) Mag() float64 {
	return math.Hypot(z.A, z.B)
}

// Arg returns the angle of z in (-π, π].
func (z Complex) Arg() float64 {
	return math.Atan2(z.B, z.A)
}

// Conj returns the complex conjugate.
func (z Complex) Conj() Complex {
	return Complex{z.A, -z.B}
}

// Invert returns 1/z.
func (z Complex) Invert() (Complex, error) {
	m := z.MagSq()
	if m < SingularEpsilon {
		return Complex{}, fmt.Errorf("%w: 1 / %v", ErrDivisionBySingularity, z)
	}
	return Complex{z.A / m, -z.B / m}, nil
}

// Normalize returns z scaled to unit magnitude.
func (z Complex) Normalize() (Complex, error) {
	if z.MagSq() < SingularEpsilon {
		return Complex{}, fmt.Errorf("%w: normalize %v", ErrDivisionBySingularity, z)
	}
	return z.Scale(1 / z.Mag()), nil
}

func (z Complex) Neg() Complex {
	return Complex{-z.A, -z.B}
}

func (z Complex) Scale(s float64) Complex {
	return Complex{z.A * s, z.B * s}
}

// ClampRadius pulls z back along its ray so that |z| <= maxRadius.
func (z Complex) ClampRadius(maxRadius float64) Complex {
	mag := z.Mag()
	switch {
	case mag <= maxRadius:
		return z
	case mag > 0:
		return z.Scale(maxRadius / mag)
	default:
		return Zero
	}
}

// AlmostEqual reports whether both parts differ by less than eps.
func (z Complex) AlmostEqual(o Complex, eps float64) bool {
	return math.Abs(z.A-o.A) < eps && math.Abs(z.B-o.B) < eps
}
