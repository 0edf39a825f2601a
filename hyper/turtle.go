package hyper

import (
	"fmt"
	"math"
)

// Thresholds for turtle geometry.
const (
	aimMinMagSq    = 1e-9
	rfrMinDistance = 1e-3
)

// Turtle is a cursor on the disk. Its transform sends the origin and the +x
// direction to the turtle's position and heading. A Turtle is mutable; copy
// the value to branch.
type Turtle struct {
	xform Mobius
}

// NewTurtle returns a turtle at the origin heading along +x.
func NewTurtle() Turtle {
	return Turtle{xform: Identity()}
}

// TurtleAt returns a turtle whose frame is m.
func TurtleAt(m Mobius) Turtle {
	return Turtle{xform: m}
}

// Xform returns the turtle's frame.
func (t *Turtle) Xform() Mobius {
	return t.xform
}

// Home sends the turtle back to the origin, heading along +x.
func (t *Turtle) Home() {
	t.xform = Identity()
}

// Rotate turns the turtle counterclockwise.
func (t *Turtle) Rotate(radians float64) {
	t.xform = t.xform.Rotated(radians)
}

// Move moves the turtle to offset, where offset is expressed in the turtle's
// own frame rather than the disk's.
func (t *Turtle) Move(offset Complex) error {
	fwd, err := OriginToPoint(offset)
	if err != nil {
		return fmt.Errorf("turtle move: %w", err)
	}
	x, err := t.xform.Compose(fwd)
	if err != nil {
		return fmt.Errorf("turtle move: %w", err)
	}
	t.xform = x
	return nil
}

// Forward moves the turtle along its heading by a hyperbolic distance.
func (t *Turtle) Forward(distance float64) error {
	return t.Move(Polar(distance, 0))
}

// Position returns where the turtle is on the disk.
func (t *Turtle) Position() Complex {
	return t.xform.Xform(Zero)
}

// IdealPosition returns the boundary point a ray fired straight ahead of the
// turtle would reach.
func (t *Turtle) IdealPosition() Complex {
	return t.xform.Xform(One)
}

// RelativePosition expresses the disk point p in the turtle's frame, so that
// Move(RelativePosition(p)) puts the turtle on p.
func (t *Turtle) RelativePosition(p Complex) Complex {
	return t.xform.InverseXform(p)
}

// AimAt turns the turtle to face p.
func (t *Turtle) AimAt(p Complex) error {
	rp := t.RelativePosition(p)
	if rp.MagSq() < aimMinMagSq {
		return fmt.Errorf("%w: %v", ErrTargetTooClose, p)
	}
	t.Rotate(rp.Arg())
	return nil
}

// Steps are rotate, forward, rotate instructions. Distance is hyperbolic.
type Steps struct {
	Rot1, Distance, Rot2 float64
}

// Validate fails with ErrInvalidNumber unless every step is finite.
func (s Steps) Validate() error {
	if !finite(s.Rot1) || !finite(s.Distance) || !finite(s.Rot2) {
		return fmt.Errorf("%w: steps %+v", ErrInvalidNumber, s)
	}
	return nil
}

// Apply runs the steps on t. Non-finite steps leave t untouched.
func (s Steps) Apply(t *Turtle) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.Rotate(s.Rot1)
	if s.Distance != 0 {
		if err := t.Forward(s.Distance); err != nil {
			return err
		}
	}
	t.Rotate(s.Rot2)
	return nil
}

// RFR returns the rotate, forward, rotate steps that take t's frame to
// other's frame.
func (t *Turtle) RFR(other *Turtle) (Steps, error) {
	// diff = t^-1 ∘ other = (t=dt, b=db). With q = db/|db|,
	// diff = rotate(arg(dt·q)) ∘ translate(|db|) ∘ rotate(arg(conj q)).
	diff, err := t.xform.Invert().Compose(other.xform)
	if err != nil {
		return Steps{}, fmt.Errorf("turtle rfr: %w", err)
	}
	dt, db := diff.t, diff.b
	if db.Mag() < rfrMinDistance {
		return Steps{Rot1: dt.Arg()}, nil
	}
	q := db.Scale(1 / db.Mag())
	return Steps{
		Rot1:     dt.Mul(q).Arg(),
		Distance: OriginMetric(db),
		Rot2:     math.Atan2(-q.B, q.A),
	}, nil
}
