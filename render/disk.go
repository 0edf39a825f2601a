package render

import (
	"fmt"
	"image"
	"math"

	"hypertile/hyper"
	"hypertile/screen"
)

// Segment classification thresholds.
const (
	// IdealBoundaryMagSq is the squared radius past which a point counts as
	// lying on the boundary circle.
	IdealBoundaryMagSq = 0.999999
	// collinearDet is the cutoff on the origin-a-b area determinant below
	// which the geodesic is drawn as a straight chord.
	collinearDet = 1e-5
)

// DefaultMarkerSize is the on-screen size of images placed with DrawImage.
const DefaultMarkerSize = 30.0

// LineKind says how a geodesic segment is rendered.
type LineKind int

const (
	// LineStraight is a diameter, drawn as a straight screen segment.
	LineStraight LineKind = iota
	// LineArc is an arc of a circle orthogonal to the boundary.
	LineArc
	// LineIdeal joins two boundary points along the boundary itself.
	LineIdeal
)

func (k LineKind) String() string {
	switch k {
	case LineStraight:
		return "straight"
	case LineArc:
		return "arc"
	case LineIdeal:
		return "ideal"
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

// ClassifyLine decides how the geodesic from a to b is drawn. For LineArc it
// also returns the center of the orthogonal circle through a and b.
func ClassifyLine(a, b hyper.Complex) (LineKind, hyper.Complex) {
	if a.MagSq() > IdealBoundaryMagSq && b.MagSq() > IdealBoundaryMagSq {
		return LineIdeal, hyper.Zero
	}
	det := b.A*a.B - a.A*b.B
	if math.Abs(det) < collinearDet {
		return LineStraight, hyper.Zero
	}
	// The circle through a and b orthogonal to the unit circle has center c
	// with 2<a,c> = 1+|a|² and 2<b,c> = 1+|b|².
	g := (1 + b.MagSq()) / 2
	h := (1 + a.MagSq()) / 2
	return LineArc, hyper.Complex{
		A: (g*a.B - b.B*h) / det,
		B: (b.A*h - a.A*g) / det,
	}
}

// Options configure a DiskContext.
type Options struct {
	Canvas     Style // behind the disk; zero for transparent
	Background Style // disk interior
	Outline    Style // disk boundary
	MarkerSize float64
}

// DefaultOptions paints a grey disk with a black rim on a transparent canvas.
func DefaultOptions() Options {
	return Options{
		Background: MustStyle("#888"),
		Outline:    MustStyle("#000"),
		MarkerSize: DefaultMarkerSize,
	}
}

// DiskContext draws hyperbolic figures onto a Surface. Points handed to it
// are first moved by the view transform, then projected to the screen.
//
// Drawing methods do not return errors; the first surface error is kept and
// reported by Err, and later paint calls are skipped.
type DiskContext struct {
	surface Surface
	view    hyper.Mobius
	proj    screen.Projection
	opts    Options

	first hyper.Complex // start of the current subpath, viewed
	last  hyper.Complex // current point, viewed
	err   error
}

// NewDiskContext returns a context drawing onto s.
func NewDiskContext(s Surface, view hyper.Mobius, proj screen.Projection, opts Options) *DiskContext {
	if opts.MarkerSize <= 0 {
		opts.MarkerSize = DefaultMarkerSize
	}
	d := &DiskContext{surface: s, view: view, proj: proj, opts: opts}
	d.first = view.Xform(hyper.Zero)
	d.last = d.first
	return d
}

// View returns the current view transform.
func (d *DiskContext) View() hyper.Mobius { return d.view }

// SetView replaces the view transform. The tiling walk calls it once per
// anchor with that anchor's frame.
func (d *DiskContext) SetView(m hyper.Mobius) { d.view = m }

// Projection returns the disk to screen projection.
func (d *DiskContext) Projection() screen.Projection { return d.proj }

// Err returns the first error reported by the surface.
func (d *DiskContext) Err() error { return d.err }

func (d *DiskContext) fail(err error) {
	if err != nil && d.err == nil {
		d.err = err
	}
}

// Clear wipes the surface and paints the disk and its rim.
func (d *DiskContext) Clear() {
	d.fail(d.surface.Clear(d.opts.Canvas))
	c := d.proj.Apply(hyper.Zero)
	d.surface.BeginPath()
	d.surface.Arc(c, d.proj.Scale(), 0, 2*math.Pi, false)
	d.surface.ClosePath()
	if !d.opts.Background.IsZero() {
		d.fail(d.surface.Fill(d.opts.Background))
	}
	if !d.opts.Outline.IsZero() {
		d.fail(d.surface.Stroke(d.opts.Outline))
	}
	d.surface.BeginPath()
}

// BeginPath starts a new path.
func (d *DiskContext) BeginPath() {
	d.surface.BeginPath()
	d.first = d.last
}

// MoveTo starts a subpath at p.
func (d *DiskContext) MoveTo(p hyper.Complex) {
	v := d.view.Xform(p)
	d.surface.MoveTo(d.proj.Apply(v))
	d.first, d.last = v, v
}

// LineTo extends the path along the geodesic from the current point to p.
func (d *DiskContext) LineTo(p hyper.Complex) {
	d.lineTo(d.view.Xform(p))
}

func (d *DiskContext) lineTo(b hyper.Complex) {
	a := d.last
	d.last = b
	kind, c := ClassifyLine(a, b)
	switch kind {
	case LineIdeal:
		// Two ideal points: follow the boundary counterclockwise.
		d.arc(hyper.Zero, 1, a, b, true)
	case LineStraight:
		d.surface.LineTo(d.proj.Apply(b))
	case LineArc:
		va, vb := a.Sub(c), b.Sub(c)
		cross := va.A*vb.B - va.B*vb.A
		d.arc(c, va.Mag(), a, b, cross > 0)
	}
}

// arc draws around the disk-space circle (c, r) from a to b. ccw is the
// direction in disk space, where +y is up.
func (d *DiskContext) arc(c hyper.Complex, r float64, a, b hyper.Complex, ccw bool) {
	sc, sa, sb := d.proj.Apply(c), d.proj.Apply(a), d.proj.Apply(b)
	start := math.Atan2(sa.Y-sc.Y, sa.X-sc.X)
	end := math.Atan2(sb.Y-sc.Y, sb.X-sc.X)
	// A projection that flips y turns disk counterclockwise into screen
	// counterclockwise under the canvas angle convention.
	screenCCW := ccw == (d.proj.Det() < 0)
	d.surface.Arc(sc, r*d.proj.Scale(), start, end, screenCCW)
}

// ClosePath draws the geodesic back to the start of the subpath.
func (d *DiskContext) ClosePath() {
	d.lineTo(d.first)
	d.surface.ClosePath()
}

// Stroke outlines the current path.
func (d *DiskContext) Stroke(s Style) {
	if d.err != nil {
		return
	}
	d.fail(d.surface.Stroke(s))
}

// Fill paints the inside of the current path.
func (d *DiskContext) Fill(s Style) {
	if d.err != nil {
		return
	}
	d.fail(d.surface.Fill(s))
}

// DrawMarker places img, at a fixed pixel size, over p. Markers do not
// shrink toward the boundary. A nil image draws nothing.
func (d *DiskContext) DrawMarker(p hyper.Complex, img image.Image) {
	if img == nil || d.err != nil {
		return
	}
	sp := d.proj.Apply(d.view.Xform(p))
	d.fail(d.surface.Marker(sp, d.opts.MarkerSize, img))
}
