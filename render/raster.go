package render

import (
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/jbeda/geom"
)

// maxArcSegment is the largest angle one cubic Bézier approximates.
const maxArcSegment = math.Pi / 2

// RasterSurface draws into a gg.Context.
type RasterSurface struct {
	dc     *gg.Context
	hasCur bool
}

// NewRasterSurface allocates a width x height pixel surface.
func NewRasterSurface(width, height int) *RasterSurface {
	return &RasterSurface{dc: gg.NewContext(width, height)}
}

// Context exposes the underlying gg context.
func (r *RasterSurface) Context() *gg.Context { return r.dc }

// Image returns the rendered pixels.
func (r *RasterSurface) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the rendered pixels as PNG.
func (r *RasterSurface) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

// Close releases the context.
func (r *RasterSurface) Close() error { return r.dc.Close() }

func (r *RasterSurface) BeginPath() {
	r.dc.ClearPath()
	r.hasCur = false
}

func (r *RasterSurface) MoveTo(p geom.Coord) {
	r.dc.MoveTo(p.X, p.Y)
	r.hasCur = true
}

func (r *RasterSurface) LineTo(p geom.Coord) {
	if !r.hasCur {
		r.MoveTo(p)
		return
	}
	r.dc.LineTo(p.X, p.Y)
}

// Arc flattens the arc into cubic Béziers of at most a quarter turn each.
// Unlike gg's own DrawArc it can run in either direction.
func (r *RasterSurface) Arc(center geom.Coord, radius, start, end float64, counterClockwise bool) {
	sweep := arcSweep(start, end, counterClockwise)
	r.LineTo(arcPoint(center, radius, start))
	if sweep == 0 || radius <= 0 {
		return
	}
	n := int(math.Ceil(math.Abs(sweep)/maxArcSegment - 1e-9))
	if n < 1 {
		n = 1
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4) * radius
	a1 := start
	for i := 0; i < n; i++ {
		a2 := a1 + step
		s1, c1 := math.Sincos(a1)
		s2, c2 := math.Sincos(a2)
		r.dc.CubicTo(
			center.X+radius*c1-k*s1, center.Y+radius*s1+k*c1,
			center.X+radius*c2+k*s2, center.Y+radius*s2-k*c2,
			center.X+radius*c2, center.Y+radius*s2,
		)
		a1 = a2
	}
}

func (r *RasterSurface) ClosePath() {
	if r.hasCur {
		r.dc.ClosePath()
	}
}

func (r *RasterSurface) Stroke(s Style) error {
	c := s.RGBA()
	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
	r.dc.SetLineWidth(s.LineWidth())
	return r.dc.StrokePreserve()
}

func (r *RasterSurface) Fill(s Style) error {
	c := s.RGBA()
	r.dc.SetRGBA(c.R, c.G, c.B, c.A)
	return r.dc.FillPreserve()
}

func (r *RasterSurface) Marker(center geom.Coord, size float64, img image.Image) error {
	r.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         center.X - size/2,
		Y:         center.Y - size/2,
		DstWidth:  size,
		DstHeight: size,
	})
	return nil
}

func (r *RasterSurface) Clear(bg Style) error {
	if bg.IsZero() {
		r.dc.Clear()
		return nil
	}
	r.dc.ClearWithColor(bg.RGBA())
	return nil
}

var _ Surface = (*RasterSurface)(nil)
