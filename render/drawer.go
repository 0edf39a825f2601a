package render

import (
	"image"
	"image/color"

	"hypertile/hyper"
)

// Drawer is what figures draw through. Points are in the figure's own frame.
type Drawer interface {
	DrawLine(a, b hyper.Complex, stroke Style)
	DrawPoly(points []hyper.Complex, style PolyStyle)
	DrawImage(p hyper.Complex, img image.Image)
}

// PolyStyle paints a polygon. Either part may be zero to skip it.
type PolyStyle struct {
	Fill   Style
	Stroke Style
}

var defaultLine = Style{Color: color.NRGBA{A: 0xff}, Width: DefaultLineWidth}

// DrawLine strokes the geodesic from a to b. A zero style strokes black.
func (d *DiskContext) DrawLine(a, b hyper.Complex, stroke Style) {
	if stroke.IsZero() {
		stroke = defaultLine
	}
	d.BeginPath()
	d.MoveTo(a)
	d.LineTo(b)
	d.Stroke(stroke)
}

// DrawPoly paints the geodesic polygon through points.
func (d *DiskContext) DrawPoly(points []hyper.Complex, style PolyStyle) {
	if len(points) == 0 {
		return
	}
	d.BeginPath()
	d.MoveTo(points[0])
	for _, p := range points[1:] {
		d.LineTo(p)
	}
	d.ClosePath()
	if !style.Fill.IsZero() {
		d.Fill(style.Fill)
	}
	if !style.Stroke.IsZero() {
		d.Stroke(style.Stroke)
	}
}

// DrawImage is DrawMarker.
func (d *DiskContext) DrawImage(p hyper.Complex, img image.Image) {
	d.DrawMarker(p, img)
}

var _ Drawer = (*DiskContext)(nil)
