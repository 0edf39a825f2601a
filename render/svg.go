package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/jbeda/geom"
)

////////////////////////////////////////////////////////////////////////////
// SVG serialization

// SVGSurface writes drawing commands as an SVG document. The path is kept
// as path data until it is stroked or filled, then emitted as a <path>.
// Call Close to finish the document.
type SVGSurface struct {
	writer  io.Writer
	viewBox geom.Rect

	d      strings.Builder
	cur    geom.Coord
	start  geom.Coord
	hasCur bool

	err error
}

// NewSVGSurface starts an SVG document of the given pixel size on w.
func NewSVGSurface(w io.Writer, width, height float64) *SVGSurface {
	svg := &SVGSurface{
		writer:  w,
		viewBox: geom.Rect{Max: geom.Coord{X: width, Y: height}},
	}
	svg.printf(`<?xml version="1.0"?>
<svg version="1.1"
     viewBox="%f %f %f %f" width="%g" height="%g"
     xmlns="http://www.w3.org/2000/svg">
`, svg.viewBox.Min.X, svg.viewBox.Min.Y, svg.viewBox.Width(), svg.viewBox.Height(), width, height)
	return svg
}

func (svg *SVGSurface) printf(format string, a ...any) {
	if svg.err != nil {
		return
	}
	_, svg.err = fmt.Fprintf(svg.writer, format, a...)
}

func onezero(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Close ends the document and returns the first write error.
func (svg *SVGSurface) Close() error {
	svg.printf("</svg>\n")
	return svg.err
}

// ViewBox is the document's coordinate box.
func (svg *SVGSurface) ViewBox() geom.Rect { return svg.viewBox }

func (svg *SVGSurface) BeginPath() {
	svg.d.Reset()
	svg.hasCur = false
}

func (svg *SVGSurface) MoveTo(p geom.Coord) {
	fmt.Fprintf(&svg.d, "M%f,%f ", p.X, p.Y)
	svg.cur, svg.start, svg.hasCur = p, p, true
}

func (svg *SVGSurface) LineTo(p geom.Coord) {
	if !svg.hasCur {
		svg.MoveTo(p)
		return
	}
	fmt.Fprintf(&svg.d, "L%f,%f ", p.X, p.Y)
	svg.cur = p
}

func (svg *SVGSurface) Arc(center geom.Coord, r, start, end float64, counterClockwise bool) {
	sweep := arcSweep(start, end, counterClockwise)
	p0 := arcPoint(center, r, start)
	svg.LineTo(p0)
	if sweep == 0 || r <= 0 {
		return
	}
	// An SVG arc cannot describe a whole circle, so split it in two.
	if math.Abs(sweep) >= 2*math.Pi {
		mid := arcPoint(center, r, start+sweep/2)
		svg.arcTo(mid, r, false, sweep > 0)
		svg.arcTo(p0, r, false, sweep > 0)
		return
	}
	svg.arcTo(arcPoint(center, r, start+sweep), r, math.Abs(sweep) > math.Pi, sweep > 0)
}

// arcTo appends an elliptical arc command. With y down, sweep=1 turns
// clockwise on screen, matching increasing canvas angles.
func (svg *SVGSurface) arcTo(p geom.Coord, r float64, largeArc, sweep bool) {
	fmt.Fprintf(&svg.d, "A%f,%f 0 %s,%s %f,%f ", r, r, onezero(largeArc), onezero(sweep), p.X, p.Y)
	svg.cur = p
}

func (svg *SVGSurface) ClosePath() {
	if !svg.hasCur {
		return
	}
	svg.d.WriteString("Z ")
	svg.cur = svg.start
}

func (svg *SVGSurface) pathData() string {
	return strings.TrimSpace(svg.d.String())
}

func (svg *SVGSurface) Stroke(s Style) error {
	if svg.d.Len() == 0 {
		return svg.err
	}
	svg.printf("<path d='%s' fill='none' stroke='%s' stroke-opacity='%g' stroke-width='%g'/>\n",
		svg.pathData(), s.Hex(), s.Opacity(), s.LineWidth())
	return svg.err
}

func (svg *SVGSurface) Fill(s Style) error {
	if svg.d.Len() == 0 {
		return svg.err
	}
	svg.printf("<path d='%s' fill='%s' fill-opacity='%g' stroke='none'/>\n",
		svg.pathData(), s.Hex(), s.Opacity())
	return svg.err
}

// Marker embeds img as a base64 PNG centered on center.
func (svg *SVGSurface) Marker(center geom.Coord, size float64, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("svg marker: %w", err)
	}
	svg.printf("<image x='%f' y='%f' width='%g' height='%g' href='data:image/png;base64,%s'/>\n",
		center.X-size/2, center.Y-size/2, size, size, base64.StdEncoding.EncodeToString(buf.Bytes()))
	return svg.err
}

// Clear paints a rectangle over the view box. Output already written stays
// in the document underneath, so a transparent clear writes nothing.
func (svg *SVGSurface) Clear(bg Style) error {
	if bg.IsZero() {
		return svg.err
	}
	vb := svg.viewBox
	svg.printf("<rect x='%f' y='%f' width='%f' height='%f' fill='%s' fill-opacity='%g'/>\n",
		vb.Min.X, vb.Min.Y, vb.Width(), vb.Height(), bg.Hex(), bg.Opacity())
	return svg.err
}

var _ Surface = (*SVGSurface)(nil)
