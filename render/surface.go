// Package render turns disk geometry into drawing commands. DiskContext
// converts hyperbolic segments into screen-space lines and circular arcs and
// drives a Surface; SVGSurface and RasterSurface are the two backends.
package render

import (
	"image"
	"math"

	"github.com/jbeda/geom"
)

// Surface is an immediate-mode path API in screen coordinates, y down.
//
// Arc angles use the canvas convention: 0 is +x and positive angles turn
// clockwise on screen. Arc connects the current point to the arc's start
// with a straight segment, the same as a 2D canvas. Stroke and Fill keep the
// path; BeginPath discards it.
type Surface interface {
	BeginPath()
	MoveTo(p geom.Coord)
	LineTo(p geom.Coord)
	Arc(center geom.Coord, r, start, end float64, counterClockwise bool)
	ClosePath()
	Stroke(style Style) error
	Fill(style Style) error
	Marker(center geom.Coord, size float64, img image.Image) error
	// Clear wipes the whole surface to bg, or to transparent when bg is
	// the zero Style.
	Clear(bg Style) error
}

// arcSweep returns the signed angle an Arc call covers, following canvas
// rules: a clockwise arc whose end-start reaches 2π is a full circle,
// otherwise the difference is reduced into [0, 2π).
func arcSweep(start, end float64, counterClockwise bool) float64 {
	d := end - start
	if counterClockwise {
		d = -d
	}
	if d >= 2*math.Pi {
		d = 2 * math.Pi
	} else {
		d = math.Mod(d, 2*math.Pi)
		if d < 0 {
			d += 2 * math.Pi
		}
	}
	if counterClockwise {
		return -d
	}
	return d
}

func arcPoint(center geom.Coord, r, angle float64) geom.Coord {
	return geom.Coord{X: center.X + r*math.Cos(angle), Y: center.Y + r*math.Sin(angle)}
}
