package main

import (
	"image"
	"image/draw"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jbeda/geom"

	"hypertile/render"
	"hypertile/view"
)

// viewer is the ebiten game. Frames are drawn with the raster surface only
// when the session has one pending and copied into an ebiten image.
type viewer struct {
	sess *view.Session

	surface *render.RasterSurface
	pix     *image.RGBA
	frame   *ebiten.Image

	mouse view.DragTracker
	// touch follows the first finger down until it lifts; other fingers
	// are ignored.
	touch   view.DragTracker
	touchID ebiten.TouchID
	touches []ebiten.TouchID
}

func newViewer(sess *view.Session) *viewer {
	return &viewer{sess: sess}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.sess.Reset()
	}

	cursor := coord(ebiten.CursorPosition())
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		v.mouse.Begin(cursor)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		v.pan(v.mouse.Move(cursor))
	default:
		v.mouse.End()
	}

	if !v.touch.Active() {
		v.touches = inpututil.AppendJustPressedTouchIDs(v.touches[:0])
		if len(v.touches) > 0 {
			v.touchID = v.touches[0]
			v.touch.Begin(coord(ebiten.TouchPosition(v.touchID)))
		}
	} else if inpututil.IsTouchJustReleased(v.touchID) {
		v.touch.End()
	} else {
		v.pan(v.touch.Move(coord(ebiten.TouchPosition(v.touchID))))
	}
	return nil
}

func coord(x, y int) geom.Coord {
	return geom.Coord{X: float64(x), Y: float64(y)}
}

func (v *viewer) pan(d view.Drag, ok bool) {
	if ok {
		// A dropped pan is logged by the session; keep dragging.
		_ = v.sess.Pan(d.Start, d.End)
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	w, h := v.sess.Size()
	if v.surface == nil || v.pix.Bounds().Dx() != w || v.pix.Bounds().Dy() != h {
		v.Close()
		v.surface = render.NewRasterSurface(w, h)
		v.pix = image.NewRGBA(image.Rect(0, 0, w, h))
		v.frame = ebiten.NewImage(w, h)
	}

	drawn, _, err := v.sess.RenderIfPending(v.surface)
	if drawn && err == nil {
		draw.Draw(v.pix, v.pix.Bounds(), v.surface.Image(), image.Point{}, draw.Src)
		v.frame.WritePixels(v.pix.Pix)
	}
	screen.DrawImage(v.frame, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 || outsideHeight < 1 {
		return v.sess.Size()
	}
	v.sess.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close releases the frame buffers.
func (v *viewer) Close() {
	if v.surface != nil {
		v.surface.Close()
		v.surface = nil
	}
	if v.frame != nil {
		v.frame.Deallocate()
		v.frame = nil
	}
}
