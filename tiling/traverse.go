package tiling

import (
	"fmt"

	"hypertile/hyper"
	"hypertile/internal/fifo"
)

// Options tune the walk. The radii are empirical; see DefaultOptions.
type Options struct {
	// VisibilityRadius is the disk radius past which tiles are not drawn.
	VisibilityRadius float64
	// SearchRadius is the hyperbolic distance within which two anchors
	// count as the same tile.
	SearchRadius float64
	// MaxVisits caps the number of dequeued anchors. Zero means no cap.
	MaxVisits int
}

// DefaultOptions returns a visibility radius of 0.95 and a search radius of
// 0.2.
func DefaultOptions() Options {
	return Options{VisibilityRadius: 0.95, SearchRadius: 0.2}
}

// Visit is one anchor reached by the walk, with the frame it is drawn in.
type Visit struct {
	Anchor *Anchor
	Turtle hyper.Turtle
}

// Position is where the anchor's home lands on the disk.
func (v Visit) Position() hyper.Complex {
	return v.Turtle.Position()
}

// Result summarizes a walk.
type Result struct {
	// Closest is the drawn anchor nearest the disk origin. Re-centering on
	// Closest.Turtle.Xform() keeps the numbers well conditioned while
	// panning.
	Closest Visit
	Drawn   int
	Visited int
	// Pruned counts neighbors whose frame could not be computed or did not
	// land on a finite point of the disk.
	Pruned int
}

type queued struct {
	turtle hyper.Turtle
	anchor *Anchor
}

// Traverse walks wm breadth first from startID, whose home frame is view,
// calling draw for every anchor that should appear. The first anchor is
// always drawn; later ones are drawn when they lie within the visibility
// radius and no drawn anchor is within the search radius of them. Only
// drawn anchors expand their neighbors, so the walk ends once tiles shrink
// toward the boundary.
func Traverse(wm WorldMap, startID string, view hyper.Mobius, opts Options, draw func(Visit) error) (Result, error) {
	var res Result
	start, ok := wm[startID]
	if !ok || start == nil {
		return res, fmt.Errorf("%w: start %q", ErrUnknownAnchor, startID)
	}

	drawn := NewPointBag[*Anchor]()
	var q fifo.Queue[queued]
	q.Push(queued{hyper.TurtleAt(view), start})
	closestMagSq := 0.0

	for {
		item, ok := q.Shift()
		if !ok {
			break
		}
		res.Visited++
		if opts.MaxVisits > 0 && res.Visited > opts.MaxVisits {
			return res, fmt.Errorf("%w: %d", ErrVisitLimit, opts.MaxVisits)
		}

		pos := item.turtle.Position()
		if !item.turtle.Xform().IsFinite() || !pos.IsFinite() || pos.MagSq() >= 1 {
			res.Pruned++
			continue
		}
		if res.Drawn > 0 {
			if pos.Mag() >= opts.VisibilityRadius {
				continue
			}
			if _, _, dup := drawn.Any(pos, opts.SearchRadius); dup {
				continue
			}
		}

		visit := Visit{Anchor: item.anchor, Turtle: item.turtle}
		if err := draw(visit); err != nil {
			return res, fmt.Errorf("draw anchor %q: %w", item.anchor.ID, err)
		}
		drawn.Push(pos, item.anchor)
		if res.Drawn == 0 || pos.MagSq() < closestMagSq {
			res.Closest = visit
			closestMagSq = pos.MagSq()
		}
		res.Drawn++

		for _, e := range item.anchor.Neighbors {
			next, ok := wm[e.ID]
			if !ok || next == nil {
				return res, fmt.Errorf("%w: %q (neighbor of %q)", ErrUnknownAnchor, e.ID, item.anchor.ID)
			}
			t := item.turtle
			if err := e.Transition.Apply(&t); err != nil {
				res.Pruned++
				continue
			}
			q.Push(queued{t, next})
		}
	}
	return res, nil
}
