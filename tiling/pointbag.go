package tiling

import (
	"cmp"
	"iter"
	"math"
	"slices"

	"github.com/jbeda/geom"
	"github.com/jbeda/geom/qtree"

	"hypertile/hyper"
)

// bagBounds covers the closed unit disk with some slack for points that
// round onto the boundary.
var bagBounds = geom.Rect{
	Min: geom.Coord{X: -1.01, Y: -1.01},
	Max: geom.Coord{X: 1.01, Y: 1.01},
}

// bagItem is one stored point. Items are compared by identity, so two
// values pushed at the same point are both kept.
type bagItem[T any] struct {
	p   hyper.Complex
	v   T
	seq int
}

func (it *bagItem[T]) Bounds() geom.Rect {
	c := geom.Coord{X: it.p.A, Y: it.p.B}
	return geom.Rect{Min: c, Max: c}
}

func (it *bagItem[T]) Equals(o interface{}) bool {
	other, ok := o.(*bagItem[T])
	return ok && other == it
}

// PointBag is a set of disk points with values, searchable by hyperbolic
// distance. Points live in a quadtree over the disk; a search collects the
// points inside the ball's bounding box and keeps those within the radius,
// in the order they were pushed.
type PointBag[T any] struct {
	tree *qtree.Tree
	n    int
}

// NewPointBag returns an empty bag.
func NewPointBag[T any]() *PointBag[T] {
	return &PointBag[T]{tree: qtree.New(qtree.ConfigDefault(), bagBounds)}
}

// Push adds v at p. Points outside the disk's bounding box are dropped and
// reported false.
func (b *PointBag[T]) Push(p hyper.Complex, v T) bool {
	if !b.tree.Insert(&bagItem[T]{p: p, v: v, seq: b.n}) {
		return false
	}
	b.n++
	return true
}

// Len returns the number of points in the bag.
func (b *PointBag[T]) Len() int { return b.n }

// Search yields every point within hyperbolic distance radius of center.
func (b *PointBag[T]) Search(center hyper.Complex, radius float64) iter.Seq2[hyper.Complex, T] {
	return func(yield func(hyper.Complex, T) bool) {
		found := make(map[qtree.Item]bool)
		b.tree.CollectIntersect(BallBounds(center, radius), found)

		hits := make([]*bagItem[T], 0, len(found))
		for item := range found {
			it := item.(*bagItem[T])
			if hyper.Metric(center, it.p) < radius {
				hits = append(hits, it)
			}
		}
		slices.SortFunc(hits, func(x, y *bagItem[T]) int { return cmp.Compare(x.seq, y.seq) })
		for _, it := range hits {
			if !yield(it.p, it.v) {
				return
			}
		}
	}
}

// Any returns some point within radius of center, if there is one.
func (b *PointBag[T]) Any(center hyper.Complex, radius float64) (p hyper.Complex, v T, ok bool) {
	for p, v := range b.Search(center, radius) {
		return p, v, true
	}
	return p, v, false
}

// BallBounds returns the Euclidean bounding box of the hyperbolic ball of the
// given radius around center. Hyperbolic balls are Euclidean disks, but their
// Euclidean center is pushed toward the boundary.
func BallBounds(center hyper.Complex, radius float64) geom.Rect {
	d := hyper.OriginMetric(center)
	near := math.Tanh((d - radius) / 2)
	far := math.Tanh((d + radius) / 2)
	r := (far - near) / 2
	dir := hyper.One
	if m := center.Mag(); m > 0 {
		dir = center.Scale(1 / m)
	}
	mid := dir.Scale((far + near) / 2)
	return geom.Rect{
		Min: geom.Coord{X: mid.A - r, Y: mid.B - r},
		Max: geom.Coord{X: mid.A + r, Y: mid.B + r},
	}
}
