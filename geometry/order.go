package geometry

import (
	"cmp"
	"math"
	"slices"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// PointFilter keeps points for which it returns true.
type PointFilter func(p model.Point) bool

// ExcludeCorners drops points in the four extreme diagonal corners, where
// |x| > c and |y| > c. Units dropped there walk a long way before engaging.
func ExcludeCorners(c float64) PointFilter {
	return func(p model.Point) bool {
		return !(math.Abs(p.X) > c && math.Abs(p.Y) > c)
	}
}

type keyed struct {
	p     model.Point
	key   float64
	index int
}

// OrderClockwise sorts the boundary by atan2(y, x) into one continuous
// traversal. Equal angles keep their input order. Nil filter keeps all points.
func OrderClockwise(points []model.Point, filter PointFilter) []model.Point {
	ks := make([]keyed, 0, len(points))
	for i, p := range points {
		if filter != nil && !filter(p) {
			continue
		}
		ks = append(ks, keyed{p: p, key: math.Atan2(p.Y, p.X), index: i})
	}
	slices.SortFunc(ks, func(a, b keyed) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	out := make([]model.Point, len(ks))
	for i, k := range ks {
		out[i] = k.p
	}
	return out
}

// OrderHalves orders the right half (x >= 0) top-down then the left half
// bottom-up. Cheaper than the angular sort and good enough for a four-sided
// spread.
func OrderHalves(points []model.Point) []model.Point {
	var left, right []keyed
	for i, p := range points {
		k := keyed{p: p, key: p.Y, index: i}
		if p.X < 0 {
			left = append(left, k)
		} else {
			right = append(right, k)
		}
	}
	byKey := func(a, b keyed) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	}
	slices.SortFunc(right, byKey)
	slices.SortFunc(left, func(a, b keyed) int { return byKey(b, a) })

	out := make([]model.Point, 0, len(points))
	for _, k := range right {
		out = append(out, k.p)
	}
	for _, k := range left {
		out = append(out, k.p)
	}
	return out
}

// Inflate pushes every point outward along its own radius by offset,
// producing the ring ranged units are placed on.
func Inflate(points []model.Point, offset float64) []model.Point {
	out := make([]model.Point, len(points))
	for i, p := range points {
		out[i] = p.Add(p.Normalize().Scale(offset))
	}
	return out
}

// Nearest returns the index of the point closest to target, lowest index on
// ties, or -1 for an empty set.
func Nearest(points []model.Point, target model.Point) int {
	best, bestD := -1, math.MaxFloat64
	for i, p := range points {
		if d := p.DistanceSq(target); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
