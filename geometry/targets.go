package geometry

import (
	"math"

	"github.com/nstehr/vimy/vimy-raid/model"
)

// Target is a feature together with its melee-facing and ranged-facing
// deploy points.
type Target struct {
	Feature  model.Feature
	Melee    model.Point
	Ranged   model.Point
	Distance float64 // feature centre to nearest boundary point
}

// TargetOptions tunes target placement.
type TargetOptions struct {
	MaxDistance  float64 // features farther than this from the boundary are not exposed
	MeleeOffset  float64 // outward offset of the melee point from the boundary
	RangedOffset float64 // outward offset of the ranged point
}

var DefaultTargetOptions = TargetOptions{MaxDistance: 18, MeleeOffset: 0.5, RangedOffset: 3}

// TargetFor computes deploy points for one feature: both lie on the ray from
// the feature centre through its nearest boundary point, the ranged one
// further out. ok is false for an empty boundary.
func TargetFor(f model.Feature, boundary []model.Point, o TargetOptions) (Target, bool) {
	i := Nearest(boundary, f.Rect.Center())
	if i < 0 {
		return Target{}, false
	}
	c, b := f.Rect.Center(), boundary[i]
	dir := b.Sub(c).Normalize()
	if dir == (model.Point{}) {
		dir = b.Normalize()
	}
	return Target{
		Feature:  f,
		Melee:    b.Add(dir.Scale(o.MeleeOffset)),
		Ranged:   b.Add(dir.Scale(o.RangedOffset)),
		Distance: c.Distance(b),
	}, true
}

// Exposed reports whether the target is close enough to the boundary.
func (t Target) Exposed(maxDistance float64) bool {
	return t.Distance <= maxDistance
}

// GenerateTargets returns targets for every live feature accepted by keep
// that lies within the exposed distance, in input order.
func GenerateTargets(features []model.Feature, boundary []model.Point, keep func(model.Feature) bool, o TargetOptions) []Target {
	var out []Target
	for _, f := range features {
		if f.Destroyed || (keep != nil && !keep(f)) {
			continue
		}
		t, ok := TargetFor(f, boundary, o)
		if !ok || !t.Exposed(o.MaxDistance) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// MeleePoints flattens the targets' melee points.
func MeleePoints(ts []Target) []model.Point {
	out := make([]model.Point, len(ts))
	for i, t := range ts {
		out[i] = t.Melee
	}
	return out
}

// OrderNearestNeighbor chains points greedily from start: each step visits
// the closest unvisited point, lowest index on ties. It is a plausible
// walking order, not a shortest tour.
func OrderNearestNeighbor(points []model.Point, start int) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if start < 0 || start >= n {
		start = 0
	}
	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := start
	for {
		visited[cur] = true
		order = append(order, cur)
		next, bestD := -1, math.MaxFloat64
		for j, p := range points {
			if visited[j] {
				continue
			}
			if d := p.DistanceSq(points[cur]); d < bestD {
				next, bestD = j, d
			}
		}
		if next < 0 {
			return order
		}
		cur = next
	}
}
