package analysis

import (
	"cmp"
	"slices"

	"github.com/nstehr/vimy/vimy-raid/geometry"
	"github.com/nstehr/vimy/vimy-raid/model"
)

// Scale is the default pixels per map unit.
const Scale = 12

// Plan draws an attack plan: boundary points in red, feature outlines in
// orange, deploy points in white, and each feature linked to its two
// closest deploy points. The caller owns the returned frame.
func Plan(boundary []model.Point, features []model.Feature, deploy []model.Point) (*Frame, error) {
	all := slices.Concat(boundary, deploy)
	for _, f := range features {
		all = append(all, model.Pt(f.Rect.X, f.Rect.Y), model.Pt(f.Rect.X+f.Rect.W, f.Rect.Y+f.Rect.H))
	}
	b, ok := geometry.BoundsOf(all)
	if !ok {
		return nil, geometry.ErrNoDeployPoints
	}

	f := NewFrame(b, Scale)
	f.Points(boundary, 2, Red)
	for _, ft := range features {
		f.Rect(ft.Rect, DarkOrange)
	}
	for _, ft := range features {
		c := ft.Rect.Center()
		for _, p := range closest(deploy, c, 2) {
			f.Line(c, p, Red)
		}
	}
	f.Points(deploy, 4, White)
	return f, nil
}

func closest(points []model.Point, to model.Point, n int) []model.Point {
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b model.Point) int {
		return cmp.Compare(a.DistanceSq(to), b.DistanceSq(to))
	})
	return sorted[:min(n, len(sorted))]
}
