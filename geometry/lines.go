package geometry

import (
	"math"

	"github.com/nstehr/vimy/vimy-raid/model"
	"github.com/nstehr/vimy/vimy-raid/rng"
)

// Bounds is the bounding box of a point set.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoundsOf returns the bounding box of points, or false for an empty set.
func BoundsOf(points []model.Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// Corners of the boundary box, named for the isometric view the host renders.
func (b Bounds) Left() model.Point   { return model.Pt(b.MinX, b.MaxY) }
func (b Bounds) Top() model.Point    { return model.Pt(b.MaxX, b.MaxY) }
func (b Bounds) Right() model.Point  { return model.Pt(b.MaxX, b.MinY) }
func (b Bounds) Bottom() model.Point { return model.Pt(b.MinX, b.MinY) }

// EdgeLines returns the four sides of the boundary box: left-top, right-top,
// left-bottom, right-bottom.
func EdgeLines(boundary []model.Point) ([]model.Line, error) {
	b, ok := BoundsOf(boundary)
	if !ok {
		return nil, ErrNoDeployPoints
	}
	return []model.Line{
		{A: b.Left(), B: b.Top()},
		{A: b.Right(), B: b.Top()},
		{A: b.Left(), B: b.Bottom()},
		{A: b.Right(), B: b.Bottom()},
	}, nil
}

// AlongLine returns n evenly spaced points from a to b inclusive. A single
// point sits on the midpoint.
func AlongLine(l model.Line, n int) []model.Point {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []model.Point{l.Midpoint()}
	}
	out := make([]model.Point, n)
	for i := range n {
		out[i] = l.A.Lerp(l.B, float64(i)/float64(n-1))
	}
	return out
}

// RandomPointsInArea returns n points uniformly distributed in the disc of
// the given radius around c.
func RandomPointsInArea(s rng.Source, c model.Point, radius float64, n int) []model.Point {
	if n <= 0 {
		return nil
	}
	out := make([]model.Point, n)
	for i := range n {
		r := radius * math.Sqrt(s.Float64())
		a := 2 * math.Pi * s.Float64()
		out[i] = model.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return out
}

// PullBackOptions tunes PullBack.
type PullBackOptions struct {
	MinDistance float64 // no pull-back closer than this to the border
	PerTile     float64 // map units moved per tile of attack range
	LerpMin     float64
	LerpMax     float64
}

// DefaultPullBack matches the pixel-space tuning the deploy routines used:
// ignore points within 10 of the border, move at most range*16.
var DefaultPullBack = PullBackOptions{MinDistance: 10, PerTile: 16, LerpMin: 0.85, LerpMax: 1.05}

// PullBack moves a ranged unit's deploy point toward the outer border so it
// lands behind the melee line, clamped by the unit's range.
func PullBack(s rng.Source, p model.Point, border []model.Point, unitRange float64, o PullBackOptions) model.Point {
	i := Nearest(border, p)
	if i < 0 {
		return p
	}
	b := border[i]
	dist := math.Floor(b.Distance(p))
	if dist <= o.MinDistance {
		return p
	}
	move := math.Min(unitRange*o.PerTile, dist)
	dest := p.Add(b.Normalize().Scale(move))
	return p.Lerp(dest, o.LerpMin+s.Float64()*(o.LerpMax-o.LerpMin))
}
