package model

import "math"

// Point is a coordinate in map space. The map is centred on the origin;
// the deployable boundary surrounds it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) DistanceSq(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}
func (p Point) Distance(q Point) float64 { return math.Sqrt(p.DistanceSq(q)) }
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Normalize returns the unit vector of p, or the zero point for the origin.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Lerp interpolates from p toward q by t. t outside [0,1] extrapolates.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Rect is an axis-aligned rectangle in map space.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Line is a pair of endpoints used for along-the-line deploys.
type Line struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

func (l Line) Midpoint() Point { return l.A.Lerp(l.B, 0.5) }
