package geom

import "math"

// Point represents a 2D point or vector in world space
type Point struct {
	X, Y float64
}

// Coord represents a tile coordinate
type Coord struct {
	X, Y int
}

// Segment represents an occluding edge between two points
type Segment struct {
	A, B Point
}

// Rect is an axis-aligned bounding box
type Rect struct {
	Min, Max Point
}

// FromAngle returns the unit vector pointing along angle (radians)
func FromAngle(a float64) Point {
	return Point{math.Cos(a), math.Sin(a)}
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) LenSq() float64 { return p.X*p.X + p.Y*p.Y }
func (p Point) Len() float64 { return math.Sqrt(p.LenSq()) }
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Normalize returns p scaled to unit length. The zero vector is returned unchanged.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return Point{p.X / l, p.Y / l}
}

// AngleBetween returns the unsigned angle between p and q in radians, in [0, pi].
// Either vector being zero yields 0.
func (p Point) AngleBetween(q Point) float64 {
	d := math.Sqrt(p.LenSq() * q.LenSq())
	if d == 0 {
		return 0
	}
	c := p.Dot(q) / d
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}

// Dir returns the vector from A to B
func (s Segment) Dir() Point { return s.B.Sub(s.A) }

// Normal returns the unit normal of the segment on the side facing p
func (s Segment) Normal(p Point) Point {
	d := s.Dir()
	n := Point{-d.Y, d.X}.Normalize()
	if n.Dot(p.Sub(s.A)) < 0 {
		n = n.Scale(-1)
	}
	return n
}

// Bounds returns the bounding box of the segment
func (s Segment) Bounds() Rect {
	return Rect{
		Min: Point{math.Min(s.A.X, s.B.X), math.Min(s.A.Y, s.B.Y)},
		Max: Point{math.Max(s.A.X, s.B.X), math.Max(s.A.Y, s.B.Y)},
	}
}

// Size returns the width and height of the rect
func (r Rect) Size() Point { return r.Max.Sub(r.Min) }

// Contains reports whether p lies inside r, edges included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}
