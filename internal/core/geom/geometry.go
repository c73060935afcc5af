// Package geom holds the 2D primitives shared by the scene and the light scanners.
package geom

import "math"

// IsFacingPoint checks if a segment is facing towards a given point
// Uses cross product to determine if the point is on the "front" side of the segment
func IsFacingPoint(seg Segment, point Point) bool {
	return seg.Dir().Cross(point.Sub(seg.A)) > 0
}

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PointInTriangle reports whether p lies inside or on the triangle abc
func PointInTriangle(p, a, b, c Point) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return b.Sub(a).Len()
}

// PolygonBounds returns the bounding box of a set of points
func PolygonBounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// PolygonEdges returns the closed edge loop of a polygon
func PolygonEdges(points []Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	edges := make([]Segment, 0, len(points))
	for i := range points {
		edges = append(edges, Segment{A: points[i], B: points[(i+1)%len(points)]})
	}
	if len(points) == 2 {
		edges = edges[:1]
	}
	return edges
}

// IntersectRay checks if a ray intersects a line segment
// The ray is origin + t*dir for t >= 0; dir need not be unit length, t is in units of dir.
// Returns: (t, intersection point, intersects)
func IntersectRay(origin, dir Point, seg Segment) (float64, Point, bool) {
	// Ray: P = origin + t * dir for t >= 0
	// Segment: Q = seg.A + u * (seg.B - seg.A) for 0 <= u <= 1
	segDir := seg.Dir()

	denominator := dir.Cross(segDir)
	if math.Abs(denominator) < 1e-10 {
		// Ray and segment are parallel
		return 0, Point{}, false
	}

	diff := seg.A.Sub(origin)
	u := diff.Cross(dir) / denominator
	t := diff.Cross(segDir) / denominator

	// Check if intersection is within segment and in ray direction
	if u >= 0 && u <= 1 && t >= 0 {
		return t, origin.Add(dir.Scale(t)), true
	}

	return 0, Point{}, false
}
