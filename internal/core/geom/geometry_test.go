package geom

import (
	"math"
	"testing"
)

func TestIntersectRayHitsSegmentAhead(t *testing.T) {
	seg := Segment{A: Point{5, -1}, B: Point{5, 1}}

	dist, p, ok := IntersectRay(Point{0, 0}, Point{1, 0}, seg)
	if !ok {
		t.Fatal("Expected ray to hit segment")
	}
	if math.Abs(dist-5) > 1e-9 {
		t.Errorf("Expected distance 5, got %f", dist)
	}
	if !p.Near(Point{5, 0}, 1e-9) {
		t.Errorf("Expected hit at (5, 0), got %v", p)
	}
}

func TestIntersectRayMisses(t *testing.T) {
	seg := Segment{A: Point{5, -1}, B: Point{5, 1}}

	if _, _, ok := IntersectRay(Point{0, 0}, Point{-1, 0}, seg); ok {
		t.Error("Expected no hit for a ray pointing away")
	}
	if _, _, ok := IntersectRay(Point{0, 0}, Point{1, 1}, seg); ok {
		t.Error("Expected no hit past the segment end")
	}
	if _, _, ok := IntersectRay(Point{0, 0}, Point{0, 1}, Segment{A: Point{1, 0}, B: Point{1, 5}}); ok {
		t.Error("Expected no hit for a parallel ray")
	}
}

func TestIntersectRayEndpoint(t *testing.T) {
	seg := Segment{A: Point{3, 3}, B: Point{3, 6}}
	dir := Point{1, 1}.Normalize()

	dist, _, ok := IntersectRay(Point{0, 0}, dir, seg)
	if !ok {
		t.Fatal("Expected endpoint hit")
	}
	if math.Abs(dist-math.Sqrt(18)) > 1e-9 {
		t.Errorf("Expected distance %f, got %f", math.Sqrt(18), dist)
	}
}

func TestSegmentNormalFacesPoint(t *testing.T) {
	seg := Segment{A: Point{5, -1}, B: Point{5, 1}}

	n := seg.Normal(Point{0, 0})
	if !n.Near(Point{-1, 0}, 1e-9) {
		t.Errorf("Expected normal (-1, 0), got %v", n)
	}
	n = seg.Normal(Point{10, 0})
	if !n.Near(Point{1, 0}, 1e-9) {
		t.Errorf("Expected normal (1, 0), got %v", n)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}

	if !PointInPolygon(Point{2, 2}, square) {
		t.Error("Expected center to be inside")
	}
	if PointInPolygon(Point{5, 2}, square) {
		t.Error("Expected (5, 2) to be outside")
	}
}

func TestPointInTriangle(t *testing.T) {
	a, b, c := Point{0, 0}, Point{4, 0}, Point{0, 4}

	if !PointInTriangle(Point{1, 1}, a, b, c) {
		t.Error("Expected (1, 1) inside")
	}
	if !PointInTriangle(Point{2, 0}, a, b, c) {
		t.Error("Expected edge point inside")
	}
	if PointInTriangle(Point{3, 3}, a, b, c) {
		t.Error("Expected (3, 3) outside")
	}
	// Winding must not matter
	if !PointInTriangle(Point{1, 1}, a, c, b) {
		t.Error("Expected (1, 1) inside for clockwise winding")
	}
}

func TestIsFacingPoint(t *testing.T) {
	seg := Segment{A: Point{0, 0}, B: Point{1, 0}}
	if !IsFacingPoint(seg, Point{0.5, 1}) {
		t.Error("Expected segment to face a point on its left")
	}
	if IsFacingPoint(seg, Point{0.5, -1}) {
		t.Error("Expected segment not to face a point on its right")
	}
}

func TestPolygonEdgesAndBounds(t *testing.T) {
	tri := []Point{{0, 0}, {2, 0}, {1, 3}}

	edges := PolygonEdges(tri)
	if len(edges) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(edges))
	}
	if edges[2].B != tri[0] {
		t.Errorf("Expected last edge to close the loop, got %v", edges[2])
	}

	b := PolygonBounds(tri)
	if b.Min != (Point{0, 0}) || b.Max != (Point{2, 3}) {
		t.Errorf("Expected bounds (0,0)-(2,3), got %v", b)
	}

	if got := PolygonEdges([]Point{{0, 0}, {1, 0}}); len(got) != 1 {
		t.Errorf("Expected a two-point polygon to give 1 edge, got %d", len(got))
	}
}

func TestAngleBetween(t *testing.T) {
	if a := (Point{1, 0}).AngleBetween(Point{0, 1}); math.Abs(a-math.Pi/2) > 1e-9 {
		t.Errorf("Expected pi/2, got %f", a)
	}
	if a := (Point{1, 0}).AngleBetween(Point{-1, 0}); math.Abs(a-math.Pi) > 1e-9 {
		t.Errorf("Expected pi, got %f", a)
	}
	if a := (Point{}).AngleBetween(Point{1, 0}); a != 0 {
		t.Errorf("Expected 0 for zero vector, got %f", a)
	}
}
