package light

import (
	"math"
	"sort"

	"chosenoffset.com/light2d/internal/core/angle"
	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/scene"
)

// visibleSlackDeg widens the vertex scan's visibility test
const visibleSlackDeg = 0.001

// Scanner produces the ordered hit sequence of one light instance. Results are
// appended to buf[:0] so callers can reuse the backing array between frames.
type Scanner interface {
	Scan(origin geom.Point, fov FieldOfView, radius float64, buf []Hit) []Hit
}

// CircularScanner casts Rays evenly spaced rays from the end of the arc to
// its start, inclusive of both boundaries.
type CircularScanner struct {
	Caster Caster
	Rays   int
}

func (s *CircularScanner) Scan(origin geom.Point, fov FieldOfView, radius float64, buf []Hit) []Hit {
	hits := buf[:0]
	switch {
	case s.Rays <= 0:
		return hits
	case s.Rays == 1:
		dir := geom.FromAngle(angle.ToSignedRange(fov.Direction))
		return append(hits, castRay(s.Caster, origin, dir, radius))
	}

	end := fov.End()
	step := fov.AngleOfView / float64(s.Rays-1)
	for i := 0; i < s.Rays; i++ {
		dir := geom.FromAngle(end - float64(i)*step)
		hits = append(hits, castRay(s.Caster, origin, dir, radius))
	}
	return hits
}

// VertexScanner casts the two boundary rays plus one ray toward every
// silhouette vertex of its targets, then keeps the points inside the arc
// ordered by angle from the start boundary.
type VertexScanner struct {
	Caster          Caster
	Targets         []*scene.Obstacle
	SilhouetteScale float64
}

func (s *VertexScanner) Scan(origin geom.Point, fov FieldOfView, radius float64, buf []Hit) []Hit {
	hits := buf[:0]
	start, end := fov.Start(), fov.End()
	dist := math.Abs(radius)

	hits = append(hits, castRay(s.Caster, origin, geom.FromAngle(start), radius))
	hits = append(hits, castRay(s.Caster, origin, geom.FromAngle(end), radius))

	scale := s.SilhouetteScale
	if scale == 0 {
		scale = 1
	}
	for _, target := range s.Targets {
		outline := target.WorldVertices()
		for j, v := range target.Silhouette(scale) {
			toVertex := v.Sub(origin)
			if toVertex.IsZero() {
				continue
			}
			h, ok := s.Caster.Cast(origin, toVertex, dist)
			if !ok {
				continue
			}
			hits = append(hits, Hit{Point: h.Point, Distance: h.Distance, Object: h.Object})

			// The ray slipped past the corner, so the corner itself is lit too
			corner := outline[j]
			if h.Point.Sub(origin).LenSq() > corner.Sub(origin).LenSq() {
				hits = append(hits, Hit{Point: corner, Distance: geom.Distance(origin, corner), Object: target})
			}
		}
	}

	forward := geom.FromAngle(fov.Direction)
	limit := angle.Rad2Deg(fov.AngleOfView)/2 + visibleSlackDeg
	visible := hits[:0]
	for _, h := range hits {
		if angle.Rad2Deg(h.Point.Sub(origin).AngleBetween(forward)) < limit {
			visible = append(visible, h)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return sweepFrom(fov, origin, visible[i].Point) < sweepFrom(fov, origin, visible[j].Point)
	})
	return visible
}

// sweepFrom is the counter-clockwise angle from the start boundary to p as
// seen from origin. Points the slack lets in just clockwise of the start come
// out negative so they sort first. A full circle has no gap to wrap across.
func sweepFrom(fov FieldOfView, origin, p geom.Point) float64 {
	d := angle.ToUnsignedRange(p.Sub(origin).Angle() - fov.Start())
	if d > angle.TwoPi-1e-9 {
		return 0
	}
	slack := angle.Deg2Rad(visibleSlackDeg) + 1e-9
	if fov.AngleOfView+2*slack < angle.TwoPi && d > angle.TwoPi-slack {
		return d - angle.TwoPi
	}
	return d
}
