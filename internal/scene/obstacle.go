package scene

import (
	"math"

	"chosenoffset.com/light2d/internal/core/geom"
)

// Obstacle is a light-blocking shape in the scene. Its geometry is stored in
// local space relative to Position so it can be moved without rebuilding it.
type Obstacle struct {
	ID       string
	Position geom.Point

	// Vertices is the closed outline in local space. For tile regions it holds
	// the endpoints of the perimeter edges.
	Vertices []geom.Point

	// Listener receives light and touch notifications. It may be nil or
	// implement any subset of the notification interfaces.
	Listener any

	localEdges []geom.Segment // set for tile regions, whose outline is not a single loop
	cells      map[geom.Coord]bool
	cellOrigin geom.Point // Position when cells were recorded
	tileSize   float64
}

// NewPolygon creates an obstacle from a local-space outline
func NewPolygon(id string, pos geom.Point, vertices []geom.Point) *Obstacle {
	v := make([]geom.Point, len(vertices))
	copy(v, vertices)
	return &Obstacle{ID: id, Position: pos, Vertices: v}
}

// IsTileRegion reports whether the obstacle was built from a tile grid
func (o *Obstacle) IsTileRegion() bool {
	return o.cells != nil
}

// WorldVertices returns the outline in world space
func (o *Obstacle) WorldVertices() []geom.Point {
	return o.Silhouette(1)
}

// Silhouette returns the outline in world space, scaled about the obstacle's
// local origin by factor.
func (o *Obstacle) Silhouette(factor float64) []geom.Point {
	out := make([]geom.Point, len(o.Vertices))
	for i, v := range o.Vertices {
		out[i] = o.Position.Add(v.Scale(factor))
	}
	return out
}

// Edges returns the world-space segments that block rays
func (o *Obstacle) Edges() []geom.Segment {
	if o.localEdges != nil {
		edges := make([]geom.Segment, len(o.localEdges))
		for i, e := range o.localEdges {
			edges[i] = geom.Segment{A: o.Position.Add(e.A), B: o.Position.Add(e.B)}
		}
		return edges
	}
	return geom.PolygonEdges(o.WorldVertices())
}

// Contains reports whether p lies inside the obstacle
func (o *Obstacle) Contains(p geom.Point) bool {
	if o.cells != nil {
		local := p.Sub(o.Position).Add(o.cellOrigin)
		c := geom.Coord{X: int(math.Floor(local.X / o.tileSize)), Y: int(math.Floor(local.Y / o.tileSize))}
		return o.cells[c]
	}
	if len(o.Vertices) < 3 {
		return false
	}
	return geom.PointInPolygon(p, o.WorldVertices())
}
