// Package scene holds the light-blocking obstacles of a level and answers ray
// and point queries against them.
package scene

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/core/geom"
)

// boundsPad keeps axis-aligned edges from producing zero-width rectangles
const boundsPad = 1e-6

// Hit describes the closest obstacle edge a ray reached
type Hit struct {
	Point    geom.Point
	Distance float64
	Normal   geom.Point
	Object   *Obstacle
}

// edgeEntry is one indexed occluding segment
type edgeEntry struct {
	obstacle *Obstacle
	seg      geom.Segment
	order    int
	bounds   rtreego.Rect
}

func (e *edgeEntry) Bounds() rtreego.Rect { return e.bounds }

// Scene is the set of obstacles that block light. Edges are kept in an R-tree
// that is rebuilt lazily after obstacles are added, removed or moved.
type Scene struct {
	Name string

	obstacles []*Obstacle
	byID      map[string]*Obstacle
	tree      *rtreego.Rtree
	dirty     bool
	log       logrus.FieldLogger
}

// New creates an empty scene
func New(name string, log logrus.FieldLogger) *Scene {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scene{
		Name: name,
		byID: make(map[string]*Obstacle),
		log:  log.WithField("component", "scene"),
	}
}

// Add inserts an obstacle. An obstacle with the same ID is replaced.
func (s *Scene) Add(o *Obstacle) {
	if _, exists := s.byID[o.ID]; exists {
		s.log.WithField("obstacle", o.ID).Warn("replacing obstacle with duplicate id")
		s.Remove(o.ID)
	}
	if len(o.Edges()) == 0 {
		s.log.WithField("obstacle", o.ID).Warn("obstacle has no edges and will not block light")
	}
	s.obstacles = append(s.obstacles, o)
	s.byID[o.ID] = o
	s.dirty = true
}

// Remove deletes the obstacle with the given ID
func (s *Scene) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, o := range s.obstacles {
		if o.ID == id {
			s.obstacles = append(s.obstacles[:i], s.obstacles[i+1:]...)
			break
		}
	}
	s.dirty = true
	return true
}

// Move sets an obstacle's position and marks the index stale
func (s *Scene) Move(id string, pos geom.Point) bool {
	o, ok := s.byID[id]
	if !ok {
		return false
	}
	o.Position = pos
	s.dirty = true
	return true
}

// Obstacle returns the obstacle with the given ID
func (s *Scene) Obstacle(id string) (*Obstacle, bool) {
	o, ok := s.byID[id]
	return o, ok
}

// Obstacles returns the obstacles in insertion order
func (s *Scene) Obstacles() []*Obstacle {
	out := make([]*Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Cast returns the closest edge hit by the ray origin + t*dir for
// 0 <= t <= maxDist. Edges at equal distance resolve to the one added first.
func (s *Scene) Cast(origin, dir geom.Point, maxDist float64) (Hit, bool) {
	if maxDist <= 0 || dir.IsZero() {
		return Hit{}, false
	}
	dir = dir.Normalize()
	s.ensureIndex()
	if s.tree == nil || s.tree.Size() == 0 {
		return Hit{}, false
	}

	end := origin.Add(dir.Scale(maxDist))
	query := toRect(geom.Segment{A: origin, B: end}.Bounds())

	var best *edgeEntry
	var bestHit Hit
	for _, sp := range s.tree.SearchIntersect(query) {
		e := sp.(*edgeEntry)
		t, p, ok := geom.IntersectRay(origin, dir, e.seg)
		if !ok || t > maxDist {
			continue
		}
		if best == nil || t < bestHit.Distance || (t == bestHit.Distance && e.order < best.order) {
			best = e
			bestHit = Hit{Point: p, Distance: t, Normal: e.seg.Normal(origin), Object: e.obstacle}
		}
	}
	return bestHit, best != nil
}

// Pick returns the top-most obstacle containing p. Later obstacles are on top.
func (s *Scene) Pick(p geom.Point) (*Obstacle, bool) {
	for i := len(s.obstacles) - 1; i >= 0; i-- {
		if s.obstacles[i].Contains(p) {
			return s.obstacles[i], true
		}
	}
	return nil, false
}

// Bounds returns the bounding box of every obstacle edge
func (s *Scene) Bounds() geom.Rect {
	var pts []geom.Point
	for _, o := range s.obstacles {
		for _, e := range o.Edges() {
			pts = append(pts, e.A, e.B)
		}
	}
	return geom.PolygonBounds(pts)
}

func (s *Scene) ensureIndex() {
	if !s.dirty && s.tree != nil {
		return
	}
	var entries []rtreego.Spatial
	order := 0
	for _, o := range s.obstacles {
		for _, seg := range o.Edges() {
			entries = append(entries, &edgeEntry{
				obstacle: o,
				seg:      seg,
				order:    order,
				bounds:   toRect(seg.Bounds()),
			})
			order++
		}
	}
	s.tree = rtreego.NewTree(2, 25, 50, entries...)
	s.dirty = false
}

func toRect(b geom.Rect) rtreego.Rect {
	size := b.Size()
	lengths := []float64{math.Max(size.X, 0) + boundsPad, math.Max(size.Y, 0) + boundsPad}
	r, _ := rtreego.NewRect(rtreego.Point{b.Min.X - boundsPad/2, b.Min.Y - boundsPad/2}, lengths)
	return r
}
