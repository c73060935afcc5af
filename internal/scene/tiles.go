package scene

import (
	"fmt"
	"math"

	"chosenoffset.com/light2d/internal/core/geom"
)

// BlockingTile is the tile character that blocks light
const BlockingTile = '#'

type edgeKind int

const (
	edgeTop edgeKind = iota
	edgeRight
	edgeBottom
	edgeLeft
)

type tileEdge struct {
	seg  geom.Segment
	kind edgeKind
}

// TileObstacles turns a tile grid into one obstacle per contiguous region of
// blocking tiles. Each obstacle carries the merged perimeter of its region, so
// rays only stop at edges that border open space.
func TileObstacles(tiles []string, tileSize float64) []*Obstacle {
	if tileSize <= 0 {
		return nil
	}

	regions := findContiguousRegions(tiles)
	obstacles := make([]*Obstacle, 0, len(regions))
	for i, region := range regions {
		edges := mergeColinearEdges(extractPerimeterEdges(region, tileSize))
		obstacles = append(obstacles, regionObstacle(fmt.Sprintf("tiles-%d", i), region, edges, tileSize))
	}
	return obstacles
}

func blocks(tiles []string, c geom.Coord) bool {
	if c.Y < 0 || c.Y >= len(tiles) || c.X < 0 || c.X >= len(tiles[c.Y]) {
		return false
	}
	return tiles[c.Y][c.X] == BlockingTile
}

// findContiguousRegions identifies all connected regions of blocking tiles
func findContiguousRegions(tiles []string) [][]geom.Coord {
	visited := make(map[geom.Coord]bool)
	var regions [][]geom.Coord

	for y, row := range tiles {
		for x := range row {
			c := geom.Coord{X: x, Y: y}
			if visited[c] || !blocks(tiles, c) {
				continue
			}
			regions = append(regions, floodFill(tiles, c, visited))
		}
	}
	return regions
}

// floodFill performs BFS over 4-connected blocking tiles
func floodFill(tiles []string, start geom.Coord, visited map[geom.Coord]bool) []geom.Coord {
	var region []geom.Coord
	queue := []geom.Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		neighbors := [4]geom.Coord{
			{X: current.X, Y: current.Y - 1},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y + 1},
			{X: current.X - 1, Y: current.Y},
		}
		for _, n := range neighbors {
			if visited[n] || !blocks(tiles, n) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return region
}

// extractPerimeterEdges finds all exposed edges of a region
func extractPerimeterEdges(region []geom.Coord, tileSize float64) []tileEdge {
	inRegion := make(map[geom.Coord]bool, len(region))
	for _, c := range region {
		inRegion[c] = true
	}

	var edges []tileEdge
	for _, c := range region {
		left := float64(c.X) * tileSize
		top := float64(c.Y) * tileSize
		right := left + tileSize
		bottom := top + tileSize

		if !inRegion[geom.Coord{X: c.X, Y: c.Y - 1}] {
			edges = append(edges, tileEdge{geom.Segment{A: geom.Point{X: left, Y: top}, B: geom.Point{X: right, Y: top}}, edgeTop})
		}
		if !inRegion[geom.Coord{X: c.X + 1, Y: c.Y}] {
			edges = append(edges, tileEdge{geom.Segment{A: geom.Point{X: right, Y: top}, B: geom.Point{X: right, Y: bottom}}, edgeRight})
		}
		if !inRegion[geom.Coord{X: c.X, Y: c.Y + 1}] {
			edges = append(edges, tileEdge{geom.Segment{A: geom.Point{X: left, Y: bottom}, B: geom.Point{X: right, Y: bottom}}, edgeBottom})
		}
		if !inRegion[geom.Coord{X: c.X - 1, Y: c.Y}] {
			edges = append(edges, tileEdge{geom.Segment{A: geom.Point{X: left, Y: top}, B: geom.Point{X: left, Y: bottom}}, edgeLeft})
		}
	}
	return edges
}

// mergeColinearEdges joins touching edges of the same kind on the same line.
// Edges are kept with A at the lower coordinate along their axis.
func mergeColinearEdges(edges []tileEdge) []geom.Segment {
	merged := make([]bool, len(edges))
	var result []geom.Segment

	for i := range edges {
		if merged[i] {
			continue
		}
		current := edges[i]
		merged[i] = true

		// Keep absorbing neighbours until nothing else touches
		for changed := true; changed; {
			changed = false
			for j := i + 1; j < len(edges); j++ {
				if merged[j] || edges[j].kind != current.kind {
					continue
				}
				if joined, ok := joinEdges(current.seg, edges[j].seg, current.kind); ok {
					current.seg = joined
					merged[j] = true
					changed = true
				}
			}
		}
		result = append(result, current.seg)
	}
	return result
}

func joinEdges(a, b geom.Segment, kind edgeKind) (geom.Segment, bool) {
	const eps = 1e-9
	horizontal := kind == edgeTop || kind == edgeBottom

	if horizontal {
		if math.Abs(a.A.Y-b.A.Y) > eps {
			return geom.Segment{}, false
		}
		if math.Abs(a.B.X-b.A.X) > eps && math.Abs(b.B.X-a.A.X) > eps {
			return geom.Segment{}, false
		}
		return geom.Segment{
			A: geom.Point{X: math.Min(a.A.X, b.A.X), Y: a.A.Y},
			B: geom.Point{X: math.Max(a.B.X, b.B.X), Y: a.A.Y},
		}, true
	}

	if math.Abs(a.A.X-b.A.X) > eps {
		return geom.Segment{}, false
	}
	if math.Abs(a.B.Y-b.A.Y) > eps && math.Abs(b.B.Y-a.A.Y) > eps {
		return geom.Segment{}, false
	}
	return geom.Segment{
		A: geom.Point{X: a.A.X, Y: math.Min(a.A.Y, b.A.Y)},
		B: geom.Point{X: a.A.X, Y: math.Max(a.B.Y, b.B.Y)},
	}, true
}

// regionObstacle places the obstacle at the centre of its region and stores
// edges and vertices relative to it.
func regionObstacle(id string, region []geom.Coord, edges []geom.Segment, tileSize float64) *Obstacle {
	var pts []geom.Point
	seen := make(map[geom.Point]bool)
	for _, e := range edges {
		for _, p := range [2]geom.Point{e.A, e.B} {
			if !seen[p] {
				seen[p] = true
				pts = append(pts, p)
			}
		}
	}
	b := geom.PolygonBounds(pts)
	center := b.Min.Add(b.Size().Scale(0.5))

	o := &Obstacle{
		ID:         id,
		Position:   center,
		cells:      make(map[geom.Coord]bool, len(region)),
		cellOrigin: center,
		tileSize:   tileSize,
	}
	for _, c := range region {
		o.cells[c] = true
	}
	for _, p := range pts {
		o.Vertices = append(o.Vertices, p.Sub(center))
	}
	o.localEdges = make([]geom.Segment, len(edges))
	for i, e := range edges {
		o.localEdges[i] = geom.Segment{A: e.A.Sub(center), B: e.B.Sub(center)}
	}
	return o
}
