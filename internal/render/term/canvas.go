// Package term draws light polygons on a terminal with tcell.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/scene"
)

const (
	ObstacleRune = '#'
	OriginRune   = '@'
)

// shades from dim to bright
var shades = []rune{'░', '▒', '▓', '█'}

// Canvas maps terminal cells to world points. Cell (0, 0) covers Origin and
// each cell is CellW by CellH world units; rows grow along +Y.
type Canvas struct {
	Screen tcell.Screen
	Origin geom.Point
	CellW  float64
	CellH  float64
}

func NewCanvas(screen tcell.Screen, cellW, cellH float64) *Canvas {
	return &Canvas{Screen: screen, CellW: cellW, CellH: cellH}
}

// World returns the world point at the centre of a cell
func (c *Canvas) World(col, row int) geom.Point {
	return geom.Point{
		X: c.Origin.X + (float64(col)+0.5)*c.CellW,
		Y: c.Origin.Y + (float64(row)+0.5)*c.CellH,
	}
}

// Cell returns the cell containing a world point
func (c *Canvas) Cell(p geom.Point) (col, row int) {
	d := p.Sub(c.Origin)
	return floorDiv(d.X, c.CellW), floorDiv(d.Y, c.CellH)
}

func floorDiv(v, size float64) int {
	q := v / size
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}

// Draw renders obstacles, lit cells and light origins, then shows the screen
func (c *Canvas) Draw(s *scene.Scene, lights []*light.Light) {
	c.Screen.Clear()
	w, h := c.Screen.Size()
	obstacle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	cfgs := make([]*light.Config, len(lights))
	for i, l := range lights {
		cfgs[i] = l.Config()
	}

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			p := c.World(col, row)
			if s != nil {
				if _, ok := s.Pick(p); ok {
					c.Screen.SetContent(col, row, ObstacleRune, nil, obstacle)
					continue
				}
			}
			if r, style, ok := shade(p, lights, cfgs); ok {
				c.Screen.SetContent(col, row, r, nil, style)
			}
		}
	}

	for _, l := range lights {
		col, row := c.Cell(l.Origin())
		if col >= 0 && row >= 0 && col < w && row < h {
			c.Screen.SetContent(col, row, OriginRune, nil, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
		}
	}
	c.Screen.Show()
}

// shade picks the brightest light covering p. Brightness falls off with
// distance over the radius: circular fans carry it in the mesh's v
// coordinate, vertex fans have planar UVs so it is measured directly.
func shade(p geom.Point, lights []*light.Light, cfgs []*light.Config) (rune, tcell.Style, bool) {
	best := -1.0
	var bestColor light.Color
	for li, l := range lights {
		cfg := cfgs[li]
		for _, inst := range l.Instances() {
			local := p.Sub(inst.Position)
			v, ok := sampleV(&inst.Mesh, local)
			if !ok {
				continue
			}
			if cfg.Strategy == light.StrategyVertex {
				v = local.Len() / math.Abs(cfg.Radius)
			}
			if b := 1 - v; b > best {
				best = b
				bestColor = cfg.Color
			}
		}
	}
	if best < 0 {
		return 0, tcell.StyleDefault, false
	}

	i := int(best * float64(len(shades)))
	if i >= len(shades) {
		i = len(shades) - 1
	}
	if i < 0 {
		i = 0
	}
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
		int32(bestColor.R*255), int32(bestColor.G*255), int32(bestColor.B*255)))
	return shades[i], style, true
}

// sampleV interpolates the mesh v coordinate at local point p
func sampleV(m *light.Mesh, p geom.Point) (float64, bool) {
	for _, tri := range m.Triangles {
		a, b, c := vec(m, tri[0]), vec(m, tri[1]), vec(m, tri[2])
		wa, wb, wc, ok := barycentric(p, a, b, c)
		if !ok {
			continue
		}
		v := wa*float64(m.UV[tri[0]].Y()) + wb*float64(m.UV[tri[1]].Y()) + wc*float64(m.UV[tri[2]].Y())
		return v, true
	}
	return 0, false
}

func vec(m *light.Mesh, i uint32) geom.Point {
	v := m.Vertices[i]
	return geom.Point{X: float64(v.X()), Y: float64(v.Y())}
}

// barycentric returns the weights of p in triangle abc; ok is false when p
// is outside or the triangle is degenerate
func barycentric(p, a, b, c geom.Point) (wa, wb, wc float64, ok bool) {
	d := b.Sub(a).Cross(c.Sub(a))
	if d == 0 {
		return 0, 0, 0, false
	}
	wb = p.Sub(a).Cross(c.Sub(a)) / d
	wc = b.Sub(a).Cross(p.Sub(a)) / d
	wa = 1 - wb - wc
	const eps = 1e-9
	if wa < -eps || wb < -eps || wc < -eps {
		return 0, 0, 0, false
	}
	return wa, wb, wc, true
}
