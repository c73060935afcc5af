package render

import (
	"math"

	"github.com/pkg/errors"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
)

// ErrTooManyVertices is returned when a mesh cannot be drawn with 16-bit indices
var ErrTooManyVertices = errors.New("mesh exceeds 16-bit indexing")

// View maps world units to screen pixels
type View struct {
	Offset geom.Point // screen position of the world origin
	Scale  float64    // pixels per world unit, 0 means 1
}

func (v View) scale() float64 {
	if v.Scale == 0 {
		return 1
	}
	return v.Scale
}

// ToScreen converts a world point to screen pixels
func (v View) ToScreen(p geom.Point) geom.Point {
	return p.Scale(v.scale()).Add(v.Offset)
}

// ToWorld converts screen pixels to a world point
func (v View) ToWorld(p geom.Point) geom.Point {
	return p.Sub(v.Offset).Scale(1 / v.scale())
}

// MeshVertices converts a light mesh placed at world position at into screen
// vertices. UV (u, v) samples source pixel (u*texW, v*texH).
func MeshVertices(m *light.Mesh, at geom.Point, view View, texW, texH int, tint light.Color) ([]Vertex, []uint16, error) {
	if len(m.Vertices) > math.MaxUint16+1 {
		return nil, nil, errors.Wrapf(ErrTooManyVertices, "%d vertices", len(m.Vertices))
	}
	if len(m.UV) != len(m.Vertices) {
		return nil, nil, errors.Errorf("mesh has %d vertices but %d uvs", len(m.Vertices), len(m.UV))
	}

	vertices := make([]Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		p := view.ToScreen(at.Add(geom.Point{X: float64(v.X()), Y: float64(v.Y())}))
		uv := m.UV[i]
		vertices[i] = Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   uv.X() * float32(texW),
			SrcY:   uv.Y() * float32(texH),
			ColorR: tint.R,
			ColorG: tint.G,
			ColorB: tint.B,
			ColorA: tint.A,
		}
	}

	indices := make([]uint16, 0, len(m.Triangles)*3)
	for _, idx := range m.Indices() {
		indices = append(indices, uint16(idx))
	}
	return vertices, indices, nil
}

// UploadTexture writes tex into img. The sizes must match.
func UploadTexture(img Image, tex *light.Texture) error {
	w, h := img.Size()
	if w != tex.Width || h != tex.Height {
		return errors.Errorf("texture is %dx%d but image is %dx%d", tex.Width, tex.Height, w, h)
	}
	img.WritePixels(tex.RGBA())
	return nil
}

// MeshSink keeps one GPU image per light texture and draws meshes with it
type MeshSink struct {
	Renderer Renderer
	images   map[*light.Texture]Image
}

func NewMeshSink(r Renderer) *MeshSink {
	return &MeshSink{Renderer: r, images: make(map[*light.Texture]Image)}
}

// Texture uploads tex into its image, creating or resizing it as needed
func (s *MeshSink) Texture(tex *light.Texture) (Image, error) {
	img, ok := s.images[tex]
	if ok {
		if w, h := img.Size(); w != tex.Width || h != tex.Height {
			img.Dispose()
			ok = false
		}
	}
	if !ok {
		img = s.Renderer.NewImage(tex.Width, tex.Height)
		s.images[tex] = img
	}
	return img, UploadTexture(img, tex)
}

// Draw renders every instance mesh of l onto dst
func (s *MeshSink) Draw(dst Image, l *light.Light, view View) error {
	tex := l.Texture()
	if tex == nil {
		return nil
	}
	img, err := s.Texture(tex)
	if err != nil {
		return err
	}
	for _, inst := range l.Instances() {
		if inst.Mesh.Empty() {
			continue
		}
		vs, is, err := MeshVertices(&inst.Mesh, inst.Position, view, tex.Width, tex.Height, light.Color{R: 1, G: 1, B: 1, A: 1})
		if err != nil {
			return errors.Wrapf(err, "light %s", l.ID)
		}
		dst.DrawTriangles(vs, is, img, &DrawTrianglesOptions{AntiAlias: true, Blend: BlendLighter})
	}
	return nil
}

// Forget drops images for textures that are no longer drawn
func (s *MeshSink) Forget(live []*light.Light) {
	keep := make(map[*light.Texture]bool, len(live))
	for _, l := range live {
		keep[l.Texture()] = true
	}
	for tex, img := range s.images {
		if !keep[tex] {
			img.Dispose()
			delete(s.images, tex)
		}
	}
}
