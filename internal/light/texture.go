package light

import (
	"image"
	"image/color"
	"math"
)

// Color is a straight-alpha RGBA colour with components in [0, 1]
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// Lerp interpolates from a to b by t, clamped to [0, 1]
func Lerp(a, b Color, t float32) Color {
	t = clamp01(t)
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// WithAlpha returns c with its alpha replaced
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func toByte(v float32) uint8 {
	return uint8(math.Round(float64(clamp01(v)) * 255))
}

// Texture is a CPU-side pixel buffer. Rows run away from the light: y = 0 is
// nearest the origin, matching the mesh's UV y.
type Texture struct {
	Width, Height int
	Pix           []Color
}

// NewTexture allocates a width x height texture
func NewTexture(width, height int) *Texture {
	return &Texture{Width: width, Height: height, Pix: make([]Color, width*height)}
}

// Clear fills the texture with c
func (t *Texture) Clear(c Color) {
	for i := range t.Pix {
		t.Pix[i] = c
	}
}

func (t *Texture) SetPixel(x, y int, c Color) {
	t.Pix[y*t.Width+x] = c
}

func (t *Texture) Pixel(x, y int) Color {
	return t.Pix[y*t.Width+x]
}

// RGBA packs the texture as premultiplied 8-bit RGBA for GPU upload
func (t *Texture) RGBA() []byte {
	out := make([]byte, 0, len(t.Pix)*4)
	for _, c := range t.Pix {
		a := clamp01(c.A)
		out = append(out, toByte(c.R*a), toByte(c.G*a), toByte(c.B*a), toByte(a))
	}
	return out
}

// NRGBA converts the texture to a straight-alpha image
func (t *Texture) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := t.Pixel(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: toByte(c.R), G: toByte(c.G), B: toByte(c.B), A: toByte(c.A)})
		}
	}
	return img
}

// Noise is the coherent noise source used by the Perlin mask, in [0, 1]
type Noise interface {
	Perlin(x, y float64) float64
}

// rowFactor is y's position from the first row (0) to the last (1)
func (t *Texture) rowFactor(y int) float32 {
	if t.Height <= 1 {
		return 0
	}
	return float32(y) / float32(t.Height-1)
}

// Filter runs the texture pipeline for cfg in its fixed order: colour or tint,
// falloff, Perlin mask, soft edges. Each step reads the alpha written by the
// one before.
func Filter(tex *Texture, cfg *Config, n Noise) *Texture {
	if cfg.EnableTint {
		ApplyColorWithTint(tex, cfg.Color, cfg.Tint, cfg.Alpha)
	} else {
		ApplyColor(tex, cfg.Color, cfg.Alpha)
	}
	if cfg.EnableFallOff {
		ApplyGradient(tex, cfg.Alpha)
	}
	if cfg.EnablePerlin && n != nil {
		ApplyPerlin(tex, n, cfg.PerlinStart, cfg.PerlinScale)
	}
	if cfg.SoftEdges > 0 {
		ApplySoftEdges(tex, cfg.SoftEdges)
	}
	return tex
}

// ApplyColor fills the texture with c, its alpha scaled by alphaScale
func ApplyColor(tex *Texture, c Color, alphaScale float32) {
	tex.Clear(c.WithAlpha(c.A * alphaScale))
}

// ApplyColorWithTint shades each row from c at the first row to tint at the last
func ApplyColorWithTint(tex *Texture, c, tint Color, alphaScale float32) {
	for y := 0; y < tex.Height; y++ {
		row := Lerp(c, tint, tex.rowFactor(y))
		row.A *= alphaScale
		for x := 0; x < tex.Width; x++ {
			tex.SetPixel(x, y, row)
		}
	}
}

// ApplyGradient fades alpha linearly from maxAlpha at the first row to 0 at the last
func ApplyGradient(tex *Texture, maxAlpha float32) {
	for y := 0; y < tex.Height; y++ {
		a := maxAlpha - tex.rowFactor(y)*maxAlpha
		for x := 0; x < tex.Width; x++ {
			c := tex.Pixel(x, y)
			tex.SetPixel(x, y, c.WithAlpha(c.A*a))
		}
	}
}

// ApplyPerlin scales each column's alpha by one noise sample, capped at 1
func ApplyPerlin(tex *Texture, n Noise, start, scale float64) {
	for x := 0; x < tex.Width; x++ {
		p := float32(n.Perlin(start+float64(x)/float64(tex.Width)*scale, 0))
		for y := 0; y < tex.Height; y++ {
			c := tex.Pixel(x, y)
			tex.SetPixel(x, y, c.WithAlpha(float32(math.Min(1, float64(p*c.A)))))
		}
	}
}

// ApplySoftEdges makes the outer n columns of every row transparent, keeping
// the row's first colour
func ApplySoftEdges(tex *Texture, n int) {
	if n > tex.Width {
		n = tex.Width
	}
	for y := 0; y < tex.Height; y++ {
		c := tex.Pixel(0, y).WithAlpha(0)
		for i := 0; i < n; i++ {
			tex.SetPixel(i, y, c)
			tex.SetPixel(tex.Width-1-i, y, c)
		}
	}
}
