// Package render abstracts the graphics backend that light meshes and
// textures are drawn with, so the frame loop can run against ebiten or a
// test double.
package render

import (
	"image"
	"image/color"

	"chosenoffset.com/light2d/internal/touch"
)

// Renderer creates images and draws primitive shapes.
type Renderer interface {
	// NewImage creates an offscreen image.
	NewImage(width, height int) Image

	// FillCircle draws a filled circle.
	FillCircle(dst Image, x, y, radius float32, clr color.Color)

	// StrokeLine draws a line segment, used for debug rays and outlines.
	StrokeLine(dst Image, x0, y0, x1, y1, width float32, clr color.Color)

	// DrawText draws a status line using the backend's debug font.
	DrawText(dst Image, text string, x, y int)
}

// Image is a surface that can be drawn to or drawn from.
type Image interface {
	Bounds() image.Rectangle
	Size() (width, height int)

	Fill(clr color.Color)
	Clear()

	// WritePixels replaces the image contents with premultiplied RGBA bytes.
	WritePixels(pix []byte)

	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	Dispose()
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM GeoM
}

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	Translate(tx, ty float64)
	Scale(sx, sy float64)
	Rotate(angle float64)
	Reset()
}

// NewGeoM creates a new geometric transformation matrix.
// It is installed by the backend package.
var NewGeoM func() GeoM

// Blend selects how triangles are composited onto the destination.
type Blend int

const (
	BlendSourceOver Blend = iota
	BlendLighter
)

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
	Blend     Blend
}

// Vertex is one corner of a textured triangle in screen space.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager reports keyboard and pointer state for the current tick.
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	CursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
}

// TouchSource reports the fingers down this tick with their phases.
type TouchSource interface {
	Touches() []touch.Touch
}

// Key represents a keyboard key.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ // rotate counter-clockwise
	KeyE // rotate clockwise
	KeyT // toggle sweep
	KeyG // toggle debug lines
	KeyM // toggle audio
	KeyEscape
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Game is driven by the Engine once per tick.
type Game interface {
	// Update advances the simulation. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the current frame.
	Draw(screen Image)

	// Layout accepts the outside size and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine owns the window and the game loop.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// RunGame blocks until the game ends.
	RunGame(game Game) error
}
