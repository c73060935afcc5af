package app

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/audio"
	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
	"chosenoffset.com/light2d/internal/touch"
)

// ErrQuit is returned from Update when the user asks to leave
var ErrQuit = errors.New("quit")

const (
	tickSeconds = 1.0 / 60.0

	DefaultSpeed       = 0.1 // world units per tick
	DefaultRotateSpeed = 2.0 // degrees per tick
	DefaultSweepArc    = 90.0
	DefaultSweepPeriod = 2.0
)

var (
	backgroundColor = color.RGBA{12, 12, 18, 255}
	obstacleColor   = color.RGBA{140, 140, 150, 255}
	litColor        = color.RGBA{230, 200, 90, 255}
	heldColor       = color.RGBA{90, 200, 255, 255}
	selectedColor   = color.RGBA{255, 110, 200, 255}
	rayColor        = color.RGBA{255, 80, 80, 120}
	outlineColor    = color.RGBA{80, 255, 80, 200}
	originColor     = color.RGBA{255, 255, 100, 255}
)

// Game implements render.Game. Each Update runs input, the sweep, touch
// dispatch and then every light (scan, mesh, texture); Draw only reads the
// results.
type Game struct {
	ScreenWidth  int
	ScreenHeight int

	World    *World
	View     render.View
	Renderer render.Renderer
	Input    render.InputManager
	Touches  render.TouchSource
	Sink     *render.MeshSink
	Cues     *audio.Cues

	// Steered is the light the keys act on
	Steered     string
	Speed       float64
	RotateSpeed float64
	Sweep       *Sweep

	sweeping bool
	debug    bool
	touch    *touch.Manager
	log      logrus.FieldLogger

	FrameCount int
}

// NewGame wires a world to a renderer. The first light by id is steered.
func NewGame(w *World, r render.Renderer, width, height int, log logrus.FieldLogger) *Game {
	if log == nil {
		log = logrus.StandardLogger()
	}
	g := &Game{
		ScreenWidth:  width,
		ScreenHeight: height,
		World:        w,
		Renderer:     r,
		Speed:        DefaultSpeed,
		RotateSpeed:  DefaultRotateSpeed,
		log:          log.WithField("component", "app"),
	}
	if r != nil {
		g.Sink = render.NewMeshSink(r)
	}
	if w.Data != nil {
		g.View = FitView(w.Data.Width, w.Data.Height, width, height)
	}
	if all := w.Lights.All(); len(all) > 0 {
		g.Steered = all[0].ID
	}
	return g
}

// AttachTouchManager sets the touch manager fed by Touches. Only one may be
// attached; a second replaces the first and is logged as an error.
func (g *Game) AttachTouchManager(m *touch.Manager) {
	if g.touch != nil && g.touch != m {
		g.log.Error("touch manager already attached, replacing it")
	}
	g.touch = m
}

// TouchManager returns the attached touch manager, if any
func (g *Game) TouchManager() *touch.Manager { return g.touch }

// Sweeping reports whether the steered light is being swept
func (g *Game) Sweeping() bool { return g.sweeping }

func (g *Game) steered() *light.Light {
	l, _ := g.World.Lights.Get(g.Steered)
	return l
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.FrameCount++

	if g.Input != nil {
		if g.Input.IsKeyJustPressed(render.KeyEscape) {
			return ErrQuit
		}
		g.handleKeys()
	}

	if l := g.steered(); l != nil && g.sweeping && g.Sweep != nil {
		l.SetDirection(g.Sweep.Update(tickSeconds))
	}

	if g.touch != nil && g.Touches != nil {
		g.touch.Update(g.Touches.Touches())
	}

	if g.Cues != nil {
		g.Cues.Frame()
	}
	for id, err := range g.World.Update() {
		g.log.WithError(err).WithField("light", id).Debug("light frame skipped")
	}
	return nil
}

func (g *Game) handleKeys() {
	l := g.steered()
	if l == nil {
		return
	}

	move := geom.Point{}
	if g.Input.IsKeyPressed(render.KeyW) {
		move.Y -= g.Speed
	}
	if g.Input.IsKeyPressed(render.KeyS) {
		move.Y += g.Speed
	}
	if g.Input.IsKeyPressed(render.KeyA) {
		move.X -= g.Speed
	}
	if g.Input.IsKeyPressed(render.KeyD) {
		move.X += g.Speed
	}
	if !move.IsZero() {
		g.World.Move(l.ID, move)
	}

	if !g.sweeping {
		dir := l.Config().Direction
		if g.Input.IsKeyPressed(render.KeyQ) {
			l.SetDirection(dir - g.RotateSpeed)
		}
		if g.Input.IsKeyPressed(render.KeyE) {
			l.SetDirection(dir + g.RotateSpeed)
		}
	}

	if g.Input.IsKeyJustPressed(render.KeyT) {
		g.sweeping = !g.sweeping
		if g.sweeping {
			g.Sweep = SweepAround(l.Config().Direction, DefaultSweepArc, DefaultSweepPeriod)
		}
	}

	if g.Input.IsKeyJustPressed(render.KeyG) {
		g.debug = !g.debug
		for _, l := range g.World.Lights.All() {
			cfg := l.Config()
			cfg.Debug = g.debug
			if err := l.SetConfig(cfg); err != nil {
				g.log.WithError(err).WithField("light", l.ID).Warn("debug toggle kept an invalid config")
			}
		}
	}

	if g.Input.IsKeyJustPressed(render.KeyM) && g.Cues != nil {
		g.Cues.SetMuted(!g.Cues.Muted())
	}
}

// Draw renders obstacles, light meshes, debug lines and origins.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(backgroundColor)
	if g.Renderer == nil {
		return
	}

	for _, o := range g.World.Scene.Obstacles() {
		clr := propColor(g.World.Props[o.ID])
		for _, e := range o.Edges() {
			g.line(screen, e, 2, clr)
		}
	}

	lights := g.World.Lights.All()
	for _, l := range lights {
		if err := g.Sink.Draw(screen, l, g.View); err != nil {
			g.log.WithError(err).WithField("light", l.ID).Warn("light not drawn")
		}
	}

	for _, l := range lights {
		rays, outline := l.DebugLines()
		for _, r := range rays {
			g.line(screen, r, 1, rayColor)
		}
		for _, o := range outline {
			g.line(screen, o, 1, outlineColor)
		}
		p := g.View.ToScreen(l.Origin())
		g.Renderer.FillCircle(screen, float32(p.X), float32(p.Y), 4, originColor)
	}

	if l := g.steered(); l != nil {
		status := fmt.Sprintf("%s  dir %.0f  sweep %v  debug %v", l.ID, l.Config().Direction, g.sweeping, g.debug)
		g.Renderer.DrawText(screen, status, 8, 8)
	}
}

// propColor picks an obstacle's outline colour. Touch state wins over light.
func propColor(p *Prop) color.Color {
	switch {
	case p == nil:
		return obstacleColor
	case p.Held():
		return heldColor
	case p.Selected():
		return selectedColor
	case p.Lit():
		return litColor
	default:
		return obstacleColor
	}
}

func (g *Game) line(screen render.Image, s geom.Segment, width float32, clr color.Color) {
	a, b := g.View.ToScreen(s.A), g.View.ToScreen(s.B)
	g.Renderer.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr)
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}
