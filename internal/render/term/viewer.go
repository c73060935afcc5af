package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/scene"
)

// Viewer is an interactive terminal view of a scene's lights. WASD moves the
// steered light by one cell, Q and E rotate it, Tab cycles the steered light
// and Esc or Ctrl-C quits.
type Viewer struct {
	Canvas  *Canvas
	Scene   *scene.Scene
	Lights  *light.Manager
	Origins map[string]geom.Point
	// RotateStep is in degrees
	RotateStep float64
	// Tick redraws periodically; 0 redraws only after input
	Tick time.Duration

	active int
	log    logrus.FieldLogger
}

func NewViewer(c *Canvas, s *scene.Scene, lights *light.Manager, log logrus.FieldLogger) *Viewer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Viewer{
		Canvas:     c,
		Scene:      s,
		Lights:     lights,
		Origins:    make(map[string]geom.Point),
		RotateStep: 15,
		log:        log.WithField("component", "term"),
	}
}

// Steered returns the light the keys act on
func (v *Viewer) Steered() *light.Light {
	all := v.Lights.All()
	if len(all) == 0 {
		return nil
	}
	return all[v.active%len(all)]
}

// HandleKey applies a key press. It returns false when the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		v.active++
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	l := v.Steered()
	if l == nil {
		return true
	}
	move := geom.Point{}
	switch ev.Rune() {
	case 'w':
		move.Y = -v.Canvas.CellH
	case 's':
		move.Y = v.Canvas.CellH
	case 'a':
		move.X = -v.Canvas.CellW
	case 'd':
		move.X = v.Canvas.CellW
	case 'q':
		l.SetDirection(l.Config().Direction - v.RotateStep)
	case 'e':
		l.SetDirection(l.Config().Direction + v.RotateStep)
	}
	if !move.IsZero() {
		v.Origins[l.ID] = v.origin(l).Add(move)
	}
	return true
}

func (v *Viewer) origin(l *light.Light) geom.Point {
	if p, ok := v.Origins[l.ID]; ok {
		return p
	}
	return l.Origin()
}

// Frame updates every light and redraws
func (v *Viewer) Frame() {
	errs := v.Lights.UpdateAll(func(id string) geom.Point {
		if p, ok := v.Origins[id]; ok {
			return p
		}
		if l, ok := v.Lights.Get(id); ok {
			return l.Origin()
		}
		return geom.Point{}
	})
	for id, err := range errs {
		v.log.WithError(err).WithField("light", id).Debug("frame skipped")
	}
	v.Canvas.Draw(v.Scene, v.Lights.All())
}

// Run draws frames until the context ends or the user quits. The screen
// must already be initialised; Run does not finalise it.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := v.Canvas.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	var tick <-chan time.Time
	if v.Tick > 0 {
		t := time.NewTicker(v.Tick)
		defer t.Stop()
		tick = t.C
	}

	v.Frame()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				v.Canvas.Screen.Sync()
			}
			v.Frame()
		case <-tick:
			v.Frame()
		}
	}
}
