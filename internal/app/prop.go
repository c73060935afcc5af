package app

import (
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/scene"
	"chosenoffset.com/light2d/internal/touch"
)

// Prop is the listener the app attaches to scene obstacles. It records
// which lights reach the obstacle and how fingers interact with it: held
// while a finger is down on it, toggled selected by a click.
type Prop struct {
	Obstacle *scene.Obstacle

	lit      map[string]bool
	held     int
	selected bool
	clicks   int
}

// NewProp creates a prop and installs it as o's listener
func NewProp(o *scene.Obstacle) *Prop {
	p := &Prop{Obstacle: o, lit: make(map[string]bool)}
	o.Listener = p
	return p
}

// AttachProps gives every obstacle of s without a listener a Prop
func AttachProps(s *scene.Scene) map[string]*Prop {
	props := make(map[string]*Prop)
	for _, o := range s.Obstacles() {
		if o.Listener != nil {
			continue
		}
		props[o.ID] = NewProp(o)
	}
	return props
}

func (p *Prop) EnterLight(ev light.LightEvent) {
	p.lit[ev.Light] = true
}

func (p *Prop) LeaveLight(ev light.LightEvent) {
	delete(p.lit, ev.Light)
}

func (p *Prop) OnTouchBegan(touch.Event) {
	p.held++
}

func (p *Prop) OnTouchEnded(touch.Event) {
	if p.held > 0 {
		p.held--
	}
}

func (p *Prop) OnTouchClicked(touch.Event) {
	p.selected = !p.selected
	p.clicks++
}

// Lit reports whether any light currently reaches the obstacle
func (p *Prop) Lit() bool {
	return len(p.lit) > 0
}

// LitBy reports whether light id currently reaches the obstacle
func (p *Prop) LitBy(id string) bool {
	return p.lit[id]
}

// Held reports whether a finger is down on the obstacle
func (p *Prop) Held() bool {
	return p.held > 0
}

func (p *Prop) Selected() bool {
	return p.selected
}

func (p *Prop) Clicks() int {
	return p.clicks
}
