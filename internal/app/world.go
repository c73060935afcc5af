// Package app composes scenes, lights, input and rendering into a frame loop.
package app

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/scene"
)

// DefaultLightID names the light created for scenes that place none
const DefaultLightID = "player"

// World is a scene with its lights and where each light currently sits.
// Props are the listeners attached to obstacles that had none.
type World struct {
	Scene   *scene.Scene
	Data    *scene.Data
	Lights  *light.Manager
	Origins map[string]geom.Point
	Props   map[string]*Prop
}

// LoadWorld reads a scene file and creates its lights. base is the config
// every light starts from; per-light config in the scene file overlays it.
func LoadWorld(path string, base *light.Config, log logrus.FieldLogger, opts ...light.Option) (*World, error) {
	s, data, err := scene.LoadScene(path, log)
	if err != nil {
		return nil, err
	}
	return NewWorld(s, data, base, log, opts...)
}

// NewWorld creates the lights described by data and attaches a Prop to every
// obstacle without a listener. A scene without lights gets one at its spawn
// point.
func NewWorld(s *scene.Scene, data *scene.Data, base *light.Config, log logrus.FieldLogger, opts ...light.Option) (*World, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if base == nil {
		base = light.DefaultConfig()
	}
	w := &World{
		Scene:   s,
		Data:    data,
		Lights:  light.NewManager(log),
		Origins: make(map[string]geom.Point),
		Props:   AttachProps(s),
	}

	placed := data.Lights
	if len(placed) == 0 {
		placed = []scene.LightData{{ID: DefaultLightID, X: data.Spawn.X, Y: data.Spawn.Y}}
	}

	lightOpts := append([]light.Option{light.WithScene(s), light.WithLogger(log)}, opts...)
	for _, ld := range placed {
		cfg, err := base.Overlay(ld.Config)
		if err != nil {
			return nil, errors.Wrapf(err, "light %s", ld.ID)
		}
		l, err := light.New(ld.ID, cfg, nil, lightOpts...)
		if err != nil {
			return nil, err
		}
		w.Lights.Add(l)
		w.Origins[ld.ID] = geom.Point{X: ld.X, Y: ld.Y}
	}
	return w, nil
}

// Origin returns where light id sits
func (w *World) Origin(id string) geom.Point {
	return w.Origins[id]
}

// Move shifts light id by d
func (w *World) Move(id string, d geom.Point) {
	w.Origins[id] = w.Origins[id].Add(d)
}

// Update runs one light frame. The returned map holds per-light errors and
// is nil when every light updated.
func (w *World) Update() map[string]error {
	return w.Lights.UpdateAll(w.Origin)
}
