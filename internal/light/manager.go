package light

import (
	"sort"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/core/geom"
)

// Manager handles all lights in a scene
type Manager struct {
	lights map[string]*Light
	log    logrus.FieldLogger
}

// NewManager creates an empty light manager
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		lights: make(map[string]*Light),
		log:    log.WithField("component", "lights"),
	}
}

// Add registers a light, replacing any light with the same ID
func (m *Manager) Add(l *Light) {
	if _, exists := m.lights[l.ID]; exists {
		m.log.WithField("light", l.ID).Warn("replacing light with duplicate id")
	}
	m.lights[l.ID] = l
}

// Remove unregisters a light
func (m *Manager) Remove(id string) bool {
	if _, ok := m.lights[id]; !ok {
		return false
	}
	delete(m.lights, id)
	return true
}

// Get returns the light with the given ID
func (m *Manager) Get(id string) (*Light, bool) {
	l, ok := m.lights[id]
	return l, ok
}

// Len returns the number of lights
func (m *Manager) Len() int { return len(m.lights) }

// All returns every light sorted by ID
func (m *Manager) All() []*Light {
	out := make([]*Light, 0, len(m.lights))
	for _, l := range m.lights {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpdateAll updates every light in ID order at the origin originFor gives it.
// Lights that fail are skipped for this frame and reported in the result.
func (m *Manager) UpdateAll(originFor func(id string) geom.Point) map[string]error {
	var failed map[string]error
	for _, l := range m.All() {
		if err := l.Update(originFor(l.ID)); err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[l.ID] = err
		}
	}
	return failed
}
