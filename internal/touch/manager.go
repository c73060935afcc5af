package touch

import (
	"sort"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/core/geom"
)

const (
	DefaultMaxConcurrent  = 5
	DefaultClickTolerance = 100 // squared distance
)

type record struct {
	first, last Target
	layer       Layer
	firstTouch  Touch
	lastPos     geom.Point
}

// Manager turns raw touches into per-target events. It is single threaded
// and meant to be updated once per frame.
type Manager struct {
	MaxConcurrent  int
	ClickTolerance float64

	layers  []Layer
	records map[int]*record
	begun   map[int]bool // fingers recorded during the current Update
	log     logrus.FieldLogger
}

// NewManager creates a manager that picks against layers
func NewManager(log logrus.FieldLogger, layers ...Layer) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		MaxConcurrent:  DefaultMaxConcurrent,
		ClickTolerance: DefaultClickTolerance,
		layers:         layers,
		records:        make(map[int]*record),
		begun:          make(map[int]bool),
		log:            log.WithField("component", "touch"),
	}
}

// AddLayer registers another pickable layer
func (m *Manager) AddLayer(l Layer) {
	m.layers = append(m.layers, l)
}

// Active returns the number of fingers currently tracked
func (m *Manager) Active() int {
	return len(m.records)
}

// Update dispatches one frame of touches. An empty frame ends every open
// record.
func (m *Manager) Update(touches []Touch) {
	if len(touches) == 0 {
		m.resetRecords()
		return
	}

	layers := m.enabledLayers()
	clear(m.begun)
	processed := 0
	for _, t := range touches {
		if processed >= m.MaxConcurrent {
			m.log.WithField("touches", len(touches)).Debug("ignoring touches over the concurrency limit")
			break
		}
		for _, layer := range layers {
			current, ok := layer.Pick(t.Position)
			if !ok {
				current = nil
			}
			m.dispatch(t, current, layer)
		}
		processed++
	}
}

func (m *Manager) enabledLayers() []Layer {
	layers := make([]Layer, 0, len(m.layers))
	for _, l := range m.layers {
		if l.Enabled() {
			layers = append(layers, l)
		}
	}
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Depth() > layers[j].Depth() })
	return layers
}

func (m *Manager) dispatch(t Touch, current Target, layer Layer) {
	switch t.Phase {
	case Began:
		m.began(t, current, layer)
	case Stationary:
		m.stayed(t, current, layer)
	case Moved:
		m.moved(t, current, layer)
	case Ended, Canceled:
		// Canceled is delivered as Ended so handlers only see one way out
		m.ended(t, current, layer)
	}
}

func (m *Manager) began(t Touch, current Target, layer Layer) {
	if current == nil || m.heldByOtherFinger(current, t.FingerID) {
		return
	}
	if _, ok := m.records[t.FingerID]; ok {
		if m.begun[t.FingerID] {
			return
		}
		// A stale record from a finger whose end was never seen
		delete(m.records, t.FingerID)
	}
	if len(m.records) >= m.MaxConcurrent {
		return
	}

	m.begun[t.FingerID] = true
	m.records[t.FingerID] = &record{first: current, last: current, layer: layer, firstTouch: t, lastPos: t.Position}
	if h, ok := current.(TouchBeganHandler); ok {
		h.OnTouchBegan(Event{Touch: t, Target: current, Current: current, Layer: layer})
	}
}

func (m *Manager) stayed(t Touch, current Target, layer Layer) {
	r := m.recordFor(t.FingerID, layer)
	if r == nil {
		return
	}
	if h, ok := r.first.(TouchStayedHandler); ok {
		h.OnTouchStayed(Event{Touch: t, Target: r.first, Last: r.first, Current: r.first, Layer: layer})
	}
	r.last = current
	r.lastPos = t.Position
}

func (m *Manager) moved(t Touch, current Target, layer Layer) {
	r := m.recordFor(t.FingerID, layer)
	if r == nil {
		return
	}
	ev := Event{Touch: t, Target: r.first, Last: r.last, Current: current, Layer: layer}
	if h, ok := r.first.(TouchMovedHandler); ok {
		h.OnTouchMoved(ev)
	}
	if current != r.last {
		if r.last != nil {
			if h, ok := r.first.(TouchLeavedHandler); ok {
				h.OnTouchLeaved(ev)
			}
		}
		if current != nil {
			if h, ok := r.first.(TouchEnteredHandler); ok {
				h.OnTouchEntered(ev)
			}
		}
	}
	r.last = current
	r.lastPos = t.Position
}

func (m *Manager) ended(t Touch, current Target, layer Layer) {
	r, ok := m.records[t.FingerID]
	if !ok || r.layer != layer {
		return
	}
	if r.first != nil {
		ev := Event{Touch: t, Target: r.first, Last: current, Layer: layer}
		if h, ok := r.first.(TouchEndedHandler); ok {
			h.OnTouchEnded(ev)
		}
		if current != nil && current == r.first && t.Position.Sub(r.firstTouch.Position).LenSq() <= m.ClickTolerance {
			if h, ok := r.first.(TouchClickedHandler); ok {
				h.OnTouchClicked(ev)
			}
		}
	}
	delete(m.records, t.FingerID)
}

func (m *Manager) recordFor(finger int, layer Layer) *record {
	r, ok := m.records[finger]
	if !ok || r.layer != layer || r.first == nil {
		return nil
	}
	return r
}

func (m *Manager) heldByOtherFinger(target Target, finger int) bool {
	for id, r := range m.records {
		if id != finger && r.first == target && r.layer != nil && r.layer.Enabled() {
			return true
		}
	}
	return false
}

// resetRecords ends every open record as if its finger lifted where it was
// last seen, in finger order
func (m *Manager) resetRecords() {
	if len(m.records) == 0 {
		return
	}
	m.log.WithField("records", len(m.records)).Debug("resetting touch records")

	fingers := make([]int, 0, len(m.records))
	for id := range m.records {
		fingers = append(fingers, id)
	}
	sort.Ints(fingers)
	for _, id := range fingers {
		r, ok := m.records[id]
		if !ok || r.first == nil {
			continue
		}
		end := Touch{FingerID: r.firstTouch.FingerID, Position: r.lastPos, Phase: Ended}
		m.ended(end, r.last, r.layer)
	}
	clear(m.records)
}
