package render

import (
	"sort"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/touch"
)

// Fingers turns per-tick pointer samples into touch phases. Call Down for
// every pointer held this tick and Up for every pointer released, then
// Finish. A pointer that disappears without an Up is reported Canceled.
type Fingers struct {
	last     map[int]geom.Point
	seen     map[int]bool
	out      []touch.Touch
	finished bool
}

func (f *Fingers) begin() {
	if f.finished {
		f.out = f.out[:0]
		f.finished = false
	}
}

func NewFingers() *Fingers {
	return &Fingers{last: make(map[int]geom.Point), seen: make(map[int]bool)}
}

// Down records pointer id held at p
func (f *Fingers) Down(id int, p geom.Point) {
	f.begin()
	if f.seen[id] {
		return
	}
	f.seen[id] = true

	phase := touch.Moved
	prev, ok := f.last[id]
	switch {
	case !ok:
		phase = touch.Began
	case prev == p:
		phase = touch.Stationary
	}
	f.last[id] = p
	f.out = append(f.out, touch.Touch{FingerID: id, Position: p, Phase: phase})
}

// Up records pointer id released this tick
func (f *Fingers) Up(id int) {
	f.begin()
	p, ok := f.last[id]
	if !ok || f.seen[id] {
		return
	}
	f.seen[id] = true
	delete(f.last, id)
	f.out = append(f.out, touch.Touch{FingerID: id, Position: p, Phase: touch.Ended})
}

// Finish returns this tick's touches and resets for the next tick. The
// slice is only valid until the next Down or Up.
func (f *Fingers) Finish() []touch.Touch {
	f.begin()
	var lost []int
	for id := range f.last {
		if !f.seen[id] {
			lost = append(lost, id)
		}
	}
	sort.Ints(lost)
	for _, id := range lost {
		f.out = append(f.out, touch.Touch{FingerID: id, Position: f.last[id], Phase: touch.Canceled})
		delete(f.last, id)
	}

	clear(f.seen)
	f.finished = true
	return f.out
}
