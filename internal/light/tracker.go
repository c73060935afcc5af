package light

import "chosenoffset.com/light2d/internal/scene"

// Event is a change in whether an obstacle is lit
type Event int

const (
	Enter Event = iota
	Leave
)

func (e Event) String() string {
	switch e {
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	default:
		return "unknown"
	}
}

// Notifier receives enter and leave events. Delivery is fire-and-forget.
type Notifier interface {
	Notify(obj *scene.Obstacle, ev Event)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(obj *scene.Obstacle, ev Event)

func (f NotifierFunc) Notify(obj *scene.Obstacle, ev Event) { f(obj, ev) }

// Notifiers fans an event out to every notifier in order
type Notifiers []Notifier

func (ns Notifiers) Notify(obj *scene.Obstacle, ev Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(obj, ev)
		}
	}
}

// generation is one frame's seen set. order keeps Flush deterministic.
type generation struct {
	counts map[*scene.Obstacle]int
	order  []*scene.Obstacle
}

func (g *generation) reset() {
	clear(g.counts)
	g.order = g.order[:0]
}

// Tracker diffs the obstacles hit this frame against the previous frame.
// The two generations are swapped by index and never copied.
type Tracker struct {
	gens [2]generation
	cur  int
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	t := &Tracker{}
	for i := range t.gens {
		t.gens[i].counts = make(map[*scene.Obstacle]int)
	}
	return t
}

// Track records one hit on obj for the current frame. nil is ignored.
func (t *Tracker) Track(obj *scene.Obstacle) {
	if obj == nil {
		return
	}
	g := &t.gens[t.cur]
	if g.counts[obj] == 0 {
		g.order = append(g.order, obj)
	}
	g.counts[obj]++
}

// Count returns how many rays hit obj in the current frame
func (t *Tracker) Count(obj *scene.Obstacle) int {
	return t.gens[t.cur].counts[obj]
}

// Seen reports whether obj was hit in the current frame
func (t *Tracker) Seen(obj *scene.Obstacle) bool {
	return t.Count(obj) > 0
}

// Previous reports whether obj was hit in the last flushed frame
func (t *Tracker) Previous(obj *scene.Obstacle) bool {
	return t.gens[t.cur^1].counts[obj] > 0
}

// Flush emits Enter for newly seen obstacles, then Leave for those no longer
// seen, and starts a new frame.
func (t *Tracker) Flush(n Notifier) {
	cur, prev := &t.gens[t.cur], &t.gens[t.cur^1]
	if n != nil {
		for _, obj := range cur.order {
			if prev.counts[obj] == 0 {
				n.Notify(obj, Enter)
			}
		}
		for _, obj := range prev.order {
			if cur.counts[obj] == 0 {
				n.Notify(obj, Leave)
			}
		}
	}
	t.cur ^= 1
	t.gens[t.cur].reset()
}

// LightEvent is delivered to obstacle listeners
type LightEvent struct {
	Light  string
	Object *scene.Obstacle
	Event  Event
}

// EnterLighter is implemented by listeners that want to know when light reaches them
type EnterLighter interface {
	EnterLight(ev LightEvent)
}

// LeaveLighter is implemented by listeners that want to know when light leaves them
type LeaveLighter interface {
	LeaveLight(ev LightEvent)
}

// DispatchNotifier forwards events to the obstacle's Listener when it
// implements the matching interface.
type DispatchNotifier struct {
	Light string
}

func (d DispatchNotifier) Notify(obj *scene.Obstacle, ev Event) {
	if obj == nil || obj.Listener == nil {
		return
	}
	le := LightEvent{Light: d.Light, Object: obj, Event: ev}
	switch ev {
	case Enter:
		if l, ok := obj.Listener.(EnterLighter); ok {
			l.EnterLight(le)
		}
	case Leave:
		if l, ok := obj.Listener.(LeaveLighter); ok {
			l.LeaveLight(le)
		}
	}
}
