package light

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/scene"
)

type recorded struct {
	id string
	ev Event
}

type recorder struct {
	events []recorded
}

func (r *recorder) Notify(obj *scene.Obstacle, ev Event) {
	r.events = append(r.events, recorded{obj.ID, ev})
}

func (r *recorder) take() []recorded {
	out := r.events
	r.events = nil
	return out
}

func obstacle(id string) *scene.Obstacle {
	return scene.NewPolygon(id, geom.Point{}, nil)
}

func TestTrackerEnterLeaveSequence(t *testing.T) {
	a, b, c := obstacle("A"), obstacle("B"), obstacle("C")
	tr := NewTracker()
	rec := &recorder{}

	tr.Track(a)
	tr.Track(b)
	tr.Flush(rec)
	assert.Equal(t, []recorded{{"A", Enter}, {"B", Enter}}, rec.take())

	tr.Track(b)
	tr.Track(c)
	tr.Flush(rec)
	assert.Equal(t, []recorded{{"C", Enter}, {"A", Leave}}, rec.take())

	tr.Flush(rec)
	assert.Equal(t, []recorded{{"B", Leave}, {"C", Leave}}, rec.take())

	tr.Flush(rec)
	assert.Empty(t, rec.take())
}

func TestTrackerCountsAndGenerations(t *testing.T) {
	a, b := obstacle("A"), obstacle("B")
	tr := NewTracker()

	tr.Track(a)
	tr.Track(a)
	tr.Track(a)
	tr.Track(nil)
	assert.Equal(t, 3, tr.Count(a))
	assert.True(t, tr.Seen(a))
	assert.False(t, tr.Seen(b))
	assert.False(t, tr.Previous(a))

	tr.Flush(nil)
	assert.Equal(t, 0, tr.Count(a), "new frame starts empty")
	assert.True(t, tr.Previous(a))

	tr.Track(b)
	tr.Flush(nil)
	assert.False(t, tr.Previous(a))
	assert.True(t, tr.Previous(b))
}

func TestTrackerRepeatedHitsEnterOnce(t *testing.T) {
	a := obstacle("A")
	tr := NewTracker()
	rec := &recorder{}

	for frame := 0; frame < 4; frame++ {
		for i := 0; i < 5; i++ {
			tr.Track(a)
		}
		tr.Flush(rec)
	}
	assert.Equal(t, []recorded{{"A", Enter}}, rec.take())
}

type listener struct {
	entered, left []LightEvent
}

func (l *listener) EnterLight(ev LightEvent) { l.entered = append(l.entered, ev) }
func (l *listener) LeaveLight(ev LightEvent) { l.left = append(l.left, ev) }

type enterOnly struct {
	count int
}

func (e *enterOnly) EnterLight(LightEvent) { e.count++ }

func TestDispatchNotifierCallsCapabilities(t *testing.T) {
	d := DispatchNotifier{Light: "lamp"}

	l := &listener{}
	o := obstacle("box")
	o.Listener = l
	d.Notify(o, Enter)
	d.Notify(o, Leave)
	if assert.Len(t, l.entered, 1) {
		assert.Equal(t, LightEvent{Light: "lamp", Object: o, Event: Enter}, l.entered[0])
	}
	assert.Len(t, l.left, 1)

	e := &enterOnly{}
	o2 := obstacle("crate")
	o2.Listener = e
	d.Notify(o2, Enter)
	d.Notify(o2, Leave)
	assert.Equal(t, 1, e.count)

	// Missing receivers are not an error
	d.Notify(obstacle("bare"), Enter)
	o3 := obstacle("other")
	o3.Listener = "not a listener"
	d.Notify(o3, Leave)
	d.Notify(nil, Enter)
}

func TestNotifiersFanOut(t *testing.T) {
	r1, r2 := &recorder{}, &recorder{}
	var calls int
	ns := Notifiers{r1, nil, r2, NotifierFunc(func(*scene.Obstacle, Event) { calls++ })}

	ns.Notify(obstacle("A"), Leave)
	assert.Len(t, r1.events, 1)
	assert.Len(t, r2.events, 1)
	assert.Equal(t, 1, calls)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "enter", Enter.String())
	assert.Equal(t, "leave", Leave.String())
	assert.Equal(t, "unknown", Event(9).String())
}
