// Package touch dispatches multi-touch input to the objects under each finger.
//
// Every finger gets a record when it begins on a target. The record remembers
// the first target, the last target under the finger and the layer it began
// on, so later phases are delivered to the first target even after the finger
// moves off it.
package touch

import "chosenoffset.com/light2d/internal/core/geom"

// Phase is the state of a finger in the current frame
type Phase int

const (
	Began Phase = iota
	Moved
	Stationary
	Ended
	Canceled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Moved:
		return "moved"
	case Stationary:
		return "stationary"
	case Ended:
		return "ended"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Touch is one finger sample
type Touch struct {
	FingerID int
	Position geom.Point
	Phase    Phase
}

// Target is anything a layer can pick. Targets are compared with ==, so
// use pointers.
type Target any

// Layer is a pickable view of the world, such as a camera. Layers with
// greater depth are tested first.
type Layer interface {
	Depth() float64
	Enabled() bool
	Pick(p geom.Point) (Target, bool)
}

// Event describes a touch delivered to Target, the object the finger began on
type Event struct {
	Touch   Touch
	Target  Target
	Last    Target // target under the finger before this sample
	Current Target // target under the finger now
	Layer   Layer
}

type TouchBeganHandler interface {
	OnTouchBegan(ev Event)
}

type TouchStayedHandler interface {
	OnTouchStayed(ev Event)
}

type TouchMovedHandler interface {
	OnTouchMoved(ev Event)
}

type TouchEndedHandler interface {
	OnTouchEnded(ev Event)
}

type TouchEnteredHandler interface {
	OnTouchEntered(ev Event)
}

type TouchLeavedHandler interface {
	OnTouchLeaved(ev Event)
}

type TouchClickedHandler interface {
	OnTouchClicked(ev Event)
}
