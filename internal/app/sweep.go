package app

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Sweep eases a direction back and forth between two angles in degrees
type Sweep struct {
	From, To float64
	// Period is the duration of one leg in seconds
	Period float64

	tween   *gween.Tween
	forward bool
}

func NewSweep(from, to, period float64) *Sweep {
	s := &Sweep{From: from, To: to, Period: period, forward: true}
	s.tween = s.leg()
	return s
}

// SweepAround sweeps arc degrees centred on dir
func SweepAround(dir, arc, period float64) *Sweep {
	return NewSweep(dir-arc/2, dir+arc/2, period)
}

func (s *Sweep) leg() *gween.Tween {
	from, to := s.From, s.To
	if !s.forward {
		from, to = to, from
	}
	return gween.New(float32(from), float32(to), float32(s.Period), ease.InOutSine)
}

// Update advances by dt seconds and returns the current direction. A sweep
// without a positive period stays at From.
func (s *Sweep) Update(dt float64) float64 {
	if s.Period <= 0 {
		return s.From
	}
	v, done := s.tween.Update(float32(dt))
	for done {
		over := s.tween.Overflow
		s.forward = !s.forward
		s.tween = s.leg()
		if over <= 0 {
			break
		}
		v, done = s.tween.Update(over)
	}
	return float64(v)
}
