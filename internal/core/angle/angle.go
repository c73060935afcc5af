// Package angle provides wraparound-safe helpers for angles in radians.
package angle

import (
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// TwoPi is a full turn in radians.
	TwoPi = 2 * math.Pi

	deg2Rad = math.Pi / 180
	rad2Deg = 180 / math.Pi
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used to report normalisation defects.
// Passing nil restores the standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * deg2Rad }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 { return rad * rad2Deg }

// ToSignedRange normalises a to (-pi, pi].
func ToSignedRange(a float64) float64 {
	res := math.Mod(a, TwoPi)
	if res > math.Pi {
		res -= TwoPi
	} else if res <= -math.Pi {
		res += TwoPi
	}
	if math.IsNaN(res) || res <= -math.Pi || res > math.Pi {
		reportInvariant("signed", a, res)
	}
	return res
}

// ToUnsignedRange normalises a to [0, 2pi).
func ToUnsignedRange(a float64) float64 {
	res := math.Mod(a, TwoPi)
	if res < 0 {
		res += TwoPi
	}
	// A tiny negative remainder rounds up to exactly 2pi.
	if res == TwoPi {
		res = 0
	}
	if math.IsNaN(res) || res < 0 || res >= TwoPi {
		reportInvariant("unsigned", a, res)
	}
	return res
}

// WithinArc reports whether a lies inside the arc that starts at start and
// sweeps counter-clockwise by rng radians, widened by eps on both sides.
// Both angles are normalised first, so arcs crossing the -pi/pi seam work.
func WithinArc(a, start, rng, eps float64) bool {
	if rng+2*eps >= TwoPi {
		return true
	}
	d := ToUnsignedRange(ToSignedRange(a) - ToSignedRange(start))
	return d <= rng+eps || d >= TwoPi-eps
}

// Diff returns the signed shortest rotation from b to a, in (-pi, pi].
func Diff(a, b float64) float64 {
	return ToSignedRange(a - b)
}

func reportInvariant(rangeName string, in, out float64) {
	logger.WithFields(logrus.Fields{
		"invariant": true,
		"range":     rangeName,
		"input":     in,
		"result":    out,
	}).Error("angle normalisation produced an out-of-range result")
}
