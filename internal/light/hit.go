package light

import (
	"math"

	"chosenoffset.com/light2d/internal/core/angle"
	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/scene"
)

// Hit is the result of casting one ray. Object is nil when the ray reached
// the light radius without striking anything.
type Hit struct {
	Point    geom.Point
	Distance float64
	Object   *scene.Obstacle
}

// Caster finds the nearest obstruction along a ray
type Caster interface {
	Cast(origin, dir geom.Point, maxDist float64) (scene.Hit, bool)
}

// FieldOfView is the arc the light covers, in radians
type FieldOfView struct {
	Direction   float64
	AngleOfView float64
}

// FOVDegrees builds a field of view from degrees
func FOVDegrees(direction, angleOfView float64) FieldOfView {
	return FieldOfView{Direction: angle.Deg2Rad(direction), AngleOfView: angle.Deg2Rad(angleOfView)}
}

// Start is the clockwise boundary of the arc
func (f FieldOfView) Start() float64 {
	return angle.ToSignedRange(f.Direction) - f.AngleOfView/2
}

// End is the counter-clockwise boundary of the arc
func (f FieldOfView) End() float64 {
	return angle.ToSignedRange(f.Direction) + f.AngleOfView/2
}

// castRay casts up to |radius|. A miss lands on origin + dir*radius.
func castRay(c Caster, origin, dir geom.Point, radius float64) Hit {
	if h, ok := c.Cast(origin, dir, math.Abs(radius)); ok {
		return Hit{Point: h.Point, Distance: h.Distance, Object: h.Object}
	}
	return Hit{Point: origin.Add(dir.Scale(radius)), Distance: radius}
}
