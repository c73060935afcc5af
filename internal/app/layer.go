package app

import (
	"math"
	"reflect"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/render"
	"chosenoffset.com/light2d/internal/scene"
	"chosenoffset.com/light2d/internal/touch"
)

// SceneLayer lets the touch manager pick scene obstacles by screen position.
// The picked target is the obstacle's Listener when it has one and it can be
// compared with ==, otherwise the obstacle itself.
type SceneLayer struct {
	Scene    *scene.Scene
	View     *render.View
	Z        float64
	Disabled bool
}

func (l *SceneLayer) Depth() float64 { return l.Z }

func (l *SceneLayer) Enabled() bool { return !l.Disabled }

func (l *SceneLayer) Pick(p geom.Point) (touch.Target, bool) {
	if l.View != nil {
		p = l.View.ToWorld(p)
	}
	o, ok := l.Scene.Pick(p)
	if !ok {
		return nil, false
	}
	if o.Listener != nil && reflect.ValueOf(o.Listener).Comparable() {
		return o.Listener, true
	}
	return o, true
}

// FitView scales a width by height world into a screen, centred
func FitView(width, height float64, screenW, screenH int) render.View {
	if width <= 0 || height <= 0 {
		return render.View{Scale: 1}
	}
	scale := math.Min(float64(screenW)/width, float64(screenH)/height)
	return render.View{
		Offset: geom.Point{
			X: (float64(screenW) - width*scale) / 2,
			Y: (float64(screenH) - height*scale) / 2,
		},
		Scale: scale,
	}
}
