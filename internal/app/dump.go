package app

import (
	"github.com/pkg/errors"

	"chosenoffset.com/light2d/internal/core/geom"
)

// HitSnapshot is one scanned point
type HitSnapshot struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
	Object   string  `json:"object,omitempty"`
}

// InstanceSnapshot summarises one light instance after a frame
type InstanceSnapshot struct {
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Z         float64       `json:"z"`
	Hits      []HitSnapshot `json:"hits"`
	Vertices  int           `json:"vertices"`
	Triangles int           `json:"triangles"`
	Error     string        `json:"error,omitempty"`
}

// Snapshot is what `light2d dump` prints
type Snapshot struct {
	Scene     string             `json:"scene"`
	Light     string             `json:"light"`
	Strategy  string             `json:"strategy"`
	Instances []InstanceSnapshot `json:"instances"`
	Lit       []string           `json:"lit"`
}

// Dump runs one frame with light id at origin and summarises it
func Dump(w *World, id string, origin geom.Point) (*Snapshot, error) {
	l, ok := w.Lights.Get(id)
	if !ok {
		return nil, errors.Errorf("no light %q in scene", id)
	}
	w.Origins[id] = origin
	if err := l.Update(origin); err != nil {
		return nil, errors.Wrapf(err, "light %s", id)
	}

	snap := &Snapshot{Scene: w.Scene.Name, Light: id, Strategy: l.Config().Strategy}
	lit := map[string]bool{}
	for _, inst := range l.Instances() {
		is := InstanceSnapshot{
			X:         inst.Position.X,
			Y:         inst.Position.Y,
			Z:         inst.Z,
			Vertices:  len(inst.Mesh.Vertices),
			Triangles: len(inst.Mesh.Triangles),
		}
		if inst.Err != nil {
			is.Error = inst.Err.Error()
		}
		for _, h := range inst.Hits {
			hs := HitSnapshot{X: h.Point.X, Y: h.Point.Y, Distance: h.Distance}
			if h.Object != nil {
				hs.Object = h.Object.ID
				if !lit[h.Object.ID] {
					lit[h.Object.ID] = true
					snap.Lit = append(snap.Lit, h.Object.ID)
				}
			}
			is.Hits = append(is.Hits, hs)
		}
		snap.Instances = append(snap.Instances, is)
	}
	return snap, nil
}
