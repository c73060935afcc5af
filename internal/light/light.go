// Package light computes the visible region of 2D lights. Each frame a light
// scans its field of view against the scene, reports obstacles entering and
// leaving the light, builds a fan mesh per instance and refreshes its texture.
package light

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/noise"
	"chosenoffset.com/light2d/internal/scene"
)

// Instance is one copy of a light. Lights with several duplicates spread
// their instances on a small circle to soften shadow edges.
type Instance struct {
	Position geom.Point
	Z        float64
	Hits     []Hit
	Mesh     Mesh
	Err      error // last mesh build error
}

// Light is a dynamic light source
type Light struct {
	ID string

	cfg       *Config
	caster    Caster
	scene     *scene.Scene
	log       logrus.FieldLogger
	notifiers Notifiers
	noise     Noise

	scanner   Scanner
	tracker   *Tracker
	instances []*Instance
	texture   *Texture
	origin    geom.Point

	dirty     bool
	configErr error
	reported  bool
}

// Option configures a Light
type Option func(*Light)

// WithLogger sets the logger diagnostics are written to
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Light) { l.log = log }
}

// WithNotifier adds a receiver for enter and leave events
func WithNotifier(n Notifier) Option {
	return func(l *Light) { l.notifiers = append(l.notifiers, n) }
}

// WithNoise sets the noise source for the Perlin mask
func WithNoise(n Noise) Option {
	return func(l *Light) { l.noise = n }
}

// WithScene resolves vertex strategy targets against s. When no caster is
// given the scene is used as the caster.
func WithScene(s *scene.Scene) Option {
	return func(l *Light) { l.scene = s }
}

// New creates a light. An invalid config does not fail construction: the
// light skips frames until SetConfig supplies a valid one.
func New(id string, cfg *Config, caster Caster, opts ...Option) (*Light, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Light{
		ID:      id,
		cfg:     cfg.Clone(),
		caster:  caster,
		tracker: NewTracker(),
		dirty:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.caster == nil && l.scene != nil {
		l.caster = l.scene
	}
	if l.caster == nil {
		return nil, errors.Wrapf(ErrConfig, "light %s has no caster", id)
	}
	if l.log == nil {
		l.log = logrus.StandardLogger()
	}
	l.log = l.log.WithFields(logrus.Fields{"component": "light", "light": id})
	l.notifiers = append(Notifiers{DispatchNotifier{Light: id}}, l.notifiers...)
	return l, nil
}

// Config returns a copy of the current config
func (l *Light) Config() *Config { return l.cfg.Clone() }

// SetConfig replaces the config. The error reports a defect; the config is
// kept either way and frames are skipped while it is invalid.
func (l *Light) SetConfig(cfg *Config) error {
	l.cfg = cfg.Clone()
	l.dirty = true
	return cfg.Validate()
}

// SetDirection steers the light, in degrees
func (l *Light) SetDirection(deg float64) {
	l.cfg.Direction = deg
}

// Origin is the position passed to the last Update
func (l *Light) Origin() geom.Point { return l.origin }

// Instances returns the light's instances as of the last Update
func (l *Light) Instances() []*Instance { return l.instances }

// Texture returns the filtered texture as of the last Update
func (l *Light) Texture() *Texture { return l.texture }

// Tracker exposes the seen-obstacle state
func (l *Light) Tracker() *Tracker { return l.tracker }

// Update runs one frame at origin: scan every instance, emit enter and leave
// events, rebuild each instance mesh, then refilter the texture.
func (l *Light) Update(origin geom.Point) error {
	l.origin = origin
	if l.dirty {
		l.reinit()
	}
	if l.configErr != nil {
		if !l.reported {
			l.log.WithError(l.configErr).Error("light update skipped")
			l.reported = true
		}
		return l.configErr
	}

	l.placeInstances(origin)

	fov := l.cfg.FieldOfView()
	for _, inst := range l.instances {
		inst.Hits = l.scanner.Scan(inst.Position, fov, l.cfg.Radius, inst.Hits)
		for _, h := range inst.Hits {
			l.tracker.Track(h.Object)
		}
	}
	l.tracker.Flush(l.notifiers)

	for i, inst := range l.instances {
		if l.cfg.Strategy == StrategyVertex {
			inst.Err = BuildIndexedFan(&inst.Mesh, inst.Position, inst.Hits)
		} else {
			inst.Err = BuildFan(&inst.Mesh, inst.Position, inst.Hits, l.cfg.Radius)
		}
		if inst.Err != nil {
			l.log.WithError(inst.Err).WithField("instance", i).Warn("light mesh cleared")
		}
	}

	Filter(l.texture, l.cfg, l.noise)

	if l.cfg.Debug {
		for i, inst := range l.instances {
			l.log.WithFields(logrus.Fields{
				"instance": i,
				"hits":     len(inst.Hits),
				"vertices": len(inst.Mesh.Vertices),
			}).Debug("light scanned")
		}
	}
	return nil
}

// reinit rebuilds whatever the config change invalidated
func (l *Light) reinit() {
	l.dirty = false
	l.reported = false
	l.configErr = l.cfg.Validate()
	if l.configErr != nil {
		return
	}

	if len(l.instances) != l.cfg.NumberOfDuplicates {
		l.instances = make([]*Instance, l.cfg.NumberOfDuplicates)
		for i := range l.instances {
			l.instances[i] = &Instance{}
		}
	}
	if l.texture == nil || l.texture.Width != l.cfg.TextureWidth || l.texture.Height != l.cfg.TextureHeight {
		l.texture = NewTexture(l.cfg.TextureWidth, l.cfg.TextureHeight)
	}
	if l.cfg.EnablePerlin && l.noise == nil {
		l.noise = noise.NewPerlin(l.cfg.PerlinSeed)
	}

	switch l.cfg.Strategy {
	case StrategyVertex:
		targets, err := l.resolveTargets()
		if err != nil {
			l.configErr = err
			return
		}
		l.scanner = &VertexScanner{Caster: l.caster, Targets: targets, SilhouetteScale: l.cfg.SilhouetteScale}
	default:
		l.scanner = &CircularScanner{Caster: l.caster, Rays: l.cfg.NumberOfRays}
	}
}

func (l *Light) resolveTargets() ([]*scene.Obstacle, error) {
	if l.scene == nil {
		return nil, errors.Wrap(ErrConfig, "vertex strategy needs a scene to resolve targets")
	}
	targets := make([]*scene.Obstacle, 0, len(l.cfg.Targets))
	for _, id := range l.cfg.Targets {
		o, ok := l.scene.Obstacle(id)
		if !ok {
			return nil, errors.Wrapf(ErrConfig, "unknown target %q", id)
		}
		targets = append(targets, o)
	}
	return targets, nil
}

// placeInstances puts a single instance on the origin and spreads duplicates
// evenly on a circle of radius DuplicateDiff, each one DuplicateZDiff deeper.
func (l *Light) placeInstances(origin geom.Point) {
	n := len(l.instances)
	if n == 1 {
		l.instances[0].Position = origin
		l.instances[0].Z = 0
		return
	}
	for i, inst := range l.instances {
		a := float64(i) * 2 * math.Pi / float64(n)
		inst.Position = origin.Add(geom.FromAngle(a).Scale(l.cfg.DuplicateDiff))
		inst.Z = l.cfg.DuplicateZDiff * float64(i)
	}
}

// DebugLines returns the rays and polygon outline of every instance when
// debug is on
func (l *Light) DebugLines() (rays, outline []geom.Segment) {
	if !l.cfg.Debug {
		return nil, nil
	}
	for _, inst := range l.instances {
		for i, h := range inst.Hits {
			rays = append(rays, geom.Segment{A: inst.Position, B: h.Point})
			if i > 0 {
				outline = append(outline, geom.Segment{A: inst.Hits[i-1].Point, B: h.Point})
			}
		}
	}
	return rays, outline
}
