package app

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/light2d/internal/core/geom"
	"chosenoffset.com/light2d/internal/light"
	"chosenoffset.com/light2d/internal/render"
	"chosenoffset.com/light2d/internal/scene"
	"chosenoffset.com/light2d/internal/touch"
)

const sceneJSON = `{
	"name": "corridor",
	"width": 20,
	"height": 10,
	"tile_size": 1,
	"tiles": [
		"....................",
		"....................",
		"....................",
		"....................",
		"...............#....",
		"...............#....",
		"....................",
		"....................",
		"....................",
		"...................."
	],
	"obstacles": [
		{"id": "crate", "x": 8, "y": 5, "vertices": [[-1, -1], [1, -1], [1, 1], [-1, 1]]}
	],
	"lights": [
		{"id": "lamp", "x": 2, "y": 5, "config": {"number_of_rays": 9, "radius": 12, "texture_width": 4, "texture_height": 4}},
		{"id": "beacon", "x": 18, "y": 1, "config": {"direction": 180, "number_of_rays": 5, "texture_width": 4, "texture_height": 4}}
	],
	"spawn": {"x": 1, "y": 1}
}`

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corridor.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func loadWorld(t *testing.T) *World {
	t.Helper()
	log, _ := test.NewNullLogger()
	w, err := LoadWorld(writeScene(t, sceneJSON), nil, log)
	require.NoError(t, err)
	return w
}

type keys struct {
	held map[render.Key]bool
	just map[render.Key]bool
}

func newKeys() *keys {
	return &keys{held: map[render.Key]bool{}, just: map[render.Key]bool{}}
}

func (k *keys) IsKeyPressed(key render.Key) bool { return k.held[key] }
func (k *keys) IsKeyJustPressed(key render.Key) bool { return k.just[key] }
func (k *keys) CursorPosition() (int, int) { return 0, 0 }
func (k *keys) IsMouseButtonPressed(render.MouseButton) bool {
	return false
}

type screen struct {
	w, h      int
	triangles int
	pixels    int
}

func (s *screen) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }
func (s *screen) Size() (int, int) { return s.w, s.h }
func (s *screen) Fill(color.Color) {}
func (s *screen) Clear() {}
func (s *screen) WritePixels(pix []byte) { s.pixels += len(pix) }
func (s *screen) DrawImage(render.Image, *render.DrawImageOptions) {}
func (s *screen) DrawTriangles(_ []render.Vertex, is []uint16, _ render.Image, _ *render.DrawTrianglesOptions) {
	s.triangles += len(is) / 3
}
func (s *screen) Dispose() {}

type renderer struct {
	lines, circles int
	text           []string
}

func (r *renderer) NewImage(w, h int) render.Image { return &screen{w: w, h: h} }
func (r *renderer) FillCircle(render.Image, float32, float32, float32, color.Color) {
	r.circles++
}
func (r *renderer) StrokeLine(render.Image, float32, float32, float32, float32, float32, color.Color) {
	r.lines++
}
func (r *renderer) DrawText(_ render.Image, s string, _, _ int) { r.text = append(r.text, s) }

type touches []touch.Touch

func (t *touches) Touches() []touch.Touch {
	out := *t
	*t = nil
	return out
}

func TestLoadWorldCreatesLights(t *testing.T) {
	w := loadWorld(t)

	assert.Equal(t, 2, w.Lights.Len())
	assert.Equal(t, geom.Point{X: 2, Y: 5}, w.Origin("lamp"))
	lamp, ok := w.Lights.Get("lamp")
	require.True(t, ok)
	assert.Equal(t, 9, lamp.Config().NumberOfRays)
	assert.Equal(t, 90.0, lamp.Config().AngleOfView, "per-light config overlays the base")

	beacon, _ := w.Lights.Get("beacon")
	assert.Equal(t, 180.0, beacon.Config().Direction)

	assert.Nil(t, w.Update())
	assert.Equal(t, geom.Point{X: 2, Y: 5}, lamp.Origin())
}

func TestNewWorldWithoutLightsUsesSpawn(t *testing.T) {
	data := &scene.Data{Name: "bare", Width: 10, Height: 10, Spawn: scene.SpawnPoint{X: 3, Y: 4}}
	w, err := NewWorld(scene.Build(data, nil), data, nil, nil)
	require.NoError(t, err)

	require.Equal(t, 1, w.Lights.Len())
	assert.Equal(t, geom.Point{X: 3, Y: 4}, w.Origin(DefaultLightID))
}

func TestNewWorldRejectsBadLightConfig(t *testing.T) {
	data := &scene.Data{Name: "bad", Width: 10, Height: 10, Lights: []scene.LightData{
		{ID: "broken", Config: []byte(`{"number_of_rays": 1}`)},
	}}
	_, err := NewWorld(scene.Build(data, nil), data, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, light.ErrConfig))
	assert.Contains(t, err.Error(), "broken")
}

func TestSweepPingPongs(t *testing.T) {
	s := NewSweep(-30, 30, 1)

	assert.InDelta(t, 0, s.Update(0.5), 1e-4, "eased midpoint")
	assert.InDelta(t, 30, s.Update(0.5), 1e-4)
	assert.InDelta(t, 0, s.Update(0.5), 1e-4, "on the way back")
	assert.InDelta(t, -21.2132, s.Update(0.75), 1e-3, "overflow carries into the next leg")

	around := SweepAround(90, 60, 2)
	assert.Equal(t, 60.0, around.From)
	assert.Equal(t, 120.0, around.To)

	still := NewSweep(10, 20, 0)
	assert.Equal(t, 10.0, still.Update(1))
}

func TestFitView(t *testing.T) {
	v := FitView(20, 10, 400, 400)
	assert.Equal(t, 20.0, v.Scale)
	assert.Equal(t, geom.Point{X: 0, Y: 100}, v.Offset)
	assert.Equal(t, geom.Point{X: 200, Y: 200}, v.ToScreen(geom.Point{X: 10, Y: 5}))

	assert.Equal(t, 1.0, FitView(0, 0, 10, 10).Scale)
}

func TestGameKeysSteerTheLight(t *testing.T) {
	w := loadWorld(t)
	g := NewGame(w, &renderer{}, 200, 100, nil)
	k := newKeys()
	g.Input = k
	require.Equal(t, "beacon", g.Steered, "first light by id")
	g.Steered = "lamp"

	k.held[render.KeyD] = true
	k.held[render.KeyE] = true
	require.NoError(t, g.Update())
	lamp, _ := w.Lights.Get("lamp")
	assert.InDelta(t, 2+DefaultSpeed, w.Origin("lamp").X, 1e-12)
	assert.InDelta(t, DefaultRotateSpeed, lamp.Config().Direction, 1e-12)
	assert.Equal(t, w.Origin("lamp"), lamp.Origin(), "lights update after input")

	k.held = map[render.Key]bool{}
	k.just[render.KeyT] = true
	require.NoError(t, g.Update())
	assert.True(t, g.Sweeping())
	require.NotNil(t, g.Sweep)
	assert.InDelta(t, DefaultRotateSpeed-DefaultSweepArc/2, g.Sweep.From, 1e-9)

	k.just = map[render.Key]bool{render.KeyEscape: true}
	assert.Equal(t, ErrQuit, g.Update())
}

func TestGameDebugToggle(t *testing.T) {
	w := loadWorld(t)
	r := &renderer{}
	g := NewGame(w, r, 200, 100, nil)
	k := newKeys()
	g.Input = k

	k.just[render.KeyG] = true
	require.NoError(t, g.Update())
	lamp, _ := w.Lights.Get("lamp")
	assert.True(t, lamp.Config().Debug)
	rays, _ := lamp.DebugLines()
	assert.Len(t, rays, 9)
}

func TestGameDraw(t *testing.T) {
	w := loadWorld(t)
	r := &renderer{}
	g := NewGame(w, r, 200, 100, nil)
	require.NoError(t, g.Update())

	s := &screen{w: 200, h: 100}
	g.Draw(s)
	assert.Equal(t, 8+4, s.triangles, "lamp has 8 triangles, beacon 4")
	assert.Equal(t, 2, r.circles, "one origin marker per light")
	assert.Greater(t, r.lines, 0, "obstacle edges are stroked")
	require.Len(t, r.text, 1)
	assert.Contains(t, r.text[0], "beacon")
}

type clickable struct {
	clicks int
}

func (c *clickable) OnTouchClicked(touch.Event) { c.clicks++ }

func TestGameDispatchesTouchesToObstacles(t *testing.T) {
	w := loadWorld(t)
	crate, ok := w.Scene.Obstacle("crate")
	require.True(t, ok)
	target := &clickable{}
	crate.Listener = target

	g := NewGame(w, &renderer{}, 200, 100, nil)
	src := &touches{}
	g.Touches = src
	log, _ := test.NewNullLogger()
	g.AttachTouchManager(touch.NewManager(log, &SceneLayer{Scene: w.Scene, View: &g.View}))

	at := g.View.ToScreen(geom.Point{X: 8, Y: 5})
	*src = touches{{FingerID: 0, Position: at, Phase: touch.Began}}
	require.NoError(t, g.Update())
	*src = touches{{FingerID: 0, Position: at, Phase: touch.Ended}}
	require.NoError(t, g.Update())

	assert.Equal(t, 1, target.clicks)
}

func TestAttachTouchManagerTwiceIsAnError(t *testing.T) {
	log, hook := test.NewNullLogger()
	g := NewGame(loadWorld(t), nil, 10, 10, log)

	first := touch.NewManager(log)
	g.AttachTouchManager(first)
	assert.Empty(t, hook.AllEntries())

	second := touch.NewManager(log)
	g.AttachTouchManager(second)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Same(t, second, g.TouchManager())
}

type tagged struct {
	tags []string
}

func TestSceneLayerPicksListenerOrObstacle(t *testing.T) {
	w := loadWorld(t)
	l := &SceneLayer{Scene: w.Scene, Z: 3}
	assert.Equal(t, 3.0, l.Depth())
	assert.True(t, l.Enabled())

	crate, _ := w.Scene.Obstacle("crate")
	got, ok := l.Pick(geom.Point{X: 8, Y: 5})
	require.True(t, ok)
	assert.Same(t, w.Props["crate"], got, "the attached prop is the target")

	crate.Listener = nil
	got, _ = l.Pick(geom.Point{X: 8, Y: 5})
	assert.Same(t, crate, got)

	target := &clickable{}
	crate.Listener = target
	got, _ = l.Pick(geom.Point{X: 8, Y: 5})
	assert.Same(t, target, got)

	_, ok = l.Pick(geom.Point{X: 1, Y: 1})
	assert.False(t, ok)
}

func TestSceneLayerFallsBackOnIncomparableListener(t *testing.T) {
	w := loadWorld(t)
	crate, _ := w.Scene.Obstacle("crate")
	crate.Listener = tagged{tags: []string{"heavy"}}
	l := &SceneLayer{Scene: w.Scene}

	got, ok := l.Pick(geom.Point{X: 8, Y: 5})
	require.True(t, ok)
	assert.Same(t, crate, got)

	m := touch.NewManager(nil, l)
	at := geom.Point{X: 8, Y: 5}
	assert.NotPanics(t, func() {
		m.Update([]touch.Touch{{FingerID: 1, Position: at, Phase: touch.Began}})
		m.Update([]touch.Touch{{FingerID: 1, Position: geom.Point{X: 1, Y: 1}, Phase: touch.Moved}})
		m.Update([]touch.Touch{{FingerID: 1, Position: at, Phase: touch.Ended}})
	})
}

func TestPropsFollowLightAndTouch(t *testing.T) {
	w := loadWorld(t)
	prop, ok := w.Props["crate"]
	require.True(t, ok)

	g := NewGame(w, &renderer{}, 200, 100, nil)
	src := &touches{}
	g.Touches = src
	g.AttachTouchManager(touch.NewManager(nil, &SceneLayer{Scene: w.Scene, View: &g.View}))

	require.NoError(t, g.Update())
	assert.True(t, prop.LitBy("lamp"), "the lamp faces the crate")
	assert.Equal(t, litColor, propColor(prop))

	at := g.View.ToScreen(geom.Point{X: 8, Y: 5})
	*src = touches{{FingerID: 0, Position: at, Phase: touch.Began}}
	require.NoError(t, g.Update())
	assert.True(t, prop.Held())
	assert.Equal(t, heldColor, propColor(prop))

	*src = touches{{FingerID: 0, Position: at, Phase: touch.Ended}}
	require.NoError(t, g.Update())
	assert.False(t, prop.Held())
	assert.True(t, prop.Selected())
	assert.Equal(t, 1, prop.Clicks())
	assert.Equal(t, selectedColor, propColor(prop))

	lamp, _ := w.Lights.Get("lamp")
	lamp.SetDirection(180)
	require.NoError(t, g.Update())
	assert.False(t, prop.LitBy("lamp"), "turning away ends the light")

	*src = touches{{FingerID: 0, Position: at, Phase: touch.Began}}
	require.NoError(t, g.Update())
	*src = touches{{FingerID: 0, Position: at, Phase: touch.Ended}}
	require.NoError(t, g.Update())
	assert.False(t, prop.Selected(), "a second click deselects")

	assert.Equal(t, obstacleColor, propColor(nil))
}

func TestDump(t *testing.T) {
	w := loadWorld(t)
	snap, err := Dump(w, "lamp", geom.Point{X: 2, Y: 5})
	require.NoError(t, err)

	assert.Equal(t, "corridor", snap.Scene)
	assert.Equal(t, light.StrategyCircular, snap.Strategy)
	require.Len(t, snap.Instances, 1)
	inst := snap.Instances[0]
	assert.Len(t, inst.Hits, 9)
	assert.Equal(t, 24, inst.Vertices)
	assert.Equal(t, 8, inst.Triangles)
	assert.Contains(t, snap.Lit, "crate", "the crate faces the lamp")

	_, err = Dump(w, "ghost", geom.Point{})
	assert.Error(t, err)
}

func TestDemoSceneLoads(t *testing.T) {
	log, hook := test.NewNullLogger()
	w, err := LoadWorld(filepath.Join("..", "..", "data", "scenes", "demo.json"), nil, log)
	require.NoError(t, err)
	assert.Equal(t, 3, w.Lights.Len())
	assert.Contains(t, w.Props, "pillar")
	assert.Contains(t, w.Props, "crate")

	assert.Nil(t, w.Update())
	for _, l := range w.Lights.All() {
		for _, inst := range l.Instances() {
			assert.NoError(t, inst.Err, l.ID)
			assert.False(t, inst.Mesh.Empty(), l.ID)
		}
	}
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level, e.Message)
	}
}
