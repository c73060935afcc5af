package scene

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/light2d/internal/core/geom"
)

// SpawnPoint is where the player light starts
type SpawnPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ObstacleData is a polygon obstacle as stored on disk
type ObstacleData struct {
	ID       string       `json:"id"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Vertices [][2]float64 `json:"vertices"` // local space
}

// LightData places a light. Config is decoded by the light package.
type LightData struct {
	ID     string          `json:"id"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Data represents a scene file
type Data struct {
	Name      string         `json:"name"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	TileSize  float64        `json:"tile_size"`
	Tiles     []string       `json:"tiles"` // rows, '#' blocks light
	Obstacles []ObstacleData `json:"obstacles"`
	Lights    []LightData    `json:"lights"`
	Spawn     SpawnPoint     `json:"spawn"`
}

// LoadScene reads a scene file and builds its obstacles. Tile regions are
// added first, then polygon obstacles in file order.
func LoadScene(path string, log logrus.FieldLogger) (*Scene, *Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read scene file %s", path)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse scene file %s", path)
	}

	if err := validateSceneData(&data); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid scene data in %s", path)
	}

	return Build(&data, log), &data, nil
}

// Build creates a scene from already validated data
func Build(data *Data, log logrus.FieldLogger) *Scene {
	s := New(data.Name, log)
	for _, o := range TileObstacles(data.Tiles, data.TileSize) {
		s.Add(o)
	}
	for _, od := range data.Obstacles {
		verts := make([]geom.Point, len(od.Vertices))
		for i, v := range od.Vertices {
			verts[i] = geom.Point{X: v[0], Y: v[1]}
		}
		s.Add(NewPolygon(od.ID, geom.Point{X: od.X, Y: od.Y}, verts))
	}
	return s
}

// validateSceneData checks if the scene data is valid
func validateSceneData(data *Data) error {
	if data.Width <= 0 || data.Height <= 0 {
		return errors.Errorf("invalid scene dimensions: %gx%g", data.Width, data.Height)
	}

	if len(data.Tiles) > 0 {
		if data.TileSize <= 0 {
			return errors.Errorf("invalid tile size: %g", data.TileSize)
		}
		for y, row := range data.Tiles {
			if len(row) != len(data.Tiles[0]) {
				return errors.Errorf("tiles width mismatch at row %d: expected %d, got %d", y, len(data.Tiles[0]), len(row))
			}
		}
	}

	ids := make(map[string]bool)
	for i, o := range data.Obstacles {
		if o.ID == "" {
			return errors.Errorf("obstacle %d has no id", i)
		}
		if ids[o.ID] {
			return errors.Errorf("duplicate obstacle id: %s", o.ID)
		}
		ids[o.ID] = true
		if len(o.Vertices) < 2 {
			return errors.Errorf("obstacle %s needs at least 2 vertices, got %d", o.ID, len(o.Vertices))
		}
	}

	lights := make(map[string]bool)
	for i, l := range data.Lights {
		if l.ID == "" {
			return errors.Errorf("light %d has no id", i)
		}
		if lights[l.ID] {
			return errors.Errorf("duplicate light id: %s", l.ID)
		}
		lights[l.ID] = true
	}

	return nil
}
