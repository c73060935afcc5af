package light

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Scan strategies
const (
	StrategyCircular = "circular"
	StrategyVertex   = "vertex"
)

// Config holds all runtime-tunable properties of a light. Angles are in
// degrees.
type Config struct {
	// Geometry
	Direction          float64 `json:"direction"`
	AngleOfView        float64 `json:"angle_of_view"`
	Radius             float64 `json:"radius"`
	NumberOfRays       int     `json:"number_of_rays"`
	NumberOfDuplicates int     `json:"number_of_duplicates"`
	DuplicateDiff      float64 `json:"duplicate_diff"`   // radius of the duplicate circle
	DuplicateZDiff     float64 `json:"duplicate_z_diff"` // depth step between duplicates

	// Scan strategy
	Strategy        string   `json:"strategy"`
	Targets         []string `json:"targets"`          // obstacle ids for the vertex strategy
	SilhouetteScale float64  `json:"silhouette_scale"` // vertex strategy casts past corners by this factor

	// Texture
	Color         Color   `json:"color"`
	Tint          Color   `json:"tint"`
	Alpha         float32 `json:"alpha"`
	EnableTint    bool    `json:"enable_tint"`
	EnableFallOff bool    `json:"enable_fall_off"`
	EnablePerlin  bool    `json:"enable_perlin"`
	PerlinScale   float64 `json:"perlin_scale"`
	PerlinStart   float64 `json:"perlin_start"`
	PerlinSeed    int64   `json:"perlin_seed"`
	SoftEdges     int     `json:"soft_edges"` // pixels faded at each side of a row
	TextureWidth  int     `json:"texture_width"`
	TextureHeight int     `json:"texture_height"`

	Debug bool `json:"debug"`
}

// DefaultConfig returns the stock light: a 90 degree white cone
func DefaultConfig() *Config {
	return &Config{
		Direction:          0,
		AngleOfView:        90,
		Radius:             10,
		NumberOfRays:       128,
		NumberOfDuplicates: 1,
		DuplicateDiff:      0.5,
		DuplicateZDiff:     0.1,
		Strategy:           StrategyCircular,
		SilhouetteScale:    1.01,
		Color:              Color{R: 1, G: 1, B: 1, A: 1},
		Tint:               Color{R: 1, G: 0.94, B: 0.59, A: 1},
		Alpha:              0.5,
		EnableTint:         false,
		EnableFallOff:      true,
		EnablePerlin:       false,
		PerlinScale:        5,
		PerlinStart:        5,
		TextureWidth:       128,
		TextureHeight:      128,
	}
}

// LoadConfig loads a light config from a JSON file. Fields missing from the
// file keep their defaults, and a missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to read light config %s", path)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid light config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes raw JSON over the defaults and validates the result.
// Empty input yields DefaultConfig.
func ParseConfig(raw []byte) (*Config, error) {
	return DefaultConfig().Overlay(raw)
}

// Overlay decodes raw over a copy of c and validates the result. Fields
// missing from raw keep c's values.
func (c *Config) Overlay(raw []byte) (*Config, error) {
	cfg := c.Clone()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse light config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first configuration defect. The returned error wraps
// ErrConfig.
func (c *Config) Validate() error {
	switch {
	case c.NumberOfRays < 2:
		return errors.Wrapf(ErrConfig, "number_of_rays must be at least 2, got %d", c.NumberOfRays)
	case c.NumberOfDuplicates < 1:
		return errors.Wrapf(ErrConfig, "number_of_duplicates must be at least 1, got %d", c.NumberOfDuplicates)
	case c.AngleOfView <= 0 || c.AngleOfView > 720:
		return errors.Wrapf(ErrConfig, "angle_of_view must be in (0, 720], got %g", c.AngleOfView)
	case c.Radius == 0:
		return errors.Wrap(ErrConfig, "radius must not be zero")
	case c.TextureWidth < 1 || c.TextureHeight < 1:
		return errors.Wrapf(ErrConfig, "texture size must be positive, got %dx%d", c.TextureWidth, c.TextureHeight)
	case c.SilhouetteScale <= 0:
		return errors.Wrapf(ErrConfig, "silhouette_scale must be positive, got %g", c.SilhouetteScale)
	case c.SoftEdges < 0:
		return errors.Wrapf(ErrConfig, "soft_edges must not be negative, got %d", c.SoftEdges)
	}

	switch c.Strategy {
	case StrategyCircular:
	case StrategyVertex:
		if len(c.Targets) == 0 {
			return errors.Wrap(ErrConfig, "vertex strategy needs at least one target")
		}
	default:
		return errors.Wrapf(ErrConfig, "unknown strategy %q", c.Strategy)
	}
	return nil
}

// FieldOfView converts the configured arc to radians
func (c *Config) FieldOfView() FieldOfView {
	return FOVDegrees(c.Direction, c.AngleOfView)
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := *c
	out.Targets = append([]string(nil), c.Targets...)
	return &out
}
