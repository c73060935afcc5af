package light

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 90.0, cfg.AngleOfView)
	assert.Equal(t, 10.0, cfg.Radius)
	assert.Equal(t, 128, cfg.NumberOfRays)
	assert.Equal(t, 1, cfg.NumberOfDuplicates)
	assert.Equal(t, Color{R: 1, G: 0.94, B: 0.59, A: 1}, cfg.Tint)
	assert.Equal(t, float32(0.5), cfg.Alpha)
	assert.True(t, cfg.EnableFallOff)
	assert.Equal(t, StrategyCircular, cfg.Strategy)
	assert.Equal(t, 1.01, cfg.SilhouetteScale)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.light.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "lamp*.light.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	content := `{"number_of_rays": 16, "enable_tint": true, "color": {"r": 1, "g": 0, "b": 0, "a": 1}}`
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	tmpFile.Close()

	cfg, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.NumberOfRays)
	assert.True(t, cfg.EnableTint)
	assert.Equal(t, Color{R: 1, A: 1}, cfg.Color)
	assert.Equal(t, 90.0, cfg.AngleOfView, "unset fields keep defaults")
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"radius":`), 0o644))
	if _, err := LoadConfig(bad); err == nil {
		t.Error("Expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"number_of_rays": 1}`), 0o644))
	_, err := LoadConfig(invalid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig), "Expected config defect, got %v", err)
}

func TestParseConfigEmptyIsDefault(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidateRules(t *testing.T) {
	cases := map[string]func(c *Config){
		"one ray":          func(c *Config) { c.NumberOfRays = 1 },
		"no duplicates":    func(c *Config) { c.NumberOfDuplicates = 0 },
		"zero view":        func(c *Config) { c.AngleOfView = 0 },
		"wide view":        func(c *Config) { c.AngleOfView = 721 },
		"zero radius":      func(c *Config) { c.Radius = 0 },
		"texture width":    func(c *Config) { c.TextureWidth = 0 },
		"texture height":   func(c *Config) { c.TextureHeight = -1 },
		"unknown strategy": func(c *Config) { c.Strategy = "spiral" },
		"vertex no target": func(c *Config) { c.Strategy = StrategyVertex },
		"silhouette scale": func(c *Config) { c.SilhouetteScale = 0 },
		"soft edges":       func(c *Config) { c.SoftEdges = -2 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: Expected error", name)
			continue
		}
		assert.True(t, errors.Is(err, ErrConfig), "%s: Expected config defect, got %v", name, err)
	}

	ok := DefaultConfig()
	ok.Radius = -10
	ok.AngleOfView = 720
	ok.Strategy = StrategyVertex
	ok.Targets = []string{"box"}
	assert.NoError(t, ok.Validate(), "negative radius and a double turn are allowed")
}

func TestCloneIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Targets = []string{"a"}
	c := cfg.Clone()
	c.Targets[0] = "b"
	c.Radius = 99
	assert.Equal(t, "a", cfg.Targets[0])
	assert.Equal(t, 10.0, cfg.Radius)
}

func TestOverlayKeepsBaseValues(t *testing.T) {
	base := DefaultConfig()
	base.Radius = 40
	base.Targets = []string{"a"}

	cfg, err := base.Overlay([]byte(`{"direction": 180, "targets": ["b", "c"]}`))
	require.NoError(t, err)
	assert.Equal(t, 180.0, cfg.Direction)
	assert.Equal(t, 40.0, cfg.Radius, "unset fields come from the base")
	assert.Equal(t, []string{"b", "c"}, cfg.Targets)
	assert.Equal(t, []string{"a"}, base.Targets, "base is untouched")

	_, err = base.Overlay([]byte(`{"radius": 0}`))
	assert.True(t, errors.Is(err, ErrConfig))
}
