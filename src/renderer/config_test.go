package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"opticloud/src/geometry"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, geometry.DefaultPointCount, cfg.PointCount)
	require.EqualValues(t, geometry.DefaultPointsPerStep, cfg.PointsPerStep)
	require.EqualValues(t, DefaultPointSize, cfg.PointSize)
	require.Zero(t, cfg.FenceTimeout)
}

func TestConfigValidate(t *testing.T) {
	for idx, tc := range []struct {
		name   string
		mutate func(c *Config)
		is     error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, nil},
		{"no shaders", func(c *Config) { c.ShaderDir = "" }, nil},
		{"negative points", func(c *Config) { c.PointCount = -1 }, nil},
		{"zero step", func(c *Config) { c.PointsPerStep = 0 }, geometry.ErrZeroStep},
		{"zero point size", func(c *Config) { c.PointSize = 0 }, nil},
		{"negative timeout", func(c *Config) { c.FenceTimeout = -time.Second }, nil},
		{"flat galaxy", func(c *Config) {
			c.Galaxy.Points = 10
			c.Galaxy.Diameter = 0
		}, nil},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tc.is != nil {
				require.True(t, errors.Is(err, tc.is))
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "opticloud.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
width: 1920
height: 1080
point_count: 1000
points_per_step: 100
fence_timeout: 2s
lighting:
  color: [1, 0, 0]
  three_point: true
galaxy:
  points: 500
`), 0o644))

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.EqualValues(t, 1920, cfg.Width)
	require.EqualValues(t, 1080, cfg.Height)
	require.Equal(t, 1000, cfg.PointCount)
	require.EqualValues(t, 100, cfg.PointsPerStep)
	require.Equal(t, 2*time.Second, cfg.FenceTimeout)
	require.Equal(t, [3]float32{1, 0, 0}, cfg.Lighting.Color)
	require.True(t, cfg.Lighting.ThreePoint)
	require.EqualValues(t, 1, cfg.Lighting.Intensity, "unset keys keep their default")
	require.Equal(t, 500, cfg.Galaxy.Points)
	require.EqualValues(t, 100, cfg.Galaxy.Diameter)
	require.Equal(t, "shaders", cfg.ShaderDir)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	for idx, tc := range []struct {
		name, body string
	}{
		{"malformed", "width: [1"},
		{"invalid", "points_per_step: 0"},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.name), func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))
			_, err := LoadConfig(path)
			require.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
