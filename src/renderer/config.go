package renderer

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"opticloud/src/geometry"
)

// LightingConfig feeds the lighting uniform block.
type LightingConfig struct {
	Color      [3]float32 `yaml:"color"`
	Intensity  float32    `yaml:"intensity"`
	ThreePoint bool       `yaml:"three_point"`
}

type GalaxyConfig struct {
	Points    int     `yaml:"points"` // 0 disables the galaxy
	Diameter  float32 `yaml:"diameter"`
	Thickness float32 `yaml:"thickness"`
}

type Config struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	Title  string `yaml:"title"`

	ShaderDir string `yaml:"shader_dir"`

	PointCount    int    `yaml:"point_count"`
	PointsPerStep uint32 `yaml:"points_per_step"`
	PointSize     uint32 `yaml:"point_size"`
	Seed          int64  `yaml:"seed"`

	Validation bool `yaml:"validation"`
	// FenceTimeout bounds fence waits, zero waits forever. An expired wait is fatal.
	FenceTimeout time.Duration `yaml:"fence_timeout"`

	Lighting LightingConfig `yaml:"lighting"`
	Galaxy   GalaxyConfig   `yaml:"galaxy"`
	ShowCube bool           `yaml:"show_cube"`
}

func DefaultConfig() Config {
	return Config{
		Width:         1280,
		Height:        720,
		Title:         "opticloud",
		ShaderDir:     "shaders",
		PointCount:    geometry.DefaultPointCount,
		PointsPerStep: geometry.DefaultPointsPerStep,
		PointSize:     DefaultPointSize,
		Seed:          1,
		Lighting: LightingConfig{
			Color:     [3]float32{1, 1, 1},
			Intensity: 1,
		},
		Galaxy: GalaxyConfig{
			Diameter:  100,
			Thickness: 5,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Width == 0 || c.Height == 0:
		return errors.Newf("window size %dx%d", c.Width, c.Height)
	case c.ShaderDir == "":
		return errors.New("shader_dir is empty")
	case c.PointCount < 0:
		return errors.Newf("point_count %d", c.PointCount)
	case c.PointsPerStep == 0:
		return errors.WithStack(geometry.ErrZeroStep)
	case c.PointSize == 0:
		return errors.New("point_size must be positive")
	case c.FenceTimeout < 0:
		return errors.Newf("fence_timeout %v", c.FenceTimeout)
	case c.Galaxy.Points < 0:
		return errors.Newf("galaxy points %d", c.Galaxy.Points)
	case c.Galaxy.Points > 0 && c.Galaxy.Diameter <= 0:
		return errors.Newf("galaxy diameter %v", c.Galaxy.Diameter)
	}
	return nil
}
