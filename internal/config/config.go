package config

import (
	"fmt"
	"os"

	"github.com/san-kum/harmonograph/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth       = 240
	DefaultHeight      = 280
	DefaultCurveCount  = 256
	DefaultCurveStep   = 4
	DefaultIterations  = 512
	DefaultSpeed       = 0.0001
	DefaultAng1Divisor = 235.0
	DefaultFPS         = 30
	DefaultLightRate   = 10.0
	DefaultSpringFreq  = 6.0
	DefaultSpringDamp  = 1.0

	BlendExponential = "exponential"
	BlendSpring      = "spring"
)

type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Curve     CurveConfig     `yaml:"curve"`
	TableSize int             `yaml:"table_size"`
	Blend     BlendConfig     `yaml:"blend"`
	Indicator IndicatorConfig `yaml:"indicator"`
	FPS       int             `yaml:"fps"`
	Presets   []PresetConfig  `yaml:"presets"`
}

type DisplayConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background uint16 `yaml:"background"`
}

type CurveConfig struct {
	Count      int     `yaml:"count"`
	Step       int     `yaml:"step"`
	Iterations int     `yaml:"iterations"`
	Speed      float64 `yaml:"speed"`
	// Ang1Divisor spaces the first phase of neighbouring strands by
	// step*2π/Ang1Divisor; the second phase advances by step radians.
	Ang1Divisor float64 `yaml:"ang1_divisor"`
}

type BlendConfig struct {
	Mode      string  `yaml:"mode"`
	Factor    float64 `yaml:"factor"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

type IndicatorConfig struct {
	// Rate is table units per millisecond.
	Rate float64 `yaml:"rate"`
}

type PresetConfig struct {
	Name    string  `yaml:"name"`
	Scale   float64 `yaml:"scale"`
	XOffset float64 `yaml:"x_offset"`
	YOffset float64 `yaml:"y_offset"`
}

func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Curve: CurveConfig{
			Count:       DefaultCurveCount,
			Step:        DefaultCurveStep,
			Iterations:  DefaultIterations,
			Speed:       DefaultSpeed,
			Ang1Divisor: DefaultAng1Divisor,
		},
		TableSize: dynamo.DefaultTableSize,
		Blend: BlendConfig{
			Mode:      BlendExponential,
			Factor:    dynamo.DefaultBlendFactor,
			Frequency: DefaultSpringFreq,
			Damping:   DefaultSpringDamp,
		},
		Indicator: IndicatorConfig{Rate: DefaultLightRate},
		FPS:       DefaultFPS,
		Presets:   DefaultPresets(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings the renderer cannot run without.
func (c *Config) Validate() error {
	if c.TableSize < 4 || c.TableSize&(c.TableSize-1) != 0 {
		return fmt.Errorf("table_size %d: %w", c.TableSize, dynamo.ErrTableSize)
	}
	checks := []struct {
		name string
		val  float64
		ok   bool
	}{
		{"display.width", float64(c.Display.Width), c.Display.Width > 0},
		{"display.height", float64(c.Display.Height), c.Display.Height > 0},
		{"curve.count", float64(c.Curve.Count), c.Curve.Count > 0},
		{"curve.step", float64(c.Curve.Step), c.Curve.Step > 0},
		{"curve.iterations", float64(c.Curve.Iterations), c.Curve.Iterations > 0},
		{"curve.ang1_divisor", c.Curve.Ang1Divisor, c.Curve.Ang1Divisor != 0},
		{"blend.factor", c.Blend.Factor, c.Blend.Factor > 0 && c.Blend.Factor <= 1},
		{"fps", float64(c.FPS), c.FPS > 0},
	}
	for _, chk := range checks {
		if !chk.ok {
			return &dynamo.ParamError{Name: chk.name, Value: chk.val, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	switch c.Blend.Mode {
	case BlendExponential, BlendSpring:
	default:
		return fmt.Errorf("unknown blend mode: %s", c.Blend.Mode)
	}
	if len(c.Presets) == 0 {
		return dynamo.ErrNoPresets
	}
	for i, p := range c.Presets {
		if p.Scale <= 0 {
			return &dynamo.ParamError{Name: fmt.Sprintf("presets[%d].scale", i), Value: p.Scale, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	return nil
}

// Smoother builds the composition smoother selected by Blend.Mode.
func (c *Config) Smoother(start dynamo.Composition) dynamo.Smoother {
	if c.Blend.Mode == BlendSpring {
		return dynamo.NewSpringBlender(c.FPS, c.Blend.Frequency, c.Blend.Damping, start)
	}
	return dynamo.NewBlender(c.Blend.Factor, start)
}
