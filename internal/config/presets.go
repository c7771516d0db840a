package config

import "github.com/san-kum/harmonograph/internal/dynamo"

// defaultPresets walks the figure around the screen: a small centered view,
// three half-size views along the middle row, then full-size views circling
// the centre.
var defaultPresets = []PresetConfig{
	{Name: "small", Scale: 0.25, XOffset: 0.50, YOffset: 0.50},
	{Name: "half-left", Scale: 0.50, XOffset: 0.00, YOffset: 0.50},
	{Name: "half-center", Scale: 0.50, XOffset: 0.50, YOffset: 0.50},
	{Name: "half-right", Scale: 0.50, XOffset: 1.00, YOffset: 0.50},
	{Name: "right", Scale: 1.00, XOffset: 2.00, YOffset: 0.50},
	{Name: "lower-right", Scale: 1.00, XOffset: 1.25, YOffset: 1.00},
	{Name: "bottom", Scale: 1.00, XOffset: 0.50, YOffset: 1.50},
	{Name: "lower-left", Scale: 1.00, XOffset: -0.25, YOffset: 1.00},
	{Name: "left", Scale: 1.00, XOffset: -1.00, YOffset: 0.50},
	{Name: "upper-left", Scale: 1.00, XOffset: -0.25, YOffset: 0.00},
	{Name: "top", Scale: 1.00, XOffset: 0.50, YOffset: -0.50},
	{Name: "upper-right", Scale: 1.00, XOffset: 1.25, YOffset: 0.00},
	{Name: "full", Scale: 1.00, XOffset: 0.50, YOffset: 0.50},
}

// DefaultPresets returns a copy of the built-in preset list.
func DefaultPresets() []PresetConfig {
	out := make([]PresetConfig, len(defaultPresets))
	copy(out, defaultPresets)
	return out
}

func (p PresetConfig) Composition() dynamo.Composition {
	return dynamo.Composition{Scale: p.Scale, XOffset: p.XOffset, YOffset: p.YOffset}
}

// Compositions returns the configured presets in order.
func (c *Config) Compositions() []dynamo.Composition {
	out := make([]dynamo.Composition, len(c.Presets))
	for i, p := range c.Presets {
		out[i] = p.Composition()
	}
	return out
}

func (c *Config) GetPreset(name string) (PresetConfig, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return PresetConfig{}, false
}

func (c *Config) ListPresets() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}
