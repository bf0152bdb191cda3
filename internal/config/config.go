// Package config loads engine configuration from YAML. A config file
// overlays the compiled-in defaults, so a partial file is always valid.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/VeerOneGPT/galileo-motion/internal/core/animation"
	"github.com/VeerOneGPT/galileo-motion/internal/core/gesture"
	"github.com/VeerOneGPT/galileo-motion/internal/core/physics"
)

// EngineConfig aggregates the tunables of every subsystem plus the named
// motion presets.
type EngineConfig struct {
	World    physics.WorldConfig     `yaml:"world"`
	Bridge   animation.BridgeConfig  `yaml:"bridge"`
	Gesture  gesture.Config          `yaml:"gesture"`
	Keyboard gesture.KeyboardConfig  `yaml:"keyboard"`
	Presets  map[string]animation.Preset `yaml:"presets"`
}

// Default returns the stock configuration with the built-in preset library.
func Default() EngineConfig {
	return EngineConfig{
		World:    physics.DefaultWorldConfig(),
		Gesture:  gesture.DefaultConfig(),
		Keyboard: gesture.DefaultKeyboardConfig(),
		Presets:  animation.BuiltinPresets(),
	}
}

// Parse decodes YAML over the defaults. File presets are merged into the
// built-in library by name; a file preset shadows a built-in of the same
// name.
func Parse(data []byte) (EngineConfig, error) {
	cfg := Default()
	builtins := cfg.Presets
	cfg.Presets = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("decode engine config: %w", err)
	}
	merged := builtins
	for name, p := range cfg.Presets {
		merged[name] = p
	}
	cfg.Presets = merged
	return cfg, nil
}

// Load reads and parses a config file.
func Load(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read engine config: %w", err)
	}
	return Parse(data)
}

// Preset resolves a named preset.
func (c EngineConfig) Preset(name string) (animation.Preset, bool) {
	p, ok := c.Presets[name]
	return p, ok
}

// BridgeFor returns the bridge config with the named preset applied.
// Unknown names return the base bridge config unchanged.
func (c EngineConfig) BridgeFor(preset string) animation.BridgeConfig {
	if p, ok := c.Presets[preset]; ok {
		return p.Apply(c.Bridge)
	}
	return c.Bridge
}
