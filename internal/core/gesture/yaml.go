package gesture

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// configYAML is the file representation of Config, with durations written as
// human-readable strings ("300ms", "1.5s").
type configYAML struct {
	TapMovementTolerance   float64 `yaml:"tapMovementTolerance"`
	TapMaxDuration         string  `yaml:"tapMaxDuration"`
	DoubleTapWindow        string  `yaml:"doubleTapWindow"`
	DoubleTapDistance      float64 `yaml:"doubleTapDistance"`
	LongPressDuration      string  `yaml:"longPressDuration"`
	LongPressTolerance     float64 `yaml:"longPressTolerance"`
	SwipeVelocityThreshold float64 `yaml:"swipeVelocityThreshold"`
	SwipeDistanceThreshold float64 `yaml:"swipeDistanceThreshold"`
	SwipeReplacesPanEnd    bool    `yaml:"swipeReplacesPanEnd"`
	VelocityWindow         string  `yaml:"velocityWindow"`
}

func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw configYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out := Config{
		TapMovementTolerance:   raw.TapMovementTolerance,
		DoubleTapDistance:      raw.DoubleTapDistance,
		LongPressTolerance:     raw.LongPressTolerance,
		SwipeVelocityThreshold: raw.SwipeVelocityThreshold,
		SwipeDistanceThreshold: raw.SwipeDistanceThreshold,
		SwipeReplacesPanEnd:    raw.SwipeReplacesPanEnd,
	}
	for _, field := range []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"tapMaxDuration", raw.TapMaxDuration, &out.TapMaxDuration},
		{"doubleTapWindow", raw.DoubleTapWindow, &out.DoubleTapWindow},
		{"longPressDuration", raw.LongPressDuration, &out.LongPressDuration},
		{"velocityWindow", raw.VelocityWindow, &out.VelocityWindow},
	} {
		if field.src == "" {
			continue
		}
		d, err := time.ParseDuration(field.src)
		if err != nil {
			return fmt.Errorf("gesture config %s: %w", field.name, err)
		}
		*field.dst = d
	}
	*c = out
	return nil
}
