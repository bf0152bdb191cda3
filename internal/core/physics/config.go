package physics

import (
	"math"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// WorldConfig is the global simulation configuration. Zero values are
// replaced by the documented defaults in NewWorld.
type WorldConfig struct {
	// Gravity is the global acceleration applied to every non-static body,
	// scaled per body by its gravity scale. UI worlds usually leave it zero.
	Gravity vec.Vector2D `yaml:"gravity"`
	// FixedTimeStep is the substep duration in seconds. Default 1/60.
	FixedTimeStep float64 `yaml:"fixedTimeStep"`
	// MaxSubSteps caps how many substeps a single Step may run, bounding the
	// work done after a long stall. Default 4.
	MaxSubSteps int `yaml:"maxSubSteps"`
	// CellSize is the collision broad-phase grid cell size. Default 100.
	CellSize float64 `yaml:"cellSize"`

	// Sleeping thresholds. A body below both velocity thresholds for
	// SleepTimeThreshold seconds is put to sleep and skipped by integration
	// until something wakes it.
	EnableSleeping        *bool   `yaml:"enableSleeping"`
	SleepLinearThreshold  float64 `yaml:"sleepLinearThreshold"`
	SleepAngularThreshold float64 `yaml:"sleepAngularThreshold"`
	SleepTimeThreshold    float64 `yaml:"sleepTimeThreshold"`
}

// DefaultWorldConfig returns the configuration used when fields are left
// zero.
func DefaultWorldConfig() WorldConfig {
	enabled := true
	return WorldConfig{
		Gravity:               vec.Vector2D{},
		FixedTimeStep:         1.0 / 60.0,
		MaxSubSteps:           4,
		CellSize:              100,
		EnableSleeping:        &enabled,
		SleepLinearThreshold:  0.01,
		SleepAngularThreshold: 2 * math.Pi / 180,
		SleepTimeThreshold:    0.5,
	}
}

func (c *WorldConfig) applyDefaults() {
	d := DefaultWorldConfig()
	if c.FixedTimeStep == 0 {
		c.FixedTimeStep = d.FixedTimeStep
	}
	if c.MaxSubSteps == 0 {
		c.MaxSubSteps = d.MaxSubSteps
	}
	if c.CellSize == 0 {
		c.CellSize = d.CellSize
	}
	if c.EnableSleeping == nil {
		c.EnableSleeping = d.EnableSleeping
	}
	if c.SleepLinearThreshold == 0 {
		c.SleepLinearThreshold = d.SleepLinearThreshold
	}
	if c.SleepAngularThreshold == 0 {
		c.SleepAngularThreshold = d.SleepAngularThreshold
	}
	if c.SleepTimeThreshold == 0 {
		c.SleepTimeThreshold = d.SleepTimeThreshold
	}
}

func (c WorldConfig) validate() error {
	if c.FixedTimeStep <= 0 {
		return ErrNonPositiveTimeStep
	}
	if c.MaxSubSteps <= 0 {
		return ErrNonPositiveSubSteps
	}
	return nil
}
