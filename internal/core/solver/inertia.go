package solver

import (
	"math"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// referenceFrame is the frame duration the Deceleration factor is expressed
// against; decay is renormalized so variable tick rates glide identically.
const referenceFrame = 1.0 / 60.0

// InertiaConfig parameterizes post-release glide.
type InertiaConfig struct {
	// Deceleration is the per-frame velocity multiplier, in (0, 1).
	Deceleration float64 `yaml:"deceleration"`
	// MinVelocity is the component cutoff below which motion stops.
	MinVelocity float64 `yaml:"minVelocity"`
	// MaxDelta caps a single tick's delta-time in seconds, so a backgrounded
	// tab or dropped frame cannot teleport the position.
	MaxDelta float64 `yaml:"maxDelta"`
}

// DefaultInertiaConfig matches the feel of a typical UI flick.
func DefaultInertiaConfig() InertiaConfig {
	return InertiaConfig{
		Deceleration: 0.95,
		MinVelocity:  0.01,
		MaxDelta:     0.064,
	}
}

func (c *InertiaConfig) applyDefaults() {
	d := DefaultInertiaConfig()
	if c.Deceleration == 0 {
		c.Deceleration = d.Deceleration
	}
	if c.MinVelocity == 0 {
		c.MinVelocity = d.MinVelocity
	}
	if c.MaxDelta == 0 {
		c.MaxDelta = d.MaxDelta
	}
}

func (c InertiaConfig) validate() error {
	if c.Deceleration <= 0 || c.Deceleration >= 1 {
		return ErrInvalidDeceleration
	}
	if c.MinVelocity < 0 {
		return ErrNegativeMinVelocity
	}
	return nil
}

// Inertia decays a velocity geometrically each tick and advances position by
// the remaining velocity, until both components drop below the cutoff.
// Velocity is in units per second, matching the gesture tracker's estimate.
type Inertia struct {
	cfg      InertiaConfig
	Position vec.Vector2D
	Velocity vec.Vector2D
}

func NewInertia(cfg InertiaConfig) (*Inertia, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Inertia{cfg: cfg}, nil
}

// Start primes the solver with a release position and velocity.
func (in *Inertia) Start(pos, velocity vec.Vector2D) {
	in.Position = pos
	in.Velocity = velocity
}

// Step advances the glide by dt seconds (clamped to MaxDelta) and returns the
// new position. Velocity magnitude never increases across a step.
func (in *Inertia) Step(dt float64) vec.Vector2D {
	if dt <= 0 || in.AtRest() {
		return in.Position
	}
	if dt > in.cfg.MaxDelta {
		dt = in.cfg.MaxDelta
	}
	decay := math.Pow(in.cfg.Deceleration, dt/referenceFrame)
	in.Velocity = in.Velocity.Scale(decay)
	in.Position = in.Position.Add(in.Velocity.Scale(dt))

	if in.AtRest() {
		in.Velocity = vec.Vector2D{}
	}
	return in.Position
}

// AtRest reports whether both velocity components are below the cutoff.
func (in *Inertia) AtRest() bool {
	return math.Abs(in.Velocity.X) < in.cfg.MinVelocity &&
		math.Abs(in.Velocity.Y) < in.cfg.MinVelocity
}
