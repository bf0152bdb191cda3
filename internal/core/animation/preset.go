package animation

// Preset is a named bundle of motion parameters. Presets are configuration
// sugar only; every preset flows through the same bridge code path.
type Preset struct {
	// Tension and Friction map onto spring stiffness and damping.
	Tension  float64 `yaml:"tension"`
	Friction float64 `yaml:"friction"`
	Mass     float64 `yaml:"mass"`
	// VelocityScale multiplies the release velocity before inertia.
	VelocityScale float64 `yaml:"velocityScale"`
	// Deceleration is the inertial per-frame velocity multiplier.
	Deceleration float64 `yaml:"deceleration"`
	// MinFlickVelocity is the release speed below which inertia is skipped.
	MinFlickVelocity float64 `yaml:"minFlickVelocity"`
	// SnapThreshold is the capture radius of snap points.
	SnapThreshold      float64 `yaml:"snapThreshold"`
	ScaleMultiplier    float64 `yaml:"scaleMultiplier"`
	RotationMultiplier float64 `yaml:"rotationMultiplier"`
}

// Apply overlays the preset's non-zero parameters onto a bridge config.
func (p Preset) Apply(cfg BridgeConfig) BridgeConfig {
	if p.Tension != 0 {
		cfg.Spring.Stiffness = p.Tension
	}
	if p.Friction != 0 {
		cfg.Spring.Damping = p.Friction
	}
	if p.Mass != 0 {
		cfg.Spring.Mass = p.Mass
	}
	if p.VelocityScale != 0 {
		cfg.VelocityScale = p.VelocityScale
	}
	if p.Deceleration != 0 {
		cfg.Inertia.Deceleration = p.Deceleration
	}
	if p.MinFlickVelocity != 0 {
		cfg.MinFlickVelocity = p.MinFlickVelocity
	}
	if p.SnapThreshold != 0 {
		cfg.SnapThreshold = p.SnapThreshold
	}
	if p.ScaleMultiplier != 0 {
		cfg.ScaleMultiplier = p.ScaleMultiplier
	}
	if p.RotationMultiplier != 0 {
		cfg.RotationMultiplier = p.RotationMultiplier
	}
	return cfg
}

// BuiltinPresets returns the stock motion vocabulary. Config files may
// override or extend these by name.
func BuiltinPresets() map[string]Preset {
	return map[string]Preset{
		"springBounce": {
			Tension:  180,
			Friction: 12,
			Mass:     1,
		},
		"inertialSlide": {
			Deceleration:     0.96,
			MinFlickVelocity: 30,
			VelocityScale:    1,
		},
		"magneticSnap": {
			Tension:       220,
			Friction:      26,
			SnapThreshold: 40,
		},
		"elasticDrag": {
			Tension:       120,
			Friction:      14,
			VelocityScale: 0.8,
		},
		"momentumFlick": {
			Deceleration:     0.92,
			MinFlickVelocity: 20,
			VelocityScale:    1.4,
		},
		"gravityPull": {
			Tension:       90,
			Friction:      20,
			SnapThreshold: 80,
		},
		"rotationSpin": {
			Tension:            150,
			Friction:           18,
			RotationMultiplier: 1.5,
		},
		"pinchZoom": {
			Tension:         200,
			Friction:        24,
			ScaleMultiplier: 1,
		},
	}
}
