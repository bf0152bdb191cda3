package physics

import "errors"

// Construction-time validation errors. Steady-state operations never return
// errors: unknown ids are sentinel no-ops so the per-frame loop stays live.
var (
	ErrMissingShape          = errors.New("body shape is required")
	ErrNonPositiveMass       = errors.New("body mass must be positive")
	ErrRestitutionOutOfRange = errors.New("restitution must be in [0, 1]")
	ErrNegativeFriction      = errors.New("friction must not be negative")
	ErrNonPositiveTimeStep   = errors.New("fixed time step must be positive")
	ErrNonPositiveSubSteps   = errors.New("max substeps must be positive")
	ErrUnknownConstraintKind = errors.New("unknown constraint kind")
	ErrConstraintNeedsBodies = errors.New("constraint requires two existing, distinct bodies")
	ErrNegativeStiffness     = errors.New("constraint stiffness must not be negative")
)
