package collision

import (
	"math"

	"github.com/VeerOneGPT/galileo-motion/internal/core/events"
	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
	"github.com/VeerOneGPT/galileo-motion/internal/core/spatial"
	"github.com/VeerOneGPT/galileo-motion/pkg/generic"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// Positional correction constants (Baumgarte split): only penetration beyond
// the slop is corrected, and only partially, to keep stacks stable without
// jitter.
const (
	correctionPercent = 0.2
	penetrationSlop   = 0.01
)

// Phase identifies a collision lifecycle transition.
type Phase string

const (
	PhaseStart  Phase = "collision.start"
	PhaseActive Phase = "collision.active"
	PhaseEnd    Phase = "collision.end"
)

// Event is the ephemeral record delivered to collision subscribers. Normal
// points from body A toward body B.
type Event struct {
	Phase            Phase
	BodyA, BodyB     string
	UserDataA        any
	UserDataB        any
	Contact          vec.Vector2D
	Normal           vec.Vector2D
	Penetration      float64
	RelativeVelocity vec.Vector2D
	Impulse          float64
}

// Body is the view of a physics body the collision system needs. The physics
// world's body type implements it.
type Body interface {
	ID() string
	UserData() any
	Position() vec.Vector2D
	Velocity() vec.Vector2D
	InvMass() float64
	Friction() float64
	Restitution() float64
	CollisionShape() Shape
	CollisionFilter() Filter
	IsStatic() bool
	SetPosition(vec.Vector2D)
	SetVelocity(vec.Vector2D)
	Wake()
}

type pairKey struct {
	a, b string
}

func makePair(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// System runs broad phase, narrow phase, impulse resolution, and start /
// active / end event tracking. Events are queued during Step and only
// delivered when the owning world drains them after the step completes.
type System struct {
	grid       *spatial.Grid
	dispatcher *events.Dispatcher[Event]
	// active holds the pairs overlapping as of the last step, with the event
	// payload to replay (impulse zeroed) when the pair separates.
	active    map[pairKey]Event
	manifolds *generic.Pool[*Manifold]
	logger    log.Log
}

// NewSystem creates a collision system with the given broad-phase cell size.
func NewSystem(cellSize float64, logger log.Log) (*System, error) {
	grid, err := spatial.NewGrid(cellSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &System{
		grid:       grid,
		dispatcher: events.NewDispatcher[Event](logger),
		active:     make(map[pairKey]Event),
		manifolds:  generic.NewPool(func() *Manifold { return &Manifold{} }),
		logger:     logger,
	}, nil
}

// OnStart subscribes to first-overlap events.
func (s *System) OnStart(h func(Event)) *events.Subscription {
	return s.dispatcher.Subscribe(string(PhaseStart), h)
}

// OnActive subscribes to continued-overlap events.
func (s *System) OnActive(h func(Event)) *events.Subscription {
	return s.dispatcher.Subscribe(string(PhaseActive), h)
}

// OnEnd subscribes to separation events.
func (s *System) OnEnd(h func(Event)) *events.Subscription {
	return s.dispatcher.Subscribe(string(PhaseEnd), h)
}

// Forget drops a removed body from the broad phase and from pair tracking.
// End events for its active pairs are emitted on the next drain.
func (s *System) Forget(id string) {
	s.grid.Remove(id)
	for key, ev := range s.active {
		if key.a == id || key.b == id {
			ev.Phase = PhaseEnd
			ev.Impulse = 0
			s.dispatcher.Enqueue(string(PhaseEnd), ev)
			delete(s.active, key)
		}
	}
}

// Colliding reports whether the two ids were overlapping as of the last step.
// Unknown ids simply report false.
func (s *System) Colliding(idA, idB string) bool {
	_, ok := s.active[makePair(idA, idB)]
	return ok
}

// Step runs one collision pass over the given bodies: broad phase via the
// grid, narrow phase per surviving pair, impulse resolution, and lifecycle
// event queueing.
func (s *System) Step(bodies []Body) {
	byID := make(map[string]Body, len(bodies))
	for _, b := range bodies {
		byID[b.ID()] = b
		s.grid.Update(b.ID(), b.CollisionShape().Bounds(b.Position()))
	}

	current := make(map[pairKey]Event)
	for _, a := range bodies {
		bounds := a.CollisionShape().Bounds(a.Position())
		for _, otherID := range s.grid.Query(bounds) {
			if otherID == a.ID() {
				continue
			}
			key := makePair(a.ID(), otherID)
			if _, done := current[key]; done {
				continue
			}
			b, ok := byID[otherID]
			if !ok {
				// Stale grid entry; tolerated, skipped.
				continue
			}
			if a.IsStatic() && b.IsStatic() {
				continue
			}
			if !a.CollisionFilter().ShouldCollide(b.CollisionFilter()) {
				continue
			}

			m := s.manifolds.Get()
			hit := s.narrowPhase(a, b, m)
			if hit {
				current[key] = s.resolve(a, b, m)
			}
			s.manifolds.Put(m)
		}
	}

	// Phase transitions against the previous step's overlap set.
	for key, ev := range current {
		if _, was := s.active[key]; was {
			ev.Phase = PhaseActive
			s.dispatcher.Enqueue(string(PhaseActive), ev)
		} else {
			ev.Phase = PhaseStart
			s.dispatcher.Enqueue(string(PhaseStart), ev)
		}
		current[key] = ev
	}
	for key, ev := range s.active {
		if _, still := current[key]; !still {
			ev.Phase = PhaseEnd
			ev.Impulse = 0
			s.dispatcher.Enqueue(string(PhaseEnd), ev)
		}
	}
	s.active = current
}

// Drain delivers all queued collision events. The world calls this after the
// full step (all substeps) completes.
func (s *System) Drain() {
	s.dispatcher.Drain()
}

func (s *System) narrowPhase(a, b Body, m *Manifold) bool {
	res, ok := Collide(a.CollisionShape(), a.Position(), b.CollisionShape(), b.Position())
	if !ok {
		return false
	}
	*m = res
	return true
}

// resolve applies the contact impulse and positional correction and returns
// the event payload describing the contact. Static bodies are never moved.
func (s *System) resolve(a, b Body, m *Manifold) Event {
	invA, invB := a.InvMass(), b.InvMass()
	invSum := invA + invB
	relVel := b.Velocity().Sub(a.Velocity())

	var impulse float64
	if invSum > 0 {
		velAlongNormal := relVel.Dot(m.Normal)
		if velAlongNormal < 0 {
			// Restitution combined by average, friction by geometric mean.
			e := (a.Restitution() + b.Restitution()) / 2
			impulse = -(1 + e) * velAlongNormal / invSum

			applied := m.Normal.Scale(impulse)
			a.SetVelocity(a.Velocity().Sub(applied.Scale(invA)))
			b.SetVelocity(b.Velocity().Add(applied.Scale(invB)))

			// Coulomb friction along the contact tangent.
			relVel = b.Velocity().Sub(a.Velocity())
			tangent := relVel.Sub(m.Normal.Scale(relVel.Dot(m.Normal)))
			if tl := tangent.Length(); tl > 1e-9 {
				tangent = tangent.Scale(1 / tl)
				jt := -relVel.Dot(tangent) / invSum
				mu := math.Sqrt(a.Friction() * b.Friction())
				if math.Abs(jt) > impulse*mu {
					if jt < 0 {
						jt = -impulse * mu
					} else {
						jt = impulse * mu
					}
				}
				frictionImpulse := tangent.Scale(jt)
				a.SetVelocity(a.Velocity().Sub(frictionImpulse.Scale(invA)))
				b.SetVelocity(b.Velocity().Add(frictionImpulse.Scale(invB)))
			}

			a.Wake()
			b.Wake()
		}

		// Positional correction keeps resting contacts from sinking.
		if depth := m.Penetration - penetrationSlop; depth > 0 {
			correction := m.Normal.Scale(correctionPercent * depth / invSum)
			if !a.IsStatic() {
				a.SetPosition(a.Position().Sub(correction.Scale(invA)))
			}
			if !b.IsStatic() {
				b.SetPosition(b.Position().Add(correction.Scale(invB)))
			}
		}
	}

	return Event{
		BodyA:            a.ID(),
		BodyB:            b.ID(),
		UserDataA:        a.UserData(),
		UserDataB:        b.UserData(),
		Contact:          m.Contact,
		Normal:           m.Normal,
		Penetration:      m.Penetration,
		RelativeVelocity: relVel,
		Impulse:          impulse,
	}
}
