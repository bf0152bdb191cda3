package animation

// TickFunc runs one animation frame; dt is the elapsed time since the
// previous frame in seconds.
type TickFunc func(dt float64)

// Handle identifies one scheduled tick for cancellation.
type Handle uint64

// Scheduler is the injected frame clock. Each Schedule buys exactly one
// future tick; continuous animation re-schedules from inside the callback.
// The engine never reads the wall clock itself, so any host loop (terminal
// event loop, test harness, frame callback) can drive it.
type Scheduler interface {
	Schedule(fn TickFunc) Handle
	Cancel(h Handle)
}

// ManualScheduler queues callbacks and runs them when Advance is called.
// Tests and single-threaded hosts drive animation deterministically with it.
type ManualScheduler struct {
	next    Handle
	pending map[Handle]TickFunc
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[Handle]TickFunc)}
}

func (s *ManualScheduler) Schedule(fn TickFunc) Handle {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

func (s *ManualScheduler) Cancel(h Handle) {
	delete(s.pending, h)
}

// Advance runs every pending callback once with the given frame delta.
// Callbacks scheduled during Advance wait for the next Advance, matching
// frame-callback semantics.
func (s *ManualScheduler) Advance(dt float64) {
	batch := s.pending
	s.pending = make(map[Handle]TickFunc)
	for _, fn := range batch {
		fn(dt)
	}
}

// Pending reports how many ticks are queued.
func (s *ManualScheduler) Pending() int { return len(s.pending) }
