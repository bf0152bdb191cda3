package gesture

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
	"github.com/VeerOneGPT/galileo-motion/pkg/sequence"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// Config holds the recognition thresholds. Zero values take the documented
// defaults.
type Config struct {
	// TapMovementTolerance is the max pointer travel (in input units) for a
	// press to still count as a tap.
	TapMovementTolerance float64 `yaml:"tapMovementTolerance"`
	// TapMaxDuration is the longest press that can still be a tap.
	TapMaxDuration time.Duration `yaml:"tapMaxDuration"`
	// DoubleTapWindow is the max separation between two tap start times for
	// them to fuse into a double tap.
	DoubleTapWindow time.Duration `yaml:"doubleTapWindow"`
	// DoubleTapDistance is the max distance between the two taps' positions.
	DoubleTapDistance float64 `yaml:"doubleTapDistance"`
	// LongPressDuration is how long a press must be held to become a long
	// press.
	LongPressDuration time.Duration `yaml:"longPressDuration"`
	// LongPressTolerance is the max travel before a pending long press is
	// abandoned.
	LongPressTolerance float64 `yaml:"longPressTolerance"`
	// SwipeVelocityThreshold is the min release speed (units/s) for a pan to
	// also produce a swipe.
	SwipeVelocityThreshold float64 `yaml:"swipeVelocityThreshold"`
	// SwipeDistanceThreshold is the min accumulated pan distance for a swipe.
	SwipeDistanceThreshold float64 `yaml:"swipeDistanceThreshold"`
	// SwipeReplacesPanEnd suppresses the pan ENDED event when a swipe is
	// recognized on release.
	SwipeReplacesPanEnd bool `yaml:"swipeReplacesPanEnd"`
	// VelocityWindow is the trailing sample window for velocity estimation.
	VelocityWindow time.Duration `yaml:"velocityWindow"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		TapMovementTolerance:   10,
		TapMaxDuration:         250 * time.Millisecond,
		DoubleTapWindow:        300 * time.Millisecond,
		DoubleTapDistance:      30,
		LongPressDuration:      500 * time.Millisecond,
		LongPressTolerance:     10,
		SwipeVelocityThreshold: 300,
		SwipeDistanceThreshold: 30,
		VelocityWindow:         100 * time.Millisecond,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.TapMovementTolerance == 0 {
		c.TapMovementTolerance = d.TapMovementTolerance
	}
	if c.TapMaxDuration == 0 {
		c.TapMaxDuration = d.TapMaxDuration
	}
	if c.DoubleTapWindow == 0 {
		c.DoubleTapWindow = d.DoubleTapWindow
	}
	if c.DoubleTapDistance == 0 {
		c.DoubleTapDistance = d.DoubleTapDistance
	}
	if c.LongPressDuration == 0 {
		c.LongPressDuration = d.LongPressDuration
	}
	if c.LongPressTolerance == 0 {
		c.LongPressTolerance = d.LongPressTolerance
	}
	if c.SwipeVelocityThreshold == 0 {
		c.SwipeVelocityThreshold = d.SwipeVelocityThreshold
	}
	if c.SwipeDistanceThreshold == 0 {
		c.SwipeDistanceThreshold = d.SwipeDistanceThreshold
	}
	if c.VelocityWindow == 0 {
		c.VelocityWindow = d.VelocityWindow
	}
}

// Handler receives recognized gesture events.
type Handler func(EventData)

// Subscription deregisters a handler when cancelled.
type Subscription struct {
	id     string
	cancel func()
}

func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type handlerEntry struct {
	id string
	fn Handler
}

type timerKind uint8

const (
	timerLongPress timerKind = iota
	timerDoubleTap
)

// pointer is the detector's per-pointer tracking state.
type pointer struct {
	id       int
	source   Source
	target   string
	origin   vec.Vector2D
	current  vec.Vector2D
	downTime time.Time
	lastTime time.Time
	// moved is the max displacement from origin seen so far; it gates tap
	// and long-press candidacy.
	moved float64
	// multi marks pointers that took part in a two-pointer session, which
	// disqualifies them from tap recognition.
	multi bool
}

// Detector is the input-event state machine. One detector serves one input
// surface; feed it PointerEvents in timestamp order and call Tick to fire
// time-based recognitions (long press, double-tap window expiry).
//
// Several gesture types may be live at once (pan and pinch both track during
// a two-finger session); the detector does not force mutual exclusion. The
// bridge layer decides which recognized gestures to act on.
type Detector struct {
	cfg     Config
	logger  log.Log
	timers  *sequence.DeadlineQueue[timerKind]
	tracker *velocityTracker

	handlers map[Type][]*handlerEntry

	pointers map[int]*pointer
	order    []int // pointer ids in down order; order[0] drives pan

	panActive   bool
	panOrigin   vec.Vector2D
	panStart    time.Time
	panTarget   string
	panDistance float64

	twoActive    bool
	initialSpan  float64
	initialAngle float64
	twoOrigin    vec.Vector2D // centroid at session start

	longPressItem   *sequence.DeadlineItem[timerKind]
	longPressActive bool

	pendingTap     *EventData
	pendingTapItem *sequence.DeadlineItem[timerKind]

	destroyed bool
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(cfg Config, logger log.Log) *Detector {
	cfg.applyDefaults()
	if logger == nil {
		logger = log.Nop()
	}
	return &Detector{
		cfg:      cfg,
		logger:   logger.With(log.String("component", "gesture.detector")),
		timers:   sequence.NewDeadlineQueue[timerKind](),
		tracker:  newVelocityTracker(cfg.VelocityWindow),
		handlers: make(map[Type][]*handlerEntry),
		pointers: make(map[int]*pointer),
	}
}

// On registers a handler for one gesture type.
func (d *Detector) On(t Type, h Handler) *Subscription {
	if d.destroyed {
		return &Subscription{}
	}
	entry := &handlerEntry{id: uuid.NewString(), fn: h}
	d.handlers[t] = append(d.handlers[t], entry)
	return &Subscription{
		id: entry.id,
		cancel: func() {
			list := d.handlers[t]
			for i, e := range list {
				if e.id == entry.id {
					d.handlers[t] = append(list[:i], list[i+1:]...)
					return
				}
			}
		},
	}
}

// Off removes every handler for a gesture type.
func (d *Detector) Off(t Type) {
	delete(d.handlers, t)
}

// Destroy synchronously cancels all pending timers and drops all handlers.
// No callback fires after Destroy returns.
func (d *Detector) Destroy() {
	d.destroyed = true
	d.timers.Clear()
	d.handlers = make(map[Type][]*handlerEntry)
	d.pointers = make(map[int]*pointer)
	d.order = nil
	d.pendingTap = nil
	d.longPressActive = false
	d.panActive = false
	d.twoActive = false
}

// Tick fires any timers due at or before now. Drive it from the same
// scheduler that feeds HandleEvent.
func (d *Detector) Tick(now time.Time) {
	if d.destroyed {
		return
	}
	for {
		item := d.timers.PopDue(now)
		if item == nil {
			return
		}
		switch item.Value {
		case timerLongPress:
			d.fireLongPress(now)
		case timerDoubleTap:
			d.expireDoubleTapWindow(now)
		}
	}
}

// HandleEvent advances the state machine with one raw pointer event.
func (d *Detector) HandleEvent(ev PointerEvent) {
	if d.destroyed {
		return
	}
	switch ev.Kind {
	case PointerDown:
		d.handleDown(ev)
	case PointerMove:
		d.handleMove(ev)
	case PointerUp:
		d.handleUp(ev)
	case PointerCancel:
		d.handleCancel(ev)
	case PointerEnter:
		if ev.Source != SourceTouch {
			d.emit(d.baseEvent(TypeHover, StateBegan, ev.Position, ev.Position, ev))
		}
	case PointerLeave:
		if ev.Source != SourceTouch {
			d.emit(d.baseEvent(TypeHover, StateEnded, ev.Position, ev.Position, ev))
		}
	}
}

func (d *Detector) handleDown(ev PointerEvent) {
	p := &pointer{
		id:       ev.ID,
		source:   ev.Source,
		target:   ev.Target,
		origin:   ev.Position,
		current:  ev.Position,
		downTime: ev.Time,
		lastTime: ev.Time,
	}
	d.pointers[ev.ID] = p
	d.order = append(d.order, ev.ID)

	switch len(d.order) {
	case 1:
		d.panActive = true
		d.panOrigin = ev.Position
		d.panStart = ev.Time
		d.panTarget = ev.Target
		d.panDistance = 0
		d.tracker.reset()
		d.tracker.add(ev.Position, ev.Time)
		d.emit(d.panEvent(StateBegan, ev.Time))

		d.longPressItem = d.timers.Schedule(timerLongPress, ev.Time.Add(d.cfg.LongPressDuration))

	case 2:
		// A second finger ends tap and long-press candidacy.
		d.cancelLongPressTimer()
		d.flushPendingTap()
		for _, q := range d.pointers {
			q.multi = true
		}
		a, b := d.twoPointers()
		d.twoActive = true
		d.initialSpan = a.current.Distance(b.current)
		d.initialAngle = angleBetween(a.current, b.current)
		d.twoOrigin = a.current.Add(b.current).Scale(0.5)
		d.emit(d.pinchEvent(StateBegan, 1, ev.Time))
		d.emit(d.rotateEvent(StateBegan, 0, ev.Time))
	}
}

func (d *Detector) handleMove(ev PointerEvent) {
	p, ok := d.pointers[ev.ID]
	if !ok {
		return
	}
	if prim := d.primary(); prim != nil && prim.id == ev.ID {
		d.panDistance += p.current.Distance(ev.Position)
		d.tracker.add(ev.Position, ev.Time)
	}
	p.current = ev.Position
	p.lastTime = ev.Time
	if disp := p.origin.Distance(ev.Position); disp > p.moved {
		p.moved = disp
	}

	// Movement beyond tolerance kills the long-press candidate and flushes a
	// held first tap (the in-progress press can no longer fuse into a
	// double tap).
	if p.moved > d.cfg.LongPressTolerance && !d.longPressActive {
		d.cancelLongPressTimer()
	}
	if p.moved > d.cfg.TapMovementTolerance {
		d.flushPendingTap()
	}

	if d.longPressActive {
		d.emit(d.baseEvent(TypeLongPress, StateChanged, p.current, p.origin, ev))
	}
	if d.panActive {
		d.emit(d.panEvent(StateChanged, ev.Time))
	}
	if d.twoActive {
		scale, rotation := d.twoPointState()
		d.emit(d.pinchEvent(StateChanged, scale, ev.Time))
		d.emit(d.rotateEvent(StateChanged, rotation, ev.Time))
	}
}

func (d *Detector) handleUp(ev PointerEvent) {
	p, ok := d.pointers[ev.ID]
	if !ok {
		return
	}
	p.current = ev.Position
	p.lastTime = ev.Time

	if d.twoActive {
		scale, rotation := d.twoPointState()
		d.emit(d.pinchEvent(StateEnded, scale, ev.Time))
		d.emit(d.rotateEvent(StateEnded, rotation, ev.Time))
		d.twoActive = false
	}

	wasPrimary := len(d.order) > 0 && d.order[0] == ev.ID
	d.dropPointer(ev.ID)

	if len(d.order) > 0 {
		if wasPrimary {
			// Promote the next pointer, shifting the pan origin so the
			// accumulated delta stays continuous.
			next := d.pointers[d.order[0]]
			delta := p.current.Sub(d.panOrigin)
			d.panOrigin = next.current.Sub(delta)
			d.tracker.reset()
			d.tracker.add(next.current, ev.Time)
		}
		return
	}

	// Last pointer up: resolve the whole interaction.
	releaseVelocity := d.tracker.velocity()

	if d.longPressActive {
		d.longPressActive = false
		d.emit(d.baseEvent(TypeLongPress, StateEnded, p.current, p.origin, ev))
	} else if d.isTapCandidate(p, ev.Time) {
		d.resolveTap(p, ev)
	} else if d.pendingTapItem == nil {
		// The double-tap window already expired with this press in flight,
		// deferring the decision to it. The press failed tap candidacy, so
		// the held first tap reports standalone.
		d.flushPendingTap()
	}

	swiped := false
	if releaseVelocity.Length() >= d.cfg.SwipeVelocityThreshold &&
		d.panDistance >= d.cfg.SwipeDistanceThreshold {
		swipe := d.panEvent(StateRecognized, ev.Time)
		swipe.Type = TypeSwipe
		swipe.Velocity = releaseVelocity
		swipe.Direction = dominantDirection(releaseVelocity)
		d.emit(swipe)
		swiped = true
	}

	if d.panActive && !(swiped && d.cfg.SwipeReplacesPanEnd) {
		end := d.panEvent(StateEnded, ev.Time)
		end.Velocity = releaseVelocity
		d.emit(end)
	}
	d.panActive = false
	d.cancelLongPressTimer()
}

func (d *Detector) handleCancel(ev PointerEvent) {
	if _, ok := d.pointers[ev.ID]; !ok {
		return
	}
	if d.twoActive {
		scale, rotation := d.twoPointState()
		d.emit(d.pinchEvent(StateCancelled, scale, ev.Time))
		d.emit(d.rotateEvent(StateCancelled, rotation, ev.Time))
		d.twoActive = false
	}
	if d.longPressActive {
		d.longPressActive = false
		d.emit(d.baseEvent(TypeLongPress, StateCancelled, ev.Position, ev.Position, ev))
	}
	if d.panActive {
		d.emit(d.panEvent(StateCancelled, ev.Time))
		d.panActive = false
	}
	// A held first tap whose window already expired was waiting on this
	// interaction; the cancel ends it, so the tap reports standalone.
	if d.pendingTapItem == nil {
		d.flushPendingTap()
	}
	d.cancelLongPressTimer()
	for id := range d.pointers {
		delete(d.pointers, id)
	}
	d.order = nil
}

// isTapCandidate applies the tap rules: small travel, short duration, not
// part of a multi-touch session, no long press fired.
func (d *Detector) isTapCandidate(p *pointer, now time.Time) bool {
	return !p.multi &&
		p.moved <= d.cfg.TapMovementTolerance &&
		now.Sub(p.downTime) <= d.cfg.TapMaxDuration
}

// resolveTap fuses the tap with a held first tap into a double tap when the
// two start timestamps fall inside the window, otherwise holds this tap as
// the new double-tap candidate.
func (d *Detector) resolveTap(p *pointer, ev PointerEvent) {
	tap := d.baseEvent(TypeTap, StateRecognized, p.current, p.origin, ev)
	tap.Duration = ev.Time.Sub(p.downTime)

	if d.pendingTap != nil {
		startGap := p.downTime.Sub(d.pendingTap.Timestamp.Add(-d.pendingTap.Duration))
		within := startGap <= d.cfg.DoubleTapWindow &&
			p.origin.Distance(d.pendingTap.InitialPosition) <= d.cfg.DoubleTapDistance
		if within {
			double := tap
			double.Type = TypeDoubleTap
			d.clearPendingTap()
			d.emit(double)
			return
		}
		// Out of range: the held tap reports standalone, this one becomes
		// the new candidate.
		d.flushPendingTap()
	}

	held := tap
	d.pendingTap = &held
	d.pendingTapItem = d.timers.Schedule(timerDoubleTap, p.downTime.Add(d.cfg.DoubleTapWindow))
}

func (d *Detector) fireLongPress(now time.Time) {
	d.longPressItem = nil
	prim := d.primary()
	if prim == nil || prim.moved > d.cfg.LongPressTolerance || prim.multi {
		return
	}
	// A press that became a long press can no longer be the second tap of a
	// double tap.
	d.flushPendingTap()
	d.longPressActive = true
	ev := EventData{
		Type:            TypeLongPress,
		State:           StateBegan,
		Position:        prim.current,
		InitialPosition: prim.origin,
		Duration:        now.Sub(prim.downTime),
		Direction:       DirectionNone,
		Scale:           1,
		Target:          prim.target,
		Timestamp:       now,
	}
	d.emit(ev)
}

// expireDoubleTapWindow reports the held tap standalone unless a qualifying
// second press is still in flight, in which case the decision defers to that
// press's resolution.
func (d *Detector) expireDoubleTapWindow(now time.Time) {
	d.pendingTapItem = nil
	if d.pendingTap == nil {
		return
	}
	for _, id := range d.order {
		p := d.pointers[id]
		if p == nil || p.multi {
			continue
		}
		startGap := p.downTime.Sub(d.pendingTap.Timestamp.Add(-d.pendingTap.Duration))
		if startGap <= d.cfg.DoubleTapWindow &&
			p.origin.Distance(d.pendingTap.InitialPosition) <= d.cfg.DoubleTapDistance &&
			p.moved <= d.cfg.TapMovementTolerance {
			return
		}
	}
	d.flushPendingTap()
}

// flushPendingTap emits the held first tap as a standalone tap.
func (d *Detector) flushPendingTap() {
	if d.pendingTap == nil {
		return
	}
	tap := *d.pendingTap
	d.clearPendingTap()
	d.emit(tap)
}

func (d *Detector) clearPendingTap() {
	d.pendingTap = nil
	if d.pendingTapItem != nil {
		d.timers.Cancel(d.pendingTapItem)
		d.pendingTapItem = nil
	}
}

func (d *Detector) cancelLongPressTimer() {
	if d.longPressItem != nil {
		d.timers.Cancel(d.longPressItem)
		d.longPressItem = nil
	}
}

func (d *Detector) dropPointer(id int) {
	delete(d.pointers, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			return
		}
	}
}

func (d *Detector) primary() *pointer {
	if len(d.order) == 0 {
		return nil
	}
	return d.pointers[d.order[0]]
}

func (d *Detector) twoPointers() (*pointer, *pointer) {
	return d.pointers[d.order[0]], d.pointers[d.order[1]]
}

// twoPointState returns the current pinch scale and rotation (degrees)
// relative to the session's initial span and angle. Coincident points yield
// scale 1 / rotation 0 rather than NaN.
func (d *Detector) twoPointState() (scale, rotation float64) {
	if len(d.order) < 2 {
		return 1, 0
	}
	a, b := d.twoPointers()
	span := a.current.Distance(b.current)
	if d.initialSpan > 0 {
		scale = span / d.initialSpan
	} else {
		scale = 1
	}
	rotation = normalizeDegrees((angleBetween(a.current, b.current) - d.initialAngle) * 180 / math.Pi)
	return scale, rotation
}

func angleBetween(a, b vec.Vector2D) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// normalizeDegrees maps an angle to (-180, 180].
func normalizeDegrees(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

func (d *Detector) baseEvent(t Type, s State, pos, initial vec.Vector2D, ev PointerEvent) EventData {
	return EventData{
		Type:            t,
		State:           s,
		Position:        pos,
		InitialPosition: initial,
		Delta:           pos.Sub(initial),
		Velocity:        d.tracker.velocity(),
		Acceleration:    d.tracker.acceleration(),
		Direction:       DirectionNone,
		Scale:           1,
		Target:          ev.Target,
		Timestamp:       ev.Time,
	}
}

func (d *Detector) panEvent(s State, now time.Time) EventData {
	prim := d.primary()
	pos := d.panOrigin
	target := d.panTarget
	if prim != nil {
		pos = prim.current
		target = prim.target
	}
	delta := pos.Sub(d.panOrigin)
	return EventData{
		Type:            TypePan,
		State:           s,
		Position:        pos,
		InitialPosition: d.panOrigin,
		Delta:           delta,
		Velocity:        d.tracker.velocity(),
		Acceleration:    d.tracker.acceleration(),
		Distance:        d.panDistance,
		Duration:        now.Sub(d.panStart),
		Direction:       dominantDirection(delta),
		Scale:           1,
		Target:          target,
		Timestamp:       now,
	}
}

func (d *Detector) pinchEvent(s State, scale float64, now time.Time) EventData {
	ev := d.twoPointSessionEvent(TypePinch, s, now)
	ev.Scale = scale
	return ev
}

func (d *Detector) rotateEvent(s State, rotation float64, now time.Time) EventData {
	ev := d.twoPointSessionEvent(TypeRotate, s, now)
	ev.Rotation = rotation
	return ev
}

func (d *Detector) twoPointSessionEvent(t Type, s State, now time.Time) EventData {
	var center vec.Vector2D
	var target string
	if len(d.order) >= 2 {
		a, b := d.twoPointers()
		center = a.current.Add(b.current).Scale(0.5)
		target = a.target
	} else if prim := d.primary(); prim != nil {
		center = prim.current
		target = prim.target
	}
	return EventData{
		Type:            t,
		State:           s,
		Position:        center,
		InitialPosition: d.twoOrigin,
		Delta:           center.Sub(d.twoOrigin),
		Velocity:        d.tracker.velocity(),
		Acceleration:    d.tracker.acceleration(),
		Direction:       DirectionNone,
		Scale:           1,
		Duration:        now.Sub(d.panStart),
		Target:          target,
		Timestamp:       now,
	}
}

// emit delivers the event to every handler of its type. A panicking handler
// is logged and isolated; it cannot stall the other gestures.
func (d *Detector) emit(ev EventData) {
	for _, entry := range d.handlers[ev.Type] {
		d.invoke(entry, ev)
	}
}

func (d *Detector) invoke(entry *handlerEntry, ev EventData) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("gesture handler panicked",
				log.String("gesture", string(ev.Type)),
				log.Any("panic", r),
			)
		}
	}()
	entry.fn(ev)
}

// Inject delivers a synthetic, fully-formed gesture event to subscribers.
// The keyboard adapter uses it to feed the same pipeline as pointer input.
func (d *Detector) Inject(ev EventData) {
	if d.destroyed {
		return
	}
	d.emit(ev)
}
