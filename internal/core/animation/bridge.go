package animation

import (
	"github.com/VeerOneGPT/galileo-motion/internal/core/gesture"
	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
	"github.com/VeerOneGPT/galileo-motion/internal/core/solver"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// BridgeConfig parameterizes one gesture-to-transform bridge. Zero values
// take defaults; Preset.Apply overlays named parameter bundles.
type BridgeConfig struct {
	Spring  solver.SpringConfig  `yaml:"spring"`
	Inertia solver.InertiaConfig `yaml:"inertia"`
	Bounds  Bounds               `yaml:"bounds"`

	// SnapPoints are candidate positions a settling animation is redirected
	// to when the release position lands within SnapThreshold of one.
	SnapPoints    []vec.Vector2D `yaml:"snapPoints"`
	SnapThreshold float64        `yaml:"snapThreshold"`

	// MinFlickVelocity is the release speed below which the bridge skips
	// inertia and settles (or snaps) directly.
	MinFlickVelocity float64 `yaml:"minFlickVelocity"`
	// VelocityScale multiplies the release velocity handed to inertia.
	VelocityScale      float64 `yaml:"velocityScale"`
	ScaleMultiplier    float64 `yaml:"scaleMultiplier"`
	RotationMultiplier float64 `yaml:"rotationMultiplier"`

	// ReducedMotion bypasses inertial and spring animation in favor of
	// immediate snapping. The host sources this from its accessibility
	// preference; the engine never detects it itself.
	ReducedMotion bool `yaml:"reducedMotion"`
}

func (c *BridgeConfig) applyDefaults() {
	if c.MinFlickVelocity == 0 {
		c.MinFlickVelocity = 50
	}
	if c.VelocityScale == 0 {
		c.VelocityScale = 1
	}
	if c.ScaleMultiplier == 0 {
		c.ScaleMultiplier = 1
	}
	if c.RotationMultiplier == 0 {
		c.RotationMultiplier = 1
	}
}

type bridgeMode uint8

const (
	modeIdle bridgeMode = iota
	modeInertia
	modeSpring
)

// Bridge binds a gesture detector to a transform. Gestures move the
// transform directly while active (pan translates, pinch scales, rotate
// rotates, all clamped against bounds); on release the bridge hands off to
// the inertial solver and then the spring solver for snap-point settling.
//
// The bridge is single-threaded by contract: detector events, scheduler
// ticks, and API calls must arrive from the same goroutine.
type Bridge struct {
	cfg      BridgeConfig
	detector *gesture.Detector
	sched    Scheduler
	logger   log.Log

	transform Transform
	baseline  Transform
	onChange  func(Transform)

	active map[gesture.Type]bool

	mode        bridgeMode
	inertia     *solver.Inertia
	springXY    *solver.Spring2D
	springScale *solver.Spring1D
	springRot   *solver.Spring1D
	animXY      bool
	animScale   bool
	animRot     bool

	tickQueued bool
	tickHandle Handle

	subs      []*gesture.Subscription
	destroyed bool
}

// NewBridge validates the config, constructs the solvers, and subscribes to
// the detector's pan, pinch, rotate, and swipe streams.
func NewBridge(cfg BridgeConfig, detector *gesture.Detector, sched Scheduler, logger log.Log) (*Bridge, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = log.Nop()
	}
	inertia, err := solver.NewInertia(cfg.Inertia)
	if err != nil {
		return nil, err
	}
	springXY, err := solver.NewSpring2D(cfg.Spring)
	if err != nil {
		return nil, err
	}
	springScale, err := solver.NewSpring1D(cfg.Spring)
	if err != nil {
		return nil, err
	}
	springRot, err := solver.NewSpring1D(cfg.Spring)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		cfg:         cfg,
		detector:    detector,
		sched:       sched,
		logger:      logger.With(log.String("component", "animation.bridge")),
		transform:   IdentityTransform(),
		active:      make(map[gesture.Type]bool),
		inertia:     inertia,
		springXY:    springXY,
		springScale: springScale,
		springRot:   springRot,
	}
	b.subscribe()
	return b, nil
}

func (b *Bridge) subscribe() {
	b.subs = append(b.subs,
		b.detector.On(gesture.TypePan, b.handlePan),
		b.detector.On(gesture.TypePinch, b.handlePinch),
		b.detector.On(gesture.TypeRotate, b.handleRotate),
		b.detector.On(gesture.TypeSwipe, b.handleSwipe),
	)
}

// OnTransformChange registers the callback invoked after every transform
// mutation. The rendering layer applies the transform there.
func (b *Bridge) OnTransformChange(fn func(Transform)) {
	b.onChange = fn
}

// GetTransform returns the current transform.
func (b *Bridge) GetTransform() Transform { return b.transform }

// SetTransform writes the given channels immediately, clamped, with no
// animation. Any in-flight animation is cancelled first.
func (b *Bridge) SetTransform(u TransformUpdate) {
	if b.destroyed {
		return
	}
	b.stopAnimation()
	if u.TranslateX != nil {
		b.transform.TranslateX = b.cfg.Bounds.X.Clamp(*u.TranslateX)
	}
	if u.TranslateY != nil {
		b.transform.TranslateY = b.cfg.Bounds.Y.Clamp(*u.TranslateY)
	}
	if u.Scale != nil {
		b.transform.Scale = b.cfg.Bounds.Scale.Clamp(*u.Scale)
	}
	if u.Rotation != nil {
		b.transform.Rotation = b.cfg.Bounds.Rotation.Clamp(*u.Rotation)
	}
	b.transform.VelocityX = 0
	b.transform.VelocityY = 0
	b.notify()
}

// AnimateTo spring-animates the given channels to their targets. Under
// reduced motion it degrades to an immediate SetTransform.
func (b *Bridge) AnimateTo(u TransformUpdate) {
	if b.destroyed {
		return
	}
	if b.cfg.ReducedMotion {
		b.SetTransform(u)
		return
	}
	b.stopAnimation()
	if u.TranslateX != nil || u.TranslateY != nil {
		target := b.transform.translation()
		if u.TranslateX != nil {
			target.X = *u.TranslateX
		}
		if u.TranslateY != nil {
			target.Y = *u.TranslateY
		}
		b.springXY.Reset(b.transform.translation())
		b.springXY.Retarget(b.cfg.Bounds.ClampPosition(target))
		b.animXY = true
	}
	if u.Scale != nil {
		b.springScale.Reset(b.transform.Scale)
		b.springScale.Retarget(b.cfg.Bounds.Scale.Clamp(*u.Scale))
		b.animScale = true
	}
	if u.Rotation != nil {
		b.springRot.Reset(b.transform.Rotation)
		b.springRot.Retarget(b.cfg.Bounds.Rotation.Clamp(*u.Rotation))
		b.animRot = true
	}
	if b.animXY || b.animScale || b.animRot {
		b.mode = modeSpring
		b.schedule()
	}
}

// SetReducedMotion toggles the accessibility bypass at runtime.
func (b *Bridge) SetReducedMotion(on bool) { b.cfg.ReducedMotion = on }

// Animating reports whether a release animation is in flight.
func (b *Bridge) Animating() bool { return b.mode != modeIdle }

// Destroy cancels the gesture subscriptions and any pending tick. No
// callback fires after Destroy returns.
func (b *Bridge) Destroy() {
	for _, s := range b.subs {
		s.Cancel()
	}
	b.subs = nil
	b.stopAnimation()
	b.onChange = nil
	b.destroyed = true
}

func (b *Bridge) handlePan(ev gesture.EventData) {
	switch ev.State {
	case gesture.StateBegan:
		b.beginGesture(gesture.TypePan)
	case gesture.StateChanged:
		b.applyPan(ev)
	case gesture.StateEnded:
		b.applyPan(ev)
		b.endGesture(gesture.TypePan)
		if len(b.active) == 0 {
			b.release(ev.Velocity)
		}
	case gesture.StateCancelled:
		b.revert(gesture.TypePan)
	}
}

func (b *Bridge) applyPan(ev gesture.EventData) {
	target := b.baseline.translation().Add(ev.Delta)
	clamped := b.cfg.Bounds.ClampPosition(target)
	b.transform.TranslateX = clamped.X
	b.transform.TranslateY = clamped.Y
	b.transform.VelocityX = ev.Velocity.X
	b.transform.VelocityY = ev.Velocity.Y
	b.notify()
}

func (b *Bridge) handlePinch(ev gesture.EventData) {
	switch ev.State {
	case gesture.StateBegan:
		b.beginGesture(gesture.TypePinch)
	case gesture.StateChanged, gesture.StateEnded:
		// Scale is multiplicative against the scale at gesture start.
		scale := b.baseline.Scale * (1 + (ev.Scale-1)*b.cfg.ScaleMultiplier)
		b.transform.Scale = b.cfg.Bounds.Scale.Clamp(scale)
		b.notify()
		if ev.State == gesture.StateEnded {
			b.endGesture(gesture.TypePinch)
		}
	case gesture.StateCancelled:
		b.revert(gesture.TypePinch)
	}
}

func (b *Bridge) handleRotate(ev gesture.EventData) {
	switch ev.State {
	case gesture.StateBegan:
		b.beginGesture(gesture.TypeRotate)
	case gesture.StateChanged, gesture.StateEnded:
		rot := b.baseline.Rotation + ev.Rotation*b.cfg.RotationMultiplier
		b.transform.Rotation = b.cfg.Bounds.Rotation.Clamp(rot)
		b.notify()
		if ev.State == gesture.StateEnded {
			b.endGesture(gesture.TypeRotate)
		}
	case gesture.StateCancelled:
		b.revert(gesture.TypeRotate)
	}
}

// handleSwipe acts only on synthetic keyboard swipes; pointer swipes are
// already covered by the pan's release velocity.
func (b *Bridge) handleSwipe(ev gesture.EventData) {
	if !ev.IsKeyboardGenerated || len(b.active) > 0 {
		return
	}
	b.release(ev.Velocity)
}

// beginGesture snapshots the baseline and cancels any in-flight animation
// when the first concurrent gesture begins.
func (b *Bridge) beginGesture(t gesture.Type) {
	if len(b.active) == 0 {
		b.stopAnimation()
		b.baseline = b.transform
	}
	b.active[t] = true
}

func (b *Bridge) endGesture(t gesture.Type) {
	delete(b.active, t)
}

// revert restores the baseline instantly, with no animation.
func (b *Bridge) revert(t gesture.Type) {
	b.endGesture(t)
	b.transform = b.baseline
	b.transform.VelocityX = 0
	b.transform.VelocityY = 0
	b.notify()
}

// release hands the translation off to the solvers: inertia when the release
// velocity qualifies, then snap-point spring settling.
func (b *Bridge) release(velocity vec.Vector2D) {
	velocity = velocity.Scale(b.cfg.VelocityScale)

	if b.cfg.ReducedMotion {
		pos := b.transform.translation()
		if target, ok := b.snapTarget(pos); ok {
			pos = target
		}
		b.setTranslation(pos, vec.Vector2D{})
		b.notify()
		return
	}

	if velocity.Length() >= b.cfg.MinFlickVelocity {
		b.inertia.Start(b.transform.translation(), velocity)
		b.mode = modeInertia
		b.schedule()
		return
	}
	b.settleOrSnap()
}

// settleOrSnap starts a spring toward the nearest qualifying snap point, or
// comes to rest in place.
func (b *Bridge) settleOrSnap() {
	pos := b.transform.translation()
	target, ok := b.snapTarget(pos)
	if !ok {
		b.mode = modeIdle
		b.setTranslation(pos, vec.Vector2D{})
		b.notify()
		return
	}
	b.springXY.Reset(pos)
	b.springXY.Retarget(b.cfg.Bounds.ClampPosition(target))
	if b.springXY.Settled() {
		// Released on the snap point: land exactly, no animation.
		b.mode = modeIdle
		b.setTranslation(b.springXY.Target, vec.Vector2D{})
		b.notify()
		return
	}
	b.mode = modeSpring
	b.animXY = true
	b.schedule()
}

// snapTarget returns the nearest snap point within the threshold.
func (b *Bridge) snapTarget(pos vec.Vector2D) (vec.Vector2D, bool) {
	if b.cfg.SnapThreshold <= 0 || len(b.cfg.SnapPoints) == 0 {
		return vec.Vector2D{}, false
	}
	best := vec.Vector2D{}
	bestDist := b.cfg.SnapThreshold
	found := false
	for _, p := range b.cfg.SnapPoints {
		if d := pos.Distance(p); d <= bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

func (b *Bridge) tick(dt float64) {
	b.tickQueued = false
	if b.destroyed {
		return
	}
	switch b.mode {
	case modeInertia:
		b.tickInertia(dt)
	case modeSpring:
		b.tickSpring(dt)
	}
}

func (b *Bridge) tickInertia(dt float64) {
	raw := b.inertia.Step(dt)
	clamped := b.cfg.Bounds.ClampPosition(raw)
	// Hitting a boundary kills that axis' momentum; the other axis glides on.
	if clamped.X != raw.X {
		b.inertia.Velocity.X = 0
	}
	if clamped.Y != raw.Y {
		b.inertia.Velocity.Y = 0
	}
	b.inertia.Position = clamped
	b.setTranslation(clamped, b.inertia.Velocity)
	b.notify()

	if b.inertia.AtRest() {
		b.settleOrSnap()
		return
	}
	b.schedule()
}

func (b *Bridge) tickSpring(dt float64) {
	if b.animXY {
		pos := b.cfg.Bounds.ClampPosition(b.springXY.Step(dt))
		b.setTranslation(pos, b.springXY.Velocity)
	}
	if b.animScale {
		b.transform.Scale = b.cfg.Bounds.Scale.Clamp(b.springScale.Step(dt))
	}
	if b.animRot {
		b.transform.Rotation = b.cfg.Bounds.Rotation.Clamp(b.springRot.Step(dt))
	}
	b.notify()

	settled := (!b.animXY || b.springXY.Settled()) &&
		(!b.animScale || b.springScale.Settled()) &&
		(!b.animRot || b.springRot.Settled())
	if settled {
		b.mode = modeIdle
		b.animXY, b.animScale, b.animRot = false, false, false
		b.transform.VelocityX = 0
		b.transform.VelocityY = 0
		return
	}
	b.schedule()
}

func (b *Bridge) setTranslation(pos, velocity vec.Vector2D) {
	b.transform.TranslateX = pos.X
	b.transform.TranslateY = pos.Y
	b.transform.VelocityX = velocity.X
	b.transform.VelocityY = velocity.Y
}

func (b *Bridge) schedule() {
	if b.tickQueued {
		return
	}
	b.tickHandle = b.sched.Schedule(b.tick)
	b.tickQueued = true
}

func (b *Bridge) stopAnimation() {
	if b.tickQueued {
		b.sched.Cancel(b.tickHandle)
		b.tickQueued = false
	}
	b.mode = modeIdle
	b.animXY, b.animScale, b.animRot = false, false, false
}

func (b *Bridge) notify() {
	if b.onChange == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("transform callback panicked", log.Any("panic", r))
		}
	}()
	b.onChange(b.transform)
}
