package gesture

import (
	"time"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// Key is a logical key press fed to the keyboard adapter. Adapters for
// concrete input layers (terminal, web) map their native key codes to these.
type Key string

const (
	KeyLeft         Key = "left"
	KeyRight        Key = "right"
	KeyUp           Key = "up"
	KeyDown         Key = "down"
	KeyEnter        Key = "enter"
	KeyPlus         Key = "plus"
	KeyMinus        Key = "minus"
	KeyBracketLeft  Key = "bracketLeft"
	KeyBracketRight Key = "bracketRight"
)

// KeyboardConfig tunes the synthesized gesture magnitudes.
type KeyboardConfig struct {
	// PanStep is the per-press pan distance.
	PanStep float64 `yaml:"panStep"`
	// SwipeVelocity is the synthetic velocity of a shift+arrow swipe.
	SwipeVelocity float64 `yaml:"swipeVelocity"`
	// PinchStep is the per-press scale delta for plus/minus.
	PinchStep float64 `yaml:"pinchStep"`
	// RotateStep is the per-press rotation in degrees for brackets.
	RotateStep float64 `yaml:"rotateStep"`
}

// DefaultKeyboardConfig returns the stock key magnitudes.
func DefaultKeyboardConfig() KeyboardConfig {
	return KeyboardConfig{
		PanStep:       20,
		SwipeVelocity: 500,
		PinchStep:     0.1,
		RotateStep:    15,
	}
}

// Keyboard translates key presses into synthetic gesture sequences so
// keyboard users drive the same subscribers as pointer users. Every
// synthesized event carries IsKeyboardGenerated.
//
// Arrows emit a pan began/changed/ended triple; shift+arrow emits a swipe;
// plus/minus emit a pinch triple; brackets emit a rotate triple; enter emits
// a tap.
type Keyboard struct {
	cfg      KeyboardConfig
	detector *Detector
	target   string
	// position is the virtual focus point panned by arrow keys.
	position vec.Vector2D
}

// NewKeyboard wires a keyboard adapter to a detector. Target names the
// element synthesized events report against.
func NewKeyboard(cfg KeyboardConfig, detector *Detector, target string) *Keyboard {
	d := DefaultKeyboardConfig()
	if cfg.PanStep == 0 {
		cfg.PanStep = d.PanStep
	}
	if cfg.SwipeVelocity == 0 {
		cfg.SwipeVelocity = d.SwipeVelocity
	}
	if cfg.PinchStep == 0 {
		cfg.PinchStep = d.PinchStep
	}
	if cfg.RotateStep == 0 {
		cfg.RotateStep = d.RotateStep
	}
	return &Keyboard{cfg: cfg, detector: detector, target: target}
}

// Position returns the current virtual focus point.
func (k *Keyboard) Position() vec.Vector2D { return k.position }

// SetPosition moves the virtual focus point without emitting events.
func (k *Keyboard) SetPosition(p vec.Vector2D) { k.position = p }

// HandleKey synthesizes the gesture sequence for one key press. Shift turns
// arrow pans into swipes.
func (k *Keyboard) HandleKey(key Key, shift bool, now time.Time) {
	switch key {
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		dir, delta := k.arrow(key)
		if shift {
			k.swipe(dir, delta, now)
			return
		}
		k.pan(dir, delta, now)
	case KeyEnter:
		k.tap(now)
	case KeyPlus:
		k.pinch(1+k.cfg.PinchStep, now)
	case KeyMinus:
		k.pinch(1-k.cfg.PinchStep, now)
	case KeyBracketRight:
		k.rotate(k.cfg.RotateStep, now)
	case KeyBracketLeft:
		k.rotate(-k.cfg.RotateStep, now)
	}
}

func (k *Keyboard) arrow(key Key) (Direction, vec.Vector2D) {
	switch key {
	case KeyLeft:
		return DirectionLeft, vec.New(-k.cfg.PanStep, 0)
	case KeyRight:
		return DirectionRight, vec.New(k.cfg.PanStep, 0)
	case KeyUp:
		return DirectionUp, vec.New(0, -k.cfg.PanStep)
	default:
		return DirectionDown, vec.New(0, k.cfg.PanStep)
	}
}

func (k *Keyboard) base(t Type, s State, now time.Time) EventData {
	return EventData{
		Type:                t,
		State:               s,
		Position:            k.position,
		InitialPosition:     k.position,
		Direction:           DirectionNone,
		Scale:               1,
		Target:              k.target,
		IsKeyboardGenerated: true,
		Timestamp:           now,
	}
}

func (k *Keyboard) pan(dir Direction, delta vec.Vector2D, now time.Time) {
	start := k.position
	k.position = k.position.Add(delta)

	began := k.base(TypePan, StateBegan, now)
	began.Position = start
	k.detector.Inject(began)

	changed := k.base(TypePan, StateChanged, now)
	changed.InitialPosition = start
	changed.Delta = delta
	changed.Distance = delta.Length()
	changed.Direction = dir
	k.detector.Inject(changed)

	ended := changed
	ended.State = StateEnded
	k.detector.Inject(ended)
}

func (k *Keyboard) swipe(dir Direction, delta vec.Vector2D, now time.Time) {
	ev := k.base(TypeSwipe, StateRecognized, now)
	ev.Delta = delta
	ev.Distance = delta.Length()
	ev.Direction = dir
	ev.Velocity = delta.Normalize().Scale(k.cfg.SwipeVelocity)
	k.detector.Inject(ev)
}

func (k *Keyboard) tap(now time.Time) {
	k.detector.Inject(k.base(TypeTap, StateRecognized, now))
}

func (k *Keyboard) pinch(scale float64, now time.Time) {
	began := k.base(TypePinch, StateBegan, now)
	k.detector.Inject(began)

	changed := k.base(TypePinch, StateChanged, now)
	changed.Scale = scale
	k.detector.Inject(changed)

	ended := changed
	ended.State = StateEnded
	k.detector.Inject(ended)
}

func (k *Keyboard) rotate(degrees float64, now time.Time) {
	began := k.base(TypeRotate, StateBegan, now)
	k.detector.Inject(began)

	changed := k.base(TypeRotate, StateChanged, now)
	changed.Rotation = degrees
	k.detector.Inject(changed)

	ended := changed
	ended.State = StateEnded
	k.detector.Inject(ended)
}
