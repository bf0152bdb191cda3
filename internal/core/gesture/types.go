// Package gesture classifies raw pointer streams (mouse, touch, pen) into
// discrete gestures with begin/change/end lifecycle semantics. The detector
// is a state machine driven entirely by event timestamps and an explicit
// Tick; it never reads the wall clock, so recognition is deterministic under
// test.
package gesture

import (
	"time"

	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

// Type identifies a gesture.
type Type string

const (
	TypeTap       Type = "tap"
	TypeDoubleTap Type = "doubleTap"
	TypeLongPress Type = "longPress"
	TypePan       Type = "pan"
	TypeSwipe     Type = "swipe"
	TypePinch     Type = "pinch"
	TypeRotate    Type = "rotate"
	TypeHover     Type = "hover"
)

// State is a gesture's lifecycle state. POSSIBLE transitions to BEGAN, then
// CHANGED zero or more times, then exactly one of ENDED, RECOGNIZED,
// CANCELLED, or FAILED, after which tracking for that gesture resets.
type State string

const (
	StatePossible   State = "possible"
	StateBegan      State = "began"
	StateChanged    State = "changed"
	StateEnded      State = "ended"
	StateCancelled  State = "cancelled"
	StateRecognized State = "recognized"
	StateFailed     State = "failed"
)

// Direction is a swipe/pan direction quantized to the dominant axis.
type Direction string

const (
	DirectionNone  Direction = "none"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

// Source is the input channel an event arrived on.
type Source string

const (
	SourceMouse    Source = "mouse"
	SourceTouch    Source = "touch"
	SourcePen      Source = "pen"
	SourceKeyboard Source = "keyboard"
)

// PointerKind is the raw pointer event type.
type PointerKind uint8

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
	PointerEnter
	PointerLeave
)

// PointerEvent is one raw input observation fed to the detector. ID
// distinguishes simultaneous pointers (touch points); mouse streams use a
// single constant id.
type PointerEvent struct {
	ID       int
	Kind     PointerKind
	Source   Source
	Position vec.Vector2D
	Target   string
	Time     time.Time
}

// EventData is the full record delivered to gesture subscribers. It is
// created fresh per callback invocation and never mutated after dispatch.
type EventData struct {
	Type  Type
	State State

	Position        vec.Vector2D
	InitialPosition vec.Vector2D
	// Delta is the movement since the gesture began.
	Delta vec.Vector2D
	// Velocity and Acceleration are finite differences over a short trailing
	// sample window, not just the last two samples.
	Velocity     vec.Vector2D
	Acceleration vec.Vector2D
	// Distance is the cumulative path length since the gesture began.
	Distance  float64
	Duration  time.Duration
	Direction Direction

	// Scale is the pinch factor relative to the inter-point distance at
	// BEGAN; 1 at BEGAN, >1 spreading, <1 pinching.
	Scale float64
	// Rotation is the two-point angle delta in degrees, normalized to
	// (-180, 180].
	Rotation float64

	Target              string
	IsKeyboardGenerated bool
	Timestamp           time.Time
}

// dominantDirection quantizes a vector to its dominant axis.
func dominantDirection(v vec.Vector2D) Direction {
	if v.IsZero() {
		return DirectionNone
	}
	ax, ay := v.X, v.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if ax >= ay {
		if v.X < 0 {
			return DirectionLeft
		}
		return DirectionRight
	}
	if v.Y < 0 {
		return DirectionUp
	}
	return DirectionDown
}
