// Command motion-demo is a terminal playground for the engine: drag the
// card with the mouse (inertial release, snap points), drive it with the
// keyboard adapter (arrows pan, shift+arrows swipe, +/- zoom, [ ] rotate),
// and watch a handful of bodies bounce in the physics world behind it.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/VeerOneGPT/galileo-motion/internal/core/animation"
	"github.com/VeerOneGPT/galileo-motion/internal/core/collision"
	"github.com/VeerOneGPT/galileo-motion/internal/core/gesture"
	"github.com/VeerOneGPT/galileo-motion/internal/core/physics"
	"github.com/VeerOneGPT/galileo-motion/internal/injector"
	"github.com/VeerOneGPT/galileo-motion/pkg/vec"
)

const frame = 1.0 / 60.0

func main() {
	configPath := flag.String("config", "", "engine config file (YAML)")
	flag.Parse()

	eng, err := injector.NewEngine(injector.ConfigPath(*configPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "engine:", err)
		os.Exit(1)
	}
	defer eng.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	if err = screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "screen init:", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()

	width, height := screen.Size()
	seedWorld(eng.World, float64(width), float64(height))

	kb := gesture.NewKeyboard(eng.Config.Keyboard, eng.Detector, "card")

	card := eng.Bridge.GetTransform()
	eng.Bridge.OnTransformChange(func(tr animation.Transform) { card = tr })

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var dragging bool
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch tev := ev.(type) {
			case *tcell.EventKey:
				if quitKey(tev) {
					return
				}
				handleKey(kb, tev)
			case *tcell.EventMouse:
				dragging = handleMouse(eng.Detector, tev, dragging)
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			eng.Detector.Tick(now)
			eng.Scheduler.Advance(frame)
			eng.World.Step(frame)
			draw(screen, eng.World, card, dragging)
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == 'q'
}

func handleKey(kb *gesture.Keyboard, ev *tcell.EventKey) {
	now := time.Now()
	shift := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyLeft:
		kb.HandleKey(gesture.KeyLeft, shift, now)
	case tcell.KeyRight:
		kb.HandleKey(gesture.KeyRight, shift, now)
	case tcell.KeyUp:
		kb.HandleKey(gesture.KeyUp, shift, now)
	case tcell.KeyDown:
		kb.HandleKey(gesture.KeyDown, shift, now)
	case tcell.KeyEnter:
		kb.HandleKey(gesture.KeyEnter, false, now)
	case tcell.KeyRune:
		switch ev.Rune() {
		case '+', '=':
			kb.HandleKey(gesture.KeyPlus, false, now)
		case '-':
			kb.HandleKey(gesture.KeyMinus, false, now)
		case '[':
			kb.HandleKey(gesture.KeyBracketLeft, false, now)
		case ']':
			kb.HandleKey(gesture.KeyBracketRight, false, now)
		}
	}
}

// handleMouse maps tcell's level-triggered button state onto pointer
// down/move/up edges.
func handleMouse(d *gesture.Detector, ev *tcell.EventMouse, dragging bool) bool {
	x, y := ev.Position()
	pos := vec.New(float64(x), float64(y))
	now := time.Now()
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !dragging:
		d.HandleEvent(gesture.PointerEvent{ID: 1, Kind: gesture.PointerDown, Source: gesture.SourceMouse, Position: pos, Target: "card", Time: now})
		return true
	case pressed:
		d.HandleEvent(gesture.PointerEvent{ID: 1, Kind: gesture.PointerMove, Source: gesture.SourceMouse, Position: pos, Target: "card", Time: now})
		return true
	case dragging:
		d.HandleEvent(gesture.PointerEvent{ID: 1, Kind: gesture.PointerUp, Source: gesture.SourceMouse, Position: pos, Target: "card", Time: now})
		return false
	default:
		d.HandleEvent(gesture.PointerEvent{ID: 1, Kind: gesture.PointerMove, Source: gesture.SourceMouse, Position: pos, Target: "card", Time: now})
		return false
	}
}

// seedWorld walls the screen and drops a few elastic circles into it.
func seedWorld(w *physics.World, width, height float64) {
	walls := []physics.BodyDef{
		{Shape: collision.Rectangle{Width: width, Height: 1}, Position: vec.New(width/2, 0), IsStatic: true},
		{Shape: collision.Rectangle{Width: width, Height: 1}, Position: vec.New(width/2, height-1), IsStatic: true},
		{Shape: collision.Rectangle{Width: 1, Height: height}, Position: vec.New(0, height/2), IsStatic: true},
		{Shape: collision.Rectangle{Width: 1, Height: height}, Position: vec.New(width-1, height/2), IsStatic: true},
	}
	for _, def := range walls {
		if _, err := w.AddBody(def); err != nil {
			panic(err)
		}
	}

	seeds := []struct {
		pos vec.Vector2D
		vel vec.Vector2D
	}{
		{vec.New(width * 0.25, height * 0.3), vec.New(14, 9)},
		{vec.New(width * 0.6, height * 0.5), vec.New(-11, 6)},
		{vec.New(width * 0.4, height * 0.7), vec.New(8, -12)},
	}
	for _, s := range seeds {
		_, err := w.AddBody(physics.BodyDef{
			Shape:       collision.Circle{Radius: 1},
			Position:    s.pos,
			Velocity:    s.vel,
			Restitution: 1,
		})
		if err != nil {
			panic(err)
		}
	}
}

func draw(screen tcell.Screen, w *physics.World, card animation.Transform, dragging bool) {
	screen.Clear()
	width, height := screen.Size()

	ballStyle := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for _, b := range w.Bodies() {
		if b.IsStatic {
			continue
		}
		x, y := int(b.Position.X), int(b.Position.Y)
		if x >= 0 && x < width && y >= 0 && y < height {
			screen.SetContent(x, y, 'o', nil, ballStyle)
		}
	}

	cardStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	if dragging {
		cardStyle = cardStyle.Bold(true)
	}
	cx, cy := int(card.TranslateX)+width/2, int(card.TranslateY)+height/2
	for i, r := range "[CARD]" {
		x := cx + i - 3
		if x >= 0 && x < width && cy >= 0 && cy < height {
			screen.SetContent(x, cy, r, nil, cardStyle)
		}
	}

	status := fmt.Sprintf("card=(%.0f,%.0f) scale=%.2f rot=%.0f  drag card with mouse, arrows pan, q quits",
		card.TranslateX, card.TranslateY, card.Scale, card.Rotation)
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, r := range status {
		if i >= width {
			break
		}
		screen.SetContent(i, height-1, r, nil, statusStyle)
	}
	screen.Show()
}
