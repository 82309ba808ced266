// Package hook captures global keyboard events and translates them into
// keymap events for the engine.
package hook

import (
	"context"
	"time"
	"unicode"

	gohook "github.com/robotn/gohook"

	"smartinput/internal/keymap"
	"smartinput/internal/logging"
)

// Source delivers translated key events from the platform hook.
type Source struct {
	log    *logging.Logger
	events chan keymap.Event
}

// New creates a hook source. Start must be called before events flow.
func New(log *logging.Logger) *Source {
	if log == nil {
		log = logging.Default()
	}
	return &Source{
		log:    log,
		events: make(chan keymap.Event, 128),
	}
}

// Events returns the translated event stream. It is closed when the hook
// shuts down.
func (s *Source) Events() <-chan keymap.Event {
	return s.events
}

// Start installs the global hook and pumps events until the context is
// cancelled. It returns immediately; translation runs on its own goroutine.
func (s *Source) Start(ctx context.Context) {
	raw := gohook.Start()

	go func() {
		defer close(s.events)
		defer gohook.End()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				out, valid := translate(ev)
				if !valid {
					continue
				}
				select {
				case s.events <- out:
				default:
					// A stalled consumer must not back up the OS hook.
					s.log.Warn("event dropped, consumer too slow", "event", out.String())
				}
			}
		}
	}()
}

// translate maps a raw hook event onto the keymap model. Events that are not
// keyboard presses or releases are discarded.
func translate(ev gohook.Event) (keymap.Event, bool) {
	var press bool
	switch ev.Kind {
	case gohook.KeyDown, gohook.KeyHold:
		press = true
	case gohook.KeyUp:
		press = false
	default:
		return keymap.Event{}, false
	}

	out := keymap.Event{Press: press, When: time.Now()}

	if kind, ok := specialKeys[ev.Rawcode]; ok {
		out.Kind = kind
		return out, true
	}

	switch r := ev.Keychar; {
	case r >= 'a' && r <= 'z':
		out.Kind = keymap.KindLetter
		out.Char = r
	case r >= 'A' && r <= 'Z':
		out.Kind = keymap.KindLetter
		out.Char = unicode.ToLower(r)
	case r >= '0' && r <= '9':
		out.Kind = keymap.KindDigit
		out.Char = r
	case r == ' ':
		out.Kind = keymap.KindSpace
	case r == '\r' || r == '\n':
		out.Kind = keymap.KindEnter
	case r == '\b':
		out.Kind = keymap.KindBackspace
	case r == 0x1B:
		out.Kind = keymap.KindEscape
	default:
		out.Kind = keymap.KindOther
	}
	return out, true
}
