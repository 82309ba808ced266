//go:build linux

// Package ibus exposes the engine as an IBus input-method frontend over
// D-Bus. The global hook owns capture on most setups; this frontend is the
// integration path for desktops where IBus mediates all text input.
package ibus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"smartinput/internal/engine"
	"smartinput/internal/keymap"
	"smartinput/internal/logging"
	"smartinput/internal/ui"
)

// IBus D-Bus constants
const (
	FactoryInterface = "org.freedesktop.IBus.Factory"
	EngineInterface  = "org.freedesktop.IBus.Engine"
	BusName          = "io.smartinput.IBus"
	EngineName       = "smartinput"
)

// IBus key event state masks
const (
	ShiftMask   uint32 = 1 << 0
	ControlMask uint32 = 1 << 2
	ReleaseMask uint32 = 1 << 30
)

// GDK key symbols the engine cares about
const (
	gdkBackSpace = 0xff08
	gdkReturn    = 0xff0d
	gdkKPEnter   = 0xff8d
	gdkEscape    = 0xff1b
	gdkShiftL    = 0xffe1
	gdkShiftR    = 0xffe2
	gdkControlL  = 0xffe3
	gdkControlR  = 0xffe4
	gdkSpace     = 0x0020
)

// Frontend bridges IBus key events into the engine and engine state back out
// as preedit and commit signals.
type Frontend struct {
	conn   *dbus.Conn
	engine *engine.Engine
	log    *logging.Logger

	mu         sync.Mutex
	enabled    bool
	focused    bool
	enginePath dbus.ObjectPath
}

// New creates a frontend. SetEngine must be called before Start; the split
// exists because the engine wants the frontend as its UI and output sink.
func New(log *logging.Logger) *Frontend {
	if log == nil {
		log = logging.Default()
	}
	return &Frontend{
		log:        log,
		enginePath: dbus.ObjectPath("/org/freedesktop/IBus/Engine/smartinput"),
	}
}

// SetEngine attaches the engine that key events feed into.
func (f *Frontend) SetEngine(eng *engine.Engine) {
	f.engine = eng
}

// Start connects to the session bus and registers the engine factory.
func (f *Frontend) Start(ctx context.Context) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect to session bus: %w", err)
	}
	f.conn = conn

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("bus name already taken")
	}

	factory := &factory{frontend: f}
	if err := conn.Export(factory, "/org/freedesktop/IBus/Factory", FactoryInterface); err != nil {
		return fmt.Errorf("export factory: %w", err)
	}
	if err := conn.Export(f, f.enginePath, EngineInterface); err != nil {
		return fmt.Errorf("export engine: %w", err)
	}

	go func() {
		<-ctx.Done()
		f.Stop()
	}()

	f.log.Info("ibus frontend started", "bus_name", BusName)
	return nil
}

// Stop releases the bus connection.
func (f *Frontend) Stop() error {
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

// ProcessKeyEvent handles key press/release events from IBus. Returning true
// consumes the key; keys the engine does not act on pass through.
func (f *Frontend) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	f.mu.Lock()
	active := f.enabled && f.focused
	f.mu.Unlock()
	if !active {
		return false, nil
	}

	ev, handled := translateKeyval(keyval, state)
	if !handled {
		return false, nil
	}

	f.engine.HandleEvent(ev)
	return consumes(ev), nil
}

// translateKeyval maps an IBus keyval onto the keymap model. The second
// return is false for keys the engine has no interest in.
func translateKeyval(keyval, state uint32) (keymap.Event, bool) {
	press := state&ReleaseMask == 0
	out := keymap.Event{Press: press}

	switch keyval {
	case gdkBackSpace:
		out.Kind = keymap.KindBackspace
	case gdkReturn, gdkKPEnter:
		out.Kind = keymap.KindEnter
	case gdkEscape:
		out.Kind = keymap.KindEscape
	case gdkShiftL:
		out.Kind = keymap.KindShiftLeft
	case gdkShiftR:
		out.Kind = keymap.KindShiftRight
	case gdkControlL:
		out.Kind = keymap.KindCtrlLeft
	case gdkControlR:
		out.Kind = keymap.KindCtrlRight
	case gdkSpace:
		out.Kind = keymap.KindSpace
	default:
		r := keyvalToRune(keyval)
		if r == 0 {
			return keymap.Event{}, false
		}
		ev := keymap.FromChar(lower(r), press)
		if ev.Kind == keymap.KindOther {
			return keymap.Event{}, false
		}
		return ev, true
	}
	return out, true
}

// consumes reports whether an event should be swallowed rather than passed
// through to the application. Modifiers always pass through so shortcuts in
// other applications keep working.
func consumes(ev keymap.Event) bool {
	return !ev.Kind.IsCtrl() && !ev.Kind.IsShift()
}

// keyvalToRune converts an X11 keysym to a Unicode rune.
func keyvalToRune(keyval uint32) rune {
	// Direct Unicode mapping for Latin-1 range
	if keyval >= 0x20 && keyval <= 0x7e {
		return rune(keyval)
	}
	if keyval >= 0xa0 && keyval <= 0xff {
		return rune(keyval)
	}
	// Unicode keysyms (0x01000000 + codepoint)
	if keyval >= 0x01000000 {
		return rune(keyval - 0x01000000)
	}
	return 0
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Push implements ui.Sink: engine state becomes preedit and auxiliary text
// signals on the bus.
func (f *Frontend) Push(st ui.State) {
	if f.conn == nil {
		return
	}

	if !st.Visible {
		f.emit("HidePreeditText")
		f.emit("HideAuxiliaryText")
		return
	}

	f.emit("UpdatePreeditText", st.Buffer, uint32(len(st.Buffer)), true)
	f.emit("UpdateAuxiliaryText", formatCandidates(st.Candidates), len(st.Candidates) > 0)
}

// Commit implements engine.OutputSink by emitting a CommitText signal.
func (f *Frontend) Commit(text string) {
	if f.conn == nil {
		return
	}
	f.emit("CommitText", text)
}

func (f *Frontend) emit(member string, args ...any) {
	if err := f.conn.Emit(f.enginePath, EngineInterface+"."+member, args...); err != nil {
		f.log.Debug("signal emit failed", "member", member, "error", err)
	}
}

// formatCandidates renders the numbered candidate row shown under the
// preedit, e.g. "1.你好 2.你 3.尼".
func formatCandidates(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range candidates {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d.%s", i+1, c)
	}
	return b.String()
}

// FocusIn is called when the engine gains input focus.
func (f *Frontend) FocusIn() *dbus.Error {
	f.mu.Lock()
	f.focused = true
	f.mu.Unlock()
	return nil
}

// FocusOut is called when the engine loses input focus.
func (f *Frontend) FocusOut() *dbus.Error {
	f.mu.Lock()
	f.focused = false
	f.mu.Unlock()
	return nil
}

// Enable is called when the engine is enabled.
func (f *Frontend) Enable() *dbus.Error {
	f.mu.Lock()
	f.enabled = true
	f.mu.Unlock()
	return nil
}

// Disable is called when the engine is disabled.
func (f *Frontend) Disable() *dbus.Error {
	f.mu.Lock()
	f.enabled = false
	f.mu.Unlock()
	return nil
}

// Reset resets the engine state.
func (f *Frontend) Reset() *dbus.Error {
	return nil
}

// SetCapabilities informs about client capabilities.
func (f *Frontend) SetCapabilities(caps uint32) *dbus.Error { return nil }

// SetCursorLocation informs about cursor position.
func (f *Frontend) SetCursorLocation(x, y, w, h int32) *dbus.Error { return nil }

// factory implements the IBus Factory D-Bus interface.
type factory struct {
	frontend *Frontend
}

// CreateEngine creates an engine instance for IBus.
func (fa *factory) CreateEngine(engineName string) (dbus.ObjectPath, *dbus.Error) {
	if engineName != EngineName {
		return "", dbus.NewError("org.freedesktop.IBus.NoEngine",
			[]interface{}{"Unknown engine: " + engineName})
	}
	return fa.frontend.enginePath, nil
}
