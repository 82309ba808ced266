// Package engine implements the input buffer and mode state machine.
//
// All key events funnel through HandleEvent, one at a time. The engine owns
// the buffer, the current mode and the candidate list; everything it talks
// to (candidate lookup, presentation sink, tray, output) is injected, so the
// state machine itself has no platform dependencies and tests drive it with
// plain events.
package engine

import (
	"context"
	"sync"
	"time"

	"smartinput/internal/classify"
	"smartinput/internal/keymap"
	"smartinput/internal/logging"
	"smartinput/internal/ui"
)

// DefaultTopK is the candidate count when the config leaves it zero.
const DefaultTopK = 5

// Lookup produces ranked Hanzi candidates for a pinyin buffer. A nil Lookup
// means candidates are always empty.
type Lookup func(pinyin string, topK int) []string

// TrayNotifier receives mode-change notifications. There is no feedback path
// back into the engine.
type TrayNotifier interface {
	ModeChanged(classify.Mode)
}

// OutputSink receives committed text, in commit order.
type OutputSink interface {
	Commit(text string)
}

// Learner is told which candidate the user picked by number, so selections
// can rank higher next time.
type Learner interface {
	Selected(pinyin, word string)
}

// Config wires the engine's collaborators.
type Config struct {
	TopK    int
	Lookup  Lookup
	UI      ui.Sink
	Tray    TrayNotifier
	Output  OutputSink
	Learner Learner

	// OnStop fires once when a stop key (Escape) is seen.
	OnStop func()

	Logger *logging.Logger
}

// Status is a read-only snapshot for the IPC surface.
type Status struct {
	Mode       string    `json:"mode"`
	Buffer     string    `json:"buffer"`
	Candidates []string  `json:"candidates"`
	Keystrokes uint64    `json:"keystrokes"`
	Commits    uint64    `json:"commits"`
	Switches   uint64    `json:"switches"`
	StartedAt  time.Time `json:"started_at"`
}

// Engine is the state machine. The zero value is not usable; use New.
type Engine struct {
	mu sync.Mutex

	mode       classify.Mode
	buf        []rune
	candidates []string

	ctrlHeld  bool
	shiftHeld bool
	stopped   bool

	topK    int
	lookup  Lookup
	ui      ui.Sink
	tray    TrayNotifier
	out     OutputSink
	learner Learner
	onStop  func()
	log     *logging.Logger

	keystrokes uint64
	commits    uint64
	switches   uint64
	startedAt  time.Time
}

// New creates an engine in the Unknown rest state.
func New(cfg Config) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Engine{
		mode:      classify.Unknown,
		topK:      cfg.TopK,
		lookup:    cfg.Lookup,
		ui:        cfg.UI,
		tray:      cfg.Tray,
		out:       cfg.Output,
		learner:   cfg.Learner,
		onStop:    cfg.OnStop,
		log:       cfg.Logger,
		startedAt: time.Now(),
	}
}

// Run consumes events until the channel closes, the context is cancelled or
// a stop key arrives.
func (e *Engine) Run(ctx context.Context, events <-chan keymap.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if e.HandleEvent(ev) {
				return
			}
		}
	}
}

// HandleEvent processes one key event and reports whether a global stop was
// signalled. Events are expected serialized; the lock only exists so the IPC
// and tray surfaces can take snapshots and force switches concurrently.
func (e *Engine) HandleEvent(ev keymap.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !ev.Press {
		return e.handleRelease(ev)
	}
	e.keystrokes++
	return e.handlePress(ev)
}

func (e *Engine) handleRelease(ev keymap.Event) bool {
	switch {
	case ev.Kind.IsCtrl():
		e.ctrlHeld = false
	case ev.Kind.IsShift():
		e.shiftHeld = false
	case ev.Kind == keymap.KindEscape:
		e.stopLocked()
		return true
	}
	return false
}

func (e *Engine) handlePress(ev keymap.Event) bool {
	switch {
	case ev.Kind.IsCtrl():
		e.ctrlHeld = true

	case ev.Kind.IsShift():
		e.shiftHeld = true
		if e.ctrlHeld {
			e.forceSwitchLocked()
		}

	case ev.Kind == keymap.KindBackspace:
		e.backspaceLocked()

	case ev.Kind == keymap.KindEscape:
		e.stopLocked()
		return true

	case ev.Kind == keymap.KindLetter:
		e.letterLocked(ev.Char)

	case ev.Kind == keymap.KindSpace, ev.Kind == keymap.KindEnter:
		e.commitLocked()

	case ev.Kind == keymap.KindDigit:
		e.digitLocked(ev.Char)

	default:
		// The hook suppresses delivery globally, so unhandled keys are
		// dropped rather than re-injected.
		e.log.Debug("dropped key", "event", ev.String())
	}
	return false
}

// forceSwitchLocked implements Ctrl+Shift: Pinyin<->English, Unknown->Pinyin.
// The buffer and candidates are always cleared.
func (e *Engine) forceSwitchLocked() {
	switch e.mode {
	case classify.Pinyin:
		e.mode = classify.English
	default:
		e.mode = classify.Pinyin
	}
	e.buf = e.buf[:0]
	e.candidates = nil
	e.switches++

	e.pushUILocked(false)
	e.notifyTrayLocked(e.mode)
	e.log.Info("mode switched", "mode", e.mode.String())
}

func (e *Engine) letterLocked(r rune) {
	e.buf = append(e.buf, r)

	prev := e.mode
	e.mode = classify.Classify(string(e.buf))
	if e.mode != prev {
		e.notifyTrayLocked(e.mode)
	}

	e.refreshCandidatesLocked()
	e.log.Debug("buffer changed",
		"buffer", string(e.buf),
		"mode", e.mode.String(),
		"candidates", len(e.candidates))
}

// backspaceLocked removes the last character while in Pinyin mode with a
// non-empty buffer. Anything else falls through unhandled.
func (e *Engine) backspaceLocked() {
	if e.mode != classify.Pinyin || len(e.buf) == 0 {
		return
	}

	e.buf = e.buf[:len(e.buf)-1]

	prev := e.mode
	if len(e.buf) > 0 {
		e.mode = classify.Classify(string(e.buf))
	} else {
		e.mode = classify.Unknown
	}
	if e.mode != prev && e.mode != classify.Unknown {
		e.notifyTrayLocked(e.mode)
	}

	e.refreshCandidatesLocked()
	e.log.Debug("backspace", "buffer", string(e.buf), "mode", e.mode.String())
}

// refreshCandidatesLocked recomputes candidates from the buffer and emits the
// matching UI state. Candidates exist only in Pinyin mode.
func (e *Engine) refreshCandidatesLocked() {
	if e.mode == classify.Pinyin && len(e.buf) > 0 {
		e.candidates = e.lookupSafe(string(e.buf))
		e.pushUILocked(true)
		return
	}
	e.candidates = nil
	e.pushUILocked(false)
}

// commitLocked handles Space/Enter: first candidate in Pinyin mode (raw
// buffer when the lookup came back empty), raw buffer in English mode.
func (e *Engine) commitLocked() {
	if len(e.buf) == 0 {
		return
	}

	output := string(e.buf)
	if e.mode == classify.Pinyin && len(e.candidates) > 0 {
		output = e.candidates[0]
	}
	e.emitLocked(output)
	e.resetLocked()
}

// digitLocked handles candidate selection with '1'-'5'. Anything out of
// range, out of mode or out of candidates is a no-op.
func (e *Engine) digitLocked(ch rune) {
	if ch < '1' || ch > '5' {
		return
	}
	if e.mode != classify.Pinyin || len(e.candidates) == 0 {
		return
	}
	idx := int(ch - '1')
	if idx >= len(e.candidates) {
		return
	}

	word := e.candidates[idx]
	if e.learner != nil {
		e.learner.Selected(string(e.buf), word)
	}
	e.emitLocked(word)
	e.resetLocked()
}

func (e *Engine) emitLocked(text string) {
	if e.out != nil {
		e.out.Commit(text)
	}
	e.commits++
	e.log.Info("committed", "text", text, "mode", e.mode.String())
}

// resetLocked returns the machine to the Unknown rest state after a commit.
func (e *Engine) resetLocked() {
	e.buf = e.buf[:0]
	e.candidates = nil
	e.mode = classify.Unknown
	e.pushUILocked(false)
}

func (e *Engine) stopLocked() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.log.Info("stop signalled")
	if e.onStop != nil {
		e.onStop()
	}
}

func (e *Engine) pushUILocked(visible bool) {
	if e.ui == nil {
		return
	}
	cands := make([]string, len(e.candidates))
	copy(cands, e.candidates)
	e.ui.Push(ui.State{
		Visible:    visible,
		Buffer:     string(e.buf),
		Candidates: cands,
	})
}

func (e *Engine) notifyTrayLocked(mode classify.Mode) {
	if e.tray == nil || mode == classify.Unknown {
		return
	}
	e.tray.ModeChanged(mode)
}

// lookupSafe contains lookup failures: a panic or a nil Lookup both degrade
// to no candidates.
func (e *Engine) lookupSafe(pinyin string) (out []string) {
	if e.lookup == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("candidate lookup failed", "pinyin", pinyin, "panic", r)
			out = nil
		}
	}()
	return e.lookup(pinyin, e.topK)
}

// ForceSwitch toggles the mode exactly like Ctrl+Shift. It exists for the
// IPC surface and returns the new mode.
func (e *Engine) ForceSwitch() classify.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.forceSwitchLocked()
	return e.mode
}

// Mode returns the current mode.
func (e *Engine) Mode() classify.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Snapshot returns a copy of the observable state.
func (e *Engine) Snapshot() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	cands := make([]string, len(e.candidates))
	copy(cands, e.candidates)
	return Status{
		Mode:       e.mode.String(),
		Buffer:     string(e.buf),
		Candidates: cands,
		Keystrokes: e.keystrokes,
		Commits:    e.commits,
		Switches:   e.switches,
		StartedAt:  e.startedAt,
	}
}
