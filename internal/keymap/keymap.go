// Package keymap defines the key identity model shared by all key sources.
//
// Every capture backend (global hook, IBus frontend, tests) translates its
// native events into this closed set of kinds so the engine can match
// exhaustively without knowing anything about platform keycodes.
package keymap

import (
	"fmt"
	"time"
	"unicode"
)

// Kind identifies a key as one of the categories the engine cares about.
type Kind uint8

const (
	// KindOther covers every key the engine ignores.
	KindOther Kind = iota

	// KindLetter is a printable Latin letter; Event.Char carries it.
	KindLetter

	// KindDigit is one of '0'-'9'; Event.Char carries it.
	KindDigit

	KindCtrlLeft
	KindCtrlRight
	KindShiftLeft
	KindShiftRight
	KindBackspace
	KindEscape
	KindSpace
	KindEnter
)

var kindNames = map[Kind]string{
	KindOther:      "other",
	KindLetter:     "letter",
	KindDigit:      "digit",
	KindCtrlLeft:   "ctrl-left",
	KindCtrlRight:  "ctrl-right",
	KindShiftLeft:  "shift-left",
	KindShiftRight: "shift-right",
	KindBackspace:  "backspace",
	KindEscape:     "escape",
	KindSpace:      "space",
	KindEnter:      "enter",
}

// String returns the stable name used in logs.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsCtrl reports whether the kind is a control modifier, left or right.
func (k Kind) IsCtrl() bool { return k == KindCtrlLeft || k == KindCtrlRight }

// IsShift reports whether the kind is a shift modifier, left or right.
func (k Kind) IsShift() bool { return k == KindShiftLeft || k == KindShiftRight }

// Event is a single press or release delivered to the engine.
type Event struct {
	// Kind classifies the key.
	Kind Kind

	// Char is the character for KindLetter and KindDigit, zero otherwise.
	Char rune

	// Press is true for key-down, false for key-up.
	Press bool

	// When is the capture timestamp. Zero means "now" to consumers that care.
	When time.Time
}

// String renders the event for debug logs.
func (e Event) String() string {
	dir := "release"
	if e.Press {
		dir = "press"
	}
	if e.Kind == KindLetter || e.Kind == KindDigit {
		return fmt.Sprintf("%s %s %q", e.Kind, dir, e.Char)
	}
	return fmt.Sprintf("%s %s", e.Kind, dir)
}

// FromChar builds a press event from a printable character, classifying it
// as letter, digit, space or other. Non-ASCII letters still count as letters
// so sources that deliver ü and friends keep working.
func FromChar(r rune, press bool) Event {
	switch {
	case unicode.IsLetter(r):
		return Event{Kind: KindLetter, Char: r, Press: press}
	case r >= '0' && r <= '9':
		return Event{Kind: KindDigit, Char: r, Press: press}
	case r == ' ':
		return Event{Kind: KindSpace, Press: press}
	default:
		return Event{Kind: KindOther, Press: press}
	}
}

// Press and Release are small test/construction helpers.

// Press builds a key-down event of the given kind.
func Press(k Kind) Event { return Event{Kind: k, Press: true} }

// Release builds a key-up event of the given kind.
func Release(k Kind) Event { return Event{Kind: k, Press: false} }

// Letter builds a letter press event.
func Letter(r rune) Event { return Event{Kind: KindLetter, Char: r, Press: true} }

// Digit builds a digit press event.
func Digit(r rune) Event { return Event{Kind: KindDigit, Char: r, Press: true} }
