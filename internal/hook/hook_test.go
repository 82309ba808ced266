package hook

import (
	"testing"

	gohook "github.com/robotn/gohook"

	"smartinput/internal/keymap"
)

func TestTranslateLetters(t *testing.T) {
	ev, ok := translate(gohook.Event{Kind: gohook.KeyDown, Keychar: 'n'})
	if !ok || ev.Kind != keymap.KindLetter || ev.Char != 'n' || !ev.Press {
		t.Errorf("translate('n' down) = %+v, %v", ev, ok)
	}

	// Uppercase input is folded so the buffer stays lowercase.
	ev, ok = translate(gohook.Event{Kind: gohook.KeyDown, Keychar: 'N'})
	if !ok || ev.Kind != keymap.KindLetter || ev.Char != 'n' {
		t.Errorf("translate('N' down) = %+v, %v", ev, ok)
	}

	ev, ok = translate(gohook.Event{Kind: gohook.KeyUp, Keychar: 'n'})
	if !ok || ev.Press {
		t.Errorf("translate('n' up) = %+v, %v", ev, ok)
	}
}

func TestTranslateDigitsAndSpace(t *testing.T) {
	ev, ok := translate(gohook.Event{Kind: gohook.KeyDown, Keychar: '3'})
	if !ok || ev.Kind != keymap.KindDigit || ev.Char != '3' {
		t.Errorf("translate('3') = %+v, %v", ev, ok)
	}

	ev, ok = translate(gohook.Event{Kind: gohook.KeyDown, Keychar: ' '})
	if !ok || ev.Kind != keymap.KindSpace {
		t.Errorf("translate(space) = %+v, %v", ev, ok)
	}
}

func TestTranslateSpecialRawcodes(t *testing.T) {
	// Every rawcode in the platform table must win over the keychar.
	for raw, want := range specialKeys {
		ev, ok := translate(gohook.Event{Kind: gohook.KeyDown, Rawcode: raw, Keychar: 'x'})
		if !ok || ev.Kind != want {
			t.Errorf("translate(rawcode %#x) = %+v, want kind %v", raw, ev, want)
		}
	}
}

func TestTranslateKeyHoldIsPress(t *testing.T) {
	ev, ok := translate(gohook.Event{Kind: gohook.KeyHold, Keychar: 'a'})
	if !ok || !ev.Press {
		t.Errorf("translate(hold 'a') = %+v, %v; want press", ev, ok)
	}
}

func TestTranslateIgnoresMouse(t *testing.T) {
	if _, ok := translate(gohook.Event{Kind: gohook.MouseDown}); ok {
		t.Error("mouse events should not translate")
	}
}

func TestTranslateUnknownKeyIsOther(t *testing.T) {
	ev, ok := translate(gohook.Event{Kind: gohook.KeyDown, Keychar: ';'})
	if !ok || ev.Kind != keymap.KindOther {
		t.Errorf("translate(';') = %+v, %v; want other", ev, ok)
	}
}
