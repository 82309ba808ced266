//go:build linux

package ibus

import (
	"testing"

	"smartinput/internal/keymap"
)

func TestTranslateKeyvalLetters(t *testing.T) {
	ev, ok := translateKeyval('n', 0)
	if !ok || ev.Kind != keymap.KindLetter || ev.Char != 'n' || !ev.Press {
		t.Errorf("translateKeyval('n') = %+v, %v", ev, ok)
	}

	ev, ok = translateKeyval('N', 0)
	if !ok || ev.Char != 'n' {
		t.Errorf("translateKeyval('N') = %+v, %v; want lowercase", ev, ok)
	}

	ev, ok = translateKeyval('n', ReleaseMask)
	if !ok || ev.Press {
		t.Errorf("translateKeyval('n' release) = %+v, %v", ev, ok)
	}
}

func TestTranslateKeyvalSpecials(t *testing.T) {
	cases := []struct {
		keyval uint32
		want   keymap.Kind
	}{
		{gdkBackSpace, keymap.KindBackspace},
		{gdkReturn, keymap.KindEnter},
		{gdkKPEnter, keymap.KindEnter},
		{gdkEscape, keymap.KindEscape},
		{gdkShiftL, keymap.KindShiftLeft},
		{gdkShiftR, keymap.KindShiftRight},
		{gdkControlL, keymap.KindCtrlLeft},
		{gdkControlR, keymap.KindCtrlRight},
		{gdkSpace, keymap.KindSpace},
	}
	for _, tc := range cases {
		ev, ok := translateKeyval(tc.keyval, 0)
		if !ok || ev.Kind != tc.want {
			t.Errorf("translateKeyval(%#x) = %+v, %v; want %v", tc.keyval, ev, ok, tc.want)
		}
	}
}

func TestTranslateKeyvalIgnoresFunctionKeys(t *testing.T) {
	// F1 (0xffbe) and other non-character keysyms pass through untouched.
	if _, ok := translateKeyval(0xffbe, 0); ok {
		t.Error("F1 should not translate")
	}
}

func TestTranslateKeyvalDigits(t *testing.T) {
	ev, ok := translateKeyval('3', 0)
	if !ok || ev.Kind != keymap.KindDigit || ev.Char != '3' {
		t.Errorf("translateKeyval('3') = %+v, %v", ev, ok)
	}
}

func TestConsumesPassesModifiersThrough(t *testing.T) {
	if consumes(keymap.Press(keymap.KindCtrlLeft)) {
		t.Error("ctrl should pass through")
	}
	if consumes(keymap.Press(keymap.KindShiftLeft)) {
		t.Error("shift should pass through")
	}
	if !consumes(keymap.Letter('a')) {
		t.Error("letters should be consumed")
	}
}

func TestFormatCandidates(t *testing.T) {
	if got := formatCandidates(nil); got != "" {
		t.Errorf("formatCandidates(nil) = %q", got)
	}
	if got := formatCandidates([]string{"你好", "你"}); got != "1.你好 2.你" {
		t.Errorf("formatCandidates = %q", got)
	}
}
