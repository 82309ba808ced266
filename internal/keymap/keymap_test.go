package keymap

import "testing"

func TestFromChar(t *testing.T) {
	cases := []struct {
		in   rune
		kind Kind
		char rune
	}{
		{'a', KindLetter, 'a'},
		{'Z', KindLetter, 'Z'},
		{'ü', KindLetter, 'ü'},
		{'3', KindDigit, '3'},
		{'0', KindDigit, '0'},
		{' ', KindSpace, 0},
		{'-', KindOther, 0},
		{'.', KindOther, 0},
	}

	for _, tc := range cases {
		ev := FromChar(tc.in, true)
		if ev.Kind != tc.kind {
			t.Errorf("FromChar(%q): kind = %v, want %v", tc.in, ev.Kind, tc.kind)
		}
		if ev.Char != tc.char {
			t.Errorf("FromChar(%q): char = %q, want %q", tc.in, ev.Char, tc.char)
		}
		if !ev.Press {
			t.Errorf("FromChar(%q): expected press event", tc.in)
		}
	}
}

func TestModifierPredicates(t *testing.T) {
	if !KindCtrlLeft.IsCtrl() || !KindCtrlRight.IsCtrl() {
		t.Error("ctrl kinds should report IsCtrl")
	}
	if !KindShiftLeft.IsShift() || !KindShiftRight.IsShift() {
		t.Error("shift kinds should report IsShift")
	}
	if KindShiftLeft.IsCtrl() || KindCtrlLeft.IsShift() || KindLetter.IsCtrl() {
		t.Error("predicates should not cross over")
	}
}

func TestEventString(t *testing.T) {
	if got := Letter('n').String(); got != `letter press 'n'` {
		t.Errorf("unexpected String: %s", got)
	}
	if got := Release(KindEscape).String(); got != "escape release" {
		t.Errorf("unexpected String: %s", got)
	}
}
