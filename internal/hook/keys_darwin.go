//go:build darwin

package hook

import "smartinput/internal/keymap"

// specialKeys maps macOS virtual keycodes, which the hook reports as
// rawcodes on Darwin, to keymap kinds.
var specialKeys = map[uint16]keymap.Kind{
	0x35: keymap.KindEscape,     // kVK_Escape
	0x24: keymap.KindEnter,      // kVK_Return
	0x4C: keymap.KindEnter,      // kVK_ANSI_KeypadEnter
	0x33: keymap.KindBackspace,  // kVK_Delete
	0x38: keymap.KindShiftLeft,  // kVK_Shift
	0x3C: keymap.KindShiftRight, // kVK_RightShift
	0x3B: keymap.KindCtrlLeft,   // kVK_Control
	0x3E: keymap.KindCtrlRight,  // kVK_RightControl
	0x31: keymap.KindSpace,      // kVK_Space
}
