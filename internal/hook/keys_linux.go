//go:build linux

package hook

import "smartinput/internal/keymap"

// specialKeys maps X11 keysyms, which the hook reports as rawcodes on Linux,
// to keymap kinds.
var specialKeys = map[uint16]keymap.Kind{
	0xFF1B: keymap.KindEscape,     // XK_Escape
	0xFF0D: keymap.KindEnter,      // XK_Return
	0xFF8D: keymap.KindEnter,      // XK_KP_Enter
	0xFF08: keymap.KindBackspace,  // XK_BackSpace
	0xFFE1: keymap.KindShiftLeft,  // XK_Shift_L
	0xFFE2: keymap.KindShiftRight, // XK_Shift_R
	0xFFE3: keymap.KindCtrlLeft,   // XK_Control_L
	0xFFE4: keymap.KindCtrlRight,  // XK_Control_R
	0x0020: keymap.KindSpace,      // XK_space
}
