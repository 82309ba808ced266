//go:build windows

package hook

import "smartinput/internal/keymap"

// specialKeys maps Win32 virtual-key codes, which the hook reports as
// rawcodes on Windows, to keymap kinds.
var specialKeys = map[uint16]keymap.Kind{
	0x1B: keymap.KindEscape,     // VK_ESCAPE
	0x0D: keymap.KindEnter,      // VK_RETURN
	0x08: keymap.KindBackspace,  // VK_BACK
	0xA0: keymap.KindShiftLeft,  // VK_LSHIFT
	0xA1: keymap.KindShiftRight, // VK_RSHIFT
	0xA2: keymap.KindCtrlLeft,   // VK_LCONTROL
	0xA3: keymap.KindCtrlRight,  // VK_RCONTROL
	0x10: keymap.KindShiftLeft,  // VK_SHIFT (unsided)
	0x11: keymap.KindCtrlLeft,   // VK_CONTROL (unsided)
	0x20: keymap.KindSpace,      // VK_SPACE
}
