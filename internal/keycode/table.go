// Package keycode bundles the binary back-end's keycode space: the
// remapper firmware's own basic-keycode table, its modifier-combo names,
// and the parametrized wrapper codes (MO/DF/LT/MT/TD/M) the binary
// back-end builds on top of them.
//
// This table is an external collaborator's data, the same way a
// terminal's capability strings are: it is bundled wholesale rather than
// derived, because the numbers come from the firmware's own keycode
// space, not from anything this compiler computes.
package keycode

import (
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/rklerr"
)

// basic holds the standard USB HID keyboard usage IDs, with the three
// media keys folded in at the firmware's own extended-basic offsets
// (0x7f-0x81) the way QMK's own KC_MUTE/KC_VOLU/KC_VOLD do.
var basic = map[keys.Key]uint16{
	keys.A: 0x04, keys.B: 0x05, keys.C: 0x06, keys.D: 0x07, keys.E: 0x08,
	keys.F: 0x09, keys.G: 0x0A, keys.H: 0x0B, keys.I: 0x0C, keys.J: 0x0D,
	keys.K: 0x0E, keys.L: 0x0F, keys.M: 0x10, keys.N: 0x11, keys.O: 0x12,
	keys.P: 0x13, keys.Q: 0x14, keys.R: 0x15, keys.S: 0x16, keys.T: 0x17,
	keys.U: 0x18, keys.V: 0x19, keys.W: 0x1A, keys.X: 0x1B, keys.Y: 0x1C,
	keys.Z: 0x1D,

	keys.One: 0x1E, keys.Two: 0x1F, keys.Three: 0x20, keys.Four: 0x21,
	keys.Five: 0x22, keys.Six: 0x23, keys.Seven: 0x24, keys.Eight: 0x25,
	keys.Nine: 0x26, keys.Zero: 0x27,

	keys.Enter: 0x28, keys.Esc: 0x29, keys.Backspace: 0x2A, keys.Tab: 0x2B,
	keys.Space: 0x2C, keys.Minus: 0x2D, keys.Equal: 0x2E,
	keys.LeftBracket: 0x2F, keys.RightBracket: 0x30, keys.Backslash: 0x31,
	keys.Semicolon: 0x33, keys.Apostrophe: 0x34, keys.Grave: 0x35,
	keys.Comma: 0x36, keys.Dot: 0x37, keys.Slash: 0x38, keys.CapsLock: 0x39,

	keys.F1: 0x3A, keys.F2: 0x3B, keys.F3: 0x3C, keys.F4: 0x3D,
	keys.F5: 0x3E, keys.F6: 0x3F, keys.F7: 0x40, keys.F8: 0x41,
	keys.F9: 0x42, keys.F10: 0x43, keys.F11: 0x44, keys.F12: 0x45,

	keys.Print: 0x46, keys.ScrollLock: 0x47, keys.Pause: 0x48,

	keys.Insert: 0x49, keys.Home: 0x4A, keys.PageUp: 0x4B, keys.Delete: 0x4C,
	keys.End: 0x4D, keys.PageDown: 0x4E,
	keys.Right: 0x4F, keys.Left: 0x50, keys.Down: 0x51, keys.Up: 0x52,

	keys.Numlock: 0x53, keys.KpSlash: 0x54, keys.KpAsterisk: 0x55,
	keys.KpMinus: 0x56, keys.KpPlus: 0x57, keys.KpEnter: 0x58,
	keys.Kp1: 0x59, keys.Kp2: 0x5A, keys.Kp3: 0x5B, keys.Kp4: 0x5C,
	keys.Kp5: 0x5D, keys.Kp6: 0x5E, keys.Kp7: 0x5F, keys.Kp8: 0x60,
	keys.Kp9: 0x61, keys.Kp0: 0x62, keys.KpDot: 0x63,

	keys.Menu: 0x65,

	keys.F13: 0x68, keys.F14: 0x69, keys.F15: 0x6A, keys.F16: 0x6B,
	keys.F17: 0x6C, keys.F18: 0x6D, keys.F19: 0x6E, keys.F20: 0x6F,
	keys.F21: 0x70, keys.F22: 0x71, keys.F23: 0x72, keys.F24: 0x73,

	keys.KpEqual: 0x67,

	keys.LeftCtrl: 0xE0, keys.LeftShift: 0xE1, keys.LeftAlt: 0xE2,
	keys.LeftMeta: 0xE3, keys.RightCtrl: 0xE4, keys.RightShift: 0xE5,
	keys.RightAlt: 0xE6, keys.RightMeta: 0xE7,

	keys.VolumeMute: 0x7F, keys.VolumeUp: 0x80, keys.VolumeDown: 0x81,
}

// transparentCode and noneCode mirror the firmware's own reserved
// basic keycodes for a passthrough and a no-op slot.
const (
	transparentCode uint16 = 0x0001
	noneCode        uint16 = 0x0000
)

// Transparent is the basic keycode a firmware slot gets for a
// Transparent action.
func Transparent() uint16 { return transparentCode }

// None is the basic keycode a firmware slot gets for a NoAction action.
func None() uint16 { return noneCode }

// Encode returns k's basic keycode. Fn(n) keys, which have no physical
// firmware slot of their own, encode as None.
func Encode(k keys.Key) (uint16, error) {
	if _, ok := k.IsFn(); ok {
		return noneCode, nil
	}
	if code, ok := basic[k]; ok {
		return code, nil
	}
	return 0, &rklerr.UnknownKeyError{Name: k.String()}
}
