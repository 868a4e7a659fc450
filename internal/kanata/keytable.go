// Package kanata emits the textual remapper configuration back-end: a
// defsrc line, one deflayermap block per layer, and a pooled
// defoverridesv2 block.
package kanata

import (
	"fmt"

	"github.com/rkl-go/rkl/internal/keys"
)

func keyToKanata(k keys.Key) string {
	if n, ok := k.IsFn(); ok {
		if n == 1 {
			return "fn"
		}
		return fmt.Sprintf("fn%d", n)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return k.String()
}

var keyNames = map[keys.Key]string{
	keys.F13: "f13", keys.F14: "f14", keys.F15: "f15", keys.F16: "f16",
	keys.F17: "f17", keys.F18: "f18", keys.F19: "f19", keys.F20: "f20",
	keys.F21: "f21", keys.F22: "f22", keys.F23: "f23", keys.F24: "f24",
	keys.VolumeUp: "volu", keys.VolumeDown: "vold", keys.VolumeMute: "mute",

	keys.Esc: "esc", keys.F1: "f1", keys.F2: "f2", keys.F3: "f3", keys.F4: "f4",
	keys.F5: "f5", keys.F6: "f6", keys.F7: "f7", keys.F8: "f8", keys.F9: "f9",
	keys.F10: "f10", keys.F11: "f11", keys.F12: "f12",
	keys.Print: "prnt", keys.ScrollLock: "sclk", keys.Pause: "pause",
	keys.Grave: "grv",

	keys.Zero: "0", keys.One: "1", keys.Two: "2", keys.Three: "3", keys.Four: "4",
	keys.Five: "5", keys.Six: "6", keys.Seven: "7", keys.Eight: "8", keys.Nine: "9",

	keys.Minus: "-", keys.Equal: "=", keys.Backspace: "bks", keys.Insert: "ins",
	keys.Home: "home", keys.PageUp: "pgup", keys.PageDown: "pgdn", keys.Numlock: "nlck",

	keys.Tab: "tab", keys.Q: "q", keys.W: "w", keys.E: "e", keys.R: "r", keys.T: "t",
	keys.Y: "y", keys.U: "u", keys.I: "i", keys.O: "o", keys.P: "p",
	keys.LeftBracket: "[", keys.RightBracket: "]", keys.Backslash: "\\",
	keys.Delete: "del", keys.End: "end",

	keys.CapsLock: "caps", keys.A: "a", keys.S: "s", keys.D: "d", keys.F: "f",
	keys.G: "g", keys.H: "h", keys.J: "j", keys.K: "k", keys.L: "l",
	keys.Semicolon: ";", keys.Apostrophe: "'", keys.Enter: "enter",

	keys.LeftShift: "lsft", keys.Z: "z", keys.X: "x", keys.C: "c", keys.V: "v",
	keys.B: "b", keys.N: "n", keys.M: "m", keys.Comma: ",", keys.Dot: ".",
	keys.Slash: "/", keys.RightShift: "rsft",

	keys.LeftCtrl: "lctl", keys.LeftMeta: "lmeta", keys.LeftAlt: "lalt",
	keys.Space: "spc", keys.RightAlt: "ralt", keys.RightMeta: "rmeta",
	keys.Menu: "menu", keys.RightCtrl: "rctl",
	keys.Left: "left", keys.Down: "down", keys.Up: "up", keys.Right: "right",

	keys.Kp0: "kp0", keys.Kp1: "kp1", keys.Kp2: "kp2", keys.Kp3: "kp3",
	keys.Kp4: "kp4", keys.Kp5: "kp5", keys.Kp6: "kp6", keys.Kp7: "kp7",
	keys.Kp8: "kp8", keys.Kp9: "kp9", keys.KpDot: "kp.", keys.KpEnter: "kprt",
	keys.KpPlus: "kp+", keys.KpSlash: "kp/", keys.KpAsterisk: "kp*",
	keys.KpMinus: "kp-", keys.KpEqual: "kp=",
}
