// Package keys defines the fixed set of physical keys the compiler knows
// about, together with the short and verbose name tables used to parse
// them out of source text.
package keys

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rkl-go/rkl/internal/rklerr"
)

// Key is a physical key, stored as a small int so values are cheap to
// compare, hash, and hold in a bitset.
type Key int16

// Fn rows (Fn(1)..Fn(24) in the original model) are represented as a
// contiguous block starting at fnBase, keyed by the numeric suffix.
const fnBase Key = 1000

// FnKey returns the Key for Fn(n), n in [1, 24].
func FnKey(n uint8) Key { return fnBase + Key(n) }

// IsFn reports whether k is one of the Fn(n) keys, returning n when true.
func (k Key) IsFn() (n uint8, ok bool) {
	if k >= fnBase+1 && k <= fnBase+24 {
		return uint8(k - fnBase), true
	}
	return 0, false
}

const (
	F13 Key = iota
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24
	VolumeUp
	VolumeDown
	VolumeMute

	Esc
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	Print
	ScrollLock
	Pause

	Grave
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Zero
	Minus
	Equal
	Backspace
	Insert
	Home
	PageUp
	Numlock
	KpSlash
	KpAsterisk
	KpMinus

	Tab
	Q
	W
	E
	R
	T
	Y
	U
	I
	O
	P
	LeftBracket
	RightBracket
	Backslash
	Delete
	End
	PageDown
	Kp7
	Kp8
	Kp9
	KpPlus

	CapsLock
	A
	S
	D
	F
	G
	H
	J
	K
	L
	Semicolon
	Apostrophe
	Enter
	Kp4
	Kp5
	Kp6

	LeftShift
	Z
	X
	C
	V
	B
	N
	M
	Comma
	Dot
	Slash
	RightShift
	Up
	Kp1
	Kp2
	Kp3
	KpEqual

	LeftCtrl
	LeftMeta
	LeftAlt
	Space
	RightAlt
	RightMeta
	Menu
	RightCtrl
	Left
	Down
	Right
	Kp0
	KpDot
	KpEnter
)

var modifiers = map[Key]bool{
	LeftShift: true, RightShift: true,
	LeftCtrl: true, RightCtrl: true,
	LeftAlt: true, RightAlt: true,
	LeftMeta: true, RightMeta: true,
}

// IsModifier reports whether k is one of the eight standard modifier keys.
func (k Key) IsModifier() bool { return modifiers[k] }

// FromDigit maps the runes '0'..'9' to the matching numpad key. Parse
// reads a bare digit in a defsrc/deflayer row as a top-row key instead.
func FromDigit(c rune) (Key, bool) {
	switch c {
	case '0':
		return Kp0, true
	case '1':
		return Kp1, true
	case '2':
		return Kp2, true
	case '3':
		return Kp3, true
	case '4':
		return Kp4, true
	case '5':
		return Kp5, true
	case '6':
		return Kp6, true
	case '7':
		return Kp7, true
	case '8':
		return Kp8, true
	case '9':
		return Kp9, true
	default:
		return 0, false
	}
}

var verboseNames = map[Key]string{
	Esc: "KeyEsc", F1: "KeyF1", F2: "KeyF2", F3: "KeyF3", F4: "KeyF4", F5: "KeyF5",
	F6: "KeyF6", F7: "KeyF7", F8: "KeyF8", F9: "KeyF9", F10: "KeyF10", F11: "KeyF11",
	F12: "KeyF12", F13: "KeyF13", F14: "KeyF14", F15: "KeyF15", F16: "KeyF16",
	F17: "KeyF17", F18: "KeyF18", F19: "KeyF19", F20: "KeyF20", F21: "KeyF21",
	F22: "KeyF22", F23: "KeyF23", F24: "KeyF24",
	Print: "PrintScreen", ScrollLock: "ScrollLock", Pause: "Pause",

	Grave: "Backquote", One: "Digit1", Two: "Digit2", Three: "Digit3", Four: "Digit4",
	Five: "Digit5", Six: "Digit6", Seven: "Digit7", Eight: "Digit8", Nine: "Digit9",
	Zero: "Digit0", Minus: "Minus", Equal: "Equal", Backspace: "Backspace",
	Insert: "Insert", Home: "Home", PageUp: "PageUp", Numlock: "Numlock",

	Tab: "Tab", Q: "KeyQ", W: "KeyW", E: "KeyE", R: "KeyR", T: "KeyT", Y: "KeyY",
	U: "KeyU", I: "KeyI", O: "KeyO", P: "KeyP", LeftBracket: "BracketLeft",
	RightBracket: "BracketRight", Backslash: "Backslash", Delete: "Delete",
	End: "End", PageDown: "PageDown",

	CapsLock: "CapsLock", A: "KeyA", S: "KeyS", D: "KeyD", F: "KeyF", G: "KeyG",
	H: "KeyH", J: "KeyJ", K: "KeyK", L: "KeyL", Semicolon: "Semicolon",
	Apostrophe: "Quote", Enter: "Enter",

	LeftShift: "LeftShift", Z: "KeyZ", X: "KeyX", C: "KeyC", V: "KeyV", B: "KeyB",
	N: "KeyN", M: "KeyM", Comma: "Comma", Dot: "Period", Slash: "Slash",
	RightShift: "RightShift", Up: "ArrowUp",

	LeftCtrl: "LeftCtrl", LeftMeta: "LeftMeta", LeftAlt: "LeftAlt", Space: "Space",
	RightAlt: "RightAlt", RightMeta: "RightMeta", Menu: "Menu", RightCtrl: "RightCtrl",
	Left: "ArrowLeft", Down: "ArrowDown", Right: "ArrowRight",

	Kp0: "Numpad0", Kp1: "Numpad1", Kp2: "Numpad2", Kp3: "Numpad3", Kp4: "Numpad4",
	Kp5: "Numpad5", Kp6: "Numpad6", Kp7: "Numpad7", Kp8: "Numpad8", Kp9: "Numpad9",
	KpPlus: "NumpadPlus", KpEnter: "NumpadEnter", KpDot: "NumpadDecimal",
	KpSlash: "NumpadSlash", KpAsterisk: "NumpadAsterisk", KpMinus: "NumpadMinus",
	KpEqual: "NumpadEqual",

	VolumeUp: "VolumeUp", VolumeDown: "VolumeDown", VolumeMute: "VolumeMute",
}

var shortAliases = map[string]Key{
	"esc": Esc, "f1": F1, "f2": F2, "f3": F3, "f4": F4, "f5": F5, "f6": F6,
	"f7": F7, "f8": F8, "f9": F9, "f10": F10, "f11": F11, "f12": F12,
	"f13": F13, "f14": F14, "f15": F15, "f16": F16, "f17": F17, "f18": F18,
	"f19": F19, "f20": F20, "f21": F21, "f22": F22, "f23": F23, "f24": F24,

	"`": Grave, "1": One, "2": Two, "3": Three, "4": Four, "5": Five, "6": Six,
	"7": Seven, "8": Eight, "9": Nine, "0": Zero, "-": Minus, "=": Equal,
	"bks": Backspace, "ins": Insert, "home": Home, "pgup": PageUp,

	"tab": Tab, "q": Q, "w": W, "e": E, "r": R, "t": T, "y": Y, "u": U, "i": I,
	"o": O, "p": P, "[": LeftBracket, "]": RightBracket, "\\": Backslash,
	"del": Delete, "end": End, "pgdn": PageDown,

	"caps": CapsLock, "a": A, "s": S, "d": D, "f": F, "g": G, "h": H, "j": J,
	"k": K, "l": L, ";": Semicolon, "'": Apostrophe, "ent": Enter, "enter": Enter,

	"z": Z, "x": X, "c": C, "v": V, "b": B, "n": N, "m": M, ",": Comma,
	".": Dot, "/": Slash,

	"kp0": Kp0, "kp1": Kp1, "kp2": Kp2, "kp3": Kp3, "kp4": Kp4, "kp5": Kp5,
	"kp6": Kp6, "kp7": Kp7, "kp8": Kp8, "kp9": Kp9, "kp+": KpPlus, "kprt": KpEnter,
	"kp.": KpDot, "kp/": KpSlash, "kp*": KpAsterisk, "kp-": KpMinus,

	"sft": LeftShift, "lsft": LeftShift, "LS": LeftShift, "S": LeftShift,
	"rsft": RightShift, "RS": RightShift,
	"ctl": LeftCtrl, "lctl": LeftCtrl, "LC": LeftCtrl, "C": LeftCtrl,
	"rctl": RightCtrl, "RC": RightCtrl,
	"meta": LeftMeta, "lmeta": LeftMeta, "LM": LeftMeta, "M": LeftMeta,
	"rmeta": RightMeta, "RM": RightMeta,
	"alt": LeftAlt, "lalt": LeftAlt, "LA": LeftAlt, "A": LeftAlt,
	"ralt": RightAlt, "RA": RightAlt,

	"spc": Space, "menu": Menu,
	"lt": Left, "dn": Down, "up": Up, "rt": Right,

	"volu": VolumeUp, "vol+": VolumeUp,
	"vold": VolumeDown, "vol-": VolumeDown,
	"mute": VolumeMute,
}

// Parse resolves a key name, trying the fnN/KeyFnN forms, the verbose
// (DOM-style) spelling, and the short mnemonic spelling in that order.
func Parse(s string) (Key, error) {
	if d := strings.TrimPrefix(s, "fn"); d != s {
		if n, err := strconv.ParseUint(d, 10, 8); err == nil {
			return FnKey(uint8(n)), nil
		}
	}
	if d := strings.TrimPrefix(s, "KeyFn"); d != s {
		if n, err := strconv.ParseUint(d, 10, 8); err == nil {
			return FnKey(uint8(n)), nil
		}
	}
	for k, name := range verboseNames {
		if name == s {
			return k, nil
		}
	}
	if k, ok := shortAliases[s]; ok {
		return k, nil
	}
	return 0, &rklerr.UnknownKeyError{Name: s}
}

// String renders k using its verbose name, or "Fn(n)" / "Key(n)" as a
// fallback for values outside the known table.
func (k Key) String() string {
	if n, ok := k.IsFn(); ok {
		return fmt.Sprintf("Fn(%d)", n)
	}
	if name, ok := verboseNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int16(k))
}
