package keycode

import "github.com/rkl-go/rkl/internal/keys"

// modBit gives each of the eight standard modifiers its bit position in
// the firmware's override/mod-tap modifier mask, the same left/right
// split QMK's own MOD_BIT table uses.
var modBit = map[keys.Key]uint8{
	keys.LeftCtrl:   1 << 0,
	keys.LeftShift:  1 << 1,
	keys.LeftAlt:    1 << 2,
	keys.LeftMeta:   1 << 3,
	keys.RightCtrl:  1 << 4,
	keys.RightShift: 1 << 5,
	keys.RightAlt:   1 << 6,
	keys.RightMeta:  1 << 7,
}

// ModBitmask ORs together the bit for every key in mods. Reports ok ==
// false if any key is not one of the eight standard modifiers.
func ModBitmask(mods []keys.Key) (uint8, bool) {
	var mask uint8
	for _, k := range mods {
		bit, ok := modBit[k]
		if !ok {
			return 0, false
		}
		mask |= bit
	}
	return mask, true
}

// SymmetricDifference returns the mods present in exactly one of a, b —
// used to derive an override's suppressed modifier set from its trigger
// and target modifiers.
func SymmetricDifference(a, b []keys.Key) []keys.Key {
	inA := make(map[keys.Key]bool, len(a))
	for _, k := range a {
		inA[k] = true
	}
	inB := make(map[keys.Key]bool, len(b))
	for _, k := range b {
		inB[k] = true
	}
	var out []keys.Key
	for _, k := range a {
		if !inB[k] {
			out = append(out, k)
		}
	}
	for _, k := range b {
		if !inA[k] {
			out = append(out, k)
		}
	}
	return out
}
