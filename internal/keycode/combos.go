package keycode

import "github.com/rkl-go/rkl/internal/keys"

// modName gives a single modifier key its firmware wrapper name.
func modName(k keys.Key) (string, bool) {
	switch k {
	case keys.LeftAlt:
		return "LALT", true
	case keys.RightAlt:
		return "RALT", true
	case keys.LeftCtrl:
		return "LCTL", true
	case keys.RightCtrl:
		return "RCTL", true
	case keys.LeftShift:
		return "LSFT", true
	case keys.RightShift:
		return "RSFT", true
	case keys.LeftMeta:
		return "LGUI", true
	case keys.RightMeta:
		return "RGUI", true
	default:
		return "", false
	}
}

// FormatMods recognizes a held modifier set as one of the firmware's
// named combos (HYPR, MEH, ...), falling back to the lone modifier's own
// name for a single-key set. Reports ok == false for any other
// combination, or for a set containing a non-modifier key.
func FormatMods(mods []keys.Key) (string, bool) {
	set := make(map[keys.Key]bool, len(mods))
	for _, k := range mods {
		set[k] = true
	}
	switch {
	case setEquals(set, keys.LeftCtrl, keys.LeftShift, keys.LeftAlt, keys.LeftMeta):
		return "HYPR", true
	case setEquals(set, keys.LeftCtrl, keys.LeftShift, keys.LeftAlt):
		return "MEH", true
	case setEquals(set, keys.LeftCtrl, keys.LeftAlt, keys.LeftMeta):
		return "LCAG", true
	case setEquals(set, keys.LeftCtrl, keys.LeftShift):
		return "LCS", true
	case setEquals(set, keys.LeftCtrl, keys.LeftAlt):
		return "LCA", true
	case setEquals(set, keys.LeftCtrl, keys.LeftMeta):
		return "LCG", true
	case setEquals(set, keys.RightCtrl, keys.RightMeta):
		return "RCG", true
	case setEquals(set, keys.LeftShift, keys.LeftAlt):
		return "LSA", true
	case setEquals(set, keys.LeftShift, keys.LeftMeta):
		return "LSG", true
	}
	if len(set) == 1 {
		for k := range set {
			return modName(k)
		}
	}
	return "", false
}

func setEquals(set map[keys.Key]bool, members ...keys.Key) bool {
	if len(set) != len(members) {
		return false
	}
	for _, m := range members {
		if !set[m] {
			return false
		}
	}
	return true
}
