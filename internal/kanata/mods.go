package kanata

import (
	"sort"
	"strings"

	"github.com/rkl-go/rkl/internal/keys"
)

// modLetters gives every modifier key its kanata combo-string letter.
// Both alt keys collapse onto "A": kanata has no separate left/right alt
// combo prefix, so the distinction is lost here.
var modLetters = map[keys.Key]string{
	keys.LeftCtrl:   "C",
	keys.RightCtrl:  "RC",
	keys.LeftShift:  "S",
	keys.RightShift: "RS",
	keys.LeftAlt:    "A",
	keys.RightAlt:   "A",
	keys.LeftMeta:   "M",
	keys.RightMeta:  "RM",
}

// formatMods renders a set of held modifiers as a kanata combo prefix
// such as "C-S". Reports ok == false if any key has no known letter.
func formatMods(mods []keys.Key) (string, bool) {
	set := make(map[keys.Key]bool, len(mods))
	for _, m := range mods {
		set[m] = true
	}
	letters := make([]string, 0, len(set))
	for m := range set {
		letter, ok := modLetters[m]
		if !ok {
			return "", false
		}
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return strings.Join(letters, "-"), true
}
