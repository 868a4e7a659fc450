package layout

import (
	"strings"

	"github.com/rkl-go/rkl/internal/rklerr"
)

// Keymap selects which language table a Unicode action resolves against,
// and which bundled hotkey toggles between them.
type Keymap int

const (
	En Keymap = iota
	Ru
)

func (k Keymap) String() string {
	if k == Ru {
		return "Ru"
	}
	return "En"
}

// ParseKeymap parses a defkeymap/defunicode keymap name, case-insensitive.
func ParseKeymap(s string) (Keymap, error) {
	switch strings.ToLower(s) {
	case "en":
		return En, nil
	case "ru":
		return Ru, nil
	default:
		return 0, &rklerr.UnknownKeymapError{Name: s}
	}
}
