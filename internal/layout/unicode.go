package layout

import (
	_ "embed"
	"sync"

	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/sexpr"
)

//go:embed unicode.rkl
var bundledUnicodeSource string

var (
	langCharsOnce sync.Once
	langChars     map[Keymap]map[rune]action.Action
	langCharsErr  error
)

func loadLangChars() (map[Keymap]map[rune]action.Action, error) {
	langCharsOnce.Do(func() {
		langChars, langCharsErr = parseUnicodeTable(bundledUnicodeSource)
	})
	return langChars, langCharsErr
}

func parseUnicodeTable(src string) (map[Keymap]map[rune]action.Action, error) {
	root, err := sexpr.Parse("(" + src + ")")
	if err != nil {
		return nil, err
	}
	forms, err := root.AsList()
	if err != nil {
		return nil, err
	}

	out := make(map[Keymap]map[rune]action.Action, len(forms))
	for _, form := range forms {
		items, err := form.AsList()
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, &rklerr.ShapeError{Msg: "empty defunicode form"}
		}
		head, err := items[0].AsAtom()
		if err != nil {
			return nil, err
		}
		if head != "defunicode" {
			return nil, &rklerr.ShapeError{Msg: "unexpected form " + head}
		}
		if len(items) < 2 {
			return nil, &rklerr.ShapeError{Msg: "defunicode missing keymap name"}
		}
		keymapAtom, err := items[1].AsAtom()
		if err != nil {
			return nil, err
		}
		keymap, err := ParseKeymap(keymapAtom)
		if err != nil {
			return nil, err
		}
		pairs := items[2:]
		if len(pairs)%2 != 0 {
			return nil, &rklerr.ShapeError{Msg: "defunicode expects CHAR/ACTION pairs"}
		}
		table := make(map[rune]action.Action, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			chAtom, err := pairs[i].AsAtom()
			if err != nil {
				return nil, err
			}
			var ch rune
			switch chAtom {
			case "lb":
				ch = '('
			case "rb":
				ch = ')'
			default:
				r := []rune(chAtom)
				if len(r) == 0 {
					return nil, &rklerr.ShapeError{Msg: "expected a char atom, found empty"}
				}
				ch = r[0]
			}
			a, err := action.Build(pairs[i+1])
			if err != nil {
				return nil, err
			}
			table[ch] = a
		}
		out[keymap] = table
	}
	return out, nil
}

// ResolveUnicode replaces Unicode(c) wherever it appears in a's tree: a
// direct entry in lang's own table wins outright; otherwise, if some
// other table has an entry and both languages have a registered switch
// action in keymaps, the result is the sequence switch-type-switch back;
// failing both, the Unicode action is left untouched.
func ResolveUnicode(a action.Action, lang Keymap, keymaps map[Keymap]action.Action) (action.Action, error) {
	switch a.Kind {
	case action.Unicode:
		return resolveUnicodeChar(a.Char, lang, keymaps)
	case action.TapHold:
		tap, err := ResolveUnicode(a.Children[0], lang, keymaps)
		if err != nil {
			return action.Action{}, err
		}
		hold, err := ResolveUnicode(a.Children[1], lang, keymaps)
		if err != nil {
			return action.Action{}, err
		}
		return action.NewTapHold(tap, hold), nil
	case action.Multi:
		return resolveUnicodeChildren(a, lang, keymaps, action.NewMulti)
	case action.Sequence:
		return resolveUnicodeChildren(a, lang, keymaps, action.NewSequence)
	default:
		return a, nil
	}
}

func resolveUnicodeChildren(a action.Action, lang Keymap, keymaps map[Keymap]action.Action, build func(...action.Action) action.Action) (action.Action, error) {
	out := make([]action.Action, len(a.Children))
	for i, c := range a.Children {
		r, err := ResolveUnicode(c, lang, keymaps)
		if err != nil {
			return action.Action{}, err
		}
		out[i] = r
	}
	return build(out...), nil
}

func resolveUnicodeChar(ch rune, lang Keymap, keymaps map[Keymap]action.Action) (action.Action, error) {
	tables, err := loadLangChars()
	if err != nil {
		return action.Action{}, err
	}
	if table, ok := tables[lang]; ok {
		if a, ok := table[ch]; ok {
			return a, nil
		}
	}

	if langHotkey, ok := keymaps[lang]; ok {
		for other, charTable := range tables {
			if a, ok := charTable[ch]; ok {
				if hotkey, ok := keymaps[other]; ok {
					return action.NewSequence(hotkey, a, langHotkey), nil
				}
			}
		}
	}
	return action.NewUnicode(ch), nil
}
