package kanata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/config"
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/layout"
	"github.com/rkl-go/rkl/internal/rklerr"
)

// Emit renders l as kanata configuration text: a defsrc line, one
// deflayermap block per layer in declaration order, and a pooled
// defoverridesv2 block listing, for each distinct rendered override,
// every layer it does not apply to.
func Emit(l *layout.Layout) (string, error) {
	indexToKey := make(map[int]keys.Key, len(l.Keyboard.Source))
	for k, idx := range l.Keyboard.Source {
		indexToKey[idx] = k
	}
	order := make([]int, 0, len(indexToKey))
	for idx := range indexToKey {
		order = append(order, idx)
	}
	sort.Ints(order)

	var blocks []string

	srcTokens := make([]string, 0, len(order)+1)
	srcTokens = append(srcTokens, "defsrc")
	for _, idx := range order {
		srcTokens = append(srcTokens, keyToKanata(indexToKey[idx]))
	}
	blocks = append(blocks, "("+strings.Join(srcTokens, " ")+")")

	layerNames := make([]string, 0, len(l.Layers))
	for name := range l.Layers {
		layerNames = append(layerNames, name)
	}
	sort.Slice(layerNames, func(i, j int) bool {
		return l.Layers[layerNames[i]].Index < l.Layers[layerNames[j]].Index
	})

	type overrideEntry struct {
		text   string
		layers map[string]bool
	}
	overrideOrder := make([]string, 0)
	overridesByText := make(map[string]*overrideEntry)

	for _, name := range layerNames {
		ly := l.Layers[name]
		var keyLines []string
		for _, idx := range order {
			a, ok := ly.Keys[idx]
			if !ok {
				continue
			}
			rendered, err := actionToKanata(a)
			if err != nil {
				return "", err
			}
			keyName := keyToKanata(indexToKey[idx])
			if rendered == keyName {
				continue
			}
			keyLines = append(keyLines, fmt.Sprintf("\t%s %s", keyName, rendered))
		}
		blocks = append(blocks, fmt.Sprintf("(deflayermap (%s)\n%s\n)", ly.Name, strings.Join(keyLines, "\n")))

		for _, o := range ly.Overrides {
			rendered, err := actionToKanata(o.Action)
			if err != nil {
				return "", err
			}
			if !strings.HasPrefix(rendered, "(") {
				rendered = "(" + rendered + ")"
			}
			modNames := make([]string, len(o.Mods))
			for i, m := range o.Mods {
				modNames[i] = keyToKanata(m)
			}
			trigger := append(modNames, keyToKanata(o.Key))
			text := fmt.Sprintf("(%s) %s", strings.Join(trigger, " "), rendered)
			entry, ok := overridesByText[text]
			if !ok {
				entry = &overrideEntry{text: text, layers: make(map[string]bool)}
				overridesByText[text] = entry
				overrideOrder = append(overrideOrder, text)
			}
			entry.layers[ly.Name] = true
		}
	}

	if len(overrideOrder) > 0 {
		sort.Strings(overrideOrder)
		var lines []string
		for _, text := range overrideOrder {
			entry := overridesByText[text]
			var except []string
			for _, name := range layerNames {
				if !entry.layers[name] {
					except = append(except, name)
				}
			}
			lines = append(lines, fmt.Sprintf("\t%s () (%s)", text, strings.Join(except, " ")))
		}
		blocks = append(blocks, fmt.Sprintf("(defoverridesv2\n%s\n)", strings.Join(lines, "\n")))
	}

	return strings.Join(blocks, "\n\n") + "\n", nil
}

func actionToKanata(a action.Action) (string, error) {
	switch a.Kind {
	case action.Tap:
		return keyToKanata(a.Key), nil
	case action.Transparent:
		return "_", nil
	case action.NoAction:
		return "XX", nil
	case action.Alias:
		return "@" + a.Name, nil
	case action.TapHold:
		tap, err := actionToKanata(a.Children[0])
		if err != nil {
			return "", err
		}
		hold, err := actionToKanata(a.Children[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(tap-hold %d %d %s %s)", config.TapHoldMS, config.TapHoldMS, tap, hold), nil
	case action.Multi:
		if combo, ok := comboForm(a.Children); ok {
			return combo, nil
		}
		return multiForm(a.Children)
	case action.Sequence:
		rendered := make([]string, len(a.Children))
		for i, c := range a.Children {
			r, err := actionToKanata(c)
			if err != nil {
				return "", err
			}
			rendered[i] = r
		}
		return fmt.Sprintf("(macro %s)", strings.Join(rendered, " ")), nil
	case action.LayerSwitch:
		return fmt.Sprintf("(layer-switch %s)", a.Name), nil
	case action.LayerWhileHeld:
		return fmt.Sprintf("(layer-while-held %s)", a.Name), nil
	case action.Unicode:
		return "", &rklerr.UnicodeUnresolvableError{Char: a.Char}
	case action.Hold, action.Release:
		return "", &rklerr.ShapeError{Msg: "hold/release cannot appear outside a sequence"}
	default:
		return "", &rklerr.ShapeError{Msg: "unrecognized action kind"}
	}
}

// comboForm renders children as a "MODS-key" combo if every child is a
// plain Tap, exactly one of them is a non-modifier key, and the
// remaining modifiers all have a known combo letter.
func comboForm(children []action.Action) (string, bool) {
	taps := make([]keys.Key, len(children))
	for i, c := range children {
		if c.Kind != action.Tap {
			return "", false
		}
		taps[i] = c.Key
	}
	var mods []keys.Key
	var plain []keys.Key
	for _, k := range taps {
		if k.IsModifier() {
			mods = append(mods, k)
		} else {
			plain = append(plain, k)
		}
	}
	if len(plain) != 1 {
		return "", false
	}
	modStr, ok := formatMods(mods)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s-%s", modStr, keyToKanata(plain[0])), true
}

// multiForm renders children as a generic "(multi ...)" form, sub-actions
// before plain key taps, matching how kanata orders multi elements.
func multiForm(children []action.Action) (string, error) {
	var forms, plain []string
	for _, c := range children {
		rendered, err := actionToKanata(c)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(rendered, "(") {
			forms = append(forms, rendered)
		} else {
			plain = append(plain, rendered)
		}
	}
	parts := append(append([]string{}, forms...), plain...)
	return "(multi " + strings.Join(parts, " ") + ")", nil
}
