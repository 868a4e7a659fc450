// Package layout assembles a compiled Layout from a layer-definition
// source: the physical keyboard, its layers, aliases, overrides, and
// per-Keymap Unicode hotkeys.
package layout

import (
	"strings"

	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/keyboard"
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/preprocess"
	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/sexpr"
)

// Layout is the fully assembled, alias-resolved, Unicode-resolved layer
// set ready for a back-end to emit.
type Layout struct {
	Layers   map[string]Layer
	Keyboard *keyboard.Descriptor
	Keymaps  map[Keymap]action.Action
}

func newLayout() *Layout {
	return &Layout{
		Layers:   make(map[string]Layer),
		Keyboard: &keyboard.Descriptor{Source: make(map[keys.Key]int), Vial: make(map[keys.Key]keyboard.VialAddress)},
		Keymaps:  make(map[Keymap]action.Action),
	}
}

// Parse reads a full layer-definition source: deftemplate/unwrap
// preprocessing, then the top-level defsrc/keyboard/deflayer/
// deflayermap/defalias/defkeymap/defoverride/defvial forms, then layer
// preparation (alias resolution, transparency inheritance, per-Keymap
// layer-while-held duplication, and Unicode resolution).
func Parse(content string) (*Layout, error) {
	root, err := sexpr.Parse("(" + strings.TrimSpace(content) + ")")
	if err != nil {
		return nil, err
	}
	root, err = preprocess.Run(root)
	if err != nil {
		return nil, err
	}

	layout := newLayout()
	aliases := make(map[string]action.Action)

	forms, err := root.AsList()
	if err != nil {
		return nil, err
	}
	for i, form := range forms {
		items, err := form.AsList()
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, &rklerr.ShapeError{Msg: "expected a named form", Form: form.Pretty()}
		}
		name, err := items[0].AsAtom()
		if err != nil {
			return nil, err
		}
		params := items[1:]

		switch name {
		case "defsrc":
			if err := layout.applyDefsrc(params); err != nil {
				return nil, err
			}
		case "keyboard":
			if err := layout.applyKeyboard(params); err != nil {
				return nil, err
			}
		case "deflayer":
			if err := layout.applyDeflayer(params, i); err != nil {
				return nil, err
			}
		case "deflayermap":
			if err := layout.applyDeflayermap(params, i); err != nil {
				return nil, err
			}
		case "defalias":
			if err := layout.applyDefalias(params, aliases); err != nil {
				return nil, err
			}
		case "defkeymap":
			if err := layout.applyDefkeymap(params); err != nil {
				return nil, err
			}
		case "defoverride":
			if err := layout.applyDefoverride(params, i); err != nil {
				return nil, err
			}
		case "defvial":
			if err := keyboard.ParseVial(params, layout.Keyboard.Vial); err != nil {
				return nil, err
			}
		default:
			return nil, &rklerr.ShapeError{Msg: "unexpected top-level form " + name, Form: form.Pretty()}
		}
	}

	if err := layout.PrepareLayers(aliases); err != nil {
		return nil, err
	}
	return layout, nil
}

func (l *Layout) applyDefsrc(params []sexpr.Expr) error {
	src, err := keyboard.ParseSource(params)
	if err != nil {
		return err
	}
	if n := len(l.Keyboard.Source); n != 0 && n != len(src) {
		return &rklerr.ShapeError{Msg: "defsrc key count does not match keyboard"}
	}
	l.Keyboard.Source = src
	l.Layers["src"] = LayerFromSource(src)
	return nil
}

func (l *Layout) applyKeyboard(params []sexpr.Expr) error {
	if len(params) != 1 {
		return &rklerr.ShapeError{Msg: "keyboard expects exactly one id"}
	}
	id, err := params[0].AsAtom()
	if err != nil {
		return err
	}
	d, err := keyboard.Lookup(id)
	if err != nil {
		return err
	}
	cp := *d
	cp.Source = copySourceMap(d.Source)
	cp.Vial = copyVialMap(d.Vial)
	l.Keyboard = &cp
	l.Layers["src"] = LayerFromSource(cp.Source)
	return nil
}

func (l *Layout) applyDeflayer(params []sexpr.Expr, i int) error {
	layer, err := LayerFromDef(params, i)
	if err != nil {
		return err
	}
	if len(layer.Keys) != len(l.Keyboard.Source) {
		return &rklerr.ShapeError{Msg: "deflayer " + layer.Name + " key count does not match defsrc"}
	}
	if _, exists := l.Layers[layer.Name]; exists {
		return &rklerr.DuplicateError{Kind: "layer", Name: layer.Name}
	}
	l.Layers[layer.Name] = layer
	return nil
}

func (l *Layout) applyDeflayermap(params []sexpr.Expr, i int) error {
	layer, err := LayerFromMap(params, l.Keyboard.Source)
	if err != nil {
		return err
	}
	base, err := l.LayerFrom(layer.Parent, layer.Name, i)
	if err != nil {
		return err
	}
	for k, v := range layer.Keys {
		base.Keys[k] = v
	}
	l.Layers[base.Name] = base
	return nil
}

func (l *Layout) applyDefalias(params []sexpr.Expr, aliases map[string]action.Action) error {
	if len(params)%2 != 0 {
		return &rklerr.ShapeError{Msg: "defalias expects name/action pairs"}
	}
	for i := 0; i < len(params); i += 2 {
		name, err := params[i].AsAtom()
		if err != nil {
			return err
		}
		a, err := action.Build(params[i+1])
		if err != nil {
			return err
		}
		aliases[name] = a
	}
	return nil
}

func (l *Layout) applyDefkeymap(params []sexpr.Expr) error {
	if len(params)%3 != 0 {
		return &rklerr.ShapeError{Msg: "defkeymap expects layer/keymap/action triples"}
	}
	for i := 0; i < len(params); i += 3 {
		layerName, err := params[i].AsAtom()
		if err != nil {
			return err
		}
		keymapName, err := params[i+1].AsAtom()
		if err != nil {
			return err
		}
		layer, ok := l.Layers[layerName]
		if !ok {
			return &rklerr.MissingLayerError{Name: layerName}
		}
		keymap, err := ParseKeymap(keymapName)
		if err != nil {
			return err
		}
		a, err := action.Build(params[i+2])
		if err != nil {
			return err
		}
		l.Keymaps[keymap] = a
		layer.Keymap = keymap
		l.Layers[layerName] = layer
	}
	return nil
}

func (l *Layout) applyDefoverride(params []sexpr.Expr, i int) error {
	name, parent, rest, err := GetName(params)
	if err != nil {
		return err
	}
	layer, err := l.LayerFrom(parent, name, i)
	if err != nil {
		return err
	}
	if len(rest)%2 != 0 {
		return &rklerr.ShapeError{Msg: "defoverride expects hotkey/action pairs"}
	}
	var overrides []Override
	for j := 0; j < len(rest); j += 2 {
		srcAtom, err := rest[j].AsAtom()
		if err != nil {
			return err
		}
		hotkey, err := action.Build(sexpr.Atom(srcAtom))
		if err != nil {
			return err
		}
		keyActions, err := hotkeyTaps(hotkey)
		if err != nil {
			return &rklerr.OverrideShapeError{Form: srcAtom}
		}
		mods, key := keyActions[:len(keyActions)-1], keyActions[len(keyActions)-1]
		for _, m := range mods {
			if !m.IsModifier() {
				return &rklerr.OverrideShapeError{Form: srcAtom}
			}
		}
		if _, ok := l.Keyboard.Source[key]; !ok {
			return &rklerr.ShapeError{Msg: "key " + key.String() + " not in source map"}
		}
		act, err := action.Build(rest[j+1])
		if err != nil {
			return err
		}
		overrides = append(overrides, Override{Key: key, Mods: mods, Action: act})
	}
	layer.Overrides = overrides
	l.Layers[layer.Name] = layer
	return nil
}

func hotkeyTaps(hotkey action.Action) ([]keys.Key, error) {
	switch hotkey.Kind {
	case action.Tap:
		return []keys.Key{hotkey.Key}, nil
	case action.Multi:
		out := make([]keys.Key, len(hotkey.Children))
		for i, c := range hotkey.Children {
			if c.Kind != action.Tap {
				return nil, &rklerr.ShapeError{Msg: "expected a tap in hotkey"}
			}
			out[i] = c.Key
		}
		return out, nil
	default:
		return nil, &rklerr.ShapeError{Msg: "expected a hotkey"}
	}
}

// LayerFrom resolves the base layer an override/deflayermap form builds
// on: an existing layer named name if one is already defined, else the
// named parent, else the implicit "src" layer.
func (l *Layout) LayerFrom(parent, name string, i int) (Layer, error) {
	if existing, ok := l.Layers[name]; ok {
		return existing, nil
	}
	if base, ok := l.Layers[parent]; ok {
		return base.Child(name, i), nil
	}
	if src, ok := l.Layers["src"]; ok {
		return src.Child(name, i), nil
	}
	return Layer{}, &rklerr.MissingLayerError{Name: parent}
}

func copySourceMap(m map[keys.Key]int) map[keys.Key]int {
	out := make(map[keys.Key]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyVialMap(m map[keys.Key]keyboard.VialAddress) map[keys.Key]keyboard.VialAddress {
	out := make(map[keys.Key]keyboard.VialAddress, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
