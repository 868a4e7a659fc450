package layout

import (
	"fmt"
	"strings"

	"github.com/rkl-go/rkl/internal/action"
)

// PrepareLayers runs the five-pass pipeline that turns the raw, just-
// parsed layer set into one ready for emission:
//
//  1. resolve every alias reference against aliases;
//  2. fill Transparent slots from the nearest non-transparent ancestor;
//  3. drop the "src" layer, now fully subsumed by "default" et al;
//  4. duplicate any layer a Ru layer-while-held's into, under a Ru-
//     suffixed name, for every Keymap it is reached under (skipping a
//     duplicate for En, since En is the keymap src and every layer
//     already resolves correctly against it) — unless the dependency
//     contains no Unicode action reachable for that keymap, in which
//     case the original layer already works unchanged;
//  5. resolve every Unicode action against the bundled per-Keymap
//     tables and any defkeymap hotkeys.
func (l *Layout) PrepareLayers(aliases map[string]action.Action) error {
	if err := l.resolveLayerAliases(aliases); err != nil {
		return err
	}
	l.fillTransparent()
	delete(l.Layers, "src")
	if err := l.duplicateForKeymaps(); err != nil {
		return err
	}
	return l.resolveAllUnicode()
}

func (l *Layout) resolveLayerAliases(aliases map[string]action.Action) error {
	for name, layer := range l.Layers {
		for idx, a := range layer.Keys {
			resolved, err := a.ResolveAliases(aliases)
			if err != nil {
				return err
			}
			layer.Keys[idx] = resolved
		}
		l.Layers[name] = layer
	}
	return nil
}

func (l *Layout) fillTransparent() {
	for name, layer := range l.Layers {
		updates := make(map[int]action.Action)
		for idx, a := range layer.Keys {
			if a.Kind != action.Transparent {
				continue
			}
			current := layer.Parent
			for current != "" {
				parent, ok := l.Layers[current]
				if !ok {
					break
				}
				if pa, ok := parent.Keys[idx]; ok && pa.Kind != action.Transparent {
					updates[idx] = pa
					break
				}
				current = parent.Parent
			}
		}
		for idx, a := range updates {
			layer.Keys[idx] = a
		}
		l.Layers[name] = layer
	}
}

func (l *Layout) duplicateForKeymaps() error {
	type pending struct {
		layer Layer
		deps  []string
	}
	var todo []pending
	for _, layer := range l.Layers {
		todo = append(todo, pending{layer: layer, deps: layer.GetDependencies()})
	}

	for _, p := range todo {
		copiedFrom := make(map[string]bool)
		var newLayers []Layer
		for _, depName := range p.deps {
			dep, ok := l.Layers[depName]
			if !ok {
				continue
			}
			if dep.Keymap == p.layer.Keymap {
				continue
			}
			if p.layer.Keymap == En {
				continue
			}
			if !dependencyNeedsCopy(dep, p.layer.Keymap) {
				continue
			}
			dup := dep.Child(strings.ToLower(fmt.Sprintf("%s-%s", dep.Name, p.layer.Keymap)), dep.Index+1)
			dup.Keymap = p.layer.Keymap
			for idx, a := range dup.Keys {
				dup.Keys[idx] = a.MapLayerWhileHeld(func(x string) (string, bool) {
					if x == depName {
						return dup.Name, true
					}
					return "", false
				})
			}
			newLayers = append(newLayers, dup)
			copiedFrom[depName] = true
		}
		if len(copiedFrom) > 0 {
			rewritten := p.layer.Child(p.layer.Name, p.layer.Index)
			for idx, a := range rewritten.Keys {
				rewritten.Keys[idx] = a.MapLayerWhileHeld(func(x string) (string, bool) {
					if copiedFrom[x] {
						return strings.ToLower(fmt.Sprintf("%s-%s", x, p.layer.Keymap)), true
					}
					return "", false
				})
			}
			newLayers = append(newLayers, rewritten)
		}
		for _, nl := range newLayers {
			l.Layers[nl.Name] = nl
		}
	}
	return nil
}

// dependencyNeedsCopy mirrors the original's rule: a dependency reached
// under a non-En Keymap only needs its own Ru-flavored copy if at least
// one of its actions contains a Unicode action; an all-plain layer
// behaves identically regardless of which Keymap is active.
func dependencyNeedsCopy(dep Layer, keymap Keymap) bool {
	if keymap == En {
		return false
	}
	for _, a := range dep.Keys {
		if a.ContainsUnicode() {
			return true
		}
	}
	return false
}

func (l *Layout) resolveAllUnicode() error {
	for name, layer := range l.Layers {
		for idx, a := range layer.Keys {
			resolved, err := ResolveUnicode(a, layer.Keymap, l.Keymaps)
			if err != nil {
				return err
			}
			layer.Keys[idx] = resolved
		}
		for i, o := range layer.Overrides {
			resolved, err := ResolveUnicode(o.Action, layer.Keymap, l.Keymaps)
			if err != nil {
				return err
			}
			layer.Overrides[i].Action = resolved
		}
		l.Layers[name] = layer
	}
	return nil
}
