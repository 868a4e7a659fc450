package vial

import (
	"fmt"

	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/keycode"
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/layout"
	"github.com/rkl-go/rkl/internal/rklerr"
)

type overrideEntry struct {
	source, target         uint16
	sourceMods, targetMods []keys.Key
	layersMask             uint16
}

// overridePool interns overrides by their (source, target, source mods,
// target mods) tuple, accumulating a bit per layer that declares it.
type overridePool struct {
	index map[string]int
	order []*overrideEntry
}

func newOverridePool() *overridePool { return &overridePool{index: make(map[string]int)} }

// add extracts an override's target keycode and modifiers the same way
// a Tap, a TapHold's tap child, or a Multi of taps would, then pools the
// result and marks layerIndex in its bitmask.
func (p *overridePool) add(layerIndex int, o layout.Override, source uint16) error {
	target, targetMods, err := overrideTarget(o.Action)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%d:%d:%v:%v", source, target, o.Mods, targetMods)
	i, ok := p.index[key]
	if !ok {
		i = len(p.order)
		p.index[key] = i
		p.order = append(p.order, &overrideEntry{
			source:     source,
			target:     target,
			sourceMods: o.Mods,
			targetMods: targetMods,
		})
	}
	p.order[i].layersMask |= 1 << uint(layerIndex)
	return nil
}

func overrideTarget(a action.Action) (uint16, []keys.Key, error) {
	switch a.Kind {
	case action.Tap:
		code, err := keycode.Encode(a.Key)
		return code, nil, err
	case action.NoAction:
		return keycode.None(), nil, nil
	case action.TapHold:
		if a.Children[0].Kind == action.Tap {
			code, err := keycode.Encode(a.Children[0].Key)
			return code, nil, err
		}
		return 0, nil, &rklerr.OverrideShapeError{Form: a.String()}
	case action.Multi:
		taps, ok := allTaps(a.Children)
		if !ok {
			return 0, nil, &rklerr.OverrideShapeError{Form: a.String()}
		}
		var mods, plain []keys.Key
		for _, k := range taps {
			if k.IsModifier() {
				mods = append(mods, k)
			} else {
				plain = append(plain, k)
			}
		}
		if len(plain) != 1 {
			return 0, nil, &rklerr.OverrideShapeError{Form: a.String()}
		}
		code, err := keycode.Encode(plain[0])
		return code, mods, err
	default:
		return 0, nil, &rklerr.OverrideShapeError{Form: a.String()}
	}
}

// modMask encodes mods to a bitmask, treating an empty set as 0 rather
// than rejecting it (an override with no modifiers is valid).
func modMask(mods []keys.Key) (uint8, bool) {
	if len(mods) == 0 {
		return 0, true
	}
	return keycode.ModBitmask(mods)
}
