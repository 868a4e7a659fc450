package vial

import (
	"fmt"

	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/config"
	"github.com/rkl-go/rkl/internal/hidtransport"
	"github.com/rkl-go/rkl/internal/keycode"
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/rklerr"
)

// lowerer turns an Action tree into a firmware keycode, pooling macros
// and tap-dances by structural equality as it goes.
type lowerer struct {
	layerIndex func(name string) (int, bool)
	macros     *macroPool
	tapDances  *tapDancePool
}

func newLowerer(layerIndex func(name string) (int, bool)) *lowerer {
	return &lowerer{layerIndex: layerIndex, macros: newMacroPool(), tapDances: newTapDancePool()}
}

func (l *lowerer) keycode(a action.Action) (uint16, error) {
	switch a.Kind {
	case action.NoAction:
		return keycode.None(), nil
	case action.Transparent:
		return keycode.Transparent(), nil
	case action.Tap:
		return keycode.Encode(a.Key)
	case action.LayerSwitch:
		idx, ok := l.layerIndex(a.Name)
		if !ok {
			return 0, &rklerr.MissingLayerError{Name: a.Name}
		}
		return keycode.DF(idx), nil
	case action.LayerWhileHeld:
		idx, ok := l.layerIndex(a.Name)
		if !ok {
			return 0, &rklerr.MissingLayerError{Name: a.Name}
		}
		return keycode.MO(idx), nil
	case action.TapHold:
		return l.tapHold(a)
	case action.Multi:
		return l.multi(a)
	case action.Sequence:
		return l.sequence(a)
	case action.Alias, action.Unicode:
		return 0, &rklerr.ShapeError{Msg: fmt.Sprintf("action kind %v cannot reach the binary back-end unresolved", a.Kind)}
	case action.Hold, action.Release:
		return 0, &rklerr.ShapeError{Msg: "hold/release cannot appear outside a sequence"}
	default:
		return 0, &rklerr.ShapeError{Msg: "unrecognized action kind"}
	}
}

// tapHold recognizes three shortcut forms the firmware has a dedicated
// wrapper for — a modifier hold, a layer hold, or a held modifier set —
// and otherwise pools a general TapDance.
func (l *lowerer) tapHold(a action.Action) (uint16, error) {
	tapAction, holdAction := a.Children[0], a.Children[1]
	if tapAction.Kind == action.Tap {
		tapCode, err := keycode.Encode(tapAction.Key)
		if err != nil {
			return 0, err
		}
		switch holdAction.Kind {
		case action.Tap:
			if holdAction.Key.IsModifier() {
				mask, _ := keycode.ModBitmask([]keys.Key{holdAction.Key})
				return keycode.MT(mask, tapCode), nil
			}
		case action.LayerSwitch, action.LayerWhileHeld:
			idx, ok := l.layerIndex(holdAction.Name)
			if !ok {
				return 0, &rklerr.MissingLayerError{Name: holdAction.Name}
			}
			return keycode.LT(idx, tapCode), nil
		case action.Multi:
			if mods, ok := allTaps(holdAction.Children); ok {
				if mask, ok := keycode.ModBitmask(mods); ok {
					return keycode.MT(mask, tapCode), nil
				}
			}
		}
	}

	tapCode, err := l.keycode(tapAction)
	if err != nil {
		return 0, err
	}
	holdCode, err := l.keycode(holdAction)
	if err != nil {
		return 0, err
	}
	id := l.tapDances.intern(hidtransport.TapDance{
		Tap:         tapCode,
		Hold:        holdCode,
		TappingTerm: config.TapHoldMS,
	})
	return keycode.TD(id), nil
}

// multi recognizes exactly one non-modifier tap plus a recognized held
// modifier set as a direct combo keycode, and otherwise pools the
// children as a Macro of Tap steps.
func (l *lowerer) multi(a action.Action) (uint16, error) {
	if taps, ok := allTaps(a.Children); ok {
		var mods, plain []keys.Key
		for _, k := range taps {
			if k.IsModifier() {
				mods = append(mods, k)
			} else {
				plain = append(plain, k)
			}
		}
		if len(plain) == 1 {
			if _, ok := keycode.FormatMods(mods); ok {
				tapCode, err := keycode.Encode(plain[0])
				if err != nil {
					return 0, err
				}
				mask, _ := keycode.ModBitmask(mods)
				return keycode.ModKey(mask, tapCode), nil
			}
		}
	}

	steps := make([]hidtransport.MacroStep, len(a.Children))
	for i, c := range a.Children {
		code, err := l.keycode(c)
		if err != nil {
			return 0, err
		}
		steps[i] = hidtransport.MacroStep{Kind: hidtransport.Tap, Keycode: code}
	}
	id := l.macros.intern(steps)
	return keycode.M(int(id)), nil
}

// sequence pools its children as a Macro: Hold/Release lower to Down/Up
// steps, everything else taps. A Delay(0) step is inserted between two
// consecutive taps so the firmware registers them as distinct presses.
func (l *lowerer) sequence(a action.Action) (uint16, error) {
	var steps []hidtransport.MacroStep
	for _, c := range a.Children {
		var step hidtransport.MacroStep
		switch c.Kind {
		case action.Hold:
			code, err := keycode.Encode(c.Key)
			if err != nil {
				return 0, err
			}
			step = hidtransport.MacroStep{Kind: hidtransport.Down, Keycode: code}
		case action.Release:
			code, err := keycode.Encode(c.Key)
			if err != nil {
				return 0, err
			}
			step = hidtransport.MacroStep{Kind: hidtransport.Up, Keycode: code}
		default:
			code, err := l.keycode(c)
			if err != nil {
				return 0, err
			}
			step = hidtransport.MacroStep{Kind: hidtransport.Tap, Keycode: code}
		}
		if len(steps) > 0 && steps[len(steps)-1].Kind == hidtransport.Tap && step.Kind == hidtransport.Tap {
			steps = append(steps, hidtransport.MacroStep{Kind: hidtransport.Delay})
		}
		steps = append(steps, step)
	}
	id := l.macros.intern(steps)
	return keycode.M(int(id)), nil
}

func allTaps(children []action.Action) ([]keys.Key, bool) {
	out := make([]keys.Key, len(children))
	for i, c := range children {
		if c.Kind != action.Tap {
			return nil, false
		}
		out[i] = c.Key
	}
	return out, true
}
