package action

import (
	"strings"

	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/sexpr"
)

// Build parses expr into an Action tree.
func Build(expr sexpr.Expr) (Action, error) {
	if expr.IsAtom() {
		atom, _ := expr.AsAtom()
		return buildAtom(atom, expr)
	}
	return buildList(expr)
}

func buildAtom(a string, expr sexpr.Expr) (Action, error) {
	if d, ok := strip(a, "."); ok && d != "" {
		r := []rune(d)
		return NewUnicode(r[0]), nil
	}
	if d, ok := strip(a, "@"); ok && len(a) > 1 {
		return NewAlias(d), nil
	}
	if strings.Contains(a, "-") && !strings.HasPrefix(a, "-") && !strings.HasSuffix(a, "-") {
		parts := strings.Split(a, "-")
		taps := make([]Action, len(parts))
		for i, p := range parts {
			k, err := keys.Parse(p)
			if err != nil {
				return Action{}, &rklerr.UnknownKeyError{Name: p}
			}
			taps[i] = NewTap(k)
		}
		return NewMulti(taps...), nil
	}

	switch a {
	case "X":
		return NewNoAction(), nil
	case "_":
		return NewTransparent(), nil
	case "lb":
		return NewUnicode('('), nil
	case "rb":
		return NewUnicode(')'), nil
	default:
		k, err := keys.Parse(a)
		if err != nil {
			return Action{}, &rklerr.UnknownKeyError{Name: a}
		}
		return NewTap(k), nil
	}
}

func strip(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return strings.TrimPrefix(s, prefix), true
}

func buildList(expr sexpr.Expr) (Action, error) {
	items, _ := expr.AsList()
	if len(items) == 0 {
		return Action{}, &rklerr.UnknownActionError{Form: expr.Pretty()}
	}
	name, err := items[0].AsAtom()
	if err != nil {
		return Action{}, &rklerr.UnknownActionError{Form: expr.Pretty()}
	}
	params := items[1:]

	switch name {
	case "tap-hold":
		if len(params) != 2 {
			return Action{}, &rklerr.ShapeError{Msg: "tap-hold expects exactly two children", Form: expr.Pretty()}
		}
		tap, err := Build(params[0])
		if err != nil {
			return Action{}, err
		}
		hold, err := Build(params[1])
		if err != nil {
			return Action{}, err
		}
		return NewTapHold(tap, hold), nil

	case "multi":
		children := make([]Action, len(params))
		for i, p := range params {
			c, err := Build(p)
			if err != nil {
				return Action{}, err
			}
			children[i] = c
		}
		return NewMulti(children...), nil

	case "layer-while-held":
		if len(params) != 1 {
			return Action{}, &rklerr.ShapeError{Msg: "layer-while-held expects exactly one name", Form: expr.Pretty()}
		}
		layerName, err := params[0].AsAtom()
		if err != nil {
			return Action{}, err
		}
		return NewLayerWhileHeld(layerName), nil

	case "layer-switch":
		if len(params) != 1 {
			return Action{}, &rklerr.ShapeError{Msg: "layer-switch expects exactly one name", Form: expr.Pretty()}
		}
		layerName, err := params[0].AsAtom()
		if err != nil {
			return Action{}, err
		}
		return NewLayerSwitch(layerName), nil

	default:
		return Action{}, &rklerr.UnknownActionError{Form: expr.Pretty()}
	}
}
