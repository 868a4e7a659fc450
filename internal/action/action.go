// Package action implements the Action tagged-tree AST: the compiled
// form of every per-key expression in a layer, alias, or override.
package action

import (
	"fmt"
	"strings"

	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/rklerr"
)

// Kind discriminates which fields of an Action are meaningful.
type Kind int

const (
	Tap Kind = iota
	Hold
	Release
	Transparent
	NoAction
	Alias
	Unicode
	TapHold
	Multi
	Sequence
	LayerSwitch
	LayerWhileHeld
)

// Action is a recursive tagged tree. Exactly the fields relevant to Kind
// are populated; the zero value is Tap(Key(0)).
type Action struct {
	Kind     Kind
	Key      keys.Key
	Name     string
	Char     rune
	Children []Action
}

func NewTap(k keys.Key) Action     { return Action{Kind: Tap, Key: k} }
func NewHold(k keys.Key) Action    { return Action{Kind: Hold, Key: k} }
func NewRelease(k keys.Key) Action { return Action{Kind: Release, Key: k} }
func NewTransparent() Action       { return Action{Kind: Transparent} }
func NewNoAction() Action          { return Action{Kind: NoAction} }
func NewAlias(name string) Action  { return Action{Kind: Alias, Name: name} }
func NewUnicode(c rune) Action     { return Action{Kind: Unicode, Char: c} }

func NewTapHold(tap, hold Action) Action {
	return Action{Kind: TapHold, Children: []Action{tap, hold}}
}
func NewMulti(children ...Action) Action    { return Action{Kind: Multi, Children: children} }
func NewSequence(children ...Action) Action { return Action{Kind: Sequence, Children: children} }
func NewLayerSwitch(name string) Action     { return Action{Kind: LayerSwitch, Name: name} }
func NewLayerWhileHeld(name string) Action  { return Action{Kind: LayerWhileHeld, Name: name} }

// ResolveAliases replaces every Alias(n) with aliases[n], re-resolved
// transitively. A name revisited on the current resolution path reports
// AliasCycleError instead of recursing forever.
func (a Action) ResolveAliases(aliases map[string]Action) (Action, error) {
	return a.resolveAliases(aliases, nil)
}

func (a Action) resolveAliases(aliases map[string]Action, path []string) (Action, error) {
	switch a.Kind {
	case Alias:
		for _, p := range path {
			if p == a.Name {
				return Action{}, &rklerr.AliasCycleError{Name: a.Name}
			}
		}
		target, ok := aliases[a.Name]
		if !ok {
			return Action{}, &rklerr.MissingAliasError{Name: a.Name}
		}
		return target.resolveAliases(aliases, append(path, a.Name))
	case TapHold:
		tap, err := a.Children[0].resolveAliases(aliases, path)
		if err != nil {
			return Action{}, err
		}
		hold, err := a.Children[1].resolveAliases(aliases, path)
		if err != nil {
			return Action{}, err
		}
		return NewTapHold(tap, hold), nil
	case Multi:
		out := make([]Action, len(a.Children))
		for i, c := range a.Children {
			r, err := c.resolveAliases(aliases, path)
			if err != nil {
				return Action{}, err
			}
			out[i] = r
		}
		return Action{Kind: Multi, Children: out}, nil
	default:
		return a, nil
	}
}

// LayerWhileHeldNames collects the names of every LayerWhileHeld action
// reachable through TapHold, Multi, and Sequence.
func (a Action) LayerWhileHeldNames() []string {
	switch a.Kind {
	case LayerWhileHeld:
		return []string{a.Name}
	case TapHold:
		return append(a.Children[0].LayerWhileHeldNames(), a.Children[1].LayerWhileHeldNames()...)
	case Multi, Sequence:
		var names []string
		for _, c := range a.Children {
			names = append(names, c.LayerWhileHeldNames()...)
		}
		return names
	default:
		return nil
	}
}

// ContainsUnicode reports whether a Unicode action appears anywhere in
// the tree, reachable through TapHold, Multi, and Sequence.
func (a Action) ContainsUnicode() bool {
	switch a.Kind {
	case Unicode:
		return true
	case TapHold:
		return a.Children[0].ContainsUnicode() || a.Children[1].ContainsUnicode()
	case Multi, Sequence:
		for _, c := range a.Children {
			if c.ContainsUnicode() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// MapLayerWhileHeld returns a new tree with every LayerWhileHeld name
// passed through f; names f leaves unchanged (ok == false) are kept.
func (a Action) MapLayerWhileHeld(f func(name string) (string, bool)) Action {
	switch a.Kind {
	case LayerWhileHeld:
		if renamed, ok := f(a.Name); ok {
			return NewLayerWhileHeld(renamed)
		}
		return a
	case TapHold:
		return NewTapHold(a.Children[0].MapLayerWhileHeld(f), a.Children[1].MapLayerWhileHeld(f))
	case Multi, Sequence:
		out := make([]Action, len(a.Children))
		for i, c := range a.Children {
			out[i] = c.MapLayerWhileHeld(f)
		}
		return Action{Kind: a.Kind, Children: out}
	default:
		return a
	}
}

// String renders a canonical textual form of a, used in error messages
// and in describe output.
func (a Action) String() string {
	switch a.Kind {
	case Tap:
		return a.Key.String()
	case Hold:
		return "hold:" + a.Key.String()
	case Release:
		return "release:" + a.Key.String()
	case Transparent:
		return "_"
	case NoAction:
		return "X"
	case Alias:
		return "@" + a.Name
	case Unicode:
		return "." + string(a.Char)
	case TapHold:
		return fmt.Sprintf("(tap-hold %s %s)", a.Children[0], a.Children[1])
	case Multi:
		return "(multi " + joinActions(a.Children) + ")"
	case Sequence:
		return "(sequence " + joinActions(a.Children) + ")"
	case LayerSwitch:
		return fmt.Sprintf("(layer-switch %s)", a.Name)
	case LayerWhileHeld:
		return fmt.Sprintf("(layer-while-held %s)", a.Name)
	default:
		return "?"
	}
}

func joinActions(children []Action) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
