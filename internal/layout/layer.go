package layout

import (
	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/rklerr"
	"github.com/rkl-go/rkl/internal/sexpr"
)

// Override rebinds a single physical key under a held modifier set.
type Override struct {
	Key    keys.Key
	Mods   []keys.Key
	Action action.Action
}

// Layer is one named keymap layer: a per-source-index action table plus
// the overrides that apply while this layer is active.
type Layer struct {
	Name      string
	Parent    string
	Keys      map[int]action.Action
	Overrides []Override
	Index     int
	Keymap    Keymap
}

// Child derives a copy of l under a new name, used both for the implicit
// "default" layer and for the per-Keymap layer-while-held duplicates.
func (l Layer) Child(name string, index int) Layer {
	keysCopy := make(map[int]action.Action, len(l.Keys))
	for k, v := range l.Keys {
		keysCopy[k] = v
	}
	overridesCopy := make([]Override, len(l.Overrides))
	copy(overridesCopy, l.Overrides)
	return Layer{
		Name:      name,
		Parent:    l.Name,
		Keys:      keysCopy,
		Overrides: overridesCopy,
		Index:     index,
		Keymap:    l.Keymap,
	}
}

// LayerFromSource builds the implicit "src" layer: every physical key
// taps itself.
func LayerFromSource(source map[keys.Key]int) Layer {
	l := Layer{Name: "src", Keys: make(map[int]action.Action, len(source))}
	for k, idx := range source {
		l.Keys[idx] = action.NewTap(k)
	}
	return l
}

// LayerFromDef builds a layer from a (deflayer name actions...) form,
// where actions are positional and map 1:1 onto the src layer's indices.
func LayerFromDef(params []sexpr.Expr, index int) (Layer, error) {
	name, parent, actions, err := GetName(params)
	if err != nil {
		return Layer{}, err
	}
	l := Layer{
		Name:   name,
		Parent: parent,
		Keys:   make(map[int]action.Action, len(actions)),
		Index:  index,
	}
	for i, e := range actions {
		a, err := action.Build(e)
		if err != nil {
			return Layer{}, err
		}
		l.Keys[i] = a
	}
	return l, nil
}

// LayerFromMap builds a layer from a (deflayermap name KEY action ...)
// form: the params are KEY action pairs (flat, or all wrapped in one
// list), each naming a physical key directly rather than by position.
func LayerFromMap(params []sexpr.Expr, indexByKey map[keys.Key]int) (Layer, error) {
	name, parent, params, err := GetName(params)
	if err != nil {
		return Layer{}, err
	}
	l := Layer{Name: name, Parent: parent, Keys: make(map[int]action.Action, len(params)/2)}
	if len(params)%2 != 0 {
		return Layer{}, &rklerr.ShapeError{Msg: "deflayermap expects KEY action pairs"}
	}
	for i := 0; i < len(params); i += 2 {
		keyAtom, err := params[i].AsAtom()
		if err != nil {
			return Layer{}, err
		}
		k, err := keys.Parse(keyAtom)
		if err != nil {
			return Layer{}, err
		}
		idx, ok := indexByKey[k]
		if !ok {
			return Layer{}, &rklerr.ShapeError{Msg: "key " + keyAtom + " not in source map"}
		}
		a, err := action.Build(params[i+1])
		if err != nil {
			return Layer{}, err
		}
		l.Keys[idx] = a
	}
	return l, nil
}

// GetDependencies lists the distinct layer names this layer's actions
// switch to via layer-while-held, excluding self-references.
func (l Layer) GetDependencies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range l.Keys {
		for _, name := range a.LayerWhileHeldNames() {
			if name == l.Name || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// GetName splits a deflayer/deflayermap/defoverride form's parameter list
// into its name, its parent layer name, and the remaining action params.
//
// The name token is either a bare atom (defaulting its parent to
// "default", except "default" itself whose parent is "src", and "src"
// which is rejected), or a (name parent) pair. If what remains after the name is a
// single parenthesized list, its contents become the action params;
// otherwise the remainder is used as-is.
func GetName(params []sexpr.Expr) (name, parent string, rest []sexpr.Expr, err error) {
	if len(params) == 0 {
		return "", "", nil, &rklerr.ShapeError{Msg: "expected a layer name"}
	}
	head := params[0]
	tail := params[1:]

	if head.IsAtom() {
		atom, _ := head.AsAtom()
		switch atom {
		case "default":
			name, parent = "default", "src"
		case "src":
			return "", "", nil, &rklerr.ShapeError{Msg: "cannot override src layer"}
		default:
			name, parent = atom, "default"
		}
	} else {
		items, _ := head.AsList()
		if len(items) != 2 {
			return "", "", nil, &rklerr.ShapeError{Msg: "expected (name parent)"}
		}
		nameAtom, err1 := items[0].AsAtom()
		parentAtom, err2 := items[1].AsAtom()
		if err1 != nil || err2 != nil {
			return "", "", nil, &rklerr.ShapeError{Msg: "expected (name parent)"}
		}
		name, parent = nameAtom, parentAtom
	}

	if len(tail) == 1 && !tail[0].IsAtom() {
		inner, _ := tail[0].AsList()
		return name, parent, inner, nil
	}
	return name, parent, tail, nil
}
