package layout

import (
	"testing"

	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/keys"
)

func TestParseBasicLayout(t *testing.T) {
	src := `
(defsrc a b c)
(deflayer default a b c)
`
	l, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def, ok := l.Layers["default"]
	if !ok {
		t.Fatalf("layer %q not found, have %v", "default", l.Layers)
	}
	if def.Keys[0].Kind != action.Tap || def.Keys[0].Key != keys.A {
		t.Fatalf("slot 0 = %+v, want Tap(A)", def.Keys[0])
	}
}

func TestParseDeflayerCountMismatchErrors(t *testing.T) {
	src := `
(defsrc a b c)
(deflayer default a b)
`
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected a key-count mismatch error")
	}
}

func TestTransparencyWalkResolvesFromParent(t *testing.T) {
	src := `
(defsrc a b c)
(deflayer default a b c)
(deflayer nav _ x _)
`
	l, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nav := l.Layers["nav"]
	if nav.Parent != "default" {
		t.Fatalf("nav.Parent = %q, want default", nav.Parent)
	}
	if nav.Keys[0].Kind != action.Tap || nav.Keys[0].Key != keys.A {
		t.Fatalf("nav slot 0 = %+v, want Tap(A) inherited from default", nav.Keys[0])
	}
	if nav.Keys[2].Kind != action.Tap || nav.Keys[2].Key != keys.C {
		t.Fatalf("nav slot 2 = %+v, want Tap(C) inherited from default", nav.Keys[2])
	}
}

func TestDefaliasResolvesChain(t *testing.T) {
	src := `
(defsrc a b c)
(defalias x @y y (tap-hold a lctl))
(deflayer default @x b c)
`
	l, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := l.Layers["default"]
	if def.Keys[0].Kind != action.TapHold {
		t.Fatalf("slot 0 = %+v, want TapHold", def.Keys[0])
	}
}

func TestDefaliasCycleErrors(t *testing.T) {
	src := `
(defsrc a b c)
(defalias x @y)
(defalias y @x)
(deflayer default @x b c)
`
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected an alias cycle error")
	}
}

func TestDefoverrideParsesModsAndKey(t *testing.T) {
	src := `
(defsrc a b c)
(deflayer default a b c)
(defoverride default S-a b)
`
	l, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := l.Layers["default"]
	if len(def.Overrides) != 1 {
		t.Fatalf("got %d overrides, want 1", len(def.Overrides))
	}
	o := def.Overrides[0]
	if o.Key != keys.A || len(o.Mods) != 1 || o.Mods[0] != keys.LeftShift {
		t.Fatalf("override = %+v, want key=A mods=[LeftShift]", o)
	}
}

func TestDefoverrideRejectsNonModifierPrefix(t *testing.T) {
	src := `
(defsrc a b c)
(deflayer default a b c)
(defoverride default a-b (tap c))
`
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected an override shape error for a non-modifier prefix")
	}
}

func TestUnicodeCrossKeymapSequence(t *testing.T) {
	src := `
(defsrc a b c)
(deflayer default a b c)
(deflayer ru _ .& _)
(defkeymap default En (tap-hold lalt lalt))
(defkeymap ru Ru (tap-hold ralt ralt))
`
	l, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ru := l.Layers["ru"]
	got := ru.Keys[1]
	if got.Kind != action.Sequence || len(got.Children) != 3 {
		t.Fatalf("ru slot 1 = %+v, want a 3-step Sequence", got)
	}
	if got.Children[1].Kind != action.Multi {
		t.Fatalf("middle step = %+v, want the mapped Multi(LeftShift, Seven)", got.Children[1])
	}
}

func TestMutualLayerWhileHeldDuplicationSucceeds(t *testing.T) {
	src := `
(defsrc a b c)
(deflayer default a b c)
(deflayer one _ (layer-while-held two) _)
(deflayer two _ (layer-while-held one) _)
`
	if _, err := Parse(src); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}
