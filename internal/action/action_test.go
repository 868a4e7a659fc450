package action

import (
	"testing"

	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/sexpr"
)

func build(t *testing.T, src string) Action {
	t.Helper()
	e, err := sexpr.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	a, err := Build(e)
	if err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	return a
}

func TestBuildSimpleTap(t *testing.T) {
	a := build(t, "a")
	if a.Kind != Tap || a.Key != keys.A {
		t.Fatalf("got %+v, want Tap(A)", a)
	}
}

func TestBuildUnicode(t *testing.T) {
	a := build(t, ".x")
	if a.Kind != Unicode || a.Char != 'x' {
		t.Fatalf("got %+v, want Unicode(x)", a)
	}
}

func TestBuildAlias(t *testing.T) {
	a := build(t, "@foo")
	if a.Kind != Alias || a.Name != "foo" {
		t.Fatalf("got %+v, want Alias(foo)", a)
	}
}

func TestBuildMultiFromDash(t *testing.T) {
	a := build(t, "C-S-a")
	if a.Kind != Multi || len(a.Children) != 3 {
		t.Fatalf("got %+v, want Multi of 3", a)
	}
	if a.Children[0].Key != keys.LeftCtrl || a.Children[1].Key != keys.LeftShift || a.Children[2].Key != keys.A {
		t.Fatalf("children = %+v", a.Children)
	}
}

func TestBuildSpecialAtoms(t *testing.T) {
	cases := map[string]Kind{"X": NoAction, "_": Transparent, "lb": Unicode, "rb": Unicode}
	for src, want := range cases {
		a := build(t, src)
		if a.Kind != want {
			t.Errorf("build(%q).Kind = %v, want %v", src, a.Kind, want)
		}
	}
}

func TestBuildTapHold(t *testing.T) {
	a := build(t, "(tap-hold a lctl)")
	if a.Kind != TapHold {
		t.Fatalf("got %+v, want TapHold", a)
	}
	if a.Children[0].Key != keys.A || a.Children[1].Key != keys.LeftCtrl {
		t.Fatalf("children = %+v", a.Children)
	}
}

func TestBuildLayerWhileHeld(t *testing.T) {
	a := build(t, "(layer-while-held nav)")
	if a.Kind != LayerWhileHeld || a.Name != "nav" {
		t.Fatalf("got %+v", a)
	}
}

func TestBuildUnknownActionErrors(t *testing.T) {
	e, _ := sexpr.Parse("(bogus a b)")
	if _, err := Build(e); err == nil {
		t.Fatalf("expected an error for an unknown action form")
	}
}

func TestResolveAliasesChain(t *testing.T) {
	aliases := map[string]Action{
		"x": NewAlias("y"),
		"y": NewTapHold(NewTap(keys.A), NewTap(keys.LeftCtrl)),
	}
	resolved, err := NewAlias("x").ResolveAliases(aliases)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	if resolved.Kind != TapHold {
		t.Fatalf("got %+v, want TapHold", resolved)
	}
}

func TestResolveAliasesDetectsCycle(t *testing.T) {
	aliases := map[string]Action{
		"x": NewAlias("y"),
		"y": NewAlias("x"),
	}
	if _, err := NewAlias("x").ResolveAliases(aliases); err == nil {
		t.Fatalf("expected an alias cycle error")
	}
}

func TestResolveAliasesMissing(t *testing.T) {
	if _, err := NewAlias("missing").ResolveAliases(map[string]Action{}); err == nil {
		t.Fatalf("expected a missing alias error")
	}
}

func TestLayerWhileHeldNamesCollectsThroughTapHold(t *testing.T) {
	a := NewTapHold(NewLayerWhileHeld("nav"), NewLayerWhileHeld("sym"))
	names := a.LayerWhileHeldNames()
	if len(names) != 2 || names[0] != "nav" || names[1] != "sym" {
		t.Fatalf("got %v", names)
	}
}

func TestContainsUnicode(t *testing.T) {
	a := NewMulti(NewTap(keys.A), NewUnicode('x'))
	if !a.ContainsUnicode() {
		t.Fatalf("expected ContainsUnicode to be true")
	}
	if NewTap(keys.A).ContainsUnicode() {
		t.Fatalf("expected ContainsUnicode to be false for a plain tap")
	}
}

func TestMapLayerWhileHeldRewritesNames(t *testing.T) {
	a := NewTapHold(NewLayerWhileHeld("nav"), NewTap(keys.A))
	renamed := a.MapLayerWhileHeld(func(name string) (string, bool) {
		if name == "nav" {
			return "nav-ru", true
		}
		return "", false
	})
	if renamed.Children[0].Name != "nav-ru" {
		t.Fatalf("got %+v", renamed)
	}
}

func TestStringCanonicalForm(t *testing.T) {
	a := NewTapHold(NewTap(keys.A), NewTap(keys.LeftCtrl))
	got := a.String()
	want := "(tap-hold KeyA LeftCtrl)"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
