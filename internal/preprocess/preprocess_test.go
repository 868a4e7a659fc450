package preprocess

import (
	"testing"

	"github.com/rkl-go/rkl/internal/sexpr"
)

func mustParse(t *testing.T, s string) sexpr.Expr {
	t.Helper()
	e, err := sexpr.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return e
}

func TestDeftemplateCollects(t *testing.T) {
	root := mustParse(t, "(a ($b $c) $c)")
	items, _ := root.AsList()
	templates := make(Templates)
	if err := Deftemplate(items, templates); err != nil {
		t.Fatalf("Deftemplate: %v", err)
	}
	tpl, ok := templates["a"]
	if !ok {
		t.Fatalf("template %q not collected", "a")
	}
	if len(tpl.params) != 2 || tpl.params[0] != "$b" || tpl.params[1] != "$c" {
		t.Fatalf("params = %v", tpl.params)
	}
}

func TestDeftemplateRejectsDuplicateArgs(t *testing.T) {
	root := mustParse(t, "(a ($a $a) $a)")
	items, _ := root.AsList()
	templates := make(Templates)
	if err := Deftemplate(items, templates); err == nil {
		t.Fatalf("expected an error for duplicate template argument")
	}
}

func TestDeftemplateRejectsNonListArgs(t *testing.T) {
	root := mustParse(t, "(a arg a)")
	items, _ := root.AsList()
	templates := make(Templates)
	if err := Deftemplate(items, templates); err == nil {
		t.Fatalf("expected an error when the arg position isn't a list")
	}
}

func expandString(t *testing.T, input, templateSrc string) string {
	t.Helper()
	root := mustParse(t, templateSrc)
	items, _ := root.AsList()
	templates := make(Templates)
	if err := Deftemplate(items, templates); err != nil {
		t.Fatalf("Deftemplate: %v", err)
	}
	in := mustParse(t, input)
	return Expand(in, templates).Pretty()
}

func TestExpandSingleArg(t *testing.T) {
	got := expandString(t, "(a 1 1)", "(a ($b $c) $c)")
	if got != "1" {
		t.Fatalf("Expand() = %q, want %q", got, "1")
	}
}

func TestExpandVariadicTail(t *testing.T) {
	got := expandString(t, "(a b c d)", "(a ($b $c) $c)")
	if got != "(c d)" {
		t.Fatalf("Expand() = %q, want %q", got, "(c d)")
	}
}

func TestExpandUndefinedTemplateRecursesIntoChildren(t *testing.T) {
	root := mustParse(t, "(a (x 1) (y 2))")
	got := Expand(root, make(Templates)).Pretty()
	if got != "(a (x 1) (y 2))" {
		t.Fatalf("Expand() = %q, want unchanged input", got)
	}
}

func TestExpandZeroParamsYieldsBodyVerbatim(t *testing.T) {
	got := expandString(t, "(greet)", "(greet () (hello world))")
	if got != "(hello world)" {
		t.Fatalf("Expand() = %q, want %q", got, "(hello world)")
	}
}

func TestUnwrapSplicesList(t *testing.T) {
	e := mustParse(t, "(outer (unwrap (arg a)))")
	got := Unwrap(e, nil).Pretty()
	if got != "(outer arg a)" {
		t.Fatalf("Unwrap() = %q, want %q", got, "(outer arg a)")
	}
}

func TestUnwrapSplicesAtoms(t *testing.T) {
	e := mustParse(t, "(outer (unwrap a b c d))")
	got := Unwrap(e, nil).Pretty()
	if got != "(outer a b c d)" {
		t.Fatalf("Unwrap() = %q, want %q", got, "(outer a b c d)")
	}
}

func TestUnwrapIgnoreSet(t *testing.T) {
	e := mustParse(t, "(outer (unwrap a b c d) (ignore some))")
	got := Unwrap(e, map[string]bool{"ignore": true}).Pretty()
	if got != "(outer a b c d)" {
		t.Fatalf("Unwrap() = %q, want %q", got, "(outer a b c d)")
	}
}

func TestUnwrapIgnoreDropsWholeForm(t *testing.T) {
	e := mustParse(t, "(ignore (unwrap a b c d))")
	got := Unwrap(e, map[string]bool{"ignore": true}).Pretty()
	if got != "()" {
		t.Fatalf("Unwrap() = %q, want %q", got, "()")
	}
}

func TestRunDropsDeftemplateAndExpandsCalls(t *testing.T) {
	src := `(
		(deftemplate app ($x) (multi meta $x))
		(defalias
			a0 (app 0)
			a1 (app 1)
			a2 (app 2))
	)`
	want := `(
		(defalias
			a0 (multi meta 0)
			a1 (multi meta 1)
			a2 (multi meta 2))
	)`
	root := mustParse(t, src)
	got, err := Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	wantExpr := mustParse(t, want)
	if got.Pretty() != wantExpr.Pretty() {
		t.Fatalf("Run() = %q, want %q", got.Pretty(), wantExpr.Pretty())
	}
}
