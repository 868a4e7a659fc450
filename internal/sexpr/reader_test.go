package sexpr

import "testing"

func TestParseAtom(t *testing.T) {
	e, err := Parse("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.AsAtom()
	if err != nil {
		t.Fatalf("AsAtom: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestParseNestedList(t *testing.T) {
	e, err := Parse("(tap a (hold b) c)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, err := e.AsList()
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	head, _ := items[0].AsAtom()
	if head != "tap" {
		t.Fatalf("head = %q, want tap", head)
	}
	sub, err := items[2].AsList()
	if err != nil {
		t.Fatalf("items[2].AsList: %v", err)
	}
	if len(sub) != 2 {
		t.Fatalf("sub has %d items, want 2", len(sub))
	}
}

func TestParseSemicolonIsAtomChar(t *testing.T) {
	e, err := Parse("(defalias a ;)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items, _ := e.AsList(); len(items) != 3 || !items[2].IsAtom() || items[2].String() != ";" {
		t.Fatalf("got %v, want a trailing ; atom before the closing paren", e)
	}

	e, err = Parse("(a ; b)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, _ := e.AsList()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (lone ; is an atom)", len(items))
	}
	mid, _ := items[1].AsAtom()
	if mid != ";" {
		t.Fatalf("got %q, want \";\"", mid)
	}
}

func TestParseLineComment(t *testing.T) {
	src := "(a b) ;; this is a comment\n(c d)"
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected trailing-tokens error since Parse reads one root form")
	}

	e, err := Parse("(a ;; comment eats rest of the line\n b)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, _ := e.AsList()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestParseUnbalancedParens(t *testing.T) {
	cases := []string{"(a b", "a b)", "((a)"}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", c)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatalf("expected error on empty input")
	}
	if _, err := Parse("   \n\t"); err == nil {
		t.Fatalf("expected error on whitespace-only input")
	}
}

func TestPrettyRoundTrip(t *testing.T) {
	src := "(tap a (hold b c) d)"
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Pretty(); got != src {
		t.Fatalf("Pretty() = %q, want %q", got, src)
	}
}

func TestLineColumnTracking(t *testing.T) {
	src := "(a\n  (b c))"
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, _ := e.AsList()
	inner := items[1]
	if inner.Line() != 2 {
		t.Fatalf("inner.Line() = %d, want 2", inner.Line())
	}
	if inner.Column() != 3 {
		t.Fatalf("inner.Column() = %d, want 3", inner.Column())
	}
}
