package layout

import (
	"testing"

	"github.com/rkl-go/rkl/internal/action"
)

func TestResolveUnicodeDirectTableHit(t *testing.T) {
	got, err := ResolveUnicode(action.NewUnicode('#'), En, nil)
	if err != nil {
		t.Fatalf("ResolveUnicode: %v", err)
	}
	if got.Kind != action.Multi {
		t.Fatalf("got %+v, want a Multi (Shift-3)", got)
	}
}

func TestResolveUnicodeCrossKeymapSequence(t *testing.T) {
	keymaps := map[Keymap]action.Action{
		En: action.NewTap(0),
		Ru: action.NewTap(1),
	}
	got, err := ResolveUnicode(action.NewUnicode('&'), Ru, keymaps)
	if err != nil {
		t.Fatalf("ResolveUnicode: %v", err)
	}
	if got.Kind != action.Sequence || len(got.Children) != 3 {
		t.Fatalf("got %+v, want a 3-step Sequence", got)
	}
}

func TestResolveUnicodeLeavesUnmappedCharUnchanged(t *testing.T) {
	got, err := ResolveUnicode(action.NewUnicode('~'), En, nil)
	if err != nil {
		t.Fatalf("ResolveUnicode: %v", err)
	}
	if got.Kind != action.Unicode || got.Char != '~' {
		t.Fatalf("got %+v, want Unicode('~') unchanged", got)
	}
}

func TestResolveUnicodeRecursesThroughTapHold(t *testing.T) {
	a := action.NewTapHold(action.NewUnicode('#'), action.NewTap(0))
	got, err := ResolveUnicode(a, En, nil)
	if err != nil {
		t.Fatalf("ResolveUnicode: %v", err)
	}
	if got.Children[0].Kind != action.Multi {
		t.Fatalf("tap child = %+v, want resolved Multi", got.Children[0])
	}
}
