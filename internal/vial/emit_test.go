package vial

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rkl-go/rkl/internal/action"
	"github.com/rkl-go/rkl/internal/hidtransport"
	"github.com/rkl-go/rkl/internal/hidtransport/simulate"
	"github.com/rkl-go/rkl/internal/keyboard"
	"github.com/rkl-go/rkl/internal/keycode"
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/layout"
)

func newTestLayout() *layout.Layout {
	source := map[keys.Key]int{keys.A: 0, keys.B: 1, keys.LeftShift: 2}
	vial := map[keys.Key]keyboard.VialAddress{
		keys.A:         {A: 0, B: 0},
		keys.B:         {A: 0, B: 1},
		keys.LeftShift: {A: 0, B: 2},
	}
	src := layout.LayerFromSource(source)
	def := src.Child("default", 0)
	def.Keys[1] = action.NewTap(keys.C)

	return &layout.Layout{
		Layers: map[string]layout.Layer{
			"src":     src,
			"default": def,
		},
		Keyboard: &keyboard.Descriptor{Source: source, Vial: vial},
		Keymaps:  map[layout.Keymap]action.Action{},
	}
}

func newTestTransport() *simulate.Transport {
	tr := simulate.New()
	tr.Capabilities = hidtransport.Capabilities{VialVersion: 0}
	return tr
}

func TestEmitSetsKeycodesPerLayer(t *testing.T) {
	l := newTestLayout()
	tr := newTestTransport()
	if err := Emit(l, tr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(tr.Keycodes) == 0 {
		t.Fatalf("expected SetKeycode calls to be recorded")
	}
	wantB, err := keycode.Encode(keys.B)
	if err != nil {
		t.Fatalf("keycode.Encode: %v", err)
	}
	wantC, err := keycode.Encode(keys.C)
	if err != nil {
		t.Fatalf("keycode.Encode: %v", err)
	}
	seen := make(map[uint16]bool)
	for _, kc := range tr.Keycodes {
		if kc.Row == 0 && kc.Col == 1 {
			seen[kc.Code] = true
		}
	}
	if !seen[wantB] {
		t.Fatalf("expected layer 'src' binding for b to be its own keycode")
	}
	if !seen[wantC] {
		t.Fatalf("expected layer 'default' binding for b to be its rebound keycode")
	}
}

func TestEmitSkipsUnlockWhenVialVersionZero(t *testing.T) {
	l := newTestLayout()
	tr := newTestTransport()
	if err := Emit(l, tr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if tr.UnlockStarted {
		t.Fatalf("expected no unlock handshake when VialVersion == 0")
	}
}

func TestEmitRunsUnlockAndRelockWhenVialVersionPositive(t *testing.T) {
	l := newTestLayout()
	tr := newTestTransport()
	tr.Capabilities = hidtransport.Capabilities{VialVersion: 1}
	tr.Status = hidtransport.LockedStatus{Locked: true}
	tr.PollsBeforeUnlock = 2

	if err := Emit(l, tr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !tr.UnlockStarted {
		t.Fatalf("expected StartUnlock to have been called")
	}
	if tr.RelockedCount == 0 {
		t.Fatalf("expected a final SetLocked call once programming completed")
	}
}

func TestEmitPoolsOverridesAcrossLayers(t *testing.T) {
	l := newTestLayout()
	def := l.Layers["default"]
	def.Overrides = []layout.Override{
		{Key: keys.A, Mods: []keys.Key{keys.LeftShift}, Action: action.NewTap(keys.B)},
	}
	l.Layers["default"] = def
	src := l.Layers["src"]
	src.Overrides = []layout.Override{
		{Key: keys.A, Mods: []keys.Key{keys.LeftShift}, Action: action.NewTap(keys.B)},
	}
	l.Layers["src"] = src

	tr := newTestTransport()
	if err := Emit(l, tr); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(tr.KeyOverrides) != 1 {
		t.Fatalf("got %d overrides, want 1", len(tr.KeyOverrides))
	}
	if !tr.KeyOverrides[0].Enabled {
		t.Fatalf("expected the pooled override to be enabled")
	}
	if tr.KeyOverrides[0].LayersMask != 0x3 {
		t.Fatalf("got layers mask %#x, want 0x3 (both layers)", tr.KeyOverrides[0].LayersMask)
	}
}

func TestEmitWarnsAndSkipsUnlowerableOverride(t *testing.T) {
	l := newTestLayout()
	def := l.Layers["default"]
	def.Overrides = []layout.Override{
		{Key: keys.A, Mods: []keys.Key{keys.LeftShift}, Action: action.NewSequence(action.NewTap(keys.B))},
	}
	l.Layers["default"] = def

	tr := newTestTransport()
	var progress bytes.Buffer
	if err := Emit(l, tr, &progress); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(tr.KeyOverrides) != 0 {
		t.Fatalf("got %d overrides, want the unlowerable one skipped", len(tr.KeyOverrides))
	}
	if !strings.Contains(progress.String(), "warning") {
		t.Fatalf("got progress %q, want a warning about the skipped override", progress.String())
	}
}

func TestLowererTapHoldRecognizesModifierShortcut(t *testing.T) {
	lw := newLowerer(func(string) (int, bool) { return 0, false })
	a := action.NewTapHold(action.NewTap(keys.A), action.NewTap(keys.LeftCtrl))
	code, err := lw.keycode(a)
	if err != nil {
		t.Fatalf("keycode: %v", err)
	}
	if len(lw.tapDances.order) != 0 {
		t.Fatalf("expected the modifier-hold shortcut to avoid pooling a TapDance")
	}
	if code == 0 {
		t.Fatalf("expected a nonzero MT-wrapped keycode")
	}
}

func TestLowererTapHoldPoolsGeneralTapDance(t *testing.T) {
	lw := newLowerer(func(string) (int, bool) { return 0, false })
	a := action.NewTapHold(action.NewTap(keys.A), action.NewTap(keys.B))
	if _, err := lw.keycode(a); err != nil {
		t.Fatalf("keycode: %v", err)
	}
	if len(lw.tapDances.order) != 1 {
		t.Fatalf("got %d tap-dances, want 1", len(lw.tapDances.order))
	}
}

func TestLowererMultiRecognizesModKeyCombo(t *testing.T) {
	lw := newLowerer(func(string) (int, bool) { return 0, false })
	a := action.NewMulti(action.NewTap(keys.LeftCtrl), action.NewTap(keys.A))
	if _, err := lw.keycode(a); err != nil {
		t.Fatalf("keycode: %v", err)
	}
	if len(lw.macros.order) != 0 {
		t.Fatalf("expected the combo shortcut to avoid pooling a Macro")
	}
}

func TestLowererMultiFallsBackToMacro(t *testing.T) {
	lw := newLowerer(func(string) (int, bool) { return 0, false })
	a := action.NewMulti(action.NewTap(keys.A), action.NewTap(keys.B))
	if _, err := lw.keycode(a); err != nil {
		t.Fatalf("keycode: %v", err)
	}
	if len(lw.macros.order) != 1 {
		t.Fatalf("got %d macros, want 1", len(lw.macros.order))
	}
}

func TestLowererSequenceInsertsDelayBetweenConsecutiveTaps(t *testing.T) {
	lw := newLowerer(func(string) (int, bool) { return 0, false })
	a := action.NewSequence(action.NewTap(keys.A), action.NewTap(keys.B))
	if _, err := lw.keycode(a); err != nil {
		t.Fatalf("keycode: %v", err)
	}
	steps := lw.macros.order[0].Steps
	if len(steps) != 3 || steps[1].Kind != hidtransport.Delay {
		t.Fatalf("got steps %+v, want a Delay inserted between two taps", steps)
	}
}

func TestOverridePoolTreatsEmptyModsAsValid(t *testing.T) {
	mask, ok := modMask(nil)
	if !ok || mask != 0 {
		t.Fatalf("got (%d, %v), want (0, true) for an empty modifier set", mask, ok)
	}
}
