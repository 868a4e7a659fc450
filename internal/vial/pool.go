// Package vial emits the binary HID back-end: layered keycodes, pooled
// macros and tap-dances, and key-overrides, pushed through an
// hidtransport.Transport in the order the firmware expects them.
package vial

import (
	"fmt"
	"strings"

	"github.com/rkl-go/rkl/internal/hidtransport"
)

// macroPool interns macros by their step sequence, assigning each
// distinct sequence the next pool index in first-seen order.
type macroPool struct {
	index map[string]uint8
	order []hidtransport.Macro
}

func newMacroPool() *macroPool { return &macroPool{index: make(map[string]uint8)} }

func (p *macroPool) intern(steps []hidtransport.MacroStep) uint8 {
	key := macroKey(steps)
	if id, ok := p.index[key]; ok {
		return id
	}
	id := uint8(len(p.order))
	p.index[key] = id
	p.order = append(p.order, hidtransport.Macro{Index: id, Steps: steps})
	return id
}

func macroKey(steps []hidtransport.MacroStep) string {
	var b strings.Builder
	for _, s := range steps {
		fmt.Fprintf(&b, "%d:%d:%d,", s.Kind, s.Keycode, s.Delay)
	}
	return b.String()
}

// tapDancePool interns tap-dances by their (tap, hold, double-tap,
// tap-hold, tapping-term) tuple.
type tapDancePool struct {
	index map[string]uint8
	order []hidtransport.TapDance
}

func newTapDancePool() *tapDancePool { return &tapDancePool{index: make(map[string]uint8)} }

func (p *tapDancePool) intern(td hidtransport.TapDance) uint8 {
	key := fmt.Sprintf("%d:%d:%d:%d:%d", td.Tap, td.Hold, td.DoubleTap, td.TapHold, td.TappingTerm)
	if id, ok := p.index[key]; ok {
		return id
	}
	id := uint8(len(p.order))
	p.index[key] = id
	td.Index = id
	p.order = append(p.order, td)
	return id
}
