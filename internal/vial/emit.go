package vial

import (
	"fmt"
	"io"
	"time"

	"github.com/rkl-go/rkl/internal/graph"
	"github.com/rkl-go/rkl/internal/hidtransport"
	"github.com/rkl-go/rkl/internal/keycode"
	"github.com/rkl-go/rkl/internal/keys"
	"github.com/rkl-go/rkl/internal/layout"
	"github.com/rkl-go/rkl/internal/rklerr"
)

// Emit programs t with l: it sorts the layers (dependent before
// dependency, so a layer's index matches the firmware slot MO/DF/LT
// references expect), lowers every bound action to a keycode, pools
// macros/tap-dances/overrides by structural equality, then writes
// everything through t in the order the firmware expects — unlock,
// per-layer keycodes and encoders, macros, tap-dances, overrides,
// relock. The unlock/relock pair is skipped if t reports Vial version 0.
//
// progress, if given, receives the per-layer and per-phase markers
// (Layer NAME, Macros, Tap dance, Key overrides) and the unlock
// countdown; it defaults to io.Discard, matching mkinfo.go's own
// injected-io.Writer convention rather than writing to a global.
func Emit(l *layout.Layout, t hidtransport.Transport, progress ...io.Writer) error {
	w := io.Writer(io.Discard)
	if len(progress) > 0 && progress[0] != nil {
		w = progress[0]
	}
	order, err := sortedLayerNames(l)
	if err != nil {
		return err
	}
	layerIndex := make(map[string]int, len(order))
	for i, name := range order {
		layerIndex[name] = i
	}
	lw := newLowerer(func(name string) (int, bool) {
		idx, ok := layerIndex[name]
		return idx, ok
	})

	indexToKey := make(map[int]keys.Key, len(l.Keyboard.Source))
	for k, idx := range l.Keyboard.Source {
		indexToKey[idx] = k
	}

	type boundKey struct {
		key  keys.Key
		code uint16
	}
	layerBindings := make([][]boundKey, len(order))
	pool := newOverridePool()

	for i, name := range order {
		ly := l.Layers[name]
		bindings := make([]boundKey, 0, len(ly.Keys))
		for srcIdx, a := range ly.Keys {
			k, ok := indexToKey[srcIdx]
			if !ok {
				return &rklerr.ShapeError{Msg: "no physical key at source index"}
			}
			code, err := lw.keycode(a)
			if err != nil {
				return err
			}
			bindings = append(bindings, boundKey{key: k, code: code})
		}
		layerBindings[i] = bindings

		for _, o := range ly.Overrides {
			source, err := keycode.Encode(o.Key)
			if err != nil {
				fmt.Fprintf(w, "warning: layer %s: override on %s: %v\n", name, o.Key, err)
				continue
			}
			if err := pool.add(i, o, source); err != nil {
				fmt.Fprintf(w, "warning: layer %s: override on %s: %v\n", name, o.Key, err)
				continue
			}
		}
	}

	caps, err := t.ScanCapabilities()
	if err != nil {
		return err
	}
	if caps.VialVersion > 0 {
		if err := unlockDevice(t, false, w); err != nil {
			return err
		}
		if err := unlockDevice(t, true, w); err != nil {
			return err
		}
	}

	for layerIdx, bindings := range layerBindings {
		fmt.Fprintf(w, "Layer %s\n", order[layerIdx])
		for _, b := range bindings {
			addr, ok := l.Keyboard.Vial[b.key]
			if !ok {
				return &rklerr.ShapeError{Msg: "vial address for " + b.key.String() + " not defined"}
			}
			if addr.Encoder {
				if err := t.SetEncoder(uint8(layerIdx), addr.A, hidtransport.Direction(addr.B), b.code); err != nil {
					return err
				}
				continue
			}
			if err := t.SetKeycode(uint8(layerIdx), addr.A, addr.B, b.code); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w, "Macros")
	if err := t.SetMacros(lw.macros.order); err != nil {
		return err
	}
	fmt.Fprintln(w, "Tap dance")
	for _, td := range lw.tapDances.order {
		if err := t.SetTapDance(td); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, "Key overrides")
	for i, entry := range pool.order {
		trigger, ok := modMask(entry.sourceMods)
		if !ok {
			return &rklerr.ShapeError{Msg: "override trigger modifier set could not be encoded"}
		}
		suppressed, ok := modMask(keycode.SymmetricDifference(entry.sourceMods, entry.targetMods))
		if !ok {
			return &rklerr.ShapeError{Msg: "override suppressed modifier set could not be encoded"}
		}
		ko := hidtransport.KeyOverride{
			Index:          uint8(i),
			Enabled:        true,
			Trigger:        entry.source,
			Replacement:    entry.target,
			LayersMask:     entry.layersMask,
			TriggerMods:    trigger,
			SuppressedMods: suppressed,
		}
		if err := t.SetKeyOverride(ko); err != nil {
			return err
		}
	}

	if caps.VialVersion > 0 {
		if err := unlockDevice(t, false, w); err != nil {
			return err
		}
	}
	return nil
}

func sortedLayerNames(l *layout.Layout) ([]string, error) {
	nodes := make(map[string]graph.Node, len(l.Layers))
	for name, ly := range l.Layers {
		nodes[name] = graph.Node{Weight: ly.Index, Deps: ly.GetDependencies()}
	}
	return graph.PriorityTopoSort(nodes)
}

// unlockDevice mirrors the two-call convention needed around a
// programming run: a call with allowUnlock == false locks an already-
// unlocked device (establishing a known baseline, or relocking once
// programming is done); a call with allowUnlock == true, on an already-
// locked device, drives the physical unlock handshake by polling every
// 100ms until the firmware reports success, printing a polls_remaining/10
// countdown to w on every tick as the user is expected to be physically
// holding the unlock combo down.
func unlockDevice(t hidtransport.Transport, allowUnlock bool, w io.Writer) error {
	status, err := t.GetLockedStatus()
	if err != nil {
		return err
	}
	if status.Locked && allowUnlock {
		if err := t.StartUnlock(); err != nil {
			return err
		}
		for {
			time.Sleep(100 * time.Millisecond)
			unlocked, pollsRemaining, err := t.UnlockPoll()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\runlocking: %d", pollsRemaining/10)
			if unlocked {
				fmt.Fprintln(w)
				return nil
			}
		}
	}
	if !status.Locked {
		return t.SetLocked()
	}
	return nil
}
