// Package simulate provides an in-memory Transport, the hidtransport
// equivalent of tcell's SimulationScreen: every call is recorded instead
// of sent to real hardware, so tests can drive a binary emission without
// a device attached.
package simulate

import (
	"sync"

	"github.com/rkl-go/rkl/internal/hidtransport"
)

// Keycode is one (layer, row, col) or (layer, encoder, direction)
// binding recorded by SetKeycode/SetEncoder.
type Keycode struct {
	Layer    uint8
	Row, Col uint8
	Encoder  bool
	Index    uint8
	Dir      hidtransport.Direction
	Code     uint16
}

// Transport records every call made against it. Its zero value reports
// a device that is unlocked and needs no handshake (VialVersion 0);
// configure LockedStatus/Capabilities before use to simulate otherwise.
type Transport struct {
	mu sync.Mutex

	Capabilities hidtransport.Capabilities
	Status       hidtransport.LockedStatus
	VialMeta     map[string]any

	Keycodes     []Keycode
	Macros       []hidtransport.Macro
	TapDances    []hidtransport.TapDance
	KeyOverrides []hidtransport.KeyOverride

	UnlockStarted bool
	RelockedCount int

	// PollsBeforeUnlock counts down on each UnlockPoll call; unlocked
	// becomes true once it reaches zero.
	PollsBeforeUnlock uint8
}

func New() *Transport { return &Transport{} }

func (t *Transport) ScanCapabilities() (hidtransport.Capabilities, error) {
	return t.Capabilities, nil
}

func (t *Transport) LoadVialMeta() (map[string]any, error) {
	return t.VialMeta, nil
}

func (t *Transport) GetLockedStatus() (hidtransport.LockedStatus, error) {
	return t.Status, nil
}

func (t *Transport) StartUnlock() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.UnlockStarted = true
	t.Status.UnlockInProgress = true
	return nil
}

func (t *Transport) UnlockPoll() (bool, uint8, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.PollsBeforeUnlock > 0 {
		t.PollsBeforeUnlock--
	}
	unlocked := t.PollsBeforeUnlock == 0
	if unlocked {
		t.Status.Locked = false
		t.Status.UnlockInProgress = false
	}
	return unlocked, t.PollsBeforeUnlock, nil
}

func (t *Transport) SetLocked() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status.Locked = true
	t.RelockedCount++
	return nil
}

func (t *Transport) SetKeycode(layer uint8, row, col uint8, keycode uint16) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Keycodes = append(t.Keycodes, Keycode{Layer: layer, Row: row, Col: col, Code: keycode})
	return nil
}

func (t *Transport) SetEncoder(layer uint8, index uint8, dir hidtransport.Direction, keycode uint16) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Keycodes = append(t.Keycodes, Keycode{Layer: layer, Encoder: true, Index: index, Dir: dir, Code: keycode})
	return nil
}

func (t *Transport) SetMacros(macros []hidtransport.Macro) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Macros = append(t.Macros, macros...)
	return nil
}

func (t *Transport) SetTapDance(td hidtransport.TapDance) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TapDances = append(t.TapDances, td)
	return nil
}

func (t *Transport) SetKeyOverride(o hidtransport.KeyOverride) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.KeyOverrides = append(t.KeyOverrides, o)
	return nil
}

var _ hidtransport.Transport = (*Transport)(nil)
