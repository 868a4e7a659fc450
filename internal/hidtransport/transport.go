// Package hidtransport defines the binary back-end's external
// collaborator: the control-report operations needed to program a
// connected keyboard over USB-HID, and the capability/lock-state data
// read back from it. internal/vial orchestrates a Transport; it never
// touches a device directly.
package hidtransport

import "errors"

// ErrDeviceNotFound is returned when no matching device is present.
var ErrDeviceNotFound = errors.New("hid device not found")

// Direction is an encoder's rotation direction.
type Direction uint8

const (
	Clockwise Direction = iota
	CounterClockwise
)

// Capabilities describes what a connected device supports. VialVersion
// 0 means the device predates the lock/unlock handshake.
type Capabilities struct {
	VialVersion     int
	MacroCount      int
	MacroBufferSize int
}

// LockedStatus reports a device's unlock state and the physical matrix
// positions that must be held to unlock it.
type LockedStatus struct {
	Locked           bool
	UnlockInProgress bool
	UnlockButtons    [][2]uint8
}

// MacroStepKind discriminates one step of a firmware macro.
type MacroStepKind int

const (
	Down MacroStepKind = iota
	Up
	Tap
	Delay
)

// MacroStep is one step of a firmware macro: a key held down, released,
// tapped, or a pause.
type MacroStep struct {
	Kind    MacroStepKind
	Keycode uint16
	Delay   uint16
}

// Macro is a pooled macro, addressed by its pool index.
type Macro struct {
	Index uint8
	Steps []MacroStep
}

// TapDance is a pooled tap/hold/double-tap/tap-hold binding.
type TapDance struct {
	Index       uint8
	Tap         uint16
	Hold        uint16
	DoubleTap   uint16
	TapHold     uint16
	TappingTerm uint16
}

// KeyOverride rewrites a keycode when its trigger modifiers are held, on
// whichever layers LayersMask selects.
type KeyOverride struct {
	Index           uint8
	Enabled         bool
	Trigger         uint16
	Replacement     uint16
	LayersMask      uint16
	TriggerMods     uint8
	SuppressedMods  uint8
	NegativeModMask uint8
}

// Transport is the connected device's control-report channel. A binary
// emission opens one, drives it through the unlock handshake if the
// device requires it, writes every layer/macro/tap-dance/override, then
// relocks.
type Transport interface {
	ScanCapabilities() (Capabilities, error)
	LoadVialMeta() (map[string]any, error)
	GetLockedStatus() (LockedStatus, error)
	StartUnlock() error
	UnlockPoll() (unlocked bool, pollsRemaining uint8, err error)
	SetLocked() error

	SetKeycode(layer uint8, row, col uint8, keycode uint16) error
	SetEncoder(layer uint8, index uint8, dir Direction, keycode uint16) error
	SetMacros(macros []Macro) error
	SetTapDance(td TapDance) error
	SetKeyOverride(o KeyOverride) error
}
