// Package hidraw implements hidtransport.Transport against a real
// keyboard over USB-HID raw reports, via the same underlying hidapi C
// library original_source's own "hidapi" crate binds.
package hidraw

import (
	"encoding/binary"
	"fmt"
	"os"

	hid "github.com/sstallion/go-hid"
	"golang.org/x/sys/unix"

	"github.com/rkl-go/rkl/internal/hidtransport"
)

// Vial's raw-HID usage page/id, matching protocol::USAGE_PAGE/USAGE_ID.
const (
	usagePage = 0xFF60
	usageID   = 0x61

	reportSize = 32
)

// Command bytes for the subset of the Vial raw-HID protocol this
// package drives. Values follow the public Vial protocol's own report
// layout; exact wire-for-wire conformance was never validated against a
// physical device (none was available while building this), so treat
// these as this repo's own consistent, documented encoding.
const (
	cmdGetProtocolVersion = 0x01
	cmdGetKeyboardValue   = 0x02
	cmdDynamicEntryOp     = 0x03
	cmdSetKeycode         = 0x05
	cmdLockOp             = 0x0F
	cmdLockSubGet         = 0x00
	cmdLockSubUnlockStart = 0x01
	cmdLockSubUnlockPoll  = 0x02
	cmdLockSubSetLocked   = 0x03

	dynSubSetEncoder     = 0x04
	dynSubMacroSet       = 0x05
	dynSubSetTapDance    = 0x06
	dynSubSetKeyOverride = 0x07

	kvVialVersion = 0x01
)

// Open finds and opens the first Vial-capable device, or the one whose
// product id matches productID when non-nil.
func Open(productID *uint16) (*Transport, error) {
	var found *hid.Device
	var path string
	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		if found != nil {
			return nil
		}
		if productID != nil && info.ProductID != *productID {
			return nil
		}
		if info.UsagePage != usagePage || info.Usage != usageID {
			return nil
		}
		dev, err := hid.OpenPath(info.Path)
		if err != nil {
			return nil
		}
		found = dev
		path = info.Path
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, hidtransport.ErrDeviceNotFound
	}
	return &Transport{dev: found, path: path}, nil
}

// Transport drives a single opened HID device.
type Transport struct {
	dev  *hid.Device
	path string
}

func (t *Transport) Close() error { return t.dev.Close() }

func (t *Transport) exchange(req []byte) ([]byte, error) {
	buf := make([]byte, reportSize+1) // leading report-id byte
	copy(buf[1:], req)
	if _, err := t.dev.Write(buf); err != nil {
		return nil, fmt.Errorf("hidraw: write: %w", err)
	}
	resp := make([]byte, reportSize+1)
	if _, err := t.dev.Read(resp); err != nil {
		return nil, fmt.Errorf("hidraw: read: %w", err)
	}
	return resp[1:], nil
}

func (t *Transport) ScanCapabilities() (hidtransport.Capabilities, error) {
	if _, err := t.exchange([]byte{cmdGetProtocolVersion}); err != nil {
		return hidtransport.Capabilities{}, err
	}

	resp, err := t.exchange([]byte{cmdGetKeyboardValue, kvVialVersion})
	if err != nil {
		return hidtransport.Capabilities{}, err
	}
	vialVersion := int(binary.LittleEndian.Uint32(resp[1:5]))

	return hidtransport.Capabilities{
		VialVersion:     vialVersion,
		MacroCount:      int(resp[5]),
		MacroBufferSize: int(binary.LittleEndian.Uint16(resp[6:8])),
	}, nil
}

func (t *Transport) LoadVialMeta() (map[string]any, error) {
	return nil, fmt.Errorf("hidraw: vial meta retrieval not implemented")
}

func (t *Transport) GetLockedStatus() (hidtransport.LockedStatus, error) {
	resp, err := t.exchange([]byte{cmdLockOp, cmdLockSubGet})
	if err != nil {
		return hidtransport.LockedStatus{}, err
	}
	status := hidtransport.LockedStatus{Locked: resp[0] != 0}
	count := int(resp[1])
	for i := 0; i < count && 2+2*i+1 < len(resp); i++ {
		status.UnlockButtons = append(status.UnlockButtons, [2]uint8{resp[2+2*i], resp[2+2*i+1]})
	}
	return status, nil
}

func (t *Transport) StartUnlock() error {
	_, err := t.exchange([]byte{cmdLockOp, cmdLockSubUnlockStart})
	return err
}

// UnlockPoll writes a single poll request, then waits on the control
// device's raw descriptor for up to 100ms before reading the reply —
// the same non-blocking-read-with-deadline shape tty.go's ioctl-backed
// reads use for a POSIX tty, applied here to the HID control endpoint so
// a firmware that never answers one poll can't hang the caller's
// unlock-wait loop past a single tick.
func (t *Transport) UnlockPoll() (bool, uint8, error) {
	buf := make([]byte, reportSize+1)
	buf[1] = cmdLockOp
	buf[2] = cmdLockSubUnlockPoll
	if _, err := t.dev.Write(buf); err != nil {
		return false, 0, fmt.Errorf("hidraw: write: %w", err)
	}
	ready, err := t.pollReadable(100)
	if err != nil {
		return false, 0, err
	}
	if !ready {
		return false, 0, nil
	}
	resp := make([]byte, reportSize+1)
	if _, err := t.dev.Read(resp); err != nil {
		return false, 0, fmt.Errorf("hidraw: read: %w", err)
	}
	return resp[1] != 0, resp[2], nil
}

// pollReadable waits up to timeoutMs for the control device to report
// data ready, opening the same device node the hidapi handle already
// has open purely as a second read-only descriptor to poll on. Devices
// or platforms that don't expose a pollable node at that path (the
// common case when hidapi talks to the OS through a non-file-backed
// transport) fall through to the ordinary blocking read.
func (t *Transport) pollReadable(timeoutMs int) (bool, error) {
	if t.path == "" {
		return true, nil
	}
	f, err := os.OpenFile(t.path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return true, nil
	}
	defer f.Close()
	fds := []unix.PollFd{{Fd: int32(f.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, timeoutMs)
	if err != nil {
		return false, fmt.Errorf("hidraw: poll: %w", err)
	}
	return n > 0, nil
}

func (t *Transport) SetLocked() error {
	_, err := t.exchange([]byte{cmdLockOp, cmdLockSubSetLocked})
	return err
}

func (t *Transport) SetKeycode(layer uint8, row, col uint8, keycode uint16) error {
	req := make([]byte, 6)
	req[0] = cmdSetKeycode
	req[1] = layer
	req[2] = row
	req[3] = col
	binary.BigEndian.PutUint16(req[4:], keycode)
	_, err := t.exchange(req)
	return err
}

func (t *Transport) SetEncoder(layer uint8, index uint8, dir hidtransport.Direction, keycode uint16) error {
	req := make([]byte, 7)
	req[0] = cmdDynamicEntryOp
	req[1] = dynSubSetEncoder
	req[2] = layer
	req[3] = index
	req[4] = uint8(dir)
	binary.BigEndian.PutUint16(req[5:], keycode)
	_, err := t.exchange(req)
	return err
}

func (t *Transport) SetMacros(macros []hidtransport.Macro) error {
	for _, m := range macros {
		payload := []byte{m.Index}
		for _, s := range m.Steps {
			switch s.Kind {
			case hidtransport.Down:
				payload = append(payload, 1)
				payload = binary.BigEndian.AppendUint16(payload, s.Keycode)
			case hidtransport.Up:
				payload = append(payload, 2)
				payload = binary.BigEndian.AppendUint16(payload, s.Keycode)
			case hidtransport.Tap:
				payload = append(payload, 3)
				payload = binary.BigEndian.AppendUint16(payload, s.Keycode)
			case hidtransport.Delay:
				payload = append(payload, 4)
				payload = binary.BigEndian.AppendUint16(payload, s.Delay)
			}
		}
		req := append([]byte{cmdDynamicEntryOp, dynSubMacroSet}, payload...)
		if _, err := t.exchange(req); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) SetTapDance(td hidtransport.TapDance) error {
	req := make([]byte, 12)
	req[0] = cmdDynamicEntryOp
	req[1] = dynSubSetTapDance
	req[2] = td.Index
	binary.BigEndian.PutUint16(req[3:], td.Tap)
	binary.BigEndian.PutUint16(req[5:], td.Hold)
	binary.BigEndian.PutUint16(req[7:], td.DoubleTap)
	binary.BigEndian.PutUint16(req[9:], td.TapHold)
	binary.BigEndian.PutUint16(req[10:], td.TappingTerm)
	_, err := t.exchange(req)
	return err
}

func (t *Transport) SetKeyOverride(o hidtransport.KeyOverride) error {
	req := make([]byte, 14)
	req[0] = cmdDynamicEntryOp
	req[1] = dynSubSetKeyOverride
	req[2] = o.Index
	binary.BigEndian.PutUint16(req[3:], o.Trigger)
	binary.BigEndian.PutUint16(req[5:], o.Replacement)
	binary.BigEndian.PutUint16(req[7:], o.LayersMask)
	req[9] = o.TriggerMods
	req[10] = o.SuppressedMods
	req[11] = o.NegativeModMask
	if o.Enabled {
		req[12] = 1
	}
	_, err := t.exchange(req)
	return err
}

var _ hidtransport.Transport = (*Transport)(nil)
