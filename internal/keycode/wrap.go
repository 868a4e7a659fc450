package keycode

// Parametrized wrapper codes: quantum keycodes the firmware resolves at
// runtime rather than basic HID usage IDs. Each reserves its own 0x1xx00
// block so a wrapper's own parameters (layer index, pool id, tap
// keycode) can be packed into the low byte(s) without colliding with the
// plain basic-keycode space (0x0000-0x00ff).
const (
	moBase uint16 = 0x5100 // momentary layer switch
	dfBase uint16 = 0x5200 // default layer set
	tdBase uint16 = 0x5700 // tap-dance pool entry
	mBase  uint16 = 0x7700 // macro pool entry
	ltBase uint16 = 0x6000 // layer-tap: tap a key, hold to switch layer
	mtBase uint16 = 0x7000 // mod-tap: tap a key, hold to apply mods
	mkBase uint16 = 0x7400 // mod+key combo: mods and key register together, no tap/hold split
)

// MO encodes a momentary layer-while-held switch to the layer at the
// given topological index.
func MO(layer int) uint16 { return moBase + uint16(layer) }

// DF encodes a default-layer switch to the layer at the given
// topological index.
func DF(layer int) uint16 { return dfBase + uint16(layer) }

// TD encodes a reference to the pooled tap-dance with the given id.
func TD(id int) uint16 { return tdBase + uint16(id) }

// M encodes a reference to the pooled macro with the given id.
func M(id int) uint16 { return mBase + uint16(id) }

// LT packs a layer index and a tap keycode into a layer-tap wrapper:
// tapped it sends tap, held it momentarily switches to layer.
func LT(layer int, tap uint16) uint16 {
	return ltBase + (uint16(layer)&0xff)<<8 + (tap & 0xff)
}

// MT packs a modifier mask and a tap keycode into a mod-tap wrapper:
// tapped it sends tap, held (or combined with another key) it applies
// mods. A plain "hold these mods and tap this key" combo uses ModKey
// instead.
func MT(mods uint8, tap uint16) uint16 {
	return mtBase + uint16(mods)<<8 + (tap & 0xff)
}

// ModKey packs a modifier mask and a key into a single combo keycode:
// both register together on a single press, e.g. the HYPR/MEH/LSA-style
// combos a Multi of one key plus recognized modifiers lowers to.
func ModKey(mods uint8, key uint16) uint16 {
	return mkBase + uint16(mods)<<8 + (key & 0xff)
}
