// Package config holds the handful of constants shared by both emission
// back-ends.
package config

// TapHoldMS is the tapping term, in milliseconds, baked into every
// emitted tap-hold: a key held shorter than this registers its tap
// action, held longer or combined with another key press registers its
// hold action.
const TapHoldMS = 200
