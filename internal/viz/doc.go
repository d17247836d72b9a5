// Package viz renders oscillator phases and order series for the terminal.
//
//   - [Canvas]: Braille-based pixel canvas (2x4 dots per cell)
//   - [PhaseRing]: oscillators drawn as spokes on the unit circle
//   - [PhaseGrid]: a phase matrix as hue-colored cells
//   - [Sparkline]: compact order parameter history
package viz
