// Package viz renders a running disk simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: drives a [sim.Stepper] from the frame clock and draws the disk
//   - [Canvas]: Braille-based pixel canvas with colored marker cells
//   - [Camera]: orbit camera with perspective projection and zoom limits
//
// The simulation only advances when the model ticks it, and rendering reads
// the particle buffers between ticks, so the two never overlap.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Regenerate the disk from its seed
//	x/y/z - Rotate the view (shift reverses)
//	+/-   - Zoom, clamped to camera distances 100..1600
//	[ ]   - Replay recorded snapshots
//	S     - Save an SVG snapshot
//	G     - Toggle GIF recording
//	T     - Cycle color themes
package viz
