// Package viz provides terminal-based visualization for the dumbbell
// gas simulation.
//
// The package implements a live TUI using the Bubble Tea framework:
//
//   - [Model]: live view stepping a running simulation once per frame
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - Theme selection with 6 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	T     - Cycle color themes
//	?     - Show help overlay
//
// [RenderLayers] draws the chamber walls and the particle cloud on
// separate canvases for the SVG still-frame exporter.
package viz
