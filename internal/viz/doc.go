// Package viz shows the renderer in a terminal.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: drives the frame loop from a ticker and draws the HUD
//   - [Canvas]: downsamples a framebuffer into colored half-block cells
//   - Theme selection with 3 built-in HUD color schemes
//
// # Key Bindings
//
//	Space/Enter - Next preset (the button click)
//	P           - Pause/Resume
//	T           - Cycle HUD themes
//	Q           - Quit
package viz
