// Package viz draws the page in a terminal.
//
// Figures are rasterized into a half-block [Raster], two colored pixels
// per cell; 3D wireframes go to a braille [Canvas]. [Run] shows the live
// page with Bubble Tea: a short loading splash, the hero with its rigs and
// a contact panel.
//
// # Key Bindings
//
//	1-9    - Select or deselect a rig (mouse click works too)
//	Esc    - Clear the selection
//	M      - Toggle 2D / 3D
//	Arrows - Orbit the camera (3D)
//	+/-    - Zoom (3D)
//	Tab    - Contact form
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	?      - Show help
//
// # Recording
//
// G starts collecting hero frames and G again writes them to brix.gif in
// the current directory.
package viz
