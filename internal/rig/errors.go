package rig

import "errors"

// Domain errors for rig construction and lookup.
var (
	// ErrUnknownAction indicates an action name outside the enumerated set.
	ErrUnknownAction = errors.New("rig: unknown action")

	// ErrUnknownSegment indicates a segment name outside the enumerated set.
	ErrUnknownSegment = errors.New("rig: unknown segment")

	// ErrPaletteSize indicates a palette without exactly three colors.
	ErrPaletteSize = errors.New("rig: palette needs exactly 3 colors")

	// ErrInvalidColor indicates a palette entry that is not a hex color.
	ErrInvalidColor = errors.New("rig: invalid palette color")

	// ErrUnknownMode indicates a render mode other than 2d or 3d.
	ErrUnknownMode = errors.New("rig: unknown render mode")
)
