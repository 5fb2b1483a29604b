package page

import (
	"errors"
	"fmt"
)

var (
	ErrNoSuchRig   = errors.New("page: no such rig")
	ErrMounted     = errors.New("page: already mounted")
	ErrNotMounted  = errors.New("page: not mounted")
	ErrInvalidFPS  = errors.New("page: fps must be positive")
	ErrRenderPanic = errors.New("page: render panicked")
)

// FrameError reports a rig that failed to render one frame. The rest of
// the page still renders.
type FrameError struct {
	Index int
	ID    string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("page: rig %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
