package rig

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Mode selects the renderer used for an instance.
type Mode uint8

const (
	Mode2D Mode = iota
	Mode3D
)

func (m Mode) String() string {
	if m == Mode3D {
		return "3d"
	}
	return "2d"
}

// ParseMode accepts "2d" or "3d".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d", "":
		return Mode2D, nil
	case "3d":
		return Mode3D, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Instance is one mounted character. Palette and delay are fixed for its
// lifetime; action, mode and highlight are pushed in by the page.
type Instance struct {
	palette Palette
	delay   float64

	mu          sync.RWMutex
	action      Action
	mode        Mode
	highlighted bool
	mountedAt   time.Time
	mounted     bool
}

func NewInstance(p Palette, a Action, delay float64, mode Mode) *Instance {
	return &Instance{palette: p, action: a, delay: delay, mode: mode}
}

func (i *Instance) Palette() Palette { return i.palette }
func (i *Instance) Delay() float64   { return i.delay }

// Mount starts the instance clock. Remounting resets elapsed time to zero.
func (i *Instance) Mount(now time.Time) {
	i.mu.Lock()
	i.mountedAt = now
	i.mounted = true
	i.mu.Unlock()
}

// Unmount stops the instance. A stopped instance reports zero elapsed time.
func (i *Instance) Unmount() {
	i.mu.Lock()
	i.mounted = false
	i.mu.Unlock()
}

func (i *Instance) Mounted() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.mounted
}

// Elapsed returns seconds since mount, never negative.
func (i *Instance) Elapsed(now time.Time) float64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if !i.mounted {
		return 0
	}
	d := now.Sub(i.mountedAt).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// Phase is elapsed time plus the instance delay.
func (i *Instance) Phase(now time.Time) float64 {
	return i.Elapsed(now) + i.delay
}

// Pose evaluates the current action at now.
func (i *Instance) Pose(now time.Time) Pose {
	return Evaluate(i.Action(), i.Phase(now))
}

func (i *Instance) Action() Action {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.action
}

func (i *Instance) SetAction(a Action) {
	i.mu.Lock()
	i.action = a
	i.mu.Unlock()
}

func (i *Instance) Mode() Mode {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.mode
}

func (i *Instance) SetMode(m Mode) {
	i.mu.Lock()
	i.mode = m
	i.mu.Unlock()
}

func (i *Instance) Highlighted() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.highlighted
}

func (i *Instance) SetHighlighted(h bool) {
	i.mu.Lock()
	i.highlighted = h
	i.mu.Unlock()
}
