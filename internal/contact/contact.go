// Package contact simulates the page's contact form. Nothing is sent
// anywhere: a submission waits a fixed delay and then reports success.
package contact

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultDelay is how long a simulated submission takes.
const DefaultDelay = 1500 * time.Millisecond

var (
	ErrRequired  = errors.New("contact: field is required")
	ErrInFlight  = errors.New("contact: submission already in flight")
	ErrSubmitted = errors.New("contact: already submitted")
	ErrClosed    = errors.New("contact: submitter closed")
)

type Form struct {
	Name    string
	Email   string
	Message string
}

// Validate checks that every field is non-blank.
func (f Form) Validate() error {
	var missing []string
	for _, fld := range []struct{ name, v string }{
		{"name", f.Name}, {"email", f.Email}, {"message", f.Message},
	} {
		if strings.TrimSpace(fld.v) == "" {
			missing = append(missing, fld.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequired, strings.Join(missing, ", "))
	}
	return nil
}

type State uint8

const (
	Editing State = iota
	Loading
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Loading:
		return "loading"
	case Submitted:
		return "submitted"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Timer is the part of *time.Timer the submitter needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d.
type AfterFunc func(d time.Duration, fn func()) Timer

func realAfterFunc(d time.Duration, fn func()) Timer { return time.AfterFunc(d, fn) }

type Option func(*Submitter)

// WithAfterFunc replaces the scheduler, for tests.
func WithAfterFunc(fn AfterFunc) Option { return func(s *Submitter) { s.after = fn } }

// WithNotify registers a callback run after every state change, outside
// the submitter's lock.
func WithNotify(fn func(State)) Option { return func(s *Submitter) { s.notify = fn } }

// Submitter runs one simulated submission at a time.
type Submitter struct {
	delay  time.Duration
	after  AfterFunc
	notify func(State)

	mu      sync.Mutex
	state   State
	pending Form
	timer   Timer
	seq     uint64
	closed  bool
}

// NewSubmitter returns an editable submitter. A non-positive delay uses
// DefaultDelay.
func NewSubmitter(delay time.Duration, opts ...Option) *Submitter {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Submitter{delay: delay, after: realAfterFunc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Submitter) Delay() time.Duration { return s.delay }

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the form being submitted; it is cleared on success.
func (s *Submitter) Pending() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Submit validates f and starts a submission. A second call while one is
// loading fails with ErrInFlight.
func (s *Submitter) Submit(f Form) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.state == Loading:
		s.mu.Unlock()
		return ErrInFlight
	case s.state == Submitted:
		s.mu.Unlock()
		return ErrSubmitted
	}
	s.state = Loading
	s.pending = f
	s.seq++
	seq := s.seq
	s.timer = s.after(s.delay, func() { s.complete(seq) })
	s.mu.Unlock()

	s.changed(Loading)
	return nil
}

func (s *Submitter) complete(seq uint64) {
	s.mu.Lock()
	if s.closed || s.state != Loading || s.seq != seq {
		s.mu.Unlock()
		return
	}
	s.state = Submitted
	s.pending = Form{}
	s.timer = nil
	s.mu.Unlock()

	s.changed(Submitted)
}

// Reset returns to the editable state, abandoning a pending submission.
func (s *Submitter) Reset() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	prev := s.state
	s.state = Editing
	s.pending = Form{}
	s.seq++
	s.mu.Unlock()

	if prev != Editing {
		s.changed(Editing)
	}
}

// Close stops a pending submission; later submits fail with ErrClosed.
func (s *Submitter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.closed = true
}

func (s *Submitter) changed(st State) {
	if s.notify != nil {
		s.notify(st)
	}
}
