package page

import (
	"context"
	"time"
)

// Loop schedules frame callbacks at a fixed rate.
type Loop struct {
	Now func() time.Time
}

func NewLoop() *Loop { return &Loop{Now: time.Now} }

// Run calls cb once per frame until ctx is cancelled or cb returns false.
// The first frame is delivered immediately.
func (l *Loop) Run(ctx context.Context, fps int, cb func(now time.Time) bool) error {
	if fps <= 0 {
		return ErrInvalidFPS
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !cb(now()) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
