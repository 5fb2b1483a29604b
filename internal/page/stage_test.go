package page

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/brix/internal/rig"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestStage(t *testing.T, opts ...Option) (*Stage, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithLogger(log.New(&buf, "", 0))}, opts...)
	s := NewStage(NewComposer(heroSpecs(), rig.Mode2D), opts...)
	if err := s.Mount(epoch); err != nil {
		t.Fatal(err)
	}
	return s, &buf
}

func TestStage_MountTwice(t *testing.T) {
	s, _ := newTestStage(t)
	if err := s.Mount(epoch); !errors.Is(err, ErrMounted) {
		t.Errorf("expected ErrMounted, got %v", err)
	}
	s.Unmount()
	if _, err := s.Frame(context.Background(), epoch); !errors.Is(err, ErrNotMounted) {
		t.Errorf("expected ErrNotMounted after unmount, got %v", err)
	}
	if err := s.Sync(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("expected ErrNotMounted from Sync, got %v", err)
	}
}

func TestStage_FramePhaseUsesDelay(t *testing.T) {
	s, _ := newTestStage(t)
	now := epoch.Add(2 * time.Second)
	frames, err := s.Frame(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		want := 2 + heroSpecs()[i].Delay
		if f.Pose.Phase != want {
			t.Errorf("rig %d: phase %f, want %f", i, f.Pose.Phase, want)
		}
		if len(f.Figure.Quads) == 0 || len(f.Wireframe.Edges) != 0 {
			t.Errorf("rig %d: 2D frame should carry only quads", i)
		}
	}
	min, _ := frames[2].Figure.Bounds()
	if min[0] < 12*s.TileSize()-5*s.TileSize() {
		t.Errorf("rig 2 not placed at its position: %v", min)
	}
}

func TestStage_SyncSelection(t *testing.T) {
	s, _ := newTestStage(t)
	c := s.Composer()
	if err := c.Click(0); err != nil {
		t.Fatal(err)
	}
	if err := s.Sync(); err != nil {
		t.Fatal(err)
	}
	inst, _ := s.Instance(0)
	if inst.Action() != rig.Jumping || !inst.Highlighted() {
		t.Errorf("selected walker: action %s highlighted %v", inst.Action(), inst.Highlighted())
	}

	frames, err := s.Frame(context.Background(), epoch)
	if err != nil {
		t.Fatal(err)
	}
	if !frames[1].Props.Dimmed || frames[0].Props.Dimmed {
		t.Error("only the non-selected rigs should be dimmed")
	}
	if frames[1].Figure.Quads[0].Color == testPalette.At(rig.Primary) {
		t.Error("dimmed rig should not keep its palette color")
	}

	if err := c.Click(0); err != nil {
		t.Fatal(err)
	}
	if err := s.Sync(); err != nil {
		t.Fatal(err)
	}
	if inst.Action() != rig.Walking || inst.Highlighted() {
		t.Error("deselecting should restore the walker")
	}
}

func TestStage_Frame3D(t *testing.T) {
	s, _ := newTestStage(t)
	s.Composer().SetMode(rig.Mode3D)
	if err := s.Sync(); err != nil {
		t.Fatal(err)
	}
	frames, err := s.Frame(context.Background(), epoch.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range frames {
		if len(f.Wireframe.Edges) == 0 || len(f.Figure.Quads) != 0 {
			t.Errorf("rig %d: 3D frame should carry only edges", i)
		}
	}
}

func TestStage_PanicIsolated(t *testing.T) {
	pose := func(a rig.Action, phase float64) rig.Pose {
		if a == rig.Lightbulb {
			panic("broken rig")
		}
		return rig.Evaluate(a, phase)
	}
	s, logs := newTestStage(t, WithPoseFunc(pose))

	frames, err := s.Frame(context.Background(), epoch)
	if len(frames) != 3 {
		t.Fatalf("expected every frame back, got %d", len(frames))
	}
	var fe *FrameError
	if !errors.As(err, &fe) || fe.Index != 1 || fe.ID != "thinker" {
		t.Fatalf("expected FrameError for rig 1, got %v", err)
	}
	if !errors.Is(err, ErrRenderPanic) {
		t.Error("panic should unwrap to ErrRenderPanic")
	}
	if frames[0].Err != nil || frames[2].Err != nil {
		t.Error("healthy rigs must still render")
	}
	if len(frames[0].Figure.Quads) == 0 {
		t.Error("healthy rig rendered nothing")
	}
	if logs.Len() == 0 {
		t.Error("recovered panic should be logged")
	}
}

func TestStage_RunUntilUnmount(t *testing.T) {
	s, _ := newTestStage(t)
	var n atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), 120, func(frames []Frame) bool {
			if n.Add(1) == 3 {
				go s.Unmount()
			}
			return true
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unmount should end the loop cleanly, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after unmount")
	}
	if n.Load() < 3 {
		t.Errorf("expected at least 3 frames, got %d", n.Load())
	}
}

func TestLoop_Run(t *testing.T) {
	if err := NewLoop().Run(context.Background(), 0, nil); !errors.Is(err, ErrInvalidFPS) {
		t.Errorf("expected ErrInvalidFPS, got %v", err)
	}

	var calls int
	err := NewLoop().Run(context.Background(), 200, func(time.Time) bool {
		calls++
		return calls < 4
	})
	if err != nil || calls != 4 {
		t.Errorf("callback stop: err %v calls %d", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewLoop().Run(ctx, 60, func(time.Time) bool { return true }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	fixed := epoch
	l := &Loop{Now: func() time.Time { return fixed }}
	_ = l.Run(context.Background(), 100, func(now time.Time) bool {
		if !now.Equal(fixed) {
			t.Errorf("loop should use its clock, got %v", now)
		}
		return false
	})
}
