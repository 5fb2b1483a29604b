package page

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/brix/internal/blocks"
	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

// DimAmount is how far non-selected rigs fade toward the background.
const DimAmount = 0.6

// DefaultBackground is the page color rigs fade toward.
var DefaultBackground, _ = colorful.Hex("#0f172a")

// Frame is one rendered rig. Exactly one of Figure or Wireframe is filled,
// according to Props.Mode, unless Err is set.
type Frame struct {
	Index     int
	Props     Props
	Pose      rig.Pose
	Figure    blocks.Figure
	Wireframe scene.Wireframe
	Err       error
}

// PoseFunc evaluates a pose; rig.Evaluate unless overridden.
type PoseFunc func(rig.Action, float64) rig.Pose

type Option func(*Stage)

func WithTileSize(px float64) Option { return func(s *Stage) { s.tileSize = px } }

func WithBackground(c colorful.Color) Option { return func(s *Stage) { s.background = c } }

func WithLogger(l *log.Logger) Option { return func(s *Stage) { s.logger = l } }

func WithPoseFunc(fn PoseFunc) Option { return func(s *Stage) { s.pose = fn } }

type mounted struct {
	inst  *rig.Instance
	props Props
	model *scene.Rig
}

// Stage mounts one rig instance per composer spec and renders them.
type Stage struct {
	composer   *Composer
	tileSize   float64
	background colorful.Color
	logger     *log.Logger
	pose       PoseFunc

	mu      sync.Mutex
	rigs    []*mounted
	running context.CancelFunc
}

func NewStage(c *Composer, opts ...Option) *Stage {
	s := &Stage{
		composer:   c,
		tileSize:   blocks.DefaultTileSize,
		background: DefaultBackground,
		logger:     log.New(os.Stderr, "page: ", log.LstdFlags),
		pose:       rig.Evaluate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stage) Composer() *Composer { return s.composer }

func (s *Stage) TileSize() float64 { return s.tileSize }

// Mount creates an instance for every spec and starts their clocks at now.
func (s *Stage) Mount(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rigs != nil {
		return ErrMounted
	}
	props := s.composer.Views()
	s.rigs = make([]*mounted, len(props))
	for i, p := range props {
		inst := rig.NewInstance(p.Palette, p.Action, p.Delay, p.Mode)
		inst.Mount(now)
		s.rigs[i] = &mounted{inst: inst, props: p}
	}
	return nil
}

// Mounted reports whether the stage holds live instances.
func (s *Stage) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rigs != nil
}

// Instance returns the live instance of rig i.
func (s *Stage) Instance(i int) (*rig.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rigs == nil {
		return nil, ErrNotMounted
	}
	if i < 0 || i >= len(s.rigs) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchRig, i)
	}
	return s.rigs[i].inst, nil
}

// Sync pushes the composer's current props down to every instance.
func (s *Stage) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rigs == nil {
		return ErrNotMounted
	}
	for i, m := range s.rigs {
		p, err := s.composer.View(i)
		if err != nil {
			return err
		}
		m.inst.SetAction(p.Action)
		m.inst.SetMode(p.Mode)
		m.inst.SetHighlighted(p.Highlighted)
		m.props = p
	}
	return nil
}

// Frame renders every rig at now in parallel. A rig that fails or panics
// yields a Frame with Err set; its error is also joined into the returned
// error, and the other rigs are unaffected.
func (s *Stage) Frame(ctx context.Context, now time.Time) ([]Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rigs == nil {
		return nil, ErrNotMounted
	}

	frames := make([]Frame, len(s.rigs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range s.rigs {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frames[i] = s.render(i, m, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for _, f := range frames {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return frames, errors.Join(errs...)
}

func (s *Stage) render(i int, m *mounted, now time.Time) (f Frame) {
	f = Frame{Index: i, Props: m.props}
	defer func() {
		if r := recover(); r != nil {
			f.Err = &FrameError{Index: i, ID: m.props.ID, Err: fmt.Errorf("%w: %v", ErrRenderPanic, r)}
			s.logger.Printf("rig %d (%s): recovered: %v", i, m.props.ID, r)
		}
	}()

	p := s.pose(m.inst.Action(), m.inst.Phase(now))
	f.Pose = p
	pos := m.props.Position

	switch m.inst.Mode() {
	case rig.Mode3D:
		if m.model == nil {
			m.model = scene.Build(m.inst.Palette(), m.inst.Action())
		}
		m.model.Apply(p)
		w := m.model.Wireframe().Offset(mgl64.Vec3{
			pos.X * rig.WorldUnitsPerTile,
			-pos.Y * rig.WorldUnitsPerTile,
			0,
		})
		if m.props.Dimmed {
			w = w.Dim(s.background, DimAmount)
		}
		f.Wireframe = w
	default:
		fig := blocks.Build(p, m.inst.Palette(), s.tileSize).Offset(pos.X*s.tileSize, pos.Y*s.tileSize)
		if m.props.Dimmed {
			fig = fig.Dim(s.background, DimAmount)
		}
		f.Figure = fig
	}
	return f
}

// Run drives Frame from a Loop until ctx ends, cb returns false or the
// stage is unmounted. Frame errors are logged and do not stop the loop.
func (s *Stage) Run(ctx context.Context, fps int, cb func([]Frame) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.rigs == nil {
		s.mu.Unlock()
		cancel()
		return ErrNotMounted
	}
	s.running = cancel
	s.mu.Unlock()
	defer cancel()

	err := NewLoop().Run(ctx, fps, func(now time.Time) bool {
		frames, err := s.Frame(ctx, now)
		if errors.Is(err, ErrNotMounted) || errors.Is(err, context.Canceled) {
			return false
		}
		if err != nil {
			s.logger.Print(err)
		}
		return cb(frames)
	})
	if errors.Is(err, context.Canceled) && !s.Mounted() {
		return nil
	}
	return err
}

// Unmount stops a running loop and releases every instance.
func (s *Stage) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		s.running()
		s.running = nil
	}
	for _, m := range s.rigs {
		m.inst.Unmount()
	}
	s.rigs = nil
}
