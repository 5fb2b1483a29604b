package gui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/brix/internal/config"
	"github.com/san-kum/brix/internal/contact"
	"github.com/san-kum/brix/internal/page"
	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
	"github.com/san-kum/brix/internal/viz"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	heroHeight   = 480
	orbitPerTick = 1.0
)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// App is the windowed page. ebiten drives it: every Update renders one
// stage frame, Draw paints the last one.
type App struct {
	Config *config.Config
	Stage  *page.Stage
	Camera *scene.Camera
	Theme  viz.Theme

	sub     *contact.Submitter
	reloads <-chan *config.Config
	logger  *log.Logger
	now     func() time.Time

	view   view
	frames []page.Frame
	status string

	contactOpen bool
	form        contact.Form
	field       int
	formErr     string
	ticks       int
}

// NewApp mounts the page described by cfg. Configs received on reloads
// replace it; reloads may be nil.
func NewApp(cfg *config.Config, reloads <-chan *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "gui: ", log.LstdFlags)
	}
	a := &App{
		sub:     contact.NewSubmitter(cfg.SubmitDelayDuration()),
		reloads: reloads,
		logger:  logger,
		now:     time.Now,
	}
	if err := a.load(cfg); err != nil {
		a.sub.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) load(cfg *config.Config) error {
	comp, err := cfg.Composer()
	if err != nil {
		return err
	}
	theme := viz.GetTheme(cfg.Theme)
	stage := page.NewStage(comp,
		page.WithTileSize(cfg.TileSize),
		page.WithBackground(theme.Bg()),
		page.WithLogger(a.logger),
	)
	if err := stage.Mount(a.now()); err != nil {
		return err
	}
	cam := cfg.NewCamera()
	cam.Target = comp.Center()

	if a.Stage != nil {
		a.Stage.Unmount()
	}
	a.Config, a.Stage, a.Camera, a.Theme = cfg, stage, cam, theme
	a.view = newView(comp, cfg.TileSize)
	a.frames = nil
	return nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, reloads <-chan *config.Config, logger *log.Logger) error {
	a, err := NewApp(cfg, reloads, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)

	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (a *App) Close() {
	a.Stage.Unmount()
	a.sub.Close()
}

func (a *App) Update() error {
	a.ticks++
	a.pollReload()

	if a.contactOpen {
		a.updateContact()
	} else if err := a.updatePage(); err != nil {
		return err
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		a.clickAt(float64(x), float64(y))
	}

	return a.refresh(context.Background())
}

func (a *App) pollReload() {
	select {
	case cfg, ok := <-a.reloads:
		if !ok {
			a.reloads = nil
			return
		}
		if err := a.load(cfg); err != nil {
			a.logger.Printf("reload: %v", err)
			a.status = "reload failed"
			return
		}
		ebiten.SetTPS(cfg.FPS)
		a.status = "config reloaded"
	default:
	}
}

func (a *App) updatePage() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			a.click(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.Stage.Composer().Clear()
		a.sync()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.Stage.Composer().ToggleMode()
		a.sync()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.contactOpen = true
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		a.Camera.Orbit(-orbitPerTick, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		a.Camera.Orbit(orbitPerTick, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		a.Camera.Orbit(0, orbitPerTick)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		a.Camera.Orbit(0, -orbitPerTick)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		a.Camera.ZoomIn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		a.Camera.ZoomOut()
	}
	return nil
}

func (a *App) updateContact() {
	state := a.sub.State()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.contactOpen = false
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		a.field = (a.field + 2) % 3
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		a.field = (a.field + 1) % 3
	}

	switch state {
	case contact.Submitted:
		a.form = contact.Form{}
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			a.sub.Reset()
		}
	case contact.Editing:
		a.typeChars(ebiten.AppendInputChars(nil), inpututil.IsKeyJustPressed(ebiten.KeyBackspace))
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.submit()
		}
	}
}

// typeChars edits the focused form field.
func (a *App) typeChars(chars []rune, backspace bool) {
	v := a.fieldValue()
	if backspace {
		if r := []rune(*v); len(r) > 0 {
			*v = string(r[:len(r)-1])
		}
	}
	*v += string(chars)
}

func (a *App) submit() {
	if err := a.sub.Submit(a.form); err != nil {
		a.formErr = err.Error()
		return
	}
	a.formErr = ""
}

func (a *App) fieldValue() *string {
	switch a.field {
	case 0:
		return &a.form.Name
	case 1:
		return &a.form.Email
	default:
		return &a.form.Message
	}
}

func (a *App) click(i int) {
	comp := a.Stage.Composer()
	if err := comp.Click(i); err != nil {
		a.status = err.Error()
		return
	}
	a.sync()
	a.status = ""
	if sel, ok := comp.Selected(); ok {
		s, _ := comp.Spec(sel)
		a.status = "selected " + s.ID
	}
}

// clickAt selects the rig under the screen point (x, y).
func (a *App) clickAt(x, y float64) {
	if y < 0 || y >= heroHeight || len(a.frames) == 0 {
		return
	}
	var (
		i  int
		ok bool
	)
	if a.Stage.Composer().Mode() == rig.Mode3D {
		i, ok = page.HitTest(a.frames, a.Camera, screenWidth, heroHeight, x, y)
	} else {
		p := a.view.toFigure(x, y)
		i, ok = page.HitTest(a.frames, nil, 0, 0, p[0], p[1])
	}
	if ok {
		a.click(i)
	}
}

func (a *App) sync() {
	if err := a.Stage.Sync(); err != nil {
		a.status = err.Error()
	}
}

// refresh renders the next stage frame.
func (a *App) refresh(ctx context.Context) error {
	frames, err := a.Stage.Frame(ctx, a.now())
	if errors.Is(err, page.ErrNotMounted) {
		return ebiten.Termination
	}
	if frames != nil {
		a.frames = frames
	}
	return nil
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func (a *App) statusLine() string {
	mode := a.Stage.Composer().Mode()
	s := fmt.Sprintf("%s  mode %s  %.0f fps", a.Config.Title, mode, ebiten.ActualFPS())
	if mode == rig.Mode3D {
		s += fmt.Sprintf("  az %+.0f el %+.0f d %.1f", a.Camera.Azimuth, a.Camera.Elevation, a.Camera.Distance)
	}
	if a.status != "" {
		s += "  " + a.status
	}
	return s
}
