package viz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/brix/internal/config"
	"github.com/san-kum/brix/internal/contact"
	"github.com/san-kum/brix/internal/page"
	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

// Hero layout in terminal pixels. A raster pixel is half a cell high.
const (
	pxPerTile     = 2.0
	marginTiles   = 1.0
	headroomTiles = 4.0
	heroTop       = 2  // header and separator rows above the hero
	heroRows      = 14 // cells
	minHeroCols   = 40
	orbitStep     = 5.0
)

type panel uint8

const (
	heroPanel panel = iota
	contactPanel
)

var formFields = []string{"Name", "Email", "Message"}

// framesMsg carries one rendered frame of the stage that produced it.
type framesMsg struct {
	stage  *page.Stage
	frames []page.Frame
}

// contactMsg reports a submitter state change.
type contactMsg contact.State

// sessionMsg swaps in a page built from a reloaded config.
type sessionMsg struct{ sess *session }

// session is one mounted page: its config, stage and camera.
type session struct {
	cfg    *config.Config
	stage  *page.Stage
	camera *scene.Camera
}

func newSession(cfg *config.Config, logger *log.Logger, opts ...page.Option) (*session, error) {
	comp, err := cfg.Composer()
	if err != nil {
		return nil, err
	}
	opts = append([]page.Option{
		page.WithTileSize(cfg.TileSize),
		page.WithBackground(GetTheme(cfg.Theme).Bg()),
		page.WithLogger(logger),
	}, opts...)
	stage := page.NewStage(comp, opts...)
	cam := cfg.NewCamera()
	cam.Target = comp.Center()
	if err := stage.Mount(time.Now()); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, stage: stage, camera: cam}, nil
}

// Model is the live page: a splash, the hero with its rigs and a contact
// panel.
type Model struct {
	sess      *session
	submitter *contact.Submitter
	theme     Theme
	styles    Styles

	width, height int
	now           func() time.Time
	started       time.Time
	frames        []page.Frame
	tick          int

	panel    panel
	form     contact.Form
	field    int
	formErr  string
	status   string
	showHelp bool
	recorder *Recorder
}

func newModel(sess *session, sub *contact.Submitter) Model {
	theme := GetTheme(sess.cfg.Theme)
	CurrentTheme = theme
	return Model{
		sess:      sess,
		submitter: sub,
		theme:     theme,
		styles:    NewStyles(theme),
		width:     80,
		height:    24,
		now:       time.Now,
		started:   time.Now(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) splashing() bool {
	return m.now().Sub(m.started) < SplashDuration
}

func (m Model) composer() *page.Composer { return m.sess.stage.Composer() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case framesMsg:
		if msg.stage != m.sess.stage {
			return m, nil
		}
		m.frames = msg.frames
		m.tick++
		if m.recorder != nil {
			m.capture()
		}
	case contactMsg:
		if contact.State(msg) == contact.Submitted {
			m.form = contact.Form{}
			m.formErr = ""
		}
	case sessionMsg:
		m.sess = msg.sess
		m.frames = nil
		m.setTheme(GetTheme(msg.sess.cfg.Theme))
		m.status = "config reloaded"
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !m.splashing() {
			m.clickAt(msg.X, msg.Y)
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.splashing() {
		return m, nil
	}
	if m.panel == contactPanel {
		m.handleFormKey(msg)
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.click(int(key[0] - '1'))
	case "esc":
		m.composer().Clear()
		m.sync()
	case "m":
		mode := m.composer().ToggleMode()
		m.sync()
		m.status = "mode " + mode.String()
	case "left":
		m.sess.camera.Orbit(-orbitStep, 0)
	case "right":
		m.sess.camera.Orbit(orbitStep, 0)
	case "up":
		m.sess.camera.Orbit(0, orbitStep)
	case "down":
		m.sess.camera.Orbit(0, -orbitStep)
	case "+", "=":
		m.sess.camera.ZoomIn()
	case "-", "_":
		m.sess.camera.ZoomOut()
	case "t":
		m.setTheme(NextTheme())
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	case "tab":
		m.panel = contactPanel
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) {
	state := m.submitter.State()
	switch msg.Type {
	case tea.KeyTab, tea.KeyEsc:
		m.panel = heroPanel
	case tea.KeyUp:
		m.field = (m.field + len(formFields) - 1) % len(formFields)
	case tea.KeyDown:
		m.field = (m.field + 1) % len(formFields)
	case tea.KeyEnter:
		if state != contact.Editing {
			return
		}
		if err := m.submitter.Submit(m.form); err != nil {
			m.formErr = err.Error()
			return
		}
		m.formErr = ""
	case tea.KeyBackspace:
		if state == contact.Editing {
			v := m.fieldValue()
			if r := []rune(*v); len(r) > 0 {
				*v = string(r[:len(r)-1])
			}
		}
	case tea.KeySpace:
		if state == contact.Editing {
			*m.fieldValue() += " "
		}
	case tea.KeyRunes:
		switch {
		case state == contact.Submitted && string(msg.Runes) == "n":
			m.submitter.Reset()
		case state == contact.Editing:
			*m.fieldValue() += string(msg.Runes)
		}
	}
}

func (m *Model) fieldValue() *string {
	switch m.field {
	case 0:
		return &m.form.Name
	case 1:
		return &m.form.Email
	default:
		return &m.form.Message
	}
}

func (m *Model) click(i int) {
	if err := m.composer().Click(i); err != nil {
		m.status = err.Error()
		return
	}
	m.sync()
	if sel, ok := m.composer().Selected(); ok {
		s, _ := m.composer().Spec(sel)
		m.status = "selected " + s.ID
	} else {
		m.status = ""
	}
}

// clickAt selects the rig under terminal cell (col, row).
func (m *Model) clickAt(col, row int) {
	cols := m.heroCols()
	hr := row - heroTop
	if hr < 0 || hr >= heroRows || col < 0 || col >= cols || len(m.frames) == 0 {
		return
	}

	var (
		i  int
		ok bool
	)
	if m.composer().Mode() == rig.Mode3D {
		sw, sh := cols*2, heroRows*4
		i, ok = page.HitTest(m.frames, m.sess.camera, sw, sh, float64(col*2+1), float64(hr*4+2))
	} else {
		ts := m.sess.stage.TileSize()
		scale := pxPerTile / ts
		x := (float64(col)+0.5)/scale - marginTiles*ts
		y := (float64(hr*2)+1)/scale - headroomTiles*ts
		i, ok = page.HitTest(m.frames, nil, 0, 0, x, y)
	}
	if ok {
		m.click(i)
	}
}

func (m *Model) sync() {
	if err := m.sess.stage.Sync(); err != nil && !errors.Is(err, page.ErrNotMounted) {
		m.status = err.Error()
	}
}

func (m *Model) setTheme(t Theme) {
	CurrentTheme = t
	m.theme = t
	m.styles = NewStyles(t)
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder(m.sess.cfg.FPS)
		m.status = "recording"
		return
	}
	n := m.recorder.Len()
	if err := m.recorder.Save(DefaultRecording); err != nil {
		m.status = "record: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %s (%d frames)", DefaultRecording, n)
	}
	m.recorder = nil
}

func (m *Model) capture() {
	raster, canvas := m.drawHero()
	if raster != nil {
		m.recorder.CaptureRaster(raster)
	} else {
		m.recorder.CaptureCanvas(canvas, m.theme.Bg())
	}
}

func (m Model) heroCols() int { return max(m.width, minHeroCols) }

// drawHero renders the current frames; exactly one result is non-nil.
func (m Model) drawHero() (*Raster, *Canvas) {
	cols := m.heroCols()
	if m.composer().Mode() == rig.Mode3D {
		c := NewCanvas(cols, heroRows)
		var all scene.Wireframe
		for _, f := range m.frames {
			if f.Err == nil && f.Props.Mode == rig.Mode3D {
				all.Edges = append(all.Edges, f.Wireframe.Edges...)
			}
		}
		scene.Render(c, all, m.sess.camera)
		return nil, c
	}

	r := NewRaster(cols, heroRows, m.theme.Bg())
	ts := m.sess.stage.TileSize()
	for _, f := range m.frames {
		if f.Err != nil || f.Props.Mode != rig.Mode2D {
			continue
		}
		r.DrawFigure(f.Figure.Offset(marginTiles*ts, headroomTiles*ts), pxPerTile/ts)
	}
	return r, nil
}

func (m Model) View() string {
	if m.splashing() {
		t := m.now().Sub(m.started).Seconds()
		return RenderSplash(t, m.theme, m.width, m.height)
	}

	var b strings.Builder
	title := m.sess.cfg.Title
	if title == "" {
		title = "brix"
	}
	b.WriteString(m.styles.Title.Render(strings.ToUpper(title)) + "  " +
		GradientText("block characters", m.theme.Secondary, m.theme.Accent) + "\n")
	b.WriteString(Separator(m.heroCols(), m.styles.KeyHint) + "\n")

	raster, canvas := m.drawHero()
	if raster != nil {
		b.WriteString(raster.Render())
	} else {
		b.WriteString(canvas.Render())
	}

	var lower string
	switch {
	case m.showHelp:
		lower = m.renderHelp()
	case m.panel == contactPanel:
		lower = m.renderContact()
	default:
		lower = m.renderLegend()
	}
	b.WriteString(lower + "\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderLegend() string {
	var lines []string
	for i := 0; i < m.composer().Len(); i++ {
		p, err := m.composer().View(i)
		if err != nil {
			continue
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Palette.At(rig.Primary).Hex())).Render("██")
		line := fmt.Sprintf("[%d] %-10s %s", i+1, p.ID, p.Action)
		switch {
		case p.Highlighted:
			line = m.styles.Selected.Render("> " + line)
		case p.Dimmed:
			line = m.styles.KeyHint.Render("  " + line)
		default:
			line = m.styles.Value.Render("  " + line)
		}
		if i < len(m.frames) && m.frames[i].Err != nil {
			line += " " + m.styles.Error.Render("render failed")
		}
		lines = append(lines, swatch+" "+line)
	}

	mode := m.composer().Mode()
	info := m.styles.Label.Render("Mode") + m.styles.Value.Render(mode.String())
	if mode == rig.Mode3D {
		cam := m.sess.camera
		info += "\n" + m.styles.Label.Render("Camera") + m.styles.Value.Render(
			fmt.Sprintf("az %+.0f° el %+.0f° d %.1f", cam.Azimuth, cam.Elevation, cam.Distance))
	}
	info += "\n" + m.styles.Label.Render("Theme") + m.styles.Value.Render(m.theme.Name)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Panel.Render(strings.Join(lines, "\n")),
		m.styles.Panel.Render(info),
	)
}

func (m Model) renderContact() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Get in touch") + "\n\n")

	state := m.submitter.State()
	if state == contact.Submitted {
		b.WriteString(m.styles.Success.Render("✓ Message sent") + "\n")
		b.WriteString(m.styles.KeyHint.Render("n: send another  tab: back"))
		return m.styles.Focused.Render(b.String())
	}

	form := m.form
	if state == contact.Loading {
		form = m.submitter.Pending()
	}
	values := []string{form.Name, form.Email, form.Message}
	for i, name := range formFields {
		v := values[i]
		if i == m.field && state == contact.Editing {
			v += "▏"
			b.WriteString(m.styles.Selected.Render("> ") + m.styles.Label.Render(name) + m.styles.Value.Render(v) + "\n")
			continue
		}
		b.WriteString("  " + m.styles.Label.Render(name) + m.styles.Value.Render(v) + "\n")
	}
	b.WriteString("\n")

	switch {
	case state == contact.Loading:
		b.WriteString(m.styles.Value.Render(AnimatedSpinner(m.tick) + " Sending..."))
	case m.formErr != "":
		b.WriteString(m.styles.Error.Render(m.formErr))
	default:
		b.WriteString(m.styles.KeyHint.Render("enter: send  ↑↓: field  tab: back"))
	}
	return m.styles.Focused.Render(b.String())
}

func (m Model) renderHelp() string {
	keys := [][2]string{
		{"1-9", "select / deselect a rig"},
		{"click", "select the rig under the pointer"},
		{"esc", "clear the selection"},
		{"m", "toggle 2D / 3D"},
		{"←→↑↓", "orbit the camera (3D)"},
		{"+ -", "zoom (3D)"},
		{"tab", "contact form"},
		{"t", "cycle themes"},
		{"g", "start / stop GIF recording"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Keys") + "\n")
	for _, k := range keys {
		b.WriteString(m.styles.Label.Render(k[0]) + m.styles.Value.Render(k[1]) + "\n")
	}
	return m.styles.Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) renderStatus() string {
	var parts []string
	if m.recorder != nil {
		parts = append(parts, m.styles.Error.Render(fmt.Sprintf("● REC %d", m.recorder.Len())))
	}
	if m.status != "" {
		parts = append(parts, m.styles.Value.Render(m.status))
	}
	parts = append(parts, m.styles.KeyHint.Render("1-9:select m:mode tab:contact ?:help q:quit"))
	return strings.Join(parts, "  ")
}

// Run shows the live page until the user quits or ctx ends. Every config
// received from reloads replaces the page; a config that fails to build is
// logged and skipped.
func Run(ctx context.Context, cfg *config.Config, reloads <-chan *config.Config, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(os.Stderr, "viz: ", log.LstdFlags)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	var p *tea.Program
	sub := contact.NewSubmitter(cfg.SubmitDelayDuration(), contact.WithNotify(func(st contact.State) {
		// Submit reports from inside Update; sending there would block
		// the event loop.
		go p.Send(contactMsg(st))
	}))
	defer sub.Close()

	p = tea.NewProgram(newModel(sess, sub),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	driven := make(chan struct{})
	go func() {
		defer close(driven)
		drive(ctx, p, sess, reloads, logger)
	}()

	_, err = p.Run()
	cancel()
	<-driven
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// drive runs the frame loop of the current session and swaps sessions on
// reload.
func drive(ctx context.Context, p *tea.Program, sess *session, reloads <-chan *config.Config, logger *log.Logger) {
	for {
		done := make(chan error, 1)
		go func(s *session) {
			done <- s.stage.Run(ctx, s.cfg.FPS, func(frames []page.Frame) bool {
				p.Send(framesMsg{stage: s.stage, frames: frames})
				return true
			})
		}(sess)

	wait:
		for {
			select {
			case <-ctx.Done():
				sess.stage.Unmount()
				<-done
				return
			case err := <-done:
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Printf("frame loop: %v", err)
				}
				return
			case cfg, ok := <-reloads:
				if !ok {
					reloads = nil
					continue
				}
				next, err := newSession(cfg, logger)
				if err != nil {
					logger.Printf("reload: %v", err)
					continue
				}
				p.Send(sessionMsg{sess: next})
				sess.stage.Unmount()
				<-done
				sess = next
				break wait
			}
		}
	}
}

