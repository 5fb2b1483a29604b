package gui

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/brix/internal/blocks"
	"github.com/san-kum/brix/internal/config"
	"github.com/san-kum/brix/internal/page"
	"github.com/san-kum/brix/internal/rig"
)

var testPalette = rig.MustPalette("#3490dc", "#6cb2eb", "#2779bd")

func TestView_FitsHeroPreset(t *testing.T) {
	c, err := config.GetPreset("hero").Composer()
	if err != nil {
		t.Fatal(err)
	}
	v := newView(c, 20)

	left := v.toScreen(mgl64.Vec2{1 * 20, 0})
	right := v.toScreen(mgl64.Vec2{(22 + blocks.FigureWidth) * 20, 0})
	if left[0] < 0 || right[0] > screenWidth {
		t.Errorf("rigs span %v..%v, outside the window", left[0], right[0])
	}
	bottom := v.toScreen(mgl64.Vec2{0, (1.5 + blocks.FigureHeight) * 20})
	if bottom[1] > heroHeight {
		t.Errorf("rig bottom at %v, below the hero", bottom[1])
	}
	top := v.toScreen(mgl64.Vec2{0, -headroomTiles * 20})
	if top[1] < -1e-9 {
		t.Errorf("headroom starts at %v, above the window", top[1])
	}
}

func TestView_RoundTrip(t *testing.T) {
	v := view{scale: 0.75, origin: mgl64.Vec2{40, 60}}
	p := mgl64.Vec2{33, -12}
	s := v.toScreen(p)
	back := v.toFigure(s[0], s[1])
	if !back.ApproxEqualThreshold(p, 1e-9) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestView_QuadVertices(t *testing.T) {
	v := view{scale: 2, origin: mgl64.Vec2{10, 20}}
	q := blocks.Quad{
		Points: [4]mgl64.Vec2{{0, 0}, {5, 0}, {5, 5}, {0, 5}},
		Color:  testPalette.At(rig.Primary),
		Alpha:  0.5,
	}
	vs, is := v.quadVertices(q)
	if len(vs) != 4 || len(is) != 6 {
		t.Fatalf("got %d vertices, %d indices", len(vs), len(is))
	}
	if vs[2].DstX != 20 || vs[2].DstY != 30 {
		t.Errorf("corner = (%v,%v), want (20,30)", vs[2].DstX, vs[2].DstY)
	}
	if vs[0].ColorA != 0.5 {
		t.Errorf("alpha = %v, want 0.5", vs[0].ColorA)
	}
	if math.Abs(float64(vs[0].ColorR)-q.Color.R) > 1e-6 {
		t.Errorf("red = %v, want %v", vs[0].ColorR, q.Color.R)
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Rigs = []config.RigConfig{{ID: "solo", Palette: testPalette.Hex(), Action: "walking"}}
	a, err := NewApp(cfg, nil, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)
	if err := a.refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestApp_ClickSelectsRig(t *testing.T) {
	a := newTestApp(t)

	// middle of the torso
	torso := a.frames[0].Figure.Quads
	var center mgl64.Vec2
	for _, q := range torso {
		if q.Part == "torso" {
			center = q.Points[0].Add(q.Points[2]).Mul(0.5)
			break
		}
	}
	s := a.view.toScreen(center)
	a.clickAt(s[0], s[1])

	sel, ok := a.Stage.Composer().Selected()
	if !ok || sel != 0 {
		t.Fatalf("selected = %d, %v; want 0", sel, ok)
	}
	inst, _ := a.Stage.Instance(0)
	if inst.Action() != rig.Jumping {
		t.Errorf("action = %s, want jumping", inst.Action())
	}

	a.clickAt(5, 5)
	if _, ok := a.Stage.Composer().Selected(); !ok {
		t.Error("click on empty space should keep the selection")
	}
	a.clickAt(s[0], heroHeight+10)
	if _, ok := a.Stage.Composer().Selected(); !ok {
		t.Error("click below the hero should be ignored")
	}
}

func TestApp_ContactTyping(t *testing.T) {
	a := newTestApp(t)
	a.typeChars([]rune("Ad"), false)
	a.typeChars([]rune("x"), true)
	if a.form.Name != "Ax" {
		t.Errorf("name = %q, want %q", a.form.Name, "Ax")
	}
	a.submit()
	if a.formErr == "" {
		t.Error("submitting an incomplete form should report an error")
	}
}

func TestApp_ReloadSwapsStage(t *testing.T) {
	reloads := make(chan *config.Config, 1)
	cfg := config.DefaultConfig()
	a, err := NewApp(cfg, reloads, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)
	old := a.Stage

	next := config.GetPreset("parade")
	reloads <- next
	a.pollReload()

	if a.Stage == old {
		t.Fatal("stage was not replaced")
	}
	if old.Mounted() {
		t.Error("old stage is still mounted")
	}
	if a.Stage.Composer().Len() != len(next.Rigs) {
		t.Errorf("rigs = %d, want %d", a.Stage.Composer().Len(), len(next.Rigs))
	}
	if _, err := old.Frame(context.Background(), a.now()); !errors.Is(err, page.ErrNotMounted) {
		t.Errorf("old stage frame error = %v, want ErrNotMounted", err)
	}
}
