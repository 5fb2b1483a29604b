package page

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
)

var testPalette = rig.MustPalette("#3490dc", "#6cb2eb", "#2779bd")

func heroSpecs() []Spec {
	return []Spec{
		{ID: "walker", Palette: testPalette, Action: rig.Walking},
		{ID: "thinker", Palette: testPalette, Action: rig.Lightbulb, Delay: 0.5, Position: rig.Vec2{X: 6}},
		{ID: "drinker", Palette: testPalette, Action: rig.Milk, Delay: 1, Position: rig.Vec2{X: 12}},
	}
}

var _ = Describe("Composer", func() {
	var c *Composer

	BeforeEach(func() {
		c = NewComposer(heroSpecs(), rig.Mode2D)
	})

	It("starts idle with every rig doing its own action", func() {
		_, ok := c.Selected()
		Expect(ok).To(BeFalse())
		for i, p := range c.Views() {
			Expect(p.Action).To(Equal(heroSpecs()[i].Action))
			Expect(p.Highlighted).To(BeFalse())
			Expect(p.Dimmed).To(BeFalse())
		}
	})

	Describe("Click", func() {
		It("selects a rig from idle", func() {
			Expect(c.Click(1)).To(Succeed())
			sel, ok := c.Selected()
			Expect(ok).To(BeTrue())
			Expect(sel).To(Equal(1))
		})

		It("returns to idle when the selected rig is clicked again", func() {
			Expect(c.Click(1)).To(Succeed())
			Expect(c.Click(1)).To(Succeed())
			_, ok := c.Selected()
			Expect(ok).To(BeFalse())
		})

		It("moves the selection to another rig", func() {
			Expect(c.Click(0)).To(Succeed())
			Expect(c.Click(2)).To(Succeed())
			sel, _ := c.Selected()
			Expect(sel).To(Equal(2))
		})

		It("rejects out of range indices without changing state", func() {
			Expect(c.Click(0)).To(Succeed())
			Expect(c.Click(3)).To(MatchError(ErrNoSuchRig))
			Expect(c.Click(-1)).To(MatchError(ErrNoSuchRig))
			sel, ok := c.Selected()
			Expect(ok).To(BeTrue())
			Expect(sel).To(Equal(0))
		})
	})

	Describe("View", func() {
		It("makes a selected walker jump and dims the others", func() {
			Expect(c.Click(0)).To(Succeed())
			views := c.Views()
			Expect(views[0].Action).To(Equal(rig.Jumping))
			Expect(views[0].Highlighted).To(BeTrue())
			Expect(views[0].Dimmed).To(BeFalse())
			Expect(views[1].Dimmed).To(BeTrue())
			Expect(views[2].Dimmed).To(BeTrue())
			Expect(views[1].Action).To(Equal(rig.Lightbulb))
		})

		It("makes any other selected rig wave", func() {
			Expect(c.Click(2)).To(Succeed())
			p, err := c.View(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Action).To(Equal(rig.Waving))
		})

		It("restores the configured actions after deselecting", func() {
			Expect(c.Click(1)).To(Succeed())
			Expect(c.Click(2)).To(Succeed())
			Expect(c.Click(2)).To(Succeed())
			for i, p := range c.Views() {
				Expect(p.Action).To(Equal(heroSpecs()[i].Action))
				Expect(p.Dimmed).To(BeFalse())
			}
			s, err := c.Spec(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Action).To(Equal(rig.Lightbulb))
		})

		It("carries the render mode", func() {
			Expect(c.ToggleMode()).To(Equal(rig.Mode3D))
			p, _ := c.View(0)
			Expect(p.Mode).To(Equal(rig.Mode3D))
			Expect(c.ToggleMode()).To(Equal(rig.Mode2D))
		})

		It("fails for unknown rigs", func() {
			_, err := c.View(9)
			Expect(err).To(MatchError(ErrNoSuchRig))
		})
	})

	It("centers the camera target between the outermost rigs", func() {
		Expect(c.Center()).To(Equal(scene.FigureCenter.Add(mgl64.Vec3{6, 0, 0})))
		Expect(NewComposer(nil, rig.Mode2D).Center()).To(Equal(scene.FigureCenter))
	})

	It("does not share the caller's spec slice", func() {
		specs := heroSpecs()
		c = NewComposer(specs, rig.Mode2D)
		specs[0].Action = rig.Milk
		s, _ := c.Spec(0)
		Expect(s.Action).To(Equal(rig.Walking))
	})
})
