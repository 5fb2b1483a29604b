package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultRecording is where the live page saves a GIF.
const DefaultRecording = "brix.gif"

// Recording image sizes: a raster pixel becomes a square block, a braille
// cell an 8x16 glyph box.
const (
	rasterPx       = 4
	charW, charH   = 8, 16
	maxRecordedLen = 900
)

// Recorder collects hero frames for an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int // hundredths of a second
}

func NewRecorder(fps int) *Recorder {
	if fps <= 0 {
		fps = 30
	}
	return &Recorder{delay: max(100/fps, 2)}
}

func (r *Recorder) Len() int { return len(r.frames) }

// CaptureRaster adds one frame from a half-block raster.
func (r *Recorder) CaptureRaster(rs *Raster) {
	w, h := rs.Size()
	img := r.image(w*rasterPx, h*rasterPx, rs.Background)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, ok := rs.At(x, y)
			if !ok {
				continue
			}
			fill(img, x*rasterPx, y*rasterPx, rasterPx, rasterPx, toRGBA(c))
		}
	}
	r.add(img)
}

// CaptureCanvas adds one frame from a braille canvas.
func (r *Recorder) CaptureCanvas(c *Canvas, bg colorful.Color) {
	img := r.image(c.Width*charW, c.Height*charH, bg)
	dotW, dotH := charW/2, charH/4
	sw, sh := c.Size()
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			fill(img, x*dotW, y*dotH, dotW, dotH, toRGBA(c.Colors[y/4][x/2]))
		}
	}
	r.add(img)
}

func (r *Recorder) image(w, h int, bg colorful.Color) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9)
	fill(img, 0, 0, w, h, toRGBA(bg))
	return img
}

func (r *Recorder) add(img *image.Paletted) {
	if len(r.frames) >= maxRecordedLen {
		r.frames = r.frames[1:]
	}
	r.frames = append(r.frames, img)
}

// Encode writes the frames as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("viz: nothing recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fill(img *image.Paletted, x0, y0, w, h int, c color.Color) {
	idx := uint8(img.Palette.Index(c))
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.SetColorIndex(x, y, idx)
		}
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
