package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/san-kum/brix/internal/analysis"
	"github.com/san-kum/brix/internal/blocks"
	"github.com/san-kum/brix/internal/config"
	"github.com/san-kum/brix/internal/export"
	"github.com/san-kum/brix/internal/gui"
	"github.com/san-kum/brix/internal/page"
	"github.com/san-kum/brix/internal/rig"
	"github.com/san-kum/brix/internal/scene"
	"github.com/san-kum/brix/internal/viz"
	"github.com/san-kum/brix/internal/watch"
)

var (
	configFile string
	preset     string
	fps        int
	mode       string
	theme      string
	watchFile  bool
	logFile    string
	// render
	outFile  string
	at       float64
	gifFile  string
	seconds  float64
	svgSize  []int
	gifScale int
	// plot
	duration float64
	step     float64
	svgPlot  bool
	jsonPlot bool
	csvPlot  bool
	// analyze
	window     float64
	resolution float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "brix",
		Short:        "animated block characters",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "page config file (yaml)")
	pf.StringVar(&preset, "preset", "", "use a preset page ("+strings.Join(config.ListPresets(), ", ")+")")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&mode, "mode", "2d", "render mode (2d, 3d)")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "show the page in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().BoolVar(&watchFile, "watch", false, "reload the config file when it changes")
		c.Flags().StringVar(&logFile, "log", "", "write diagnostics to this file")
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "show the page in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&watchFile, "watch", false, "reload the config file when it changes")

	renderCmd := &cobra.Command{
		Use:   "render [action]",
		Short: "render the page, or one rig doing action, to SVG or GIF",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderPage,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	renderCmd.Flags().Float64Var(&at, "at", 0, "seconds since mount")
	renderCmd.Flags().StringVar(&gifFile, "gif", "", "record an animated GIF to this file instead")
	renderCmd.Flags().Float64Var(&seconds, "seconds", 4, "GIF length")
	renderCmd.Flags().IntSliceVar(&svgSize, "size", []int{800, 600}, "3D SVG width,height")
	renderCmd.Flags().IntVar(&gifScale, "scale", 8, "GIF pixels per tile")

	poseCmd := &cobra.Command{
		Use:   "pose [action]",
		Short: "print every joint of an action at a phase",
		Args:  cobra.ExactArgs(1),
		RunE:  printPose,
	}
	poseCmd.Flags().Float64Var(&at, "at", 0, "phase in seconds")

	plotCmd := &cobra.Command{
		Use:   "plot [action] [segment] [channel]",
		Short: "plot one joint channel over time",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  plotChannel,
	}
	plotCmd.Flags().Float64Var(&duration, "time", 6, "seconds to sample")
	plotCmd.Flags().Float64Var(&step, "step", 0.02, "sample step in seconds")
	plotCmd.Flags().BoolVar(&svgPlot, "svg", false, "write an SVG plot instead")
	plotCmd.Flags().BoolVar(&jsonPlot, "json", false, "write the samples as JSON")
	plotCmd.Flags().BoolVar(&csvPlot, "csv", false, "write every channel of the segment as CSV")
	plotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [action]",
		Short: "range and period of every moving joint channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeAction,
	}
	analyzeCmd.Flags().Float64Var(&window, "time", 30, "seconds to sample")
	analyzeCmd.Flags().Float64Var(&resolution, "step", 0.01, "sample step in seconds")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset pages",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the selected page config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, renderCmd, poseCmd, plotCmd, analyzeCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig picks the page from --config, --preset or the default, then
// applies the environment and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// watchConfigs streams reloads of --config when --watch is set; otherwise
// it returns nil.
func watchConfigs(ctx context.Context, logger *log.Logger) (<-chan *config.Config, func(), error) {
	if !watchFile {
		return nil, func() {}, nil
	}
	if configFile == "" {
		return nil, nil, fmt.Errorf("--watch needs --config")
	}
	w, err := watch.NewWatcher(configFile, 0)
	if err != nil {
		return nil, nil, err
	}
	return watch.Configs(ctx, w, logger), func() { w.Close() }, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the page; diagnostics go to --log or nowhere.
	logger := log.New(io.Discard, "", 0)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.New(f, "brix: ", log.LstdFlags)
	}
	rig.SetLogger(logger)

	reloads, closeWatch, err := watchConfigs(cmd.Context(), logger)
	if err != nil {
		return err
	}
	defer closeWatch()

	return viz.Run(cmd.Context(), cfg, reloads, logger)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "brix: ", log.LstdFlags)

	reloads, closeWatch, err := watchConfigs(cmd.Context(), logger)
	if err != nil {
		return err
	}
	defer closeWatch()

	return gui.Run(cfg, reloads, logger)
}

func renderPage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		a, err := rig.ParseAction(args[0])
		if err != nil {
			return err
		}
		cfg.Rigs = []config.RigConfig{{ID: a.String(), Palette: cfg.Rigs[0].Palette, Action: a.String()}}
	}

	comp, err := cfg.Composer()
	if err != nil {
		return err
	}
	bg := viz.GetTheme(cfg.Theme).Bg()
	stage := page.NewStage(comp,
		page.WithTileSize(cfg.TileSize),
		page.WithBackground(bg),
		page.WithLogger(log.New(os.Stderr, "brix: ", 0)),
	)
	t0 := time.Unix(0, 0)
	if err := stage.Mount(t0); err != nil {
		return err
	}
	defer stage.Unmount()

	cam := cfg.NewCamera()
	cam.Target = comp.Center()

	if gifFile != "" {
		return recordGIF(cmd.Context(), stage, cam, cfg, t0, bg)
	}

	frames, err := stage.Frame(cmd.Context(), t0.Add(secondsToDuration(at)))
	if err != nil {
		return err
	}
	var svg string
	if comp.Mode() == rig.Mode3D {
		if len(svgSize) != 2 {
			return fmt.Errorf("--size wants width,height")
		}
		svg = export.WireframeToSVG(wireframes(frames), cam, svgSize[0], svgSize[1], bg)
	} else {
		figs, w, h := framed(frames, cfg.TileSize)
		svg = export.FigureToSVG(figs, w, h, bg)
	}
	return writeOutput(svg)
}

func recordGIF(ctx context.Context, stage *page.Stage, cam *scene.Camera, cfg *config.Config, t0 time.Time, bg colorful.Color) error {
	rec := viz.NewRecorder(cfg.FPS)
	n := int(seconds * float64(cfg.FPS))
	frameStep := time.Second / time.Duration(cfg.FPS)

	var (
		cols, rows int
		dx, dy     float64
	)
	for i := 0; i < n; i++ {
		frames, err := stage.Frame(ctx, t0.Add(time.Duration(i)*frameStep))
		if err != nil {
			return err
		}
		if stage.Composer().Mode() == rig.Mode3D {
			c := viz.NewCanvas(100, 40)
			var all scene.Wireframe
			for _, w := range wireframes(frames) {
				all.Edges = append(all.Edges, w.Edges...)
			}
			scene.Render(c, all, cam)
			rec.CaptureCanvas(c, bg)
			continue
		}

		scale := float64(gifScale) / cfg.TileSize
		if i == 0 {
			// size the raster once so every frame shares it
			min, max := pageBounds(frames, cfg.TileSize)
			dx, dy = -min[0], -min[1]
			cols = int(math.Ceil((max[0] - min[0]) * scale))
			rows = int(math.Ceil((max[1]-min[1])*scale/2)) + 1
		}
		r := viz.NewRaster(cols, rows, bg)
		for _, f := range frames {
			if f.Err == nil {
				r.DrawFigure(f.Figure.Offset(dx, dy), scale)
			}
		}
		rec.CaptureRaster(r)
	}

	if err := rec.Save(gifFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d frames)\n", gifFile, rec.Len())
	return nil
}

func wireframes(frames []page.Frame) []scene.Wireframe {
	var out []scene.Wireframe
	for _, f := range frames {
		if f.Err == nil {
			out = append(out, f.Wireframe)
		}
	}
	return out
}

// pageBounds is the box around every figure, padded by a tile and with
// headroom for the idea glyph.
func pageBounds(frames []page.Frame, tileSize float64) (min, max mgl64.Vec2) {
	min = mgl64.Vec2{math.Inf(1), math.Inf(1)}
	max = mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, f := range frames {
		if f.Err != nil || len(f.Figure.Quads) == 0 {
			continue
		}
		lo, hi := f.Figure.Bounds()
		min = mgl64.Vec2{math.Min(min[0], lo[0]), math.Min(min[1], lo[1])}
		max = mgl64.Vec2{math.Max(max[0], hi[0]), math.Max(max[1], hi[1])}
	}
	if math.IsInf(min[0], 1) {
		return mgl64.Vec2{}, mgl64.Vec2{blocks.FigureWidth * tileSize, blocks.FigureHeight * tileSize}
	}
	min = min.Sub(mgl64.Vec2{tileSize, 4 * tileSize})
	max = max.Add(mgl64.Vec2{tileSize, tileSize})
	return min, max
}

// framed moves the figures so the page box starts at the origin.
func framed(frames []page.Frame, tileSize float64) ([]blocks.Figure, int, int) {
	min, max := pageBounds(frames, tileSize)
	var figs []blocks.Figure
	for _, f := range frames {
		if f.Err == nil {
			figs = append(figs, f.Figure.Offset(-min[0], -min[1]))
		}
	}
	return figs, int(math.Ceil(max[0] - min[0])), int(math.Ceil(max[1] - min[1]))
}

func writeOutput(s string) error {
	if outFile == "" {
		_, err := fmt.Println(s)
		return err
	}
	return os.WriteFile(outFile, []byte(s), 0o644)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func printPose(cmd *cobra.Command, args []string) error {
	a, err := rig.ParseAction(args[0])
	if err != nil {
		return err
	}
	p := rig.Evaluate(a, at)

	fmt.Printf("%s at %.2fs\n\n", a, at)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEGMENT\tROLL\tPITCH\tOFFSET X\tOFFSET Y\tSCALE X\tSCALE Y")
	for _, s := range rig.Segments() {
		j := p.Joint(s)
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			s, j.Roll, j.Pitch, j.Offset.X, j.Offset.Y, j.Scale.X, j.Scale.Y)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if p.Prop.Kind != rig.PropNone {
		fmt.Printf("\nprop %s: roll %.2f offset (%.3f, %.3f) scale %.3f opacity %.3f\n",
			p.Prop.Kind, p.Prop.Roll, p.Prop.Offset.X, p.Prop.Offset.Y, p.Prop.Scale, p.Prop.Opacity)
	}
	if p.Extreme {
		fmt.Println("extreme: yes")
	}
	return nil
}

func plotChannel(cmd *cobra.Command, args []string) error {
	a, err := rig.ParseAction(args[0])
	if err != nil {
		return err
	}
	s, err := rig.ParseSegment(args[1])
	if err != nil {
		return err
	}
	c := analysis.Roll
	if len(args) == 3 {
		if c, err = analysis.ParseChannel(args[2]); err != nil {
			return err
		}
	}

	if csvPlot {
		return exportSegment(a, s)
	}
	tr, err := analysis.JointTrace(a, s, c, 0, duration, step)
	if err != nil {
		return err
	}
	switch {
	case svgPlot:
		return writeOutput(export.TraceToSVG(tr, 800, 300, "#3490dc"))
	case jsonPlot:
		return withOutput(func(w io.Writer) error {
			return export.WriteTraceJSON(w, export.NewTraceData(a, s, c, tr))
		})
	}

	caption := fmt.Sprintf("%s %s %s (%.0fs)", a, s, c, duration)
	graph := asciigraph.Plot(tr.Values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

// exportSegment writes all channels of one segment side by side.
func exportSegment(a rig.Action, s rig.Segment) error {
	var (
		names  []string
		traces []analysis.Trace
	)
	for _, c := range analysis.Channels() {
		tr, err := analysis.JointTrace(a, s, c, 0, duration, step)
		if err != nil {
			return err
		}
		names = append(names, c.String())
		traces = append(traces, tr)
	}
	return withOutput(func(w io.Writer) error {
		return export.WriteTracesCSV(w, names, traces)
	})
}

func withOutput(write func(w io.Writer) error) error {
	if outFile == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return f.Close()
}

func analyzeAction(cmd *cobra.Command, args []string) error {
	a, err := rig.ParseAction(args[0])
	if err != nil {
		return err
	}
	reports, err := analysis.Analyze(a, window, resolution)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s over %.0fs\n\n", a, window)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEGMENT\tCHANNEL\tMIN\tMAX\tPERIOD")
	for _, r := range reports {
		period := "-"
		if r.Period > 0 {
			period = fmt.Sprintf("%.3fs", r.Period)
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%s\n", r.Segment, r.Channel, r.Min, r.Max, period)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ex, err := analysis.ExtremeTrace(a, 0, window, resolution)
	if err != nil {
		return err
	}
	if first, ok := ex.Exceeds(0.5); ok {
		fmt.Printf("\nextreme: first at %.2fs, %.1f%% of the time\n", ex.Time(first), 100*ex.DutyCycle(0.5))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tRIGS\tTHEME")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		ids := make([]string, len(p.Rigs))
		for i, r := range p.Rigs {
			ids[i] = r.ID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Mode, strings.Join(ids, ","), p.Theme)
	}
	return w.Flush()
}
