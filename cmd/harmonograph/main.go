package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/harmonograph/internal/config"
	"github.com/san-kum/harmonograph/internal/dynamo"
	"github.com/san-kum/harmonograph/internal/export"
	"github.com/san-kum/harmonograph/internal/gui"
	"github.com/san-kum/harmonograph/internal/indicator"
	"github.com/san-kum/harmonograph/internal/metrics"
	"github.com/san-kum/harmonograph/internal/preset"
	"github.com/san-kum/harmonograph/internal/sim"
	"github.com/san-kum/harmonograph/internal/storage"
	"github.com/san-kum/harmonograph/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	// Frame rate for live view
	frameRate int
	zoom      int
	cols      int
	frames    int
	// Simulated milliseconds between rendered frames
	interval  int
	at        int
	dotRadius float64
	output    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "harmonograph",
		Short: "real-time parametric attractor renderer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(logLevel))
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".harmonograph", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	rootCmd.Flags().IntVar(&cols, "cols", 60, "terminal columns for the canvas")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "render in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().IntVar(&cols, "cols", 60, "terminal columns for the canvas")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "render in a desktop window",
		RunE:  runWindow,
	}
	windowCmd.Flags().IntVar(&zoom, "zoom", 2, "window scale")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames to png",
		RunE:  renderFrames,
	}
	renderCmd.Flags().IntVar(&frames, "frames", 30, "number of frames")
	renderCmd.Flags().IntVar(&interval, "interval", 33, "simulated ms between frames")

	rendersCmd := &cobra.Command{
		Use:   "renders",
		Short: "list render runs",
		RunE:  listRenders,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "export strands as svg",
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&at, "at", 0, "elapsed ms")
	svgCmd.Flags().Float64Var(&dotRadius, "radius", 0.6, "dot radius")
	svgCmd.Flags().StringVarP(&output, "output", "o", "harmonograph.svg", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "select the next preset",
		RunE:  nextPreset,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frame generation",
		RunE:  benchFrames,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 200, "number of frames")

	rootCmd.AddCommand(liveCmd, windowCmd, renderCmd, rendersCmd, exportCmd, svgCmd, presetsCmd, nextCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("fps"); f != nil && f.Changed {
		cfg.FPS = frameRate
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type app struct {
	cfg      *config.Config
	store    *storage.Store
	selector *preset.Selector
	renderer *sim.Renderer
}

// newApp wires the renderer. The blender starts at the persisted preset so
// there is no transition on startup.
func newApp(cfg *config.Config, presenter sim.Presenter, clock sim.Clock) (*app, error) {
	st := storage.New(dataDir)
	table, err := dynamo.NewSineTable(cfg.TableSize)
	if err != nil {
		return nil, err
	}
	sel, err := preset.NewSelector(cfg.Compositions(), st)
	if err != nil {
		return nil, err
	}
	if err := sel.Load(); err != nil {
		slog.Warn("load preset index failed", "err", err)
	}

	params := sim.NewParams(cfg.Curve.Count, cfg.Curve.Step, cfg.Curve.Iterations, cfg.Curve.Ang1Divisor)
	r := sim.NewRenderer(sim.RendererConfig{
		Generator:  sim.NewGenerator(table, params, cfg.Display.Width, cfg.Display.Height),
		Smoother:   cfg.Smoother(sel.Target()),
		Presets:    sel,
		Presenter:  presenter,
		Clock:      clock,
		Indicator:  indicator.New(table, cfg.Indicator.Rate),
		Speed:      cfg.Curve.Speed,
		Background: sim.RGB565(cfg.Display.Background),
		Logger:     slog.Default(),
	})
	slog.Debug("renderer ready", "width", cfg.Display.Width, "height", cfg.Display.Height,
		"strands", params.Strands(), "preset", sel.Index())

	return &app{cfg: cfg, store: st, selector: sel, renderer: r}, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	canvas := viz.NewCanvasFor(cfg.Display.Width, cfg.Display.Height, cols)
	a, err := newApp(cfg, canvas, nil)
	if err != nil {
		return err
	}

	timer := metrics.NewFrameTimer(120)
	a.renderer.AddObserver(timer)
	m := viz.NewModel(a.renderer, canvas, timer, a.cfg.ListPresets(), a.cfg.Compositions(), a.cfg.FPS)
	return viz.RunLive(m)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, nil, nil)
	if err != nil {
		return err
	}
	return gui.Run(a.renderer, zoom)
}

func renderFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.CreateRun("render")
	if err != nil {
		return err
	}

	var files []string
	writer := sim.PresenterFunc(func(ctx context.Context, fb *sim.FrameBuffer) error {
		path := st.FramePath(runID, len(files))
		if err := export.SavePNG(path, fb); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	})
	async := sim.NewAsyncPresenter(writer)

	clock := &sim.ManualClock{}
	a, err := newApp(cfg, async, clock)
	if err != nil {
		async.Close()
		return err
	}
	timer := metrics.NewFrameTimer(frames)
	a.renderer.AddObserver(timer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("rendering %d frames...\n", frames)
	start := time.Now()
	for i := 0; i < frames && ctx.Err() == nil; i++ {
		a.renderer.Frame(ctx)
		clock.Advance(time.Duration(interval) * time.Millisecond)
	}
	if err := async.Close(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	sum := timer.Summary()
	meta := &storage.RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Width:       a.cfg.Display.Width,
		Height:      a.cfg.Display.Height,
		Frames:      a.renderer.Frames(),
		Preset:      a.renderer.Preset(),
		Composition: a.renderer.Composition(),
		Files:       files,
		Metrics:     sum.Map(),
	}
	if err := st.SaveMetadata(meta); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("files: %d\n", len(files))
	fmt.Printf("fill: %.1f%%\n", sum.Fill*100)
	return nil
}

func listRenders(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tFRAMES\tPRESET\tFPS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%.1f\n",
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Width, r.Height,
			r.Frames,
			r.Preset,
			r.Metrics["fps"],
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).Export(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, nil, nil)
	if err != nil {
		return err
	}
	t := a.renderer.Time(time.Duration(at) * time.Millisecond)
	svg := export.StrandsToSVG(a.renderer.Generator(), t, a.selector.Target(), dotRadius)
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, nil, nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tINDEX\tNAME\tSCALE\tX\tY")
	for i, p := range a.cfg.Presets {
		mark := ""
		if i == a.selector.Index() {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.3f\t%.3f\t%.3f\n", mark, i, p.Name, p.Scale, p.XOffset, p.YOffset)
	}
	return w.Flush()
}

func nextPreset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, nil, nil)
	if err != nil {
		return err
	}
	idx, err := a.selector.Advance()
	if err != nil {
		return fmt.Errorf("failed to save preset index: %w", err)
	}
	fmt.Printf("preset %d: %s\n", idx, a.cfg.Presets[idx].Name)
	return nil
}

func benchFrames(cmd *cobra.Command, args []string) error {
	clock := &sim.ManualClock{}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, nil, clock)
	if err != nil {
		return err
	}
	timer := metrics.NewFrameTimer(frames)
	a.renderer.AddObserver(timer)

	fmt.Printf("benchmarking %d frames (%d strands x %d steps)...\n",
		frames, a.renderer.Generator().Params().Strands(), a.cfg.Curve.Iterations)

	ctx := context.Background()
	for i := 0; i < frames; i++ {
		a.renderer.Frame(ctx)
		clock.Advance(time.Second / time.Duration(a.cfg.FPS))
	}

	sum := timer.Summary()
	fmt.Printf("\nmean: %v\n", sum.Mean)
	fmt.Printf("min:  %v\n", sum.Min)
	fmt.Printf("max:  %v\n", sum.Max)
	fmt.Printf("p95:  %v\n", sum.P95)
	fmt.Printf("fps:  %.1f\n", sum.FPS)
	fmt.Printf("fill: %.1f%%\n\n", sum.Fill*100)

	if series := timer.Series(); len(series) > 1 {
		graph := asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("frame time (ms)"))
		fmt.Println(graph)
	}
	return nil
}
