package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/harmonograph/internal/dynamo"
	"github.com/san-kum/harmonograph/internal/indicator"
	"github.com/san-kum/harmonograph/internal/preset"
)

// DefaultSpeed converts clock milliseconds into recurrence time.
const DefaultSpeed = 0.0001

type RendererConfig struct {
	Generator  *Generator
	Smoother   dynamo.Smoother
	Presets    *preset.Selector
	Presenter  Presenter
	Clock      Clock
	Indicator  *indicator.Driver
	Light      Light
	Speed      float64
	Background RGB565
	Logger     *slog.Logger
}

// Renderer runs the frame loop: blend the composition, update the light,
// draw into the back buffer, present it and swap.
//
// Frame and Run must be called from one goroutine. Click may be called from
// any goroutine.
type Renderer struct {
	gen        *Generator
	frames     *FramePair
	smoother   dynamo.Smoother
	presets    *preset.Selector
	presenter  Presenter
	clock      Clock
	indicator  *indicator.Driver
	light      Light
	speed      float64
	background RGB565
	log        *slog.Logger
	observers  []FrameObserver

	n          int
	comp       dynamo.Composition
	lightColor colorful.Color
	last       Stats
}

func NewRenderer(rc RendererConfig) *Renderer {
	w, h := rc.Generator.Size()
	if rc.Clock == nil {
		rc.Clock = NewWallClock()
	}
	if rc.Logger == nil {
		rc.Logger = slog.Default()
	}
	if rc.Speed == 0 {
		rc.Speed = DefaultSpeed
	}
	return &Renderer{
		gen:        rc.Generator,
		frames:     NewFramePair(w, h),
		smoother:   rc.Smoother,
		presets:    rc.Presets,
		presenter:  rc.Presenter,
		clock:      rc.Clock,
		indicator:  rc.Indicator,
		light:      rc.Light,
		speed:      rc.Speed,
		background: rc.Background,
		log:        rc.Logger,
		comp:       rc.Smoother.Current(),
	}
}

func (r *Renderer) AddObserver(o FrameObserver) { r.observers = append(r.observers, o) }

// Time converts elapsed clock time to the recurrence's time value.
func (r *Renderer) Time(elapsed time.Duration) float64 {
	return float64(elapsed) / float64(time.Millisecond) * r.speed
}

// Frame renders and presents one frame. A presenter failure is logged and
// the frame is still swapped out.
func (r *Renderer) Frame(ctx context.Context) Stats {
	start := time.Now()

	r.comp = r.smoother.Step(r.presets.Target())

	elapsed := r.clock.Now()
	if r.indicator != nil {
		r.lightColor = r.indicator.Color(elapsed)
		if r.light != nil {
			r.light.Show(r.lightColor)
		}
	}

	back := r.frames.Back()
	back.Clear(r.background)
	st := r.gen.Render(back, r.Time(elapsed), r.comp)

	if r.presenter != nil {
		if err := r.presenter.Present(ctx, back); err != nil {
			r.log.Warn("present failed", "frame", r.n, "err", err)
		}
	}
	r.frames.Swap()

	info := FrameInfo{
		N:           r.n,
		Elapsed:     elapsed,
		Duration:    time.Since(start),
		Composition: r.comp,
		Preset:      r.presets.Index(),
		Stats:       st,
	}
	for _, o := range r.observers {
		o.OnFrame(info)
	}

	r.n++
	r.last = st
	return st
}

// Run renders frames until ctx is canceled. A zero interval renders back to
// back; otherwise frames are paced by a ticker and late frames are skipped.
func (r *Renderer) Run(ctx context.Context, interval time.Duration) error {
	r.log.Debug("render loop started", "interval", interval)
	defer r.log.Debug("render loop stopped", "frames", r.n)

	if interval <= 0 {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			r.Frame(ctx)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			r.Frame(ctx)
		}
	}
}

// Click advances to the next preset. The blend toward it starts next frame.
func (r *Renderer) Click() int {
	idx, err := r.presets.Advance()
	if err != nil {
		r.log.Warn("persist preset index failed", "index", idx, "err", err)
	}
	r.log.Info("preset selected", "index", idx)
	return idx
}

func (r *Renderer) Composition() dynamo.Composition { return r.comp }

func (r *Renderer) Light() colorful.Color { return r.lightColor }

func (r *Renderer) LastStats() Stats { return r.last }

func (r *Renderer) Frames() int { return r.n }

func (r *Renderer) Preset() int { return r.presets.Index() }

func (r *Renderer) Front() *FrameBuffer { return r.frames.Front() }

func (r *Renderer) Generator() *Generator { return r.gen }
