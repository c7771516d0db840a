package viz

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/harmonograph/internal/dynamo"
	"github.com/san-kum/harmonograph/internal/indicator"
	"github.com/san-kum/harmonograph/internal/metrics"
	"github.com/san-kum/harmonograph/internal/preset"
	"github.com/san-kum/harmonograph/internal/sim"
)

func TestCanvasKeepsBrightestPixel(t *testing.T) {
	fb := sim.NewFrameBuffer(8, 8)
	fb.Set(1, 1, sim.PackRGB565(40, 40, 40))
	fb.Set(2, 3, sim.PackRGB565(200, 200, 200))

	c := NewCanvas(2, 1)
	c.Draw(fb)

	if got := c.At(0, 0); got != sim.PackRGB565(200, 200, 200) {
		t.Errorf("expected brightest pixel, got %#04x", got)
	}
	if got := c.At(1, 1); got != 0 {
		t.Errorf("expected empty block, got %#04x", got)
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	out := c.String()
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected 2 rows, got %q", out)
	}
	if strings.Contains(out, upperHalf) {
		t.Error("blank canvas should not draw blocks")
	}

	fb := sim.NewFrameBuffer(3, 4)
	fb.Clear(0xFFFF)
	c.Draw(fb)
	if n := strings.Count(c.String(), upperHalf); n != 6 {
		t.Errorf("expected 6 blocks, got %d", n)
	}

	c.Clear()
	if strings.Contains(c.String(), upperHalf) {
		t.Error("clear left blocks behind")
	}
}

func TestNewCanvasFor(t *testing.T) {
	c := NewCanvasFor(240, 280, 60)
	if c.Cols != 60 || c.Rows != 35 {
		t.Errorf("expected 60x35, got %dx%d", c.Cols, c.Rows)
	}
}

func newTestModel(t *testing.T) (Model, *preset.Selector) {
	table := dynamo.MustSineTable(4096)
	targets := []dynamo.Composition{{Scale: 0.25, XOffset: 0.5, YOffset: 0.5}, {Scale: 1, XOffset: 0.5, YOffset: 0.5}}
	sel, err := preset.NewSelector(targets, nil)
	if err != nil {
		t.Fatal(err)
	}
	gen := sim.NewGenerator(table, sim.NewParams(32, 4, 64, 235), 48, 56)
	canvas := NewCanvasFor(48, 56, 24)
	timer := metrics.NewFrameTimer(60)
	r := sim.NewRenderer(sim.RendererConfig{
		Generator: gen,
		Smoother:  dynamo.NewBlender(dynamo.DefaultBlendFactor, targets[0]),
		Presets:   sel,
		Presenter: canvas,
		Clock:     &sim.ManualClock{},
		Indicator: indicator.New(table, indicator.DefaultRate),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	r.AddObserver(timer)
	return NewModel(r, canvas, timer, []string{"small", "full"}, targets, 30), sel
}

func TestModelTickRendersFrame(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	mm := next.(Model)
	if mm.renderer.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", mm.renderer.Frames())
	}

	view := mm.View()
	if !strings.Contains(view, "HARMONOGRAPH") || !strings.Contains(view, "small (1/2)") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestModelKeys(t *testing.T) {
	m, sel := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if sel.Index() != 1 {
		t.Errorf("space should advance preset, got %d", sel.Index())
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	paused := next.(Model)
	if paused.running {
		t.Error("p should pause")
	}
	next, _ = paused.Update(TickMsg{})
	if next.(Model).renderer.Frames() != 0 {
		t.Error("paused model should not render")
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if next.(Model).theme != 1 {
		t.Error("t should cycle theme")
	}

	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit message")
	}
}

func TestTransitionBar(t *testing.T) {
	c := dynamo.Composition{Scale: 1, XOffset: 0.5, YOffset: 0.5}
	if got := transitionBar(c, c, 4); got != "[====]" {
		t.Errorf("expected full bar, got %s", got)
	}
	far := dynamo.Composition{Scale: 1, XOffset: 3.5, YOffset: 0.5}
	if got := transitionBar(far, c, 4); got != "[----]" {
		t.Errorf("expected empty bar, got %s", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("missing").Name != ThemeNight.Name {
		t.Error("expected fallback theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
