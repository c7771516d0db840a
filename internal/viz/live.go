package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/harmonograph/internal/dynamo"
	"github.com/san-kum/harmonograph/internal/metrics"
	"github.com/san-kum/harmonograph/internal/sim"
)

type TickMsg time.Time

// Model renders one frame per tick and shows the latest one with a HUD.
type Model struct {
	renderer *sim.Renderer
	canvas   *Canvas
	timer    *metrics.FrameTimer
	presets  []string
	targets  []dynamo.Composition
	interval time.Duration
	running  bool
	theme    int
}

// NewModel wires a renderer whose presenter is canvas. presets and targets
// name and describe the selectable compositions in order.
func NewModel(r *sim.Renderer, canvas *Canvas, timer *metrics.FrameTimer, presets []string, targets []dynamo.Composition, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		renderer: r,
		canvas:   canvas,
		timer:    timer,
		presets:  presets,
		targets:  targets,
		interval: time.Second / time.Duration(fps),
		running:  true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and renders frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			m.renderer.Click()
		case "p":
			m.running = !m.running
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case TickMsg:
		if m.running {
			m.renderer.Frame(context.Background())
		}
		return m, m.tick()
	}
	return m, nil
}

// View renders the canvas and the HUD side by side.
func (m Model) View() string {
	st := Themes[m.theme].styles()

	var s strings.Builder
	s.WriteString(st.header.Render("HARMONOGRAPH") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	idx := m.renderer.Preset()
	name := fmt.Sprintf("#%d", idx)
	if idx < len(m.presets) {
		name = fmt.Sprintf("%s (%d/%d)", m.presets[idx], idx+1, len(m.presets))
	}
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}

	comp := m.renderer.Composition()
	row("Preset", name)
	row("Scale", fmt.Sprintf("%.3f", comp.Scale))
	row("Offset", fmt.Sprintf("%.3f, %.3f", comp.XOffset, comp.YOffset))
	if idx < len(m.targets) {
		row("Transition", transitionBar(comp, m.targets[idx], 16))
	}

	light := m.renderer.Light()
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(light.Clamped().Hex())).Render("    ")
	row("Light", swatch+" "+light.Clamped().Hex())

	stats := m.renderer.LastStats()
	row("Points", fmt.Sprintf("%d/%d", stats.Written, stats.Candidates))
	row("Frame", fmt.Sprintf("%d", m.renderer.Frames()))

	if m.timer != nil {
		sum := m.timer.Summary()
		row("FPS", fmt.Sprintf("%.1f", sum.FPS))
		if series := m.timer.Series(); len(series) > 1 {
			chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("frame ms"))
			s.WriteString(st.graph.Render(chart) + "\n")
		}
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Next P:Pause T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), st.panel.Render(s.String()))
}

// transitionBar shows how far the composition has come toward the target.
// The exponential blend never quite arrives, so anything within 1e-3 is full.
func transitionBar(cur, target dynamo.Composition, width int) string {
	dist := math.Abs(cur.Scale-target.Scale) + math.Abs(cur.XOffset-target.XOffset) + math.Abs(cur.YOffset-target.YOffset)
	ratio := 1.0
	if dist > 1e-3 {
		ratio = math.Max(0, 1-dist/3)
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

// RunLive takes over the terminal until the user quits.
func RunLive(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
