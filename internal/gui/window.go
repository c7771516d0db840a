// Package gui shows the renderer in a desktop window.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/harmonograph/internal/export"
	"github.com/san-kum/harmonograph/internal/sim"
)

const (
	statusHeight = 20
	lightRadius  = 6
)

var statusBg = color.RGBA{R: 20, G: 20, B: 28, A: 255}

// Window renders one frame per tick and blits the front buffer.
type Window struct {
	renderer *sim.Renderer
	width    int
	height   int
	frame    *ebiten.Image
	pix      []byte
	paused   bool
}

func NewWindow(r *sim.Renderer) *Window {
	w, h := r.Generator().Size()
	return &Window{
		renderer: r,
		width:    w,
		height:   h,
		frame:    ebiten.NewImage(w, h),
		pix:      make([]byte, 4*w*h),
	}
}

func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		w.renderer.Click()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		w.paused = !w.paused
	}
	if !w.paused {
		w.renderer.Frame(context.Background())
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	export.FillRGBA(w.pix, w.renderer.Front())
	w.frame.WritePixels(w.pix)
	screen.DrawImage(w.frame, nil)

	y := float32(w.height)
	vector.DrawFilledRect(screen, 0, y, float32(w.width), statusHeight, statusBg, false)
	light := w.renderer.Light().Clamped()
	vector.DrawFilledCircle(screen, float32(w.width-lightRadius-4), y+statusHeight/2, lightRadius, light, false)

	status := fmt.Sprintf("preset %d  %.0f fps", w.renderer.Preset(), ebiten.ActualFPS())
	if w.paused {
		status += "  paused"
	}
	ebitenutil.DebugPrintAt(screen, status, 4, w.height+2)
}

func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height + statusHeight
}

// Run opens a window scaled by zoom and blocks until it is closed.
func Run(r *sim.Renderer, zoom int) error {
	if zoom < 1 {
		zoom = 1
	}
	win := NewWindow(r)
	ebiten.SetWindowSize(win.width*zoom, (win.height+statusHeight)*zoom)
	ebiten.SetWindowTitle("harmonograph - Space/Click: next preset, P: pause, Esc/Q: quit")
	if err := ebiten.RunGame(win); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
