package sim

import (
	"context"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/harmonograph/internal/dynamo"
)

// RGB565 is a packed 16-bit color: 5 bits red, 6 green, 5 blue.
type RGB565 uint16

// PackRGB565 keeps the top 5/6/5 bits of 8-bit channels.
func PackRGB565(r, g, b int) RGB565 {
	return RGB565((r&0xF8)<<8 | (g&0xFC)<<3 | b>>3)
}

// RGB8 expands back to 8-bit channels, replicating high bits into the low ones.
func (c RGB565) RGB8() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB8()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xFFFF
}

// Point is one candidate sample of a strand.
type Point struct {
	Strand int
	Step   int
	X, Y   float64
	PX, PY int
	Color  RGB565
}

// Stats counts the work of one frame.
type Stats struct {
	Strands    int
	Candidates int
	Written    int
	Dropped    int
}

// Presenter hands a completed frame to the display transport. The buffer
// must not be written again until the next Present call returns.
type Presenter interface {
	Present(ctx context.Context, fb *FrameBuffer) error
}

type PresenterFunc func(ctx context.Context, fb *FrameBuffer) error

func (f PresenterFunc) Present(ctx context.Context, fb *FrameBuffer) error { return f(ctx, fb) }

// Clock reports monotonic elapsed time.
type Clock interface {
	Now() time.Duration
}

// Light receives the status-light color once per frame.
type Light interface {
	Show(c colorful.Color)
}

type LightFunc func(c colorful.Color)

func (f LightFunc) Show(c colorful.Color) { f(c) }

// FrameInfo describes one completed frame for observers.
type FrameInfo struct {
	N           int
	Elapsed     time.Duration
	Duration    time.Duration
	Composition dynamo.Composition
	Preset      int
	Stats       Stats
}

type FrameObserver interface {
	OnFrame(info FrameInfo)
}
