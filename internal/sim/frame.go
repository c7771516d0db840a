package sim

import (
	"encoding/binary"
	"sync/atomic"
)

// FrameBuffer is a width×height grid of packed pixels, row-major.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []RGB565
}

func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]RGB565, width*height),
	}
}

func (f *FrameBuffer) Clear(c RGB565) {
	if c == 0 {
		clear(f.Pix)
		return
	}
	for i := range f.Pix {
		f.Pix[i] = c
	}
}

// Set writes c at (x, y) and reports whether the point was inside the buffer.
func (f *FrameBuffer) Set(x, y int, c RGB565) bool {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return false
	}
	f.Pix[y*f.Width+x] = c
	return true
}

func (f *FrameBuffer) At(x, y int) RGB565 {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0
	}
	return f.Pix[y*f.Width+x]
}

// Encode appends the pixels to dst as 2-byte words in the transport's order.
func (f *FrameBuffer) Encode(dst []byte, order binary.ByteOrder) []byte {
	n := len(dst)
	if cap(dst)-n < 2*len(f.Pix) {
		grown := make([]byte, n, n+2*len(f.Pix))
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+2*len(f.Pix)]
	for i, p := range f.Pix {
		order.PutUint16(dst[n+2*i:], uint16(p))
	}
	return dst
}

// FramePair is a two-slot arena. One slot is the back buffer owned by the
// generator, the other the front buffer last handed to the presenter. Swap
// flips the roles once per frame.
type FramePair struct {
	slots [2]*FrameBuffer
	back  atomic.Uint32
	gen   atomic.Uint64
}

func NewFramePair(width, height int) *FramePair {
	return &FramePair{
		slots: [2]*FrameBuffer{
			NewFrameBuffer(width, height),
			NewFrameBuffer(width, height),
		},
	}
}

// Back returns the buffer to write this frame.
func (p *FramePair) Back() *FrameBuffer { return p.slots[p.back.Load()] }

// Front returns the buffer presented last.
func (p *FramePair) Front() *FrameBuffer { return p.slots[p.back.Load()^1] }

func (p *FramePair) Swap() {
	p.back.Store(p.back.Load() ^ 1)
	p.gen.Add(1)
}

// Generation counts swaps since construction.
func (p *FramePair) Generation() uint64 { return p.gen.Load() }
