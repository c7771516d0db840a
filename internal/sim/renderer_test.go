package sim

import (
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/harmonograph/internal/dynamo"
	"github.com/san-kum/harmonograph/internal/indicator"
	"github.com/san-kum/harmonograph/internal/preset"
)

type recordingPresenter struct {
	buffers []*FrameBuffer
	copies  [][]RGB565
	err     error
}

func (p *recordingPresenter) Present(ctx context.Context, fb *FrameBuffer) error {
	p.buffers = append(p.buffers, fb)
	p.copies = append(p.copies, append([]RGB565(nil), fb.Pix...))
	return p.err
}

type countingObserver struct{ frames []FrameInfo }

func (o *countingObserver) OnFrame(info FrameInfo) { o.frames = append(o.frames, info) }

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

var testPresets = []dynamo.Composition{
	{Scale: 0.25, XOffset: 0.5, YOffset: 0.5},
	{Scale: 1.0, XOffset: 0.5, YOffset: 0.5},
	{Scale: 0.5, XOffset: 0.0, YOffset: 0.5},
}

func newTestRenderer(p Presenter, clock Clock, light Light) (*Renderer, *preset.Selector) {
	sel, err := preset.NewSelector(testPresets, nil)
	Expect(err).NotTo(HaveOccurred())
	gen := NewGenerator(testTable, NewParams(64, 4, 128, 235), 60, 70)
	return NewRenderer(RendererConfig{
		Generator: gen,
		Smoother:  dynamo.NewBlender(dynamo.DefaultBlendFactor, testPresets[0]),
		Presets:   sel,
		Presenter: p,
		Clock:     clock,
		Indicator: indicator.New(testTable, indicator.DefaultRate),
		Light:     light,
		Logger:    quietLog,
	}), sel
}

var _ = Describe("Renderer", func() {
	var (
		presenter *recordingPresenter
		clock     *ManualClock
		r         *Renderer
		sel       *preset.Selector
	)

	BeforeEach(func() {
		presenter = &recordingPresenter{}
		clock = &ManualClock{}
		r, sel = newTestRenderer(presenter, clock, nil)
	})

	It("alternates between the two buffers", func() {
		for i := 0; i < 4; i++ {
			r.Frame(context.Background())
			clock.Advance(16 * time.Millisecond)
		}

		Expect(presenter.buffers).To(HaveLen(4))
		Expect(presenter.buffers[0]).NotTo(BeIdenticalTo(presenter.buffers[1]))
		Expect(presenter.buffers[0]).To(BeIdenticalTo(presenter.buffers[2]))
		Expect(presenter.buffers[1]).To(BeIdenticalTo(presenter.buffers[3]))
		Expect(r.Front()).To(BeIdenticalTo(presenter.buffers[3]))
		Expect(r.Frames()).To(Equal(4))
	})

	It("presents a fully written frame", func() {
		clock.Set(2500 * time.Millisecond)
		st := r.Frame(context.Background())

		want := NewFrameBuffer(60, 70)
		r.Generator().Render(want, r.Time(2500*time.Millisecond), r.Composition())

		Expect(presenter.copies[0]).To(Equal(want.Pix))
		Expect(st.Candidates).To(Equal(16 * 128))
		Expect(r.LastStats()).To(Equal(st))
	})

	It("clears stale pixels from the reused buffer", func() {
		r.Frame(context.Background())
		clock.Advance(time.Second)
		r.Frame(context.Background())
		clock.Advance(time.Second)
		r.Frame(context.Background())

		want := NewFrameBuffer(60, 70)
		r.Generator().Render(want, r.Time(2*time.Second), r.Composition())
		Expect(presenter.copies[2]).To(Equal(want.Pix))
	})

	It("blends toward the clicked preset", func() {
		Expect(r.Click()).To(Equal(1))
		Expect(sel.Index()).To(Equal(1))

		r.Frame(context.Background())
		first := r.Composition()
		Expect(first.Scale).To(BeNumerically("~", 0.25*0.9+1.0*0.1, 1e-12))

		for i := 0; i < 80; i++ {
			r.Frame(context.Background())
		}
		Expect(r.Composition().Scale).To(BeNumerically("~", 1.0, 1e-3))
		Expect(r.Composition().Scale).To(BeNumerically("<", 1.0))
	})

	It("wraps the preset index after the last preset", func() {
		for range testPresets {
			r.Click()
		}
		Expect(r.Preset()).To(Equal(0))
	})

	It("keeps going when the presenter fails", func() {
		presenter.err = errors.New("spi timeout")
		r.Frame(context.Background())
		r.Frame(context.Background())
		Expect(r.Frames()).To(Equal(2))
		Expect(presenter.buffers[0]).NotTo(BeIdenticalTo(presenter.buffers[1]))
	})

	It("reports every frame to observers", func() {
		obs := &countingObserver{}
		r.AddObserver(obs)
		r.Click()
		r.Frame(context.Background())
		r.Frame(context.Background())

		Expect(obs.frames).To(HaveLen(2))
		Expect(obs.frames[1].N).To(Equal(1))
		Expect(obs.frames[1].Preset).To(Equal(1))
		Expect(obs.frames[1].Stats.Strands).To(Equal(16))
	})

	It("drives the light from elapsed time", func() {
		var shown []colorful.Color
		r, _ = newTestRenderer(presenter, clock, LightFunc(func(c colorful.Color) { shown = append(shown, c) }))

		r.Frame(context.Background())
		clock.Advance(1638 * time.Millisecond)
		r.Frame(context.Background())

		Expect(shown).To(HaveLen(2))
		Expect(shown[0]).NotTo(Equal(shown[1]))
		Expect(r.Light()).To(Equal(shown[1]))
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		r.AddObserver(&stopAfter{n: 3, cancel: cancel})

		err := r.Run(ctx, 0)
		Expect(err).To(MatchError(context.Canceled))
		Expect(r.Frames()).To(Equal(3))
	})

	It("paces frames with an interval", func() {
		ctx, cancel := context.WithCancel(context.Background())
		r.AddObserver(&stopAfter{n: 2, cancel: cancel})

		Expect(r.Run(ctx, time.Millisecond)).To(MatchError(context.Canceled))
		Expect(r.Frames()).To(Equal(2))
	})
})

type stopAfter struct {
	n      int
	cancel context.CancelFunc
}

func (s *stopAfter) OnFrame(info FrameInfo) {
	if info.N+1 >= s.n {
		s.cancel()
	}
}

// slowTransport checksums each buffer before and after a delay; a change
// means someone wrote to it mid-transfer.
type slowTransport struct {
	mu        sync.Mutex
	delay     time.Duration
	transfers int
	torn      int
}

func (s *slowTransport) Present(ctx context.Context, fb *FrameBuffer) error {
	before := checksum(fb)
	time.Sleep(s.delay)
	after := checksum(fb)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers++
	if before != after {
		s.torn++
	}
	return nil
}

func checksum(fb *FrameBuffer) uint32 {
	return crc32.ChecksumIEEE(fb.Encode(nil, binary.LittleEndian))
}

var _ = Describe("AsyncPresenter", func() {
	It("never lets the generator write a buffer in flight", func() {
		transport := &slowTransport{delay: 2 * time.Millisecond}
		async := NewAsyncPresenter(transport)
		clock := &ManualClock{}
		r, _ := newTestRenderer(async, clock, nil)

		for i := 0; i < 12; i++ {
			r.Frame(context.Background())
			clock.Advance(40 * time.Millisecond)
		}
		Expect(async.Close()).To(Succeed())

		transport.mu.Lock()
		defer transport.mu.Unlock()
		Expect(transport.transfers).To(Equal(12))
		Expect(transport.torn).To(BeZero())
	})

	It("surfaces transport errors on the next call", func() {
		boom := errors.New("bus error")
		async := NewAsyncPresenter(PresenterFunc(func(ctx context.Context, fb *FrameBuffer) error {
			return boom
		}))
		fb := NewFrameBuffer(2, 2)

		Expect(async.Present(context.Background(), fb)).To(Succeed())
		Expect(async.Present(context.Background(), fb)).To(MatchError(boom))
		Expect(async.Close()).To(Succeed())
	})

	It("gives up waiting when the context is canceled", func() {
		release := make(chan struct{})
		async := NewAsyncPresenter(PresenterFunc(func(ctx context.Context, fb *FrameBuffer) error {
			<-release
			return nil
		}))
		fb := NewFrameBuffer(2, 2)
		Expect(async.Present(context.Background(), fb)).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(async.Wait(ctx)).To(MatchError(context.Canceled))

		close(release)
		Expect(async.Close()).To(Succeed())
	})
})
