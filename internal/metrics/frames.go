package metrics

import (
	"sort"
	"time"

	"github.com/san-kum/harmonograph/internal/sim"
)

// FrameTimer records frame durations and point counts. It keeps the most
// recent capacity durations for percentiles and graphs.
type FrameTimer struct {
	capacity   int
	durations  []time.Duration
	frames     int
	total      time.Duration
	candidates int
	written    int
}

func NewFrameTimer(capacity int) *FrameTimer {
	if capacity < 1 {
		capacity = 1
	}
	return &FrameTimer{
		capacity:  capacity,
		durations: make([]time.Duration, 0, capacity),
	}
}

func (f *FrameTimer) Name() string { return "frame_time" }

func (f *FrameTimer) OnFrame(info sim.FrameInfo) {
	if len(f.durations) == f.capacity {
		copy(f.durations, f.durations[1:])
		f.durations = f.durations[:f.capacity-1]
	}
	f.durations = append(f.durations, info.Duration)
	f.frames++
	f.total += info.Duration
	f.candidates += info.Stats.Candidates
	f.written += info.Stats.Written
}

// Value returns the mean frame time in milliseconds.
func (f *FrameTimer) Value() float64 {
	if f.frames == 0 {
		return 0
	}
	return float64(f.total) / float64(f.frames) / float64(time.Millisecond)
}

func (f *FrameTimer) Reset() {
	f.durations = f.durations[:0]
	f.frames = 0
	f.total = 0
	f.candidates = 0
	f.written = 0
}

// Series returns the retained frame times in milliseconds, oldest first.
func (f *FrameTimer) Series() []float64 {
	out := make([]float64, len(f.durations))
	for i, d := range f.durations {
		out[i] = float64(d) / float64(time.Millisecond)
	}
	return out
}

type Summary struct {
	Frames int
	Mean   time.Duration
	Min    time.Duration
	Max    time.Duration
	P95    time.Duration
	FPS    float64
	// Fill is the share of candidate points that landed on screen.
	Fill float64
}

func (f *FrameTimer) Summary() Summary {
	s := Summary{Frames: f.frames}
	if f.frames == 0 {
		return s
	}
	s.Mean = f.total / time.Duration(f.frames)
	if s.Mean > 0 {
		s.FPS = float64(time.Second) / float64(s.Mean)
	}
	if f.candidates > 0 {
		s.Fill = float64(f.written) / float64(f.candidates)
	}

	if len(f.durations) > 0 {
		sorted := make([]time.Duration, len(f.durations))
		copy(sorted, f.durations)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		s.Min = sorted[0]
		s.Max = sorted[len(sorted)-1]
		idx := (len(sorted)*95+99)/100 - 1
		s.P95 = sorted[idx]
	}
	return s
}

// Map flattens the summary for run metadata.
func (s Summary) Map() map[string]float64 {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return map[string]float64{
		"frames":  float64(s.Frames),
		"mean_ms": ms(s.Mean),
		"min_ms":  ms(s.Min),
		"max_ms":  ms(s.Max),
		"p95_ms":  ms(s.P95),
		"fps":     s.FPS,
		"fill":    s.Fill,
	}
}
