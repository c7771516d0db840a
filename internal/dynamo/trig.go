package dynamo

import "math"

// DefaultTableSize gives 2^16 samples per period.
const DefaultTableSize = 1 << 16

// SineTable holds sin(2πi/N) for i in [0, N). N is a power of two so angle
// wraparound is a bitmask instead of a modulo.
type SineTable struct {
	sin   []float64
	mask  int
	scale float64
}

// NewSineTable builds a table of n samples, evaluating only the first quadrant
// and mirroring the other three.
func NewSineTable(n int) (*SineTable, error) {
	if n < 4 || n&(n-1) != 0 {
		return nil, ErrTableSize
	}
	return buildSineTable(n, math.Sin), nil
}

// MustSineTable is NewSineTable for sizes known to be valid.
func MustSineTable(n int) *SineTable {
	t, err := NewSineTable(n)
	if err != nil {
		panic(err)
	}
	return t
}

func buildSineTable(n int, sin func(float64) float64) *SineTable {
	t := &SineTable{
		sin:   make([]float64, n),
		mask:  n - 1,
		scale: float64(n) / (2 * math.Pi),
	}

	half, quarter := n/2, n/4
	// sin(0) and sin(π) are exactly zero
	for i := 1; i <= quarter; i++ {
		v := sin(float64(i) * 2 * math.Pi / float64(n))
		t.sin[i] = v
		t.sin[half-i] = v  // sin(π-x)
		t.sin[half+i] = -v // sin(π+x)
		t.sin[n-i] = -v    // sin(2π-x)
	}

	return t
}

// Len returns the number of samples per period.
func (t *SineTable) Len() int { return len(t.sin) }

// Scale converts radians to table index units.
func (t *SineTable) Scale() float64 { return t.scale }

// Mask returns Len()-1.
func (t *SineTable) Mask() int { return t.mask }

// Index converts an angle in radians to a masked table index. The angle is
// truncated toward zero before masking.
func (t *SineTable) Index(angle float64) int {
	return int(angle*t.scale) & t.mask
}

// Sin looks up an angle already expressed in table units.
func (t *SineTable) Sin(k int) float64 {
	return t.sin[k&t.mask]
}

// Cos looks up a quarter period ahead of k.
func (t *SineTable) Cos(k int) float64 {
	return t.sin[(k+len(t.sin)/4)&t.mask]
}

// SinCos returns both lookups for the same index.
func (t *SineTable) SinCos(k int) (sin, cos float64) {
	return t.Sin(k), t.Cos(k)
}

// At returns the raw sample at index i in [0, Len()).
func (t *SineTable) At(i int) float64 {
	return t.sin[i]
}
