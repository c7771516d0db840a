// Package preset holds the ordered list of target compositions and the
// selected index the user steps through with a click.
package preset

import (
	"sync"

	"github.com/san-kum/harmonograph/internal/dynamo"
)

// IndexStore persists the selected index across restarts.
type IndexStore interface {
	LoadIndex() (int, error)
	SaveIndex(idx int) error
}

// Next returns the index after i, wrapping at n.
func Next(i, n int) int {
	return (i + 1) % n
}

// Wrap maps any stored value into [0, n).
func Wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Selector owns the selected index. Advance may be called from an input
// goroutine while the frame loop reads Target.
type Selector struct {
	mu      sync.Mutex
	presets []dynamo.Composition
	index   int
	store   IndexStore
}

// NewSelector returns a selector at index 0. A nil store disables persistence.
func NewSelector(presets []dynamo.Composition, store IndexStore) (*Selector, error) {
	if len(presets) == 0 {
		return nil, dynamo.ErrNoPresets
	}
	list := make([]dynamo.Composition, len(presets))
	copy(list, presets)
	return &Selector{presets: list, store: store}, nil
}

// Load reads the persisted index. Out-of-range values wrap rather than fail.
func (s *Selector) Load() error {
	if s.store == nil {
		return nil
	}
	idx, err := s.store.LoadIndex()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.index = Wrap(idx, len(s.presets))
	s.mu.Unlock()
	return nil
}

// Advance moves to the next preset and hands the new index to the store.
// The selection changes even when the write fails.
func (s *Selector) Advance() (int, error) {
	s.mu.Lock()
	s.index = Next(s.index, len(s.presets))
	idx := s.index
	s.mu.Unlock()

	if s.store == nil {
		return idx, nil
	}
	return idx, s.store.SaveIndex(idx)
}

func (s *Selector) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Selector) Target() dynamo.Composition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presets[s.index]
}

func (s *Selector) Len() int { return len(s.presets) }
