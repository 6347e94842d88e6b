package history

import "sync"

// NoneExpanded is the Expanded() value when no row is open.
const NoneExpanded = -1

// ExpandState tracks which history row has its detail panel open.
// At most one row is expanded at a time. Safe for concurrent use:
// handlers run on separate goroutines even though each user interaction
// is logically serial.
type ExpandState struct {
	mu    sync.Mutex
	index int
}

// NewExpandState returns a state with no row expanded.
func NewExpandState() *ExpandState {
	return &ExpandState{index: NoneExpanded}
}

// Toggle flips row index's panel and returns the new expanded index.
// Toggling the already-expanded row collapses it; expanding a row
// collapses any other.
func (s *ExpandState) Toggle(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == index {
		s.index = NoneExpanded
	} else {
		s.index = index
	}
	return s.index
}

// Expanded returns the currently expanded row index, or NoneExpanded.
func (s *ExpandState) Expanded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Reset collapses any expanded row. Row expansion survives history
// reloads; Reset exists for callers that want an explicit collapse.
func (s *ExpandState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = NoneExpanded
}
