package wizard

import "github.com/GriffinCanCode/chatform/internal/shared/types"

// Selection is an ordered set of entities unique by ID.
type Selection[T any] struct {
	key   func(T) int
	order []T
	index map[int]int
}

// NewSelection creates an empty selection keyed by key.
func NewSelection[T any](key func(T) int) *Selection[T] {
	return &Selection[T]{
		key:   key,
		index: make(map[int]int),
	}
}

// NewItemSelection creates an empty item selection
func NewItemSelection() *Selection[types.Item] {
	return NewSelection(func(i types.Item) int { return i.ID })
}

// NewLocationSelection creates an empty location selection
func NewLocationSelection() *Selection[types.Location] {
	return NewSelection(func(l types.Location) int { return l.ID })
}

// Toggle removes e when an entity with the same ID is present, otherwise
// appends it. It reports whether e is selected afterwards.
func (s *Selection[T]) Toggle(e T) bool {
	k := s.key(e)
	if pos, ok := s.index[k]; ok {
		s.order = append(s.order[:pos], s.order[pos+1:]...)
		delete(s.index, k)
		for i := pos; i < len(s.order); i++ {
			s.index[s.key(s.order[i])] = i
		}
		return false
	}

	s.index[k] = len(s.order)
	s.order = append(s.order, e)
	return true
}

// Contains reports whether an entity with id is selected
func (s *Selection[T]) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns the selected entity with id
func (s *Selection[T]) Get(id int) (T, bool) {
	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.order[pos], true
}

// Len returns the number of selected entities
func (s *Selection[T]) Len() int {
	return len(s.order)
}

// Values returns a copy of the selection in insertion order
func (s *Selection[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

// Clear empties the selection
func (s *Selection[T]) Clear() {
	s.order = nil
	clear(s.index)
}

// Reconcile splits a fetched candidate list against the selection.
// selected keeps insertion order; unselected keeps candidate order and
// never contains a selected ID.
func Reconcile[T any](s *Selection[T], candidates []T) (selected, unselected []T) {
	selected = s.Values()
	unselected = make([]T, 0, len(candidates))
	for _, c := range candidates {
		if !s.Contains(s.key(c)) {
			unselected = append(unselected, c)
		}
	}
	return selected, unselected
}
