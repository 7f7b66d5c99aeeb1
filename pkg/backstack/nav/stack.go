package nav

import "slices"

// Stack holds the open overlays in open order. The top of the stack is the
// overlay a back action affects.
type Stack struct {
	entries []Entry
}

// NewStack creates a new empty overlay stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]Entry, 0),
	}
}

// Push adds an entry on top of the stack.
func (s *Stack) Push(e Entry) {
	s.entries = append(s.entries, e)
}

// Pop removes and returns the top entry.
// Returns nil if the stack is empty.
func (s *Stack) Pop() Entry {
	if len(s.entries) == 0 {
		return nil
	}
	e := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	return e
}

// Peek returns the top entry without removing it.
// Returns nil if the stack is empty.
func (s *Stack) Peek() Entry {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// IndexOf returns the position of the entry registered under id, or -1.
func (s *Stack) IndexOf(id string) int {
	for i, e := range s.entries {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

// IndexFunc returns the position of the first entry matching fn, or -1.
func (s *Stack) IndexFunc(fn func(Entry) bool) int {
	for i, e := range s.entries {
		if fn(e) {
			return i
		}
	}
	return -1
}

// Get returns the entry registered under id, or nil.
func (s *Stack) Get(id string) Entry {
	if i := s.IndexOf(id); i >= 0 {
		return s.entries[i]
	}
	return nil
}

// At returns the entry at index, bottom first.
func (s *Stack) At(index int) Entry {
	return s.entries[index]
}

// Set swaps the entry at index for e.
func (s *Stack) Set(index int, e Entry) {
	s.entries[index] = e
}

// Truncate removes every entry from index up and returns them bottom-first.
func (s *Stack) Truncate(index int) []Entry {
	if index < 0 {
		index = 0
	}
	if index >= len(s.entries) {
		return nil
	}
	removed := make([]Entry, len(s.entries)-index)
	copy(removed, s.entries[index:])
	for i := index; i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = s.entries[:index]
	return removed
}

// Remove deletes the entry registered under id wherever it sits.
// Returns false if no such entry exists.
func (s *Stack) Remove(id string) bool {
	i := s.IndexOf(id)
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return true
}

// IDs returns the ids of all entries, bottom first.
func (s *Stack) IDs() []string {
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID()
	}
	return ids
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear removes all entries from the stack.
func (s *Stack) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}
