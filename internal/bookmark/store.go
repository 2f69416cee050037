// Package bookmark tracks bookmarked line numbers for a document. The
// store is deliberately unaware of who set a bookmark; callers that
// need ownership semantics (such as a search session distinguishing
// its own marks from the user's) track that separately.
package bookmark

import "sort"

// Store holds a set of bookmarked 1-based line numbers.
// Store is not safe for concurrent use; callers serialize access the
// same way they serialize access to the owning document.
type Store struct {
	lines map[int]struct{}
}

// NewStore creates an empty bookmark store.
func NewStore() *Store {
	return &Store{lines: make(map[int]struct{})}
}

// SetBookmark adds a bookmark, reporting whether it was newly added.
func (s *Store) SetBookmark(line int) bool {
	if _, ok := s.lines[line]; ok {
		return false
	}
	s.lines[line] = struct{}{}
	return true
}

// ClearBookmark removes a bookmark, reporting whether it was present.
func (s *Store) ClearBookmark(line int) bool {
	if _, ok := s.lines[line]; !ok {
		return false
	}
	delete(s.lines, line)
	return true
}

// Toggle flips the bookmark state for a line and returns the new state.
func (s *Store) Toggle(line int) bool {
	if s.ClearBookmark(line) {
		return false
	}
	s.lines[line] = struct{}{}
	return true
}

// IsBookmarked reports whether the line carries a bookmark.
func (s *Store) IsBookmarked(line int) bool {
	_, ok := s.lines[line]
	return ok
}

// NextAfter returns the first bookmarked line strictly after the given
// line. ok is false when none exists.
func (s *Store) NextAfter(line int) (next int, ok bool) {
	for candidate := range s.lines {
		if candidate <= line {
			continue
		}
		if !ok || candidate < next {
			next, ok = candidate, true
		}
	}
	return next, ok
}

// PreviousBefore returns the last bookmarked line strictly before the
// given line. ok is false when none exists.
func (s *Store) PreviousBefore(line int) (prev int, ok bool) {
	for candidate := range s.lines {
		if candidate >= line {
			continue
		}
		if !ok || candidate > prev {
			prev, ok = candidate, true
		}
	}
	return prev, ok
}

// Lines returns all bookmarked lines in ascending order.
func (s *Store) Lines() []int {
	lines := make([]int, 0, len(s.lines))
	for line := range s.lines {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Clear removes every bookmark.
func (s *Store) Clear() {
	s.lines = make(map[int]struct{})
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.lines)
}
