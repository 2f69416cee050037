package bookmark

import (
	"reflect"
	"testing"
)

func TestStoreSetClearToggle(t *testing.T) {
	s := NewStore()

	if !s.SetBookmark(5) {
		t.Error("SetBookmark(5) = false, want true for new bookmark")
	}
	if s.SetBookmark(5) {
		t.Error("SetBookmark(5) = true, want false for existing bookmark")
	}
	if !s.IsBookmarked(5) {
		t.Error("IsBookmarked(5) = false")
	}

	if !s.ClearBookmark(5) {
		t.Error("ClearBookmark(5) = false, want true")
	}
	if s.ClearBookmark(5) {
		t.Error("ClearBookmark(5) = true after removal")
	}

	if !s.Toggle(7) {
		t.Error("Toggle(7) = false, want true (now set)")
	}
	if s.Toggle(7) {
		t.Error("Toggle(7) = true, want false (now cleared)")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStoreNavigation(t *testing.T) {
	s := NewStore()
	for _, line := range []int{10, 3, 7} {
		s.SetBookmark(line)
	}

	if next, ok := s.NextAfter(3); !ok || next != 7 {
		t.Errorf("NextAfter(3) = %d, %v, want 7, true", next, ok)
	}
	if _, ok := s.NextAfter(10); ok {
		t.Error("NextAfter(10) = ok, want none")
	}
	if prev, ok := s.PreviousBefore(10); !ok || prev != 7 {
		t.Errorf("PreviousBefore(10) = %d, %v, want 7, true", prev, ok)
	}
	if _, ok := s.PreviousBefore(3); ok {
		t.Error("PreviousBefore(3) = ok, want none")
	}

	if got := s.Lines(); !reflect.DeepEqual(got, []int{3, 7, 10}) {
		t.Errorf("Lines() = %v, want [3 7 10]", got)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
}
