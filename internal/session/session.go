// Package session binds a cached search report, an active-match
// cursor, and bookmark bookkeeping to one open document. The heavy
// lifting stays in the pure search package; the session only manages
// the mutable state around it.
package session

import (
	"errors"
	"fmt"

	"github.com/dshills/findkit/internal/search"
)

var (
	// ErrNoMatches indicates the current results contain no matches.
	ErrNoMatches = errors.New("no matches")
	// ErrNoMoreMatches indicates navigation hit the end with wrap off.
	ErrNoMoreMatches = errors.New("no more matches")
	// ErrNoActiveMatch indicates an operation that needs an active
	// match was called without one.
	ErrNoActiveMatch = errors.New("no active match")
	// ErrStaleResults indicates the cached results no longer reflect
	// the document; Refresh must run before navigation continues.
	ErrStaleResults = errors.New("search results are stale; refresh required")
)

// Document is the slice of document behavior a session needs. The
// session operates purely on decoded text; encoding and persistence
// stay with the document implementation.
type Document interface {
	Contents() string
	ApplyEdit(start, end int, replacement string) error
}

// BookmarkStore is the bookmark collaborator injected into marking
// operations.
type BookmarkStore interface {
	SetBookmark(line int) bool
	ClearBookmark(line int) bool
	IsBookmarked(line int) bool
}

// Session is a stateful search over one document. It is owned by
// exactly one document and is not safe for concurrent use.
type Session struct {
	doc         Document
	opts        search.Options
	replacement string

	matches []search.Match
	active  int // index into matches, -1 when none
	fresh   bool

	// Lines this session bookmarked itself. ClearMarks removes only
	// these, never bookmarks the user set independently.
	sessionMarks map[int]struct{}
}

// New creates a session for the document. Options are validated up
// front; the first results arrive on Refresh.
func New(doc Document, opts search.Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		doc:          doc,
		opts:         opts,
		active:       -1,
		sessionMarks: make(map[int]struct{}),
	}, nil
}

// Options returns the session's current search options.
func (s *Session) Options() search.Options { return s.opts }

// SetOptions replaces the search options and invalidates cached
// results.
func (s *Session) SetOptions(opts search.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.opts = opts
	s.invalidate()
	return nil
}

// SetSelectionScope restricts the search to a byte range of the
// document. Cached results are invalidated.
func (s *Session) SetSelectionScope(start, end int) {
	s.opts.Scope = search.Selection(start, end)
	s.invalidate()
}

// SetReplacement stores the replacement text used by ReplaceCurrent
// and ReplaceAll.
func (s *Session) SetReplacement(text string) { s.replacement = text }

// Refresh recomputes matches against the document's current text. The
// active cursor is preserved when a match still exists at the same
// offsets, otherwise it resets to none.
func (s *Session) Refresh() error {
	prev, hadActive := s.Current()

	matches, err := search.FindAll(s.doc.Contents(), s.opts)
	if err != nil {
		return err
	}
	s.matches = matches
	s.fresh = true
	s.active = -1

	if hadActive {
		for i, m := range matches {
			if m.Start == prev.Start && m.End == prev.End && m.Text == prev.Text {
				s.active = i
				break
			}
		}
	}
	return nil
}

// Matches returns the cached flattened match sequence.
func (s *Session) Matches() []search.Match { return s.matches }

// Current returns the active match, if any.
func (s *Session) Current() (search.Match, bool) {
	if !s.fresh || s.active < 0 || s.active >= len(s.matches) {
		return search.Match{}, false
	}
	return s.matches[s.active], true
}

// FindNext advances the cursor to the next match by ascending start
// offset, wrapping to the first when wrap is enabled.
func (s *Session) FindNext() (search.Match, error) {
	return s.step(1)
}

// FindPrevious retreats the cursor, wrapping to the last match when
// wrap is enabled.
func (s *Session) FindPrevious() (search.Match, error) {
	return s.step(-1)
}

func (s *Session) step(delta int) (search.Match, error) {
	if !s.fresh {
		return search.Match{}, ErrStaleResults
	}
	if len(s.matches) == 0 {
		return search.Match{}, ErrNoMatches
	}

	if s.active < 0 {
		if delta > 0 {
			s.active = 0
		} else {
			s.active = len(s.matches) - 1
		}
		return s.matches[s.active], nil
	}

	next := s.active + delta
	if next < 0 || next >= len(s.matches) {
		if !s.opts.Wrap {
			return search.Match{}, ErrNoMoreMatches
		}
		if delta > 0 {
			next = 0
		} else {
			next = len(s.matches) - 1
		}
	}
	s.active = next
	return s.matches[s.active], nil
}

// ReplaceCurrent replaces the active match's span with the stored
// replacement (expanding captures in regex mode), refreshes, and
// positions the cursor at the first match at or after the edit.
func (s *Session) ReplaceCurrent() (search.Match, error) {
	if !s.fresh {
		return search.Match{}, ErrStaleResults
	}
	cur, ok := s.Current()
	if !ok {
		return search.Match{}, ErrNoActiveMatch
	}

	spanOpts := s.opts
	spanOpts.Scope = search.Selection(cur.Start, cur.End)
	outcome, err := search.ReplaceAll(s.doc.Contents(), spanOpts, s.replacement)
	if err != nil {
		return search.Match{}, err
	}

	delta := len(outcome.NewText) - len(s.doc.Contents())
	replaced := outcome.NewText[cur.Start : cur.End+delta]
	if err := s.doc.ApplyEdit(cur.Start, cur.End, replaced); err != nil {
		s.fresh = false
		return search.Match{}, fmt.Errorf("apply edit: %w", err)
	}

	if err := s.Refresh(); err != nil {
		return search.Match{}, err
	}
	s.active = -1
	for i, m := range s.matches {
		if m.Start >= cur.Start {
			s.active = i
			break
		}
	}
	if s.active < 0 {
		return search.Match{}, ErrNoMatches
	}
	return s.matches[s.active], nil
}

// ReplaceAll replaces every match in scope through the document
// interface and invalidates the cached results. Navigation requires a
// Refresh afterwards.
func (s *Session) ReplaceAll() (search.ReplaceOutcome, error) {
	text := s.doc.Contents()
	outcome, err := search.ReplaceAll(text, s.opts, s.replacement)
	if err != nil {
		return search.ReplaceOutcome{}, err
	}
	if outcome.Replacements > 0 {
		if err := s.doc.ApplyEdit(0, len(text), outcome.NewText); err != nil {
			s.invalidate()
			return search.ReplaceOutcome{}, fmt.Errorf("apply edit: %w", err)
		}
	}
	s.invalidate()
	return outcome, nil
}

// MarkCurrent bookmarks the active match's line on the store,
// remembering the line if this session set it.
func (s *Session) MarkCurrent(store BookmarkStore) error {
	if !s.fresh {
		return ErrStaleResults
	}
	cur, ok := s.Current()
	if !ok {
		return ErrNoActiveMatch
	}
	s.mark(store, cur.Line)
	return nil
}

// MarkAll bookmarks every match's line. Lines already bookmarked by
// the user stay theirs; only lines newly set here are recorded as
// session-owned.
func (s *Session) MarkAll(store BookmarkStore) error {
	if !s.fresh {
		return ErrStaleResults
	}
	for _, m := range s.matches {
		s.mark(store, m.Line)
	}
	return nil
}

func (s *Session) mark(store BookmarkStore, line int) {
	if store.SetBookmark(line) {
		s.sessionMarks[line] = struct{}{}
	}
}

// ClearMarks removes only the bookmarks this session set, leaving
// user bookmarks untouched.
func (s *Session) ClearMarks(store BookmarkStore) {
	for line := range s.sessionMarks {
		store.ClearBookmark(line)
	}
	s.sessionMarks = make(map[int]struct{})
}

// SessionMarks returns the lines this session bookmarked, for display.
func (s *Session) SessionMarks() []int {
	lines := make([]int, 0, len(s.sessionMarks))
	for line := range s.sessionMarks {
		lines = append(lines, line)
	}
	return lines
}

// Report packages the cached matches as a single-file report so the
// aggregation operations (marking, search-in-results) apply to session
// results too.
func (s *Session) Report(path string) *search.Report {
	matches := make([]search.Match, len(s.matches))
	copy(matches, s.matches)
	return search.NewReport([]search.FileResult{{Path: path, Matches: matches}})
}

// SearchInResults narrows the cached matches with a second pattern,
// scanning only each match's line text.
func (s *Session) SearchInResults(path string, opts search.Options) (*search.Report, error) {
	if !s.fresh {
		return nil, ErrStaleResults
	}
	return s.Report(path).SearchInResults(opts)
}

func (s *Session) invalidate() {
	s.matches = nil
	s.active = -1
	s.fresh = false
}
