// Package search implements the search-and-replace engine used across
// findkit components. It supports literal and regex patterns, selection
// scopes, whole-word matching, multi-file aggregation, and pure
// replace-all planning. All entry points are stateless: given the same
// text and options they produce the same results and mutate nothing.
package search

import (
	"errors"
	"fmt"
)

// Common errors returned by search operations.
var (
	ErrEmptyPattern   = errors.New("search pattern cannot be empty")
	ErrInvalidPattern = errors.New("invalid search pattern")
	ErrInvalidScope   = errors.New("search scope out of range")
)

// Direction controls the traversal order for iterative searches
// (find next / find previous). It never affects result ordering:
// located matches are always sorted ascending by start offset.
type Direction int

const (
	// Forward advances toward the end of the text.
	Forward Direction = iota
	// Backward advances toward the start of the text.
	Backward
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// Scope restricts a search or replace operation to a byte range of the
// target text. The zero value means the entire document.
type Scope struct {
	selection  bool
	start, end int
}

// EntireDocument returns a scope covering the whole text.
func EntireDocument() Scope {
	return Scope{}
}

// Selection returns a scope restricted to the half-open byte range
// [start, end). Bounds are validated against the target text when the
// scope is used; out-of-range or inverted bounds are an error, never a
// silent clamp.
func Selection(start, end int) Scope {
	return Scope{selection: true, start: start, end: end}
}

// IsSelection reports whether the scope is a selection range.
func (s Scope) IsSelection() bool {
	return s.selection
}

// Bounds returns the selection range. ok is false for a whole-document
// scope.
func (s Scope) Bounds() (start, end int, ok bool) {
	if !s.selection {
		return 0, 0, false
	}
	return s.start, s.end, true
}

// resolve validates the scope against a text of the given length and
// returns the effective byte range.
func (s Scope) resolve(textLen int) (int, int, error) {
	if !s.selection {
		return 0, textLen, nil
	}
	if s.start < 0 || s.end < s.start || s.end > textLen {
		return 0, 0, fmt.Errorf("%w: [%d, %d) in text of %d bytes", ErrInvalidScope, s.start, s.end, textLen)
	}
	return s.start, s.end, nil
}

// Options configures a single search or replace call. Options values
// are treated as immutable per-call configuration.
type Options struct {
	// Pattern is the literal text or regular expression to find.
	Pattern string

	// Regex interprets Pattern as a regular expression. When false the
	// pattern is escaped and executed through the same matcher engine,
	// so literal and regex searches behave identically otherwise.
	Regex bool

	// CaseSensitive makes matching case-sensitive. Default: false.
	CaseSensitive bool

	// WholeWord discards matches adjoined by ASCII word characters.
	WholeWord bool

	// DotMatchesNewline lets `.` match newline characters in regex
	// mode. Default: false.
	DotMatchesNewline bool

	// Direction orders session-level navigation. It does not affect
	// the order of located matches.
	Direction Direction

	// Scope restricts the byte range scanned.
	Scope Scope

	// Wrap enables wrap-around navigation past the last (or first)
	// match. Default: true.
	Wrap bool
}

// NewOptions returns options for the given pattern with the engine
// defaults: case-insensitive, whole document, forward, wrap enabled.
func NewOptions(pattern string) Options {
	return Options{
		Pattern: pattern,
		Wrap:    true,
	}
}

// Validate checks option invariants that do not depend on the target
// text. Scope bounds are validated per call against the actual text.
func (o Options) Validate() error {
	if o.Pattern == "" {
		return ErrEmptyPattern
	}
	return nil
}

// Match is one located occurrence of a pattern.
type Match struct {
	// Start and End are absolute byte offsets into the searched text,
	// half-open. Start < End always: zero-width matches are never
	// reported.
	Start int
	End   int

	// Line and Column are 1-based. Column counts runes from the start
	// of the containing line, not bytes.
	Line   int
	Column int

	// Text is the matched text itself.
	Text string

	// LineText is the containing source line with surrounding
	// whitespace trimmed, for display.
	LineText string

	// IsMarked records whether a bulk-mark operation flagged this
	// match. The locator never sets it.
	IsMarked bool
}

// FileResult groups the matches found in one file or in-memory
// document. Matches are always sorted ascending by Start.
type FileResult struct {
	// Path identifies the source file. Empty for in-memory searches.
	Path string

	// Matches holds the located occurrences in start-offset order.
	Matches []Match
}

// IsEmpty reports whether the result holds no matches.
func (r FileResult) IsEmpty() bool {
	return len(r.Matches) == 0
}

// Summary carries the aggregate counters derived from a report.
type Summary struct {
	TotalMatches     int
	FilesWithMatches int
}

// ReplaceOutcome is the pure result of a replace-all computation. It
// carries the rewritten text; the caller decides whether to persist it.
type ReplaceOutcome struct {
	// NewText is the full rewritten text.
	NewText string

	// Replacements is the number of substitutions performed.
	Replacements int

	// Matches lists the pre-replacement matches, for undo or preview.
	Matches []Match
}
