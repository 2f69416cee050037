package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Locate scans text with a compiled matcher inside the given scope and
// returns the matches in ascending start-offset order. Emitted offsets
// are absolute into text, never relative to the scope. Zero-width
// matches are skipped; scanning always makes forward progress.
func Locate(text string, m *Matcher, scope Scope, wholeWord bool) ([]Match, error) {
	hits, _, _, err := scan(text, m, scope, wholeWord)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(hits))
	for i, h := range hits {
		matches[i] = h.match
	}
	return matches, nil
}

// hit pairs a located match with its submatch index pairs, which are
// relative to the scanned subset and needed for capture expansion
// during replacement.
type hit struct {
	match Match
	idx   []int
}

// scan is the shared scanning loop behind Locate and ReplaceAll. It
// returns the hits plus the resolved scope start and the scanned
// subset so callers can convert subset-relative indexes back to
// absolute offsets and expand capture references.
func scan(text string, m *Matcher, scope Scope, wholeWord bool) ([]hit, int, string, error) {
	lo, hi, err := scope.resolve(len(text))
	if err != nil {
		return nil, 0, "", err
	}

	subset := text[lo:hi]
	pairs := m.re.FindAllStringSubmatchIndex(subset, -1)
	if len(pairs) == 0 {
		return nil, lo, subset, nil
	}

	ix := newLineIndex(text)
	hits := make([]hit, 0, len(pairs))
	for _, idx := range pairs {
		relStart, relEnd := idx[0], idx[1]
		if relEnd == relStart {
			// Zero-width match; the underlying engine already advanced
			// one rune, so dropping it cannot loop.
			continue
		}
		absStart := lo + relStart
		absEnd := lo + relEnd
		if wholeWord && !isWholeWord(text, absStart, absEnd) {
			continue
		}

		line, column := ix.position(absStart)
		hits = append(hits, hit{
			match: Match{
				Start:    absStart,
				End:      absEnd,
				Line:     line,
				Column:   column,
				Text:     text[absStart:absEnd],
				LineText: ix.lineTextAt(line),
			},
			idx: idx,
		})
	}
	return hits, lo, subset, nil
}

// isWholeWord reports whether the characters immediately outside the
// match, if any, are not ASCII word characters.
func isWholeWord(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

// isWordByte reports whether b is in [A-Za-z0-9_].
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b == '_'
}

// lineIndex maps byte offsets in a text to 1-based line and column
// positions. Columns count runes, not bytes. Positions are always
// computed against the full text so matches inside a selection scope
// still report display-accurate coordinates.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

// position returns the 1-based line and rune column for a byte offset.
func (ix *lineIndex) position(offset int) (line, column int) {
	pos := sort.SearchInts(ix.starts, offset)
	if pos == len(ix.starts) || ix.starts[pos] != offset {
		pos--
	}
	lineStart := ix.starts[pos]
	return pos + 1, utf8.RuneCountInString(ix.text[lineStart:offset]) + 1
}

// lineTextAt returns the trimmed text of the given 1-based line.
func (ix *lineIndex) lineTextAt(line int) string {
	zero := line - 1
	if zero < 0 || zero >= len(ix.starts) {
		return ""
	}
	start := ix.starts[zero]
	end := len(ix.text)
	if zero+1 < len(ix.starts) {
		end = ix.starts[zero+1]
	}
	return strings.TrimSpace(ix.text[start:end])
}
