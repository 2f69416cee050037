package search

// Report aggregates per-file search results. File order always equals
// the order the inputs were scanned in. Reports are value snapshots:
// apart from mark flags, nothing mutates a report after it is built.
type Report struct {
	Results []FileResult
}

// NewReport wraps the given results in a report.
func NewReport(results []FileResult) *Report {
	return &Report{Results: results}
}

// IsEmpty reports whether no file contributed a match.
func (r *Report) IsEmpty() bool {
	return r.TotalMatches() == 0
}

// TotalMatches recomputes the total match count from the live match
// sequences. It is never cached, so it cannot drift after filtering or
// marking.
func (r *Report) TotalMatches() int {
	total := 0
	for _, entry := range r.Results {
		total += len(entry.Matches)
	}
	return total
}

// FilesWithMatches recomputes the number of files holding at least one
// match.
func (r *Report) FilesWithMatches() int {
	count := 0
	for _, entry := range r.Results {
		if !entry.IsEmpty() {
			count++
		}
	}
	return count
}

// Summary returns the aggregate counters for UI display.
func (r *Report) Summary() Summary {
	return Summary{
		TotalMatches:     r.TotalMatches(),
		FilesWithMatches: r.FilesWithMatches(),
	}
}

// MarkSummary counts the effect of a bulk mark operation.
type MarkSummary struct {
	NewlyMarked   int
	AlreadyMarked int
}

// MarkWhere sets the mark flag on every match satisfying the
// predicate. Marking is additive: existing marks are never removed, so
// applying the same predicate twice yields the same marked set.
func (r *Report) MarkWhere(predicate func(Match) bool) MarkSummary {
	var summary MarkSummary
	for i := range r.Results {
		matches := r.Results[i].Matches
		for j := range matches {
			if !predicate(matches[j]) {
				continue
			}
			if matches[j].IsMarked {
				summary.AlreadyMarked++
				continue
			}
			matches[j].IsMarked = true
			summary.NewlyMarked++
		}
	}
	return summary
}

// SearchInResults applies a secondary pattern to the result set,
// scanning only the line text already captured by existing matches.
// Retained matches keep their absolute offsets into the original
// files. File entries are never dropped, even when every match of a
// file is filtered out, so callers can still account for all scanned
// files.
func (r *Report) SearchInResults(opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := CompileOptions(opts)
	if err != nil {
		return nil, err
	}

	filtered := make([]FileResult, 0, len(r.Results))
	for _, entry := range r.Results {
		var retained []Match
		for _, match := range entry.Matches {
			nested, err := Locate(match.LineText, m, EntireDocument(), opts.WholeWord)
			if err != nil {
				return nil, err
			}
			if len(nested) == 0 {
				continue
			}
			retained = append(retained, match)
		}
		filtered = append(filtered, FileResult{Path: entry.Path, Matches: retained})
	}
	return NewReport(filtered), nil
}
