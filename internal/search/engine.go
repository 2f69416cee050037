package search

// FindAll compiles the pattern and locates every match within the
// configured scope, sorted ascending by start offset.
func FindAll(text string, opts Options) ([]Match, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := CompileOptions(opts)
	if err != nil {
		return nil, err
	}
	return Locate(text, m, opts.Scope, opts.WholeWord)
}

// Search runs FindAll and wraps the matches in a pathless FileResult.
func Search(text string, opts Options) (FileResult, error) {
	matches, err := FindAll(text, opts)
	if err != nil {
		return FileResult{}, err
	}
	return FileResult{Matches: matches}, nil
}

// Find returns the match nearest to fromOffset in the direction given
// by opts. A forward search selects the first match starting at or
// after the offset (or containing it); a backward search selects the
// last match ending at or before it. When no candidate exists and
// opts.Wrap is set, the search wraps around to the first or last match
// respectively. ok is false when nothing qualifies.
func Find(text string, fromOffset int, opts Options) (m Match, ok bool, err error) {
	matches, err := FindAll(text, opts)
	if err != nil {
		return Match{}, false, err
	}
	if len(matches) == 0 {
		return Match{}, false, nil
	}

	switch opts.Direction {
	case Backward:
		for i := len(matches) - 1; i >= 0; i-- {
			if matches[i].End <= fromOffset {
				return matches[i], true, nil
			}
		}
		if opts.Wrap {
			return matches[len(matches)-1], true, nil
		}
	default:
		for _, candidate := range matches {
			if candidate.Start >= fromOffset ||
				(fromOffset > candidate.Start && fromOffset < candidate.End) {
				return candidate, true, nil
			}
		}
		if opts.Wrap {
			return matches[0], true, nil
		}
	}
	return Match{}, false, nil
}

// ReplaceAll locates matches exactly as FindAll would and computes the
// text that results from substituting replacement at every match span.
// Matches are applied in descending offset order so earlier
// replacements never invalidate later offsets. In regex mode the
// replacement may reference capture groups with $1 or ${name}; in
// literal mode it is inserted verbatim. The input text is never
// mutated and no I/O is performed.
func ReplaceAll(text string, opts Options, replacement string) (ReplaceOutcome, error) {
	if err := opts.Validate(); err != nil {
		return ReplaceOutcome{}, err
	}
	m, err := CompileOptions(opts)
	if err != nil {
		return ReplaceOutcome{}, err
	}
	hits, _, subset, err := scan(text, m, opts.Scope, opts.WholeWord)
	if err != nil {
		return ReplaceOutcome{}, err
	}
	if len(hits) == 0 {
		return ReplaceOutcome{NewText: text}, nil
	}

	matches := make([]Match, len(hits))
	for i, h := range hits {
		matches[i] = h.match
	}

	template := []byte(replacement)
	src := []byte(subset)
	result := []byte(text)
	for i := len(hits) - 1; i >= 0; i-- {
		h := hits[i]
		repl := template
		if opts.Regex {
			repl = m.re.Expand(nil, template, src, h.idx)
		}
		rewritten := make([]byte, 0, len(result)-(h.match.End-h.match.Start)+len(repl))
		rewritten = append(rewritten, result[:h.match.Start]...)
		rewritten = append(rewritten, repl...)
		rewritten = append(rewritten, result[h.match.End:]...)
		result = rewritten
	}

	return ReplaceOutcome{
		NewText:      string(result),
		Replacements: len(matches),
		Matches:      matches,
	}, nil
}
