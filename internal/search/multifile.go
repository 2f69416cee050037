package search

// FileInput is one (path, contents) pair supplied to SearchInFiles.
// How the pairs are discovered (directory walks, ignore rules,
// ordering) is entirely the caller's responsibility.
type FileInput struct {
	Path     string
	Contents string
}

// SearchInFiles scans every input in the order supplied and folds the
// per-file results into one report. The scope is always the entire
// document regardless of opts.Scope: selection scopes only make sense
// for a single open document. Files with zero matches still contribute
// a result entry, so the report accounts for every file scanned.
//
// Pattern errors surface before any file is scanned. Execution is
// synchronous: each file is fully located before the next begins, and
// result order equals input order.
func SearchInFiles(inputs []FileInput, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := CompileOptions(opts)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(inputs))
	for _, input := range inputs {
		matches, err := Locate(input.Contents, m, EntireDocument(), opts.WholeWord)
		if err != nil {
			return nil, err
		}
		results = append(results, FileResult{Path: input.Path, Matches: matches})
	}
	return NewReport(results), nil
}
