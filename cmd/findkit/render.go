package main

import (
	"fmt"
	"io"

	"github.com/dshills/findkit/internal/search"
)

// renderReport prints the report grouped by file. This shape is the
// compatibility contract for anything scraping findkit output:
//
//	Search "pattern" (N hits in M files)
//	  path (N hits)
//	    Line L (Col C): line text
//
// Files without matches are omitted from the listing but an empty
// report prints "No matches found." instead.
func renderReport(w io.Writer, pattern string, report *search.Report) {
	if report.IsEmpty() {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	summary := report.Summary()
	fmt.Fprintf(w, "Search %q (%d hits in %d files)\n", pattern, summary.TotalMatches, summary.FilesWithMatches)

	for _, entry := range report.Results {
		if entry.IsEmpty() {
			continue
		}
		fmt.Fprintf(w, "  %s (%d hits)\n", entry.Path, len(entry.Matches))
		for _, m := range entry.Matches {
			fmt.Fprintf(w, "    Line %d (Col %d): %s\n", m.Line, m.Column, m.LineText)
		}
	}
}
