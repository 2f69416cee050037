package search

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher is a compiled search pattern. Literal and regex patterns both
// compile into the same underlying engine so line/column computation
// and whole-word filtering behave identically for either mode.
type Matcher struct {
	re *regexp.Regexp
}

// Compile builds a matcher from a pattern and its compile-time flags.
// Literal patterns are escaped before compilation. Multi-line anchor
// semantics (^/$ at line boundaries) are always enabled.
func Compile(pattern string, regex, caseSensitive, dotMatchesNewline bool) (*Matcher, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	if !regex {
		pattern = regexp.QuoteMeta(pattern)
	}

	var flags strings.Builder
	flags.WriteString("m")
	if !caseSensitive {
		flags.WriteString("i")
	}
	if dotMatchesNewline {
		flags.WriteString("s")
	}

	re, err := regexp.Compile("(?" + flags.String() + ")" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}

	return &Matcher{re: re}, nil
}

// CompileOptions builds a matcher from the pattern-related fields of
// the given options.
func CompileOptions(opts Options) (*Matcher, error) {
	return Compile(opts.Pattern, opts.Regex, opts.CaseSensitive, opts.DotMatchesNewline)
}
