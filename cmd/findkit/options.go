package main

// cliOptions is the flag surface. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type cliOptions struct {
	Config  string `short:"f" long:"config" description:"config file path (TOML or YAML)"`
	Version bool   `short:"V" long:"version" description:"print version and exit"`

	Regex             bool `short:"r" long:"regex" description:"treat PATTERN as a regular expression"`
	CaseSensitive     bool `short:"c" long:"case-sensitive" description:"match case exactly"`
	WholeWord         bool `short:"w" long:"whole-word" description:"match whole words only"`
	DotMatchesNewline bool `long:"dot-matches-newline" description:"let . span line boundaries in regex mode"`

	Replace *string `long:"replace" value-name:"TEXT" description:"replacement text (dry run unless --apply)"`
	Apply   bool    `long:"apply" description:"write replacements back to disk"`

	InResults string `long:"in-results" value-name:"PATTERN" description:"narrow matches with a second pattern"`
	MarkWhere string `long:"mark-where" value-name:"EXPR" description:"Lua predicate marking matches, e.g. 'm.line > 10'"`

	Watch bool `long:"watch" description:"keep running and re-search when files change"`

	Args struct {
		Pattern string   `positional-arg-name:"PATTERN" description:"text or regex to search for"`
		Paths   []string `positional-arg-name:"PATH" description:"files or directories (default: current directory)"`
	} `positional-args:"yes"`
}
