// Package config loads findkit settings from TOML or YAML files with
// environment variable overrides. Missing config files are not an
// error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/findkit/internal/search"
)

// ErrUnsupportedFormat is returned for config files whose extension is
// neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "FINDKIT_"

// Search holds the default search options applied when the CLI flags
// don't say otherwise.
type Search struct {
	Regex             bool `toml:"regex" yaml:"regex"`
	CaseSensitive     bool `toml:"case_sensitive" yaml:"case_sensitive"`
	WholeWord         bool `toml:"whole_word" yaml:"whole_word"`
	DotMatchesNewline bool `toml:"dot_matches_newline" yaml:"dot_matches_newline"`
	Wrap              bool `toml:"wrap" yaml:"wrap"`
}

// Watch configures the --watch mode.
type Watch struct {
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// Config is the full findkit configuration.
type Config struct {
	Search Search `toml:"search" yaml:"search"`
	Watch  Watch  `toml:"watch" yaml:"watch"`
}

// Default returns the configuration used when no file or overrides are
// present.
func Default() Config {
	return Config{
		Search: Search{Wrap: true},
		Watch:  Watch{DebounceMS: 200},
	}
}

// Load reads a config file, falling back to defaults when the path is
// empty or the file does not exist, then applies FINDKIT_* environment
// overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing file is fine; defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := unmarshal(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// applyEnv overlays FINDKIT_* environment variables. Unset variables
// leave the file/default value alone.
func applyEnv(cfg *Config) {
	envBool(EnvPrefix+"REGEX", &cfg.Search.Regex)
	envBool(EnvPrefix+"CASE_SENSITIVE", &cfg.Search.CaseSensitive)
	envBool(EnvPrefix+"WHOLE_WORD", &cfg.Search.WholeWord)
	envBool(EnvPrefix+"DOT_MATCHES_NEWLINE", &cfg.Search.DotMatchesNewline)
	envBool(EnvPrefix+"WRAP", &cfg.Search.Wrap)
	envInt(EnvPrefix+"WATCH_DEBOUNCE_MS", &cfg.Watch.DebounceMS)
}

func envBool(name string, dst *bool) {
	if v, ok := os.LookupEnv(name); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func envInt(name string, dst *int) {
	if v, ok := os.LookupEnv(name); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

// Options builds search options for a pattern from the configured
// defaults.
func (c Config) Options(pattern string) search.Options {
	opts := search.NewOptions(pattern)
	opts.Regex = c.Search.Regex
	opts.CaseSensitive = c.Search.CaseSensitive
	opts.WholeWord = c.Search.WholeWord
	opts.DotMatchesNewline = c.Search.DotMatchesNewline
	opts.Wrap = c.Search.Wrap
	return opts
}

// Debounce returns the watch debounce as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
