// Package config loads zetavm.toml, the project file naming a program's
// heap/stack sizing, loader search path, and profiler options.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// VMConfig sizes the interpreter and its optional cycle limit.
type VMConfig struct {
	StackWords int    `toml:"stack_words"`
	CycleLimit uint64 `toml:"cycle_limit"`
	Verbose    bool   `toml:"verbose"`
}

// LoaderConfig controls image loading and import resolution.
type LoaderConfig struct {
	SearchPath []string `toml:"search_path"`
	Strict     bool     `toml:"strict"`
}

// ProfilerConfig controls the optional SQLite profiler store.
type ProfilerConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"`
}

// Config is the parsed form of zetavm.toml.
type Config struct {
	VM      VMConfig       `toml:"vm"`
	Loader  LoaderConfig   `toml:"loader"`
	Profile ProfilerConfig `toml:"profiler"`

	// Dir is the directory containing the loaded config file. Relative
	// entries in Loader.SearchPath are resolved against it.
	Dir string `toml:"-"`
}

// Default returns a Config with the sizes and defaults used when no
// zetavm.toml is present.
func Default() *Config {
	return &Config{
		VM: VMConfig{
			StackWords: 65536,
			CycleLimit: 0,
		},
		Loader: LoaderConfig{
			SearchPath: []string{"."},
		},
	}
}

// Load reads and parses path, resolving Loader.SearchPath entries
// relative to path's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)

	for i, p := range cfg.Loader.SearchPath {
		if !filepath.IsAbs(p) {
			cfg.Loader.SearchPath[i] = filepath.Join(cfg.Dir, p)
		}
	}
	return cfg, nil
}
