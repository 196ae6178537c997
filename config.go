package ttbuild

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hayeah/ttbuild/ignore"
)

// ConfigFileName is looked up in the input directory when no --config is given.
const ConfigFileName = ".tt-build.toml"

// Config holds the build options that can be set from a TOML file.
type Config struct {
	// ExcludeIgnoredItems drops paths with a component starting with "." or "_".
	ExcludeIgnoredItems bool     `toml:"exclude_ignored_items"`
	IgnoredExtensions   []string `toml:"ignored_extensions"`
	IgnoredDirectories  []string `toml:"ignored_directories"`
	Exclude             []string `toml:"exclude"`
	RespectGitignore    bool     `toml:"respect_gitignore"`
	// Normalize lists the globs of files rewritten as plugin JSON.
	Normalize []string `toml:"normalize"`
	Workers   int      `toml:"workers"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		ExcludeIgnoredItems: true,
		IgnoredExtensions:   []string{".py", ".md", ".sh"},
		IgnoredDirectories:  []string{"Redundancy"},
		Normalize:           []string{"**/*.json"},
		Workers:             runtime.NumCPU(),
	}
}

// ParseConfig decodes TOML from r over the defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	decoder := toml.NewDecoder(r)
	md, err := decoder.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads the config file at path. When path is empty, the
// optional ConfigFileName in inputDir is used, falling back to defaults.
func LoadConfig(path, inputDir string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(inputDir, ConfigFileName)
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, &ConfigurationError{Msg: "cannot read config file " + path, Err: err}
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, &ConfigurationError{Msg: "invalid config file " + path, Err: err}
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, pattern := range c.Normalize {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern '%s'", pattern)
		}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// ShouldNormalize reports whether the slash-separated relative path is
// rewritten by the JSON normalizer.
func (c *Config) ShouldNormalize(rel string) bool {
	for _, pattern := range c.Normalize {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Policy converts the exclusion options into an ignore policy.
func (c *Config) Policy() ignore.Policy {
	return ignore.Policy{
		ExcludeHidden:    c.ExcludeIgnoredItems,
		Extensions:       c.IgnoredExtensions,
		Directories:      c.IgnoredDirectories,
		Patterns:         c.Exclude,
		RespectGitignore: c.RespectGitignore,
	}
}
