package scribe

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name FindConfig looks for.
const ConfigFileName = ".scribe.toml"

// Config controls the formatting decisions of an Emitter.
type Config struct {
	// MethodsWithoutParenthesis are called as `name arg, arg`.
	MethodsWithoutParenthesis []string `toml:"methods_without_parenthesis"`

	// GroupedMethods keep consecutive calls of the same name together and
	// are set apart from everything else by a blank line.
	GroupedMethods []string `toml:"grouped_methods"`

	// SyntacticMethods render as infix operators, `a + b`.
	SyntacticMethods []string `toml:"syntactic_methods"`

	// LongHashKeySize is the number of keys at which a hash literal is split
	// one pair per line.
	LongHashKeySize int `toml:"long_hash_key_size"`

	// DefaultIndent is the number of spaces per nesting level.
	DefaultIndent int `toml:"default_indent"`
}

// DefaultConfig returns a fresh copy of the default configuration.
func DefaultConfig() Config {
	return Config{
		MethodsWithoutParenthesis: []string{
			"attr_accessor", "attr_reader", "attr_writer",
			"alias", "alias_method", "alias_attribute",
			"gem", "require", "extend", "include", "raise",
			"delegate", "autoload",
			"puts",
		},
		GroupedMethods: []string{"require", "attr_accessor", "autoload"},
		SyntacticMethods: []string{
			"+", "-", "<<", "==", "===", ">", "<",
			"*", "/", "%", "**", "<=", ">=", "<=>", "=~", "&", "|", "^", ">>", "!=",
		},
		LongHashKeySize: 5,
		DefaultIndent:   2,
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.MethodsWithoutParenthesis = slices.Clone(c.MethodsWithoutParenthesis)
	c.GroupedMethods = slices.Clone(c.GroupedMethods)
	c.SyntacticMethods = slices.Clone(c.SyntacticMethods)
	return c
}

// LoadConfig reads a TOML config file on top of the defaults. Keys missing
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if config.DefaultIndent < 0 {
		return Config{}, fmt.Errorf("%s: default_indent must not be negative", path)
	}
	return config, nil
}

// FindConfig searches for a .scribe.toml file starting from dir and walking
// up to parent directories, stopping at a .git boundary. When none is found
// it returns "" and the default config.
func FindConfig(dir string) (string, Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", Config{}, err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadConfig(path)
			if err != nil {
				return "", Config{}, err
			}
			return path, config, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", DefaultConfig(), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", DefaultConfig(), nil
		}
		dir = parent
	}
}
