// Package config holds the activation-scoped muloader configuration parsed
// from the root package's "extra" block.
package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Keys read from the root package's "extra" block.
const (
	KeyForceMu       = "force-mu"
	KeyRequireFile   = "mu-require-file"
	KeyUnixSeparator = "force-unix-separator"
)

// DefaultRequireFile is the name of the generated bootstrap file.
const DefaultRequireFile = "mu-require.php"

// SeparatorStyle selects the directory separator used in generated include paths.
type SeparatorStyle int

const (
	// SeparatorNative uses the separator of the host OS.
	SeparatorNative SeparatorStyle = iota

	// SeparatorUnix always uses a forward slash.
	SeparatorUnix
)

// Separator returns the separator character for the style.
func (s SeparatorStyle) Separator() string {
	if s == SeparatorUnix {
		return "/"
	}
	return string(filepath.Separator)
}

// String returns the style name.
func (s SeparatorStyle) String() string {
	if s == SeparatorUnix {
		return "unix"
	}
	return "native"
}

// Config is the configuration snapshot for one activation.
// The zero value is the cleared state used after deactivation.
type Config struct {
	// ForceMu lists plugin slugs that install as must-use plugins.
	ForceMu []string

	// RequireFile is the bootstrap file name. Ignored when RequireFileDisabled is set.
	RequireFile string

	// RequireFileDisabled turns off bootstrap generation entirely.
	RequireFileDisabled bool

	// Separator controls the separator used in the generated include path.
	Separator SeparatorStyle
}

// Default returns the configuration used when "extra" sets nothing.
func Default() Config {
	return Config{
		RequireFile: DefaultRequireFile,
		Separator:   SeparatorNative,
	}
}

// Parse builds a Config from the raw JSON of the "extra" block.
// Absent or invalid keys fall back to their defaults; Parse never fails.
func Parse(extra []byte) Config {
	cfg := Default()
	if len(extra) == 0 || !gjson.ValidBytes(extra) {
		return cfg
	}

	root := gjson.ParseBytes(extra)
	if !root.IsObject() {
		return cfg
	}

	if forceMu := root.Get(KeyForceMu); forceMu.IsArray() {
		forceMu.ForEach(func(_, value gjson.Result) bool {
			if value.Type == gjson.String && !slices.Contains(cfg.ForceMu, value.Str) {
				cfg.ForceMu = append(cfg.ForceMu, value.Str)
			}
			return true
		})
	}

	switch requireFile := root.Get(KeyRequireFile); requireFile.Type {
	case gjson.False:
		cfg.RequireFileDisabled = true
	case gjson.String:
		if ValidFileName(requireFile.Str) {
			cfg.RequireFile = requireFile.Str
		}
	}

	if truthy(root.Get(KeyUnixSeparator)) {
		cfg.Separator = SeparatorUnix
	}

	return cfg
}

// Generates reports whether a bootstrap file should be written.
func (c Config) Generates() bool {
	return !c.RequireFileDisabled && c.RequireFile != ""
}

// ForcesMu reports whether slug is in the allowlist. Matching is exact.
func (c Config) ForcesMu(slug string) bool {
	return slices.Contains(c.ForceMu, slug)
}

// FileName returns the bootstrap file name, falling back to the default
// when generation is disabled or the snapshot is cleared.
func (c Config) FileName() string {
	if c.RequireFileDisabled || c.RequireFile == "" {
		return DefaultRequireFile
	}
	return c.RequireFile
}

// ValidFileName accepts a bare file name only.
func ValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// truthy follows the loose truthiness Composer users expect from "extra" flags:
// false, null, 0, "", "0" and empty arrays or objects are false.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != "" && v.Str != "0"
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		return len(v.Map()) > 0
	default:
		return false
	}
}
