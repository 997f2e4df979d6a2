// Package projectconfig reads a project's `<project>.toml` manifest:
// the app metadata block and the module-resolution search path.
package projectconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Modules is the module-resolution search configuration consumed by
// internal/resolver.
type Modules struct {
	Root  string   `toml:"root"`
	Paths []string `toml:"paths"`
}

// App is the publisher-facing metadata block.
type App struct {
	Name        string         `toml:"name"`
	DisplayName string         `toml:"displayName"`
	Description string         `toml:"description"`
	Version     toml.Primitive `toml:"version"`
	Publisher   string         `toml:"publisher"`
	version     string         // decoded from Version by Parse; read through Config.Version
}

// Config is a fully parsed project manifest. Extra carries every
// top-level table unrecognized by App/Modules verbatim, so tooling that
// needs fields this resolver doesn't consume (build hooks, bundling
// metadata) can still reach them.
type Config struct {
	App     App
	Modules Modules
	Extra   map[string]toml.Primitive `toml:"-"`

	meta toml.MetaData
}

// ConfigError reports a manifest that parses as TOML but violates a
// semantic rule this loader enforces (e.g. an unquoted semver version).
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Message) }

// Load reads and decodes the manifest at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, string(data))
}

// Parse decodes manifest text already read from disk; path is used only
// for error messages, which lets callers test this without touching a
// filesystem.
func Parse(path, text string) (*Config, error) {
	var raw struct {
		App     App     `toml:"app"`
		Modules Modules `toml:"modules"`
	}
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	cfg := &Config{App: raw.App, Modules: raw.Modules, meta: meta}
	if meta.IsDefined("app", "version") {
		version, verr := decodeVersion(path, raw.App.Version, meta)
		if verr != nil {
			return nil, verr
		}
		cfg.App.version = version
	}
	var extra map[string]toml.Primitive
	if _, err := toml.Decode(text, &extra); err == nil {
		delete(extra, "app")
		delete(extra, "modules")
		cfg.Extra = extra
	}
	return cfg, nil
}

// Version returns the app's version string as written in the manifest.
func (c *Config) Version() string { return c.App.version }

// decodeVersion accepts a quoted string version directly. A bare
// numeric TOML value (integer or float) means the author wrote
// `version = 1.2` or `version = 1` without quotes — TOML itself
// rejects `1.2.3` (more than one dot is not a valid float), so the only
// way a number reaches us at all is a two-component version someone
// forgot to quote. Either way we reject it with guidance, rather than
// silently stringify a float and print `"1.2"` where the author meant
// `"1.2.0"`.
func decodeVersion(path string, prim toml.Primitive, meta toml.MetaData) (string, error) {
	var s string
	if err := meta.PrimitiveDecode(prim, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := meta.PrimitiveDecode(prim, &f); err == nil {
		return "", &ConfigError{Path: path, Message: fmt.Sprintf(
			"app.version must be a quoted string (got unquoted number %v) — write version = \"%v\"", f, f)}
	}
	var i int64
	if err := meta.PrimitiveDecode(prim, &i); err == nil {
		return "", &ConfigError{Path: path, Message: fmt.Sprintf(
			"app.version must be a quoted string (got unquoted number %d) — write version = \"%d\"", i, i)}
	}
	return "", &ConfigError{Path: path, Message: "app.version has an unsupported type"}
}
