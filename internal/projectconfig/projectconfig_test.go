package projectconfig

import (
	"strings"
	"testing"
)

func TestParseQuotedVersion(t *testing.T) {
	text := `
[app]
name = "demo"
version = "1.2.0"
publisher = "example"

[modules]
root = "lib"
paths = ["vendor/a", "vendor/b"]
`
	cfg, err := Parse("demo.toml", text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.App.Name != "demo" {
		t.Fatalf("App.Name = %q, want %q", cfg.App.Name, "demo")
	}
	if cfg.Version() != "1.2.0" {
		t.Fatalf("Version() = %q, want %q", cfg.Version(), "1.2.0")
	}
	if cfg.Modules.Root != "lib" {
		t.Fatalf("Modules.Root = %q, want %q", cfg.Modules.Root, "lib")
	}
	if len(cfg.Modules.Paths) != 2 || cfg.Modules.Paths[0] != "vendor/a" {
		t.Fatalf("Modules.Paths = %v", cfg.Modules.Paths)
	}
}

func TestParseUnquotedFloatVersionRejected(t *testing.T) {
	text := `
[app]
name = "demo"
version = 1.2
`
	_, err := Parse("demo.toml", text)
	if err == nil {
		t.Fatal("expected an error for an unquoted float version")
	}
	if !strings.Contains(err.Error(), "quoted string") {
		t.Fatalf("error %q does not explain the quoting requirement", err.Error())
	}
	var cfgErr *ConfigError
	if ce, ok := err.(*ConfigError); ok {
		cfgErr = ce
	} else {
		t.Fatalf("error is not a *ConfigError: %T", err)
	}
	if cfgErr.Path != "demo.toml" {
		t.Fatalf("ConfigError.Path = %q, want %q", cfgErr.Path, "demo.toml")
	}
}

func TestParseUnquotedIntegerVersionRejected(t *testing.T) {
	text := `
[app]
name = "demo"
version = 1
`
	_, err := Parse("demo.toml", text)
	if err == nil {
		t.Fatal("expected an error for an unquoted integer version")
	}
	if !strings.Contains(err.Error(), "quoted string") {
		t.Fatalf("error %q does not explain the quoting requirement", err.Error())
	}
}

func TestParseNoVersionFieldIsFine(t *testing.T) {
	text := `
[app]
name = "demo"
`
	cfg, err := Parse("demo.toml", text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Version() != "" {
		t.Fatalf("Version() = %q, want empty", cfg.Version())
	}
}

func TestParseExtraTablesPreserved(t *testing.T) {
	text := `
[app]
name = "demo"

[bundle]
entry = "main.яс"
`
	cfg, err := Parse("demo.toml", text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := cfg.Extra["bundle"]; !ok {
		t.Fatalf("Extra does not carry the unrecognized [bundle] table: %v", cfg.Extra)
	}
}
