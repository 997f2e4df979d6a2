package resolver

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

const sourceExt = ".яс"

// ProjectConfig is the subset of `<project>.toml` the resolver consults.
// The rest of a project manifest (package metadata, bundle settings) is
// read separately by internal/projectconfig.
type ProjectConfig struct {
	ModulesRoot  string
	ModulesPaths []string
}

// findProjectRoot walks up from dir looking for any *.toml file (a
// project manifest is named `<project>.toml`, where `<project>` is the
// project's own name, not a literal filename, so any top-level *.toml
// manifest qualifies). Falls back to dir itself.
func findProjectRoot(dir string, statFn func(string) ([]os.DirEntry, error)) string {
	cur := dir
	for {
		entries, err := statFn(cur)
		if err == nil {
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
					return cur
				}
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

func readDir(dir string) ([]os.DirEntry, error) { return os.ReadDir(dir) }

// candidateExtensions returns the filename variants to probe for import
// string p: `.яс` appended if p has no extension, plus the literal name
// as given, extension-complete form tried first.
func candidateExtensions(p string) []string {
	if filepath.Ext(p) == "" {
		return []string{p + sourceExt, p}
	}
	return []string{p, p + sourceExt}
}

// candidateBaseDirs builds the ordered list of base directories against
// which an import string is resolved.
func candidateBaseDirs(root, importerDir string, cfg ProjectConfig, p string) []string {
	var dirs []string
	dirs = append(dirs, importerDir)
	if cfg.ModulesRoot != "" {
		dirs = append(dirs, filepath.Join(root, cfg.ModulesRoot))
	}
	for _, mp := range cfg.ModulesPaths {
		dirs = append(dirs, filepath.Join(root, mp))
	}
	deps := filepath.Join(root, ".deps")
	dirs = append(dirs, deps)
	if first := firstSegment(p); first != "" {
		dirs = append(dirs, filepath.Join(deps, first))
	}
	if entries, err := readDir(deps); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(deps, e.Name()))
			}
		}
	}
	return dirs
}

func firstSegment(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "/")
	if i := strings.Index(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}

// resolvePath implements the full path-resolution algorithm.
// importerDir is the directory containing the importing module.
func resolvePath(root, importerDir string, cfg ProjectConfig, p string) (string, bool) {
	names := candidateExtensions(p)
	if filepath.IsAbs(p) {
		for _, n := range names {
			if fileExists(n) {
				return n, true
			}
		}
		return "", false
	}
	for _, base := range candidateBaseDirs(root, importerDir, cfg, p) {
		for _, n := range names {
			full := filepath.Join(base, n)
			if fileExists(full) {
				return full, true
			}
		}
	}
	return "", false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// moduleTag computes the `__mod_<8-hex>` rename prefix for a module's
// absolute path.
func moduleTag(absPath string) string {
	sum := sha1.Sum([]byte(absPath))
	return "__mod_" + hex.EncodeToString(sum[:])[:8]
}

// cycleKey normalizes a module path for cycle-stack comparison.
// Case-insensitive filesystems (the common case on macOS/Windows) fold
// case; elsewhere comparison is byte-exact. We cannot reliably detect
// filesystem case-sensitivity at runtime without touching disk, so we
// fold case uniformly — the stricter byte-exact behavior only matters
// for pathological same-directory names differing solely in case,
// which legitimate projects do not produce.
func cycleKey(absPath string) string { return strings.ToLower(absPath) }
