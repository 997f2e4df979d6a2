// Package resolver turns an entry module's AST plus its transitive
// imports into a single linked Program with every import statement
// inlined and no import statements remaining.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/diag"
	"github.com/yasniy-lang/yasniy/internal/lexer"
	"github.com/yasniy-lang/yasniy/internal/parser"
	"github.com/yasniy-lang/yasniy/internal/projectconfig"
)

// loadedModule is a module parsed and linked once: its original
// top-level declarations (mutated in place into their renamed form by
// renameDeclarations), export set, and the rename table keyed by
// original name. Computed once per absolute path and reused across
// every importer, since a module's rename tag depends only on its own
// path.
type loadedModule struct {
	absPath  string
	decls    []ast.Statement // top-level VarDecl/FuncDecl, already renamed in place
	exports  map[string]bool // original names
	renameOf map[string]string
}

// Resolver holds the state shared across an entire resolution run: the
// project root and module search config, a readFile hook for
// testability, the module cache, and the import cycle stack.
type Resolver struct {
	root     string
	cfg      ProjectConfig
	readFile func(string) ([]byte, error)

	cache map[string]*loadedModule
	stack []string // cycle detection, absolute paths
}

// New creates a Resolver rooted at the project containing entryPath.
func New(entryPath string) (*Resolver, error) {
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, err
	}
	root := findProjectRoot(filepath.Dir(absEntry), readDir)
	cfg := ProjectConfig{}
	if manifest := findManifest(root); manifest != "" {
		if c, err := projectconfig.Load(manifest); err == nil {
			cfg = ProjectConfig{ModulesRoot: c.Modules.Root, ModulesPaths: c.Modules.Paths}
		}
	}
	return &Resolver{
		root:     root,
		cfg:      cfg,
		readFile: os.ReadFile,
		cache:    map[string]*loadedModule{},
	}, nil
}

func findManifest(root string) string {
	entries, err := readDir(root)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			return filepath.Join(root, e.Name())
		}
	}
	return ""
}

// Resolve loads entryPath and every module it transitively imports,
// returning a single Program with all imports inlined.
func Resolve(entryPath string) (*ast.Program, error) {
	r, err := New(entryPath)
	if err != nil {
		return nil, err
	}
	return r.ResolveEntry(entryPath)
}

// ResolveEntry runs the full resolution algorithm for entryPath using an
// already-constructed Resolver, so callers can share one Resolver (and
// its module cache) across multiple entry points.
func (r *Resolver) ResolveEntry(entryPath string) (*ast.Program, error) {
	log := diag.L().Stage("resolve")
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, err
	}
	log.Debug("resolving entry module", zap.String("path", absEntry), zap.String("root", r.root))
	prog, err := r.parseFile(absEntry)
	if err != nil {
		return nil, err
	}
	if err := checkImportPositions(prog.Statements, absEntry); err != nil {
		return nil, err
	}

	bindings := importBindings{names: map[string]string{}, namespaces: map[string]map[string]string{}}
	included := map[string]bool{}
	var libraryDecls []ast.Statement
	var body []ast.Statement
	importerDir := filepath.Dir(absEntry)

	for _, stmt := range prog.Statements {
		switch imp := stmt.(type) {
		case *ast.ImportAllStmt:
			mod, err := r.load(importerDir, imp.Path)
			if err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
			if err := r.linkAll(mod, imp, &bindings, included, &libraryDecls); err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
		case *ast.ImportFromStmt:
			mod, err := r.load(importerDir, imp.Path)
			if err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
			if err := r.linkFrom(mod, imp, &bindings, included, &libraryDecls); err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
		default:
			body = append(body, stmt)
		}
	}

	if err := checkNameConflicts(body, bindings); err != nil {
		return nil, err
	}

	rewriteAliases(body, bindings)
	// Library declarations can themselves reference other libraries'
	// exports (a re-export chain); the same bindings rewrite applies to
	// their bodies too.
	rewriteAliases(libraryDecls, bindings)

	all := append(append([]ast.Statement{}, libraryDecls...), body...)
	log.Info("entry module resolved", zap.Int("statements", len(all)), zap.Int("modulesLoaded", len(r.cache)))
	return &ast.Program{Statements: all, Path: absEntry}, nil
}

// checkImportPositions enforces that all import statements precede all
// other top-level statements.
func checkImportPositions(stmts []ast.Statement, path string) error {
	seenOther := false
	for _, s := range stmts {
		switch s.(type) {
		case *ast.ImportAllStmt, *ast.ImportFromStmt:
			if seenOther {
				return &Error{Pos: s.Pos(), Message: "import statements must precede all other top-level statements in " + path}
			}
		default:
			seenOther = true
		}
	}
	return nil
}

// checkNameConflicts enforces the fatal name-conflict rule: an
// imported name must not collide with a top-level declaration of the
// importer itself.
func checkNameConflicts(body []ast.Statement, b importBindings) error {
	for _, s := range body {
		name, ok := declName(s)
		if !ok {
			continue
		}
		if _, clash := b.names[name]; clash {
			return &Error{Pos: s.Pos(), Message: "imported name collides with a top-level declaration: " + name}
		}
		if _, clash := b.namespaces[name]; clash {
			return &Error{Pos: s.Pos(), Message: "declaration shadows a namespace alias: " + name}
		}
	}
	return nil
}

func (r *Resolver) load(importerDir, p string) (*loadedModule, error) {
	full, ok := resolvePath(r.root, importerDir, r.cfg, p)
	if !ok {
		return nil, fmt.Errorf("module not found: %s", p)
	}
	key := cycleKey(full)
	if m, ok := r.cache[full]; ok {
		return m, nil
	}
	for _, s := range r.stack {
		if s == key {
			return nil, fmt.Errorf("cyclic import: %s", strings.Join(append(r.stack, key), " -> "))
		}
	}
	r.stack = append(r.stack, key)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	prog, err := r.parseFile(full)
	if err != nil {
		return nil, err
	}
	if err := checkNoExecutableTopLevel(prog); err != nil {
		return nil, err
	}
	if err := checkImportPositions(prog.Statements, full); err != nil {
		return nil, err
	}

	// A library module's own imports must be resolved and linked first,
	// so its declarations carry fully-renamed bodies before we compute
	// its dependency closure and apply its own rename tag.
	libBindings := importBindings{names: map[string]string{}, namespaces: map[string]map[string]string{}}
	libIncluded := map[string]bool{}
	var transitiveLibDecls []ast.Statement
	var ownDecls []ast.Statement
	libDir := filepath.Dir(full)
	for _, stmt := range prog.Statements {
		switch imp := stmt.(type) {
		case *ast.ImportAllStmt:
			dep, err := r.load(libDir, imp.Path)
			if err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
			if err := r.linkAll(dep, imp, &libBindings, libIncluded, &transitiveLibDecls); err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
		case *ast.ImportFromStmt:
			dep, err := r.load(libDir, imp.Path)
			if err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
			if err := r.linkFrom(dep, imp, &libBindings, libIncluded, &transitiveLibDecls); err != nil {
				return nil, &Error{Pos: imp.Pos(), Message: err.Error()}
			}
		default:
			ownDecls = append(ownDecls, stmt)
		}
	}
	rewriteAliases(ownDecls, libBindings)
	rewriteAliases(transitiveLibDecls, libBindings)

	exports := exportedNames(ownDecls)
	tag := moduleTag(full)
	renamed, renameOf := renameDeclarations(ownDecls, tag)

	mod := &loadedModule{
		absPath:  full,
		decls:    append(transitiveLibDecls, renamed...),
		exports:  exports,
		renameOf: renameOf,
	}
	r.cache[full] = mod
	return mod, nil
}

func (r *Resolver) parseFile(absPath string) (*ast.Program, error) {
	data, err := r.readFile(absPath)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.Tokenize(string(data))
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	prog.Path = absPath
	return prog, nil
}

// checkNoExecutableTopLevel enforces that non-entry modules may
// contain only top-level declarations.
func checkNoExecutableTopLevel(prog *ast.Program) error {
	for _, s := range prog.Statements {
		switch s.(type) {
		case *ast.VarDecl, *ast.FuncDecl, *ast.ImportAllStmt, *ast.ImportFromStmt:
		default:
			return &Error{Pos: s.Pos(), Message: fmt.Sprintf(
				"non-entry module %s: top-level executable statements are not allowed", prog.Path)}
		}
	}
	return nil
}

// appendRenamed appends every already-renamed declaration in decls
// whose renamed name is not already present in included (diamond-import
// dedup across modules sharing a transitive dependency).
func appendRenamed(decls []ast.Statement, included map[string]bool, out *[]ast.Statement) {
	for _, s := range decls {
		name, ok := declName(s)
		if !ok || included[name] {
			continue
		}
		included[name] = true
		*out = append(*out, s)
	}
}

func (r *Resolver) linkAll(mod *loadedModule, imp *ast.ImportAllStmt, b *importBindings, included map[string]bool, out *[]ast.Statement) error {
	closure := closureByRenamedRoots(mod, mod.exports)
	appendRenamed(closure, included, out)

	if imp.Namespace != "" {
		if _, exists := b.namespaces[imp.Namespace]; exists {
			return fmt.Errorf("namespace %q is already bound by another import", imp.Namespace)
		}
		ns := map[string]string{}
		for orig := range mod.exports {
			ns[orig] = mod.renameOf[orig]
		}
		b.namespaces[imp.Namespace] = ns
		return nil
	}
	for orig := range mod.exports {
		sym := mod.renameOf[orig]
		if existing, ok := b.names[orig]; ok && existing != sym {
			return fmt.Errorf("import name collision: %q is exported by more than one module", orig)
		}
		b.names[orig] = sym
	}
	return nil
}

func (r *Resolver) linkFrom(mod *loadedModule, imp *ast.ImportFromStmt, b *importBindings, included map[string]bool, out *[]ast.Statement) error {
	roots := map[string]bool{}
	for _, item := range imp.Items {
		if !mod.exports[item.Name] {
			return fmt.Errorf("module %s does not export %q", mod.absPath, item.Name)
		}
		roots[item.Name] = true
	}
	closure := closureByRenamedRoots(mod, roots)
	appendRenamed(closure, included, out)

	for _, item := range imp.Items {
		sym := mod.renameOf[item.Name]
		local := item.Alias
		if existing, ok := b.names[local]; ok && existing != sym {
			return fmt.Errorf("import name collision: %q is bound by more than one import", local)
		}
		b.names[local] = sym
	}
	return nil
}

// closureByRenamedRoots computes the dependency closure over a loaded
// module's already-renamed declaration set, translating the caller's
// original-name roots to renamed names first.
func closureByRenamedRoots(mod *loadedModule, origRoots map[string]bool) []ast.Statement {
	renamedRoots := map[string]bool{}
	for orig := range origRoots {
		if sym, ok := mod.renameOf[orig]; ok {
			renamedRoots[sym] = true
		}
	}
	return dependencyClosure(mod.decls, renamedRoots)
}
