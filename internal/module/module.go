// Package module implements spec §4.D's Import operation: a single-file,
// import-by-name resolver (spec §1 explicitly excludes "a module/package
// resolver beyond single-file import-by-name" from this implementation's
// scope). It satisfies eval.ModuleLoader so internal/eval never needs to
// know how a module's source text is found or parsed.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	nerr "naftah/internal/errors"
	"naftah/internal/eval"
	"naftah/internal/lexer"
	"naftah/internal/parser"
	"naftah/internal/scope"
)

// Loader finds, parses, and runs a module file exactly once, caching its
// resulting global declarations by resolved path. Grounded on the
// teacher's own ModuleLoader (internal/module's prior cache + searchPath
// shape) with the bytecode-compiler stage it used replaced by naftah's
// own lexer/parser/eval pipeline, since this module walks a parse tree
// directly rather than compiling to bytecode (spec §1 Non-goals exclude
// bytecode/JIT).
type Loader struct {
	mu         sync.Mutex
	cache      map[string]*scope.Scope
	searchPath []string
}

// NewLoader creates a Loader with the conventional search path: the
// current directory, a local "./lib", and a local "./modules" directory,
// the same three-tier layout the teacher's own ModuleLoader used before
// its stdlib/bytecode-specific entries are dropped.
func NewLoader() *Loader {
	return &Loader{
		cache:      make(map[string]*scope.Scope),
		searchPath: []string{".", "./lib", "./modules"},
	}
}

// AddSearchPath appends a directory to the module search path.
func (l *Loader) AddSearchPath(dir string) {
	l.searchPath = append(l.searchPath, dir)
}

// moduleExtension is naftah's conventional source-file suffix (spec §6:
// "extension conventional; no encoded BOM required" — the grammar itself
// never fixes one, so this resolver picks its own).
const moduleExtension = ".nft"

// Load implements eval.ModuleLoader. pathOrName is either a bare module
// name, a module-qualified member path ("اسم_الوحدة:العضو", spec §4.D's
// `:`-separated qualified name), or a direct file path ending in
// moduleExtension. alias, if non-empty, renames whatever single name was
// imported or namespaces a whole-module import (spec §4.D: "an optional
// alias renames it").
func (l *Loader) Load(it *eval.Interp, pathOrName, alias string, pos nerr.Position) error {
	segments := scope.SplitQualified(pathOrName)
	moduleName := segments[0]
	memberPath := segments[1:]

	modScope, err := l.loadModule(it, moduleName, pos)
	if err != nil {
		return err
	}

	if len(memberPath) == 0 {
		prefix := moduleName
		if alias != "" {
			prefix = alias
		}
		for name, decl := range modScope.Globals() {
			it.Scope.Declare(prefix+":"+name, decl)
		}
		return nil
	}

	member := memberPath[len(memberPath)-1]
	decl, ok := modScope.Globals()[member]
	if !ok {
		return nerr.New(nerr.VariableNotFound, pos, pathOrName)
	}
	localName := member
	if alias != "" {
		localName = alias
	}
	it.Scope.Declare(localName, decl)
	return nil
}

// loadModule resolves moduleName to a file, parses and executes it over a
// fresh global Scope exactly once, and caches the resulting globals for
// every subsequent import of the same module (by any alias or member
// path) in this process.
func (l *Loader) loadModule(importer *eval.Interp, moduleName string, pos nerr.Position) (*scope.Scope, error) {
	path, err := l.findModule(moduleName)
	if err != nil {
		return nil, nerr.Wrap(nerr.InvocableNotFound, pos, err, moduleName)
	}

	l.mu.Lock()
	if cached, ok := l.cache[path]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nerr.Wrap(nerr.InvocableNotFound, pos, err, moduleName)
	}

	scanner := lexer.NewScanner(string(source))
	tokens := scanner.ScanTokens()
	p := parser.NewParserWithSource(tokens, string(source), path)
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		return nil, nerr.Wrap(nerr.Syntax, pos, p.Errors[0], path)
	}

	modIt := eval.New(path)
	modIt.Loader = l
	modIt.Print = importer.Print
	if err := modIt.ExecProgram(stmts); err != nil {
		return nil, nerr.Wrap(nerr.InvocableNotFound, pos, err, moduleName)
	}

	l.mu.Lock()
	l.cache[path] = modIt.Scope
	l.mu.Unlock()
	return modIt.Scope, nil
}

// findModule searches the conventional paths for moduleName(.nft), a
// module/index.nft package layout, or a direct path when moduleName
// already carries the extension or a path separator.
func (l *Loader) findModule(moduleName string) (string, error) {
	if filepath.Ext(moduleName) == moduleExtension && fileExists(moduleName) {
		return moduleName, nil
	}
	for _, dir := range l.searchPath {
		direct := filepath.Join(dir, moduleName+moduleExtension)
		if fileExists(direct) {
			return direct, nil
		}
		indexed := filepath.Join(dir, moduleName, "index"+moduleExtension)
		if fileExists(indexed) {
			return indexed, nil
		}
	}
	return "", fmt.Errorf("module not found: %s", moduleName)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
