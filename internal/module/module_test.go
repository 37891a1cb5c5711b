package module

import (
	"os"
	"path/filepath"
	"testing"

	nerr "naftah/internal/errors"
	"naftah/internal/eval"
)

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+moduleExtension), []byte(src), 0644); err != nil {
		t.Fatalf("writing module %s: %v", name, err)
	}
}

func TestLoadWholeModuleNamespacesByPrefix(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math_helpers", `fn square(x) { return x * x } let pi = 3`)

	l := NewLoader()
	l.AddSearchPath(dir)
	it := eval.New("<test>")
	it.Loader = l

	if err := l.Load(it, "math_helpers", "", nerr.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := it.Scope.Lookup("math_helpers:pi"); !ok {
		t.Error("expected math_helpers:pi to be declared after a whole-module import")
	}
	if _, ok := it.Scope.Lookup("math_helpers:square"); !ok {
		t.Error("expected math_helpers:square to be declared after a whole-module import")
	}
}

func TestLoadWholeModuleWithAliasNamespacesByAlias(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math_helpers", `let pi = 3`)

	l := NewLoader()
	l.AddSearchPath(dir)
	it := eval.New("<test>")
	it.Loader = l

	if err := l.Load(it, "math_helpers", "m", nerr.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := it.Scope.Lookup("m:pi"); !ok {
		t.Error("expected m:pi to be declared when importing math_helpers as m")
	}
	if _, ok := it.Scope.Lookup("math_helpers:pi"); ok {
		t.Error("did not expect the unaliased prefix to be declared")
	}
}

func TestLoadQualifiedMemberImportsOnlyThatMember(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math_helpers", `let pi = 3
let e = 2`)

	l := NewLoader()
	l.AddSearchPath(dir)
	it := eval.New("<test>")
	it.Loader = l

	if err := l.Load(it, "math_helpers:pi", "", nerr.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := it.Scope.Lookup("pi"); !ok {
		t.Error("expected pi to be bound directly from a qualified member import")
	}
	if _, ok := it.Scope.Lookup("e"); ok {
		t.Error("did not expect e to leak in from a member-qualified import")
	}
}

func TestLoadQualifiedMemberWithAliasBindsAlias(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math_helpers", `let pi = 3`)

	l := NewLoader()
	l.AddSearchPath(dir)
	it := eval.New("<test>")
	it.Loader = l

	if err := l.Load(it, "math_helpers:pi", "p", nerr.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := it.Scope.Lookup("p"); !ok {
		t.Error("expected alias p to be bound from a qualified member import")
	}
}

func TestLoadMissingMemberReturnsVariableNotFound(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math_helpers", `let pi = 3`)

	l := NewLoader()
	l.AddSearchPath(dir)
	it := eval.New("<test>")
	it.Loader = l

	err := l.Load(it, "math_helpers:missing", "", nerr.Position{})
	if err == nil {
		t.Fatal("expected an error for a member absent from the module's globals")
	}
}

func TestLoadCachesModuleExecutionAcrossImports(t *testing.T) {
	dir := t.TempDir()
	// A module-level side effect (appending to a shared log via a builtin)
	// would run twice if loadModule didn't cache by resolved path; instead
	// assert the cached *scope.Scope is reused by checking a second import
	// of the same module still resolves without re-reading a deleted file.
	writeModule(t, dir, "once", `let marker = 1`)

	l := NewLoader()
	l.AddSearchPath(dir)
	it := eval.New("<test>")
	it.Loader = l

	if err := l.Load(it, "once", "", nerr.Position{}); err != nil {
		t.Fatalf("first import: unexpected error: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "once"+moduleExtension)); err != nil {
		t.Fatalf("removing module file: %v", err)
	}
	it2 := eval.New("<test>")
	it2.Loader = l
	if err := l.Load(it2, "once", "", nerr.Position{}); err != nil {
		t.Fatalf("second import should hit the cache, got error: %v", err)
	}
}

func TestLoadUnknownModuleReturnsInvocableNotFound(t *testing.T) {
	l := NewLoader()
	it := eval.New("<test>")
	it.Loader = l

	err := l.Load(it, "no_such_module", "", nerr.Position{})
	if err == nil {
		t.Fatal("expected an error for an unresolved module name")
	}
}

func TestFindModuleResolvesIndexedPackageLayout(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, "pkg")
	if err := os.Mkdir(pkgDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeModule(t, pkgDir, "index", `let loaded = 1`)

	l := NewLoader()
	l.AddSearchPath(dir)
	it := eval.New("<test>")
	it.Loader = l

	if err := l.Load(it, "pkg", "", nerr.Position{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := it.Scope.Lookup("pkg:loaded"); !ok {
		t.Error("expected pkg:loaded to be declared via the index.nft package layout")
	}
}
