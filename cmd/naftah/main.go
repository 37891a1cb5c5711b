// cmd/naftah/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"naftah/internal/config"
	nerr "naftah/internal/errors"
	"naftah/internal/eval"
	"naftah/internal/hostbridge"
	"naftah/internal/lexer"
	"naftah/internal/module"
	"naftah/internal/parser"
	"naftah/internal/repl"
)

// exit codes per spec §6: 0 success, 1 user error, 2 internal bug.
const (
	exitSuccess = 0
	exitUser    = 1
	exitBug     = 2
)

func main() {
	cfg := config.Load()
	applyConfig(cfg)

	args := os.Args[1:]
	switch {
	case len(args) >= 2 && args[0] == "--file":
		os.Exit(runFile(args[1], cfg))
	case len(args) >= 2 && args[0] == "--expression":
		os.Exit(runExpression(args[1], cfg))
	case len(args) == 0:
		historyPath := defaultHistoryPath()
		repl.Start(os.Stdin, os.Stdout, os.Stderr, historyPath)
		os.Exit(exitSuccess)
	default:
		fmt.Fprintln(os.Stderr, "الاستخدام: naftah [--file PATH | --expression EXPR]")
		os.Exit(exitUser)
	}
}

// applyConfig wires the environment-configured surface (spec §6) into the
// runtime components that read it: naftah.reflect.max-depth caps the Host
// Interop Bridge's Object-to-map conversion depth. naftah.locale is read
// but not applied here: only the Arabic error message bundle ships with
// the runtime. naftah.reflect.active gates whether a
// ClassDirectory is ever Bind-ed; since this core module never bundles a
// concrete HostClassDirectory implementation itself (spec §1 excludes the
// classpath scanner as an external collaborator), an embedding binary
// wiring hostbridge.Bind checks this flag before doing so.
func applyConfig(cfg config.Config) {
	hostbridge.SetMaxReflectDepth(cfg.ReflectMaxDepth)
	if cfg.Locale != "" && cfg.Locale != "ar" {
		// Only the Arabic default bundle ships with the runtime (spec §1
		// excludes translit/locale resource bundles as external pure
		// lookup tables); a non-Arabic locale is a no-op here until an
		// embedding binary calls errors.SetBundle with its own table.
		_ = cfg.Locale
	}
}

func runFile(path string, cfg config.Config) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "تعذّرت قراءة الملف: %v\n", err)
		return exitUser
	}
	return run(string(source), path, cfg)
}

func runExpression(expr string, cfg config.Config) int {
	return run(expr, "<تعبير>", cfg)
}

func run(source, file string, cfg config.Config) int {
	scanner := lexer.NewScanner(source)
	tokens := scanner.ScanTokens()
	if cfg.Debug {
		for _, t := range tokens {
			fmt.Fprintln(os.Stderr, t.String())
		}
	}

	p := parser.NewParserWithSource(tokens, source, file)
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		fmt.Fprintln(os.Stderr, nerr.Wrap(nerr.Syntax, nerr.Position{File: file}, p.Errors[0]).Error())
		return exitUser
	}

	it := eval.New(file)
	loader := module.NewLoader()
	loader.AddSearchPath(filepath.Dir(file))
	it.Loader = loader

	runErr := execWithLastValue(it, stmts)
	if runErr == nil {
		return exitSuccess
	}
	fmt.Fprintln(os.Stderr, runErr.Error())
	if nerr.IsInternal(runErr) {
		return exitBug
	}
	return exitUser
}

// execWithLastValue runs stmts as a program, printing a trailing bare
// expression statement's value the way --expression's single-line
// evaluation form is expected to surface a result (spec §6: "--expression
// EXPR to evaluate one expression").
func execWithLastValue(it *eval.Interp, stmts []parser.Stmt) error {
	if len(stmts) == 0 {
		return nil
	}
	if es, ok := stmts[len(stmts)-1].(*parser.ExpressionStmt); ok {
		if err := it.ExecProgram(stmts[:len(stmts)-1]); err != nil {
			return err
		}
		v, err := it.Eval(es.Expr)
		if err != nil {
			return err
		}
		fmt.Println(v.String())
		return nil
	}
	return it.ExecProgram(stmts)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".naftah_history")
}
