// Package repl implements the no-argument interactive front-end spec §6
// names at the CLI boundary. The terminal UI itself (line editing,
// bidirectional text shaping) is the "REPL terminal front-end" spec §1
// explicitly excludes as an external collaborator; this is the thin
// read-eval-print loop left behind once that UI layer is stripped out,
// grounded on the teacher's own Start() shape (internal/repl/repl.go)
// with the bytecode compiler/VM it drove replaced by naftah's own
// lexer/parser/eval pipeline.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	nerr "naftah/internal/errors"
	"naftah/internal/eval"
	"naftah/internal/lexer"
	"naftah/internal/module"
	"naftah/internal/parser"
)

// Start reads one line at a time from in, evaluates it against a single
// persistent Interp (so declarations make across lines, spec §4.D), and
// prints either the resulting value or a formatted error to out/errOut.
// A history file path, if non-empty, records each accepted input line
// (spec §6 "Persisted state: history file ... one interactive input per
// line").
func Start(in io.Reader, out, errOut io.Writer, historyPath string) {
	fmt.Fprintln(out, "نفتاح | اكتب 'خروج' للإنهاء")
	scanner := bufio.NewScanner(in)

	it := eval.New("<تفاعلي>")
	loader := module.NewLoader()
	it.Loader = loader
	it.Print = func(s string) { fmt.Fprintln(out, s) }

	var history *os.File
	if historyPath != "" {
		f, err := os.OpenFile(historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			history = f
			defer history.Close()
		}
	}

	for {
		fmt.Fprint(out, ">>> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "خروج" || line == "exit" {
			break
		}
		if line == "" {
			continue
		}
		if history != nil {
			fmt.Fprintln(history, line)
		}

		result, err := evalLine(it, line)
		if err != nil {
			fmt.Fprintln(errOut, formatError(err))
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
}

func evalLine(it *eval.Interp, line string) (string, error) {
	scn := lexer.NewScanner(line)
	tokens := scn.ScanTokens()
	p := parser.NewParserWithSource(tokens, line, it.File)
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		return "", nerr.Wrap(nerr.Syntax, nerr.Position{File: it.File}, p.Errors[0])
	}
	if len(stmts) == 0 {
		return "", nil
	}
	// A bare trailing expression statement prints its value, matching an
	// interactive session's usual "show me what that evaluated to" habit;
	// every other statement form just executes for effect.
	if es, ok := stmts[len(stmts)-1].(*parser.ExpressionStmt); ok {
		if err := it.ExecProgram(stmts[:len(stmts)-1]); err != nil {
			return "", err
		}
		v, err := it.Eval(es.Expr)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
	if err := it.ExecProgram(stmts); err != nil {
		return "", err
	}
	return "", nil
}

func formatError(err error) string {
	if nerr.IsInternal(err) {
		return "خطأ داخلي: " + err.Error()
	}
	return err.Error()
}
