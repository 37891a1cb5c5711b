package eval

import (
	"strings"
	"unicode"

	nerr "naftah/internal/errors"
	"naftah/internal/lexer"
	"naftah/internal/parser"
	"naftah/internal/value"
)

// expandInterpolation scans raw for the three interpolation markers spec
// §4.F.1 names — "${…}", "{…}$", and "{{…}}" — and substitutes each
// embedded field with its formatted value (spec §4.F.6), leaving every
// other rune untouched. A string literal with no marker returns raw
// unchanged (and no error), so callers can run every string literal
// through this unconditionally rather than pre-checking for "${".
func (it *Interp) expandInterpolation(raw string, pos nerr.Position) (string, error) {
	if !strings.ContainsAny(raw, "${") {
		return raw, nil
	}
	runes := []rune(raw)
	n := len(runes)
	var sb strings.Builder
	for i := 0; i < n; {
		switch {
		case i+1 < n && runes[i] == '$' && runes[i+1] == '{':
			inner, next, ok := scanBalanced(runes, i+2, '{', '}')
			if !ok {
				sb.WriteString(string(runes[i:]))
				i = n
				continue
			}
			formatted, err := it.formatInterpolationField(inner, pos)
			if err != nil {
				return "", err
			}
			sb.WriteString(formatted)
			i = next
		case i+1 < n && runes[i] == '{' && runes[i+1] == '{':
			j := i + 2
			for j+1 < n && !(runes[j] == '}' && runes[j+1] == '}') {
				j++
			}
			if j+1 >= n {
				sb.WriteString(string(runes[i:]))
				i = n
				continue
			}
			formatted, err := it.formatInterpolationField(string(runes[i+2:j]), pos)
			if err != nil {
				return "", err
			}
			sb.WriteString(formatted)
			i = j + 2
		case runes[i] == '{':
			if end, ok := findCloseBraceDollar(runes, i+1); ok {
				formatted, err := it.formatInterpolationField(string(runes[i+1:end]), pos)
				if err != nil {
					return "", err
				}
				sb.WriteString(formatted)
				i = end + 2
				continue
			}
			sb.WriteRune(runes[i])
			i++
		default:
			sb.WriteRune(runes[i])
			i++
		}
	}
	return sb.String(), nil
}

// scanBalanced reads runes[start:] up to the matching close for one
// already-consumed open, honoring nested open/close pairs of the same
// kind so an embedded object/map literal's own braces don't terminate
// the field early. Returns the field text and the index just past the
// matching close.
func scanBalanced(runes []rune, start int, open, close rune) (string, int, bool) {
	depth := 1
	j := start
	for j < len(runes) && depth > 0 {
		switch runes[j] {
		case open:
			depth++
		case close:
			depth--
		}
		if depth == 0 {
			return string(runes[start:j]), j + 1, true
		}
		j++
	}
	return "", 0, false
}

// findCloseBraceDollar locates the "}$" two-rune close marker for the
// "{…}$" interpolation form, starting the scan at start.
func findCloseBraceDollar(runes []rune, start int) (int, bool) {
	for j := start; j+1 < len(runes); j++ {
		if runes[j] == '}' && runes[j+1] == '$' {
			return j, true
		}
	}
	return 0, false
}

// formatInterpolationField renders one interpolated field's text
// (spec §4.F.6): a "name:default" form resolves name against the current
// scope and falls back to the literal default text verbatim when
// unbound; a bare identifier that isn't bound resolves to "<فارغ>" with
// no error (spec §4.F.1); anything else is evaluated as a full
// expression.
func (it *Interp) formatInterpolationField(field string, pos nerr.Position) (string, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return "", nil
	}
	if name, def, ok := splitNameDefault(field); ok {
		if decl, found := it.Scope.Lookup(name); found {
			return it.formatValue(it.declToValue(decl)), nil
		}
		return def, nil
	}
	if isBareIdentifier(field) {
		decl, found := it.Scope.Lookup(field)
		if !found {
			return "<فارغ>", nil
		}
		return it.formatValue(it.declToValue(decl)), nil
	}
	v, err := it.evalExpressionText(field, pos)
	if err != nil {
		return "", err
	}
	return it.formatValue(v), nil
}

// formatValue renders v per spec §4.F.6: null/none print as "<فارغ>"
// (distinct from Null.String()'s ordinary "null" rendering used outside
// interpolation); every other value already formats itself correctly
// through Value.String() (DynNum's Arabic digits/separator, Boolean's
// صحيح/خطأ, the containers' "kind: [elements]" shape).
func (it *Interp) formatValue(v value.Value) string {
	switch v.(type) {
	case value.Null, value.None:
		return "<فارغ>"
	}
	return v.String()
}

// splitNameDefault recognizes the "name:default" interpolation form: name
// must be a bare identifier so "طابق:سقف" (a qualified name) isn't
// mistaken for "طابق" with a default of "سقف".
func splitNameDefault(field string) (name, def string, ok bool) {
	idx := strings.IndexRune(field, ':')
	if idx < 0 {
		return "", "", false
	}
	candidate := strings.TrimSpace(field[:idx])
	if !isBareIdentifier(candidate) {
		return "", "", false
	}
	return candidate, strings.TrimSpace(field[idx+1:]), true
}

// isBareIdentifier reports whether s is a single identifier token per
// spec §6 ("[letters][letters|digits]*", letters drawn from Arabic
// Unicode blocks; Latin letters/underscore accepted too since this
// lexer's own identifier() production does the same).
func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// evalExpressionText lexes and parses text as a standalone expression
// statement and evaluates it over the current scope, the same
// lexer->parser->eval pipeline internal/module and internal/repl drive
// over a whole file/line, applied here to one embedded interpolation
// field.
func (it *Interp) evalExpressionText(text string, pos nerr.Position) (value.Value, error) {
	scanner := lexer.NewScanner(text)
	tokens := scanner.ScanTokens()
	p := parser.NewParserWithSource(tokens, text, it.File)
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		return nil, nerr.Wrap(nerr.Syntax, pos, p.Errors[0], text)
	}
	if len(stmts) != 1 {
		return nil, nerr.New(nerr.Syntax, pos, text)
	}
	es, ok := stmts[0].(*parser.ExpressionStmt)
	if !ok {
		return nil, nerr.New(nerr.Syntax, pos, text)
	}
	return it.Eval(es.Expr)
}
