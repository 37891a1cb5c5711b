package eval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"naftah/internal/concurrency"
	nerr "naftah/internal/errors"
	"naftah/internal/ops"
	"naftah/internal/parser"
	"naftah/internal/scope"
	"naftah/internal/temporal"
	"naftah/internal/value"
)

// Signal is the tree-walking control-flow result a statement can produce,
// composing with Go's own error return the way the teacher's vm.Run loop
// composes an opcode result with a runtime panic/recover (spec §4.F.5).
type Signal int

const (
	SigNone Signal = iota
	SigBreak
	SigContinue
	SigReturn
)

// exprOut/stmtOut box a visit's real result behind Accept's
// interface{} return, since parser.ExprVisitor/StmtVisitor methods were
// defined with a single untyped return long before this evaluator
// existed. Eval/Exec do the one type assertion back out.
type exprOut struct {
	val value.Value
	err error
}

type stmtOut struct {
	sig   Signal
	label string
	ret   value.Value
	err   error
}

// ThrownValue carries a user `throw expr` payload through Go's error
// channel so try/catch can hand the caller back the exact thrown value
// rather than a stringified message (spec §4.F "exceptions").
type ThrownValue struct {
	Value value.Value
	Pos   nerr.Position
}

func (t *ThrownValue) Error() string { return t.Value.String() }

// errorToValue converts any error the evaluator produced into the
// value bound to a catch clause's variable: a user ThrownValue unwraps
// to its original Value; any other naftah error becomes its message
// text (spec §4.H errors are always printable; catch sees the message,
// not a structured object, matching §4.F's plain text crash report).
func errorToValue(err error) value.Value {
	if tv, ok := err.(*ThrownValue); ok {
		return tv.Value
	}
	return value.String(err.Error())
}

// Interp drives one evaluation of a naftah program (or one task body)
// over a shared or snapshotted Scope (spec §4.F/§4.G).
type Interp struct {
	Scope   *scope.Scope
	File    string
	Print   func(string)
	Loader  ModuleLoader
	Context *concurrency.ContextMap
	region  *concurrency.Region
	taskCtx context.Context
}

// ModuleLoader resolves an `import` path/name to the declarations it
// exports, the seam spec §4.D's Import operation defers to an external
// module resolver (mirroring the Host Interop Bridge's ClassDirectory
// seam rather than this package walking a filesystem itself).
type ModuleLoader interface {
	Load(it *Interp, pathOrName, alias string, pos nerr.Position) error
}

// New creates a top-level interpreter over a fresh global scope.
func New(file string) *Interp {
	it := &Interp{
		Scope:   scope.New(),
		File:    file,
		Print:   func(s string) { fmt.Println(s) },
		Context: concurrency.NewContextMap(),
		taskCtx: context.Background(),
	}
	it.InstallBuiltins()
	it.installHostBuiltins()
	return it
}

// pos produces the best position information currently available. The
// scanner/parser track line/column per token (spec §4.H), but the AST
// node types defined in internal/parser don't carry a position field
// through to evaluation time; until that's added, runtime errors report
// file-only positions rather than a precise line/column.
func (it *Interp) pos() nerr.Position {
	return nerr.Position{File: it.File}
}

// Eval evaluates an expression to a Value.
func (it *Interp) Eval(e parser.Expr) (value.Value, error) {
	out := e.Accept(it).(exprOut)
	return out.val, out.err
}

// Exec executes one statement.
func (it *Interp) Exec(s parser.Stmt) stmtOut {
	return s.Accept(it).(stmtOut)
}

// ExecProgram runs a full statement list as the top-level program body.
func (it *Interp) ExecProgram(stmts []parser.Stmt) error {
	for _, s := range stmts {
		it.Scope.ResetChainRegister()
		out := it.Exec(s)
		if out.err != nil {
			return out.err
		}
		if out.sig != SigNone {
			return nerr.New(nerr.OrphanSignal, it.pos())
		}
	}
	return nil
}

// execBlock runs stmts in a fresh child frame, propagating the first
// non-None signal or error outward without popping control back to the
// caller's own frame handling (the caller decides what a Break/Continue/
// Return means; execBlock only scopes names).
func (it *Interp) execBlock(stmts []parser.Stmt) stmtOut {
	it.Scope.Push()
	defer it.Scope.Pop()
	for _, s := range stmts {
		it.Scope.ResetChainRegister()
		out := it.Exec(s)
		if out.sig != SigNone || out.err != nil {
			return out
		}
	}
	return stmtOut{}
}

// evalBlockExpr runs a block used in expression position: its value is
// the last expression statement's value, or None if the block ends on a
// non-expression statement or is empty (spec §4.F "block expression").
func (it *Interp) evalBlockExpr(stmts []parser.Stmt) exprOut {
	it.Scope.Push()
	defer it.Scope.Pop()
	var last value.Value = value.None{}
	for i, s := range stmts {
		it.Scope.ResetChainRegister()
		if es, ok := s.(*parser.ExpressionStmt); ok && i == len(stmts)-1 {
			v, err := it.Eval(es.Expr)
			if err != nil {
				return exprOut{err: err}
			}
			last = v
			continue
		}
		out := it.Exec(s)
		if out.err != nil {
			return exprOut{err: out.err}
		}
		if out.sig != SigNone {
			// A block expression containing a control-flow statement
			// (return/break/continue) reports the signal as an orphan
			// error since it has nowhere to escape to from expression
			// position; the enclosing loop/function visitor catches its
			// own statement-form blocks before ever reaching here.
			return exprOut{err: nerr.New(nerr.OrphanSignal, it.pos())}
		}
	}
	return exprOut{val: last}
}

// --- ExprVisitor ---

func (it *Interp) VisitBinaryExpr(expr *parser.Binary) interface{} {
	kind, ok := binaryKindForOp(expr.Operator)
	if !ok {
		return exprOut{err: nerr.Internalf(it.pos(), "عامل ثنائي غير معروف: %s", expr.Operator)}
	}
	left, err := it.Eval(expr.Left)
	if err != nil {
		return exprOut{err: err}
	}
	// Short-circuit before evaluating the right operand; the chosen
	// operand is returned as-is, not coerced to Boolean (spec §4.C.5:
	// "a && b returns b when a is truthy else a; a || b returns a when
	// truthy else b"), matching ops.Binary's own And/Or cases.
	if kind == ops.And {
		if !value.Truthy(left) {
			return exprOut{val: left}
		}
		right, err := it.Eval(expr.Right)
		if err != nil {
			return exprOut{err: err}
		}
		return exprOut{val: right}
	}
	if kind == ops.Or {
		if value.Truthy(left) {
			return exprOut{val: left}
		}
		right, err := it.Eval(expr.Right)
		if err != nil {
			return exprOut{err: err}
		}
		return exprOut{val: right}
	}
	right, err := it.Eval(expr.Right)
	if err != nil {
		return exprOut{err: err}
	}
	v, err := ops.Binary(kind, left, right, it.pos())
	return exprOut{val: v, err: err}
}

func binaryKindForOp(op string) (ops.BinaryKind, bool) {
	switch op {
	case "+":
		return ops.Add, true
	case "-":
		return ops.Sub, true
	case "*":
		return ops.Mul, true
	case "/":
		return ops.Div, true
	case "%":
		return ops.Mod, true
	case "**":
		return ops.Pow, true
	case "<":
		return ops.Lt, true
	case "<=":
		return ops.Le, true
	case ">":
		return ops.Gt, true
	case ">=":
		return ops.Ge, true
	case "==":
		return ops.Eq, true
	case "!=":
		return ops.Ne, true
	case "&&":
		return ops.And, true
	case "||":
		return ops.Or, true
	case "&":
		return ops.BitAnd, true
	case "|":
		return ops.BitOr, true
	case "^":
		return ops.BitXor, true
	case "<<":
		return ops.Shl, true
	case ">>":
		return ops.Shr, true
	case ">>>":
		return ops.Ushr, true
	case ".+.":
		return ops.ElemAdd, true
	case ".-.":
		return ops.ElemSub, true
	case ".*.":
		return ops.ElemMul, true
	case "./.":
		return ops.ElemDiv, true
	case ".%.":
		return ops.ElemMod, true
	case "instanceof":
		return ops.InstanceOf, true
	}
	return 0, false
}

func (it *Interp) VisitLiteralExpr(expr *parser.Literal) interface{} {
	switch x := expr.Value.(type) {
	case nil:
		return exprOut{val: value.Null{}}
	case bool:
		return exprOut{val: value.Boolean(x)}
	case string:
		if n, ok := tryTemporalLiteral(x, it.pos()); ok {
			return exprOut{val: n}
		}
		expanded, err := it.expandInterpolation(x, it.pos())
		if err != nil {
			return exprOut{err: err}
		}
		return exprOut{val: value.String(expanded)}
	case float64:
		n, err := value.ParseNumberLiteral(formatFloatLiteral(x), it.pos())
		return exprOut{val: value.Number{N: n}, err: err}
	default:
		return exprOut{err: nerr.Internalf(it.pos(), "نوع حرفي غير مدعوم")}
	}
}

// tryTemporalLiteral lets a string literal double as a temporal literal
// when it parses as one (spec §4.I: date/time/duration/period literals
// are lexically strings until the temporal grammar recognizes them).
func tryTemporalLiteral(s string, pos nerr.Position) (value.Value, bool) {
	result, err := temporal.Parse(s, pos)
	if err != nil {
		return nil, false
	}
	switch x := result.(type) {
	case *temporal.Point:
		return temporal.PointValue{Point: x}, true
	case temporal.AmountValue:
		return x, true
	}
	return nil, false
}

func formatFloatLiteral(f float64) string {
	s := fmt.Sprintf("%v", f)
	return s
}

func (it *Interp) VisitVariableExpr(expr *parser.Variable) interface{} {
	if member, ok := scope.IsChainReuse(expr.Name); ok {
		receiver := it.Scope.ChainRegister()
		return it.lookupQualified(receiver, member)
	}
	if receiver, member, ok := scope.SplitReceiverMember(expr.Name); ok {
		it.Scope.SetChainRegister(receiver)
		return it.lookupQualified(receiver, member)
	}
	base, _ := scope.OverloadIndex(expr.Name)
	decl, ok := it.Scope.Lookup(base)
	if !ok {
		return exprOut{err: nerr.New(nerr.VariableNotFound, it.pos(), base)}
	}
	return exprOut{val: it.declToValue(decl)}
}

func (it *Interp) lookupQualified(receiver, member string) interface{} {
	decl, ok := it.Scope.Lookup(receiver)
	if !ok {
		return exprOut{err: nerr.New(nerr.VariableNotFound, it.pos(), receiver)}
	}
	impl, ok := decl.(*scope.Implementation)
	if !ok {
		return exprOut{err: nerr.New(nerr.InvocableNotFound, it.pos(), receiver+"::"+member)}
	}
	fns, ok := impl.Functions[member]
	if !ok || len(fns) == 0 {
		return exprOut{err: nerr.New(nerr.InvocableNotFound, it.pos(), member)}
	}
	return exprOut{val: it.functionValue(fns[0])}
}

// declToValue reads a declaration's current value for expression use. A
// Function declaration wraps itself as a first-class FunctionValue so it
// can be passed around and still invoked through callValue.
func (it *Interp) declToValue(d scope.Declaration) value.Value {
	switch x := d.(type) {
	case *scope.Function:
		return it.functionValue(x)
	default:
		v := scope.CurrentValue(d)
		if v == nil {
			return value.Null{}
		}
		return v
	}
}

func (it *Interp) functionValue(fn *scope.Function) *FunctionValue {
	body, _ := fn.BodyRef.(*parser.FunctionStmt)
	var stmts []parser.Stmt
	if body != nil {
		stmts = body.Body
	}
	params := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = p.Name
	}
	return &FunctionValue{Name: fn.Name, Params: params, Body: stmts, Closure: it.Scope, IsAsync: fn.IsAsync}
}

func (it *Interp) VisitAssignExpr(expr *parser.Assign) interface{} {
	v, err := it.Eval(expr.Value)
	if err != nil {
		return exprOut{err: err}
	}
	if err := it.Scope.Assign(expr.Name, v, it.pos()); err != nil {
		return exprOut{err: err}
	}
	return exprOut{val: v}
}

func (it *Interp) VisitCallExpr(expr *parser.CallExpr) interface{} {
	v, err := it.evalCall(expr.Callee, expr.Args)
	return exprOut{val: v, err: err}
}

func (it *Interp) evalCall(calleeExpr parser.Expr, argExprs []parser.Expr) (value.Value, error) {
	if v, ok := calleeExpr.(*parser.Variable); ok {
		name := v.Name
		if member, ok := scope.IsChainReuse(name); ok {
			receiver := it.Scope.ChainRegister()
			return it.callQualified(receiver, member, argExprs)
		}
		if receiver, member, ok := scope.SplitReceiverMember(name); ok {
			it.Scope.SetChainRegister(receiver)
			return it.callQualified(receiver, member, argExprs)
		}
		base, _ := scope.OverloadIndex(name)
		decl, ok := it.Scope.Lookup(base)
		if !ok {
			return nil, nerr.New(nerr.VariableNotFound, it.pos(), base)
		}
		if fn, ok := decl.(*scope.Function); ok {
			return it.callFunctionValue(it.functionValue(fn), argExprs)
		}
		val := it.declToValue(decl)
		return it.callValue(val, argExprs)
	}
	if prop, ok := calleeExpr.(*parser.PropertyExpr); ok {
		recv, err := it.Eval(prop.Object)
		if err != nil {
			return nil, err
		}
		if obj, ok := recv.(*value.Object); ok {
			if d, ok := obj.Fields[prop.Property]; ok {
				if sd, ok := d.(scope.Declaration); ok {
					return it.callValue(it.declToValue(sd), argExprs)
				}
			}
		}
		if host, ok := recv.(value.HostObject); ok {
			return it.callHostMethod(host, prop.Property, argExprs)
		}
		return nil, nerr.New(nerr.InvocableNotFound, it.pos(), prop.Property)
	}
	val, err := it.Eval(calleeExpr)
	if err != nil {
		return nil, err
	}
	return it.callValue(val, argExprs)
}

func (it *Interp) callQualified(receiver, member string, argExprs []parser.Expr) (value.Value, error) {
	decl, ok := it.Scope.Lookup(receiver)
	if !ok {
		return nil, nerr.New(nerr.VariableNotFound, it.pos(), receiver)
	}
	impl, ok := decl.(*scope.Implementation)
	if !ok {
		return nil, nerr.New(nerr.InvocableNotFound, it.pos(), receiver+"::"+member)
	}
	base, idx := scope.OverloadIndex(member)
	fns, ok := impl.Functions[base]
	if !ok || len(fns) == 0 {
		return nil, nerr.New(nerr.InvocableNotFound, it.pos(), member)
	}
	chosen := fns[0]
	if idx > 0 && idx <= len(fns) {
		chosen = fns[idx-1]
	}
	return it.callFunctionValue(it.functionValue(chosen), argExprs)
}

func (it *Interp) callValue(v value.Value, argExprs []parser.Expr) (value.Value, error) {
	switch fn := v.(type) {
	case *FunctionValue:
		return it.callFunctionValue(fn, argExprs)
	case *BuiltinFunction:
		args, err := it.evalArgs(argExprs)
		if err != nil {
			return nil, err
		}
		return fn.Fn(it, args, it.pos())
	default:
		return nil, nerr.New(nerr.InvocableNotFound, it.pos(), "القيمة غير قابلة للاستدعاء")
	}
}

func (it *Interp) evalArgs(argExprs []parser.Expr) ([]value.Value, error) {
	args := make([]value.Value, len(argExprs))
	for i, a := range argExprs {
		v, err := it.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (it *Interp) callFunctionValue(fn *FunctionValue, argExprs []parser.Expr) (value.Value, error) {
	args, err := it.evalArgs(argExprs)
	if err != nil {
		return nil, err
	}
	return it.invoke(fn, args)
}

// invoke runs fn's body over its captured scope with args bound
// positionally to its declared parameters, returning the function's
// explicit return value (or None if it falls off the end).
func (it *Interp) invoke(fn *FunctionValue, args []value.Value) (value.Value, error) {
	callScope := fn.Closure
	if callScope == nil {
		callScope = it.Scope
	}
	sub := &Interp{Scope: callScope, File: it.File, Print: it.Print, Loader: it.Loader, Context: it.Context, region: it.region, taskCtx: it.taskCtx}
	sub.Scope.Push()
	defer sub.Scope.Pop()
	for i, name := range fn.Params {
		var v value.Value = value.None{}
		if i < len(args) {
			v = args[i]
		}
		sub.Scope.Declare(name, &scope.Parameter{Name: name, CurrentValue: v, IsUpdated: true, DeclaredDepth: sub.Scope.Depth()})
	}
	if fn.Self != nil {
		sub.Scope.Declare("نفسه", &scope.Variable{Name: "نفسه", CurrentValue: fn.Self, IsUpdated: true, DeclaredDepth: sub.Scope.Depth()})
	}
	var result stmtOut
	for _, s := range fn.Body {
		sub.Scope.ResetChainRegister()
		result = sub.Exec(s)
		if result.err != nil {
			return nil, result.err
		}
		if result.sig == SigReturn {
			return result.ret, nil
		}
		if result.sig != SigNone {
			return nil, nerr.New(nerr.OrphanSignal, it.pos())
		}
	}
	return value.None{}, nil
}

func (it *Interp) VisitIfExpr(expr *parser.IfExpr) interface{} {
	cond, err := it.Eval(expr.Cond)
	if err != nil {
		return exprOut{err: err}
	}
	if value.Truthy(cond) {
		v, err := it.Eval(expr.ThenBranch)
		return exprOut{val: v, err: err}
	}
	if expr.ElseBranch != nil {
		v, err := it.Eval(expr.ElseBranch)
		return exprOut{val: v, err: err}
	}
	return exprOut{val: value.None{}}
}

func (it *Interp) VisitBlockExpr(expr *parser.BlockExpr) interface{} {
	return it.evalBlockExpr(expr.Stmts)
}

func (it *Interp) VisitArrayExpr(expr *parser.ArrayExpr) interface{} {
	elems := make([]value.Value, len(expr.Elements))
	for i, e := range expr.Elements {
		v, err := it.Eval(e)
		if err != nil {
			return exprOut{err: err}
		}
		elems[i] = v
	}
	return exprOut{val: &value.List{Elements: elems}}
}

func (it *Interp) VisitMapExpr(expr *parser.MapExpr) interface{} {
	m := value.NewMap(true)
	for i := range expr.Keys {
		k, err := it.Eval(expr.Keys[i])
		if err != nil {
			return exprOut{err: err}
		}
		v, err := it.Eval(expr.Values[i])
		if err != nil {
			return exprOut{err: err}
		}
		m.Set(k, v)
	}
	return exprOut{val: m}
}

func (it *Interp) VisitIndexExpr(expr *parser.IndexExpr) interface{} {
	obj, err := it.Eval(expr.Object)
	if err != nil {
		return exprOut{err: err}
	}
	idx, err := it.Eval(expr.Index)
	if err != nil {
		return exprOut{err: err}
	}
	v, err := it.indexGet(obj, idx)
	return exprOut{val: v, err: err}
}

func (it *Interp) indexGet(obj, idx value.Value) (value.Value, error) {
	switch c := obj.(type) {
	case *value.List:
		i, err := indexAsInt(idx, it.pos())
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(c.Elements) {
			return nil, nerr.New(nerr.IndexOutOfBounds, it.pos(), i)
		}
		return c.Elements[i], nil
	case *value.Tuple:
		i, err := indexAsInt(idx, it.pos())
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(c.Elements) {
			return nil, nerr.New(nerr.IndexOutOfBounds, it.pos(), i)
		}
		return c.Elements[i], nil
	case *value.Map:
		v, ok := c.Get(idx)
		if !ok {
			return nil, nerr.New(nerr.KeyNotFound, it.pos(), idx.String())
		}
		return v, nil
	case value.String:
		i, err := indexAsInt(idx, it.pos())
		if err != nil {
			return nil, err
		}
		runes := []rune(string(c))
		if i < 0 || i >= len(runes) {
			return nil, nerr.New(nerr.IndexOutOfBounds, it.pos(), i)
		}
		return value.Char(runes[i]), nil
	default:
		return nil, nerr.New(nerr.TypeMismatch, it.pos(), "لا يدعم هذا النوع الفهرسة")
	}
}

func indexAsInt(v value.Value, pos nerr.Position) (int, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, nerr.New(nerr.TypeMismatch, pos, "الفهرس يجب أن يكون رقماً")
	}
	return int(n.N.AsBigInt().Int64()), nil
}

func (it *Interp) VisitSetIndexExpr(expr *parser.SetIndexExpr) interface{} {
	obj, err := it.Eval(expr.Object)
	if err != nil {
		return exprOut{err: err}
	}
	idx, err := it.Eval(expr.Index)
	if err != nil {
		return exprOut{err: err}
	}
	val, err := it.Eval(expr.Value)
	if err != nil {
		return exprOut{err: err}
	}
	if err := it.indexSet(obj, idx, val); err != nil {
		return exprOut{err: err}
	}
	return exprOut{val: val}
}

func (it *Interp) indexSet(obj, idx, val value.Value) error {
	switch c := obj.(type) {
	case *value.List:
		i, err := indexAsInt(idx, it.pos())
		if err != nil {
			return err
		}
		if i < 0 || i >= len(c.Elements) {
			return nerr.New(nerr.IndexOutOfBounds, it.pos(), i)
		}
		c.Elements[i] = val
		return nil
	case *value.Map:
		c.Set(idx, val)
		return nil
	default:
		return nerr.New(nerr.TypeMismatch, it.pos(), "لا يدعم هذا النوع الإسناد بالفهرس")
	}
}

func (it *Interp) VisitUnaryExpr(expr *parser.UnaryExpr) interface{} {
	v, err := it.Eval(expr.Operand)
	if err != nil {
		return exprOut{err: err}
	}
	kind, ok := unaryKindForOp(expr.Operator)
	if !ok {
		return exprOut{err: nerr.Internalf(it.pos(), "عامل أحادي غير معروف: %s", expr.Operator)}
	}
	result, toStore, err := ops.Unary(kind, v, it.pos())
	if err != nil {
		return exprOut{err: err}
	}
	if kind == ops.PreIncrement || kind == ops.PostIncrement || kind == ops.PreDecrement || kind == ops.PostDecrement {
		if name, ok := expr.Operand.(*parser.Variable); ok {
			if err := it.Scope.Assign(name.Name, toStore, it.pos()); err != nil {
				return exprOut{err: err}
			}
		}
	}
	return exprOut{val: result}
}

func unaryKindForOp(op string) (ops.UnaryKind, bool) {
	switch op {
	case "+":
		return ops.Plus, true
	case "-":
		return ops.Minus, true
	case "!":
		return ops.Not, true
	case "~":
		return ops.BitNot, true
	case "++":
		return ops.PreIncrement, true
	case "--":
		return ops.PreDecrement, true
	}
	return 0, false
}

func (it *Interp) VisitLogicalExpr(expr *parser.LogicalExpr) interface{} {
	left, err := it.Eval(expr.Left)
	if err != nil {
		return exprOut{err: err}
	}
	if expr.Operator == "&&" {
		if !value.Truthy(left) {
			return exprOut{val: left}
		}
	} else if value.Truthy(left) {
		return exprOut{val: left}
	}
	right, err := it.Eval(expr.Right)
	if err != nil {
		return exprOut{err: err}
	}
	return exprOut{val: right}
}

func (it *Interp) VisitInterpolationExpr(expr *parser.InterpolationExpr) interface{} {
	var sb strings.Builder
	for _, part := range expr.Parts {
		v, err := it.Eval(part)
		if err != nil {
			return exprOut{err: err}
		}
		sb.WriteString(it.formatValue(v))
	}
	return exprOut{val: value.String(sb.String())}
}

func (it *Interp) VisitLambdaExpr(expr *parser.LambdaExpr) interface{} {
	return exprOut{val: &FunctionValue{Params: expr.Params, Body: []parser.Stmt{&parser.ReturnStmt{Value: expr.Body}}, Closure: it.Scope}}
}

func (it *Interp) VisitPropertyExpr(expr *parser.PropertyExpr) interface{} {
	obj, err := it.Eval(expr.Object)
	if err != nil {
		return exprOut{err: err}
	}
	switch o := obj.(type) {
	case *value.Object:
		d, ok := o.Fields[expr.Property]
		if !ok {
			return exprOut{err: nerr.New(nerr.KeyNotFound, it.pos(), expr.Property)}
		}
		if sd, ok := d.(scope.Declaration); ok {
			return exprOut{val: it.declToValue(sd)}
		}
		return exprOut{val: value.Null{}}
	case temporal.PointValue, temporal.AmountValue:
		return exprOut{val: value.String(obj.String())}
	default:
		return exprOut{err: nerr.New(nerr.TypeMismatch, it.pos(), "لا يدعم هذا النوع الوصول إلى الحقول")}
	}
}

func (it *Interp) VisitTupleExpr(expr *parser.TupleExpr) interface{} {
	elems := make([]value.Value, len(expr.Elements))
	for i, e := range expr.Elements {
		v, err := it.Eval(e)
		if err != nil {
			return exprOut{err: err}
		}
		elems[i] = v
	}
	switch len(elems) {
	case 2:
		return exprOut{val: value.Pair{First: elems[0], Second: elems[1]}}
	case 3:
		return exprOut{val: value.Triple{First: elems[0], Second: elems[1], Third: elems[2]}}
	default:
		return exprOut{val: &value.Tuple{Elements: elems}}
	}
}

func (it *Interp) VisitObjectExpr(expr *parser.ObjectExpr) interface{} {
	obj := value.NewObject()
	for i, name := range expr.Fields {
		v, err := it.Eval(expr.Values[i])
		if err != nil {
			return exprOut{err: err}
		}
		obj.Set(name, &scope.Variable{Name: name, CurrentValue: v, IsUpdated: true})
	}
	return exprOut{val: obj}
}

func (it *Interp) VisitSpawnExpr(expr *parser.SpawnExpr) interface{} {
	parentCtx := it.taskCtx
	if it.region != nil {
		parentCtx = it.region.Context()
	}
	task := concurrency.NewTask(parentCtx)
	snapshot := it.Scope.Snapshot()
	err := task.Spawn(func(ctx context.Context) (interface{}, error) {
		sub := &Interp{Scope: snapshot, File: it.File, Print: it.Print, Loader: it.Loader, Context: it.Context.Inherit(), taskCtx: ctx}
		v, err := sub.Eval(expr.Body)
		return v, err
	})
	if err != nil {
		return exprOut{err: err}
	}
	if it.region != nil {
		it.region.Track(task)
	}
	return exprOut{val: &TaskValue{Task: task}}
}

func (it *Interp) VisitAwaitExpr(expr *parser.AwaitExpr) interface{} {
	v, err := it.Eval(expr.Task)
	if err != nil {
		return exprOut{err: err}
	}
	tv, ok := v.(*TaskValue)
	if !ok {
		return exprOut{err: nerr.New(nerr.TypeMismatch, it.pos(), "القيمة ليست مهمة قابلة للانتظار")}
	}
	if expr.Timeout != nil {
		tov, err := it.Eval(expr.Timeout)
		if err != nil {
			return exprOut{err: err}
		}
		d, err := durationOf(tov, it.pos())
		if err != nil {
			return exprOut{err: err}
		}
		result, err := tv.Task.Get(d)
		if err != nil {
			return exprOut{err: mapConcurrencyErr(err, it.pos())}
		}
		return exprOut{val: resultToValue(result)}
	}
	result, err := tv.Task.Await(it.taskCtx)
	if err != nil {
		return exprOut{err: mapConcurrencyErr(err, it.pos())}
	}
	return exprOut{val: resultToValue(result)}
}

func mapConcurrencyErr(err error, pos nerr.Position) error {
	switch err {
	case concurrency.ErrCancelled:
		return nerr.New(nerr.Cancelled, pos)
	case concurrency.ErrTimeout:
		return nerr.New(nerr.Timeout, pos)
	case concurrency.ErrChannelClosed:
		return nerr.New(nerr.ChannelClosed, pos)
	case concurrency.ErrAlreadySpawned:
		return nerr.New(nerr.AlreadySpawned, pos)
	default:
		return err
	}
}

// durationOf converts an await timeout operand to a time.Duration: either
// a temporal Duration amount or a plain number of seconds.
func durationOf(v value.Value, pos nerr.Position) (time.Duration, error) {
	if av, ok := v.(temporal.AmountValue); ok {
		d := av.Amount.Duration
		return time.Duration(d.Seconds)*time.Second + time.Duration(d.Nanos), nil
	}
	if n, ok := v.(value.Number); ok {
		return time.Duration(n.N.AsFloat64() * float64(time.Second)), nil
	}
	return 0, nerr.New(nerr.TypeMismatch, pos, "مدة غير صالحة")
}

func (it *Interp) VisitSendExpr(expr *parser.SendExpr) interface{} {
	ch, err := it.Eval(expr.Channel)
	if err != nil {
		return exprOut{err: err}
	}
	cv, ok := ch.(*ChannelValue)
	if !ok {
		return exprOut{err: nerr.New(nerr.TypeMismatch, it.pos(), "القيمة ليست قناة")}
	}
	v, err := it.Eval(expr.Value)
	if err != nil {
		return exprOut{err: err}
	}
	if err := cv.Channel.Send(it.taskCtx, v); err != nil {
		return exprOut{err: mapConcurrencyErr(err, it.pos())}
	}
	return exprOut{val: v}
}

func (it *Interp) VisitReceiveExpr(expr *parser.ReceiveExpr) interface{} {
	ch, err := it.Eval(expr.Channel)
	if err != nil {
		return exprOut{err: err}
	}
	cv, ok := ch.(*ChannelValue)
	if !ok {
		return exprOut{err: nerr.New(nerr.TypeMismatch, it.pos(), "القيمة ليست قناة")}
	}
	v, present, err := cv.Channel.Receive(it.taskCtx)
	if err != nil {
		return exprOut{err: mapConcurrencyErr(err, it.pos())}
	}
	if !present {
		return exprOut{val: value.None{}}
	}
	return exprOut{val: v.(value.Value)}
}

func (it *Interp) VisitScopeBlockExpr(expr *parser.ScopeBlockExpr) interface{} {
	parentCtx := it.taskCtx
	if it.region != nil {
		parentCtx = it.region.Context()
	}
	region := concurrency.NewRegion(parentCtx, expr.Ordered)
	sub := &Interp{Scope: it.Scope, File: it.File, Print: it.Print, Loader: it.Loader, Context: it.Context, region: region, taskCtx: region.Context()}
	out := sub.execBlock(expr.Body)
	if out.err != nil {
		region.Cancel()
		region.Wait()
		return exprOut{err: out.err}
	}
	if err := region.Wait(); err != nil {
		return exprOut{err: mapConcurrencyErr(err, it.pos())}
	}
	if out.sig == SigReturn {
		return exprOut{val: out.ret}
	}
	return exprOut{val: value.None{}}
}

func (it *Interp) VisitTryExpr(expr *parser.TryExpr) interface{} {
	v, err := it.tryEval(expr.Body)
	if err == nil {
		return exprOut{val: v}
	}
	it.Scope.Push()
	defer it.Scope.Pop()
	if expr.CatchVar != "" {
		it.Scope.Declare(expr.CatchVar, &scope.Variable{Name: expr.CatchVar, CurrentValue: errorToValue(err), IsUpdated: true})
	}
	hv, herr := it.Eval(expr.Handler)
	return exprOut{val: hv, err: herr}
}

func (it *Interp) tryEval(e parser.Expr) (v value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ne, ok := r.(*nerr.NaftahError); ok {
				err = ne
				return
			}
			panic(r)
		}
	}()
	return it.Eval(e)
}
