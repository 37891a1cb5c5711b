package eval

import (
	nerr "naftah/internal/errors"
	"naftah/internal/parser"
	"naftah/internal/scope"
	"naftah/internal/value"
)

func (it *Interp) VisitPrintStmt(stmt *parser.PrintStmt) interface{} {
	v, err := it.Eval(stmt.Expr)
	if err != nil {
		return stmtOut{err: err}
	}
	if it.Print != nil {
		it.Print(v.String())
	}
	return stmtOut{}
}

func (it *Interp) VisitLetStmt(stmt *parser.LetStmt) interface{} {
	v, err := it.Eval(stmt.Expr)
	if err != nil {
		return stmtOut{err: err}
	}
	it.Scope.Declare(stmt.Name, &scope.Variable{
		Name: stmt.Name, IsConst: stmt.IsConst, CurrentValue: v, IsUpdated: true,
		DeclaredDepth: it.Scope.Depth(),
	})
	return stmtOut{}
}

func (it *Interp) VisitAssignmentStmt(stmt *parser.AssignmentStmt) interface{} {
	v, err := it.Eval(stmt.Value)
	if err != nil {
		return stmtOut{err: err}
	}
	if err := it.Scope.Assign(stmt.Name, v, it.pos()); err != nil {
		return stmtOut{err: err}
	}
	return stmtOut{}
}

func (it *Interp) VisitIndexAssignmentStmt(stmt *parser.IndexAssignmentStmt) interface{} {
	obj, err := it.Eval(stmt.Object)
	if err != nil {
		return stmtOut{err: err}
	}
	idx, err := it.Eval(stmt.Index)
	if err != nil {
		return stmtOut{err: err}
	}
	val, err := it.Eval(stmt.Value)
	if err != nil {
		return stmtOut{err: err}
	}
	if err := it.indexSet(obj, idx, val); err != nil {
		return stmtOut{err: err}
	}
	return stmtOut{}
}

func (it *Interp) VisitExpressionStmt(stmt *parser.ExpressionStmt) interface{} {
	_, err := it.Eval(stmt.Expr)
	return stmtOut{err: err}
}

// VisitFunctionStmt registers a named declaration directly in the live
// scope (dynamic-extent, not a lexical closure): the body is resolved
// against whatever scope is current at call time, the same way the
// teacher's globals table resolves a called name at the point of the
// call rather than at the point of definition. First-class escapes
// (passing the function as a value, spawning it) go through
// declToValue/functionValue, which wrap it as a FunctionValue closing
// over the scope in effect there.
func (it *Interp) VisitFunctionStmt(stmt *parser.FunctionStmt) interface{} {
	params := make([]*scope.Parameter, len(stmt.Params))
	for i, p := range stmt.Params {
		params[i] = &scope.Parameter{Name: p}
	}
	it.Scope.Declare(stmt.Name, &scope.Function{
		Name: stmt.Name, IsAsync: stmt.IsAsync, Parameters: params,
		BodyRef: stmt, DeclaredDepth: it.Scope.Depth(),
	})
	return stmtOut{}
}

func (it *Interp) VisitReturnStmt(stmt *parser.ReturnStmt) interface{} {
	if stmt.Value == nil {
		return stmtOut{sig: SigReturn, ret: value.None{}}
	}
	v, err := it.Eval(stmt.Value)
	if err != nil {
		return stmtOut{err: err}
	}
	return stmtOut{sig: SigReturn, ret: v}
}

func (it *Interp) VisitIfStmt(stmt *parser.IfStmt) interface{} {
	cond, err := it.Eval(stmt.Condition)
	if err != nil {
		return stmtOut{err: err}
	}
	if value.Truthy(cond) {
		return it.execBlock(stmt.Then)
	}
	if stmt.Else != nil {
		return it.execBlock(stmt.Else)
	}
	return stmtOut{}
}

func (it *Interp) VisitWhileStmt(stmt *parser.WhileStmt) interface{} {
	for {
		cond, err := it.Eval(stmt.Condition)
		if err != nil {
			return stmtOut{err: err}
		}
		if !value.Truthy(cond) {
			return stmtOut{}
		}
		out := it.execBlock(stmt.Body)
		if out.err != nil {
			return out
		}
		if out.sig == SigBreak && loopTargetsMe(out.label, stmt.Label) {
			return stmtOut{}
		}
		if out.sig == SigContinue && loopTargetsMe(out.label, stmt.Label) {
			continue
		}
		if out.sig != SigNone {
			return out
		}
	}
}

func (it *Interp) VisitRepeatStmt(stmt *parser.RepeatStmt) interface{} {
	for {
		out := it.execBlock(stmt.Body)
		if out.err != nil {
			return out
		}
		if out.sig == SigBreak && loopTargetsMe(out.label, stmt.Label) {
			return stmtOut{}
		}
		if out.sig != SigNone && !(out.sig == SigContinue && loopTargetsMe(out.label, stmt.Label)) {
			return out
		}
		cond, err := it.Eval(stmt.Condition)
		if err != nil {
			return stmtOut{err: err}
		}
		if value.Truthy(cond) {
			return stmtOut{}
		}
	}
}

// loopTargetsMe reports whether a break/continue signal carrying label
// (possibly "") is meant for a loop named mine (possibly ""): an
// unlabeled signal always targets the nearest loop; a labeled one only
// targets a loop declared with that same label.
func loopTargetsMe(signalLabel, mine string) bool {
	return signalLabel == "" || signalLabel == mine
}

func (it *Interp) VisitForStmt(stmt *parser.ForStmt) interface{} {
	if stmt.IsRange {
		return it.execRangeFor(stmt)
	}
	it.Scope.Push()
	defer it.Scope.Pop()
	if stmt.Init != nil {
		out := it.Exec(stmt.Init)
		if out.err != nil {
			return out
		}
	}
	for {
		if stmt.Condition != nil {
			cond, err := it.Eval(stmt.Condition)
			if err != nil {
				return stmtOut{err: err}
			}
			if !value.Truthy(cond) {
				return stmtOut{}
			}
		}
		out := it.execBlock(stmt.Body)
		if out.err != nil {
			return out
		}
		if out.sig == SigBreak && loopTargetsMe(out.label, stmt.Label) {
			return stmtOut{}
		}
		if out.sig != SigNone && !(out.sig == SigContinue && loopTargetsMe(out.label, stmt.Label)) {
			return out
		}
		if stmt.Update != nil {
			if _, err := it.Eval(stmt.Update); err != nil {
				return stmtOut{err: err}
			}
		}
	}
}

func (it *Interp) execRangeFor(stmt *parser.ForStmt) interface{} {
	start, err := it.Eval(stmt.Start)
	if err != nil {
		return stmtOut{err: err}
	}
	end, err := it.Eval(stmt.End)
	if err != nil {
		return stmtOut{err: err}
	}
	startN, ok1 := start.(value.Number)
	endN, ok2 := end.(value.Number)
	if !ok1 || !ok2 {
		return stmtOut{err: nerr.New(nerr.TypeMismatch, it.pos(), "حدود المدى يجب أن تكون أرقاماً")}
	}
	step := int64(1)
	if stmt.Step != nil {
		sv, err := it.Eval(stmt.Step)
		if err != nil {
			return stmtOut{err: err}
		}
		if sn, ok := sv.(value.Number); ok {
			step = sn.N.AsBigInt().Int64()
		}
	}
	if step <= 0 {
		return stmtOut{err: nerr.New(nerr.Syntax, it.pos(), "خطوة الحلقة يجب أن تكون موجبة")}
	}
	i := startN.N.AsBigInt().Int64()
	end64 := endN.N.AsBigInt().Int64()
	it.Scope.Push()
	defer it.Scope.Pop()
	for (!stmt.Downto && i <= end64) || (stmt.Downto && i >= end64) {
		it.Scope.Declare(stmt.Variable, &scope.Variable{
			Name: stmt.Variable, CurrentValue: value.Number{N: value.FromLong(i)}, IsUpdated: true,
		})
		out := it.execBlock(stmt.Body)
		if out.err != nil {
			return out
		}
		if out.sig == SigBreak && loopTargetsMe(out.label, stmt.Label) {
			return stmtOut{}
		}
		if out.sig != SigNone && !(out.sig == SigContinue && loopTargetsMe(out.label, stmt.Label)) {
			return out
		}
		if stmt.Downto {
			i -= step
		} else {
			i += step
		}
	}
	return stmtOut{}
}

func (it *Interp) VisitForInStmt(stmt *parser.ForInStmt) interface{} {
	coll, err := it.Eval(stmt.Collection)
	if err != nil {
		return stmtOut{err: err}
	}
	it.Scope.Push()
	defer it.Scope.Pop()
	run := func(key, val value.Value) (stmtOut, bool) {
		if stmt.KeyVar != "" {
			it.Scope.Declare(stmt.KeyVar, &scope.Variable{Name: stmt.KeyVar, CurrentValue: key, IsUpdated: true})
		} else if stmt.IndexVar != "" {
			it.Scope.Declare(stmt.IndexVar, &scope.Variable{Name: stmt.IndexVar, CurrentValue: key, IsUpdated: true})
		}
		it.Scope.Declare(stmt.Variable, &scope.Variable{Name: stmt.Variable, CurrentValue: val, IsUpdated: true})
		out := it.execBlock(stmt.Body)
		if out.err != nil {
			return out, true
		}
		if out.sig == SigBreak && loopTargetsMe(out.label, stmt.Label) {
			return stmtOut{}, true
		}
		if out.sig != SigNone && !(out.sig == SigContinue && loopTargetsMe(out.label, stmt.Label)) {
			return out, true
		}
		return stmtOut{}, false
	}
	switch c := coll.(type) {
	case *value.List:
		for i, el := range c.Elements {
			out, stop := run(value.Number{N: value.FromLong(int64(i))}, el)
			if stop {
				return out
			}
		}
	case *value.Tuple:
		for i, el := range c.Elements {
			out, stop := run(value.Number{N: value.FromLong(int64(i))}, el)
			if stop {
				return out
			}
		}
	case *value.Set:
		for _, el := range c.Elements() {
			out, stop := run(el, el)
			if stop {
				return out
			}
		}
	case *value.Map:
		for _, p := range c.Entries() {
			out, stop := run(p.First, p.Second)
			if stop {
				return out
			}
		}
	case value.String:
		for _, r := range string(c) {
			out, stop := run(value.Null{}, value.Char(r))
			if stop {
				return out
			}
		}
	default:
		return stmtOut{err: nerr.New(nerr.TypeMismatch, it.pos(), "هذا النوع غير قابل للتكرار")}
	}
	return stmtOut{}
}

func (it *Interp) VisitBreakStmt(stmt *parser.BreakStmt) interface{} {
	return stmtOut{sig: SigBreak, label: stmt.Label}
}

func (it *Interp) VisitContinueStmt(stmt *parser.ContinueStmt) interface{} {
	return stmtOut{sig: SigContinue, label: stmt.Label}
}

func (it *Interp) VisitImportStmt(stmt *parser.ImportStmt) interface{} {
	if it.Loader == nil {
		return stmtOut{err: nerr.Internalf(it.pos(), "لا يوجد محمّل وحدات مُهيأ")}
	}
	if err := it.Loader.Load(it, stmt.Path, stmt.Alias, it.pos()); err != nil {
		return stmtOut{err: err}
	}
	return stmtOut{}
}

func (it *Interp) VisitExportStmt(stmt *parser.ExportStmt) interface{} {
	return it.Exec(stmt.Stmt)
}

// VisitClassStmt declares Name as a constructor: calling it produces a
// value.Object whose fields are bound positionally from Fields and whose
// methods are FunctionValues with Self bound to the new instance (spec
// §4.D "self-bound method dispatch").
func (it *Interp) VisitClassStmt(stmt *parser.ClassStmt) interface{} {
	fields := append([]string(nil), stmt.Fields...)
	methods := append([]*parser.FunctionStmt(nil), stmt.Methods...)
	definingScope := it.Scope
	ctor := &BuiltinFunction{
		Name: stmt.Name,
		Fn: func(callerIt *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
			obj := value.NewObject()
			for i, f := range fields {
				var v value.Value = value.None{}
				if i < len(args) {
					v = args[i]
				}
				obj.Set(f, &scope.Variable{Name: f, CurrentValue: v, IsUpdated: true})
			}
			for _, m := range methods {
				params := make([]string, len(m.Params))
				copy(params, m.Params)
				fv := &FunctionValue{Name: m.Name, Params: params, Body: m.Body, Closure: definingScope, Self: obj, IsAsync: m.IsAsync}
				obj.Set(m.Name, &scope.Variable{Name: m.Name, CurrentValue: fv, IsUpdated: true})
			}
			return obj, nil
		},
	}
	it.Scope.Declare(stmt.Name, &scope.Variable{
		Name: stmt.Name, IsConst: true, CurrentValue: ctor, IsUpdated: true, DeclaredDepth: it.Scope.Depth(),
	})
	return stmtOut{}
}

func (it *Interp) VisitTryStmt(stmt *parser.TryStmt) interface{} {
	out := it.execBlock(stmt.TryBlock)
	if out.err != nil {
		it.Scope.Push()
		it.Scope.Declare(stmt.CatchVar, &scope.Variable{Name: stmt.CatchVar, CurrentValue: errorToValue(out.err), IsUpdated: true})
		catchOut := it.execBlock(stmt.CatchBlock)
		it.Scope.Pop()
		out = catchOut
	}
	if stmt.FinallyBlock != nil {
		finOut := it.execBlock(stmt.FinallyBlock)
		if finOut.err != nil || finOut.sig != SigNone {
			return finOut
		}
	}
	return out
}

func (it *Interp) VisitThrowStmt(stmt *parser.ThrowStmt) interface{} {
	v, err := it.Eval(stmt.Value)
	if err != nil {
		return stmtOut{err: err}
	}
	return stmtOut{err: &ThrownValue{Value: v, Pos: it.pos()}}
}

func (it *Interp) VisitMatchStmt(stmt *parser.MatchStmt) interface{} {
	v, err := it.Eval(stmt.Value)
	if err != nil {
		return stmtOut{err: err}
	}
	for _, c := range stmt.Cases {
		matched, err := it.matchCase(c, v)
		if err != nil {
			return stmtOut{err: err}
		}
		if matched {
			return it.execBlock(c.Body)
		}
	}
	return stmtOut{}
}

// matchCase reports whether v satisfies one of c's alternative patterns.
// A bare identifier pattern (a *parser.Variable not bound in scope)
// acts as a capturing wildcard, binding that name to v for the case
// body and its guard, the way the teacher's own pattern matching
// distinguishes a fresh binding from an equality test; every other
// pattern is evaluated and compared structurally.
func (it *Interp) matchCase(c parser.MatchCase, v value.Value) (bool, error) {
	if len(c.Patterns) == 0 {
		return it.evalGuard(c.Guard)
	}
	for _, p := range c.Patterns {
		bound := false
		if id, ok := p.(*parser.Variable); ok {
			if id.Name == "_" {
				bound = true
			} else if _, exists := it.Scope.Lookup(id.Name); !exists {
				it.Scope.Push()
				it.Scope.Declare(id.Name, &scope.Variable{Name: id.Name, CurrentValue: v, IsUpdated: true})
				ok, err := it.evalGuard(c.Guard)
				it.Scope.Pop()
				if err != nil {
					return false, err
				}
				if ok {
					it.Scope.Declare(id.Name, &scope.Variable{Name: id.Name, CurrentValue: v, IsUpdated: true})
					return true, nil
				}
				continue
			}
		}
		if bound {
			return it.evalGuard(c.Guard)
		}
		pv, err := it.Eval(p)
		if err != nil {
			return false, err
		}
		if value.StructuralKey(pv) == value.StructuralKey(v) {
			return it.evalGuard(c.Guard)
		}
	}
	return false, nil
}

func (it *Interp) evalGuard(guard parser.Expr) (bool, error) {
	if guard == nil {
		return true, nil
	}
	v, err := it.Eval(guard)
	if err != nil {
		return false, err
	}
	return value.Truthy(v), nil
}

func (it *Interp) VisitImplementationStmt(stmt *parser.ImplementationStmt) interface{} {
	impl, ok := it.Scope.Lookup(stmt.InterfaceName)
	var table *scope.Implementation
	if ok {
		table, _ = impl.(*scope.Implementation)
	}
	if table == nil {
		table = &scope.Implementation{Name: stmt.InterfaceName, DeclaredDepth: it.Scope.Depth()}
		it.Scope.Declare(stmt.InterfaceName, table)
	}
	for _, m := range stmt.Methods {
		params := make([]*scope.Parameter, len(m.Params))
		for i, p := range m.Params {
			params[i] = &scope.Parameter{Name: p}
		}
		table.AddOverload(&scope.Function{
			Name: m.Name, IsAsync: m.IsAsync, Parameters: params, BodyRef: m,
			ImplementationName: stmt.TypeName, DeclaredDepth: it.Scope.Depth(),
		})
	}
	return stmtOut{}
}
