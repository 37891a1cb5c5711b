package eval

import (
	nerr "naftah/internal/errors"
	"naftah/internal/hostbridge"
	"naftah/internal/parser"
	"naftah/internal/scope"
	"naftah/internal/value"
)

// classToken is the HostObject.Ref payload carried by the value a script
// gets back from `صنف_مضيف` (find-class): a class name resolved through
// the embedding ClassDirectory but not yet constructed into a receiver
// (spec §4.E `find-class(qualified-name) -> descriptor`). Naming it
// separately from an instance's own Ref (whatever the host hands back
// from `construct`/an invocation) is what lets resolveClassArg (used by
// بناء) tell "this HostObject is a class waiting to be built" apart from
// "this HostObject is an instance with methods".
type classToken struct {
	desc *hostbridge.ClassDescriptor
}

// installHostBuiltins declares the Host Interop Bridge's script-facing
// surface (spec §4.E): resolving a qualified host class name and
// constructing an instance of it. Member invocation on an already-built
// instance goes through evalCall's PropertyExpr branch instead, since
// that is the call shape `receiver.method(args)` already parses to.
func (it *Interp) installHostBuiltins() {
	for _, b := range []*BuiltinFunction{
		{Name: "صنف_مضيف", Fn: builtinFindHostClass},
		{Name: "بناء", Fn: builtinConstruct},
	} {
		it.Scope.Declare(b.Name, &scope.Variable{
			Name: b.Name, IsConst: true, CurrentValue: b, IsUpdated: true,
		})
	}
}

func builtinFindHostClass(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	if len(args) < 1 {
		return nil, nerr.New(nerr.ArityMismatch, pos, "صنف_مضيف", 1, len(args))
	}
	name, ok := args[0].(value.String)
	if !ok {
		return nil, nerr.New(nerr.TypeMismatch, pos, "اسم الصنف يجب أن يكون نصاً")
	}
	desc, err := hostbridge.FindClass(string(name), pos)
	if err != nil {
		return nil, err
	}
	return value.HostObject{ClassName: string(name), Ref: classToken{desc: desc}}, nil
}

func builtinConstruct(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	if len(args) < 1 {
		return nil, nerr.New(nerr.ArityMismatch, pos, "بناء", 1, len(args))
	}
	desc, className, err := resolveClassArg(args[0], pos)
	if err != nil {
		return nil, err
	}
	hargs := make([]hostbridge.Argument, len(args)-1)
	for i, a := range args[1:] {
		hargs[i] = hostbridge.Argument{Value: a}
	}
	ctor, converted, err := hostbridge.FindConstructor(desc, hargs, pos)
	if err != nil {
		return nil, err
	}
	ref, err := ctor.Call(nil, converted)
	if err != nil {
		return nil, nerr.Wrap(nerr.HostInvocation, pos, err, className)
	}
	return value.HostObject{ClassName: className, Ref: ref}, nil
}

// resolveClassArg accepts either a qualified-name string or a class token
// previously returned by صنف_مضيف, so بناء("قوم:شيء", ...) and
// بناء(صنف_مضيف("قوم:شيء"), ...) both work.
func resolveClassArg(v value.Value, pos nerr.Position) (*hostbridge.ClassDescriptor, string, error) {
	switch x := v.(type) {
	case value.String:
		desc, err := hostbridge.FindClass(string(x), pos)
		if err != nil {
			return nil, "", err
		}
		return desc, string(x), nil
	case value.HostObject:
		if ct, ok := x.Ref.(classToken); ok {
			return ct.desc, x.ClassName, nil
		}
	}
	return nil, "", nerr.New(nerr.TypeMismatch, pos, "القيمة ليست صنفاً مضيفاً")
}

// callHostMethod implements spec §4.E's `find-invocable` + `invoke` for a
// `receiver.method(args)` call where receiver evaluates to an instance
// HostObject (evalCall's PropertyExpr branch dispatches here).
func (it *Interp) callHostMethod(recv value.HostObject, method string, argExprs []parser.Expr) (value.Value, error) {
	desc, err := hostbridge.FindClass(recv.ClassName, it.pos())
	if err != nil {
		return nil, err
	}
	argVals, err := it.evalArgs(argExprs)
	if err != nil {
		return nil, err
	}
	hargs := make([]hostbridge.Argument, len(argVals))
	for i, v := range argVals {
		hargs[i] = hostbridge.Argument{Value: v}
	}
	inv, converted, err := hostbridge.FindInvocable(desc, method, hargs, it.pos())
	if err != nil {
		return nil, err
	}
	result, err := inv.Call(recv.Ref, converted)
	if err != nil {
		return nil, nerr.Wrap(nerr.HostInvocation, it.pos(), err, method)
	}
	return hostResultToValue(result), nil
}

// hostResultToValue wraps whatever a host Invocable.Call returns back
// into a naftah Value; a host binding that already returns a value.Value
// (the common case for embeddings built against this package) passes
// through unchanged, sparing every embedding from writing its own
// boxing code for the value types it already round-trips.
func hostResultToValue(result interface{}) value.Value {
	if v, ok := result.(value.Value); ok {
		return v
	}
	switch x := result.(type) {
	case nil:
		return value.None{}
	case bool:
		return value.Boolean(x)
	case string:
		return value.String(x)
	case int:
		return value.Number{N: value.FromLong(int64(x))}
	case int64:
		return value.Number{N: value.FromLong(x)}
	case float64:
		return value.Number{N: value.FromDouble(x)}
	default:
		return value.HostObject{ClassName: "", Ref: result}
	}
}
