package eval

import (
	"naftah/internal/concurrency"
	nerr "naftah/internal/errors"
	"naftah/internal/ops"
	"naftah/internal/scope"
	"naftah/internal/value"
)

// InstallBuiltins declares the native callable surface (spec §4.F) into
// it's global frame: channel/actor constructors plus typeof/sizeof,
// which the minimal lexer/parser don't expose as dedicated operator
// tokens, so they're reached as ordinary calls instead.
func (it *Interp) InstallBuiltins() {
	for _, b := range []*BuiltinFunction{
		{Name: "قناة", Fn: builtinChannel},
		{Name: "عميل", Fn: builtinActor},
		{Name: "نوع", Fn: builtinTypeOf},
		{Name: "حجم", Fn: builtinSizeOf},
		{Name: "طباعة", Fn: builtinPrint},
		{Name: "نص", Fn: builtinToString},
	} {
		it.Scope.Declare(b.Name, &scope.Variable{
			Name: b.Name, IsConst: true, CurrentValue: b, IsUpdated: true,
		})
	}
}

func builtinChannel(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	capacity := 0
	if len(args) > 0 {
		n, ok := args[0].(value.Number)
		if !ok {
			return nil, nerr.New(nerr.TypeMismatch, pos, "سعة القناة يجب أن تكون رقماً")
		}
		capacity = int(n.N.AsBigInt().Int64())
	}
	return &ChannelValue{Channel: concurrency.NewChannel(capacity)}, nil
}

// builtinActor starts an actor whose handler is a naftah function value
// invoked once per inbox message with (state, message), returning the
// next state (spec §4.G "Actors": "a single-goroutine inbox-processing
// loop over private state").
func builtinActor(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	if len(args) < 2 {
		return nil, nerr.New(nerr.ArityMismatch, pos, "عميل", 2, len(args))
	}
	initial := args[0]
	handlerVal := args[1]
	handlerFn, ok := handlerVal.(*FunctionValue)
	if !ok {
		if bf, ok := handlerVal.(*BuiltinFunction); ok {
			a := concurrency.NewActor(it.taskCtx, initial, func(state, msg interface{}) interface{} {
				v, _ := bf.Fn(it, []value.Value{state.(value.Value), msg.(value.Value)}, pos)
				return v
			})
			return &ActorValue{Actor: a}, nil
		}
		return nil, nerr.New(nerr.TypeMismatch, pos, "المعالج يجب أن يكون دالة")
	}
	a := concurrency.NewActor(it.taskCtx, initial, func(state, msg interface{}) interface{} {
		sub := &Interp{Scope: it.Scope, File: it.File, Print: it.Print, Loader: it.Loader, Context: it.Context, taskCtx: it.taskCtx}
		v, err := sub.invoke(handlerFn, []value.Value{state.(value.Value), msg.(value.Value)})
		if err != nil {
			return state
		}
		return v
	})
	return &ActorValue{Actor: a}, nil
}

func builtinTypeOf(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	if len(args) < 1 {
		return nil, nerr.New(nerr.ArityMismatch, pos, "نوع", 1, len(args))
	}
	return value.TypeToken{Descriptor: ops.TypeOfValue(args[0])}, nil
}

func builtinSizeOf(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	if len(args) < 1 {
		return nil, nerr.New(nerr.ArityMismatch, pos, "حجم", 1, len(args))
	}
	n, err := ops.SizeOfValue(args[0], pos)
	if err != nil {
		return nil, err
	}
	return value.Number{N: n}, nil
}

func builtinPrint(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	for _, a := range args {
		if it.Print != nil {
			it.Print(a.String())
		}
	}
	return value.None{}, nil
}

func builtinToString(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error) {
	if len(args) < 1 {
		return value.String(""), nil
	}
	return value.String(args[0].String()), nil
}
