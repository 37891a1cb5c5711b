// Package eval implements the tree-walking evaluator (spec §4.F): the
// Interp type drives parser.ExprVisitor/StmtVisitor over a parsed program,
// threading a scope.Scope and reporting failures as *errors.NaftahError.
//
// Function/BuiltinFunction/Task/Channel/Actor live here rather than in
// internal/value because they close over *scope.Scope and
// *concurrency.Task/Channel/Actor, and value is a leaf package that
// cannot import either without a cycle — the same constraint
// internal/temporal resolves by defining PointValue/AmountValue outside
// internal/value and registering assignability through an init() hook
// (temporal/value.go). Function/Task/Channel/Actor need no such hook:
// nothing assigns into their type tags, so they just implement
// value.Value directly.
package eval

import (
	"fmt"

	"naftah/internal/concurrency"
	nerr "naftah/internal/errors"
	"naftah/internal/parser"
	"naftah/internal/scope"
	"naftah/internal/value"
)

// FunctionValue is a first-class reference to a declared or lambda
// function. Closure is the live *scope.Scope at the point the function
// was read as a value, shared rather than copied, so later writes to that
// scope are visible through it; spawn bodies take their own
// Scope.Snapshot() instead.
type FunctionValue struct {
	Name     string
	Params   []string
	Body     []Stmt
	Closure  *scope.Scope
	Self     value.Value // bound receiver for implementation methods; nil otherwise
	IsAsync  bool
}

func (f *FunctionValue) Tag() value.Tag { return value.TagFunction }
func (f *FunctionValue) String() string {
	if f.Name != "" {
		return "<دالة:" + f.Name + ">"
	}
	return "<دالة لامدا>"
}

// Stmt is an alias kept local so values.go doesn't need to import
// parser just for this one type in the common case; parser.Stmt is used
// directly elsewhere in the package.
type Stmt = parser.Stmt

// BuiltinFunction wraps a natively implemented callable (spec §4.F's
// builtin surface: channel and actor constructors, typeof/sizeof, print,
// to-text conversion, and the host-bridge class lookup and constructor).
type BuiltinFunction struct {
	Name string
	Fn   func(it *Interp, args []value.Value, pos nerr.Position) (value.Value, error)
}

func (b *BuiltinFunction) Tag() value.Tag { return value.TagBuiltinFunction }
func (b *BuiltinFunction) String() string { return "<دالة مضمّنة:" + b.Name + ">" }

// TaskValue wraps a spawned concurrency.Task, boxing its interface{}
// payload as a value.Value at the Await/Get boundary.
type TaskValue struct {
	Task *concurrency.Task
}

func (t *TaskValue) Tag() value.Tag { return value.TagTask }
func (t *TaskValue) String() string { return "<مهمة:" + t.Task.ID + ">" }

// ChannelValue wraps a concurrency.Channel.
type ChannelValue struct {
	Channel *concurrency.Channel
}

func (c *ChannelValue) Tag() value.Tag { return value.TagChannel }
func (c *ChannelValue) String() string { return "<قناة:" + c.Channel.ID + ">" }

// ActorValue wraps a concurrency.Actor.
type ActorValue struct {
	Actor *concurrency.Actor
}

func (a *ActorValue) Tag() value.Tag { return value.TagActor }
func (a *ActorValue) String() string { return "<عميل:" + a.Actor.ID + ">" }

// resultToValue converts a Task/Actor payload (stored as interface{} in
// the leaf concurrency package) back to a value.Value; concurrency never
// produces anything but value.Value payloads in this runtime, so the
// type assertion is infallible except for a bare nil (task completed
// with no produced value, e.g. a spawned statement block).
func resultToValue(v interface{}) value.Value {
	if v == nil {
		return value.None{}
	}
	if val, ok := v.(value.Value); ok {
		return val
	}
	return value.String(fmt.Sprint(v))
}
