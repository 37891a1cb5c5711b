// Package scope implements the frame-stack Scope and the sealed
// Declaration variants of spec §3/§4.D. Declaration is modeled as a
// closed set of concrete Go structs behind an interface, the same
// tagged-sum approach internal/value takes for Value (see value.go's
// doc comment) rather than a class hierarchy.
package scope

import "naftah/internal/value"

// Declaration is the sealed sum of spec §3: Variable, Parameter,
// Function, Implementation. It implements value.Declaration so Object
// field slots can hold any of them without value importing scope.
type Declaration interface {
	value.Declaration
	Depth() int
}

// Variable is a mutable (or, if IsConst, write-once) named binding.
type Variable struct {
	Name          string
	IsConst       bool
	DeclaredType  *value.TypeDescriptor
	DefaultValue  value.Value
	CurrentValue  value.Value
	IsUpdated     bool
	DeclaredDepth int
	OriginLine    int
	OriginColumn  int
}

func (v *Variable) DeclName() string { return v.Name }
func (v *Variable) Depth() int       { return v.DeclaredDepth }

// Parameter is a function/lambda parameter binding; identical shape to
// Variable but kept as a distinct type per spec §3 since overload
// resolution (§4.E) inspects parameters specifically.
type Parameter struct {
	Name          string
	IsConst       bool
	DeclaredType  *value.TypeDescriptor
	DefaultValue  value.Value
	CurrentValue  value.Value
	IsUpdated     bool
	DeclaredDepth int
	OriginLine    int
	OriginColumn  int
}

func (p *Parameter) DeclName() string { return p.Name }
func (p *Parameter) Depth() int       { return p.DeclaredDepth }

// Function is a named, possibly-overloaded, possibly-async callable.
type Function struct {
	Name               string
	IsAsync            bool
	Parameters         []*Parameter
	ReturnType         *value.TypeDescriptor
	BodyRef            interface{} // *parser.FunctionStmt or equivalent, opaque here to avoid an import cycle
	ImplementationName string
	DeclaredDepth      int
	OverloadIndex      int // 1-based `:N` disambiguator; 0 when unindexed
}

func (f *Function) DeclName() string { return f.Name }
func (f *Function) Depth() int       { return f.DeclaredDepth }

// Implementation groups methods bound to a named type; its methods see
// `self` bound to the invocation receiver at call time (the evaluator
// binds `self`, not this struct — Implementation just holds the table).
type Implementation struct {
	Name          string
	Functions     map[string][]*Function // name -> overload set
	DeclaredDepth int
}

func (i *Implementation) DeclName() string { return i.Name }
func (i *Implementation) Depth() int       { return i.DeclaredDepth }

// AddOverload registers fn under its name, appending to any existing
// overload set rather than replacing it.
func (i *Implementation) AddOverload(fn *Function) {
	if i.Functions == nil {
		i.Functions = make(map[string][]*Function)
	}
	i.Functions[fn.Name] = append(i.Functions[fn.Name], fn)
}
