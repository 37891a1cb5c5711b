// Package hostbridge implements the reflective bridge to an embedding
// host object system (spec §4.E). The directory of host classes is
// supplied externally — this package never discovers classes itself
// (spec §1 excludes the classpath scanner as an external collaborator);
// it only does overload resolution, argument conversion, and invocation
// once handed class/method descriptors.
package hostbridge

import (
	nerr "naftah/internal/errors"
	"naftah/internal/scope"
	"naftah/internal/value"
)

// ClassDirectory is implemented by the embedding host application. It is
// the seam spec §1 calls out as external: naftah never walks a classpath
// or package registry itself.
type ClassDirectory interface {
	FindClass(qualifiedName string) (*ClassDescriptor, bool)
}

// ClassDescriptor describes a host class's exposed surface.
type ClassDescriptor struct {
	Name         string
	Supertypes   []string // for AssignableHostClass's hierarchy lookup
	Methods      map[string][]*Invocable
	Constructors []*Invocable
}

// Invocable describes one overload of a method or constructor.
type Invocable struct {
	Name       string
	Params     []value.TypeDescriptor
	Defaults   []bool // parallel to Params: true if that tail parameter has a default
	Variadic   bool
	ReturnType value.TypeDescriptor
	Call       func(receiver interface{}, args []interface{}) (interface{}, error)
}

var directory ClassDirectory

// MaxReflectDepth caps an Object-to-map conversion's recursion (spec §6
// `naftah.reflect.max-depth`); SetMaxReflectDepth overrides the default.
var MaxReflectDepth = 64

// SetMaxReflectDepth installs the environment-configured cap (spec §6).
func SetMaxReflectDepth(n int) {
	if n > 0 {
		MaxReflectDepth = n
	}
}

// Bind installs the host application's class directory. Call once at
// startup before any `find-class`/`invoke` operation runs.
func Bind(dir ClassDirectory) {
	directory = dir
	value.AssignableHostClass = assignableHostClass
}

// ObjectToMap converts a naftah object literal into a plain
// map[string]interface{} for a host parameter declared as a map type
// (spec §4.E "A HostObject wrapping a map may be converted to a
// map-typed parameter" generalizes in the other direction here: an
// Object value converting into a host map argument). Cycles are broken
// by an arena keyed on pointer identity (spec §9 "Cyclic object graphs
// ... use arena-and-index"); a re-encountered object within one
// conversion walk prints as the sentinel "<مرجع دائري>" instead of
// recursing forever.
func ObjectToMap(obj *value.Object) (map[string]interface{}, error) {
	seen := map[*value.Object]bool{}
	return objectToMap(obj, seen, 0)
}

func objectToMap(obj *value.Object, seen map[*value.Object]bool, depth int) (map[string]interface{}, error) {
	if depth > MaxReflectDepth {
		return nil, nerr.Internalf(nerr.Position{}, "تجاوز عمق التحويل الانعكاسي الأقصى")
	}
	if seen[obj] {
		return map[string]interface{}{"__ref__": "<مرجع دائري>"}, nil
	}
	seen[obj] = true
	out := make(map[string]interface{}, len(obj.Fields))
	for name, d := range obj.Fields {
		sd, ok := d.(scope.Declaration)
		if !ok {
			continue
		}
		v := scope.CurrentValue(sd)
		if v == nil {
			continue
		}
		conv, err := valueToHost(v, seen, depth+1)
		if err != nil {
			return nil, err
		}
		out[name] = conv
	}
	return out, nil
}

// valueToHost is ObjectToMap's recursive element converter for nested
// objects/lists; scalar kinds pass through as their narrowest Go
// representation via hostResultToValue's inverse (conversionCost already
// handles the top-level scalar cases, this only needs to recurse through
// containers and nested objects the top-level switch doesn't see).
func valueToHost(v value.Value, seen map[*value.Object]bool, depth int) (interface{}, error) {
	switch x := v.(type) {
	case *value.Object:
		return objectToMap(x, seen, depth)
	case *value.List:
		out := make([]interface{}, len(x.Elements))
		for i, e := range x.Elements {
			conv, err := valueToHost(e, seen, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case value.Number:
		return x.N.AsFloat64(), nil
	case value.String:
		return string(x), nil
	case value.Boolean:
		return bool(x), nil
	default:
		return v, nil
	}
}

// FindClass implements spec §4.E's `find-class(qualified-name) ->
// descriptor`.
func FindClass(qualifiedName string, pos nerr.Position) (*ClassDescriptor, error) {
	if directory == nil {
		return nil, nerr.Internalf(pos, "لم يتم ربط دليل الأصناف المضيفة")
	}
	d, ok := directory.FindClass(qualifiedName)
	if !ok {
		return nil, nerr.New(nerr.InvocableNotFound, pos, qualifiedName)
	}
	return d, nil
}

func assignableHostClass(actual, target string) bool {
	if directory == nil {
		return false
	}
	seen := map[string]bool{}
	var walk func(name string) bool
	walk = func(name string) bool {
		if name == target {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		d, ok := directory.FindClass(name)
		if !ok {
			return false
		}
		for _, s := range d.Supertypes {
			if walk(s) {
				return true
			}
		}
		return false
	}
	return walk(actual)
}

// Argument is one call-site argument: either positional or named, spec
// §4.E's overload-resolution input shape.
type Argument struct {
	Name  string // empty if positional
	Value value.Value
}

// rejectScore is the cost scoreCandidate returns for an Invocable that
// cannot accept the argument list: the largest int.
const rejectScore = int(^uint(0) >> 1)

// FindInvocable implements spec §4.E's `find-invocable(descriptor,
// method-name, arg-shape) -> best-match` including the tie-break-by-
// declared-order and AmbiguousOverload rules.
func FindInvocable(desc *ClassDescriptor, methodName string, args []Argument, pos nerr.Position) (*Invocable, []interface{}, error) {
	candidates := desc.Methods[methodName]
	if len(candidates) == 0 {
		return nil, nil, nerr.New(nerr.InvocableNotFound, pos, methodName)
	}
	return resolve(candidates, args, pos)
}

// FindConstructor is FindInvocable's constructor-dispatch counterpart.
func FindConstructor(desc *ClassDescriptor, args []Argument, pos nerr.Position) (*Invocable, []interface{}, error) {
	if len(desc.Constructors) == 0 {
		return nil, nil, nerr.New(nerr.InvocableNotFound, pos, desc.Name)
	}
	return resolve(desc.Constructors, args, pos)
}

func resolve(candidates []*Invocable, args []Argument, pos nerr.Position) (*Invocable, []interface{}, error) {
	bestScore := rejectScore
	var best *Invocable
	var bestConverted []interface{}
	tieScore := rejectScore
	var second *Invocable

	for _, c := range candidates {
		score, converted := scoreCandidate(c, args)
		if score == rejectScore {
			continue
		}
		if score < bestScore {
			tieScore = bestScore
			second = best
			bestScore = score
			best = c
			bestConverted = converted
		} else if score == bestScore {
			tieScore = score
			second = c
		}
	}
	if best == nil {
		return nil, nil, nerr.New(nerr.ArityMismatch, pos, "لا توجد نسخة مطابقة")
	}
	if second != nil && tieScore == bestScore {
		return nil, nil, nerr.New(nerr.AmbiguousOverload, pos, best.Name, second.Name)
	}
	return best, bestConverted, nil
}

// scoreCandidate computes spec §4.E's per-argument cost sum, or
// rejectScore if arity or assignability fails.
func scoreCandidate(c *Invocable, args []Argument) (int, []interface{}) {
	ordered, ok := orderArguments(c, args)
	if !ok {
		return rejectScore, nil
	}
	if len(ordered) != len(c.Params) {
		if !c.Variadic {
			return rejectScore, nil
		}
	}
	total := 0
	converted := make([]interface{}, len(ordered))
	for i, a := range ordered {
		if a == nil {
			continue // defaulted tail parameter
		}
		paramType := c.Params[minInt(i, len(c.Params)-1)]
		if !value.AssignableTo(a, paramType) {
			return rejectScore, nil
		}
		cost, conv := conversionCost(a, paramType)
		total += cost
		converted[i] = conv
	}
	return total, converted
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// orderArguments maps arguments onto a candidate's declared parameters by
// position; Argument.Name is not consulted. Parameters past the supplied
// arguments are left nil. ok is false when a non-variadic candidate gets
// more arguments than it has parameters, or when a parameter past the
// supplied arguments is not marked in Defaults.
func orderArguments(c *Invocable, args []Argument) ([]value.Value, bool) {
	out := make([]value.Value, len(c.Params))
	filled := 0
	for i, a := range args {
		if i >= len(c.Params) && !c.Variadic {
			return nil, false
		}
		idx := i
		if idx >= len(out) {
			out = append(out, nil)
		}
		out[idx] = a.Value
		filled++
	}
	for i := filled; i < len(out); i++ {
		if i < len(c.Defaults) && c.Defaults[i] {
			continue
		}
		if out[i] == nil {
			return nil, false
		}
	}
	return out, true
}

// conversionCost implements spec §4.E's cost ladder: 0 exact, 1 subtype,
// 2 numeric-widening, 3 container-element conversion, 4 unboxing/auto.
func conversionCost(v value.Value, target value.TypeDescriptor) (int, interface{}) {
	switch x := v.(type) {
	case value.Number:
		if numKindTagMatches(x, target.RawClass) {
			return 0, x
		}
		return 2, x
	case *value.List, *value.Tuple, *value.Set, *value.Map:
		return 3, v
	case *value.Object:
		if target.RawClass == value.TypeMap {
			m, err := ObjectToMap(x)
			if err != nil {
				return 3, v
			}
			return 3, m
		}
		return 0, v
	case value.HostObject:
		if x.ClassName == target.RawClass {
			return 0, x.Ref
		}
		return 1, x.Ref
	default:
		return 0, v
	}
}

// numKindTagMatches reports whether n's own narrowest numeric kind is
// exactly the target parameter's declared numeric type tag (an exact
// match costs 0 in scoreCandidate; anything else that still passes
// AssignableTo is a widening conversion, cost 2).
func numKindTagMatches(n value.Number, tag string) bool {
	return numKindTag(n.N.Kind) == tag
}

func numKindTag(k value.NumKind) string {
	switch k {
	case value.KindByte:
		return value.TypeByte
	case value.KindShort:
		return value.TypeShort
	case value.KindInt:
		return value.TypeInt
	case value.KindLong:
		return value.TypeLong
	case value.KindBigInt:
		return value.TypeBigInt
	case value.KindFloat:
		return value.TypeFloat
	case value.KindDouble:
		return value.TypeDouble
	default:
		return value.TypeBigDecimal
	}
}
