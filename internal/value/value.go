// Package value implements the naftah tagged value model and the dynamic
// numeric tower (spec §3, §4.A). Values are a closed set of concrete Go
// types behind the Value interface; components elsewhere in the runtime
// dispatch on the concrete type with a type switch rather than virtual
// dispatch, the way the teacher's bytecode.Chunk dispatches on opcode
// rather than via an interface per instruction.
package value

import (
	"fmt"
)

// Tag names one of the fixed variants of spec §3's Value sum type.
type Tag int

const (
	TagNull Tag = iota
	TagNone
	TagBoolean
	TagChar
	TagString
	TagNaN
	TagNumber
	TagTemporalPoint
	TagTemporalAmount
	TagList
	TagTuple
	TagSet
	TagMap
	TagPair
	TagTriple
	TagObject
	TagHostObject
	TagFunction
	TagBuiltinFunction
	TagTask
	TagChannel
	TagActor
	TagTypeToken
	TagEmpty
)

func (t Tag) String() string {
	names := [...]string{
		"null", "none", "boolean", "char", "string", "nan", "number",
		"temporal-point", "temporal-amount", "list", "tuple", "set", "map",
		"pair", "triple", "object", "host-object", "function",
		"builtin-function", "task", "channel", "actor", "type-token", "empty",
	}
	if int(t) < 0 || int(t) >= len(names) {
		return "unknown"
	}
	return names[t]
}

// Value is implemented by every concrete variant. Tag lets callers branch
// without a type switch when only the category matters (e.g. truthiness);
// most real dispatch still uses a type switch on the concrete type because
// Go gives no exhaustiveness check on a tag alone.
type Value interface {
	Tag() Tag
	String() string
}

// Null is the value of an explicitly absent result distinct from None.
type Null struct{}

func (Null) Tag() Tag        { return TagNull }
func (Null) String() string  { return "null" }

// None is a distinct singleton for Option-style absence. It is never equal
// to Null (spec §3 invariant).
type None struct{}

func (None) Tag() Tag       { return TagNone }
func (None) String() string { return "none" }

// Empty is the sentinel "missing argument" value (spec §4.C.9): an
// operation engine rule, not a user-constructible literal — it appears
// only where an argument position was left unfilled (e.g. a trailing
// call argument omitted entirely, distinct from passing Null/None).
type Empty struct{}

func (Empty) Tag() Tag       { return TagEmpty }
func (Empty) String() string { return "<فارغ>" }

// Boolean wraps a bool.
type Boolean bool

func (b Boolean) Tag() Tag { return TagBoolean }
func (b Boolean) String() string {
	if b {
		return "صحيح"
	}
	return "خطأ"
}

// Char wraps a single Unicode code point.
type Char rune

func (c Char) Tag() Tag       { return TagChar }
func (c Char) String() string { return string(rune(c)) }

// String wraps interpreted text.
type String string

func (s String) Tag() Tag      { return TagString }
func (s String) String() string { return string(s) }

// NaNValue is the distinct NaN singleton: unequal to everything including
// itself, identity-comparable only (spec §4.A).
type NaNValue struct{}

func (NaNValue) Tag() Tag       { return TagNaN }
func (NaNValue) String() string { return "NaN" }

// Number wraps a DynNum (defined in dynnum.go).
type Number struct{ N DynNum }

func (n Number) Tag() Tag       { return TagNumber }
func (n Number) String() string { return n.N.FormatArabic() }

// Pair is a fixed 2-tuple with no arity checking beyond construction.
type Pair struct{ First, Second Value }

func (p Pair) Tag() Tag { return TagPair }
func (p Pair) String() string {
	return fmt.Sprintf("(%s, %s)", p.First.String(), p.Second.String())
}

// Triple is a fixed 3-tuple.
type Triple struct{ First, Second, Third Value }

func (t Triple) Tag() Tag { return TagTriple }
func (t Triple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.First.String(), t.Second.String(), t.Third.String())
}

// List is an ordered, growable sequence.
type List struct{ Elements []Value }

func (l *List) Tag() Tag { return TagList }
func (l *List) String() string {
	return formatElements("list", valuesToStrings(l.Elements))
}

// Tuple is a fixed-arity ordered sequence.
type Tuple struct{ Elements []Value }

func (t *Tuple) Tag() Tag { return TagTuple }
func (t *Tuple) String() string {
	return formatElements("tuple", valuesToStrings(t.Elements))
}

// Set holds unique values, optionally remembering insertion order (spec
// §3: "Set(set<Value> with optional insertion-ordering flag)").
type Set struct {
	Ordered bool
	order   []Value // insertion order, used when Ordered
	index   map[string]int
}

// NewSet constructs an empty set. ordered controls whether Insert
// preserves and Iterate yields insertion order.
func NewSet(ordered bool) *Set {
	return &Set{Ordered: ordered, index: make(map[string]int)}
}

func (s *Set) Tag() Tag { return TagSet }

// Insert adds v if not already present, keyed by its structural key.
func (s *Set) Insert(v Value) {
	k := StructuralKey(v)
	if _, ok := s.index[k]; ok {
		return
	}
	s.index[k] = len(s.order)
	s.order = append(s.order, v)
}

// Contains reports structural membership.
func (s *Set) Contains(v Value) bool {
	_, ok := s.index[StructuralKey(v)]
	return ok
}

// Len returns the element count.
func (s *Set) Len() int { return len(s.order) }

// At returns the element at position i in iteration order (§4.F.3: set
// iterates "in insertion order (when ordered) else implementation-defined
// but stable within an iteration"). Naftah always stores insertion order
// internally and simply does not promise it externally when Ordered is
// false; this keeps iteration deterministic for one evaluation without
// violating the "implementation-defined" clause.
func (s *Set) At(i int) (Value, bool) {
	if i < 0 || i >= len(s.order) {
		return nil, false
	}
	return s.order[i], true
}

// Elements returns the set contents in iteration order.
func (s *Set) Elements() []Value {
	return append([]Value(nil), s.order...)
}

func (s *Set) String() string {
	return formatElements("set", valuesToStrings(s.order))
}

// mapEntry is one key/value pair of a Map, kept alongside the index so
// insertion order survives even when a key's value is overwritten.
type mapEntry struct {
	Key   Value
	Value Value
}

// Map is a mapping from Value keys to Value values, optionally
// insertion-ordered (spec §3).
type Map struct {
	Ordered bool
	entries []mapEntry
	index   map[string]int
}

// NewMap constructs an empty map.
func NewMap(ordered bool) *Map {
	return &Map{Ordered: ordered, index: make(map[string]int)}
}

func (m *Map) Tag() Tag { return TagMap }

// Set stores or overwrites the value for key, preserving the original
// insertion position on overwrite.
func (m *Map) Set(key, val Value) {
	k := StructuralKey(key)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = val
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, mapEntry{Key: key, Value: val})
}

// Get looks up key.
func (m *Map) Get(key Value) (Value, bool) {
	i, ok := m.index[StructuralKey(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Len returns the entry count.
func (m *Map) Len() int { return len(m.entries) }

// Entries returns the key/value pairs in iteration order.
func (m *Map) Entries() []Pair {
	out := make([]Pair, len(m.entries))
	for i, e := range m.entries {
		out[i] = Pair{First: e.Key, Second: e.Value}
	}
	return out
}

func (m *Map) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.Key.String() + ":" + e.Value.String()
	}
	return formatElements("map", parts)
}

// Declaration is implemented by the declaration kinds defined in the scope
// package; Object stores those behind an interface to avoid an import
// cycle (value is a leaf package, scope depends on value).
type Declaration interface {
	DeclName() string
}

// Object is a struct-like mapping of field name to declaration (spec §3:
// `Object(mapping<name,Declaration>)`).
type Object struct {
	Fields map[string]Declaration
	// order preserves field-literal declaration order for printing.
	order []string
}

// NewObject constructs an empty object literal value.
func NewObject() *Object {
	return &Object{Fields: make(map[string]Declaration)}
}

func (o *Object) Tag() Tag { return TagObject }

// Set stores a field, recording first-seen order.
func (o *Object) Set(name string, d Declaration) {
	if _, exists := o.Fields[name]; !exists {
		o.order = append(o.order, name)
	}
	o.Fields[name] = d
}

func (o *Object) String() string {
	parts := make([]string, len(o.order))
	for i, name := range o.order {
		parts[i] = name
	}
	return formatElements("object", parts)
}

// HostObject is an opaque reference into the embedding host runtime,
// reached only through the Host Interop Bridge (spec §4.E).
type HostObject struct {
	ClassName string
	Ref       interface{}
}

func (h HostObject) Tag() Tag       { return TagHostObject }
func (h HostObject) String() string { return "<host:" + h.ClassName + ">" }

// TypeToken wraps a TypeDescriptor as a first-class value, produced by
// `typeof` and consumed by `instanceof` (spec §4.C.8).
type TypeToken struct{ Descriptor TypeDescriptor }

func (t TypeToken) Tag() Tag       { return TagTypeToken }
func (t TypeToken) String() string { return t.Descriptor.String() }

func valuesToStrings(vs []Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func formatElements(kind string, parts []string) string {
	s := kind + ": ["
	for i, p := range parts {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s + "]"
}

// Truthy implements operand truthiness (spec §4.C.5).
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Number:
		return !x.N.IsZero()
	case Boolean:
		return bool(x)
	case Char:
		return x != 0
	case String:
		return len(x) > 0
	case Null, None:
		return false
	case NaNValue:
		return false
	case *List:
		return len(x.Elements) > 0
	case *Tuple:
		return len(x.Elements) > 0
	case *Set:
		return x.Len() > 0
	case *Map:
		return x.Len() > 0
	default:
		return true
	}
}
