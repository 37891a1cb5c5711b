package value

import "strings"

// Built-in categorical type tags (spec §3).
const (
	TypeList          = "list"
	TypeSet           = "set"
	TypeMap           = "map"
	TypePair          = "pair"
	TypeTriple        = "triple"
	TypeTuple         = "tuple"
	TypeStruct        = "struct"
	TypeString        = "string"
	TypeChar          = "char"
	TypeByte          = "byte"
	TypeShort         = "short"
	TypeInt           = "int"
	TypeLong          = "long"
	TypeBigInt        = "bigint"
	TypeFloat         = "float"
	TypeDouble        = "double"
	TypeBigDecimal    = "bigdecimal"
	TypeVarNumber     = "var-number"
	TypeVar           = "var"
	TypeDuration      = "duration"
	TypePeriod        = "period"
	TypePeriodAndDuration = "period-duration"
	TypeDate          = "date"
	TypeTime          = "time"
	TypeDateTime      = "date-time"
	TypeBoolean       = "boolean"
	TypeVoid          = "void"
)

// TypeDescriptor describes a type: either a built-in categorical tag or a
// host class name, plus its generic parameters (spec §3).
type TypeDescriptor struct {
	RawClass       string
	TypeParameters []TypeDescriptor
	ArrayComponent *TypeDescriptor
}

func (t TypeDescriptor) String() string {
	if len(t.TypeParameters) == 0 {
		return t.RawClass
	}
	parts := make([]string, len(t.TypeParameters))
	for i, p := range t.TypeParameters {
		parts[i] = p.String()
	}
	return t.RawClass + "<" + strings.Join(parts, ", ") + ">"
}

var numericOrder = map[string]int{
	TypeByte: 0, TypeShort: 1, TypeInt: 2, TypeLong: 3, TypeBigInt: 4,
	TypeFloat: 5, TypeDouble: 6, TypeBigDecimal: 7,
}

func isNumericType(tag string) bool {
	_, ok := numericOrder[tag]
	return ok
}

// numKindOfTag maps a numeric type tag to the DynNum kind it corresponds
// to, used to test whether a value's narrowest representation fits.
func numKindOfTag(tag string) NumKind {
	switch tag {
	case TypeByte:
		return KindByte
	case TypeShort:
		return KindShort
	case TypeInt:
		return KindInt
	case TypeLong:
		return KindLong
	case TypeBigInt:
		return KindBigInt
	case TypeFloat:
		return KindFloat
	case TypeDouble:
		return KindDouble
	case TypeBigDecimal:
		return KindBigDecimal
	}
	return KindBigDecimal
}

// AssignableTo implements spec §4.A's assignability relation.
func AssignableTo(v Value, t TypeDescriptor) bool {
	switch t.RawClass {
	case TypeVar, TypeStruct:
		return true
	}

	if isNumericType(t.RawClass) {
		n, ok := v.(Number)
		if !ok {
			return false
		}
		return fitsNumericTag(n.N, t.RawClass)
	}
	if t.RawClass == TypeVarNumber {
		_, ok := v.(Number)
		return ok
	}

	switch t.RawClass {
	case TypeString:
		_, ok := v.(String)
		return ok
	case TypeChar:
		_, ok := v.(Char)
		return ok
	case TypeBoolean:
		_, ok := v.(Boolean)
		return ok
	case TypeList:
		l, ok := v.(*List)
		if !ok {
			return false
		}
		return elementsAssignable(l.Elements, t.TypeParameters)
	case TypeSet:
		s, ok := v.(*Set)
		if !ok {
			return false
		}
		return elementsAssignable(s.Elements(), t.TypeParameters)
	case TypeTuple:
		tu, ok := v.(*Tuple)
		if !ok {
			return false
		}
		if len(t.TypeParameters) > 0 && len(t.TypeParameters) != len(tu.Elements) {
			return false
		}
		return elementsAssignable(tu.Elements, t.TypeParameters)
	case TypeMap:
		m, ok := v.(*Map)
		if !ok {
			return false
		}
		if len(t.TypeParameters) != 2 {
			return true
		}
		for _, e := range m.Entries() {
			if !AssignableTo(e.First, t.TypeParameters[0]) || !AssignableTo(e.Second, t.TypeParameters[1]) {
				return false
			}
		}
		return true
	case TypePair:
		p, ok := v.(Pair)
		if !ok {
			return false
		}
		if len(t.TypeParameters) != 2 {
			return true
		}
		return AssignableTo(p.First, t.TypeParameters[0]) && AssignableTo(p.Second, t.TypeParameters[1])
	case TypeTriple:
		tr, ok := v.(Triple)
		if !ok {
			return false
		}
		if len(t.TypeParameters) != 3 {
			return true
		}
		return AssignableTo(tr.First, t.TypeParameters[0]) &&
			AssignableTo(tr.Second, t.TypeParameters[1]) &&
			AssignableTo(tr.Third, t.TypeParameters[2])
	case TypeDuration, TypePeriod, TypePeriodAndDuration, TypeDate, TypeTime, TypeDateTime:
		return AssignableTemporal(v, t.RawClass)
	}

	// Host-object types: the host's own subtyping, delegated through the
	// HostObject's recorded class name (exact or hierarchy lookup lives in
	// the Host Interop Bridge, which calls AssignableHostClass).
	if ho, ok := v.(HostObject); ok {
		return ho.ClassName == t.RawClass || AssignableHostClass(ho.ClassName, t.RawClass)
	}
	return false
}

// AssignableHostClass is overridden by the host interop bridge at wiring
// time so that value.AssignableTo can defer host subtyping decisions to
// it without an import cycle (value is a leaf package).
var AssignableHostClass = func(actual, target string) bool { return false }

func elementsAssignable(vs []Value, params []TypeDescriptor) bool {
	if len(params) == 0 {
		return true
	}
	elemType := params[0]
	for _, v := range vs {
		if !AssignableTo(v, elemType) {
			return false
		}
	}
	return true
}

func fitsNumericTag(n DynNum, tag string) bool {
	target := numKindOfTag(tag)
	if !n.Kind.IsDecimalKind() && !target.IsDecimalKind() {
		return n.Kind <= target
	}
	if n.Kind.IsDecimalKind() && target.IsDecimalKind() {
		return n.Kind <= target
	}
	if !n.Kind.IsDecimalKind() && target.IsDecimalKind() {
		// An integer fits a decimal slot when that decimal width can
		// represent it exactly.
		widened := widenTo(n, target)
		return widened.AsBigDecimal().Equal(n.AsBigDecimal())
	}
	// A decimal value assigned to an integer slot must be a whole number
	// that fits exactly.
	bd := n.AsBigDecimal()
	if !bd.Equal(bd.Truncate(0)) {
		return false
	}
	widened := narrowInt(bd.BigInt(), 0)
	return widened.Kind <= target
}

// AssignableTemporal is patched by the temporal package at wiring time to
// avoid an import cycle, the same way AssignableHostClass is patched by
// the host interop bridge.
var AssignableTemporal = func(v Value, tag string) bool { return false }
