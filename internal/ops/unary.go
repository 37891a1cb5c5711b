// Package ops dispatches the unary and binary operators of spec §4.C by
// operand tag, the way the teacher's vm opcode handlers dispatch by
// opcode rather than through a visitor per operator (internal/vm/vm.go's
// run loop switches on op, computes, and pushes — the same shape this
// package's Binary/Unary switches follow, just operating on tagged
// Values instead of a bytecode stack).
package ops

import (
	nerr "naftah/internal/errors"
	"naftah/internal/value"
)

// UnaryKind enumerates spec §4.C's unary operator set.
type UnaryKind int

const (
	Plus UnaryKind = iota
	Minus
	Not
	BitNot
	PreIncrement
	PostIncrement
	PreDecrement
	PostDecrement
	TypeOf
	SizeOf
)

// Unary applies a unary operator. PreIncrement/PostIncrement/PreDecrement/
// PostDecrement return the value the caller should store back into the
// operand's slot as their second result; TypeOf and SizeOf return a nil
// second result; for all other kinds the second result equals the first
// (no mutation requested).
func Unary(kind UnaryKind, v value.Value, pos nerr.Position) (result value.Value, toStore value.Value, err error) {
	if _, ok := v.(value.Empty); ok {
		return nil, nil, nerr.New(nerr.EmptyArgument, pos, "معامل العملية الأحادية مفقود")
	}
	switch kind {
	case Plus:
		n, ok := v.(value.Number)
		if !ok {
			return nil, nil, nerr.New(nerr.TypeMismatch, pos, "+ أحادي يتطلب رقماً")
		}
		return n, n, nil
	case Minus:
		n, ok := v.(value.Number)
		if !ok {
			return nil, nil, nerr.New(nerr.TypeMismatch, pos, "- أحادي يتطلب رقماً")
		}
		r := value.Number{N: value.Negate(n.N)}
		return r, r, nil
	case Not:
		r := value.Boolean(!value.Truthy(v))
		return r, r, nil
	case BitNot:
		n, ok := v.(value.Number)
		if !ok {
			return nil, nil, nerr.New(nerr.TypeMismatch, pos, "~ يتطلب رقماً صحيحاً")
		}
		nn, err := value.BitNot(n.N, pos)
		if err != nil {
			return nil, nil, err
		}
		r := value.Number{N: nn}
		return r, r, nil
	case PreIncrement, PostIncrement, PreDecrement, PostDecrement:
		n, ok := v.(value.Number)
		if !ok {
			return nil, nil, nerr.New(nerr.TypeMismatch, pos, "عامل الزيادة/النقصان يتطلب رقماً")
		}
		one := value.FromInt(1)
		var nn value.DynNum
		if kind == PreIncrement || kind == PostIncrement {
			nn, err = value.Add(n.N, one, pos)
		} else {
			nn, err = value.Sub(n.N, one, pos)
		}
		if err != nil {
			return nil, nil, err
		}
		updated := value.Number{N: nn}
		if kind == PreIncrement || kind == PreDecrement {
			return updated, updated, nil
		}
		return n, updated, nil
	case TypeOf:
		return value.TypeToken{Descriptor: TypeOfValue(v)}, nil, nil
	case SizeOf:
		sz, err := SizeOfValue(v, pos)
		if err != nil {
			return nil, nil, err
		}
		return value.Number{N: sz}, nil, nil
	}
	return nil, nil, nerr.Internalf(pos, "عملية أحادية غير معروفة")
}

// TypeOfValue implements `typeof` (spec §4.C.8's companion): returns the
// TypeDescriptor naming v's runtime shape, recursing into containers so a
// list of ints reports list<int> rather than bare list.
func TypeOfValue(v value.Value) value.TypeDescriptor {
	switch x := v.(type) {
	case value.Number:
		return value.TypeDescriptor{RawClass: numKindTag(x.N.Kind)}
	case value.String:
		return value.TypeDescriptor{RawClass: value.TypeString}
	case value.Char:
		return value.TypeDescriptor{RawClass: value.TypeChar}
	case value.Boolean:
		return value.TypeDescriptor{RawClass: value.TypeBoolean}
	case *value.List:
		return value.TypeDescriptor{RawClass: value.TypeList, TypeParameters: elemTypes(x.Elements)}
	case *value.Tuple:
		return value.TypeDescriptor{RawClass: value.TypeTuple, TypeParameters: elemTypes(x.Elements)}
	case *value.Set:
		return value.TypeDescriptor{RawClass: value.TypeSet, TypeParameters: elemTypes(x.Elements())}
	case *value.Map:
		entries := x.Entries()
		if len(entries) == 0 {
			return value.TypeDescriptor{RawClass: value.TypeMap}
		}
		keys := make([]value.Value, len(entries))
		vals := make([]value.Value, len(entries))
		for i, e := range entries {
			keys[i] = e.First
			vals[i] = e.Second
		}
		return value.TypeDescriptor{
			RawClass:       value.TypeMap,
			TypeParameters: []value.TypeDescriptor{unifyTypes(keys), unifyTypes(vals)},
		}
	case value.Pair:
		return value.TypeDescriptor{RawClass: value.TypePair, TypeParameters: []value.TypeDescriptor{TypeOfValue(x.First), TypeOfValue(x.Second)}}
	case value.Triple:
		return value.TypeDescriptor{RawClass: value.TypeTriple, TypeParameters: []value.TypeDescriptor{TypeOfValue(x.First), TypeOfValue(x.Second), TypeOfValue(x.Third)}}
	case value.HostObject:
		return value.TypeDescriptor{RawClass: x.ClassName}
	case value.TypeToken:
		return value.TypeDescriptor{RawClass: "type-token"}
	case value.Null:
		return value.TypeDescriptor{RawClass: "null"}
	case value.None:
		return value.TypeDescriptor{RawClass: "none"}
	case value.NaNValue:
		return value.TypeDescriptor{RawClass: value.TypeDouble}
	default:
		return value.TypeDescriptor{RawClass: value.TypeVar}
	}
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

func elemTypes(vs []value.Value) []value.TypeDescriptor {
	if len(vs) == 0 {
		return nil
	}
	return []value.TypeDescriptor{unifyTypes(vs)}
}

// unifyTypes reports the element type of a heterogeneous container as the
// first element's type if all elements share it, else falls back to var
// (spec §3 doesn't mandate homogeneity, so mixed containers degrade
// gracefully rather than erroring at typeof-time).
func unifyTypes(vs []value.Value) value.TypeDescriptor {
	first := TypeOfValue(vs[0])
	for _, v := range vs[1:] {
		if TypeOfValue(v).String() != first.String() {
			return value.TypeDescriptor{RawClass: value.TypeVar}
		}
	}
	return first
}

// SizeOfValue implements `sizeof` (spec §4.C's companion operator):
// container count, string rune-count, or a numeric type's bit width.
func SizeOfValue(v value.Value, pos nerr.Position) (value.DynNum, error) {
	switch x := v.(type) {
	case value.String:
		return value.FromInt(int32(len([]rune(string(x))))), nil
	case *value.List:
		return value.FromInt(int32(len(x.Elements))), nil
	case *value.Tuple:
		return value.FromInt(int32(len(x.Elements))), nil
	case *value.Set:
		return value.FromInt(int32(x.Len())), nil
	case *value.Map:
		return value.FromInt(int32(x.Len())), nil
	case value.Number:
		return value.FromInt(int32(bitWidth(x.N.Kind))), nil
	default:
		return value.DynNum{}, nerr.New(nerr.TypeMismatch, pos, "sizeof غير مدعوم لهذا النوع")
	}
}

func bitWidth(k value.NumKind) int {
	switch k {
	case value.KindByte:
		return 8
	case value.KindShort:
		return 16
	case value.KindInt:
		return 32
	case value.KindLong:
		return 64
	default:
		return 0
	}
}
