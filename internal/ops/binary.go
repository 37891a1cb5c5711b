package ops

import (
	"strings"

	nerr "naftah/internal/errors"
	"naftah/internal/value"
)

// BinaryKind enumerates spec §4.C's binary operator set, including the
// element-wise variants (`.+.` etc.) as distinct kinds rather than a flag,
// since their broadcasting behavior is a genuinely different code path.
type BinaryKind int

const (
	Add BinaryKind = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	And
	Or
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Ushr
	InstanceOf
	ElemAdd
	ElemSub
	ElemMul
	ElemDiv
	ElemMod
)

var elementwiseKinds = map[BinaryKind]BinaryKind{
	ElemAdd: Add, ElemSub: Sub, ElemMul: Mul, ElemDiv: Div, ElemMod: Mod,
}

// Binary dispatches a binary operator by operand tag per spec §4.C's nine
// numbered rules.
func Binary(kind BinaryKind, left, right value.Value, pos nerr.Position) (value.Value, error) {
	if _, ok := left.(value.Empty); ok {
		return nil, nerr.New(nerr.EmptyArgument, pos, "الطرف الأيسر للعملية مفقود")
	}
	if _, ok := right.(value.Empty); ok {
		return nil, nerr.New(nerr.EmptyArgument, pos, "الطرف الأيمن للعملية مفقود")
	}
	if scalar, ok := elementwiseKinds[kind]; ok {
		return elementwise(scalar, left, right, pos)
	}

	switch kind {
	case And:
		if !value.Truthy(left) {
			return left, nil
		}
		return right, nil
	case Or:
		if value.Truthy(left) {
			return left, nil
		}
		return right, nil
	case Eq:
		return value.Boolean(equalValues(left, right)), nil
	case Ne:
		return value.Boolean(!equalValues(left, right)), nil
	case InstanceOf:
		tok, ok := right.(value.TypeToken)
		if !ok {
			return nil, nerr.New(nerr.TypeMismatch, pos, "instanceof يتطلب رمز نوع على اليمين")
		}
		return value.Boolean(value.AssignableTo(left, tok.Descriptor)), nil
	}

	if ls, ok := left.(value.String); ok {
		return stringBinary(kind, ls, right, pos)
	}
	if rs, ok := right.(value.String); ok {
		if kind == Add {
			return value.String(left.String() + string(rs)), nil
		}
		if lc, ok := left.(value.Char); ok && kind == Add {
			return value.String(string(rune(lc)) + string(rs)), nil
		}
	}

	if lc, ok := left.(value.Char); ok {
		if rc, ok := right.(value.Char); ok {
			return numericBinary(kind, charToNumber(lc), charToNumber(rc), pos)
		}
		if rn, ok := right.(value.Number); ok {
			return numericBinary(kind, charToNumber(lc), rn, pos)
		}
		if rs, ok := right.(value.String); ok && kind == Add {
			return value.String(string(rune(lc)) + string(rs)), nil
		}
	}
	if rc, ok := right.(value.Char); ok {
		if ln, ok := left.(value.Number); ok {
			return numericBinary(kind, ln, charToNumber(rc), pos)
		}
	}

	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if lok && rok {
		return numericBinary(kind, ln, rn, pos)
	}

	return nil, nerr.New(nerr.TypeMismatch, pos, "عملية غير مدعومة على هذه الأنواع")
}

func charToNumber(c value.Char) value.Number {
	return value.Number{N: value.FromInt(int32(c))}
}

func stringBinary(kind BinaryKind, left value.String, right value.Value, pos nerr.Position) (value.Value, error) {
	switch kind {
	case Add:
		return value.String(string(left) + right.String()), nil
	case Mul:
		rn, ok := right.(value.Number)
		if !ok {
			return nil, nerr.New(nerr.TypeMismatch, pos, "* على نص يتطلب عدداً صحيحاً")
		}
		n := rn.N.AsBigInt().Int64()
		if n < 0 {
			return nil, nerr.New(nerr.NegativeNumber, pos, "لا يمكن تكرار نص بعدد سالب")
		}
		return value.String(strings.Repeat(string(left), int(n))), nil
	case Lt:
		return value.Boolean(string(left) < right.String()), nil
	case Le:
		return value.Boolean(string(left) <= right.String()), nil
	case Gt:
		return value.Boolean(string(left) > right.String()), nil
	case Ge:
		return value.Boolean(string(left) >= right.String()), nil
	}
	return nil, nerr.New(nerr.TypeMismatch, pos, "عملية غير مدعومة على النصوص")
}

func numericBinary(kind BinaryKind, left, right value.Number, pos nerr.Position) (value.Value, error) {
	a, b := left.N, right.N
	switch kind {
	case Add:
		n, err := value.Add(a, b, pos)
		return wrapNum(n, err)
	case Sub:
		n, err := value.Sub(a, b, pos)
		return wrapNum(n, err)
	case Mul:
		n, err := value.Mul(a, b, pos)
		return wrapNum(n, err)
	case Div:
		n, err := value.Div(a, b, pos)
		return wrapNum(n, err)
	case Mod:
		n, err := value.Mod(a, b, pos)
		return wrapNum(n, err)
	case Pow:
		n, err := value.Pow(a, b, pos)
		return wrapNum(n, err)
	case Lt:
		return value.Boolean(value.Compare(a, b) < 0), nil
	case Le:
		return value.Boolean(value.Compare(a, b) <= 0), nil
	case Gt:
		return value.Boolean(value.Compare(a, b) > 0), nil
	case Ge:
		return value.Boolean(value.Compare(a, b) >= 0), nil
	case BitAnd:
		n, err := value.BitAnd(a, b, pos)
		return wrapNum(n, err)
	case BitOr:
		n, err := value.BitOr(a, b, pos)
		return wrapNum(n, err)
	case BitXor:
		n, err := value.BitXor(a, b, pos)
		return wrapNum(n, err)
	case Shl:
		n, err := value.ShiftLeft(a, b, pos)
		return wrapNum(n, err)
	case Shr:
		n, err := value.ShiftRight(a, b, pos)
		return wrapNum(n, err)
	case Ushr:
		n, err := value.UnsignedShiftRight(a, b, pos)
		return wrapNum(n, err)
	}
	return nil, nerr.New(nerr.TypeMismatch, pos, "عملية رقمية غير معروفة")
}

func wrapNum(n value.DynNum, err error) (value.Value, error) {
	if err != nil {
		return nil, err
	}
	return value.Number{N: n}, nil
}

// equalValues implements spec §4.C.7/§4.A's equality rule: NaN never
// equals anything including itself; otherwise structural equality for
// containers/temporal values, reference equality for host objects
// (delegated to value.StructuralEqual), and numeric cross-kind equality
// by numeric value.
func equalValues(a, b value.Value) bool {
	if _, ok := a.(value.NaNValue); ok {
		return false
	}
	if _, ok := b.(value.NaNValue); ok {
		return false
	}
	an, aok := a.(value.Number)
	bn, bok := b.(value.Number)
	if aok && bok {
		return value.Compare(an.N, bn.N) == 0
	}
	if a.Tag() != b.Tag() {
		return false
	}
	return value.StructuralEqual(a, b)
}

// elementwise implements spec §4.C.6: matching-shape containers combine
// position-by-position; a scalar broadcasts across the other side;
// mismatched arities raise ShapeMismatch.
func elementwise(scalar BinaryKind, left, right value.Value, pos nerr.Position) (value.Value, error) {
	ll, lIsList := left.(*value.List)
	rl, rIsList := right.(*value.List)

	switch {
	case lIsList && rIsList:
		if len(ll.Elements) != len(rl.Elements) {
			return nil, nerr.New(nerr.ShapeMismatch, pos, "عدم تطابق الأبعاد في العملية العنصرية")
		}
		out := make([]value.Value, len(ll.Elements))
		for i := range ll.Elements {
			v, err := Binary(scalar, ll.Elements[i], rl.Elements[i], pos)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &value.List{Elements: out}, nil
	case lIsList:
		out := make([]value.Value, len(ll.Elements))
		for i, e := range ll.Elements {
			v, err := Binary(scalar, e, right, pos)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &value.List{Elements: out}, nil
	case rIsList:
		out := make([]value.Value, len(rl.Elements))
		for i, e := range rl.Elements {
			v, err := Binary(scalar, left, e, pos)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &value.List{Elements: out}, nil
	default:
		return Binary(scalar, left, right, pos)
	}
}
