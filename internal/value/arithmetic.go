package value

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	nerr "naftah/internal/errors"
)

// category reports whether a kind belongs to the integer or decimal half
// of the tower (spec §4.A).
func (k NumKind) category() string {
	if k.IsDecimalKind() {
		return "decimal"
	}
	return "int"
}

// Promote implements the two-operand promotion rule of spec §4.A: result
// category is decimal if either operand is decimal; within a category,
// promote to the wider width; across categories, promote the int operand
// to the decimal operand's width.
func Promote(a, b DynNum) (DynNum, DynNum) {
	target := promotedKind(a.Kind, b.Kind)
	return widenTo(a, target), widenTo(b, target)
}

func promotedKind(a, b NumKind) NumKind {
	if a.category() == b.category() {
		if a > b {
			return a
		}
		return b
	}
	// Mixed: promote the int side to the decimal side's width.
	if a.IsDecimalKind() {
		return a
	}
	return b
}

// widenTo losslessly converts n to the representation at kind. kind is
// always at least as wide as n.Kind in the caller's usage.
func widenTo(n DynNum, kind NumKind) DynNum {
	if n.Kind == kind {
		return n
	}
	if kind.IsDecimalKind() {
		switch kind {
		case KindFloat:
			return FromFloat(float32(n.AsFloat64()))
		case KindDouble:
			return FromDouble(n.AsFloat64())
		case KindBigDecimal:
			return FromBigDecimal(n.AsBigDecimal())
		}
	}
	// Integer widening.
	switch kind {
	case KindShort:
		return FromShort(int16(intValue(n)))
	case KindInt:
		return FromInt(int32(intValue(n)))
	case KindLong:
		return FromLong(intValue(n))
	case KindBigInt:
		return FromBigInt(n.AsBigInt())
	}
	return n
}

// intValue widens an int-category DynNum (narrower than Long) to int64.
func intValue(n DynNum) int64 {
	switch n.Kind {
	case KindByte:
		return int64(n.i8)
	case KindShort:
		return int64(n.i16)
	case KindInt:
		return int64(n.i32)
	case KindLong:
		return n.i64
	}
	return 0
}

// narrowInt returns the narrowest representation of r that is at least as
// wide as floor (the promoted width), stepping up as many kinds as r
// needs and ending at BigInt — the "widen eagerly" decision recorded in
// SPEC_FULL.md.
func narrowInt(r *big.Int, floor NumKind) DynNum {
	for k := floor; k < KindBigInt; k++ {
		if fitsInt(r, k) {
			return intFromBig(r, k)
		}
	}
	return FromBigInt(r)
}

func fitsInt(r *big.Int, k NumKind) bool {
	var bits int
	switch k {
	case KindByte:
		bits = 8
	case KindShort:
		bits = 16
	case KindInt:
		bits = 32
	case KindLong:
		bits = 64
	default:
		return true
	}
	min := new(big.Int).Lsh(big.NewInt(-1), uint(bits-1))
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
	return r.Cmp(min) >= 0 && r.Cmp(max) <= 0
}

func intFromBig(r *big.Int, k NumKind) DynNum {
	switch k {
	case KindByte:
		return FromByte(int8(r.Int64()))
	case KindShort:
		return FromShort(int16(r.Int64()))
	case KindInt:
		return FromInt(int32(r.Int64()))
	case KindLong:
		return FromLong(r.Int64())
	}
	return FromBigInt(r)
}

// narrowDecimal returns the narrowest decimal representation of r that is
// at least as wide as floor and round-trips exactly.
func narrowDecimal(r decimal.Decimal, floor NumKind) DynNum {
	f64, exact64 := r.Float64()
	if floor <= KindFloat {
		f32 := float32(f64)
		if exact64 && !math.IsInf(float64(f32), 0) && decimal.NewFromFloat32(f32).Equal(r) {
			return FromFloat(f32)
		}
	}
	if floor <= KindDouble {
		if exact64 && !math.IsInf(f64, 0) && decimal.NewFromFloat(f64).Equal(r) {
			return FromDouble(f64)
		}
	}
	return FromBigDecimal(r)
}

// Add implements `+` for two numbers (spec §4.A, §4.C.3).
func Add(a, b DynNum, pos nerr.Position) (DynNum, error) {
	target := promotedKind(a.Kind, b.Kind)
	if target.IsDecimalKind() {
		r := a.AsBigDecimal().Add(b.AsBigDecimal())
		return narrowDecimal(r, target), nil
	}
	r := new(big.Int).Add(a.AsBigInt(), b.AsBigInt())
	return narrowInt(r, target), nil
}

// Sub implements `-`.
func Sub(a, b DynNum, pos nerr.Position) (DynNum, error) {
	target := promotedKind(a.Kind, b.Kind)
	if target.IsDecimalKind() {
		r := a.AsBigDecimal().Sub(b.AsBigDecimal())
		return narrowDecimal(r, target), nil
	}
	r := new(big.Int).Sub(a.AsBigInt(), b.AsBigInt())
	return narrowInt(r, target), nil
}

// Mul implements `*`.
func Mul(a, b DynNum, pos nerr.Position) (DynNum, error) {
	target := promotedKind(a.Kind, b.Kind)
	if target.IsDecimalKind() {
		r := a.AsBigDecimal().Mul(b.AsBigDecimal())
		return narrowDecimal(r, target), nil
	}
	r := new(big.Int).Mul(a.AsBigInt(), b.AsBigInt())
	return narrowInt(r, target), nil
}

// Div implements `/`. Integer division by zero is DivisionByZero;
// decimal division by zero would yield Infinity and is rejected as
// InfiniteDecimal instead (spec §4.C.3).
func Div(a, b DynNum, pos nerr.Position) (DynNum, error) {
	target := promotedKind(a.Kind, b.Kind)
	if target.IsDecimalKind() {
		if b.IsZero() {
			return DynNum{}, nerr.New(nerr.InfiniteDecimal, pos)
		}
		r := a.AsBigDecimal().DivRound(b.AsBigDecimal(), 34)
		return narrowDecimal(r, target), nil
	}
	if b.IsZero() {
		return DynNum{}, nerr.New(nerr.DivisionByZero, pos)
	}
	r := new(big.Int).Quo(a.AsBigInt(), b.AsBigInt())
	return narrowInt(r, target), nil
}

// Mod implements `%`, truncated division (result takes the dividend's
// sign), per spec §4.C.3.
func Mod(a, b DynNum, pos nerr.Position) (DynNum, error) {
	target := promotedKind(a.Kind, b.Kind)
	if target.IsDecimalKind() {
		if b.IsZero() {
			return DynNum{}, nerr.New(nerr.InfiniteDecimal, pos)
		}
		ad, bd := a.AsBigDecimal(), b.AsBigDecimal()
		q := ad.DivRound(bd, 34).Truncate(0)
		r := ad.Sub(q.Mul(bd))
		return narrowDecimal(r, target), nil
	}
	if b.IsZero() {
		return DynNum{}, nerr.New(nerr.DivisionByZero, pos)
	}
	r := new(big.Int).Rem(a.AsBigInt(), b.AsBigInt())
	return narrowInt(r, target), nil
}

// Pow implements `**`. A negative integer exponent falls through to
// floating-point exponentiation since the int category cannot represent
// fractional results.
func Pow(a, b DynNum, pos nerr.Position) (DynNum, error) {
	target := promotedKind(a.Kind, b.Kind)
	if !target.IsDecimalKind() && b.Sign() >= 0 {
		r := new(big.Int).Exp(a.AsBigInt(), b.AsBigInt(), nil)
		return narrowInt(r, target), nil
	}
	r := math.Pow(a.AsFloat64(), b.AsFloat64())
	if math.IsNaN(r) {
		return DynNum{}, nerr.New(nerr.NaNValue, pos)
	}
	if math.IsInf(r, 0) {
		return DynNum{}, nerr.New(nerr.InfiniteDecimal, pos)
	}
	if target.IsDecimalKind() {
		return narrowDecimal(decimal.NewFromFloat(r), target), nil
	}
	return narrowDecimal(decimal.NewFromFloat(r), KindDouble), nil
}

// Negate implements unary `-`.
func Negate(a DynNum) DynNum {
	switch a.Kind {
	case KindBigInt:
		return FromBigInt(new(big.Int).Neg(a.big))
	case KindBigDecimal:
		return FromBigDecimal(a.dec.Neg())
	case KindFloat:
		return FromFloat(-a.f32)
	case KindDouble:
		return FromDouble(-a.f64)
	default:
		return narrowInt(new(big.Int).Neg(a.AsBigInt()), a.Kind)
	}
}

// Compare orders two numbers; callers must exclude NaN beforehand (NaN is
// its own Value tag, not a DynNum state).
func Compare(a, b DynNum) int {
	target := promotedKind(a.Kind, b.Kind)
	if target.IsDecimalKind() {
		return a.AsBigDecimal().Cmp(b.AsBigDecimal())
	}
	return a.AsBigInt().Cmp(b.AsBigInt())
}

// requireInt rejects decimal operands for the bitwise family (spec
// §4.C.4).
func requireInt(a, b DynNum, pos nerr.Position) error {
	if a.Kind.IsDecimalKind() || b.Kind.IsDecimalKind() {
		return nerr.New(nerr.UnsupportedBitwiseDecimal, pos)
	}
	return nil
}

func BitAnd(a, b DynNum, pos nerr.Position) (DynNum, error) {
	if err := requireInt(a, b, pos); err != nil {
		return DynNum{}, err
	}
	target := promotedKind(a.Kind, b.Kind)
	return narrowInt(new(big.Int).And(a.AsBigInt(), b.AsBigInt()), target), nil
}

func BitOr(a, b DynNum, pos nerr.Position) (DynNum, error) {
	if err := requireInt(a, b, pos); err != nil {
		return DynNum{}, err
	}
	target := promotedKind(a.Kind, b.Kind)
	return narrowInt(new(big.Int).Or(a.AsBigInt(), b.AsBigInt()), target), nil
}

func BitXor(a, b DynNum, pos nerr.Position) (DynNum, error) {
	if err := requireInt(a, b, pos); err != nil {
		return DynNum{}, err
	}
	target := promotedKind(a.Kind, b.Kind)
	return narrowInt(new(big.Int).Xor(a.AsBigInt(), b.AsBigInt()), target), nil
}

func BitNot(a DynNum, pos nerr.Position) (DynNum, error) {
	if a.Kind.IsDecimalKind() {
		return DynNum{}, nerr.New(nerr.UnsupportedBitwiseDecimal, pos)
	}
	return narrowInt(new(big.Int).Not(a.AsBigInt()), a.Kind), nil
}

func ShiftLeft(a, b DynNum, pos nerr.Position) (DynNum, error) {
	if err := requireInt(a, b, pos); err != nil {
		return DynNum{}, err
	}
	target := promotedKind(a.Kind, b.Kind)
	shift := b.AsBigInt().Uint64()
	return narrowInt(new(big.Int).Lsh(a.AsBigInt(), uint(shift)), target), nil
}

// ShiftRight is the arithmetic (sign-extending) right shift.
func ShiftRight(a, b DynNum, pos nerr.Position) (DynNum, error) {
	if err := requireInt(a, b, pos); err != nil {
		return DynNum{}, err
	}
	target := promotedKind(a.Kind, b.Kind)
	shift := b.AsBigInt().Uint64()
	return narrowInt(new(big.Int).Rsh(a.AsBigInt(), uint(shift)), target), nil
}

// UnsignedShiftRight implements `>>>`: the operand is reinterpreted as
// unsigned at its own (pre-promotion) width before shifting.
func UnsignedShiftRight(a, b DynNum, pos nerr.Position) (DynNum, error) {
	if err := requireInt(a, b, pos); err != nil {
		return DynNum{}, err
	}
	bits := widthBits(a.Kind)
	shift := uint(b.AsBigInt().Uint64())
	if bits == 0 {
		// BigInt has no fixed width; >>> degrades to >>.
		return ShiftRight(a, b, pos)
	}
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	unsigned := new(big.Int).And(a.AsBigInt(), mask)
	shifted := new(big.Int).Rsh(unsigned, shift)
	return narrowInt(shifted, a.Kind), nil
}

func widthBits(k NumKind) int {
	switch k {
	case KindByte:
		return 8
	case KindShort:
		return 16
	case KindInt:
		return 32
	case KindLong:
		return 64
	}
	return 0
}
