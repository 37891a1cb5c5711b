package value

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	nerr "naftah/internal/errors"
)

// NumKind orders the representations of DynNum from narrowest to widest
// within each category, per spec §4.A ("Byte<Short<Int<Long<BigInt for
// int, Float<Double<BigDecimal for decimal").
type NumKind int

const (
	KindByte NumKind = iota
	KindShort
	KindInt
	KindLong
	KindBigInt
	KindFloat
	KindDouble
	KindBigDecimal
)

// IsDecimalKind reports whether k belongs to the decimal category.
func (k NumKind) IsDecimalKind() bool { return k >= KindFloat }

// DynNum is naftah's runtime-polymorphic numeric value. Exactly one of the
// backing fields is meaningful, selected by Kind; callers pattern-match on
// Kind the way the spec's design notes ask for an "explicit promotion
// functions and compile-time exhaustive matching" tagged enum rather than
// a runtime-typed number.
type DynNum struct {
	Kind NumKind
	i8   int8
	i16  int16
	i32  int32
	i64  int64
	big  *big.Int
	f32  float32
	f64  float64
	dec  decimal.Decimal
}

func FromByte(v int8) DynNum    { return DynNum{Kind: KindByte, i8: v} }
func FromShort(v int16) DynNum  { return DynNum{Kind: KindShort, i16: v} }
func FromInt(v int32) DynNum    { return DynNum{Kind: KindInt, i32: v} }
func FromLong(v int64) DynNum   { return DynNum{Kind: KindLong, i64: v} }
func FromBigInt(v *big.Int) DynNum {
	return DynNum{Kind: KindBigInt, big: new(big.Int).Set(v)}
}
func FromFloat(v float32) DynNum  { return DynNum{Kind: KindFloat, f32: v} }
func FromDouble(v float64) DynNum { return DynNum{Kind: KindDouble, f64: v} }
func FromBigDecimal(v decimal.Decimal) DynNum {
	return DynNum{Kind: KindBigDecimal, dec: v}
}

// IsZero reports whether the numeric value is exactly zero.
func (n DynNum) IsZero() bool {
	switch n.Kind {
	case KindByte:
		return n.i8 == 0
	case KindShort:
		return n.i16 == 0
	case KindInt:
		return n.i32 == 0
	case KindLong:
		return n.i64 == 0
	case KindBigInt:
		return n.big.Sign() == 0
	case KindFloat:
		return n.f32 == 0
	case KindDouble:
		return n.f64 == 0
	case KindBigDecimal:
		return n.dec.IsZero()
	}
	return false
}

// Sign returns -1, 0, or 1.
func (n DynNum) Sign() int {
	switch n.Kind {
	case KindByte:
		return sign64(int64(n.i8))
	case KindShort:
		return sign64(int64(n.i16))
	case KindInt:
		return sign64(int64(n.i32))
	case KindLong:
		return sign64(n.i64)
	case KindBigInt:
		return n.big.Sign()
	case KindFloat:
		return signf(float64(n.f32))
	case KindDouble:
		return signf(n.f64)
	case KindBigDecimal:
		return n.dec.Sign()
	}
	return 0
}

func sign64(v int64) int {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

func signf(v float64) int {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

// AsBigInt widens an integer-category DynNum to *big.Int. Calling it on a
// decimal-category value is a programmer error in this package.
func (n DynNum) AsBigInt() *big.Int {
	switch n.Kind {
	case KindByte:
		return big.NewInt(int64(n.i8))
	case KindShort:
		return big.NewInt(int64(n.i16))
	case KindInt:
		return big.NewInt(int64(n.i32))
	case KindLong:
		return big.NewInt(n.i64)
	case KindBigInt:
		return n.big
	}
	return big.NewInt(0)
}

// AsBigDecimal widens any DynNum (int or decimal category) to an exact
// decimal.Decimal, used once two operands must be compared or combined at
// BigDecimal width.
func (n DynNum) AsBigDecimal() decimal.Decimal {
	switch n.Kind {
	case KindByte:
		return decimal.NewFromInt(int64(n.i8))
	case KindShort:
		return decimal.NewFromInt(int64(n.i16))
	case KindInt:
		return decimal.NewFromInt(int64(n.i32))
	case KindLong:
		return decimal.NewFromInt(n.i64)
	case KindBigInt:
		return decimal.NewFromBigInt(n.big, 0)
	case KindFloat:
		return decimal.NewFromFloat32(n.f32)
	case KindDouble:
		return decimal.NewFromFloat(n.f64)
	case KindBigDecimal:
		return n.dec
	}
	return decimal.Zero
}

// AsFloat64 widens to float64 for host-interop numeric-widening
// conversions (§4.E) and comparisons within the Float/Double pair.
func (n DynNum) AsFloat64() float64 {
	switch n.Kind {
	case KindByte:
		return float64(n.i8)
	case KindShort:
		return float64(n.i16)
	case KindInt:
		return float64(n.i32)
	case KindLong:
		return float64(n.i64)
	case KindBigInt:
		f := new(big.Float).SetInt(n.big)
		v, _ := f.Float64()
		return v
	case KindFloat:
		return float64(n.f32)
	case KindDouble:
		return n.f64
	case KindBigDecimal:
		v, _ := n.dec.Float64()
		return v
	}
	return 0
}

// NormalizeDigits maps Eastern-Arabic digits U+0660..U+0669 to Western
// 0..9, leaving every other rune untouched (spec §4.A, §4.I; testable
// property 6).
func NormalizeDigits(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r >= 0x0660 && r <= 0x0669 {
			sb.WriteRune('0' + (r - 0x0660))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

const arabicDecimalSeparator = "٫"

// FormatArabic renders a DynNum using Arabic digit glyphs and the Arabic
// decimal separator (spec §4.F.6).
func (n DynNum) FormatArabic() string {
	return toArabicDigits(n.formatWestern())
}

func (n DynNum) formatWestern() string {
	switch n.Kind {
	case KindByte:
		return strconv.FormatInt(int64(n.i8), 10)
	case KindShort:
		return strconv.FormatInt(int64(n.i16), 10)
	case KindInt:
		return strconv.FormatInt(int64(n.i32), 10)
	case KindLong:
		return strconv.FormatInt(n.i64, 10)
	case KindBigInt:
		return n.big.String()
	case KindFloat:
		return strconv.FormatFloat(float64(n.f32), 'f', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(n.f64, 'f', -1, 64)
	case KindBigDecimal:
		return n.dec.String()
	}
	return "0"
}

func toArabicDigits(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(0x0660 + (r - '0'))
		case r == '.':
			sb.WriteString(arabicDecimalSeparator)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ParseNumberLiteral tries Byte, Short, Int, Long, BigInt in order for an
// integer-shaped literal, else Float, Double, BigDecimal, selecting the
// narrowest representation that preserves the literal exactly (spec
// §4.A). Infinity/NaN results from a Float/Double parse are rejected.
func ParseNumberLiteral(lit string, pos nerr.Position) (DynNum, error) {
	lit = NormalizeDigits(strings.TrimSpace(lit))
	if lit == "" {
		return DynNum{}, nerr.New(nerr.InvalidNumber, pos, lit)
	}

	if isIntegerShaped(lit) {
		return parseIntegerLiteral(lit, pos)
	}
	return parseDecimalLiteral(lit, pos)
}

func isIntegerShaped(lit string) bool {
	s := lit
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseIntegerLiteral(lit string, pos nerr.Position) (DynNum, error) {
	if v, err := strconv.ParseInt(lit, 10, 8); err == nil {
		return FromByte(int8(v)), nil
	}
	if v, err := strconv.ParseInt(lit, 10, 16); err == nil {
		return FromShort(int16(v)), nil
	}
	if v, err := strconv.ParseInt(lit, 10, 32); err == nil {
		return FromInt(int32(v)), nil
	}
	if v, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return FromLong(v), nil
	}
	big, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return DynNum{}, nerr.New(nerr.InvalidNumber, pos, lit)
	}
	return FromBigInt(big), nil
}

func parseDecimalLiteral(lit string, pos nerr.Position) (DynNum, error) {
	v64, err64 := strconv.ParseFloat(lit, 64)
	if err64 != nil && !math.IsInf(v64, 0) {
		return DynNum{}, nerr.New(nerr.InvalidNumber, pos, lit)
	}
	if math.IsInf(v64, 0) {
		return DynNum{}, nerr.New(nerr.InfiniteDecimal, pos, lit)
	}
	if math.IsNaN(v64) {
		return DynNum{}, nerr.New(nerr.NaNValue, pos, lit)
	}

	// Narrow to float32 only when that loses no precision against the
	// float64 parse of the same literal.
	v32 := float32(v64)
	if !math.IsInf(float64(v32), 0) && float64(v32) == v64 {
		return FromFloat(v32), nil
	}

	// Narrow to float64 only when it reproduces the literal exactly;
	// otherwise fall through to BigDecimal so no precision is silently
	// dropped (spec §4.A: "the narrowest representation that preserves
	// the literal is chosen").
	if strconv.FormatFloat(v64, 'g', -1, 64) == canonicalizeDecimalLiteral(lit) {
		return FromDouble(v64), nil
	}

	dec, err := decimal.NewFromString(lit)
	if err != nil {
		return DynNum{}, nerr.New(nerr.InvalidNumber, pos, lit)
	}
	return FromBigDecimal(dec), nil
}

// canonicalizeDecimalLiteral strips an explicit leading '+' so it can be
// compared against strconv's canonical %g output.
func canonicalizeDecimalLiteral(lit string) string {
	if strings.HasPrefix(lit, "+") {
		return lit[1:]
	}
	return lit
}

const radixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ParseRadix parses digits (already normalized to Western digits) in base
// radix (2..36), accepting [0-9a-zA-Z] case-insensitively, narrowing the
// same way ParseNumberLiteral does (spec §4.A).
func ParseRadix(digits string, radix int, pos nerr.Position) (DynNum, error) {
	if radix < 2 || radix > 36 {
		return DynNum{}, nerr.New(nerr.InvalidRadix, pos, radix)
	}
	digits = NormalizeDigits(digits)
	neg := false
	s := digits
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return DynNum{}, nerr.New(nerr.InvalidRadix, pos, digits)
	}
	lower := strings.ToLower(s)
	for _, r := range lower {
		if strings.IndexRune(radixAlphabet[:radix], r) < 0 {
			return DynNum{}, nerr.New(nerr.InvalidRadix, pos, digits)
		}
	}
	if v, err := strconv.ParseInt(lower, radix, 8); err == nil {
		if neg {
			v = -v
		}
		return FromByte(int8(v)), nil
	}
	if v, err := strconv.ParseInt(lower, radix, 16); err == nil {
		if neg {
			v = -v
		}
		return FromShort(int16(v)), nil
	}
	if v, err := strconv.ParseInt(lower, radix, 32); err == nil {
		if neg {
			v = -v
		}
		return FromInt(int32(v)), nil
	}
	if v, err := strconv.ParseInt(lower, radix, 64); err == nil {
		if neg {
			v = -v
		}
		return FromLong(v), nil
	}
	big, ok := new(big.Int).SetString(lower, radix)
	if !ok {
		return DynNum{}, nerr.New(nerr.InvalidRadix, pos, digits)
	}
	if neg {
		big.Neg(big)
	}
	return FromBigInt(big), nil
}

// FormatRadix is the inverse of ParseRadix for integer-category values,
// making the round-trip of testable property 5 checkable.
func FormatRadix(n DynNum, radix int, pos nerr.Position) (string, error) {
	if radix < 2 || radix > 36 {
		return "", nerr.New(nerr.InvalidRadix, pos, radix)
	}
	if n.Kind.IsDecimalKind() {
		return "", nerr.New(nerr.TypeMismatch, pos, "radix formatting requires an integer")
	}
	return n.AsBigInt().Text(radix), nil
}
