package ops

import (
	"testing"

	nerr "naftah/internal/errors"
	"naftah/internal/value"
)

func num(n int64) value.Number { return value.Number{N: value.FromLong(n)} }

func TestBinaryArithmetic(t *testing.T) {
	tests := []struct {
		name string
		kind BinaryKind
		a, b int64
		want int64
	}{
		{"add", Add, 2, 3, 5},
		{"sub", Sub, 7, 4, 3},
		{"mul", Mul, 6, 7, 42},
		{"div", Div, 9, 3, 3},
		{"mod", Mod, 9, 4, 1},
	}
	for _, tc := range tests {
		got, err := Binary(tc.kind, num(tc.a), num(tc.b), nerr.Position{})
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		n, ok := got.(value.Number)
		if !ok {
			t.Fatalf("%s: result is not a number: %#v", tc.name, got)
		}
		if n.N.AsBigInt().Int64() != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, n.N.AsBigInt(), tc.want)
		}
	}
}

func TestBinaryStringConcat(t *testing.T) {
	got, err := Binary(Add, value.String("a"), value.String("b"), nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if got.String() != "ab" {
		t.Errorf("got %q, want %q", got.String(), "ab")
	}
}

func TestBinaryStringRepeat(t *testing.T) {
	got, err := Binary(Mul, value.String("ab"), num(3), nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if got.String() != "ababab" {
		t.Errorf("got %q, want %q", got.String(), "ababab")
	}
}

func TestBinaryStringRepeatNegativeRejected(t *testing.T) {
	_, err := Binary(Mul, value.String("ab"), num(-1), nerr.Position{})
	if !nerr.Is(err, nerr.NegativeNumber) {
		t.Errorf("expected NegativeNumber, got %v", err)
	}
}

func TestBinaryLogicalShortCircuitsOnValue(t *testing.T) {
	// spec §4.C: `&&`/`||` return one of the operands themselves, not a
	// coerced boolean.
	got, err := Binary(And, value.Boolean(false), num(5), nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if b, ok := got.(value.Boolean); !ok || bool(b) {
		t.Errorf("false && x should short-circuit to false, got %#v", got)
	}

	got, err = Binary(Or, num(9), value.Boolean(false), nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if n, ok := got.(value.Number); !ok || n.N.AsBigInt().Int64() != 9 {
		t.Errorf("9 || x should short-circuit to 9, got %#v", got)
	}
}

func TestBinaryEqualityNaNNeverEqual(t *testing.T) {
	nan := value.NaNValue{}
	got, err := Binary(Eq, nan, nan, nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if b, ok := got.(value.Boolean); !ok || bool(b) {
		t.Error("NaN == NaN should be false")
	}
}

func TestBinaryEqualityCrossNumericKind(t *testing.T) {
	// 5 (byte-kind) and 5.0 (double-kind) compare equal by numeric value,
	// independent of their DynNum tag.
	a := value.Number{N: value.FromByte(5)}
	b := value.Number{N: value.FromDouble(5.0)}
	got, err := Binary(Eq, a, b, nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	if bv, ok := got.(value.Boolean); !ok || !bool(bv) {
		t.Error("5 == 5.0 across numeric kinds should be true")
	}
}

func TestElementwiseMatchingShape(t *testing.T) {
	left := &value.List{Elements: []value.Value{num(1), num(2), num(3)}}
	right := &value.List{Elements: []value.Value{num(10), num(20), num(30)}}
	got, err := Binary(ElemAdd, left, right, nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	list, ok := got.(*value.List)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("unexpected result: %#v", got)
	}
	want := []int64{11, 22, 33}
	for i, e := range list.Elements {
		n := e.(value.Number)
		if n.N.AsBigInt().Int64() != want[i] {
			t.Errorf("index %d: got %v, want %v", i, n.N.AsBigInt(), want[i])
		}
	}
}

func TestElementwiseShapeMismatch(t *testing.T) {
	left := &value.List{Elements: []value.Value{num(1), num(2)}}
	right := &value.List{Elements: []value.Value{num(1)}}
	_, err := Binary(ElemAdd, left, right, nerr.Position{})
	if !nerr.Is(err, nerr.ShapeMismatch) {
		t.Errorf("expected ShapeMismatch, got %v", err)
	}
}

func TestElementwiseScalarBroadcast(t *testing.T) {
	left := &value.List{Elements: []value.Value{num(1), num(2), num(3)}}
	got, err := Binary(ElemMul, left, num(10), nerr.Position{})
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	list := got.(*value.List)
	want := []int64{10, 20, 30}
	for i, e := range list.Elements {
		n := e.(value.Number)
		if n.N.AsBigInt().Int64() != want[i] {
			t.Errorf("index %d: got %v, want %v", i, n.N.AsBigInt(), want[i])
		}
	}
}

func TestBinaryEmptyOperandRejected(t *testing.T) {
	_, err := Binary(Add, value.Empty{}, num(1), nerr.Position{})
	if !nerr.Is(err, nerr.EmptyArgument) {
		t.Errorf("expected EmptyArgument, got %v", err)
	}
}
