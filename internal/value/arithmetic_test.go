package value

import (
	"testing"

	nerr "naftah/internal/errors"
)

func TestAddSubRoundTrip(t *testing.T) {
	// Testable property 1: (a + b) - b == a when no overflow.
	a := FromInt(17)
	b := FromInt(9)
	sum, err := Add(a, b, nerr.Position{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	back, err := Sub(sum, b, nerr.Position{})
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if Compare(back, a) != 0 {
		t.Errorf("(a+b)-b = %v, want %v", back.AsBigInt(), a.AsBigInt())
	}
}

func TestAddWidensOnOverflow(t *testing.T) {
	// A byte-width operand whose sum overflows the byte range must widen
	// rather than wrap, per the "widen eagerly" Open Question decision
	// (spec §9).
	a := FromByte(120)
	b := FromByte(100)
	sum, err := Add(a, b, nerr.Position{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.Kind == KindByte {
		t.Errorf("expected widening beyond byte, got Kind=%v", sum.Kind)
	}
	if sum.AsBigInt().Int64() != 220 {
		t.Errorf("sum = %v, want 220", sum.AsBigInt())
	}
}

func TestDivisionByZeroInteger(t *testing.T) {
	_, err := Div(FromInt(10), FromInt(0), nerr.Position{})
	if !nerr.Is(err, nerr.DivisionByZero) {
		t.Errorf("expected DivisionByZero, got %v", err)
	}
}

func TestDivisionByZeroDecimalIsInfinite(t *testing.T) {
	_, err := Div(FromDouble(10), FromDouble(0), nerr.Position{})
	if !nerr.Is(err, nerr.InfiniteDecimal) {
		t.Errorf("expected InfiniteDecimal, got %v", err)
	}
}

func TestModKeepsDividendSign(t *testing.T) {
	r, err := Mod(FromInt(-7), FromInt(3), nerr.Position{})
	if err != nil {
		t.Fatalf("Mod: %v", err)
	}
	if r.AsBigInt().Int64() != -1 {
		t.Errorf("-7 %% 3 = %v, want -1 (truncated division keeps dividend sign)", r.AsBigInt())
	}
}

func TestPromotionIntAndDecimalPromotesToDecimal(t *testing.T) {
	sum, err := Add(FromInt(2), FromDouble(0.5), nerr.Position{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !sum.Kind.IsDecimalKind() {
		t.Errorf("int+decimal should promote to decimal category, got %v", sum.Kind)
	}
}

func TestBitwiseRequiresIntegers(t *testing.T) {
	_, err := BitAnd(FromDouble(1.5), FromInt(2), nerr.Position{})
	if err == nil {
		t.Fatal("expected an error for bitwise on a decimal operand")
	}
}
