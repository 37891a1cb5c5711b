package ops

import (
	"testing"

	nerr "naftah/internal/errors"
	"naftah/internal/value"
)

func TestUnaryMinusNegates(t *testing.T) {
	result, stored, err := Unary(Minus, num(5), nerr.Position{})
	if err != nil {
		t.Fatalf("Unary: %v", err)
	}
	if result.(value.Number).N.AsBigInt().Int64() != -5 {
		t.Errorf("got %v, want -5", result)
	}
	if stored.(value.Number).N.AsBigInt().Int64() != -5 {
		t.Errorf("stored result should equal returned result for non-mutating unary ops")
	}
}

func TestUnaryNotInverts(t *testing.T) {
	result, _, err := Unary(Not, value.Boolean(false), nerr.Position{})
	if err != nil {
		t.Fatalf("Unary: %v", err)
	}
	if !bool(result.(value.Boolean)) {
		t.Error("!false should be true")
	}
}

func TestUnaryPreIncrementReturnsUpdatedBoth(t *testing.T) {
	result, stored, err := Unary(PreIncrement, num(5), nerr.Position{})
	if err != nil {
		t.Fatalf("Unary: %v", err)
	}
	if result.(value.Number).N.AsBigInt().Int64() != 6 || stored.(value.Number).N.AsBigInt().Int64() != 6 {
		t.Errorf("pre-increment should yield 6 as both result and stored value, got result=%v stored=%v", result, stored)
	}
}

func TestUnaryPostIncrementReturnsOldResultNewStored(t *testing.T) {
	result, stored, err := Unary(PostIncrement, num(5), nerr.Position{})
	if err != nil {
		t.Fatalf("Unary: %v", err)
	}
	if result.(value.Number).N.AsBigInt().Int64() != 5 {
		t.Errorf("post-increment result should be the pre-update value 5, got %v", result)
	}
	if stored.(value.Number).N.AsBigInt().Int64() != 6 {
		t.Errorf("post-increment stored value should be 6, got %v", stored)
	}
}

func TestUnaryOnEmptyRejected(t *testing.T) {
	_, _, err := Unary(Minus, value.Empty{}, nerr.Position{})
	if !nerr.Is(err, nerr.EmptyArgument) {
		t.Errorf("expected EmptyArgument, got %v", err)
	}
}

func TestTypeOfValueListRecursesIntoElementType(t *testing.T) {
	list := &value.List{Elements: []value.Value{num(1), num(2)}}
	desc := TypeOfValue(list)
	if desc.RawClass != value.TypeList {
		t.Fatalf("expected list raw class, got %v", desc.RawClass)
	}
	if len(desc.TypeParameters) != 1 || desc.TypeParameters[0].RawClass != value.TypeLong {
		t.Errorf("expected homogeneous long element type, got %#v", desc.TypeParameters)
	}
}

func TestTypeOfValueMixedListFallsBackToVar(t *testing.T) {
	list := &value.List{Elements: []value.Value{num(1), value.String("x")}}
	desc := TypeOfValue(list)
	if len(desc.TypeParameters) != 1 || desc.TypeParameters[0].RawClass != value.TypeVar {
		t.Errorf("heterogeneous list should report var element type, got %#v", desc.TypeParameters)
	}
}

func TestSizeOfString(t *testing.T) {
	sz, err := SizeOfValue(value.String("مرحبا"), nerr.Position{})
	if err != nil {
		t.Fatalf("SizeOfValue: %v", err)
	}
	if sz.AsBigInt().Int64() != 5 {
		t.Errorf("sizeof(\"مرحبا\") = %v, want 5 (rune count, not byte count)", sz.AsBigInt())
	}
}

func TestSizeOfNumberReportsBitWidth(t *testing.T) {
	sz, err := SizeOfValue(value.Number{N: value.FromInt(1)}, nerr.Position{})
	if err != nil {
		t.Fatalf("SizeOfValue: %v", err)
	}
	if sz.AsBigInt().Int64() != 32 {
		t.Errorf("sizeof(int) = %v, want 32", sz.AsBigInt())
	}
}
