package errors

import (
	"errors"
	"testing"
)

func TestNewFormatsLocalizedMessage(t *testing.T) {
	err := New(VariableNotFound, Position{File: "a.nft", Line: 2, Column: 5}, "س")
	if err.Kind != VariableNotFound {
		t.Errorf("Kind = %v, want VariableNotFound", err.Kind)
	}
	want := "VariableNotFound: المتغيّر غير موجود: س (a.nft:2:5)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestInternalErrorsCarryPrefix(t *testing.T) {
	err := Internalf(Position{}, "حالة غير متوقعة: %d", 7)
	if !IsInternal(err) {
		t.Error("expected IsInternal to report true")
	}
	if err.Kind != Internal {
		t.Errorf("Kind = %v, want Internal", err.Kind)
	}
}

func TestIsInternalFalseForUserErrors(t *testing.T) {
	err := New(TypeMismatch, Position{}, "x")
	if IsInternal(err) {
		t.Error("a TypeMismatch error should not be reported as internal")
	}
}

func TestWrapPreservesCauseChain(t *testing.T) {
	cause := errors.New("underlying host failure")
	err := Wrap(HostInvocation, Position{}, cause, "طريقة")
	if err.Unwrap() != cause {
		t.Error("Wrap should preserve the original cause via Unwrap")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through to the wrapped cause")
	}
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := New(DivisionByZero, Position{})
	var wrapped error = err
	if !Is(wrapped, DivisionByZero) {
		t.Error("Is should match the error's own Kind")
	}
	if Is(wrapped, Overflow) {
		t.Error("Is should not match an unrelated Kind")
	}
}

func TestAsExposesUnderlyingError(t *testing.T) {
	err := New(Overflow, Position{Line: 1})
	ne, ok := As(err)
	if !ok {
		t.Fatal("expected As to succeed")
	}
	if ne.Position.Line != 1 {
		t.Errorf("got Position.Line = %d, want 1", ne.Position.Line)
	}
}

func TestPushFrameAccumulatesStack(t *testing.T) {
	err := New(Internal, Position{})
	err.PushFrame("دالة_أ", Position{Line: 3})
	err.PushFrame("دالة_ب", Position{Line: 9})
	if len(err.Stack) != 2 {
		t.Fatalf("expected 2 stack frames, got %d", len(err.Stack))
	}
	if err.Stack[0].Function != "دالة_أ" || err.Stack[1].Function != "دالة_ب" {
		t.Errorf("unexpected stack order: %#v", err.Stack)
	}
}

func TestSetBundleOverridesLocalization(t *testing.T) {
	t.Cleanup(func() { SetBundle(nil) })
	SetBundle(map[Kind]string{DivisionByZero: "division by zero: %s"})
	err := New(DivisionByZero, Position{}, "x/0")
	if err.Message != "division by zero: x/0" {
		t.Errorf("got %q, want custom bundle message", err.Message)
	}

	SetBundle(nil)
	err = New(DivisionByZero, Position{})
	if err.Message != "القسمة على صفر" {
		t.Errorf("SetBundle(nil) should restore the default Arabic bundle, got %q", err.Message)
	}
}

func TestPositionStringFormatting(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{}, ""},
		{Position{Line: 4, Column: 2}, "4:2"},
		{Position{File: "a.nft", Line: 4, Column: 2}, "a.nft:4:2"},
	}
	for _, tc := range tests {
		if got := tc.pos.String(); got != tc.want {
			t.Errorf("Position(%#v).String() = %q, want %q", tc.pos, got, tc.want)
		}
	}
}
