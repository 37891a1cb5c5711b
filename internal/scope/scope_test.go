package scope

import (
	"testing"

	nerr "naftah/internal/errors"
	"naftah/internal/value"
)

func TestDeclareAndLookupInnermostWins(t *testing.T) {
	s := New()
	s.Declare("x", &Variable{Name: "x", CurrentValue: value.String("outer")})
	s.Push()
	s.Declare("x", &Variable{Name: "x", CurrentValue: value.String("inner")})

	d, ok := s.Lookup("x")
	if !ok {
		t.Fatal("expected x to resolve")
	}
	if CurrentValue(d).String() != "inner" {
		t.Errorf("got %v, want inner", CurrentValue(d))
	}

	s.Pop()
	d, ok = s.Lookup("x")
	if !ok || CurrentValue(d).String() != "outer" {
		t.Errorf("after Pop, expected outer binding, got %v", CurrentValue(d))
	}
}

func TestAssignToUndeclaredCreatesAtTopFrame(t *testing.T) {
	s := New()
	s.Push()
	if err := s.Assign("y", value.String("v"), nerr.Position{}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	d, ok := s.Lookup("y")
	if !ok {
		t.Fatal("expected y to be created")
	}
	if d.Depth() != s.Depth() {
		t.Errorf("expected y created at current depth %d, got %d", s.Depth(), d.Depth())
	}
}

func TestAssignToConstantRejected(t *testing.T) {
	s := New()
	s.Declare("c", &Variable{Name: "c", IsConst: true, CurrentValue: value.String("v"), IsUpdated: true})
	err := s.Assign("c", value.String("v2"), nerr.Position{})
	if !nerr.Is(err, nerr.ConstantReassignment) {
		t.Errorf("expected ConstantReassignment, got %v", err)
	}
}

func TestSnapshotIsIndependentOfParent(t *testing.T) {
	s := New()
	s.Declare("x", &Variable{Name: "x", CurrentValue: value.String("original")})
	snap := s.Snapshot()

	if err := s.Assign("x", value.String("mutated"), nerr.Position{}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	d, ok := snap.Lookup("x")
	if !ok {
		t.Fatal("expected snapshot to retain x")
	}
	if CurrentValue(d).String() != "original" {
		t.Errorf("snapshot should be unaffected by later mutation, got %v", CurrentValue(d))
	}
}

func TestGlobalsReturnsDepthZeroOnly(t *testing.T) {
	s := New()
	s.Declare("g", &Variable{Name: "g", CurrentValue: value.String("global")})
	s.Push()
	s.Declare("l", &Variable{Name: "l", CurrentValue: value.String("local")})

	globals := s.Globals()
	if _, ok := globals["g"]; !ok {
		t.Error("expected g in globals")
	}
	if _, ok := globals["l"]; ok {
		t.Error("did not expect local-frame binding in globals")
	}
}

func TestSplitQualified(t *testing.T) {
	got := SplitQualified("a:b:c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitReceiverMember(t *testing.T) {
	recv, member, ok := SplitReceiverMember("obj::method")
	if !ok || recv != "obj" || member != "method" {
		t.Errorf("got (%q, %q, %v), want (obj, method, true)", recv, member, ok)
	}
	if _, _, ok := SplitReceiverMember("noseparator"); ok {
		t.Error("expected ok=false for a name with no :: separator")
	}
}

func TestChainReuseMarker(t *testing.T) {
	member, ok := IsChainReuse(":::member")
	if !ok || member != "member" {
		t.Errorf("got (%q, %v), want (member, true)", member, ok)
	}
	if _, ok := IsChainReuse("member"); ok {
		t.Error("expected ok=false for a name with no ::: prefix")
	}
}

func TestChainRegisterRoundTrip(t *testing.T) {
	s := New()
	s.SetChainRegister("obj")
	if s.ChainRegister() != "obj" {
		t.Errorf("got %q, want obj", s.ChainRegister())
	}
	s.ResetChainRegister()
	if s.ChainRegister() != "" {
		t.Errorf("expected empty chain register after reset, got %q", s.ChainRegister())
	}
}

func TestOverloadIndex(t *testing.T) {
	tests := []struct {
		name     string
		wantBase string
		wantIdx  int
	}{
		{"f:2", "f", 2},
		{"f", "f", 0},
		{"f:0", "f:0", 0},
		{"a:b:3", "a:b", 3},
	}
	for _, tc := range tests {
		base, idx := OverloadIndex(tc.name)
		if base != tc.wantBase || idx != tc.wantIdx {
			t.Errorf("OverloadIndex(%q) = (%q, %d), want (%q, %d)", tc.name, base, idx, tc.wantBase, tc.wantIdx)
		}
	}
}
