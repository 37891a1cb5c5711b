package value

import (
	"testing"

	nerr "naftah/internal/errors"
)

func TestParseNumberLiteralNarrowestFit(t *testing.T) {
	tests := []struct {
		lit  string
		kind NumKind
	}{
		{"5", KindByte},
		{"200", KindShort},
		{"40000", KindInt},
		{"5000000000", KindLong},
		{"265252859812191058636308480000000", KindBigInt},
		{"1.5", KindFloat},
		{"10000.006", KindDouble},
	}
	for _, tc := range tests {
		n, err := ParseNumberLiteral(tc.lit, nerr.Position{})
		if err != nil {
			t.Fatalf("ParseNumberLiteral(%q): %v", tc.lit, err)
		}
		if n.Kind != tc.kind {
			t.Errorf("ParseNumberLiteral(%q).Kind = %v, want %v", tc.lit, n.Kind, tc.kind)
		}
	}
}

func TestParseNumberLiteralRejectsInfinityAndNaN(t *testing.T) {
	if _, err := ParseNumberLiteral("1e400", nerr.Position{}); err == nil {
		t.Error("expected an error parsing an overflowing float literal")
	} else if !nerr.Is(err, nerr.InfiniteDecimal) {
		t.Errorf("expected InfiniteDecimal, got %v", err)
	}
	if _, err := ParseNumberLiteral("NaN", nerr.Position{}); err == nil {
		t.Error("expected an error parsing a NaN literal")
	} else if !nerr.Is(err, nerr.NaNValue) {
		t.Errorf("expected NaNValue, got %v", err)
	}
}

func TestEasternArabicDigitsNormalize(t *testing.T) {
	// Testable property 6: parse(d) == parse(translit(d)).
	eastern := "١٢٣" // "123" in Eastern-Arabic digits
	got, err := ParseNumberLiteral(eastern, nerr.Position{})
	if err != nil {
		t.Fatalf("ParseNumberLiteral(eastern digits): %v", err)
	}
	want, err := ParseNumberLiteral("123", nerr.Position{})
	if err != nil {
		t.Fatalf("ParseNumberLiteral(western digits): %v", err)
	}
	if got.AsBigInt().Cmp(want.AsBigInt()) != 0 {
		t.Errorf("eastern-digit parse = %v, want %v", got.AsBigInt(), want.AsBigInt())
	}
}

func TestParseRadixRoundTrip(t *testing.T) {
	// Testable property 5: for all radix R in 2..36 and integers n,
	// parse(format(n, R), R) == n.
	for radix := 2; radix <= 36; radix++ {
		n := FromLong(12345)
		formatted, err := FormatRadix(n, radix, nerr.Position{})
		if err != nil {
			t.Fatalf("FormatRadix base %d: %v", radix, err)
		}
		back, err := ParseRadix(formatted, radix, nerr.Position{})
		if err != nil {
			t.Fatalf("ParseRadix base %d of %q: %v", radix, formatted, err)
		}
		if back.AsBigInt().Int64() != 12345 {
			t.Errorf("base %d round trip = %v, want 12345", radix, back.AsBigInt())
		}
	}
}

func TestParseRadixRejectsOutOfRange(t *testing.T) {
	if _, err := ParseRadix("10", 1, nerr.Position{}); !nerr.Is(err, nerr.InvalidRadix) {
		t.Errorf("expected InvalidRadix for base 1, got %v", err)
	}
	if _, err := ParseRadix("10", 37, nerr.Position{}); !nerr.Is(err, nerr.InvalidRadix) {
		t.Errorf("expected InvalidRadix for base 37, got %v", err)
	}
}

func TestParseRadixCaseInsensitive(t *testing.T) {
	lower, err := ParseRadix("ff", 16, nerr.Position{})
	if err != nil {
		t.Fatalf("ParseRadix lower: %v", err)
	}
	upper, err := ParseRadix("FF", 16, nerr.Position{})
	if err != nil {
		t.Fatalf("ParseRadix upper: %v", err)
	}
	if lower.AsBigInt().Cmp(upper.AsBigInt()) != 0 {
		t.Error("hex radix parsing should be case-insensitive")
	}
}
