package temporal

import (
	"testing"

	nerr "naftah/internal/errors"
)

func TestParseDateLiteral(t *testing.T) {
	v, err := Parse("5 يناير 2024", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, ok := v.(*Point)
	if !ok {
		t.Fatalf("expected *Point, got %T", v)
	}
	if p.Kind != PointDate || p.Year != 2024 || p.Month != 1 || p.Day != 5 {
		t.Errorf("got %+v", p)
	}
}

func TestParseDateTimeLiteral(t *testing.T) {
	v, err := Parse("5 يناير 2024 14:30:00", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := v.(*Point)
	if p.Kind != PointDateTime || p.Hour != 14 || p.Minute != 30 {
		t.Errorf("got %+v", p)
	}
}

func TestParseTimeLiteralWithAmPm(t *testing.T) {
	v, err := Parse("01:15:00 م", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := v.(*Point)
	if p.Hour != 13 || p.Minute != 15 {
		t.Errorf("expected PM hour to roll to 13, got %+v", p)
	}
}

func TestParseTimeLiteralWithFractionalSeconds(t *testing.T) {
	v, err := Parse("01:15:30.5", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := v.(*Point)
	if p.Second != 30 || p.Nanos != 500000000 {
		t.Errorf("expected .5s to normalize to 500000000ns, got second=%d nanos=%d", p.Second, p.Nanos)
	}
}

func TestParsePeriodLiteral(t *testing.T) {
	v, err := Parse("فترة 1 سنة و2 شهر و3 يوم", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	amt, ok := v.(AmountValue)
	if !ok {
		t.Fatalf("expected AmountValue, got %T", v)
	}
	if amt.Kind != AmountPeriod {
		t.Fatalf("expected AmountPeriod, got %v", amt.Kind)
	}
	per := amt.Period
	if per.Years != 1 || per.Months != 2 || per.Days != 3 {
		t.Errorf("got %+v", per)
	}
}

func TestParseDurationLiteral(t *testing.T) {
	v, err := Parse("مدة 1 ساعة و30 دقيقة", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	amt := v.(AmountValue)
	if amt.Kind != AmountDuration {
		t.Fatalf("expected AmountDuration, got %v", amt.Kind)
	}
	if amt.Duration.Seconds != 5400 {
		t.Errorf("got %+v, want 5400 seconds (1h30m)", amt.Duration)
	}
}

func TestParsePeriodAndDurationConcatenation(t *testing.T) {
	v, err := Parse("فترة 1 سنة مدة 2 ساعة", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	amt := v.(AmountValue)
	if amt.Kind != AmountPeriodDuration {
		t.Fatalf("expected AmountPeriodDuration, got %v", amt.Kind)
	}
	if amt.Combined.Period.Years != 1 || amt.Combined.Duration.Seconds != 7200 {
		t.Errorf("got %+v", amt.Combined)
	}
}

func TestParseBetweenLiteral(t *testing.T) {
	v, err := Parse("بين 1 يناير 2020 و5 يناير 2020", nerr.Position{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	amt, ok := v.(AmountValue)
	if !ok {
		t.Fatalf("expected AmountValue, got %T", v)
	}
	if amt.Kind != AmountPeriod {
		t.Fatalf("expected AmountPeriod, got %v", amt.Kind)
	}
	if amt.Period.Days != 4 {
		t.Errorf("got %+v, want Days:4", amt.Period)
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse("5 يناير 2024 زائدة", nerr.Position{})
	if !nerr.Is(err, nerr.Syntax) {
		t.Errorf("expected Syntax error for unconsumed trailing text, got %v", err)
	}
}

func TestParseRejectsUnrecognizedText(t *testing.T) {
	_, err := Parse("ليس نصاً زمنياً على الإطلاق", nerr.Position{})
	if !nerr.Is(err, nerr.Syntax) {
		t.Errorf("expected Syntax error, got %v", err)
	}
}
