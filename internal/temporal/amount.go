package temporal

// AmountKind distinguishes the three amount shapes spec §4.B defines:
// a pure Duration (time-based, exact seconds/nanos), a pure Period
// (calendar-based, years/months/days), or their sum.
type AmountKind int

const (
	AmountDuration AmountKind = iota
	AmountPeriod
	AmountPeriodDuration
)

// Duration is an exact time-based amount (spec §4.B), modeled the way
// go-chrono-chrono's Duration splits whole seconds from the sub-second
// remainder rather than a single int64-nanoseconds field, so additions
// stay exact past the int64-nanosecond range.
type Duration struct {
	Seconds int64
	Nanos   int64 // always normalized to [0, 1e9)
}

func normalizeDuration(secs, nanos int64) Duration {
	secs += nanos / 1_000_000_000
	nanos %= 1_000_000_000
	if nanos < 0 {
		nanos += 1_000_000_000
		secs--
	}
	return Duration{Seconds: secs, Nanos: nanos}
}

func (d Duration) Add(o Duration) Duration {
	return normalizeDuration(d.Seconds+o.Seconds, d.Nanos+o.Nanos)
}

func (d Duration) Sub(o Duration) Duration {
	return normalizeDuration(d.Seconds-o.Seconds, d.Nanos-o.Nanos)
}

func (d Duration) Negate() Duration {
	return normalizeDuration(-d.Seconds, -d.Nanos)
}

func (d Duration) IsZero() bool {
	return d.Seconds == 0 && d.Nanos == 0
}

// Period is a calendar-based amount (spec §4.B): years, months, and days
// kept separate rather than normalized into one another, since "1 month"
// has no fixed day count.
type Period struct {
	Years, Months, Days int
}

func (p Period) Add(o Period) Period {
	return Period{p.Years + o.Years, p.Months + o.Months, p.Days + o.Days}
}

func (p Period) Sub(o Period) Period {
	return Period{p.Years - o.Years, p.Months - o.Months, p.Days - o.Days}
}

func (p Period) Negate() Period {
	return Period{-p.Years, -p.Months, -p.Days}
}

func (p Period) IsZero() bool {
	return p.Years == 0 && p.Months == 0 && p.Days == 0
}

// PeriodAndDuration is the sum type produced when a Period and a Duration
// are added together (spec §4.B: "adding a Duration to a Period produces
// a combined amount; the two components never collapse into one another
// since they measure different things").
type PeriodAndDuration struct {
	Period   Period
	Duration Duration
}

func (pd PeriodAndDuration) Add(o PeriodAndDuration) PeriodAndDuration {
	return PeriodAndDuration{pd.Period.Add(o.Period), pd.Duration.Add(o.Duration)}
}

func (pd PeriodAndDuration) Sub(o PeriodAndDuration) PeriodAndDuration {
	return PeriodAndDuration{pd.Period.Sub(o.Period), pd.Duration.Sub(o.Duration)}
}

func (pd PeriodAndDuration) Negate() PeriodAndDuration {
	return PeriodAndDuration{pd.Period.Negate(), pd.Duration.Negate()}
}

// Amount is the sealed ArabicDuration/ArabicPeriod/ArabicPeriodAndDuration
// value. Only one of Duration/Period/Combined is meaningful, selected by
// Kind, matching Point's sealed-by-Kind shape in point.go.
type Amount struct {
	Kind     AmountKind
	Duration Duration
	Period   Period
	Combined PeriodAndDuration
}

func NewDurationAmount(d Duration) Amount { return Amount{Kind: AmountDuration, Duration: d} }
func NewPeriodAmount(p Period) Amount     { return Amount{Kind: AmountPeriod, Period: p} }
func NewCombinedAmount(pd PeriodAndDuration) Amount {
	return Amount{Kind: AmountPeriodDuration, Combined: pd}
}

func (a Amount) asCombined() PeriodAndDuration {
	switch a.Kind {
	case AmountDuration:
		return PeriodAndDuration{Duration: a.Duration}
	case AmountPeriod:
		return PeriodAndDuration{Period: a.Period}
	default:
		return a.Combined
	}
}

// Add sums two Amounts. Same-kind pairs keep their kind (Duration+Duration
// stays Duration, Period+Period stays Period); any Duration/Period mix
// promotes to PeriodAndDuration (spec §4.B).
func (a Amount) Add(o Amount) Amount {
	if a.Kind == AmountDuration && o.Kind == AmountDuration {
		return NewDurationAmount(a.Duration.Add(o.Duration))
	}
	if a.Kind == AmountPeriod && o.Kind == AmountPeriod {
		return NewPeriodAmount(a.Period.Add(o.Period))
	}
	return NewCombinedAmount(a.asCombined().Add(o.asCombined()))
}

func (a Amount) Sub(o Amount) Amount {
	if a.Kind == AmountDuration && o.Kind == AmountDuration {
		return NewDurationAmount(a.Duration.Sub(o.Duration))
	}
	if a.Kind == AmountPeriod && o.Kind == AmountPeriod {
		return NewPeriodAmount(a.Period.Sub(o.Period))
	}
	return NewCombinedAmount(a.asCombined().Sub(o.asCombined()))
}

func (a Amount) Negate() Amount {
	switch a.Kind {
	case AmountDuration:
		return NewDurationAmount(a.Duration.Negate())
	case AmountPeriod:
		return NewPeriodAmount(a.Period.Negate())
	default:
		return NewCombinedAmount(a.Combined.Negate())
	}
}

func (a Amount) IsZero() bool {
	switch a.Kind {
	case AmountDuration:
		return a.Duration.IsZero()
	case AmountPeriod:
		return a.Period.IsZero()
	default:
		return a.Combined.Period.IsZero() && a.Combined.Duration.IsZero()
	}
}

// Between computes the minimal amount separating two Points of the same
// Kind (spec §4.B's `between` operation): for two Dates it is a Period
// (calendar difference, calendar-aware carry borrowed from the teacher's
// general "compute in the narrowest sufficient representation" posture
// applied to temporal arithmetic); for two Times or a Time-bearing
// comparison it is a Duration; between two DateTimes it is a
// PeriodAndDuration (whole calendar part plus the time-of-day remainder).
func Between(a, b *Point) Amount {
	switch a.Kind {
	case PointTime:
		return NewDurationAmount(timeDuration(a, b))
	case PointDate:
		return NewPeriodAmount(dateDifference(a, b))
	default:
		years, months, days, rem := dateTimeDifference(a, b)
		return NewCombinedAmount(PeriodAndDuration{
			Period:   Period{Years: years, Months: months, Days: days},
			Duration: rem,
		})
	}
}

func timeDuration(a, b *Point) Duration {
	as := int64(a.Hour)*3600 + int64(a.Minute)*60 + int64(a.Second)
	bs := int64(b.Hour)*3600 + int64(b.Minute)*60 + int64(b.Second)
	return normalizeDuration(bs-as, int64(b.Nanos-a.Nanos))
}

// dateDifference computes the calendar (years, months, days) span from a
// to b, carrying borrows the way java.time.Period.between does: walk
// month-by-month first, then settle the remaining days.
func dateDifference(a, b *Point) Period {
	ay, am, ad := a.Year, a.Month, a.Day
	by, bm, bd := b.Year, b.Month, b.Day
	sign := 1
	if DaysBetweenISOCal(a.Calendar, ay, am, ad, by, bm, bd) < 0 {
		ay, am, ad, by, bm, bd = by, bm, bd, ay, am, ad
		sign = -1
	}
	totalMonths := (by*12 + bm) - (ay*12 + am)
	days := bd - ad
	if days < 0 {
		totalMonths--
		pm := bm - 1
		py := by
		if pm == 0 {
			pm = 12
			py--
		}
		days += daysInMonth(a.Calendar, py, pm)
	}
	years := totalMonths / 12
	months := totalMonths % 12
	return Period{Years: sign * years, Months: sign * months, Days: sign * days}
}

func dateTimeDifference(a, b *Point) (years, months, days int, rem Duration) {
	per := dateDifference(a, b)
	timeRem := timeDuration(a, b)
	// If the time-of-day rolled backwards, borrow one day from the period
	// so the remainder duration stays non-negative in the common forward
	// direction.
	if timeRem.Seconds < 0 && per.Days > 0 {
		per.Days--
		timeRem.Seconds += 86400
	} else if timeRem.Seconds < 0 && per.Days < 0 {
		per.Days++
		timeRem.Seconds -= 86400
	}
	return per.Years, per.Months, per.Days, timeRem
}

// DaysBetweenISOCal is DaysBetweenISO but taking points already expressed
// in a shared source calendar, converting each to ISO first.
func DaysBetweenISOCal(cal Calendar, y1, m1, d1, y2, m2, d2 int) int64 {
	iy1, im1, id1 := ToISO(cal, y1, m1, d1)
	iy2, im2, id2 := ToISO(cal, y2, m2, d2)
	return DaysBetweenISO(iy1, im1, id1, iy2, im2, id2)
}
