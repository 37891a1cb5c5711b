package temporal

import (
	"fmt"

	nerr "naftah/internal/errors"
)

// PointKind distinguishes the three point shapes spec §4.B defines.
type PointKind int

const (
	PointTime PointKind = iota
	PointDate
	PointDateTime
)

func (k PointKind) String() string {
	switch k {
	case PointTime:
		return "time"
	case PointDate:
		return "date"
	default:
		return "date-time"
	}
}

// TextDescriptor preserves the Arabic spellings a literal was written with
// (month name form, AM/PM marker form, zone name) so round-tripping a
// parsed literal back to text doesn't silently normalize the user's
// chosen wording.
type TextDescriptor struct {
	MonthName string
	AmPm      string
	ZoneName  string
}

// Point is the sealed ArabicTime/ArabicDate/ArabicDateTime value (spec
// §4.B). Construction always validates components against Calendar before
// a Point is produced — see NewDate/NewTime/NewDateTime.
type Point struct {
	Kind     PointKind
	Calendar Calendar

	Year, Month, Day             int
	Hour, Minute, Second, Nanos  int

	HasZone  bool
	ZoneName string
	OffsetSec int

	Text TextDescriptor
}

func daysInMonth(cal Calendar, year, month int) int {
	if cal == ISO {
		switch month {
		case 1, 3, 5, 7, 8, 10, 12:
			return 31
		case 4, 6, 9, 11:
			return 30
		case 2:
			if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
				return 29
			}
			return 28
		}
		return 0
	}
	// Hijrah: odd months have 30 days, even months 29, except month 12
	// gains a day in a leap year (tabular rule).
	if month == 12 && hijriLeap(year) {
		return 30
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}

func validateDate(cal Calendar, year, month, day int, pos nerr.Position) error {
	if month < 1 || month > 12 {
		return nerr.New(nerr.InvalidNumber, pos, fmt.Sprintf("شهر غير صالح: %d", month))
	}
	maxDay := daysInMonth(cal, year, month)
	if day < 1 || day > maxDay {
		return nerr.New(nerr.InvalidNumber, pos, fmt.Sprintf("يوم غير صالح: %d", day))
	}
	return nil
}

func validateTime(hour, minute, second, nanos int, pos nerr.Position) error {
	if hour < 0 || hour > 23 {
		return nerr.New(nerr.InvalidNumber, pos, fmt.Sprintf("ساعة غير صالحة: %d", hour))
	}
	if minute < 0 || minute > 59 {
		return nerr.New(nerr.InvalidNumber, pos, fmt.Sprintf("دقيقة غير صالحة: %d", minute))
	}
	if second < 0 || second > 59 {
		return nerr.New(nerr.InvalidNumber, pos, fmt.Sprintf("ثانية غير صالحة: %d", second))
	}
	if nanos < 0 || nanos > 999_999_999 {
		return nerr.New(nerr.InvalidNumber, pos, fmt.Sprintf("جزء من الثانية غير صالح: %d", nanos))
	}
	return nil
}

// NewDate constructs a validated date-only Point.
func NewDate(cal Calendar, year, month, day int, pos nerr.Position) (*Point, error) {
	if err := validateDate(cal, year, month, day, pos); err != nil {
		return nil, err
	}
	return &Point{Kind: PointDate, Calendar: cal, Year: year, Month: month, Day: day}, nil
}

// NewTime constructs a validated time-only Point (always calendar-less).
func NewTime(hour, minute, second, nanos int, pos nerr.Position) (*Point, error) {
	if err := validateTime(hour, minute, second, nanos, pos); err != nil {
		return nil, err
	}
	return &Point{Kind: PointTime, Hour: hour, Minute: minute, Second: second, Nanos: nanos}, nil
}

// NewDateTime constructs a validated combined Point, optionally zoned.
func NewDateTime(cal Calendar, year, month, day, hour, minute, second, nanos int, pos nerr.Position) (*Point, error) {
	if err := validateDate(cal, year, month, day, pos); err != nil {
		return nil, err
	}
	if err := validateTime(hour, minute, second, nanos, pos); err != nil {
		return nil, err
	}
	return &Point{
		Kind: PointDateTime, Calendar: cal,
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second, Nanos: nanos,
	}, nil
}

// isoDays returns the ISO-calendar day count used as the comparison
// instant for the date portion, regardless of which calendar the Point is
// expressed in (spec §4.B: "comparison is by normalized instant").
func (p *Point) isoDays() int64 {
	if p.Kind == PointTime {
		return 0
	}
	y, m, d := ToISO(p.Calendar, p.Year, p.Month, p.Day)
	return gregorianToJDN(y, m, d)
}

func (p *Point) secondsOfDay() int64 {
	return int64(p.Hour)*3600 + int64(p.Minute)*60 + int64(p.Second)
}

// Instant returns a (days, seconds-of-day, nanos) triple that totally
// orders two Points of the same Kind — the "normalized instant" spec
// §4.B requires comparisons to use. Zone offsets are folded in so two
// DateTimes in different zones compare correctly.
func (p *Point) Instant() (days int64, secs int64, nanos int64) {
	secs = p.secondsOfDay()
	nanos = int64(p.Nanos)
	if p.HasZone {
		secs -= int64(p.OffsetSec)
	}
	if secs < 0 {
		secs += 86400
		days = p.isoDays() - 1
	} else if secs >= 86400 {
		secs -= 86400
		days = p.isoDays() + 1
	} else {
		days = p.isoDays()
	}
	return days, secs, nanos
}

// Compare orders two Points of the same Kind by normalized instant.
// Points of different Kind are not comparable; callers must check Kind
// first (the operation engine raises TypeMismatch in that case).
func (p *Point) Compare(o *Point) int {
	pd, ps, pn := p.Instant()
	od, os, on := o.Instant()
	if pd != od {
		return sign64(pd - od)
	}
	if ps != os {
		return sign64(ps - os)
	}
	return sign64(pn - on)
}

func sign64(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// AddDuration adds a Duration to the Point, preserving Kind and Calendar
// (spec §4.B: arithmetic on a point always returns the same point kind).
func (p *Point) AddDuration(d Duration) *Point {
	totalNanos := int64(p.Nanos) + d.Nanos
	totalSecs := p.secondsOfDay() + d.Seconds + totalNanos/1_000_000_000
	totalNanos %= 1_000_000_000
	if totalNanos < 0 {
		totalNanos += 1_000_000_000
		totalSecs--
	}
	dayCarry := totalSecs / 86400
	secOfDay := totalSecs % 86400
	if secOfDay < 0 {
		secOfDay += 86400
		dayCarry--
	}
	np := *p
	np.Nanos = int(totalNanos)
	np.Hour = int(secOfDay / 3600)
	np.Minute = int((secOfDay % 3600) / 60)
	np.Second = int(secOfDay % 60)
	if p.Kind != PointTime && dayCarry != 0 {
		y, m, dd := ToISO(p.Calendar, p.Year, p.Month, p.Day)
		jdn := gregorianToJDN(y, m, dd) + dayCarry
		iy, im, id := jdnToGregorian(jdn)
		np.Year, np.Month, np.Day = FromISO(p.Calendar, iy, im, id)
	}
	return &np
}

// AddPeriod adds a Period to the Point's calendar fields (spec §4.B:
// years/months/days are added in the Point's own calendar, matching how
// month/day overflow clamps rather than rolling over — e.g. adding one
// month to the 30th of a 29-day month clamps to that month's last day).
func (p *Point) AddPeriod(per Period) *Point {
	if p.Kind == PointTime {
		return p
	}
	np := *p
	totalMonths := (np.Year*12 + (np.Month - 1)) + per.Years*12 + per.Months
	np.Year = totalMonths / 12
	np.Month = totalMonths%12 + 1
	if np.Month <= 0 {
		np.Month += 12
		np.Year--
	}
	maxDay := daysInMonth(p.Calendar, np.Year, np.Month)
	if np.Day > maxDay {
		np.Day = maxDay
	}
	if per.Days != 0 {
		y, m, d := ToISO(p.Calendar, np.Year, np.Month, np.Day)
		jdn := gregorianToJDN(y, m, d) + int64(per.Days)
		iy, im, id := jdnToGregorian(jdn)
		np.Year, np.Month, np.Day = FromISO(p.Calendar, iy, im, id)
	}
	return &np
}
