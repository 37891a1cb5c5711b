package temporal

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goodsign/monday"

	"naftah/internal/value"
)

// gregorianMonths is the canonical Arabic month-name table, the index
// matching Go's 1-based month numbering. The names themselves are read
// out of goodsign/monday's own ar_SA locale data (via monday.Format's
// "January" layout token over one representative date per month) rather
// than hand-copied, so this table stays the same "canonical on write"
// source monday itself ships — only inverted into monthAliases for
// lenient reading. A second, Tunisian/Maghrebi variant table sits
// alongside it for parsing aliases (spec §4.I allows either spelling on
// input); monday carries no Maghrebi-dialect Arabic locale, so that
// table is hand-authored.
var gregorianMonths = buildGregorianMonths()

func buildGregorianMonths() [13]string {
	var months [13]string
	for m := 1; m <= 12; m++ {
		t := time.Date(2001, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		months[m] = monday.Format(t, "January", monday.LocaleArSA)
	}
	return months
}

var gregorianMonthsMaghrebi = [13]string{
	"", "جانفي", "فيفري", "مارس", "أفريل", "ماي", "جوان",
	"جويلية", "أوت", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var hijriMonths = [13]string{
	"", "محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
	"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
}

// monthAliases inverts all three tables for parsing, built once.
var monthAliases = buildMonthAliases()

func buildMonthAliases() map[string]monthRef {
	m := make(map[string]monthRef)
	for i := 1; i <= 12; i++ {
		m[gregorianMonths[i]] = monthRef{ISO, i}
		m[gregorianMonthsMaghrebi[i]] = monthRef{ISO, i}
		m[hijriMonths[i]] = monthRef{Hijrah, i}
	}
	return m
}

type monthRef struct {
	Calendar Calendar
	Month    int
}

// LookupMonthName resolves either calendar's month name (standard or
// Maghrebi-alias spelling) to a calendar+month pair.
func LookupMonthName(name string) (Calendar, int, bool) {
	ref, ok := monthAliases[strings.TrimSpace(name)]
	return ref.Calendar, ref.Month, ok
}

func monthName(cal Calendar, month int) string {
	if cal == Hijrah {
		return hijriMonths[month]
	}
	return gregorianMonths[month]
}

// RenderPoint formats a Point the way the user would write it back as a
// Naftah literal, preserving the month-name/AM-PM spelling the literal
// was originally parsed with when Text is populated.
func RenderPoint(p *Point) string {
	switch p.Kind {
	case PointTime:
		return renderTime(p)
	case PointDate:
		return renderDate(p)
	default:
		return renderDate(p) + " " + renderTime(p)
	}
}

func renderDate(p *Point) string {
	name := p.Text.MonthName
	if name == "" {
		name = monthName(p.Calendar, p.Month)
	}
	return fmt.Sprintf("%d %s %d", p.Day, name, p.Year)
}

func renderTime(p *Point) string {
	h := p.Hour
	marker := "ص"
	if h == 0 {
		h = 12
	} else if h == 12 {
		marker = "م"
	} else if h > 12 {
		h -= 12
		marker = "م"
	}
	if p.Text.AmPm != "" {
		marker = p.Text.AmPm
	}
	if p.Nanos != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d %s", h, p.Minute, p.Second, p.Nanos/1_000_000, marker)
	}
	return fmt.Sprintf("%02d:%02d:%02d %s", h, p.Minute, p.Second, marker)
}

// arabicUnit names and their grammatical singular/dual/plural forms
// (spec §4.B's Arabic rendering requirement — periods use فترة-prefixed
// calendar units, durations use مدة-prefixed time units).
type unitForms struct{ one, two, many string }

var (
	unitYears   = unitForms{"سنة", "سنتان", "سنوات"}
	unitMonths  = unitForms{"شهر", "شهران", "أشهر"}
	unitDays    = unitForms{"يوم", "يومان", "أيام"}
	unitHours   = unitForms{"ساعة", "ساعتان", "ساعات"}
	unitMinutes = unitForms{"دقيقة", "دقيقتان", "دقائق"}
	unitSeconds = unitForms{"ثانية", "ثانيتان", "ثوان"}
)

func (f unitForms) form(n int) string {
	switch {
	case n == 2:
		return f.two
	case n >= 3 && n <= 10:
		return f.many
	default:
		return f.one
	}
}

// formatCount digit-groups n (dustin/go-humanize's own reason for being)
// so a period/duration component running into the thousands (a
// multi-century year count, a duration spanning many hours) still reads
// cleanly instead of running its digits together.
func formatCount(n int64) string {
	return humanize.Comma(n)
}

func joinArabicParts(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], "، ") + " و" + parts[len(parts)-1]
}

// RenderPeriod renders a Period as "فترة <n> سنة، <n> شهر و<n> يوم", eliding
// zero components, and falling back to the zero-day special case when the
// whole period is empty.
func RenderPeriod(p Period) string {
	if p.IsZero() {
		return "فترة 0 يوم"
	}
	var parts []string
	if p.Years != 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatCount(int64(abs(p.Years))), unitYears.form(abs(p.Years))))
	}
	if p.Months != 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatCount(int64(abs(p.Months))), unitMonths.form(abs(p.Months))))
	}
	if p.Days != 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatCount(int64(abs(p.Days))), unitDays.form(abs(p.Days))))
	}
	sign := ""
	if isNegativePeriod(p) {
		sign = "- "
	}
	return sign + "فترة " + joinArabicParts(parts)
}

func isNegativePeriod(p Period) bool {
	return p.Years < 0 || p.Months < 0 || p.Days < 0
}

// RenderDuration renders a Duration as "مدة <n> ساعة، <n> دقيقة و<n> ثانية".
func RenderDuration(d Duration) string {
	if d.IsZero() {
		return "مدة 0 ثانية"
	}
	neg := d.Seconds < 0 || (d.Seconds == 0 && d.Nanos < 0)
	secs := d.Seconds
	if neg {
		secs = -secs
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	var parts []string
	if h != 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatCount(h), unitHours.form(int(h))))
	}
	if m != 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatCount(m), unitMinutes.form(int(m))))
	}
	if s != 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatCount(s), unitSeconds.form(int(s))))
	}
	sign := ""
	if neg {
		sign = "- "
	}
	return sign + "مدة " + joinArabicParts(parts)
}

// RenderAmount dispatches to the right renderer and, for the combined
// kind, joins the period and duration text with the conjunction و.
func RenderAmount(a Amount) string {
	switch a.Kind {
	case AmountDuration:
		return RenderDuration(a.Duration)
	case AmountPeriod:
		return RenderPeriod(a.Period)
	default:
		return RenderPeriod(a.Combined.Period) + " و" + RenderDuration(a.Combined.Duration)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Compile-time assertions that PointValue/AmountValue satisfy value.Value.
var (
	_ value.Value = PointValue{}
	_ value.Value = AmountValue{}
)
