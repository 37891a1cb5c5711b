package temporal

import (
	"strconv"
	"strings"
	"time"

	nerr "naftah/internal/errors"
)

// Parse recognizes the nested temporal literal grammar (spec §4.I):
//
//	root = now | dateTime | time | periodWithDuration | duration | between
//
// and returns either a *Point or an Amount wrapped as AmountValue, keyed
// by which alternative matched.
func Parse(src string, pos nerr.Position) (interface{}, error) {
	p := &litParser{src: []rune(strings.TrimSpace(src)), pos: pos}
	v, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.i < len(p.src) {
		return nil, nerr.New(nerr.Syntax, pos, "نص زمني غير مكتمل القراءة")
	}
	return v, nil
}

type litParser struct {
	src []rune
	i   int
	pos nerr.Position
}

func (p *litParser) fail() error {
	return nerr.New(nerr.Syntax, p.pos, "صياغة زمنية غير صالحة")
}

func (p *litParser) skipSpace() {
	for p.i < len(p.src) && (p.src[p.i] == ' ' || p.src[p.i] == '\t') {
		p.i++
	}
}

func (p *litParser) peekWord(w string) bool {
	p.skipSpace()
	r := []rune(w)
	if p.i+len(r) > len(p.src) {
		return false
	}
	for j, c := range r {
		if p.src[p.i+j] != c {
			return false
		}
	}
	return true
}

func (p *litParser) consumeWord(w string) bool {
	if p.peekWord(w) {
		p.i += len([]rune(w))
		return true
	}
	return false
}

func isDigitRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 0x0660 && r <= 0x0669)
}

func digitValue(r rune) int {
	if r >= 0x0660 && r <= 0x0669 {
		return int(r - 0x0660)
	}
	return int(r - '0')
}

// readNumber reads a maximal run of digits (Eastern-Arabic or Western,
// interchangeably per spec §4.I), returning its integer value.
func (p *litParser) readNumber() (int, bool) {
	p.skipSpace()
	start := p.i
	neg := false
	if p.i < len(p.src) && p.src[p.i] == '-' {
		neg = true
		p.i++
	}
	digStart := p.i
	val := 0
	for p.i < len(p.src) && isDigitRune(p.src[p.i]) {
		val = val*10 + digitValue(p.src[p.i])
		p.i++
	}
	if p.i == digStart {
		p.i = start
		return 0, false
	}
	if neg {
		val = -val
	}
	return val, true
}

// readDigitRun reads raw digits (not a full number — used for fractional
// seconds where leading/trailing zero semantics matter) and returns the
// string plus count.
func (p *litParser) readDigitRun() string {
	start := p.i
	for p.i < len(p.src) && isDigitRune(p.src[p.i]) {
		p.i++
	}
	var sb strings.Builder
	for _, r := range p.src[start:p.i] {
		sb.WriteRune(rune('0' + digitValue(r)))
	}
	return sb.String()
}

func (p *litParser) readWord() string {
	p.skipSpace()
	start := p.i
	for p.i < len(p.src) && p.src[p.i] != ' ' && p.src[p.i] != '\t' {
		p.i++
	}
	return string(p.src[start:p.i])
}

func (p *litParser) parseRoot() (interface{}, error) {
	save := p.i
	if p.consumeWord("بين") {
		a, err := p.parseBetweenOperand()
		if err == nil {
			p.skipSpace()
			if p.consumeWord("و") {
				b, err2 := p.parseBetweenOperand()
				if err2 == nil {
					return AmountValue{Between(a, b)}, nil
				}
			}
		}
		p.i = save
	}
	if p.peekWord("مدة") || p.peekWord("فترة") {
		return p.parsePeriodWithDuration()
	}
	if v, ok, err := p.tryNow(); ok {
		return v, err
	}
	if v, ok, err := p.tryDateTime(); ok {
		return v, err
	}
	if v, ok, err := p.tryTime(); ok {
		return v, err
	}
	return nil, p.fail()
}

func (p *litParser) parseBetweenOperand() (*Point, error) {
	if v, ok, err := p.tryDateTime(); ok {
		if err != nil {
			return nil, err
		}
		return v.(*Point), nil
	}
	if v, ok, err := p.tryTime(); ok {
		if err != nil {
			return nil, err
		}
		return v.(*Point), nil
	}
	return nil, p.fail()
}

// tryNow attempts `now = (DATE|TIME|DATE_TIME)? NOW calendar?`; a zone
// name or offset after it is not read.
// The qualifier prefix selects which Point kind the current instant is
// rendered as; absent, it defaults to the combined date-time.
func (p *litParser) tryNow() (interface{}, bool, error) {
	save := p.i
	kind := PointDateTime
	switch {
	case p.consumeWord("تاريخ_ووقت"):
		kind = PointDateTime
	case p.consumeWord("تاريخ"):
		kind = PointDate
	case p.consumeWord("وقت"):
		kind = PointTime
	}
	if !p.consumeWord("الآن") {
		p.i = save
		return nil, false, nil
	}
	cal := ISO
	p.skipSpace()
	if p.consumeWord("هجري") {
		cal = Hijrah
	} else {
		p.consumeWord("ميلادي")
	}
	now := time.Now()
	y, m, d := now.Date()
	year, month, day := FromISO(cal, y, int(m), d)
	pt := &Point{
		Kind: kind, Calendar: cal,
		Year: year, Month: month, Day: day,
		Hour: now.Hour(), Minute: now.Minute(), Second: now.Second(), Nanos: now.Nanosecond(),
	}
	if kind == PointTime {
		pt.Calendar = ISO
	}
	return pt, true, nil
}

// tryDateTime attempts `dateTime = NUMBER MONTH_NAME NUMBER time?`. The
// calendar follows from the month name; a calendar word after the year is
// not read.
func (p *litParser) tryDateTime() (interface{}, bool, error) {
	save := p.i
	day, ok := p.readNumber()
	if !ok {
		p.i = save
		return nil, false, nil
	}
	p.skipSpace()
	word := p.readWord()
	cal, month, found := LookupMonthName(word)
	if !found {
		p.i = save
		return nil, false, nil
	}
	year, ok := p.readNumber()
	if !ok {
		p.i = save
		return nil, false, nil
	}
	textDesc := TextDescriptor{MonthName: word}
	var hour, minute, second, nanos int
	var hasTime bool
	save2 := p.i
	if t, ok, err := p.tryTime(); ok {
		if err != nil {
			return nil, true, err
		}
		tp := t.(*Point)
		hour, minute, second, nanos = tp.Hour, tp.Minute, tp.Second, tp.Nanos
		textDesc.AmPm = tp.Text.AmPm
		hasTime = true
	} else {
		p.i = save2
	}
	if hasTime {
		pt, err := NewDateTime(cal, year, month, day, hour, minute, second, nanos, p.pos)
		if err != nil {
			return nil, true, err
		}
		pt.Text = textDesc
		return pt, true, nil
	}
	pt, err := NewDate(cal, year, month, day, p.pos)
	if err != nil {
		return nil, true, err
	}
	pt.Text = textDesc
	return pt, true, nil
}

// tryTime attempts `time = HH:MM(:SS(.FFF)?)? AMPM?`; a zone name or
// offset after it is not read.
func (p *litParser) tryTime() (interface{}, bool, error) {
	save := p.i
	p.skipSpace()
	hour, ok := p.readNumber()
	if !ok || p.i >= len(p.src) || p.src[p.i] != ':' {
		p.i = save
		return nil, false, nil
	}
	p.i++
	minute, ok := p.readNumber()
	if !ok {
		p.i = save
		return nil, false, nil
	}
	second := 0
	nanos := 0
	if p.i < len(p.src) && p.src[p.i] == ':' {
		p.i++
		second, ok = p.readNumber()
		if !ok {
			p.i = save
			return nil, false, nil
		}
		if p.i < len(p.src) && p.src[p.i] == '.' {
			p.i++
			digits := p.readDigitRun()
			if len(digits) == 0 {
				p.i = save
				return nil, false, nil
			}
			if len(digits) <= 3 {
				for len(digits) < 3 {
					digits += "0"
				}
				digits += "000000"
			} else if len(digits) > 9 {
				digits = digits[:9]
			} else {
				for len(digits) < 9 {
					digits += "0"
				}
			}
			n, _ := strconv.Atoi(digits)
			nanos = n
		}
	}
	ampm := p.readAmPm()
	pt, err := NewTime(hour, minute, second, nanos, p.pos)
	if err != nil {
		return nil, true, err
	}
	pt.Text.AmPm = ampm
	if ampm != "" {
		isPm := ampm == "م" || strings.HasPrefix(ampm, "مساء")
		h := pt.Hour % 12
		if isPm {
			h += 12
		}
		pt.Hour = h
	}
	return pt, true, nil
}

func (p *litParser) readAmPm() string {
	save := p.i
	for _, marker := range []string{"صباحاً", "صباحا", "مساءً", "مساءا", "ص", "م"} {
		if p.consumeWord(marker) {
			return marker
		}
	}
	p.i = save
	return ""
}

// parsePeriodWithDuration handles `period`, `duration`, and their
// concatenation into `periodWithDuration`.
func (p *litParser) parsePeriodWithDuration() (interface{}, error) {
	var per Period
	var dur Duration
	haveP, haveD := false, false

	if p.consumeWord("فترة") {
		var err error
		per, err = p.parsePeriodBody()
		if err != nil {
			return nil, err
		}
		haveP = true
	}
	p.skipSpace()
	if p.consumeWord("مدة") {
		var err error
		dur, err = p.parseDurationBody()
		if err != nil {
			return nil, err
		}
		haveD = true
	}
	switch {
	case haveP && haveD:
		return AmountValue{NewCombinedAmount(PeriodAndDuration{Period: per, Duration: dur})}, nil
	case haveP:
		return AmountValue{NewPeriodAmount(per)}, nil
	case haveD:
		return AmountValue{NewDurationAmount(dur)}, nil
	}
	return nil, p.fail()
}

// parsePeriodBody reads `Y 'سنة' [ و M 'شهر' ] [ و D 'يوم' ]`.
func (p *litParser) parsePeriodBody() (Period, error) {
	var per Period
	n, ok := p.readNumber()
	if !ok {
		return per, p.fail()
	}
	if !p.consumeUnit("سنة", "سنتان", "سنوات") {
		return per, p.fail()
	}
	per.Years = n
	if p.consumeWord("و") {
		n2, ok := p.readNumber()
		if !ok {
			return per, p.fail()
		}
		if p.consumeUnit("شهر", "شهران", "أشهر") {
			per.Months = n2
			if p.consumeWord("و") {
				n3, ok := p.readNumber()
				if !ok {
					return per, p.fail()
				}
				if !p.consumeUnit("يوم", "يومان", "أيام") {
					return per, p.fail()
				}
				per.Days = n3
			}
		} else if p.consumeUnit("يوم", "يومان", "أيام") {
			per.Days = n2
		} else {
			return per, p.fail()
		}
	}
	return per, nil
}

// parseDurationBody reads `H 'ساعة'` followed by any number of `و N unit`
// parts in minutes, seconds or nanoseconds; every count is a whole number.
func (p *litParser) parseDurationBody() (Duration, error) {
	var d Duration
	n, ok := p.readNumber()
	if !ok {
		return d, p.fail()
	}
	if !p.consumeUnit("ساعة", "ساعتان", "ساعات") {
		return d, p.fail()
	}
	d.Seconds = int64(n) * 3600
	for p.consumeWord("و") {
		n2, ok := p.readNumber()
		if !ok {
			return d, p.fail()
		}
		switch {
		case p.consumeUnit("دقيقة", "دقيقتان", "دقائق"):
			d.Seconds += int64(n2) * 60
		case p.consumeUnit("ثانية", "ثانيتان", "ثوان"):
			d.Seconds += int64(n2)
		case p.consumeUnit("نانوثانية", "نانوثانيتان", "نانوثواني"):
			d.Nanos += int64(n2)
		default:
			return d, p.fail()
		}
	}
	d = normalizeDuration(d.Seconds, d.Nanos)
	return d, nil
}

func (p *litParser) consumeUnit(forms ...string) bool {
	for _, f := range forms {
		if p.consumeWord(f) {
			return true
		}
	}
	return false
}
