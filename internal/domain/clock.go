package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MinutesPerDay is the length of a booking day in minutes.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time in minutes since midnight.
// Valid reservation bounds lie in [0, MinutesPerDay]; only EndOfDay may equal MinutesPerDay.
type TimeOfDay int

const (
	StartOfDay TimeOfDay = 0
	EndOfDay   TimeOfDay = MinutesPerDay
)

var clockRegexp = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ParseTimeOfDay parses "HH:MM" in 24-hour form, 00:00 through 23:59.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	return parseClock(s, false)
}

// ParseRangeEnd is ParseTimeOfDay that also accepts "24:00" as the end of the day,
// so a free slot reported as "22:00 - 24:00" can be booked as-is.
func ParseRangeEnd(s string) (TimeOfDay, error) {
	return parseClock(s, true)
}

func parseClock(s string, allowEndOfDay bool) (TimeOfDay, error) {
	m := clockRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	if allowEndOfDay && h == 24 && mins == 0 {
		return EndOfDay, nil
	}
	if h > 23 || mins > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return TimeOfDay(h*60 + mins), nil
}

// FormatTime renders minutes since midnight as "HH:MM". 1440 renders as "24:00".
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (t TimeOfDay) String() string { return FormatTime(int(t)) }

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseRangeEnd(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Scan reads "HH:MM" or a postgres TIME value ("HH:MM:SS").
func (t *TimeOfDay) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	if len(s) == len("15:04:05") {
		s = s[:5]
	}
	v, err := ParseRangeEnd(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) { return t.String(), nil }

// TimeRange is a half-open wall-clock interval [Start, End).
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// NewTimeRange parses a start ("HH:MM") and an end ("HH:MM" or "24:00").
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseRangeEnd(end)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: s, End: e}, nil
}

// Minutes is the width of the range; zero or negative for malformed ranges.
func (r TimeRange) Minutes() int { return int(r.End - r.Start) }

// Valid reports whether the range is non-empty and lies within one day.
func (r TimeRange) Valid() bool {
	return r.Start >= StartOfDay && r.End <= EndOfDay && r.Start < r.End
}

// Overlaps uses the open-interval rule: ranges that only touch do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && r.End > o.Start
}

func (r TimeRange) String() string {
	return r.Start.String() + " - " + r.End.String()
}

// DateLayout is the wire form of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time zone. The zero value is "no date".
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate normalises out-of-range components the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d == Date{} }

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// At returns the wall-clock instant of t on d in loc.
func (d Date) At(t TimeOfDay, loc *time.Location) time.Time {
	return d.In(loc).Add(time.Duration(t) * time.Minute)
}

func (d Date) AddDays(n int) Date {
	return NewDate(d.year, d.month, d.day+n)
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	return d.In(time.UTC).Compare(o.In(time.UTC))
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.In(time.UTC).Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Scan accepts a postgres DATE (time.Time) or its text form.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) Value() (driver.Value, error) { return d.String(), nil }
