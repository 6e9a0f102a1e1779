package format

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	ticksPerSecond = 10_000_000
	ticksPerDay    = 86400 * ticksPerSecond
	// epochDayOffset is the day count from the FILETIME epoch (1601-01-01)
	// to the Unix epoch (1970-01-01): 134774 days, ported from the teacher's
	// filetimeOffset constant expressed in days instead of 100ns ticks.
	epochDayOffset = 134774
)

// FiletimeToTime converts a Windows FILETIME value (100ns ticks since
// 1601-01-01) to time.Time in UTC. Built on civilFromDays rather than
// time.Unix's int64-nanosecond arithmetic, so it doesn't overflow for ticks
// beyond roughly year 2262.
func FiletimeToTime(ticks uint64) time.Time {
	year, month, day, hour, minute, second, nsec := filetimeToComponents(ticks)
	return time.Date(int(year), time.Month(month), day, hour, minute, second, nsec, time.UTC)
}

// TimeToFiletime is FiletimeToTime's inverse.
func TimeToFiletime(t time.Time) uint64 {
	t = t.UTC()
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return componentsToFiletime(int64(y), int(m), d, hh, mm, ss, t.Nanosecond())
}

// FormatFiletime renders a FILETIME value as
// "YYYY-MM-DDTHH:MM:SS.nnnnnnnnnZ" (spec §4.2): a 9-digit nanosecond
// fraction, matching the wire format libfwevt_utf8_string_copy_to_filetime
// parses (tests/fwevt_test_date_time.c asserts 1601-01-01T00:00:00.000000000Z
// round-trips to FILETIME 0).
func FormatFiletime(ticks uint64) string {
	year, month, day, hour, minute, second, nsec := filetimeToComponents(ticks)
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%09dZ",
		year, month, day, hour, minute, second, nsec)
}

// isoFiletimePattern anchors the same field layout
// libfwevt_utf8_string_copy_to_filetime checks position-by-position
// ('-'/'T'/':'/'.'/'Z' at fixed offsets, digit runs everywhere else), widened
// to accept a year of more than 4 digits: FormatFiletime doesn't truncate
// the year it emits for ticks past 9999-12-31, so the parser has to accept
// what the formatter writes.
var isoFiletimePattern = regexp.MustCompile(`^(\d{4,})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})\.(\d{9})Z$`)

// ParseFiletime parses an ISO-8601 FILETIME string of the form
// "YYYY-MM-DDTHH:MM:SS.nnnnnnnnnZ" back into FILETIME ticks (spec §4.2,
// Concrete Scenario S2; the inverse of FormatFiletime and spec §8 Testable
// Property 2). Field validation — calendar month lengths, leap-day rule,
// hour/minute/second ranges — is ported from
// libfwevt_utf8_string_copy_to_filetime.
func ParseFiletime(s string) (uint64, error) {
	m := isoFiletimePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("filetime: %w: %q is not an ISO-8601 FILETIME string", ErrInvalidData, s)
	}
	year, _ := strconv.ParseInt(m[1], 10, 64)
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])
	nsec, _ := strconv.Atoi(m[7])

	if year < 1601 {
		return 0, fmt.Errorf("filetime: %w: year %d precedes the FILETIME epoch", ErrInvalidData, year)
	}
	if !validCalendarDate(year, month, day) {
		return 0, fmt.Errorf("filetime: %w: %04d-%02d-%02d is not a valid calendar date", ErrInvalidData, year, month, day)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, fmt.Errorf("filetime: %w: %02d:%02d:%02d is not a valid time of day", ErrInvalidData, hour, minute, second)
	}
	return componentsToFiletime(year, month, day, hour, minute, second, nsec), nil
}

func isLeapYear(year int64) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func validCalendarDate(year int64, month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	daysInMonth := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	max := daysInMonth[month-1]
	if month == 2 && isLeapYear(year) {
		max = 29
	}
	return day >= 1 && day <= max
}

// daysFromCivil and civilFromDays are Howard Hinnant's constant-time
// proleptic-Gregorian day-count conversions
// (howardhinnant.github.io/date_algorithms.html), used in place of the
// teacher's year-by-year accumulation loop so a tick count near the top of
// the uint64 range (year ~16000+) converts without looping once per
// calendar year.
func daysFromCivil(year int64, month, day int) int64 {
	y := year
	if month <= 2 {
		y--
	}
	era := y / 400
	if y < 0 {
		era = (y - 399) / 400
	}
	yoe := y - era*400
	mp := int64((month + 9) % 12)
	doy := (153*mp+2)/5 + int64(day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int64) (year int64, month, day int) {
	z += 719468
	era := z / 146097
	if z < 0 {
		era = (z - 146096) / 146097
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var mo int64
	if mp < 10 {
		mo = mp + 3
	} else {
		mo = mp - 9
	}
	if mo <= 2 {
		y++
	}
	return y, int(mo), int(d)
}

func filetimeToComponents(ticks uint64) (year int64, month, day, hour, minute, second, nsec int) {
	days := int64(ticks / ticksPerDay)
	rem := ticks % ticksPerDay
	year, month, day = civilFromDays(days - epochDayOffset)
	secOfDay := rem / ticksPerSecond
	fracTicks := rem % ticksPerSecond
	hour = int(secOfDay / 3600)
	minute = int((secOfDay % 3600) / 60)
	second = int(secOfDay % 60)
	nsec = int(fracTicks) * 100
	return
}

func componentsToFiletime(year int64, month, day, hour, minute, second, nsec int) uint64 {
	days := daysFromCivil(year, month, day) + epochDayOffset
	ticks := uint64(days) * ticksPerDay
	ticks += uint64(hour)*3600*ticksPerSecond + uint64(minute)*60*ticksPerSecond + uint64(second)*ticksPerSecond
	ticks += uint64(nsec) / 100
	return ticks
}

// SystemTime models the fixed-size SYSTEMTIME structure (spec §4.2): all
// fields little-endian uint16, day-of-week included but not used for
// rendering.
type SystemTime struct {
	Year         uint16
	Month        uint16
	DayOfWeek    uint16
	Day          uint16
	Hour         uint16
	Minute       uint16
	Second       uint16
	Milliseconds uint16
}

// DecodeSystemTime reads a 16-byte SYSTEMTIME structure.
func DecodeSystemTime(b []byte) (SystemTime, error) {
	if len(b) < SystemTimeSize {
		return SystemTime{}, fmt.Errorf("systemtime: %w (have %d, need %d)", ErrTruncated, len(b), SystemTimeSize)
	}
	year, _ := CheckedReadU16(b, 0)
	month, _ := CheckedReadU16(b, 2)
	dow, _ := CheckedReadU16(b, 4)
	day, _ := CheckedReadU16(b, 6)
	hour, _ := CheckedReadU16(b, 8)
	minute, _ := CheckedReadU16(b, 10)
	second, _ := CheckedReadU16(b, 12)
	ms, _ := CheckedReadU16(b, 14)
	return SystemTime{
		Year:         year,
		Month:        month,
		DayOfWeek:    dow,
		Day:          day,
		Hour:         hour,
		Minute:       minute,
		Second:       second,
		Milliseconds: ms,
	}, nil
}

// String renders a SYSTEMTIME as the locale-independent "YYYY-MM-DD
// hh:mm:ss" (spec §4.2) — a space separator and no fractional seconds,
// unlike FormatFiletime's ISO-8601 form.
func (s SystemTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		s.Year, s.Month, s.Day, s.Hour, s.Minute, s.Second)
}
