package format

import "testing"

// TestFormatFiletimeGolden covers spec §8 scenarios S2 and S3.
func TestFormatFiletimeGolden(t *testing.T) {
	cases := []struct {
		name  string
		ticks uint64
		want  string
	}{
		{"S3 zero", 0, "1601-01-01T00:00:00.000000000Z"},
		{"S2 nonzero", 133015838806081155, "2022-07-06T12:24:40.608115500Z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatFiletime(tc.ticks); got != tc.want {
				t.Fatalf("FormatFiletime(%d) = %q, want %q", tc.ticks, got, tc.want)
			}
		})
	}
}

// TestParseFiletime is spec §8 Concrete Scenario S2 run in the opposite
// direction: parsing the same ISO-8601 string back into ticks.
func TestParseFiletime(t *testing.T) {
	cases := []struct {
		name  string
		s     string
		ticks uint64
	}{
		{"S3 zero", "1601-01-01T00:00:00.000000000Z", 0},
		{"S2 nonzero", "2022-07-06T12:24:40.608115500Z", 133015838806081155},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFiletime(tc.s)
			if err != nil {
				t.Fatalf("ParseFiletime(%q): %v", tc.s, err)
			}
			if got != tc.ticks {
				t.Fatalf("ParseFiletime(%q) = %d, want %d", tc.s, got, tc.ticks)
			}
		})
	}
}

func TestParseFiletimeRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-date",
		"1600-01-01T00:00:00.000000000Z",    // precedes the FILETIME epoch
		"2022-02-29T00:00:00.000000000Z",    // 2022 isn't a leap year
		"2022-13-01T00:00:00.000000000Z",    // month out of range
		"2022-07-06T24:00:00.000000000Z",    // hour out of range
		"2022-07-06T12:24:40.60811550Z",     // fraction not exactly 9 digits
		"2022-07-06 12:24:40.000000000Z",    // missing 'T' separator
		"2022-07-06T12:24:40.000000000",     // missing trailing 'Z'
	}
	for _, s := range cases {
		if _, err := ParseFiletime(s); err == nil {
			t.Fatalf("ParseFiletime(%q): expected an error", s)
		}
	}
}

// TestFiletimeISORoundTrip is spec §8 Testable Property 2, run against the
// spec's literal vectors, including 2^62 — large enough to overflow the
// int64-nanosecond arithmetic a time.Time-based implementation would use.
func TestFiletimeISORoundTrip(t *testing.T) {
	for _, ticks := range []uint64{0, 1, 1 << 32, 133015838806081155, 1 << 62} {
		iso := FormatFiletime(ticks)
		got, err := ParseFiletime(iso)
		if err != nil {
			t.Fatalf("ParseFiletime(FormatFiletime(%d)=%q): %v", ticks, iso, err)
		}
		if got != ticks {
			t.Fatalf("round trip ticks=%d: FormatFiletime -> %q -> ParseFiletime -> %d", ticks, iso, got)
		}
	}
}

// TestFiletimeTimeRoundTrip covers FiletimeToTime/TimeToFiletime for the
// sub-year-2262 range time.Time itself can represent.
func TestFiletimeTimeRoundTrip(t *testing.T) {
	for _, ticks := range []uint64{0, 1, 100, 133015838806081155, 200000000000000000} {
		tm := FiletimeToTime(ticks)
		got := TimeToFiletime(tm)
		if got != ticks {
			t.Fatalf("round trip ticks=%d: got %d after FiletimeToTime/TimeToFiletime", ticks, got)
		}
	}
}

func TestDecodeSystemTime(t *testing.T) {
	buf := make([]byte, SystemTimeSize)
	// Year=2022, Month=7(July), DayOfWeek=3, Day=6, Hour=12, Minute=24, Second=40, Milliseconds=608
	putU16 := func(off int, v uint16) { buf[off], buf[off+1] = byte(v), byte(v>>8) }
	putU16(0, 2022)
	putU16(2, 7)
	putU16(4, 3)
	putU16(6, 6)
	putU16(8, 12)
	putU16(10, 24)
	putU16(12, 40)
	putU16(14, 608)

	st, err := DecodeSystemTime(buf)
	if err != nil {
		t.Fatalf("DecodeSystemTime: %v", err)
	}
	want := "2022-07-06 12:24:40"
	if got := st.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
