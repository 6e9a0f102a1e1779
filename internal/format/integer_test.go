package format

import (
	"strconv"
	"testing"
)

// TestIntegerDecimalRoundTrip is spec §8's integer decimal round-trip
// property: formatting then reparsing a signed or unsigned value of a
// given declared width reproduces the original value.
func TestIntegerDecimalRoundTrip(t *testing.T) {
	widths := []int{8, 16, 32, 64}
	signedSamples := []int64{0, 1, -1, 127, -128, 32767, -32768, 2147483647, -2147483648, -9223372036854775808}
	for _, w := range widths {
		for _, v := range signedSamples {
			bits := uint64(v)
			s, err := FormatSignedDecimal(bits, w)
			if err != nil {
				t.Fatalf("FormatSignedDecimal(width=%d): %v", w, err)
			}
			parsed, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				t.Fatalf("ParseInt(%q): %v", s, err)
			}
			want, _ := signExtend(bits, w)
			if parsed != want {
				t.Fatalf("width=%d bits=%#x: formatted %q parses back to %d, want %d", w, bits, s, parsed, want)
			}
		}
	}

	unsignedSamples := []uint64{0, 1, 255, 65535, 4294967295, 18446744073709551615}
	for _, w := range widths {
		for _, v := range unsignedSamples {
			s, err := FormatUnsignedDecimal(v, w)
			if err != nil {
				t.Fatalf("FormatUnsignedDecimal(width=%d): %v", w, err)
			}
			parsed, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				t.Fatalf("ParseUint(%q): %v", s, err)
			}
			want, _ := truncateUnsigned(v, w)
			if parsed != want {
				t.Fatalf("width=%d v=%#x: formatted %q parses back to %d, want %d", w, v, s, parsed, want)
			}
		}
	}
}

func TestFormatHex(t *testing.T) {
	cases := []struct {
		bits  uint64
		width int
		want  string
	}{
		{0x1A, 32, "0x0000001a"},
		{0x1A, 64, "0x000000000000001a"},
		{0xFFFFFFFF, 32, "0xffffffff"},
	}
	for _, tc := range cases {
		got, err := FormatHex(tc.bits, tc.width)
		if err != nil {
			t.Fatalf("FormatHex: %v", err)
		}
		if got != tc.want {
			t.Fatalf("FormatHex(%#x, %d) = %q, want %q", tc.bits, tc.width, got, tc.want)
		}
	}
}
