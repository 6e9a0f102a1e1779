package format

import "testing"

// TestFormatFloat32Canonical covers spec §8 property 4 (canonical float
// forms): ordinary values format as "[-]d.dddddddde[+-]nnn".
func TestFormatFloat32Canonical(t *testing.T) {
	cases := []struct {
		bits uint32
		want string
	}{
		{0x3F800000, "1.0000000e+000"},  // 1.0
		{0xBF800000, "-1.0000000e+000"}, // -1.0
		{0x40000000, "2.0000000e+000"},  // 2.0
		{0x42C80000, "1.0000000e+002"},  // 100.0
		{0x7F800000, "Inf"},
		{0xFF800000, "Inf"}, // Inf is sign-agnostic per the teacher's original routine
		{0xFFC00000, "Ind"}, // negative quiet NaN
		{0x7FC00000, "NaN"}, // positive quiet NaN
		{0x7FA00001, "NaN"}, // signaling NaN
	}
	for _, tc := range cases {
		if got := FormatFloat32(tc.bits); got != tc.want {
			t.Errorf("FormatFloat32(%#08x) = %q, want %q", tc.bits, got, tc.want)
		}
	}
}

func TestFormatFloat64Canonical(t *testing.T) {
	cases := []struct {
		bits uint64
		want string
	}{
		{0x3FF0000000000000, "1.0000000e+000"}, // 1.0
		{0x7FF0000000000000, "Inf"},
		{0xFFF8000000000000, "Ind"},
		{0x7FF8000000000000, "NaN"},
	}
	for _, tc := range cases {
		if got := FormatFloat64(tc.bits); got != tc.want {
			t.Errorf("FormatFloat64(%#016x) = %q, want %q", tc.bits, got, tc.want)
		}
	}
}
