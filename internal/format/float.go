package format

import "math"

// FormatFloat32 renders a 32-bit IEEE-754 value per spec §4.2 / §8 property 4:
// infinity prints "Inf", a negative quiet NaN prints "Ind" (Event Viewer's
// "indeterminate" convention), any other NaN prints "NaN", and ordinary
// values print as "[-]d.dddddddde[+-]nnn" (exactly 7 fraction digits, 3
// exponent digits, round-half-up on the 8th fraction digit).
//
// The decimal exponent is computed by repeated mantissa normalization in
// base 10, not by formatting through fmt/strconv — ported from
// libfwevt_float32_copy_to_utf8_string_with_index, which deliberately avoids
// any platform printf so the digit sequence is identical across platforms.
func FormatFloat32(bits uint32) string {
	negative := bits>>31 != 0
	magnitude := bits &^ (1 << 31)

	switch {
	case magnitude == 0x7f800000:
		return "Inf"
	case negative && magnitude == 0x7fc00000:
		return "Ind"
	case magnitude >= 0x7f800001 && magnitude <= 0x7fffffff:
		return "NaN"
	}

	var exponent2 int
	var value float64
	if magnitude != 0 {
		value = float64(math.Float32frombits(magnitude))
		biased := int(magnitude >> 23)
		if biased == 0 {
			exponent2 = -126
		} else {
			exponent2 = biased - 127
		}
	}
	return formatFloatGeneral(negative, value, exponent2)
}

// FormatFloat64 is FormatFloat32's 64-bit counterpart: 11-bit biased
// exponent (bias 1023), 52-bit mantissa.
func FormatFloat64(bits uint64) string {
	negative := bits>>63 != 0
	magnitude := bits &^ (1 << 63)

	switch {
	case magnitude == 0x7ff0000000000000:
		return "Inf"
	case negative && magnitude == 0x7ff8000000000000:
		return "Ind"
	case magnitude >= 0x7ff0000000000001 && magnitude <= 0x7fffffffffffffff:
		return "NaN"
	}

	var exponent2 int
	var value float64
	if magnitude != 0 {
		value = math.Float64frombits(magnitude)
		biased := int(magnitude >> 52)
		if biased == 0 {
			exponent2 = -1022
		} else {
			exponent2 = biased - 1023
		}
	}
	return formatFloatGeneral(negative, value, exponent2)
}

// formatFloatGeneral implements the shared base-10 normalization walk used
// by both widths once special cases are ruled out.
func formatFloatGeneral(negative bool, value float64, exponent2 int) string {
	negExp := exponent2 < 0
	if negExp {
		exponent2 = -exponent2
	}

	exponentValue := 1.0
	exponent10 := 0
	for exponent2 > 0 {
		exponentValue *= 2
		exponent2--
		if exponentValue >= 10.0 {
			exponentValue /= 10.0
			exponent10++
			if negExp {
				value *= 10.0
			} else {
				value /= 10.0
			}
		}
	}
	if value != 0.0 {
		for value < 1.0 || value >= 10.0 {
			exponent10++
			if negExp {
				value *= 10
			} else {
				value /= 10
			}
		}
	}

	var fraction uint32
	for i := 0; i < 8; i++ {
		fraction *= 10
		digit := uint32(value)
		fraction += digit
		value -= float64(digit)
		value *= 10.0
	}
	if value >= 5.0 {
		fraction++
	}

	out := make([]byte, 0, 16)
	if negative {
		out = append(out, '-')
	}
	divider := uint32(10000000)
	for i := 0; i < 8; i++ {
		out = append(out, '0'+byte(fraction/divider))
		if i == 0 {
			out = append(out, '.')
		}
		fraction %= divider
		divider /= 10
	}
	out = append(out, 'e')
	if negExp {
		out = append(out, '-')
	} else {
		out = append(out, '+')
	}
	edivider := 100
	for i := 0; i < 3; i++ {
		out = append(out, '0'+byte(exponent10/edivider))
		exponent10 %= edivider
		edivider /= 10
	}
	return string(out)
}
