package format

import (
	"fmt"
	"strconv"
)

// FormatSignedDecimal renders a signed integer whose sign bit is extracted
// from the declared bit width, not the uint64 container width (spec §4.2):
// the caller always passes the raw bits widened to uint64, plus the intended
// bit width.
func FormatSignedDecimal(bits uint64, width int) (string, error) {
	v, err := signExtend(bits, width)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

// FormatUnsignedDecimal renders an unsigned integer of the given bit width.
func FormatUnsignedDecimal(bits uint64, width int) (string, error) {
	v, err := truncateUnsigned(bits, width)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(v, 10), nil
}

// FormatHex renders bits as "0x" followed by lowercase hex, zero-padded to
// the declared width (spec §4.2: width in {32,64}).
func FormatHex(bits uint64, width int) (string, error) {
	switch width {
	case 32:
		return fmt.Sprintf("0x%08x", uint32(bits)), nil
	case 64:
		return fmt.Sprintf("0x%016x", bits), nil
	default:
		return "", fmt.Errorf("hex format: %w (width %d)", ErrUnsupported, width)
	}
}

func signExtend(bits uint64, width int) (int64, error) {
	switch width {
	case 8:
		return int64(int8(bits)), nil
	case 16:
		return int64(int16(bits)), nil
	case 32:
		return int64(int32(bits)), nil
	case 64:
		return int64(bits), nil
	default:
		return 0, fmt.Errorf("signed decimal: %w (width %d)", ErrUnsupported, width)
	}
}

func truncateUnsigned(bits uint64, width int) (uint64, error) {
	switch width {
	case 8:
		return uint64(uint8(bits)), nil
	case 16:
		return uint64(uint16(bits)), nil
	case 32:
		return uint64(uint32(bits)), nil
	case 64:
		return bits, nil
	default:
		return 0, fmt.Errorf("unsigned decimal: %w (width %d)", ErrUnsupported, width)
	}
}
