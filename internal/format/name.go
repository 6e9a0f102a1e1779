package format

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseUTF16LEDecimal decodes a NUL-terminated UTF-16LE digit string (spec
// §8 testable property S4: the stream for "1234" decodes to the integer
// 1234) and parses it as an unsigned decimal. It rejects empty input and
// any non-digit code unit before the terminator.
func ParseUTF16LEDecimal(b []byte) (uint64, error) {
	s := decodeUTF16LE(b, escapeNone)
	if s == "" {
		return 0, fmt.Errorf("utf16 decimal: %w (empty)", ErrInvalidData)
	}
	var v uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("utf16 decimal: %w (non-digit %q)", ErrInvalidData, r)
		}
		v = v*10 + uint64(r-'0')
	}
	return v, nil
}

// DecodeNameBlob reads the name-blob convention used by channel, keyword,
// level, opcode, and task descriptors: a 4-byte length (covering itself plus
// the UTF-16LE payload that follows) at nameOffset. length < 4 or an offset
// of 0 both mean "no name". The returned slice is the raw UTF-16LE payload,
// including any trailing NUL pair(s) — callers decode it lazily via
// UTF16LEToUTF8 / UTF16LEToUTF8Escaped.
func DecodeNameBlob(b []byte, nameOffset int) ([]byte, error) {
	if nameOffset == 0 {
		return nil, nil
	}
	length, err := CheckedReadU32(b, nameOffset)
	if err != nil {
		return nil, fmt.Errorf("name blob length: %w", err)
	}
	if length < NameLengthFieldSize {
		return nil, nil
	}
	if length > MaxNameBytes {
		return nil, fmt.Errorf("name blob: %w (length %d)", ErrSanityLimit, length)
	}
	payload, err := CheckedSlice(b, nameOffset+NameLengthFieldSize, int(length)-NameLengthFieldSize)
	if err != nil {
		return nil, fmt.Errorf("name blob payload: %w", err)
	}
	return payload, nil
}

// UTF16LEToUTF8 decodes a UTF-16LE byte stream to UTF-8, stopping at the
// first U+0000 code unit (spec §4.1), with no XML escaping. Used for
// identifiers that are never placed directly into XML text (e.g. diagnostic
// messages).
func UTF16LEToUTF8(b []byte) string {
	return decodeUTF16LE(b, escapeNone)
}

// UTF16LEToUTF8Escaped decodes a UTF-16LE byte stream to UTF-8, XML-escaping
// '&', '<', '>' as it goes (spec §4.1). Single and double quotes pass
// through verbatim in this mode, matching Event Viewer's element-text
// behavior (spec §9 Design Notes, Open Question a).
func UTF16LEToUTF8Escaped(b []byte) string {
	return decodeUTF16LE(b, escapeElementText)
}

// UTF16LEToUTF8AttrEscaped is like UTF16LEToUTF8Escaped but additionally
// escapes '"' as "&quot;" (spec §9 Design Notes, Open Question a: attribute
// values do escape the double quote even though element text does not).
func UTF16LEToUTF8AttrEscaped(b []byte) string {
	return decodeUTF16LE(b, escapeAttrValue)
}

type escapeMode int

const (
	escapeNone escapeMode = iota
	escapeElementText
	escapeAttrValue
)

// decodeUTF16LE is the single streaming pass shared by every caller above:
// sizing and copying share one code path so the two can never drift apart
// (spec §4.1). It reads two bytes at a time, reassembles surrogate pairs per
// RFC 3629, and stops at the first NUL code unit.
func decodeUTF16LE(b []byte, mode escapeMode) string {
	var out strings.Builder
	out.Grow(len(b))
	for i := 0; i+1 < len(b); i += 2 {
		r := rune(b[i]) | rune(b[i+1])<<8
		if r == 0 {
			break
		}
		if r >= 0xD800 && r <= 0xDBFF && i+3 < len(b) {
			r2 := rune(b[i+2]) | rune(b[i+3])<<8
			if r2 >= 0xDC00 && r2 <= 0xDFFF {
				r = 0x10000 + ((r - 0xD800) << 10) + (r2 - 0xDC00)
				i += 2
			}
		}
		writeEscaped(&out, r, mode)
	}
	return out.String()
}

func writeEscaped(out *strings.Builder, r rune, mode escapeMode) {
	switch {
	case r == '&' && mode != escapeNone:
		out.WriteString("&amp;")
	case r == '<' && mode != escapeNone:
		out.WriteString("&lt;")
	case r == '>' && mode != escapeNone:
		out.WriteString("&gt;")
	case r == '"' && mode == escapeAttrValue:
		out.WriteString("&quot;")
	default:
		if r < utf8.RuneSelf {
			out.WriteByte(byte(r))
		} else {
			out.WriteRune(r)
		}
	}
}
