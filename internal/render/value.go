// Package render walks a Binary-XML token tree (internal/binxml) against
// a typed value array and a provider's descriptor graph, producing
// well-formed XML text (spec §4.7).
package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/wevtlib/wevtx/internal/binxml"
	"github.com/wevtlib/wevtx/internal/format"
)

// ValueKind is the closed enumeration of substitution value kinds (spec
// §4.8): low 7 bits of the wire type byte, with 0x80 flagging "array".
type ValueKind byte

const (
	KindNull       ValueKind = 0x00
	KindString     ValueKind = 0x01
	KindAnsiString ValueKind = 0x02
	KindInt8       ValueKind = 0x03
	KindUInt8      ValueKind = 0x04
	KindInt16      ValueKind = 0x05
	KindUInt16     ValueKind = 0x06
	KindInt32      ValueKind = 0x07
	KindUInt32     ValueKind = 0x08
	KindInt64      ValueKind = 0x09
	KindUInt64     ValueKind = 0x0A
	KindFloat32    ValueKind = 0x0B
	KindFloat64    ValueKind = 0x0C
	KindBoolean    ValueKind = 0x0D
	KindBinary     ValueKind = 0x0E
	KindGuid       ValueKind = 0x0F
	KindSize       ValueKind = 0x10
	KindFileTime   ValueKind = 0x11
	KindSystemTime ValueKind = 0x12
	KindSid        ValueKind = 0x13
	KindHexInt32   ValueKind = 0x14
	KindHexInt64   ValueKind = 0x15
	KindBinXml     ValueKind = 0x21

	arrayFlag ValueKind = 0x80
)

// baseKind strips the array flag.
func (k ValueKind) baseKind() ValueKind { return k &^ arrayFlag }

// isArray reports whether k has the array flag set.
func (k ValueKind) isArray() bool { return k&arrayFlag != 0 }

// Value is one typed substitution slot's content (spec §3 "Value"): a
// kind tag plus the raw little-endian bytes backing it. Scalar formatting
// is deferred until render time so a value that is never referenced
// never pays the formatting cost.
type Value struct {
	Kind ValueKind
	Raw  []byte
}

// IsNull reports whether this slot is absent (spec §4.7: an absent
// optional substitution causes the renderer to skip its surrounding
// element rather than emit one).
func (v Value) IsNull() bool { return v.Kind.baseKind() == KindNull }

// formatScalar renders one non-array, non-BinXml value as element text
// (escaped) — the common path for both element content and, via a
// second call with attribute escaping, attribute values.
func formatScalar(kind ValueKind, raw []byte, attr bool) (string, error) {
	switch kind {
	case KindNull:
		return "", nil
	case KindString:
		if attr {
			return format.UTF16LEToUTF8AttrEscaped(raw), nil
		}
		return format.UTF16LEToUTF8Escaped(raw), nil
	case KindAnsiString:
		return escapeASCII(raw, attr), nil
	case KindInt8:
		return formatSignedFromRaw(raw, 8)
	case KindInt16:
		return formatSignedFromRaw(raw, 16)
	case KindInt32:
		return formatSignedFromRaw(raw, 32)
	case KindInt64:
		return formatSignedFromRaw(raw, 64)
	case KindUInt8:
		return formatUnsignedFromRaw(raw, 8)
	case KindUInt16:
		return formatUnsignedFromRaw(raw, 16)
	case KindUInt32:
		return formatUnsignedFromRaw(raw, 32)
	case KindUInt64:
		return formatUnsignedFromRaw(raw, 64)
	case KindFloat32:
		if len(raw) < 4 {
			return "", fmt.Errorf("float32 value: %w", format.ErrTruncated)
		}
		return format.FormatFloat32(uint32(widen(raw[:4]))), nil
	case KindFloat64:
		if len(raw) < 8 {
			return "", fmt.Errorf("float64 value: %w", format.ErrTruncated)
		}
		return format.FormatFloat64(widen(raw[:8])), nil
	case KindBoolean:
		if len(raw) < 4 {
			return "", fmt.Errorf("bool value: %w", format.ErrTruncated)
		}
		if widen(raw[:4]) != 0 {
			return "true", nil
		}
		return "false", nil
	case KindBinary:
		return fmt.Sprintf("%X", raw), nil
	case KindGuid:
		var g format.GUID
		copy(g[:], raw)
		return g.String(), nil
	case KindSize:
		if len(raw) < 8 {
			return "", fmt.Errorf("size value: %w", format.ErrTruncated)
		}
		return format.FormatSize(widen(raw[:8])), nil
	case KindFileTime:
		if len(raw) < 8 {
			return "", fmt.Errorf("filetime value: %w", format.ErrTruncated)
		}
		return format.FormatFiletime(widen(raw[:8])), nil
	case KindSystemTime:
		st, err := format.DecodeSystemTime(raw)
		if err != nil {
			return "", err
		}
		return st.String(), nil
	case KindSid:
		sid, err := format.DecodeSID(raw)
		if err != nil {
			return "", err
		}
		return sid.String(), nil
	case KindHexInt32:
		if len(raw) < 4 {
			return "", fmt.Errorf("hexint32 value: %w", format.ErrTruncated)
		}
		return format.FormatHex(widen(raw[:4]), 32)
	case KindHexInt64:
		if len(raw) < 8 {
			return "", fmt.Errorf("hexint64 value: %w", format.ErrTruncated)
		}
		return format.FormatHex(widen(raw[:8]), 64)
	default:
		return "", fmt.Errorf("value kind 0x%02x: %w", kind, format.ErrUnsupported)
	}
}

func formatSignedFromRaw(raw []byte, width int) (string, error) {
	n := width / 8
	if len(raw) < n {
		return "", fmt.Errorf("int%d value: %w", width, format.ErrTruncated)
	}
	return format.FormatSignedDecimal(widen(raw[:n]), width)
}

func formatUnsignedFromRaw(raw []byte, width int) (string, error) {
	n := width / 8
	if len(raw) < n {
		return "", fmt.Errorf("uint%d value: %w", width, format.ErrTruncated)
	}
	return format.FormatUnsignedDecimal(widen(raw[:n]), width)
}

// widen reads up to 8 little-endian bytes of raw into a uint64, matching
// the narrower formatters' expectation that the caller widens before
// calling (spec §4.2: sign/width is declared by the caller, not inferred
// from the container).
func widen(raw []byte) uint64 {
	var v uint64
	for i := len(raw) - 1; i >= 0; i-- {
		v = v<<8 | uint64(raw[i])
	}
	return v
}

// escapeASCII decodes an AnsiString value (spec §4.8 kind 0x02): a single-
// byte-per-character string in the Windows-1252 codepage, not plain ASCII —
// bytes 0x80-0xFF carry real characters (curly quotes, accented letters)
// that a bare ASCII cast would mangle. Grounded on hivekit's
// DecodeValueName, which decodes REG_SZ 8-bit names the same way.
func escapeASCII(raw []byte, attr bool) string {
	if i := bytesIndexZero(raw); i >= 0 {
		raw = raw[:i]
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw // malformed codepage byte: fall back to a literal copy
	}
	var out strings.Builder
	out.Grow(len(decoded))
	for _, r := range string(decoded) {
		switch {
		case r == '&':
			out.WriteString("&amp;")
		case r == '<':
			out.WriteString("&lt;")
		case r == '>':
			out.WriteString("&gt;")
		case r == '"' && attr:
			out.WriteString("&quot;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func bytesIndexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

// binXmlSubtree decodes a BinXml-kind value's embedded token stream,
// used by the renderer for the nested sub-element case (spec §4.7).
func binXmlSubtree(raw []byte) (*binxml.Token, error) {
	return binxml.Read(raw)
}
