package types

import "github.com/wevtlib/wevtx/internal/render"

// Value is one typed substitution slot's content (spec §3 "Value"),
// re-exported from internal/render so callers assembling a substitution
// array never need to import an internal package.
type Value = render.Value

// ValueKind is the closed enumeration of substitution value kinds (spec
// §4.8).
type ValueKind = render.ValueKind

// Value kind constants, re-exported from internal/render for public API use
// when building a substitution array by hand (see Store.Render).
const (
	KindNull       = render.KindNull
	KindString     = render.KindString
	KindAnsiString = render.KindAnsiString
	KindInt8       = render.KindInt8
	KindUInt8      = render.KindUInt8
	KindInt16      = render.KindInt16
	KindUInt16     = render.KindUInt16
	KindInt32      = render.KindInt32
	KindUInt32     = render.KindUInt32
	KindInt64      = render.KindInt64
	KindUInt64     = render.KindUInt64
	KindFloat32    = render.KindFloat32
	KindFloat64    = render.KindFloat64
	KindBoolean    = render.KindBoolean
	KindBinary     = render.KindBinary
	KindGuid       = render.KindGuid
	KindSize       = render.KindSize
	KindFileTime   = render.KindFileTime
	KindSystemTime = render.KindSystemTime
	KindSid        = render.KindSid
	KindHexInt32   = render.KindHexInt32
	KindHexInt64   = render.KindHexInt64
	KindBinXml     = render.KindBinXml
)
