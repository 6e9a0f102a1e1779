// Package binxml implements the reader half of Microsoft's Binary-XML
// token stream (spec §4.6): a compact, typed encoding of an XML document
// that the renderer package walks to produce text. The reader is a strict
// state machine; it never guesses at intent on a malformed stream, failing
// instead with a precisely located error.
package binxml

import "github.com/wevtlib/wevtx/internal/format"

// Kind identifies a Binary-XML token (spec §4.6). The high bit of the
// on-wire prefix byte (0x40) is stripped before mapping to a Kind; it is
// carried separately on Token as AttributesFollow.
type Kind uint8

const (
	KindEndOfFragment        Kind = 0x00
	KindOpenStartElement     Kind = 0x01
	KindCloseStartElement    Kind = 0x02
	KindCloseEmptyElement    Kind = 0x03
	KindEndElement           Kind = 0x04
	KindValue                Kind = 0x05
	KindAttribute            Kind = 0x06
	KindCDATA                Kind = 0x07
	KindCharRef              Kind = 0x08
	KindEntityRef            Kind = 0x09
	KindPITarget             Kind = 0x0A
	KindPIData               Kind = 0x0B
	KindTemplateInstance     Kind = 0x0C
	KindNormalSubstitution   Kind = 0x0D
	KindOptionalSubstitution Kind = 0x0E
	KindFragmentHeader       Kind = 0x0F
)

// attributesFollowFlag is the high bit (0x40) a element-open prefix sets
// to announce that attribute tokens come next (spec §4.6).
const attributesFollowFlag = 0x40

// InlineValue is a value carried directly in the token stream rather than
// referenced by substitution slot — used by KindValue and by the inline
// value array a KindTemplateInstance token supplies to its nested
// template.
type InlineValue struct {
	Kind byte
	Raw  []byte
}

// Token is one node of the parsed Binary-XML tree. Not every field is
// meaningful for every Kind; see the reader for which fields a given Kind
// populates.
type Token struct {
	Kind Kind

	// Element / Attribute / PITarget / EntityRef
	Name string

	// Element
	AttributesFollow bool
	Attributes       []*Token
	Children         []*Token

	// Value (static)
	Value InlineValue

	// CDATA / PIData
	Text string

	// CharRef
	CodePoint rune

	// Normal/Optional substitution
	SlotIndex    uint32
	ExpectedKind byte

	// TemplateInstance
	TemplateGUID format.GUID
	InlineValues []InlineValue
}

// IsSubstitution reports whether t is a normal or optional substitution
// token.
func (t *Token) IsSubstitution() bool {
	return t.Kind == KindNormalSubstitution || t.Kind == KindOptionalSubstitution
}
