package binxml

import (
	"fmt"

	"github.com/wevtlib/wevtx/internal/format"
)

// reader walks a Binary-XML byte stream producing a Token tree (spec
// §4.6). It owns a Cursor over the instance bytes and a nameCache scoped
// to this single decode pass (spec §5: "the name-offset cache inside the
// reader is scoped to a single decode pass and never shared").
type reader struct {
	cur   *format.Cursor
	names *nameCache
	depth int
}

// Read decodes a complete Binary-XML fragment: an optional fragment
// header or leading template instance, exactly one root element, then
// end-of-fragment (spec §4.6). It returns the root element token; a
// leading template-instance, if present, is returned as the root instead
// and its own root element is not also returned — callers distinguish by
// inspecting Root.Kind.
func Read(buf []byte) (*Token, error) {
	r := &reader{cur: format.NewCursor(buf), names: newNameCache(buf)}
	prefix, err := r.cur.PeekU8()
	if err != nil {
		return nil, fmt.Errorf("binxml: %w", err)
	}
	if Kind(prefix) == KindFragmentHeader {
		if _, err := r.readFragmentHeader(); err != nil {
			return nil, err
		}
	}
	root, err := r.readNode()
	if err != nil {
		return nil, err
	}
	if root.Kind != KindTemplateInstance {
		prefix, err := r.cur.U8()
		if err != nil {
			return nil, fmt.Errorf("binxml: expected end-of-fragment: %w", err)
		}
		if Kind(prefix) != KindEndOfFragment {
			return nil, fmt.Errorf("binxml at %d: %w (expected end-of-fragment, got 0x%02x)", r.cur.Pos()-1, format.ErrInvalidData, prefix)
		}
	}
	return root, nil
}

func (r *reader) readFragmentHeader() (*Token, error) {
	if _, err := r.cur.U8(); err != nil { // prefix
		return nil, fmt.Errorf("binxml fragment header: %w", err)
	}
	if _, err := r.cur.Take(3); err != nil { // version, major, minor
		return nil, fmt.Errorf("binxml fragment header: %w", err)
	}
	return &Token{Kind: KindFragmentHeader}, nil
}

// readNode reads one top-level node: a template instance or an element
// subtree, whichever the next prefix byte announces.
func (r *reader) readNode() (*Token, error) {
	prefix, err := r.cur.PeekU8()
	if err != nil {
		return nil, fmt.Errorf("binxml: %w", err)
	}
	if Kind(prefix) == KindTemplateInstance {
		return r.readTemplateInstance()
	}
	return r.readElement()
}

func (r *reader) readTemplateInstance() (*Token, error) {
	if _, err := r.cur.U8(); err != nil {
		return nil, fmt.Errorf("binxml template instance: %w", err)
	}
	guid, err := r.cur.GUIDVal()
	if err != nil {
		return nil, fmt.Errorf("binxml template instance guid: %w", err)
	}
	count, err := r.cur.U32()
	if err != nil {
		return nil, fmt.Errorf("binxml template instance value count: %w", err)
	}
	if count > format.MaxSubstitutions {
		return nil, fmt.Errorf("binxml template instance: %w (%d values)", format.ErrSanityLimit, count)
	}
	values := make([]InlineValue, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := r.readInlineValue()
		if err != nil {
			return nil, fmt.Errorf("binxml template instance value %d: %w", i, err)
		}
		values = append(values, v)
	}
	return &Token{Kind: KindTemplateInstance, TemplateGUID: guid, InlineValues: values}, nil
}

func (r *reader) readInlineValue() (InlineValue, error) {
	kind, err := r.cur.U8()
	if err != nil {
		return InlineValue{}, err
	}
	length, err := r.cur.U32()
	if err != nil {
		return InlineValue{}, err
	}
	raw, err := r.cur.Take(int(length))
	if err != nil {
		return InlineValue{}, err
	}
	return InlineValue{Kind: kind, Raw: raw}, nil
}

// readElement reads an element-open token, its attributes, and its
// content, per the grammar in spec §4.6: ExpectFragmentStart (already
// handled by the caller) -> InElementOpen -> [InAttributes] -> InContent
// -> end-element or close-empty-element.
func (r *reader) readElement() (*Token, error) {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > format.MaxBinXMLDepth {
		return nil, fmt.Errorf("binxml at %d: %w (depth %d)", r.cur.Pos(), format.ErrSanityLimit, r.depth)
	}

	prefixPos := r.cur.Pos()
	prefix, err := r.cur.U8()
	if err != nil {
		return nil, fmt.Errorf("binxml element open: %w", err)
	}
	if Kind(prefix&^attributesFollowFlag) != KindOpenStartElement {
		return nil, fmt.Errorf("binxml at %d: %w (expected open-start-element, got 0x%02x)", prefixPos, format.ErrInvalidData, prefix)
	}
	attrsFollow := prefix&attributesFollowFlag != 0

	nameOff, err := r.cur.U32()
	if err != nil {
		return nil, fmt.Errorf("binxml element name offset: %w", err)
	}
	name, err := r.names.name(nameOff)
	if err != nil {
		return nil, fmt.Errorf("binxml element name: %w", err)
	}

	elem := &Token{Kind: KindOpenStartElement, Name: name, AttributesFollow: attrsFollow}

	if attrsFollow {
		for {
			p, err := r.cur.PeekU8()
			if err != nil {
				return nil, fmt.Errorf("binxml attributes: %w", err)
			}
			if Kind(p) != KindAttribute {
				break
			}
			attr, err := r.readAttribute()
			if err != nil {
				return nil, err
			}
			elem.Attributes = append(elem.Attributes, attr)
		}
	}

	closePos := r.cur.Pos()
	closePrefix, err := r.cur.U8()
	if err != nil {
		return nil, fmt.Errorf("binxml element close: %w", err)
	}
	switch Kind(closePrefix) {
	case KindCloseEmptyElement:
		return elem, nil
	case KindCloseStartElement:
		// fall through to content
	default:
		return nil, fmt.Errorf("binxml at %d: %w (expected close-start or close-empty, got 0x%02x)", closePos, format.ErrInvalidData, closePrefix)
	}

	for {
		p, err := r.cur.PeekU8()
		if err != nil {
			return nil, fmt.Errorf("binxml content: %w", err)
		}
		if Kind(p) == KindEndElement {
			_, _ = r.cur.U8()
			return elem, nil
		}
		child, err := r.readContentNode()
		if err != nil {
			return nil, err
		}
		elem.Children = append(elem.Children, child)
	}
}

func (r *reader) readAttribute() (*Token, error) {
	if _, err := r.cur.U8(); err != nil {
		return nil, fmt.Errorf("binxml attribute: %w", err)
	}
	nameOff, err := r.cur.U32()
	if err != nil {
		return nil, fmt.Errorf("binxml attribute name offset: %w", err)
	}
	name, err := r.names.name(nameOff)
	if err != nil {
		return nil, fmt.Errorf("binxml attribute name: %w", err)
	}
	valueNode, err := r.readContentNode()
	if err != nil {
		return nil, fmt.Errorf("binxml attribute %q value: %w", name, err)
	}
	return &Token{Kind: KindAttribute, Name: name, Children: []*Token{valueNode}}, nil
}

// readContentNode reads one node valid inside element content or as an
// attribute's value: static value, substitution, CDATA, char/entity
// reference, processing instruction, nested element, or template
// instance.
func (r *reader) readContentNode() (*Token, error) {
	pos := r.cur.Pos()
	prefix, err := r.cur.PeekU8()
	if err != nil {
		return nil, fmt.Errorf("binxml content: %w", err)
	}
	switch Kind(prefix &^ attributesFollowFlag) {
	case KindValue:
		_, _ = r.cur.U8()
		v, err := r.readInlineValue()
		if err != nil {
			return nil, fmt.Errorf("binxml value: %w", err)
		}
		return &Token{Kind: KindValue, Value: v}, nil

	case KindNormalSubstitution, KindOptionalSubstitution:
		k := Kind(prefix)
		_, _ = r.cur.U8()
		slot, err := r.cur.U32()
		if err != nil {
			return nil, fmt.Errorf("binxml substitution slot: %w", err)
		}
		expected, err := r.cur.U8()
		if err != nil {
			return nil, fmt.Errorf("binxml substitution type: %w", err)
		}
		return &Token{Kind: k, SlotIndex: slot, ExpectedKind: expected}, nil

	case KindCDATA:
		_, _ = r.cur.U8()
		text, err := r.readUTF16Text()
		if err != nil {
			return nil, fmt.Errorf("binxml cdata: %w", err)
		}
		return &Token{Kind: KindCDATA, Text: text}, nil

	case KindCharRef:
		_, _ = r.cur.U8()
		cp, err := r.cur.U32()
		if err != nil {
			return nil, fmt.Errorf("binxml char reference: %w", err)
		}
		return &Token{Kind: KindCharRef, CodePoint: rune(cp)}, nil

	case KindEntityRef:
		_, _ = r.cur.U8()
		nameOff, err := r.cur.U32()
		if err != nil {
			return nil, fmt.Errorf("binxml entity reference: %w", err)
		}
		name, err := r.names.name(nameOff)
		if err != nil {
			return nil, fmt.Errorf("binxml entity reference name: %w", err)
		}
		return &Token{Kind: KindEntityRef, Name: name}, nil

	case KindPITarget:
		_, _ = r.cur.U8()
		nameOff, err := r.cur.U32()
		if err != nil {
			return nil, fmt.Errorf("binxml pi target: %w", err)
		}
		name, err := r.names.name(nameOff)
		if err != nil {
			return nil, fmt.Errorf("binxml pi target name: %w", err)
		}
		dataPrefix, err := r.cur.PeekU8()
		if err != nil {
			return nil, fmt.Errorf("binxml pi data: %w", err)
		}
		if Kind(dataPrefix) != KindPIData {
			return nil, fmt.Errorf("binxml at %d: %w (expected pi-data)", r.cur.Pos(), format.ErrInvalidData)
		}
		_, _ = r.cur.U8()
		text, err := r.readUTF16Text()
		if err != nil {
			return nil, fmt.Errorf("binxml pi data: %w", err)
		}
		return &Token{Kind: KindPITarget, Name: name, Text: text}, nil

	case KindOpenStartElement:
		return r.readElement()

	case KindTemplateInstance:
		return r.readTemplateInstance()

	default:
		return nil, fmt.Errorf("binxml at %d: %w (unexpected token 0x%02x)", pos, format.ErrInvalidData, prefix)
	}
}

func (r *reader) readUTF16Text() (string, error) {
	length, err := r.cur.U32()
	if err != nil {
		return "", err
	}
	payload, err := r.cur.Take(int(length))
	if err != nil {
		return "", err
	}
	return format.UTF16LEToUTF8(payload), nil
}
