package format

import "fmt"

// InputDescriptor declares the type (and, for Map-kind values, the map
// used to translate it) of one substitution slot in a template's
// Binary-XML body (spec §4.4).
type InputDescriptor struct {
	Kind      uint8
	MapID     uint32 // 0 if this slot isn't map-rendered
}

// Template is a decoded template descriptor: a GUID identity, an input
// descriptor table describing each substitution slot's type, and the
// Binary-XML body those substitutions are spliced into (spec §4.4).
type Template struct {
	GUID   GUID
	Inputs []InputDescriptor
	Body   []byte
}

// DecodeTemplate decodes a Template record at off within buf. The
// Binary-XML body is assumed to immediately follow the fixed header and
// run to the end of the declared template size (spec §4.4: "size" covers
// the whole template including its header).
func DecodeTemplate(buf []byte, off int) (Template, error) {
	sig, err := CheckedSlice(buf, off, SignatureSize)
	if err != nil {
		return Template{}, fmt.Errorf("template signature: %w", err)
	}
	if string(sig) != string(TEMPSignature) {
		return Template{}, fmt.Errorf("template signature: %w", ErrSignatureMismatch)
	}
	size, err := CheckedReadU32(buf, off+TemplateSizeOffset)
	if err != nil {
		return Template{}, fmt.Errorf("template size: %w", err)
	}
	if size < TemplateHeaderSize || size > MaxTemplateSize {
		return Template{}, fmt.Errorf("template size: %w (%d)", ErrSanityLimit, size)
	}
	inputCount, err := CheckedReadU32(buf, off+TemplateInputCountOffset)
	if err != nil {
		return Template{}, fmt.Errorf("template input count: %w", err)
	}
	if inputCount > MaxSubstitutions {
		return Template{}, fmt.Errorf("template input count: %w (%d)", ErrSanityLimit, inputCount)
	}
	inputTableOff, err := CheckedReadU32(buf, off+TemplateInputTableOffset)
	if err != nil {
		return Template{}, fmt.Errorf("template input table offset: %w", err)
	}
	guid, err := CheckedReadGUID(buf, off+TemplateGUIDOffset)
	if err != nil {
		return Template{}, fmt.Errorf("template guid: %w", err)
	}

	inputs := make([]InputDescriptor, 0, inputCount)
	for i := uint32(0); i < inputCount; i++ {
		recOff := int(inputTableOff) + int(i)*InputDescRecordSize
		kind, err := CheckedReadU8(buf, recOff+InputDescTypeOffset)
		if err != nil {
			return Template{}, fmt.Errorf("template %s input %d kind: %w", guid, i, err)
		}
		mapID, err := CheckedReadU32(buf, recOff+InputDescValueMapIDOff)
		if err != nil {
			return Template{}, fmt.Errorf("template %s input %d map id: %w", guid, i, err)
		}
		inputs = append(inputs, InputDescriptor{Kind: kind, MapID: mapID})
	}

	body, err := CheckedSlice(buf, off+TemplateHeaderSize, int(size)-TemplateHeaderSize)
	if err != nil {
		return Template{}, fmt.Errorf("template %s body: %w", guid, err)
	}
	return Template{GUID: guid, Inputs: inputs, Body: body}, nil
}
