package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wevtlib/wevtx/internal/binxml"
	"github.com/wevtlib/wevtx/internal/format"
)

// wildcardKind is the expected-type byte a substitution token uses to
// mean "accept any value kind" (spec §4.7's "or is the wildcard any").
// spec.md leaves the wildcard's wire value unspecified; 0xFF is reserved
// for it here since it falls outside the closed kind enumeration in §4.8.
const wildcardKind byte = 0xFF

// TemplateResolver looks up a template by GUID, used for the nested
// template-instance case (spec §4.7 "Template instance: reads an inline
// template reference ... by GUID to the provider store").
type TemplateResolver interface {
	ResolveTemplate(guid format.GUID) (*format.Template, bool)
}

// Options configures a render pass.
type Options struct {
	// Abort, if non-nil, is polled once per emitted node (spec §5:
	// cooperative cancellation). A true return aborts with
	// ErrAbortRequested and discards partial output.
	Abort func() bool

	// Indent, off by default, inserts a newline and one tab per nesting
	// level between sibling elements. Additive formatting sugar only: it
	// never changes which elements, attributes, or text are produced.
	Indent bool
}

// ErrAbortRequested is returned when Options.Abort reports true mid-render
// (spec §7 Runtime::AbortRequested). It is distinct from every
// internal/format sentinel so callers can distinguish a caller-requested
// cancellation from any flavor of malformed input.
var ErrAbortRequested = errors.New("render: aborted by caller")

type renderer struct {
	resolve TemplateResolver
	abort   func() bool
	indent  bool
	depth   int
}

// Render walks root against values, producing well-formed XML text (spec
// §4.7). root is normally an element subtree; if it is itself a
// template-instance token (a leading one in the fragment, rather than one
// nested inside content), it is resolved and rendered transparently.
func Render(root *binxml.Token, values []Value, resolve TemplateResolver, opts Options) (string, error) {
	r := &renderer{resolve: resolve, abort: opts.Abort, indent: opts.Indent}
	var sb strings.Builder
	if err := r.renderNode(&sb, root, values); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *renderer) checkAbort() error {
	if r.abort != nil && r.abort() {
		return ErrAbortRequested
	}
	return nil
}

func (r *renderer) renderNode(sb *strings.Builder, tok *binxml.Token, values []Value) error {
	if err := r.checkAbort(); err != nil {
		return err
	}
	switch tok.Kind {
	case binxml.KindTemplateInstance:
		return r.renderTemplateInstance(sb, tok)
	case binxml.KindOpenStartElement:
		return r.renderElement(sb, tok, values)
	case binxml.KindValue:
		s, err := formatScalar(ValueKind(tok.Value.Kind), tok.Value.Raw, false)
		if err != nil {
			return err
		}
		sb.WriteString(s)
		return nil
	case binxml.KindCDATA:
		sb.WriteString("<![CDATA[")
		sb.WriteString(tok.Text)
		sb.WriteString("]]>")
		return nil
	case binxml.KindCharRef:
		fmt.Fprintf(sb, "&#%d;", tok.CodePoint)
		return nil
	case binxml.KindEntityRef:
		fmt.Fprintf(sb, "&%s;", tok.Name)
		return nil
	case binxml.KindPITarget:
		fmt.Fprintf(sb, "<?%s %s?>", tok.Name, tok.Text)
		return nil
	case binxml.KindNormalSubstitution, binxml.KindOptionalSubstitution:
		s, _, err := r.resolveSubstitutionText(tok, values)
		if err != nil {
			return err
		}
		sb.WriteString(s)
		return nil
	default:
		return fmt.Errorf("render: %w (unexpected token kind 0x%02x)", format.ErrUnsupported, tok.Kind)
	}
}

// renderElement implements spec §4.7's Element case, including the two
// special behaviors the spec calls out when an element's entire content
// is a single substitution token: optional-and-absent skips the element,
// and an array-typed value repeats the element once per entry instead of
// once with array-joined content.
func (r *renderer) renderElement(sb *strings.Builder, tok *binxml.Token, values []Value) error {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > format.MaxBinXMLDepth {
		return fmt.Errorf("render: %w (depth %d)", format.ErrSanityLimit, r.depth)
	}

	if len(tok.Children) == 1 && tok.Children[0].IsSubstitution() {
		sub := tok.Children[0]
		slot, ok := slotValue(sub, values)
		if !ok {
			return fmt.Errorf("render: substitution slot %d: %w", sub.SlotIndex, format.ErrValueMismatch)
		}
		if sub.Kind == binxml.KindOptionalSubstitution && slot.IsNull() {
			return nil // spec §4.7: skip the surrounding element entirely
		}
		if slot.Kind.isArray() {
			return r.renderArrayElement(sb, tok, slot)
		}
	}

	fmt.Fprintf(sb, "<%s", xmlEscapeName(tok.Name))
	for _, attr := range tok.Attributes {
		if err := r.renderAttribute(sb, attr, values); err != nil {
			return err
		}
	}
	if len(tok.Children) == 0 {
		sb.WriteString("/>")
		return nil
	}
	sb.WriteByte('>')
	pretty := r.indent && hasElementSibling(tok.Children)
	for _, child := range tok.Children {
		if pretty && child.Kind == binxml.KindOpenStartElement {
			r.writeIndent(sb, r.depth)
		}
		if err := r.renderNode(sb, child, values); err != nil {
			return err
		}
	}
	if pretty {
		r.writeIndent(sb, r.depth-1)
	}
	fmt.Fprintf(sb, "</%s>", xmlEscapeName(tok.Name))
	return nil
}

// hasElementSibling reports whether any of children is itself an element,
// the signal renderElement uses to decide whether indentation applies —
// a run of plain text/value/substitution children stays on one line.
func hasElementSibling(children []*binxml.Token) bool {
	for _, c := range children {
		if c.Kind == binxml.KindOpenStartElement {
			return true
		}
	}
	return false
}

func (r *renderer) writeIndent(sb *strings.Builder, depth int) {
	sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		sb.WriteByte('\t')
	}
}

func (r *renderer) renderArrayElement(sb *strings.Builder, tok *binxml.Token, slot Value) error {
	entries, err := splitArrayElements(slot)
	if err != nil {
		return err
	}
	for _, raw := range entries {
		text, err := formatScalar(slot.Kind.baseKind(), raw, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "<%s>%s</%s>", xmlEscapeName(tok.Name), text, xmlEscapeName(tok.Name))
	}
	return nil
}

func (r *renderer) renderAttribute(sb *strings.Builder, attr *binxml.Token, values []Value) error {
	fmt.Fprintf(sb, " %s=\"", xmlEscapeName(attr.Name))
	if len(attr.Children) != 1 {
		return fmt.Errorf("render: attribute %q: %w (expected exactly one value node)", attr.Name, format.ErrInvalidData)
	}
	child := attr.Children[0]
	switch {
	case child.Kind == binxml.KindValue:
		s, err := formatScalar(ValueKind(child.Value.Kind), child.Value.Raw, true)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case child.IsSubstitution():
		slot, ok := slotValue(child, values)
		if !ok {
			return fmt.Errorf("render: attribute %q substitution: %w", attr.Name, format.ErrValueMismatch)
		}
		if child.Kind == binxml.KindOptionalSubstitution && slot.IsNull() {
			// leave the attribute value empty; the attribute itself was
			// already opened, matching how scalar (non-element) optional
			// substitutions degrade when absent.
		} else {
			s, err := formatScalar(slot.Kind.baseKind(), slot.Raw, true)
			if err != nil {
				return err
			}
			sb.WriteString(s)
		}
	default:
		return fmt.Errorf("render: attribute %q: %w (unsupported value node)", attr.Name, format.ErrUnsupported)
	}
	sb.WriteByte('"')
	return nil
}

// resolveSubstitutionText renders a substitution appearing as ordinary
// mixed content (not the sole child of its element, so the
// skip/array-repeat special cases in renderElement don't apply).
func (r *renderer) resolveSubstitutionText(tok *binxml.Token, values []Value) (string, Value, error) {
	slot, ok := slotValue(tok, values)
	if !ok {
		return "", Value{}, fmt.Errorf("render: substitution slot %d: %w", tok.SlotIndex, format.ErrValueMismatch)
	}
	if tok.Kind == binxml.KindOptionalSubstitution && slot.IsNull() {
		return "", slot, nil
	}
	if slot.Kind.baseKind() == KindBinXml {
		s, err := r.renderBinXmlValue(slot)
		return s, slot, err
	}
	s, err := formatScalar(slot.Kind.baseKind(), slot.Raw, false)
	return s, slot, err
}

// renderBinXmlValue handles the sub-element BinXml value kind (spec
// §4.7): raw carries a nested Binary-XML stream, rendered recursively
// with a value array derived from its own leading template-instance
// header when present.
func (r *renderer) renderBinXmlValue(v Value) (string, error) {
	sub, err := binXmlSubtree(v.Raw)
	if err != nil {
		return "", fmt.Errorf("render: nested binxml: %w", err)
	}
	if sub.Kind == binxml.KindTemplateInstance {
		nestedValues := make([]Value, len(sub.InlineValues))
		for i, iv := range sub.InlineValues {
			nestedValues[i] = Value{Kind: ValueKind(iv.Kind), Raw: iv.Raw}
		}
		return r.renderTemplateInstanceValues(sub, nestedValues)
	}
	var sb strings.Builder
	if err := r.renderNode(&sb, sub, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// renderTemplateInstance handles a template-instance token reached at the
// top level of a fragment (as opposed to nested inside a BinXml value).
func (r *renderer) renderTemplateInstance(sb *strings.Builder, tok *binxml.Token) error {
	values := make([]Value, len(tok.InlineValues))
	for i, iv := range tok.InlineValues {
		values[i] = Value{Kind: ValueKind(iv.Kind), Raw: iv.Raw}
	}
	s, err := r.renderTemplateInstanceValues(tok, values)
	if err != nil {
		return err
	}
	sb.WriteString(s)
	return nil
}

func (r *renderer) renderTemplateInstanceValues(tok *binxml.Token, values []Value) (string, error) {
	if r.resolve == nil {
		return "", fmt.Errorf("render: template instance %s: %w (no resolver configured)", tok.TemplateGUID, format.ErrUnsupported)
	}
	tmpl, ok := r.resolve.ResolveTemplate(tok.TemplateGUID)
	if !ok {
		return "", fmt.Errorf("render: template instance %s: %w", tok.TemplateGUID, format.ErrNotFound)
	}
	root, err := binxml.Read(tmpl.Body)
	if err != nil {
		return "", fmt.Errorf("render: template %s body: %w", tok.TemplateGUID, err)
	}
	var sb strings.Builder
	if err := r.renderNode(&sb, root, values); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func slotValue(tok *binxml.Token, values []Value) (Value, bool) {
	if int(tok.SlotIndex) >= len(values) {
		return Value{}, false
	}
	v := values[tok.SlotIndex]
	// A null value marks an absent substitution regardless of the
	// template's declared expected kind (spec §4.7): the producer that
	// omitted the value had no occasion to tag it with that kind.
	if v.Kind.baseKind() == KindNull {
		return v, true
	}
	if tok.ExpectedKind != wildcardKind && ValueKind(tok.ExpectedKind).baseKind() != v.Kind.baseKind() {
		return Value{}, false
	}
	return v, true
}

// xmlEscapeName escapes an element/attribute name the same way element
// text is escaped (names can't legally contain these characters in
// well-formed input, but hostile input is not assumed well-formed).
func xmlEscapeName(name string) string {
	if !strings.ContainsAny(name, "&<>") {
		return name
	}
	var sb strings.Builder
	for _, r := range name {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// splitArrayElements decodes an array-typed value's raw bytes into
// per-entry byte slices (spec §4.8: "array variants render as a ...
// sequence"). Fixed-width kinds are a flat count-prefixed array; variable
// -width kinds (String/AnsiString/Binary) are each length-prefixed,
// matching the inline-value encoding used everywhere else in this format.
func splitArrayElements(v Value) ([][]byte, error) {
	raw := v.Raw
	count, err := format.CheckedReadU32(raw, 0)
	if err != nil {
		return nil, fmt.Errorf("array value count: %w", err)
	}
	if count > format.MaxSubstitutions {
		return nil, fmt.Errorf("array value: %w (%d entries)", format.ErrSanityLimit, count)
	}
	pos := 4
	base := v.Kind.baseKind()
	width := fixedWidth(base)
	out := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if width > 0 {
			entry, err := format.CheckedSlice(raw, pos, width)
			if err != nil {
				return nil, fmt.Errorf("array entry %d: %w", i, err)
			}
			out = append(out, entry)
			pos += width
			continue
		}
		length, err := format.CheckedReadU32(raw, pos)
		if err != nil {
			return nil, fmt.Errorf("array entry %d length: %w", i, err)
		}
		entry, err := format.CheckedSlice(raw, pos+4, int(length))
		if err != nil {
			return nil, fmt.Errorf("array entry %d: %w", i, err)
		}
		out = append(out, entry)
		pos += 4 + int(length)
	}
	return out, nil
}

// fixedWidth returns the byte width of kind's fixed-size scalar
// representation, or 0 for variable-width kinds.
func fixedWidth(kind ValueKind) int {
	switch kind {
	case KindInt8, KindUInt8:
		return 1
	case KindInt16, KindUInt16:
		return 2
	case KindInt32, KindUInt32, KindFloat32, KindHexInt32, KindBoolean:
		return 4
	case KindInt64, KindUInt64, KindFloat64, KindHexInt64, KindSize, KindFileTime:
		return 8
	case KindGuid:
		return format.GUIDSize
	case KindSystemTime:
		return format.SystemTimeSize
	default:
		return 0
	}
}
