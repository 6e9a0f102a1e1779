package render

import (
	"testing"

	"github.com/wevtlib/wevtx/internal/binxml"
	"github.com/wevtlib/wevtx/internal/format"
)

// eventIDFragment is the Binary-XML encoding of
// `<Event><EventID>@0</EventID></Event>`, spec §8 scenario S6.
var eventIDFragment = []byte{
	0x01,           // [0]  open-start-element "Event"
	21, 0, 0, 0,    // [1]  name offset -> 21
	0x02,           // [5]  close-start-element
	0x01,           // [6]  open-start-element "EventID"
	33, 0, 0, 0,    // [7]  name offset -> 33
	0x02,           // [11] close-start-element
	0x0D,           // [12] normal substitution
	0, 0, 0, 0,     // [13] slot index 0
	0x08,           // [17] expected kind UInt32
	0x04,           // [18] end-element (EventID)
	0x04,           // [19] end-element (Event)
	0x00,           // [20] end-of-fragment

	// name table
	5, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0, // [21] "Event"
	7, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0, 'I', 0, 'D', 0, // [33] "EventID"
}

// TestRenderEventIDGolden is spec §8 scenario S6 end-to-end: rendering the
// minimal `<Event><EventID>@0</EventID></Event>` template against a single
// UInt32 value of 4624 must produce exactly `<Event><EventID>4624</EventID></Event>`.
func TestRenderEventIDGolden(t *testing.T) {
	root, err := binxml.Read(eventIDFragment)
	if err != nil {
		t.Fatalf("binxml.Read: %v", err)
	}
	values := []Value{
		{Kind: KindUInt32, Raw: []byte{0x10, 0x12, 0x00, 0x00}}, // 4624 little-endian
	}
	out, err := Render(root, values, nil, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "<Event><EventID>4624</EventID></Event>"
	if out != want {
		t.Fatalf("Render() = %q, want %q", out, want)
	}
}

// TestRenderOptionalSubstitutionAbsentSkipsElement covers spec §4.7: an
// absent (null-kind) optional substitution as an element's sole content
// causes the whole surrounding element to be skipped.
func TestRenderOptionalSubstitutionAbsentSkipsElement(t *testing.T) {
	frag := []byte{
		0x01,        // [0] open-start "Event"
		21, 0, 0, 0, // [1] name offset
		0x02,        // [5] close-start
		0x01,        // [6] open-start "EventID"
		33, 0, 0, 0, // [7] name offset
		0x02,       // [11] close-start
		0x0E,       // [12] optional substitution
		0, 0, 0, 0, // [13] slot 0
		0x08, // [17] expected kind UInt32
		0x04, // [18] end-element (EventID)
		0x04, // [19] end-element (Event)
		0x00, // [20] end-of-fragment

		5, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0,
		7, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0, 'I', 0, 'D', 0,
	}
	root, err := binxml.Read(frag)
	if err != nil {
		t.Fatalf("binxml.Read: %v", err)
	}
	values := []Value{{Kind: KindNull}}
	out, err := Render(root, values, nil, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "<Event></Event>" {
		t.Fatalf("Render() = %q, want the EventID element skipped entirely", out)
	}
}

// TestRenderAbortRequested covers spec §5/§7: a caller-supplied abort
// callback returning true must stop the render with ErrAbortRequested, and
// that sentinel must be distinguishable from an unsupported-value failure.
func TestRenderAbortRequested(t *testing.T) {
	root, err := binxml.Read(eventIDFragment)
	if err != nil {
		t.Fatalf("binxml.Read: %v", err)
	}
	values := []Value{{Kind: KindUInt32, Raw: []byte{0x10, 0x12, 0x00, 0x00}}}
	_, err = Render(root, values, nil, Options{Abort: func() bool { return true }})
	if err == nil {
		t.Fatal("expected an abort error")
	}
	if err != ErrAbortRequested {
		t.Fatalf("Render() error = %v, want ErrAbortRequested", err)
	}
}

// TestRenderDeterministic covers spec §8's renderer-determinism property:
// rendering identical input twice must produce byte-identical output.
func TestRenderDeterministic(t *testing.T) {
	root, err := binxml.Read(eventIDFragment)
	if err != nil {
		t.Fatalf("binxml.Read: %v", err)
	}
	values := []Value{{Kind: KindUInt32, Raw: []byte{0x10, 0x12, 0x00, 0x00}}}
	first, err := Render(root, values, nil, Options{})
	if err != nil {
		t.Fatalf("Render (first): %v", err)
	}
	second, err := Render(root, values, nil, Options{})
	if err != nil {
		t.Fatalf("Render (second): %v", err)
	}
	if first != second {
		t.Fatalf("non-deterministic render: %q != %q", first, second)
	}
}

// TestRenderIndentInsertsNewlinesBetweenSiblingElements covers the
// (added) render.Options.Indent supplement: `<Event><System/><EventID>
// @0</EventID></Event>` rendered with Indent set must put each of Event's
// two element children on its own indented line, while EventID's own
// substitution content stays inline.
func TestRenderIndentInsertsNewlinesBetweenSiblingElements(t *testing.T) {
	frag := []byte{
		0x01,        // [0]  open-start "Event"
		28, 0, 0, 0, // [1]  name offset -> 28
		0x02,        // [5]  close-start
		0x01,        // [6]  open-start "System"
		40, 0, 0, 0, // [7]  name offset -> 40
		0x02, // [11] close-start
		0x04, // [12] end-element (System, no children)
		0x01, // [13] open-start "EventID"
		54, 0, 0, 0, // [14] name offset -> 54
		0x02,       // [18] close-start
		0x0D,       // [19] normal substitution
		0, 0, 0, 0, // [20] slot index 0
		0x08, // [24] expected kind UInt32
		0x04, // [25] end-element (EventID)
		0x04, // [26] end-element (Event)
		0x00, // [27] end-of-fragment

		5, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0, // [28] "Event"
		6, 0, 'S', 0, 'y', 0, 's', 0, 't', 0, 'e', 0, 'm', 0, // [40] "System"
		7, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0, 'I', 0, 'D', 0, // [54] "EventID"
	}
	root, err := binxml.Read(frag)
	if err != nil {
		t.Fatalf("binxml.Read: %v", err)
	}
	values := []Value{{Kind: KindUInt32, Raw: []byte{0x10, 0x12, 0x00, 0x00}}}

	out, err := Render(root, values, nil, Options{Indent: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "<Event>\n\t<System/>\n\t<EventID>4624</EventID>\n</Event>"
	if out != want {
		t.Fatalf("Render() = %q, want %q", out, want)
	}

	compact, err := Render(root, values, nil, Options{})
	if err != nil {
		t.Fatalf("Render (compact): %v", err)
	}
	if compact != "<Event><System/><EventID>4624</EventID></Event>" {
		t.Fatalf("Render() without Indent = %q, want compact form", compact)
	}
}

// stubResolver implements TemplateResolver against a fixed in-memory set,
// used to exercise the nested template-instance path.
type stubResolver struct {
	templates map[format.GUID]*format.Template
}

func (s stubResolver) ResolveTemplate(guid format.GUID) (*format.Template, bool) {
	t, ok := s.templates[guid]
	return t, ok
}

// TestRenderUnknownTemplateInstance covers spec §4.7's nested
// template-instance case failing closed when the GUID can't be resolved.
func TestRenderUnknownTemplateInstance(t *testing.T) {
	var guid format.GUID
	guid[0] = 0xAA
	frag := []byte{
		0x0C, // template-instance token
		guid[0], guid[1], guid[2], guid[3],
		guid[4], guid[5], guid[6], guid[7],
		guid[8], guid[9], guid[10], guid[11],
		guid[12], guid[13], guid[14], guid[15],
		0, 0, 0, 0, // inline value count = 0
	}
	root, err := binxml.Read(frag)
	if err != nil {
		t.Fatalf("binxml.Read: %v", err)
	}
	_, err = Render(root, nil, stubResolver{templates: map[format.GUID]*format.Template{}}, Options{})
	if err == nil {
		t.Fatal("expected an error resolving an unknown template GUID")
	}
}
