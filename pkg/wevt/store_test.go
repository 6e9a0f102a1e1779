package wevt

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wevtlib/wevtx/internal/format"
	"github.com/wevtlib/wevtx/pkg/types"
)

// providerBuilder lays out a minimal but complete WEVT resource buffer: a
// provider header, one entry in each of the channel/level/keyword/template/
// event tables (opcode and task tables left empty on purpose, to also
// exercise the dangling-reference path), all appended sequentially so every
// offset is known as soon as the preceding section is written.
type providerBuilder struct {
	buf []byte
}

func newProviderBuilder() *providerBuilder {
	b := &providerBuilder{buf: make([]byte, format.ProviderHeaderSize)}
	copy(b.buf[0:4], format.WEVTSignature)
	return b
}

func (b *providerBuilder) pos() int { return len(b.buf) }

func (b *providerBuilder) putU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[off:off+4], v)
}

func (b *providerBuilder) appendU32(v uint32) int {
	off := b.pos()
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return off
}

// nameBlob builds the length-prefixed UTF-16LE name convention shared by
// channel/keyword/level/opcode/task descriptors.
func nameBlob(s string) []byte {
	payload := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		payload = append(payload, byte(r), byte(r>>8))
	}
	payload = append(payload, 0, 0)
	out := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(format.NameLengthFieldSize+len(payload)))
	return append(out, payload...)
}

func (b *providerBuilder) appendNameBlob(s string) int {
	off := b.pos()
	b.buf = append(b.buf, nameBlob(s)...)
	return off
}

// appendChannel writes one channel record (after its name blob) and returns
// its record offset.
func (b *providerBuilder) appendChannel(id uint32, name string) int {
	nameOff := b.appendNameBlob(name)
	recOff := b.pos()
	rec := make([]byte, format.ChannelHeaderSize)
	binary.LittleEndian.PutUint32(rec[format.ChannelIDOffset:], id)
	binary.LittleEndian.PutUint32(rec[format.ChannelNameOffOffset:], uint32(nameOff))
	binary.LittleEndian.PutUint32(rec[format.ChannelMessageOffset:], format.InvalidMessageID)
	b.buf = append(b.buf, rec...)
	return recOff
}

// appendNamedElement writes a keyword/level/opcode-shaped record (id,
// message id, name offset) and returns its record offset.
func (b *providerBuilder) appendNamedElement(id uint32, name string) int {
	nameOff := b.appendNameBlob(name)
	recOff := b.pos()
	rec := make([]byte, format.NamedElemHeaderSize)
	binary.LittleEndian.PutUint32(rec[format.NamedElemIDOffset:], id)
	binary.LittleEndian.PutUint32(rec[format.NamedElemMessageOffset:], format.InvalidMessageID)
	binary.LittleEndian.PutUint32(rec[format.NamedElemNameOffOffset:], uint32(nameOff))
	b.buf = append(b.buf, rec...)
	return recOff
}

func (b *providerBuilder) appendTemplate(guid format.GUID, body []byte) int {
	recOff := b.pos()
	header := make([]byte, format.TemplateHeaderSize)
	copy(header[0:4], format.TEMPSignature)
	binary.LittleEndian.PutUint32(header[format.TemplateSizeOffset:], uint32(format.TemplateHeaderSize+len(body)))
	binary.LittleEndian.PutUint32(header[format.TemplateInputCountOffset:], 0)
	binary.LittleEndian.PutUint32(header[format.TemplateInputTableOffset:], 0)
	copy(header[format.TemplateGUIDOffset:format.TemplateGUIDOffset+format.GUIDSize], guid[:])
	b.buf = append(b.buf, header...)
	b.buf = append(b.buf, body...)
	return recOff
}

type eventFields struct {
	id, channelID, messageID      uint32
	version, levelID, opcodeID    uint8
	taskID                        uint16
	keywordMask                   uint64
	templateID                    format.GUID
}

func (b *providerBuilder) appendEvent(f eventFields) int {
	recOff := b.pos()
	rec := make([]byte, format.EventRecordSize)
	binary.LittleEndian.PutUint32(rec[format.EventIDOffset:], f.id)
	rec[format.EventVersionOffset] = f.version
	binary.LittleEndian.PutUint32(rec[format.EventChannelIDOffset:], f.channelID)
	rec[format.EventLevelIDOffset] = f.levelID
	rec[format.EventOpcodeIDOffset] = f.opcodeID
	binary.LittleEndian.PutUint16(rec[format.EventTaskIDOffset:], f.taskID)
	binary.LittleEndian.PutUint64(rec[format.EventKeywordMaskOff:], f.keywordMask)
	binary.LittleEndian.PutUint32(rec[format.EventMessageIDOffset:], f.messageID)
	copy(rec[format.EventTemplateIDOffset:format.EventTemplateIDOffset+format.GUIDSize], f.templateID[:])
	b.buf = append(b.buf, rec...)
	return recOff
}

// setTable patches the header's count/offset pair for one of the eight
// element tables and appends the offset array itself.
func (b *providerBuilder) setTable(countOff, tableOffOff int, entryOffsets ...int) {
	b.putU32(countOff, uint32(len(entryOffsets)))
	if len(entryOffsets) == 0 {
		b.putU32(tableOffOff, 0)
		return
	}
	tableOff := b.pos()
	b.putU32(tableOffOff, uint32(tableOff))
	for _, o := range entryOffsets {
		b.appendU32(uint32(o))
	}
}

// eventIDFragment is the Binary-XML encoding of
// `<Event><EventID>@0</EventID></Event>` (spec §8 scenario S6).
var eventIDFragment = []byte{
	0x01, 21, 0, 0, 0, 0x02,
	0x01, 33, 0, 0, 0, 0x02,
	0x0D, 0, 0, 0, 0, 0x08,
	0x04,
	0x04,
	0x00,
	5, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0,
	7, 0, 'E', 0, 'v', 0, 'e', 0, 'n', 0, 't', 0, 'I', 0, 'D', 0,
}

func buildMinimalProvider(t *testing.T) ([]byte, format.GUID) {
	t.Helper()
	b := newProviderBuilder()

	channelOff := b.appendChannel(1, "Application")
	b.setTable(format.ProviderNumChannelsOffset, format.ProviderChannelsOffOffset, channelOff)

	levelOff := b.appendNamedElement(4, "Information")
	b.setTable(format.ProviderNumLevelsOffset, format.ProviderLevelsOffOffset, levelOff)

	b.setTable(format.ProviderNumOpcodesOffset, format.ProviderOpcodesOffOffset) // none: opcode 5 is left dangling

	keywordOff := b.appendNamedElement(0x1, "AuditSuccess")
	b.setTable(format.ProviderNumKeywordsOffset, format.ProviderKeywordsOffOffset, keywordOff)

	b.setTable(format.ProviderNumTasksOffset, format.ProviderTasksOffOffset) // none: event's TaskID is 0, never checked

	b.setTable(format.ProviderNumMapsOffset, format.ProviderMapsOffOffset) // none

	var templateGUID format.GUID
	for i := range templateGUID {
		templateGUID[i] = byte(0x10 + i)
	}
	templateOff := b.appendTemplate(templateGUID, eventIDFragment)
	b.setTable(format.ProviderNumTemplatesOffset, format.ProviderTemplatesOffOffset, templateOff)

	eventOff := b.appendEvent(eventFields{
		id:          4624,
		version:     0,
		channelID:   1,
		levelID:     4,
		opcodeID:    5, // no opcode table entry: dangling
		taskID:      0,
		keywordMask: 0x1,
		messageID:   format.InvalidMessageID,
		templateID:  templateGUID,
	})
	b.setTable(format.ProviderNumEventsOffset, format.ProviderEventsOffOffset, eventOff)

	var providerGUID format.GUID
	for i := range providerGUID {
		providerGUID[i] = byte(0x40 + i)
	}
	copy(b.buf[format.ProviderGUIDOffset:format.ProviderGUIDOffset+format.GUIDSize], providerGUID[:])

	return b.buf, templateGUID
}

// buildDuplicateChannelsProvider builds a provider whose channel table lists
// two entries under id=1, to exercise spec §8 Testable Property 6.
func buildDuplicateChannelsProvider(t *testing.T) []byte {
	t.Helper()
	b := newProviderBuilder()

	first := b.appendChannel(1, "Application")
	second := b.appendChannel(1, "System")
	b.setTable(format.ProviderNumChannelsOffset, format.ProviderChannelsOffOffset, first, second)

	b.setTable(format.ProviderNumLevelsOffset, format.ProviderLevelsOffOffset)
	b.setTable(format.ProviderNumOpcodesOffset, format.ProviderOpcodesOffOffset)
	b.setTable(format.ProviderNumKeywordsOffset, format.ProviderKeywordsOffOffset)
	b.setTable(format.ProviderNumTasksOffset, format.ProviderTasksOffOffset)
	b.setTable(format.ProviderNumMapsOffset, format.ProviderMapsOffOffset)
	b.setTable(format.ProviderNumTemplatesOffset, format.ProviderTemplatesOffOffset)
	b.setTable(format.ProviderNumEventsOffset, format.ProviderEventsOffOffset)

	return b.buf
}

// buildDuplicateTemplateGUIDProvider builds a provider whose template table
// lists two entries under the same GUID.
func buildDuplicateTemplateGUIDProvider(t *testing.T) ([]byte, format.GUID) {
	t.Helper()
	b := newProviderBuilder()

	var guid format.GUID
	for i := range guid {
		guid[i] = byte(0x20 + i)
	}
	first := b.appendTemplate(guid, eventIDFragment)
	second := b.appendTemplate(guid, eventIDFragment)
	b.setTable(format.ProviderNumTemplatesOffset, format.ProviderTemplatesOffOffset, first, second)

	b.setTable(format.ProviderNumChannelsOffset, format.ProviderChannelsOffOffset)
	b.setTable(format.ProviderNumLevelsOffset, format.ProviderLevelsOffOffset)
	b.setTable(format.ProviderNumOpcodesOffset, format.ProviderOpcodesOffOffset)
	b.setTable(format.ProviderNumKeywordsOffset, format.ProviderKeywordsOffOffset)
	b.setTable(format.ProviderNumTasksOffset, format.ProviderTasksOffOffset)
	b.setTable(format.ProviderNumMapsOffset, format.ProviderMapsOffOffset)
	b.setTable(format.ProviderNumEventsOffset, format.ProviderEventsOffOffset)

	return b.buf, guid
}

// TestDuplicateChannelIDSurfacesAsDiagnostic is spec §8 Testable Property 6
// ("no two channels share an identifier"): decoding a provider that
// violates it must still succeed (spec §4.5's tolerant-decode philosophy
// extends to this collision, exactly as it does for dangling references),
// with the later entry winning the lookup and the collision recorded.
func TestDuplicateChannelIDSurfacesAsDiagnostic(t *testing.T) {
	buf := buildDuplicateChannelsProvider(t)
	store, err := Decode(buf, types.DecodeOptions{CollectDiagnostics: true})
	require.NoError(t, err)

	dups := store.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, types.RefChannel, dups[0].Kind)
	assert.EqualValues(t, 1, dups[0].ID)

	ch, ok := store.Channel(1)
	require.True(t, ok)
	assert.Equal(t, "System", ch.Name(), "last write should win the lookup")
}

// TestDuplicateTemplateGUIDSurfacesAsDiagnostic is spec §8 Testable
// Property 6's other named case: no two templates share a GUID.
func TestDuplicateTemplateGUIDSurfacesAsDiagnostic(t *testing.T) {
	buf, guid := buildDuplicateTemplateGUIDProvider(t)
	store, err := Decode(buf, types.DecodeOptions{CollectDiagnostics: true})
	require.NoError(t, err)

	dups := store.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, types.RefTemplate, dups[0].Kind)
	assert.Equal(t, guid, dups[0].GUID)
}

// TestDuplicatesEmptyWithoutCollectDiagnostics mirrors Dangling's contract:
// collision tracking is opt-in, same as dangling-reference tracking.
func TestDuplicatesEmptyWithoutCollectDiagnostics(t *testing.T) {
	buf := buildDuplicateChannelsProvider(t)
	store, err := Decode(buf, types.DecodeOptions{})
	require.NoError(t, err)
	assert.Empty(t, store.Duplicates())
}

func TestDecodeAndLookups(t *testing.T) {
	buf, templateGUID := buildMinimalProvider(t)
	store, err := Decode(buf, types.DecodeOptions{CollectDiagnostics: true})
	require.NoError(t, err)

	_, ok := store.Channel(1)
	assert.True(t, ok, "channel 1 should resolve")
	_, ok = store.Level(4)
	assert.True(t, ok, "level 4 should resolve")
	_, ok = store.Template(templateGUID)
	assert.True(t, ok, "template should resolve by guid")

	kws := store.Keywords(0x1)
	require.Len(t, kws, 1)

	ev, ok := store.Event(4624, 0)
	require.True(t, ok, "event 4624 v0 should be present")
	assert.EqualValues(t, 5, ev.OpcodeID)

	dangling := store.Dangling()
	require.Len(t, dangling, 1, "exactly one dangling reference (opcode 5)")
	assert.Equal(t, types.RefOpcode, dangling[0].Kind)
	assert.EqualValues(t, 5, dangling[0].ID)
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	buf, _ := buildMinimalProvider(t)
	buf[0] = 'X' // corrupt "WEVT" -> "XEVT"
	_, err := Decode(buf, types.DecodeOptions{})
	require.Error(t, err)
}

func TestDecodeEnforcesMaxSize(t *testing.T) {
	buf, _ := buildMinimalProvider(t)
	_, err := Decode(buf, types.DecodeOptions{MaxSize: len(buf) - 1})
	require.Error(t, err)
}

// TestStoreRenderGolden is spec §8 scenario S6 exercised through the public
// Store.Render API: decode a provider, look up its one event, and render it
// against a single UInt32 substitution.
func TestStoreRenderGolden(t *testing.T) {
	buf, _ := buildMinimalProvider(t)
	store, err := Decode(buf, types.DecodeOptions{})
	require.NoError(t, err)

	ev, ok := store.Event(4624, 0)
	require.True(t, ok, "event 4624 v0 should be present")

	values := []types.Value{
		{Kind: types.KindUInt32, Raw: []byte{0x10, 0x12, 0x00, 0x00}}, // 4624 little-endian
	}
	out, err := store.Render(ev, values, types.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "<Event><EventID>4624</EventID></Event>", out)
}
