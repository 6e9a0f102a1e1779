package format

import "fmt"

// Provider is a fully decoded WEVT resource (spec §4.5): a provider GUID
// plus the eight element tables that make up its vocabulary. Cross-
// reference resolution (matching an Event's ChannelID to a Channel, etc.)
// is the caller's concern — internal/render and pkg/wevt build lookup
// indexes over these flat slices rather than this package doing it, to
// keep the decoder itself a pure function of the buffer.
type Provider struct {
	GUID      GUID
	Channels  []Channel
	Levels    []Level
	Opcodes   []Opcode
	Keywords  []Keyword
	Tasks     []Task
	Maps      []Map
	Templates []Template
	Events    []Event
}

// DecodeProvider decodes a whole WEVT resource buffer.
func DecodeProvider(buf []byte) (Provider, error) {
	sig, err := CheckedSlice(buf, 0, SignatureSize)
	if err != nil {
		return Provider{}, fmt.Errorf("provider signature: %w", err)
	}
	if string(sig) != string(WEVTSignature) {
		return Provider{}, fmt.Errorf("provider signature: %w", ErrSignatureMismatch)
	}
	guid, err := CheckedReadGUID(buf, ProviderGUIDOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider guid: %w", err)
	}

	channelOffs, err := decodeOffsetTable(buf, ProviderNumChannelsOffset, ProviderChannelsOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s channel table: %w", guid, err)
	}
	channels := make([]Channel, 0, len(channelOffs))
	for _, o := range channelOffs {
		c, err := DecodeChannel(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		channels = append(channels, c)
	}

	levelOffs, err := decodeOffsetTable(buf, ProviderNumLevelsOffset, ProviderLevelsOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s level table: %w", guid, err)
	}
	levels := make([]Level, 0, len(levelOffs))
	for _, o := range levelOffs {
		l, err := DecodeLevel(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		levels = append(levels, l)
	}

	opcodeOffs, err := decodeOffsetTable(buf, ProviderNumOpcodesOffset, ProviderOpcodesOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s opcode table: %w", guid, err)
	}
	opcodes := make([]Opcode, 0, len(opcodeOffs))
	for _, o := range opcodeOffs {
		op, err := DecodeOpcode(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		opcodes = append(opcodes, op)
	}

	keywordOffs, err := decodeOffsetTable(buf, ProviderNumKeywordsOffset, ProviderKeywordsOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s keyword table: %w", guid, err)
	}
	keywords := make([]Keyword, 0, len(keywordOffs))
	for _, o := range keywordOffs {
		k, err := DecodeKeyword(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		keywords = append(keywords, k)
	}

	taskOffs, err := decodeOffsetTable(buf, ProviderNumTasksOffset, ProviderTasksOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s task table: %w", guid, err)
	}
	tasks := make([]Task, 0, len(taskOffs))
	for _, o := range taskOffs {
		t, err := DecodeTask(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		tasks = append(tasks, t)
	}

	mapOffs, err := decodeOffsetTable(buf, ProviderNumMapsOffset, ProviderMapsOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s map table: %w", guid, err)
	}
	maps := make([]Map, 0, len(mapOffs))
	for _, o := range mapOffs {
		m, err := DecodeMap(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		maps = append(maps, m)
	}

	templateOffs, err := decodeOffsetTable(buf, ProviderNumTemplatesOffset, ProviderTemplatesOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s template table: %w", guid, err)
	}
	templates := make([]Template, 0, len(templateOffs))
	for _, o := range templateOffs {
		t, err := DecodeTemplate(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		templates = append(templates, t)
	}

	eventOffs, err := decodeOffsetTable(buf, ProviderNumEventsOffset, ProviderEventsOffOffset)
	if err != nil {
		return Provider{}, fmt.Errorf("provider %s event table: %w", guid, err)
	}
	events := make([]Event, 0, len(eventOffs))
	for _, o := range eventOffs {
		e, err := DecodeEvent(buf, o)
		if err != nil {
			return Provider{}, fmt.Errorf("provider %s: %w", guid, err)
		}
		events = append(events, e)
	}

	return Provider{
		GUID:      guid,
		Channels:  channels,
		Levels:    levels,
		Opcodes:   opcodes,
		Keywords:  keywords,
		Tasks:     tasks,
		Maps:      maps,
		Templates: templates,
		Events:    events,
	}, nil
}

// decodeOffsetTable reads the "count(4) then []offset(4)" shape shared by
// all eight provider tables (modeled on the teacher's subkey-list decode:
// a count followed by a flat array of self-relative element offsets) and
// returns the resolved offsets as plain ints.
func decodeOffsetTable(buf []byte, countOff, tableOffOff int) ([]int, error) {
	count, err := CheckedReadU32(buf, countOff)
	if err != nil {
		return nil, fmt.Errorf("table count: %w", err)
	}
	if count > MaxTableEntries {
		return nil, fmt.Errorf("table count: %w (%d)", ErrSanityLimit, count)
	}
	tableOff, err := CheckedReadU32(buf, tableOffOff)
	if err != nil {
		return nil, fmt.Errorf("table offset: %w", err)
	}
	offsets := make([]int, count)
	for i := uint32(0); i < count; i++ {
		entryOff := int(tableOff) + int(i)*OffsetTableEntrySize
		v, err := CheckedReadU32(buf, entryOff)
		if err != nil {
			return nil, fmt.Errorf("table entry %d: %w", i, err)
		}
		offsets[i] = int(v)
	}
	return offsets, nil
}
