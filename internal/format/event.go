package format

import "fmt"

// Event is a decoded event record (spec §3): fixed-width, no trailing
// name, cross-referencing a channel/level/opcode/task/keyword set and,
// optionally, the template instance used to render its payload.
type Event struct {
	ID          uint32
	Version     uint8
	ChannelID   uint32
	LevelID     uint8
	OpcodeID    uint8
	TaskID      uint16
	KeywordMask uint64
	MessageID   uint32
	TemplateID  GUID
}

// HasTemplate reports whether the event references a template instance
// rather than the all-zero "no template" sentinel.
func (e Event) HasTemplate() bool { return !e.TemplateID.IsZero() }

// HasMessage reports whether MessageID is a real message reference.
func (e Event) HasMessage() bool { return e.MessageID != InvalidMessageID }

// DecodeEvent decodes an Event record at off within buf.
func DecodeEvent(buf []byte, off int) (Event, error) {
	id, err := CheckedReadU32(buf, off+EventIDOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event id: %w", err)
	}
	version, err := CheckedReadU8(buf, off+EventVersionOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event %d version: %w", id, err)
	}
	channelID, err := CheckedReadU32(buf, off+EventChannelIDOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event %d channel id: %w", id, err)
	}
	levelID, err := CheckedReadU8(buf, off+EventLevelIDOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event %d level id: %w", id, err)
	}
	opcodeID, err := CheckedReadU8(buf, off+EventOpcodeIDOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event %d opcode id: %w", id, err)
	}
	taskID, err := CheckedReadU16(buf, off+EventTaskIDOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event %d task id: %w", id, err)
	}
	keywordMask, err := CheckedReadU64(buf, off+EventKeywordMaskOff)
	if err != nil {
		return Event{}, fmt.Errorf("event %d keyword mask: %w", id, err)
	}
	messageID, err := CheckedReadU32(buf, off+EventMessageIDOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event %d message id: %w", id, err)
	}
	templateID, err := CheckedReadGUID(buf, off+EventTemplateIDOffset)
	if err != nil {
		return Event{}, fmt.Errorf("event %d template id: %w", id, err)
	}
	return Event{
		ID:          id,
		Version:     version,
		ChannelID:   channelID,
		LevelID:     levelID,
		OpcodeID:    opcodeID,
		TaskID:      taskID,
		KeywordMask: keywordMask,
		MessageID:   messageID,
		TemplateID:  templateID,
	}, nil
}
