package format

import (
	"encoding/binary"
	"testing"
)

func buildEventRecord(id uint32, version, levelID, opcodeID uint8, channelID uint32, taskID uint16, keywordMask uint64, messageID uint32, templateID GUID) []byte {
	rec := make([]byte, EventRecordSize)
	binary.LittleEndian.PutUint32(rec[EventIDOffset:], id)
	rec[EventVersionOffset] = version
	binary.LittleEndian.PutUint32(rec[EventChannelIDOffset:], channelID)
	rec[EventLevelIDOffset] = levelID
	rec[EventOpcodeIDOffset] = opcodeID
	binary.LittleEndian.PutUint16(rec[EventTaskIDOffset:], taskID)
	binary.LittleEndian.PutUint64(rec[EventKeywordMaskOff:], keywordMask)
	binary.LittleEndian.PutUint32(rec[EventMessageIDOffset:], messageID)
	copy(rec[EventTemplateIDOffset:EventTemplateIDOffset+GUIDSize], templateID[:])
	return rec
}

func TestDecodeEventFields(t *testing.T) {
	var tmplGUID GUID
	for i := range tmplGUID {
		tmplGUID[i] = byte(i)
	}
	rec := buildEventRecord(4624, 1, 4, 0, 1, 12544, 0x8000000000000020, InvalidMessageID, tmplGUID)

	ev, err := DecodeEvent(rec, 0)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.ID != 4624 || ev.Version != 1 || ev.ChannelID != 1 || ev.LevelID != 4 ||
		ev.OpcodeID != 0 || ev.TaskID != 12544 || ev.KeywordMask != 0x8000000000000020 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.HasTemplate() {
		t.Fatal("event should report HasTemplate() true")
	}
	if ev.HasMessage() {
		t.Fatal("event should report HasMessage() false for the sentinel message id")
	}
}

func TestDecodeEventNoTemplate(t *testing.T) {
	var zero GUID
	rec := buildEventRecord(1, 0, 0, 0, 0, 0, 0, 0, zero)
	ev, err := DecodeEvent(rec, 0)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.HasTemplate() {
		t.Fatal("all-zero template id should report HasTemplate() false")
	}
	if !ev.HasMessage() {
		t.Fatal("message id 0 is a real (non-sentinel) reference")
	}
}

func TestDecodeEventTruncated(t *testing.T) {
	if _, err := DecodeEvent(make([]byte, EventRecordSize-1), 0); err == nil {
		t.Fatal("expected a truncation error for a short event record")
	}
}
