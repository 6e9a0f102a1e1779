package format

import "fmt"

// Task is a decoded task descriptor. original_source's test fixtures
// (tests/fwevt_test_task.c) show a 100-byte sample whose header carries a
// correlation GUID between message_id and name_offset that spec.md's
// distillation omits; it is preserved here as EventGUID (all-zero means
// "no associated event GUID").
type Task struct {
	ID        uint32
	MessageID uint32
	EventGUID GUID
	nameBytes []byte
}

func (t Task) Name() string { return UTF16LEToUTF8(t.nameBytes) }

// DecodeTask decodes a Task record at off within buf.
func DecodeTask(buf []byte, off int) (Task, error) {
	id, err := CheckedReadU32(buf, off+TaskIDOffset)
	if err != nil {
		return Task{}, fmt.Errorf("task id: %w", err)
	}
	messageID, err := CheckedReadU32(buf, off+TaskMessageOffset)
	if err != nil {
		return Task{}, fmt.Errorf("task %d message id: %w", id, err)
	}
	eventGUID, err := CheckedReadGUID(buf, off+TaskEventGUIDOff)
	if err != nil {
		return Task{}, fmt.Errorf("task %d event guid: %w", id, err)
	}
	nameOff, err := CheckedReadU32(buf, off+TaskNameOffOffset)
	if err != nil {
		return Task{}, fmt.Errorf("task %d name offset: %w", id, err)
	}
	name, err := DecodeNameBlob(buf, int(nameOff))
	if err != nil {
		return Task{}, fmt.Errorf("task %d: %w", id, err)
	}
	return Task{ID: id, MessageID: messageID, EventGUID: eventGUID, nameBytes: name}, nil
}
