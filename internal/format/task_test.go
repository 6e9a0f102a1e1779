package format

import (
	"encoding/binary"
	"testing"
)

func TestDecodeTaskWithEventGUID(t *testing.T) {
	var guid GUID
	for i := range guid {
		guid[i] = byte(0x20 + i)
	}
	nameOff := TaskHeaderSize
	rec := make([]byte, TaskHeaderSize)
	binary.LittleEndian.PutUint32(rec[TaskIDOffset:], 9)
	binary.LittleEndian.PutUint32(rec[TaskMessageOffset:], 55)
	copy(rec[TaskEventGUIDOff:TaskEventGUIDOff+GUIDSize], guid[:])
	binary.LittleEndian.PutUint32(rec[TaskNameOffOffset:], uint32(nameOff))
	buf := append(rec, nameBlob("Logon")...)

	task, err := DecodeTask(buf, 0)
	if err != nil {
		t.Fatalf("DecodeTask: %v", err)
	}
	if task.ID != 9 || task.MessageID != 55 || task.Name() != "Logon" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.EventGUID != guid {
		t.Fatalf("EventGUID = %v, want %v", task.EventGUID, guid)
	}
}

func TestDecodeTaskNoEventGUID(t *testing.T) {
	rec := make([]byte, TaskHeaderSize)
	binary.LittleEndian.PutUint32(rec[TaskIDOffset:], 1)
	binary.LittleEndian.PutUint32(rec[TaskMessageOffset:], InvalidMessageID)
	// EventGUID left all-zero, name offset left 0 ("no name")
	task, err := DecodeTask(rec, 0)
	if err != nil {
		t.Fatalf("DecodeTask: %v", err)
	}
	if !task.EventGUID.IsZero() {
		t.Fatal("expected an all-zero EventGUID sentinel")
	}
	if task.Name() != "" {
		t.Fatalf("Name() = %q, want empty", task.Name())
	}
}
