package format

import "fmt"

// Channel is a decoded channel descriptor (spec §6): a numeric identifier,
// an optional display name, and an optional localized message reference.
type Channel struct {
	ID        uint32
	MessageID uint32
	nameBytes []byte // raw UTF-16LE, decoded lazily by Name
}

// Name returns the channel's display name, or "" if it has none.
func (c Channel) Name() string { return UTF16LEToUTF8(c.nameBytes) }

// HasMessage reports whether MessageID refers to an actual localized
// string rather than the InvalidMessageID sentinel.
func (c Channel) HasMessage() bool { return c.MessageID != InvalidMessageID }

// DecodeChannel decodes a Channel record at off within buf.
func DecodeChannel(buf []byte, off int) (Channel, error) {
	id, err := CheckedReadU32(buf, off+ChannelIDOffset)
	if err != nil {
		return Channel{}, fmt.Errorf("channel id: %w", err)
	}
	nameOff, err := CheckedReadU32(buf, off+ChannelNameOffOffset)
	if err != nil {
		return Channel{}, fmt.Errorf("channel name offset: %w", err)
	}
	messageID, err := CheckedReadU32(buf, off+ChannelMessageOffset)
	if err != nil {
		return Channel{}, fmt.Errorf("channel message id: %w", err)
	}
	name, err := DecodeNameBlob(buf, int(nameOff))
	if err != nil {
		return Channel{}, fmt.Errorf("channel %d: %w", id, err)
	}
	return Channel{ID: id, MessageID: messageID, nameBytes: name}, nil
}
