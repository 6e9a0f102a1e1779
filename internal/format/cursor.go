package format

import (
	"fmt"

	"github.com/wevtlib/wevtx/internal/buf"
)

// CheckedReadU8 reads a single byte at off, failing with ErrTruncated if it
// doesn't fit.
func CheckedReadU8(b []byte, off int) (uint8, error) {
	s, ok := buf.Slice(b, off, 1)
	if !ok {
		return 0, fmt.Errorf("read u8 at %d: %w", off, ErrTruncated)
	}
	return s[0], nil
}

// CheckedReadU16 reads a little-endian uint16 at off.
func CheckedReadU16(b []byte, off int) (uint16, error) {
	s, ok := buf.Slice(b, off, 2)
	if !ok {
		return 0, fmt.Errorf("read u16 at %d: %w", off, ErrTruncated)
	}
	return buf.U16LE(s), nil
}

// CheckedReadU32 reads a little-endian uint32 at off.
func CheckedReadU32(b []byte, off int) (uint32, error) {
	s, ok := buf.Slice(b, off, 4)
	if !ok {
		return 0, fmt.Errorf("read u32 at %d: %w", off, ErrTruncated)
	}
	return buf.U32LE(s), nil
}

// CheckedReadU64 reads a little-endian uint64 at off.
func CheckedReadU64(b []byte, off int) (uint64, error) {
	s, ok := buf.Slice(b, off, 8)
	if !ok {
		return 0, fmt.Errorf("read u64 at %d: %w", off, ErrTruncated)
	}
	return buf.U64LE(s), nil
}

// CheckedSlice returns b[off:off+n], failing with ErrTruncated if it doesn't fit.
func CheckedSlice(b []byte, off, n int) ([]byte, error) {
	s, ok := buf.Slice(b, off, n)
	if !ok {
		return nil, fmt.Errorf("read %d bytes at %d: %w", n, off, ErrTruncated)
	}
	return s, nil
}

// CheckedReadGUID reads a 16-byte little-endian GUID at off.
func CheckedReadGUID(b []byte, off int) (GUID, error) {
	s, err := CheckedSlice(b, off, GUIDSize)
	if err != nil {
		return GUID{}, fmt.Errorf("read guid: %w", err)
	}
	var g GUID
	copy(g[:], s)
	return g, nil
}

// Cursor is a sequential, bounds-checked reader over an immutable buffer.
// Unlike the descriptor decoders (which are pure (buffer, offset) functions
// with no caller-side state), the Binary-XML grammar is inherently
// sequential: each token's width depends on the token kind just read. Cursor
// is the one place in this package that carries forward position.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a Cursor over b starting at position 0.
func NewCursor(b []byte) *Cursor { return &Cursor{buf: b} }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Seek repositions the cursor to an absolute offset within the buffer.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.buf) {
		return fmt.Errorf("seek to %d: %w", off, ErrTruncated)
	}
	c.pos = off
	return nil
}

// PeekU8 reads the next byte without advancing the cursor.
func (c *Cursor) PeekU8() (uint8, error) {
	return CheckedReadU8(c.buf, c.pos)
}

// U8 reads one byte and advances.
func (c *Cursor) U8() (uint8, error) {
	v, err := CheckedReadU8(c.buf, c.pos)
	if err != nil {
		return 0, err
	}
	c.pos++
	return v, nil
}

// U16 reads a little-endian uint16 and advances.
func (c *Cursor) U16() (uint16, error) {
	v, err := CheckedReadU16(c.buf, c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32 and advances.
func (c *Cursor) U32() (uint32, error) {
	v, err := CheckedReadU32(c.buf, c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return v, nil
}

// U64 reads a little-endian uint64 and advances.
func (c *Cursor) U64() (uint64, error) {
	v, err := CheckedReadU64(c.buf, c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 8
	return v, nil
}

// GUIDVal reads a 16-byte little-endian GUID and advances.
func (c *Cursor) GUIDVal() (GUID, error) {
	v, err := CheckedReadGUID(c.buf, c.pos)
	if err != nil {
		return GUID{}, err
	}
	c.pos += GUIDSize
	return v, nil
}

// Take returns the next n bytes and advances past them.
func (c *Cursor) Take(n int) ([]byte, error) {
	s, err := CheckedSlice(c.buf, c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return s, nil
}

// Buf returns the whole backing buffer (for decoders that need absolute
// offsets, e.g. to resolve a self-relative name offset from a token).
func (c *Cursor) Buf() []byte { return c.buf }
