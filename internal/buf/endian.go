package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short;
// callers that need a bounds error instead of a silent zero should go through
// format.Cursor, which wraps these with an explicit truncation check.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// PutU16LE writes v to b in little-endian form. Panics if b is too short,
// matching encoding/binary's own contract.
func PutU16LE(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// PutU32LE writes v to b in little-endian form.
func PutU32LE(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// PutU64LE writes v to b in little-endian form.
func PutU64LE(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
