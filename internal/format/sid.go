package format

import (
	"fmt"
	"strings"

	"github.com/wevtlib/wevtx/internal/buf"
)

// SID models a Windows NT Security Identifier:
//
//	0x00  1  revision
//	0x01  1  sub-authority count (N)
//	0x02  6  identifier authority (big-endian, per Windows convention)
//	0x08  4N sub-authorities (little-endian uint32 each)
type SID struct {
	Revision   uint8
	Authority  uint64 // 48-bit identifier authority
	SubAuthIDs []uint32
}

// DecodeSID decodes a variable-length SID structure with bounds checking.
//
// This is implemented directly rather than through a third-party SDDL
// library: the ecosystem SID/SDDL packages found in the retrieval pack
// (cloudsoda/sddl) substitute well-known SIDs with short aliases (e.g.
// "LA", "LG") in their String() output, which conflicts with spec.md
// §4.2's literal "S-R-I-SA[-SA...]" rendering contract, and their raw,
// alias-free formatter is unexported. The structure itself is an 8-byte
// fixed header plus a flat uint32 array, simple enough that reimplementing
// it keeps the rendering contract exact.
func DecodeSID(b []byte) (SID, error) {
	if len(b) < 8 {
		return SID{}, fmt.Errorf("sid: %w (have %d, need 8)", ErrTruncated, len(b))
	}
	revision := b[0]
	count := int(b[1])
	var authority uint64
	for i := 0; i < 6; i++ {
		authority = authority<<8 | uint64(b[2+i])
	}
	subs, ok := buf.Slice(b, 8, count*4)
	if !ok {
		return SID{}, fmt.Errorf("sid: %w (need %d bytes, have %d)", ErrTruncated, 8+count*4, len(b))
	}
	ids := make([]uint32, count)
	for i := 0; i < count; i++ {
		ids[i] = buf.U32LE(subs[i*4:])
	}
	return SID{Revision: revision, Authority: authority, SubAuthIDs: ids}, nil
}

// String renders the SID as "S-revision-authority-sub1-sub2-...-subN",
// matching spec §4.2 exactly: no well-known-name substitution.
func (s SID) String() string {
	var b strings.Builder
	b.WriteString("S-")
	fmt.Fprintf(&b, "%d", s.Revision)
	b.WriteByte('-')
	if s.Authority >= 1<<32 {
		fmt.Fprintf(&b, "0x%X", s.Authority)
	} else {
		fmt.Fprintf(&b, "%d", s.Authority)
	}
	for _, sub := range s.SubAuthIDs {
		b.WriteByte('-')
		fmt.Fprintf(&b, "%d", sub)
	}
	return b.String()
}
