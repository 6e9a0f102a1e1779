package binxml

import "github.com/wevtlib/wevtx/internal/format"

// nameCache decodes each offset-referenced UTF-16LE name at most once per
// reader pass (spec §4.6, §9 Design Notes "Name interning by offset"):
// element and attribute names are frequently repeated across a document
// (the same tag opens hundreds of times), so caching by offset avoids
// redundant UTF-16 decoding without copying the underlying buffer.
type nameCache struct {
	buf     []byte
	entries map[uint32]string
}

func newNameCache(buf []byte) *nameCache {
	return &nameCache{buf: buf, entries: make(map[uint32]string)}
}

// name decodes the name record at off: a 2-byte UTF-16 code-unit count
// followed by that many UTF-16LE code units (spec leaves the exact
// encoding of interned names to the implementation; this mirrors the
// length-prefixed convention the rest of the format uses for name blobs).
func (c *nameCache) name(off uint32) (string, error) {
	if s, ok := c.entries[off]; ok {
		return s, nil
	}
	count, err := format.CheckedReadU16(c.buf, int(off))
	if err != nil {
		return "", err
	}
	payload, err := format.CheckedSlice(c.buf, int(off)+2, int(count)*2)
	if err != nil {
		return "", err
	}
	s := format.UTF16LEToUTF8(payload)
	c.entries[off] = s
	return s, nil
}
