package format

import (
	"fmt"

	"github.com/google/uuid"
)

// GUID is a 16-byte little-endian Microsoft GUID, stored exactly as it
// appears on disk (Data1/Data2/Data3 little-endian, Data4 as raw bytes).
type GUID [GUIDSize]byte

// IsZero reports whether g is the all-zero GUID, which the format uses as a
// sentinel (e.g. Event.TemplateID == zero means "no template").
func (g GUID) IsZero() bool {
	return g == GUID{}
}

// toUUID reinterprets the on-disk little-endian GUID as a google/uuid.UUID,
// which expects Data1/Data2/Data3 big-endian. google/uuid has no notion of
// "mixed-endian Microsoft GUID", so the first 8 bytes are byte-swapped per
// field before delegating formatting to it.
func (g GUID) toUUID() uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:16])
	return u
}

// guidFromUUID is the inverse of toUUID, used by ParseGUID.
func guidFromUUID(u uuid.UUID) GUID {
	var g GUID
	g[0], g[1], g[2], g[3] = u[3], u[2], u[1], u[0]
	g[4], g[5] = u[5], u[4]
	g[6], g[7] = u[7], u[6]
	copy(g[8:16], u[8:])
	return g
}

// String renders g in Microsoft's canonical curly-brace form:
// {xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}. google/uuid produces the dashed
// form without braces, so the braces are added here rather than
// reimplementing hex formatting.
func (g GUID) String() string {
	return "{" + g.toUUID().String() + "}"
}

// ParseGUID parses the canonical "{xxxxxxxx-...}" (braces optional) form
// produced by String, used by the GUID round-trip test.
func ParseGUID(s string) (GUID, error) {
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		s = s[1 : len(s)-1]
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("guid: %w: %v", ErrInvalidData, err)
	}
	return guidFromUUID(u), nil
}
