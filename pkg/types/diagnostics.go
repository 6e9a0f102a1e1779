package types

import "fmt"

// RefKind names which descriptor table a dangling cross-reference points
// into (spec §4.5 "Unresolved references are tolerated ... but must be
// observable via a query API").
type RefKind int

const (
	RefChannel RefKind = iota
	RefLevel
	RefOpcode
	RefTask
	RefKeyword
	RefTemplate
	RefMap
)

func (k RefKind) String() string {
	switch k {
	case RefChannel:
		return "Channel"
	case RefLevel:
		return "Level"
	case RefOpcode:
		return "Opcode"
	case RefTask:
		return "Task"
	case RefKeyword:
		return "Keyword"
	case RefTemplate:
		return "Template"
	case RefMap:
		return "Map"
	default:
		return "Unknown"
	}
}

// DanglingRef reports one cross-reference that a Provider's decode pass
// could not resolve: an Event (identified by EventID/EventVersion) names an
// identifier that has no matching entry in the referenced table. Decoding
// still succeeds per spec §4.5 — the reference is simply left unresolved —
// and every such gap found is collected here instead of silently dropped.
type DanglingRef struct {
	// EventID and EventVersion identify the Event record holding the
	// unresolved reference. EventID is uint32 to match format.Event.ID
	// exactly; truncating it would misreport events above 65535 and could
	// alias two unrelated events onto the same reported id.
	EventID      uint32
	EventVersion uint8

	// Kind names the table the missing identifier belongs to.
	Kind RefKind

	// ID is the raw identifier the Event carried that had no match. For
	// RefKeyword it holds only the low 32 bits of Event.KeywordMask; for
	// RefTemplate it is 0, and the template GUID is not reported.
	ID uint32
}

func (d DanglingRef) String() string {
	return fmt.Sprintf("event %d v%d: dangling %s reference (id=%d)", d.EventID, d.EventVersion, d.Kind, d.ID)
}

// DuplicateRef reports a descriptor identifier or GUID claimed by more than
// one entry in the same table (spec §8 Testable Property 6: "no two
// templates share a GUID; no two channels share an identifier"). Decode
// still succeeds — the later entry wins the table lookup, the same
// last-write-wins rule a plain Go map assignment would give — but every
// collision found is collected here instead of being silently absorbed,
// when DecodeOptions.CollectDiagnostics is set.
type DuplicateRef struct {
	// Kind names the table the collision was found in.
	Kind RefKind

	// ID is the colliding numeric identifier, for every Kind except
	// RefTemplate.
	ID uint32

	// GUID is the colliding identifier for RefTemplate, whose descriptors
	// are keyed by GUID rather than a numeric ID.
	GUID GUID
}

func (d DuplicateRef) String() string {
	if d.Kind == RefTemplate {
		return fmt.Sprintf("duplicate %s guid %s", d.Kind, d.GUID)
	}
	return fmt.Sprintf("duplicate %s identifier (id=%d)", d.Kind, d.ID)
}
