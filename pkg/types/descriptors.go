package types

import "github.com/wevtlib/wevtx/internal/format"

// GUID is Microsoft's mixed-endian 16-byte globally unique identifier (spec
// §3), re-exported so callers never need to import internal/format directly.
type GUID = format.GUID

// Provider is the root descriptor graph decoded from one WEVT resource
// (spec §3 "Provider"): the eight element tables plus the provider's own
// identity GUID.
type Provider = format.Provider

// Channel, Event, Keyword, Level, Opcode, Task, Map, Template, MapEntry and
// InputDescriptor are the per-element descriptor views spec §3 and §4
// define; see internal/format for field-level documentation.
type (
	Channel         = format.Channel
	Event           = format.Event
	Keyword         = format.Keyword
	Level           = format.Level
	Opcode          = format.Opcode
	Task            = format.Task
	Map             = format.Map
	MapEntry        = format.MapEntry
	Template        = format.Template
	InputDescriptor = format.InputDescriptor
)
