// Package wevt is the public façade over this module: Decode a WEVT
// resource buffer into a Store, then query its descriptor tables or Render
// an Event's Binary-XML template against a caller-supplied value array
// (spec §4.5, §4.7).
package wevt

import (
	"github.com/wevtlib/wevtx/internal/format"
	"github.com/wevtlib/wevtx/pkg/types"
)

// Store is a decoded WEVT resource with its eight element tables indexed
// for O(1) cross-reference lookup. Cross-references that don't resolve are
// tolerated at decode time (spec §4.5) and surfaced through Dangling.
type Store struct {
	provider format.Provider

	channels  map[uint32]format.Channel
	levels    map[uint8]format.Level
	opcodes   map[uint8]format.Opcode
	tasks     map[uint16]format.Task
	keywords  []format.Keyword // scanned by mask, not keyed
	maps      map[uint32]format.Map
	templates map[format.GUID]format.Template

	dangling   []types.DanglingRef
	duplicates []types.DuplicateRef
}

// Decode parses buf as a complete WEVT resource (spec §4.5) and builds the
// cross-reference indexes Store.Channel/Level/Opcode/.../Render use.
//
// Decode always succeeds on structurally valid input even when an Event
// names an identifier no descriptor table actually has; those gaps are
// collected into Store.Dangling, never turned into a decode failure, per
// spec §4.5's "unresolved references are tolerated ... but observable via
// a query API".
func Decode(buf []byte, opts types.DecodeOptions) (*Store, error) {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = 1 << 20 // spec §8's 1 MiB fuzzing ceiling, reused as the default cap
	}
	if len(buf) > maxSize {
		return nil, types.ErrBadArgument("input exceeds configured MaxSize")
	}

	p, err := format.DecodeProvider(buf)
	if err != nil {
		return nil, types.WrapDecodeError("decode provider", err)
	}

	s := &Store{
		provider:  p,
		channels:  make(map[uint32]format.Channel, len(p.Channels)),
		levels:    make(map[uint8]format.Level, len(p.Levels)),
		opcodes:   make(map[uint8]format.Opcode, len(p.Opcodes)),
		tasks:     make(map[uint16]format.Task, len(p.Tasks)),
		keywords:  p.Keywords,
		maps:      make(map[uint32]format.Map, len(p.Maps)),
		templates: make(map[format.GUID]format.Template, len(p.Templates)),
	}
	collectDuplicates := opts.CollectDiagnostics

	for _, c := range p.Channels {
		if collectDuplicates {
			if _, exists := s.channels[c.ID]; exists {
				s.duplicates = append(s.duplicates, types.DuplicateRef{Kind: types.RefChannel, ID: c.ID})
			}
		}
		s.channels[c.ID] = c
	}
	for _, l := range p.Levels {
		id := uint8(l.ID())
		if collectDuplicates {
			if _, exists := s.levels[id]; exists {
				s.duplicates = append(s.duplicates, types.DuplicateRef{Kind: types.RefLevel, ID: uint32(id)})
			}
		}
		s.levels[id] = l
	}
	for _, o := range p.Opcodes {
		id := uint8(o.ID())
		if collectDuplicates {
			if _, exists := s.opcodes[id]; exists {
				s.duplicates = append(s.duplicates, types.DuplicateRef{Kind: types.RefOpcode, ID: uint32(id)})
			}
		}
		s.opcodes[id] = o
	}
	for _, t := range p.Tasks {
		id := uint16(t.ID)
		if collectDuplicates {
			if _, exists := s.tasks[id]; exists {
				s.duplicates = append(s.duplicates, types.DuplicateRef{Kind: types.RefTask, ID: uint32(id)})
			}
		}
		s.tasks[id] = t
	}
	for i, m := range p.Maps {
		s.maps[uint32(i)] = m
	}
	for _, t := range p.Templates {
		if collectDuplicates {
			if _, exists := s.templates[t.GUID]; exists {
				s.duplicates = append(s.duplicates, types.DuplicateRef{Kind: types.RefTemplate, GUID: t.GUID})
			}
		}
		s.templates[t.GUID] = t
	}

	if opts.CollectDiagnostics {
		s.scanDangling()
	}
	return s, nil
}

// scanDangling walks every Event's cross-references and records the ones
// with no matching descriptor. Event.KeywordMask is a bitwise-OR of keyword
// bits, not a single identifier equal to one Keyword.Mask() value, so it is
// reported only when no defined keyword shares any bit with it; a mask with
// some defined and some undefined bits is not reported.
func (s *Store) scanDangling() {
	for _, e := range s.provider.Events {
		if _, ok := s.channels[e.ChannelID]; !ok && e.ChannelID != 0 {
			s.dangling = append(s.dangling, types.DanglingRef{EventID: e.ID, EventVersion: e.Version, Kind: types.RefChannel, ID: e.ChannelID})
		}
		if _, ok := s.levels[e.LevelID]; !ok && e.LevelID != 0 {
			s.dangling = append(s.dangling, types.DanglingRef{EventID: e.ID, EventVersion: e.Version, Kind: types.RefLevel, ID: uint32(e.LevelID)})
		}
		if _, ok := s.opcodes[e.OpcodeID]; !ok && e.OpcodeID != 0 {
			s.dangling = append(s.dangling, types.DanglingRef{EventID: e.ID, EventVersion: e.Version, Kind: types.RefOpcode, ID: uint32(e.OpcodeID)})
		}
		if _, ok := s.tasks[e.TaskID]; !ok && e.TaskID != 0 {
			s.dangling = append(s.dangling, types.DanglingRef{EventID: e.ID, EventVersion: e.Version, Kind: types.RefTask, ID: uint32(e.TaskID)})
		}
		if e.KeywordMask != 0 && !s.anyKeywordMatches(e.KeywordMask) {
			s.dangling = append(s.dangling, types.DanglingRef{EventID: e.ID, EventVersion: e.Version, Kind: types.RefKeyword, ID: uint32(e.KeywordMask)})
		}
		if e.HasTemplate() {
			if _, ok := s.templates[e.TemplateID]; !ok {
				s.dangling = append(s.dangling, types.DanglingRef{EventID: e.ID, EventVersion: e.Version, Kind: types.RefTemplate})
			}
		}
	}
}

func (s *Store) anyKeywordMatches(mask uint64) bool {
	for _, k := range s.keywords {
		if k.Mask()&mask != 0 {
			return true
		}
	}
	return false
}

// GUID returns the provider's own identity GUID.
func (s *Store) GUID() format.GUID { return s.provider.GUID }

// Channel looks up a channel descriptor by identifier.
func (s *Store) Channel(id uint32) (format.Channel, bool) { c, ok := s.channels[id]; return c, ok }

// Level looks up a level descriptor by identifier.
func (s *Store) Level(id uint8) (format.Level, bool) { l, ok := s.levels[id]; return l, ok }

// Opcode looks up an opcode descriptor by identifier.
func (s *Store) Opcode(id uint8) (format.Opcode, bool) { o, ok := s.opcodes[id]; return o, ok }

// Task looks up a task descriptor by identifier.
func (s *Store) Task(id uint16) (format.Task, bool) { t, ok := s.tasks[id]; return t, ok }

// Keywords returns every keyword descriptor whose mask bit is set in mask
// (spec §3: an event's KeywordMask is a bitwise-OR of zero or more
// individually-defined keyword bits, so lookup is a scan, not a key match).
func (s *Store) Keywords(mask uint64) []format.Keyword {
	var out []format.Keyword
	for _, k := range s.keywords {
		if k.Mask()&mask != 0 {
			out = append(out, k)
		}
	}
	return out
}

// Map looks up a value/bitmap map descriptor by the index order it was
// decoded in.
func (s *Store) Map(index uint32) (format.Map, bool) { m, ok := s.maps[index]; return m, ok }

// Template looks up a template descriptor by its GUID (spec §4.7 "Template
// instance: ... resolved by GUID to the provider store").
func (s *Store) Template(guid format.GUID) (format.Template, bool) {
	t, ok := s.templates[guid]
	return t, ok
}

// Events returns every event record in the provider, in decode order.
func (s *Store) Events() []format.Event { return s.provider.Events }

// Event looks up an event record by (id, version) — WEVT allows multiple
// versions of the same event identifier (spec §3).
func (s *Store) Event(id uint32, version uint8) (format.Event, bool) {
	for _, e := range s.provider.Events {
		if e.ID == id && e.Version == version {
			return e, true
		}
	}
	return format.Event{}, false
}

// Dangling returns every cross-reference Decode could not resolve, when
// DecodeOptions.CollectDiagnostics was set (spec §4.5). It is empty
// otherwise, including when the provider genuinely had no dangling refs.
func (s *Store) Dangling() []types.DanglingRef { return s.dangling }

// Duplicates returns every descriptor identifier or GUID collision Decode
// found across the provider's element tables, when
// DecodeOptions.CollectDiagnostics was set (spec §8 Testable Property 6).
// It is empty otherwise, including when every identifier was in fact
// unique.
func (s *Store) Duplicates() []types.DuplicateRef { return s.duplicates }
