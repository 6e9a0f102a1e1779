package types

// DecodeOptions configures Decode (pkg/wevt). The zero value is the
// strictest, most defensive configuration and is safe for untrusted input.
type DecodeOptions struct {
	// MaxSize caps the input buffer Decode will accept, in bytes. Zero
	// means the package default (spec §8's 1 MiB fuzzing ceiling).
	MaxSize int

	// CollectDiagnostics, when true, makes Decode record one entry per
	// unresolved cross-reference (spec §4.5) in Store.Dangling() and one per
	// identifier or GUID collision in Store.Duplicates(). Decode tolerates
	// dangling references either way; when false, both lists stay empty.
	CollectDiagnostics bool
}

// RenderOptions configures Store.Render (pkg/wevt).
type RenderOptions struct {
	// Abort, if non-nil, is polled once per emitted node (spec §5
	// cooperative cancellation). A true return stops the render early
	// with ErrAbortRequested.
	Abort func() bool

	// Buffer, if non-nil, also receives a copy of the rendered bytes (spec
	// §6's size-query-then-retry contract); the rendered string is still
	// returned. Render returns ErrBufferTooSmall, carrying the required
	// size, when it doesn't fit.
	Buffer []byte

	// Indent, off by default (Event Viewer emits compact XML), makes
	// Render insert a newline and one tab per nesting level between
	// sibling elements. Purely additive formatting; it never changes which
	// elements, attributes, or text are produced.
	Indent bool
}
