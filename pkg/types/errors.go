package types

import (
	"errors"
	"fmt"

	"github.com/wevtlib/wevtx/internal/format"
)

// ErrKind classifies a public Error by the error domain spec §7 assigns it.
// Each domain groups one or more concrete failure kinds; the domain itself
// is recoverable from Kind.Domain().
type ErrKind int

const (
	// ErrInvalidArgument is Arguments::InvalidValue: a caller-supplied
	// option or parameter was itself malformed (not the decoded data).
	ErrInvalidArgument ErrKind = iota
	// ErrTruncatedData is Input::TruncatedData: a buffer ended before a
	// structure it was decoding did.
	ErrTruncatedData
	// ErrInvalidData is Input::InvalidData: a field had a value the format
	// does not permit (bad token, impossible grammar state). Self-relative
	// descriptor offsets are not checked for cycles.
	ErrInvalidData
	// ErrSignatureMismatch is Input::SignatureMismatch: a structure's magic
	// did not match what its position in the format requires.
	ErrSignatureMismatch
	// ErrValueMismatch is Input::ValueMismatch: a substitution's declared
	// type did not match the value actually stored in its slot.
	ErrValueMismatch
	// ErrUnsupportedValue is Runtime::UnsupportedValue: a structurally
	// valid value used a variant this implementation does not handle.
	ErrUnsupportedValue
	// ErrAbortRequested is Runtime::AbortRequested: the caller's abort
	// hook (RenderOptions.Abort) returned true mid-render.
	ErrAbortRequested
	// ErrInsufficientSpace is Output::InsufficientSpace: a caller-supplied
	// output buffer was too small for the rendered result.
	ErrInsufficientSpace
	// ErrInsufficientMemory is Memory::Insufficient: a parsed count or
	// length exceeded the sanity bound meant to stop hostile input from
	// forcing huge allocations.
	ErrInsufficientMemory
	// ErrNotFound is not itself one of spec §7's domains; it reports a
	// template GUID that Store.Render, or a nested template instance during
	// rendering, could not resolve. The table lookups (Store.Channel,
	// Store.Event, ...) report a miss through their bool result instead.
	ErrNotFound
)

// Domain names the spec §7 error domain a Kind belongs to.
func (k ErrKind) Domain() string {
	switch k {
	case ErrInvalidArgument:
		return "Arguments"
	case ErrTruncatedData, ErrInvalidData, ErrSignatureMismatch, ErrValueMismatch:
		return "Input"
	case ErrUnsupportedValue, ErrAbortRequested:
		return "Runtime"
	case ErrInsufficientSpace:
		return "Output"
	case ErrInsufficientMemory:
		return "Memory"
	case ErrNotFound:
		return "Lookup"
	default:
		return "Unknown"
	}
}

func (k ErrKind) String() string {
	switch k {
	case ErrInvalidArgument:
		return "InvalidValue"
	case ErrTruncatedData:
		return "TruncatedData"
	case ErrInvalidData:
		return "InvalidData"
	case ErrSignatureMismatch:
		return "SignatureMismatch"
	case ErrValueMismatch:
		return "ValueMismatch"
	case ErrUnsupportedValue:
		return "UnsupportedValue"
	case ErrAbortRequested:
		return "AbortRequested"
	case ErrInsufficientSpace:
		return "InsufficientSpace"
	case ErrInsufficientMemory:
		return "Insufficient"
	case ErrNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Error is the public error type returned by this module's decode, lookup,
// and render operations. It carries a stable Kind a caller can switch on
// without depending on message text, plus an optional wrapped cause for
// errors.Is/errors.As chains that reach down into internal sentinels.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wevtx: %s::%s: %s: %v", e.Kind.Domain(), e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("wevtx: %s::%s: %s", e.Kind.Domain(), e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// newError builds an *Error wrapping err with msg.
func newError(kind ErrKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WrapDecodeError maps an internal/format or internal/binxml sentinel error
// to the public ErrKind spec §7 assigns it. Errors that don't match a known
// internal sentinel are reported as ErrInvalidData, since every decode path
// that reaches the public API is parsing caller-supplied bytes.
func WrapDecodeError(msg string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	switch {
	case errors.Is(err, format.ErrTruncated):
		return newError(ErrTruncatedData, msg, err)
	case errors.Is(err, format.ErrSignatureMismatch):
		return newError(ErrSignatureMismatch, msg, err)
	case errors.Is(err, format.ErrValueMismatch):
		return newError(ErrValueMismatch, msg, err)
	case errors.Is(err, format.ErrSanityLimit):
		return newError(ErrInsufficientMemory, msg, err)
	case errors.Is(err, format.ErrUnsupported):
		return newError(ErrUnsupportedValue, msg, err)
	case errors.Is(err, format.ErrNotFound):
		return newError(ErrNotFound, msg, err)
	case errors.Is(err, format.ErrInvalidData):
		return newError(ErrInvalidData, msg, err)
	default:
		return newError(ErrInvalidData, msg, err)
	}
}

// ErrAbort reports that a caller's abort hook interrupted a render.
func ErrAbort() *Error {
	return newError(ErrAbortRequested, "render aborted by caller", nil)
}

// ErrBufferTooSmall reports that RenderOptions.Buffer is too small to hold
// the rendered output (spec §6's Output::InsufficientSpace contract).
func ErrBufferTooSmall(need int) *Error {
	return newError(ErrInsufficientSpace, fmt.Sprintf("output buffer too small, need at least %d bytes", need), nil)
}

// ErrBadArgument reports a caller-supplied option or parameter that is
// itself malformed, independent of any decoded data.
func ErrBadArgument(msg string) *Error {
	return newError(ErrInvalidArgument, msg, nil)
}
