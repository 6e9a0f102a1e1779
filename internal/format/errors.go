package format

import "errors"

// Sentinel errors for the WEVT/Binary-XML decoders. Higher layers wrap these
// with fmt.Errorf("...: %w", ...) so callers can errors.Is/errors.As down to
// a stable category while still seeing the offending field in the message.
var (
	// ErrTruncated indicates the buffer lacked the bytes required for a read.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrInvalidData indicates a structurally malformed field (bad token or
	// impossible grammar transition). The descriptor decoders do not check
	// self-relative offsets for cycles.
	ErrInvalidData = errors.New("format: invalid data")
	// ErrValueMismatch indicates a substitution's declared type didn't match
	// the slot's actual value kind.
	ErrValueMismatch = errors.New("format: value type mismatch")
	// ErrUnsupported indicates a recognized but unhandled structure variant.
	ErrUnsupported = errors.New("format: unsupported value")
	// ErrSanityLimit indicates a parsed count or length exceeded a sanity
	// bound meant to stop hostile input from causing huge allocations.
	ErrSanityLimit = errors.New("format: value exceeds sanity limit")
	// ErrNotFound indicates a requested identifier has no matching descriptor.
	ErrNotFound = errors.New("format: not found")
)
