package procctx

import "errors"

// Sentinel errors wrapped into the error returned by the package's
// operations. Callers may test for them with errors.Is.
var (
	// ErrNilAttributes is returned by Publish when called with a nil
	// Attributes pointer.
	ErrNilAttributes = errors.New("procctx: attributes is nil")

	// ErrFieldTooLong is returned when a key or value exceeds the 4096-byte
	// per-field limit.
	ErrFieldTooLong = errors.New("procctx: field exceeds 4096 byte limit")

	// ErrNonStringValue is returned when a resource attribute.KeyValue does
	// not carry a string value. The wire format this package writes only
	// ever represents strings.
	ErrNonStringValue = errors.New("procctx: resource attribute value must be a string")

	// ErrOddPairs names the odd-length pair list error. No code path in this
	// package returns it: the encoder works on key/value pair structs, so a
	// pair list cannot have odd length.
	ErrOddPairs = errors.New("procctx: key/value pair list has odd length")

	// ErrNotPublished is returned internally when update is invoked without
	// a context published by the current process.
	ErrNotPublished = errors.New("procctx: no context is published by this process")

	// ErrDropFailed is returned by Publish when the drop-current step it
	// runs before creating a fresh region fails; Publish must not proceed
	// to create a new region on top of a mapping it could not tear down.
	ErrDropFailed = errors.New("procctx: failed to drop previous context")

	// ErrClockUnavailable is returned by Publish when the wall clock cannot
	// be read.
	ErrClockUnavailable = errors.New("procctx: failed to read current time")

	// ErrNoMapping is returned by Read when no OTEL_CTX region is found in
	// /proc/self/maps.
	ErrNoMapping = errors.New("procctx: no OTEL_CTX mapping found")

	// ErrInvalidHeader is returned by Read when a mapping is found but its
	// signature or version does not match what this package writes.
	ErrInvalidHeader = errors.New("procctx: invalid OTEL_CTX signature or version")

	// ErrDecodeFailed is returned by Read when the payload bytes do not
	// decode to a well-formed set of Attributes.
	ErrDecodeFailed = errors.New("procctx: failed to decode payload")

	// ErrNoop is returned by every mutating operation when built with the
	// procctx_noop tag, or on a platform without a real implementation.
	ErrNoop = errors.New("procctx: noop build or unsupported platform")
)
