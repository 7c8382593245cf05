package procctx

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// The mapping is a fixed 32-byte header; the payload bytes live separately,
// in a pinned Go buffer, reached through the pointer field below. The field
// order is part of the external wire contract and must never change.
//
//	offset  size  field
//	0       8     signature ("OTEL_CTX")
//	8       4     version
//	12      4     payload size
//	16      8     published-at, nanoseconds since epoch (the commit field)
//	24      8     pointer to the payload bytes
//
// Go exposes no bare store fence, so every field here is read and written
// through sync/atomic; an atomic store of the commit field gives readers the
// same happens-before guarantee a fence followed by a plain store would.
const (
	signatureText  = "OTEL_CTX"
	currentVersion = uint32(2)

	sigOffset         = 0
	versionOffset     = 8
	payloadSizeOffset = 12
	timestampOffset   = 16
	pointerOffset     = 24
	headerSize        = 32
)

var sigHalf0, sigHalf1 uint32

func init() {
	sigHalf0 = binary.LittleEndian.Uint32([]byte(signatureText[0:4]))
	sigHalf1 = binary.LittleEndian.Uint32([]byte(signatureText[4:8]))
}

func u32At(b []byte, off int) *uint32 { return (*uint32)(unsafe.Pointer(&b[off])) }
func u64At(b []byte, off int) *uint64 { return (*uint64)(unsafe.Pointer(&b[off])) }

// clearSignature zeroes the signature field so a partially-written header is
// never mistaken for a valid one.
func clearSignature(b []byte) {
	atomic.StoreUint32(u32At(b, sigOffset), 0)
	atomic.StoreUint32(u32At(b, sigOffset+4), 0)
}

// storeSignature writes the signature. Callers must write it last, after
// every other field, so that observing a valid signature guarantees every
// other field is the value it is meant to be read alongside.
func storeSignature(b []byte) {
	atomic.StoreUint32(u32At(b, sigOffset), sigHalf0)
	atomic.StoreUint32(u32At(b, sigOffset+4), sigHalf1)
}

func signatureValid(b []byte) bool {
	return atomic.LoadUint32(u32At(b, sigOffset)) == sigHalf0 &&
		atomic.LoadUint32(u32At(b, sigOffset+4)) == sigHalf1
}

func storeVersion(b []byte, v uint32) { atomic.StoreUint32(u32At(b, versionOffset), v) }
func loadVersion(b []byte) uint32     { return atomic.LoadUint32(u32At(b, versionOffset)) }

func storePayloadSize(b []byte, v uint32) { atomic.StoreUint32(u32At(b, payloadSizeOffset), v) }
func loadPayloadSize(b []byte) uint32     { return atomic.LoadUint32(u32At(b, payloadSizeOffset)) }

// storeTimestamp installs the commit timestamp. A value of zero marks an
// update in progress; readers that observe zero should retry rather than
// treat the mapping as unpublished.
func storeTimestamp(b []byte, v uint64) { atomic.StoreUint64(u64At(b, timestampOffset), v) }
func loadTimestamp(b []byte) uint64     { return atomic.LoadUint64(u64At(b, timestampOffset)) }

func storePointer(b []byte, p uintptr) { atomic.StoreUint64(u64At(b, pointerOffset), uint64(p)) }
func loadPointer(b []byte) uintptr     { return uintptr(atomic.LoadUint64(u64At(b, pointerOffset))) }
