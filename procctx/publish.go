package procctx

import (
	"runtime"
	"unsafe"
)

// Publish encodes attrs and installs it as this process's context. If the
// current process already has a context published, Publish updates it in
// place instead of tearing down and recreating the mapping; a forked child
// that inherited a parent's bookkeeping is not considered to have one
// published (see state.isPublished), so it always takes the create path and
// ends up with its own mapping.
//
// Publish must not be called concurrently with itself, with another
// Publish, or with DropCurrent.
func Publish(attrs *Attributes) Result {
	if attrs == nil {
		return fail(ErrNilAttributes)
	}

	ts := timeNowNs()
	if ts == 0 {
		return fail(ErrClockUnavailable)
	}

	if published.isPublished() {
		return update(ts, attrs)
	}

	if !DropCurrent() {
		return fail(ErrDropFailed)
	}

	// Record the publisher pid before creating the mapping, so a
	// concurrent fork can never observe a mapping without one.
	published.publisherPID = currentPID()

	payload, err := encodePayload(attrs)
	if err != nil {
		published.publisherPID = 0
		return fail(err)
	}

	region, err := createRegion(headerSize)
	if err != nil {
		published.publisherPID = 0
		return fail(err)
	}

	var pinner runtime.Pinner
	pinner.Pin(&payload[0])
	ptr := uintptr(unsafe.Pointer(&payload[0]))

	// Populate every field except the signature first; the signature is
	// what tells a reader the mapping is safe to trust, so it must be
	// written last.
	storeVersion(region, currentVersion)
	storePayloadSize(region, uint32(len(payload)))
	storePointer(region, ptr)
	storeTimestamp(region, ts)
	storeSignature(region)
	nameRegion(region)

	published.mapping = region
	published.payload = payload
	published.pinner = pinner

	return ok()
}

// update republishes attrs into the mapping already owned by this process.
func update(ts uint64, attrs *Attributes) Result {
	if !published.isPublished() {
		return fail(ErrNotPublished)
	}

	payload, err := encodePayload(attrs)
	if err != nil {
		return fail(err)
	}

	region := published.mapping

	// Zero the timestamp first so a reader observing it mid-update knows to
	// retry rather than trust a torn read of size/pointer.
	storeTimestamp(region, 0)

	var pinner runtime.Pinner
	pinner.Pin(&payload[0])
	ptr := uintptr(unsafe.Pointer(&payload[0]))

	storePayloadSize(region, uint32(len(payload)))
	storePointer(region, ptr)
	storeTimestamp(region, ts)
	nameRegion(region)

	published.pinner.Unpin()
	published.payload = payload
	published.pinner = pinner

	return ok()
}

// DropCurrent tears down whatever this process has published, if anything.
// It is always safe to call, including when nothing is published, and
// including in a forked child that inherited bookkeeping from a parent: in
// that case the child's pid does not match the recorded publisher pid, so
// the (already-unmapped-by-MADV_DONTFORK) mapping is never touched, and only
// the child's local bookkeeping is cleared.
//
// DropCurrent must not be called concurrently with itself or with Publish.
func DropCurrent() bool {
	pid := published.publisherPID
	mapping := published.mapping
	ownedByThisProcess := mapping != nil && pid == currentPID()

	published.reset()

	if !ownedByThisProcess {
		return true
	}
	return destroyRegion(mapping) == nil
}
