package procctx

import "runtime"

// published is the process-wide state of the currently published context.
// Exactly one context can be active per process; Publish, the internal
// update, and DropCurrent all operate on this single global, exactly as the
// package doc promises: none of them may be called concurrently with
// another.
var published state

type state struct {
	// publisherPID is the pid that created mapping. MADV_DONTFORK means a
	// forked child's copy of this struct (inherited via regular Go-heap
	// copy-on-write, since state itself is ordinary process memory) points
	// at a mapping that no longer exists in the child's address space; the
	// pid mismatch is how isPublished tells the two apart.
	publisherPID int

	// mapping is the mmap'd header region, or nil if nothing is published.
	mapping []byte

	// payload is the most recently published payload bytes, pinned so the
	// raw address stored in mapping's pointer field stays valid.
	payload []byte

	pinner runtime.Pinner
}

// isPublished reports whether the current process is the one that published
// the active mapping. A forked child observes its parent's pid here and
// must not touch mapping.
func (s *state) isPublished() bool {
	return s.mapping != nil && s.publisherPID == currentPID()
}

// reset unpins the payload and clears the bookkeeping. It does not touch the
// OS mapping; callers that own the mapping must unmap it themselves.
func (s *state) reset() {
	s.pinner.Unpin()
	s.publisherPID = 0
	s.mapping = nil
	s.payload = nil
}
