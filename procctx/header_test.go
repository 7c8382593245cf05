package procctx

import "testing"

// TestHeaderFieldRoundTrip verifies that each header field reads back
// exactly what was stored, at the byte offsets the wire layout promises.
func TestHeaderFieldRoundTrip(t *testing.T) {
	b := make([]byte, headerSize)

	if signatureValid(b) {
		t.Fatal("signatureValid true on a zeroed header")
	}

	storeVersion(b, currentVersion)
	storePayloadSize(b, 42)
	storeTimestamp(b, 123456789)
	storePointer(b, 0xdeadbeef)
	storeSignature(b)

	if !signatureValid(b) {
		t.Error("signatureValid false after storeSignature")
	}
	if got := loadVersion(b); got != currentVersion {
		t.Errorf("loadVersion = %d, want %d", got, currentVersion)
	}
	if got := loadPayloadSize(b); got != 42 {
		t.Errorf("loadPayloadSize = %d, want 42", got)
	}
	if got := loadTimestamp(b); got != 123456789 {
		t.Errorf("loadTimestamp = %d, want 123456789", got)
	}
	if got := loadPointer(b); got != 0xdeadbeef {
		t.Errorf("loadPointer = %#x, want %#x", got, 0xdeadbeef)
	}
}

// TestHeaderOffsetsDoNotOverlap verifies the fixed 32-byte layout documented
// in header.go: each field occupies a disjoint range within headerSize.
func TestHeaderOffsetsDoNotOverlap(t *testing.T) {
	type span struct {
		name        string
		start, size int
	}
	spans := []span{
		{"signature", sigOffset, 8},
		{"version", versionOffset, 4},
		{"payloadSize", payloadSizeOffset, 4},
		{"timestamp", timestampOffset, 8},
		{"pointer", pointerOffset, 8},
	}

	for i, a := range spans {
		if a.start+a.size > headerSize {
			t.Errorf("%s span [%d,%d) runs past headerSize %d", a.name, a.start, a.start+a.size, headerSize)
		}
		for j, bSpan := range spans {
			if i == j {
				continue
			}
			if a.start < bSpan.start+bSpan.size && bSpan.start < a.start+a.size {
				t.Errorf("%s span [%d,%d) overlaps %s span [%d,%d)",
					a.name, a.start, a.start+a.size, bSpan.name, bSpan.start, bSpan.start+bSpan.size)
			}
		}
	}
}

// TestClearSignature verifies that clearSignature makes signatureValid false
// again after a valid signature was stored.
func TestClearSignature(t *testing.T) {
	b := make([]byte, headerSize)
	storeSignature(b)
	if !signatureValid(b) {
		t.Fatal("signatureValid false right after storeSignature")
	}
	clearSignature(b)
	if signatureValid(b) {
		t.Error("signatureValid true after clearSignature")
	}
}
