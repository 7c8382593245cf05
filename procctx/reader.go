//go:build linux && !procctx_noread && !procctx_noop

package procctx

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unsafe"
)

// maxTimestampRetries bounds how many times in total Read samples the
// timestamp while it observes an in-progress update (timestamp == 0) before
// giving up. Readers are
// best-effort; there is no guarantee an update ever finishes in time for a
// given call.
const maxTimestampRetries = 5

// findMapping scans /proc/self/maps for the named OTEL_CTX region and
// returns its start address. It returns 0 if no such region is mapped.
func findMapping() (uintptr, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return 0, fmt.Errorf("procctx: open /proc/self/maps: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 8192), 8192)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "[anon_shmem:OTEL_CTX]") && !strings.Contains(line, "/memfd:OTEL_CTX") {
			continue
		}
		dash := strings.IndexByte(line, '-')
		if dash <= 0 {
			continue
		}
		start, err := strconv.ParseUint(line[:dash], 16, 64)
		if err != nil || start == 0 {
			continue
		}
		return uintptr(start), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("procctx: scan /proc/self/maps: %w", err)
	}
	return 0, nil
}

// Read looks up this process's own published context by scanning
// /proc/self/maps for the named mapping and decoding it in place. It never
// mutates the mapping and may be called from any number of goroutines
// concurrently with each other, with Publish, and with DropCurrent.
func Read() ReadResult {
	addr, err := findMapping()
	if err != nil {
		return readFail(err)
	}
	if addr == 0 {
		return readFail(ErrNoMapping)
	}

	header := unsafe.Slice((*byte)(unsafe.Pointer(addr)), headerSize)

	if !signatureValid(header) || loadVersion(header) != currentVersion {
		return readFail(ErrInvalidHeader)
	}

	var ts uint64
	var payloadSize uint32
	var payloadPtr uintptr

	for attempt := 0; attempt < maxTimestampRetries; attempt++ {
		ts = loadTimestamp(header)
		if ts != 0 {
			payloadSize = loadPayloadSize(header)
			payloadPtr = loadPointer(header)
			break
		}
		time.Sleep(time.Millisecond)
	}
	if ts == 0 {
		return readFail(fmt.Errorf("%w: update in progress after %d attempts", ErrDecodeFailed, maxTimestampRetries))
	}

	payload := unsafe.Slice((*byte)(unsafe.Pointer(payloadPtr)), payloadSize)

	data, err := decodePayload(payload)
	if err != nil {
		return readFail(err)
	}

	// Re-check the timestamp: if it changed while we were decoding, an
	// update raced us and the bytes we just read may be a mix of old and
	// new. Treat that as staleness rather than return a torn snapshot.
	if loadTimestamp(header) != ts {
		return readFail(fmt.Errorf("%w: payload changed during decode", ErrDecodeFailed))
	}

	return readOK(data)
}
