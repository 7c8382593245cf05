//go:build linux && !procctx_noop

package procctx

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// signatureCStr is a NUL-terminated copy of signatureText for use with
// prctl, which expects a C string pointer for PR_SET_VMA_ANON_NAME.
var signatureCStr = append([]byte(signatureText), 0)

// createRegion allocates a headerSize-byte anonymous mapping, preferring a
// memfd (so the region shows up in /proc/self/maps as /memfd:OTEL_CTX even
// before it is named) and falling back to a plain MAP_ANONYMOUS mapping if
// memfd_create is unavailable. The mapping is marked MADV_DONTFORK so a
// forked child does not inherit it: the child must publish its own context.
func createRegion(size int) ([]byte, error) {
	fd, memfdErr := unix.MemfdCreate("OTEL_CTX", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING|unix.MFD_NOEXEC_SEAL)
	var region []byte
	var err error

	if memfdErr == nil {
		if terr := unix.Ftruncate(fd, int64(size)); terr != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("procctx: ftruncate memfd: %w", terr)
		}
		region, err = unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE)
		closeErr := unix.Close(fd)
		if err != nil {
			return nil, fmt.Errorf("procctx: mmap memfd region: %w", err)
		}
		if closeErr != nil {
			unix.Munmap(region)
			return nil, fmt.Errorf("procctx: close memfd: %w", closeErr)
		}
	} else {
		region, err = unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
		if err != nil {
			return nil, fmt.Errorf("procctx: mmap anonymous region: %w", err)
		}
	}

	if err := unix.Madvise(region, unix.MADV_DONTFORK); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("procctx: madvise MADV_DONTFORK: %w", err)
	}

	return region, nil
}

func destroyRegion(region []byte) error {
	if region == nil {
		return nil
	}
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("procctx: munmap region: %w", err)
	}
	return nil
}

// nameRegion best-effort names the mapping's VMA so it shows up as
// [anon_shmem:OTEL_CTX] in /proc/self/maps, letting readers find it by name
// and letting an eBPF probe hooked on prctl observe the call even on kernels
// where CONFIG_ANON_VMA_NAME is unavailable and the call itself fails.
func nameRegion(region []byte) {
	_ = unix.Prctl(
		unix.PR_SET_VMA,
		unix.PR_SET_VMA_ANON_NAME,
		uintptr(unsafe.Pointer(&region[0])),
		uintptr(len(region)),
		uintptr(unsafe.Pointer(&signatureCStr[0])),
	)
}
