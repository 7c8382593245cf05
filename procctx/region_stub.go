//go:build !linux || procctx_noop

package procctx

// On non-Linux platforms, and whenever the procctx_noop build tag is set,
// there is no mapping to create: every mutating operation fails with
// ErrNoop, and DropCurrent is trivially a no-op.
func createRegion(size int) ([]byte, error) {
	return nil, ErrNoop
}

func destroyRegion(region []byte) error {
	return nil
}

func nameRegion(region []byte) {}
