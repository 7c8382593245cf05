//go:build !linux || procctx_noread || procctx_noop

package procctx

// Read is unavailable on this platform, or the module was built with
// procctx_noread or procctx_noop, so it always fails.
func Read() ReadResult {
	return readFail(ErrNoop)
}
