// Package procctx publishes a small set of process-identity attributes
// (service name, instance id, environment, version, SDK info, and arbitrary
// resource key/value pairs) into a named, anonymous memory mapping of the
// calling process, so that an out-of-process observer (a profiler, an eBPF
// probe, a debugger, or a shell script scanning /proc/<pid>/maps) can
// extract them without any cooperation from the process: no RPC, no file on
// disk, no signal.
//
// # Platform support
//
//   - Linux: a memfd-backed (falling back to plain anonymous) mapping named
//     OTEL_CTX, excluded from fork inheritance via MADV_DONTFORK.
//   - Everything else, and Linux built with the procctx_noop tag: every
//     mutating operation returns a structured failure; DropCurrent always
//     succeeds trivially.
//   - Building with procctx_noread additionally omits the self-reader and
//     its decoder.
//
// # Concurrency
//
// Publish, DropCurrent, and the internal update are NOT safe to call
// concurrently with themselves or each other; the caller serializes them,
// exactly as it would a single-writer log. Read never mutates and may be
// called from any number of goroutines at any time.
package procctx
