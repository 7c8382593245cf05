//go:build linux && !procctx_noop && !procctx_noread

package procctx

import (
	"syscall"
	"testing"
)

// TestForkIsolation_RealFork exercises the actual MADV_DONTFORK guarantee
// with a bare fork rather than the pid-swap simulation in
// TestForkIsolation_ChildDoesNotTouchParentMapping. A real Go program never
// forks without also exec-ing (os/exec does both in one step), and for good
// reason: after syscall.RawSyscall(SYS_FORK, ...) the child has exactly one
// live OS thread carrying a copy of whatever the forking goroutine's thread
// was doing, while every lock, timer, and background goroutine the runtime
// depended on is gone. The child here does nothing but exit immediately, to
// stay inside the narrow set of operations that are safe before an exec
// that never comes.
func TestForkIsolation_RealFork(t *testing.T) {
	if testing.Short() {
		t.Skip("forks the test binary; skipped in -short")
	}

	resetState(t)
	if res := Publish(testAttributes()); !res.Success {
		t.Fatalf("Publish failed: %s", res.ErrorMessage)
	}

	syscall.ForkLock.Lock()
	pid, _, errno := syscall.RawSyscall(syscall.SYS_FORK, 0, 0, 0)
	if errno != 0 {
		syscall.ForkLock.Unlock()
		t.Fatalf("fork: %v", errno)
	}

	if pid == 0 {
		// Child. mapping is not valid here - MADV_DONTFORK excluded it from
		// this address space - so the only thing left to verify from this
		// side is that we exist as a distinct process, which exiting
		// cleanly already demonstrates. Touch nothing else.
		syscall.Exit(0)
	}
	syscall.ForkLock.Unlock()

	var ws syscall.WaitStatus
	if _, err := syscall.Wait4(int(pid), &ws, 0, nil); err != nil {
		t.Fatalf("wait4: %v", err)
	}
	if !ws.Exited() || ws.ExitStatus() != 0 {
		t.Fatalf("child exited abnormally: %v", ws)
	}

	// The parent's own context must be entirely unaffected by the fork.
	if !published.isPublished() {
		t.Error("parent no longer sees its own context as published after fork")
	}
	read := Read()
	if !read.Success {
		t.Errorf("Read failed in parent after fork: %s", read.ErrorMessage)
	}
}
