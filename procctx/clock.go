package procctx

import (
	"os"
	"time"
)

// currentPID is a function variable so tests can fake a pid mismatch
// (simulating what a forked child observes) without actually forking.
var currentPID = os.Getpid

// timeNowNs returns the current wall-clock time as nanoseconds since the
// Unix epoch, matching the units the mapping's timestamp field stores.
func timeNowNs() uint64 {
	return uint64(time.Now().UnixNano())
}
