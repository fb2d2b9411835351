// FILE: chassis/toolchain/timing.go
package toolchain

import "time"

// Timing constants for child process supervision.
const (
	// SpinWaitInterval is how often the supervision loop polls the
	// cooperative stop flag while the tool runs.
	SpinWaitInterval = 100 * time.Millisecond

	// GracePeriod is how long a signaled tool gets to exit before it is
	// forcibly killed.
	GracePeriod = 5 * time.Second

	// JoinTimeout bounds how long Stop waits for the supervision loop to
	// finish after raising the stop flag.
	JoinTimeout = GracePeriod + 2*time.Second
)
