// FILE: chassis/toolchain/runner.go
package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"
)

// Runner supervises a single invocation of an external build tool. The
// supervision loop polls a cooperative stop flag at SpinWaitInterval; Stop
// raises the flag, the child receives SIGTERM, and after GracePeriod without
// an exit it is killed. Context cancellation follows the same
// terminate-then-kill path through the command's Cancel hook.
//
// A Runner is one-shot. Create a new one for each launch.
type Runner struct {
	path   string
	args   []string
	logger *slog.Logger

	cmd     *exec.Cmd
	running atomic.Bool
	stop    atomic.Bool
	done    chan struct{}
	waitErr error
}

// NewRunner prepares a runner for the tool at path with the given arguments.
// A nil logger falls back to slog.Default().
func NewRunner(path string, args []string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		path:   path,
		args:   args,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches the tool and its supervision goroutine. The child inherits
// stdout and stderr so tool diagnostics reach the operator unmodified.
func (r *Runner) Start(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return fmt.Errorf("tool %s already started", r.path)
	}

	cmd := exec.CommandContext(ctx, r.path, r.args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = GracePeriod

	if err := cmd.Start(); err != nil {
		r.running.Store(false)
		return fmt.Errorf("failed to start %s: %w", r.path, err)
	}
	r.cmd = cmd

	r.logger.Debug("tool started", "path", r.path, "pid", cmd.Process.Pid)
	go r.supervise()
	return nil
}

// Run launches the tool and blocks until it exits. Cancellation of ctx
// terminates the child gracefully; callers should treat a context error as a
// requested shutdown rather than a tool failure.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	return r.Wait()
}

// Wait blocks until the supervised tool has exited and returns its exit
// error. An exit forced by Stop reports nil.
func (r *Runner) Wait() error {
	<-r.done
	return r.waitErr
}

// Stop raises the stop flag and waits for the supervision loop to finish,
// bounded by JoinTimeout. Calling Stop on a runner that never started or has
// already exited is a no-op.
func (r *Runner) Stop() error {
	r.stop.Store(true)
	if !r.running.Load() {
		return nil
	}

	select {
	case <-r.done:
		return nil
	case <-time.After(JoinTimeout):
		return fmt.Errorf("tool %s did not stop within %v", r.path, JoinTimeout)
	}
}

// Running reports whether the supervised tool is still alive.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// supervise waits for the child while polling the stop flag. It owns the
// writes to waitErr; close(done) publishes them.
func (r *Runner) supervise() {
	defer close(r.done)
	defer r.running.Store(false)

	exited := make(chan error, 1)
	go func() {
		exited <- r.cmd.Wait()
	}()

	ticker := time.NewTicker(SpinWaitInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-exited:
			r.waitErr = err
			return
		case <-ticker.C:
			if r.stop.Load() {
				r.terminate(exited)
				return
			}
		}
	}
}

// terminate delivers SIGTERM, waits out the grace period, then kills. The
// resulting signal-caused exit status is expected and not recorded as a
// failure.
func (r *Runner) terminate(exited <-chan error) {
	if err := r.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		r.logger.Debug("signal delivery failed", "path", r.path, "error", err)
	}

	select {
	case <-exited:
		// Exited within the grace period
	case <-time.After(GracePeriod):
		r.logger.Warn("tool ignored termination signal, killing", "path", r.path)
		_ = r.cmd.Process.Kill()
		<-exited
	}
}
