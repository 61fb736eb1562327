package solver

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/justapithecus/pathbench/types"
)

// DefaultTimeout is the per-invocation wall-clock limit.
const DefaultTimeout = 300 * time.Second

const (
	// stdoutLimit caps captured output. A well-formed answer is one integer.
	stdoutLimit = 4 << 10
	// stderrLimit caps the diagnostic tail kept for failures.
	stderrLimit = 1 << 10
	// pipeGrace bounds how long Wait lingers on pipes held open by
	// descendants after the solver itself has exited.
	pipeGrace = 2 * time.Second
)

// ProcessConfig configures a ProcessSolver.
type ProcessConfig struct {
	// ID is the solver name used in reports.
	ID string
	// Path is the solver executable.
	Path string
	// Timeout is the per-query wall-clock limit. Zero means DefaultTimeout.
	Timeout time.Duration
}

// ProcessSolver runs a solver executable once per query.
// It is safe for concurrent use; every Solve starts a fresh process.
type ProcessSolver struct {
	config ProcessConfig
}

// NewProcessSolver creates a process-backed solver.
func NewProcessSolver(config ProcessConfig) *ProcessSolver {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &ProcessSolver{config: config}
}

// ID returns the configured solver id.
func (s *ProcessSolver) ID() string {
	return s.config.ID
}

// Path returns the executable path.
func (s *ProcessSolver) Path() string {
	return s.config.Path
}

// Timeout returns the effective per-query limit.
func (s *ProcessSolver) Timeout() time.Duration {
	return s.config.Timeout
}

// Solve launches `<path> <graph> <source> <target>` in its own process
// group and classifies the outcome. On timeout or cancellation the whole
// group is killed and the child reaped before Solve returns.
func (s *ProcessSolver) Solve(ctx context.Context, graphPath string, q types.Query) types.Result {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		// No process is started; Wall covers only the check.
		return types.FailureResult(time.Since(start), fmt.Sprintf("cancelled before start: %v", err))
	}

	cmd := exec.Command(s.config.Path, graphPath,
		strconv.FormatInt(q.Source, 10),
		strconv.FormatInt(q.Target, 10))
	isolate(cmd)
	cmd.WaitDelay = pipeGrace

	stdout := newHeadBuffer(stdoutLimit)
	stderr := newTailBuffer(stderrLimit)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return types.FailureResult(time.Since(start), fmt.Sprintf("start %s: %v", s.config.Path, err))
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(s.config.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		wall := time.Since(start)
		if err != nil && cmd.ProcessState == nil {
			return types.FailureResult(wall, fmt.Sprintf("wait: %v", err))
		}
		code, sig := exitOf(cmd.ProcessState)
		if errors.Is(err, exec.ErrWaitDelay) {
			// The solver exited but a descendant kept its output open.
			killGroup(cmd)
		}
		if stdout.Truncated() {
			return types.FailureResult(wall, fmt.Sprintf("output exceeds %d bytes", stdoutLimit))
		}
		return Classify(Exit{
			Code:   code,
			Signal: sig,
			Stdout: stdout.Bytes(),
			Stderr: string(stderr.Bytes()),
		}, wall)

	case <-timer.C:
		killGroup(cmd)
		<-done
		return types.TimeoutResult(time.Since(start), fmt.Sprintf("exceeded %s", s.config.Timeout))

	case <-ctx.Done():
		killGroup(cmd)
		<-done
		return types.FailureResult(time.Since(start), fmt.Sprintf("cancelled: %v", ctx.Err()))
	}
}

var _ Solver = (*ProcessSolver)(nil)
