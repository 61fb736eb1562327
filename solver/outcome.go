package solver

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/justapithecus/pathbench/types"
)

// Exit describes how a solver process finished.
type Exit struct {
	// Code is the exit status, or -1 when the process did not exit normally.
	Code int
	// Signal names the terminating signal, empty for a normal exit.
	Signal string
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the tail of standard error, used as diagnostic detail.
	Stderr string
}

// Classify maps a finished invocation onto a three-way result.
//
// Rules, in order:
//   - death by signal: failure
//   - empty output: unreachable, whatever the exit code
//   - "-1": unreachable
//   - any other non-negative integer: that distance, whatever the exit code
//   - anything else: failure
func Classify(exit Exit, wall time.Duration) types.Result {
	if exit.Signal != "" {
		return types.FailureResult(wall, withStderr(fmt.Sprintf("killed by signal %s", exit.Signal), exit.Stderr))
	}

	out := bytes.TrimSpace(exit.Stdout)
	if len(out) == 0 {
		res := okResult(types.Unreachable, wall)
		if exit.Code != 0 {
			res.Detail = withStderr(fmt.Sprintf("exit status %d with no output", exit.Code), exit.Stderr)
		}
		return res
	}

	n, err := strconv.ParseInt(string(out), 10, 64)
	if err != nil {
		return types.FailureResult(wall, withStderr(fmt.Sprintf("unparsable output %q (exit status %d)", truncate(out, 64), exit.Code), exit.Stderr))
	}
	switch {
	case n == int64(types.Unreachable):
		return okResult(types.Unreachable, wall)
	case n < 0:
		return types.FailureResult(wall, withStderr(fmt.Sprintf("negative distance %d", n), exit.Stderr))
	default:
		return okResult(types.Distance(n), wall)
	}
}

func okResult(d types.Distance, wall time.Duration) types.Result {
	return types.Result{Distance: d, Status: types.StatusOK, Elapsed: wall, Wall: wall}
}

func withStderr(msg, stderr string) string {
	stderr = string(bytes.TrimSpace([]byte(stderr)))
	if stderr == "" {
		return msg
	}
	return msg + ": " + stderr
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
