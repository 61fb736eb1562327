package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Spec declares one solver: its id, executable and optional build command.
type Spec struct {
	// ID names the solver in reports. Must be unique within a run.
	ID string
	// Path is the executable to invoke.
	Path string
	// Build is an optional argv run before any query, e.g.
	// ["gcc", "-O2", "-o", "bin/dijkstra", "src/dijkstra.c"].
	Build []string
	// Dir is the working directory for Build. Empty means the current directory.
	Dir string
}

// BuildError reports a solver that could not be made ready: its build
// command failed, or the executable is missing or not executable.
// It is fatal to a run.
type BuildError struct {
	SolverID string
	Reason   string
	// Output is the tail of the build command's combined output, if any.
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	msg := "solver " + e.SolverID + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrNoSolvers is returned (wrapped in a BuildError) when a run has
// nothing to invoke.
var ErrNoSolvers = errors.New("no solvers configured")

const buildOutputLimit = 4 << 10

// Prepare runs the build command, if any, then checks that Path is an
// executable regular file.
func (s Spec) Prepare(ctx context.Context) error {
	if s.ID == "" {
		return &BuildError{SolverID: "<unnamed>", Reason: "missing id"}
	}
	if len(s.Build) > 0 {
		if err := s.runBuild(ctx); err != nil {
			return err
		}
	}
	return checkExecutable(s.ID, s.Path)
}

func (s Spec) runBuild(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, s.Build[0], s.Build[1:]...)
	cmd.Dir = s.Dir
	out := newTailBuffer(buildOutputLimit)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return &BuildError{
			SolverID: s.ID,
			Reason:   fmt.Sprintf("build command %q failed", strings.Join(s.Build, " ")),
			Output:   string(bytes.TrimSpace(out.Bytes())),
			Err:      err,
		}
	}
	return nil
}

func checkExecutable(id, path string) error {
	if path == "" {
		return &BuildError{SolverID: id, Reason: "missing executable path"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &BuildError{SolverID: id, Reason: fmt.Sprintf("executable %s not found", path), Err: err}
	}
	if !info.Mode().IsRegular() {
		return &BuildError{SolverID: id, Reason: fmt.Sprintf("executable %s is not a regular file", path)}
	}
	if info.Mode().Perm()&0o111 == 0 {
		return &BuildError{SolverID: id, Reason: fmt.Sprintf("%s is not executable", path)}
	}
	return nil
}

// PrepareAll prepares every spec in order, stopping at the first failure.
// Solver ids must be unique.
func PrepareAll(ctx context.Context, specs []Spec) error {
	if len(specs) == 0 {
		return &BuildError{SolverID: "-", Reason: "nothing to run", Err: ErrNoSolvers}
	}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if seen[s.ID] {
			return &BuildError{SolverID: s.ID, Reason: "duplicate solver id"}
		}
		seen[s.ID] = true
		if err := s.Prepare(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NewSolvers builds one ProcessSolver per spec, in order.
func NewSolvers(specs []Spec, config ProcessConfig) []Solver {
	out := make([]Solver, 0, len(specs))
	for _, s := range specs {
		c := config
		c.ID = s.ID
		c.Path = s.Path
		out = append(out, NewProcessSolver(c))
	}
	return out
}
