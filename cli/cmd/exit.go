package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/pathbench/lode"
	"github.com/justapithecus/pathbench/runtime"
	"github.com/justapithecus/pathbench/solver"
)

// Exit codes for bench and check.
const (
	exitSuccess      = 0
	exitInvalidInput = 1
	exitBuildError   = 2
	exitPersistence  = 3
)

// exitCode classifies a run error.
// Malformed graphs, impossible sampling domains, bad configuration,
// missing files and cancellation are all invalid input.
func exitCode(err error) int {
	var buildErr *solver.BuildError
	var reportErr *runtime.ReportWriteError
	var storageErr *lode.StorageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &buildErr):
		return exitBuildError
	case errors.As(err, &reportErr), errors.As(err, &storageErr):
		return exitPersistence
	default:
		return exitInvalidInput
	}
}

// exitError converts a run error into a cli.ExitCoder carrying its code.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return err
	}
	return cli.Exit(fmt.Sprintf("pathbench: %v", err), exitCode(err))
}
