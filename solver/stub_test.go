package solver

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/justapithecus/pathbench/types"
)

var testQuery = types.Query{Source: 3, Target: 5}

// writeStub writes an executable shell script that stands in for a solver.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "solver.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}
