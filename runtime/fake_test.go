package runtime

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/justapithecus/pathbench/types"
)

// fakeSolver answers from a function and records the queries it saw.
type fakeSolver struct {
	id     string
	answer func(q types.Query) types.Result

	mu   sync.Mutex
	seen []types.Query
}

func (f *fakeSolver) ID() string { return f.id }

func (f *fakeSolver) Solve(_ context.Context, _ string, q types.Query) types.Result {
	f.mu.Lock()
	f.seen = append(f.seen, q)
	f.mu.Unlock()
	return f.answer(q)
}

func ok(d types.Distance, wall time.Duration) types.Result {
	return types.Result{Distance: d, Status: types.StatusOK, Elapsed: wall, Wall: wall}
}

// sumSolver answers source+target, which makes records easy to check.
func sumSolver(id string) *fakeSolver {
	return &fakeSolver{id: id, answer: func(q types.Query) types.Result {
		return ok(types.Distance(q.Source+q.Target), 10*time.Millisecond)
	}}
}

func writeFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeStub(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	return writeFile(t, t.TempDir(), name, "#!/bin/sh\n"+body+"\n", 0o755)
}

// pathGraph is the 5-node path 1-2-3-4-5 with unit weights.
const pathGraph = `c five node path
p sp 5 4
a 1 2 1
a 2 3 1
a 3 4 1
a 4 5 1
`
