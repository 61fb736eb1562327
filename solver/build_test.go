package solver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSpecPrepare_Executable(t *testing.T) {
	spec := Spec{ID: "dijkstra", Path: writeStub(t, `echo 1`)}
	if err := spec.Prepare(t.Context()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
}

func TestSpecPrepare_Errors(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"missing id", Spec{Path: plain}, "missing id"},
		{"missing path", Spec{ID: "a"}, "missing executable path"},
		{"missing file", Spec{ID: "a", Path: filepath.Join(dir, "nope")}, "not found"},
		{"directory", Spec{ID: "a", Path: dir}, "not a regular file"},
		{"not executable", Spec{ID: "a", Path: plain}, "not executable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Prepare(t.Context())
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("error = %v, want *BuildError", err)
			}
			if !strings.Contains(be.Error(), tt.want) {
				t.Errorf("Error() = %q, want it to contain %q", be.Error(), tt.want)
			}
		})
	}
}

func TestSpecPrepare_RunsBuild(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "solver")
	spec := Spec{
		ID:    "built",
		Path:  target,
		Build: []string{"sh", "-c", "printf '#!/bin/sh\\necho 7\\n' > solver && chmod +x solver"},
		Dir:   dir,
	}
	if err := spec.Prepare(t.Context()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	res := NewProcessSolver(ProcessConfig{ID: spec.ID, Path: spec.Path, Timeout: 5 * time.Second}).
		Solve(t.Context(), "g.gr", testQuery)
	if res.Distance != 7 {
		t.Errorf("built solver answered %v, want 7", res.Distance)
	}
}

func TestSpecPrepare_BuildFailure(t *testing.T) {
	writeStub(t, "") // skips on platforms without sh
	spec := Spec{
		ID:    "broken",
		Path:  "/nonexistent",
		Build: []string{"sh", "-c", "echo 'dijkstra.c:3: error: expected ;' >&2; exit 1"},
	}
	err := spec.Prepare(t.Context())
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BuildError", err)
	}
	if be.SolverID != "broken" {
		t.Errorf("SolverID = %q, want broken", be.SolverID)
	}
	if !strings.Contains(be.Output, "expected ;") {
		t.Errorf("Output = %q, want compiler message", be.Output)
	}
}

func TestPrepareAll(t *testing.T) {
	stub := writeStub(t, `echo 1`)

	t.Run("empty", func(t *testing.T) {
		err := PrepareAll(t.Context(), nil)
		if !errors.Is(err, ErrNoSolvers) {
			t.Errorf("error = %v, want ErrNoSolvers", err)
		}
		var be *BuildError
		if !errors.As(err, &be) {
			t.Errorf("error = %v, want *BuildError", err)
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		err := PrepareAll(t.Context(), []Spec{{ID: "a", Path: stub}, {ID: "a", Path: stub}})
		if err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Errorf("error = %v, want duplicate id error", err)
		}
	})

	t.Run("ok", func(t *testing.T) {
		if err := PrepareAll(t.Context(), []Spec{{ID: "a", Path: stub}, {ID: "b", Path: stub}}); err != nil {
			t.Errorf("PrepareAll failed: %v", err)
		}
	})
}

func TestNewSolvers_PreservesOrder(t *testing.T) {
	specs := []Spec{{ID: "b", Path: "/x/b"}, {ID: "a", Path: "/x/a"}}
	solvers := NewSolvers(specs, ProcessConfig{Timeout: time.Second})
	if len(solvers) != 2 || solvers[0].ID() != "b" || solvers[1].ID() != "a" {
		t.Fatalf("unexpected solvers: %v", solvers)
	}
	if ps := solvers[0].(*ProcessSolver); ps.Timeout() != time.Second || ps.Path() != "/x/b" {
		t.Errorf("config not propagated: %+v", ps.config)
	}
}
