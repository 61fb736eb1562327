package runtime

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/types"
)

func sampleReport(runID string, started time.Time) *types.Report {
	q := types.Query{Source: 1, Target: 5}
	return &types.Report{
		SchemaVersion: types.ReportSchemaVersion,
		Version:       types.Version,
		RunID:         runID,
		Mode:          types.ModeBenchmark,
		StartedAt:     started,
		FinishedAt:    started.Add(time.Second),
		Seed:          42,
		Graph:         types.GraphDescriptor{Path: "g.gr", NodeCount: 5, EdgeCount: 4},
		Queries:       types.QuerySet{q},
		Benchmark: &types.BenchmarkResult{Solvers: []types.SolverReport{{
			SolverID:            "a",
			Records:             []types.RunRecord{{Query: q, Distance: 4, ElapsedSeconds: 0.5, WallSeconds: 0.5, Status: types.StatusOK}},
			TotalElapsedSeconds: 0.5,
		}}},
	}
}

var fixedStart = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func TestReportName(t *testing.T) {
	r := sampleReport("0123456789abcdef", fixedStart)
	if got, want := ReportName(r, FormatJSON), "benchmark_20260314_150926_01234567.json"; got != want {
		t.Errorf("ReportName = %q, want %q", got, want)
	}
	r.Mode = types.ModeValidation
	if got, want := ReportName(r, FormatMsgpack), "validation_20260314_150926_01234567.msgpack"; got != want {
		t.Errorf("ReportName = %q, want %q", got, want)
	}
}

func TestReportWriter_SameSecondDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	w := NewReportWriter(dir, FormatJSON, nil)

	first, err := w.Write(sampleReport("aaaaaaaa-1111", fixedStart))
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	second, err := w.Write(sampleReport("bbbbbbbb-2222", fixedStart))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if first == second {
		t.Fatalf("both reports written to %s", first)
	}

	// Same run id in the same second still never overwrites.
	third, err := w.Write(sampleReport("aaaaaaaa-1111", fixedStart))
	if err != nil {
		t.Fatalf("third write: %v", err)
	}
	if third == first {
		t.Fatalf("third write reused %s", first)
	}
	if !strings.HasSuffix(third, "-1.json") {
		t.Errorf("third path = %s, want -1 suffix", third)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Errorf("dir has %d files, want 3", len(entries))
	}
}

func TestReportWriter_RoundTrip(t *testing.T) {
	for _, format := range []ReportFormat{FormatJSON, FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			c := metrics.NewCollector("benchmark", "", "run")
			w := NewReportWriter(filepath.Join(t.TempDir(), "nested", "reports"), format, c)
			want := sampleReport("cafebabe-0000", fixedStart)

			path, err := w.Write(want)
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if filepath.Ext(path) != "."+string(format) {
				t.Errorf("path %s has wrong extension", path)
			}

			got, err := ReadReport(path)
			if err != nil {
				t.Fatalf("ReadReport failed: %v", err)
			}
			if got.RunID != want.RunID || got.Seed != want.Seed || !got.StartedAt.Equal(want.StartedAt) {
				t.Errorf("identity mismatch: %+v", got)
			}
			rec := got.Benchmark.Solvers[0].Records[0]
			if rec.Distance != 4 || rec.Status != types.StatusOK || rec.Query != want.Queries[0] {
				t.Errorf("record mismatch: %+v", rec)
			}
			if s := c.Snapshot(); s.ReportWriteSuccess != 1 {
				t.Errorf("ReportWriteSuccess = %d, want 1", s.ReportWriteSuccess)
			}
		})
	}
}

func TestReportWriter_Failure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	c := metrics.NewCollector("benchmark", "", "run")
	w := NewReportWriter(blocker, FormatJSON, c)

	_, err := w.Write(sampleReport("deadbeef", fixedStart))
	var rwe *ReportWriteError
	if !errors.As(err, &rwe) {
		t.Fatalf("error = %v, want *ReportWriteError", err)
	}
	if s := c.Snapshot(); s.ReportWriteFailure != 1 {
		t.Errorf("ReportWriteFailure = %d, want 1", s.ReportWriteFailure)
	}
}

func TestParseReportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ReportFormat
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"MSGPACK", FormatMsgpack, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseReportFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseReportFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestReadReport_UnknownExtension(t *testing.T) {
	if _, err := ReadReport(filepath.Join(t.TempDir(), "report.txt")); err == nil {
		t.Error("expected error for unknown extension")
	}
}
