package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pathbench.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("PB_HOOK_TOKEN", "token123")

	path := writeTemp(t, `timeout: 90s
parallel: 4
seed: 18446744073709551615
work_dir: /tmp/pathbench
report:
  dir: ${PB_REPORT_DIR:-reports}
  format: msgpack
solvers:
  - id: dijkstra
    path: ./bin/dijkstra
    build: [gcc, -O2, -o, bin/dijkstra, dijkstra.c]
  - id: astar
    path: ./bin/astar
reference:
  id: ref
  path: ./bin/ref
storage:
  backend: s3
  path: my-bucket/prefix
  dataset: pathbench
  region: us-east-1
  endpoint: https://minio.example.com
  s3_path_style: true
adapter:
  type: webhook
  url: https://hooks.example.com/pathbench
  headers:
    Authorization: Bearer ${PB_HOOK_TOKEN}
  timeout: 10s
  retries: 2
metrics:
  textfile: /var/lib/node_exporter/pathbench.prom
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Timeout.Duration != 90*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.Parallel != 4 || cfg.Seed != 1<<64-1 || cfg.WorkDir != "/tmp/pathbench" {
		t.Errorf("scalars = %d %d %q", cfg.Parallel, cfg.Seed, cfg.WorkDir)
	}
	if cfg.Report.Dir != "reports" || cfg.Report.Format != "msgpack" {
		t.Errorf("report = %+v", cfg.Report)
	}

	specs := cfg.SolverSpecs()
	if len(specs) != 2 || specs[0].ID != "dijkstra" || specs[1].Path != "./bin/astar" {
		t.Fatalf("solvers = %+v", specs)
	}
	if len(specs[0].Build) != 5 || specs[0].Build[0] != "gcc" {
		t.Errorf("build = %v", specs[0].Build)
	}
	if cfg.Reference == nil || cfg.Reference.Spec().ID != "ref" {
		t.Errorf("reference = %+v", cfg.Reference)
	}

	if cfg.Storage.Backend != "s3" || cfg.Storage.Path != "my-bucket/prefix" || !cfg.Storage.S3PathStyle {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Adapter.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("adapter headers = %v", cfg.Adapter.Headers)
	}
	if cfg.Adapter.Timeout.Duration != 10*time.Second || cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 2 {
		t.Errorf("adapter = %+v", cfg.Adapter)
	}
	if cfg.Metrics.Textfile == "" {
		t.Error("metrics textfile not loaded")
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeTemp(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Solvers) != 0 || cfg.Reference != nil {
		t.Errorf("empty config = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "timout: 5s\n", "field timout not found"},
		{"bad duration", "timeout: soon\n", "invalid duration"},
		{"bad yaml", "solvers: [\n", "invalid YAML"},
		{"bad format", "report:\n  format: xml\n", "report.format: must be one of [json msgpack]"},
		{"solver missing path", "solvers:\n  - id: a\n", "solvers[0].path: field is required"},
		{"reference missing id", "reference:\n  path: ./ref\n", "reference.id: field is required"},
		{"duplicate solver", "solvers:\n  - {id: a, path: x}\n  - {id: a, path: y}\n", `duplicate id "a"`},
		{"negative parallel", "parallel: -1\n", "parallel: must be at least 0"},
		{"negative timeout", "timeout: -1s\n", "timeout: must not be negative"},
		{"storage without path", "storage:\n  backend: fs\n", "storage.path: required when backend is set"},
		{"bad backend", "storage:\n  backend: gcs\n  path: x\n", "storage.backend"},
		{"adapter without url", "adapter:\n  type: redis\n", "adapter.url: required when type is set"},
		{"negative retries", "adapter:\n  type: redis\n  url: redis://h\n  retries: -1\n", "adapter.retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional without file: %v", err)
	}
	if cfg == nil || len(cfg.Solvers) != 0 {
		t.Errorf("cfg = %+v", cfg)
	}

	if err := os.WriteFile(DefaultPath, []byte("parallel: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional with default file: %v", err)
	}
	if cfg.Parallel != 3 {
		t.Errorf("parallel = %d, want 3", cfg.Parallel)
	}

	if _, err := LoadOptional("nope.yaml"); err == nil {
		t.Error("explicit missing path should fail")
	}
}
