package lode

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/justapithecus/pathbench/types"
)

// RecordKindReport marks the record that carries a full report.
const RecordKindReport = "report"

// ReportRecord is the stored form of one run.
// The partition keys and a few summary fields are lifted to the top level
// for filtering; the report itself travels as JSON text so that 64-bit
// values such as the seed survive the JSONL codec unchanged.
type ReportRecord struct {
	// Discriminator
	RecordKind string `json:"record_kind"`

	// Summary
	SchemaVersion string  `json:"schema_version"`
	Version       string  `json:"version"`
	StartedAt     string  `json:"started_at"`
	FinishedAt    string  `json:"finished_at"`
	GraphPath     string  `json:"graph_path"`
	Queries       int     `json:"queries"`
	Solvers       int     `json:"solvers"`
	Mismatches    int64   `json:"mismatches"`
	TimeoutSecs   float64 `json:"timeout_seconds"`

	// Payload
	ReportJSON string `json:"report_json"`

	// Partition keys
	Mode  string `json:"mode"`
	Day   string `json:"day"`
	RunID string `json:"run_id"`
}

// toReportRecordMap converts a report to the map written through the codec.
func toReportRecordMap(report *types.Report, cfg Config) (map[string]any, error) {
	rec, err := toReportRecord(report, cfg)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"record_kind":     rec.RecordKind,
		"schema_version":  rec.SchemaVersion,
		"version":         rec.Version,
		"started_at":      rec.StartedAt,
		"finished_at":     rec.FinishedAt,
		"graph_path":      rec.GraphPath,
		"queries":         rec.Queries,
		"solvers":         rec.Solvers,
		"mismatches":      rec.Mismatches,
		"timeout_seconds": rec.TimeoutSecs,
		"report_json":     rec.ReportJSON,
		"mode":            rec.Mode,
		"day":             rec.Day,
		"run_id":          rec.RunID,
	}, nil
}

func toReportRecord(report *types.Report, cfg Config) (ReportRecord, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("failed to marshal report: %w", err)
	}

	solvers := 0
	switch {
	case report.Benchmark != nil:
		solvers = len(report.Benchmark.Solvers)
	case report.Validation != nil:
		solvers = len(report.Validation.CandidateIDs) + 1
	}
	var mismatches int64
	if report.Metrics != nil {
		mismatches = report.Metrics.Mismatches
	}

	return ReportRecord{
		RecordKind:    RecordKindReport,
		SchemaVersion: report.SchemaVersion,
		Version:       report.Version,
		StartedAt:     report.StartedAt.UTC().Format(time.RFC3339Nano),
		FinishedAt:    report.FinishedAt.UTC().Format(time.RFC3339Nano),
		GraphPath:     report.Graph.Path,
		Queries:       len(report.Queries),
		Solvers:       solvers,
		Mismatches:    mismatches,
		TimeoutSecs:   report.TimeoutSeconds,
		ReportJSON:    string(payload),
		Mode:          cfg.Mode,
		Day:           cfg.Day,
		RunID:         cfg.RunID,
	}, nil
}

// reportFromRecord decodes the report carried by a stored record.
func reportFromRecord(record map[string]any) (*types.Report, error) {
	payload, ok := record["report_json"].(string)
	if !ok || payload == "" {
		return nil, fmt.Errorf("report record %v has no report_json", record["run_id"])
	}
	var report types.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode archived report: %w", err)
	}
	return &report, nil
}
