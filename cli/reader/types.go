// Package reader provides the read side of the CLI: it loads a saved report
// from a file or from the archive and shapes it into the payload shared by
// every output format.
package reader

import "time"

// ReportHeader describes a run without its per-query records.
type ReportHeader struct {
	RunID           string    `json:"run_id" yaml:"run_id"`
	Mode            string    `json:"mode" yaml:"mode"`
	SchemaVersion   string    `json:"schema_version" yaml:"schema_version"`
	Version         string    `json:"version" yaml:"version"`
	Source          string    `json:"source" yaml:"source"`
	GraphPath       string    `json:"graph_path" yaml:"graph_path"`
	NodeCount       int64     `json:"node_count" yaml:"node_count"`
	EdgeCount       int64     `json:"edge_count" yaml:"edge_count"`
	SubgraphNodes   int64     `json:"subgraph_nodes,omitempty" yaml:"subgraph_nodes,omitempty"`
	SubgraphEdges   int64     `json:"subgraph_edges,omitempty" yaml:"subgraph_edges,omitempty"`
	Queries         int       `json:"queries" yaml:"queries"`
	Seed            uint64    `json:"seed" yaml:"seed"`
	TimeoutSeconds  float64   `json:"timeout_seconds" yaml:"timeout_seconds"`
	Parallel        int       `json:"parallel" yaml:"parallel"`
	StartedAt       time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt      time.Time `json:"finished_at" yaml:"finished_at"`
	DurationSeconds float64   `json:"duration_seconds" yaml:"duration_seconds"`
	Mismatches      int64     `json:"mismatches" yaml:"mismatches"`
}

// MismatchRow is one candidate answer that disagreed with the reference.
type MismatchRow struct {
	Query             string `json:"query" yaml:"query"`
	SolverID          string `json:"solver_id" yaml:"solver_id"`
	ReferenceDistance string `json:"reference_distance" yaml:"reference_distance"`
	ReferenceStatus   string `json:"reference_status" yaml:"reference_status"`
	Distance          string `json:"distance" yaml:"distance"`
	Status            string `json:"status" yaml:"status"`
}
