package types

import "fmt"

// GraphDescriptor describes a graph file by its declared metadata line.
// Immutable once parsed.
type GraphDescriptor struct {
	// Path is the graph file location.
	Path string `json:"path" msgpack:"path"`
	// NodeCount is the declared node count (>= 1).
	NodeCount int64 `json:"node_count" msgpack:"node_count"`
	// EdgeCount is the declared edge count (>= 0).
	EdgeCount int64 `json:"edge_count" msgpack:"edge_count"`
}

// SubgraphDescriptor describes a graph restricted to nodes 1..k.
// Graph points at the materialized subgraph file and carries the
// recomputed counts.
type SubgraphDescriptor struct {
	Graph GraphDescriptor `json:"graph" msgpack:"graph"`

	// SourcePath is the graph the subgraph was extracted from.
	SourcePath string `json:"source_path" msgpack:"source_path"`
	// NodeLimit is the requested node limit k.
	NodeLimit int64 `json:"node_limit" msgpack:"node_limit"`
	// SourceDeclaredEdges is the edge count declared by the source metadata line.
	SourceDeclaredEdges int64 `json:"source_declared_edges" msgpack:"source_declared_edges"`
	// SourceEdgeLines is the number of edge lines actually scanned in the source.
	SourceEdgeLines int64 `json:"source_edge_lines" msgpack:"source_edge_lines"`
}

// EdgeCountConsistent reports whether the source file declared as many
// edges as it contained.
func (s SubgraphDescriptor) EdgeCountConsistent() bool {
	return s.SourceDeclaredEdges == s.SourceEdgeLines
}

// Query is an ordered source/target node pair.
type Query struct {
	Source int64 `json:"source" msgpack:"source"`
	Target int64 `json:"target" msgpack:"target"`
}

// String renders the query as "source->target".
func (q Query) String() string {
	return fmt.Sprintf("%d->%d", q.Source, q.Target)
}

// QuerySet is an ordered collection of distinct queries.
// Order is generation order and is significant: records are reported
// positionally against it.
type QuerySet []Query
