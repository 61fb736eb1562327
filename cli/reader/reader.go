package reader

import (
	"context"
	"errors"
	"fmt"
	"os"

	golode "github.com/justapithecus/lode/lode"

	"github.com/justapithecus/pathbench/lode"
	"github.com/justapithecus/pathbench/runtime"
	"github.com/justapithecus/pathbench/types"
)

// Reader loads one saved report.
type Reader interface {
	Load(ctx context.Context) (*types.Report, error)
	// Source describes where the report came from, for display.
	Source() string
}

// FileReader loads a report document from disk.
// The encoding is chosen by file extension.
type FileReader struct {
	Path string
}

// Load implements Reader.
func (r FileReader) Load(_ context.Context) (*types.Report, error) {
	if _, err := os.Stat(r.Path); err != nil {
		return nil, fmt.Errorf("report %s: %w", r.Path, err)
	}
	return runtime.ReadReport(r.Path)
}

// Source implements Reader.
func (r FileReader) Source() string { return r.Path }

// ArchiveReader loads the latest archived report matching a filter.
type ArchiveReader struct {
	Dataset golode.Dataset
	Filter  lode.ReportFilter
	// Location names the archive root for display.
	Location string
}

// Load implements Reader.
func (r ArchiveReader) Load(ctx context.Context) (*types.Report, error) {
	if r.Dataset == nil {
		return nil, errors.New("archive reader has no dataset")
	}
	return lode.QueryLatestReport(ctx, r.Dataset, r.Filter)
}

// Source implements Reader.
func (r ArchiveReader) Source() string {
	src := "lode:" + r.Location
	if r.Filter.RunID != "" {
		src += "#" + r.Filter.RunID
	}
	return src
}

// InspectResponse is the payload of the inspect command.
type InspectResponse struct {
	Report     ReportHeader          `json:"report" yaml:"report"`
	Solvers    []types.SolverSummary `json:"solvers" yaml:"solvers"`
	Mismatches []MismatchRow         `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// Inspect loads the report through r and builds its inspect payload.
func Inspect(ctx context.Context, r Reader) (*InspectResponse, error) {
	report, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewInspectResponse(report, r.Source()), nil
}

// NewInspectResponse summarizes a report.
func NewInspectResponse(report *types.Report, source string) *InspectResponse {
	h := ReportHeader{
		RunID:           report.RunID,
		Mode:            string(report.Mode),
		SchemaVersion:   report.SchemaVersion,
		Version:         report.Version,
		Source:          source,
		GraphPath:       report.Graph.Path,
		NodeCount:       report.Graph.NodeCount,
		EdgeCount:       report.Graph.EdgeCount,
		Queries:         len(report.Queries),
		Seed:            report.Seed,
		TimeoutSeconds:  report.TimeoutSeconds,
		Parallel:        report.Parallel,
		StartedAt:       report.StartedAt,
		FinishedAt:      report.FinishedAt,
		DurationSeconds: report.FinishedAt.Sub(report.StartedAt).Seconds(),
	}
	if report.Subgraph != nil {
		h.SubgraphNodes = report.Subgraph.Graph.NodeCount
		h.SubgraphEdges = report.Subgraph.Graph.EdgeCount
	}
	if report.Metrics != nil {
		h.Mismatches = report.Metrics.Mismatches
	}

	return &InspectResponse{
		Report:     h,
		Solvers:    report.Summaries(),
		Mismatches: mismatchRows(report),
	}
}

// mismatchRows lists disagreements in query order, candidates in
// configured order.
func mismatchRows(report *types.Report) []MismatchRow {
	v := report.Validation
	if v == nil {
		return nil
	}
	var rows []MismatchRow
	for _, rec := range v.Records {
		for _, id := range v.CandidateIDs {
			check, ok := rec.PerSolver[id]
			if !ok || check.MatchesReference {
				continue
			}
			rows = append(rows, MismatchRow{
				Query:             rec.Query.String(),
				SolverID:          id,
				ReferenceDistance: distanceCell(rec.ReferenceDistance, rec.ReferenceStatus),
				ReferenceStatus:   string(rec.ReferenceStatus),
				Distance:          distanceCell(check.Distance, check.Status),
				Status:            string(check.Status),
			})
		}
	}
	return rows
}

// distanceCell renders a distance, or "-" when the invocation did not
// complete and the distance carries no answer.
func distanceCell(d types.Distance, status types.Status) string {
	if status != types.StatusOK {
		return "-"
	}
	return d.String()
}
