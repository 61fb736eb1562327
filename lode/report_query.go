package lode

import (
	"context"
	"errors"
	"fmt"

	"github.com/justapithecus/lode/lode"

	"github.com/justapithecus/pathbench/types"
)

// ErrNoReportFound is returned when no report matches the query.
var ErrNoReportFound = errors.New("no archived report found")

// ReportFilter narrows QueryLatestReport. Empty fields match everything.
type ReportFilter struct {
	RunID string
	Mode  string
	Day   string
}

// QueryLatestReport finds and decodes the most recent archived report that
// passes the filter.
func QueryLatestReport(ctx context.Context, ds lode.Dataset, filter ReportFilter) (*types.Report, error) {
	snapshots, err := ds.Snapshots(ctx)
	if err != nil {
		return nil, WrapReadError(err, "pathbench/snapshots")
	}

	// Snapshots are ordered by creation time; walk latest first.
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]

		if !snapshotMatchesFilter(snap, "run_id", filter.RunID) ||
			!snapshotMatchesFilter(snap, "mode", filter.Mode) ||
			!snapshotMatchesFilter(snap, "day", filter.Day) {
			continue
		}

		data, err := ds.Read(ctx, snap.ID)
		if err != nil {
			return nil, WrapReadError(err, fmt.Sprintf("pathbench/snapshot/%s", snap.ID))
		}

		// Manifest paths are a coarse pre-filter; record fields are authoritative.
		for _, item := range data {
			record, ok := item.(map[string]any)
			if !ok || record["record_kind"] != RecordKindReport {
				continue
			}
			if !fieldMatches(record, "run_id", filter.RunID) ||
				!fieldMatches(record, "mode", filter.Mode) ||
				!fieldMatches(record, "day", filter.Day) {
				continue
			}
			return reportFromRecord(record)
		}
	}

	return nil, ErrNoReportFound
}

func fieldMatches(record map[string]any, key, want string) bool {
	if want == "" {
		return true
	}
	got, _ := record[key].(string)
	return got == want
}
