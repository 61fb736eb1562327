// Package lode archives finished run reports in a Lode dataset.
//
// Each run becomes one snapshot holding a single report record, partitioned
// Hive-style by mode, day and run id. The encoded report document is stored
// next to it as a sidecar file so it can be fetched byte for byte.
package lode

import (
	"context"
	"time"

	"github.com/justapithecus/pathbench/types"
)

// DefaultDataset is the dataset id used when none is configured.
const DefaultDataset = "pathbench"

// partitionKeys is the Hive layout shared by the write and read paths.
var partitionKeys = []string{"mode", "day", "run_id"}

// DeriveDay computes the partition day from run start time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(startTime time.Time) string {
	return startTime.UTC().Format("2006-01-02")
}

// Config holds the archive partition for one run.
type Config struct {
	// Dataset is the Lode dataset ID.
	Dataset string
	// Mode is the run mode partition key.
	Mode string
	// Day is the partition key derived from run start time (YYYY-MM-DD UTC).
	Day string
	// RunID is the run identifier partition key.
	RunID string
}

// ConfigFor derives the partition config of a report.
func ConfigFor(dataset string, report *types.Report) Config {
	if dataset == "" {
		dataset = DefaultDataset
	}
	return Config{
		Dataset: dataset,
		Mode:    string(report.Mode),
		Day:     DeriveDay(report.StartedAt),
		RunID:   report.RunID,
	}
}

// Document is an encoded report ready to be stored as a sidecar file.
type Document struct {
	// Filename is the base name, e.g. benchmark_20260314_150926_0123abcd.json.
	Filename string
	// ContentType is the MIME type of Data.
	ContentType string
	// Data is the encoded report.
	Data []byte
}

// Client archives reports.
// Real implementations write to Lode; stubs are used for testing.
type Client interface {
	// WriteReport stores the report record and, when doc is non-nil,
	// the encoded document as a sidecar file.
	WriteReport(ctx context.Context, report *types.Report, doc *Document) error

	// Close releases client resources.
	Close() error
}

// StubClient is a test client that records writes without persisting.
type StubClient struct {
	Reports   []*types.Report
	Documents []*Document
	Err       error
	Closed    bool
}

// NewStubClient creates a new stub client.
func NewStubClient() *StubClient {
	return &StubClient{}
}

// WriteReport implements Client.
func (c *StubClient) WriteReport(_ context.Context, report *types.Report, doc *Document) error {
	if c.Err != nil {
		return c.Err
	}
	c.Reports = append(c.Reports, report)
	if doc != nil {
		c.Documents = append(c.Documents, doc)
	}
	return nil
}

// Close implements Client.
func (c *StubClient) Close() error {
	c.Closed = true
	return nil
}

// Verify StubClient implements Client.
var _ Client = (*StubClient)(nil)
