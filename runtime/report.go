package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/justapithecus/pathbench/iox"
	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/types"
)

// reportTimeLayout is the timestamp embedded in report file names.
const reportTimeLayout = "20060102_150405"

// maxNameAttempts bounds the numeric suffixes tried when a report name is taken.
const maxNameAttempts = 100

// ReportWriteError reports a report that could not be persisted.
type ReportWriteError struct {
	Path string
	Err  error
}

func (e *ReportWriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write report: %v", e.Err)
	}
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *ReportWriteError) Unwrap() error {
	return e.Err
}

// ReportWriter persists finished reports under a directory.
type ReportWriter struct {
	dir       string
	format    ReportFormat
	collector *metrics.Collector
}

// NewReportWriter creates a writer for dir. The directory is created on
// first write.
func NewReportWriter(dir string, format ReportFormat, collector *metrics.Collector) *ReportWriter {
	if dir == "" {
		dir = "."
	}
	if format == "" {
		format = FormatJSON
	}
	return &ReportWriter{dir: dir, format: format, collector: collector}
}

// Format returns the writer's encoding.
func (w *ReportWriter) Format() ReportFormat {
	return w.format
}

// ReportName returns the base file name for a report:
// <mode>_<YYYYmmdd_HHMMSS>_<runID8>.<ext>. The timestamp is the run start
// in UTC.
func ReportName(report *types.Report, format ReportFormat) string {
	meta := types.RunMeta{RunID: report.RunID}
	return fmt.Sprintf("%s_%s_%s.%s",
		report.Mode,
		report.StartedAt.UTC().Format(reportTimeLayout),
		meta.ShortID(),
		format.Extension())
}

// Write encodes the report and creates a new file for it, returning the
// path. An existing file is never overwritten: if the name is taken a
// numeric suffix is appended. A partially written file is removed.
func (w *ReportWriter) Write(report *types.Report) (string, error) {
	path, err := w.write(report)
	if err != nil {
		w.collector.IncReportWriteFailure()
		return "", &ReportWriteError{Path: path, Err: err}
	}
	w.collector.IncReportWriteSuccess()
	return path, nil
}

func (w *ReportWriter) write(report *types.Report) (string, error) {
	data, err := EncodeReport(report, w.format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return w.dir, err
	}

	f, path, err := w.create(ReportName(report, w.format))
	if err != nil {
		return path, err
	}

	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		iox.DiscardRemove(path)
		return path, werr
	}
	return path, nil
}

// create opens name exclusively, falling back to name-1, name-2, ...
func (w *ReportWriter) create(name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]

	for attempt := range maxNameAttempts {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, attempt, ext)
		}
		path := filepath.Join(w.dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, path, err
		}
	}
	return nil, filepath.Join(w.dir, name), fmt.Errorf("no free report name after %d attempts", maxNameAttempts)
}

// ReadReport loads a report file, inferring the encoding from its extension.
func ReadReport(path string) (*types.Report, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeReport(data, format)
}

// stamp fills the report's identity and timing fields.
func stamp(report *types.Report, meta *types.RunMeta, finished time.Time) {
	report.SchemaVersion = types.ReportSchemaVersion
	report.Version = types.Version
	report.RunID = meta.RunID
	report.Mode = meta.Mode
	report.StartedAt = meta.StartedAt
	report.FinishedAt = finished
}
