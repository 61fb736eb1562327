package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/pathbench/types"
)

// ReportFormat selects the on-disk encoding of a report.
type ReportFormat string

const (
	// FormatJSON is indented JSON, the default.
	FormatJSON ReportFormat = "json"
	// FormatMsgpack is MessagePack, for large benchmark runs.
	FormatMsgpack ReportFormat = "msgpack"
)

// ParseReportFormat validates a format name. Empty means FormatJSON.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want json or msgpack)", s)
	}
}

// Extension returns the file extension without the dot.
func (f ReportFormat) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the encoding.
func (f ReportFormat) ContentType() string {
	if f == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// FormatFromPath infers the format from a report file extension.
func FormatFromPath(path string) (ReportFormat, error) {
	return ParseReportFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// EncodeReport serializes a report.
func EncodeReport(report *types.Report, format ReportFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.UseCompactInts(true)
		if err := enc.Encode(report); err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// DecodeReport parses a report produced by EncodeReport.
func DecodeReport(data []byte, format ReportFormat) (*types.Report, error) {
	var report types.Report
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
	return &report, nil
}
