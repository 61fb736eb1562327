// Package render provides output rendering for the pathbench CLI.
//
// Format selection:
//   - If output is a TTY, default to table
//   - If output is not a TTY, default to json
//   - --format always overrides the default
//   - Invalid formats are errors
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/justapithecus/pathbench/cli/reader"
	"github.com/justapithecus/pathbench/cli/tui"
	"github.com/justapithecus/pathbench/types"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string. An empty string parses to the empty
// Format so the caller can apply its default.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTable, FormatYAML, "":
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer writes command payloads in one format.
type Renderer struct {
	format Format
	out    io.Writer
}

// NewRenderer creates a stdout renderer, defaulting the format by TTY.
func NewRenderer(format string) (*Renderer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == "" {
		f = FormatJSON
		if isTTY(os.Stdout) {
			f = FormatTable
		}
	}
	return &Renderer{format: f, out: os.Stdout}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer.
func NewRendererWithWriter(format Format, out io.Writer) *Renderer {
	return &Renderer{format: format, out: out}
}

// Format returns the selected format.
func (r *Renderer) Format() Format { return r.format }

// Render outputs the data in the configured format.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		return r.renderTable(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderTUI shows data in the interactive viewer.
func (r *Renderer) RenderTUI(view string, data any) error {
	if !tui.IsTUISupported(view) {
		return fmt.Errorf("--tui is not supported for %s", view)
	}
	return tui.Run(view, data)
}

func (r *Renderer) renderTable(data any) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	switch d := data.(type) {
	case *reader.InspectResponse:
		writeInspect(w, d)
	case []types.SolverSummary:
		writeSummaries(w, d)
	default:
		writeFields(w, reflect.ValueOf(data))
	}
	return w.Flush()
}

func writeInspect(w io.Writer, resp *reader.InspectResponse) {
	writeFields(w, reflect.ValueOf(resp.Report))
	fmt.Fprintln(w)
	writeSummaries(w, resp.Solvers)
	if len(resp.Mismatches) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "QUERY\tSOLVER\tREFERENCE\tREF STATUS\tDISTANCE\tSTATUS")
	for _, m := range resp.Mismatches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Query, m.SolverID, m.ReferenceDistance, m.ReferenceStatus, m.Distance, m.Status)
	}
}

func writeSummaries(w io.Writer, rows []types.SolverSummary) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no solvers)")
		return
	}
	validation := false
	for _, s := range rows {
		if s.Role != types.RoleSolver {
			validation = true
		}
	}

	header := "SOLVER\tROLE\tQUERIES\tOK\tTIMEOUT\tFAILED\tUNREACHABLE\tTOTAL (s)"
	if validation {
		header += "\tMATCH\tMISMATCH"
	}
	fmt.Fprintln(w, header)
	for _, s := range rows {
		line := fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.3f",
			s.SolverID, s.Role, s.Queries, s.OK, s.Timeouts, s.Failures, s.Unreachable, s.TotalElapsedSeconds)
		if validation {
			if s.Role == types.RoleCandidate {
				line += fmt.Sprintf("\t%d\t%d", s.Matches, s.Mismatches)
			} else {
				line += "\t-\t-"
			}
		}
		fmt.Fprintln(w, line)
	}
}

// writeFields prints a struct or map as "key:<tab>value" lines.
func writeFields(w io.Writer, v reflect.Value) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			name, omitEmpty := fieldName(t.Field(i))
			f := v.Field(i)
			if name == "" || (omitEmpty && f.IsZero()) {
				continue
			}
			fmt.Fprintf(w, "%s:\t%s\n", name, formatValue(f))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			fmt.Fprintf(w, "%v:\t%s\n", iter.Key().Interface(), formatValue(iter.Value()))
		}
	default:
		fmt.Fprintf(w, "%s\n", formatValue(v))
	}
}

// fieldName returns the json tag name, or "" for skipped fields.
func fieldName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return "", false
	}
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	return name, strings.Contains(opts, "omitempty")
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	if t, ok := v.Interface().(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		return "{...}"
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// isTTY reports whether f is a character device.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
