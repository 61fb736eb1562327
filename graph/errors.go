package graph

import "fmt"

// MalformedGraphError reports a graph file that does not follow the
// DIMACS shortest-path layout. It is fatal to a run.
type MalformedGraphError struct {
	// Path is the offending file.
	Path string
	// Line is the 1-based line number, or 0 when the problem is not tied to a line.
	Line int
	// Reason describes what is wrong.
	Reason string
	// Err is the underlying parse or I/O error, if any.
	Err error
}

func (e *MalformedGraphError) Error() string {
	msg := fmt.Sprintf("malformed graph %s", e.Path)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *MalformedGraphError) Unwrap() error {
	return e.Err
}
