// Package graph reads and rewrites DIMACS shortest-path graph files.
//
// The format has one problem line `p sp <nodes> <edges>` and edge lines
// `a <u> <v> <weight...>`. Every other line is ignored.
package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/justapithecus/pathbench/iox"
	"github.com/justapithecus/pathbench/types"
)

// Line markers.
const (
	problemMarker = 'p'
	arcMarker     = 'a'
)

// maxLineSize bounds a single line. Road-network lines are short; comment
// headers occasionally are not.
const maxLineSize = 1 << 20

// ReadDescriptor parses the node and edge counts from the problem line.
// The declared edge count is not checked against the edge lines.
func ReadDescriptor(path string) (types.GraphDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.GraphDescriptor{}, err
	}
	defer iox.DiscardClose(f)

	return readDescriptor(path, f)
}

func readDescriptor(path string, r io.Reader) (types.GraphDescriptor, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if len(line) == 0 || line[0] != problemMarker {
			continue
		}
		return parseProblemLine(path, lineNo, line)
	}
	if err := sc.Err(); err != nil {
		return types.GraphDescriptor{}, &MalformedGraphError{Path: path, Line: lineNo, Reason: "read failed", Err: err}
	}
	return types.GraphDescriptor{}, &MalformedGraphError{Path: path, Reason: "no problem line (p sp <nodes> <edges>) found"}
}

// parseProblemLine parses `p <kind> <nodes> <edges>`.
func parseProblemLine(path string, lineNo int, line string) (types.GraphDescriptor, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return types.GraphDescriptor{}, &MalformedGraphError{
			Path:   path,
			Line:   lineNo,
			Reason: fmt.Sprintf("problem line has %d fields, want 4", len(fields)),
		}
	}

	nodes, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return types.GraphDescriptor{}, &MalformedGraphError{Path: path, Line: lineNo, Reason: "node count is not an integer", Err: err}
	}
	edges, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return types.GraphDescriptor{}, &MalformedGraphError{Path: path, Line: lineNo, Reason: "edge count is not an integer", Err: err}
	}
	if nodes < 1 {
		return types.GraphDescriptor{}, &MalformedGraphError{Path: path, Line: lineNo, Reason: fmt.Sprintf("node count %d < 1", nodes)}
	}
	if edges < 0 {
		return types.GraphDescriptor{}, &MalformedGraphError{Path: path, Line: lineNo, Reason: fmt.Sprintf("edge count %d < 0", edges)}
	}

	return types.GraphDescriptor{Path: path, NodeCount: nodes, EdgeCount: edges}, nil
}
