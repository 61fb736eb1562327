package graph

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/justapithecus/pathbench/iox"
	"github.com/justapithecus/pathbench/types"
)

// Extract writes the subgraph induced by nodes 1..min(nodes, limit) of src
// to dst. Retained edge lines are copied byte for byte; the problem line is
// regenerated with the retained counts.
func Extract(src, dst string, limit int64) (types.SubgraphDescriptor, error) {
	out, err := os.Create(dst)
	if err != nil {
		return types.SubgraphDescriptor{}, fmt.Errorf("create subgraph file: %w", err)
	}

	sub, err := extractTo(src, dst, out, limit)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close subgraph file: %w", cerr)
	}
	return sub, err
}

// WithSubgraph materializes the subgraph of src in a transient file under
// workDir (os.TempDir when empty), calls fn with its descriptor, and removes
// the file on every exit path.
func WithSubgraph(ctx context.Context, src, workDir string, limit int64, fn func(context.Context, types.SubgraphDescriptor) error) error {
	f, err := os.CreateTemp(workDir, "subgraph-*.gr")
	if err != nil {
		return fmt.Errorf("create transient subgraph: %w", err)
	}
	defer iox.DiscardRemove(f.Name())

	sub, err := extractTo(src, f.Name(), f, limit)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close transient subgraph: %w", cerr)
	}
	if err != nil {
		return err
	}

	return fn(ctx, sub)
}

func extractTo(src, dstName string, w io.Writer, limit int64) (types.SubgraphDescriptor, error) {
	if limit < 1 {
		return types.SubgraphDescriptor{}, fmt.Errorf("subgraph node limit must be >= 1, got %d", limit)
	}

	desc, err := ReadDescriptor(src)
	if err != nil {
		return types.SubgraphDescriptor{}, err
	}
	retained := min(desc.NodeCount, limit)

	f, err := os.Open(src)
	if err != nil {
		return types.SubgraphDescriptor{}, err
	}
	defer iox.DiscardClose(f)

	kept, scanned, err := filterArcs(src, f, retained)
	if err != nil {
		return types.SubgraphDescriptor{}, err
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p sp %d %d\n", retained, len(kept)); err != nil {
		return types.SubgraphDescriptor{}, err
	}
	for _, line := range kept {
		if _, err := bw.Write(line); err != nil {
			return types.SubgraphDescriptor{}, err
		}
	}
	if err := bw.Flush(); err != nil {
		return types.SubgraphDescriptor{}, err
	}

	return types.SubgraphDescriptor{
		Graph: types.GraphDescriptor{
			Path:      dstName,
			NodeCount: retained,
			EdgeCount: int64(len(kept)),
		},
		SourcePath:          src,
		NodeLimit:           limit,
		SourceDeclaredEdges: desc.EdgeCount,
		SourceEdgeLines:     scanned,
	}, nil
}

// filterArcs returns the arc lines whose endpoints both lie in [1, retained],
// each terminated by a newline, plus the number of arc lines scanned.
func filterArcs(path string, r io.Reader, retained int64) ([][]byte, int64, error) {
	br := bufio.NewReaderSize(r, 256*1024)

	var (
		kept    [][]byte
		scanned int64
		lineNo  int
	)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if line[0] == arcMarker {
				scanned++
				u, v, perr := parseArcEndpoints(line)
				if perr != nil {
					return nil, 0, &MalformedGraphError{Path: path, Line: lineNo, Reason: "bad arc line", Err: perr}
				}
				if inRange(u, retained) && inRange(v, retained) {
					if line[len(line)-1] != '\n' {
						line = append(line, '\n')
					}
					kept = append(kept, line)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return kept, scanned, nil
		}
		if err != nil {
			return nil, 0, &MalformedGraphError{Path: path, Line: lineNo, Reason: "read failed", Err: err}
		}
	}
}

func parseArcEndpoints(line []byte) (int64, int64, error) {
	fields := bytes.Fields(line)
	if len(fields) < 3 {
		return 0, 0, fmt.Errorf("arc line has %d fields, want at least 3", len(fields))
	}
	u, err := strconv.ParseInt(string(fields[1]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseInt(string(fields[2]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return u, v, nil
}

func inRange(node, retained int64) bool {
	return node >= 1 && node <= retained
}
