// Package cmd provides CLI commands for the pathbench binary.
package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/pathbench/solver"
)

// Shared flags for read-only output.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// TUIFlag enables Bubble Tea interactive mode (inspect only).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect only)",
	}
)

// ReadOnlyFlags returns the shared output flags. --tui is included
// everywhere so unsupported commands can reject it explicitly.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{FormatFlag, TUIFlag}
}

// storageFlags select the report archive. They override the storage
// section of the config file.
func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "lode-backend",
			Usage: "Archive backend: fs or s3 (empty disables archiving)",
		},
		&cli.StringFlag{
			Name:  "lode-path",
			Usage: "Archive location (fs: directory, s3: bucket/prefix)",
		},
		&cli.StringFlag{
			Name:  "lode-dataset",
			Usage: "Archive dataset id (default pathbench)",
		},
		&cli.StringFlag{
			Name:  "lode-s3-region",
			Usage: "AWS region for the s3 backend (optional, uses default chain)",
		},
		&cli.StringFlag{
			Name:  "lode-s3-endpoint",
			Usage: "Custom S3 endpoint for S3-compatible providers",
		},
		&cli.BoolFlag{
			Name:  "lode-s3-path-style",
			Usage: "Use path-style S3 addressing",
		},
	}
}

// runFlags are shared by bench and check.
func runFlags(defaultQueries int) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "graph",
			Aliases:  []string{"g"},
			Usage:    "Path to the DIMACS graph file",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "queries",
			Aliases: []string{"q"},
			Usage:   "Number of random source/target queries",
			Value:   defaultQueries,
		},
		&cli.StringSliceFlag{
			Name:    "solver",
			Aliases: []string{"s"},
			Usage:   "Solver as id=path (repeatable, added after config solvers)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ./pathbench.yaml when present)",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "Query sampler seed (0 picks one and records it in the report)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-invocation wall-clock limit",
			Value: solver.DefaultTimeout,
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "Queries in flight at once",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "report-dir",
			Usage: "Directory for the report file",
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "report-format",
			Usage: "Report encoding: json or msgpack",
			Value: "json",
		},
		&cli.StringFlag{
			Name:  "work-dir",
			Usage: "Directory for transient files (default system temp)",
		},
		&cli.StringFlag{
			Name:  "metrics-textfile",
			Usage: "Write Prometheus textfile metrics to this path after the run",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress the result summary",
		},
		FormatFlag,
	}
	return append(flags, storageFlags()...)
}

// parseSolverFlag parses "id=path". The id may not be empty.
func parseSolverFlag(value string) (solver.Spec, error) {
	id, path, ok := strings.Cut(value, "=")
	id, path = strings.TrimSpace(id), strings.TrimSpace(path)
	if !ok || id == "" || path == "" {
		return solver.Spec{}, fmt.Errorf("invalid solver %q (want id=path)", value)
	}
	return solver.Spec{ID: id, Path: path}, nil
}
