package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/pathbench/cli/config"
	"github.com/justapithecus/pathbench/cli/reader"
	"github.com/justapithecus/pathbench/cli/render"
	"github.com/justapithecus/pathbench/cli/tui"
	"github.com/justapithecus/pathbench/lode"
)

// InspectCommand returns the inspect command.
//
// Inspect loads a saved report, either from a file or from the archive,
// and renders its per-solver summary and any mismatches.
func InspectCommand() *cli.Command {
	flags := append(ReadOnlyFlags(),
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ./pathbench.yaml when present)",
		},
		&cli.StringFlag{
			Name:  "run-id",
			Usage: "Archived run to load (default latest)",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Archive filter: benchmark or validation",
		},
		&cli.StringFlag{
			Name:  "day",
			Usage: "Archive filter: partition day (YYYY-MM-DD)",
		},
	)
	flags = append(flags, storageFlags()...)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show a saved report",
		ArgsUsage: "[report-file]",
		Flags:     flags,
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	r, err := render.NewRenderer(c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), exitInvalidInput)
	}

	src, err := inspectSource(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("pathbench: %v", err), exitInvalidInput)
	}

	resp, err := reader.Inspect(c.Context, src)
	if err != nil {
		if errors.Is(err, lode.ErrNoReportFound) {
			return cli.Exit(fmt.Sprintf("pathbench: %v", err), exitInvalidInput)
		}
		return exitError(err)
	}

	if c.Bool("tui") {
		if !tui.IsTUISupported(tui.ViewInspect) {
			return cli.Exit("--tui is not supported for this view", exitInvalidInput)
		}
		return r.RenderTUI(tui.ViewInspect, resp)
	}
	return r.Render(resp)
}

// inspectSource picks the report source: a file argument wins, otherwise
// the archive configured by flags or the config file.
func inspectSource(c *cli.Context) (reader.Reader, error) {
	if c.NArg() > 1 {
		return nil, errors.New("inspect takes at most one report file")
	}
	if c.NArg() == 1 {
		return reader.FileReader{Path: c.Args().First()}, nil
	}

	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return nil, err
	}
	storage := cfg.Storage
	mergeStorageFlags(c, &storage)

	filter := lode.ReportFilter{
		RunID: c.String("run-id"),
		Mode:  c.String("mode"),
		Day:   c.String("day"),
	}

	switch storage.Backend {
	case "":
		return nil, errors.New("give a report file or configure an archive (--lode-backend, --lode-path)")
	case "fs":
		ds, err := lode.NewReadDatasetFS(storage.Dataset, storage.Path)
		if err != nil {
			return nil, err
		}
		return reader.ArchiveReader{Dataset: ds, Filter: filter, Location: storage.Path}, nil
	case "s3":
		bucket, prefix := lode.ParseS3Path(storage.Path)
		ds, err := lode.NewReadDatasetS3(c.Context, storage.Dataset, lode.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       storage.Region,
			Endpoint:     storage.Endpoint,
			UsePathStyle: storage.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return reader.ArchiveReader{Dataset: ds, Filter: filter, Location: "s3://" + strings.TrimPrefix(storage.Path, "s3://")}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want fs or s3)", storage.Backend)
	}
}
