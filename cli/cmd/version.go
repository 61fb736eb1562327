package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/pathbench/cli/render"
	"github.com/justapithecus/pathbench/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version       string `json:"version"`
	ReportVersion string `json:"report_version"`
	Commit        string `json:"commit"`
}

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  ReadOnlyFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c.String("format"))
		if err != nil {
			return err
		}

		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for version command", exitInvalidInput)
		}

		return r.Render(VersionResponse{
			Version:       types.Version,
			ReportVersion: types.ReportSchemaVersion,
			Commit:        commit,
		})
	}
}
