package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/pathbench/types"
)

const (
	defaultCheckQueries = 100
	defaultCheckNodes   = 500
)

// CheckCommand returns the check command.
//
// Check extracts a subgraph of the first --nodes nodes, asks the
// reference and every candidate the same queries on it, and counts how
// often each candidate agrees with the reference.
func CheckCommand() *cli.Command {
	flags := runFlags(defaultCheckQueries)
	flags = append(flags,
		&cli.Int64Flag{
			Name:    "nodes",
			Aliases: []string{"n"},
			Usage:   "Subgraph size: nodes 1..N of the source graph",
			Value:   defaultCheckNodes,
		},
		&cli.StringFlag{
			Name:    "reference",
			Aliases: []string{"r"},
			Usage:   "Reference solver as id=path (overrides config)",
		},
	)
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate solvers against a reference on a subgraph",
		ArgsUsage: " ",
		Flags:     flags,
		Action:    runAction(types.ModeValidation),
	}
}
