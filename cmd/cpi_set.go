package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// cpiSetCmd implements the "cpi set" command.
type cpiSetCmd struct {
	month string
	value float64
}

func (*cpiSetCmd) Name() string     { return "set" }
func (*cpiSetCmd) Synopsis() string { return "records an index figure by hand" }
func (*cpiSetCmd) Usage() string {
	return `cpi set -month <MM/YYYY> -value <figure>

Records one consumer price index figure in the sidecar file, for months the
provider does not serve or to pin a figure for reproducible reports.
`
}

func (c *cpiSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month of the figure (MM/YYYY).")
	f.Float64Var(&c.value, "value", 0, "Index figure.")
}

func (c *cpiSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := parseMoment("month", c.month)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if c.value <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -value must be positive.")
		return subcommands.ExitUsageError
	}

	table, err := LoadCPI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	table.Set(month.Year(), int(month.Month()), c.value)
	if err := SaveCPI(table); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully set %s to %v in %s\n", month.MonthLabel(), c.value, *cpiFile)
	return subcommands.ExitSuccess
}
