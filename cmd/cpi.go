package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

// cpiCmd is the top-level command for CPI sidecar operations.
type cpiCmd struct{}

func (*cpiCmd) Name() string     { return "cpi" }
func (*cpiCmd) Synopsis() string { return "consumer price index specific commands" }
func (*cpiCmd) Usage() string {
	return `cpi <subcommand> <options>

Consumer price index specific commands.
`
}
func (c *cpiCmd) SetFlags(f *flag.FlagSet) {}

func (c *cpiCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "cpi")
	commander.Register(&cpiFetchCmd{}, "")
	commander.Register(&cpiSetCmd{}, "")
	commander.Register(commander.HelpCommand(), "")
	return commander.Execute(ctx, args...)
}
