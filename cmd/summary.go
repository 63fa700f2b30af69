package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook/renderer"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a per-loan cost summary" }
func (*summaryCmd) Usage() string {
	return `lbk summary

  Condenses the schedule into one line per loan: principal repaid, total
  interest, number of payments, grace months, payoff date and final balance.
`
}

func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (p *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, cpi, err := loadBookAndCPI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rows := book.Compute(cpi)
	printMarkdown(renderer.SummaryMarkdown(renderer.NewSummary(book, rows)))
	return subcommands.ExitSuccess
}
