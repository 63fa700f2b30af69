package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook"
	"github.com/yoramz/loanbook/cbs"
)

// cpiFetchCmd implements the "cpi fetch" command.
type cpiFetchCmd struct {
	series string
	from   string
	to     string
}

func (*cpiFetchCmd) Name() string     { return "fetch" }
func (*cpiFetchCmd) Synopsis() string { return "fetches index figures from the CBS" }
func (*cpiFetchCmd) Usage() string {
	return `cpi fetch [-series <id>] [-from <MM/YYYY>] [-to <MM/YYYY>]

Fetches consumer price index figures from the Central Bureau of Statistics
and merges them into the CPI sidecar file. Without -from, the range starts
at the earliest taken date of the book's CPI-linked loans.
`
}

func (c *cpiFetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.series, "series", cbs.DefaultSeriesID, "Index series to fetch.")
	f.StringVar(&c.from, "from", "", "First month of the range (MM/YYYY).")
	f.StringVar(&c.to, "to", "", "Last month of the range (MM/YYYY). Defaults to the current month.")
}

func (c *cpiFetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, to, err := c.fetchRange()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	table, err := LoadCPI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fetched, err := cbs.Fetch(cbs.Daily(), c.series, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not fetch from CBS: %v\n", err)
		return subcommands.ExitFailure
	}

	count := 0
	for year, months := range fetched {
		for month, value := range months {
			table.Set(year, month, value)
			count++
		}
	}
	if err := SaveCPI(table); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "✅ Successfully fetched %d figures into %s.\n", count, *cpiFile)
	return subcommands.ExitSuccess
}

// fetchRange resolves the month range to fetch: explicit flags first, then
// the book's CPI-linked loans, then a one-year default.
func (c *cpiFetchCmd) fetchRange() (from, to loanbook.MonthIndex, err error) {
	to = loanbook.Now().Whole()
	if c.to != "" {
		if to, err = loanbook.ParseMonthIndex(c.to); err != nil {
			return 0, 0, fmt.Errorf("Error parsing -to: %w", err)
		}
	}

	if c.from != "" {
		if from, err = loanbook.ParseMonthIndex(c.from); err != nil {
			return 0, 0, fmt.Errorf("Error parsing -from: %w", err)
		}
		return from, to, nil
	}

	book, err := DecodeBook()
	if err != nil {
		return 0, 0, err
	}
	found := false
	for _, loan := range book.Loans() {
		if !loan.LinkedToCPI || !loan.Enabled {
			continue
		}
		if !found || loan.Taken.Before(from) {
			from = loan.Taken
		}
		found = true
	}
	if !found {
		// Nothing linked: fetch the trailing year.
		return to.AddMonths(-12), to, nil
	}
	// Indexation reads up to three months before a payment.
	return from.Whole().AddMonths(-3), to, nil
}
