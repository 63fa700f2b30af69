package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook"
)

type rateCmd struct {
	id       string
	loan     string
	date     string
	rate     float64
	disabled bool
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "record an interest rate change on a loan" }
func (*rateCmd) Usage() string {
	return `lbk rate -id <id> -loan <loan> -date <date> -rate <percent>

  Switches the loan to a new nominal annual rate from the given month on.
  When several enabled changes target the same loan and month, the one with
  the greatest id wins.

Usage Examples:
# A refinancing taking effect in January 2025.
$ lbk rate -id refi25 -loan mortgage -date 01/2025 -rate 3.9
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identifier of the record, breaks same-month ties.")
	f.StringVar(&c.loan, "loan", "", "Loan the change applies to.")
	f.StringVar(&c.date, "date", "", "Effective date (DD/MM/YYYY or MM/YYYY).")
	f.Float64Var(&c.rate, "rate", 0, "New nominal annual rate in percent.")
	f.BoolVar(&c.disabled, "disabled", false, "Record disabled (excluded from reports).")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.loan == "" {
		fmt.Fprintln(os.Stderr, "Error: -id and -loan are required.")
		return subcommands.ExitUsageError
	}
	if c.rate < 0 {
		fmt.Fprintln(os.Stderr, "Error: -rate must not be negative.")
		return subcommands.ExitUsageError
	}
	date, err := parseMoment("date", c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	return AppendRecord(loanbook.RateChange{
		ID:      c.id,
		LoanID:  c.loan,
		Date:    date,
		NewRate: c.rate,
		Enabled: !c.disabled,
	})
}
