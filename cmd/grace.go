package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook"
)

type graceCmd struct {
	id       string
	loan     string
	from     string
	to       string
	policy   string
	disabled bool
}

func (*graceCmd) Name() string     { return "grace" }
func (*graceCmd) Synopsis() string { return "schedule a grace period on a loan" }
func (*graceCmd) Usage() string {
	return `lbk grace -id <id> -loan <loan> -from <month> -to <month> [-policy capitalized|interestOnly]

  Pauses amortization over a month window, inclusive. The window's policy
  overrides the loan's own grace policy.

Usage Examples:
# Three months of interest-only payments in 2026.
$ lbk grace -id sabbatical -loan mortgage -from 03/2026 -to 05/2026 -policy interestOnly
`
}

func (c *graceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identifier of the record.")
	f.StringVar(&c.loan, "loan", "", "Loan the window applies to.")
	f.StringVar(&c.from, "from", "", "First month of the window (MM/YYYY).")
	f.StringVar(&c.to, "to", "", "Last month of the window, inclusive (MM/YYYY).")
	f.StringVar(&c.policy, "policy", loanbook.Capitalized.String(), "Policy within the window (capitalized, interestOnly).")
	f.BoolVar(&c.disabled, "disabled", false, "Record disabled (excluded from reports).")
}

func (c *graceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.loan == "" {
		fmt.Fprintln(os.Stderr, "Error: -id and -loan are required.")
		return subcommands.ExitUsageError
	}
	start, err := parseMoment("from", c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	end, err := parseMoment("to", c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if end.Before(start) {
		fmt.Fprintln(os.Stderr, "Error: -to must not be before -from.")
		return subcommands.ExitUsageError
	}
	policy, err := loanbook.ParseGracePolicy(c.policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	return AppendRecord(loanbook.GracePeriod{
		ID:      c.id,
		LoanID:  c.loan,
		Start:   start,
		End:     end,
		Policy:  policy,
		Enabled: !c.disabled,
	})
}
