package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook"
)

type extraCmd struct {
	id       string
	loan     string
	date     string
	amount   float64
	effect   string
	disabled bool
}

func (*extraCmd) Name() string     { return "extra" }
func (*extraCmd) Synopsis() string { return "record a one-off extra payment against a loan" }
func (*extraCmd) Usage() string {
	return `lbk extra -id <id> -loan <loan> -date <date> -amount <amount> [-effect reduceTerm|reducePayment]

  Records an extra repayment on top of the scheduled payment. A month-only
  date (MM/YYYY) inherits the loan's payment day.

Usage Examples:
# A bonus applied to the mortgage, finishing it earlier.
$ lbk extra -id bonus24 -loan mortgage -date 06/2024 -amount 50000
`
}

func (c *extraCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identifier of the record.")
	f.StringVar(&c.loan, "loan", "", "Loan the payment applies to.")
	f.StringVar(&c.date, "date", "", "Effective date (DD/MM/YYYY or MM/YYYY).")
	f.Float64Var(&c.amount, "amount", 0, "Amount paid on top of the scheduled payment.")
	f.StringVar(&c.effect, "effect", loanbook.ReduceTerm.String(), "How the repayment reshapes the schedule (reduceTerm, reducePayment).")
	f.BoolVar(&c.disabled, "disabled", false, "Record disabled (excluded from reports).")
}

func (c *extraCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.loan == "" {
		fmt.Fprintln(os.Stderr, "Error: -id and -loan are required.")
		return subcommands.ExitUsageError
	}
	if c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -amount must be positive.")
		return subcommands.ExitUsageError
	}
	date, err := parseMoment("date", c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	effect, err := loanbook.ParseExtraEffect(c.effect)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	return AppendRecord(loanbook.ExtraPayment{
		ID:      c.id,
		LoanID:  c.loan,
		Date:    date,
		Amount:  c.amount,
		Effect:  effect,
		Enabled: !c.disabled,
	})
}
