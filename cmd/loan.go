package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook"
)

type loanCmd struct {
	id        string
	name      string
	principal float64
	rate      float64
	taken     string
	first     string
	last      string
	grace     string
	cpi       bool
	balloon   float64
	disabled  bool
}

func (*loanCmd) Name() string     { return "loan" }
func (*loanCmd) Synopsis() string { return "declare a new loan in the book" }
func (*loanCmd) Usage() string {
	return `lbk loan -id <id> -principal <amount> -rate <percent> -taken <date> -first <date> -last <date> [options]

  Declares a loan: the amount borrowed, its nominal annual rate, and the
  taken / first-payment / last-payment dates (DD/MM/YYYY). The day of the
  first payment becomes the loan's payment day.

Usage Examples:
# A 20-year mortgage taken on new year's day.
$ lbk loan -id mortgage -principal 1200000 -rate 4.8 -taken 01/01/2024 -first 01/02/2024 -last 01/01/2044
`
}

func (c *loanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identifier of the loan, referenced by modifiers.")
	f.StringVar(&c.name, "name", "", "Human label used in reports.")
	f.Float64Var(&c.principal, "principal", 0, "Amount borrowed.")
	f.Float64Var(&c.rate, "rate", 0, "Nominal annual interest rate in percent.")
	f.StringVar(&c.taken, "taken", "", "Day the money was received (DD/MM/YYYY).")
	f.StringVar(&c.first, "first", "", "First scheduled payment day (DD/MM/YYYY).")
	f.StringVar(&c.last, "last", "", "Last scheduled payment day (DD/MM/YYYY).")
	f.StringVar(&c.grace, "grace", loanbook.Capitalized.String(), "Grace policy before the first payment (capitalized, interestOnly).")
	f.BoolVar(&c.cpi, "cpi", false, "Link the loan's balance and payment to the consumer price index.")
	f.Float64Var(&c.balloon, "balloon", 0, "Balance left unamortized at term end.")
	f.BoolVar(&c.disabled, "disabled", false, "Declare the loan disabled (excluded from reports).")
}

func (c *loanCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}
	if c.principal <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -principal must be positive.")
		return subcommands.ExitUsageError
	}
	taken, err := parseDay("taken", c.taken)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	first, err := parseDay("first", c.first)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	last, err := parseDay("last", c.last)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	policy, err := loanbook.ParseGracePolicy(c.grace)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	structure := loanbook.Regular
	if c.balloon > 0 {
		structure = loanbook.Balloon
	}

	return AppendRecord(loanbook.Loan{
		ID:           c.id,
		Name:         c.name,
		Principal:    c.principal,
		AnnualRate:   c.rate,
		Taken:        taken,
		FirstPayment: first,
		LastPayment:  last,
		GracePolicy:  policy,
		LinkedToCPI:  c.cpi,
		BalloonAmt:   c.balloon,
		Structure:    structure,
		Enabled:      !c.disabled,
	})
}

// parseDay parses a flag value that must be a full DD/MM/YYYY date.
func parseDay(flagName, value string) (loanbook.MonthIndex, error) {
	if value == "" {
		return 0, fmt.Errorf("Error: -%s is required", flagName)
	}
	m, err := loanbook.ParseMonthIndex(value)
	if err != nil {
		return 0, fmt.Errorf("Error parsing -%s: %v", flagName, err)
	}
	if !m.HasDay() {
		return 0, fmt.Errorf("Error: -%s needs a full DD/MM/YYYY date, got %q", flagName, value)
	}
	return m, nil
}

// parseMoment parses a flag value that may be DD/MM/YYYY or MM/YYYY.
func parseMoment(flagName, value string) (loanbook.MonthIndex, error) {
	if value == "" {
		return 0, fmt.Errorf("Error: -%s is required", flagName)
	}
	m, err := loanbook.ParseMonthIndex(value)
	if err != nil {
		return 0, fmt.Errorf("Error parsing -%s: %v", flagName, err)
	}
	return m, nil
}
