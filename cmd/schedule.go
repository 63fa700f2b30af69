package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/yoramz/loanbook"
	"github.com/yoramz/loanbook/renderer"
)

type scheduleCmd struct {
	loan string
	head int
	tail int
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "compute and display the amortization schedule" }
func (*scheduleCmd) Usage() string {
	return `lbk schedule [-loan <id>] [-head <n>] [-tail <n>]

  Computes the amortization schedule of every enabled loan and displays it
  as one chronological table, with the payment of each period split into
  principal and interest.
`
}

func (p *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.loan, "loan", "", "Restrict the schedule to a single loan.")
	f.IntVar(&p.head, "head", 0, "Show only the first N rows.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N rows.")
}

func (p *scheduleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	book, cpi, err := loadBookAndCPI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rows := book.Compute(cpi)
	if p.loan != "" {
		if book.Loan(p.loan) == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown loan %q\n", p.loan)
			return subcommands.ExitFailure
		}
		kept := make([]loanbook.Row, 0, len(rows))
		for _, r := range rows {
			if r.LoanID == p.loan {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	if p.head > 0 && len(rows) > p.head {
		rows = rows[:p.head]
	}
	if p.tail > 0 && len(rows) > p.tail {
		rows = rows[len(rows)-p.tail:]
	}

	printMarkdown(renderer.RenderSchedule(renderer.NewSchedule(book.Currency(), rows)))
	return subcommands.ExitSuccess
}

// loadBookAndCPI loads the app default book and CPI files together.
func loadBookAndCPI() (*loanbook.Book, loanbook.CPITable, error) {
	book, err := DecodeBook()
	if err != nil {
		return nil, nil, err
	}
	cpi, err := LoadCPI()
	if err != nil {
		return nil, nil, err
	}
	return book, cpi, nil
}
