package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the per-loan summary of a computed schedule.
func SummaryMarkdown(s *Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Loan Summary")
	doc.PlainText(fmt.Sprintf("Total paid: %s (%s principal, %s interest)", s.TotalPaid, s.TotalPrincipal, s.TotalInterest))

	rows := make([][]string, 0, len(s.Loans))
	for _, l := range s.Loans {
		name := l.Name
		if name == "" {
			name = l.ID
		}
		rows = append(rows, []string{
			name,
			l.Principal.String(),
			l.Interest.String(),
			l.Paid.String(),
			fmt.Sprintf("%d", l.Payments),
			fmt.Sprintf("%d", l.GraceMonths),
			l.Payoff,
			l.FinalBalance.String(),
		})
	}
	table := md.TableSet{
		Header: []string{"Loan", "Principal", "Interest", "Paid", "Payments", "Grace", "Payoff", "Final Balance"},
		Rows:   rows,
	}
	doc.Table(table)

	return doc.String()
}
