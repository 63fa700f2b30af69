package renderer

import (
	"github.com/yoramz/loanbook"
)

// Summary is the condensed, per-loan view of a computed schedule.
type Summary struct {
	// Currency is the reporting currency tag.
	Currency string `json:"currency"`
	// Loans summarizes each loan that produced rows, in book order.
	Loans []LoanSummary `json:"loans"`
	// TotalPrincipal is the principal repaid across all loans.
	TotalPrincipal loanbook.Money `json:"totalPrincipal"`
	// TotalInterest is the interest paid across all loans.
	TotalInterest loanbook.Money `json:"totalInterest"`
	// TotalPaid is the total cash flow across all loans.
	TotalPaid loanbook.Money `json:"totalPaid"`

	// raw totals, kept for comparisons between scenarios.
	interest float64
	paid     float64
}

// LoanSummary condenses one loan's rows.
type LoanSummary struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	Principal    loanbook.Money `json:"principal"`
	Interest     loanbook.Money `json:"interest"`
	Paid         loanbook.Money `json:"paid"`
	Payments     int            `json:"payments"`
	GraceMonths  int            `json:"graceMonths"`
	Payoff       string         `json:"payoff"`
	FinalBalance loanbook.Money `json:"finalBalance"`

	interest float64
}

// NewSummary creates a new Summary struct from a book and its computed rows.
// Loans without rows (disabled, or outside the computed range) are absent.
func NewSummary(book *loanbook.Book, rows []loanbook.Row) *Summary {
	currency := book.Currency()
	s := &Summary{Currency: currency}

	type acc struct {
		principal, interest, paid, final float64
		payments, graceMonths            int
		payoff                           string
	}
	accs := make(map[string]*acc)
	for _, r := range rows {
		a, ok := accs[r.LoanID]
		if !ok {
			a = &acc{}
			accs[r.LoanID] = a
		}
		a.principal += r.Principal
		a.interest += r.Interest
		a.paid += r.CashFlow
		a.final = r.EndingBalance
		a.payoff = r.Label
		if r.IsGracePeriod {
			a.graceMonths++
		} else {
			a.payments++
		}
	}

	var totalPrincipal float64
	for _, loan := range book.Loans() {
		a, ok := accs[loan.ID]
		if !ok {
			continue
		}
		s.Loans = append(s.Loans, LoanSummary{
			ID:           loan.ID,
			Name:         loan.Name,
			Principal:    loanbook.M(a.principal, currency),
			Interest:     loanbook.M(a.interest, currency),
			Paid:         loanbook.M(a.paid, currency),
			Payments:     a.payments,
			GraceMonths:  a.graceMonths,
			Payoff:       a.payoff,
			FinalBalance: loanbook.M(a.final, currency),
			interest:     a.interest,
		})
		totalPrincipal += a.principal
		s.interest += a.interest
		s.paid += a.paid
	}
	s.TotalPrincipal = loanbook.M(totalPrincipal, currency)
	s.TotalInterest = loanbook.M(s.interest, currency)
	s.TotalPaid = loanbook.M(s.paid, currency)
	return s
}
