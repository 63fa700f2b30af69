package renderer

import (
	"fmt"
	"strings"

	"github.com/yoramz/loanbook"
)

// Schedule is a struct to represent a computed schedule in json.
// Amounts are carried as loanbook.Money so they already know how to format
// themselves with the reporting currency.
type Schedule struct {
	// Currency is the reporting currency tag.
	Currency string `json:"currency"`
	// Rows is the full schedule, one line per loan per period.
	Rows []ScheduleRow `json:"rows"`
	// TotalPrincipal is the principal repaid over the whole schedule.
	TotalPrincipal loanbook.Money `json:"totalPrincipal"`
	// TotalInterest is the interest paid over the whole schedule.
	TotalInterest loanbook.Money `json:"totalInterest"`
	// TotalPaid is the total cash flow over the whole schedule.
	TotalPaid loanbook.Money `json:"totalPaid"`
}

// ScheduleRow represents a single schedule line, pre-formatted for display.
type ScheduleRow struct {
	Date            string         `json:"date"`
	Loan            string         `json:"loan"`
	Rate            string         `json:"rate"`
	StartingBalance loanbook.Money `json:"startingBalance"`
	Payment         loanbook.Money `json:"payment"`
	Principal       loanbook.Money `json:"principal"`
	Interest        loanbook.Money `json:"interest"`
	EndingBalance   loanbook.Money `json:"endingBalance"`
	Notes           string         `json:"notes,omitempty"`
}

// NewSchedule creates a new Schedule struct from computed rows.
func NewSchedule(currency string, rows []loanbook.Row) *Schedule {
	s := &Schedule{
		Currency:       currency,
		Rows:           make([]ScheduleRow, 0, len(rows)),
		TotalPrincipal: loanbook.M(0, currency),
		TotalInterest:  loanbook.M(0, currency),
		TotalPaid:      loanbook.M(0, currency),
	}

	var principal, interest, paid float64
	for _, r := range rows {
		principal += r.Principal
		interest += r.Interest
		paid += r.CashFlow
		s.Rows = append(s.Rows, ScheduleRow{
			Date:            r.Label,
			Loan:            r.LoanName,
			Rate:            annualPercent(r.MonthlyRate),
			StartingBalance: loanbook.M(r.StartingBalance, currency),
			Payment:         loanbook.M(r.CashFlow, currency),
			Principal:       loanbook.M(r.Principal, currency),
			Interest:        loanbook.M(r.Interest, currency),
			EndingBalance:   loanbook.M(r.EndingBalance, currency),
			Notes:           strings.Join(r.Tags, ", "),
		})
	}
	s.TotalPrincipal = loanbook.M(principal, currency)
	s.TotalInterest = loanbook.M(interest, currency)
	s.TotalPaid = loanbook.M(paid, currency)
	return s
}

// annualPercent formats a monthly rate back as the annual percent rate it was
// declared with.
func annualPercent(monthly float64) string {
	return fmt.Sprintf("%.2f%%", monthly*12*100)
}
