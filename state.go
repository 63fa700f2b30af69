package loanbook

import "math"

// loanState is the mutable per-loan record driven across the timeline within
// a single computation. It is created by the assembler, mutated by the period
// processor, and discarded when the run ends; nothing survives between calls.
type loanState struct {
	loan        Loan
	balance     float64    // outstanding balance before the next period
	payment     float64    // current scheduled monthly payment
	monthlyRate float64    // current monthly interest rate (annual/100/12)
	term        int        // original term length in months
	remaining   int        // scheduled payments still to come; 0 is terminal
	lastAccrual MonthIndex // anchor of the last interest accrual

	// extrasApplied remembers consumed extra payments so that a month
	// evaluated at several moments (loans with different payment days share
	// one timeline) applies each extra only once.
	extrasApplied map[string]bool
}

// newLoanState initializes the state at the loan's taken date.
func newLoanState(loan Loan) *loanState {
	term := loan.TermMonths()
	rate := loan.AnnualRate / 100 / 12
	return &loanState{
		loan:          loan,
		balance:       loan.Principal,
		payment:       pmt(loan.Principal, rate, term, loan.BalloonTarget()),
		monthlyRate:   rate,
		term:          term,
		remaining:     term,
		lastAccrual:   loan.Taken,
		extrasApplied: make(map[string]bool),
	}
}

// terminal reports whether the loan has no scheduled payments left.
func (s *loanState) terminal() bool { return s.remaining <= 0 }

// pmt computes the scheduled monthly payment that amortizes principal down to
// the future-value target fv over n monthly payments at the given monthly
// rate. A zero rate degenerates to linear amortization; a non-positive term
// is clamped to one month.
func pmt(principal, rate float64, n int, fv float64) float64 {
	if n < 1 {
		n = 1
	}
	if rate == 0 {
		return (principal - fv) / float64(n)
	}
	factor := math.Pow(1+rate, float64(n))
	return (principal*factor - fv) * rate / (factor - 1)
}
