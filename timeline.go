package loanbook

import (
	"math"
	"sort"
)

// BuildTimeline scans the (already filtered, enabled-only) loans and modifier
// records and returns the ascending, de-duplicated set of moments the
// schedule must evaluate. The set is shared across loans: every loan is later
// evaluated at every moment, and skips the ones outside its own active range.
//
// Moments come from:
//   - each loan's taken date,
//   - one moment per calendar month from the first-payment month through the
//     last-payment month, at the loan's payment-day fraction,
//   - the implicit grace window between taken date and first payment, month
//     by month at the payment-day fraction, skipping the taken-date month,
//   - each extra payment and rate change, as-is when its date carries an
//     explicit day, otherwise aligned to its loan's payment day,
//   - each explicit grace period, month by month over its window at the
//     loan's payment day.
func BuildTimeline(loans []Loan, extras []ExtraPayment, rateChanges []RateChange, gracePeriods []GracePeriod) []MonthIndex {
	set := make(map[int64]MonthIndex)
	add := func(m MonthIndex) {
		// The encoding holds at most two meaningful decimals, so scaling by
		// 100 gives an exact deduplication key.
		key := int64(math.Round(float64(m) * 100))
		set[key] = m
	}

	byID := make(map[string]Loan, len(loans))
	for _, loan := range loans {
		byID[loan.ID] = loan
		frac := loan.PaymentDayFraction()

		add(loan.Taken)

		first := loan.FirstPayment.whole()
		last := loan.LastPayment.whole()
		if last < first {
			// Degenerate ranges still get their one clamped payment month.
			last = first
		}
		for wm := first; wm <= last; wm++ {
			add(MonthIndex(float64(wm) + frac))
		}

		// Implicit grace window: taken month itself is excluded, the
		// first-payment month is covered by the loop above.
		for wm := loan.Taken.whole() + 1; wm < first; wm++ {
			add(MonthIndex(float64(wm) + frac))
		}
	}

	modifier := func(loanID string, at MonthIndex) {
		loan, ok := byID[loanID]
		if !ok {
			return
		}
		if at.HasDay() {
			add(at)
			return
		}
		add(at.WithDayFraction(loan.PaymentDayFraction()))
	}
	for _, e := range extras {
		modifier(e.LoanID, e.Date)
	}
	for _, r := range rateChanges {
		modifier(r.LoanID, r.Date)
	}

	for _, g := range gracePeriods {
		loan, ok := byID[g.LoanID]
		if !ok {
			continue
		}
		frac := loan.PaymentDayFraction()
		for wm := g.Start.whole(); wm <= g.End.whole(); wm++ {
			add(MonthIndex(float64(wm) + frac))
		}
	}

	timeline := make([]MonthIndex, 0, len(set))
	for _, m := range set {
		timeline = append(timeline, m)
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i] < timeline[j] })
	return timeline
}
