package loanbook

import "sort"

// loanModifiers groups the enabled modifier records of one loan.
type loanModifiers struct {
	extras      []ExtraPayment
	rateChanges []RateChange
	graces      []GracePeriod
}

// ComputeSchedule is the engine's single entry point: it turns a snapshot of
// loans and modifiers, a CPI table and a currency tag into the chronological
// amortization ledger of every enabled loan.
//
// The computation is pure and synchronous: identical inputs always produce a
// deeply equal row slice, and no state survives between calls, so callers may
// recompute on every input change (and memoize if they care). The currency
// tag only shapes the human-readable amounts inside row tags, never the
// numbers.
//
// Disabled records, and modifiers whose loan is missing or disabled, are
// dropped here, before the timeline is built: their effects are entirely
// absent from the output, exactly as if they had never been supplied.
func ComputeSchedule(loans []Loan, extras []ExtraPayment, rateChanges []RateChange, gracePeriods []GracePeriod, cpi CPITable, currency string) []Row {
	enabled := make([]Loan, 0, len(loans))
	byID := make(map[string]bool, len(loans))
	for _, l := range loans {
		if !l.Enabled {
			continue
		}
		enabled = append(enabled, l)
		byID[l.ID] = true
	}

	mods := make(map[string]*loanModifiers, len(enabled))
	forLoan := func(id string) *loanModifiers {
		m, ok := mods[id]
		if !ok {
			m = &loanModifiers{}
			mods[id] = m
		}
		return m
	}

	keptExtras := make([]ExtraPayment, 0, len(extras))
	for _, e := range extras {
		if !e.Enabled || !byID[e.LoanID] {
			continue
		}
		keptExtras = append(keptExtras, e)
		forLoan(e.LoanID).extras = append(forLoan(e.LoanID).extras, e)
	}
	keptRateChanges := make([]RateChange, 0, len(rateChanges))
	for _, r := range rateChanges {
		if !r.Enabled || !byID[r.LoanID] {
			continue
		}
		keptRateChanges = append(keptRateChanges, r)
		forLoan(r.LoanID).rateChanges = append(forLoan(r.LoanID).rateChanges, r)
	}
	keptGraces := make([]GracePeriod, 0, len(gracePeriods))
	for _, g := range gracePeriods {
		if !g.Enabled || !byID[g.LoanID] {
			continue
		}
		keptGraces = append(keptGraces, g)
		forLoan(g.LoanID).graces = append(forLoan(g.LoanID).graces, g)
	}

	timeline := BuildTimeline(enabled, keptExtras, keptRateChanges, keptGraces)

	states := make([]*loanState, 0, len(enabled))
	for _, l := range enabled {
		states = append(states, newLoanState(l))
	}

	var rows []Row
	for _, at := range timeline {
		for _, s := range states {
			m := mods[s.loan.ID]
			if m == nil {
				m = &loanModifiers{}
			}
			if row := processPeriod(s, at, m, cpi, currency); row != nil {
				rows = append(rows, *row)
			}
		}
	}

	// Rows of different loans can share a moment; the loan that started
	// paying earlier comes first, giving a reproducible interleaving.
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].At.Equal(rows[j].At) {
			return rows[i].At < rows[j].At
		}
		return rows[i].first < rows[j].first
	})
	return rows
}

// processPeriod evaluates one loan at one timeline moment: it applies
// indexation, grace policy, rate changes, interest accrual, extra payments
// and balloon clamping, mutates the state for the next moment, and emits the
// period's row. It returns nil for moments outside the loan's active range.
func processPeriod(s *loanState, at MonthIndex, mods *loanModifiers, cpi CPITable, currency string) *Row {
	loan := s.loan
	floor := loan.BalloonTarget()

	// Guards: before inception, or terminal once the repayment phase started.
	if at.Before(loan.Taken) {
		return nil
	}
	if s.terminal() && !at.Before(loan.FirstPayment) {
		return nil
	}
	// The taken-date moment only anchors the first accrual; nothing is due
	// and no row is emitted there, unless it coincides with the first payment.
	if at.Equal(loan.Taken) && at.Before(loan.FirstPayment) {
		return nil
	}

	var tags []string
	startingBalance := s.balance

	// Indexation scales balance and payment by the CPI ratio. Missing CPI
	// data is not an error, the step simply does not apply.
	var indexation float64
	if loan.LinkedToCPI {
		if factor, ok := cpi.Factor(at); ok && factor != 1 {
			indexation = s.balance * (factor - 1)
			s.balance *= factor
			s.payment *= factor
		}
	}

	// Grace determination: implicit before the first payment, or any enabled
	// explicit window. An explicit window's policy overrides the loan's.
	inGrace := at.Before(loan.FirstPayment)
	policy := loan.GracePolicy
	for _, g := range mods.graces {
		if g.Contains(at) {
			inGrace = true
			policy = g.Policy
		}
	}

	// Rate change: the lexicographically greatest enabled ID of the calendar
	// month wins. Outside grace the payment is re-derived over the remaining
	// term at the new rate, preserving the balloon floor.
	var rateChange *RateChange
	for i := range mods.rateChanges {
		rc := &mods.rateChanges[i]
		if !rc.Date.SameMonth(at) {
			continue
		}
		if rateChange == nil || rc.ID > rateChange.ID {
			rateChange = rc
		}
	}
	if rateChange != nil {
		s.monthlyRate = rateChange.NewRate / 100 / 12
		if !inGrace && s.remaining > 0 {
			s.payment = pmt(s.balance, s.monthlyRate, s.remaining, floor)
		}
		tags = append(tags, rateChangeTag(rateChange.NewRate))
	}

	// Interest accrues over the actual days since the last accrual anchor,
	// at rate/30 per day. Regular full months cost exactly one monthly rate;
	// irregular first periods and grace transitions cost their real length.
	days := DaysBetween(s.lastAccrual, at)
	if days < 0 {
		days = 0
	}
	interest := s.balance * (s.monthlyRate / 30) * days
	s.lastAccrual = at

	// Payment selection. On the exact first-payment moment the scheduled
	// payment is re-derived from the possibly grace- or CPI-inflated balance
	// over the original term.
	var payment float64
	switch {
	case inGrace && policy == Capitalized:
		payment = 0
	case inGrace:
		payment = interest
	case at.Equal(loan.FirstPayment):
		s.payment = pmt(s.balance, s.monthlyRate, s.term, floor)
		payment = s.payment
	default:
		payment = s.payment
	}
	if inGrace {
		tags = append(tags, graceTag(policy))
	}

	// Extra payments of the calendar month, each applied once per run.
	var extraSum float64
	recomputePayment := false
	for _, e := range mods.extras {
		if s.extrasApplied[e.ID] || !e.Date.SameMonth(at) {
			continue
		}
		s.extrasApplied[e.ID] = true
		extraSum += e.Amount
		if e.Effect == ReducePayment {
			recomputePayment = true
		}
		tags = append(tags, extraTag(e.Amount, e.Effect, currency))
	}

	// Principal and balance update, clamped to the balloon floor and the
	// starting balance.
	principal := payment - interest + extraSum
	if principal > s.balance-floor {
		principal = s.balance - floor
	}
	ending := s.balance - principal
	if ending < floor {
		ending = floor
	}

	// Within a cent of a zero floor the remainder is folded into principal
	// so reported totals match the money actually moved.
	adjusted := false
	if floor == 0 && ending < 0.01 {
		principal += ending
		ending = 0
		adjusted = true
	}

	cashFlow := payment + extraSum
	if adjusted {
		cashFlow = principal + interest
		tags = append(tags, adjustedTag)
	}

	// A reducePayment extra re-derives the payment over the payments left
	// after this one, at the current rate, preserving the floor.
	if recomputePayment && ending > floor+Epsilon {
		s.payment = pmt(ending, s.monthlyRate, s.remaining-1, floor)
	}

	s.balance = ending
	if !inGrace {
		s.remaining--
	}
	if ending <= floor+Epsilon {
		// Floor reached: the loan is terminal whatever the counter says.
		s.remaining = 0
	}

	if indexation != 0 {
		tags = append(tags, indexationTag(indexation, currency))
	}

	return &Row{
		At:              at,
		Label:           at.String(),
		LoanID:          loan.ID,
		LoanName:        loan.Name,
		StartingBalance: startingBalance,
		MonthlyRate:     s.monthlyRate,
		CashFlow:        cashFlow,
		Principal:       principal,
		Interest:        interest,
		EndingBalance:   ending,
		Tags:            tags,
		IsGracePeriod:   inGrace,
		Indexation:      indexation,
		first:           loan.FirstPayment,
	}
}
