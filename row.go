package loanbook

import "fmt"

// Row is one emitted line of the amortization schedule: the cash flow of one
// loan over one evaluated period. Rows are immutable once emitted; the engine
// owns their creation and downstream consumers only read them.
type Row struct {
	At              MonthIndex // At is the period's moment, the primary sort key.
	Label           string     // Label is the period's DD/MM/YYYY label.
	LoanID          string     // LoanID references the loan the row belongs to.
	LoanName        string     // LoanName is the loan's human label.
	StartingBalance float64    // StartingBalance is the balance before indexation and payment.
	MonthlyRate     float64    // MonthlyRate is the effective monthly rate of the period.
	CashFlow        float64    // CashFlow is the total money moved in the period.
	Principal       float64    // Principal is the principal component of the cash flow.
	Interest        float64    // Interest is the interest component of the cash flow.
	EndingBalance   float64    // EndingBalance is the balance carried to the next period.
	Tags            []string   // Tags describe what shaped the period.
	IsGracePeriod   bool       // IsGracePeriod marks periods spent in grace.
	Indexation      float64    // Indexation is the signed CPI delta applied to the balance.

	// first is the loan's first-payment moment, kept for the assembler's
	// same-moment tie-break.
	first MonthIndex
}

// tag builders, kept together so labels stay consistent across the engine.

func graceTag(policy GracePolicy) string {
	return fmt.Sprintf("grace (%s)", policy)
}

func extraTag(amount float64, effect ExtraEffect, currency string) string {
	return fmt.Sprintf("extra payment %s (%s)", M(amount, currency), effect)
}

func rateChangeTag(newRate float64) string {
	return fmt.Sprintf("rate change to %.2f%%", newRate)
}

func indexationTag(delta float64, currency string) string {
	return fmt.Sprintf("indexation %s", M(delta, currency).SignedString())
}

const adjustedTag = "final payment adjusted"
