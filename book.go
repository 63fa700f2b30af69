package loanbook

import (
	"fmt"
	"sort"
)

// Book holds one household's loan records: the loans themselves and the
// time-stamped modifiers that reshape their schedules. It is the unit of
// persistence (one JSONL file) and the input snapshot the engine computes
// from.
//
// In a Book records are kept in chronological order.
type Book struct {
	loans        []Loan
	extras       []ExtraPayment
	rateChanges  []RateChange
	gracePeriods []GracePeriod
	currency     string
}

// NewBook creates an empty book with a reporting currency tag.
func NewBook(currency string) *Book {
	return &Book{currency: currency}
}

// Currency returns the book's currency tag, used only to format amounts in
// row tags and reports.
func (b *Book) Currency() string { return b.currency }

// SetCurrency sets the book's currency tag.
func (b *Book) SetCurrency(cur string) { b.currency = cur }

// Loan returns the loan declared with this ID, or nil if unknown.
func (b *Book) Loan(id string) *Loan {
	for i := range b.loans {
		if b.loans[i].ID == id {
			return &b.loans[i]
		}
	}
	return nil
}

// Loans returns the declared loans in chronological order.
func (b *Book) Loans() []Loan { return b.loans }

// ExtraPayments returns the declared extra payments.
func (b *Book) ExtraPayments() []ExtraPayment { return b.extras }

// RateChanges returns the declared rate changes.
func (b *Book) RateChanges() []RateChange { return b.rateChanges }

// GracePeriods returns the declared grace periods.
func (b *Book) GracePeriods() []GracePeriod { return b.gracePeriods }

// Append adds a record to the book. It does not re-sort; call Fmt or rely on
// DecodeBook for canonical ordering.
func (b *Book) Append(records ...Record) error {
	for _, r := range records {
		switch v := r.(type) {
		case Loan:
			b.loans = append(b.loans, v)
		case ExtraPayment:
			b.extras = append(b.extras, v)
		case RateChange:
			b.rateChanges = append(b.rateChanges, v)
		case GracePeriod:
			b.gracePeriods = append(b.gracePeriods, v)
		default:
			return fmt.Errorf("unsupported record type: %T", r)
		}
	}
	return nil
}

// Records returns all records, loans first, then modifiers, each group in
// chronological order.
func (b *Book) Records() []Record {
	records := make([]Record, 0, len(b.loans)+len(b.extras)+len(b.rateChanges)+len(b.gracePeriods))
	for _, l := range b.loans {
		records = append(records, l)
	}
	for _, e := range b.extras {
		records = append(records, e)
	}
	for _, r := range b.rateChanges {
		records = append(records, r)
	}
	for _, g := range b.gracePeriods {
		records = append(records, g)
	}
	return records
}

// SetEnabled flips the enabled flag of the record with this ID, whatever its
// kind, and reports whether the record was found.
func (b *Book) SetEnabled(id string, enabled bool) bool {
	for i := range b.loans {
		if b.loans[i].ID == id {
			b.loans[i].Enabled = enabled
			return true
		}
	}
	for i := range b.extras {
		if b.extras[i].ID == id {
			b.extras[i].Enabled = enabled
			return true
		}
	}
	for i := range b.rateChanges {
		if b.rateChanges[i].ID == id {
			b.rateChanges[i].Enabled = enabled
			return true
		}
	}
	for i := range b.gracePeriods {
		if b.gracePeriods[i].ID == id {
			b.gracePeriods[i].Enabled = enabled
			return true
		}
	}
	return false
}

// stableSort orders each record group chronologically, keeping the relative
// order of same-moment records.
func (b *Book) stableSort() {
	sort.SliceStable(b.loans, func(i, j int) bool { return b.loans[i].Taken < b.loans[j].Taken })
	sort.SliceStable(b.extras, func(i, j int) bool { return b.extras[i].Date < b.extras[j].Date })
	sort.SliceStable(b.rateChanges, func(i, j int) bool { return b.rateChanges[i].Date < b.rateChanges[j].Date })
	sort.SliceStable(b.gracePeriods, func(i, j int) bool { return b.gracePeriods[i].Start < b.gracePeriods[j].Start })
}

// Fmt returns the book in canonical form: records sorted chronologically.
func (b *Book) Fmt() *Book {
	b.stableSort()
	return b
}

// Compute runs the schedule engine over the book's records with the given
// CPI table. The engine itself drops disabled records and orphaned
// modifiers.
func (b *Book) Compute(cpi CPITable) []Row {
	return ComputeSchedule(b.loans, b.extras, b.rateChanges, b.gracePeriods, cpi, b.currency)
}
