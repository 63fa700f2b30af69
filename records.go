package loanbook

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecordKind is a typed string identifying the kind of a book record.
type RecordKind string

// Record kinds used in the book file.
const (
	KindLoan         RecordKind = "loan"
	KindExtraPayment RecordKind = "extra-payment"
	KindRateChange   RecordKind = "rate-change"
	KindGracePeriod  RecordKind = "grace-period"
)

// Record is the common interface of all book records.
type Record interface {
	Kind() RecordKind // Kind returns the record kind discriminator.
	When() MonthIndex // When returns the record's effective moment, for sorting.
	Ref() string      // Ref returns the loan the record belongs to (its own ID for a Loan).
	Equal(Record) bool
}

// GracePolicy states what happens to interest while a loan is in grace.
type GracePolicy int

const (
	// Capitalized accrues interest onto the balance; nothing is paid.
	Capitalized GracePolicy = iota
	// InterestOnly pays the accrued interest each period; the balance is untouched.
	InterestOnly
)

func (p GracePolicy) String() string {
	switch p {
	case Capitalized:
		return "capitalized"
	case InterestOnly:
		return "interestOnly"
	default:
		return "unknown"
	}
}

// ParseGracePolicy parses a string into a GracePolicy.
func ParseGracePolicy(s string) (GracePolicy, error) {
	switch s {
	case "capitalized":
		return Capitalized, nil
	case "interestOnly":
		return InterestOnly, nil
	default:
		return 0, fmt.Errorf("unknown grace policy: %q", s)
	}
}

// ExtraEffect states how an extra payment reshapes the rest of the schedule.
type ExtraEffect int

const (
	// ReduceTerm keeps the scheduled payment and shortens the remaining term.
	ReduceTerm ExtraEffect = iota
	// ReducePayment keeps the term and lowers future scheduled payments.
	ReducePayment
)

func (e ExtraEffect) String() string {
	switch e {
	case ReduceTerm:
		return "reduceTerm"
	case ReducePayment:
		return "reducePayment"
	default:
		return "unknown"
	}
}

// ParseExtraEffect parses a string into an ExtraEffect.
func ParseExtraEffect(s string) (ExtraEffect, error) {
	switch s {
	case "reduceTerm":
		return ReduceTerm, nil
	case "reducePayment":
		return ReducePayment, nil
	default:
		return 0, fmt.Errorf("unknown extra payment effect: %q", s)
	}
}

// LoanStructure tags the shape of a loan's repayment.
type LoanStructure int

const (
	// Regular amortizes the full principal down to zero.
	Regular LoanStructure = iota
	// Balloon leaves a target balance outstanding at term end.
	Balloon
)

func (s LoanStructure) String() string {
	switch s {
	case Regular:
		return "regular"
	case Balloon:
		return "balloon"
	default:
		return "unknown"
	}
}

// ParseLoanStructure parses a string into a LoanStructure.
func ParseLoanStructure(s string) (LoanStructure, error) {
	switch s {
	case "regular":
		return Regular, nil
	case "balloon":
		return Balloon, nil
	default:
		return 0, fmt.Errorf("unknown loan structure: %q", s)
	}
}

// Loan is one borrowed amount with its contractual repayment frame.
//
// Taken, FirstPayment and LastPayment carry full DD/MM/YYYY precision; the
// day of FirstPayment is the loan's payment day, which month-only modifier
// dates inherit.
type Loan struct {
	ID           string        // ID identifies the loan; modifiers reference it.
	Name         string        // Name is the human label used in reports.
	Principal    float64       // Principal is the amount borrowed, > 0.
	AnnualRate   float64       // AnnualRate is the nominal yearly interest rate in percent.
	Taken        MonthIndex    // Taken is the day the money was received.
	FirstPayment MonthIndex    // FirstPayment is the first scheduled payment day.
	LastPayment  MonthIndex    // LastPayment is the last scheduled payment day.
	GracePolicy  GracePolicy   // GracePolicy governs the implicit grace window.
	LinkedToCPI  bool          // LinkedToCPI enables inflation indexation.
	BalloonAmt   float64       // BalloonAmt is the target balance left at term end, 0 for none.
	Structure    LoanStructure // Structure tags the repayment shape.
	Enabled      bool          // Enabled includes the loan in computations.
}

func (l Loan) Kind() RecordKind { return KindLoan }
func (l Loan) When() MonthIndex { return l.Taken }
func (l Loan) Ref() string      { return l.ID }

func (l Loan) Equal(other Record) bool {
	o, ok := other.(Loan)
	return ok && l == o
}

// PaymentDayFraction returns the day fraction of the loan's payment day,
// derived from the first-payment date.
func (l Loan) PaymentDayFraction() float64 {
	return float64(l.FirstPayment.Day()) / 100
}

// BalloonTarget returns the terminal balance the schedule must not amortize
// below: the balloon amount for balloon loans, zero otherwise.
func (l Loan) BalloonTarget() float64 {
	if l.Structure == Balloon || l.BalloonAmt > 0 {
		return l.BalloonAmt
	}
	return 0
}

// TermMonths returns the scheduled number of monthly payments, never less
// than one even for degenerate date ranges.
func (l Loan) TermMonths() int {
	n := l.LastPayment.whole() - l.FirstPayment.whole() + 1
	if n < 1 {
		n = 1
	}
	return n
}

// MarshalJSON implements the json.Marshaler interface for Loan.
func (l Loan) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", l.Kind())
	w.Append("id", l.ID)
	w.Optional("name", l.Name)
	w.Append("principal", decimal.NewFromFloat(l.Principal))
	w.Append("annualRate", decimal.NewFromFloat(l.AnnualRate))
	w.Append("taken", l.Taken)
	w.Append("firstPayment", l.FirstPayment)
	w.Append("lastPayment", l.LastPayment)
	w.Append("gracePolicy", l.GracePolicy.String())
	w.Optional("linkedToCPI", l.LinkedToCPI)
	if l.BalloonAmt > 0 {
		w.Append("balloon", decimal.NewFromFloat(l.BalloonAmt))
	}
	w.Append("structure", l.Structure.String())
	w.Append("enabled", l.Enabled)
	return w.MarshalJSON()
}

// ExtraPayment is a one-off repayment against a loan, applied once in the
// calendar month it targets.
type ExtraPayment struct {
	ID      string      // ID identifies the record.
	LoanID  string      // LoanID references the target loan.
	Date    MonthIndex  // Date is the effective moment; month-only dates inherit the loan's payment day.
	Amount  float64     // Amount is the sum paid on top of the scheduled payment.
	Effect  ExtraEffect // Effect picks between shortening the term and lowering the payment.
	Enabled bool        // Enabled includes the record in computations.
}

func (e ExtraPayment) Kind() RecordKind { return KindExtraPayment }
func (e ExtraPayment) When() MonthIndex { return e.Date }
func (e ExtraPayment) Ref() string      { return e.LoanID }

func (e ExtraPayment) Equal(other Record) bool {
	o, ok := other.(ExtraPayment)
	return ok && e == o
}

// MarshalJSON implements the json.Marshaler interface for ExtraPayment.
func (e ExtraPayment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", e.Kind())
	w.Append("id", e.ID)
	w.Append("loan", e.LoanID)
	w.Append("date", e.Date)
	w.Append("amount", decimal.NewFromFloat(e.Amount))
	w.Append("effect", e.Effect.String())
	w.Append("enabled", e.Enabled)
	return w.MarshalJSON()
}

// RateChange switches a loan to a new annual rate from its effective month
// on. When several enabled changes target the same loan and month, the one
// with the lexicographically greatest ID wins.
type RateChange struct {
	ID      string     // ID identifies the record and breaks same-month ties.
	LoanID  string     // LoanID references the target loan.
	Date    MonthIndex // Date is the effective moment; month-only dates inherit the loan's payment day.
	NewRate float64    // NewRate is the new nominal yearly rate in percent.
	Enabled bool       // Enabled includes the record in computations.
}

func (r RateChange) Kind() RecordKind { return KindRateChange }
func (r RateChange) When() MonthIndex { return r.Date }
func (r RateChange) Ref() string      { return r.LoanID }

func (r RateChange) Equal(other Record) bool {
	o, ok := other.(RateChange)
	return ok && r == o
}

// MarshalJSON implements the json.Marshaler interface for RateChange.
func (r RateChange) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", r.Kind())
	w.Append("id", r.ID)
	w.Append("loan", r.LoanID)
	w.Append("date", r.Date)
	w.Append("newRate", decimal.NewFromFloat(r.NewRate))
	w.Append("enabled", r.Enabled)
	return w.MarshalJSON()
}

// GracePeriod is an explicitly scheduled mid-term grace window. It is
// independent of the loan's implicit grace window (the gap between taken and
// first payment) and may coexist or overlap with it; its policy overrides the
// loan's default for the window.
type GracePeriod struct {
	ID      string      // ID identifies the record.
	LoanID  string      // LoanID references the target loan.
	Start   MonthIndex  // Start is the first moment of the window.
	End     MonthIndex  // End is the last moment of the window, inclusive.
	Policy  GracePolicy // Policy overrides the loan's default within the window.
	Enabled bool        // Enabled includes the record in computations.
}

func (g GracePeriod) Kind() RecordKind { return KindGracePeriod }
func (g GracePeriod) When() MonthIndex { return g.Start }
func (g GracePeriod) Ref() string      { return g.LoanID }

func (g GracePeriod) Equal(other Record) bool {
	o, ok := other.(GracePeriod)
	return ok && g == o
}

// Contains reports whether the moment falls within the window, inclusive.
func (g GracePeriod) Contains(at MonthIndex) bool {
	return !at.Before(g.Start) && !at.After(g.End)
}

// MarshalJSON implements the json.Marshaler interface for GracePeriod.
func (g GracePeriod) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("record", g.Kind())
	w.Append("id", g.ID)
	w.Append("loan", g.LoanID)
	w.Append("start", g.Start)
	w.Append("end", g.End)
	w.Append("policy", g.Policy.String())
	w.Append("enabled", g.Enabled)
	return w.MarshalJSON()
}
