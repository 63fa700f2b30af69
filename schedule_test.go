package loanbook

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

// newTestLoan builds an enabled, regular, unlinked loan for engine tests.
func newTestLoan(id string, principal, annualRate float64, taken, first, last string) Loan {
	return Loan{
		ID:           id,
		Name:         id,
		Principal:    principal,
		AnnualRate:   annualRate,
		Taken:        MustParseMonthIndex(taken),
		FirstPayment: MustParseMonthIndex(first),
		LastPayment:  MustParseMonthIndex(last),
		GracePolicy:  Capitalized,
		Structure:    Regular,
		Enabled:      true,
	}
}

// mortgage is the reference loan of the engine scenarios: 1.2M at 4.8% over
// 240 months.
func mortgage() Loan {
	return newTestLoan("mortgage", 1_200_000, 4.8, "01/01/2024", "01/02/2024", "01/01/2044")
}

func rowsFor(rows []Row, loanID string) []Row {
	var out []Row
	for _, r := range rows {
		if r.LoanID == loanID {
			out = append(out, r)
		}
	}
	return out
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestPmt(t *testing.T) {
	testCases := []struct {
		name      string
		principal float64
		rate      float64
		n         int
		fv        float64
		want      float64
		tol       float64
	}{
		{"zero rate linear", 1200, 0, 12, 0, 100, 0},
		{"zero rate with balloon", 1200, 0, 12, 600, 50, 0},
		{"standard annuity", 1_200_000, 0.004, 240, 0, 7787.49, 0.5},
		{"clamped term", 1000, 0, 0, 0, 1000, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := pmt(tc.principal, tc.rate, tc.n, tc.fv)
			if !approx(got, tc.want, tc.tol) {
				t.Errorf("pmt(%v, %v, %d, %v) = %v, want %v", tc.principal, tc.rate, tc.n, tc.fv, got, tc.want)
			}
		})
	}
}

func TestComputeSchedule_PlainMortgage(t *testing.T) {
	rows := ComputeSchedule([]Loan{mortgage()}, nil, nil, nil, nil, "ILS")

	if len(rows) != 240 {
		t.Fatalf("row count = %d, want 240", len(rows))
	}

	first := rows[0]
	if first.Label != "01/02/2024" {
		t.Errorf("first row label = %q, want %q", first.Label, "01/02/2024")
	}
	if !approx(first.Interest, 4800, 0.005) {
		t.Errorf("first row interest = %v, want 4800.00", first.Interest)
	}
	if first.StartingBalance != 1_200_000 {
		t.Errorf("first row starting balance = %v, want 1200000", first.StartingBalance)
	}
	if first.IsGracePeriod {
		t.Errorf("first payment row must not be a grace row")
	}

	// Ending balance strictly decreases across the loan's life.
	for i := 1; i < len(rows); i++ {
		if rows[i].EndingBalance >= rows[i-1].EndingBalance {
			t.Fatalf("ending balance not strictly decreasing at row %d: %v -> %v",
				i, rows[i-1].EndingBalance, rows[i].EndingBalance)
		}
	}

	last := rows[len(rows)-1]
	if !approx(last.EndingBalance, 0, 0.01) {
		t.Errorf("final ending balance = %v, want 0 (±0.01)", last.EndingBalance)
	}

	// A loan with no modifiers repays exactly its principal.
	var principalSum float64
	for _, r := range rows {
		principalSum += r.Principal
	}
	if !approx(principalSum, 1_200_000, 0.01) {
		t.Errorf("sum of principal components = %v, want 1200000 (±0.01)", principalSum)
	}
}

func TestComputeSchedule_ReduceTermExtra(t *testing.T) {
	extra := ExtraPayment{
		ID:      "x1",
		LoanID:  "mortgage",
		Date:    MustParseMonthIndex("06/2024"),
		Amount:  50_000,
		Effect:  ReduceTerm,
		Enabled: true,
	}
	rows := ComputeSchedule([]Loan{mortgage()}, []ExtraPayment{extra}, nil, nil, nil, "ILS")

	if len(rows) >= 240 {
		t.Fatalf("row count = %d, want strictly less than 240", len(rows))
	}
	if !approx(rows[len(rows)-1].EndingBalance, 0, 0.01) {
		t.Errorf("final ending balance = %v, want 0", rows[len(rows)-1].EndingBalance)
	}

	// The extra payment lands in its target month, exactly once.
	var tagged int
	for _, r := range rows {
		if strings.Contains(strings.Join(r.Tags, ";"), "extra payment") {
			tagged++
			if r.At.MonthLabel() != "06/2024" {
				t.Errorf("extra payment applied in %s, want 06/2024", r.At.MonthLabel())
			}
		}
	}
	if tagged != 1 {
		t.Errorf("extra payment tagged on %d rows, want 1", tagged)
	}
}

func TestComputeSchedule_ReducePaymentExtra(t *testing.T) {
	extra := ExtraPayment{
		ID:      "x1",
		LoanID:  "mortgage",
		Date:    MustParseMonthIndex("06/2024"),
		Amount:  50_000,
		Effect:  ReducePayment,
		Enabled: true,
	}
	rows := ComputeSchedule([]Loan{mortgage()}, []ExtraPayment{extra}, nil, nil, nil, "ILS")

	if len(rows) < 239 || len(rows) > 240 {
		t.Fatalf("row count = %d, want 240 (within one)", len(rows))
	}

	// The scheduled payment strictly decreases starting the month after the
	// extra payment.
	var before, after float64
	for _, r := range rows {
		switch r.At.MonthLabel() {
		case "05/2024":
			before = r.CashFlow
		case "07/2024":
			after = r.CashFlow
		}
	}
	if before == 0 || after == 0 {
		t.Fatalf("could not locate rows around the extra payment")
	}
	if after >= before {
		t.Errorf("payment after extra = %v, want strictly less than %v", after, before)
	}
	if !approx(rows[len(rows)-1].EndingBalance, 0, 0.01) {
		t.Errorf("final ending balance = %v, want 0", rows[len(rows)-1].EndingBalance)
	}
}

func TestComputeSchedule_RateChange(t *testing.T) {
	change := RateChange{
		ID:      "r1",
		LoanID:  "mortgage",
		Date:    MustParseMonthIndex("01/2025"),
		NewRate: 5.5,
		Enabled: true,
	}
	rows := ComputeSchedule([]Loan{mortgage()}, nil, []RateChange{change}, nil, nil, "ILS")

	oldRate := 4.8 / 100 / 12
	newRate := 5.5 / 100 / 12
	pivot := MustParseMonthIndex("01/2025")
	for _, r := range rows {
		want := oldRate
		if !r.At.Before(pivot) {
			want = newRate
		}
		if !approx(r.MonthlyRate, want, 1e-12) {
			t.Fatalf("row %s monthly rate = %v, want %v", r.Label, r.MonthlyRate, want)
		}
	}
	if !approx(rows[len(rows)-1].EndingBalance, 0, 0.01) {
		t.Errorf("final ending balance = %v, want 0", rows[len(rows)-1].EndingBalance)
	}
}

func TestComputeSchedule_RateChangeTieBreak(t *testing.T) {
	changes := []RateChange{
		{ID: "a", LoanID: "mortgage", Date: MustParseMonthIndex("01/2025"), NewRate: 3.0, Enabled: true},
		{ID: "b", LoanID: "mortgage", Date: MustParseMonthIndex("01/2025"), NewRate: 5.5, Enabled: true},
	}
	rows := ComputeSchedule([]Loan{mortgage()}, nil, changes, nil, nil, "ILS")

	for _, r := range rows {
		if r.At.MonthLabel() == "01/2025" {
			if !approx(r.MonthlyRate, 5.5/100/12, 1e-12) {
				t.Errorf("tie-break picked rate %v, want the greatest ID's 5.5%%", r.MonthlyRate*1200)
			}
			return
		}
	}
	t.Fatal("no row found for 01/2025")
}

func TestComputeSchedule_ImplicitGrace(t *testing.T) {
	testCases := []struct {
		name          string
		policy        GracePolicy
		wantGraceFlow func(interest float64) float64
		balanceGrows  bool
	}{
		{"capitalized", Capitalized, func(float64) float64 { return 0 }, true},
		{"interest only", InterestOnly, func(i float64) float64 { return i }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loan := newTestLoan("l", 100_000, 6, "01/01/2024", "01/06/2024", "01/05/2034")
			loan.GracePolicy = tc.policy
			rows := ComputeSchedule([]Loan{loan}, nil, nil, nil, nil, "ILS")

			// Four grace months: February through May.
			var graceRows []Row
			for _, r := range rows {
				if r.IsGracePeriod {
					graceRows = append(graceRows, r)
				}
			}
			if len(graceRows) != 4 {
				t.Fatalf("grace row count = %d, want 4", len(graceRows))
			}
			for _, r := range graceRows {
				if want := tc.wantGraceFlow(r.Interest); !approx(r.CashFlow, want, 1e-9) {
					t.Errorf("grace row %s cash flow = %v, want %v", r.Label, r.CashFlow, want)
				}
				if tc.balanceGrows && r.EndingBalance <= r.StartingBalance {
					t.Errorf("capitalized grace must grow the balance, got %v -> %v", r.StartingBalance, r.EndingBalance)
				}
				if !tc.balanceGrows && r.EndingBalance != r.StartingBalance {
					t.Errorf("interest-only grace must keep the balance, got %v -> %v", r.StartingBalance, r.EndingBalance)
				}
			}

			// Grace never consumes scheduled payments: the amortizing phase
			// still counts the full term.
			var amortizing int
			for _, r := range rows {
				if !r.IsGracePeriod {
					amortizing++
				}
			}
			if want := loan.TermMonths(); amortizing != want {
				t.Errorf("amortizing row count = %d, want %d", amortizing, want)
			}

			if !approx(rows[len(rows)-1].EndingBalance, 0, 0.01) {
				t.Errorf("final ending balance = %v, want 0", rows[len(rows)-1].EndingBalance)
			}
		})
	}
}

func TestComputeSchedule_ExplicitGraceOverridesPolicy(t *testing.T) {
	loan := mortgage() // default policy capitalized
	grace := GracePeriod{
		ID:      "g1",
		LoanID:  "mortgage",
		Start:   MustParseMonthIndex("01/06/2024"),
		End:     MustParseMonthIndex("01/08/2024"),
		Policy:  InterestOnly,
		Enabled: true,
	}
	rows := ComputeSchedule([]Loan{loan}, nil, nil, []GracePeriod{grace}, nil, "ILS")

	var graceRows []Row
	for _, r := range rows {
		if r.IsGracePeriod {
			graceRows = append(graceRows, r)
		}
	}
	if len(graceRows) != 3 {
		t.Fatalf("grace row count = %d, want 3 (June through August)", len(graceRows))
	}
	for _, r := range graceRows {
		// The window's interestOnly policy overrides the loan's capitalized
		// default: interest is paid, balance untouched.
		if !approx(r.CashFlow, r.Interest, 1e-9) {
			t.Errorf("grace row %s cash flow = %v, want interest %v", r.Label, r.CashFlow, r.Interest)
		}
		if !strings.Contains(strings.Join(r.Tags, ";"), "interestOnly") {
			t.Errorf("grace row %s tags = %v, want an interestOnly grace tag", r.Label, r.Tags)
		}
	}
}

func TestComputeSchedule_GraceNeverDecrementsCounter(t *testing.T) {
	loan := newTestLoan("l", 100_000, 6, "01/01/2024", "01/06/2024", "01/05/2026")
	grace := GracePeriod{
		ID:      "g1",
		LoanID:  "l",
		Start:   MustParseMonthIndex("01/01/2025"),
		End:     MustParseMonthIndex("01/03/2025"),
		Policy:  Capitalized,
		Enabled: true,
	}
	rows := ComputeSchedule([]Loan{loan}, nil, nil, []GracePeriod{grace}, nil, "ILS")

	// Implicit (4) plus explicit (3) grace rows pause the countdown. The
	// timeline still ends at the last-payment month, so every amortizing
	// moment in range produces a row: 24 scheduled months minus the 3 spent
	// in explicit grace. Had grace decremented the counter, the loan would
	// have gone terminal three moments early and emitted fewer rows.
	var graceCount, amortizing int
	for _, r := range rows {
		if r.IsGracePeriod {
			graceCount++
		} else {
			amortizing++
		}
	}
	if graceCount != 7 {
		t.Errorf("grace row count = %d, want 7", graceCount)
	}
	if want := loan.TermMonths() - 3; amortizing != want {
		t.Errorf("amortizing row count = %d, want %d", amortizing, want)
	}
	// Three scheduled payments were paused, not consumed: the loan is not
	// fully repaid by its last scheduled month.
	if last := rows[len(rows)-1]; last.EndingBalance <= 0.01 {
		t.Errorf("final ending balance = %v, want a positive remainder", last.EndingBalance)
	}
}

func TestComputeSchedule_CPIIndexation(t *testing.T) {
	loan := mortgage()
	loan.LinkedToCPI = true

	cpi := CPITable{}
	// First payment is 01/02/2024, day 1 is before the 16th, so the step
	// reads December over November 2023.
	cpi.Set(2023, 11, 100)
	cpi.Set(2023, 12, 102)

	rows := ComputeSchedule([]Loan{loan}, nil, nil, nil, cpi, "ILS")

	first := rows[0]
	if !approx(first.Indexation, 1_200_000*0.02, 0.01) {
		t.Errorf("first row indexation = %v, want %v", first.Indexation, 1_200_000*0.02)
	}
	if !strings.Contains(strings.Join(first.Tags, ";"), "indexation") {
		t.Errorf("first row tags = %v, want an indexation tag", first.Tags)
	}
	// Ending balance reflects the scaled balance minus the principal paid.
	wantEnding := first.StartingBalance + first.Indexation - first.Principal
	if !approx(first.EndingBalance, wantEnding, 1e-6) {
		t.Errorf("first row ending balance = %v, want %v", first.EndingBalance, wantEnding)
	}

	// Later months have no CPI data: indexation degrades to zero silently.
	for _, r := range rows[1:] {
		if r.Indexation != 0 {
			t.Fatalf("row %s indexation = %v, want 0 (no CPI data)", r.Label, r.Indexation)
		}
	}
}

func TestComputeSchedule_MissingCPIDataIsNotAnError(t *testing.T) {
	loan := mortgage()
	loan.LinkedToCPI = true

	rows := ComputeSchedule([]Loan{loan}, nil, nil, nil, nil, "ILS")
	if len(rows) != 240 {
		t.Fatalf("row count = %d, want 240", len(rows))
	}
	for _, r := range rows {
		if r.Indexation != 0 {
			t.Fatalf("row %s indexation = %v, want 0 with an empty CPI table", r.Label, r.Indexation)
		}
	}
}

func TestComputeSchedule_BalloonLoan(t *testing.T) {
	loan := newTestLoan("b", 100_000, 0, "01/01/2024", "01/02/2024", "01/01/2025")
	loan.Structure = Balloon
	loan.BalloonAmt = 40_000

	rows := ComputeSchedule([]Loan{loan}, nil, nil, nil, nil, "ILS")

	if len(rows) != 12 {
		t.Fatalf("row count = %d, want 12", len(rows))
	}
	// Zero rate: payment = (principal - balloon) / term, exactly.
	for _, r := range rows {
		if !approx(r.CashFlow, 5000, 1e-9) {
			t.Fatalf("row %s cash flow = %v, want exactly 5000", r.Label, r.CashFlow)
		}
	}
	if got := rows[len(rows)-1].EndingBalance; !approx(got, 40_000, 0.01) {
		t.Errorf("final ending balance = %v, want balloon target 40000", got)
	}

	var principalSum float64
	for _, r := range rows {
		principalSum += r.Principal
	}
	if !approx(principalSum, 60_000, 0.01) {
		t.Errorf("sum of principal components = %v, want principal minus balloon 60000", principalSum)
	}
}

func TestComputeSchedule_DisabledRecordsAreAbsent(t *testing.T) {
	loan := mortgage()
	extra := ExtraPayment{ID: "x1", LoanID: "mortgage", Date: MustParseMonthIndex("06/2024"),
		Amount: 50_000, Effect: ReduceTerm, Enabled: false}
	change := RateChange{ID: "r1", LoanID: "mortgage", Date: MustParseMonthIndex("01/2025"),
		NewRate: 9, Enabled: false}
	grace := GracePeriod{ID: "g1", LoanID: "mortgage", Start: MustParseMonthIndex("01/06/2024"),
		End: MustParseMonthIndex("01/08/2024"), Policy: InterestOnly, Enabled: false}

	withDisabled := ComputeSchedule([]Loan{loan}, []ExtraPayment{extra}, []RateChange{change}, []GracePeriod{grace}, nil, "ILS")
	without := ComputeSchedule([]Loan{loan}, nil, nil, nil, nil, "ILS")

	if !reflect.DeepEqual(withDisabled, without) {
		t.Errorf("disabled records must leave no trace: schedules differ")
	}
}

func TestComputeSchedule_DisabledLoanOrphansModifiers(t *testing.T) {
	active := mortgage()
	disabled := newTestLoan("old", 500_000, 3, "01/01/2020", "01/02/2020", "01/01/2040")
	disabled.Enabled = false
	// Modifiers of the disabled loan are orphaned and must be dropped before
	// the timeline is built, leaving no extra evaluation moments behind.
	orphanExtra := ExtraPayment{ID: "x1", LoanID: "old", Date: MustParseMonthIndex("15/06/2024"),
		Amount: 1000, Effect: ReduceTerm, Enabled: true}

	got := ComputeSchedule([]Loan{active, disabled}, []ExtraPayment{orphanExtra}, nil, nil, nil, "ILS")
	want := ComputeSchedule([]Loan{active}, nil, nil, nil, nil, "ILS")

	if !reflect.DeepEqual(got, want) {
		t.Errorf("a disabled loan and its modifiers must be absent from the run")
	}
}

func TestComputeSchedule_Deterministic(t *testing.T) {
	loans := []Loan{mortgage(), newTestLoan("car", 80_000, 7.2, "01/03/2024", "01/04/2024", "01/03/2029")}
	extras := []ExtraPayment{{ID: "x1", LoanID: "car", Date: MustParseMonthIndex("06/2025"),
		Amount: 5000, Effect: ReducePayment, Enabled: true}}

	a := ComputeSchedule(loans, extras, nil, nil, nil, "ILS")
	b := ComputeSchedule(loans, extras, nil, nil, nil, "ILS")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs must produce deeply equal outputs")
	}
}

func TestComputeSchedule_MultiLoanInterleaving(t *testing.T) {
	first := newTestLoan("first", 100_000, 4, "01/01/2024", "01/02/2024", "01/01/2026")
	second := newTestLoan("second", 100_000, 4, "01/05/2024", "01/06/2024", "01/05/2026")
	rows := ComputeSchedule([]Loan{second, first}, nil, nil, nil, nil, "ILS")

	// Rows are chronological, and on shared moments the loan that started
	// paying earlier comes first, regardless of input order.
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if cur.At.Before(prev.At) {
			t.Fatalf("rows out of order at %d: %s after %s", i, cur.Label, prev.Label)
		}
		if cur.At.Equal(prev.At) && prev.LoanID == "second" && cur.LoanID == "first" {
			t.Fatalf("tie at %s broken against first-payment order", cur.Label)
		}
	}

	if got := rowsFor(rows, "first"); len(got) != 24 {
		t.Errorf("first loan row count = %d, want 24", len(got))
	}
	if got := rowsFor(rows, "second"); len(got) != 24 {
		t.Errorf("second loan row count = %d, want 24", len(got))
	}
}

func TestComputeSchedule_DegenerateTermClampsToOneMonth(t *testing.T) {
	loan := newTestLoan("broken", 10_000, 5, "01/01/2024", "01/06/2024", "01/03/2024")
	rows := ComputeSchedule([]Loan{loan}, nil, nil, nil, nil, "ILS")

	amortizing := 0
	for _, r := range rows {
		if !r.IsGracePeriod {
			amortizing++
		}
	}
	if amortizing != 1 {
		t.Errorf("degenerate loan amortizing row count = %d, want 1 (clamped term)", amortizing)
	}
}

func TestComputeSchedule_FinalRowIsAdjusted(t *testing.T) {
	rows := ComputeSchedule([]Loan{mortgage()}, nil, nil, nil, nil, "ILS")
	last := rows[len(rows)-1]
	if last.EndingBalance != 0 {
		t.Errorf("final ending balance = %v, want exactly 0 after the snap", last.EndingBalance)
	}
	if !approx(last.CashFlow, last.Principal+last.Interest, 1e-9) {
		t.Errorf("adjusted cash flow = %v, want principal+interest = %v",
			last.CashFlow, last.Principal+last.Interest)
	}
}
