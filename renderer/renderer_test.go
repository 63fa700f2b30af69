package renderer

import (
	"strings"
	"testing"

	"github.com/yoramz/loanbook"
)

func testBook(t *testing.T) (*loanbook.Book, []loanbook.Row) {
	t.Helper()
	book := loanbook.NewBook("ILS")
	err := book.Append(loanbook.Loan{
		ID:           "mortgage",
		Name:         "Apartment",
		Principal:    100_000,
		AnnualRate:   4.8,
		Taken:        loanbook.MustParseMonthIndex("01/01/2024"),
		FirstPayment: loanbook.MustParseMonthIndex("01/02/2024"),
		LastPayment:  loanbook.MustParseMonthIndex("01/01/2026"),
		Enabled:      true,
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := book.Compute(nil)
	if len(rows) == 0 {
		t.Fatal("expected computed rows")
	}
	return book, rows
}

func TestRenderSchedule(t *testing.T) {
	book, rows := testBook(t)
	got := RenderSchedule(NewSchedule(book.Currency(), rows))

	for _, want := range []string{
		"# Amortization Schedule",
		"Reporting currency: **ILS**",
		"| Date | Loan | Rate | Starting | Payment | Principal | Interest | Ending | Notes |",
		"| 01/02/2024 | Apartment | 4.80% |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderSchedule() misses %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "error") {
		t.Errorf("RenderSchedule() reported a template error:\n%s", got)
	}
	// One table line per row.
	if gotLines := strings.Count(got, "\n| 01/"); gotLines != len(rows) {
		t.Errorf("rendered %d row lines, want %d", gotLines, len(rows))
	}
}

func TestSummaryMarkdown(t *testing.T) {
	book, rows := testBook(t)
	s := NewSummary(book, rows)

	if len(s.Loans) != 1 {
		t.Fatalf("summarized %d loans, want 1", len(s.Loans))
	}
	if s.Loans[0].Payments != 24 {
		t.Errorf("Payments = %d, want 24", s.Loans[0].Payments)
	}
	if s.Loans[0].Payoff != "01/01/2026" {
		t.Errorf("Payoff = %q, want %q", s.Loans[0].Payoff, "01/01/2026")
	}
	if !s.Loans[0].FinalBalance.IsZero() {
		t.Errorf("FinalBalance = %v, want zero", s.Loans[0].FinalBalance)
	}

	got := SummaryMarkdown(s)
	for _, want := range []string{"Loan Summary", "Apartment", "01/01/2026"} {
		if !strings.Contains(got, want) {
			t.Errorf("SummaryMarkdown() misses %q in:\n%s", want, got)
		}
	}
}

func TestCompareMarkdown(t *testing.T) {
	book, baselineRows := testBook(t)

	// Scenario: a lump sum shortening the term.
	if err := book.Append(loanbook.ExtraPayment{
		ID: "x", LoanID: "mortgage",
		Date:    loanbook.MustParseMonthIndex("06/2024"),
		Amount:  20_000,
		Effect:  loanbook.ReduceTerm,
		Enabled: true,
	}); err != nil {
		t.Fatal(err)
	}
	scenarioRows := book.Compute(nil)
	if len(scenarioRows) >= len(baselineRows) {
		t.Fatalf("scenario should shorten the schedule: %d vs %d rows", len(scenarioRows), len(baselineRows))
	}

	c := NewCompare("baseline", "lump sum", NewSummary(book, baselineRows), NewSummary(book, scenarioRows))
	if !c.InterestDelta.IsNegative() {
		t.Errorf("InterestDelta = %v, want negative (the scenario saves interest)", c.InterestDelta)
	}

	got := CompareMarkdown(c)
	for _, want := range []string{
		"Schedule Comparison: baseline vs lump sum",
		"Total interest",
		"Payoff by loan",
		"Apartment",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CompareMarkdown() misses %q in:\n%s", want, got)
		}
	}
}
