package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/yoramz/loanbook"
)

// Compare sets a baseline schedule against a what-if scenario, loan by loan.
type Compare struct {
	BaselineLabel string   `json:"baselineLabel"`
	ScenarioLabel string   `json:"scenarioLabel"`
	Baseline      *Summary `json:"baseline"`
	Scenario      *Summary `json:"scenario"`
	// InterestDelta is scenario interest minus baseline interest; negative
	// means the scenario saves money.
	InterestDelta loanbook.Money `json:"interestDelta"`
	// PaidDelta is scenario total cash flow minus baseline total cash flow.
	PaidDelta loanbook.Money `json:"paidDelta"`
}

// NewCompare creates a new Compare struct from two summaries of the same book.
func NewCompare(baselineLabel, scenarioLabel string, baseline, scenario *Summary) *Compare {
	return &Compare{
		BaselineLabel: baselineLabel,
		ScenarioLabel: scenarioLabel,
		Baseline:      baseline,
		Scenario:      scenario,
		InterestDelta: loanbook.M(scenario.interest-baseline.interest, baseline.Currency),
		PaidDelta:     loanbook.M(scenario.paid-baseline.paid, baseline.Currency),
	}
}

// CompareMarkdown renders the comparison of two schedule summaries.
func CompareMarkdown(c *Compare) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Schedule Comparison: %s vs %s", c.BaselineLabel, c.ScenarioLabel))
	doc.PlainText(fmt.Sprintf("Interest delta: %s. Cash flow delta: %s.",
		c.InterestDelta.SignedString(), c.PaidDelta.SignedString()))

	doc.H2("Totals")
	doc.Table(md.TableSet{
		Header: []string{"", c.BaselineLabel, c.ScenarioLabel},
		Rows: [][]string{
			{"Total interest", c.Baseline.TotalInterest.String(), c.Scenario.TotalInterest.String()},
			{"Total paid", c.Baseline.TotalPaid.String(), c.Scenario.TotalPaid.String()},
		},
	})

	doc.H2("Payoff by loan")
	byID := make(map[string]LoanSummary, len(c.Scenario.Loans))
	for _, l := range c.Scenario.Loans {
		byID[l.ID] = l
	}
	rows := make([][]string, 0, len(c.Baseline.Loans))
	for _, b := range c.Baseline.Loans {
		name := b.Name
		if name == "" {
			name = b.ID
		}
		sc, ok := byID[b.ID]
		if !ok {
			rows = append(rows, []string{name, b.Payoff, "-", b.Interest.String(), "-"})
			continue
		}
		rows = append(rows, []string{name, b.Payoff, sc.Payoff, b.Interest.String(), sc.Interest.String()})
	}
	doc.Table(md.TableSet{
		Header: []string{"Loan", "Payoff (" + c.BaselineLabel + ")", "Payoff (" + c.ScenarioLabel + ")", "Interest (" + c.BaselineLabel + ")", "Interest (" + c.ScenarioLabel + ")"},
		Rows:   rows,
	})

	return doc.String()
}
