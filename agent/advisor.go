package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/yoramz/loanbook"
	"github.com/yoramz/loanbook/docs"
	"github.com/yoramz/loanbook/renderer"
)

const model = "gemini-2.5-pro"

// BookSource loads the current book and its CPI sidecar. The advisor reloads
// on every call so edits made during the session are visible.
type BookSource func() (*loanbook.Book, loanbook.CPITable, error)

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand his loans: what they cost, when they end,
			and what early repayments or rate changes would change.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			The user will assume you know about his loans; check the loan book first to understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewEconomist creates an expert grounding answers about rates and inflation
// in search results.
func NewEconomist() *Expert {
	return &Expert{
		Name: "Economist",
		Description: `This is an expert economist,
		well aware of central bank rates, inflation figures and mortgage market news.
		Ask the Economist whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in macro economics: interest rates, consumer price inflation,
			mortgage markets and banking. You leverage Google Search to ground your
			assertions in solid, recent sources, and you relate them to the user's request.
				`}}},
		},
	}
}

// NewBanker creates the expert in charge of the user's loan book. It can
// summarize the book, print schedules, and evaluate what-if scenarios.
func NewBanker(source BookSource) *Expert {
	lib := []Function{summaryFunc(source), scheduleFunc(source), whatIfFunc(source)}

	return &Expert{
		Name: "Banker",
		Description: `This is the Banker. He is in charge of reading the user's loan book.
		He can compute amortization schedules, summarize each loan's cost, and evaluate
		what an extra repayment would change.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a banker in charge of the user's loan book.
				You know how to use the Tools to extract relevant information about the user's loans.
				You are part of a team of experts; yours is everything about the loan book. They might
				ask approximative questions, figure out what they meant.

				Use the available tools to get information about the user's loans:
				  - the per-loan summary (total interest, payoff dates)
				  - the full amortization schedule
				  - what-if evaluations of extra repayments
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	// Decl declares this function.
	Decl *genai.FunctionDeclaration
	// Func calls this function.
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

func summaryFunc(source BookSource) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Summary",
			Description: `Summary condenses the user's loan book: per loan, the principal repaid,
			the total interest, the number of payments and grace months, the payoff date and the final balance.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted per-loan summary of the whole book.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			book, cpi, err := source()
			if err != nil {
				return errResponse(id, "Summary", err)
			}
			rows := book.Compute(cpi)
			return okResponse(id, "Summary", renderer.SummaryMarkdown(renderer.NewSummary(book, rows)))
		},
	}
}

func scheduleFunc(source BookSource) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Schedule",
			Description: `Schedule computes the full amortization schedule of the loan book:
			one row per loan per month, with the payment split into principal and interest.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"loan": {
						Type:        genai.TypeString,
						Description: "Optional loan ID to restrict the schedule to a single loan.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted amortization schedule table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			book, cpi, err := source()
			if err != nil {
				return errResponse(id, "Schedule", err)
			}
			rows := book.Compute(cpi)
			if loanID, ok := args["loan"].(string); ok && loanID != "" {
				if book.Loan(loanID) == nil {
					return errResponse(id, "Schedule", fmt.Errorf("unknown loan %q", loanID))
				}
				kept := rows[:0]
				for _, r := range rows {
					if r.LoanID == loanID {
						kept = append(kept, r)
					}
				}
				rows = kept
			}
			return okResponse(id, "Schedule", renderer.RenderSchedule(renderer.NewSchedule(book.Currency(), rows)))
		},
	}
}

func whatIfFunc(source BookSource) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "WhatIf",
			Description: `WhatIf evaluates a hypothetical extra repayment against a loan without
			changing the book: it compares the current schedule to the one including the repayment
			and reports the interest and payoff differences.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"loan": {
						Type:        genai.TypeString,
						Description: "The ID of the loan to repay against.",
					},
					"amount": {
						Type:        genai.TypeNumber,
						Description: "The amount of the extra repayment, in the book's currency.",
					},
					"date": {
						Type: genai.TypeString,
						Description: `The date of the extra repayment, DD/MM/YYYY or MM/YYYY.

						` + must(docs.GetTopic("dates")),
					},
					"effect": {
						Type:        genai.TypeString,
						Description: "Either reduceTerm (default: keep the payment, finish earlier) or reducePayment (keep the term, lower future payments).",
					},
				},
				Required: []string{"loan", "amount", "date"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted comparison of the schedule with and without the repayment.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			book, cpi, err := source()
			if err != nil {
				return errResponse(id, "WhatIf", err)
			}

			loanID, _ := args["loan"].(string)
			if book.Loan(loanID) == nil {
				return errResponse(id, "WhatIf", fmt.Errorf("unknown loan %q", loanID))
			}
			amount, ok := args["amount"].(float64)
			if !ok || amount <= 0 {
				return errResponse(id, "WhatIf", fmt.Errorf("argument 'amount' must be a positive number, got %v", args["amount"]))
			}
			sdate, _ := args["date"].(string)
			date, err := loanbook.ParseMonthIndex(sdate)
			if err != nil {
				return errResponse(id, "WhatIf", fmt.Errorf("argument 'date' must be a valid date, got %q: %w", sdate, err))
			}
			effect := loanbook.ReduceTerm
			if seffect, ok := args["effect"].(string); ok && seffect != "" {
				if effect, err = loanbook.ParseExtraEffect(seffect); err != nil {
					return errResponse(id, "WhatIf", err)
				}
			}

			baseline := book.Compute(cpi)
			extra := loanbook.ExtraPayment{
				ID:      "what-if",
				LoanID:  loanID,
				Date:    date,
				Amount:  amount,
				Effect:  effect,
				Enabled: true,
			}
			scenario := loanbook.ComputeSchedule(book.Loans(), append(book.ExtraPayments(), extra),
				book.RateChanges(), book.GracePeriods(), cpi, book.Currency())

			c := renderer.NewCompare("current", "with repayment",
				renderer.NewSummary(book, baseline), renderer.NewSummary(book, scenario))
			return okResponse(id, "WhatIf", renderer.CompareMarkdown(c))
		},
	}
}
