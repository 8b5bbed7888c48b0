package agent

import (
	"context"
	"fmt"

	"github.com/amey1907/papertrade"
	"github.com/amey1907/papertrade/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user runs a paper-trading portfolio: virtual strategies on NSE options and equities,
			no real money. He is here primarily to understand his positions, risk and performance.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request.

			The user will assume you know his strategies and their books; check the accountant first.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst is a market analyst grounded with web search, for questions about
// NIFTY, India VIX, expiries and market news.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		very well aware of the Indian derivatives market, NIFTY, India VIX,
		expiry calendars and the latest market news.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in the Indian equity and derivatives markets. You can search and
			find anything related to NSE, NIFTY, India VIX, option expiries and listed companies.
			You leverage Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAccountant is the expert over the user's paper-trading store. It reads
// the books and history through function calls; it never trades.
func NewAccountant(store string, strategies []papertrade.Strategy) *Expert {
	lib := []Function{
		portfolioFunc(store),
		positionsFunc(store, strategies),
		ledgerFunc(store, strategies),
	}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's
		paper-trading books: per-strategy cash ledgers, open and closed positions,
		and the portfolio revaluation history.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's paper-trading portfolio.
				You know how to use the Tools to extract relevant information:
				  - the portfolio value history
				  - per-strategy positions, open and closed
				  - per-strategy cash ledgers
				You only read; you never propose or apply trades. Pardon the other experts'
				approximative language and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// fail wraps an error into a function response.
func fail(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID: id, Name: name,
		Response: map[string]any{"error": err.Error()},
	}
}

// ok wraps a markdown payload into a function response.
func ok(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID: id, Name: name,
		Response: map[string]any{"output": output},
	}
}

func portfolioFunc(store string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Portfolio",
			Description: `Portfolio returns the revaluation history of the whole paper portfolio:
			value, unrealized and realized P&L per revaluation, oldest first.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the portfolio history.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			history, err := papertrade.LoadHistory(store)
			if err != nil {
				return fail(id, "Portfolio", err)
			}
			return ok(id, "Portfolio", renderer.HistoryMarkdown(history))
		},
	}
}

// strategyArg resolves the optional "strategy" argument against the
// registered strategies; nil selects them all.
func strategyArg(args map[string]any, strategies []papertrade.Strategy) ([]papertrade.Strategy, error) {
	iname, has := args["strategy"]
	if !has {
		return strategies, nil
	}
	name, okk := iname.(string)
	if !okk {
		return nil, fmt.Errorf("argument 'strategy' is not a string as expected but %T", iname)
	}
	for _, s := range strategies {
		if s.Name() == name {
			return []papertrade.Strategy{s}, nil
		}
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

var strategyParam = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"strategy": {
			Type:        genai.TypeString,
			Description: "The strategy name. All strategies when omitted.",
		},
	},
}

func positionsFunc(store string, strategies []papertrade.Strategy) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Positions",
			Description: `Positions lists a strategy's positions, open then closed,
			with entry price, last price, P&L and Greeks.`,
			Parameters: strategyParam,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of positions per strategy book.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			selected, err := strategyArg(args, strategies)
			if err != nil {
				return fail(id, "Positions", err)
			}
			r := &papertrade.DailyReport{}
			for _, s := range selected {
				if err := papertrade.LoadStrategyBook(store, s); err != nil {
					return fail(id, "Positions", err)
				}
				br := papertrade.BookReport{Metrics: s.Book().Metrics()}
				for _, p := range s.Book().Positions() {
					if p.IsOpen() {
						br.Open = append(br.Open, p)
					} else {
						br.Closed = append(br.Closed, p)
					}
				}
				r.Books = append(r.Books, br)
			}
			return ok(id, "Positions", renderer.PositionsMarkdown(r))
		},
	}
}

func ledgerFunc(store string, strategies []papertrade.Strategy) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Ledger",
			Description: `Ledger returns a strategy's full cash ledger: every cash movement
			with its action, quantity, price, fee and running balance.`,
			Parameters: strategyParam,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted ledger table per strategy.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			selected, err := strategyArg(args, strategies)
			if err != nil {
				return fail(id, "Ledger", err)
			}
			var out string
			for _, s := range selected {
				if err := papertrade.LoadStrategyBook(store, s); err != nil {
					return fail(id, "Ledger", err)
				}
				out += renderer.LedgerMarkdown(s.Name(), s.Book().Ledger()) + "\n"
			}
			return ok(id, "Ledger", out)
		},
	}
}
