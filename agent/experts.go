package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/etnz/perform"
	"github.com/etnz/perform/docs"
	"github.com/etnz/perform/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator fronts the specialist experts.
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

			Learn about the experts' skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand how the portfolios in his workspace performed:
			who is ahead, by how much, against which benchmark, and whether the numbers can be trusted.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.
			When an expert reports data gaps, surface them: a return computed on partial coverage must be
			presented as such, never as a solid figure.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// must panics on error: used for embedded docs that are compiled in and
// cannot be missing.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// NewPerformanceAnalyst is the expert on returns, rankings and metrics.
// Its tools read the outcome of a full pipeline run.
func NewPerformanceAnalyst(out *perform.Outcome) *Expert {
	lib := []Function{standingsTool(out), trackTool(out), summaryTool(out)}

	return &Expert{
		Name: "PerformanceAnalyst",
		Description: `This is the performance analyst. He knows every investor and benchmark
		in the workspace, their monthly and cumulative returns, their rankings and their
		risk metrics. Ask him who is ahead, by how much, and since when.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a performance analyst for a set of investor portfolios and benchmarks.
				Use the available tools to ground every figure you give:
				  - the standings and cumulative return matrix
				  - one investor's monthly series
				  - one investor's summary metrics

				Returns are percentages of the previous month, cumulative returns compound from each
				entity's own first month. A value reported as n/a is undefined, never zero: say so
				instead of inventing a number.

				Below is the documentation of the comparison semantics:

				` + must(docs.GetTopic("comparison"))}}},
		},
		Library: NewLibrary(lib),
	}
}

// NewDataQuality is the expert on gaps: unresolved names, missing
// prices, missing months.
func NewDataQuality(out *perform.Outcome, resolver *perform.Resolver) *Expert {
	lib := []Function{gapsTool(out), resolveTool(resolver)}

	return &Expert{
		Name: "DataQuality",
		Description: `This is the data quality expert. He knows which security names failed to
		resolve, which instruments had no usable price, and which months are missing from each
		series. Ask him whether a figure can be trusted and how to fix a gap.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the data quality expert of a portfolio valuation run.
				Use the available tools to inspect the gap report and to test how a security name resolves.
				When asked about a gap, explain the likely fix: declaring the instrument, adding an alias,
				or fetching the missing closes.

				Below is the documentation of the resolution semantics:

				` + must(docs.GetTopic("resolution"))}}},
		},
		Library: NewLibrary(lib),
	}
}

func standingsTool(out *perform.Outcome) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Standings",
			Description: `Standings returns the full comparison: the cumulative return matrix
			month by month for every investor and benchmark, the latest standings with
			competition ranks, and the alpha against each benchmark.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "Markdown tables of cumulative returns and standings.",
			},
		},
		Run: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			if len(out.Rows) == 0 {
				return reply(id, "Standings", "", fmt.Errorf("no entity has a monthly valuation yet"))
			}
			return reply(id, "Standings", renderer.ComparisonMarkdown(out.Rows, out.Benchmarks), nil)
		},
	}
}

func trackTool(out *perform.Outcome) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Track",
			Description: `Track returns one entity's monthly performance series: value, monthly
			return and cumulative return per month, plus its missing months.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"entity": {
						Type:        genai.TypeString,
						Description: "The investor or benchmark name, as listed by Standings.",
					},
				},
				Required: []string{"entity"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the entity's monthly series.",
			},
		},
		Run: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			entity, ok := args["entity"].(string)
			if !ok {
				return reply(id, "Track", "", fmt.Errorf("argument 'entity' is not a string but %T", args["entity"]))
			}
			s := out.SeriesOf(entity)
			if s == nil {
				return reply(id, "Track", "", fmt.Errorf("unknown entity %q, known: %s", entity, strings.Join(entityNames(out), ", ")))
			}
			return reply(id, "Track", renderer.TrackMarkdown(s), nil)
		},
	}
}

func summaryTool(out *perform.Outcome) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Summary",
			Description: `Summary returns one entity's metrics: cumulative and average monthly
			return, best and worst month, volatility, maximum drawdown, months outperforming
			each benchmark.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"entity": {
						Type:        genai.TypeString,
						Description: "The investor or benchmark name, as listed by Standings.",
					},
				},
				Required: []string{"entity"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the entity's summary metrics.",
			},
		},
		Run: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			entity, ok := args["entity"].(string)
			if !ok {
				return reply(id, "Summary", "", fmt.Errorf("argument 'entity' is not a string but %T", args["entity"]))
			}
			m, ok := out.Metrics[entity]
			if !ok {
				return reply(id, "Summary", "", fmt.Errorf("unknown entity %q, known: %s", entity, strings.Join(entityNames(out), ", ")))
			}
			return reply(id, "Summary", renderer.SummaryMarkdown([]perform.Metrics{m}), nil)
		},
	}
}

func gapsTool(out *perform.Outcome) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "GapReport",
			Description: `GapReport returns every data gap of the run: unresolved security names
			with their closest near miss, fuzzy matches that were accepted, instruments without
			a usable price, months without any valuation, and entities skipped over a
			configuration error.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown gap report.",
			},
		},
		Run: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return reply(id, "GapReport", renderer.GapsMarkdown(out.Report), nil)
		},
	}
}

func resolveTool(resolver *perform.Resolver) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Resolve",
			Description: `Resolve tests how one free-text security name resolves against the
			instrument registry: exactly, fuzzily with a score, or not at all with the closest
			near miss.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "The free-text security name to resolve.",
					},
				},
				Required: []string{"name"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "How the name resolved, with id, score and near miss.",
			},
		},
		Run: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			name, ok := args["name"].(string)
			if !ok {
				return reply(id, "Resolve", "", fmt.Errorf("argument 'name' is not a string but %T", args["name"]))
			}
			res := resolver.Resolve(name)
			switch res.Confidence {
			case perform.Exact:
				return reply(id, "Resolve", fmt.Sprintf("%q resolves exactly to %s (matched %q)", name, res.ID, res.Matched), nil)
			case perform.Fuzzy:
				return reply(id, "Resolve", fmt.Sprintf("%q resolves fuzzily to %s (score %.2f, matched %q)", name, res.ID, res.Score, res.Matched), nil)
			default:
				return reply(id, "Resolve", fmt.Sprintf("%q is unresolved; closest is %q at %.2f, threshold %.2f", name, res.Matched, res.Score, resolver.Threshold()), nil)
			}
		},
	}
}

// entityNames lists every entity with a series, sorted.
func entityNames(out *perform.Outcome) []string {
	names := make([]string, 0, len(out.Series))
	for _, s := range out.Series {
		names = append(names, s.Entity())
	}
	sort.Strings(names)
	return names
}
