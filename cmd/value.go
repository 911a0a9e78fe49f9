package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
	"github.com/etnz/perform/renderer"
	"github.com/google/subcommands"
)

// valueCmd implements the 'value' subcommand.
type valueCmd struct {
	entity string
	date   string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display detailed valuations for a specific date" }
func (*valueCmd) Usage() string {
	return `pfm value [-e <entity>] [-d <date>]

  Values every holding of each investor at the given date, using the most
  recent close on or before that date. Holdings whose security cannot be
  resolved or priced stay visible in the table with their gap.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.entity, "e", "", "Only value this investor")
	f.StringVar(&c.date, "d", date.Today().String(), "Valuation date (YYYY-MM-DD)")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ws := workspace()
	resolver, err := loadResolver(ws)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	market, err := ws.Market()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading market data: %v\n", err)
		return subcommands.ExitFailure
	}
	portfolios, err := ws.Portfolios()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	portfolios, err = filterEntity(portfolios, c.entity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	rep := perform.NewReport()
	for _, p := range portfolios {
		v, details := perform.ValuateDetail(p.Entity, p.Holdings, on, resolver, market, rep.Entity(p.Entity))
		printMarkdown(renderer.ValuationMarkdown(v, details))
	}
	return subcommands.ExitSuccess
}

// filterEntity narrows portfolios to one entity when requested.
func filterEntity(portfolios []perform.Portfolio, entity string) ([]perform.Portfolio, error) {
	if entity == "" {
		return portfolios, nil
	}
	for _, p := range portfolios {
		if p.Entity == entity {
			return []perform.Portfolio{p}, nil
		}
	}
	return nil, fmt.Errorf("no holdings found for entity %q", entity)
}
