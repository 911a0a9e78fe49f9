package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform/renderer"
	"github.com/google/subcommands"
)

// compareCmd implements the 'compare' subcommand.
type compareCmd struct {
	start string
	date  string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare every investor and benchmark month by month" }
func (*compareCmd) Usage() string {
	return `pfm compare [-start <date>] [-d <date>]

  Aligns every investor and benchmark on the union of their months and
  shows the cumulative return matrix, the latest standings with
  competition ranks, and the alpha against each benchmark. A month an
  entity has no data for stays blank, it never counts as zero.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "Start of the window (defaults to "+envStart+" or "+defaultStart+")")
	f.StringVar(&c.date, "d", "", "End of the window (defaults to today)")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	pipeline, portfolios, err := loadPipeline(workspace(), c.start, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := pipeline.Run(ctx, portfolios)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	reportFailures(out.Failed)

	if len(out.Rows) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to compare: no entity has a monthly valuation.")
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ComparisonMarkdown(out.Rows, out.Benchmarks))
	return subcommands.ExitSuccess
}
