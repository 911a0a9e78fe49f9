package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform/renderer"
	"github.com/google/subcommands"
)

// gapsCmd implements the 'gaps' subcommand.
type gapsCmd struct {
	start string
	date  string
}

func (*gapsCmd) Name() string     { return "gaps" }
func (*gapsCmd) Synopsis() string { return "display the data gap report of a full run" }
func (*gapsCmd) Usage() string {
	return `pfm gaps [-start <date>] [-d <date>]

  Runs the whole pipeline and reports every data gap it hit: unresolved
  security names with their closest near miss, fuzzy matches that were
  accepted, instruments without a usable price, and months without any
  valuation. Gaps never abort a run, this report is how they stay visible.
`
}

func (c *gapsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "Start of the window (defaults to "+envStart+" or "+defaultStart+")")
	f.StringVar(&c.date, "d", "", "End of the window (defaults to today)")
}

func (c *gapsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	printMarkdown(renderer.GapsMarkdown(out.Report))
	return subcommands.ExitSuccess
}
