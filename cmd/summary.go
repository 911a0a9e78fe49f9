package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform"
	"github.com/etnz/perform/renderer"
	"github.com/google/subcommands"
)

// summaryCmd implements the 'summary' subcommand.
type summaryCmd struct {
	entity string
	start  string
	date   string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display summary metrics per investor" }
func (*summaryCmd) Usage() string {
	return `pfm summary [-e <entity>] [-start <date>] [-d <date>]

  Summarizes each investor's series: cumulative and average monthly
  return, best and worst month, rolling volatility, maximum drawdown and
  months outperforming each benchmark. Metrics the series is too short
  for are reported as not applicable, never as zero.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.entity, "e", "", "Only summarize this investor")
	f.StringVar(&c.start, "start", "", "Start of the window (defaults to "+envStart+" or "+defaultStart+")")
	f.StringVar(&c.date, "d", "", "End of the window (defaults to today)")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	pipeline, portfolios, err := loadPipeline(workspace(), c.start, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	portfolios, err = filterEntity(portfolios, c.entity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	out, err := pipeline.Run(ctx, portfolios)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	reportFailures(out.Failed)

	var metrics []perform.Metrics
	for _, s := range out.Series {
		if isBenchmark(s.Entity(), out.Benchmarks) {
			continue
		}
		metrics = append(metrics, out.Metrics[s.Entity()])
	}
	if len(metrics) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to summarize: no investor has a monthly valuation.")
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.SummaryMarkdown(metrics))
	return subcommands.ExitSuccess
}
