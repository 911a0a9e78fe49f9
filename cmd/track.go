package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform/renderer"
	"github.com/google/subcommands"
)

// trackCmd implements the 'track' subcommand.
type trackCmd struct {
	entity string
	start  string
	date   string
}

func (*trackCmd) Name() string     { return "track" }
func (*trackCmd) Synopsis() string { return "display the monthly performance series per investor" }
func (*trackCmd) Usage() string {
	return `pfm track [-e <entity>] [-start <date>] [-d <date>]

  Values each investor at every month end of the window and shows the
  monthly and cumulative returns. The first month has no monthly return,
  and a month nothing could be priced in is reported missing rather than
  counted as zero.
`
}

func (c *trackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.entity, "e", "", "Only track this investor")
	f.StringVar(&c.start, "start", "", "Start of the window (defaults to "+envStart+" or "+defaultStart+")")
	f.StringVar(&c.date, "d", "", "End of the window (defaults to today)")
}

func (c *trackCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	for _, s := range out.Series {
		if isBenchmark(s.Entity(), out.Benchmarks) {
			continue
		}
		printMarkdown(renderer.TrackMarkdown(s))
	}
	return subcommands.ExitSuccess
}

func isBenchmark(entity string, benchmarks []string) bool {
	for _, b := range benchmarks {
		if b == entity {
			return true
		}
	}
	return false
}
