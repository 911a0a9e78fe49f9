package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/perform/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd implements the 'assist' subcommand.
type assistCmd struct {
	start string
	date  string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `pfm assist [<prompt>...]

  Starts an interactive session with the AI assistant, grounded on a
  full pipeline run over the workspace. Requires a Gemini API key in the
  GEMINI_API_KEY environment variable.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "Start of the window (defaults to "+envStart+" or "+defaultStart+")")
	f.StringVar(&c.date, "d", "", "End of the window (defaults to today)")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

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

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst := agent.NewPerformanceAnalyst(out)
	quality := agent.NewDataQuality(out, pipeline.Resolver)
	a := agent.New(os.Stdout, os.Stdin, analyst, quality)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
