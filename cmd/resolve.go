package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform"
	"github.com/google/subcommands"
)

// resolveCmd implements the 'resolve' subcommand.
type resolveCmd struct{}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "resolve free-text security names against the registry" }
func (*resolveCmd) Usage() string {
	return `pfm resolve <name>...

  Resolves each name against the instrument registry and shows how it
  matched: exactly, fuzzily with its similarity score, or not at all with
  the closest near miss.

Usage Examples:
$ pfm resolve "HDFC Bank Ltd" "Reliance Inds."
`
}

func (c *resolveCmd) SetFlags(f *flag.FlagSet) {}

func (c *resolveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one security name is required.")
		return subcommands.ExitUsageError
	}

	resolver, err := loadResolver(workspace())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	for _, name := range f.Args() {
		res := resolver.Resolve(name)
		switch res.Confidence {
		case perform.Exact:
			fmt.Printf("✅ %-40q → %s (exact, matched %q)\n", name, res.ID, res.Matched)
		case perform.Fuzzy:
			fmt.Printf("⚠️  %-40q → %s (fuzzy %.2f, matched %q)\n", name, res.ID, res.Score, res.Matched)
		default:
			status = subcommands.ExitFailure
			if res.Matched == "" {
				fmt.Printf("❌ %-40q unresolved (registry is empty)\n", name)
			} else {
				fmt.Printf("❌ %-40q unresolved (best %q at %.2f, threshold %.2f)\n",
					name, res.Matched, res.Score, resolver.Threshold())
			}
		}
	}
	return status
}
