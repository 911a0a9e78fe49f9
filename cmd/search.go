package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/perform/eodhd"
	"github.com/google/subcommands"
)

// searchCmd implements the 'search' subcommand.
type searchCmd struct {
	apiFlag    string
	Cmd        *declareCmd
	showErrors bool
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search instruments on EODHD" }
func (*searchCmd) Usage() string {
	return `pfm search <term>

  Searches instruments via the EOD Historical Data API and prints
  ready-to-use 'pfm declare' commands for the results.

  Requires the ` + envEODHDKey + ` environment variable to be set or passed
  as a flag.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiFlag, "eodhd-api-key", "", "EODHD API key. This flag takes precedence over the "+envEODHDKey+" environment variable. You can get one at https://eodhd.com/")
	f.BoolVar(&c.showErrors, "show-errors", false, "Display entries whose ticker cannot form a valid instrument id, with the error")
}

// apiKey retrieves the EODHD API key from the command-line flag or the
// environment variable. The flag wins.
func (c *searchCmd) apiKey() string {
	if c.apiFlag == "" {
		c.apiFlag = os.Getenv(envEODHDKey)
	}
	return c.apiFlag
}

func (c *searchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	term := strings.Join(f.Args(), " ")

	key := c.apiKey()
	if key == "" {
		fmt.Fprintf(os.Stderr, "Error: EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable\n", envEODHDKey)
		return subcommands.ExitFailure
	}

	results, err := eodhd.Search(key, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching instruments: %v\n", err)
		return subcommands.ExitFailure
	}

	if len(results) == 0 {
		fmt.Printf("No results found for '%s'.\n", term)
		return subcommands.ExitSuccess
	}

	fmt.Printf("Found %d results for '%s':\n\n", len(results), term)

	for _, item := range results {
		fmt.Printf("➡️   Name       : %s (%s)\n", item.Name, item.Code)
		fmt.Printf("    Type        : %s, Country: %s, Currency: %s\n", item.Type, item.Country, item.Currency)
		fmt.Printf("    Exchange    : %s\n", item.Exchange)
		fmt.Printf("    Prev. Close : %.2f on %s\n", item.PreviousClose, item.PreviousCloseDate)

		id, err := item.ID()
		if err != nil {
			if c.showErrors {
				fmt.Fprintf(os.Stderr, "    Error creating instrument id for %s (%s): %v\n\n", item.Name, item.Code, err)
			}
			continue // skip invalid results
		}

		fmt.Printf("    $ %s\n\n", c.Cmd.GenerateCommand(id.Symbol(), id.Exchange(), item.Name))
	}

	return subcommands.ExitSuccess
}
