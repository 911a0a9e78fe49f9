package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform"
	"github.com/etnz/perform/nse"
	"github.com/google/subcommands"
)

// importCmd implements the 'import' subcommand.
type importCmd struct {
	holdings string
	bhavcopy string
	replace  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import holdings from CSV or closes from an NSE bhavcopy" }
func (*importCmd) Usage() string {
	return `pfm import -holdings <file.csv> [-replace]
pfm import -bhavcopy <file.csv>

  With -holdings, imports investor holdings from a CSV file with an
  'investor,security,quantity' header. New records are appended to the
  workspace holdings unless -replace is set.

  With -bhavcopy, imports equity daily closes from an NSE bhavcopy CSV
  into the market data. Both the classic and the sec_bhavdata_full
  layouts are accepted.

Usage Examples:
$ pfm import -holdings holdings.csv -replace
$ pfm import -bhavcopy cm30APR2024bhav.csv
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdings, "holdings", "", "CSV file of investor holdings to import")
	f.StringVar(&c.bhavcopy, "bhavcopy", "", "NSE bhavcopy CSV file of daily closes to import")
	f.BoolVar(&c.replace, "replace", false, "Replace existing workspace holdings instead of appending")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.holdings == "") == (c.bhavcopy == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -holdings or -bhavcopy is required.")
		return subcommands.ExitUsageError
	}

	var err error
	if c.holdings != "" {
		err = c.importHoldings(workspace())
	} else {
		err = c.importBhavcopy(workspace())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *importCmd) importHoldings(ws *perform.Workspace) error {
	file, err := os.Open(c.holdings)
	if err != nil {
		return err
	}
	defer file.Close()

	imported, err := perform.ImportHoldings(file)
	if err != nil {
		return fmt.Errorf("importing %q: %w", c.holdings, err)
	}

	portfolios := imported
	if !c.replace {
		existing, err := ws.Portfolios()
		if err != nil {
			return fmt.Errorf("loading holdings: %w", err)
		}
		// saved flat, grouped again on the next load
		portfolios = append(existing, imported...)
	}
	if err := ws.SavePortfolios(portfolios); err != nil {
		return fmt.Errorf("saving holdings: %w", err)
	}

	var records int
	for _, p := range imported {
		records += len(p.Holdings)
	}
	fmt.Fprintf(os.Stderr, "✅ Imported %d holdings for %d investors into %s\n", records, len(imported), ws.Path())
	return nil
}

func (c *importCmd) importBhavcopy(ws *perform.Workspace) error {
	file, err := os.Open(c.bhavcopy)
	if err != nil {
		return err
	}
	defer file.Close()

	points, err := nse.ParseBhavcopy(file)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", c.bhavcopy, err)
	}

	market, err := ws.Market()
	if err != nil {
		return fmt.Errorf("loading market data: %w", err)
	}
	if err := market.Append(points...); err != nil {
		return err
	}
	if err := ws.SaveMarket(market); err != nil {
		return fmt.Errorf("saving market data: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Imported %d closes into %s\n", len(points), ws.MarketDir())
	return nil
}
