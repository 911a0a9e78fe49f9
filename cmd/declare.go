package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/perform"
	"github.com/google/subcommands"
)

// aliasList collects repeated -a flags.
type aliasList []string

func (a *aliasList) String() string { return strings.Join(*a, ",") }
func (a *aliasList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

// declareCmd implements the 'declare' subcommand.
type declareCmd struct {
	symbol   string
	exchange string
	name     string
	aliases  aliasList
}

func (*declareCmd) Name() string     { return "declare" }
func (*declareCmd) Synopsis() string { return "declare an instrument in the registry" }
func (*declareCmd) Usage() string {
	return `pfm declare -s <symbol> -x <exchange> -n <name> [-a <alias>]...

  Declares an instrument, creating the mapping from its official name (and
  any aliases) to the SYMBOL.EXCHANGE identifier used by the market data.
  Resolution only ever matches declared instruments.

Usage Examples:
$ pfm declare -s HDFCBANK -x NSE -n "HDFC Bank Limited" -a "HDFC Bank Ltd"
`
}

func (c *declareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Instrument symbol (e.g., 'HDFCBANK')")
	f.StringVar(&c.exchange, "x", "NSE", "Exchange code the symbol is listed on")
	f.StringVar(&c.name, "n", "", "Official instrument name used for resolution")
	f.Var(&c.aliases, "a", "Alternate name for the instrument. Repeatable.")
}

func (c *declareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -s and -n flags are both required.")
		return subcommands.ExitUsageError
	}

	id, err := perform.NewID(c.symbol, c.exchange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	ins, err := perform.NewInstrument(id, c.name, c.aliases...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ws := workspace()
	reg, err := ws.Registry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := reg.Add(ins); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ws.SaveRegistry(reg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving registry: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("✅ Declared %s as %q in %s\n", id, c.name, ws.Path())
	return subcommands.ExitSuccess
}

// GenerateCommand builds a ready-to-paste declare invocation, used by
// 'search' to suggest declarations for its results.
func (c *declareCmd) GenerateCommand(symbol, exchange, name string) string {
	return fmt.Sprintf("pfm declare -s %s -x %s -n %q", symbol, exchange, name)
}
