// Package cmd implements the CLI application to value portfolios and
// reconcile their performance.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Commands lists every subcommand for registration by the main package.
var Commands = []subcommands.Command{
	&resolveCmd{},
	&declareCmd{},
	&searchCmd{Cmd: &declareCmd{}},
	&fetchCmd{},
	&importCmd{},
	&exportCmd{},
	&valueCmd{},
	&trackCmd{},
	&compareCmd{},
	&summaryCmd{},
	&gapsCmd{},
	&topicCmd{},
	&assistCmd{},
}

// Environment variables read at startup. A .env file in the working
// directory is folded in first; real environment values win over it.
const (
	envData     = "PFM_DATA"
	envStart    = "PFM_START"
	envCurrency = "PFM_CURRENCY"
	envEODHDKey = "PFM_EODHD_KEY"
)

// As a CLI application the process is short lived, so package level
// settings are fine.
var (
	dataFlag     = flag.String("data", "", "path to the workspace folder (defaults to "+envData+" or '.')")
	currencyFlag = flag.String("currency", "", "quote currency of the workspace (defaults to "+envCurrency+" or 'INR')")
)

// defaultStart is the valuation window start when neither the -start flag
// nor PFM_START is set: the beginning of the Indian fiscal year the
// original data set covers.
const defaultStart = "2024-04-01"

// LoadEnv folds a .env file from the working directory into the
// environment. Missing file is fine.
func LoadEnv() { _ = godotenv.Load() }

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// workspace opens the configured workspace folder.
func workspace() *perform.Workspace {
	dir := *dataFlag
	if dir == "" {
		dir = env(envData, ".")
	}
	cur := *currencyFlag
	if cur == "" {
		cur = env(envCurrency, "INR")
	}
	return perform.NewWorkspace(dir, cur)
}

// parseWindow resolves the valuation window from the -start and -d flag
// values, falling back to PFM_START and today.
func parseWindow(start, end string) (from, to date.Date, err error) {
	if start == "" {
		start = env(envStart, defaultStart)
	}
	from, err = date.Parse(start)
	if err != nil {
		return from, to, fmt.Errorf("parsing start date: %w", err)
	}
	if end == "" {
		to = date.Today()
	} else if to, err = date.Parse(end); err != nil {
		return from, to, fmt.Errorf("parsing end date: %w", err)
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return from, to, nil
}

// loadResolver builds the resolver over the workspace registry.
func loadResolver(ws *perform.Workspace) (*perform.Resolver, error) {
	reg, err := ws.Registry()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return perform.NewResolver(reg, perform.DefaultFuzzyThreshold), nil
}

// loadPipeline assembles a pipeline over the whole workspace, ready to
// run on the portfolios it returns.
func loadPipeline(ws *perform.Workspace, start, end string) (*perform.Pipeline, []perform.Portfolio, error) {
	from, to, err := parseWindow(start, end)
	if err != nil {
		return nil, nil, err
	}
	resolver, err := loadResolver(ws)
	if err != nil {
		return nil, nil, err
	}
	market, err := ws.Market()
	if err != nil {
		return nil, nil, fmt.Errorf("loading market data: %w", err)
	}
	benchmarks, err := ws.Benchmarks()
	if err != nil {
		return nil, nil, fmt.Errorf("loading benchmarks: %w", err)
	}
	portfolios, err := ws.Portfolios()
	if err != nil {
		return nil, nil, fmt.Errorf("loading holdings: %w", err)
	}
	p := &perform.Pipeline{
		Resolver:   resolver,
		Market:     market,
		Start:      from,
		End:        to,
		Benchmarks: benchmarks,
	}
	return p, portfolios, nil
}

// reportFailures prints every entity that failed with its configuration
// error. Failures never abort the rest of the run.
func reportFailures(failed map[string]error) {
	for _, entity := range sortedKeys(failed) {
		fmt.Fprintf(os.Stderr, "Warning: skipped %q: %v\n", entity, failed[entity])
	}
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
