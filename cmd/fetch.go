package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
	"github.com/etnz/perform/eodhd"
	"github.com/google/subcommands"
)

// fetchCmd implements the 'fetch' subcommand.
type fetchCmd struct {
	apiFlag string
	from    string
	to      string

	// ad-hoc quote source, used instead of EODHD when -url is set
	url  string
	path string
	id   string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily closes into the market data" }
func (*fetchCmd) Usage() string {
	return `pfm fetch [-from <date>] [-to <date>]
pfm fetch -url <url> -path <jsonpath> -id <instrument-id>

  Without -url, fetches daily closes from eodhd.com for every instrument
  in the registry, resuming each one after its latest stored close.
  Requires the ` + envEODHDKey + ` environment variable to be set or passed
  as a flag.

  With -url, fetches a single quote from an arbitrary JSON endpoint and
  stores it under the given instrument id, stamped on today. This covers
  instruments no structured feed serves.

Usage Examples:
$ pfm fetch -from 2024-04-01
$ pfm fetch -url 'https://example.com/widget.json' -path '$.latestPrice' -id 'NIFTY50.NSE'
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiFlag, "eodhd-api-key", "", "EODHD API key. This flag takes precedence over the "+envEODHDKey+" environment variable. You can get one at https://eodhd.com/")
	f.StringVar(&c.from, "from", "", "Fetch from this date, ignoring already stored closes")
	f.StringVar(&c.to, "to", "", "Fetch up to this date (defaults to today)")
	f.StringVar(&c.url, "url", "", "JSON endpoint to fetch a single quote from")
	f.StringVar(&c.path, "path", "", "JSONPath of the price inside the -url response")
	f.StringVar(&c.id, "id", "", "Instrument id the -url quote belongs to")
}

func (c *fetchCmd) apiKey() string {
	if c.apiFlag == "" {
		c.apiFlag = os.Getenv(envEODHDKey)
	}
	return c.apiFlag
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws := workspace()
	market, err := ws.Market()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading market data: %v\n", err)
		return subcommands.ExitFailure
	}

	var fetched int
	if c.url != "" {
		fetched, err = c.fetchQuote(market)
	} else {
		fetched, err = c.fetchEODHD(ws, market)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := ws.SaveMarket(market); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving market data: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Stored %d closes in %s\n", fetched, ws.MarketDir())
	return subcommands.ExitSuccess
}

// fetchQuote pulls one quote from the ad-hoc -url source.
func (c *fetchCmd) fetchQuote(market *perform.MarketData) (int, error) {
	if c.path == "" || c.id == "" {
		return 0, fmt.Errorf("-url requires both -path and -id")
	}
	src := perform.QuoteSource{ID: perform.ID(c.id), URL: c.url, Path: c.path}
	point, err := perform.FetchQuote(nil, src)
	if err != nil {
		return 0, err
	}
	if err := market.Append(point); err != nil {
		return 0, err
	}
	fmt.Printf("➡️   %s: %.2f on %s\n", point.ID, point.Price, point.On)
	return 1, nil
}

// fetchEODHD refreshes every registered instrument from eodhd.com.
func (c *fetchCmd) fetchEODHD(ws *perform.Workspace, market *perform.MarketData) (int, error) {
	key := c.apiKey()
	if key == "" {
		return 0, fmt.Errorf("EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable", envEODHDKey)
	}

	reg, err := ws.Registry()
	if err != nil {
		return 0, fmt.Errorf("loading registry: %w", err)
	}
	if reg.Len() == 0 {
		return 0, fmt.Errorf("registry is empty, declare instruments first")
	}

	to := date.Today()
	if c.to != "" {
		if to, err = date.Parse(c.to); err != nil {
			return 0, fmt.Errorf("parsing -to date: %w", err)
		}
	}

	var fetched int
	for _, ins := range reg.Instruments() {
		from, err := c.startOf(market, ins.ID())
		if err != nil {
			return fetched, err
		}
		if to.Before(from) {
			continue // already up to date
		}
		points, err := eodhd.FetchDailyCloses(key, ins.ID(), from, to)
		if err != nil {
			// one broken instrument must not lose the closes already fetched
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", ins.ID(), err)
			continue
		}
		if err := market.Append(points...); err != nil {
			return fetched, err
		}
		fmt.Printf("➡️   %s: %d closes\n", ins.ID(), len(points))
		fetched += len(points)
	}
	return fetched, nil
}

// startOf returns the first date to fetch for an instrument: the -from
// flag when set, otherwise the day after its latest stored close, falling
// back to the default window start for a new instrument.
func (c *fetchCmd) startOf(market *perform.MarketData, id perform.ID) (date.Date, error) {
	if c.from != "" {
		return date.Parse(c.from)
	}
	if h := market.History(id); h != nil && h.Len() > 0 {
		latest, _ := h.Latest()
		return latest.Add(1), nil
	}
	return date.Parse(env(envStart, defaultStart))
}
