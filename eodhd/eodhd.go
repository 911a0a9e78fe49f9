// Package eodhd fetches end-of-day closes and instrument candidates from
// the EOD Historical Data API (https://eodhd.com).
//
// Registry ids are EODHD tickers already: HDFCBANK.NSE addresses the NSE
// listing and NSEI.INDX the index, so no id translation layer is needed.
// Responses are cached on disk for a day, which keeps repeated fetches
// within the free subscription quota.
package eodhd

import (
	"fmt"
	"log"
	"net/url"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
)

// baseURL is a variable so tests can point the client at a local server.
var baseURL = "https://eodhd.com/api"

// FetchDailyCloses returns the daily closes of one instrument between from
// and to, bounds included.
func FetchDailyCloses(apiKey string, id perform.ID, from, to date.Date) ([]perform.PricePoint, error) {
	// https://eodhd.com/api/eod/HDFCBANK.NSE?api_token=demo&fmt=json
	// [
	//   {
	//     "date": "2024-04-30",
	//     "open": 1500.0,
	//     "high": 1540.0,
	//     "low": 1495.0,
	//     "close": 1520.5,
	//     "adjusted_close": 1510.2,
	//     "volume": 1234567
	//   },
	// ...]
	if err := id.Validate(); err != nil {
		return nil, err
	}
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		baseURL, url.PathEscape(string(id)), url.QueryEscape(apiKey), from, to)

	type info struct {
		Date  date.Date `json:"date"`
		Close float64   `json:"close"`
	}
	content := make([]info, 0)
	if err := jwget(newDailyCachingClient(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch closes for %s: %w", id, err)
	}

	points := make([]perform.PricePoint, 0, len(content))
	for _, in := range content {
		if in.Close <= 0 {
			// The API occasionally serves zero closes on non-trading
			// days; they are not prices.
			log.Printf("skipping close %v for %s on %s", in.Close, id, in.Date)
			continue
		}
		points = append(points, perform.PricePoint{ID: id, On: in.Date, Price: in.Close})
	}
	return points, nil
}
