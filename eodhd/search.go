package eodhd

import (
	"fmt"
	"net/url"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
)

// SearchResult matches the structure of a single item in the EODHD search
// API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
}

// ID returns the candidate's registry id.
func (r SearchResult) ID() (perform.ID, error) {
	return perform.NewID(r.Code, r.Exchange)
}

// Search looks up instrument candidates for a free-text term.
func Search(apiKey, term string) ([]SearchResult, error) {
	addr := fmt.Sprintf("%s/search/%s?fmt=json&api_token=%s",
		baseURL, url.PathEscape(term), url.QueryEscape(apiKey))

	var results []SearchResult
	if err := jwget(newDailyCachingClient(), addr, &results); err != nil {
		return nil, fmt.Errorf("cannot search %q: %w", term, err)
	}
	return results, nil
}
