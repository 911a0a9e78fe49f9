package perform

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/perform/date"
)

// QuoteSource declares an ad-hoc JSON quote endpoint for one instrument:
// any URL returning JSON plus a jsonpath to the price inside the response.
// It covers the long tail of instruments no structured feed serves, like
// index levels published only on an exchange widget endpoint.
type QuoteSource struct {
	ID   ID     `json:"id"`
	URL  string `json:"url"`
	Path string `json:"path"`
}

// FetchQuote pulls the current quote from the source and stamps it on
// today. A nil client uses the shared daily-caching one.
func FetchQuote(client *http.Client, src QuoteSource) (PricePoint, error) {
	if err := src.ID.Validate(); err != nil {
		return PricePoint{}, err
	}
	if client == nil {
		client = daily()
	}

	var jobj any
	if err := jwget(client, src.URL, &jobj); err != nil {
		return PricePoint{}, fmt.Errorf("error retrieving %q: %w", src.ID, err)
	}

	jval, err := jsonpath.Get(src.Path, jobj)
	if err != nil {
		return PricePoint{}, fmt.Errorf("error parsing %q: %q %w", src.ID, src.Path, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	val, ok := jval.(float64)
	if !ok {
		// Some of these endpoints return the number as a localized
		// string.
		sval, ok := jval.(string)
		if !ok {
			return PricePoint{}, fmt.Errorf("cannot read value for %q: neither a float nor a string at %q", src.ID, src.Path)
		}
		sval = strings.ReplaceAll(sval, ",", ".")
		sval = strings.ReplaceAll(sval, " ", "")
		val, err = strconv.ParseFloat(sval, 64)
		if err != nil {
			return PricePoint{}, fmt.Errorf("cannot read value for %q: invalid string %q: %w", src.ID, sval, err)
		}
	}
	if val <= 0 {
		return PricePoint{}, fmt.Errorf("empty quote for %q: no value to return", src.ID)
	}
	return PricePoint{ID: src.ID, On: date.Today(), Price: val}, nil
}
