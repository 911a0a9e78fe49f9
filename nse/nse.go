// Package nse imports the daily bhavcopy files published by the National
// Stock Exchange of India.
//
// A bhavcopy is one CSV per trading day listing every traded security with
// its closing price. Parsing one file bulk-loads a full day of closes, which
// is the cheapest way to backfill a market store without an API key.
package nse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
)

// Exchange is the exchange code of ids minted from bhavcopy rows.
const Exchange = "NSE"

// equitySeries are the NSE series carrying ordinary equity closes. Debt,
// government-security and rights series are skipped.
var equitySeries = map[string]bool{"EQ": true, "BE": true, "SM": true}

// bhavcopy columns appear under different names depending on the file
// generation; both the classic cm*bhav.csv and the sec_bhavdata_full
// layout are accepted.
var (
	symbolColumns = []string{"SYMBOL"}
	seriesColumns = []string{"SERIES"}
	closeColumns  = []string{"CLOSE", "CLOSE_PRICE"}
	dateColumns   = []string{"TIMESTAMP", "DATE1"}
)

// bhavcopyDateLayout matches dates like 30-APR-2024.
const bhavcopyDateLayout = "02-Jan-2006"

// ParseBhavcopy reads one daily bhavcopy CSV and returns the equity closes
// as price points. Rows of non-equity series are skipped; rows with an
// unusable symbol or close are skipped with a warning, one bad row never
// rejects the file.
func ParseBhavcopy(r io.Reader) ([]perform.PricePoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read bhavcopy header: %w", err)
	}
	symbol, err := columnIndex(header, symbolColumns)
	if err != nil {
		return nil, err
	}
	series, err := columnIndex(header, seriesColumns)
	if err != nil {
		return nil, err
	}
	closePrice, err := columnIndex(header, closeColumns)
	if err != nil {
		return nil, err
	}
	day, err := columnIndex(header, dateColumns)
	if err != nil {
		return nil, err
	}
	width := max(symbol, series, closePrice, day) + 1

	var points []perform.PricePoint
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse bhavcopy: %w", err)
		}
		if len(record) < width {
			continue
		}
		if !equitySeries[strings.TrimSpace(record[series])] {
			continue
		}

		sym := strings.TrimSpace(record[symbol])
		id, err := perform.NewID(sym, Exchange)
		if err != nil {
			log.Printf("skipping bhavcopy row %q: %v", sym, err)
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[closePrice]), 64)
		if err != nil || price <= 0 {
			log.Printf("skipping bhavcopy row %q: unusable close %q", sym, record[closePrice])
			continue
		}
		t, err := time.Parse(bhavcopyDateLayout, strings.TrimSpace(record[day]))
		if err != nil {
			log.Printf("skipping bhavcopy row %q: unusable date %q", sym, record[day])
			continue
		}

		points = append(points, perform.PricePoint{
			ID:    id,
			On:    date.New(t.Date()),
			Price: price,
		})
	}
	return points, nil
}

// columnIndex finds the first of the candidate column names in the header.
func columnIndex(header []string, candidates []string) (int, error) {
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(name))
		for _, candidate := range candidates {
			if name == candidate {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("bhavcopy header misses a %s column", candidates[0])
}
