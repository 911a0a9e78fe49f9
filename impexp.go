package perform

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// This file contains functions to handle the import/export format for
// holdings. It should remain human readable, a single file, and easy to
// produce from any spreadsheet.

// holdingsHeader is the column layout of the import/export format.
var holdingsHeader = [3]string{"investor", "security", "quantity"}

// ImportHoldings imports holdings from 'r' in the import/export format.
//
// The format is a CSV file with columns investor, security and quantity,
// one holding per row. A leading header row is recognized and skipped.
// Security names are kept verbatim: matching them to instruments is the
// resolver's job, not the importer's.
func ImportHoldings(r io.Reader) ([]Portfolio, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(holdingsHeader)
	cr.TrimLeadingSpace = true

	var holdings []Holding
	first := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse holdings import format: %w", err)
		}
		if first {
			first = false
			if isHoldingsHeader(record) {
				continue
			}
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("cannot parse quantity %q for %q: %w", record[2], record[1], err)
		}
		holdings = append(holdings, Holding{
			Entity:   strings.TrimSpace(record[0]),
			Security: strings.TrimSpace(record[1]),
			Quantity: Q(quantity),
		})
	}
	return groupByEntity(holdings), nil
}

func isHoldingsHeader(record []string) bool {
	for i, name := range holdingsHeader {
		if !strings.EqualFold(strings.TrimSpace(record[i]), name) {
			return false
		}
	}
	return true
}

// ExportHoldings exports portfolios to 'w' in the import/export format,
// header row included.
func ExportHoldings(w io.Writer, portfolios []Portfolio) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(holdingsHeader[:]); err != nil {
		return fmt.Errorf("cannot write holdings export format: %w", err)
	}
	for _, p := range portfolios {
		for _, h := range p.Holdings {
			record := []string{h.Entity, h.Security, h.Quantity.String()}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("cannot write holdings export format: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
