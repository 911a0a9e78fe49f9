package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/perform"
)

// ValuationMarkdown renders one entity's valuation with its per-holding
// detail. Unpriced holdings stay in the table with their gap visible;
// they are excluded from the total, never silently dropped.
func ValuationMarkdown(v perform.Valuation, details []perform.HoldingValue) string {
	w := &strings.Builder{}
	fmt.Fprintf(w, "# Valuation of %s on %s\n\n", v.Entity, v.On)

	fmt.Fprint(w, "| Security | Instrument | Quantity | Price | Value |\n")
	fmt.Fprint(w, "|:---|:---|---:|---:|---:|\n")
	for _, d := range details {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			d.Resolved.Name, instrumentCell(d), d.Quantity, priceCell(d), money(d.Value))
	}
	fmt.Fprintln(w, "")

	fmt.Fprintf(w, "Total Value: **%s**\n\n", v.Value)
	fmt.Fprintf(w, "Coverage: %s of the held quantity had a price.\n", coverage(v.Coverage()))
	return w.String()
}

func instrumentCell(d perform.HoldingValue) string {
	switch d.Resolved.Confidence {
	case perform.Exact:
		return string(d.Resolved.ID)
	case perform.Fuzzy:
		return fmt.Sprintf("%s (fuzzy %.2f, %q)", d.Resolved.ID, d.Resolved.Score, d.Resolved.Matched)
	default:
		if d.Resolved.Matched != "" {
			return fmt.Sprintf("unresolved (best %q at %.2f)", d.Resolved.Matched, d.Resolved.Score)
		}
		return "unresolved"
	}
}

func priceCell(d perform.HoldingValue) string {
	if !d.Priced {
		return "no price"
	}
	return d.Price.String()
}
