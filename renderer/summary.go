package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/etnz/perform"
)

// SummaryMarkdown renders per-entity metrics, one section per entity.
// Undefined metrics print as "n/a": an entity with one month of history
// has nothing to summarize and the report says so instead of showing
// zeros.
func SummaryMarkdown(metrics []perform.Metrics) string {
	w := &strings.Builder{}
	fmt.Fprintf(w, "# Performance Summary\n\n")
	if len(metrics) == 0 {
		fmt.Fprintf(w, "No entity has monthly data yet.\n")
		return w.String()
	}
	for _, m := range metrics {
		summarizeEntity(w, m)
	}
	return w.String()
}

func summarizeEntity(w *strings.Builder, m perform.Metrics) {
	fmt.Fprintf(w, "## %s\n\n", m.Entity)
	if m.Months == 0 {
		fmt.Fprintf(w, "No monthly data.\n\n")
		return
	}
	fmt.Fprintf(w, "%d months, %s to %s\n\n", m.Months, m.First, m.Last)

	fmt.Fprint(w, "| Metric | Value |\n")
	fmt.Fprint(w, "|:---|---:|\n")
	fmt.Fprintf(w, "| Cumulative Return | %s |\n", m.Cumulative.SignedString())
	fmt.Fprintf(w, "| Average Monthly Return | %s |\n", m.AverageMonthly.SignedString())
	fmt.Fprintf(w, "| Volatility (3 months) | %s |\n", m.Volatility.String())
	fmt.Fprintf(w, "| Max Drawdown | %s |\n", m.MaxDrawdown.SignedString())
	if m.Best.Return.IsDefined() {
		fmt.Fprintf(w, "| Best Month | %s (%s) |\n", m.Best.Month, m.Best.Return.SignedString())
		fmt.Fprintf(w, "| Worst Month | %s (%s) |\n", m.Worst.Month, m.Worst.Return.SignedString())
	}
	fmt.Fprintf(w, "| Latest Direction | %s |\n", m.Direction)

	outperformed := make([]string, 0, len(m.Outperformed))
	for b := range m.Outperformed {
		outperformed = append(outperformed, b)
	}
	sort.Strings(outperformed)
	for _, b := range outperformed {
		fmt.Fprintf(w, "| Months Outperforming %s | %d |\n", b, m.Outperformed[b])
	}
	fmt.Fprintln(w, "")
}
