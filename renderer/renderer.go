// Package renderer formats the engine's outcomes as markdown documents:
// the comparison matrix and standings, per-entity summaries, valuation
// detail, performance series and the data gap report.
//
// Rendering is presentation only. Every number is computed by the engine;
// the renderer decides layout and labels, nothing else.
package renderer

import (
	"fmt"

	"github.com/etnz/perform"
)

// rank formats a competition rank, "-" for an entity that cannot be
// ranked.
func rank(r int) string {
	if r == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", r)
}

// coverage formats a coverage fraction as a percentage.
func coverage(f float64) string {
	return fmt.Sprintf("%.1f%%", 100*f)
}

// alphaColumns returns the benchmark columns of a row set in header order.
func alphaColumns(benchmarks []string) []string {
	cols := make([]string, 0, len(benchmarks))
	for _, b := range benchmarks {
		cols = append(cols, "Alpha vs "+b)
	}
	return cols
}

// money formats a Money cell, "-" when the value is zero-valued (an
// unpriced cell, not a zero price).
func money(m perform.Money) string {
	if m.IsZero() && m.Currency() == "" {
		return "-"
	}
	return m.String()
}
