package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/etnz/perform"
	"github.com/etnz/perform/date"
)

// ComparisonMarkdown renders the aligned comparison as a cumulative-return
// matrix (months down, entities across) followed by the standings of the
// latest month. A "n/a" cell is an entity without usable data that month;
// the shared timeline never shrinks to hide it.
func ComparisonMarkdown(rows []perform.ComparisonRow, benchmarks []string) string {
	w := &strings.Builder{}
	fmt.Fprintf(w, "# Performance Comparison\n\n")
	if len(rows) == 0 {
		fmt.Fprintf(w, "No monthly data to compare.\n")
		return w.String()
	}

	months, entities, cells := index(rows)

	// Matrix section.
	fmt.Fprintf(w, "## Cumulative Return by Month\n\n")
	fmt.Fprint(w, "| Month |")
	for _, e := range entities {
		fmt.Fprintf(w, " %s |", e)
	}
	fmt.Fprintln(w, "")
	fmt.Fprint(w, "|:---|")
	for range entities {
		fmt.Fprint(w, "---:|")
	}
	fmt.Fprintln(w, "")
	for _, m := range months {
		fmt.Fprintf(w, "| %s |", m)
		for _, e := range entities {
			if row, ok := cells[cellKey{m, e}]; ok {
				fmt.Fprintf(w, " %s |", row.Cumulative.SignedString())
			} else {
				fmt.Fprint(w, " n/a |")
			}
		}
		fmt.Fprintln(w, "")
	}
	fmt.Fprintln(w, "")

	// Standings of the latest month.
	latest := months[len(months)-1]
	fmt.Fprintf(w, "## Standings %s\n\n", latest)
	fmt.Fprint(w, "| Rank | Entity | Value | Cumulative |")
	for _, col := range alphaColumns(benchmarks) {
		fmt.Fprintf(w, " %s |", col)
	}
	fmt.Fprintln(w, "")
	fmt.Fprint(w, "|---:|:---|---:|---:|")
	for range benchmarks {
		fmt.Fprint(w, "---:|")
	}
	fmt.Fprintln(w, "")

	standings := make([]perform.ComparisonRow, 0, len(entities))
	for _, e := range entities {
		if row, ok := cells[cellKey{latest, e}]; ok {
			standings = append(standings, row)
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		ri, rj := standings[i].Rank, standings[j].Rank
		if ri == 0 {
			return false // unrankable entities sink to the bottom
		}
		if rj == 0 {
			return true
		}
		return ri < rj
	})
	for _, row := range standings {
		fmt.Fprintf(w, "| %s | %s | %s | %s |", rank(row.Rank), row.Entity, money(row.Value), row.Cumulative.SignedString())
		for _, b := range benchmarks {
			fmt.Fprintf(w, " %s |", row.Alpha[b].SignedString())
		}
		fmt.Fprintln(w, "")
	}
	return w.String()
}

type cellKey struct {
	month  date.Month
	entity string
}

// index splits rows into their month axis, entity axis and cell lookup.
func index(rows []perform.ComparisonRow) (months []date.Month, entities []string, cells map[cellKey]perform.ComparisonRow) {
	cells = make(map[cellKey]perform.ComparisonRow, len(rows))
	seenEntity := make(map[string]bool)
	for _, row := range rows {
		if len(months) == 0 || months[len(months)-1] != row.Month {
			months = append(months, row.Month)
		}
		if !seenEntity[row.Entity] {
			seenEntity[row.Entity] = true
			entities = append(entities, row.Entity)
		}
		cells[cellKey{row.Month, row.Entity}] = row
	}
	sort.Strings(entities)
	return months, entities, cells
}
